// Package whitelist implements the per-block allowlist store (C6): an
// idempotent, append-only add, a linear-scan consume-on-use check, and a
// delete that only succeeds once the list is drained or its phase has
// ended. Grounded on original_source/program/util/util_whitelist.c and the
// persisted layout in spec.md §6 ("Whitelist{u8 data_type, u16 count,
// pubkey[300]}").
package whitelist

import (
	"github.com/nifty-labs/entries-program/constants"
	"github.com/nifty-labs/entries-program/errs"
	"github.com/nifty-labs/entries-program/pkg/encodbin"
	"github.com/nifty-labs/entries-program/solana"
)

const DataType uint8 = 4

// AccountSize is the fixed on-chain size of a Whitelist account: the tag
// byte, the u16 count, and the fixed 300-entry pubkey array.
const AccountSize = 1 + 2 + constants.WhitelistMaxEntries*solana.PublicKeyLength

// Whitelist is the decoded form of a Whitelist account.
type Whitelist struct {
	DataType uint8
	Count    uint16
	Entries  [constants.WhitelistMaxEntries]solana.PublicKey
}

func New() *Whitelist {
	return &Whitelist{DataType: DataType}
}

func Decode(data []byte) (*Whitelist, error) {
	dec := encodbin.NewBinDecoder(data)
	w := &Whitelist{}

	dataType, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	w.DataType = dataType
	if w.DataType != DataType {
		return nil, errs.WrongDataType
	}

	if w.Count, err = dec.ReadUint16(); err != nil {
		return nil, err
	}
	for i := 0; i < constants.WhitelistMaxEntries; i++ {
		pk, err := dec.ReadPubkey()
		if err != nil {
			return nil, err
		}
		w.Entries[i] = solana.PublicKey(pk)
	}
	return w, nil
}

func (w *Whitelist) Encode() ([]byte, error) {
	return encodbin.MarshalBin(w)
}

func (w *Whitelist) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint8(DataType); err != nil {
		return err
	}
	if err := enc.WriteUint16(w.Count); err != nil {
		return err
	}
	for _, pk := range w.Entries {
		if err := enc.WritePubkey(pk); err != nil {
			return err
		}
	}
	return nil
}

// Add appends pubkeys to the list, failing once capacity would be
// exceeded. Duplicate addresses are not rejected; the original semantics
// treat the list as a plain bag, relying on check_and_consume's
// swap-remove to retire one occurrence per successful buy.
func (w *Whitelist) Add(pubkeys []solana.PublicKey) error {
	if int(w.Count)+len(pubkeys) > constants.WhitelistMaxEntries {
		return errs.WhitelistFull
	}
	for _, pk := range pubkeys {
		w.Entries[w.Count] = pk
		w.Count++
	}
	return nil
}

// CheckAndConsume linearly scans for buyer, swap-removing it on the first
// match found (copying the last live entry into the matched slot and
// decrementing count) and returning true. If the whitelist has zero
// entries, the check trivially succeeds without consuming anything, since
// an empty whitelist means "no restriction" rather than "nobody allowed".
func (w *Whitelist) CheckAndConsume(buyer solana.PublicKey) bool {
	if w.Count == 0 {
		return true
	}
	for i := uint16(0); i < w.Count; i++ {
		if w.Entries[i] == buyer {
			last := w.Count - 1
			w.Entries[i] = w.Entries[last]
			w.Entries[last] = solana.PublicKeyZero
			w.Count--
			return true
		}
	}
	return false
}

// CanDelete reports whether the list may be deleted and its lamports
// reclaimed: either it has been drained, or the block's whitelist phase
// has already ended.
func CanDelete(count uint16, whitelistPhaseEnded bool) bool {
	return count == 0 || whitelistPhaseEnded
}
