// Package instruction decodes the wire format every entrypoint call begins
// with: a one-byte tag followed by a payload tail whose shape depends on
// the tag (spec.md §6, "Instruction wire format"). It knows nothing about
// accounts, state, or authorization — that is the router's job — it only
// turns a raw byte buffer into a typed Go value or returns
// errs.InvalidInstructionData/errs.UnknownInstruction.
package instruction

import (
	"github.com/nifty-labs/entries-program/block"
	"github.com/nifty-labs/entries-program/errs"
	"github.com/nifty-labs/entries-program/pkg/encodbin"
	"github.com/nifty-labs/entries-program/solana"
)

// Tag identifies which instruction a buffer encodes.
type Tag uint8

const (
	TagInitialize               Tag = 0
	TagSetAdmin                 Tag = 1
	TagCreateBlock              Tag = 3
	TagAddEntriesToBlock        Tag = 4
	TagRevealEntries            Tag = 6
	TagSetBlockCommission       Tag = 7
	TagTakeCommissionOrDelegate Tag = 8
	TagBuy                      Tag = 9
	TagBid                      Tag = 10
	TagClaimWinning             Tag = 11
	TagClaimLosing              Tag = 12
	TagDestake                  Tag = 13
	TagStake                    Tag = 14
	TagHarvest                  Tag = 15
	TagLevelUp                  Tag = 16
	TagSplitMasterStake         Tag = 17
	TagAddWhitelistEntries      Tag = 18
	TagDeleteWhitelist          Tag = 19
)

// PeekTag reads only the leading tag byte, letting the router decide how
// many accounts it expects before decoding the rest of the payload.
func PeekTag(data []byte) (Tag, error) {
	if len(data) < 1 {
		return 0, errs.InvalidInstructionData
	}
	return Tag(data[0]), nil
}

// Initialize is tag 0's payload: the admin address to install.
type Initialize struct {
	Admin solana.PublicKey
}

func DecodeInitialize(dec *encodbin.Decoder) (*Initialize, error) {
	admin, err := dec.ReadPubkey()
	if err != nil {
		return nil, errs.InvalidInstructionData
	}
	return &Initialize{Admin: solana.PublicKey(admin)}, nil
}

// SetAdmin is tag 1's payload: the new admin address.
type SetAdmin struct {
	Admin solana.PublicKey
}

func DecodeSetAdmin(dec *encodbin.Decoder) (*SetAdmin, error) {
	admin, err := dec.ReadPubkey()
	if err != nil {
		return nil, errs.InvalidInstructionData
	}
	return &SetAdmin{Admin: solana.PublicKey(admin)}, nil
}

// CreateBlock is tag 3's payload: the block's initial commission and its
// full configuration.
type CreateBlock struct {
	InitialCommission uint16
	Configuration     block.Configuration
}

func DecodeCreateBlock(dec *encodbin.Decoder) (*CreateBlock, error) {
	commission, err := dec.ReadUint16()
	if err != nil {
		return nil, errs.InvalidInstructionData
	}
	cb := &CreateBlock{InitialCommission: commission}
	if err := dec.Decode(&cb.Configuration); err != nil {
		return nil, errs.InvalidInstructionData
	}
	return cb, nil
}

// AddEntriesToBlock is tag 4's payload: the shared URI template, the
// second creator every minted entry's metadata carries, the index of the
// first entry this call provisions, and one sha256 commitment per entry.
// entryCount is supplied by the caller, derived from the declared account
// list ("one quadruple of accounts per entry", spec.md §6), since the
// wire format itself carries no explicit count.
type AddEntriesToBlock struct {
	URI           string
	SecondCreator solana.PublicKey
	FirstEntry    uint16
	Commitments   [][32]byte
}

const uriFieldLength = 200

func DecodeAddEntriesToBlock(dec *encodbin.Decoder, entryCount int) (*AddEntriesToBlock, error) {
	uriBytes, err := dec.ReadFixedBytes(uriFieldLength)
	if err != nil {
		return nil, errs.InvalidInstructionData
	}
	secondCreator, err := dec.ReadPubkey()
	if err != nil {
		return nil, errs.InvalidInstructionData
	}
	firstEntry, err := dec.ReadUint16()
	if err != nil {
		return nil, errs.InvalidInstructionData
	}
	commitments := make([][32]byte, entryCount)
	for i := 0; i < entryCount; i++ {
		h, err := dec.ReadFixedBytes(32)
		if err != nil {
			return nil, errs.InvalidInstructionData
		}
		copy(commitments[i][:], h)
	}
	return &AddEntriesToBlock{
		URI:           trimTrailingZeroes(uriBytes),
		SecondCreator: solana.PublicKey(secondCreator),
		FirstEntry:    firstEntry,
		Commitments:   commitments,
	}, nil
}

func trimTrailingZeroes(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return string(b[:end])
}

// RevealEntries is tag 6's payload: the index of the first entry being
// revealed and one salt per entry ("one pair per entry", spec.md §6).
type RevealEntries struct {
	FirstEntry uint16
	Salts      []uint64
}

func DecodeRevealEntries(dec *encodbin.Decoder, entryCount int) (*RevealEntries, error) {
	firstEntry, err := dec.ReadUint16()
	if err != nil {
		return nil, errs.InvalidInstructionData
	}
	salts := make([]uint64, entryCount)
	for i := 0; i < entryCount; i++ {
		if salts[i], err = dec.ReadUint64(); err != nil {
			return nil, errs.InvalidInstructionData
		}
	}
	return &RevealEntries{FirstEntry: firstEntry, Salts: salts}, nil
}

// SetBlockCommission is tag 7's payload: the proposed new commission.
type SetBlockCommission struct {
	Commission uint16
}

func DecodeSetBlockCommission(dec *encodbin.Decoder) (*SetBlockCommission, error) {
	commission, err := dec.ReadUint16()
	if err != nil {
		return nil, errs.InvalidInstructionData
	}
	return &SetBlockCommission{Commission: commission}, nil
}

// Buy is tag 9's payload: the buyer's slippage ceiling.
type Buy struct {
	MaxPrice uint64
}

func DecodeBuy(dec *encodbin.Decoder) (*Buy, error) {
	maxPrice, err := dec.ReadUint64()
	if err != nil {
		return nil, errs.InvalidInstructionData
	}
	return &Buy{MaxPrice: maxPrice}, nil
}

// Bid is tag 10's payload: the bidder's floor and ceiling.
type Bid struct {
	MinBid uint64
	MaxBid uint64
}

func DecodeBid(dec *encodbin.Decoder) (*Bid, error) {
	minBid, err := dec.ReadUint64()
	if err != nil {
		return nil, errs.InvalidInstructionData
	}
	maxBid, err := dec.ReadUint64()
	if err != nil {
		return nil, errs.InvalidInstructionData
	}
	return &Bid{MinBid: minBid, MaxBid: maxBid}, nil
}

// Destake is tag 13's payload: the address to hand stake/withdraw
// authority to once the entry's stake is released.
type Destake struct {
	NewWithdrawAuthority solana.PublicKey
}

func DecodeDestake(dec *encodbin.Decoder) (*Destake, error) {
	addr, err := dec.ReadPubkey()
	if err != nil {
		return nil, errs.InvalidInstructionData
	}
	return &Destake{NewWithdrawAuthority: solana.PublicKey(addr)}, nil
}

// SplitMasterStake is tag 17's payload: the lamport amount to split off,
// or 0 to mean "as much as possible".
type SplitMasterStake struct {
	Lamports uint64
}

func DecodeSplitMasterStake(dec *encodbin.Decoder) (*SplitMasterStake, error) {
	lamports, err := dec.ReadUint64()
	if err != nil {
		return nil, errs.InvalidInstructionData
	}
	return &SplitMasterStake{Lamports: lamports}, nil
}

// AddWhitelistEntries is tag 18's payload: a declared count followed by a
// fixed 28-pubkey tail, of which only the first Count entries are live
// (the remainder is zeroed padding, spec.md §6).
const addWhitelistEntriesTailLength = 28

type AddWhitelistEntries struct {
	Count   uint16
	Entries []solana.PublicKey
}

func DecodeAddWhitelistEntries(dec *encodbin.Decoder) (*AddWhitelistEntries, error) {
	count, err := dec.ReadUint16()
	if err != nil {
		return nil, errs.InvalidInstructionData
	}
	entries := make([]solana.PublicKey, addWhitelistEntriesTailLength)
	for i := range entries {
		b, err := dec.ReadPubkey()
		if err != nil {
			return nil, errs.InvalidInstructionData
		}
		entries[i] = solana.PublicKey(b)
	}
	if int(count) > addWhitelistEntriesTailLength {
		return nil, errs.InvalidInstructionData
	}
	return &AddWhitelistEntries{Count: count, Entries: entries[:count]}, nil
}
