// Package stakeprogram decodes the external stake program's account layout
// (C2) and adapts its instruction contract (C5): initialize, delegate,
// deactivate, split, merge, withdraw, set authority, and the minimum
// delegation query. The teacher's SDK carries no stake-program support at
// all, so both halves of this package are new, grounded on
// original_source/program's stake-account handling and on the explicit,
// non-reflective decode idiom the teacher uses elsewhere for structured
// account data (pkg/encodbin).
package stakeprogram

import (
	"fmt"
	"math"

	"github.com/nifty-labs/entries-program/pkg/encodbin"
	"github.com/nifty-labs/entries-program/solana"
)

// AccountSize is the fixed external stake-account data length (spec.md
// §4.2: "a fixed-length (200-byte) external stake account").
const AccountSize = 200

type StateTag uint32

const (
	StateUninitialized StateTag = iota
	StateInitialized
	StateStake
	StateRewardsPool
)

// Meta carries the rent-exempt reserve, authorities, and lockup that are
// present whenever a stake account is at least Initialized.
type Meta struct {
	RentExemptReserve   uint64
	Staker              solana.PublicKey
	Withdrawer          solana.PublicKey
	LockupUnixTimestamp int64
	LockupEpoch         uint64
	LockupCustodian     solana.PublicKey
}

// Delegation carries the fields needed to track a stake's current earnings
// and lifecycle, present only once the account is fully delegated.
type Delegation struct {
	VoterPubkey        solana.PublicKey
	Stake              uint64
	ActivationEpoch    uint64
	DeactivationEpoch  uint64
	WarmupCooldownRate float64 // opaque per spec.md §4.2; carried but never interpreted here
	CreditsObserved    uint64
}

// Stake is the decoded, tagged-union form of an external stake account.
type Stake struct {
	State      StateTag
	Meta       Meta
	Delegation Delegation
}

func (s *Stake) IsDelegated() bool {
	return s.State == StateStake
}

// Decode parses a fixed-size external stake account into a Stake value. It
// fails with a wrapped error if the data is not exactly AccountSize bytes,
// mirroring spec.md §4.2's "InvalidStakeAccount if owner is not the
// external stake program or size is wrong" (the owner check is the caller's
// responsibility, since Decode only ever sees the account's data).
func Decode(data []byte) (*Stake, error) {
	if len(data) != AccountSize {
		return nil, fmt.Errorf("stakeprogram: invalid stake account size %d, want %d", len(data), AccountSize)
	}

	dec := encodbin.NewBinDecoder(data)

	tag, err := dec.ReadUint32()
	if err != nil {
		return nil, err
	}

	s := &Stake{State: StateTag(tag)}
	if s.State == StateUninitialized || s.State == StateRewardsPool {
		return s, nil
	}

	if err := decodeMeta(dec, &s.Meta); err != nil {
		return nil, err
	}

	if s.State == StateInitialized {
		return s, nil
	}

	if err := decodeDelegation(dec, &s.Delegation); err != nil {
		return nil, err
	}

	return s, nil
}

func decodeMeta(dec *encodbin.Decoder, m *Meta) (err error) {
	if m.RentExemptReserve, err = dec.ReadUint64(); err != nil {
		return err
	}
	staker, err := dec.ReadPubkey()
	if err != nil {
		return err
	}
	m.Staker = solana.PublicKey(staker)
	withdrawer, err := dec.ReadPubkey()
	if err != nil {
		return err
	}
	m.Withdrawer = solana.PublicKey(withdrawer)
	if m.LockupUnixTimestamp, err = dec.ReadInt64(); err != nil {
		return err
	}
	if m.LockupEpoch, err = dec.ReadUint64(); err != nil {
		return err
	}
	custodian, err := dec.ReadPubkey()
	if err != nil {
		return err
	}
	m.LockupCustodian = solana.PublicKey(custodian)
	return nil
}

func decodeDelegation(dec *encodbin.Decoder, d *Delegation) (err error) {
	voter, err := dec.ReadPubkey()
	if err != nil {
		return err
	}
	d.VoterPubkey = solana.PublicKey(voter)
	if d.Stake, err = dec.ReadUint64(); err != nil {
		return err
	}
	if d.ActivationEpoch, err = dec.ReadUint64(); err != nil {
		return err
	}
	if d.DeactivationEpoch, err = dec.ReadUint64(); err != nil {
		return err
	}
	bits, err := dec.ReadUint64()
	if err != nil {
		return err
	}
	d.WarmupCooldownRate = math.Float64frombits(bits)
	if d.CreditsObserved, err = dec.ReadUint64(); err != nil {
		return err
	}
	return nil
}

// MarshalWithEncoder writes a Stake value back out in the same field order
// Decode reads them in. Used by Encode, and by test/simulation harnesses
// that need to turn a Stake back into raw account bytes after mutating it.
func (s *Stake) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint32(uint32(s.State)); err != nil {
		return err
	}
	if s.State == StateUninitialized || s.State == StateRewardsPool {
		return nil
	}
	if err := encodeMeta(enc, &s.Meta); err != nil {
		return err
	}
	if s.State == StateInitialized {
		return nil
	}
	return encodeDelegation(enc, &s.Delegation)
}

// Encode packs s back into a full AccountSize-byte stake account, padding
// with zeroes past whatever fields its state tag calls for. The inverse of
// Decode.
func (s *Stake) Encode() []byte {
	data, err := encodbin.MarshalBin(s)
	if err != nil {
		panic(err) // Stake's marshaling never returns an error of its own.
	}
	out := make([]byte, AccountSize)
	copy(out, data)
	return out
}

func encodeMeta(enc *encodbin.Encoder, m *Meta) error {
	if err := enc.WriteUint64(m.RentExemptReserve); err != nil {
		return err
	}
	if err := enc.WritePubkey(m.Staker); err != nil {
		return err
	}
	if err := enc.WritePubkey(m.Withdrawer); err != nil {
		return err
	}
	if err := enc.WriteInt64(m.LockupUnixTimestamp); err != nil {
		return err
	}
	if err := enc.WriteUint64(m.LockupEpoch); err != nil {
		return err
	}
	return enc.WritePubkey(m.LockupCustodian)
}

func encodeDelegation(enc *encodbin.Encoder, d *Delegation) error {
	if err := enc.WritePubkey(d.VoterPubkey); err != nil {
		return err
	}
	if err := enc.WriteUint64(d.Stake); err != nil {
		return err
	}
	if err := enc.WriteUint64(d.ActivationEpoch); err != nil {
		return err
	}
	if err := enc.WriteUint64(d.DeactivationEpoch); err != nil {
		return err
	}
	if err := enc.WriteUint64(math.Float64bits(d.WarmupCooldownRate)); err != nil {
		return err
	}
	return enc.WriteUint64(d.CreditsObserved)
}
