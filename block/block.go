package block

import (
	"github.com/nifty-labs/entries-program/errs"
	"github.com/nifty-labs/entries-program/pkg/encodbin"
)

const DataType uint8 = 2

// Block is the decoded form of a Block account: its immutable
// configuration plus the mutable aggregates the sale/reveal/commission
// controllers advance.
type Block struct {
	DataType uint8
	Config   Configuration

	AddedEntriesCount         uint16
	BlockStartTimestamp       int64
	MysteriesSoldCount        uint16
	MysteryPhaseEndTimestamp  int64
	Commission                uint16
	LastCommissionChangeEpoch uint64

	EntriesAddedBitmap []byte
}

// bitmapLength returns ⌈totalEntryCount/8⌉+1, the padded bitmap size
// spec.md §3 specifies.
func bitmapLength(totalEntryCount uint16) int {
	return (int(totalEntryCount)+7)/8 + 1
}

// AccountSize returns the fixed size of a Block account for the given
// total entry count.
func AccountSize(totalEntryCount uint16) int {
	// data_type + config + 2(u16) + 8(i64) + 2(u16) + 8(i64) + 2(u16) + 8(u64) + bitmap
	const configSize = 4 + 4 + 2 + 2 + 4 + 8 + 4 + 8 + 1 + 4 + 8 + 4
	return 1 + configSize + 2 + 8 + 2 + 8 + 2 + 8 + bitmapLength(totalEntryCount)
}

// New constructs a freshly validated block ready to be persisted. It does
// not touch any clock-derived field; those are set by AddEntries once the
// block becomes complete.
func New(config Configuration, bidRentExemptMinimum uint64) (*Block, error) {
	if err := config.Validate(bidRentExemptMinimum); err != nil {
		return nil, err
	}
	return &Block{
		DataType:           DataType,
		Config:             config,
		EntriesAddedBitmap: make([]byte, bitmapLength(config.TotalEntryCount)),
	}, nil
}

func Decode(data []byte) (*Block, error) {
	dec := encodbin.NewBinDecoder(data)
	b := &Block{}

	dataType, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	b.DataType = dataType
	if b.DataType != DataType {
		return nil, errs.WrongDataType
	}

	if err := b.Config.UnmarshalWithDecoder(dec); err != nil {
		return nil, err
	}

	if b.AddedEntriesCount, err = dec.ReadUint16(); err != nil {
		return nil, err
	}
	if b.BlockStartTimestamp, err = dec.ReadInt64(); err != nil {
		return nil, err
	}
	if b.MysteriesSoldCount, err = dec.ReadUint16(); err != nil {
		return nil, err
	}
	if b.MysteryPhaseEndTimestamp, err = dec.ReadInt64(); err != nil {
		return nil, err
	}
	if b.Commission, err = dec.ReadUint16(); err != nil {
		return nil, err
	}
	if b.LastCommissionChangeEpoch, err = dec.ReadUint64(); err != nil {
		return nil, err
	}

	bitmap, err := dec.ReadFixedBytes(bitmapLength(b.Config.TotalEntryCount))
	if err != nil {
		return nil, err
	}
	b.EntriesAddedBitmap = bitmap

	return b, nil
}

func (b *Block) Encode() ([]byte, error) {
	return encodbin.MarshalBin(b)
}

func (b *Block) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint8(DataType); err != nil {
		return err
	}
	if err := b.Config.MarshalWithEncoder(enc); err != nil {
		return err
	}
	if err := enc.WriteUint16(b.AddedEntriesCount); err != nil {
		return err
	}
	if err := enc.WriteInt64(b.BlockStartTimestamp); err != nil {
		return err
	}
	if err := enc.WriteUint16(b.MysteriesSoldCount); err != nil {
		return err
	}
	if err := enc.WriteInt64(b.MysteryPhaseEndTimestamp); err != nil {
		return err
	}
	if err := enc.WriteUint16(b.Commission); err != nil {
		return err
	}
	if err := enc.WriteUint64(b.LastCommissionChangeEpoch); err != nil {
		return err
	}
	return enc.WriteBytes(b.EntriesAddedBitmap)
}

func (b *Block) IsComplete() bool {
	return b.AddedEntriesCount == b.Config.TotalEntryCount
}

// IsRevealable reports whether the block may be revealed: every mystery
// has sold, or the mystery phase has expired (spec.md §4.5).
func (b *Block) IsRevealable(nowUnix int64) bool {
	if b.MysteriesSoldCount == b.Config.TotalMysteryCount {
		return true
	}
	return nowUnix > b.BlockStartTimestamp+int64(b.Config.MysteryPhaseDuration)
}

func (b *Block) bitSet(index uint16) bool {
	return b.EntriesAddedBitmap[index/8]&(1<<(index%8)) != 0
}

func (b *Block) setBit(index uint16) {
	b.EntriesAddedBitmap[index/8] |= 1 << (index % 8)
}

// AddEntries marks entries[firstEntry..firstEntry+n) as provisioned. It is
// idempotent and parallel-safe: already-set bits are skipped so a replayed
// or overlapping call never double-counts. callback(i) is invoked once per
// index that transitions from unset to set, so the caller can perform the
// corresponding per-entry account creation exactly once. now and epoch are
// used to stamp the block's clock-derived fields the instant the block
// becomes complete.
func (b *Block) AddEntries(firstEntry uint16, n uint16, now int64, epoch uint64, callback func(index uint16) error) error {
	for i := firstEntry; i < firstEntry+n; i++ {
		if b.bitSet(i) {
			continue
		}
		if callback != nil {
			if err := callback(i); err != nil {
				return err
			}
		}
		b.setBit(i)
		b.AddedEntriesCount++
	}

	if b.IsComplete() && b.BlockStartTimestamp == 0 {
		b.BlockStartTimestamp = now
		if b.Config.TotalMysteryCount == 0 {
			b.MysteryPhaseEndTimestamp = now
		}
		b.LastCommissionChangeEpoch = epoch
	}

	return nil
}

// SetCommission enforces the commission-change cap (spec.md §4.7): at most
// one change per epoch, and the increase bounded by
// constants.MaxCommissionIncreasePerEpoch.
func (b *Block) SetCommission(newCommission uint16, epoch uint64, maxIncrease uint16) error {
	if b.LastCommissionChangeEpoch >= epoch {
		return errs.CommissionAlreadySetThisEpoch
	}
	if uint32(newCommission) > uint32(b.Commission)+uint32(maxIncrease) {
		return errs.CommissionTooHigh
	}
	b.Commission = newCommission
	b.LastCommissionChangeEpoch = epoch
	return nil
}

// WhitelistPhaseEnded reports whether the block's whitelist-gated mystery
// window (spec.md §4.8, "whitelist phase") has elapsed.
func (b *Block) WhitelistPhaseEnded(nowUnix int64) bool {
	if b.Config.WhitelistDuration == 0 {
		return true
	}
	elapsed := nowUnix - b.BlockStartTimestamp
	return !(elapsed > 0 && elapsed < int64(b.Config.WhitelistDuration))
}

// RecordMysterySale increments mysteries_sold_count, flipping
// mystery_phase_end_timestamp the instant the last mystery sells.
func (b *Block) RecordMysterySale(nowUnix int64) {
	b.MysteriesSoldCount++
	if b.MysteriesSoldCount == b.Config.TotalMysteryCount {
		b.MysteryPhaseEndTimestamp = nowUnix
	}
}
