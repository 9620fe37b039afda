// Package block implements the per-block configuration and aggregate state
// store (C7): creation validation, idempotent/parallel-safe entry
// provisioning via a bitmap, and the revealability predicate. Grounded on
// original_source/program/inc/block.h and spec.md §3/§4.5.
package block

import (
	"github.com/nifty-labs/entries-program/constants"
	"github.com/nifty-labs/entries-program/errs"
	"github.com/nifty-labs/entries-program/pkg/encodbin"
)

// Configuration holds every immutable, admin-supplied parameter of a
// block. Field order matches the packed wire layout exactly (spec.md §6).
type Configuration struct {
	GroupNumber               uint32
	BlockNumber               uint32
	TotalEntryCount           uint16
	TotalMysteryCount         uint16
	MysteryPhaseDuration      uint32
	MysteryStartPriceLamports uint64
	RevealPeriodDuration      uint32
	MinimumPriceLamports      uint64
	HasAuction                bool
	Duration                  uint32
	FinalStartPriceLamports   uint64
	WhitelistDuration         uint32
}

func (c *Configuration) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint32(c.GroupNumber); err != nil {
		return err
	}
	if err := enc.WriteUint32(c.BlockNumber); err != nil {
		return err
	}
	if err := enc.WriteUint16(c.TotalEntryCount); err != nil {
		return err
	}
	if err := enc.WriteUint16(c.TotalMysteryCount); err != nil {
		return err
	}
	if err := enc.WriteUint32(c.MysteryPhaseDuration); err != nil {
		return err
	}
	if err := enc.WriteUint64(c.MysteryStartPriceLamports); err != nil {
		return err
	}
	if err := enc.WriteUint32(c.RevealPeriodDuration); err != nil {
		return err
	}
	if err := enc.WriteUint64(c.MinimumPriceLamports); err != nil {
		return err
	}
	if err := enc.WriteBool(c.HasAuction); err != nil {
		return err
	}
	if err := enc.WriteUint32(c.Duration); err != nil {
		return err
	}
	if err := enc.WriteUint64(c.FinalStartPriceLamports); err != nil {
		return err
	}
	return enc.WriteUint32(c.WhitelistDuration)
}

func (c *Configuration) UnmarshalWithDecoder(dec *encodbin.Decoder) (err error) {
	if c.GroupNumber, err = dec.ReadUint32(); err != nil {
		return err
	}
	if c.BlockNumber, err = dec.ReadUint32(); err != nil {
		return err
	}
	if c.TotalEntryCount, err = dec.ReadUint16(); err != nil {
		return err
	}
	if c.TotalMysteryCount, err = dec.ReadUint16(); err != nil {
		return err
	}
	if c.MysteryPhaseDuration, err = dec.ReadUint32(); err != nil {
		return err
	}
	if c.MysteryStartPriceLamports, err = dec.ReadUint64(); err != nil {
		return err
	}
	if c.RevealPeriodDuration, err = dec.ReadUint32(); err != nil {
		return err
	}
	if c.MinimumPriceLamports, err = dec.ReadUint64(); err != nil {
		return err
	}
	c.HasAuction, err = dec.ReadBool()
	if err != nil {
		return err
	}
	if c.Duration, err = dec.ReadUint32(); err != nil {
		return err
	}
	if c.FinalStartPriceLamports, err = dec.ReadUint64(); err != nil {
		return err
	}
	c.WhitelistDuration, err = dec.ReadUint32()
	return err
}

// Validate enforces every constraint spec.md §3 places on a block
// configuration, returning a distinct error per violated field (spec.md §9
// supplement: per-field faults rather than one generic code).
func (c *Configuration) Validate(bidRentExemptMinimum uint64) error {
	if c.TotalEntryCount == 0 {
		return errs.InvalidBlockConfiguration
	}
	if c.TotalMysteryCount > c.TotalEntryCount {
		return errs.MysteryCountExceedsTotal
	}
	if c.MysteryStartPriceLamports > constants.MaxMysteryStartPriceLamports {
		return errs.MysteryStartPriceTooHigh
	}
	if c.MinimumPriceLamports < bidRentExemptMinimum {
		return errs.MinimumPriceTooLow
	}
	if c.Duration == 0 {
		return errs.InvalidDuration
	}
	if !c.HasAuction {
		if c.FinalStartPriceLamports < c.MinimumPriceLamports {
			return errs.FinalStartPriceTooLow
		}
		if c.FinalStartPriceLamports > constants.MaxFinalStartPriceLamports {
			return errs.FinalStartPriceTooHigh
		}
	}
	return nil
}
