package solana

import (
	"math"

	"github.com/nifty-labs/entries-program/pkg/encodbin"
)

// Clock mirrors the Clock sysvar account layout: slot, three timestamp-ish
// fields carried for compatibility, the current epoch, and the unix
// timestamp of the start of the current epoch.
type Clock struct {
	Slot                uint64
	EpochStartTimestamp int64
	Epoch               uint64
	LeaderScheduleEpoch uint64
	UnixTimestamp       int64
}

func (c *Clock) UnmarshalWithDecoder(dec *encodbin.Decoder) (err error) {
	if c.Slot, err = dec.ReadUint64(); err != nil {
		return err
	}
	if c.EpochStartTimestamp, err = dec.ReadInt64(); err != nil {
		return err
	}
	if c.Epoch, err = dec.ReadUint64(); err != nil {
		return err
	}
	if c.LeaderScheduleEpoch, err = dec.ReadUint64(); err != nil {
		return err
	}
	c.UnixTimestamp, err = dec.ReadInt64()
	return err
}

// Rent mirrors the Rent sysvar layout: lamports charged per byte-year, the
// exemption threshold expressed as an IEEE-754 binary64 value, and the
// percentage of rent collected that is burned rather than redistributed.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64
	BurnPercent         uint8
}

func (r *Rent) UnmarshalWithDecoder(dec *encodbin.Decoder) (err error) {
	if r.LamportsPerByteYear, err = dec.ReadUint64(); err != nil {
		return err
	}
	bits, err := dec.ReadUint64()
	if err != nil {
		return err
	}
	r.ExemptionThreshold = math.Float64frombits(bits)
	r.BurnPercent, err = dec.ReadUint8()
	return err
}

// defaultRentExemptMinimum is the fallback used when the rent sysvar's
// exemption threshold bit pattern is unusable (negative, subnormal, or
// infinite/NaN): 3480 lamports per byte-year at a 2 year threshold, the
// historical mainnet defaults.
func defaultRentExemptMinimum(accountSize uint64) uint64 {
	return (accountSize + 128) * 3480 * 2
}

// RentExemptMinimum computes the minimum lamport balance an account of
// accountSize bytes must hold to be rent exempt, reading the exemption
// threshold's raw IEEE-754 bits directly rather than doing floating point
// arithmetic, since the runtime this program targets has no FPU.
//
// This must exactly reproduce the wider-precision-avoiding integer
// approximation the runtime itself uses: reduce the threshold's 52-bit
// mantissa to 10 bits (rounding up if any of the dropped bits were set),
// then apply it as a min + min*fraction/1024 correction on top of the
// exponent-scaled lamports-per-byte-year*size product.
func RentExemptMinimum(rent *Rent, accountSize uint64) uint64 {
	u := math.Float64bits(rent.ExemptionThreshold)
	exp := (u >> 52) & 0x7FF

	if (u&0x8000000000000000) != 0 || exp == 0 || exp == 0x7FF {
		return defaultRentExemptMinimum(accountSize)
	}

	min := (accountSize + 128) * rent.LamportsPerByteYear

	if exp >= 1023 {
		min <<= exp - 1023
	} else {
		min >>= 1023 - exp
	}

	fraction := u & 0x000FFFFFFFFFFFFF
	roundUp := (fraction & 0x3FFFFFFFFFF) != 0

	fraction >>= 42
	if roundUp {
		fraction++
	}

	fraction *= min
	fraction /= 0x3FF

	return min + fraction
}
