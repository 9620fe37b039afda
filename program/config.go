// Package program implements the instruction router and the superuser/admin
// controllers (C13): the program-configuration singleton, the address
// derivations every other component's PDAs are built from, bootstrapping
// (Initialize), admin rotation (SetAdmin), and the admin-only master-stake
// split. Grounded on original_source/nifty_program/super/super_initialize.c,
// super_set_admin.c and original_source/program/inc/program_config.h.
package program

import (
	"github.com/nifty-labs/entries-program/errs"
	"github.com/nifty-labs/entries-program/pkg/encodbin"
	"github.com/nifty-labs/entries-program/solana"
)

// SuperuserPubkey is the one address allowed to call Initialize and
// SetAdmin. The real implementation compiles this in as a build-time
// constant (original_source/nifty_program/super/super_initialize.c checks
// against a literal baked into the binary); this port keeps the same
// shape as a package variable so a deployment can set it once at program
// start instead of requiring a source edit and rebuild.
var SuperuserPubkey solana.PublicKey

// DataType identifies a ProgramConfig account (spec.md §6: "data_type=1").
const DataType uint8 = 1

// AccountSize is the fixed size of the ProgramConfig account.
const AccountSize = 1 + solana.PublicKeyLength

// Config is the decoded form of the program-configuration singleton: the
// one mutable field (Admin) plus the fixed data-type tag.
type Config struct {
	DataType uint8
	Admin    solana.PublicKey
}

// NewConfig builds a freshly bootstrapped config naming admin as the
// initial admin address.
func NewConfig(admin solana.PublicKey) *Config {
	return &Config{DataType: DataType, Admin: admin}
}

func DecodeConfig(data []byte) (*Config, error) {
	dec := encodbin.NewBinDecoder(data)
	c := &Config{}

	dataType, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	c.DataType = dataType
	if c.DataType != DataType {
		return nil, errs.WrongDataType
	}

	admin, err := dec.ReadPubkey()
	if err != nil {
		return nil, err
	}
	c.Admin = solana.PublicKey(admin)
	return c, nil
}

func (c *Config) Encode() ([]byte, error) {
	return encodbin.MarshalBin(c)
}

func (c *Config) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint8(DataType); err != nil {
		return err
	}
	return enc.WritePubkey(c.Admin)
}
