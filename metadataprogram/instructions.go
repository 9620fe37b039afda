// Package metadataprogram adapts the external metaplex-style metadata
// program's contract: create and update the name/uri/update-authority and
// primary-sale-happened flag attached to an entry's mint. Grounded on the
// teacher's types/token-metadata/instruction.go builder.
package metadataprogram

import (
	"github.com/nifty-labs/entries-program/pkg/encodbin"
	"github.com/nifty-labs/entries-program/solana"
)

const (
	InstructionCreateMetadataAccount uint8 = 0
	InstructionUpdateMetadataAccount uint8 = 1
)

// Creator is one entry of metaplex metadata's optional creators vector:
// an address, whether it has co-signed the metadata (never true out of
// this adapter, since none of an entry's creators sign CreateMetadataAccount
// itself), and its royalty share out of 100.
type Creator struct {
	Address  solana.PublicKey
	Verified bool
	Share    uint8
}

type CreateMetadataAccount struct {
	Name                    string
	Symbol                  string
	URI                     string
	Creators                []Creator
	UpdateAuthorityIsSigner bool
	IsMutable               bool

	accounts solana.AccountMetaSlice
}

// NewCreateMetadataAccountInstruction builds a CreateMetadataAccount
// instruction with no creators recorded, for mints (such as Ki) that have
// no creator-attribution concept.
func NewCreateMetadataAccountInstruction(name, symbol, uri string, metadataAccount, mint, mintAuthority, payer, updateAuthority solana.PublicKey) *CreateMetadataAccount {
	return NewCreateMetadataAccountInstructionWithCreators(name, symbol, uri, metadataAccount, mint, mintAuthority, payer, updateAuthority, solana.PublicKeyZero, solana.PublicKeyZero)
}

// NewCreateMetadataAccountInstructionWithCreators builds a
// CreateMetadataAccount instruction carrying up to two creator
// attributions plus the update authority itself, matching
// original_source/nifty_program/util/util_metaplex.c's
// encode_metaplex_metadata: creator1 (the platform identity) always comes
// first if non-zero, creator2 (an admin-supplied second creator) is
// optional, and updateAuthority is appended last with a zero royalty
// share whenever any creator is recorded at all. Metaplex requires the
// update authority be listed as a creator if the creators vector is
// present, even though it is otherwise uninvolved in attribution. If
// creator1 is the zero key and creator2 is not, they are swapped so a
// lone second creator still becomes the list's first entry.
func NewCreateMetadataAccountInstructionWithCreators(name, symbol, uri string, metadataAccount, mint, mintAuthority, payer, updateAuthority, creator1, creator2 solana.PublicKey) *CreateMetadataAccount {
	if creator1 == solana.PublicKeyZero {
		creator1, creator2 = creator2, creator1
	}

	var creators []Creator
	if creator1 != solana.PublicKeyZero {
		hasSecond := creator2 != solana.PublicKeyZero
		firstShare := uint8(100)
		if hasSecond {
			firstShare = 50
		}
		creators = append(creators, Creator{Address: creator1, Share: firstShare})
		if hasSecond {
			creators = append(creators, Creator{Address: creator2, Share: 50})
		}
		creators = append(creators, Creator{Address: updateAuthority, Share: 0})
	}

	return &CreateMetadataAccount{
		Name:                    name,
		Symbol:                  symbol,
		URI:                     uri,
		Creators:                creators,
		UpdateAuthorityIsSigner: true,
		IsMutable:               true,
		accounts: solana.AccountMetaSlice{
			solana.Writable(metadataAccount),
			solana.ReadOnly(mint),
			solana.Signer(mintAuthority),
			solana.WritableSigner(payer),
			solana.ReadOnly(updateAuthority),
		},
	}
}

func (c *CreateMetadataAccount) Accounts() solana.AccountMetaSlice { return c.accounts }

func (c *CreateMetadataAccount) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint8(InstructionCreateMetadataAccount); err != nil {
		return err
	}
	if err := enc.WriteRustString(c.Name); err != nil {
		return err
	}
	if err := enc.WriteRustString(c.Symbol); err != nil {
		return err
	}
	if err := enc.WriteRustString(c.URI); err != nil {
		return err
	}
	if err := enc.WriteUint16(0); err != nil { // seller_fee_basis_points
		return err
	}
	if len(c.Creators) == 0 {
		if err := enc.WriteUint8(0); err != nil { // creators: None
			return err
		}
	} else {
		if err := enc.WriteUint8(1); err != nil { // creators: Some
			return err
		}
		if err := enc.WriteUint32(uint32(len(c.Creators))); err != nil {
			return err
		}
		for _, cr := range c.Creators {
			if err := enc.WritePubkey(cr.Address); err != nil {
				return err
			}
			if err := enc.WriteBool(cr.Verified); err != nil {
				return err
			}
			if err := enc.WriteUint8(cr.Share); err != nil {
				return err
			}
		}
	}
	if err := enc.WriteUint8(0); err != nil { // collection: None
		return err
	}
	if err := enc.WriteUint8(0); err != nil { // uses: None
		return err
	}
	if err := enc.WriteBool(c.UpdateAuthorityIsSigner); err != nil {
		return err
	}
	return enc.WriteBool(c.IsMutable)
}

func (c *CreateMetadataAccount) Data() ([]byte, error) { return encodbin.MarshalBin(c) }

type UpdateMetadataAccount struct {
	// Name and URI are optional, mirroring the real metadata program's
	// Option<Data> update field: nil leaves the stored value untouched,
	// letting a caller update only the authority or the
	// primary-sale-happened flag.
	Name                *string
	URI                 *string
	NewUpdateAuthority  *solana.PublicKey
	PrimarySaleHappened *bool

	accounts solana.AccountMetaSlice
}

func NewUpdateMetadataAccountInstruction(name, uri *string, newUpdateAuthority *solana.PublicKey, primarySaleHappened *bool, metadataAccount, updateAuthority solana.PublicKey) *UpdateMetadataAccount {
	return &UpdateMetadataAccount{
		Name:                name,
		URI:                 uri,
		NewUpdateAuthority:  newUpdateAuthority,
		PrimarySaleHappened: primarySaleHappened,
		accounts: solana.AccountMetaSlice{
			solana.Writable(metadataAccount),
			solana.Signer(updateAuthority),
		},
	}
}

func (u *UpdateMetadataAccount) Accounts() solana.AccountMetaSlice { return u.accounts }

func (u *UpdateMetadataAccount) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint8(InstructionUpdateMetadataAccount); err != nil {
		return err
	}
	if u.Name != nil {
		if err := enc.WriteUint8(1); err != nil {
			return err
		}
		if err := enc.WriteRustString(*u.Name); err != nil {
			return err
		}
	} else if err := enc.WriteUint8(0); err != nil {
		return err
	}
	if u.URI != nil {
		if err := enc.WriteUint8(1); err != nil {
			return err
		}
		if err := enc.WriteRustString(*u.URI); err != nil {
			return err
		}
	} else if err := enc.WriteUint8(0); err != nil {
		return err
	}
	if u.NewUpdateAuthority != nil {
		if err := enc.WriteUint8(1); err != nil {
			return err
		}
		if err := enc.WritePubkey(*u.NewUpdateAuthority); err != nil {
			return err
		}
	} else if err := enc.WriteUint8(0); err != nil {
		return err
	}
	if u.PrimarySaleHappened != nil {
		if err := enc.WriteUint8(1); err != nil {
			return err
		}
		return enc.WriteBool(*u.PrimarySaleHappened)
	}
	return enc.WriteUint8(0)
}

func (u *UpdateMetadataAccount) Data() ([]byte, error) { return encodbin.MarshalBin(u) }
