// Package associatedtoken adapts the external associated-token-account
// program's idempotent Create instruction, the one call this program needs
// to stand up a bidder's or staker's token account without first checking
// whether it already exists. Grounded on the teacher's
// core/associated-account/create.go.
package associatedtoken

import (
	"github.com/nifty-labs/entries-program/pkg/encodbin"
	"github.com/nifty-labs/entries-program/solana"
)

// InstructionCreateIdempotent is the associated-token-account program's
// idempotent creation instruction: unlike plain Create, it succeeds
// silently if the account already exists.
const InstructionCreateIdempotent uint8 = 1

type CreateIdempotent struct {
	accounts solana.AccountMetaSlice
}

// NewCreateIdempotentInstruction builds the idempotent "create associated
// token account" call for `wallet`'s account holding `mint`, funded by
// `funder`.
func NewCreateIdempotentInstruction(funder, associatedAccount, wallet, mint solana.PublicKey) *CreateIdempotent {
	return &CreateIdempotent{
		accounts: solana.AccountMetaSlice{
			solana.WritableSigner(funder),
			solana.Writable(associatedAccount),
			solana.ReadOnly(wallet),
			solana.ReadOnly(mint),
			solana.ReadOnly(solana.SystemProgramID),
			solana.ReadOnly(solana.TokenProgramID),
		},
	}
}

func (c *CreateIdempotent) Accounts() solana.AccountMetaSlice { return c.accounts }

func (c *CreateIdempotent) MarshalWithEncoder(enc *encodbin.Encoder) error {
	return enc.WriteUint8(InstructionCreateIdempotent)
}

func (c *CreateIdempotent) Data() ([]byte, error) { return encodbin.MarshalBin(c) }
