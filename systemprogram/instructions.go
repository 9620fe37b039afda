// Package systemprogram adapts the external system program's contract:
// CreateAccount, Allocate, Assign, Transfer. Each instruction is a struct
// with a New...Instruction constructor, Accounts() and Data(), all in this
// one file; Allocate and Assign are new builders added here in that same
// style since the
// original SDK this program is adapted from only carried CreateAccount and
// Transfer.
package systemprogram

import (
	"github.com/nifty-labs/entries-program/pkg/encodbin"
	"github.com/nifty-labs/entries-program/solana"
)

// Instruction indices match the external system program's own stable wire
// format: a little-endian uint32 selector.
const (
	InstructionCreateAccount uint32 = 0
	InstructionAssign        uint32 = 1
	InstructionTransfer      uint32 = 2
	InstructionAllocate      uint32 = 8
)

type CreateAccount struct {
	Lamports uint64
	Space    uint64
	Owner    solana.PublicKey

	accounts solana.AccountMetaSlice
}

// NewCreateAccountInstruction builds a CreateAccount instruction funding
// `newAccount` from `funder` for `space` bytes owned by `owner`.
func NewCreateAccountInstruction(lamports, space uint64, owner, funder, newAccount solana.PublicKey) *CreateAccount {
	c := &CreateAccount{Lamports: lamports, Space: space, Owner: owner}
	c.accounts = solana.AccountMetaSlice{
		solana.WritableSigner(funder),
		solana.WritableSigner(newAccount),
	}
	return c
}

func (c *CreateAccount) Accounts() solana.AccountMetaSlice { return c.accounts }

func (c *CreateAccount) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint32(InstructionCreateAccount); err != nil {
		return err
	}
	if err := enc.WriteUint64(c.Lamports); err != nil {
		return err
	}
	if err := enc.WriteUint64(c.Space); err != nil {
		return err
	}
	return enc.WritePubkey(c.Owner)
}

func (c *CreateAccount) Data() ([]byte, error) {
	return encodbin.MarshalBin(c)
}

type Allocate struct {
	Space uint64

	accounts solana.AccountMetaSlice
}

// NewAllocateInstruction allocates `space` bytes of data for an account
// that is already owned by the system program and must co-sign.
func NewAllocateInstruction(space uint64, account solana.PublicKey) *Allocate {
	return &Allocate{
		Space:    space,
		accounts: solana.AccountMetaSlice{solana.WritableSigner(account)},
	}
}

func (a *Allocate) Accounts() solana.AccountMetaSlice { return a.accounts }

func (a *Allocate) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint32(InstructionAllocate); err != nil {
		return err
	}
	return enc.WriteUint64(a.Space)
}

func (a *Allocate) Data() ([]byte, error) {
	return encodbin.MarshalBin(a)
}

type Assign struct {
	Owner solana.PublicKey

	accounts solana.AccountMetaSlice
}

func NewAssignInstruction(owner solana.PublicKey, account solana.PublicKey) *Assign {
	return &Assign{
		Owner:    owner,
		accounts: solana.AccountMetaSlice{solana.WritableSigner(account)},
	}
}

func (a *Assign) Accounts() solana.AccountMetaSlice { return a.accounts }

func (a *Assign) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint32(InstructionAssign); err != nil {
		return err
	}
	return enc.WritePubkey(a.Owner)
}

func (a *Assign) Data() ([]byte, error) {
	return encodbin.MarshalBin(a)
}

type Transfer struct {
	Lamports uint64

	accounts solana.AccountMetaSlice
}

func NewTransferInstruction(lamports uint64, from, to solana.PublicKey) *Transfer {
	return &Transfer{
		Lamports: lamports,
		accounts: solana.AccountMetaSlice{
			solana.WritableSigner(from),
			solana.Writable(to),
		},
	}
}

func (t *Transfer) Accounts() solana.AccountMetaSlice { return t.accounts }

func (t *Transfer) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint32(InstructionTransfer); err != nil {
		return err
	}
	return enc.WriteUint64(t.Lamports)
}

func (t *Transfer) Data() ([]byte, error) {
	return encodbin.MarshalBin(t)
}
