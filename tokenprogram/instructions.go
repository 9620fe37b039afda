// Package tokenprogram adapts the external fungible/non-fungible token
// program's contract: mint, transfer, burn, close, and the initialization
// calls this program needs to stand up mints and token accounts it
// controls. Grounded on the teacher's core/token/*.go generation of
// "Checked" instruction builders (MintToChecked, BurnChecked, CloseAccount),
// one file's worth of logic folded into a single adapter file per this
// program's narrower surface.
package tokenprogram

import (
	"github.com/nifty-labs/entries-program/pkg/encodbin"
	"github.com/nifty-labs/entries-program/solana"
)

const (
	InstructionInitializeMint2    uint8 = 20
	InstructionInitializeAccount3 uint8 = 18
	InstructionTransferChecked    uint8 = 12
	InstructionMintToChecked      uint8 = 14
	InstructionBurnChecked        uint8 = 15
	InstructionCloseAccount       uint8 = 9
	InstructionSetAuthority       uint8 = 6
)

type AuthorityType uint8

const (
	AuthorityTypeMintTokens AuthorityType = iota
	AuthorityTypeFreezeAccount
	AuthorityTypeAccountOwner
	AuthorityTypeCloseAccount
)

type InitializeMint2 struct {
	Decimals        uint8
	MintAuthority   solana.PublicKey
	FreezeAuthority *solana.PublicKey

	accounts solana.AccountMetaSlice
}

func NewInitializeMint2Instruction(decimals uint8, mintAuthority solana.PublicKey, freezeAuthority *solana.PublicKey, mint solana.PublicKey) *InitializeMint2 {
	return &InitializeMint2{
		Decimals:        decimals,
		MintAuthority:   mintAuthority,
		FreezeAuthority: freezeAuthority,
		accounts:        solana.AccountMetaSlice{solana.Writable(mint)},
	}
}

func (i *InitializeMint2) Accounts() solana.AccountMetaSlice { return i.accounts }

func (i *InitializeMint2) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint8(InstructionInitializeMint2); err != nil {
		return err
	}
	if err := enc.WriteUint8(i.Decimals); err != nil {
		return err
	}
	if err := enc.WritePubkey(i.MintAuthority); err != nil {
		return err
	}
	if i.FreezeAuthority != nil {
		if err := enc.WriteUint8(1); err != nil {
			return err
		}
		return enc.WritePubkey(*i.FreezeAuthority)
	}
	return enc.WriteUint8(0)
}

func (i *InitializeMint2) Data() ([]byte, error) { return encodbin.MarshalBin(i) }

type InitializeAccount3 struct {
	Owner solana.PublicKey

	accounts solana.AccountMetaSlice
}

func NewInitializeAccount3Instruction(owner, account, mint solana.PublicKey) *InitializeAccount3 {
	return &InitializeAccount3{
		Owner:    owner,
		accounts: solana.AccountMetaSlice{solana.Writable(account), solana.ReadOnly(mint)},
	}
}

func (i *InitializeAccount3) Accounts() solana.AccountMetaSlice { return i.accounts }

func (i *InitializeAccount3) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint8(InstructionInitializeAccount3); err != nil {
		return err
	}
	return enc.WritePubkey(i.Owner)
}

func (i *InitializeAccount3) Data() ([]byte, error) { return encodbin.MarshalBin(i) }

type MintToChecked struct {
	Amount   uint64
	Decimals uint8

	accounts solana.AccountMetaSlice
}

func NewMintToCheckedInstruction(amount uint64, decimals uint8, mint, destination, mintAuthority solana.PublicKey) *MintToChecked {
	return &MintToChecked{
		Amount:   amount,
		Decimals: decimals,
		accounts: solana.AccountMetaSlice{
			solana.Writable(mint),
			solana.Writable(destination),
			solana.Signer(mintAuthority),
		},
	}
}

func (m *MintToChecked) Accounts() solana.AccountMetaSlice { return m.accounts }

func (m *MintToChecked) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint8(InstructionMintToChecked); err != nil {
		return err
	}
	if err := enc.WriteUint64(m.Amount); err != nil {
		return err
	}
	return enc.WriteUint8(m.Decimals)
}

func (m *MintToChecked) Data() ([]byte, error) { return encodbin.MarshalBin(m) }

type TransferChecked struct {
	Amount   uint64
	Decimals uint8

	accounts solana.AccountMetaSlice
}

func NewTransferCheckedInstruction(amount uint64, decimals uint8, source, mint, destination, owner solana.PublicKey) *TransferChecked {
	return &TransferChecked{
		Amount:   amount,
		Decimals: decimals,
		accounts: solana.AccountMetaSlice{
			solana.Writable(source),
			solana.ReadOnly(mint),
			solana.Writable(destination),
			solana.Signer(owner),
		},
	}
}

func (t *TransferChecked) Accounts() solana.AccountMetaSlice { return t.accounts }

func (t *TransferChecked) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint8(InstructionTransferChecked); err != nil {
		return err
	}
	if err := enc.WriteUint64(t.Amount); err != nil {
		return err
	}
	return enc.WriteUint8(t.Decimals)
}

func (t *TransferChecked) Data() ([]byte, error) { return encodbin.MarshalBin(t) }

type BurnChecked struct {
	Amount   uint64
	Decimals uint8

	accounts solana.AccountMetaSlice
}

func NewBurnCheckedInstruction(amount uint64, decimals uint8, account, mint, owner solana.PublicKey) *BurnChecked {
	return &BurnChecked{
		Amount:   amount,
		Decimals: decimals,
		accounts: solana.AccountMetaSlice{
			solana.Writable(account),
			solana.Writable(mint),
			solana.Signer(owner),
		},
	}
}

func (b *BurnChecked) Accounts() solana.AccountMetaSlice { return b.accounts }

func (b *BurnChecked) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint8(InstructionBurnChecked); err != nil {
		return err
	}
	if err := enc.WriteUint64(b.Amount); err != nil {
		return err
	}
	return enc.WriteUint8(b.Decimals)
}

func (b *BurnChecked) Data() ([]byte, error) { return encodbin.MarshalBin(b) }

type CloseAccount struct {
	accounts solana.AccountMetaSlice
}

func NewCloseAccountInstruction(account, destination, owner solana.PublicKey) *CloseAccount {
	return &CloseAccount{
		accounts: solana.AccountMetaSlice{
			solana.Writable(account),
			solana.Writable(destination),
			solana.Signer(owner),
		},
	}
}

func (c *CloseAccount) Accounts() solana.AccountMetaSlice { return c.accounts }

func (c *CloseAccount) MarshalWithEncoder(enc *encodbin.Encoder) error {
	return enc.WriteUint8(InstructionCloseAccount)
}

func (c *CloseAccount) Data() ([]byte, error) { return encodbin.MarshalBin(c) }

type SetAuthority struct {
	AuthorityType AuthorityType
	NewAuthority  *solana.PublicKey

	accounts solana.AccountMetaSlice
}

func NewSetAuthorityInstruction(authorityType AuthorityType, newAuthority *solana.PublicKey, account, currentAuthority solana.PublicKey) *SetAuthority {
	return &SetAuthority{
		AuthorityType: authorityType,
		NewAuthority:  newAuthority,
		accounts:      solana.AccountMetaSlice{solana.Writable(account), solana.Signer(currentAuthority)},
	}
}

func (s *SetAuthority) Accounts() solana.AccountMetaSlice { return s.accounts }

func (s *SetAuthority) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint8(InstructionSetAuthority); err != nil {
		return err
	}
	if err := enc.WriteUint8(uint8(s.AuthorityType)); err != nil {
		return err
	}
	if s.NewAuthority != nil {
		if err := enc.WriteUint8(1); err != nil {
			return err
		}
		return enc.WritePubkey(*s.NewAuthority)
	}
	return enc.WriteUint8(0)
}

func (s *SetAuthority) Data() ([]byte, error) { return encodbin.MarshalBin(s) }
