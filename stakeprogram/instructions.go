package stakeprogram

import (
	"github.com/nifty-labs/entries-program/pkg/encodbin"
	"github.com/nifty-labs/entries-program/solana"
)

const (
	InstructionInitialize    uint32 = 0
	InstructionDelegateStake uint32 = 2
	InstructionSplit         uint32 = 3
	InstructionWithdraw      uint32 = 4
	InstructionDeactivate    uint32 = 5
	InstructionSetAuthority  uint32 = 1
	InstructionMerge         uint32 = 7
)

type StakeAuthorize uint32

const (
	StakeAuthorizeStaker StakeAuthorize = iota
	StakeAuthorizeWithdrawer
)

type Initialize struct {
	Staker     solana.PublicKey
	Withdrawer solana.PublicKey

	accounts solana.AccountMetaSlice
}

func NewInitializeInstruction(staker, withdrawer, stakeAccount, rentSysvar solana.PublicKey) *Initialize {
	return &Initialize{
		Staker:     staker,
		Withdrawer: withdrawer,
		accounts: solana.AccountMetaSlice{
			solana.Writable(stakeAccount),
			solana.ReadOnly(rentSysvar),
		},
	}
}

func (i *Initialize) Accounts() solana.AccountMetaSlice { return i.accounts }

func (i *Initialize) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint32(InstructionInitialize); err != nil {
		return err
	}
	if err := enc.WritePubkey(i.Staker); err != nil {
		return err
	}
	if err := enc.WritePubkey(i.Withdrawer); err != nil {
		return err
	}
	// Lockup: no unix timestamp, no epoch, no custodian.
	if err := enc.WriteInt64(0); err != nil {
		return err
	}
	if err := enc.WriteUint64(0); err != nil {
		return err
	}
	return enc.WritePubkey(solana.PublicKeyZero)
}

func (i *Initialize) Data() ([]byte, error) { return encodbin.MarshalBin(i) }

type DelegateStake struct {
	accounts solana.AccountMetaSlice
}

func NewDelegateStakeInstruction(stakeAccount, voteAccount, clockSysvar, stakeHistorySysvar, stakeConfig, stakeAuthority solana.PublicKey) *DelegateStake {
	return &DelegateStake{
		accounts: solana.AccountMetaSlice{
			solana.Writable(stakeAccount),
			solana.ReadOnly(voteAccount),
			solana.ReadOnly(clockSysvar),
			solana.ReadOnly(stakeHistorySysvar),
			solana.ReadOnly(stakeConfig),
			solana.Signer(stakeAuthority),
		},
	}
}

func (d *DelegateStake) Accounts() solana.AccountMetaSlice { return d.accounts }

func (d *DelegateStake) MarshalWithEncoder(enc *encodbin.Encoder) error {
	return enc.WriteUint32(InstructionDelegateStake)
}

func (d *DelegateStake) Data() ([]byte, error) { return encodbin.MarshalBin(d) }

type Deactivate struct {
	accounts solana.AccountMetaSlice
}

func NewDeactivateInstruction(stakeAccount, clockSysvar, stakeAuthority solana.PublicKey) *Deactivate {
	return &Deactivate{
		accounts: solana.AccountMetaSlice{
			solana.Writable(stakeAccount),
			solana.ReadOnly(clockSysvar),
			solana.Signer(stakeAuthority),
		},
	}
}

func (d *Deactivate) Accounts() solana.AccountMetaSlice { return d.accounts }

func (d *Deactivate) MarshalWithEncoder(enc *encodbin.Encoder) error {
	return enc.WriteUint32(InstructionDeactivate)
}

func (d *Deactivate) Data() ([]byte, error) { return encodbin.MarshalBin(d) }

type Split struct {
	Lamports uint64

	accounts solana.AccountMetaSlice
}

func NewSplitInstruction(lamports uint64, sourceStake, destinationStake, stakeAuthority solana.PublicKey) *Split {
	return &Split{
		Lamports: lamports,
		accounts: solana.AccountMetaSlice{
			solana.Writable(sourceStake),
			solana.Writable(destinationStake),
			solana.Signer(stakeAuthority),
		},
	}
}

func (s *Split) Accounts() solana.AccountMetaSlice { return s.accounts }

func (s *Split) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint32(InstructionSplit); err != nil {
		return err
	}
	return enc.WriteUint64(s.Lamports)
}

func (s *Split) Data() ([]byte, error) { return encodbin.MarshalBin(s) }

type Merge struct {
	accounts solana.AccountMetaSlice
}

func NewMergeInstruction(destinationStake, sourceStake, clockSysvar, stakeHistorySysvar, stakeAuthority solana.PublicKey) *Merge {
	return &Merge{
		accounts: solana.AccountMetaSlice{
			solana.Writable(destinationStake),
			solana.Writable(sourceStake),
			solana.ReadOnly(clockSysvar),
			solana.ReadOnly(stakeHistorySysvar),
			solana.Signer(stakeAuthority),
		},
	}
}

func (m *Merge) Accounts() solana.AccountMetaSlice { return m.accounts }

func (m *Merge) MarshalWithEncoder(enc *encodbin.Encoder) error {
	return enc.WriteUint32(InstructionMerge)
}

func (m *Merge) Data() ([]byte, error) { return encodbin.MarshalBin(m) }

type Withdraw struct {
	Lamports uint64

	accounts solana.AccountMetaSlice
}

func NewWithdrawInstruction(lamports uint64, stakeAccount, destination, clockSysvar, stakeHistorySysvar, withdrawAuthority solana.PublicKey) *Withdraw {
	return &Withdraw{
		Lamports: lamports,
		accounts: solana.AccountMetaSlice{
			solana.Writable(stakeAccount),
			solana.Writable(destination),
			solana.ReadOnly(clockSysvar),
			solana.ReadOnly(stakeHistorySysvar),
			solana.Signer(withdrawAuthority),
		},
	}
}

func (w *Withdraw) Accounts() solana.AccountMetaSlice { return w.accounts }

func (w *Withdraw) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint32(InstructionWithdraw); err != nil {
		return err
	}
	return enc.WriteUint64(w.Lamports)
}

func (w *Withdraw) Data() ([]byte, error) { return encodbin.MarshalBin(w) }

type SetAuthority struct {
	Authorize    StakeAuthorize
	NewAuthority solana.PublicKey

	accounts solana.AccountMetaSlice
}

func NewSetAuthorityInstruction(authorize StakeAuthorize, newAuthority, stakeAccount, currentAuthority solana.PublicKey) *SetAuthority {
	return &SetAuthority{
		Authorize:    authorize,
		NewAuthority: newAuthority,
		accounts: solana.AccountMetaSlice{
			solana.Writable(stakeAccount),
			solana.Signer(currentAuthority),
		},
	}
}

func (s *SetAuthority) Accounts() solana.AccountMetaSlice { return s.accounts }

func (s *SetAuthority) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint32(InstructionSetAuthority); err != nil {
		return err
	}
	if err := enc.WritePubkey(s.NewAuthority); err != nil {
		return err
	}
	return enc.WriteUint32(uint32(s.Authorize))
}

func (s *SetAuthority) Data() ([]byte, error) { return encodbin.MarshalBin(s) }

// GetMinimumDelegation is not a real cross-program invocation on most
// runtimes (it is typically a syscall), but this program treats it through
// the same capability-interface seam spec.md §9 describes, so tests can
// stub it independently of the stake program adapter above.
type MinimumDelegationQuery interface {
	GetMinimumDelegation() (uint64, error)
}
