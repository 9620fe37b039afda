// Package stakeengine implements the staking subsystem (C12): bringing an
// owned entry's external stake account under program control, the
// commission-on-earnings and Ki-harvest-on-earnings curves that run off
// its delegated balance, the permissionless crank that drives both, and
// releasing a staked entry back to its owner. Grounded on
// original_source/program/util/util_commission.c, util_ki.c, util_stake.c
// and original_source/program/anyone/anyone_take_commission_or_delegate.c,
// supplemented with original_source/nifty_program/user/user_stake.c,
// user_destake.c, user_harvest.c and user_level_up.c for the user-facing
// operations the newer generation folds into the crank alone.
package stakeengine

import (
	"github.com/nifty-labs/entries-program/associatedtoken"
	"github.com/nifty-labs/entries-program/block"
	"github.com/nifty-labs/entries-program/constants"
	"github.com/nifty-labs/entries-program/entry"
	"github.com/nifty-labs/entries-program/errs"
	"github.com/nifty-labs/entries-program/pda"
	"github.com/nifty-labs/entries-program/pkg/checked"
	"github.com/nifty-labs/entries-program/runtime"
	"github.com/nifty-labs/entries-program/solana"
	"github.com/nifty-labs/entries-program/stakeprogram"
	"github.com/nifty-labs/entries-program/tokenprogram"
)

// ComputeCommission is the commission owed since the last charge: the
// block's current commission fraction (out of constants.CommissionScale)
// of the stake account's earnings since lastCharge.
func ComputeCommission(currentStake, lastCharge uint64, commission uint16) uint64 {
	return ((currentStake - lastCharge) * uint64(commission)) / constants.CommissionScale
}

// Bridge names the PDA this package uses to shuttle lamports between a
// managed stake account and the master stake account without ever letting
// either drop below the external stake program's minimum delegation.
type Bridge struct {
	Key               solana.PublicKey
	Seeds             runtime.SignerSeeds
	RentExemptMinimum uint64
}

// ChargeCommission collects any commission owed on stakeAccount's earnings
// since the entry's last charge, routing it through bridge into the
// master stake account, and advances the entry's commission bookkeeping
// to the block's current rate. A zero commission is a no-op past the
// bookkeeping update, matching the original's early return.
func ChargeCommission(ctx *runtime.Context, shepherd *pda.Shepherd, b *block.Block, e *entry.Entry, stake *stakeprogram.Stake, bridge Bridge, stakeAccountKey, masterStakeKey, fundingKey, stakeAuthorityKey solana.PublicKey, minimumStakeDelegation uint64) error {
	commission := ComputeCommission(stake.Delegation.Stake, e.Staked.LastCommissionChargeStakeAccountLamports, e.Commission)

	e.Staked.LastCommissionChargeStakeAccountLamports = stake.Delegation.Stake - commission
	e.Commission = b.Commission

	if commission == 0 {
		return nil
	}

	if commission < minimumStakeDelegation {
		if err := moveStake(ctx, shepherd, bridge, masterStakeKey, stakeAccountKey, minimumStakeDelegation, fundingKey, stakeAuthorityKey); err != nil {
			return errs.FailedToMoveStakeOut
		}
		commission += minimumStakeDelegation
	}

	if err := moveStake(ctx, shepherd, bridge, stakeAccountKey, masterStakeKey, commission, fundingKey, stakeAuthorityKey); err != nil {
		return errs.FailedToMoveStake
	}

	return nil
}

// moveStake shuttles lamports from one stake account to another via the
// bridge PDA: split the amount off of `from` into the bridge, merge the
// bridge into `to`, then withdraw the bridge's rent-exempt reserve back
// out of `to` to the funding account, leaving `to` up exactly `lamports`.
func moveStake(ctx *runtime.Context, shepherd *pda.Shepherd, bridge Bridge, from, to solana.PublicKey, lamports uint64, fundingKey, stakeAuthorityKey solana.PublicKey) error {
	if err := shepherd.Ensure(bridge.Key, bridge.Seeds, solana.StakeProgramID, bridge.RentExemptMinimum, stakeprogram.AccountSize); err != nil {
		return err
	}

	splitIx := stakeprogram.NewSplitInstruction(lamports, from, bridge.Key, stakeAuthorityKey)
	if err := invokeStake(ctx, splitIx); err != nil {
		return err
	}

	mergeIx := stakeprogram.NewMergeInstruction(to, bridge.Key, solana.SysvarClockID, solana.SysvarStakeHistoryID, stakeAuthorityKey)
	if err := invokeStake(ctx, mergeIx); err != nil {
		return err
	}

	withdrawIx := stakeprogram.NewWithdrawInstruction(bridge.RentExemptMinimum, to, fundingKey, solana.SysvarClockID, solana.SysvarStakeHistoryID, stakeAuthorityKey)
	return invokeStake(ctx, withdrawIx)
}

type stakeInstruction interface {
	Accounts() solana.AccountMetaSlice
	Data() ([]byte, error)
}

func invokeStake(ctx *runtime.Context, ix stakeInstruction) error {
	data, err := ix.Data()
	if err != nil {
		return err
	}
	return ctx.Invoker.Invoke(solana.StakeProgramID, ix.Accounts(), data)
}

// HarvestKi mints an entry's owner the Ki earned by its stake account's
// delegation since the last harvest, under the diminishing-returns curve:
// h = (h0*s - (h0^2/s)^2) / (10*s), where h0 is the raw SOL-denominated
// earnings times the entry's current level's Ki factor. Any overflow
// anywhere in the curve zeroes the harvest rather than minting a
// nonsensical amount.
func HarvestKi(ctx *runtime.Context, e *entry.Entry, stake *stakeprogram.Stake, kiMint, destination, destinationOwner, fundingKey solana.PublicKey) error {
	var overflow bool

	earned := stake.Delegation.Stake - e.Staked.LastKiHarvestStakeAccountLamports
	kiFactor := e.Metadata.Levels[e.Metadata.Level].KiFactor

	harvest := checked.Multiply(earned, kiFactor, &overflow) / constants.LamportsPerSol

	if harvest > 0 {
		s := constants.KiDiminishingReturnsConstant
		f := checked.Multiply(harvest, harvest, &overflow) / s
		harvest = (harvest*s - checked.Multiply(f, f, &overflow)) / (s * 10)
		harvest = checked.Multiply(harvest, constants.KiDecimalScale, &overflow)

		if harvest > 0 && !overflow {
			createATAIx := associatedtoken.NewCreateIdempotentInstruction(fundingKey, destination, destinationOwner, kiMint)
			createATAData, err := createATAIx.Data()
			if err != nil {
				return err
			}
			if err := ctx.Invoker.Invoke(solana.AssociatedTokenAccountProgramID, createATAIx.Accounts(), createATAData); err != nil {
				return err
			}

			mintIx := tokenprogram.NewMintToCheckedInstruction(harvest, constants.KiDecimals, kiMint, destination, fundingKey)
			mintData, err := mintIx.Data()
			if err != nil {
				return err
			}
			if err := ctx.Invoker.Invoke(solana.TokenProgramID, mintIx.Accounts(), mintData); err != nil {
				return err
			}
		}

		e.Staked.LastKiHarvestStakeAccountLamports = stake.Delegation.Stake
	}

	return nil
}

// TakeCommissionOrDelegate is the permissionless crank (anyone may call
// it): it brings a freshly-staked, merely Initialized stake account under
// delegation the first time it is seen, and otherwise charges commission
// on an already-delegated one. Exactly one of the two happens per call.
func TakeCommissionOrDelegate(ctx *runtime.Context, shepherd *pda.Shepherd, b *block.Block, e *entry.Entry, stakeAccountKey, voteAccountKey, masterStakeKey, fundingKey, stakeAuthorityKey solana.PublicKey, bridge Bridge, minimumStakeDelegation uint64) error {
	if !b.IsComplete() {
		return errs.BlockNotComplete
	}
	now := ctx.Clock.UnixTimestamp
	if entry.GetEntryState(e, true, now) != entry.OwnedAndStaked {
		return errs.NotStaked
	}
	if e.Staked.StakeAccount != stakeAccountKey {
		return errs.InvalidAccount(3)
	}

	info := ctx.Account(stakeAccountKey)
	if info == nil {
		return errs.AccountNotFound
	}
	stake, err := stakeprogram.Decode(*info.Data)
	if err != nil {
		return errs.InvalidStakeAccount
	}

	if stake.State == stakeprogram.StateInitialized {
		delegateIx := stakeprogram.NewDelegateStakeInstruction(stakeAccountKey, voteAccountKey, solana.SysvarClockID, solana.SysvarStakeHistoryID, solana.SysvarClockStakeConfigID, stakeAuthorityKey)
		if err := invokeStake(ctx, delegateIx); err != nil {
			return errs.FailedToDelegate
		}

		stake, err = stakeprogram.Decode(*info.Data)
		if err != nil {
			return errs.InvalidStakeAccount
		}

		e.Staked.LastKiHarvestStakeAccountLamports = stake.Delegation.Stake
		e.Staked.LastCommissionChargeStakeAccountLamports = stake.Delegation.Stake
		return nil
	}

	return ChargeCommission(ctx, shepherd, b, e, stake, bridge, stakeAccountKey, masterStakeKey, fundingKey, stakeAuthorityKey, minimumStakeDelegation)
}

// Staker names the accounts a Stake call brings under program control.
type Staker struct {
	StakeAccount      solana.PublicKey
	WithdrawAuthority solana.PublicKey
	VoteAccount       solana.PublicKey
}

// Stake hands a caller-owned, externally delegated (or merely initialized)
// stake account's authorities to this program, recording it against an
// owned, not-yet-staked entry. If the account is already delegated to a
// voter other than the one this program always delegates to, it is
// deactivated instead of left alone, so a later crank can redelegate it.
func Stake(ctx *runtime.Context, e *entry.Entry, s Staker, authorityKey, shinobiVoteKey solana.PublicKey) error {
	now := ctx.Clock.UnixTimestamp
	if entry.GetEntryState(e, true, now) != entry.Owned {
		return errs.NotStaked
	}

	info := ctx.Account(s.StakeAccount)
	if info == nil {
		return errs.AccountNotFound
	}
	stake, err := stakeprogram.Decode(*info.Data)
	if err != nil {
		return errs.InvalidStakeAccount
	}
	switch stake.State {
	case stakeprogram.StateInitialized, stakeprogram.StateStake:
	default:
		return errs.InvalidStakeAccount
	}
	if stake.Meta.Withdrawer != s.WithdrawAuthority {
		return errs.InvalidStakeAccount
	}
	if stake.Meta.LockupUnixTimestamp > now || stake.Meta.LockupEpoch > ctx.Clock.Epoch {
		return errs.InvalidStakeAccount
	}

	if err := setStakeAuthorities(ctx, s.StakeAccount, s.WithdrawAuthority, authorityKey); err != nil {
		return err
	}

	if stake.State == stakeprogram.StateInitialized {
		delegateIx := stakeprogram.NewDelegateStakeInstruction(s.StakeAccount, s.VoteAccount, solana.SysvarClockID, solana.SysvarStakeHistoryID, solana.SysvarClockStakeConfigID, authorityKey)
		if err := invokeStake(ctx, delegateIx); err != nil {
			return errs.FailedToDelegate
		}
	} else if stake.Delegation.VoterPubkey != shinobiVoteKey {
		deactivateIx := stakeprogram.NewDeactivateInstruction(s.StakeAccount, solana.SysvarClockID, authorityKey)
		if err := invokeStake(ctx, deactivateIx); err != nil {
			return err
		}
	}

	e.Staked.StakeAccount = s.StakeAccount
	e.Staked.LastKiHarvestStakeAccountLamports = stake.Delegation.Stake
	e.Staked.LastCommissionChargeStakeAccountLamports = stake.Delegation.Stake

	return nil
}

// setStakeAuthorities reassigns both the staker and withdrawer authority
// of a stake account in one call, matching set_stake_authorities.
func setStakeAuthorities(ctx *runtime.Context, stakeAccount, currentAuthority, newAuthority solana.PublicKey) error {
	stakerIx := stakeprogram.NewSetAuthorityInstruction(stakeprogram.StakeAuthorizeStaker, newAuthority, stakeAccount, currentAuthority)
	if err := invokeStake(ctx, stakerIx); err != nil {
		return err
	}
	withdrawerIx := stakeprogram.NewSetAuthorityInstruction(stakeprogram.StakeAuthorizeWithdrawer, newAuthority, stakeAccount, currentAuthority)
	return invokeStake(ctx, withdrawerIx)
}

// Destake harvests any outstanding Ki, charges any outstanding commission,
// hands the stake account's authorities to newWithdrawAuthority, and
// clears the entry's staking fields, returning it to plain Owned.
func Destake(ctx *runtime.Context, shepherd *pda.Shepherd, b *block.Block, e *entry.Entry, kiMint, kiDestination, kiDestinationOwner, newWithdrawAuthority, masterStakeKey, fundingKey, authorityKey solana.PublicKey, bridge Bridge, minimumStakeDelegation uint64) error {
	now := ctx.Clock.UnixTimestamp
	if entry.GetEntryState(e, true, now) != entry.OwnedAndStaked {
		return errs.NotStaked
	}

	info := ctx.Account(e.Staked.StakeAccount)
	if info == nil {
		return errs.AccountNotFound
	}
	stake, err := stakeprogram.Decode(*info.Data)
	if err != nil {
		return errs.InvalidStakeAccount
	}

	if err := HarvestKi(ctx, e, stake, kiMint, kiDestination, kiDestinationOwner, fundingKey); err != nil {
		return err
	}
	if err := ChargeCommission(ctx, shepherd, b, e, stake, bridge, e.Staked.StakeAccount, masterStakeKey, fundingKey, authorityKey, minimumStakeDelegation); err != nil {
		return err
	}

	if err := setStakeAuthorities(ctx, e.Staked.StakeAccount, authorityKey, newWithdrawAuthority); err != nil {
		return err
	}

	e.Staked = entry.Staking{}

	return nil
}

// LevelUp burns the Ki required to advance an owned entry one level,
// compounding the cost by 1.5x per level already achieved, and bumps the
// entry's level. Ki is stored on-chain with one decimal place, so the
// burned amount is the whole-Ki cost scaled by constants.KiDecimalScale.
func LevelUp(ctx *runtime.Context, e *entry.Entry, kiMint, kiSource, kiSourceOwner solana.PublicKey) error {
	now := ctx.Clock.UnixTimestamp
	switch entry.GetEntryState(e, true, now) {
	case entry.Owned, entry.OwnedAndStaked:
	default:
		return errs.AlreadyOwned
	}
	if e.Metadata.Level >= constants.MaxLevel {
		return errs.InvalidInstructionData
	}

	kiToBurn := e.Metadata.Level1Ki
	for i := uint8(0); i < e.Metadata.Level; i++ {
		kiToBurn += kiToBurn >> 1
	}
	kiToBurn *= constants.KiDecimalScale

	burnIx := tokenprogram.NewBurnCheckedInstruction(kiToBurn, constants.KiDecimals, kiSource, kiMint, kiSourceOwner)
	data, err := burnIx.Data()
	if err != nil {
		return err
	}
	if err := ctx.Invoker.Invoke(solana.TokenProgramID, burnIx.Accounts(), data); err != nil {
		return err
	}

	e.Metadata.Level++

	return nil
}
