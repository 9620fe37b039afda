package program

import (
	"github.com/nifty-labs/entries-program/constants"
	"github.com/nifty-labs/entries-program/errs"
	"github.com/nifty-labs/entries-program/metadataprogram"
	"github.com/nifty-labs/entries-program/pda"
	"github.com/nifty-labs/entries-program/runtime"
	"github.com/nifty-labs/entries-program/solana"
	"github.com/nifty-labs/entries-program/stakeprogram"
	"github.com/nifty-labs/entries-program/tokenprogram"
)

// Addresses bundles every program-derived singleton Initialize must stand
// up, resolved by the caller (the router, which has access to the
// transaction's declared account list and can verify each one matches its
// expected derivation before handing it in here).
type Addresses struct {
	Config      solana.PublicKey
	Authority   solana.PublicKey
	MasterStake solana.PublicKey
	KiMint      solana.PublicKey
	KiMetadata  solana.PublicKey
}

// Bumps carries the bump seed for every address in Addresses, needed to
// sign the CPIs that create and initialize them.
type Bumps struct {
	Config      uint8
	Authority   uint8
	MasterStake uint8
	KiMint      uint8
}

// ixBuilder is satisfied by every external-program instruction builder in
// systemprogram/tokenprogram/stakeprogram/metadataprogram/associatedtoken.
type ixBuilder interface {
	Accounts() solana.AccountMetaSlice
	Data() ([]byte, error)
}

func invoke(ctx *runtime.Context, programID solana.PublicKey, ix ixBuilder, seeds ...runtime.SignerSeeds) error {
	data, err := ix.Data()
	if err != nil {
		return err
	}
	return ctx.Invoker.Invoke(programID, ix.Accounts(), data, seeds...)
}

// Initialize bootstraps the program: the config singleton, the authority
// PDA used as every external-program authority, the master stake account
// (delegated immediately to voteAccountKey), and the Ki mint plus its
// Metaplex metadata. Grounded on
// original_source/nifty_program/super/super_initialize.c.
func Initialize(ctx *runtime.Context, shepherd *pda.Shepherd, addrs Addresses, bumps Bumps, admin, superuserKey, fundingKey, voteAccountKey solana.PublicKey) error {
	if superuserKey != SuperuserPubkey {
		return errs.NotSuperuser
	}

	configRent := solana.RentExemptMinimum(ctx.Rent, AccountSize)
	if err := shepherd.Ensure(addrs.Config, ConfigSeeds(bumps.Config), shepherd.ProgramID, configRent, AccountSize); err != nil {
		return err
	}
	cfg := NewConfig(admin)
	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	*ctx.Account(addrs.Config).Data = data

	authorityRent := solana.RentExemptMinimum(ctx.Rent, 0)
	if err := shepherd.Ensure(addrs.Authority, AuthoritySeeds(bumps.Authority), shepherd.ProgramID, authorityRent, 0); err != nil {
		return err
	}

	masterStakeLamports := constants.MasterStakeAccountMinLamports
	if err := shepherd.Ensure(addrs.MasterStake, MasterStakeSeeds(bumps.MasterStake), solana.StakeProgramID, masterStakeLamports, stakeprogram.AccountSize); err != nil {
		return err
	}
	initIx := stakeprogram.NewInitializeInstruction(addrs.Authority, addrs.Authority, addrs.MasterStake, solana.SysvarRentID)
	if err := invoke(ctx, solana.StakeProgramID, initIx); err != nil {
		return err
	}
	delegateIx := stakeprogram.NewDelegateStakeInstruction(addrs.MasterStake, voteAccountKey, solana.SysvarClockID, solana.SysvarStakeHistoryID, solana.SysvarClockStakeConfigID, addrs.Authority)
	if err := invoke(ctx, solana.StakeProgramID, delegateIx, AuthoritySeeds(bumps.Authority)); err != nil {
		return errs.FailedToDelegate
	}

	kiMintRent := solana.RentExemptMinimum(ctx.Rent, constants.TokenMintAccountSize)
	if err := shepherd.Ensure(addrs.KiMint, KiMintSeeds(bumps.KiMint), solana.TokenProgramID, kiMintRent, constants.TokenMintAccountSize); err != nil {
		return err
	}
	mintIx := tokenprogram.NewInitializeMint2Instruction(constants.KiDecimals, addrs.Authority, nil, addrs.KiMint)
	if err := invoke(ctx, solana.TokenProgramID, mintIx); err != nil {
		return err
	}

	metaIx := metadataprogram.NewCreateMetadataAccountInstruction(
		constants.KiTokenName, constants.KiTokenSymbol, constants.KiTokenMetadataURI,
		addrs.KiMetadata, addrs.KiMint, addrs.Authority, fundingKey, addrs.Authority,
	)
	return invoke(ctx, solana.MetaplexMetadataProgramID, metaIx, AuthoritySeeds(bumps.Authority))
}

// SetAdmin rotates the admin address recorded in the program config.
// Superuser-only, matching
// original_source/nifty_program/super/super_set_admin.c.
func SetAdmin(ctx *runtime.Context, configKey, superuserKey, newAdmin solana.PublicKey) error {
	if superuserKey != SuperuserPubkey {
		return errs.NotSuperuser
	}
	info := ctx.Account(configKey)
	if info == nil {
		return errs.AccountNotFound
	}
	cfg, err := DecodeConfig(*info.Data)
	if err != nil {
		return err
	}
	cfg.Admin = newAdmin
	data, err := cfg.Encode()
	if err != nil {
		return err
	}
	*info.Data = data
	return nil
}

// SplitMasterStake splits admin-controllable stake off of the master stake
// account into destination, leaving at least
// constants.MasterStakeAccountMinLamports staked. A request of 0 lamports
// splits the maximum available. Admin-only, matching spec.md §4.11.
func SplitMasterStake(ctx *runtime.Context, cfg *Config, adminKey, masterStakeKey, destinationKey, authorityKey solana.PublicKey, authorityBump uint8, lamports uint64) error {
	if adminKey != cfg.Admin {
		return errs.NotAdmin
	}

	info := ctx.Account(masterStakeKey)
	if info == nil {
		return errs.AccountNotFound
	}
	stake, err := stakeprogram.Decode(*info.Data)
	if err != nil {
		return errs.InvalidStakeAccount
	}
	if !stake.IsDelegated() {
		return errs.InvalidStakeAccount
	}

	available := info.GetLamports()
	if available <= constants.MasterStakeAccountMinLamports {
		return errs.InsufficientFunds
	}
	max := available - constants.MasterStakeAccountMinLamports
	if lamports == 0 {
		lamports = max
	}
	if lamports > max {
		return errs.InsufficientFunds
	}

	splitIx := stakeprogram.NewSplitInstruction(lamports, masterStakeKey, destinationKey, authorityKey)
	return invoke(ctx, solana.StakeProgramID, splitIx, AuthoritySeeds(authorityBump))
}
