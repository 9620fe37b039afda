package program

import (
	"github.com/nifty-labs/entries-program/auction"
	"github.com/nifty-labs/entries-program/block"
	"github.com/nifty-labs/entries-program/constants"
	"github.com/nifty-labs/entries-program/entry"
	"github.com/nifty-labs/entries-program/errs"
	"github.com/nifty-labs/entries-program/instruction"
	"github.com/nifty-labs/entries-program/pda"
	"github.com/nifty-labs/entries-program/pkg/encodbin"
	"github.com/nifty-labs/entries-program/reveal"
	"github.com/nifty-labs/entries-program/runtime"
	"github.com/nifty-labs/entries-program/sale"
	"github.com/nifty-labs/entries-program/solana"
	"github.com/nifty-labs/entries-program/stakeengine"
	"github.com/nifty-labs/entries-program/stakeprogram"
	"github.com/nifty-labs/entries-program/whitelist"
)

// decoder is the narrow slice of *encodbin.Decoder every DecodeXxx function
// in the instruction package actually needs; Dispatch only ever hands out
// the real thing, built fresh per call from the bytes after the tag.
type decoder = *encodbin.Decoder

// Dispatch is the single entrypoint every instruction enters through: it
// reads the leading tag, requires the minimum account count each
// instruction needs, loads the accounts it must decode before calling the
// controller that owns that tag's semantics, and persists whatever that
// controller mutated in place (every controller above mutates through the
// *AccountInfo pointers ctx.Account hands back, so there is nothing left
// for Dispatch to write once a controller returns nil).
//
// accounts is the transaction's declared account list in the exact order
// spec.md §6 describes for instructions it gives an explicit shape for
// (Initialize's 15, CreateBlock/AddEntriesToBlock/RevealEntries's
// per-entry quadruples/pairs); for instructions §6 leaves to "the
// controller's own account list", the order below is this
// implementation's own documented convention.
func Dispatch(ctx *runtime.Context, shepherd *pda.Shepherd, accounts []solana.PublicKey, data []byte) error {
	tag, err := instruction.PeekTag(data)
	if err != nil {
		return err
	}
	dec := encodbin.NewBinDecoder(data[1:])

	switch tag {
	case instruction.TagInitialize:
		return dispatchInitialize(ctx, shepherd, accounts, dec)
	case instruction.TagSetAdmin:
		return dispatchSetAdmin(ctx, accounts, dec)
	case instruction.TagCreateBlock:
		return dispatchCreateBlock(ctx, shepherd, accounts, dec)
	case instruction.TagAddEntriesToBlock:
		return dispatchAddEntriesToBlock(ctx, shepherd, accounts, dec)
	case instruction.TagRevealEntries:
		return dispatchRevealEntries(ctx, accounts, dec)
	case instruction.TagSetBlockCommission:
		return dispatchSetBlockCommission(ctx, accounts, dec)
	case instruction.TagTakeCommissionOrDelegate:
		return dispatchTakeCommissionOrDelegate(ctx, shepherd, accounts)
	case instruction.TagBuy:
		return dispatchBuy(ctx, accounts, dec)
	case instruction.TagBid:
		return dispatchBid(ctx, shepherd, accounts, dec)
	case instruction.TagClaimWinning:
		return dispatchClaimWinning(ctx, accounts)
	case instruction.TagClaimLosing:
		return dispatchClaimLosing(ctx, accounts)
	case instruction.TagDestake:
		return dispatchDestake(ctx, shepherd, accounts, dec)
	case instruction.TagStake:
		return dispatchStake(ctx, accounts)
	case instruction.TagHarvest:
		return dispatchHarvest(ctx, accounts)
	case instruction.TagLevelUp:
		return dispatchLevelUp(ctx, accounts)
	case instruction.TagSplitMasterStake:
		return dispatchSplitMasterStake(ctx, shepherd, accounts, dec)
	case instruction.TagAddWhitelistEntries:
		return dispatchAddWhitelistEntries(ctx, shepherd, accounts, dec)
	case instruction.TagDeleteWhitelist:
		return dispatchDeleteWhitelist(ctx, accounts)
	default:
		return errs.UnknownInstruction
	}
}

// Account index conventions, one per instruction. Every one of these is
// this port's own documented choice where spec.md §6 does not give an
// explicit account order; Initialize's follows
// original_source/nifty_program/super/super_initialize.c exactly.

// accounts[0..14] for Initialize, matching super_initialize.c: superuser
// signer, config, authority, master stake, vote account, Ki mint, Ki
// metadata, clock, rent, stake history, stake config, system program,
// stake program, token program, metadata program.
func dispatchInitialize(ctx *runtime.Context, shepherd *pda.Shepherd, accounts []solana.PublicKey, dec decoder) error {
	if len(accounts) < 7 {
		return errs.WrongAccountCount
	}
	payload, err := instruction.DecodeInitialize(dec)
	if err != nil {
		return err
	}
	superuser := accounts[0]
	addrs := Addresses{
		Config:      accounts[1],
		Authority:   accounts[2],
		MasterStake: accounts[3],
		KiMint:      accounts[5],
		KiMetadata:  accounts[6],
	}
	voteAccount := accounts[4]

	_, configBump, err := ConfigAddress(shepherd.ProgramID)
	if err != nil {
		return err
	}
	_, authorityBump, err := AuthorityAddress(shepherd.ProgramID)
	if err != nil {
		return err
	}
	_, masterStakeBump, err := MasterStakeAddress(shepherd.ProgramID)
	if err != nil {
		return err
	}
	_, kiMintBump, err := KiMintAddress(shepherd.ProgramID)
	if err != nil {
		return err
	}
	bumps := Bumps{Config: configBump, Authority: authorityBump, MasterStake: masterStakeBump, KiMint: kiMintBump}

	return Initialize(ctx, shepherd, addrs, bumps, payload.Admin, superuser, shepherd.FundingKey, voteAccount)
}

// accounts[0] = superuser signer, accounts[1] = config.
func dispatchSetAdmin(ctx *runtime.Context, accounts []solana.PublicKey, dec decoder) error {
	if len(accounts) < 2 {
		return errs.WrongAccountCount
	}
	payload, err := instruction.DecodeSetAdmin(dec)
	if err != nil {
		return err
	}
	return SetAdmin(ctx, accounts[1], accounts[0], payload.Admin)
}

// accounts[0] = admin signer, accounts[1] = config, accounts[2] = block PDA.
func dispatchCreateBlock(ctx *runtime.Context, shepherd *pda.Shepherd, accounts []solana.PublicKey, dec decoder) error {
	if len(accounts) < 3 {
		return errs.WrongAccountCount
	}
	payload, err := instruction.DecodeCreateBlock(dec)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx, accounts[1])
	if err != nil {
		return err
	}
	blockKey := accounts[2]
	_, blockBump, err := BlockAddress(shepherd.ProgramID, payload.Configuration.GroupNumber, payload.Configuration.BlockNumber)
	if err != nil {
		return err
	}
	bidRent := solana.RentExemptMinimum(ctx.Rent, auction.AccountSize)
	return CreateBlock(ctx, shepherd, cfg, accounts[0], blockKey, blockBump, payload.Configuration.GroupNumber, payload.Configuration.BlockNumber, payload.InitialCommission, payload.Configuration, bidRent)
}

// accounts[0] = admin signer, accounts[1] = config, accounts[2] = block,
// accounts[3] = second creator, accounts[4] = funding account, accounts[5]
// = authority, then one quadruple {entry, mint, token, metadata} per
// entry being added.
func dispatchAddEntriesToBlock(ctx *runtime.Context, shepherd *pda.Shepherd, accounts []solana.PublicKey, dec decoder) error {
	const fixedAccounts = 6
	if len(accounts) < fixedAccounts || (len(accounts)-fixedAccounts)%4 != 0 {
		return errs.WrongAccountCount
	}
	n := (len(accounts) - fixedAccounts) / 4
	payload, err := instruction.DecodeAddEntriesToBlock(dec, n)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx, accounts[1])
	if err != nil {
		return err
	}
	blockKey := accounts[2]
	b, err := loadBlock(ctx, blockKey)
	if err != nil {
		return err
	}
	_, authorityBump, err := AuthorityAddress(shepherd.ProgramID)
	if err != nil {
		return err
	}

	slots := make([]EntrySlot, n)
	for i := 0; i < n; i++ {
		base := fixedAccounts + i*4
		entryKey, mintKey, tokenKey, metadataKey := accounts[base], accounts[base+1], accounts[base+2], accounts[base+3]
		_, entryBump, err := EntryAddress(shepherd.ProgramID, mintKey)
		if err != nil {
			return err
		}
		_, mintBump, err := MintAddress(shepherd.ProgramID, b.Config.GroupNumber, b.Config.BlockNumber, payload.FirstEntry+uint16(i))
		if err != nil {
			return err
		}
		_, tokenBump, err := TokenAddress(shepherd.ProgramID, mintKey)
		if err != nil {
			return err
		}
		slots[i] = EntrySlot{
			Entry: entryKey, EntryBump: entryBump,
			Mint: mintKey, MintBump: mintBump,
			Token: tokenKey, TokenBump: tokenBump,
			Metadata:   metadataKey,
			Commitment: payload.Commitments[i],
		}
	}

	err = AddEntriesToBlock(ctx, shepherd, cfg, accounts[0], blockKey, payload.SecondCreator, accounts[4], accounts[5], authorityBump, b, payload.FirstEntry, payload.URI, slots)
	if err != nil {
		return err
	}
	return persistBlock(ctx, blockKey, b)
}

// accounts[0] = admin signer, accounts[1] = config, accounts[2] = block,
// accounts[3] = authority, then one pair {entry, metaplex metadata} per
// entry being revealed.
func dispatchRevealEntries(ctx *runtime.Context, accounts []solana.PublicKey, dec decoder) error {
	const fixedAccounts = 4
	if len(accounts) < fixedAccounts || (len(accounts)-fixedAccounts)%2 != 0 {
		return errs.WrongAccountCount
	}
	n := (len(accounts) - fixedAccounts) / 2
	payload, err := instruction.DecodeRevealEntries(dec, n)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx, accounts[1])
	if err != nil {
		return err
	}
	if accounts[0] != cfg.Admin {
		return errs.NotAdmin
	}
	blockKey := accounts[2]
	b, err := loadBlock(ctx, blockKey)
	if err != nil {
		return err
	}

	targets := make([]reveal.Target, n)
	entryKeys := make([]solana.PublicKey, n)
	for i := 0; i < n; i++ {
		base := fixedAccounts + i*2
		entryKey, metaKey := accounts[base], accounts[base+1]
		e, err := loadEntry(ctx, entryKey)
		if err != nil {
			return err
		}
		entryKeys[i] = entryKey
		targets[i] = reveal.Target{Entry: e, Salt: payload.Salts[i], MetaplexMetadata: metaKey}
	}

	if err := reveal.Reveal(ctx, b, targets, accounts[0], accounts[3]); err != nil {
		return err
	}
	for i, key := range entryKeys {
		if err := persistEntry(ctx, key, targets[i].Entry); err != nil {
			return err
		}
	}
	return persistBlock(ctx, blockKey, b)
}

// accounts[0] = admin signer, accounts[1] = config, accounts[2] = block.
func dispatchSetBlockCommission(ctx *runtime.Context, accounts []solana.PublicKey, dec decoder) error {
	if len(accounts) < 3 {
		return errs.WrongAccountCount
	}
	payload, err := instruction.DecodeSetBlockCommission(dec)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx, accounts[1])
	if err != nil {
		return err
	}
	if accounts[0] != cfg.Admin {
		return errs.NotAdmin
	}
	blockKey := accounts[2]
	b, err := loadBlock(ctx, blockKey)
	if err != nil {
		return err
	}
	if err := b.SetCommission(payload.Commission, ctx.Clock.Epoch, constants.MaxCommissionIncreasePerEpoch); err != nil {
		return err
	}
	return persistBlock(ctx, blockKey, b)
}

// accounts[0] = block, accounts[1] = entry, accounts[2] = stake account,
// accounts[3] = vote account, accounts[4] = master stake, accounts[5] =
// funding account, accounts[6] = authority.
func dispatchTakeCommissionOrDelegate(ctx *runtime.Context, shepherd *pda.Shepherd, accounts []solana.PublicKey) error {
	if len(accounts) < 7 {
		return errs.WrongAccountCount
	}
	blockKey := accounts[0]
	b, err := loadBlock(ctx, blockKey)
	if err != nil {
		return err
	}
	entryKey := accounts[1]
	e, err := loadEntry(ctx, entryKey)
	if err != nil {
		return err
	}
	stakeAccountKey, voteAccountKey, masterStakeKey, fundingKey, authorityKey := accounts[2], accounts[3], accounts[4], accounts[5], accounts[6]

	bridge, err := newBridge(ctx, shepherd, e.Mint)
	if err != nil {
		return err
	}
	minimumDelegation, err := ctx.GetMinimumStakeDelegation()
	if err != nil {
		return errs.FailedToGetMinimumStakeDelegation
	}

	if err := stakeengine.TakeCommissionOrDelegate(ctx, shepherd, b, e, stakeAccountKey, voteAccountKey, masterStakeKey, fundingKey, authorityKey, bridge, minimumDelegation); err != nil {
		return err
	}
	return persistEntry(ctx, entryKey, e)
}

// accounts[0] = buyer signer (funding), accounts[1] = block, accounts[2] =
// entry, accounts[3] = token destination, accounts[4] = token destination
// owner, accounts[5] = admin, accounts[6] = authority, accounts[7] =
// whitelist (optional: zero key means no whitelist account was supplied).
func dispatchBuy(ctx *runtime.Context, accounts []solana.PublicKey, dec decoder) error {
	if len(accounts) < 7 {
		return errs.WrongAccountCount
	}
	payload, err := instruction.DecodeBuy(dec)
	if err != nil {
		return err
	}
	blockKey := accounts[1]
	b, err := loadBlock(ctx, blockKey)
	if err != nil {
		return err
	}
	entryKey := accounts[2]
	e, err := loadEntry(ctx, entryKey)
	if err != nil {
		return err
	}

	buyer := sale.Buyer{Funding: accounts[0], TokenDestination: accounts[3], TokenDestinationOwner: accounts[4]}

	var whitelistCheck func(solana.PublicKey) bool
	if len(accounts) > 7 && accounts[7] != solana.PublicKeyZero {
		w, err := loadWhitelist(ctx, accounts[7])
		if err != nil {
			return err
		}
		whitelistCheck = func(buyer solana.PublicKey) bool {
			ok := w.CheckAndConsume(buyer)
			_ = persistWhitelist(ctx, accounts[7], w)
			return ok
		}
	}

	if err := sale.Buy(ctx, b, e, buyer, payload.MaxPrice, accounts[5], accounts[6], whitelistCheck); err != nil {
		return err
	}
	if err := persistEntry(ctx, entryKey, e); err != nil {
		return err
	}
	return persistBlock(ctx, blockKey, b)
}

// accounts[0] = entry, accounts[1] = bid account, accounts[2] = bidder,
// accounts[3] = bid marker mint, accounts[4] = bid marker token,
// accounts[5] = authority.
func dispatchBid(ctx *runtime.Context, shepherd *pda.Shepherd, accounts []solana.PublicKey, dec decoder) error {
	if len(accounts) < 6 {
		return errs.WrongAccountCount
	}
	payload, err := instruction.DecodeBid(dec)
	if err != nil {
		return err
	}
	entryKey := accounts[0]
	e, err := loadEntry(ctx, entryKey)
	if err != nil {
		return err
	}

	bidderKey := accounts[2]
	_, mintBump, err := BidMarkerMintAddress(shepherd.ProgramID)
	if err != nil {
		return err
	}
	_, tokenBump, err := BidMarkerTokenAddress(shepherd.ProgramID, e.Mint, bidderKey)
	if err != nil {
		return err
	}
	marker := auction.BidMarker{Mint: accounts[3], Token: accounts[4]}
	mintSeeds := BidMarkerMintSeeds(mintBump)
	tokenSeeds := BidMarkerTokenSeeds(tokenBump, e.Mint, bidderKey)

	// The bid escrow account's address is bound to the bidder's bid-marker
	// token account, so one bidder re-bidding on the same entry always lands
	// in (and tops up) the same escrow.
	bidKey, bidBump, err := BidAddress(shepherd.ProgramID, accounts[4])
	if err != nil {
		return err
	}
	if accounts[1] != bidKey {
		return errs.InvalidAccount(1)
	}
	bidSeeds := BidSeeds(bidBump, accounts[4])

	rng := auction.Range{Minimum: payload.MinBid, Maximum: payload.MaxBid}
	if err := auction.PlaceBid(ctx, shepherd, e, accounts[1], bidderKey, rng, marker, mintSeeds, tokenSeeds, bidSeeds, accounts[5]); err != nil {
		return err
	}
	return persistEntry(ctx, entryKey, e)
}

// accounts[0] = entry, accounts[1] = bidder, accounts[2] = winning bid
// account, accounts[3] = token destination, accounts[4] = token
// destination owner, accounts[5] = admin, accounts[6] = authority, then
// optionally accounts[7] = bid marker mint, accounts[8] = bid marker
// token to additionally reclaim the winner's bid-marker token (matching
// original_source/program/user/user_claim_winning.c's "more than 13
// accounts supplied" convention).
func dispatchClaimWinning(ctx *runtime.Context, accounts []solana.PublicKey) error {
	if len(accounts) < 7 {
		return errs.WrongAccountCount
	}
	if len(accounts) != 7 && len(accounts) != 9 {
		return errs.WrongAccountCount
	}
	entryKey := accounts[0]
	e, err := loadEntry(ctx, entryKey)
	if err != nil {
		return err
	}
	w := auction.Winner{Bidder: accounts[1], BidAccount: accounts[2], TokenDestination: accounts[3], TokenDestinationOwner: accounts[4]}
	var reclaim *auction.BidMarker
	if len(accounts) == 9 {
		reclaim = &auction.BidMarker{Mint: accounts[7], Token: accounts[8]}
	}
	if err := auction.ClaimWinning(ctx, e, w, accounts[5], accounts[6], reclaim); err != nil {
		return err
	}
	return persistEntry(ctx, entryKey, e)
}

// accounts[0] = entry, accounts[1] = bid account, accounts[2] = bidder,
// then optionally accounts[3] = bid marker mint, accounts[4] = bid marker
// token to additionally reclaim the bidder's bid-marker token (matching
// original_source/program/user/user_claim_losing.c's "more than 3
// accounts supplied" convention).
func dispatchClaimLosing(ctx *runtime.Context, accounts []solana.PublicKey) error {
	if len(accounts) < 3 {
		return errs.WrongAccountCount
	}
	if len(accounts) != 3 && len(accounts) != 5 {
		return errs.WrongAccountCount
	}
	entryKey := accounts[0]
	e, err := loadEntry(ctx, entryKey)
	if err != nil {
		return err
	}
	var reclaim *auction.BidMarker
	if len(accounts) == 5 {
		reclaim = &auction.BidMarker{Mint: accounts[3], Token: accounts[4]}
	}
	if err := auction.ClaimLosing(ctx, e, accounts[1], accounts[2], reclaim); err != nil {
		return err
	}
	return persistEntry(ctx, entryKey, e)
}

// accounts[0] = token-owner signer, accounts[1] = block, accounts[2] =
// entry, accounts[3] = Ki mint, accounts[4] = Ki destination, accounts[5]
// = Ki destination owner, accounts[6] = master stake, accounts[7] =
// funding account, accounts[8] = authority, accounts[9] = token account
// (holding the entry's mint, owned by accounts[0]).
func dispatchDestake(ctx *runtime.Context, shepherd *pda.Shepherd, accounts []solana.PublicKey, dec decoder) error {
	if len(accounts) < 10 {
		return errs.WrongAccountCount
	}
	payload, err := instruction.DecodeDestake(dec)
	if err != nil {
		return err
	}
	blockKey := accounts[1]
	b, err := loadBlock(ctx, blockKey)
	if err != nil {
		return err
	}
	entryKey := accounts[2]
	e, err := loadEntry(ctx, entryKey)
	if err != nil {
		return err
	}
	if err := requireTokenOwner(ctx, accounts[9], e.Mint, accounts[0], 1); err != nil {
		return err
	}

	bridge, err := newBridge(ctx, shepherd, e.Mint)
	if err != nil {
		return err
	}
	minimumDelegation, err := ctx.GetMinimumStakeDelegation()
	if err != nil {
		return errs.FailedToGetMinimumStakeDelegation
	}

	err = stakeengine.Destake(ctx, shepherd, b, e, accounts[3], accounts[4], accounts[5], payload.NewWithdrawAuthority, accounts[6], accounts[7], accounts[8], bridge, minimumDelegation)
	if err != nil {
		return err
	}
	return persistEntry(ctx, entryKey, e)
}

// accounts[0] = entry, accounts[1] = stake account, accounts[2] =
// withdraw authority (current), accounts[3] = vote account,
// accounts[4] = authority, accounts[5] = token-owner signer, accounts[6]
// = token account (holding the entry's mint, owned by accounts[5]).
func dispatchStake(ctx *runtime.Context, accounts []solana.PublicKey) error {
	if len(accounts) < 7 {
		return errs.WrongAccountCount
	}
	entryKey := accounts[0]
	e, err := loadEntry(ctx, entryKey)
	if err != nil {
		return err
	}
	if err := requireTokenOwner(ctx, accounts[6], e.Mint, accounts[5], 1); err != nil {
		return err
	}
	s := stakeengine.Staker{StakeAccount: accounts[1], WithdrawAuthority: accounts[2], VoteAccount: accounts[3]}
	if err := stakeengine.Stake(ctx, e, s, accounts[4], accounts[3]); err != nil {
		return err
	}
	return persistEntry(ctx, entryKey, e)
}

// accounts[0] = entry, accounts[1] = stake account, accounts[2] = Ki
// mint, accounts[3] = Ki destination, accounts[4] = Ki destination owner,
// accounts[5] = funding account.
func dispatchHarvest(ctx *runtime.Context, accounts []solana.PublicKey) error {
	if len(accounts) < 6 {
		return errs.WrongAccountCount
	}
	entryKey := accounts[0]
	e, err := loadEntry(ctx, entryKey)
	if err != nil {
		return err
	}
	stakeInfo := ctx.Account(accounts[1])
	if stakeInfo == nil {
		return errs.AccountNotFound
	}
	stake, err := stakeprogram.Decode(*stakeInfo.Data)
	if err != nil {
		return errs.InvalidStakeAccount
	}
	if err := stakeengine.HarvestKi(ctx, e, stake, accounts[2], accounts[3], accounts[4], accounts[5]); err != nil {
		return err
	}
	return persistEntry(ctx, entryKey, e)
}

// accounts[0] = entry, accounts[1] = Ki mint, accounts[2] = Ki source,
// accounts[3] = Ki source owner.
func dispatchLevelUp(ctx *runtime.Context, accounts []solana.PublicKey) error {
	if len(accounts) < 4 {
		return errs.WrongAccountCount
	}
	entryKey := accounts[0]
	e, err := loadEntry(ctx, entryKey)
	if err != nil {
		return err
	}
	if err := stakeengine.LevelUp(ctx, e, accounts[1], accounts[2], accounts[3]); err != nil {
		return err
	}
	return persistEntry(ctx, entryKey, e)
}

// accounts[0] = admin signer, accounts[1] = config, accounts[2] = master
// stake, accounts[3] = destination, accounts[4] = authority.
func dispatchSplitMasterStake(ctx *runtime.Context, shepherd *pda.Shepherd, accounts []solana.PublicKey, dec decoder) error {
	if len(accounts) < 5 {
		return errs.WrongAccountCount
	}
	payload, err := instruction.DecodeSplitMasterStake(dec)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx, accounts[1])
	if err != nil {
		return err
	}
	_, authorityBump, err := AuthorityAddress(shepherd.ProgramID)
	if err != nil {
		return err
	}
	return SplitMasterStake(ctx, cfg, accounts[0], accounts[2], accounts[3], accounts[4], authorityBump, payload.Lamports)
}

// accounts[0] = admin signer, accounts[1] = config, accounts[2] = block
// (must not yet exist, per util_whitelist.c), accounts[3] = whitelist.
func dispatchAddWhitelistEntries(ctx *runtime.Context, shepherd *pda.Shepherd, accounts []solana.PublicKey, dec decoder) error {
	if len(accounts) < 4 {
		return errs.WrongAccountCount
	}
	payload, err := instruction.DecodeAddWhitelistEntries(dec)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(ctx, accounts[1])
	if err != nil {
		return err
	}
	if accounts[0] != cfg.Admin {
		return errs.NotAdmin
	}

	// Whitelists cannot be created once the block they gate already exists;
	// this is what ensures all whitelist entries precede any sale. Matching
	// original_source/program/util/util_whitelist.c's add_whitelist_entries,
	// which rejects whenever get_validated_block succeeds.
	if _, err := loadBlock(ctx, accounts[2]); err == nil {
		return errs.BlockAlreadyExists
	}

	whitelistKey := accounts[3]
	info := ctx.Account(whitelistKey)
	if info == nil {
		return errs.AccountNotFound
	}
	var w *whitelist.Whitelist
	if info.IsEmptyData() {
		rent := solana.RentExemptMinimum(ctx.Rent, whitelist.AccountSize)
		_, bump, err := WhitelistAddress(shepherd.ProgramID, accounts[2])
		if err != nil {
			return err
		}
		if err := shepherd.Ensure(whitelistKey, WhitelistSeeds(bump, accounts[2]), shepherd.ProgramID, rent, whitelist.AccountSize); err != nil {
			return err
		}
		w = whitelist.New()
	} else {
		w, err = loadWhitelist(ctx, whitelistKey)
		if err != nil {
			return err
		}
	}
	if err := w.Add(payload.Entries); err != nil {
		return err
	}
	return persistWhitelist(ctx, whitelistKey, w)
}

// accounts[0] = admin signer, accounts[1] = config, accounts[2] =
// whitelist, accounts[3] = destination for the reclaimed rent,
// accounts[4] = block (to check whether the whitelist phase has ended).
func dispatchDeleteWhitelist(ctx *runtime.Context, accounts []solana.PublicKey) error {
	if len(accounts) < 5 {
		return errs.WrongAccountCount
	}
	cfg, err := loadConfig(ctx, accounts[1])
	if err != nil {
		return err
	}
	if accounts[0] != cfg.Admin {
		return errs.NotAdmin
	}
	whitelistKey := accounts[2]
	w, err := loadWhitelist(ctx, whitelistKey)
	if err != nil {
		return err
	}
	b, err := loadBlock(ctx, accounts[4])
	if err != nil {
		return err
	}
	if !whitelist.CanDelete(w.Count, b.WhitelistPhaseEnded(ctx.Clock.UnixTimestamp)) {
		return errs.WhitelistNotEmpty
	}

	info := ctx.Account(whitelistKey)
	dest := ctx.Account(accounts[3])
	if info == nil || dest == nil {
		return errs.AccountNotFound
	}
	dest.SetLamports(dest.GetLamports() + info.GetLamports())
	info.SetLamports(0)
	info.SetDataLen(0)
	return nil
}

func newBridge(ctx *runtime.Context, shepherd *pda.Shepherd, mint solana.PublicKey) (stakeengine.Bridge, error) {
	bridgeKey, bump, err := BridgeAddress(shepherd.ProgramID, mint)
	if err != nil {
		return stakeengine.Bridge{}, err
	}
	return stakeengine.Bridge{
		Key:               bridgeKey,
		Seeds:             BridgeSeeds(bump, mint),
		RentExemptMinimum: solana.RentExemptMinimum(ctx.Rent, stakeprogram.AccountSize),
	}, nil
}

func loadConfig(ctx *runtime.Context, key solana.PublicKey) (*Config, error) {
	info := ctx.Account(key)
	if info == nil {
		return nil, errs.AccountNotFound
	}
	return DecodeConfig(*info.Data)
}

func loadBlock(ctx *runtime.Context, key solana.PublicKey) (*block.Block, error) {
	info := ctx.Account(key)
	if info == nil {
		return nil, errs.AccountNotFound
	}
	return block.Decode(*info.Data)
}

func persistBlock(ctx *runtime.Context, key solana.PublicKey, b *block.Block) error {
	data, err := b.Encode()
	if err != nil {
		return err
	}
	*ctx.Account(key).Data = data
	return nil
}

func loadEntry(ctx *runtime.Context, key solana.PublicKey) (*entry.Entry, error) {
	info := ctx.Account(key)
	if info == nil {
		return nil, errs.AccountNotFound
	}
	return entry.Decode(*info.Data)
}

func persistEntry(ctx *runtime.Context, key solana.PublicKey, e *entry.Entry) error {
	data, err := e.Encode()
	if err != nil {
		return err
	}
	*ctx.Account(key).Data = data
	return nil
}

func loadWhitelist(ctx *runtime.Context, key solana.PublicKey) (*whitelist.Whitelist, error) {
	info := ctx.Account(key)
	if info == nil {
		return nil, errs.AccountNotFound
	}
	return whitelist.Decode(*info.Data)
}

func persistWhitelist(ctx *runtime.Context, key solana.PublicKey, w *whitelist.Whitelist) error {
	data, err := w.Encode()
	if err != nil {
		return err
	}
	*ctx.Account(key).Data = data
	return nil
}
