// Package sale implements the buy controller (C11): the monotone-decreasing
// mystery and post-reveal price curves, whitelist enforcement during a
// block's whitelist phase, and the escrow-vs-direct payment routing that
// depends on whether the entry being bought is still a mystery. Grounded on
// original_source/program/user/user_buy.c.
package sale

import (
	"github.com/nifty-labs/entries-program/associatedtoken"
	"github.com/nifty-labs/entries-program/block"
	"github.com/nifty-labs/entries-program/entry"
	"github.com/nifty-labs/entries-program/errs"
	"github.com/nifty-labs/entries-program/metadataprogram"
	"github.com/nifty-labs/entries-program/pkg/checked"
	"github.com/nifty-labs/entries-program/runtime"
	"github.com/nifty-labs/entries-program/solana"
	"github.com/nifty-labs/entries-program/systemprogram"
	"github.com/nifty-labs/entries-program/tokenprogram"
)

// ComputePrice is the monotone-decreasing sale curve shared by the mystery
// and post-reveal-non-auction price schedules: it starts at startPrice when
// elapsed is 0 and decays toward endPrice as elapsed approaches
// totalSeconds, floored at endPrice beyond that. Lamport values above
// 100,000 SOL may see rounding error; on any arithmetic overflow the
// function falls back to endPrice (rescaled by the same /1000 factor used
// internally, matching the original implementation exactly).
func ComputePrice(totalSeconds, startPrice, endPrice, secondsElapsed uint64) uint64 {
	if secondsElapsed >= totalSeconds {
		return endPrice
	}
	if secondsElapsed == 0 {
		return startPrice
	}

	delta := startPrice - endPrice
	delta /= 1000
	endPrice /= 1000

	var overflow bool

	ac := delta * 101

	ab := checked.Add(
		checked.Multiply(100*delta, secondsElapsed, &overflow)/totalSeconds,
		delta,
		&overflow,
	)

	bc := checked.Add(
		checked.Multiply(100*101, secondsElapsed, &overflow)/totalSeconds,
		101,
		&overflow,
	)

	price := checked.Multiply(
		checked.Add(endPrice, (ac-ab)/bc, &overflow),
		1000,
		&overflow,
	)

	if overflow {
		return endPrice
	}
	return price
}

// Buyer names the accounts a buy instruction names beyond the block/entry
// pair: the funding (paying) account, the token destination owner, and the
// already-derived/created token destination account.
type Buyer struct {
	Funding               solana.PublicKey
	TokenDestination      solana.PublicKey
	TokenDestinationOwner solana.PublicKey
}

// Buy executes one purchase, legal only from PreRevealUnowned (mystery) or
// Unowned (post-reveal). maxPrice caps what the caller is willing to pay
// against a stale chain view; adminKey/authorityKey name the two possible
// payment destinations.
func Buy(ctx *runtime.Context, b *block.Block, e *entry.Entry, buyer Buyer, maxPrice uint64, adminKey, authorityKey solana.PublicKey, whitelistCheck func(solana.PublicKey) bool) error {
	if !b.IsComplete() {
		return errs.BlockNotComplete
	}

	now := ctx.Clock.UnixTimestamp
	state := entry.GetEntryState(e, b.IsRevealable(now), now)

	var price uint64
	var destination solana.PublicKey

	switch state {
	case entry.PreRevealUnowned:
		destination = authorityKey
		price = ComputePrice(uint64(b.Config.MysteryPhaseDuration), b.Config.MysteryStartPriceLamports, b.Config.MinimumPriceLamports, uint64(now-b.BlockStartTimestamp))
		b.RecordMysterySale(now)

	case entry.Unowned:
		destination = adminKey
		if e.Config.HasAuction {
			price = e.Config.MinimumPriceLamports
		} else {
			price = ComputePrice(uint64(e.Config.Duration), e.Config.NonAuctionStartPrice, e.Config.MinimumPriceLamports, uint64(now-e.RevealTimestamp))
		}

	default:
		return errs.AlreadyOwned
	}

	if price > maxPrice {
		return errs.PriceTooHigh
	}

	fundingAccount := ctx.Account(buyer.Funding)
	if fundingAccount == nil {
		return errs.AccountNotFound
	}
	if price > fundingAccount.GetLamports() {
		return errs.InsufficientFunds
	}

	if b.Config.WhitelistDuration > 0 && now < b.BlockStartTimestamp+int64(b.Config.WhitelistDuration) {
		if whitelistCheck == nil || !whitelistCheck(buyer.Funding) {
			return errs.NotInWhitelist
		}
	}

	destAccount := ctx.Account(destination)
	if destAccount == nil {
		return errs.AccountNotFound
	}
	transferIx := systemprogram.NewTransferInstruction(price, buyer.Funding, destination)
	transferData, err := transferIx.Data()
	if err != nil {
		return err
	}
	if err := ctx.Invoker.Invoke(solana.SystemProgramID, transferIx.Accounts(), transferData); err != nil {
		return err
	}

	createATAIx := associatedtoken.NewCreateIdempotentInstruction(buyer.Funding, buyer.TokenDestination, buyer.TokenDestinationOwner, e.Mint)
	createATAData, err := createATAIx.Data()
	if err != nil {
		return err
	}
	if err := ctx.Invoker.Invoke(solana.AssociatedTokenAccountProgramID, createATAIx.Accounts(), createATAData); err != nil {
		return err
	}

	transferTokenIx := tokenprogram.NewTransferCheckedInstruction(1, 0, e.Token, e.Mint, buyer.TokenDestination, authorityKey)
	transferTokenData, err := transferTokenIx.Data()
	if err != nil {
		return err
	}
	if err := ctx.Invoker.Invoke(solana.TokenProgramID, transferTokenIx.Accounts(), transferTokenData); err != nil {
		return err
	}

	e.PurchasePriceLamports = price

	saleHappened := true
	metadataIx := metadataprogram.NewUpdateMetadataAccountInstruction(nil, nil, nil, &saleHappened, e.MetaplexMetadata, authorityKey)
	metadataData, err := metadataIx.Data()
	if err != nil {
		return err
	}
	if err := ctx.Invoker.Invoke(solana.MetaplexMetadataProgramID, metadataIx.Accounts(), metadataData); err != nil {
		return err
	}

	closeIx := tokenprogram.NewCloseAccountInstruction(e.Token, adminKey, authorityKey)
	closeData, err := closeIx.Data()
	if err != nil {
		return err
	}
	return ctx.Invoker.Invoke(solana.TokenProgramID, closeIx.Accounts(), closeData)
}
