// Package reveal implements the commit-reveal controller (C9): validating
// a batch of entry reveals against their stored commitments, flipping
// entries to their post-reveal state, and sweeping any mystery proceeds
// held in escrow since purchase. Grounded on
// original_source/program/admin/admin_reveal_entries.c.
package reveal

import (
	"github.com/nifty-labs/entries-program/block"
	"github.com/nifty-labs/entries-program/crypto"
	"github.com/nifty-labs/entries-program/entry"
	"github.com/nifty-labs/entries-program/errs"
	"github.com/nifty-labs/entries-program/metadataprogram"
	"github.com/nifty-labs/entries-program/runtime"
	"github.com/nifty-labs/entries-program/solana"
)

// Target is one entry being revealed in this call, paired with the salt
// that should reproduce its stored commitment and the metaplex metadata
// account that carries its on-chain name/uri.
type Target struct {
	Entry            *entry.Entry
	Salt             uint64
	MetaplexMetadata solana.PublicKey
}

// Reveal validates and applies every target in one batch, exactly as
// admin_reveal_entries does: any single failure aborts before any lamports
// move, and the accumulated escrow sweep happens once, after every entry in
// the batch has been individually revealed.
//
// b must already be known complete and revealable by the caller; Reveal
// re-derives nothing about the block's own timing, only each entry's state
// relative to it.
func Reveal(ctx *runtime.Context, b *block.Block, targets []Target, adminKey, authorityKey solana.PublicKey) error {
	if !b.IsComplete() {
		return errs.BlockNotComplete
	}
	if !b.IsRevealable(ctx.Clock.UnixTimestamp) {
		return errs.BlockNotRevealable
	}

	var totalToMove uint64

	for _, t := range targets {
		moved, err := revealOne(ctx, b, t, authorityKey)
		if err != nil {
			return err
		}
		totalToMove += moved
	}

	if totalToMove == 0 {
		return nil
	}

	admin := ctx.Account(adminKey)
	authority := ctx.Account(authorityKey)
	if admin == nil || authority == nil {
		return errs.AccountNotFound
	}
	if authority.GetLamports() < totalToMove {
		return errs.InsufficientFunds
	}
	admin.SetLamports(admin.GetLamports() + totalToMove)
	authority.SetLamports(authority.GetLamports() - totalToMove)

	return nil
}

// revealOne reveals a single entry, returning the escrowed lamports (if
// any) that must be swept to the admin account once the whole batch
// succeeds.
func revealOne(ctx *runtime.Context, b *block.Block, t Target, authorityKey solana.PublicKey) (uint64, error) {
	e := t.Entry

	var escrowed uint64
	switch entry.GetEntryState(e, true, ctx.Clock.UnixTimestamp) {
	case entry.WaitingForRevealUnowned:
		// Nothing was ever paid in escrow.
	case entry.WaitingForRevealOwned:
		if !e.RefundAwarded {
			escrowed = e.PurchasePriceLamports
		}
	default:
		return 0, errs.AlreadyRevealed
	}

	metadataBytes, err := e.Metadata.MarshalBinary()
	if err != nil {
		return 0, err
	}
	computed := crypto.EntryCommit(metadataBytes, t.Salt)
	if computed != e.RevealSHA256 {
		return 0, errs.InvalidHash
	}

	levelMeta := e.Metadata.Levels[0]
	name := trimTrailingZeroes(levelMeta.Name[:])
	uri := trimTrailingZeroes(levelMeta.URI[:])

	ix := metadataprogram.NewUpdateMetadataAccountInstruction(&name, &uri, nil, nil, t.MetaplexMetadata, authorityKey)
	data, err := ix.Data()
	if err != nil {
		return 0, err
	}
	if err := ctx.Invoker.Invoke(solana.MetaplexMetadataProgramID, ix.Accounts(), data); err != nil {
		return 0, err
	}

	e.RevealTimestamp = ctx.Clock.UnixTimestamp
	e.RevealSHA256 = [32]byte{}

	// An unsold entry's auction window opens the moment it is revealed.
	if !e.IsPurchased() {
		e.Auction.BeginTimestamp = ctx.Clock.UnixTimestamp
	}

	return escrowed, nil
}

func trimTrailingZeroes(b []byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return string(b[:n])
}
