// Package auction implements the bid and bid-claim controllers (C10): the
// minimum-bid curve a live auction enforces, escrowing a bid's lamports in
// its own account, and the two ways a bid account is later drained -
// winning claims the entry, losing just returns the lamports. Grounded on
// original_source/program/user/user_bid.c, user_claim_winning.c and
// user_claim_losing.c.
package auction

import (
	"github.com/nifty-labs/entries-program/associatedtoken"
	"github.com/nifty-labs/entries-program/constants"
	"github.com/nifty-labs/entries-program/entry"
	"github.com/nifty-labs/entries-program/errs"
	"github.com/nifty-labs/entries-program/pda"
	"github.com/nifty-labs/entries-program/pkg/checked"
	"github.com/nifty-labs/entries-program/pkg/encodbin"
	"github.com/nifty-labs/entries-program/runtime"
	"github.com/nifty-labs/entries-program/solana"
	"github.com/nifty-labs/entries-program/tokenprogram"
)

// DataType identifies a Bid account.
const DataType uint8 = 5

// AccountSize is the fixed size of a Bid account.
const AccountSize = 1 + 32 + 32

// Bid is the decoded form of a bid escrow account: its lamport balance
// (read directly off the account, not stored in-band) is the bid amount.
type Bid struct {
	DataType uint8
	Mint     solana.PublicKey
	Bidder   solana.PublicKey
}

func Decode(data []byte) (*Bid, error) {
	dec := encodbin.NewBinDecoder(data)
	b := &Bid{}

	dataType, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	b.DataType = dataType
	if b.DataType != DataType {
		return nil, errs.WrongDataType
	}

	mint, err := dec.ReadPubkey()
	if err != nil {
		return nil, err
	}
	b.Mint = solana.PublicKey(mint)

	bidder, err := dec.ReadPubkey()
	if err != nil {
		return nil, err
	}
	b.Bidder = solana.PublicKey(bidder)

	return b, nil
}

func (b *Bid) MarshalWithEncoder(enc *encodbin.Encoder) error {
	if err := enc.WriteUint8(DataType); err != nil {
		return err
	}
	if err := enc.WritePubkey(b.Mint); err != nil {
		return err
	}
	return enc.WritePubkey(b.Bidder)
}

func (b *Bid) Encode() ([]byte, error) { return encodbin.MarshalBin(b) }

// ComputeMinimumBid is the curve y = p * ((1 / (101 - 100*(a/b))) + 1.01),
// which runs from 1.02x the current high bid at a=0 up to 2.01x at
// a=auctionDuration. Before any bid has been cast, currentMaxBid is below
// initialMinimum and the initial minimum applies unmodified. On overflow
// the curve falls back to currentMaxBid + currentMaxBid/8, and if that
// itself overflows, to the maximum representable bid.
func ComputeMinimumBid(auctionDuration, initialMinimum, currentMaxBid, secondsElapsed uint64) uint64 {
	if currentMaxBid == ^uint64(0) {
		return 0
	}
	if currentMaxBid < initialMinimum {
		return initialMinimum
	}

	if secondsElapsed >= auctionDuration {
		secondsElapsed = auctionDuration - 1
	}

	a := secondsElapsed
	b := auctionDuration
	p := currentMaxBid

	var overflow bool
	result := checked.Multiply(p, (1000*b)/((b+b/100)-a)+101000, &overflow) / 100000

	if overflow {
		overflow = false
		result = checked.Add(currentMaxBid, currentMaxBid>>3, &overflow)
		if overflow {
			result = ^uint64(0)
		}
	}

	return result
}

// Range names the bid's acceptable price range: the caller proposes it is
// willing to pay anywhere between Minimum and Maximum, and the actual bid
// charged is the entry's current computed floor, clamped into that range.
type Range struct {
	Minimum uint64
	Maximum uint64
}

// BidMarker names the mint and bidder-owned token account backing the
// "bid marker" fungible token (spec.md §4.9): a 10-unit, one-decimal token
// minted idempotently into a PDA the bidder owns every time they bid, so a
// wallet can discover an outstanding bid even if the bidder loses track of
// the bid account itself. Grounded on
// original_source/nifty_program/util/util_bid.c's
// mint_bid_marker_token_idempotent and reclaim_bid_marker_token.
type BidMarker struct {
	Mint  solana.PublicKey
	Token solana.PublicKey
}

const tokenAccountSize = 165

// ixBuilder is satisfied by every external-program instruction builder in
// tokenprogram/associatedtoken this package invokes.
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

// mintBidMarkerIdempotent stands up the bidder's bid-marker mint and token
// account the first time either is needed, then always mints
// constants.BidMarkerUnits more decitokens into the token account. Minting
// on every bid (rather than topping the balance up to a fixed amount)
// mirrors the original's comment that the mint simply must never look
// "empty", so the account can't be cleaned up out from under a live bid.
func mintBidMarkerIdempotent(ctx *runtime.Context, shepherd *pda.Shepherd, marker BidMarker, mintSeeds, tokenSeeds runtime.SignerSeeds, bidder, authorityKey solana.PublicKey) error {
	mintInfo := ctx.Account(marker.Mint)
	if mintInfo == nil {
		return errs.AccountNotFound
	}
	if mintInfo.IsEmptyData() {
		mintRent := solana.RentExemptMinimum(ctx.Rent, constants.TokenMintAccountSize)
		if err := shepherd.Ensure(marker.Mint, mintSeeds, solana.TokenProgramID, mintRent, constants.TokenMintAccountSize); err != nil {
			return err
		}
		mintIx := tokenprogram.NewInitializeMint2Instruction(constants.BidMarkerDecimals, authorityKey, nil, marker.Mint)
		if err := invoke(ctx, solana.TokenProgramID, mintIx); err != nil {
			return err
		}
	}

	tokenInfo := ctx.Account(marker.Token)
	if tokenInfo == nil {
		return errs.AccountNotFound
	}
	if tokenInfo.IsEmptyData() {
		tokenRent := solana.RentExemptMinimum(ctx.Rent, tokenAccountSize)
		if err := shepherd.Ensure(marker.Token, tokenSeeds, solana.TokenProgramID, tokenRent, tokenAccountSize); err != nil {
			return err
		}
		initIx := tokenprogram.NewInitializeAccount3Instruction(bidder, marker.Token, marker.Mint)
		if err := invoke(ctx, solana.TokenProgramID, initIx); err != nil {
			return err
		}
	}

	mintToIx := tokenprogram.NewMintToCheckedInstruction(constants.BidMarkerUnits, constants.BidMarkerDecimals, marker.Mint, marker.Token, authorityKey)
	return invoke(ctx, solana.TokenProgramID, mintToIx)
}

// reclaimBidMarker burns whatever balance sits in the bidder's bid-marker
// token account and closes it back to the bidder, matching
// original_source/nifty_program/util/util_bid.c's
// reclaim_bid_marker_token (burn only if there's a balance; close either
// way).
func reclaimBidMarker(ctx *runtime.Context, marker BidMarker, bidder solana.PublicKey) error {
	_, _, amount, err := ctx.GetTokenAccount(marker.Token)
	if err != nil {
		return errs.AccountNotFound
	}
	if amount > 0 {
		burnIx := tokenprogram.NewBurnCheckedInstruction(amount, constants.BidMarkerDecimals, marker.Token, marker.Mint, bidder)
		if err := invoke(ctx, solana.TokenProgramID, burnIx); err != nil {
			return err
		}
	}
	closeIx := tokenprogram.NewCloseAccountInstruction(marker.Token, bidder, bidder)
	return invoke(ctx, solana.TokenProgramID, closeIx)
}

// PlaceBid escrows lamports into bidAccount at the entry's current
// computed minimum bid (clamped to the caller's acceptable range),
// records the new high bid on the entry, and mints the bidder's bid-marker
// token. The bid account is created on a bidder's first bid against an
// entry and topped up when they raise their own bid, holding the bid
// lamports directly as its balance (the block-configuration check that
// minimum_price covers a Bid's rent-exempt minimum is what keeps the
// account alive). Grounded on
// original_source/nifty_program/util/util_bid.c's create_entry_bid_account.
func PlaceBid(ctx *runtime.Context, shepherd *pda.Shepherd, e *entry.Entry, bidAccount, bidder solana.PublicKey, requested Range, marker BidMarker, mintSeeds, tokenSeeds, bidSeeds runtime.SignerSeeds, authorityKey solana.PublicKey) error {
	if requested.Minimum > requested.Maximum {
		return errs.InvalidInstructionData
	}

	now := ctx.Clock.UnixTimestamp
	if entry.GetEntryState(e, true, now) != entry.InNormalAuction {
		return errs.NotInAuction
	}

	minimumBid := ComputeMinimumBid(uint64(e.Config.Duration), e.Config.MinimumPriceLamports, e.Auction.HighestBidLamports, uint64(now-e.RevealTimestamp))
	if minimumBid == 0 {
		return errs.BidTooLow
	}
	if minimumBid > requested.Maximum {
		return errs.BidTooLow
	}
	if minimumBid < requested.Minimum {
		minimumBid = requested.Minimum
	}

	if err := mintBidMarkerIdempotent(ctx, shepherd, marker, mintSeeds, tokenSeeds, bidder, authorityKey); err != nil {
		return err
	}

	if err := shepherd.Ensure(bidAccount, bidSeeds, shepherd.ProgramID, minimumBid, AccountSize); err != nil {
		return err
	}
	bidInfo := ctx.Account(bidAccount)
	if bidInfo == nil {
		return errs.AccountNotFound
	}
	record, err := (&Bid{Mint: e.Mint, Bidder: bidder}).Encode()
	if err != nil {
		return err
	}
	*bidInfo.Data = record

	e.Auction.HighestBidLamports = minimumBid
	e.Auction.WinningBidPubkey = bidAccount

	return nil
}

// Winner names the accounts a winning claim delivers the entry token to.
type Winner struct {
	Bidder                solana.PublicKey
	BidAccount            solana.PublicKey
	TokenDestination      solana.PublicKey
	TokenDestinationOwner solana.PublicKey
}

// ClaimWinning transfers the entry's token to the auction winner and
// sweeps the winning bid account's lamports to the admin, finalizing the
// entry's purchase price. Legal only once the entry has left its auction
// window with this bid account recorded as the winner. reclaim is
// optional (nil skips it): when supplied, the winner's bid-marker token is
// burned and closed back to them, matching
// original_source/program/user/user_claim_winning.c's "more than 13
// accounts supplied" convention for requesting the reclaim.
func ClaimWinning(ctx *runtime.Context, e *entry.Entry, w Winner, adminKey, authorityKey solana.PublicKey, reclaim *BidMarker) error {
	now := ctx.Clock.UnixTimestamp
	if entry.GetEntryState(e, true, now) != entry.WaitingToBeClaimed {
		return errs.CannotClaimBid
	}
	if w.BidAccount != e.Auction.WinningBidPubkey {
		return errs.CannotClaimBid
	}

	bid, err := loadAndCheckBidder(ctx, w.BidAccount, w.Bidder)
	if err != nil {
		return err
	}
	if bid.Mint != e.Mint {
		return errs.InvalidAccount(2)
	}

	createATAIx := associatedtoken.NewCreateIdempotentInstruction(w.Bidder, w.TokenDestination, w.TokenDestinationOwner, e.Mint)
	createATAData, err := createATAIx.Data()
	if err != nil {
		return err
	}
	if err := ctx.Invoker.Invoke(solana.AssociatedTokenAccountProgramID, createATAIx.Accounts(), createATAData); err != nil {
		return err
	}

	transferIx := tokenprogram.NewTransferCheckedInstruction(1, 0, e.Token, e.Mint, w.TokenDestination, authorityKey)
	transferData, err := transferIx.Data()
	if err != nil {
		return err
	}
	if err := ctx.Invoker.Invoke(solana.TokenProgramID, transferIx.Accounts(), transferData); err != nil {
		return err
	}

	if reclaim != nil {
		if err := reclaimBidMarker(ctx, *reclaim, w.Bidder); err != nil {
			return err
		}
	}

	bidInfo := ctx.Account(w.BidAccount)
	admin := ctx.Account(adminKey)
	if bidInfo == nil || admin == nil {
		return errs.AccountNotFound
	}

	e.PurchasePriceLamports = bidInfo.GetLamports()

	admin.SetLamports(admin.GetLamports() + bidInfo.GetLamports())
	bidInfo.SetLamports(0)

	return nil
}

// ClaimLosing returns a non-winning bid's escrowed lamports to its
// bidder. Legal any time after the entry has entered (or passed through)
// an auction, for every bid account except the one recorded as the
// winner. reclaim is optional (nil skips it): when supplied, the bidder's
// bid-marker token is burned and closed back to them, matching
// original_source/program/user/user_claim_losing.c's "more than 3
// accounts supplied" convention for requesting the reclaim.
func ClaimLosing(ctx *runtime.Context, e *entry.Entry, bidAccount, bidder solana.PublicKey, reclaim *BidMarker) error {
	now := ctx.Clock.UnixTimestamp
	switch entry.GetEntryState(e, true, now) {
	case entry.InNormalAuction:
	case entry.WaitingToBeClaimed, entry.Owned, entry.OwnedAndStaked:
		if !e.Config.HasAuction {
			return errs.CannotClaimBid
		}
	default:
		return errs.CannotClaimBid
	}

	if _, err := loadAndCheckBidder(ctx, bidAccount, bidder); err != nil {
		return err
	}
	if bidAccount == e.Auction.WinningBidPubkey {
		return errs.BidWon
	}

	if reclaim != nil {
		if err := reclaimBidMarker(ctx, *reclaim, bidder); err != nil {
			return err
		}
	}

	bidInfo := ctx.Account(bidAccount)
	bidderInfo := ctx.Account(bidder)
	if bidInfo == nil || bidderInfo == nil {
		return errs.AccountNotFound
	}

	bidderInfo.SetLamports(bidderInfo.GetLamports() + bidInfo.GetLamports())
	bidInfo.SetLamports(0)

	return nil
}

func loadAndCheckBidder(ctx *runtime.Context, bidAccount, bidder solana.PublicKey) (*Bid, error) {
	info := ctx.Account(bidAccount)
	if info == nil {
		return nil, errs.AccountNotFound
	}
	bid, err := Decode(*info.Data)
	if err != nil {
		return nil, err
	}
	if bid.Bidder != bidder {
		return nil, errs.NotBidder
	}
	return bid, nil
}
