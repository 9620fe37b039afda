package sale

import (
	"testing"

	"github.com/nifty-labs/entries-program/block"
	"github.com/nifty-labs/entries-program/entry"
	"github.com/nifty-labs/entries-program/runtime"
	"github.com/nifty-labs/entries-program/solana"
)

func TestComputePriceEndpoints(t *testing.T) {
	const total, start, end = 3600, 2_000_000, 500_000

	if got := ComputePrice(total, start, end, 0); got != start {
		t.Errorf("ComputePrice(t=0) = %d, want %d", got, start)
	}
	if got := ComputePrice(total, start, end, total); got != end {
		t.Errorf("ComputePrice(t=total) = %d, want %d", got, end)
	}
	if got := ComputePrice(total, start, end, total+1000); got != end {
		t.Errorf("ComputePrice(t>total) = %d, want %d", got, end)
	}
}

func TestComputePriceMonotoneDecreasing(t *testing.T) {
	const total, start, end = 3600, 2_000_000, 500_000

	prev := ComputePrice(total, start, end, 0)
	for _, elapsed := range []uint64{1, 100, 900, 1800, 2700, 3599} {
		price := ComputePrice(total, start, end, elapsed)
		if price > prev {
			t.Errorf("ComputePrice(%d) = %d > previous %d, want monotone non-increasing", elapsed, price, prev)
		}
		if price < end {
			t.Errorf("ComputePrice(%d) = %d < floor %d", elapsed, price, end)
		}
		prev = price
	}
}

// entryTokenRent is the balance the test harness leaves in the entry's
// token account, swept to the admin when Buy closes it.
const entryTokenRent = 2_039_280

func newHostWithFundedAccounts(t *testing.T) (*runtime.Host, map[string]solana.PublicKey) {
	t.Helper()
	h := runtime.NewHost()

	key := func(b byte) solana.PublicKey {
		var pk solana.PublicKey
		pk[0] = b
		return pk
	}

	buyer := key(1)
	admin := key(2)
	authority := key(3)
	mint := key(4)
	entryToken := key(5)
	buyerToken := key(6)
	metadata := key(7)

	h.CreateAccount(buyer, solana.PublicKeyZero, 0, 10_000_000)
	h.CreateAccount(admin, solana.PublicKeyZero, 0, 0)
	h.CreateAccount(authority, solana.PublicKeyZero, 0, 0)
	h.CreateAccount(entryToken, solana.TokenProgramID, 165, entryTokenRent)
	h.TokenAccounts[entryToken] = &runtime.TokenAccountState{Mint: mint, Owner: authority, Amount: 1}
	h.MetadataAccounts[metadata] = &runtime.MetadataState{Mint: mint, UpdateAuthority: authority}

	names := map[string]solana.PublicKey{
		"buyer": buyer, "admin": admin, "authority": authority,
		"mint": mint, "entryToken": entryToken, "buyerToken": buyerToken, "metadata": metadata,
	}
	return h, names
}

// TestBuyPostRevealNonAuction drives a full post-reveal, non-auction
// purchase through the Host simulation: price transfer, token-account
// creation, token transfer, metadata update, and closing the entry's
// token account all have to land for the entry to come out Owned.
func TestBuyPostRevealNonAuction(t *testing.T) {
	h, names := newHostWithFundedAccounts(t)
	ctx := h.Context([]*runtime.AccountInfo{
		h.Account(names["buyer"]), h.Account(names["admin"]), h.Account(names["authority"]), h.Account(names["entryToken"]),
	})
	h.Clock.UnixTimestamp = 1_000_000
	ctx.Clock.UnixTimestamp = 1_000_000

	b, err := block.New(block.Configuration{
		TotalEntryCount: 1, TotalMysteryCount: 0, MysteryPhaseDuration: 3600,
		MinimumPriceLamports: 500_000, Duration: 1800, FinalStartPriceLamports: 1_000_000,
	}, 100_000)
	if err != nil {
		t.Fatalf("block.New() error = %v", err)
	}
	if err := b.AddEntries(0, 1, h.Clock.UnixTimestamp, 0, nil); err != nil {
		t.Fatalf("AddEntries() error = %v", err)
	}

	e := &entry.Entry{
		Mint: names["mint"], Token: names["entryToken"], MetaplexMetadata: names["metadata"],
		Config: entry.SaleTerms{
			MinimumPriceLamports: 500_000, HasAuction: false,
			Duration: 1800, NonAuctionStartPrice: 1_000_000,
		},
		RevealTimestamp: h.Clock.UnixTimestamp,
	}

	buyer := Buyer{Funding: names["buyer"], TokenDestination: names["buyerToken"], TokenDestinationOwner: names["buyer"]}
	if err := Buy(ctx, b, e, buyer, 1_000_000, names["admin"], names["authority"], nil); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}

	if e.PurchasePriceLamports == 0 {
		t.Errorf("PurchasePriceLamports = 0, want nonzero after a successful buy")
	}
	// The admin receives the price plus the closed entry-token account's
	// rent balance.
	wantAdmin := e.PurchasePriceLamports + entryTokenRent
	if h.Account(names["admin"]).GetLamports() != wantAdmin {
		t.Errorf("admin lamports = %d, want %d", h.Account(names["admin"]).GetLamports(), wantAdmin)
	}
	if _, exists := h.TokenAccounts[names["entryToken"]]; exists {
		t.Errorf("entry token account still exists after close")
	}
	dest, ok := h.TokenAccounts[names["buyerToken"]]
	if !ok || dest.Amount != 1 {
		t.Errorf("buyer token account = %+v, want amount 1", dest)
	}
	if !h.MetadataAccounts[names["metadata"]].PrimarySaleHappened {
		t.Errorf("primary_sale_happened not set after buy")
	}
}

// TestBuyMysteryEscrowsToAuthority buys an unrevealed entry mid-way through
// the mystery phase: the price must land between the floor and the mystery
// start price, the lamports must sit in the authority escrow (not with the
// admin) pending reveal, and the block's mystery counter must advance.
func TestBuyMysteryEscrowsToAuthority(t *testing.T) {
	h, names := newHostWithFundedAccounts(t)
	ctx := h.Context([]*runtime.AccountInfo{
		h.Account(names["buyer"]), h.Account(names["admin"]), h.Account(names["authority"]), h.Account(names["entryToken"]),
	})

	const blockStart = 1_000_000
	b, err := block.New(block.Configuration{
		TotalEntryCount: 3, TotalMysteryCount: 2, MysteryPhaseDuration: 3600,
		MysteryStartPriceLamports: 2_000_000, MinimumPriceLamports: 500_000,
		Duration: 1800, FinalStartPriceLamports: 1_000_000,
	}, 100_000)
	if err != nil {
		t.Fatalf("block.New() error = %v", err)
	}
	if err := b.AddEntries(0, 3, blockStart, 0, nil); err != nil {
		t.Fatalf("AddEntries() error = %v", err)
	}
	h.Clock.UnixTimestamp = blockStart + 1800
	ctx.Clock.UnixTimestamp = blockStart + 1800

	e := &entry.Entry{
		Mint: names["mint"], Token: names["entryToken"], MetaplexMetadata: names["metadata"],
		Config:       entry.SaleTerms{MinimumPriceLamports: 500_000, Duration: 1800, NonAuctionStartPrice: 1_000_000},
		RevealSHA256: [32]byte{1},
	}

	buyer := Buyer{Funding: names["buyer"], TokenDestination: names["buyerToken"], TokenDestinationOwner: names["buyer"]}
	if err := Buy(ctx, b, e, buyer, 1_500_000, names["admin"], names["authority"], nil); err != nil {
		t.Fatalf("Buy() error = %v", err)
	}

	if e.PurchasePriceLamports < 500_000 || e.PurchasePriceLamports > 2_000_000 {
		t.Errorf("mystery price = %d, want within [500000, 2000000]", e.PurchasePriceLamports)
	}
	// The full price sits in the authority escrow until reveal sweeps it;
	// the admin sees only the closed entry-token account's rent.
	if got := h.Account(names["authority"]).GetLamports(); got != e.PurchasePriceLamports {
		t.Errorf("authority escrow = %d, want exactly the price %d", got, e.PurchasePriceLamports)
	}
	if b.MysteriesSoldCount != 1 {
		t.Errorf("MysteriesSoldCount = %d, want 1", b.MysteriesSoldCount)
	}
	if b.MysteryPhaseEndTimestamp != 0 {
		t.Errorf("MysteryPhaseEndTimestamp = %d, want 0 while a mystery remains", b.MysteryPhaseEndTimestamp)
	}
}

func TestBuyRejectsPriceAboveMaxPrice(t *testing.T) {
	h, names := newHostWithFundedAccounts(t)
	ctx := h.Context([]*runtime.AccountInfo{
		h.Account(names["buyer"]), h.Account(names["admin"]), h.Account(names["authority"]), h.Account(names["entryToken"]),
	})
	h.Clock.UnixTimestamp = 1_000_000

	b, _ := block.New(block.Configuration{
		TotalEntryCount: 1, TotalMysteryCount: 0, MysteryPhaseDuration: 3600,
		MinimumPriceLamports: 500_000, Duration: 1800, FinalStartPriceLamports: 1_000_000,
	}, 100_000)
	b.AddEntries(0, 1, h.Clock.UnixTimestamp, 0, nil)

	e := &entry.Entry{
		Mint: names["mint"], Token: names["entryToken"], MetaplexMetadata: names["metadata"],
		Config: entry.SaleTerms{MinimumPriceLamports: 500_000, HasAuction: true},
	}

	buyer := Buyer{Funding: names["buyer"], TokenDestination: names["buyerToken"], TokenDestinationOwner: names["buyer"]}
	if err := Buy(ctx, b, e, buyer, 100, names["admin"], names["authority"], nil); err == nil {
		t.Errorf("Buy() with maxPrice below the auction-gated minimum price succeeded, want PriceTooHigh")
	}
}
