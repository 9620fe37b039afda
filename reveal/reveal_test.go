package reveal

import (
	"testing"

	"github.com/nifty-labs/entries-program/block"
	"github.com/nifty-labs/entries-program/crypto"
	"github.com/nifty-labs/entries-program/entry"
	"github.com/nifty-labs/entries-program/runtime"
	"github.com/nifty-labs/entries-program/solana"
)

func key(b byte) solana.PublicKey {
	var pk solana.PublicKey
	pk[0] = b
	return pk
}

func newRevealableBlock(t *testing.T) *block.Block {
	t.Helper()
	cfg := block.Configuration{
		TotalEntryCount: 1, TotalMysteryCount: 0, MysteryPhaseDuration: 3600,
		MinimumPriceLamports: 500_000, Duration: 1800, FinalStartPriceLamports: 1_000_000,
	}
	b, err := block.New(cfg, 0)
	if err != nil {
		t.Fatalf("block.New() error = %v", err)
	}
	if err := b.AddEntries(0, 1, 0, 0, nil); err != nil {
		t.Fatalf("AddEntries() error = %v", err)
	}
	return b
}

func committedEntry(salt uint64, purchased bool) *entry.Entry {
	e := &entry.Entry{}
	e.Metadata.Level1Ki = 100
	metaBytes, err := e.Metadata.MarshalBinary()
	if err != nil {
		panic(err)
	}
	e.RevealSHA256 = crypto.EntryCommit(metaBytes, salt)
	if purchased {
		e.PurchasePriceLamports = 2_000_000
	}
	return e
}

func TestRevealUnownedSweepsNothing(t *testing.T) {
	h := runtime.NewHost()
	b := newRevealableBlock(t)
	admin := key(1)
	authority := key(2)
	metadata := key(3)
	h.CreateAccount(admin, solana.PublicKeyZero, 0, 0)
	h.CreateAccount(authority, solana.PublicKeyZero, 0, 0)
	h.MetadataAccounts[metadata] = &runtime.MetadataState{UpdateAuthority: authority}
	ctx := h.Context([]*runtime.AccountInfo{h.Account(admin), h.Account(authority)})
	ctx.Clock.UnixTimestamp = 5000

	e := committedEntry(42, false)
	targets := []Target{{Entry: e, Salt: 42, MetaplexMetadata: metadata}}

	if err := Reveal(ctx, b, targets, admin, authority); err != nil {
		t.Fatalf("Reveal() error = %v", err)
	}
	if !e.IsRevealed() {
		t.Errorf("entry not marked revealed after Reveal()")
	}
	if e.RevealTimestamp != 5000 {
		t.Errorf("RevealTimestamp = %d, want 5000", e.RevealTimestamp)
	}
	if e.Auction.BeginTimestamp != 5000 {
		t.Errorf("Auction.BeginTimestamp = %d, want the reveal time 5000 for an unsold entry", e.Auction.BeginTimestamp)
	}
	if h.Account(admin).GetLamports() != 0 {
		t.Errorf("admin lamports = %d, want 0 for an unowned entry", h.Account(admin).GetLamports())
	}
}

func TestRevealOwnedSweepsEscrowToAdmin(t *testing.T) {
	h := runtime.NewHost()
	b := newRevealableBlock(t)
	admin := key(1)
	authority := key(2)
	metadata := key(3)
	h.CreateAccount(admin, solana.PublicKeyZero, 0, 0)
	h.CreateAccount(authority, solana.PublicKeyZero, 0, 3_000_000)
	h.MetadataAccounts[metadata] = &runtime.MetadataState{UpdateAuthority: authority}
	ctx := h.Context([]*runtime.AccountInfo{h.Account(admin), h.Account(authority)})

	e := committedEntry(7, true)
	targets := []Target{{Entry: e, Salt: 7, MetaplexMetadata: metadata}}

	if err := Reveal(ctx, b, targets, admin, authority); err != nil {
		t.Fatalf("Reveal() error = %v", err)
	}
	if h.Account(admin).GetLamports() != 2_000_000 {
		t.Errorf("admin lamports = %d, want 2000000 swept from escrow", h.Account(admin).GetLamports())
	}
	if h.Account(authority).GetLamports() != 1_000_000 {
		t.Errorf("authority lamports = %d, want 1000000 remaining", h.Account(authority).GetLamports())
	}
	if e.Auction.BeginTimestamp != 0 {
		t.Errorf("Auction.BeginTimestamp = %d, want 0 for an already-owned entry", e.Auction.BeginTimestamp)
	}
}

func TestRevealRejectsWrongSalt(t *testing.T) {
	h := runtime.NewHost()
	b := newRevealableBlock(t)
	admin := key(1)
	authority := key(2)
	h.CreateAccount(admin, solana.PublicKeyZero, 0, 0)
	h.CreateAccount(authority, solana.PublicKeyZero, 0, 0)
	ctx := h.Context([]*runtime.AccountInfo{h.Account(admin), h.Account(authority)})

	e := committedEntry(7, false)
	targets := []Target{{Entry: e, Salt: 8, MetaplexMetadata: key(3)}}

	if err := Reveal(ctx, b, targets, admin, authority); err == nil {
		t.Errorf("Reveal() with the wrong salt succeeded, want InvalidHash")
	}
}

func TestRevealRejectsAlreadyRevealed(t *testing.T) {
	h := runtime.NewHost()
	b := newRevealableBlock(t)
	admin := key(1)
	authority := key(2)
	h.CreateAccount(admin, solana.PublicKeyZero, 0, 0)
	h.CreateAccount(authority, solana.PublicKeyZero, 0, 0)
	ctx := h.Context([]*runtime.AccountInfo{h.Account(admin), h.Account(authority)})

	e := committedEntry(7, false)
	e.RevealSHA256 = [32]byte{} // already revealed
	targets := []Target{{Entry: e, Salt: 7, MetaplexMetadata: key(3)}}

	if err := Reveal(ctx, b, targets, admin, authority); err == nil {
		t.Errorf("Reveal() on an already-revealed entry succeeded, want AlreadyRevealed")
	}
}
