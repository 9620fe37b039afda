package entry

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/nifty-labs/entries-program/solana"
)

func newTestEntry() *Entry {
	return &Entry{
		DataType: DataType,
		Config:   SaleTerms{MinimumPriceLamports: 500_000, HasAuction: true, Duration: 600},
	}
}

// TestGetEntryStateTable walks every cell of spec.md §4.6's state table,
// confirming the derivation is total and matches the documented predicate
// combination exactly.
func TestGetEntryStateTable(t *testing.T) {
	var nonZero solana.PublicKey
	nonZero[0] = 1

	cases := []struct {
		name            string
		setup           func(*Entry)
		blockRevealable bool
		now             int64
		want            State
	}{
		{
			name:  "revealed owned not staked -> Owned",
			setup: func(e *Entry) { e.RevealSHA256 = [32]byte{}; e.PurchasePriceLamports = 1 },
			want:  Owned,
		},
		{
			name: "revealed owned staked -> OwnedAndStaked",
			setup: func(e *Entry) {
				e.RevealSHA256 = [32]byte{}
				e.PurchasePriceLamports = 1
				e.Staked.StakeAccount = nonZero
			},
			want: OwnedAndStaked,
		},
		{
			name: "revealed unowned in auction window -> InNormalAuction",
			setup: func(e *Entry) {
				e.RevealSHA256 = [32]byte{}
				e.Auction.BeginTimestamp = 100
			},
			now:  200,
			want: InNormalAuction,
		},
		{
			name: "revealed unowned past auction with bids -> WaitingToBeClaimed",
			setup: func(e *Entry) {
				e.RevealSHA256 = [32]byte{}
				e.Auction.BeginTimestamp = 100
				e.Auction.HighestBidLamports = 600_000
			},
			now:  1000,
			want: WaitingToBeClaimed,
		},
		{
			name: "revealed unowned past auction no bids -> Unowned",
			setup: func(e *Entry) {
				e.RevealSHA256 = [32]byte{}
				e.Auction.BeginTimestamp = 100
			},
			now:  1000,
			want: Unowned,
		},
		{
			name:            "unrevealed owned, block revealable -> WaitingForRevealOwned",
			setup:           func(e *Entry) { e.RevealSHA256 = [32]byte{1}; e.PurchasePriceLamports = 1 },
			blockRevealable: true,
			want:            WaitingForRevealOwned,
		},
		{
			name:            "unrevealed unowned, block revealable -> WaitingForRevealUnowned",
			setup:           func(e *Entry) { e.RevealSHA256 = [32]byte{1} },
			blockRevealable: true,
			want:            WaitingForRevealUnowned,
		},
		{
			name:  "unrevealed owned, block not revealable -> PreRevealOwned",
			setup: func(e *Entry) { e.RevealSHA256 = [32]byte{1}; e.PurchasePriceLamports = 1 },
			want:  PreRevealOwned,
		},
		{
			name:  "unrevealed unowned, block not revealable -> PreRevealUnowned",
			setup: func(e *Entry) { e.RevealSHA256 = [32]byte{1} },
			want:  PreRevealUnowned,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEntry()
			e.RevealSHA256 = [32]byte{1} // default unrevealed unless overridden
			tc.setup(e)
			got := GetEntryState(e, tc.blockRevealable, tc.now)
			if got != tc.want {
				t.Errorf("GetEntryState() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsRevealedAndIsPurchased(t *testing.T) {
	e := newTestEntry()
	e.RevealSHA256 = [32]byte{1}
	if e.IsRevealed() {
		t.Errorf("IsRevealed() = true, want false for nonzero commitment")
	}
	e.RevealSHA256 = [32]byte{}
	if !e.IsRevealed() {
		t.Errorf("IsRevealed() = false, want true for zeroed commitment")
	}

	if e.IsPurchased() {
		t.Errorf("IsPurchased() = true, want false before any purchase")
	}
	e.PurchasePriceLamports = 1
	if !e.IsPurchased() {
		t.Errorf("IsPurchased() = false, want true once purchase_price_lamports > 0")
	}
}

func TestEntryEncodeDecodeRoundTrip(t *testing.T) {
	e := newTestEntry()
	e.EntryIndex = 7
	e.Mint[0] = 9
	e.RevealSHA256 = [32]byte{1, 2, 3}
	e.Metadata.Level = 2
	e.Metadata.Level1Ki = 100
	e.Metadata.Levels[0].KiFactor = 5
	copy(e.Metadata.Levels[0].Name[:], "Genesis")

	data, err := e.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if len(data) != AccountSize {
		t.Fatalf("Encode() length = %d, want %d", len(data), AccountSize)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if decoded.EntryIndex != 7 || decoded.Mint != e.Mint {
		t.Errorf("decoded identity mismatch: %s", spew.Sdump(decoded))
	}
	if decoded.RevealSHA256 != e.RevealSHA256 {
		t.Errorf("decoded RevealSHA256 = %x, want %x", decoded.RevealSHA256, e.RevealSHA256)
	}
	if decoded.Metadata.Level != 2 || decoded.Metadata.Levels[0].KiFactor != 5 {
		t.Errorf("decoded metadata mismatch: %s", spew.Sdump(decoded.Metadata))
	}
}

func TestDecodeRejectsWrongDataType(t *testing.T) {
	data := make([]byte, AccountSize)
	data[0] = 0xFF
	if _, err := Decode(data); err == nil {
		t.Errorf("Decode() with wrong data_type succeeded, want error")
	}
}
