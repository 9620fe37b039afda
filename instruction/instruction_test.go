package instruction

import (
	"bytes"
	"testing"

	"github.com/nifty-labs/entries-program/block"
	"github.com/nifty-labs/entries-program/pkg/encodbin"
	"github.com/nifty-labs/entries-program/solana"
)

func key(b byte) solana.PublicKey {
	var pk solana.PublicKey
	pk[0] = b
	return pk
}

func TestPeekTag(t *testing.T) {
	tag, err := PeekTag([]byte{byte(TagBuy), 1, 2, 3})
	if err != nil {
		t.Fatalf("PeekTag() error = %v", err)
	}
	if tag != TagBuy {
		t.Errorf("PeekTag() = %d, want %d", tag, TagBuy)
	}

	if _, err := PeekTag(nil); err == nil {
		t.Errorf("PeekTag(empty) succeeded, want InvalidInstructionData")
	}
}

func TestDecodeCreateBlockRoundTrip(t *testing.T) {
	cfg := block.Configuration{
		GroupNumber: 1, BlockNumber: 2, TotalEntryCount: 3, TotalMysteryCount: 2,
		MysteryPhaseDuration: 3600, MysteryStartPriceLamports: 2_000_000,
		RevealPeriodDuration: 7200, MinimumPriceLamports: 500_000,
		HasAuction: false, Duration: 1800, FinalStartPriceLamports: 1_000_000,
	}

	var buf bytes.Buffer
	enc := encodbin.NewBinEncoder(&buf)
	if err := enc.WriteUint16(0x0CCC); err != nil {
		t.Fatalf("WriteUint16() error = %v", err)
	}
	if err := cfg.MarshalWithEncoder(enc); err != nil {
		t.Fatalf("MarshalWithEncoder() error = %v", err)
	}

	got, err := DecodeCreateBlock(encodbin.NewBinDecoder(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeCreateBlock() error = %v", err)
	}
	if got.InitialCommission != 0x0CCC {
		t.Errorf("InitialCommission = %#x, want 0x0CCC", got.InitialCommission)
	}
	if got.Configuration != cfg {
		t.Errorf("Configuration = %+v, want %+v", got.Configuration, cfg)
	}
}

func TestDecodeAddEntriesToBlock(t *testing.T) {
	var buf bytes.Buffer
	enc := encodbin.NewBinEncoder(&buf)
	if err := enc.WriteFixedBytes([]byte("https://example.invalid/entries/"), 200); err != nil {
		t.Fatalf("WriteFixedBytes() error = %v", err)
	}
	if err := enc.WritePubkey(key(9)); err != nil {
		t.Fatalf("WritePubkey() error = %v", err)
	}
	if err := enc.WriteUint16(4); err != nil {
		t.Fatalf("WriteUint16() error = %v", err)
	}
	commit := [32]byte{1, 2, 3}
	for i := 0; i < 2; i++ {
		if err := enc.WriteFixedBytes(commit[:], 32); err != nil {
			t.Fatalf("WriteFixedBytes(commit) error = %v", err)
		}
	}

	got, err := DecodeAddEntriesToBlock(encodbin.NewBinDecoder(buf.Bytes()), 2)
	if err != nil {
		t.Fatalf("DecodeAddEntriesToBlock() error = %v", err)
	}
	if got.URI != "https://example.invalid/entries/" {
		t.Errorf("URI = %q, want the zero padding trimmed", got.URI)
	}
	if got.SecondCreator != key(9) || got.FirstEntry != 4 {
		t.Errorf("SecondCreator/FirstEntry = %v/%d, want %v/4", got.SecondCreator, got.FirstEntry, key(9))
	}
	if len(got.Commitments) != 2 || got.Commitments[1] != commit {
		t.Errorf("Commitments = %v, want two copies of %v", got.Commitments, commit)
	}

	if _, err := DecodeAddEntriesToBlock(encodbin.NewBinDecoder(buf.Bytes()), 3); err == nil {
		t.Errorf("DecodeAddEntriesToBlock() with more entries than the payload holds succeeded, want error")
	}
}

func TestDecodeRevealEntries(t *testing.T) {
	var buf bytes.Buffer
	enc := encodbin.NewBinEncoder(&buf)
	if err := enc.WriteUint16(1); err != nil {
		t.Fatalf("WriteUint16() error = %v", err)
	}
	for _, salt := range []uint64{0xDEADBEEF, 0xCAFEBABE} {
		if err := enc.WriteUint64(salt); err != nil {
			t.Fatalf("WriteUint64() error = %v", err)
		}
	}

	got, err := DecodeRevealEntries(encodbin.NewBinDecoder(buf.Bytes()), 2)
	if err != nil {
		t.Fatalf("DecodeRevealEntries() error = %v", err)
	}
	if got.FirstEntry != 1 || got.Salts[0] != 0xDEADBEEF || got.Salts[1] != 0xCAFEBABE {
		t.Errorf("DecodeRevealEntries() = %+v, want first=1 salts=[0xDEADBEEF 0xCAFEBABE]", got)
	}
}

func TestDecodeBid(t *testing.T) {
	var buf bytes.Buffer
	enc := encodbin.NewBinEncoder(&buf)
	if err := enc.WriteUint64(600_000); err != nil {
		t.Fatalf("WriteUint64() error = %v", err)
	}
	if err := enc.WriteUint64(1_000_000); err != nil {
		t.Fatalf("WriteUint64() error = %v", err)
	}

	got, err := DecodeBid(encodbin.NewBinDecoder(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeBid() error = %v", err)
	}
	if got.MinBid != 600_000 || got.MaxBid != 1_000_000 {
		t.Errorf("DecodeBid() = %+v, want {600000, 1000000}", got)
	}

	if _, err := DecodeBid(encodbin.NewBinDecoder(buf.Bytes()[:8])); err == nil {
		t.Errorf("DecodeBid() on a truncated payload succeeded, want error")
	}
}

func TestDecodeAddWhitelistEntries(t *testing.T) {
	var buf bytes.Buffer
	enc := encodbin.NewBinEncoder(&buf)
	if err := enc.WriteUint16(2); err != nil {
		t.Fatalf("WriteUint16() error = %v", err)
	}
	for i := 0; i < 28; i++ {
		var pk solana.PublicKey
		if i < 2 {
			pk = key(byte(i + 1))
		}
		if err := enc.WritePubkey(pk); err != nil {
			t.Fatalf("WritePubkey() error = %v", err)
		}
	}

	got, err := DecodeAddWhitelistEntries(encodbin.NewBinDecoder(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeAddWhitelistEntries() error = %v", err)
	}
	if got.Count != 2 || len(got.Entries) != 2 {
		t.Fatalf("Count/len(Entries) = %d/%d, want 2/2 (zeroed tail dropped)", got.Count, len(got.Entries))
	}
	if got.Entries[0] != key(1) || got.Entries[1] != key(2) {
		t.Errorf("Entries = %v, want [key(1) key(2)]", got.Entries)
	}

	over := append([]byte(nil), buf.Bytes()...)
	over[0] = 29 // count exceeding the fixed 28-pubkey tail
	if _, err := DecodeAddWhitelistEntries(encodbin.NewBinDecoder(over)); err == nil {
		t.Errorf("DecodeAddWhitelistEntries() with count > tail length succeeded, want error")
	}
}
