package whitelist

import (
	"testing"

	"github.com/nifty-labs/entries-program/solana"
)

func pk(b byte) solana.PublicKey {
	var p solana.PublicKey
	p[0] = b
	return p
}

func TestAddAndConsume(t *testing.T) {
	w := New()
	buyers := []solana.PublicKey{pk(1), pk(2), pk(3)}
	if err := w.Add(buyers); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if w.Count != 3 {
		t.Fatalf("Count = %d, want 3", w.Count)
	}

	if !w.CheckAndConsume(pk(2)) {
		t.Errorf("CheckAndConsume(2) = false, want true")
	}
	if w.Count != 2 {
		t.Errorf("Count after consume = %d, want 2", w.Count)
	}
	if w.CheckAndConsume(pk(2)) {
		t.Errorf("second CheckAndConsume(2) = true, want false")
	}
}

func TestCheckAndConsumeEmptyListTriviallySucceeds(t *testing.T) {
	w := New()
	if !w.CheckAndConsume(pk(9)) {
		t.Errorf("CheckAndConsume on empty whitelist = false, want true")
	}
}

func TestAddRejectsOverCapacity(t *testing.T) {
	w := New()
	w.Count = 299
	if err := w.Add([]solana.PublicKey{pk(1), pk(2)}); err == nil {
		t.Errorf("Add() over capacity succeeded, want error")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	w := New()
	if err := w.Add([]solana.PublicKey{pk(5), pk(6)}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	data, err := w.Encode()
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
	if decoded.Count != w.Count {
		t.Errorf("decoded Count = %d, want %d", decoded.Count, w.Count)
	}
	if decoded.Entries[0] != pk(5) || decoded.Entries[1] != pk(6) {
		t.Errorf("decoded entries = %v, want [5, 6, ...]", decoded.Entries[:2])
	}
}

func TestCanDelete(t *testing.T) {
	cases := []struct {
		count               uint16
		whitelistPhaseEnded bool
		want                bool
	}{
		{0, false, true},
		{0, true, true},
		{5, false, false},
		{5, true, true},
	}
	for _, c := range cases {
		if got := CanDelete(c.count, c.whitelistPhaseEnded); got != c.want {
			t.Errorf("CanDelete(%d, %v) = %v, want %v", c.count, c.whitelistPhaseEnded, got, c.want)
		}
	}
}
