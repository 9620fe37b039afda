package solana

import (
	"math"
	"testing"
)

func TestFindProgramAddressDeterministic(t *testing.T) {
	programID := MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	seeds := [][]byte{{14}, {1, 0, 0, 0}, {2, 0, 0, 0}}

	addr1, bump1, err := FindProgramAddress(seeds, programID)
	if err != nil {
		t.Fatalf("FindProgramAddress() error = %v", err)
	}
	addr2, bump2, err := FindProgramAddress(seeds, programID)
	if err != nil {
		t.Fatalf("FindProgramAddress() second call error = %v", err)
	}
	if addr1 != addr2 || bump1 != bump2 {
		t.Errorf("FindProgramAddress() not deterministic: (%v, %d) vs (%v, %d)", addr1, bump1, addr2, bump2)
	}

	// The found (seeds, bump) pair must rediscover exactly the same address
	// through CreateProgramAddress, the property create_pda relies on.
	recreated, err := CreateProgramAddress(append(append([][]byte{}, seeds...), []byte{bump1}), programID)
	if err != nil {
		t.Fatalf("CreateProgramAddress() with the found bump error = %v", err)
	}
	if recreated != addr1 {
		t.Errorf("CreateProgramAddress() = %v, want %v", recreated, addr1)
	}
}

func TestFindProgramAddressDistinctSeeds(t *testing.T) {
	programID := MustPublicKeyFromBase58("Stake11111111111111111111111111111111111111")

	a, _, err := FindProgramAddress([][]byte{{15}, {1}}, programID)
	if err != nil {
		t.Fatalf("FindProgramAddress() error = %v", err)
	}
	b, _, err := FindProgramAddress([][]byte{{15}, {2}}, programID)
	if err != nil {
		t.Fatalf("FindProgramAddress() error = %v", err)
	}
	if a == b {
		t.Errorf("different seeds derived the same address %v", a)
	}
}

func TestCreateProgramAddressRejectsOversizedSeed(t *testing.T) {
	programID := MustPublicKeyFromBase58("Stake11111111111111111111111111111111111111")
	if _, err := CreateProgramAddress([][]byte{make([]byte, 33)}, programID); err == nil {
		t.Errorf("CreateProgramAddress() with a 33-byte seed succeeded, want ErrMaxSeedLengthExceeded")
	}
}

func TestRentExemptMinimumMatchesMainnetDefaults(t *testing.T) {
	rent := &Rent{LamportsPerByteYear: 3480, ExemptionThreshold: 2.0, BurnPercent: 50}

	// A 2.0 threshold is exactly representable, so the integer
	// reconstruction must agree with plain arithmetic.
	for _, size := range []uint64{0, 1, 82, 165, 200} {
		want := (size + 128) * 3480 * 2
		if got := RentExemptMinimum(rent, size); got != want {
			t.Errorf("RentExemptMinimum(size=%d) = %d, want %d", size, got, want)
		}
	}
}

func TestRentExemptMinimumFallsBackOnUnusableThreshold(t *testing.T) {
	for _, threshold := range []float64{-2.0, 0.0, math.Inf(1), math.NaN()} {
		rent := &Rent{LamportsPerByteYear: 3480, ExemptionThreshold: threshold}
		want := (uint64(200) + 128) * 3480 * 2
		if got := RentExemptMinimum(rent, 200); got != want {
			t.Errorf("RentExemptMinimum(threshold=%v) = %d, want the default %d", threshold, got, want)
		}
	}
}
