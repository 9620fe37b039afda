package stakeprogram

import (
	"testing"

	"github.com/nifty-labs/entries-program/solana"
)

func key(b byte) solana.PublicKey {
	var pk solana.PublicKey
	pk[0] = b
	return pk
}

func TestDecodeRejectsWrongSize(t *testing.T) {
	if _, err := Decode(make([]byte, AccountSize-1)); err == nil {
		t.Errorf("Decode() with short data succeeded, want size error")
	}
	if _, err := Decode(make([]byte, AccountSize+1)); err == nil {
		t.Errorf("Decode() with long data succeeded, want size error")
	}
}

func TestDecodeUninitialized(t *testing.T) {
	s, err := Decode(make([]byte, AccountSize))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if s.State != StateUninitialized {
		t.Errorf("State = %d, want StateUninitialized", s.State)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		stake *Stake
	}{
		{
			name: "initialized",
			stake: &Stake{
				State: StateInitialized,
				Meta: Meta{
					RentExemptReserve: 2_282_880,
					Staker:            key(1),
					Withdrawer:        key(2),
				},
			},
		},
		{
			name: "delegated",
			stake: &Stake{
				State: StateStake,
				Meta:  Meta{Staker: key(3), Withdrawer: key(4), LockupEpoch: 7},
				Delegation: Delegation{
					VoterPubkey:       key(5),
					Stake:             10_500_000_000,
					ActivationEpoch:   100,
					DeactivationEpoch: ^uint64(0),
					CreditsObserved:   42,
				},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := tc.stake.Encode()
			if len(data) != AccountSize {
				t.Fatalf("Encode() length = %d, want %d", len(data), AccountSize)
			}
			got, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got.State != tc.stake.State || got.Meta != tc.stake.Meta {
				t.Errorf("decoded = %+v, want %+v", got, tc.stake)
			}
			if tc.stake.State == StateStake && got.Delegation != tc.stake.Delegation {
				t.Errorf("decoded delegation = %+v, want %+v", got.Delegation, tc.stake.Delegation)
			}
		})
	}
}

func TestIsDelegated(t *testing.T) {
	if (&Stake{State: StateInitialized}).IsDelegated() {
		t.Errorf("IsDelegated() = true for an Initialized account, want false")
	}
	if !(&Stake{State: StateStake}).IsDelegated() {
		t.Errorf("IsDelegated() = false for a delegated account, want true")
	}
}
