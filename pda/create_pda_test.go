package pda

import (
	"testing"

	"github.com/nifty-labs/entries-program/runtime"
	"github.com/nifty-labs/entries-program/solana"
)

func TestEnsureCreatesNewAccount(t *testing.T) {
	host := runtime.NewHost()
	var funder solana.PublicKey
	funder[0] = 1
	host.CreateAccount(funder, solana.SystemProgramID, 0, 10_000_000)

	var target solana.PublicKey
	target[0] = 2
	var programID solana.PublicKey
	programID[0] = 9

	ctx := host.Context([]*runtime.AccountInfo{host.Account(funder)})
	s := &Shepherd{Ctx: ctx, ProgramID: programID, FundingKey: funder}

	if err := s.Ensure(target, nil, programID, 1_000_000, 128); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	info := host.Account(target)
	if info == nil {
		t.Fatalf("target account was not created")
	}
	if info.DataLen() != 128 {
		t.Errorf("DataLen() = %d, want 128", info.DataLen())
	}
	if info.Owner != programID {
		t.Errorf("Owner = %v, want %v", info.Owner, programID)
	}
	if info.GetLamports() != 1_000_000 {
		t.Errorf("Lamports = %d, want 1000000", info.GetLamports())
	}
}

func TestEnsureIsIdempotent(t *testing.T) {
	host := runtime.NewHost()
	var funder solana.PublicKey
	funder[0] = 1
	host.CreateAccount(funder, solana.SystemProgramID, 0, 10_000_000)

	var target solana.PublicKey
	target[0] = 2
	var programID solana.PublicKey
	programID[0] = 9

	ctx := host.Context([]*runtime.AccountInfo{host.Account(funder)})
	s := &Shepherd{Ctx: ctx, ProgramID: programID, FundingKey: funder}

	if err := s.Ensure(target, nil, programID, 1_000_000, 128); err != nil {
		t.Fatalf("first Ensure() error = %v", err)
	}
	if err := s.Ensure(target, nil, programID, 1_000_000, 128); err != nil {
		t.Fatalf("second Ensure() error = %v", err)
	}

	info := host.Account(target)
	if info.DataLen() != 128 {
		t.Errorf("DataLen() after replay = %d, want 128", info.DataLen())
	}
}
