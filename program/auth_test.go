package program

import (
	"testing"

	"github.com/nifty-labs/entries-program/errs"
	"github.com/nifty-labs/entries-program/runtime"
)

func TestRequireTokenOwnerAccepts(t *testing.T) {
	h := runtime.NewHost()
	mint := key(1)
	owner := key(2)
	tokenAccount := key(3)
	h.TokenAccounts[tokenAccount] = &runtime.TokenAccountState{Mint: mint, Owner: owner, Amount: 1}
	ctx := h.Context(nil)

	if err := requireTokenOwner(ctx, tokenAccount, mint, owner, 1); err != nil {
		t.Fatalf("requireTokenOwner() error = %v", err)
	}
}

func TestRequireTokenOwnerRejectsWrongOwner(t *testing.T) {
	h := runtime.NewHost()
	mint := key(1)
	tokenAccount := key(3)
	h.TokenAccounts[tokenAccount] = &runtime.TokenAccountState{Mint: mint, Owner: key(2), Amount: 1}
	ctx := h.Context(nil)

	err := requireTokenOwner(ctx, tokenAccount, mint, key(99), 1)
	if err != errs.NotTokenOwner {
		t.Errorf("requireTokenOwner() error = %v, want NotTokenOwner", err)
	}
}

func TestRequireTokenOwnerRejectsWrongMintOrEmpty(t *testing.T) {
	h := runtime.NewHost()
	owner := key(2)
	tokenAccount := key(3)
	h.TokenAccounts[tokenAccount] = &runtime.TokenAccountState{Mint: key(1), Owner: owner, Amount: 0}
	ctx := h.Context(nil)

	if err := requireTokenOwner(ctx, tokenAccount, key(1), owner, 1); err == nil {
		t.Errorf("requireTokenOwner() with a zero balance succeeded, want an error")
	}
	if err := requireTokenOwner(ctx, tokenAccount, key(9), owner, 0); err == nil {
		t.Errorf("requireTokenOwner() with the wrong mint succeeded, want an error")
	}
}

func TestRequireTokenOwnerRejectsUnknownAccount(t *testing.T) {
	h := runtime.NewHost()
	ctx := h.Context(nil)

	err := requireTokenOwner(ctx, key(9), key(1), key(2), 1)
	if err != errs.AccountNotFound {
		t.Errorf("requireTokenOwner() error = %v, want AccountNotFound", err)
	}
}
