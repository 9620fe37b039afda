package program

import (
	"github.com/nifty-labs/entries-program/errs"
	"github.com/nifty-labs/entries-program/runtime"
	"github.com/nifty-labs/entries-program/solana"
)

// requireTokenOwner verifies that tokenAccountKey names a token account
// holding at least minAmount of mint, owned by ownerKey: the on-chain proof
// an entry's token owner presents before a token-gated operation (staking,
// destaking) is allowed to act on that entry. Grounded on
// original_source/nifty_program/util/util_token.c's is_token_owner.
func requireTokenOwner(ctx *runtime.Context, tokenAccountKey, mint, ownerKey solana.PublicKey, minAmount uint64) error {
	tokenMint, tokenOwner, amount, err := ctx.GetTokenAccount(tokenAccountKey)
	if err != nil {
		return errs.AccountNotFound
	}
	if tokenMint != mint || amount < minAmount {
		return errs.WrongDataType
	}
	if tokenOwner != ownerKey {
		return errs.NotTokenOwner
	}
	return nil
}
