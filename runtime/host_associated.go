package runtime

import (
	"fmt"

	"github.com/nifty-labs/entries-program/solana"
)

func (h *Host) invokeAssociatedToken(accounts solana.AccountMetaSlice, data []byte) error {
	if len(data) == 0 || data[0] != 1 {
		return fmt.Errorf("runtime: host associated-token: unknown instruction")
	}

	funder := accounts.Get(0).PublicKey
	associatedAccount := accounts.Get(1).PublicKey
	wallet := accounts.Get(2).PublicKey
	mint := accounts.Get(3).PublicKey

	if _, exists := h.TokenAccounts[associatedAccount]; exists {
		return nil
	}

	funderInfo, err := h.mustAccount(funder)
	if err != nil {
		return err
	}
	const rentExempt = 2_039_280 // matches the fixed size token-account minimum used by tests
	if *funderInfo.Lamports < rentExempt {
		return fmt.Errorf("runtime: host associated-token: funder has insufficient lamports")
	}
	*funderInfo.Lamports -= rentExempt

	lamports := rentExempt
	dataBuf := make([]byte, 165)
	lamportsU64 := uint64(lamports)
	h.Accounts[associatedAccount] = &AccountInfo{
		Key:      associatedAccount,
		Lamports: &lamportsU64,
		Data:     &dataBuf,
		Owner:    solana.TokenProgramID,
	}
	h.TokenAccounts[associatedAccount] = &TokenAccountState{Mint: mint, Owner: wallet}
	return nil
}
