package tokenprogram

import (
	"github.com/nifty-labs/entries-program/pkg/encodbin"
	"github.com/nifty-labs/entries-program/solana"
)

// AccountSize is the external token program's fixed token-account layout
// length (mint, owner, amount, delegate option/pubkey, state, is_native
// option/u64, delegated_amount, close_authority option/pubkey).
const AccountSize = 165

// Account is the decoded subset of a token account this program ever reads
// back: enough to verify a caller-supplied token account actually holds the
// entry's mint and belongs to the pubkey claiming ownership (spec.md §4.10,
// "Only by the entry's token owner").
type Account struct {
	Mint   solana.PublicKey
	Owner  solana.PublicKey
	Amount uint64
}

func DecodeAccount(data []byte) (*Account, error) {
	dec := encodbin.NewBinDecoder(data)
	a := &Account{}

	mint, err := dec.ReadPubkey()
	if err != nil {
		return nil, err
	}
	a.Mint = solana.PublicKey(mint)

	owner, err := dec.ReadPubkey()
	if err != nil {
		return nil, err
	}
	a.Owner = solana.PublicKey(owner)

	if a.Amount, err = dec.ReadUint64(); err != nil {
		return nil, err
	}
	return a, nil
}
