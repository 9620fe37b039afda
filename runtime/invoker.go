package runtime

import "github.com/nifty-labs/entries-program/solana"

// SignerSeeds is one PDA's seed list, used to authorize a cross-program
// invocation "on behalf of" a program-owned account that cannot sign for
// itself.
type SignerSeeds [][]byte

// Invoker cross-invokes another on-chain program with a built instruction.
// seeds is empty for a plain CPI and non-empty when the call must be signed
// by one or more of this program's own PDAs.
type Invoker interface {
	Invoke(programID solana.PublicKey, accounts solana.AccountMetaSlice, data []byte, seeds ...SignerSeeds) error
}

// Context bundles everything a component needs to inspect or mutate chain
// state for the duration of one instruction: the account table for the
// current call, the capability to cross-invoke other programs, and read
// access to the Clock and Rent sysvars.
type Context struct {
	Invoker Invoker
	Clock   *solana.Clock
	Rent    *solana.Rent

	// GetMinimumStakeDelegation reads the stake program's minimum-delegation
	// syscall-like value (spec.md §9's capability interface entry
	// `stake_get_minimum_delegation`). It lives here rather than on the
	// stakeprogram adapter to avoid an import cycle (stakeengine depends on
	// stakeprogram already; stakeprogram must not depend back on runtime's
	// concrete host wiring).
	GetMinimumStakeDelegation func() (uint64, error)

	// GetTokenAccount reads back a token account's mint, owner, and balance.
	// The simulated token program keeps this state out of band from
	// AccountInfo.Data (see Host.TokenAccounts), so components that need to
	// verify token ownership (staking, destaking) go through this capability
	// rather than decoding raw account bytes.
	GetTokenAccount func(key solana.PublicKey) (mint, owner solana.PublicKey, amount uint64, err error)

	accounts map[solana.PublicKey]*AccountInfo
}

func NewContext(invoker Invoker, clock *solana.Clock, rent *solana.Rent, accounts []*AccountInfo) *Context {
	m := make(map[solana.PublicKey]*AccountInfo, len(accounts))
	for _, a := range accounts {
		m[a.Key] = a
	}
	return &Context{Invoker: invoker, Clock: clock, Rent: rent, accounts: m}
}

// Account looks up an account participating in the current instruction by
// address. It returns nil if the address was not passed in, which every
// caller must treat as a missing-account error.
func (c *Context) Account(key solana.PublicKey) *AccountInfo {
	return c.accounts[key]
}
