package runtime

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/nifty-labs/entries-program/solana"
)

// Host is an in-memory stand-in for a live validator, used by tests to
// drive the program's adapters without a real cluster. It owns the account
// table plus enough external-program bookkeeping (mints, token balances,
// stake delegations, metadata) to make CPI calls observable.
type Host struct {
	Accounts map[solana.PublicKey]*AccountInfo

	Mints            map[solana.PublicKey]*MintState
	TokenAccounts    map[solana.PublicKey]*TokenAccountState
	StakeAccounts    map[solana.PublicKey]*StakeAccountState
	MetadataAccounts map[solana.PublicKey]*MetadataState

	MinimumStakeDelegation uint64
	Clock                  solana.Clock
	Rent                   solana.Rent

	touched mapset.Set[solana.PublicKey]
}

type MintState struct {
	MintAuthority solana.PublicKey
	Decimals      uint8
	Supply        uint64
}

type TokenAccountState struct {
	Mint   solana.PublicKey
	Owner  solana.PublicKey
	Amount uint64
}

type StakeAccountState struct {
	Initialized bool
	Staker      solana.PublicKey
	Withdrawer  solana.PublicKey
	VoterPubkey solana.PublicKey
	Delegated   bool
	Stake       uint64
	Deactivated bool
}

type MetadataState struct {
	Mint                solana.PublicKey
	UpdateAuthority     solana.PublicKey
	Name                string
	URI                 string
	PrimarySaleHappened bool
}

func NewHost() *Host {
	return &Host{
		Accounts:         map[solana.PublicKey]*AccountInfo{},
		Mints:            map[solana.PublicKey]*MintState{},
		TokenAccounts:    map[solana.PublicKey]*TokenAccountState{},
		StakeAccounts:    map[solana.PublicKey]*StakeAccountState{},
		MetadataAccounts: map[solana.PublicKey]*MetadataState{},
		touched:          mapset.NewSet[solana.PublicKey](),
	}
}

// CreateAccount registers a brand new account with the given owner, size,
// and lamport balance. It is a test-setup helper, not a CPI path.
func (h *Host) CreateAccount(key solana.PublicKey, owner solana.PublicKey, size int, lamports uint64) *AccountInfo {
	data := make([]byte, size)
	info := &AccountInfo{
		Key:      key,
		Lamports: &lamports,
		Data:     &data,
		Owner:    owner,
	}
	h.Accounts[key] = info
	return info
}

func (h *Host) Account(key solana.PublicKey) *AccountInfo {
	return h.Accounts[key]
}

// Touched reports whether key appeared in any CPI's account list since the
// Host was created, letting a test assert an operation reached (or stayed
// away from) a given account.
func (h *Host) Touched(key solana.PublicKey) bool {
	return h.touched.Contains(key)
}

func (h *Host) Context(accounts []*AccountInfo) *Context {
	clock := h.Clock
	rent := h.Rent
	ctx := NewContext(h, &clock, &rent, accounts)
	ctx.GetMinimumStakeDelegation = func() (uint64, error) {
		return h.MinimumStakeDelegation, nil
	}
	ctx.GetTokenAccount = func(key solana.PublicKey) (solana.PublicKey, solana.PublicKey, uint64, error) {
		ts, ok := h.TokenAccounts[key]
		if !ok {
			return solana.PublicKey{}, solana.PublicKey{}, 0, errors.New("runtime: unknown token account")
		}
		return ts.Mint, ts.Owner, ts.Amount, nil
	}
	return ctx
}

// Invoke dispatches a cross-program invocation to this Host's simplified
// simulation of the relevant external program. Unknown program ids fail
// closed, since a real CPI to an unmodeled program would otherwise silently
// no-op.
func (h *Host) Invoke(programID solana.PublicKey, accounts solana.AccountMetaSlice, data []byte, seeds ...SignerSeeds) error {
	for _, a := range accounts {
		h.touched.Add(a.PublicKey)
	}

	switch {
	case solana.IsSystemProgram(programID):
		return h.invokeSystem(accounts, data)
	case programID == solana.TokenProgramID:
		return h.invokeToken(accounts, data)
	case programID == solana.AssociatedTokenAccountProgramID:
		return h.invokeAssociatedToken(accounts, data)
	case programID == solana.StakeProgramID:
		return h.invokeStake(accounts, data)
	case programID == solana.MetaplexMetadataProgramID:
		return h.invokeMetadata(accounts, data)
	default:
		return fmt.Errorf("runtime: host cannot simulate program %s", programID)
	}
}

var errHostAccountMissing = errors.New("runtime: host has no such account")

func (h *Host) mustAccount(key solana.PublicKey) (*AccountInfo, error) {
	a, ok := h.Accounts[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errHostAccountMissing, key)
	}
	return a, nil
}
