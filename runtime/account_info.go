// Package runtime models the account/invocation surface a program sees: the
// account views passed into an instruction, and the capability interfaces
// used to cross-invoke the external programs this one depends on (System,
// SPL Token, the stake program, the associated-token-account program, and
// Metaplex metadata). Production wiring implements these against a real
// validator context; tests implement them against an in-memory Host.
package runtime

import "github.com/nifty-labs/entries-program/solana"

// AccountInfo is a mutable view of one account participating in the current
// instruction. Lamports and Data are pointers to the underlying account
// state (mirroring the aliasing the real runtime exposes) so that writes
// made through CPI helpers are visible to every other holder of the same
// AccountInfo.
type AccountInfo struct {
	Key        solana.PublicKey
	Lamports   *uint64
	Data       *[]byte
	Owner      solana.PublicKey
	IsSigner   bool
	IsWritable bool
	Executable bool
	RentEpoch  uint64
}

func (a *AccountInfo) GetLamports() uint64 {
	if a == nil || a.Lamports == nil {
		return 0
	}
	return *a.Lamports
}

func (a *AccountInfo) SetLamports(v uint64) {
	*a.Lamports = v
}

func (a *AccountInfo) DataLen() int {
	if a == nil || a.Data == nil {
		return 0
	}
	return len(*a.Data)
}

func (a *AccountInfo) SetDataLen(n int) {
	d := *a.Data
	if len(d) == n {
		return
	}
	if len(d) > n {
		*a.Data = d[:n]
		return
	}
	grown := make([]byte, n)
	copy(grown, d)
	*a.Data = grown
}

// IsEmptyData reports whether the backing account has never been
// initialized, the convention this program uses in place of a dedicated
// "exists" flag: a brand new PDA has zero-length data until it is allocated.
func (a *AccountInfo) IsEmptyData() bool {
	return a.DataLen() == 0
}
