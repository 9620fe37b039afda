package solana

// AccountMeta describes one account reference inside an instruction, in the
// same shape the runtime expects when routing a cross-program invocation:
// the account's address plus whether it must be a signer and/or writable.
type AccountMeta struct {
	PublicKey  PublicKey
	IsSigner   bool
	IsWritable bool
}

func NewAccountMeta(pubKey PublicKey, isWritable, isSigner bool) *AccountMeta {
	return &AccountMeta{
		PublicKey:  pubKey,
		IsWritable: isWritable,
		IsSigner:   isSigner,
	}
}

func Signer(pubKey PublicKey) *AccountMeta {
	return NewAccountMeta(pubKey, false, true)
}

func Writable(pubKey PublicKey) *AccountMeta {
	return NewAccountMeta(pubKey, true, false)
}

func WritableSigner(pubKey PublicKey) *AccountMeta {
	return NewAccountMeta(pubKey, true, true)
}

func ReadOnly(pubKey PublicKey) *AccountMeta {
	return NewAccountMeta(pubKey, false, false)
}

// AccountMetaSlice is an ordered account list threaded through instruction
// builders. Account position is part of the wire contract: every adapter in
// this program appends accounts in the exact order its instruction expects.
type AccountMetaSlice []*AccountMeta

func (slice *AccountMetaSlice) Append(account *AccountMeta) *AccountMetaSlice {
	*slice = append(*slice, account)
	return slice
}

func (slice AccountMetaSlice) Get(index int) *AccountMeta {
	if index >= len(slice) {
		return nil
	}
	return slice[index]
}

// GetSigners returns, in order, every account marked as a signer. This is
// used by test harnesses to know which keys must co-sign a built
// instruction.
func (slice AccountMetaSlice) GetSigners() (out AccountMetaSlice) {
	for _, a := range slice {
		if a != nil && a.IsSigner {
			out = append(out, a)
		}
	}
	return
}

func (slice AccountMetaSlice) PublicKeys() []PublicKey {
	out := make([]PublicKey, 0, len(slice))
	for _, a := range slice {
		if a != nil {
			out = append(out, a.PublicKey)
		}
	}
	return out
}
