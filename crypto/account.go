package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"

	"github.com/mr-tron/base58"

	"github.com/nifty-labs/entries-program/solana"
)

// Account is an ed25519 keypair, used by test harnesses to sign simulated
// transactions and by off-chain tooling that needs to derive a public key
// from a stored private key. The on-chain program itself never holds a
// private key; signature checks happen in the runtime before an instruction
// ever reaches this code.
type Account struct {
	PublicKey  solana.PublicKey
	PrivateKey ed25519.PrivateKey
}

func NewAccount() (*Account, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Account{
		PublicKey:  solana.PublicKeyFromBytes(pub),
		PrivateKey: priv,
	}, nil
}

func AccountFromPrivateKeyBytes(b []byte) (*Account, error) {
	if len(b) != ed25519.PrivateKeySize {
		return nil, errors.New("crypto: invalid private key length")
	}
	priv := ed25519.PrivateKey(append([]byte(nil), b...))
	pub := priv.Public().(ed25519.PublicKey)
	return &Account{
		PublicKey:  solana.PublicKeyFromBytes(pub),
		PrivateKey: priv,
	}, nil
}

func AccountFromBase58(s string) (*Account, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, err
	}
	return AccountFromPrivateKeyBytes(b)
}

func (a *Account) Sign(message []byte) []byte {
	return ed25519.Sign(a.PrivateKey, message)
}
