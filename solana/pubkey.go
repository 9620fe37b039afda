// Package solana provides the low-level primitives shared by every part of
// this program: addresses, account metas, program-derived address
// derivation, and the hard-coded public keys of the external programs and
// sysvars this program cross-invokes.
package solana

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"

	"github.com/mr-tron/base58"

	"github.com/nifty-labs/entries-program/pkg/encodbin"
)

// PublicKeyLength is the fixed width of every Solana address.
const PublicKeyLength = 32

// PublicKey is a 32-byte Solana address. It is comparable and can be used
// directly as a map key, which account-lookup code throughout this program
// relies on.
type PublicKey [PublicKeyLength]byte

var PublicKeyZero PublicKey

func PublicKeyFromBytes(b []byte) (out PublicKey) {
	copy(out[:], b)
	return
}

func PublicKeyFromBase58(s string) (PublicKey, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return PublicKeyZero, err
	}
	if len(b) != PublicKeyLength {
		return PublicKeyZero, errors.New("solana: invalid public key length")
	}
	return PublicKeyFromBytes(b), nil
}

// MustPublicKeyFromBase58 is for use with hard-coded program ids only.
func MustPublicKeyFromBase58(s string) PublicKey {
	pk, err := PublicKeyFromBase58(s)
	if err != nil {
		panic(err)
	}
	return pk
}

func (pk PublicKey) String() string {
	return base58.Encode(pk[:])
}

func (pk PublicKey) Bytes() []byte {
	return pk[:]
}

func (pk PublicKey) IsZero() bool {
	return pk == PublicKeyZero
}

func (pk PublicKey) Equals(other PublicKey) bool {
	return pk == other
}

func (pk PublicKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + pk.String() + `"`), nil
}

func (pk *PublicKey) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 {
		return errors.New("solana: invalid public key json")
	}
	decoded, err := PublicKeyFromBase58(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*pk = decoded
	return nil
}

func (pk PublicKey) MarshalWithEncoder(enc *encodbin.Encoder) error {
	return enc.WritePubkey(pk)
}

func (pk *PublicKey) UnmarshalWithDecoder(dec *encodbin.Decoder) error {
	v, err := dec.ReadPubkey()
	if err != nil {
		return err
	}
	*pk = v
	return nil
}

// VerifySignature reports whether signature is a valid ed25519 signature of
// message by this public key.
func (pk PublicKey) VerifySignature(message, signature []byte) bool {
	return ed25519.Verify(pk[:], message, signature)
}

// Base64 is used only in diagnostic logging, never in the wire format.
func (pk PublicKey) Base64() string {
	return base64.StdEncoding.EncodeToString(pk[:])
}
