package solana

import (
	"crypto/sha256"
	"errors"

	"filippo.io/edwards25519"
)

const maxSeedLength = 32
const maxSeeds = 16

var pdaMarker = []byte("ProgramDerivedAddress")

var ErrMaxSeedLengthExceeded = errors.New("solana: max seed length exceeded")

// CreateProgramAddress derives the address for a given set of seeds and
// program id. It returns ErrInvalidSeeds if the resulting point happens to
// lie on the ed25519 curve, since a valid program-derived address must not
// be a point any private key could sign for.
func CreateProgramAddress(seeds [][]byte, programID PublicKey) (PublicKey, error) {
	if len(seeds) > maxSeeds {
		return PublicKeyZero, errors.New("solana: too many seeds")
	}

	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > maxSeedLength {
			return PublicKeyZero, ErrMaxSeedLengthExceeded
		}
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write(pdaMarker)
	sum := h.Sum(nil)

	if isOnCurve(sum) {
		return PublicKeyZero, errors.New("solana: invalid seeds, address falls on the ed25519 curve")
	}

	return PublicKeyFromBytes(sum), nil
}

// FindProgramAddress derives a program address for the given seeds,
// searching decreasing bump values starting at 255 until it finds one that
// produces a valid off-curve address. It returns the address and the bump
// seed that produced it.
func FindProgramAddress(seeds [][]byte, programID PublicKey) (PublicKey, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		seedsWithBump := append(append([][]byte{}, seeds...), []byte{byte(bump)})
		address, err := CreateProgramAddress(seedsWithBump, programID)
		if err == nil {
			return address, uint8(bump), nil
		}
	}
	return PublicKeyZero, 0, errors.New("solana: unable to find a viable program address bump seed")
}

// FindAssociatedTokenAddress derives the canonical associated token account
// address for a wallet and a mint, the same way the associated-token-account
// program derives it on-chain.
func FindAssociatedTokenAddress(wallet, mint PublicKey) (PublicKey, uint8, error) {
	return FindProgramAddress(
		[][]byte{wallet[:], TokenProgramID[:], mint[:]},
		AssociatedTokenAccountProgramID,
	)
}

func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
