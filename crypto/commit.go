// Package crypto implements the commit-reveal hash primitive entries use to
// bind their eventual metadata before it is publicly disclosed, plus small
// ed25519 key helpers used by test harnesses and off-chain tooling.
package crypto

import (
	"crypto/sha256"
	"encoding/binary"
)

// EntryCommit computes the two-level commitment for a piece of entry
// metadata and a salt: h1 = sha256(metadata), commit = sha256(h1 ||
// salt_le_u64). The metadata is hashed once on its own so a committer never
// has to assemble metadata and salt into one contiguous buffer, and the
// fixed-width salt suffix keeps the second hash's input length constant
// regardless of metadata size.
func EntryCommit(metadata []byte, salt uint64) [32]byte {
	h1 := sha256.Sum256(metadata)

	var saltBuf [8]byte
	binary.LittleEndian.PutUint64(saltBuf[:], salt)

	buf := make([]byte, 0, len(h1)+len(saltBuf))
	buf = append(buf, h1[:]...)
	buf = append(buf, saltBuf[:]...)

	return sha256.Sum256(buf)
}

// VerifyEntryCommit reports whether metadata and salt reproduce the given
// commitment exactly.
func VerifyEntryCommit(commit [32]byte, metadata []byte, salt uint64) bool {
	return EntryCommit(metadata, salt) == commit
}
