package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// ComputeInputFingerprint produces a deterministic fingerprint for a
// computation input so batch outputs can be traced back to their parameters.
func ComputeInputFingerprint(n int, expected, actual float64, oneSided bool) Hash {
	data := fmt.Sprintf("n=%d|expected=%v|actual=%v|one_sided=%t", n, expected, actual, oneSided)
	return NewHash([]byte(data))
}
