package security

import (
	"crypto/sha512"
	"encoding/hex"
)

// Sha512Hasher one-way transforms plaintext passwords into hex digests.
// The digest is hex(SHA-512(plaintext || additionalKey)); the application
// wide additional key is the only defense against precomputed tables, there
// is no per-user salt. Hashing is pure and deterministic so digests can be
// compared with plain string equality.
type Sha512Hasher struct {
	additionalKey string
}

// NewSha512Hasher creates a hasher with the application-wide additional key.
func NewSha512Hasher(additionalKey string) *Sha512Hasher {
	return &Sha512Hasher{additionalKey: additionalKey}
}

// Hash returns the digest for a plaintext password. It never fails.
func (h *Sha512Hasher) Hash(password string) string {
	sum := sha512.Sum512([]byte(password + h.additionalKey))
	return hex.EncodeToString(sum[:])
}
