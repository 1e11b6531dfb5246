package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// secretBytes is the entropy of every opaque secret issued by this package
// (login links, session tokens, refresh tokens).
const secretBytes = 32

// GenerateSecret returns a new random opaque secret and its SHA-256 hash.
// Only the hash is ever persisted; the raw value goes to the user.
func GenerateSecret() (raw, hash string, err error) {
	b := make([]byte, secretBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(b)
	return raw, HashSecret(raw), nil
}

// HashSecret creates the SHA-256 hash of a raw secret, hex-encoded.
// Lookups compare hashes, never raw values.
func HashSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
