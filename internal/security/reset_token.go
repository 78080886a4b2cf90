package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// GenerateResetToken creates a password reset token. The plaintext is 32
// random bytes hex-encoded and is handed to the user exactly once; only the
// sha256 digest is meant to be persisted.
func GenerateResetToken() (plaintext, digest string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}

	plaintext = hex.EncodeToString(buf)

	return plaintext, HashResetToken(plaintext), nil
}

// HashResetToken returns the hex-encoded sha256 digest of a plaintext reset
// token. The digest alone authorizes the lookup, so the plaintext never needs
// to be stored.
func HashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
