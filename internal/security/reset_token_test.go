package security

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateResetToken(t *testing.T) {
	plaintext, digest, err := GenerateResetToken()
	require.NoError(t, err)

	// 32 random bytes, hex-encoded.
	assert.Len(t, plaintext, 64)
	_, err = hex.DecodeString(plaintext)
	assert.NoError(t, err)

	t.Run("digest is the sha256 of the plaintext", func(t *testing.T) {
		sum := sha256.Sum256([]byte(plaintext))
		assert.Equal(t, hex.EncodeToString(sum[:]), digest)
		assert.Equal(t, digest, HashResetToken(plaintext))
	})

	t.Run("tokens are unique across calls", func(t *testing.T) {
		other, otherDigest, err := GenerateResetToken()
		require.NoError(t, err)
		assert.NotEqual(t, plaintext, other)
		assert.NotEqual(t, digest, otherDigest)
	})
}

func TestHashResetToken(t *testing.T) {
	// Deterministic: the same plaintext always maps to the same digest, so a
	// lookup by digest works without storing the plaintext.
	assert.Equal(t, HashResetToken("abc"), HashResetToken("abc"))
	assert.NotEqual(t, HashResetToken("abc"), HashResetToken("abd"))
}
