package sre

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	satchelerrors "github.com/satchel-dev/satchel/internal/errors"
)

func TestDecodeSignature(t *testing.T) {
	t.Run("decodes unpadded base64url", func(t *testing.T) {
		sig := make([]byte, 64)
		_, err := rand.Read(sig)
		require.NoError(t, err)

		encoded := EncodeSignature(sig)
		assert.NotContains(t, encoded, "=")

		got, err := DecodeSignature(encoded)
		require.NoError(t, err)
		assert.Equal(t, sig, got)
	})

	t.Run("decodes padded base64url", func(t *testing.T) {
		got, err := DecodeSignature("aGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), got)
	})

	t.Run("rejects standard-alphabet characters", func(t *testing.T) {
		// '+' and '/' belong to standard base64, not base64url.
		_, err := DecodeSignature("ab+/")
		require.ErrorIs(t, err, satchelerrors.ErrSignatureEncoding)
	})

	t.Run("rejects impossible lengths", func(t *testing.T) {
		// One leftover character can never be repaired by padding.
		_, err := DecodeSignature("abcde")
		require.Error(t, err)
	})

	t.Run("decodes the empty string to no bytes", func(t *testing.T) {
		got, err := DecodeSignature("")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestLooksLikeBase64URL(t *testing.T) {
	t.Run("accepts base64url text longer than eight characters", func(t *testing.T) {
		assert.True(t, LooksLikeBase64URL("abcDEF123-_"))
	})

	t.Run("rejects short strings", func(t *testing.T) {
		assert.False(t, LooksLikeBase64URL("abcdefgh"))
		assert.False(t, LooksLikeBase64URL(""))
	})

	t.Run("rejects characters outside the alphabet", func(t *testing.T) {
		assert.False(t, LooksLikeBase64URL("abcdefghi="))
		assert.False(t, LooksLikeBase64URL("abcdefghi+"))
		assert.False(t, LooksLikeBase64URL("abc defghi"))
	})
}
