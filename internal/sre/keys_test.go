package sre

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	satchelerrors "github.com/satchel-dev/satchel/internal/errors"
)

// writePublicKeyPEM writes pub as an SPKI PEM file under dir and returns its path.
func writePublicKeyPEM(t *testing.T, dir string, pub ed25519.PublicKey) string {
	t.Helper()
	pemBytes, err := MarshalPublicKeyPEM(pub)
	require.NoError(t, err)

	path := filepath.Join(dir, "pub.pem")
	require.NoError(t, os.WriteFile(path, pemBytes, 0o600))
	return path
}

func TestLoadPublicKey(t *testing.T) {
	t.Run("round-trips a generated key through PEM", func(t *testing.T) {
		pub, _, err := GenerateKeyPair()
		require.NoError(t, err)

		path := writePublicKeyPEM(t, t.TempDir(), pub)
		loaded, err := LoadPublicKey(path)
		require.NoError(t, err)
		assert.Equal(t, pub, loaded)
	})

	t.Run("missing file yields ErrKeyNotFound", func(t *testing.T) {
		_, err := LoadPublicKey(filepath.Join(t.TempDir(), "absent.pem"))
		require.ErrorIs(t, err, satchelerrors.ErrKeyNotFound)
	})

	t.Run("rejects non-PEM content", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "junk.pem")
		require.NoError(t, os.WriteFile(path, []byte("not pem at all"), 0o600))

		_, err := LoadPublicKey(path)
		require.ErrorIs(t, err, satchelerrors.ErrKeyLoad)
	})

	t.Run("rejects garbage inside a PEM block", func(t *testing.T) {
		block := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: []byte("garbage")})
		path := filepath.Join(t.TempDir(), "garbage.pem")
		require.NoError(t, os.WriteFile(path, block, 0o600))

		_, err := LoadPublicKey(path)
		require.Error(t, err)
		require.ErrorIs(t, err, satchelerrors.ErrKeyLoad)
	})

	t.Run("rejects non-Ed25519 keys explicitly", func(t *testing.T) {
		ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)
		der, err := x509.MarshalPKIXPublicKey(&ecKey.PublicKey)
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "ec.pem")
		require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0o600))

		_, err = LoadPublicKey(path)
		require.ErrorIs(t, err, satchelerrors.ErrKeyLoad)
		assert.Contains(t, err.Error(), "Ed25519")
	})
}

func TestLoadPrivateKey(t *testing.T) {
	t.Run("round-trips a generated key through PKCS8 PEM", func(t *testing.T) {
		_, priv, err := GenerateKeyPair()
		require.NoError(t, err)

		pemBytes, err := MarshalPrivateKeyPEM(priv)
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "priv.pem")
		require.NoError(t, os.WriteFile(path, pemBytes, 0o600))

		loaded, err := LoadPrivateKey(path)
		require.NoError(t, err)
		assert.Equal(t, priv, loaded)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := LoadPrivateKey(filepath.Join(t.TempDir(), "absent.pem"))
		require.Error(t, err)
	})
}

func TestSignEnvelope(t *testing.T) {
	t.Run("produces a signature the verifier accepts", func(t *testing.T) {
		pub, priv, err := GenerateKeyPair()
		require.NoError(t, err)

		raw := validRawEnvelope(t)
		sig, err := SignEnvelope(raw, priv)
		require.NoError(t, err)

		msg, err := CanonicalBytes(raw)
		require.NoError(t, err)

		sigBytes, err := DecodeSignature(sig)
		require.NoError(t, err)
		assert.True(t, ed25519.Verify(pub, msg, sigBytes))
	})
}
