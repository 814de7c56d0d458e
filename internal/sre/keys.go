package sre

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	satchelerrors "github.com/satchel-dev/satchel/internal/errors"
)

// PEM block types for Ed25519 key material.
const (
	pemTypePublicKey  = "PUBLIC KEY"
	pemTypePrivateKey = "PRIVATE KEY"
)

// LoadPublicKey reads a PEM-encoded SPKI public key from path and returns it
// as an Ed25519 public key. Keys of any other algorithm (RSA, ECDSA, ...) are
// rejected explicitly rather than silently accepted.
//
// The file is read fresh on every call; correctness never depends on caching.
func LoadPublicKey(path string) (ed25519.PublicKey, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is operator-supplied configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, satchelerrors.Wrapf(satchelerrors.ErrKeyNotFound, "%s", path)
		}
		return nil, satchelerrors.Wrap(err, "reading public key file")
	}
	return ParsePublicKeyPEM(data)
}

// ParsePublicKeyPEM parses PEM-encoded SPKI bytes into an Ed25519 public key.
func ParsePublicKeyPEM(data []byte) (ed25519.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, satchelerrors.Wrap(satchelerrors.ErrKeyLoad, "not valid PEM")
	}
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", satchelerrors.ErrKeyLoad, err)
	}
	pub, ok := key.(ed25519.PublicKey)
	if !ok {
		return nil, satchelerrors.Wrapf(satchelerrors.ErrKeyLoad, "unexpected key type %T, want Ed25519", key)
	}
	return pub, nil
}

// LoadPrivateKey reads a PEM-encoded PKCS#8 private key from path and returns
// it as an Ed25519 private key. Used by the issuer-side sign command and tests.
func LoadPrivateKey(path string) (ed25519.PrivateKey, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is operator-supplied configuration
	if err != nil {
		return nil, satchelerrors.Wrap(err, "reading private key file")
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, satchelerrors.Wrap(satchelerrors.ErrKeyLoad, "not valid PEM")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", satchelerrors.ErrKeyLoad, err)
	}
	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, satchelerrors.Wrapf(satchelerrors.ErrKeyLoad, "unexpected key type %T, want Ed25519", key)
	}
	return priv, nil
}

// GenerateKeyPair generates a fresh Ed25519 keypair.
func GenerateKeyPair() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("generating ed25519 key: %w", err)
	}
	return pub, priv, nil
}

// MarshalPublicKeyPEM encodes an Ed25519 public key as a PEM-wrapped SPKI
// block, the format the key loader expects.
func MarshalPublicKeyPEM(pub ed25519.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, fmt.Errorf("marshaling public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypePublicKey, Bytes: der}), nil
}

// MarshalPrivateKeyPEM encodes an Ed25519 private key as a PEM-wrapped PKCS#8
// block.
func MarshalPrivateKeyPEM(priv ed25519.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("marshaling private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypePrivateKey, Bytes: der}), nil
}

// SignEnvelope canonicalizes the raw mapping and signs the canonical bytes,
// returning the unpadded base64url signature text. The mapping's existing
// signature value, if any, is excluded by canonicalization.
func SignEnvelope(raw map[string]any, priv ed25519.PrivateKey) (string, error) {
	msg, err := CanonicalBytes(raw)
	if err != nil {
		return "", err
	}
	return EncodeSignature(ed25519.Sign(priv, msg)), nil
}
