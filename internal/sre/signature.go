package sre

import (
	"encoding/base64"
	"fmt"
	"strings"

	satchelerrors "github.com/satchel-dev/satchel/internal/errors"
)

// base64urlAlphabet is the character set of unpadded base64url text.
const base64urlAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// DecodeSignature decodes a base64url signature string. Padding is optional:
// the input is right-padded with '=' to a multiple of four characters before
// decoding. Characters outside the base64url alphabet fail the decode.
func DecodeSignature(s string) ([]byte, error) {
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	sig, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", satchelerrors.ErrSignatureEncoding, err)
	}
	return sig, nil
}

// EncodeSignature encodes signature bytes as unpadded base64url, matching the
// issuer's encoding.
func EncodeSignature(sig []byte) string {
	return base64.RawURLEncoding.EncodeToString(sig)
}

// LooksLikeBase64URL reports whether s is plausibly a base64url signature:
// longer than eight characters and drawn entirely from the base64url alphabet.
//
// This is the STUB pre-check used only when no real public key is configured.
// It never decodes the string and provides no authentication guarantee;
// callers in stub mode must surface that distinction to their users.
func LooksLikeBase64URL(s string) bool {
	if len(s) <= 8 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(base64urlAlphabet, r) {
			return false
		}
	}
	return true
}
