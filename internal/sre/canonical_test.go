package sre

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	satchelerrors "github.com/satchel-dev/satchel/internal/errors"
)

// decodeRaw decodes envelope JSON text the way callers are required to,
// preserving number literals via json.Number.
func decodeRaw(t *testing.T, text string) map[string]any {
	t.Helper()
	raw, err := DecodeEnvelope(strings.NewReader(text))
	require.NoError(t, err)
	return raw
}

func TestCanonicalBytes(t *testing.T) {
	t.Run("matches issuer serialization exactly", func(t *testing.T) {
		raw := decodeRaw(t, `{
			"signature": "ignored",
			"student_id": "S1",
			"round": 1,
			"nonce": "abc123",
			"deadline": "2025-10-15T23:59:59+05:30",
			"assignment_id": "A1"
		}`)

		got, err := CanonicalBytes(raw)
		require.NoError(t, err)
		assert.Equal(t,
			`{"assignment_id":"A1","deadline":"2025-10-15T23:59:59+05:30","nonce":"abc123","round":1,"student_id":"S1"}`,
			string(got))
	})

	t.Run("deterministic regardless of key insertion order", func(t *testing.T) {
		a := decodeRaw(t, `{"assignment_id":"A1","student_id":"S1","round":3,"deadline":"2025-01-01T00:00:00Z","signature":"x"}`)
		b := decodeRaw(t, `{"signature":"x","deadline":"2025-01-01T00:00:00Z","round":3,"student_id":"S1","assignment_id":"A1"}`)

		ba, err := CanonicalBytes(a)
		require.NoError(t, err)
		bb, err := CanonicalBytes(b)
		require.NoError(t, err)
		assert.Equal(t, ba, bb)
	})

	t.Run("removes only the signature key", func(t *testing.T) {
		raw := decodeRaw(t, `{"assignment_id":"A1","signature":"sig"}`)

		got, err := CanonicalBytes(raw)
		require.NoError(t, err)
		assert.Equal(t, `{"assignment_id":"A1"}`, string(got))

		// The input mapping is untouched.
		assert.Contains(t, raw, FieldSignature)
	})

	t.Run("includes keys outside the schema", func(t *testing.T) {
		// Canonicalization operates on the raw mapping, so extra keys present
		// in the input are part of the signed bytes. Interoperability with
		// deployed issuers depends on this.
		raw := decodeRaw(t, `{"assignment_id":"A1","extra":"kept","signature":"sig"}`)

		got, err := CanonicalBytes(raw)
		require.NoError(t, err)
		assert.Equal(t, `{"assignment_id":"A1","extra":"kept"}`, string(got))
	})

	t.Run("emits non-ASCII literally", func(t *testing.T) {
		raw := decodeRaw(t, `{"student_id":"Łukasz 学生","signature":"sig"}`)

		got, err := CanonicalBytes(raw)
		require.NoError(t, err)
		assert.Equal(t, `{"student_id":"Łukasz 学生"}`, string(got))
	})

	t.Run("escapes control characters like the issuer", func(t *testing.T) {
		raw := map[string]any{
			"a": "tab\there",
			"b": "quote\"backslash\\",
			"c": "bell\x07",
		}

		got, err := CanonicalBytes(raw)
		require.NoError(t, err)
		assert.Equal(t, `{"a":"tab\there","b":"quote\"backslash\\","c":"bell\u0007"}`, string(got))
	})

	t.Run("preserves number literal text", func(t *testing.T) {
		raw := decodeRaw(t, `{"round":1,"score":2.50,"big":1e3,"signature":"s"}`)

		got, err := CanonicalBytes(raw)
		require.NoError(t, err)
		assert.Equal(t, `{"big":1e3,"round":1,"score":2.50}`, string(got))
	})

	t.Run("handles nested arrays and objects", func(t *testing.T) {
		raw := decodeRaw(t, `{"meta":{"tags":["b","a"],"empty":{}},"signature":"s"}`)

		got, err := CanonicalBytes(raw)
		require.NoError(t, err)
		assert.Equal(t, `{"meta":{"empty":{},"tags":["b","a"]}}`, string(got))
	})

	t.Run("sorts keys by codepoint", func(t *testing.T) {
		raw := map[string]any{"Z": json.Number("1"), "a": json.Number("2"), "~": json.Number("3"), "0": json.Number("4")}

		got, err := CanonicalBytes(raw)
		require.NoError(t, err)
		assert.Equal(t, `{"0":4,"Z":1,"a":2,"~":3}`, string(got))
	})

	t.Run("rejects unsupported value types", func(t *testing.T) {
		raw := map[string]any{"ch": make(chan int)}

		_, err := CanonicalBytes(raw)
		require.Error(t, err)
		require.ErrorIs(t, err, satchelerrors.ErrCanonicalize)
	})

	t.Run("integral float64 emitted without fraction", func(t *testing.T) {
		// Callers that skipped UseNumber hand over float64s; integral values
		// render like the issuer's integers.
		raw := map[string]any{"round": float64(2)}

		got, err := CanonicalBytes(raw)
		require.NoError(t, err)
		assert.Equal(t, `{"round":2}`, string(got))
	})
}
