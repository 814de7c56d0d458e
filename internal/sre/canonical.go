package sre

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	satchelerrors "github.com/satchel-dev/satchel/internal/errors"
)

// CanonicalBytes serializes the envelope payload into the exact byte string
// that is signed and verified: the raw mapping with the signature key removed,
// serialized as JSON with keys sorted ascending by codepoint, no insignificant
// whitespace, UTF-8 with non-ASCII emitted literally.
//
// The input is the ORIGINAL untrusted mapping, not a value rebuilt from typed
// fields: reformatting a field (most notably the deadline string) would
// silently change the signed bytes and break verification against envelopes
// signed elsewhere. Keys outside the schema are therefore included verbatim.
//
// The output is byte-identical to the issuer's
// json.dumps(payload, ensure_ascii=False, separators=(",", ":"), sort_keys=True)
// for mappings decoded via DecodeEnvelope.
func CanonicalBytes(raw map[string]any) ([]byte, error) {
	payload := make(map[string]any, len(raw))
	for k, v := range raw {
		payload[k] = v
	}
	delete(payload, FieldSignature)

	var buf bytes.Buffer
	if err := canonicalWrite(&buf, payload); err != nil {
		return nil, fmt.Errorf("%w: %w", satchelerrors.ErrCanonicalize, err)
	}
	return buf.Bytes(), nil
}

// canonicalWrite emits one JSON value in canonical form.
func canonicalWrite(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("null")
		return nil
	case bool:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case string:
		writeCanonicalString(buf, t)
		return nil
	case json.Number:
		// Numbers decoded with UseNumber keep their original literal text,
		// which is exactly what the issuer signed.
		buf.WriteString(t.String())
		return nil
	case float64:
		writeCanonicalFloat(buf, t)
		return nil
	case int:
		buf.WriteString(strconv.FormatInt(int64(t), 10))
		return nil
	case int64:
		buf.WriteString(strconv.FormatInt(t, 10))
		return nil
	case []any:
		buf.WriteByte('[')
		for i := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := canonicalWrite(buf, t[i]); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		return canonicalWriteObject(buf, t)
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
}

// canonicalWriteObject emits an object with keys sorted ascending by codepoint.
// Byte-wise comparison of UTF-8 strings matches codepoint order.
func canonicalWriteObject(buf *bytes.Buffer, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeCanonicalString(buf, k)
		buf.WriteByte(':')
		if err := canonicalWrite(buf, m[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// writeCanonicalString emits a JSON string with the issuer's escaping rules:
// only the quote, backslash, and control characters are escaped; everything
// else, including non-ASCII, is written literally. Control characters use the
// two-character shortcuts where JSON defines them and \u00xx otherwise.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	const hex = "0123456789abcdef"

	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				buf.WriteString(`\u00`)
				buf.WriteByte(hex[r>>4])
				buf.WriteByte(hex[r&0xf])
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// writeCanonicalFloat emits a float64 the way the issuer's serializer would.
// Integral values from a plain json.Unmarshal are emitted without a fraction
// only when the original literal had none, which cannot be recovered from a
// float64; DecodeEnvelope avoids the ambiguity by decoding numbers as
// json.Number. This path exists for callers that constructed the mapping
// in memory.
func writeCanonicalFloat(buf *bytes.Buffer, f float64) {
	if f == float64(int64(f)) {
		buf.WriteString(strconv.FormatInt(int64(f), 10))
		return
	}
	buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
}
