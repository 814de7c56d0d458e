// Package sre implements verification of Signed Request Envelopes.
//
// An SRE is a small JSON document asserting assignment metadata (assignment and
// student identifiers, round number, deadline) authenticated by a detached
// Ed25519 signature over a deterministic canonicalization of its fields.
// Verification is a pure function of the envelope and the configured public
// key: no retries, no caching, no shared state.
package sre

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	satchelerrors "github.com/satchel-dev/satchel/internal/errors"
)

// Field names of the envelope schema.
const (
	FieldAssignmentID = "assignment_id"
	FieldStudentID    = "student_id"
	FieldRepoTemplate = "repo_template"
	FieldRound        = "round"
	FieldDeadline     = "deadline"
	FieldNonce        = "nonce"
	FieldSignature    = "signature"
)

// deadlineLayouts are the accepted ISO-8601 shapes for the deadline field.
// Both timezone-aware and naive timestamps are accepted; the original text is
// what gets canonicalized, so parsing is validation only.
var deadlineLayouts = []string{ //nolint:gochecknoglobals // fixed layout table
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

// Envelope is the typed record constructed after explicit field-by-field
// validation of the untrusted mapping. The Deadline field retains the original
// textual form from the input; reformatting it would change the signed bytes.
type Envelope struct {
	AssignmentID string
	StudentID    string
	RepoTemplate string
	HasTemplate  bool
	Round        int64
	Deadline     string
	DeadlineTime time.Time
	Nonce        string
	HasNonce     bool
	Signature    string
}

// FieldViolation describes a single schema violation.
type FieldViolation struct {
	Field  string `json:"field"`
	Detail string `json:"detail"`
}

// SchemaError aggregates every field-level violation found in an envelope.
// Validation never stops at the first failing field.
type SchemaError struct {
	Violations []FieldViolation
}

// Error implements the error interface, listing all violations.
func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Detail))
	}
	return strings.Join(parts, "; ")
}

// Unwrap allows errors.Is checks against ErrSchemaValidation.
func (e *SchemaError) Unwrap() error {
	return satchelerrors.ErrSchemaValidation
}

// DecodeEnvelope decodes JSON text into the raw mapping expected by the
// verifier. Numbers are decoded as json.Number so that canonicalization can
// reproduce their original literal text. Callers handing envelopes to Verify
// must use this (or an equivalent UseNumber decode) and pass the mapping on
// unmodified; coercing values corrupts the canonical bytes.
func DecodeEnvelope(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, satchelerrors.Wrap(err, "decoding envelope JSON")
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, satchelerrors.ErrEnvelopeNotObject
	}
	return m, nil
}

// ValidateEnvelope checks the untrusted mapping against the envelope schema
// and returns a typed Envelope on success. On failure it returns a SchemaError
// carrying every violation found. It has no side effects and never touches
// the signature cryptographically.
func ValidateEnvelope(raw map[string]any) (*Envelope, *SchemaError) {
	var env Envelope
	var violations []FieldViolation

	add := func(field, detail string) {
		violations = append(violations, FieldViolation{Field: field, Detail: detail})
	}

	env.AssignmentID = requireString(raw, FieldAssignmentID, true, add)
	env.StudentID = requireString(raw, FieldStudentID, true, add)
	// The signature may be any string at this stage; its encoding and length
	// are judged by the decoder and the cryptographic check, not the schema.
	env.Signature = requireString(raw, FieldSignature, false, add)
	env.RepoTemplate, env.HasTemplate = optionalString(raw, FieldRepoTemplate, add)
	env.Nonce, env.HasNonce = optionalString(raw, FieldNonce, add)
	env.Round = validateRound(raw, add)
	env.Deadline, env.DeadlineTime = validateDeadline(raw, add)

	if len(violations) > 0 {
		return nil, &SchemaError{Violations: violations}
	}
	return &env, nil
}

// requireString checks that a field is present and a string, optionally
// rejecting the empty string.
func requireString(raw map[string]any, field string, nonEmpty bool, add func(field, detail string)) string {
	v, ok := raw[field]
	if !ok || v == nil {
		add(field, "field required")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		add(field, fmt.Sprintf("expected string, got %s", jsonTypeName(v)))
		return ""
	}
	if nonEmpty && s == "" {
		add(field, "must not be empty")
	}
	return s
}

// optionalString checks that a field, if present and non-null, is a string.
func optionalString(raw map[string]any, field string, add func(field, detail string)) (string, bool) {
	v, ok := raw[field]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		add(field, fmt.Sprintf("expected string or null, got %s", jsonTypeName(v)))
		return "", false
	}
	return s, true
}

// validateRound checks that round is present, integer-valued, and >= 1.
// Both json.Number (from DecodeEnvelope) and float64 (from a plain
// json.Unmarshal) are accepted as long as the value is integral.
func validateRound(raw map[string]any, add func(field, detail string)) int64 {
	v, ok := raw[FieldRound]
	if !ok || v == nil {
		add(FieldRound, "field required")
		return 0
	}

	n, err := integerValue(v)
	if err != nil {
		add(FieldRound, err.Error())
		return 0
	}
	if n < 1 {
		add(FieldRound, fmt.Sprintf("must be greater than or equal to 1, got %d", n))
	}
	return n
}

// integerValue extracts an integral value from a decoded JSON number.
func integerValue(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %s", n.String())
		}
		return i, nil
	case float64:
		i := int64(n)
		if float64(i) != n {
			return 0, fmt.Errorf("expected integer, got %v", n)
		}
		return i, nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer, got %s", jsonTypeName(v))
	}
}

// validateDeadline checks that deadline is a parseable ISO-8601 timestamp and
// returns both the original text and the parsed time.
func validateDeadline(raw map[string]any, add func(field, detail string)) (string, time.Time) {
	v, ok := raw[FieldDeadline]
	if !ok || v == nil {
		add(FieldDeadline, "field required")
		return "", time.Time{}
	}
	s, ok := v.(string)
	if !ok {
		add(FieldDeadline, fmt.Sprintf("expected ISO-8601 string, got %s", jsonTypeName(v)))
		return "", time.Time{}
	}

	for _, layout := range deadlineLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return s, ts
		}
	}
	add(FieldDeadline, fmt.Sprintf("not a valid ISO-8601 timestamp: %q", s))
	return s, time.Time{}
}

// jsonTypeName returns a JSON-centric type name for error messages.
func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, float64, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
