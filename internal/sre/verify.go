package sre

import (
	"crypto/ed25519"
	"errors"
	"fmt"

	satchelerrors "github.com/satchel-dev/satchel/internal/errors"
)

// VerificationMode selects how the signature field is checked. The mode is
// always explicit configuration; it is never inferred from the environment, so
// a misconfigured deployment cannot silently degrade to the stub path.
type VerificationMode int

const (
	// ModeEd25519 performs full cryptographic verification against a
	// configured Ed25519 public key. This is the default.
	ModeEd25519 VerificationMode = iota

	// ModeStub performs only a base64url plausibility check on the signature
	// text. It provides NO authenticity guarantee and exists for offline or
	// degraded environments where no public key is available.
	ModeStub
)

// String returns the configuration name of the mode.
func (m VerificationMode) String() string {
	switch m {
	case ModeEd25519:
		return "ed25519"
	case ModeStub:
		return "stub"
	}
	return "unknown"
}

// ParseVerificationMode maps a configuration string to a VerificationMode.
func ParseVerificationMode(s string) (VerificationMode, error) {
	switch s {
	case "", "ed25519":
		return ModeEd25519, nil
	case "stub":
		return ModeStub, nil
	}
	return ModeEd25519, fmt.Errorf("%w: verify mode %q (want ed25519 or stub)", satchelerrors.ErrConfigInvalid, s)
}

// Fixed diagnostic reasons returned by Verify. Callers pattern-match on the
// leading category words ("Schema", "Signature", ...), so the prefixes are
// part of the contract.
const (
	// ReasonOK is the reason string on successful cryptographic verification.
	ReasonOK = "ok"

	// ReasonOKStub is the reason string when the stub check passes. It is
	// deliberately distinct from ReasonOK: stub acceptance is not
	// authentication.
	ReasonOKStub = "ok (stub verification; no cryptographic guarantee)"

	// ReasonKeyPathNotSet is returned when no public key path is configured.
	ReasonKeyPathNotSet = "SRE_PUBLIC_KEY_PATH is not set; no public key configured."

	// ReasonBadEncoding is returned when the signature is not base64url text.
	ReasonBadEncoding = "Signature is not valid base64url."

	// ReasonStubRejected is returned when the stub plausibility check fails.
	ReasonStubRejected = "Signature is not base64url-like (stub check)."

	// ReasonVerifyFailed is returned for every cryptographic failure: wrong
	// key, tampered payload, malformed or forged signature bytes. The single
	// message is deliberate; distinguishing the failing step would give a
	// forger an oracle to iterate against.
	ReasonVerifyFailed = "Signature verification failed."
)

// Options configures a Verifier. The key path arrives here as explicit
// configuration; resolving it from the environment (SRE_PUBLIC_KEY_PATH) is
// the caller's responsibility, keeping the verifier a pure function of its
// inputs.
type Options struct {
	// Mode selects cryptographic or stub verification.
	Mode VerificationMode

	// KeyPath is the filesystem path to the PEM-encoded Ed25519 public key.
	// Required in ModeEd25519; ignored in ModeStub.
	KeyPath string
}

// Result is the outcome of a verification attempt. Reason is ReasonOK (or
// ReasonOKStub) on success and one of the fixed diagnostic strings otherwise.
type Result struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}

// Verifier authenticates Signed Request Envelopes. It is stateless apart from
// the configuration it was built with: every call re-reads the key file and
// builds its own canonical bytes, so a single Verifier is safe for concurrent
// use from any number of goroutines.
type Verifier struct {
	opts Options
}

// NewVerifier creates a Verifier from explicit options.
func NewVerifier(opts Options) *Verifier {
	return &Verifier{opts: opts}
}

// Mode returns the configured verification mode.
func (v *Verifier) Mode() VerificationMode {
	return v.opts.Mode
}

// Verify authenticates the raw envelope mapping in a single deterministic
// attempt. Each stage short-circuits with a distinguishing reason:
// schema, key configuration, key loading, signature encoding, and finally the
// cryptographic check. No stage retries; callers decide whether to try again
// after fixing configuration.
func (v *Verifier) Verify(raw map[string]any) Result {
	env, schemaErr := ValidateEnvelope(raw)
	if schemaErr != nil {
		return Result{OK: false, Reason: fmt.Sprintf("Schema validation failed: %s", schemaErr.Error())}
	}

	if v.opts.Mode == ModeStub {
		return v.verifyStub(env)
	}
	return v.verifyEd25519(raw, env)
}

// verifyStub applies the non-cryptographic plausibility check. The success
// reason is marked so logs and callers can never mistake it for real
// verification.
func (v *Verifier) verifyStub(env *Envelope) Result {
	if !LooksLikeBase64URL(env.Signature) {
		return Result{OK: false, Reason: ReasonStubRejected}
	}
	return Result{OK: true, Reason: ReasonOKStub}
}

// verifyEd25519 performs the full cryptographic check.
func (v *Verifier) verifyEd25519(raw map[string]any, env *Envelope) Result {
	if v.opts.KeyPath == "" {
		return Result{OK: false, Reason: ReasonKeyPathNotSet}
	}

	pub, err := LoadPublicKey(v.opts.KeyPath)
	if err != nil {
		if errors.Is(err, satchelerrors.ErrKeyNotFound) {
			return Result{OK: false, Reason: fmt.Sprintf("Public key not found at: %s", v.opts.KeyPath)}
		}
		return Result{OK: false, Reason: fmt.Sprintf("Failed to load public key: %s", err.Error())}
	}

	sig, err := DecodeSignature(env.Signature)
	if err != nil {
		return Result{OK: false, Reason: ReasonBadEncoding}
	}

	msg, err := CanonicalBytes(raw)
	if err != nil {
		// A payload that cannot be canonicalized cannot have been signed.
		// Folding this into the generic failure keeps the anti-oracle
		// property intact.
		return Result{OK: false, Reason: ReasonVerifyFailed}
	}

	// ed25519.Verify tolerates wrong-length signatures by returning false,
	// so short or truncated signatures land on the same generic reason.
	if len(sig) != ed25519.SignatureSize || !ed25519.Verify(pub, msg, sig) {
		return Result{OK: false, Reason: ReasonVerifyFailed}
	}

	return Result{OK: true, Reason: ReasonOK}
}
