// Package errors provides centralized error handling for Satchel.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrSchemaValidation indicates the envelope does not conform to the
	// required shape. Callers should treat this as a client fault.
	ErrSchemaValidation = errors.New("schema validation failed")

	// ErrKeyPathNotSet indicates no public key path is configured for
	// verification. This is a server-side misconfiguration, not a client fault.
	ErrKeyPathNotSet = errors.New("public key path not set")

	// ErrKeyNotFound indicates the configured public key file does not exist.
	ErrKeyNotFound = errors.New("public key file not found")

	// ErrKeyLoad indicates the public key file could not be read or parsed,
	// or the parsed key is not an Ed25519 key.
	ErrKeyLoad = errors.New("public key load failed")

	// ErrSignatureEncoding indicates the signature field is not valid base64url.
	ErrSignatureEncoding = errors.New("signature is not valid base64url")

	// ErrSignatureInvalid indicates the cryptographic signature check failed.
	// The message is deliberately generic: callers must not learn whether the
	// key, the payload, or the signature bytes were at fault.
	ErrSignatureInvalid = errors.New("signature verification failed")

	// ErrCanonicalize indicates the envelope payload could not be serialized
	// into canonical bytes.
	ErrCanonicalize = errors.New("canonicalization failed")

	// ErrGitOperation indicates that a git command (init, commit, push, etc.)
	// failed during execution.
	ErrGitOperation = errors.New("git operation failed")

	// ErrGitHubOperation indicates that a GitHub API operation (repo creation,
	// Pages provisioning, etc.) failed.
	ErrGitHubOperation = errors.New("github operation failed")

	// ErrGitHubConfig indicates the GitHub configuration is incomplete
	// (missing token, user, or repository name).
	ErrGitHubConfig = errors.New("incomplete github configuration")

	// ErrNotifyFailed indicates the evaluator notification could not be delivered.
	ErrNotifyFailed = errors.New("notification failed")

	// ErrConfigInvalid indicates an invalid configuration value.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrConfigNil indicates a nil configuration was passed to a function
	// that requires one.
	ErrConfigNil = errors.New("config is nil")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrStateNotFound indicates a requested state file does not exist.
	ErrStateNotFound = errors.New("state file not found")

	// ErrEnvelopeNotObject indicates the envelope document is not a JSON object.
	ErrEnvelopeNotObject = errors.New("envelope is not a JSON object")

	// ErrNonInteractiveMode indicates that an operation requiring confirmation
	// was attempted in non-interactive mode without the force flag.
	ErrNonInteractiveMode = errors.New("use --force in non-interactive mode")
)

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
