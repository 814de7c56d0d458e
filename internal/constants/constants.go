// Package constants provides centralized constant values used throughout Satchel.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by Satchel for organizing data.
const (
	// SatchelHome is the hidden directory name where Satchel stores all its data.
	// This directory is created in the user's home directory.
	SatchelHome = ".satchel"

	// StateDir is the directory name where per-project state files are stored.
	StateDir = "state"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// ResultsDir is the default directory where the evaluation server persists results.
	ResultsDir = "results"
)

// File names used by Satchel for state persistence.
const (
	// AcceptedEnvelopeFileName stores the most recently accepted envelope.
	AcceptedEnvelopeFileName = "accepted_sre.json"

	// LastNotifyFileName stores the last notification payload when delivery failed.
	LastNotifyFileName = "last_notify.json"

	// StateLockFileName guards the state directory against concurrent writers.
	StateLockFileName = ".lock"

	// ConfigFileName is the name of the YAML configuration file.
	ConfigFileName = "config.yaml"

	// CLILogFileName is the name of the rotating CLI log file.
	CLILogFileName = "satchel.log"
)

// Environment variable names honored outside the layered SATCHEL_* config.
const (
	// PublicKeyPathEnv names the environment variable carrying the path to the
	// PEM-encoded Ed25519 public key used for envelope verification. The name is
	// shared with the issuing side and must not change.
	PublicKeyPathEnv = "SRE_PUBLIC_KEY_PATH"

	// GitHubTokenEnv is the default environment variable for the GitHub API token.
	GitHubTokenEnv = "GITHUB_TOKEN"
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the maximum size in megabytes before log rotation.
	LogMaxSizeMB = 10

	// LogMaxBackups is the maximum number of rotated log files to retain.
	LogMaxBackups = 3

	// LogMaxAgeDays is the maximum age in days of rotated log files.
	LogMaxAgeDays = 30

	// LogCompress enables gzip compression of rotated log files.
	LogCompress = true
)

// Timeout defaults for network operations.
const (
	// DefaultNotifyTimeout is the default timeout for evaluator notifications.
	DefaultNotifyTimeout = 10 * time.Second

	// DefaultGitHubTimeout is the default timeout for GitHub API calls.
	DefaultGitHubTimeout = 30 * time.Second

	// DefaultServerReadTimeout is the default HTTP read timeout for the
	// evaluation server.
	DefaultServerReadTimeout = 15 * time.Second

	// DefaultServerWriteTimeout is the default HTTP write timeout for the
	// evaluation server.
	DefaultServerWriteTimeout = 30 * time.Second
)

// DefaultServerBind is the default listen address for the evaluation server.
const DefaultServerBind = "127.0.0.1:8088"
