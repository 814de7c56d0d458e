package config

import (
	"github.com/satchel-dev/satchel/internal/constants"
)

// DefaultConfig returns a new Config with sensible default values.
// These defaults are used as the base layer that can be overridden by
// config files, environment variables, and CLI flags.
func DefaultConfig() *Config {
	return &Config{
		Verify: VerifyConfig{
			// Mode: "ed25519" is the only mode with a cryptographic
			// guarantee. "stub" must be opted into explicitly.
			Mode: "ed25519",

			// PublicKeyPath: empty means fall back to SRE_PUBLIC_KEY_PATH.
			PublicKeyPath: "",
		},
		GitHub: GitHubConfig{
			// Branch: "main" is the modern Git default.
			Branch: "main",

			// Remote: "origin" is the standard Git remote name.
			Remote: "origin",

			// TokenEnv: keeps the API token out of config files.
			TokenEnv: constants.GitHubTokenEnv,

			// PagesBuildDir: "app" matches the scaffold layout.
			PagesBuildDir: "app",

			Timeout: constants.DefaultGitHubTimeout,
		},
		Notify: NotifyConfig{
			Timeout: constants.DefaultNotifyTimeout,
		},
		Server: ServerConfig{
			// Bind: loopback only. The evaluation server is a local
			// development tool and must not be exposed by default.
			Bind: constants.DefaultServerBind,

			ReadTimeout:  constants.DefaultServerReadTimeout,
			WriteTimeout: constants.DefaultServerWriteTimeout,

			// ResultsDir: empty means ~/.satchel/results.
			ResultsDir: "",
		},
	}
}
