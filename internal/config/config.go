// Package config provides configuration management for Satchel with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (SATCHEL_* prefix)
//  3. Project config (.satchel/config.yaml)
//  4. Global config (~/.satchel/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/sre or other internal packages.
package config

import "time"

// Config is the root configuration structure for Satchel.
// It contains all configuration sections for the application.
type Config struct {
	// Verify contains settings for envelope signature verification.
	Verify VerifyConfig `yaml:"verify" mapstructure:"verify"`

	// GitHub contains settings for repository bootstrap and Pages deployment.
	GitHub GitHubConfig `yaml:"github" mapstructure:"github"`

	// Notify contains settings for evaluator notifications.
	Notify NotifyConfig `yaml:"notify" mapstructure:"notify"`

	// Server contains settings for the local evaluation server.
	Server ServerConfig `yaml:"server" mapstructure:"server"`
}

// VerifyConfig contains settings for envelope signature verification.
type VerifyConfig struct {
	// Mode selects the verification mode: "ed25519" (default) or "stub".
	// Stub mode only checks that the signature looks base64url-like and
	// provides no cryptographic guarantee.
	Mode string `yaml:"mode" mapstructure:"mode"`

	// PublicKeyPath is the path to the PEM-encoded Ed25519 public key.
	// When empty, the SRE_PUBLIC_KEY_PATH environment variable is consulted
	// as a compatibility fallback.
	PublicKeyPath string `yaml:"public_key_path" mapstructure:"public_key_path"`
}

// GitHubConfig contains settings for repository creation and Pages deployment.
type GitHubConfig struct {
	// User is the GitHub account that owns the submission repository.
	User string `yaml:"user" mapstructure:"user"`

	// Repo is the name of the submission repository.
	Repo string `yaml:"repo" mapstructure:"repo"`

	// Branch is the branch published to GitHub Pages.
	// Default: "main"
	Branch string `yaml:"branch" mapstructure:"branch"`

	// Remote is the git remote name used for pushes.
	// Default: "origin"
	Remote string `yaml:"remote" mapstructure:"remote"`

	// TokenEnv names the environment variable holding the API token.
	// The token itself is never stored in config files.
	// Default: "GITHUB_TOKEN"
	TokenEnv string `yaml:"token_env" mapstructure:"token_env"`

	// PagesBuildDir is the directory within the repository that GitHub
	// Pages serves from. Default: "app"
	PagesBuildDir string `yaml:"pages_build_dir" mapstructure:"pages_build_dir"`

	// CName is an optional custom domain for GitHub Pages. When set, a
	// CNAME file is written into the Pages build directory.
	CName string `yaml:"cname" mapstructure:"cname"`

	// Timeout is the maximum duration for a single GitHub API call.
	// Default: 30 seconds
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// NotifyConfig contains settings for notifying the evaluator after deploy.
type NotifyConfig struct {
	// Endpoint is the evaluator URL that receives the submission payload.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`

	// Timeout is the maximum duration for the notification request.
	// Default: 10 seconds
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ServerConfig contains settings for the local evaluation server.
type ServerConfig struct {
	// Bind is the listen address, e.g. "127.0.0.1:8088".
	Bind string `yaml:"bind" mapstructure:"bind"`

	// ReadTimeout is the HTTP server read timeout.
	// Default: 15 seconds
	ReadTimeout time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`

	// WriteTimeout is the HTTP server write timeout.
	// Default: 30 seconds
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`

	// ResultsDir is the directory where evaluation results are persisted.
	// When empty, ~/.satchel/results is used.
	ResultsDir string `yaml:"results_dir" mapstructure:"results_dir"`
}
