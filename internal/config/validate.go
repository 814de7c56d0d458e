package config

import (
	"github.com/satchel-dev/satchel/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - Verify mode must be "ed25519" or "stub"
//   - GitHub branch and remote must not be empty
//   - GitHub timeout must be positive
//   - Notify timeout must be positive
//   - Server bind address must not be empty
//   - Server read and write timeouts must be positive
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateVerifyConfig(&cfg.Verify); err != nil {
		return err
	}

	if err := validateGitHubConfig(&cfg.GitHub); err != nil {
		return err
	}

	if cfg.Notify.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"notify.timeout must be positive, got %s", cfg.Notify.Timeout)
	}

	return validateServerConfig(&cfg.Server)
}

// validateVerifyConfig checks verification-specific configuration values.
func validateVerifyConfig(cfg *VerifyConfig) error {
	switch cfg.Mode {
	case "", "ed25519", "stub":
		return nil
	default:
		return errors.Wrapf(errors.ErrConfigInvalid,
			"verify.mode must be %q or %q, got %q", "ed25519", "stub", cfg.Mode)
	}
}

// validateGitHubConfig checks GitHub-specific configuration values.
func validateGitHubConfig(cfg *GitHubConfig) error {
	if cfg.Branch == "" {
		return errors.Wrap(errors.ErrConfigInvalid,
			"github.branch must not be empty")
	}

	if cfg.Remote == "" {
		return errors.Wrap(errors.ErrConfigInvalid,
			"github.remote must not be empty")
	}

	if cfg.Timeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"github.timeout must be positive, got %s", cfg.Timeout)
	}

	return nil
}

// validateServerConfig checks evaluation server configuration values.
func validateServerConfig(cfg *ServerConfig) error {
	if cfg.Bind == "" {
		return errors.Wrap(errors.ErrConfigInvalid,
			"server.bind must not be empty")
	}

	if cfg.ReadTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"server.read_timeout must be positive, got %s", cfg.ReadTimeout)
	}

	if cfg.WriteTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"server.write_timeout must be positive, got %s", cfg.WriteTimeout)
	}

	return nil
}
