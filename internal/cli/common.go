// Package cli provides the command-line interface for satchel.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/satchel-dev/satchel/internal/config"
	"github.com/satchel-dev/satchel/internal/errors"
	"github.com/satchel-dev/satchel/internal/sre"
)

// loadConfigOrDefaults loads the layered configuration, falling back to
// defaults when loading fails. Commands that only read local files should
// not die on a broken config file.
func loadConfigOrDefaults(ctx context.Context) *config.Config {
	cfg, err := config.Load(ctx)
	if err != nil {
		logger := GetLogger()
		logger.Warn().Err(err).Msg("failed to load config, using defaults")
		return config.DefaultConfig()
	}
	return cfg
}

// buildVerifier constructs an envelope verifier from the verify config,
// honoring mode and key-path flag overrides when non-empty.
func buildVerifier(cfg *config.Config, modeOverride, keyPathOverride string) (*sre.Verifier, error) {
	modeName := cfg.Verify.Mode
	if modeOverride != "" {
		modeName = modeOverride
	}
	mode, err := sre.ParseVerificationMode(modeName)
	if err != nil {
		return nil, errors.NewExitCode2Error(err)
	}

	keyPath := cfg.Verify.PublicKeyPath
	if keyPathOverride != "" {
		keyPath = keyPathOverride
	}

	return sre.NewVerifier(sre.Options{Mode: mode, KeyPath: keyPath}), nil
}

// readEnvelope decodes an envelope document from path, or from stdin when
// path is "-".
func readEnvelope(path string) (map[string]any, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path) //#nosec G304 -- user-supplied envelope path
		if err != nil {
			return nil, fmt.Errorf("failed to open envelope: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	raw, err := sre.DecodeEnvelope(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	return raw, nil
}
