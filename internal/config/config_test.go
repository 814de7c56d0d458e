package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchel-dev/satchel/internal/errors"
)

// writeConfigFile writes YAML content to a temp config file and returns its path.
func writeConfigFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "ed25519", cfg.Verify.Mode)
	assert.Empty(t, cfg.Verify.PublicKeyPath)
	assert.Equal(t, "main", cfg.GitHub.Branch)
	assert.Equal(t, "origin", cfg.GitHub.Remote)
	assert.Equal(t, "GITHUB_TOKEN", cfg.GitHub.TokenEnv)
	assert.Equal(t, "app", cfg.GitHub.PagesBuildDir)
	assert.Equal(t, 10*time.Second, cfg.Notify.Timeout)
	assert.Equal(t, "127.0.0.1:8088", cfg.Server.Bind)

	t.Run("defaults pass validation", func(t *testing.T) {
		assert.NoError(t, Validate(cfg))
	})
}

func TestLoadFromPaths(t *testing.T) {
	ctx := context.Background()

	t.Run("empty paths yield defaults", func(t *testing.T) {
		cfg, err := LoadFromPaths(ctx, "", "")
		require.NoError(t, err)
		assert.Equal(t, "ed25519", cfg.Verify.Mode)
		assert.Equal(t, "main", cfg.GitHub.Branch)
	})

	t.Run("project config overrides global", func(t *testing.T) {
		globalPath := writeConfigFile(t, t.TempDir(), "github:\n  branch: develop\n  user: globaluser\n")
		projectPath := writeConfigFile(t, t.TempDir(), "github:\n  branch: gh-pages\n")

		cfg, err := LoadFromPaths(ctx, projectPath, globalPath)
		require.NoError(t, err)
		assert.Equal(t, "gh-pages", cfg.GitHub.Branch)
		// Keys absent from the project config fall through to global.
		assert.Equal(t, "globaluser", cfg.GitHub.User)
	})

	t.Run("duration strings decode", func(t *testing.T) {
		projectPath := writeConfigFile(t, t.TempDir(), "notify:\n  timeout: 45s\n")

		cfg, err := LoadFromPaths(ctx, projectPath, "")
		require.NoError(t, err)
		assert.Equal(t, 45*time.Second, cfg.Notify.Timeout)
	})

	t.Run("invalid mode rejected", func(t *testing.T) {
		projectPath := writeConfigFile(t, t.TempDir(), "verify:\n  mode: rsa\n")

		_, err := LoadFromPaths(ctx, projectPath, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrConfigInvalid)
	})

	t.Run("malformed yaml reported", func(t *testing.T) {
		projectPath := writeConfigFile(t, t.TempDir(), "verify: [unclosed\n")

		_, err := LoadFromPaths(ctx, projectPath, "")
		assert.Error(t, err)
	})

	t.Run("nonexistent paths skipped", func(t *testing.T) {
		cfg, err := LoadFromPaths(ctx, "/nonexistent/project.yaml", "/nonexistent/global.yaml")
		require.NoError(t, err)
		assert.Equal(t, "ed25519", cfg.Verify.Mode)
	})
}

func TestEnvironmentVariables(t *testing.T) {
	ctx := context.Background()

	t.Run("SATCHEL_ env overrides file", func(t *testing.T) {
		projectPath := writeConfigFile(t, t.TempDir(), "github:\n  branch: develop\n")
		t.Setenv("SATCHEL_GITHUB_BRANCH", "release")

		cfg, err := LoadFromPaths(ctx, projectPath, "")
		require.NoError(t, err)
		assert.Equal(t, "release", cfg.GitHub.Branch)
	})

	t.Run("key path env fallback", func(t *testing.T) {
		t.Setenv("SRE_PUBLIC_KEY_PATH", "/keys/issuer.pem")

		cfg, err := LoadFromPaths(ctx, "", "")
		require.NoError(t, err)
		assert.Equal(t, "/keys/issuer.pem", cfg.Verify.PublicKeyPath)
	})

	t.Run("explicit path beats env fallback", func(t *testing.T) {
		t.Setenv("SRE_PUBLIC_KEY_PATH", "/keys/issuer.pem")
		projectPath := writeConfigFile(t, t.TempDir(), "verify:\n  public_key_path: /keys/local.pem\n")

		cfg, err := LoadFromPaths(ctx, projectPath, "")
		require.NoError(t, err)
		assert.Equal(t, "/keys/local.pem", cfg.Verify.PublicKeyPath)
	})
}

func TestValidate(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		assert.ErrorIs(t, Validate(nil), errors.ErrConfigNil)
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad verify mode", func(c *Config) { c.Verify.Mode = "hmac" }},
		{"empty branch", func(c *Config) { c.GitHub.Branch = "" }},
		{"empty remote", func(c *Config) { c.GitHub.Remote = "" }},
		{"zero github timeout", func(c *Config) { c.GitHub.Timeout = 0 }},
		{"negative notify timeout", func(c *Config) { c.Notify.Timeout = -time.Second }},
		{"empty bind", func(c *Config) { c.Server.Bind = "" }},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }},
		{"zero write timeout", func(c *Config) { c.Server.WriteTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}

func TestLoadWithOverrides(t *testing.T) {
	ctx := context.Background()

	t.Run("nil overrides keep base", func(t *testing.T) {
		cfg, err := LoadWithOverrides(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, "main", cfg.GitHub.Branch)
	})

	t.Run("partial overrides applied", func(t *testing.T) {
		overrides := &Config{}
		overrides.Verify.Mode = "stub"
		overrides.GitHub.Repo = "webapp-submission"
		overrides.Notify.Timeout = 5 * time.Second

		cfg, err := LoadWithOverrides(ctx, overrides)
		require.NoError(t, err)
		assert.Equal(t, "stub", cfg.Verify.Mode)
		assert.Equal(t, "webapp-submission", cfg.GitHub.Repo)
		assert.Equal(t, 5*time.Second, cfg.Notify.Timeout)
		// Untouched values keep their defaults.
		assert.Equal(t, "origin", cfg.GitHub.Remote)
	})

	t.Run("invalid override rejected", func(t *testing.T) {
		overrides := &Config{}
		overrides.Verify.Mode = "plaintext"

		_, err := LoadWithOverrides(ctx, overrides)
		assert.ErrorIs(t, err, errors.ErrConfigInvalid)
	})
}

func TestPaths(t *testing.T) {
	t.Run("project paths are relative", func(t *testing.T) {
		assert.Equal(t, ".satchel", ProjectConfigDir())
		assert.Equal(t, filepath.Join(".satchel", "config.yaml"), ProjectConfigPath())
		assert.Equal(t, filepath.Join(".satchel", "state"), StateDir())
	})

	t.Run("global paths live under home", func(t *testing.T) {
		home, err := os.UserHomeDir()
		require.NoError(t, err)

		dir, err := GlobalConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, ".satchel"), dir)

		results, err := GlobalResultsDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "results"), results)
	})
}
