package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchel-dev/satchel/internal/config"
)

// These tests cannot run in parallel because they use os.Chdir.

func TestLoadConfigOrDefaults(t *testing.T) {
	t.Run("falls back to defaults on a broken config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		chdir(t, tmpDir)

		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, ".satchel"), 0o750))
		require.NoError(t, os.WriteFile(
			filepath.Join(tmpDir, ".satchel", "config.yaml"),
			[]byte("github: [not a mapping"), 0o600))

		logBuf := new(bytes.Buffer)
		globalLoggerMu.Lock()
		globalLogger = InitLoggerWithWriter(false, false, logBuf)
		globalLoggerMu.Unlock()

		cfg := loadConfigOrDefaults(t.Context())
		require.NotNil(t, cfg)
		assert.Equal(t, config.DefaultConfig().GitHub.Branch, cfg.GitHub.Branch)
		assert.Contains(t, logBuf.String(), "failed to load config, using defaults")
	})

	t.Run("returns the loaded config when valid", func(t *testing.T) {
		tmpDir := t.TempDir()
		chdir(t, tmpDir)

		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, ".satchel"), 0o750))
		require.NoError(t, os.WriteFile(
			filepath.Join(tmpDir, ".satchel", "config.yaml"),
			[]byte("github:\n  branch: release\n"), 0o600))

		cfg := loadConfigOrDefaults(t.Context())
		require.NotNil(t, cfg)
		assert.Equal(t, "release", cfg.GitHub.Branch)
	})
}

func TestReadEnvelope(t *testing.T) {
	t.Run("reads from a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sre.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"round": 2}`), 0o600))

		raw, err := readEnvelope(path)
		require.NoError(t, err)
		assert.Equal(t, "2", raw["round"].(interface{ String() string }).String())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readEnvelope(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open envelope")
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sre.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

		_, err := readEnvelope(path)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "failed to decode envelope"))
	})
}
