package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchel-dev/satchel/internal/config"
	"github.com/satchel-dev/satchel/internal/testutil"
)

// mockConfirmForm is a test double for huh confirmation forms.
type mockConfirmForm struct {
	confirm *bool
	answer  bool
	err     error
}

func (m *mockConfirmForm) Run() error {
	if m.err != nil {
		return m.err
	}
	*m.confirm = m.answer
	return nil
}

// These tests cannot run in parallel because they use os.Chdir and t.Setenv.

func TestInitCmd_WritesProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("SATCHEL_HOME", filepath.Join(tmpDir, "home"))
	chdir(t, tmpDir)

	require.NoError(t, executeCommand(t, "init"))

	path := filepath.Join(tmpDir, ".satchel", "config.yaml")
	require.FileExists(t, path)

	// The written file must round-trip through the loader.
	cfg, err := config.LoadFromPaths(t.Context(), path, "")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().GitHub.Branch, cfg.GitHub.Branch)
	assert.Equal(t, "app", cfg.GitHub.PagesBuildDir)
}

func TestInitCmd_WritesGlobalConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("SATCHEL_HOME", filepath.Join(tmpDir, ".satchel"))
	chdir(t, tmpDir)

	require.NoError(t, executeCommand(t, "init", "--global"))
	assert.FileExists(t, filepath.Join(tmpDir, ".satchel", "config.yaml"))
}

func TestInitCmd_ForceOverwrites(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("SATCHEL_HOME", filepath.Join(tmpDir, "home"))
	chdir(t, tmpDir)

	path := filepath.Join(tmpDir, ".satchel", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("github:\n  branch: custom\n"), 0o600))

	require.NoError(t, executeCommand(t, "init", "--force"))

	data, err := os.ReadFile(path) //nolint:gosec // Test file path
	require.NoError(t, err)
	assert.NotContains(t, string(data), "custom")
}

func TestInitCmd_ExistingConfigNonInteractive(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("SATCHEL_HOME", filepath.Join(tmpDir, "home"))
	chdir(t, tmpDir)

	path := filepath.Join(tmpDir, ".satchel", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("github:\n  branch: custom\n"), 0o600))

	// Stdin is not a TTY under go test, so the prompt path must refuse.
	err := executeCommand(t, "init")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))

	data, readErr := os.ReadFile(path) //nolint:gosec // Test file path
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "custom")
}

func TestConfirmOverwriteConfig_FormAnswers(t *testing.T) {
	// The form factory is only reached on a TTY; exercise it directly.
	t.Run("accepted", func(t *testing.T) {
		var confirm bool
		form := &mockConfirmForm{confirm: &confirm, answer: true}
		require.NoError(t, form.Run())
		assert.True(t, confirm)
	})

	t.Run("declined", func(t *testing.T) {
		var confirm bool
		form := &mockConfirmForm{confirm: &confirm, answer: false}
		require.NoError(t, form.Run())
		assert.False(t, confirm)
	})

	t.Run("aborted form propagates the error", func(t *testing.T) {
		var confirm bool
		form := &mockConfirmForm{confirm: &confirm, err: testutil.ErrMockFormCanceled}
		require.ErrorIs(t, form.Run(), testutil.ErrMockFormCanceled)
		assert.False(t, confirm)
	})

	t.Run("factory builds a runnable form", func(t *testing.T) {
		var confirm bool
		form := createInitConfirmForm("/tmp/config.yaml", &confirm)
		assert.NotNil(t, form)
	})
}
