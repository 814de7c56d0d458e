package cli

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchel-dev/satchel/internal/errors"
)

func TestExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"ExitSuccess", ExitSuccess, 0},
		{"ExitError", ExitError, 1},
		{"ExitInvalidInput", ExitInvalidInput, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, tc.code)
		})
	}
}

func TestValidOutputFormats(t *testing.T) {
	t.Parallel()

	formats := ValidOutputFormats()
	assert.Contains(t, formats, "text")
	assert.Contains(t, formats, "json")
	assert.Len(t, formats, 2)
}

func TestIsValidOutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		format   string
		expected bool
	}{
		{"text is valid", "text", true},
		{"json is valid", "json", true},
		{"empty is invalid", "", false},
		{"yaml is invalid", "yaml", false},
		{"uppercase is invalid", "JSON", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, IsValidOutputFormat(tc.format))
		})
	}
}

func TestAddGlobalFlags(t *testing.T) {
	t.Parallel()

	flags := &GlobalFlags{}
	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, flags)

	assert.NotNil(t, cmd.PersistentFlags().Lookup("output"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("quiet"))

	// Defaults.
	assert.Equal(t, "text", cmd.PersistentFlags().Lookup("output").DefValue)
	assert.Equal(t, "false", cmd.PersistentFlags().Lookup("verbose").DefValue)
	assert.Equal(t, "false", cmd.PersistentFlags().Lookup("quiet").DefValue)
}

func TestBindGlobalFlags(t *testing.T) {
	t.Parallel()

	flags := &GlobalFlags{}
	cmd := &cobra.Command{Use: "test"}
	AddGlobalFlags(cmd, flags)

	v := viper.New()
	require.NoError(t, BindGlobalFlags(v, cmd))

	assert.Equal(t, "text", v.GetString("output"))
	assert.False(t, v.GetBool("verbose"))
	assert.False(t, v.GetBool("quiet"))
}

func TestExitCodeForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, ExitSuccess},
		{"generic error", stderrors.New("boom"), ExitError},
		{"wrapped generic error", fmt.Errorf("context: %w", stderrors.New("boom")), ExitError},
		{"exit code 2 error", errors.NewExitCode2Error(stderrors.New("bad input")), ExitInvalidInput},
		{"invalid output format", fmt.Errorf("oops: %w", errors.ErrInvalidOutputFormat), ExitInvalidInput},
		{"unknown flag", stderrors.New(`unknown flag: --bogus`), ExitInvalidInput},
		{"unknown shorthand flag", stderrors.New(`unknown shorthand flag: 'x' in -x`), ExitInvalidInput},
		{"flag needs arg", stderrors.New(`flag needs an argument: --output`), ExitInvalidInput},
		{"invalid argument", stderrors.New(`invalid argument "banana" for "--count"`), ExitInvalidInput},
		{"mutually exclusive flags", stderrors.New(`if any flags in the group [verbose quiet] are set none of the others can be`), ExitInvalidInput},
		{"required flag", stderrors.New(`required flag(s) "sre" not set`), ExitInvalidInput},
		{"unknown command", stderrors.New(`unknown command "frobnicate" for "satchel"`), ExitInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, ExitCodeForError(tc.err))
		})
	}
}
