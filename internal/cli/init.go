// Package cli provides the command-line interface for satchel.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/satchel-dev/satchel/internal/config"
	satchelerrors "github.com/satchel-dev/satchel/internal/errors"
	"github.com/satchel-dev/satchel/internal/tui"
)

// SatchelConfig represents the user's Satchel configuration.
// This is the structure that gets written to config.yaml. Durations are
// written as strings ("30s") so the file stays human-editable; the loader
// decodes them back via the duration hook.
type SatchelConfig struct {
	Verify VerifyConfig `yaml:"verify"`
	GitHub GitHubConfig `yaml:"github"`
	Notify NotifyConfig `yaml:"notify"`
	Server ServerConfig `yaml:"server"`
}

// VerifyConfig holds envelope verification configuration.
// YAML field names match internal/config/config.go VerifyConfig struct.
type VerifyConfig struct {
	Mode          string `yaml:"mode"`
	PublicKeyPath string `yaml:"public_key_path"`
}

// GitHubConfig holds repository and Pages deployment configuration.
type GitHubConfig struct {
	User          string `yaml:"user"`
	Repo          string `yaml:"repo"`
	Branch        string `yaml:"branch"`
	Remote        string `yaml:"remote"`
	TokenEnv      string `yaml:"token_env"`
	PagesBuildDir string `yaml:"pages_build_dir"`
	CName         string `yaml:"cname"`
	Timeout       string `yaml:"timeout"`
}

// NotifyConfig holds evaluator notification configuration.
type NotifyConfig struct {
	Endpoint string `yaml:"endpoint"`
	Timeout  string `yaml:"timeout"`
}

// ServerConfig holds mock evaluation server configuration.
type ServerConfig struct {
	Bind         string `yaml:"bind"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
	ResultsDir   string `yaml:"results_dir"`
}

// defaultSatchelConfig builds the YAML view of the built-in defaults.
func defaultSatchelConfig() SatchelConfig {
	defaults := config.DefaultConfig()
	return SatchelConfig{
		Verify: VerifyConfig{
			Mode:          defaults.Verify.Mode,
			PublicKeyPath: defaults.Verify.PublicKeyPath,
		},
		GitHub: GitHubConfig{
			User:          defaults.GitHub.User,
			Repo:          defaults.GitHub.Repo,
			Branch:        defaults.GitHub.Branch,
			Remote:        defaults.GitHub.Remote,
			TokenEnv:      defaults.GitHub.TokenEnv,
			PagesBuildDir: defaults.GitHub.PagesBuildDir,
			CName:         defaults.GitHub.CName,
			Timeout:       defaults.GitHub.Timeout.String(),
		},
		Notify: NotifyConfig{
			Endpoint: defaults.Notify.Endpoint,
			Timeout:  defaults.Notify.Timeout.String(),
		},
		Server: ServerConfig{
			Bind:         defaults.Server.Bind,
			ReadTimeout:  defaults.Server.ReadTimeout.String(),
			WriteTimeout: defaults.Server.WriteTimeout.String(),
			ResultsDir:   defaults.Server.ResultsDir,
		},
	}
}

// InitFlags holds flags specific to the init command.
type InitFlags struct {
	// Global writes the config to ~/.satchel instead of the project.
	Global bool
	// Force overwrites an existing config file without prompting.
	Force bool
}

// AddInitCommand adds the init command to the root command.
func AddInitCommand(root *cobra.Command) {
	root.AddCommand(newInitCmd())
}

func newInitCmd() *cobra.Command {
	flags := &InitFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a configuration file populated with the built-in defaults.
By default the project config (.satchel/config.yaml) is written; use
--global for the user-wide config (~/.satchel/config.yaml).

Examples:
  satchel init
  satchel init --global
  satchel init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, os.Stdout, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.Global, "global", false, "write the global config instead of the project config")
	cmd.Flags().BoolVar(&flags.Force, "force", false, "overwrite an existing config file without prompting")

	return cmd
}

func runInit(cmd *cobra.Command, w io.Writer, flags *InitFlags) error {
	logger := GetLogger()
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()
	out := tui.NewOutput(w, outputFormat)

	path, err := configPathFor(flags.Global)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !flags.Force {
		overwrite, err := confirmOverwriteConfig(path)
		if err != nil {
			return err
		}
		if !overwrite {
			out.Info("Keeping existing configuration")
			return nil
		}
	}

	data, err := yaml.Marshal(defaultSatchelConfig())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	logger.Info().Str("path", path).Msg("configuration written")

	if outputFormat == tui.FormatJSON {
		return out.JSON(map[string]string{"config": path})
	}
	out.Success(fmt.Sprintf("Configuration written to %s", path))
	return nil
}

// configPathFor returns the target config path for init.
func configPathFor(global bool) (string, error) {
	if global {
		return config.GlobalConfigPath()
	}
	return config.ProjectConfigPath(), nil
}

// createInitConfirmForm is the overwrite confirmation form factory.
// Overridable in tests to inject mock forms.
//
//nolint:gochecknoglobals // Test injection point - standard Go testing pattern
var createInitConfirmForm = defaultCreateInitConfirmForm

// defaultCreateInitConfirmForm creates the overwrite confirmation form.
func defaultCreateInitConfirmForm(path string, confirm *bool) formRunner {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Overwrite %s?", path)).
				Description("The existing configuration will be replaced with defaults.").
				Affirmative("Yes, overwrite").
				Negative("No, keep it").
				Value(confirm),
		),
	)
}

// confirmOverwriteConfig prompts before overwriting an existing config.
// Non-interactive sessions must pass --force instead.
func confirmOverwriteConfig(path string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, satchelerrors.NewExitCode2Error(satchelerrors.ErrNonInteractiveMode)
	}

	var confirm bool
	form := createInitConfirmForm(path, &confirm)
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirm, nil
}
