package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/satchel-dev/satchel/internal/constants"
	"github.com/satchel-dev/satchel/internal/errors"
)

// newViperInstance creates a new Viper instance with standard Satchel configuration.
// This includes environment variable prefix (SATCHEL_), key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("SATCHEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	resolvePublicKeyFallback(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// resolvePublicKeyFallback fills verify.public_key_path from the
// SRE_PUBLIC_KEY_PATH environment variable when the config leaves it empty.
// The env var name predates Satchel and is shared with the issuing side.
func resolvePublicKeyFallback(cfg *Config) {
	if cfg.Verify.PublicKeyPath == "" {
		cfg.Verify.PublicKeyPath = os.Getenv(constants.PublicKeyPathEnv)
	}
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (SATCHEL_* prefix)
//  2. Project config (.satchel/config.yaml)
//  3. Global config (~/.satchel/config.yaml)
//  4. Built-in defaults
//
// For CLI flag overrides, use LoadWithOverrides instead.
//
// The function returns an error only for actual configuration problems,
// not for missing config files (which are expected in many scenarios).
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	// Load global config first (lower precedence)
	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}

	// Load project config (higher precedence, merges over global)
	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	resolvePublicKeyFallback(&cfg)

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("verify.mode", cfg.Verify.Mode).
		Str("server.bind", cfg.Server.Bind).
		Dur("notify.timeout", cfg.Notify.Timeout).
		Msg("configuration loaded and unmarshaled")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

// loadGlobalConfig attempts to load the global config file (~/.satchel/config.yaml).
// Returns nil if the file doesn't exist or home directory cannot be determined.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, ok := getGlobalConfigPathIfExists()
	if !ok {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// getGlobalConfigPathIfExists returns the global config path if it exists.
func getGlobalConfigPathIfExists() (string, bool) {
	globalConfigPath, err := GlobalConfigPath()
	if err != nil {
		return "", false
	}
	if _, err := os.Stat(globalConfigPath); err != nil {
		return "", false
	}
	return globalConfigPath, true
}

// loadProjectConfig attempts to load the project config file (.satchel/config.yaml).
// Returns nil if the file doesn't exist.
func loadProjectConfig(v *viper.Viper) error {
	projectConfigPath := ProjectConfigPath()
	if !fileExists(projectConfigPath) {
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// The overrides parameter contains values from CLI flags which have the
// highest precedence in the configuration hierarchy.
//
// Only non-zero values in overrides are applied. Zero values are ignored
// to allow partial overrides.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	// Re-validate after applying overrides
	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths for testing.
// This function allows precise control over which config files are loaded.
//
// projectConfigPath is the path to project-level config (higher priority).
// globalConfigPath is the path to global config (lower priority).
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// setDefaults configures all default values on the Viper instance.
// These defaults match the values from DefaultConfig().
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	// Verify defaults
	v.SetDefault("verify.mode", "ed25519")
	v.SetDefault("verify.public_key_path", "")

	// GitHub defaults
	v.SetDefault("github.user", "")
	v.SetDefault("github.repo", "")
	v.SetDefault("github.branch", "main")
	v.SetDefault("github.remote", "origin")
	v.SetDefault("github.token_env", constants.GitHubTokenEnv)
	v.SetDefault("github.pages_build_dir", "app")
	v.SetDefault("github.cname", "")
	v.SetDefault("github.timeout", "30s")

	// Notify defaults
	v.SetDefault("notify.endpoint", "")
	v.SetDefault("notify.timeout", "10s")

	// Server defaults
	v.SetDefault("server.bind", constants.DefaultServerBind)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.results_dir", "")
}

// applyOverrides merges non-zero override values into the config.
// Only non-zero values are applied to allow partial overrides.
func applyOverrides(cfg, overrides *Config) {
	// Verify overrides
	if overrides.Verify.Mode != "" {
		cfg.Verify.Mode = overrides.Verify.Mode
	}
	if overrides.Verify.PublicKeyPath != "" {
		cfg.Verify.PublicKeyPath = overrides.Verify.PublicKeyPath
	}

	// GitHub overrides
	applyGitHubOverrides(cfg, overrides)

	// Notify overrides
	if overrides.Notify.Endpoint != "" {
		cfg.Notify.Endpoint = overrides.Notify.Endpoint
	}
	if overrides.Notify.Timeout != 0 {
		cfg.Notify.Timeout = overrides.Notify.Timeout
	}

	// Server overrides
	if overrides.Server.Bind != "" {
		cfg.Server.Bind = overrides.Server.Bind
	}
	if overrides.Server.ReadTimeout != 0 {
		cfg.Server.ReadTimeout = overrides.Server.ReadTimeout
	}
	if overrides.Server.WriteTimeout != 0 {
		cfg.Server.WriteTimeout = overrides.Server.WriteTimeout
	}
	if overrides.Server.ResultsDir != "" {
		cfg.Server.ResultsDir = overrides.Server.ResultsDir
	}
}

// applyGitHubOverrides applies GitHub-related overrides to the config.
// This is extracted from applyOverrides to reduce cognitive complexity.
func applyGitHubOverrides(cfg, overrides *Config) {
	if overrides.GitHub.User != "" {
		cfg.GitHub.User = overrides.GitHub.User
	}
	if overrides.GitHub.Repo != "" {
		cfg.GitHub.Repo = overrides.GitHub.Repo
	}
	if overrides.GitHub.Branch != "" {
		cfg.GitHub.Branch = overrides.GitHub.Branch
	}
	if overrides.GitHub.Remote != "" {
		cfg.GitHub.Remote = overrides.GitHub.Remote
	}
	if overrides.GitHub.TokenEnv != "" {
		cfg.GitHub.TokenEnv = overrides.GitHub.TokenEnv
	}
	if overrides.GitHub.PagesBuildDir != "" {
		cfg.GitHub.PagesBuildDir = overrides.GitHub.PagesBuildDir
	}
	if overrides.GitHub.CName != "" {
		cfg.GitHub.CName = overrides.GitHub.CName
	}
	if overrides.GitHub.Timeout != 0 {
		cfg.GitHub.Timeout = overrides.GitHub.Timeout
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// This configures mapstructure to handle time.Duration conversion from strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}
