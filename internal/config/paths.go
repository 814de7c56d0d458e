package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/satchel-dev/satchel/internal/constants"
	"github.com/satchel-dev/satchel/internal/errors"
)

// GlobalConfigDir returns the path to the global Satchel configuration directory.
// This is typically ~/.satchel on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.SatchelHome), nil
}

// ProjectConfigDir returns the relative path to the project configuration directory.
// This is always .satchel relative to the project root.
func ProjectConfigDir() string {
	return constants.SatchelHome
}

// GlobalConfigPath returns the full path to the global configuration file.
// This is typically ~/.satchel/config.yaml on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", fmt.Errorf("get global config path: %w", err)
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// ProjectConfigPath returns the relative path to the project configuration file.
// This is always .satchel/config.yaml relative to the project root.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), constants.ConfigFileName)
}

// StateDir returns the path to the project-local state directory
// (.satchel/state relative to the project root).
func StateDir() string {
	return filepath.Join(ProjectConfigDir(), constants.StateDir)
}

// GlobalResultsDir returns the default directory for evaluation results,
// typically ~/.satchel/results.
func GlobalResultsDir() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.ResultsDir), nil
}
