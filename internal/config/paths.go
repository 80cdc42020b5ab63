package config

import (
	"os"
	"path/filepath"

	"github.com/stagehand-sh/stagehand/internal/constants"
	"github.com/stagehand-sh/stagehand/internal/errors"
)

// GlobalConfigDir returns the path to the global stagehand configuration
// directory. This is typically ~/.stagehand on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.StagehandHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
// This is typically ~/.stagehand/config.yaml on Unix systems.
//
// Returns an error if the home directory cannot be determined.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.GlobalConfigName), nil
}

// ProjectConfigPath returns the relative path to the project configuration
// file. This is always .stagehand.yaml relative to the working directory.
func ProjectConfigPath() string {
	return constants.ProjectConfigName
}

// DefaultStorePath returns the default SQLite database path,
// typically ~/.stagehand/stagehand.db.
func DefaultStorePath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.StoreFileName), nil
}

// DefaultMachinesDir returns the default directory for state-machine
// configuration files, typically ~/.stagehand/statemachines.
func DefaultMachinesDir() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.MachinesDirName), nil
}
