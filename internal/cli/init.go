package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stagehand-sh/stagehand/internal/config"
	"github.com/stagehand-sh/stagehand/internal/constants"
	"github.com/stagehand-sh/stagehand/internal/ctxutil"
	"github.com/stagehand-sh/stagehand/internal/errors"
	"github.com/stagehand-sh/stagehand/internal/statemachine"
)

// AddInitCommand adds the init command to the root command.
func AddInitCommand(root *cobra.Command) {
	root.AddCommand(newInitCmd())
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the stagehand home directory",
		Long: `Create the stagehand home directory with a default configuration,
the shipped state-machine tables, and the logs directory.

Existing files are never overwritten, so init is safe to re-run and
operator edits to the state-machine YAMLs survive.

Examples:
  stagehand init
  STAGEHAND_HOME=/tmp/sh stagehand init`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.Context(), os.Stdout)
		},
	}
}

func runInit(ctx context.Context, w io.Writer) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	home, err := stagehandHome()
	if err != nil {
		return err
	}

	machinesDir := filepath.Join(home, constants.MachinesDirName)
	for _, dir := range []string{
		home,
		machinesDir,
		filepath.Join(home, constants.LogsDirName),
	} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}

	for _, cfg := range []statemachine.Config{
		statemachine.DefaultDevelopmentConfig(),
		statemachine.DefaultExecutionConfig(),
	} {
		if err := statemachine.WriteConfig(machinesDir, cfg); err != nil {
			return err
		}
	}

	if err := writeDefaultConfig(filepath.Join(home, constants.GlobalConfigName)); err != nil {
		return err
	}

	logger := GetLogger()
	logger.Info().Str("home", home).Msg("stagehand home initialized")
	_, _ = fmt.Fprintf(w, "Initialized stagehand home at %s\n", home)
	return nil
}

// writeDefaultConfig writes the default configuration file unless one
// already exists.
func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return errors.Wrap(err, "failed to marshal default config")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
