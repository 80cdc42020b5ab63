package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stagehand-sh/stagehand/internal/config"
	"github.com/stagehand-sh/stagehand/internal/ctxutil"
)

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the merged configuration",
		Long: `Print the configuration after merging defaults, the global config
file, the project config file, and STAGEHAND_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd, os.Stdout)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "paths",
		Short: "Print the configuration file locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigPaths(cmd.Context(), os.Stdout)
		},
	})
	root.AddCommand(cmd)
}

func runConfigShow(ctx context.Context, cmd *cobra.Command, w io.Writer) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if cmd.Flag("output").Value.String() == OutputJSON {
		return writeJSON(w, cfg)
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func runConfigPaths(ctx context.Context, w io.Writer) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	global, err := config.GlobalConfigPath()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w, "Global:  %s\n", global)
	_, _ = fmt.Fprintf(w, "Project: %s\n", config.ProjectConfigPath())
	return nil
}
