// Package cli provides the command-line interface for stagehand.
package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stagehand-sh/stagehand/internal/errors"
	"github.com/stagehand-sh/stagehand/internal/signal"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// It is set during PersistentPreRunE and accessed via GetLogger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the initialized logger for use by subcommands.
//
// This function MUST only be called after the root command's
// PersistentPreRunE has executed; before that it returns a zero-value
// logger that discards all output. Safe for concurrent use.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// newRootCmd creates the root command for the stagehand CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "stagehand",
		Short: "Stagehand - execution orchestration for agent-driven development",
		Long: `Stagehand drives a coding agent through a project's task document.

A version moves through a configurable development flow (drafting,
reviewing, ready, executing); once ready, stagehand executes the
project's TODO.md task by task, dispatching each to the configured
coding agent, checkpointing progress in git, and persisting every state
change so interrupted runs can be recovered.`,
		Version: formatVersion(info),
		// Invoking the root without a subcommand shows help while still
		// running PersistentPreRunE for flag validation.
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v",
					errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			globalLoggerMu.Lock()
			globalLogger = InitLogger(flags.Verbose, flags.Quiet)
			globalLoggerMu.Unlock()

			return nil
		},
		SilenceUsage: true,
	}

	AddGlobalFlags(cmd, flags)

	AddInitCommand(cmd)
	AddConfigCommand(cmd)
	AddProjectCommand(cmd)
	AddVersionCommand(cmd)
	AddStartCommand(cmd)
	AddPauseCommand(cmd)
	AddResumeCommand(cmd)
	AddAbortCommand(cmd)
	AddRetryCommand(cmd)
	AddSkipCommand(cmd)
	AddStatusCommand(cmd)
	AddStaleCommand(cmd)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command. SIGINT/SIGTERM cancel the command
// context so the execution loop stops at a task boundary; anything
// interrupted mid-task is found by stale recovery on the next start.
func Execute(ctx context.Context, info BuildInfo) error {
	handler := signal.NewHandler(ctx)
	defer handler.Stop()
	defer CloseLogFile()

	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, info)
	return cmd.ExecuteContext(handler.Context())
}
