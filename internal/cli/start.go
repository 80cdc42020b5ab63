package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stagehand-sh/stagehand/internal/constants"
	"github.com/stagehand-sh/stagehand/internal/ctxutil"
	"github.com/stagehand-sh/stagehand/internal/engine"
	"github.com/stagehand-sh/stagehand/internal/errors"
)

// startFlags holds the per-invocation options of the start command.
type startFlags struct {
	// CommitStrategy overrides the configured checkpoint strategy for
	// this run only. Empty means use the configuration.
	CommitStrategy string
	// OpenEditor launches $VISUAL/$EDITOR on the project directory
	// before the run.
	OpenEditor bool
}

// AddStartCommand adds the start command to the root command.
func AddStartCommand(root *cobra.Command) {
	root.AddCommand(newStartCmd())
}

func newStartCmd() *cobra.Command {
	flags := &startFlags{}

	cmd := &cobra.Command{
		Use:   "start <version-id>",
		Short: "Start executing a ready version's task document",
		Long: `Start the task-execution loop for an approved version.

The version must be in the ready state and its project directory must
be a git repository containing TODO.md. Tasks run one at a time in
dependency order; each is dispatched to the configured coding agent.
The command blocks until the run completes, pauses, or halts on a
failed task.

Examples:
  stagehand start 6f1c...
  stagehand start 6f1c... --commit-strategy manual
  stagehand start 6f1c... --open-editor
  stagehand start 6f1c... --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd.Context(), cmd, os.Stdout, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.CommitStrategy, "commit-strategy", "",
		fmt.Sprintf("checkpoint strategy for this run (%s)", strings.Join(commitStrategyNames(), "|")))
	cmd.Flags().BoolVar(&flags.OpenEditor, "open-editor", false,
		"open the project directory in $VISUAL/$EDITOR before the run")

	return cmd
}

func runStart(ctx context.Context, cmd *cobra.Command, w io.Writer, versionID string, flags *startFlags) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	var opts []engine.StartOption
	if flags.CommitStrategy != "" {
		strategy := constants.CommitStrategy(flags.CommitStrategy)
		if !constants.IsValidCommitStrategy(strategy) {
			return fmt.Errorf("%w: --commit-strategy must be one of %s, got %q",
				errors.ErrValidation, strings.Join(commitStrategyNames(), ", "), flags.CommitStrategy)
		}
		opts = append(opts, engine.WithCommitStrategy(strategy))
	}

	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	// Surface interrupted runs before starting new work.
	stale, err := svc.scanner.Scan(ctx)
	if err != nil {
		return err
	}
	if len(stale) > 0 {
		_, _ = fmt.Fprintf(w, "Warning: %d stale execution(s) found; see 'stagehand stale'\n", len(stale))
	}

	if flags.OpenEditor {
		openProjectEditor(ctx, svc, w, versionID)
	}

	exec, runErr := svc.engine.Start(ctx, versionID, opts...)
	if exec == nil {
		return runErr
	}

	if cmd.Flag("output").Value.String() == OutputJSON {
		if err := writeJSON(w, exec); err != nil {
			return err
		}
		return runErr
	}

	switch {
	case runErr != nil:
		_, _ = fmt.Fprintf(w, "Execution %s halted: %v\n", exec.ID, runErr)
		_, _ = fmt.Fprintf(w, "Use 'stagehand retry %s' or 'stagehand skip %s' to continue.\n", exec.ID, exec.ID)
	default:
		_, _ = fmt.Fprintf(w, "Execution %s finished with status %s (%d/%d tasks)\n",
			exec.ID, exec.Status, exec.CompletedTasks, exec.TotalTasks)
	}
	return runErr
}

// openProjectEditor launches the operator's editor on the version's
// project directory. Best-effort: a missing editor or a failed launch
// is reported on w and never blocks the run.
func openProjectEditor(ctx context.Context, svc *services, w io.Writer, versionID string) {
	version, err := svc.store.FindVersion(ctx, versionID)
	if err != nil {
		_, _ = fmt.Fprintf(w, "Warning: cannot open editor: %v\n", err)
		return
	}
	project, err := svc.store.FindProject(ctx, version.ProjectID)
	if err != nil {
		_, _ = fmt.Fprintf(w, "Warning: cannot open editor: %v\n", err)
		return
	}

	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		_, _ = fmt.Fprintln(w, "Warning: --open-editor set but neither $VISUAL nor $EDITOR is configured")
		return
	}

	// Detached: a terminal editor would contend with the running loop
	// for the TTY, so the process is started and left alone.
	editorCmd := exec.Command(editor, project.Path) //#nosec G204 -- editor comes from the operator's own environment
	if err := editorCmd.Start(); err != nil {
		_, _ = fmt.Fprintf(w, "Warning: failed to launch %s: %v\n", editor, err)
		return
	}
	go func() { _ = editorCmd.Wait() }()
}

// commitStrategyNames returns the accepted --commit-strategy values.
func commitStrategyNames() []string {
	names := make([]string, 0, len(constants.ValidCommitStrategies))
	for _, s := range constants.ValidCommitStrategies {
		names = append(names, string(s))
	}
	return names
}
