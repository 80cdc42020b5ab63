package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stagehand-sh/stagehand/internal/ctxutil"
	"github.com/stagehand-sh/stagehand/internal/recovery"
)

// AddStaleCommand adds the stale command group to the root command.
func AddStaleCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "stale",
		Short: "Detect and resolve interrupted executions",
		Long: `List executions left running or paused by a dead process, and resolve
them by resuming from the last persisted task boundary or aborting.`,
		// Bare 'stagehand stale' lists.
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStaleList(cmd.Context(), cmd, os.Stdout)
		},
	}
	cmd.AddCommand(newStaleResolveCmd())
	root.AddCommand(cmd)
}

func runStaleList(ctx context.Context, cmd *cobra.Command, w io.Writer) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	stale, err := svc.scanner.Scan(ctx)
	if err != nil {
		return err
	}

	if cmd.Flag("output").Value.String() == OutputJSON {
		return writeJSON(w, stale)
	}

	if len(stale) == 0 {
		_, _ = fmt.Fprintln(w, "No stale executions.")
		return nil
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Execution", "Status", "Project", "Progress", "Started"})
	for _, s := range stale {
		t.AppendRow(table.Row{
			s.Execution.ID,
			s.Execution.Status,
			s.Project.Name,
			progressCell(s.Execution.CompletedTasks, s.Execution.TotalTasks),
			s.Execution.StartedAt.Format(time.RFC3339),
		})
	}
	t.Render()
	_, _ = fmt.Fprintln(w, "\nResolve with 'stagehand stale resolve <execution-id> --action resume|abort'.")
	return nil
}

func newStaleResolveCmd() *cobra.Command {
	var action string

	cmd := &cobra.Command{
		Use:   "resolve <execution-id>",
		Short: "Resolve one stale execution",
		Long: `Apply a resolution to a stale execution.

resume continues from the last persisted task boundary; a task that
was in flight when the process died halts the loop for an explicit
retry or skip decision. abort resets the working tree and returns the
version to ready.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStaleResolve(cmd.Context(), os.Stdout, args[0], action)
		},
	}

	cmd.Flags().StringVar(&action, "action", string(recovery.ResolutionResume),
		"resolution to apply (resume|abort)")
	return cmd
}

func runStaleResolve(ctx context.Context, w io.Writer, executionID, action string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.scanner.Resolve(ctx, executionID, recovery.Resolution(action)); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Execution %s resolved (%s).\n", executionID, action)
	return nil
}
