package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stagehand-sh/stagehand/internal/ctxutil"
)

// AddStatusCommand adds the status command to the root command.
func AddStatusCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "status <execution-id>",
		Short: "Show an execution's current state and plan",
		Long: `Show the persisted state of an execution together with the plan
derived from the task document on disk: progress, the next eligible
task, and any blocked tasks.

Examples:
  stagehand status 9a2e...
  stagehand status 9a2e... --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), cmd, os.Stdout, args[0])
		},
	})
}

func runStatus(ctx context.Context, cmd *cobra.Command, w io.Writer, executionID string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	snap, err := svc.engine.Status(ctx, executionID)
	if err != nil {
		return err
	}

	if cmd.Flag("output").Value.String() == OutputJSON {
		return writeJSON(w, snap)
	}

	t := newTable(w)
	t.AppendRow(table.Row{"Execution", snap.Execution.ID})
	t.AppendRow(table.Row{"Status", snap.Execution.Status})
	t.AppendRow(table.Row{"Paused", snap.Execution.IsPaused})
	t.AppendRow(table.Row{"Project", snap.Project.Name})
	t.AppendRow(table.Row{"Version", fmt.Sprintf("%s (%s)", snap.Version.ID, snap.Version.DevStatus)})
	t.AppendRow(table.Row{"Progress", progressCell(snap.CompletedTasks, snap.TotalTasks)})
	t.AppendRow(table.Row{"Started", snap.Execution.StartedAt.Format(time.RFC3339)})
	if snap.Execution.FinishedAt != nil {
		t.AppendRow(table.Row{"Finished", snap.Execution.FinishedAt.Format(time.RFC3339)})
	}
	if snap.Execution.FailedTaskID != "" {
		t.AppendRow(table.Row{"Failed task", snap.Execution.FailedTaskID})
		t.AppendRow(table.Row{"Error", snap.Execution.ErrorMessage})
	}
	if snap.NextTaskID != "" {
		t.AppendRow(table.Row{"Next task", snap.NextTaskID})
	}
	if len(snap.BlockedTaskIDs) > 0 {
		t.AppendRow(table.Row{"Blocked", strings.Join(snap.BlockedTaskIDs, ", ")})
	}
	t.Render()
	return nil
}
