package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stagehand-sh/stagehand/internal/ctxutil"
)

// AddPauseCommand adds the pause command to the root command.
func AddPauseCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "pause <execution-id>",
		Short: "Pause an execution at the next task boundary",
		Long: `Request a running execution to stop at the next task boundary.

The task currently in flight is allowed to finish first. Resume later
with 'stagehand resume'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPause(cmd.Context(), os.Stdout, args[0])
		},
	})
}

func runPause(ctx context.Context, w io.Writer, executionID string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.engine.Pause(ctx, executionID); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Pause requested for execution %s; the in-flight task will finish first.\n", executionID)
	return nil
}

// AddResumeCommand adds the resume command to the root command.
func AddResumeCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "resume <execution-id>",
		Short: "Resume a paused execution",
		Long: `Continue a paused execution from the last completed task boundary.

The command blocks until the run completes, pauses again, or halts on
a failed task.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResume(cmd.Context(), os.Stdout, args[0])
		},
	})
}

func runResume(ctx context.Context, w io.Writer, executionID string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.engine.Resume(ctx, executionID); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Execution %s resumed and ran to a stop.\n", executionID)
	return nil
}

// AddAbortCommand adds the abort command to the root command.
func AddAbortCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "abort <execution-id>",
		Short: "Abort an execution and reset the working tree",
		Long: `Terminate an execution: stop the agent process, hard-reset the
working tree to the pre-execution commit, and return the version to
the ready state.

Cleanup is best-effort; a failed reset is reported but does not block
the abort.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAbort(cmd.Context(), cmd, os.Stdout, args[0])
		},
	})
}

func runAbort(ctx context.Context, cmd *cobra.Command, w io.Writer, executionID string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	result, err := svc.engine.Abort(ctx, executionID)
	if err != nil {
		return err
	}

	if cmd.Flag("output").Value.String() == OutputJSON {
		return writeJSON(w, result)
	}

	_, _ = fmt.Fprintf(w, "Execution %s aborted.\n", executionID)
	if result.ResetFailed {
		_, _ = fmt.Fprintf(w, "Warning: working-tree reset failed: %s\n", result.ResetError)
	}
	return nil
}

// AddRetryCommand adds the retry command to the root command.
func AddRetryCommand(root *cobra.Command) {
	root.AddCommand(&cobra.Command{
		Use:   "retry <execution-id>",
		Short: "Retry the failed task of a halted execution",
		Long: `Reset a halted execution's failing task to pending and re-enter the
task loop. Retries per task are bounded by execution.max_retries.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRetry(cmd.Context(), os.Stdout, args[0])
		},
	})
}

func runRetry(ctx context.Context, w io.Writer, executionID string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.engine.RetryTask(ctx, executionID); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Execution %s retried and ran to a stop.\n", executionID)
	return nil
}

// AddSkipCommand adds the skip command to the root command.
func AddSkipCommand(root *cobra.Command) {
	var taskID string

	cmd := &cobra.Command{
		Use:   "skip <execution-id>",
		Short: "Skip a task so its dependents can run",
		Long: `Mark a task skipped. Skipped tasks satisfy dependency references, so
downstream tasks become eligible. Without --task the halted execution's
failing task is skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSkip(cmd.Context(), os.Stdout, args[0], taskID)
		},
	}

	cmd.Flags().StringVar(&taskID, "task", "", "task identifier to skip (defaults to the failing task)")
	root.AddCommand(cmd)
}

func runSkip(ctx context.Context, w io.Writer, executionID, taskID string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.engine.SkipTask(ctx, executionID, taskID); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "Task skipped on execution %s.\n", executionID)
	return nil
}
