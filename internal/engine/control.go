package engine

import (
	"context"
	"fmt"

	"github.com/stagehand-sh/stagehand/internal/constants"
	"github.com/stagehand-sh/stagehand/internal/ctxutil"
	"github.com/stagehand-sh/stagehand/internal/domain"
	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
	"github.com/stagehand-sh/stagehand/internal/plan"
	"github.com/stagehand-sh/stagehand/internal/todo"
)

// Pause requests a stop at the next task boundary. The in-flight task
// is allowed to finish; the loop observes the flag before dispatching
// the next task. Pausing an already-paused execution is a no-op.
func (e *Engine) Pause(ctx context.Context, executionID string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	exec, err := e.store.FindExecution(ctx, executionID)
	if err != nil {
		return err
	}
	if exec.IsTerminal() {
		return fmt.Errorf("%w: %s is %s", stagehanderrors.ErrExecutionTerminal, exec.ID, exec.Status)
	}
	if exec.PauseRequested() {
		return nil
	}

	if err := e.store.SetPaused(ctx, exec.ID, true); err != nil {
		return err
	}

	e.logger.Info().
		Str("execution_id", exec.ID).
		Msg("pause requested")
	return nil
}

// Resume restarts a paused execution's task loop and blocks until the
// loop exits again.
//
// A failed execution with a recorded failing task must go through
// RetryTask or SkipTask instead; resuming it directly would halt on the
// same task immediately.
func (e *Engine) Resume(ctx context.Context, executionID string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	exec, err := e.store.FindExecution(ctx, executionID)
	if err != nil {
		return err
	}
	if exec.IsTerminal() {
		return fmt.Errorf("%w: %s is %s", stagehanderrors.ErrExecutionTerminal, exec.ID, exec.Status)
	}
	if !exec.PauseRequested() && exec.Status != constants.ExecutionStatusFailed {
		return fmt.Errorf("%w: %s is %s", stagehanderrors.ErrExecutionNotPaused, exec.ID, exec.Status)
	}
	if exec.Status == constants.ExecutionStatusFailed && exec.FailedTaskID != "" {
		return fmt.Errorf("%w: task %s failed; retry or skip it first",
			stagehanderrors.ErrValidation, exec.FailedTaskID)
	}

	return e.reenterLoop(ctx, exec)
}

// RetryTask resets a failed execution's failing task to pending and
// restarts the loop. Operator retries per task are bounded by the
// configured maximum.
func (e *Engine) RetryTask(ctx context.Context, executionID string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	exec, version, project, err := e.loadFailed(ctx, executionID)
	if err != nil {
		return err
	}

	if attempts := e.retryAttempts(exec.ID, exec.FailedTaskID); attempts > e.cfg.Execution.MaxRetries {
		return fmt.Errorf("%w: task %s attempted %d times",
			stagehanderrors.ErrMaxRetriesExceeded, exec.FailedTaskID, attempts)
	}

	docPath := e.documentPath(project)
	doc, err := todo.LoadFile(docPath)
	if err != nil {
		return err
	}
	if err := doc.SetStatus(exec.FailedTaskID, constants.TaskStatusPending); err != nil {
		return err
	}
	if err := todo.SaveFile(docPath, doc); err != nil {
		return err
	}

	e.logger.Info().
		Str("execution_id", exec.ID).
		Str("task_id", exec.FailedTaskID).
		Msg("retrying failed task")

	if err := e.clearFailure(ctx, exec); err != nil {
		return err
	}
	return e.resumeLoop(ctx, exec, version, project)
}

// SkipTask marks a task skipped so its dependents can become eligible,
// then restarts the loop when the execution was halted on that task.
// Skipping is the only path past a blocked task; the decision is always
// the operator's, never the engine's.
func (e *Engine) SkipTask(ctx context.Context, executionID, taskID string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	exec, err := e.store.FindExecution(ctx, executionID)
	if err != nil {
		return err
	}
	if exec.IsTerminal() {
		return fmt.Errorf("%w: %s is %s", stagehanderrors.ErrExecutionTerminal, exec.ID, exec.Status)
	}
	if taskID == "" {
		taskID = exec.FailedTaskID
	}
	if taskID == "" {
		return fmt.Errorf("%w: task ID", stagehanderrors.ErrEmptyValue)
	}

	version, err := e.store.FindVersion(ctx, exec.VersionID)
	if err != nil {
		return err
	}
	project, err := e.store.FindProject(ctx, version.ProjectID)
	if err != nil {
		return err
	}

	docPath := e.documentPath(project)
	doc, err := todo.LoadFile(docPath)
	if err != nil {
		return err
	}
	if err := doc.SetStatus(taskID, constants.TaskStatusSkipped); err != nil {
		return err
	}
	if err := todo.SaveFile(docPath, doc); err != nil {
		return err
	}

	completed, total := plan.Progress(doc)
	if err := e.store.UpdateProgress(ctx, exec.ID, completed, total); err != nil {
		return err
	}
	exec.CompletedTasks, exec.TotalTasks = completed, total

	e.logger.Info().
		Str("execution_id", exec.ID).
		Str("task_id", taskID).
		Msg("task skipped")

	// A paused or still-running execution picks the change up at the
	// next boundary; only a halted one needs the loop restarted here.
	if exec.Status != constants.ExecutionStatusFailed {
		return nil
	}
	if err := e.clearFailure(ctx, exec); err != nil {
		return err
	}
	return e.resumeLoop(ctx, exec, version, project)
}

// Abort terminates an execution. Cleanup is best-effort in independent
// stages: stop the in-flight agent process, reset the working tree to
// the pre-execution checkpoint, mark the execution aborted, and return
// the version to ready. A failed reset is reported on the result but
// never blocks the abort.
func (e *Engine) Abort(ctx context.Context, executionID string) (*domain.AbortResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	exec, err := e.store.FindExecution(ctx, executionID)
	if err != nil {
		return nil, err
	}
	if exec.IsTerminal() {
		return nil, fmt.Errorf("%w: %s is %s", stagehanderrors.ErrExecutionTerminal, exec.ID, exec.Status)
	}

	version, err := e.store.FindVersion(ctx, exec.VersionID)
	if err != nil {
		return nil, err
	}
	project, err := e.store.FindProject(ctx, version.ProjectID)
	if err != nil {
		return nil, err
	}

	result := &domain.AbortResult{}

	if err := e.agent.Abort(ctx, exec.ID); err != nil {
		e.logger.Warn().Err(err).
			Str("execution_id", exec.ID).
			Msg("failed to stop agent process")
	}

	if exec.PreExecutionCommit != "" {
		if !e.git.IsRepo(ctx, project.Path) {
			e.logger.Warn().
				Str("execution_id", exec.ID).
				Str("path", project.Path).
				Msg("project path is not a git repository, skipping reset")
		} else if err := e.git.ResetHard(ctx, project.Path, exec.PreExecutionCommit); err != nil {
			result.ResetFailed = true
			result.ResetError = err.Error()
			e.logger.Warn().Err(err).
				Str("execution_id", exec.ID).
				Str("commit", exec.PreExecutionCommit).
				Msg("working-tree reset failed")
		}
	}

	now := e.clock.Now().UTC()
	if err := e.store.CompleteExecution(ctx, exec.ID, constants.ExecutionStatusAborted, now); err != nil {
		return result, err
	}
	exec.Status = constants.ExecutionStatusAborted
	exec.IsPaused = false
	exec.FinishedAt = &now

	// The ABORT transition covers executing and paused. Anything else
	// (a version stranded mid-recovery) falls back to a direct write so
	// abort always lands the version back on ready.
	if err := e.transitionVersion(ctx, version, constants.EventAbort); err != nil {
		e.logger.Warn().Err(err).
			Str("version_id", version.ID).
			Str("dev_status", string(version.DevStatus)).
			Msg("abort transition rejected, forcing version to ready")
		if err := e.store.UpdateVersionStatus(ctx, version.ID, constants.VersionStatusReady, now); err != nil {
			return result, err
		}
		version.DevStatus = constants.VersionStatusReady
	}

	result.Success = true

	e.logger.Info().
		Str("execution_id", exec.ID).
		Str("version_id", version.ID).
		Bool("reset_failed", result.ResetFailed).
		Msg("execution aborted")
	return result, nil
}

// loadFailed fetches the execution and its owners, requiring a failed
// execution with a recorded failing task.
func (e *Engine) loadFailed(ctx context.Context, executionID string) (*domain.Execution, *domain.Version, *domain.Project, error) {
	exec, err := e.store.FindExecution(ctx, executionID)
	if err != nil {
		return nil, nil, nil, err
	}
	if exec.IsTerminal() {
		return nil, nil, nil, fmt.Errorf("%w: %s is %s", stagehanderrors.ErrExecutionTerminal, exec.ID, exec.Status)
	}
	if exec.Status != constants.ExecutionStatusFailed || exec.FailedTaskID == "" {
		return nil, nil, nil, fmt.Errorf("%w: execution %s has no failed task",
			stagehanderrors.ErrValidation, exec.ID)
	}

	version, err := e.store.FindVersion(ctx, exec.VersionID)
	if err != nil {
		return nil, nil, nil, err
	}
	project, err := e.store.FindProject(ctx, version.ProjectID)
	if err != nil {
		return nil, nil, nil, err
	}
	return exec, version, project, nil
}

// clearFailure wipes the failure fields after a retry or skip decision.
func (e *Engine) clearFailure(ctx context.Context, exec *domain.Execution) error {
	if err := e.store.ClearFailure(ctx, exec.ID); err != nil {
		return err
	}
	exec.FailedTaskID = ""
	exec.ErrorMessage = ""
	return nil
}

// reenterLoop normalizes a paused or failed execution back to running
// and re-enters the task loop.
func (e *Engine) reenterLoop(ctx context.Context, exec *domain.Execution) error {
	version, err := e.store.FindVersion(ctx, exec.VersionID)
	if err != nil {
		return err
	}
	project, err := e.store.FindProject(ctx, version.ProjectID)
	if err != nil {
		return err
	}
	return e.resumeLoop(ctx, exec, version, project)
}

// resumeLoop moves the execution (and a paused version) back to
// running, clears the pause flag, and runs the task loop under the
// execution's loop lock.
func (e *Engine) resumeLoop(ctx context.Context, exec *domain.Execution, version *domain.Version, project *domain.Project) error {
	return e.lockAndRun(exec, func() error {
		if exec.Status != constants.ExecutionStatusRunning {
			if err := e.transitionExecution(ctx, exec, constants.EventResume); err != nil {
				return err
			}
		}
		if err := e.store.SetPaused(ctx, exec.ID, false); err != nil {
			return err
		}
		exec.IsPaused = false

		if version.DevStatus == constants.VersionStatusPaused {
			if err := e.transitionVersion(ctx, version, constants.EventResume); err != nil {
				return err
			}
		}

		e.logger.Info().
			Str("execution_id", exec.ID).
			Msg("execution resumed")

		return e.runLoop(ctx, exec, version, project)
	})
}
