package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/stagehand-sh/stagehand/internal/agent"
	"github.com/stagehand-sh/stagehand/internal/constants"
	"github.com/stagehand-sh/stagehand/internal/ctxutil"
	"github.com/stagehand-sh/stagehand/internal/domain"
	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
	"github.com/stagehand-sh/stagehand/internal/logging"
	"github.com/stagehand-sh/stagehand/internal/plan"
	"github.com/stagehand-sh/stagehand/internal/todo"
)

// StartOption adjusts a single Start invocation.
type StartOption func(*startOptions)

type startOptions struct {
	commitStrategy constants.CommitStrategy
}

// WithCommitStrategy overrides the configured commit strategy for this
// execution only. The override is recorded on the execution row, so
// resume and retry keep honoring it.
func WithCommitStrategy(strategy constants.CommitStrategy) StartOption {
	return func(o *startOptions) {
		o.commitStrategy = strategy
	}
}

// Start begins execution of a version's task document.
//
// The version must be in the ready state; the START transition moves it
// to executing. The working tree HEAD is captured as the pre-execution
// checkpoint before any task runs, then the task loop takes over.
//
// The created execution is returned even when the loop halts on a task
// failure, so callers can inspect its state.
func (e *Engine) Start(ctx context.Context, versionID string, opts ...StartOption) (*domain.Execution, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	options := startOptions{
		commitStrategy: constants.CommitStrategy(e.cfg.Execution.CommitStrategy),
	}
	for _, opt := range opts {
		opt(&options)
	}
	if !constants.IsValidCommitStrategy(options.commitStrategy) {
		return nil, fmt.Errorf("%w: unknown commit strategy %q",
			stagehanderrors.ErrValidation, options.commitStrategy)
	}

	version, err := e.store.FindVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	project, err := e.store.FindProject(ctx, version.ProjectID)
	if err != nil {
		return nil, err
	}

	// One active execution per version.
	existing, err := e.store.ListExecutionsByVersion(ctx, versionID)
	if err != nil {
		return nil, err
	}
	for _, prev := range existing {
		if !prev.IsTerminal() {
			return nil, fmt.Errorf("%w: execution %s is still %s",
				stagehanderrors.ErrValidation, prev.ID, prev.Status)
		}
	}

	if !e.git.IsRepo(ctx, project.Path) {
		return nil, fmt.Errorf("%w: %s", stagehanderrors.ErrNotGitRepo, project.Path)
	}

	doc, err := todo.LoadFile(e.documentPath(project))
	if err != nil {
		return nil, err
	}

	head, err := e.git.Head(ctx, project.Path)
	if err != nil {
		return nil, err
	}

	// Gate on the development machine before any row is written: a
	// version that is not ready rejects START here.
	if err := e.transitionVersion(ctx, version, constants.EventStart); err != nil {
		return nil, err
	}

	completed, total := plan.Progress(doc)
	exec := &domain.Execution{
		ID:                 uuid.NewString(),
		VersionID:          version.ID,
		Status:             constants.ExecutionStatusRunning,
		PreExecutionCommit: head,
		CommitStrategy:     options.commitStrategy,
		CompletedTasks:     completed,
		TotalTasks:         total,
		StartedAt:          e.clock.Now().UTC(),
		SchemaVersion:      constants.ExecutionSchemaVersion,
	}
	if err := e.store.CreateExecution(ctx, exec); err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("execution_id", exec.ID).
		Str("version_id", version.ID).
		Str("pre_execution_commit", head).
		Int("total_tasks", total).
		Msg("execution started")

	return exec, e.lockAndRun(exec, func() error {
		return e.runLoop(ctx, exec, version, project)
	})
}

// runLoop is the task-execution loop. Each iteration re-reads both the
// execution row (for pause requests) and the task document (the source
// of truth for task state), so decisions always reflect what is on disk.
//
// The loop exits on: completion, a pause observed at the boundary, a
// task failure, a blocked plan, or context cancellation. Cancellation
// leaves the execution row as-is; the stale-execution scanner picks it
// up on the next start.
func (e *Engine) runLoop(ctx context.Context, exec *domain.Execution, version *domain.Version, project *domain.Project) error {
	for {
		if err := ctxutil.Canceled(ctx); err != nil {
			return err
		}

		fresh, err := e.store.FindExecution(ctx, exec.ID)
		if err != nil {
			return err
		}
		exec.IsPaused = fresh.IsPaused
		if fresh.PauseRequested() {
			return e.finalizePause(ctx, exec, version)
		}

		doc, err := todo.LoadFile(e.documentPath(project))
		if err != nil {
			return e.failExecution(ctx, exec, "", err)
		}

		if plan.IsComplete(doc) {
			return e.finalizeComplete(ctx, exec, version)
		}

		task := plan.NextEligibleTask(doc)
		if task == nil {
			// A task left in_progress by an interrupted run stalls the
			// plan without being blocked; surface it as the failing
			// task so retry and skip apply to it.
			if stuck := firstInProgress(doc); stuck != nil {
				err := fmt.Errorf("%w: task %s was interrupted", stagehanderrors.ErrTaskFailed, stuck.ID)
				return e.failExecution(ctx, exec, stuck.ID, err)
			}
			blocked := plan.BlockedTasks(doc)
			err := fmt.Errorf("%w: %s", stagehanderrors.ErrTasksBlocked, strings.Join(blocked, ", "))
			return e.failExecution(ctx, exec, "", err)
		}

		if err := e.runTask(ctx, exec, project, doc, task); err != nil {
			return err
		}
	}
}

// runTask executes one task end to end: mark it in progress, dispatch
// to the agent under the per-task timeout, then record the result.
//
// A failed task deliberately stays in_progress in the document; the
// execution row carries the failure detail until the operator retries
// or skips.
func (e *Engine) runTask(ctx context.Context, exec *domain.Execution, project *domain.Project, doc *todo.Document, task *todo.Task) error {
	docPath := e.documentPath(project)

	if err := doc.SetStatus(task.ID, constants.TaskStatusInProgress); err != nil {
		return e.failExecution(ctx, exec, task.ID, err)
	}
	if err := todo.SaveFile(docPath, doc); err != nil {
		return e.failExecution(ctx, exec, task.ID, err)
	}

	e.logger.Info().
		Str("execution_id", exec.ID).
		Str("task_id", task.ID).
		Msg("dispatching task")

	taskCtx, cancel := context.WithTimeout(ctx, e.cfg.Execution.TaskTimeout)
	outcome, err := e.agent.Dispatch(taskCtx, agent.Request{
		ExecutionID: exec.ID,
		TaskID:      task.ID,
		Description: task.Description,
		WorkDir:     project.Path,
	})
	cancel()

	if err != nil {
		// Parent cancellation is not a task failure.
		if ctx.Err() != nil && !stderrors.Is(err, stagehanderrors.ErrTaskTimeout) {
			return ctx.Err()
		}
		return e.failExecution(ctx, exec, task.ID, err)
	}
	if !outcome.Success {
		return e.failExecution(ctx, exec, task.ID,
			fmt.Errorf("%w: %s", stagehanderrors.ErrTaskFailed, outcome.ErrorMessage))
	}

	e.logger.Info().
		Str("execution_id", exec.ID).
		Str("task_id", task.ID).
		Dur("duration", outcome.Duration).
		Str("output", logging.SafeValue("output", truncate(outcome.Output, maxLoggedOutput))).
		Msg("task completed")

	// Re-read the document before recording the result: an operator
	// skip lands on disk while the task is in flight, and writing the
	// copy loaded before dispatch back out would erase it.
	doc, err = todo.LoadFile(docPath)
	if err != nil {
		return e.failExecution(ctx, exec, task.ID, err)
	}
	if err := doc.SetStatus(task.ID, constants.TaskStatusDone); err != nil {
		return e.failExecution(ctx, exec, task.ID, err)
	}
	if err := todo.SaveFile(docPath, doc); err != nil {
		return e.failExecution(ctx, exec, task.ID, err)
	}

	completed, total := plan.Progress(doc)
	if err := e.store.UpdateProgress(ctx, exec.ID, completed, total); err != nil {
		return err
	}
	exec.CompletedTasks, exec.TotalTasks = completed, total

	e.checkpoint(ctx, exec, project, doc, task)
	return nil
}

// checkpoint creates a version-control commit per the execution's
// commit strategy. Checkpoint failures are logged but never halt the
// loop: the task itself succeeded and the document already records it.
func (e *Engine) checkpoint(ctx context.Context, exec *domain.Execution, project *domain.Project, doc *todo.Document, task *todo.Task) {
	var message string

	switch exec.CommitStrategy {
	case constants.CommitStrategyEachTask:
		message = fmt.Sprintf("stagehand: complete task %s", task.ID)
	case constants.CommitStrategyEachMilestone:
		m, ok := plan.MilestoneOf(doc, task.ID)
		if !ok || !plan.MilestoneComplete(m) {
			return
		}
		message = fmt.Sprintf("stagehand: complete milestone %s", m.ID)
	case constants.CommitStrategyManual:
		return
	default:
		return
	}

	sha, err := e.git.CommitAll(ctx, project.Path, message)
	if err != nil {
		e.logger.Warn().
			Err(err).
			Str("execution_id", exec.ID).
			Str("task_id", task.ID).
			Msg("checkpoint commit failed")
		return
	}
	if sha != "" {
		e.logger.Debug().
			Str("execution_id", exec.ID).
			Str("commit", sha).
			Msg("checkpoint created")
	}
}

// finalizePause moves a pause request observed at the task boundary
// into the paused status on both the execution and the version.
func (e *Engine) finalizePause(ctx context.Context, exec *domain.Execution, version *domain.Version) error {
	if exec.Status == constants.ExecutionStatusRunning {
		if err := e.transitionExecution(ctx, exec, constants.EventPause); err != nil {
			return err
		}
	}
	if version.DevStatus == constants.VersionStatusExecuting {
		if err := e.transitionVersion(ctx, version, constants.EventPause); err != nil {
			return err
		}
	}

	e.logger.Info().
		Str("execution_id", exec.ID).
		Msg("execution paused at task boundary")
	return nil
}

// finalizeComplete marks the execution completed and moves the version
// to its terminal completed state.
func (e *Engine) finalizeComplete(ctx context.Context, exec *domain.Execution, version *domain.Version) error {
	now := e.clock.Now().UTC()
	if err := e.store.CompleteExecution(ctx, exec.ID, constants.ExecutionStatusCompleted, now); err != nil {
		return err
	}
	exec.Status = constants.ExecutionStatusCompleted
	exec.IsPaused = false
	exec.FinishedAt = &now

	if err := e.transitionVersion(ctx, version, constants.EventComplete); err != nil {
		return err
	}

	e.logger.Info().
		Str("execution_id", exec.ID).
		Str("version_id", version.ID).
		Int("completed_tasks", exec.CompletedTasks).
		Msg("execution completed")
	return nil
}

// failExecution records a halt on the execution row and returns the
// halting error. The version stays executing so the operator can retry
// or skip the failing task and resume.
func (e *Engine) failExecution(ctx context.Context, exec *domain.Execution, taskID string, cause error) error {
	if err := e.store.SetFailure(ctx, exec.ID, taskID, cause.Error()); err != nil {
		e.logger.Error().Err(err).
			Str("execution_id", exec.ID).
			Msg("failed to record execution failure")
	}
	exec.Status = constants.ExecutionStatusFailed
	exec.FailedTaskID = taskID
	exec.ErrorMessage = cause.Error()

	e.logger.Error().
		Str("execution_id", exec.ID).
		Str("task_id", taskID).
		Err(cause).
		Msg("execution halted")
	return cause
}

// firstInProgress returns the first in_progress task in document order,
// or nil.
func firstInProgress(doc *todo.Document) *todo.Task {
	for _, t := range doc.Tasks() {
		if t.Status == constants.TaskStatusInProgress {
			return t
		}
	}
	return nil
}

// documentPath returns the task document path for a project.
func (e *Engine) documentPath(project *domain.Project) string {
	return filepath.Join(project.Path, constants.TaskDocumentName)
}

// maxLoggedOutput bounds how much agent output lands in the log.
const maxLoggedOutput = 2048

// truncate shortens s to at most n bytes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
