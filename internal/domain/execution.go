// Package domain provides shared domain types for the stagehand orchestration core.
// These types are used across all internal packages to ensure consistent data structures.
//
// This package follows strict import rules:
//   - CAN import: internal/constants, internal/errors, standard library
//   - MUST NOT import: any other internal packages
//
// All JSON field names use snake_case.
package domain

import (
	"time"

	"github.com/stagehand-sh/stagehand/internal/constants"
)

// Execution represents one run of the automated task-execution phase
// for a version. It is created when execution starts, mutated by the
// orchestrator as tasks complete, fail, or are skipped, and reaches a
// terminal state on completed or aborted.
//
// Status and IsPaused deliberately diverge during transition windows:
// an execution can be status=running with is_paused=true while an
// in-flight task finishes. IsPaused is authoritative for pause/resume
// gating; Status is authoritative for terminal-state checks.
type Execution struct {
	// ID is the unique identifier for the execution (UUID).
	ID string `json:"id"`

	// VersionID links this execution to its owning version.
	VersionID string `json:"version_id"`

	// Status is the current runtime state (running, paused, completed,
	// aborted, failed).
	Status constants.ExecutionStatus `json:"status"`

	// IsPaused requests a stop at the next task boundary. The in-flight
	// task is allowed to finish first.
	IsPaused bool `json:"is_paused"`

	// PreExecutionCommit is the version-control checkpoint captured
	// before execution started. Abort hard-resets the working tree to
	// this reference when recorded.
	PreExecutionCommit string `json:"pre_execution_commit,omitempty"`

	// CommitStrategy controls when checkpoints are created during the run.
	CommitStrategy constants.CommitStrategy `json:"commit_strategy"`

	// CompletedTasks counts tasks finished (done or skipped) so far.
	CompletedTasks int `json:"completed_tasks"`

	// TotalTasks is the task count parsed from the document at start.
	TotalTasks int `json:"total_tasks"`

	// FailedTaskID identifies the task whose failure halted the loop.
	FailedTaskID string `json:"failed_task_id,omitempty"`

	// ErrorMessage carries the failure detail surfaced to the operator.
	ErrorMessage string `json:"error_message,omitempty"`

	// StartedAt is when the execution was created.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the execution reached a terminal status
	// (nil while in flight).
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// SchemaVersion indicates the version of the Execution schema.
	SchemaVersion int `json:"schema_version"`
}

// IsTerminal reports whether the execution reached a state where no
// further transitions are allowed.
func (e *Execution) IsTerminal() bool {
	return constants.IsTerminalExecutionStatus(e.Status)
}

// PauseRequested reports whether the loop should stop at the next task
// boundary. Either signal is accepted; see the dual-flag note above.
func (e *Execution) PauseRequested() bool {
	return e.IsPaused || e.Status == constants.ExecutionStatusPaused
}

// AbortResult accumulates the outcomes of the independent best-effort
// cleanup attempts performed during abort. Partial cleanup failure
// never blocks the abort itself.
type AbortResult struct {
	// Success is true once the execution is marked aborted and the
	// version left the executing/paused state.
	Success bool `json:"success"`

	// ResetFailed is true when the working-tree reset to the
	// pre-execution commit could not be performed.
	ResetFailed bool `json:"reset_failed,omitempty"`

	// ResetError carries the reset failure detail when ResetFailed is set.
	ResetError string `json:"reset_error,omitempty"`
}
