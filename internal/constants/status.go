// Package constants provides shared constants for the stagehand orchestration core.
//
// Import rules:
//   - CAN import: standard library only
//   - MUST NOT import: any internal packages
package constants

// VersionStatus represents the development-flow state of a version.
// Versions move through these states via the development state machine;
// direct writes are reserved for the abort recovery fallback.
type VersionStatus string

// Version development-flow statuses.
const (
	// VersionStatusDrafting indicates the version spec is being drafted.
	VersionStatusDrafting VersionStatus = "drafting"

	// VersionStatusScaffolding indicates the project skeleton is being generated.
	VersionStatusScaffolding VersionStatus = "scaffolding"

	// VersionStatusReviewing indicates the scaffold is under review.
	VersionStatusReviewing VersionStatus = "reviewing"

	// VersionStatusReady indicates the version is approved and ready to execute.
	VersionStatusReady VersionStatus = "ready"

	// VersionStatusExecuting indicates the task loop is running.
	VersionStatusExecuting VersionStatus = "executing"

	// VersionStatusPaused indicates execution is paused at a task boundary.
	VersionStatusPaused VersionStatus = "paused"

	// VersionStatusCompleted indicates all tasks finished. Terminal.
	VersionStatusCompleted VersionStatus = "completed"

	// VersionStatusError indicates a dead-end requiring manual recovery.
	VersionStatusError VersionStatus = "error"
)

// ExecutionStatus represents the runtime state of one execution run.
type ExecutionStatus string

// Execution runtime statuses.
const (
	// ExecutionStatusRunning indicates the task loop is active.
	ExecutionStatusRunning ExecutionStatus = "running"

	// ExecutionStatusPaused indicates the loop stopped at a task boundary.
	ExecutionStatusPaused ExecutionStatus = "paused"

	// ExecutionStatusCompleted indicates all tasks were done or skipped. Terminal.
	ExecutionStatusCompleted ExecutionStatus = "completed"

	// ExecutionStatusAborted indicates the operator aborted the run. Terminal.
	ExecutionStatusAborted ExecutionStatus = "aborted"

	// ExecutionStatusFailed indicates a task failure halted the loop.
	ExecutionStatusFailed ExecutionStatus = "failed"
)

// terminalExecutionStatuses defines execution states where no further
// transitions are allowed. Abort and complete reject these.
//
//nolint:gochecknoglobals // Read-only lookup table for terminal state checks
var terminalExecutionStatuses = map[ExecutionStatus]bool{
	ExecutionStatusCompleted: true,
	ExecutionStatusAborted:   true,
}

// IsTerminalExecutionStatus returns true for execution states where no
// further transitions are allowed. Terminal states: completed, aborted.
func IsTerminalExecutionStatus(status ExecutionStatus) bool {
	return terminalExecutionStatuses[status]
}

// staleExecutionStatuses defines execution states that indicate an
// interrupted run when observed at process startup. Normal termination
// always reaches a terminal or failed status.
//
//nolint:gochecknoglobals // Read-only lookup table for stale state checks
var staleExecutionStatuses = map[ExecutionStatus]bool{
	ExecutionStatusRunning: true,
	ExecutionStatusPaused:  true,
}

// IsStaleCandidateStatus returns true for execution states that mark a run
// as interrupted when found at startup (running, paused).
func IsStaleCandidateStatus(status ExecutionStatus) bool {
	return staleExecutionStatuses[status]
}

// TaskStatus represents the state of a single task in the task document.
type TaskStatus string

// Task statuses. Blocked is derived by the plan calculator and never
// written back to the document.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusSkipped    TaskStatus = "skipped"
	TaskStatusBlocked    TaskStatus = "blocked"
)

// IsSatisfied returns true for task states that satisfy a dependency
// reference (done, skipped).
func (s TaskStatus) IsSatisfied() bool {
	return s == TaskStatusDone || s == TaskStatusSkipped
}

// CommitStrategy controls when version-control checkpoints are created
// during execution.
type CommitStrategy string

// Commit strategies.
const (
	// CommitStrategyEachTask commits after every completed task.
	CommitStrategyEachTask CommitStrategy = "each_task"

	// CommitStrategyEachMilestone commits when a milestone's tasks are all
	// done or skipped.
	CommitStrategyEachMilestone CommitStrategy = "each_milestone"

	// CommitStrategyManual never auto-commits.
	CommitStrategyManual CommitStrategy = "manual"
)

// ValidCommitStrategies contains all valid commit strategy values.
// Use this for validation instead of hardcoding the strings.
//
//nolint:gochecknoglobals // Read-only list of valid strategies
var ValidCommitStrategies = []CommitStrategy{
	CommitStrategyEachTask,
	CommitStrategyEachMilestone,
	CommitStrategyManual,
}

// IsValidCommitStrategy checks if the given strategy is a known value.
func IsValidCommitStrategy(s CommitStrategy) bool {
	for _, valid := range ValidCommitStrategies {
		if s == valid {
			return true
		}
	}
	return false
}
