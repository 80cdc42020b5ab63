// Package agent provides the coding-agent adapter: the boundary through
// which the orchestrator dispatches individual tasks to a long-running
// external coding-agent process.
//
// Import rules:
//   - CAN import: internal/ctxutil, internal/errors, std lib, zerolog
//   - MUST NOT import: internal/store, internal/engine, internal/cli
package agent

import (
	"context"
	"time"
)

// Request describes one task dispatched to the coding agent.
type Request struct {
	// ExecutionID identifies the owning execution, used to target Abort.
	ExecutionID string

	// TaskID is the task identifier from the task document.
	TaskID string

	// Description is the free-text task description handed to the agent.
	Description string

	// WorkDir is the project working directory the agent operates in.
	WorkDir string
}

// Outcome is the result of one dispatched task.
type Outcome struct {
	// Success indicates the agent completed the task without errors.
	Success bool

	// Output is the captured agent output (stdout).
	Output string

	// ErrorMessage carries the failure detail when Success is false.
	ErrorMessage string

	// Duration is how long the dispatch took.
	Duration time.Duration
}

// Agent dispatches tasks to the external coding-agent process.
//
// Dispatch blocks until the agent finishes the task or ctx is done.
// Abort is best-effort: it requests the agent process for the given
// execution to stop and may no-op when nothing is running.
type Agent interface {
	Dispatch(ctx context.Context, req Request) (*Outcome, error)
	Abort(ctx context.Context, executionID string) error
}
