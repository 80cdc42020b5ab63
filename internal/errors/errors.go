// Package errors provides centralized error handling for stagehand.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrValidation indicates malformed or missing required input.
	// Field-scoped detail is carried by ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a referenced entity is absent from the store.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition indicates the state machine rejected the
	// requested event from the current state.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrMalformedDocument indicates the task document could not be parsed
	// (no milestone headings at all).
	ErrMalformedDocument = errors.New("malformed task document")

	// ErrExternalOperation indicates a version-control or agent-process
	// call failed.
	ErrExternalOperation = errors.New("external operation failed")

	// ErrGitOperation indicates a git command failed during execution.
	ErrGitOperation = errors.New("git operation failed")

	// ErrNotGitRepo indicates the path is not a git repository.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrAgentInvocation indicates the coding-agent process failed to
	// execute or returned a non-zero exit code.
	ErrAgentInvocation = errors.New("agent invocation failed")

	// ErrTaskTimeout indicates a task exceeded the configured per-task timeout.
	ErrTaskTimeout = errors.New("task timeout exceeded")

	// ErrTaskFailed indicates the agent reported a task failure.
	ErrTaskFailed = errors.New("task failed")

	// ErrTaskNotFound indicates a task identifier is absent from the
	// task document.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTasksBlocked indicates no task is eligible to run while
	// unfinished tasks remain (missing dependency or dependency cycle).
	ErrTasksBlocked = errors.New("remaining tasks are blocked")

	// ErrMaxRetriesExceeded indicates the maximum retry attempts for a
	// task have been reached.
	ErrMaxRetriesExceeded = errors.New("maximum retry attempts exceeded")

	// ErrExecutionTerminal indicates an operation was attempted on an
	// execution that already reached a terminal status.
	ErrExecutionTerminal = errors.New("execution already terminal")

	// ErrExecutionNotPaused indicates resume was requested for an
	// execution that is not paused.
	ErrExecutionNotPaused = errors.New("execution is not paused")

	// ErrExecutionLocked indicates another process holds the
	// execution's task loop lock.
	ErrExecutionLocked = errors.New("execution is locked by another process")

	// ErrMachineNotFound indicates a state-machine configuration file is
	// missing. This is fatal at startup, never a per-call error.
	ErrMachineNotFound = errors.New("state machine config not found")

	// ErrMachineInvalid indicates a state-machine configuration failed
	// structural validation.
	ErrMachineInvalid = errors.New("invalid state machine config")

	// ErrUnknownState indicates a state that is not in the configured
	// state set.
	ErrUnknownState = errors.New("unknown state")

	// ErrConfigNotFound indicates the configuration file was not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigInvalid indicates an invalid configuration value.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrStoreClosed indicates an operation on a closed store.
	ErrStoreClosed = errors.New("store is closed")
)
