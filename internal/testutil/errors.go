// Package testutil provides testing utilities for stagehand.
//
// This package contains mock errors used to script failure scenarios
// across test files. It should only be imported by test files
// (*_test.go).
package testutil

import "errors"

// Mock errors for simulating failure scenarios in tests.
var (
	// ErrMockStoreUnavailable simulates a store that cannot be reached.
	ErrMockStoreUnavailable = errors.New("store unavailable")

	// ErrMockAgentFailed simulates a coding-agent invocation failure.
	ErrMockAgentFailed = errors.New("agent invocation failed")

	// ErrMockGitFailed simulates a git command failure.
	ErrMockGitFailed = errors.New("git command failed")

	// ErrMockNotFound simulates a missing resource.
	ErrMockNotFound = errors.New("not found")

	// ErrMockDocumentUnreadable simulates an unreadable task document.
	ErrMockDocumentUnreadable = errors.New("task document unreadable")
)
