// Package flock guards executions against concurrent processes using
// exclusive, non-blocking file locks.
//
// Each running task loop holds a lock file named after its execution.
// The OS releases the lock when the holding process exits, so a killed
// run never leaves a lock behind; the stale-execution scanner uses that
// to tell dead runs apart from ones still alive in another process.
//
// Import rules:
//   - CAN import: internal/errors, std lib
//   - MUST NOT import: internal/engine, internal/cli
package flock

import (
	"os"
	"path/filepath"

	"github.com/stagehand-sh/stagehand/internal/errors"
)

// Lock is a held execution lock. Release it when the task loop exits.
type Lock struct {
	file *os.File
}

// Acquire takes the exclusive lock at path, creating the file and its
// parent directory as needed. It fails immediately when another process
// holds the lock.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.Wrap(err, "failed to create lock directory")
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) // #nosec G304 -- path derived from the store location
	if err != nil {
		return nil, errors.Wrap(err, "failed to open lock file")
	}
	if err := Exclusive(f.Fd()); err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "lock %s is held", filepath.Base(path))
	}
	return &Lock{file: f}, nil
}

// Release unlocks and closes the lock file. The file itself stays on
// disk; removing it would race with another process probing the lock.
func (l *Lock) Release() error {
	if err := Unlock(l.file.Fd()); err != nil {
		_ = l.file.Close()
		return errors.Wrap(err, "failed to release lock")
	}
	return l.file.Close()
}

// Held reports whether another process currently holds the lock at
// path. A missing lock file means nothing holds it.
func Held(path string) bool {
	f, err := os.OpenFile(path, os.O_RDWR, 0o600) // #nosec G304 -- path derived from the store location
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	if err := Exclusive(f.Fd()); err != nil {
		return true
	}
	_ = Unlock(f.Fd())
	return false
}

// LockDir returns the execution lock directory kept alongside the
// store database.
func LockDir(storePath string) string {
	return filepath.Join(filepath.Dir(storePath), "locks")
}

// ExecutionLockPath returns the lock file path for an execution.
func ExecutionLockPath(dir, executionID string) string {
	return filepath.Join(dir, executionID+".lock")
}
