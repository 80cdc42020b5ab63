//go:build unix

package flock_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehand-sh/stagehand/internal/flock"
)

func TestAcquire(t *testing.T) {
	t.Parallel()

	t.Run("creates the lock directory and file", func(t *testing.T) {
		t.Parallel()
		path := flock.ExecutionLockPath(filepath.Join(t.TempDir(), "locks"), "exec-1")

		lock, err := flock.Acquire(path)
		require.NoError(t, err)
		require.NoError(t, lock.Release())
	})

	t.Run("fails while the lock is held", func(t *testing.T) {
		t.Parallel()
		path := flock.ExecutionLockPath(t.TempDir(), "exec-1")

		lock, err := flock.Acquire(path)
		require.NoError(t, err)
		defer func() { require.NoError(t, lock.Release()) }()

		_, err = flock.Acquire(path)
		require.Error(t, err)
	})

	t.Run("reacquires after release", func(t *testing.T) {
		t.Parallel()
		path := flock.ExecutionLockPath(t.TempDir(), "exec-1")

		first, err := flock.Acquire(path)
		require.NoError(t, err)
		require.NoError(t, first.Release())

		second, err := flock.Acquire(path)
		require.NoError(t, err)
		require.NoError(t, second.Release())
	})
}

func TestHeld(t *testing.T) {
	t.Parallel()

	t.Run("false for a missing lock file", func(t *testing.T) {
		t.Parallel()
		assert.False(t, flock.Held(flock.ExecutionLockPath(t.TempDir(), "exec-1")))
	})

	t.Run("true while the lock is held", func(t *testing.T) {
		t.Parallel()
		path := flock.ExecutionLockPath(t.TempDir(), "exec-1")

		lock, err := flock.Acquire(path)
		require.NoError(t, err)
		defer func() { require.NoError(t, lock.Release()) }()

		assert.True(t, flock.Held(path))
	})

	t.Run("false after release", func(t *testing.T) {
		t.Parallel()
		path := flock.ExecutionLockPath(t.TempDir(), "exec-1")

		lock, err := flock.Acquire(path)
		require.NoError(t, err)
		require.NoError(t, lock.Release())

		assert.False(t, flock.Held(path))
	})
}

func TestLockDir(t *testing.T) {
	t.Parallel()

	dir := flock.LockDir("/home/u/.stagehand/stagehand.db")
	assert.Equal(t, filepath.Join("/home/u/.stagehand", "locks"), dir)
}
