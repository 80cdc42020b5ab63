package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTestRepo creates a git repository with one initial commit and
// returns its path. Tests are skipped when git is unavailable.
func initTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	ctx := context.Background()

	for _, args := range [][]string{
		{"init"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "Test"},
	} {
		_, err := RunCommand(ctx, dir, args...)
		require.NoError(t, err)
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644))
	_, err := RunCommand(ctx, dir, "add", "-A")
	require.NoError(t, err)
	_, err = RunCommand(ctx, dir, "commit", "-m", "initial")
	require.NoError(t, err)

	return dir
}

func TestIsRepo(t *testing.T) {
	c := NewClient()
	ctx := context.Background()

	repo := initTestRepo(t)
	assert.True(t, c.IsRepo(ctx, repo))
	assert.False(t, c.IsRepo(ctx, t.TempDir()))
	assert.False(t, c.IsRepo(ctx, ""))
}

func TestHeadAndCommitAll(t *testing.T) {
	c := NewClient()
	ctx := context.Background()
	repo := initTestRepo(t)

	head, err := c.Head(ctx, repo)
	require.NoError(t, err)
	require.NotEmpty(t, head)

	// Nothing to commit: no-op returns empty hash.
	hash, err := c.CommitAll(ctx, repo, "empty checkpoint")
	require.NoError(t, err)
	assert.Empty(t, hash)

	// New file creates a new commit.
	require.NoError(t, os.WriteFile(filepath.Join(repo, "task.txt"), []byte("done\n"), 0o644))
	hash, err = c.CommitAll(ctx, repo, "task checkpoint")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, head, hash)
}

func TestResetHard(t *testing.T) {
	c := NewClient()
	ctx := context.Background()
	repo := initTestRepo(t)

	base, err := c.Head(ctx, repo)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(repo, "scratch.txt"), []byte("x\n"), 0o644))
	_, err = c.CommitAll(ctx, repo, "scratch")
	require.NoError(t, err)

	require.NoError(t, c.ResetHard(ctx, repo, base))

	head, err := c.Head(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, base, head)
	assert.NoFileExists(t, filepath.Join(repo, "scratch.txt"))

	err = c.ResetHard(ctx, repo, "")
	require.Error(t, err)
}
