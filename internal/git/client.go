// Package git provides the version-control adapter for stagehand.
// This file implements the Client the orchestrator uses for the
// specific reset/commit calls it issues. Clone, push, and branch
// management live outside the orchestration core.
package git

import (
	"context"
	"fmt"

	"github.com/stagehand-sh/stagehand/internal/ctxutil"
	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
)

// Client wraps the git CLI for the orchestrator's checkpoint operations.
type Client struct{}

// NewClient creates a git client.
func NewClient() *Client {
	return &Client{}
}

// IsRepo reports whether path is inside a git working tree.
func (c *Client) IsRepo(ctx context.Context, path string) bool {
	if path == "" {
		return false
	}
	out, err := RunCommand(ctx, path, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Head returns the current HEAD commit hash for the repository at path.
// This is the pre-execution checkpoint captured before the task loop starts.
func (c *Client) Head(ctx context.Context, path string) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	out, err := RunCommand(ctx, path, "rev-parse", "HEAD")
	if err != nil {
		return "", stagehanderrors.Wrap(err, "failed to resolve HEAD")
	}
	return out, nil
}

// ResetHard hard-resets the working tree at path to the given commit
// reference. Used by abort to roll back to the pre-execution checkpoint.
func (c *Client) ResetHard(ctx context.Context, path, ref string) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if ref == "" {
		return fmt.Errorf("%w: reset reference", stagehanderrors.ErrEmptyValue)
	}

	if _, err := RunCommand(ctx, path, "reset", "--hard", ref); err != nil {
		return stagehanderrors.Wrapf(err, "failed to reset to %s", ref)
	}
	return nil
}

// CommitAll stages all changes and commits them with the given message.
// Returns the new commit hash, or empty string when the working tree
// had nothing to commit.
func (c *Client) CommitAll(ctx context.Context, path, message string) (string, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return "", err
	}

	if _, err := RunCommand(ctx, path, "add", "-A"); err != nil {
		return "", stagehanderrors.Wrap(err, "failed to stage changes")
	}

	status, err := RunCommand(ctx, path, "status", "--porcelain")
	if err != nil {
		return "", stagehanderrors.Wrap(err, "failed to check status")
	}
	if status == "" {
		// Nothing to commit; checkpoint is a no-op.
		return "", nil
	}

	if _, err := RunCommand(ctx, path, "commit", "-m", message); err != nil {
		return "", stagehanderrors.Wrap(err, "failed to commit")
	}
	return c.Head(ctx, path)
}
