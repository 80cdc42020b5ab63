// Package git provides the version-control adapter for stagehand.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
)

// RunCommand runs one git subcommand in workDir and returns trimmed
// stdout. Failures wrap ErrGitOperation and carry trimmed stderr, so
// callers see what git actually complained about.
func RunCommand(ctx context.Context, workDir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...) //#nosec G204 -- args are constructed internally, not user input
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("git %s failed: %s: %w", args[0], msg, stagehanderrors.ErrGitOperation)
		}
		return "", fmt.Errorf("git %s failed: %w", args[0], stagehanderrors.ErrGitOperation)
	}

	return strings.TrimSpace(stdout.String()), nil
}
