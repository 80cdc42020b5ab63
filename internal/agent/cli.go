package agent

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/stagehand-sh/stagehand/internal/ctxutil"
	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
)

// CLIAgent implements Agent by executing a configured agent command per
// task. The task description is appended as the final command argument;
// the task identifier and execution identifier are exported in the
// environment.
type CLIAgent struct {
	command string
	args    []string
	logger  zerolog.Logger

	mu      sync.Mutex
	running map[string]*exec.Cmd // executionID -> in-flight process
}

// NewCLIAgent creates a CLI-backed agent. command is the agent binary;
// args are passed verbatim before the task description argument.
func NewCLIAgent(command string, args []string, logger zerolog.Logger) (*CLIAgent, error) {
	if command == "" {
		return nil, fmt.Errorf("%w: agent command", stagehanderrors.ErrEmptyValue)
	}
	return &CLIAgent{
		command: command,
		args:    args,
		logger:  logger,
		running: make(map[string]*exec.Cmd),
	}, nil
}

// Dispatch runs the agent command for one task and waits for it to
// finish. The caller bounds the call with a per-task timeout context;
// a deadline hit surfaces as a wrapped ErrTaskTimeout.
func (a *CLIAgent) Dispatch(ctx context.Context, req Request) (*Outcome, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	if req.TaskID == "" {
		return nil, fmt.Errorf("%w: task ID", stagehanderrors.ErrEmptyValue)
	}

	args := append(append([]string{}, a.args...), req.Description)
	cmd := exec.CommandContext(ctx, a.command, args...) //#nosec G204 -- command comes from validated configuration
	cmd.Dir = req.WorkDir
	cmd.Env = append(cmd.Environ(),
		"STAGEHAND_EXECUTION_ID="+req.ExecutionID,
		"STAGEHAND_TASK_ID="+req.TaskID,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	a.logger.Debug().
		Str("task_id", req.TaskID).
		Str("execution_id", req.ExecutionID).
		Str("command", a.command).
		Msg("dispatching task to coding agent")

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", stagehanderrors.ErrAgentInvocation, err)
	}
	a.track(req.ExecutionID, cmd)
	err := cmd.Wait()
	a.untrack(req.ExecutionID)
	duration := time.Since(start)

	outcome := &Outcome{
		Output:   stdout.String(),
		Duration: duration,
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: task %s after %s", stagehanderrors.ErrTaskTimeout, req.TaskID, duration.Round(time.Second))
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		outcome.Success = false
		outcome.ErrorMessage = dispatchErrorMessage(err, stderr.String())
		return outcome, nil
	}

	outcome.Success = true
	return outcome, nil
}

// Abort requests the in-flight agent process for the given execution to
// stop. Best-effort: a missing or already-exited process is not an error.
func (a *CLIAgent) Abort(_ context.Context, executionID string) error {
	a.mu.Lock()
	cmd, ok := a.running[executionID]
	a.mu.Unlock()
	if !ok || cmd.Process == nil {
		return nil
	}

	a.logger.Debug().
		Str("execution_id", executionID).
		Msg("stopping coding agent process")

	if err := cmd.Process.Kill(); err != nil {
		return fmt.Errorf("%w: %w", stagehanderrors.ErrAgentInvocation, err)
	}
	return nil
}

// track records the in-flight process for an execution.
func (a *CLIAgent) track(executionID string, cmd *exec.Cmd) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.running[executionID] = cmd
}

// untrack forgets the in-flight process for an execution.
func (a *CLIAgent) untrack(executionID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.running, executionID)
}

// dispatchErrorMessage combines the exit error with trimmed stderr.
func dispatchErrorMessage(err error, stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return err.Error()
	}
	return fmt.Sprintf("%s: %s", err.Error(), stderr)
}

// Ensure CLIAgent implements Agent.
var _ Agent = (*CLIAgent)(nil)
