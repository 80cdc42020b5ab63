package agent

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
)

func TestNewCLIAgent_EmptyCommand(t *testing.T) {
	_, err := NewCLIAgent("", nil, zerolog.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, stagehanderrors.ErrEmptyValue)
}

func TestCLIAgent_DispatchSuccess(t *testing.T) {
	a, err := NewCLIAgent("sh", []string{"-c", "echo done #"}, zerolog.Nop())
	require.NoError(t, err)

	outcome, err := a.Dispatch(context.Background(), Request{
		ExecutionID: "exec-1",
		TaskID:      "t1",
		Description: "write code",
		WorkDir:     t.TempDir(),
	})
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Contains(t, outcome.Output, "done")
}

func TestCLIAgent_DispatchFailure(t *testing.T) {
	a, err := NewCLIAgent("sh", []string{"-c", "echo broken >&2; exit 3 #"}, zerolog.Nop())
	require.NoError(t, err)

	outcome, err := a.Dispatch(context.Background(), Request{
		ExecutionID: "exec-1",
		TaskID:      "t1",
		Description: "write code",
		WorkDir:     t.TempDir(),
	})
	require.NoError(t, err, "a task failure is an outcome, not a dispatch error")
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.ErrorMessage, "broken")
}

func TestCLIAgent_DispatchTimeout(t *testing.T) {
	a, err := NewCLIAgent("sleep", []string{"5"}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = a.Dispatch(ctx, Request{
		ExecutionID: "exec-1",
		TaskID:      "t1",
		WorkDir:     t.TempDir(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, stagehanderrors.ErrTaskTimeout)
}

func TestCLIAgent_DispatchEmptyTaskID(t *testing.T) {
	a, err := NewCLIAgent("sh", nil, zerolog.Nop())
	require.NoError(t, err)

	_, err = a.Dispatch(context.Background(), Request{ExecutionID: "exec-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, stagehanderrors.ErrEmptyValue)
}

func TestCLIAgent_AbortNoProcessIsNoop(t *testing.T) {
	a, err := NewCLIAgent("sh", nil, zerolog.Nop())
	require.NoError(t, err)

	assert.NoError(t, a.Abort(context.Background(), "nothing-running"))
}
