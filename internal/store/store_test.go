package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehand-sh/stagehand/internal/constants"
	"github.com/stagehand-sh/stagehand/internal/domain"
	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
)

// openTestStore opens a store backed by a temp file and registers cleanup.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), constants.StoreFileName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// seedProjectVersion inserts a project and a version and returns them.
func seedProjectVersion(t *testing.T, s *Store) (*domain.Project, *domain.Version) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	p := &domain.Project{
		ID:        uuid.NewString(),
		Name:      "checkout-service",
		Path:      "/tmp/checkout-service",
		CreatedAt: now,
	}
	require.NoError(t, s.CreateProject(ctx, p))

	v := &domain.Version{
		ID:        uuid.NewString(),
		ProjectID: p.ID,
		Branch:    "version/1",
		DevStatus: constants.VersionStatusReady,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateVersion(ctx, v))
	return p, v
}

// newExecution builds an execution row for the given version.
func newExecution(versionID string, status constants.ExecutionStatus) *domain.Execution {
	return &domain.Execution{
		ID:             uuid.NewString(),
		VersionID:      versionID,
		Status:         status,
		CommitStrategy: constants.CommitStrategyEachTask,
		StartedAt:      time.Now().UTC(),
		SchemaVersion:  constants.ExecutionSchemaVersion,
	}
}

func TestProjectCRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p, _ := seedProjectVersion(t, s)

	got, err := s.FindProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Path, got.Path)

	all, err := s.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = s.FindProject(ctx, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, stagehanderrors.ErrNotFound)
}

func TestVersionStatusUpdate(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, v := seedProjectVersion(t, s)

	now := time.Now().UTC().Add(time.Minute)
	require.NoError(t, s.UpdateVersionStatus(ctx, v.ID, constants.VersionStatusExecuting, now))

	got, err := s.FindVersion(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.VersionStatusExecuting, got.DevStatus)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	err = s.UpdateVersionStatus(ctx, "missing", constants.VersionStatusReady, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, stagehanderrors.ErrNotFound)
}

func TestExecutionLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, v := seedProjectVersion(t, s)
	e := newExecution(v.ID, constants.ExecutionStatusRunning)
	e.PreExecutionCommit = "abc123"
	e.TotalTasks = 4
	require.NoError(t, s.CreateExecution(ctx, e))

	// Progress update.
	require.NoError(t, s.UpdateProgress(ctx, e.ID, 2, 4))

	// Pause flag is a single-row update decoupled from status.
	require.NoError(t, s.SetPaused(ctx, e.ID, true))
	got, err := s.FindExecution(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPaused)
	assert.Equal(t, constants.ExecutionStatusRunning, got.Status)
	assert.True(t, got.PauseRequested())
	assert.Equal(t, 2, got.CompletedTasks)
	assert.Equal(t, "abc123", got.PreExecutionCommit)

	// Failure records the task and message.
	require.NoError(t, s.SetFailure(ctx, e.ID, "t3", "agent exited with code 1"))
	got, err = s.FindExecution(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ExecutionStatusFailed, got.Status)
	assert.Equal(t, "t3", got.FailedTaskID)

	require.NoError(t, s.ClearFailure(ctx, e.ID))
	got, err = s.FindExecution(ctx, e.ID)
	require.NoError(t, err)
	assert.Empty(t, got.FailedTaskID)

	// Terminal completion clears the pause flag and stamps finish time.
	finished := time.Now().UTC()
	require.NoError(t, s.CompleteExecution(ctx, e.ID, constants.ExecutionStatusAborted, finished))
	got, err = s.FindExecution(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.ExecutionStatusAborted, got.Status)
	assert.False(t, got.IsPaused)
	require.NotNil(t, got.FinishedAt)
	assert.True(t, got.IsTerminal())
}

// TestFindRunningOrPaused mirrors the stale-recovery scenario: two
// executions in running and paused, one completed; exactly the first
// two are returned.
func TestFindRunningOrPaused(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, v := seedProjectVersion(t, s)

	running := newExecution(v.ID, constants.ExecutionStatusRunning)
	paused := newExecution(v.ID, constants.ExecutionStatusPaused)
	completed := newExecution(v.ID, constants.ExecutionStatusCompleted)
	for _, e := range []*domain.Execution{running, paused, completed} {
		require.NoError(t, s.CreateExecution(ctx, e))
	}

	stale, err := s.FindRunningOrPaused(ctx)
	require.NoError(t, err)
	require.Len(t, stale, 2)

	ids := []string{stale[0].ID, stale[1].ID}
	assert.ElementsMatch(t, []string{running.ID, paused.ID}, ids)
}

func TestExecutionNotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.FindExecution(ctx, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, stagehanderrors.ErrNotFound)

	err = s.SetPaused(ctx, "missing", true)
	require.Error(t, err)
	assert.ErrorIs(t, err, stagehanderrors.ErrNotFound)
}

func TestListExecutionsByVersion(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, v := seedProjectVersion(t, s)
	first := newExecution(v.ID, constants.ExecutionStatusAborted)
	first.StartedAt = time.Now().UTC().Add(-time.Hour)
	second := newExecution(v.ID, constants.ExecutionStatusRunning)
	require.NoError(t, s.CreateExecution(ctx, first))
	require.NoError(t, s.CreateExecution(ctx, second))

	got, err := s.ListExecutionsByVersion(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID, "newest first")
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
	assert.ErrorIs(t, err, stagehanderrors.ErrEmptyValue)
}
