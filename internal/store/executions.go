package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/stagehand-sh/stagehand/internal/constants"
	"github.com/stagehand-sh/stagehand/internal/ctxutil"
	"github.com/stagehand-sh/stagehand/internal/domain"
	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
)

const executionColumns = `id, version_id, status, is_paused, pre_execution_commit,
	commit_strategy, completed_tasks, total_tasks, failed_task_id, error_message,
	started_at, finished_at, schema_version`

// CreateExecution inserts a new execution row.
func (s *Store) CreateExecution(ctx context.Context, e *domain.Execution) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if e == nil || e.ID == "" {
		return fmt.Errorf("%w: execution ID", stagehanderrors.ErrEmptyValue)
	}

	var finishedAt any
	if e.FinishedAt != nil {
		finishedAt = formatTime(*e.FinishedAt)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO executions(`+executionColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		e.ID, e.VersionID, string(e.Status), e.IsPaused, e.PreExecutionCommit,
		string(e.CommitStrategy), e.CompletedTasks, e.TotalTasks, e.FailedTaskID,
		e.ErrorMessage, formatTime(e.StartedAt), finishedAt, e.SchemaVersion)
	return stagehanderrors.Wrapf(err, "failed to create execution %s", e.ID)
}

// FindExecution retrieves an execution by identifier.
// Returns a wrapped ErrNotFound when the row is absent.
func (s *Store) FindExecution(ctx context.Context, id string) (*domain.Execution, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+executionColumns+` FROM executions WHERE id=?`, id)
	e, err := scanExecution(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: execution %s", stagehanderrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, stagehanderrors.Wrapf(err, "failed to load execution %s", id)
	}
	return e, nil
}

// FindRunningOrPaused returns all executions whose status is running or
// paused. At startup these are exactly the runs interrupted by an
// ungraceful shutdown, since normal termination always reaches a
// terminal or failed status.
func (s *Store) FindRunningOrPaused(ctx context.Context) ([]*domain.Execution, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+executionColumns+` FROM executions
		 WHERE status IN (?,?) ORDER BY started_at ASC`,
		string(constants.ExecutionStatusRunning), string(constants.ExecutionStatusPaused))
	if err != nil {
		return nil, stagehanderrors.Wrap(err, "failed to list stale executions")
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Execution
	for rows.Next() {
		e, err := scanExecution(rows)
		if err != nil {
			return nil, stagehanderrors.Wrap(err, "failed to scan execution")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListExecutionsByVersion returns a version's executions, newest first.
func (s *Store) ListExecutionsByVersion(ctx context.Context, versionID string) ([]*domain.Execution, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+executionColumns+` FROM executions
		 WHERE version_id=? ORDER BY started_at DESC`, versionID)
	if err != nil {
		return nil, stagehanderrors.Wrapf(err, "failed to list executions for version %s", versionID)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Execution
	for rows.Next() {
		e, err := scanExecution(rows)
		if err != nil {
			return nil, stagehanderrors.Wrap(err, "failed to scan execution")
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// SetPaused performs the single-row is_paused update.
func (s *Store) SetPaused(ctx context.Context, id string, paused bool) error {
	return s.updateExecutionRow(ctx, id,
		`UPDATE executions SET is_paused=? WHERE id=?`, paused, id)
}

// UpdateExecutionStatus performs the single-row status update.
func (s *Store) UpdateExecutionStatus(ctx context.Context, id string, status constants.ExecutionStatus) error {
	return s.updateExecutionRow(ctx, id,
		`UPDATE executions SET status=? WHERE id=?`, string(status), id)
}

// UpdateProgress persists the completed/total task counts.
func (s *Store) UpdateProgress(ctx context.Context, id string, completed, total int) error {
	return s.updateExecutionRow(ctx, id,
		`UPDATE executions SET completed_tasks=?, total_tasks=? WHERE id=?`,
		completed, total, id)
}

// SetFailure records the failing task and error message, and moves the
// execution to the failed status.
func (s *Store) SetFailure(ctx context.Context, id, taskID, message string) error {
	return s.updateExecutionRow(ctx, id,
		`UPDATE executions SET status=?, failed_task_id=?, error_message=? WHERE id=?`,
		string(constants.ExecutionStatusFailed), taskID, message, id)
}

// ClearFailure resets the failure fields when the operator retries or
// skips the failing task.
func (s *Store) ClearFailure(ctx context.Context, id string) error {
	return s.updateExecutionRow(ctx, id,
		`UPDATE executions SET failed_task_id='', error_message='' WHERE id=?`, id)
}

// CompleteExecution moves the execution to a terminal status, clears
// the pause flag, and stamps the finish time.
func (s *Store) CompleteExecution(ctx context.Context, id string, status constants.ExecutionStatus, finishedAt time.Time) error {
	return s.updateExecutionRow(ctx, id,
		`UPDATE executions SET status=?, is_paused=0, finished_at=? WHERE id=?`,
		string(status), formatTime(finishedAt), id)
}

// updateExecutionRow runs a single-row update and maps zero affected
// rows to ErrNotFound.
func (s *Store) updateExecutionRow(ctx context.Context, id, query string, args ...any) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return stagehanderrors.Wrapf(err, "failed to update execution %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: execution %s", stagehanderrors.ErrNotFound, id)
	}
	return nil
}

// scanExecution scans one execution row.
func scanExecution(row rowScanner) (*domain.Execution, error) {
	var (
		e          domain.Execution
		status     string
		strategy   string
		startedAt  string
		finishedAt sql.NullString
	)
	if err := row.Scan(&e.ID, &e.VersionID, &status, &e.IsPaused, &e.PreExecutionCommit,
		&strategy, &e.CompletedTasks, &e.TotalTasks, &e.FailedTaskID, &e.ErrorMessage,
		&startedAt, &finishedAt, &e.SchemaVersion); err != nil {
		return nil, err
	}
	e.Status = constants.ExecutionStatus(status)
	e.CommitStrategy = constants.CommitStrategy(strategy)

	var err error
	if e.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		t, err := parseTime(finishedAt.String)
		if err != nil {
			return nil, err
		}
		e.FinishedAt = &t
	}
	return &e, nil
}
