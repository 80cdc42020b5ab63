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

// CreateVersion inserts a new version row.
func (s *Store) CreateVersion(ctx context.Context, v *domain.Version) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if v == nil || v.ID == "" {
		return fmt.Errorf("%w: version ID", stagehanderrors.ErrEmptyValue)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO versions(id, project_id, branch, dev_status, created_at, updated_at)
		 VALUES (?,?,?,?,?,?)`,
		v.ID, v.ProjectID, v.Branch, string(v.DevStatus),
		formatTime(v.CreatedAt), formatTime(v.UpdatedAt))
	return stagehanderrors.Wrapf(err, "failed to create version %s", v.ID)
}

// FindVersion retrieves a version by identifier.
// Returns a wrapped ErrNotFound when the row is absent.
func (s *Store) FindVersion(ctx context.Context, id string) (*domain.Version, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, project_id, branch, dev_status, created_at, updated_at
		 FROM versions WHERE id=?`, id)
	v, err := scanVersion(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: version %s", stagehanderrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, stagehanderrors.Wrapf(err, "failed to load version %s", id)
	}
	return v, nil
}

// UpdateVersionStatus performs the single-row dev-status update for a
// version. Callers are expected to have run the transition through the
// state machine first; the direct write path exists for the abort
// recovery fallback.
func (s *Store) UpdateVersionStatus(ctx context.Context, id string, status constants.VersionStatus, now time.Time) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE versions SET dev_status=?, updated_at=? WHERE id=?`,
		string(status), formatTime(now), id)
	if err != nil {
		return stagehanderrors.Wrapf(err, "failed to update version %s", id)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: version %s", stagehanderrors.ErrNotFound, id)
	}
	return nil
}

// ListVersionsByProject returns a project's versions, newest first.
func (s *Store) ListVersionsByProject(ctx context.Context, projectID string) ([]*domain.Version, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, branch, dev_status, created_at, updated_at
		 FROM versions WHERE project_id=? ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, stagehanderrors.Wrapf(err, "failed to list versions for project %s", projectID)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, stagehanderrors.Wrap(err, "failed to scan version")
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanVersion scans one version row.
func scanVersion(row rowScanner) (*domain.Version, error) {
	var (
		v                    domain.Version
		status               string
		createdAt, updatedAt string
	)
	if err := row.Scan(&v.ID, &v.ProjectID, &v.Branch, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	v.DevStatus = constants.VersionStatus(status)

	var err error
	if v.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if v.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}
