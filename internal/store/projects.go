package store

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/stagehand-sh/stagehand/internal/ctxutil"
	"github.com/stagehand-sh/stagehand/internal/domain"
	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
)

// CreateProject inserts a new project row.
func (s *Store) CreateProject(ctx context.Context, p *domain.Project) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}
	if p == nil || p.ID == "" {
		return fmt.Errorf("%w: project ID", stagehanderrors.ErrEmptyValue)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects(id, name, path, created_at) VALUES (?,?,?,?)`,
		p.ID, p.Name, p.Path, formatTime(p.CreatedAt))
	return stagehanderrors.Wrapf(err, "failed to create project %s", p.ID)
}

// FindProject retrieves a project by identifier.
// Returns a wrapped ErrNotFound when the row is absent.
func (s *Store) FindProject(ctx context.Context, id string) (*domain.Project, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	var (
		p         domain.Project
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, path, created_at FROM projects WHERE id=?`, id).
		Scan(&p.ID, &p.Name, &p.Path, &createdAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: project %s", stagehanderrors.ErrNotFound, id)
	}
	if err != nil {
		return nil, stagehanderrors.Wrapf(err, "failed to load project %s", id)
	}

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProjects returns all projects ordered by name.
func (s *Store) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, path, created_at FROM projects ORDER BY name ASC`)
	if err != nil {
		return nil, stagehanderrors.Wrap(err, "failed to list projects")
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Project
	for rows.Next() {
		var (
			p         domain.Project
			createdAt string
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Path, &createdAt); err != nil {
			return nil, stagehanderrors.Wrap(err, "failed to scan project")
		}
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
