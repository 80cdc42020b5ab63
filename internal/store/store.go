// Package store implements the relational store holding projects,
// versions, and executions.
//
// The store is a single SQLite database. All mutation goes through
// single-row update operations; the orchestration core performs no
// in-process locking of its own and relies on the database's update
// semantics for concurrent commands against the same execution.
//
// Import rules:
//   - CAN import: internal/constants, internal/domain, internal/errors, std lib, modernc.org/sqlite
//   - MUST NOT import: internal/engine, internal/cli
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Register the pure-Go sqlite driver.
	_ "modernc.org/sqlite"

	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
)

// Directory permission for the store's parent directory.
const dirPerm = 0o750

// Store provides access to the projects, versions, and executions tables.
type Store struct {
	db *sql.DB
}

// Open opens (and creates if needed) the SQLite database at path and
// applies the schema. Foreign keys are enabled on every connection.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: store path", stagehanderrors.ErrEmptyValue)
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, stagehanderrors.Wrap(err, "failed to create store directory")
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, stagehanderrors.Wrap(err, "failed to open store")
	}

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate applies the schema. Statements are idempotent so migrate can
// run on every open.
func (s *Store) migrate(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			path       TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS versions (
			id         TEXT PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id),
			branch     TEXT NOT NULL,
			dev_status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS executions (
			id                   TEXT PRIMARY KEY,
			version_id           TEXT NOT NULL REFERENCES versions(id),
			status               TEXT NOT NULL,
			is_paused            INTEGER NOT NULL DEFAULT 0,
			pre_execution_commit TEXT NOT NULL DEFAULT '',
			commit_strategy      TEXT NOT NULL,
			completed_tasks      INTEGER NOT NULL DEFAULT 0,
			total_tasks          INTEGER NOT NULL DEFAULT 0,
			failed_task_id       TEXT NOT NULL DEFAULT '',
			error_message        TEXT NOT NULL DEFAULT '',
			started_at           TEXT NOT NULL,
			finished_at          TEXT,
			schema_version       INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_versions_project ON versions(project_id)`,
		`CREATE INDEX IF NOT EXISTS idx_executions_version ON executions(version_id)`,
		`CREATE INDEX IF NOT EXISTS idx_executions_status ON executions(status)`,
	}

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return stagehanderrors.Wrap(err, "failed to apply store schema")
		}
	}
	return nil
}

// formatTime renders a timestamp for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses a stored timestamp.
func parseTime(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, stagehanderrors.Wrapf(err, "failed to parse stored timestamp %q", raw)
	}
	return t, nil
}
