// Package recovery detects and resolves stale executions.
//
// An execution left in running or paused status with no live process
// behind it is stale: the orchestrator process died or was killed
// before reaching a boundary. Liveness is probed through the engine's
// per-execution lock file. Because every state change is persisted
// before the next task dispatch, the rows plus the task document are
// enough to either continue the run or abort it cleanly.
//
// Import rules:
//   - CAN import: internal/constants, internal/domain, internal/errors,
//     internal/flock, internal/store (via interface), std lib
//   - MUST NOT import: internal/cli
package recovery

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/stagehand-sh/stagehand/internal/constants"
	"github.com/stagehand-sh/stagehand/internal/ctxutil"
	"github.com/stagehand-sh/stagehand/internal/domain"
	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
	"github.com/stagehand-sh/stagehand/internal/flock"
)

// Resolution is the operator's decision for one stale execution.
type Resolution string

// Stale-execution resolutions.
const (
	// ResolutionResume continues the run from the last persisted boundary.
	ResolutionResume Resolution = "resume"

	// ResolutionAbort terminates the run and resets the working tree.
	ResolutionAbort Resolution = "abort"
)

// Store is the persistence surface the scanner depends on.
type Store interface {
	FindRunningOrPaused(ctx context.Context) ([]*domain.Execution, error)
	FindExecution(ctx context.Context, id string) (*domain.Execution, error)
	FindVersion(ctx context.Context, id string) (*domain.Version, error)
	FindProject(ctx context.Context, id string) (*domain.Project, error)
	SetPaused(ctx context.Context, id string, paused bool) error
}

// Orchestrator is the engine surface used to resolve stale executions.
type Orchestrator interface {
	Resume(ctx context.Context, executionID string) error
	Abort(ctx context.Context, executionID string) (*domain.AbortResult, error)
}

// StaleExecution is one interrupted run enriched with its owners for
// operator display.
type StaleExecution struct {
	Execution *domain.Execution `json:"execution"`
	Version   *domain.Version   `json:"version"`
	Project   *domain.Project   `json:"project"`
}

// Scanner detects stale executions at startup and resolves them on the
// operator's decision.
type Scanner struct {
	store   Store
	engine  Orchestrator
	lockDir string
	logger  zerolog.Logger
}

// NewScanner creates a stale-execution scanner. lockDir is the
// execution lock directory the engine writes loop locks into.
func NewScanner(store Store, engine Orchestrator, lockDir string, logger zerolog.Logger) *Scanner {
	return &Scanner{
		store:   store,
		engine:  engine,
		lockDir: lockDir,
		logger:  logger,
	}
}

// Scan returns all stale executions, oldest first, each enriched with
// its version and project. Rows whose loop lock is still held belong
// to a live process and are not stale. Enrichment lookups run
// concurrently.
func (s *Scanner) Scan(ctx context.Context) ([]*StaleExecution, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	executions, err := s.store.FindRunningOrPaused(ctx)
	if err != nil {
		return nil, err
	}
	if len(executions) == 0 {
		return nil, nil
	}

	var (
		mu    sync.Mutex
		stale []*StaleExecution
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, exec := range executions {
		exec := exec
		if flock.Held(flock.ExecutionLockPath(s.lockDir, exec.ID)) {
			s.logger.Debug().
				Str("execution_id", exec.ID).
				Msg("execution lock held, run is live")
			continue
		}
		g.Go(func() error {
			version, err := s.store.FindVersion(gctx, exec.VersionID)
			if err != nil {
				return err
			}
			project, err := s.store.FindProject(gctx, version.ProjectID)
			if err != nil {
				return err
			}

			mu.Lock()
			stale = append(stale, &StaleExecution{
				Execution: exec,
				Version:   version,
				Project:   project,
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(stale, func(i, j int) bool {
		return stale[i].Execution.StartedAt.Before(stale[j].Execution.StartedAt)
	})

	s.logger.Info().
		Int("count", len(stale)).
		Msg("stale executions detected")
	return stale, nil
}

// Resolve applies the operator's decision to one stale execution.
//
// Resume continues from the last persisted task boundary. A stale row
// still marked running gets its pause flag raised first, so the resume
// path sees a normally paused execution; a task that was in flight when
// the process died stays in_progress and needs an explicit retry or
// skip after the loop halts on it.
func (s *Scanner) Resolve(ctx context.Context, executionID string, resolution Resolution) error {
	if err := ctxutil.Canceled(ctx); err != nil {
		return err
	}

	exec, err := s.store.FindExecution(ctx, executionID)
	if err != nil {
		return err
	}
	if !constants.IsStaleCandidateStatus(exec.Status) {
		return fmt.Errorf("%w: execution %s is %s, not stale",
			stagehanderrors.ErrValidation, exec.ID, exec.Status)
	}
	if flock.Held(flock.ExecutionLockPath(s.lockDir, exec.ID)) {
		return fmt.Errorf("%w: %s", stagehanderrors.ErrExecutionLocked, exec.ID)
	}

	s.logger.Info().
		Str("execution_id", exec.ID).
		Str("resolution", string(resolution)).
		Msg("resolving stale execution")

	switch resolution {
	case ResolutionResume:
		if !exec.PauseRequested() {
			if err := s.store.SetPaused(ctx, exec.ID, true); err != nil {
				return err
			}
		}
		return s.engine.Resume(ctx, exec.ID)

	case ResolutionAbort:
		_, err := s.engine.Abort(ctx, exec.ID)
		return err

	default:
		return fmt.Errorf("%w: unknown resolution %q", stagehanderrors.ErrValidation, resolution)
	}
}
