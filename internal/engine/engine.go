// Package engine provides the execution orchestrator for stagehand.
//
// The engine drives the automated task-execution phase of a version: it
// re-reads the task document before every decision, asks the plan
// calculator which task runs next, dispatches the task to the coding
// agent, and persists every state change through the store before
// moving on. Pause, resume, abort, retry, and skip are all task-boundary
// operations; a task in flight is always allowed to finish or time out.
//
// Import rules:
//   - CAN import: internal/agent, internal/clock, internal/config,
//     internal/constants, internal/domain, internal/errors, internal/flock,
//     internal/git, internal/plan, internal/statemachine, internal/store,
//     internal/todo
//   - MUST NOT import: internal/cli
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/stagehand-sh/stagehand/internal/agent"
	"github.com/stagehand-sh/stagehand/internal/clock"
	"github.com/stagehand-sh/stagehand/internal/config"
	"github.com/stagehand-sh/stagehand/internal/constants"
	"github.com/stagehand-sh/stagehand/internal/domain"
	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
	"github.com/stagehand-sh/stagehand/internal/flock"
	"github.com/stagehand-sh/stagehand/internal/statemachine"
)

// Store is the persistence surface the engine depends on. The sqlite
// store satisfies it; tests may substitute their own.
type Store interface {
	FindProject(ctx context.Context, id string) (*domain.Project, error)
	FindVersion(ctx context.Context, id string) (*domain.Version, error)
	UpdateVersionStatus(ctx context.Context, id string, status constants.VersionStatus, now time.Time) error

	CreateExecution(ctx context.Context, e *domain.Execution) error
	FindExecution(ctx context.Context, id string) (*domain.Execution, error)
	ListExecutionsByVersion(ctx context.Context, versionID string) ([]*domain.Execution, error)
	SetPaused(ctx context.Context, id string, paused bool) error
	UpdateExecutionStatus(ctx context.Context, id string, status constants.ExecutionStatus) error
	UpdateProgress(ctx context.Context, id string, completed, total int) error
	SetFailure(ctx context.Context, id, taskID, message string) error
	ClearFailure(ctx context.Context, id string) error
	CompleteExecution(ctx context.Context, id string, status constants.ExecutionStatus, finishedAt time.Time) error
}

// GitClient is the version-control surface the engine depends on.
type GitClient interface {
	IsRepo(ctx context.Context, path string) bool
	Head(ctx context.Context, path string) (string, error)
	ResetHard(ctx context.Context, path, ref string) error
	CommitAll(ctx context.Context, path, message string) (string, error)
}

// Engine orchestrates task execution for versions. All state changes go
// through the store and the task document; the engine itself keeps no
// durable state, so a crashed process leaves behind exactly the rows
// the recovery scanner looks for.
type Engine struct {
	store    Store
	git      GitClient
	agent    agent.Agent
	machines *statemachine.Source
	cfg      *config.Config
	clock    clock.Clock
	logger   zerolog.Logger

	mu       sync.Mutex
	attempts map[string]int // executionID/taskID -> operator retry count
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock substitutes the time source. Tests use clock.Mock.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// New creates an execution engine with the given dependencies.
func New(store Store, gitClient GitClient, ag agent.Agent, machines *statemachine.Source, cfg *config.Config, logger zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		git:      gitClient,
		agent:    ag,
		machines: machines,
		cfg:      cfg,
		clock:    clock.RealClock{},
		logger:   logger,
		attempts: make(map[string]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// transitionVersion fires event on the development machine and persists
// the resulting status. The version struct is updated in place.
func (e *Engine) transitionVersion(ctx context.Context, v *domain.Version, event string) error {
	m, err := e.machines.Machine(constants.MachineDevelopment)
	if err != nil {
		return err
	}
	next, err := m.Transition(string(v.DevStatus), event)
	if err != nil {
		return err
	}
	now := e.clock.Now().UTC()
	if err := e.store.UpdateVersionStatus(ctx, v.ID, constants.VersionStatus(next), now); err != nil {
		return err
	}

	e.logger.Debug().
		Str("version_id", v.ID).
		Str("event", event).
		Str("from", string(v.DevStatus)).
		Str("to", next).
		Msg("version transition")

	v.DevStatus = constants.VersionStatus(next)
	v.UpdatedAt = now
	return nil
}

// transitionExecution fires event on the execution machine and persists
// the resulting status. The execution struct is updated in place.
func (e *Engine) transitionExecution(ctx context.Context, exec *domain.Execution, event string) error {
	m, err := e.machines.Machine(constants.MachineExecution)
	if err != nil {
		return err
	}
	next, err := m.Transition(string(exec.Status), event)
	if err != nil {
		return err
	}
	if err := e.store.UpdateExecutionStatus(ctx, exec.ID, constants.ExecutionStatus(next)); err != nil {
		return err
	}

	e.logger.Debug().
		Str("execution_id", exec.ID).
		Str("event", event).
		Str("from", string(exec.Status)).
		Str("to", next).
		Msg("execution transition")

	exec.Status = constants.ExecutionStatus(next)
	return nil
}

// retryAttempts returns the operator retry count for a task, after
// incrementing it.
func (e *Engine) retryAttempts(executionID, taskID string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	key := executionID + "/" + taskID
	e.attempts[key]++
	return e.attempts[key]
}

// lockPath returns the task-loop lock file for an execution, kept
// alongside the store database.
func (e *Engine) lockPath(executionID string) string {
	return flock.ExecutionLockPath(flock.LockDir(e.cfg.Store.Path), executionID)
}

// lockAndRun holds the execution's loop lock for the duration of fn.
// The lock keeps two processes out of the same execution; the stale
// scanner probes it to tell dead runs from live ones.
func (e *Engine) lockAndRun(exec *domain.Execution, fn func() error) error {
	lock, err := flock.Acquire(e.lockPath(exec.ID))
	if err != nil {
		return fmt.Errorf("%w: %s", stagehanderrors.ErrExecutionLocked, exec.ID)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			e.logger.Warn().Err(err).
				Str("execution_id", exec.ID).
				Msg("failed to release execution lock")
		}
	}()
	return fn()
}
