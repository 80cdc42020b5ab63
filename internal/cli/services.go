package cli

import (
	"context"

	"github.com/stagehand-sh/stagehand/internal/agent"
	"github.com/stagehand-sh/stagehand/internal/config"
	"github.com/stagehand-sh/stagehand/internal/constants"
	"github.com/stagehand-sh/stagehand/internal/engine"
	"github.com/stagehand-sh/stagehand/internal/flock"
	"github.com/stagehand-sh/stagehand/internal/git"
	"github.com/stagehand-sh/stagehand/internal/recovery"
	"github.com/stagehand-sh/stagehand/internal/statemachine"
	"github.com/stagehand-sh/stagehand/internal/store"
)

// services bundles the wired application dependencies behind one
// open/close pair so every command builds the same stack.
type services struct {
	cfg      *config.Config
	store    *store.Store
	engine   *engine.Engine
	scanner  *recovery.Scanner
	machines *statemachine.Source
}

// openServices loads configuration and wires the store, state
// machines, agent, engine, and recovery scanner. Callers must Close.
func openServices(ctx context.Context) (*services, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	machines, err := statemachine.NewSource(cfg.Machines.Dir,
		constants.MachineDevelopment, constants.MachineExecution)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	logger := GetLogger()
	ag, err := agent.NewCLIAgent(cfg.Agent.Command, cfg.Agent.Args, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	eng := engine.New(st, git.NewClient(), ag, machines, cfg, logger)

	return &services{
		cfg:      cfg,
		store:    st,
		engine:   eng,
		scanner:  recovery.NewScanner(st, eng, flock.LockDir(cfg.Store.Path), logger),
		machines: machines,
	}, nil
}

// Close releases the store connection.
func (s *services) Close() {
	_ = s.store.Close()
}
