package statemachine

import (
	"fmt"
	"path/filepath"

	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
)

// Source loads machine configurations from a directory once at startup
// and caches the compiled machines. Two independent lifecycles
// (development flow, runtime flow) share one evaluator driven by
// different configurations, keeping the transition tables externally
// auditable and changeable without touching orchestration code.
type Source struct {
	machines map[string]*Machine
}

// NewSource loads and compiles "<dir>/<name>.yaml" for each requested
// machine name. Any missing or invalid file fails the whole load;
// callers treat this as a fatal startup condition.
func NewSource(dir string, names ...string) (*Source, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: state machine directory", stagehanderrors.ErrEmptyValue)
	}

	machines := make(map[string]*Machine, len(names))
	for _, name := range names {
		m, err := LoadMachine(filepath.Join(dir, name+".yaml"))
		if err != nil {
			return nil, err
		}
		if m.Name() != name {
			return nil, fmt.Errorf("%w: file %s.yaml declares machine %q",
				stagehanderrors.ErrMachineInvalid, name, m.Name())
		}
		machines[name] = m
	}

	return &Source{machines: machines}, nil
}

// NewSourceFromConfigs compiles in-memory configurations into a Source.
// This is the path for embedded defaults and tests; production loading
// goes through NewSource.
func NewSourceFromConfigs(cfgs ...Config) (*Source, error) {
	machines := make(map[string]*Machine, len(cfgs))
	for _, cfg := range cfgs {
		m, err := New(cfg)
		if err != nil {
			return nil, err
		}
		machines[m.Name()] = m
	}
	return &Source{machines: machines}, nil
}

// Machine returns the cached machine for name.
func (s *Source) Machine(name string) (*Machine, error) {
	m, ok := s.machines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", stagehanderrors.ErrMachineNotFound, name)
	}
	return m, nil
}
