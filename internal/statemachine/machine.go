// Package statemachine provides a generic, configuration-driven
// finite-state-machine evaluator with no domain knowledge baked in.
//
// A Machine is built once from a Config and is immutable afterwards.
// Evaluation is a direct lookup in an (event, from-state) table, never a
// chain of conditionals, so adding states or events never touches
// evaluator code. The engine holds no per-instance mutable state:
// "instances" are just (machine, currentState) pairs evaluated per call.
//
// Import rules:
//   - CAN import: internal/errors, std lib, gopkg.in/yaml.v3
//   - MUST NOT import: internal/domain, internal/store, internal/engine
package statemachine

import (
	"fmt"
	"sort"

	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
)

// transitionKey identifies one row of the dispatch table.
type transitionKey struct {
	event string
	from  string
}

// Machine is an immutable finite-state-machine evaluator.
type Machine struct {
	name    string
	initial string
	states  map[string]bool
	table   map[transitionKey]string
}

// New builds a Machine from the given configuration. The configuration
// is validated structurally: the initial state and every transition
// endpoint must be members of the configured state set, and no two
// transitions may share an (event, from) pair.
func New(cfg Config) (*Machine, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("%w: name is required", stagehanderrors.ErrMachineInvalid)
	}
	if len(cfg.States) == 0 {
		return nil, fmt.Errorf("%w: machine %q declares no states", stagehanderrors.ErrMachineInvalid, cfg.Name)
	}

	states := make(map[string]bool, len(cfg.States))
	for _, s := range cfg.States {
		if s == "" {
			return nil, fmt.Errorf("%w: machine %q has an empty state name", stagehanderrors.ErrMachineInvalid, cfg.Name)
		}
		if states[s] {
			return nil, fmt.Errorf("%w: machine %q declares state %q twice", stagehanderrors.ErrMachineInvalid, cfg.Name, s)
		}
		states[s] = true
	}

	if !states[cfg.Initial] {
		return nil, fmt.Errorf("%w: machine %q initial state %q is not a declared state",
			stagehanderrors.ErrMachineInvalid, cfg.Name, cfg.Initial)
	}

	table := make(map[transitionKey]string, len(cfg.Transitions))
	for _, t := range cfg.Transitions {
		if t.Event == "" {
			return nil, fmt.Errorf("%w: machine %q has a transition without an event", stagehanderrors.ErrMachineInvalid, cfg.Name)
		}
		if !states[t.To] {
			return nil, fmt.Errorf("%w: machine %q transition %q targets unknown state %q",
				stagehanderrors.ErrMachineInvalid, cfg.Name, t.Event, t.To)
		}
		if len(t.From) == 0 {
			return nil, fmt.Errorf("%w: machine %q transition %q has an empty from set",
				stagehanderrors.ErrMachineInvalid, cfg.Name, t.Event)
		}
		for _, from := range t.From {
			if !states[from] {
				return nil, fmt.Errorf("%w: machine %q transition %q references unknown state %q",
					stagehanderrors.ErrMachineInvalid, cfg.Name, t.Event, from)
			}
			key := transitionKey{event: t.Event, from: from}
			if _, dup := table[key]; dup {
				return nil, fmt.Errorf("%w: machine %q has duplicate transition for event %q from state %q",
					stagehanderrors.ErrMachineInvalid, cfg.Name, t.Event, from)
			}
			table[key] = t.To
		}
	}

	return &Machine{
		name:    cfg.Name,
		initial: cfg.Initial,
		states:  states,
		table:   table,
	}, nil
}

// Name returns the machine's configured name.
func (m *Machine) Name() string {
	return m.name
}

// Initial returns the configured initial state.
func (m *Machine) Initial() string {
	return m.initial
}

// IsState reports whether s is a member of the configured state set.
func (m *Machine) IsState(s string) bool {
	return m.states[s]
}

// Transition evaluates the configured transition for event from the
// current state and returns the destination state.
//
// It fails with a wrapped ErrInvalidTransition when current is not a
// configured state or when no transition matches (event, current).
func (m *Machine) Transition(current, event string) (string, error) {
	if !m.states[current] {
		return "", fmt.Errorf("%w: machine %q: %w: %q",
			stagehanderrors.ErrInvalidTransition, m.name, stagehanderrors.ErrUnknownState, current)
	}

	to, ok := m.table[transitionKey{event: event, from: current}]
	if !ok {
		return "", fmt.Errorf("%w: machine %q: no transition for event %q from state %q",
			stagehanderrors.ErrInvalidTransition, m.name, event, current)
	}
	return to, nil
}

// CanFire reports whether event has a configured transition from current.
func (m *Machine) CanFire(current, event string) bool {
	_, ok := m.table[transitionKey{event: event, from: current}]
	return ok
}

// IsTerminal reports whether no configured transition leaves the state.
// Returns false for states not in the configured state set.
func (m *Machine) IsTerminal(state string) bool {
	if !m.states[state] {
		return false
	}
	for key := range m.table {
		if key.from == state {
			return false
		}
	}
	return true
}

// States returns the configured state set in sorted order.
func (m *Machine) States() []string {
	out := make([]string, 0, len(m.states))
	for s := range m.states {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
