package statemachine

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
)

// Config is the externally loaded description of one state machine.
//
// Example YAML:
//
//	name: development
//	initial: drafting
//	states: [drafting, scaffolding, reviewing, ready]
//	transitions:
//	  - event: APPROVE
//	    from: [reviewing]
//	    to: ready
type Config struct {
	// Name identifies the machine (e.g., "development", "execution").
	Name string `yaml:"name"`

	// Initial is the state new instances start in.
	Initial string `yaml:"initial"`

	// States enumerates the valid state set.
	States []string `yaml:"states"`

	// Transitions maps an event plus one-or-more allowed source states
	// to a single destination state.
	Transitions []TransitionRule `yaml:"transitions"`
}

// TransitionRule is one configured transition.
type TransitionRule struct {
	// Event is the event name that fires this transition.
	Event string `yaml:"event"`

	// From is the set of source states the event is legal from.
	From []string `yaml:"from"`

	// To is the single destination state.
	To string `yaml:"to"`
}

// LoadConfig reads and parses a state-machine YAML file.
// A missing file is reported as ErrMachineNotFound so callers can treat
// it as a fatal startup condition.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path comes from validated configuration
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("%w: %s", stagehanderrors.ErrMachineNotFound, path)
		}
		return Config{}, stagehanderrors.Wrapf(err, "failed to read state machine config %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", stagehanderrors.ErrMachineInvalid, path, err)
	}
	return cfg, nil
}

// WriteConfig validates cfg and writes it to "<dir>/<name>.yaml".
// Existing files are left untouched so operator edits survive re-init.
func WriteConfig(dir string, cfg Config) error {
	if _, err := New(cfg); err != nil {
		return err
	}

	path := filepath.Join(dir, cfg.Name+".yaml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return stagehanderrors.Wrapf(err, "failed to marshal state machine config %s", cfg.Name)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //#nosec G306 -- machine tables are not secrets
		return stagehanderrors.Wrapf(err, "failed to write state machine config %s", path)
	}
	return nil
}

// LoadMachine reads, parses, and compiles a state-machine YAML file.
func LoadMachine(path string) (*Machine, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}
