package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
)

// testConfig returns a small machine used across tests.
func testConfig() Config {
	return Config{
		Name:    "toy",
		Initial: "a",
		States:  []string{"a", "b", "c"},
		Transitions: []TransitionRule{
			{Event: "GO", From: []string{"a"}, To: "b"},
			{Event: "GO", From: []string{"b"}, To: "c"},
			{Event: "BACK", From: []string{"b", "c"}, To: "a"},
		},
	}
}

func TestNew_ValidConfig(t *testing.T) {
	m, err := New(testConfig())
	require.NoError(t, err)
	assert.Equal(t, "toy", m.Name())
	assert.Equal(t, "a", m.Initial())
	assert.True(t, m.IsState("b"))
	assert.False(t, m.IsState("z"))
	assert.Equal(t, []string{"a", "b", "c"}, m.States())
}

func TestNew_InvalidConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty name", func(c *Config) { c.Name = "" }},
		{"no states", func(c *Config) { c.States = nil }},
		{"initial not a state", func(c *Config) { c.Initial = "z" }},
		{"duplicate state", func(c *Config) { c.States = append(c.States, "a") }},
		{"transition to unknown state", func(c *Config) {
			c.Transitions[0].To = "z"
		}},
		{"transition from unknown state", func(c *Config) {
			c.Transitions[0].From = []string{"z"}
		}},
		{"transition without event", func(c *Config) {
			c.Transitions[0].Event = ""
		}},
		{"empty from set", func(c *Config) {
			c.Transitions[0].From = nil
		}},
		{"duplicate (event, from) pair", func(c *Config) {
			c.Transitions = append(c.Transitions, TransitionRule{
				Event: "GO", From: []string{"a"}, To: "c",
			})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := New(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, stagehanderrors.ErrMachineInvalid)
		})
	}
}

// TestTransition_TableExhaustive verifies that for every configured
// transition (event, fromSet, to), Transition(s, event) = to for every
// s in fromSet, and fails for every configured state outside fromSet.
func TestTransition_TableExhaustive(t *testing.T) {
	cfg := DefaultDevelopmentConfig()
	m, err := New(cfg)
	require.NoError(t, err)

	for _, rule := range cfg.Transitions {
		fromSet := make(map[string]bool, len(rule.From))
		for _, from := range rule.From {
			fromSet[from] = true

			got, terr := m.Transition(from, rule.Event)
			require.NoError(t, terr, "event %s from %s", rule.Event, from)
			assert.Equal(t, rule.To, got)
		}

		for _, state := range cfg.States {
			if fromSet[state] {
				continue
			}
			_, terr := m.Transition(state, rule.Event)
			require.Error(t, terr, "event %s from %s should fail", rule.Event, state)
			assert.ErrorIs(t, terr, stagehanderrors.ErrInvalidTransition)
		}
	}
}

func TestTransition_UnknownState(t *testing.T) {
	m, err := New(testConfig())
	require.NoError(t, err)

	_, err = m.Transition("z", "GO")
	require.Error(t, err)
	assert.ErrorIs(t, err, stagehanderrors.ErrInvalidTransition)
	assert.ErrorIs(t, err, stagehanderrors.ErrUnknownState)
}

func TestTransition_UnknownEvent(t *testing.T) {
	m, err := New(testConfig())
	require.NoError(t, err)

	_, err = m.Transition("a", "NOPE")
	require.Error(t, err)
	assert.ErrorIs(t, err, stagehanderrors.ErrInvalidTransition)
}

func TestCanFire(t *testing.T) {
	m, err := New(testConfig())
	require.NoError(t, err)

	assert.True(t, m.CanFire("a", "GO"))
	assert.False(t, m.CanFire("a", "BACK"))
	assert.False(t, m.CanFire("z", "GO"))
}

func TestIsTerminal(t *testing.T) {
	m, err := New(DefaultDevelopmentConfig())
	require.NoError(t, err)

	assert.True(t, m.IsTerminal("completed"))
	assert.True(t, m.IsTerminal("error"), "error is a dead-end requiring manual recovery")
	assert.False(t, m.IsTerminal("executing"))
	assert.False(t, m.IsTerminal("unknown"))
}

func TestDefaultConfigs_Compile(t *testing.T) {
	dev, err := New(DefaultDevelopmentConfig())
	require.NoError(t, err)
	assert.Equal(t, "drafting", dev.Initial())

	exe, err := New(DefaultExecutionConfig())
	require.NoError(t, err)
	assert.Equal(t, "running", exe.Initial())
	assert.True(t, exe.IsTerminal("completed"))
	assert.True(t, exe.IsTerminal("aborted"))
	assert.False(t, exe.IsTerminal("failed"), "failed runs may resume or abort")
}

// TestDevelopmentFlow_KeyTransitions covers the transitions the
// orchestration core consumes directly.
func TestDevelopmentFlow_KeyTransitions(t *testing.T) {
	m, err := New(DefaultDevelopmentConfig())
	require.NoError(t, err)

	tests := []struct {
		from, event, to string
	}{
		{"reviewing", "APPROVE", "ready"},
		{"ready", "START", "executing"},
		{"executing", "PAUSE", "paused"},
		{"paused", "RESUME", "executing"},
		{"executing", "ABORT", "ready"},
		{"paused", "ABORT", "ready"},
		{"executing", "COMPLETE", "completed"},
	}
	for _, tt := range tests {
		t.Run(tt.event+" from "+tt.from, func(t *testing.T) {
			got, terr := m.Transition(tt.from, tt.event)
			require.NoError(t, terr)
			assert.Equal(t, tt.to, got)
		})
	}
}
