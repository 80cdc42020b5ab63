package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/stagehand-sh/stagehand/internal/constants"
)

// Default execution settings.
const (
	// DefaultTaskTimeout bounds one agent task dispatch.
	DefaultTaskTimeout = 30 * time.Minute

	// DefaultMaxRetries is the maximum operator-driven retries per task.
	DefaultMaxRetries = 3
)

// DefaultConfig returns a new Config with sensible default values.
// These defaults are the base layer that config files and environment
// variables override. Path-valued fields default to empty and are
// resolved against the stagehand home at load time.
func DefaultConfig() *Config {
	return &Config{
		Execution: ExecutionConfig{
			TaskTimeout:    DefaultTaskTimeout,
			MaxRetries:     DefaultMaxRetries,
			CommitStrategy: string(constants.CommitStrategyEachTask),
		},
		Agent: AgentConfig{
			// Command: the Claude Code CLI in non-interactive mode.
			// Override for other agent CLIs.
			Command: "claude",
			Args:    []string{"-p"},
		},
		Store:    StoreConfig{Path: ""},
		Machines: MachinesConfig{Dir: ""},
	}
}

// setDefaults registers the default values on a viper instance.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("execution.task_timeout", d.Execution.TaskTimeout)
	v.SetDefault("execution.max_retries", d.Execution.MaxRetries)
	v.SetDefault("execution.commit_strategy", d.Execution.CommitStrategy)
	v.SetDefault("agent.command", d.Agent.Command)
	v.SetDefault("agent.args", d.Agent.Args)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("machines.dir", d.Machines.Dir)
}
