// Package config provides configuration management for stagehand with
// layered precedence.
//
// Configuration sources are loaded in the following order (highest
// precedence first):
//  1. Environment variables (STAGEHAND_* prefix)
//  2. Project config (.stagehand.yaml in the working directory)
//  3. Global config (~/.stagehand/config.yaml)
//  4. Built-in defaults
//
// IMPORTANT: This package may import internal/constants and
// internal/errors, but MUST NOT import internal/domain or other
// internal packages.
package config

import "time"

// Config is the root configuration structure for stagehand.
type Config struct {
	// Execution contains settings for the task-execution loop.
	Execution ExecutionConfig `yaml:"execution" json:"execution" mapstructure:"execution"`

	// Agent contains settings for the external coding-agent process.
	Agent AgentConfig `yaml:"agent" json:"agent" mapstructure:"agent"`

	// Store contains settings for the relational store.
	Store StoreConfig `yaml:"store" json:"store" mapstructure:"store"`

	// Machines contains settings for the state-machine configuration files.
	Machines MachinesConfig `yaml:"machines" json:"machines" mapstructure:"machines"`
}

// ExecutionConfig contains settings for the task-execution loop.
type ExecutionConfig struct {
	// TaskTimeout is the maximum duration for one agent task dispatch.
	// A timeout is treated as a task failure and halts the loop.
	// Default: 30 minutes
	TaskTimeout time.Duration `yaml:"task_timeout" json:"task_timeout" mapstructure:"task_timeout"`

	// MaxRetries is the maximum operator-driven retry count per task.
	// Default: 3
	MaxRetries int `yaml:"max_retries" json:"max_retries" mapstructure:"max_retries"`

	// CommitStrategy controls when checkpoints are created
	// (each_task, each_milestone, manual).
	// Default: each_task
	CommitStrategy string `yaml:"commit_strategy" json:"commit_strategy" mapstructure:"commit_strategy"`
}

// AgentConfig contains settings for the external coding-agent process.
type AgentConfig struct {
	// Command is the agent binary to execute per task.
	// Default: "claude"
	Command string `yaml:"command" json:"command" mapstructure:"command"`

	// Args are passed to the agent command before the task description.
	Args []string `yaml:"args" json:"args" mapstructure:"args"`
}

// StoreConfig contains settings for the relational store.
type StoreConfig struct {
	// Path is the SQLite database file. Empty means the default
	// ~/.stagehand/stagehand.db, resolved at load time.
	Path string `yaml:"path" json:"path" mapstructure:"path"`
}

// MachinesConfig contains settings for state-machine configuration files.
type MachinesConfig struct {
	// Dir is the directory holding the machine YAML files. Empty means
	// the default ~/.stagehand/statemachines, resolved at load time.
	Dir string `yaml:"dir" json:"dir" mapstructure:"dir"`
}
