package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehand-sh/stagehand/internal/constants"
	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 30*time.Minute, cfg.Execution.TaskTimeout)
	assert.Equal(t, 3, cfg.Execution.MaxRetries)
	assert.Equal(t, string(constants.CommitStrategyEachTask), cfg.Execution.CommitStrategy)
	assert.Equal(t, "claude", cfg.Agent.Command)
}

func TestLoadFromPaths_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadFromPaths(context.Background(), "", "")
	require.NoError(t, err)

	assert.Equal(t, DefaultTaskTimeout, cfg.Execution.TaskTimeout)
	assert.Equal(t, DefaultMaxRetries, cfg.Execution.MaxRetries)
	assert.Contains(t, cfg.Store.Path, constants.StoreFileName)
	assert.Contains(t, cfg.Machines.Dir, constants.MachinesDirName)
}

func TestLoadFromPaths_GlobalConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	globalPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
execution:
  task_timeout: 10m
  max_retries: 5
agent:
  command: mock-agent
`
	require.NoError(t, os.WriteFile(globalPath, []byte(content), 0o600))

	cfg, err := LoadFromPaths(context.Background(), "", globalPath)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, cfg.Execution.TaskTimeout)
	assert.Equal(t, 5, cfg.Execution.MaxRetries)
	assert.Equal(t, "mock-agent", cfg.Agent.Command)
	// Untouched keys keep their defaults
	assert.Equal(t, string(constants.CommitStrategyEachTask), cfg.Execution.CommitStrategy)
}

func TestLoadFromPaths_ProjectOverridesGlobal(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()

	globalPath := filepath.Join(dir, "global.yaml")
	require.NoError(t, os.WriteFile(globalPath, []byte("execution:\n  task_timeout: 10m\n  max_retries: 7\n"), 0o600))

	projectPath := filepath.Join(dir, "project.yaml")
	require.NoError(t, os.WriteFile(projectPath, []byte("execution:\n  task_timeout: 2m\n"), 0o600))

	cfg, err := LoadFromPaths(context.Background(), projectPath, globalPath)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.Execution.TaskTimeout, "project config wins")
	assert.Equal(t, 7, cfg.Execution.MaxRetries, "global config fills the gaps")
}

func TestLoadFromPaths_MissingFilesIgnored(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadFromPaths(context.Background(), "/nonexistent/project.yaml", "/nonexistent/global.yaml")
	require.NoError(t, err)
	assert.Equal(t, DefaultTaskTimeout, cfg.Execution.TaskTimeout)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("STAGEHAND_EXECUTION_TASK_TIMEOUT", "90s")
	t.Setenv("STAGEHAND_AGENT_COMMAND", "env-agent")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, cfg.Execution.TaskTimeout)
	assert.Equal(t, "env-agent", cfg.Agent.Command)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(_ *Config) {},
		},
		{
			name:    "zero task timeout",
			mutate:  func(c *Config) { c.Execution.TaskTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "negative max retries",
			mutate:  func(c *Config) { c.Execution.MaxRetries = -1 },
			wantErr: true,
		},
		{
			name:    "unknown commit strategy",
			mutate:  func(c *Config) { c.Execution.CommitStrategy = "hourly" },
			wantErr: true,
		},
		{
			name:    "empty agent command",
			mutate:  func(c *Config) { c.Agent.Command = "" },
			wantErr: true,
		},
		{
			name:   "zero max retries is allowed",
			mutate: func(c *Config) { c.Execution.MaxRetries = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, stagehanderrors.ErrConfigInvalid)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_NilConfig(t *testing.T) {
	err := Validate(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, stagehanderrors.ErrConfigInvalid)
}
