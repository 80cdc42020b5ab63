package config

import (
	"github.com/stagehand-sh/stagehand/internal/constants"
	"github.com/stagehand-sh/stagehand/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - Task timeout must be positive
//   - Max retries must not be negative
//   - Commit strategy must be a known strategy
//   - Agent command must not be empty
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.Wrap(errors.ErrConfigInvalid, "config is nil")
	}

	if err := validateExecutionConfig(&cfg.Execution); err != nil {
		return err
	}

	if cfg.Agent.Command == "" {
		return errors.Wrap(errors.ErrConfigInvalid,
			"agent.command must not be empty")
	}

	return nil
}

// validateExecutionConfig checks execution-loop configuration values.
func validateExecutionConfig(cfg *ExecutionConfig) error {
	if cfg.TaskTimeout <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"execution.task_timeout must be positive, got %s", cfg.TaskTimeout)
	}

	if cfg.MaxRetries < 0 {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"execution.max_retries must not be negative, got %d", cfg.MaxRetries)
	}

	if !constants.IsValidCommitStrategy(constants.CommitStrategy(cfg.CommitStrategy)) {
		return errors.Wrapf(errors.ErrConfigInvalid,
			"execution.commit_strategy must be one of %v, got %q",
			constants.ValidCommitStrategies, cfg.CommitStrategy)
	}

	return nil
}
