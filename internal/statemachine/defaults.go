package statemachine

// DefaultDevelopmentConfig returns the shipped development-flow machine
// for versions. `stagehand init` writes this table to
// ~/.stagehand/statemachines/development.yaml; operators may edit the
// file, which is the authoritative copy at runtime.
func DefaultDevelopmentConfig() Config {
	return Config{
		Name:    "development",
		Initial: "drafting",
		States: []string{
			"drafting", "scaffolding", "reviewing", "ready",
			"executing", "paused", "completed", "error",
		},
		Transitions: []TransitionRule{
			{Event: "SUBMIT", From: []string{"drafting"}, To: "scaffolding"},
			{Event: "SCAFFOLD", From: []string{"scaffolding"}, To: "reviewing"},
			{Event: "REJECT", From: []string{"reviewing"}, To: "drafting"},
			{Event: "APPROVE", From: []string{"reviewing"}, To: "ready"},
			{Event: "START", From: []string{"ready"}, To: "executing"},
			{Event: "PAUSE", From: []string{"executing"}, To: "paused"},
			{Event: "RESUME", From: []string{"paused"}, To: "executing"},
			{Event: "ABORT", From: []string{"executing", "paused"}, To: "ready"},
			{Event: "COMPLETE", From: []string{"executing"}, To: "completed"},
			{Event: "FAIL", From: []string{"drafting", "scaffolding", "reviewing", "executing"}, To: "error"},
		},
	}
}

// DefaultExecutionConfig returns the shipped runtime-flow machine for
// executions. Failed runs may resume (operator retry) or abort; completed
// and aborted are terminal.
func DefaultExecutionConfig() Config {
	return Config{
		Name:    "execution",
		Initial: "running",
		States:  []string{"running", "paused", "completed", "aborted", "failed"},
		Transitions: []TransitionRule{
			{Event: "PAUSE", From: []string{"running"}, To: "paused"},
			{Event: "RESUME", From: []string{"paused", "failed"}, To: "running"},
			{Event: "COMPLETE", From: []string{"running"}, To: "completed"},
			{Event: "FAIL", From: []string{"running"}, To: "failed"},
			{Event: "ABORT", From: []string{"running", "paused", "failed"}, To: "aborted"},
		},
	}
}
