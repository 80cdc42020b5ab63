package agent

import (
	"context"
	"sync"
)

// MockAgent is an in-memory Agent for tests. Outcomes are scripted per
// task identifier; unscripted tasks succeed.
type MockAgent struct {
	mu sync.Mutex

	// Outcomes maps task identifiers to scripted outcomes.
	Outcomes map[string]*Outcome

	// Errors maps task identifiers to scripted dispatch errors.
	Errors map[string]error

	// Dispatched records task identifiers in dispatch order.
	Dispatched []string

	// Aborted records execution identifiers passed to Abort.
	Aborted []string

	// AbortErr is returned by Abort when set.
	AbortErr error

	// OnDispatch, when set, runs before each dispatch completes. Tests
	// use it to pause or mutate state mid-loop.
	OnDispatch func(req Request)
}

// NewMockAgent creates an empty mock agent.
func NewMockAgent() *MockAgent {
	return &MockAgent{
		Outcomes: make(map[string]*Outcome),
		Errors:   make(map[string]error),
	}
}

// Dispatch returns the scripted outcome for the task, defaulting to success.
func (m *MockAgent) Dispatch(ctx context.Context, req Request) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.Dispatched = append(m.Dispatched, req.TaskID)
	outcome := m.Outcomes[req.TaskID]
	err := m.Errors[req.TaskID]
	hook := m.OnDispatch
	m.mu.Unlock()

	if hook != nil {
		hook(req)
	}
	if err != nil {
		return nil, err
	}
	if outcome != nil {
		return outcome, nil
	}
	return &Outcome{Success: true}, nil
}

// Abort records the abort request.
func (m *MockAgent) Abort(_ context.Context, executionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Aborted = append(m.Aborted, executionID)
	return m.AbortErr
}

// DispatchedTasks returns a copy of the dispatch order.
func (m *MockAgent) DispatchedTasks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.Dispatched...)
}

// Ensure MockAgent implements Agent.
var _ Agent = (*MockAgent)(nil)
