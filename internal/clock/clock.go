// Package clock provides an abstraction for time operations to improve testability.
// Instead of calling time.Now() directly, code can use the Clock interface which
// can be mocked in tests to control time-dependent behavior.
package clock

import "time"

// Clock is an interface for time operations.
// This allows code to be tested with mock clocks.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time from the system clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Mock implements Clock with a settable time for tests.
type Mock struct {
	// Time is returned by Now.
	Time time.Time
}

// Now returns the configured mock time, or a fixed fallback when unset.
func (m *Mock) Now() time.Time {
	if m.Time.IsZero() {
		return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return m.Time
}

// Advance moves the mock time forward by d.
func (m *Mock) Advance(d time.Duration) {
	m.Time = m.Now().Add(d)
}

// Ensure implementations satisfy Clock.
var (
	_ Clock = RealClock{}
	_ Clock = (*Mock)(nil)
)
