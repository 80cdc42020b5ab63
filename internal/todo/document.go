// Package todo parses and serializes the structured task document that
// drives execution planning.
//
// The document is plain text with one heading per milestone and one
// checklist line per task. It is the single source of truth for task
// state: the milestone/task graph is ephemeral and re-derived from the
// document on every planning decision, never cached in mutable form.
//
// Import rules:
//   - CAN import: internal/constants, internal/errors, std lib
//   - MUST NOT import: internal/store, internal/engine
package todo

import (
	"fmt"

	"github.com/stagehand-sh/stagehand/internal/constants"
	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
)

// Task is a unit of work parsed from one checklist line.
type Task struct {
	// ID is the task identifier (unique within the document).
	ID string `json:"id"`

	// Description is the free-text task description.
	Description string `json:"description"`

	// Status is the parsed completion state.
	Status constants.TaskStatus `json:"status"`

	// DependsOn lists task identifiers that must be done or skipped
	// before this task becomes eligible.
	DependsOn []string `json:"depends_on,omitempty"`
}

// Milestone owns an ordered sequence of tasks under one heading.
type Milestone struct {
	// ID is the milestone identifier.
	ID string `json:"id"`

	// Title is the milestone heading text.
	Title string `json:"title"`

	// Tasks are the milestone's tasks in document order.
	Tasks []*Task `json:"tasks"`
}

// Document is the parsed task document. Ordering is semantically
// load-bearing: milestones and tasks keep document order, which the
// plan calculator uses as the deterministic tie-break.
type Document struct {
	// Title is the optional top-level heading text.
	Title string `json:"title,omitempty"`

	// Milestones are the document's milestones in document order.
	Milestones []*Milestone `json:"milestones"`
}

// Task finds a task by identifier across all milestones.
func (d *Document) Task(id string) (*Task, bool) {
	for _, m := range d.Milestones {
		for _, t := range m.Tasks {
			if t.ID == id {
				return t, true
			}
		}
	}
	return nil, false
}

// SetStatus updates the status of the identified task.
// Returns a wrapped ErrTaskNotFound when the identifier is absent.
func (d *Document) SetStatus(id string, status constants.TaskStatus) error {
	t, ok := d.Task(id)
	if !ok {
		return fmt.Errorf("%w: %s", stagehanderrors.ErrTaskNotFound, id)
	}
	t.Status = status
	return nil
}

// TaskCount returns the total number of tasks across all milestones.
func (d *Document) TaskCount() int {
	n := 0
	for _, m := range d.Milestones {
		n += len(m.Tasks)
	}
	return n
}

// Tasks returns all tasks in document order.
func (d *Document) Tasks() []*Task {
	out := make([]*Task, 0, d.TaskCount())
	for _, m := range d.Milestones {
		out = append(out, m.Tasks...)
	}
	return out
}
