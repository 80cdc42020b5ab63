// Package plan computes which task runs next from a parsed task document.
//
// The calculator is purely functional over the ephemeral milestone/task
// graph: callers re-parse the document before every decision, so there
// is no cached state to drift. Selection is deterministic: document
// order is the only tie-break among equally eligible tasks.
//
// Import rules:
//   - CAN import: internal/constants, internal/todo, std lib
//   - MUST NOT import: internal/store, internal/engine
package plan

import (
	"github.com/stagehand-sh/stagehand/internal/constants"
	"github.com/stagehand-sh/stagehand/internal/todo"
)

// NextEligibleTask walks milestones in document order and returns the
// first task whose status is pending and whose every dependency
// resolves to a task with status done or skipped. Returns nil when no
// task is eligible.
func NextEligibleTask(doc *todo.Document) *todo.Task {
	statuses := statusIndex(doc)

	for _, m := range doc.Milestones {
		for _, t := range m.Tasks {
			if t.Status != constants.TaskStatusPending {
				continue
			}
			if depsSatisfied(t, statuses) {
				return t
			}
		}
	}
	return nil
}

// BlockedTasks returns identifiers of pending tasks whose dependencies
// cannot be satisfied by any upstream pending or in-progress task in
// this pass: a dependency is missing, already failed to a dead state,
// or part of a dependency cycle. Tasks merely waiting on a dependency
// that can still make progress are not blocked.
//
// Blocked tasks are never silently skipped; the orchestrator requires
// an explicit operator skip decision before downstream dependents can
// become eligible.
func BlockedTasks(doc *todo.Document) []string {
	statuses := statusIndex(doc)

	// Fixpoint over resolvability: a task is resolvable if it is already
	// satisfied, or if it can still run once all of its dependencies
	// resolve. Cycle members and tasks depending on missing identifiers
	// never enter the set.
	resolvable := make(map[string]bool, len(statuses))
	for id, status := range statuses {
		if status.IsSatisfied() {
			resolvable[id] = true
		}
	}

	for changed := true; changed; {
		changed = false
		for _, t := range doc.Tasks() {
			if resolvable[t.ID] || t.Status.IsSatisfied() {
				continue
			}
			if allResolvable(t, resolvable, statuses) {
				resolvable[t.ID] = true
				changed = true
			}
		}
	}

	var blocked []string
	for _, t := range doc.Tasks() {
		if t.Status == constants.TaskStatusPending && !resolvable[t.ID] {
			blocked = append(blocked, t.ID)
		}
	}
	return blocked
}

// IsComplete reports whether every task across all milestones is done
// or skipped: no eligible task, no blocked tasks.
func IsComplete(doc *todo.Document) bool {
	for _, t := range doc.Tasks() {
		if !t.Status.IsSatisfied() {
			return false
		}
	}
	return true
}

// Progress returns the completed (done or skipped) and total task counts.
func Progress(doc *todo.Document) (completed, total int) {
	for _, t := range doc.Tasks() {
		total++
		if t.Status.IsSatisfied() {
			completed++
		}
	}
	return completed, total
}

// MilestoneComplete reports whether every task in the milestone is done
// or skipped. The commit strategy each_milestone checkpoints on this
// boundary.
func MilestoneComplete(m *todo.Milestone) bool {
	for _, t := range m.Tasks {
		if !t.Status.IsSatisfied() {
			return false
		}
	}
	return true
}

// MilestoneOf returns the milestone containing the identified task.
func MilestoneOf(doc *todo.Document, taskID string) (*todo.Milestone, bool) {
	for _, m := range doc.Milestones {
		for _, t := range m.Tasks {
			if t.ID == taskID {
				return m, true
			}
		}
	}
	return nil, false
}

// statusIndex builds an id -> status lookup for the document.
func statusIndex(doc *todo.Document) map[string]constants.TaskStatus {
	statuses := make(map[string]constants.TaskStatus, doc.TaskCount())
	for _, t := range doc.Tasks() {
		statuses[t.ID] = t.Status
	}
	return statuses
}

// depsSatisfied reports whether every dependency of t resolves to a
// task with status done or skipped.
func depsSatisfied(t *todo.Task, statuses map[string]constants.TaskStatus) bool {
	for _, dep := range t.DependsOn {
		status, ok := statuses[dep]
		if !ok || !status.IsSatisfied() {
			return false
		}
	}
	return true
}

// allResolvable reports whether every dependency of t is in the
// resolvable set.
func allResolvable(t *todo.Task, resolvable map[string]bool, statuses map[string]constants.TaskStatus) bool {
	for _, dep := range t.DependsOn {
		if _, ok := statuses[dep]; !ok {
			return false
		}
		if !resolvable[dep] {
			return false
		}
	}
	return true
}
