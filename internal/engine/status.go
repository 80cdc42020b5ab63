package engine

import (
	"context"

	"github.com/stagehand-sh/stagehand/internal/ctxutil"
	"github.com/stagehand-sh/stagehand/internal/domain"
	"github.com/stagehand-sh/stagehand/internal/plan"
	"github.com/stagehand-sh/stagehand/internal/todo"
)

// Snapshot is a point-in-time view of an execution combining the store
// row with the current plan derived from the task document.
type Snapshot struct {
	// Execution is the persisted execution row.
	Execution *domain.Execution `json:"execution"`

	// Version owns the execution.
	Version *domain.Version `json:"version"`

	// Project owns the version.
	Project *domain.Project `json:"project"`

	// CompletedTasks and TotalTasks come from the document on disk,
	// which may be ahead of the persisted counters.
	CompletedTasks int `json:"completed_tasks"`
	TotalTasks     int `json:"total_tasks"`

	// NextTaskID is the task the loop would dispatch next, empty when
	// none is eligible.
	NextTaskID string `json:"next_task_id,omitempty"`

	// BlockedTaskIDs lists pending tasks that cannot become eligible
	// without an operator skip.
	BlockedTaskIDs []string `json:"blocked_task_ids,omitempty"`
}

// Status returns a snapshot of an execution. The task document is
// re-read so the plan fields reflect what is on disk right now; a
// missing or malformed document surfaces as an error.
func (e *Engine) Status(ctx context.Context, executionID string) (*Snapshot, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}

	exec, err := e.store.FindExecution(ctx, executionID)
	if err != nil {
		return nil, err
	}
	version, err := e.store.FindVersion(ctx, exec.VersionID)
	if err != nil {
		return nil, err
	}
	project, err := e.store.FindProject(ctx, version.ProjectID)
	if err != nil {
		return nil, err
	}

	doc, err := todo.LoadFile(e.documentPath(project))
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Execution:      exec,
		Version:        version,
		Project:        project,
		BlockedTaskIDs: plan.BlockedTasks(doc),
	}
	snap.CompletedTasks, snap.TotalTasks = plan.Progress(doc)
	if next := plan.NextEligibleTask(doc); next != nil {
		snap.NextTaskID = next.ID
	}
	return snap, nil
}
