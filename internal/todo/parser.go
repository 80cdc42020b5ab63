package todo

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/stagehand-sh/stagehand/internal/constants"
	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
)

// Document line patterns. The format uses nested markers: a milestone
// heading followed by a checklist of tasks annotated with inline
// dependency references and a completion marker.
//
//	# Plan title
//	## m1: Milestone title
//	- [ ] t1: Set up project scaffold
//	- [x] t2: Add storage layer (depends: t1)
//	- [-] t3: Optional polish
var (
	titleLineRegex     = regexp.MustCompile(`^#\s+(.+?)\s*$`)
	milestoneLineRegex = regexp.MustCompile(`^##\s+([A-Za-z0-9][A-Za-z0-9_.-]*):\s*(.+?)\s*$`)
	taskLineRegex      = regexp.MustCompile(`^-\s\[([ x~-])\]\s+([A-Za-z0-9][A-Za-z0-9_.-]*):\s*(.*?)(?:\s*\(depends:\s*([^)]*)\))?\s*$`)
)

// markerStatus maps checklist markers to task statuses.
//
//nolint:gochecknoglobals // Read-only lookup table
var markerStatus = map[string]constants.TaskStatus{
	" ": constants.TaskStatusPending,
	"~": constants.TaskStatusInProgress,
	"x": constants.TaskStatusDone,
	"-": constants.TaskStatusSkipped,
}

// Parse parses a task document into milestones, tasks, and per-task
// dependency/status metadata.
//
// Parsing is tolerant: malformed lines (and task lines appearing before
// the first milestone heading) are skipped rather than raising. The
// parser fails with a wrapped ErrMalformedDocument only when no
// milestone markers exist at all.
func Parse(document string) (*Document, error) {
	doc := &Document{}
	var current *Milestone

	scanner := bufio.NewScanner(strings.NewReader(document))
	for scanner.Scan() {
		line := scanner.Text()

		if m := milestoneLineRegex.FindStringSubmatch(line); m != nil {
			current = &Milestone{ID: m[1], Title: m[2]}
			doc.Milestones = append(doc.Milestones, current)
			continue
		}

		if m := taskLineRegex.FindStringSubmatch(line); m != nil {
			if current == nil {
				// Task line before any milestone heading; skip.
				continue
			}
			current.Tasks = append(current.Tasks, &Task{
				ID:          m[2],
				Description: m[3],
				Status:      markerStatus[m[1]],
				DependsOn:   parseDependsList(m[4]),
			})
			continue
		}

		if doc.Title == "" && current == nil {
			if m := titleLineRegex.FindStringSubmatch(line); m != nil {
				doc.Title = m[1]
			}
		}
		// Anything else is tolerated and skipped.
	}
	if err := scanner.Err(); err != nil {
		return nil, stagehanderrors.Wrap(err, "failed to scan task document")
	}

	if len(doc.Milestones) == 0 {
		return nil, stagehanderrors.Wrap(stagehanderrors.ErrMalformedDocument, "no milestone headings found")
	}

	return doc, nil
}

// parseDependsList splits the inline dependency reference list.
// Empty entries are dropped.
func parseDependsList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	deps := make([]string, 0, len(parts))
	for _, p := range parts {
		if dep := strings.TrimSpace(p); dep != "" {
			deps = append(deps, dep)
		}
	}
	if len(deps) == 0 {
		return nil
	}
	return deps
}
