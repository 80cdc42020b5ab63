package todo

import (
	"strings"

	"github.com/stagehand-sh/stagehand/internal/constants"
)

// statusMarker maps task statuses back to checklist markers.
// The derived blocked status is never written; it serializes as pending.
//
//nolint:gochecknoglobals // Read-only lookup table
var statusMarker = map[constants.TaskStatus]string{
	constants.TaskStatusPending:    " ",
	constants.TaskStatusInProgress: "~",
	constants.TaskStatusDone:       "x",
	constants.TaskStatusSkipped:    "-",
	constants.TaskStatusBlocked:    " ",
}

// Serialize renders the document back to text. Re-parsing the output
// reproduces the same tasks, statuses, and dependency references;
// whitespace is normalized rather than preserved byte-for-byte.
func Serialize(doc *Document) string {
	var b strings.Builder

	if doc.Title != "" {
		b.WriteString("# ")
		b.WriteString(doc.Title)
		b.WriteString("\n\n")
	}

	for i, m := range doc.Milestones {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## ")
		b.WriteString(m.ID)
		b.WriteString(": ")
		b.WriteString(m.Title)
		b.WriteString("\n")

		for _, t := range m.Tasks {
			b.WriteString("- [")
			b.WriteString(statusMarker[t.Status])
			b.WriteString("] ")
			b.WriteString(t.ID)
			b.WriteString(": ")
			b.WriteString(t.Description)
			if len(t.DependsOn) > 0 {
				b.WriteString(" (depends: ")
				b.WriteString(strings.Join(t.DependsOn, ", "))
				b.WriteString(")")
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}
