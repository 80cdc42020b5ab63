package todo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehand-sh/stagehand/internal/constants"
	stagehanderrors "github.com/stagehand-sh/stagehand/internal/errors"
)

const sampleDocument = `# Payment service rewrite

## m1: Foundations
- [x] t1: Create module skeleton
- [x] t2: Wire configuration loading (depends: t1)
- [ ] t3: Add storage layer (depends: t1, t2)

## m2: Features
- [~] t4: Implement checkout flow (depends: t3)
- [-] t5: Legacy import shim
- [ ] t6: End-to-end test (depends: t4, t5)
`

func TestParse_SampleDocument(t *testing.T) {
	doc, err := Parse(sampleDocument)
	require.NoError(t, err)

	assert.Equal(t, "Payment service rewrite", doc.Title)
	require.Len(t, doc.Milestones, 2)

	m1 := doc.Milestones[0]
	assert.Equal(t, "m1", m1.ID)
	assert.Equal(t, "Foundations", m1.Title)
	require.Len(t, m1.Tasks, 3)

	t3 := m1.Tasks[2]
	assert.Equal(t, "t3", t3.ID)
	assert.Equal(t, "Add storage layer", t3.Description)
	assert.Equal(t, constants.TaskStatusPending, t3.Status)
	assert.Equal(t, []string{"t1", "t2"}, t3.DependsOn)

	m2 := doc.Milestones[1]
	require.Len(t, m2.Tasks, 3)
	assert.Equal(t, constants.TaskStatusInProgress, m2.Tasks[0].Status)
	assert.Equal(t, constants.TaskStatusSkipped, m2.Tasks[1].Status)
	assert.Empty(t, m2.Tasks[1].DependsOn)
}

func TestParse_TolerantOfMalformedLines(t *testing.T) {
	doc, err := Parse(`## m1: Only milestone
garbage line
- [?] bad-marker: Skipped by parser
- [ ] t1: Valid task
- not even a checklist
- [ ] : missing id
`)
	require.NoError(t, err)
	require.Len(t, doc.Milestones, 1)
	require.Len(t, doc.Milestones[0].Tasks, 1)
	assert.Equal(t, "t1", doc.Milestones[0].Tasks[0].ID)
}

func TestParse_TaskBeforeMilestoneIsSkipped(t *testing.T) {
	doc, err := Parse(`- [ ] orphan: No milestone yet
## m1: First
- [ ] t1: Real task
`)
	require.NoError(t, err)
	require.Len(t, doc.Milestones, 1)
	require.Len(t, doc.Milestones[0].Tasks, 1)
	assert.Equal(t, "t1", doc.Milestones[0].Tasks[0].ID)
}

func TestParse_NoMilestonesFails(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ""},
		{"prose only", "just some text\nwith no structure\n"},
		{"tasks without heading", "- [ ] t1: Orphan task\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, stagehanderrors.ErrMalformedDocument)
		})
	}
}

// TestRoundTrip verifies that serializing a parsed document and parsing
// it again reproduces the same milestones, tasks, statuses, and
// dependency references.
func TestRoundTrip(t *testing.T) {
	doc, err := Parse(sampleDocument)
	require.NoError(t, err)

	reparsed, err := Parse(Serialize(doc))
	require.NoError(t, err)

	assert.Equal(t, doc.Title, reparsed.Title)
	require.Equal(t, len(doc.Milestones), len(reparsed.Milestones))
	for i, m := range doc.Milestones {
		rm := reparsed.Milestones[i]
		assert.Equal(t, m.ID, rm.ID)
		assert.Equal(t, m.Title, rm.Title)
		require.Equal(t, len(m.Tasks), len(rm.Tasks))
		for j, task := range m.Tasks {
			assert.Equal(t, task, rm.Tasks[j])
		}
	}
}

func TestSetStatus(t *testing.T) {
	doc, err := Parse(sampleDocument)
	require.NoError(t, err)

	require.NoError(t, doc.SetStatus("t3", constants.TaskStatusDone))
	task, ok := doc.Task("t3")
	require.True(t, ok)
	assert.Equal(t, constants.TaskStatusDone, task.Status)

	err = doc.SetStatus("missing", constants.TaskStatusDone)
	require.Error(t, err)
	assert.ErrorIs(t, err, stagehanderrors.ErrTaskNotFound)
}

func TestTaskCountAndTasks(t *testing.T) {
	doc, err := Parse(sampleDocument)
	require.NoError(t, err)

	assert.Equal(t, 6, doc.TaskCount())
	all := doc.Tasks()
	require.Len(t, all, 6)
	// Document order is preserved.
	assert.Equal(t, "t1", all[0].ID)
	assert.Equal(t, "t6", all[5].ID)
}

func TestLoadAndSaveFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, constants.TaskDocumentName)
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0o644))

	doc, err := LoadFile(path)
	require.NoError(t, err)

	require.NoError(t, doc.SetStatus("t3", constants.TaskStatusDone))
	require.NoError(t, SaveFile(path, doc))

	reloaded, err := LoadFile(path)
	require.NoError(t, err)
	task, ok := reloaded.Task("t3")
	require.True(t, ok)
	assert.Equal(t, constants.TaskStatusDone, task.Status)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.md"))
	require.Error(t, err)
	assert.ErrorIs(t, err, stagehanderrors.ErrNotFound)
}
