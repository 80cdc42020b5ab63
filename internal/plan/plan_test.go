package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehand-sh/stagehand/internal/constants"
	"github.com/stagehand-sh/stagehand/internal/todo"
)

// parseDoc is a test helper wrapping todo.Parse.
func parseDoc(t *testing.T, document string) *todo.Document {
	t.Helper()
	doc, err := todo.Parse(document)
	require.NoError(t, err)
	return doc
}

func TestNextEligibleTask_HappyPath(t *testing.T) {
	doc := parseDoc(t, `## m1: First milestone
- [ ] t1: No dependencies
- [ ] t2: Depends on first (depends: t1)
`)

	next := NextEligibleTask(doc)
	require.NotNil(t, next)
	assert.Equal(t, "t1", next.ID)

	// After t1 completes, t2 becomes eligible.
	require.NoError(t, doc.SetStatus("t1", constants.TaskStatusDone))
	next = NextEligibleTask(doc)
	require.NotNil(t, next)
	assert.Equal(t, "t2", next.ID)

	// After t2 completes, the plan reports completion.
	require.NoError(t, doc.SetStatus("t2", constants.TaskStatusDone))
	assert.Nil(t, NextEligibleTask(doc))
	assert.Empty(t, BlockedTasks(doc))
	assert.True(t, IsComplete(doc))
}

// TestNextEligibleTask_Deterministic verifies repeated calls return the
// same task absent external mutation, and that document order is the
// tie-break among equally eligible candidates.
func TestNextEligibleTask_Deterministic(t *testing.T) {
	doc := parseDoc(t, `## m1: Milestone
- [ ] t1: First in document order
- [ ] t2: Also eligible
- [ ] t3: Also eligible
`)

	for i := 0; i < 5; i++ {
		next := NextEligibleTask(doc)
		require.NotNil(t, next)
		assert.Equal(t, "t1", next.ID)
	}
}

func TestNextEligibleTask_SkippedSatisfiesDependency(t *testing.T) {
	doc := parseDoc(t, `## m1: Milestone
- [-] t1: Skipped by operator
- [ ] t2: Downstream (depends: t1)
`)

	next := NextEligibleTask(doc)
	require.NotNil(t, next)
	assert.Equal(t, "t2", next.ID)
}

// TestNextEligibleTask_DependencySoundness checks a task is never
// returned while any dependency is unsatisfied.
func TestNextEligibleTask_DependencySoundness(t *testing.T) {
	tests := []struct {
		name     string
		document string
		want     string // "" means nil
	}{
		{
			name: "pending dependency",
			document: `## m1: M
- [ ] t1: Upstream
- [ ] t2: Downstream (depends: t1)
`,
			want: "t1",
		},
		{
			name: "in-progress dependency holds downstream back",
			document: `## m1: M
- [~] t1: Upstream running
- [ ] t2: Downstream (depends: t1)
`,
			want: "",
		},
		{
			name: "missing dependency never eligible",
			document: `## m1: M
- [ ] t1: Ghost dependency (depends: t9)
`,
			want: "",
		},
		{
			name: "cross-milestone dependency",
			document: `## m1: M1
- [x] t1: Done upstream
## m2: M2
- [ ] t2: Downstream (depends: t1)
`,
			want: "t2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := NextEligibleTask(parseDoc(t, tt.document))
			if tt.want == "" {
				assert.Nil(t, next)
			} else {
				require.NotNil(t, next)
				assert.Equal(t, tt.want, next.ID)
			}
		})
	}
}

// TestBlockedTasks_Cycle mirrors the blocked-task scenario: t2 depends
// on t3, and t3 participates in a dependency cycle. Both are blocked and
// no task is eligible until one is explicitly skipped.
func TestBlockedTasks_Cycle(t *testing.T) {
	doc := parseDoc(t, `## m1: M
- [ ] t2: Wants t3 (depends: t3)
- [ ] t3: Cyclic (depends: t4)
- [ ] t4: Cyclic too (depends: t3)
`)

	blocked := BlockedTasks(doc)
	assert.ElementsMatch(t, []string{"t2", "t3", "t4"}, blocked)
	assert.Nil(t, NextEligibleTask(doc))
	assert.False(t, IsComplete(doc))

	// Operator skips t3: the cycle is broken, t4 becomes eligible and
	// t2's dependency is satisfied.
	require.NoError(t, doc.SetStatus("t3", constants.TaskStatusSkipped))
	assert.Empty(t, BlockedTasks(doc))
	next := NextEligibleTask(doc)
	require.NotNil(t, next)
	assert.Equal(t, "t2", next.ID)
}

func TestBlockedTasks_MissingDependency(t *testing.T) {
	doc := parseDoc(t, `## m1: M
- [ ] t1: References nothing real (depends: ghost)
- [ ] t2: Fine on its own
`)

	assert.Equal(t, []string{"t1"}, BlockedTasks(doc))
	next := NextEligibleTask(doc)
	require.NotNil(t, next)
	assert.Equal(t, "t2", next.ID)
}

func TestBlockedTasks_WaitingIsNotBlocked(t *testing.T) {
	doc := parseDoc(t, `## m1: M
- [ ] t1: Eligible now
- [ ] t2: Waiting on t1 (depends: t1)
- [ ] t3: Waiting transitively (depends: t2)
`)

	// t2 and t3 can still be satisfied by upstream pending work.
	assert.Empty(t, BlockedTasks(doc))
}

func TestProgress(t *testing.T) {
	doc := parseDoc(t, `## m1: M
- [x] t1: Done
- [-] t2: Skipped
- [~] t3: Running
- [ ] t4: Pending
`)

	completed, total := Progress(doc)
	assert.Equal(t, 2, completed)
	assert.Equal(t, 4, total)
	assert.False(t, IsComplete(doc))
}

func TestMilestoneComplete(t *testing.T) {
	doc := parseDoc(t, `## m1: Finished
- [x] t1: Done
- [-] t2: Skipped
## m2: Open
- [ ] t3: Pending
`)

	assert.True(t, MilestoneComplete(doc.Milestones[0]))
	assert.False(t, MilestoneComplete(doc.Milestones[1]))

	m, ok := MilestoneOf(doc, "t3")
	require.True(t, ok)
	assert.Equal(t, "m2", m.ID)

	_, ok = MilestoneOf(doc, "ghost")
	assert.False(t, ok)
}
