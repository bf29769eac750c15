package outline

import (
	"testing"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestWalk_DepthFirstOrder(t *testing.T) {
	f := newFixture()
	tree := f.group(
		newTask("site-level"),
		newTask("phase-task", inPhase("p1")),
		newTask("sub-task", inSubsection("ss1")),
	)

	var got []string
	var depths []int
	for _, r := range tree.Rows() {
		got = append(got, r.ID())
		depths = append(depths, r.Depth)
	}
	assert.Equal(t, []string{"site-level", "p1", "phase-task", "s1", "ss1", "sub-task", "s2", "p2"}, got)
	assert.Equal(t, []int{1, 1, 2, 2, 3, 4, 2, 1}, depths)
}

func TestWalk_IsLastMarksFinalSibling(t *testing.T) {
	f := newFixture()
	rows := f.group().Rows()

	last := map[string]bool{}
	for _, r := range rows {
		last[r.ID()] = r.IsLast
	}
	assert.False(t, last["p1"])
	assert.True(t, last["p2"])
	assert.False(t, last["s1"])
	assert.True(t, last["s2"])
	assert.True(t, last["ss1"])
}

func TestTree_TasksAndCounts(t *testing.T) {
	f := newFixture()
	tree := f.group(newTask("a", inPhase("p1")), newTask("b"), newTask("c", inSection("s2")))

	assert.Equal(t, []string{"b", "a", "c"}, taskIDs(tree.Tasks()))

	counts := tree.Counts(func(task *domain.Task) domain.ScheduleStatus {
		if task.ID == "b" {
			return domain.StatusFinished
		}
		return domain.StatusNotStartedNotDue
	})
	assert.Equal(t, 1, counts[domain.StatusFinished])
	assert.Equal(t, 2, counts[domain.StatusNotStartedNotDue])
}
