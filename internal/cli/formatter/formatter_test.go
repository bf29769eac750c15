package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/sitetrack/internal/contract"
	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/outline"
	"github.com/alexanderramin/sitetrack/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func sampleTimeline() *contract.TimelineResponse {
	start := day(10)
	dig := &domain.Task{ID: "task-dig-0001", Name: "Dig", DueDate: day(10), EndDate: day(20), ActualStartDate: &start, Progress: 50}
	survey := &domain.Task{ID: "task-survey-01", Name: "Survey", DueDate: day(12), EndDate: day(14)}
	window := timeline.Window{Start: day(3), End: day(27)}
	return &contract.TimelineResponse{
		Site:        &domain.Site{ID: "site-0001-abcd", Name: "North Yard"},
		Window:      window,
		HasWindow:   true,
		ColumnWidth: 40,
		Rows: []contract.TimelineRow{
			{Kind: outline.RowTask, ID: survey.ID, Name: "Survey", Depth: 1, StartCol: 9, Columns: 2,
				Status: domain.StatusNotStartedPastDue, Task: survey},
			{Kind: outline.RowPhase, ID: "phase-1", Name: "Groundworks", Depth: 1, IsLast: true},
			{Kind: outline.RowTask, ID: dig.ID, Name: "Dig", Depth: 2, IsLast: true, StartCol: 7, Columns: 10,
				Status: domain.StatusStartedBehind, Progress: 50, HasActual: true,
				Actual: timeline.Bar{StartCol: 7, Columns: 6}, Task: dig},
		},
		Summary: contract.TimelineSummary{
			GeneratedAt: day(16),
			TotalTasks:  2,
			Counts: []contract.StatusCount{
				{Status: domain.StatusStartedBehind, Count: 1},
				{Status: domain.StatusNotStartedPastDue, Count: 1},
			},
		},
		Attention: []contract.TaskStatusView{
			{TaskID: dig.ID, Name: "Dig", Status: domain.StatusStartedBehind, DueDate: day(10), EndDate: day(20), Progress: 50},
			{TaskID: survey.ID, Name: "Survey", Status: domain.StatusNotStartedPastDue, DueDate: day(12), EndDate: day(14)},
		},
	}
}

func TestRenderTree_Connectors(t *testing.T) {
	out := stripANSI(RenderTree([]TreeItem{
		{Title: "Site"},
		{Title: "Phase A", Level: 1},
		{Title: "Task 1", Level: 2, IsLast: true},
		{Title: "Phase B", Level: 1, IsLast: true},
		{Title: "Task 2", Level: 2, IsLast: true, Detail: "50%"},
	}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Site", lines[0])
	assert.Equal(t, "├─ Phase A", lines[1])
	assert.Equal(t, "│  └─ Task 1", lines[2])
	assert.Equal(t, "└─ Phase B", lines[3])
	assert.True(t, strings.HasPrefix(lines[4], "   └─ Task 2"), lines[4])
	assert.Contains(t, lines[4], "[ 50% ]")
}

func TestRenderTree_Empty(t *testing.T) {
	assert.Empty(t, RenderTree(nil))
}

func TestRenderTable_Alignment(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "NAME"}, [][]string{{"1", "x"}, {"22", StyleRed.Render("long")}}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "A   NAME", lines[0])
	assert.Equal(t, "──  ────", lines[1])
	assert.Equal(t, "22  long", lines[3])
}

func TestRenderProgress(t *testing.T) {
	assert.Equal(t, "[█████░░░░░]  50%", stripANSI(RenderProgress(50, 10)))
	assert.Equal(t, "[░░]   0%", stripANSI(RenderProgress(-5, 1)))
	assert.Equal(t, "[████] 100%", stripANSI(RenderProgress(140, 4)))
}

func TestStatusPill_AllStatuses(t *testing.T) {
	for _, s := range domain.AllScheduleStatuses {
		pill := stripANSI(StatusPill(s))
		assert.Contains(t, pill, StatusLabel(s))
		assert.NotEqual(t, string(s), StatusLabel(s))
	}
}

func TestRelativeDateFrom(t *testing.T) {
	now := day(16)
	assert.Equal(t, "Today", RelativeDateFrom(day(16), now))
	assert.Equal(t, "Tomorrow", RelativeDateFrom(day(17), now))
	assert.Equal(t, "4d ago", RelativeDateFrom(day(12), now))
	assert.Equal(t, "In 3w", RelativeDateFrom(now.AddDate(0, 0, 21), now))
}

func TestFormatTimeline(t *testing.T) {
	out := stripANSI(FormatTimeline(sampleTimeline(), GanttOptions{Width: 60, Now: day(16)}))
	lines := strings.Split(out, "\n")

	assert.Contains(t, lines[0], "Jan 03")
	assert.Contains(t, out, "Survey")
	assert.Contains(t, out, "  Dig", "tasks inside a phase are indented")
	assert.Contains(t, out, "━", "planned bar")
	assert.Contains(t, out, "█", "actual bar")
	assert.Contains(t, out, "Behind (1)")

	for _, line := range lines {
		assert.LessOrEqual(t, len([]rune(line)), 60, line)
	}
}

func TestFormatTimeline_NoWindow(t *testing.T) {
	resp := sampleTimeline()
	resp.HasWindow = false
	assert.Empty(t, FormatTimeline(resp, GanttOptions{}))
}

func TestGanttCell_Monotonic(t *testing.T) {
	g := gantt{days: 25, cells: 10}
	prev := -1
	for d := 0; d <= 25; d++ {
		c := g.cell(d)
		assert.GreaterOrEqual(t, c, prev)
		prev = c
	}
	assert.Equal(t, 10, g.cell(25))
	assert.Equal(t, 0, g.cell(-3))
}

func TestFormatOutline(t *testing.T) {
	out := stripANSI(FormatOutline(sampleTimeline()))
	assert.Contains(t, out, "North Yard")
	assert.Contains(t, out, "├─ Survey ○ Past due")
	assert.Contains(t, out, "└─ Groundworks")
	assert.Contains(t, out, "   └─ Dig ● Behind")
	assert.Contains(t, out, "2024-01-10 → 2024-01-20  50%")
}

func TestFormatStatus(t *testing.T) {
	out := stripANSI(FormatStatus(sampleTimeline()))
	assert.Contains(t, out, "NORTH YARD")
	assert.Contains(t, out, "2 tasks as of 2024-01-16")
	assert.Contains(t, out, "4d ago")
	digIdx := strings.Index(out, "Dig")
	surveyIdx := strings.LastIndex(out, "Survey")
	assert.Less(t, digIdx, surveyIdx)
}

func TestFormatSiteList_MarksSelected(t *testing.T) {
	sites := []*domain.Site{
		{ID: "aaaaaaaa-1", Name: "North", CreatedAt: day(1)},
		{ID: "bbbbbbbb-2", Name: "South", CreatedAt: day(2)},
	}
	out := stripANSI(FormatSiteList(sites, "bbbbbbbb-2"))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.False(t, strings.HasPrefix(lines[2], "●"))
	assert.True(t, strings.HasPrefix(lines[3], "●"))
}
