package contract

import (
	"time"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/outline"
	"github.com/alexanderramin/sitetrack/internal/timeline"
)

type TimelineRequest struct {
	// SiteID defaults to the selected site when empty.
	SiteID string
	Now    *time.Time
	// ColumnWidth is the layout width of one day. Zero means the default.
	ColumnWidth int
}

func NewTimelineRequest() TimelineRequest {
	return TimelineRequest{ColumnWidth: timeline.DefaultColumnWidth}
}

// TimelineRow is one line of the rendered timeline. Node rows carry no bar.
type TimelineRow struct {
	Kind     outline.RowKind
	ID       string
	Name     string
	Depth    int
	IsLast   bool
	StartCol int
	Columns  int
	Offset   int
	Width    int

	// Task rows only.
	Status    domain.ScheduleStatus
	Progress  int
	HasActual bool
	Actual    timeline.Bar
	Task      *domain.Task
}

func (r TimelineRow) IsTask() bool { return r.Kind == outline.RowTask }

type StatusCount struct {
	Status domain.ScheduleStatus
	Count  int
}

type TimelineSummary struct {
	GeneratedAt time.Time
	TotalTasks  int
	// Counts lists every status in display order, including zeros.
	Counts []StatusCount
}

// Count returns the tally for one status.
func (s TimelineSummary) Count(status domain.ScheduleStatus) int {
	for _, c := range s.Counts {
		if c.Status == status {
			return c.Count
		}
	}
	return 0
}

type TimelineResponse struct {
	Site        *domain.Site
	Window      timeline.Window
	HasWindow   bool
	ColumnWidth int
	Rows        []TimelineRow
	Tree        *outline.Tree
	Summary     TimelineSummary
	// Attention lists the site's tasks, most urgent first.
	Attention []TaskStatusView
}

// HasContent reports whether the site has any phases or tasks to show.
func (r *TimelineResponse) HasContent() bool {
	return r.Tree != nil && !r.Tree.IsEmpty()
}

type TaskStatusView struct {
	TaskID   string
	Name     string
	Status   domain.ScheduleStatus
	DueDate  time.Time
	EndDate  time.Time
	Progress int
}
