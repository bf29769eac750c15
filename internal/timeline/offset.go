package timeline

import (
	"time"

	"github.com/alexanderramin/sitetrack/internal/domain"
)

// DefaultColumnWidth is the width of one day column in layout units.
const DefaultColumnWidth = 40

// Mapper converts dates into column offsets relative to a resolved window.
type Mapper struct {
	Window      Window
	ColumnWidth int
}

// NewMapper returns a Mapper for w. A non-positive width falls back to
// DefaultColumnWidth.
func NewMapper(w Window, columnWidth int) Mapper {
	if columnWidth <= 0 {
		columnWidth = DefaultColumnWidth
	}
	return Mapper{Window: w, ColumnWidth: columnWidth}
}

// DayIndex is the whole-day offset of d from the window start, with
// time-of-day discarded.
func (m Mapper) DayIndex(d time.Time) int {
	return daysBetween(m.Window.Start, d)
}

// StartOffset anchors a bar start: the floor of the day offset, scaled.
func (m Mapper) StartOffset(d time.Time) int {
	return m.DayIndex(d) * m.ColumnWidth
}

// EndOffset anchors a bar end: the ceiling of the day offset, scaled. A date
// carrying any time of day is rounded up to the following day boundary.
func (m Mapper) EndOffset(d time.Time) int {
	return m.endDay(d) * m.ColumnWidth
}

func (m Mapper) endDay(d time.Time) int {
	idx := m.DayIndex(d)
	if !Midnight(d).Equal(d) {
		idx++
	}
	return idx
}

// Bar is the horizontal placement of one task.
type Bar struct {
	StartCol int // day index of the bar start
	Columns  int // bar length in days, never negative
	Offset   int // StartCol scaled by the column width
	Width    int // Columns scaled by the column width
}

// Bar lays out the planned span of t. Inverted spans clamp to zero width.
func (m Mapper) Bar(t *domain.Task) Bar {
	start := m.DayIndex(t.DueDate)
	cols := m.endDay(t.EndDate) - start
	if cols < 0 {
		cols = 0
	}
	return Bar{
		StartCol: start,
		Columns:  cols,
		Offset:   start * m.ColumnWidth,
		Width:    cols * m.ColumnWidth,
	}
}

// ActualBar lays out the actual span of t. An unfinished task runs up to now.
// ok is false when the task has not started.
func (m Mapper) ActualBar(t *domain.Task, now time.Time) (Bar, bool) {
	if t.ActualStartDate == nil {
		return Bar{}, false
	}
	end := now
	if t.ActualEndDate != nil {
		end = *t.ActualEndDate
	}
	start := m.DayIndex(*t.ActualStartDate)
	cols := m.endDay(end) - start
	if cols < 0 {
		cols = 0
	}
	return Bar{
		StartCol: start,
		Columns:  cols,
		Offset:   start * m.ColumnWidth,
		Width:    cols * m.ColumnWidth,
	}, true
}
