package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sitetrack/internal/contract"
	"github.com/alexanderramin/sitetrack/internal/timeline"
	"github.com/charmbracelet/lipgloss"
)

const (
	DefaultChartWidth = 100
	maxLabelWidth     = 32
	minChartCells     = 10
)

const (
	cellEmpty = iota
	cellPlanned
	cellActual
	cellToday
)

// GanttOptions controls terminal rendering of a timeline.
type GanttOptions struct {
	// Width is the total line width in cells. Zero means DefaultChartWidth.
	Width int
	// Now places the today marker. Zero hides it.
	Now time.Time
}

// FormatTimeline renders the timeline rows as a Gantt chart: planned spans
// as thin bars, actual progress as solid bars over them, both colored by
// status. Day columns are compressed to fit the available width.
func FormatTimeline(resp *contract.TimelineResponse, opts GanttOptions) string {
	if !resp.HasWindow {
		return ""
	}
	width := opts.Width
	if width <= 0 {
		width = DefaultChartWidth
	}

	labels := make([]string, len(resp.Rows))
	labelWidth := 0
	for i, row := range resp.Rows {
		labels[i] = strings.Repeat("  ", max(row.Depth-1, 0)) + row.Name
		labelWidth = max(labelWidth, lipgloss.Width(labels[i]))
	}
	labelWidth = min(labelWidth, maxLabelWidth)
	chart := max(width-labelWidth-3, minChartCells)

	g := gantt{days: resp.Window.Days() + 1, cells: chart}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth) + " " + Dim("│") + " " + g.axis(resp.Window) + "\n")

	for i, row := range resp.Rows {
		label := padRight(truncate(labels[i], labelWidth), labelWidth)
		if row.IsTask() {
			label = StyleFg.Render(label)
		} else {
			label = StyleBold.Render(label)
		}
		b.WriteString(label + " " + Dim("│") + " ")
		if row.IsTask() {
			b.WriteString(g.bar(row, resp.Window, opts.Now))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + FormatLegend(resp.Summary) + "\n")
	return b.String()
}

// FormatLegend lists the status colors with their counts.
func FormatLegend(summary contract.TimelineSummary) string {
	parts := make([]string, 0, len(summary.Counts))
	for _, c := range summary.Counts {
		parts = append(parts, fmt.Sprintf("%s %s", StatusPill(c.Status), Dim(fmt.Sprintf("(%d)", c.Count))))
	}
	return strings.Join(parts, "  ")
}

type gantt struct {
	days  int
	cells int
}

// cell maps a day index to a chart cell. It is monotonic and clamps to the
// chart.
func (g gantt) cell(day int) int {
	c := day * g.cells / g.days
	return max(0, min(c, g.cells))
}

func (g gantt) axis(w timeline.Window) string {
	line := make([]rune, g.cells)
	for i := range line {
		line[i] = ' '
	}
	// Weekly ticks, skipping labels that would overlap the previous one.
	next := 0
	for day := 0; day < g.days; day += 7 {
		label := []rune(w.Start.AddDate(0, 0, day).Format("Jan 02"))
		at := g.cell(day)
		if at < next || at+len(label) > g.cells {
			continue
		}
		copy(line[at:], label)
		next = at + len(label) + 1
	}
	return Dim(string(line))
}

func (g gantt) bar(row contract.TimelineRow, w timeline.Window, now time.Time) string {
	kinds := make([]int, g.cells)

	from, to := g.cell(row.StartCol), g.cell(row.StartCol+row.Columns)
	if to == from && from < g.cells {
		to = from + 1
	}
	for i := from; i < to; i++ {
		kinds[i] = cellPlanned
	}
	if row.HasActual && row.Actual.Columns > 0 {
		af, at := g.cell(row.Actual.StartCol), g.cell(row.Actual.StartCol+row.Actual.Columns)
		for i := af; i < max(at, af+1) && i < g.cells; i++ {
			kinds[i] = cellActual
		}
	}
	if !now.IsZero() && w.Contains(now) {
		if c := g.cell(timeline.NewMapper(w, 1).DayIndex(now)); c < g.cells && kinds[c] == cellEmpty {
			kinds[c] = cellToday
		}
	}

	style := StatusStyle(row.Status)
	var b strings.Builder
	for i := 0; i < len(kinds); {
		j := i
		for j < len(kinds) && kinds[j] == kinds[i] {
			j++
		}
		n := j - i
		switch kinds[i] {
		case cellPlanned:
			b.WriteString(style.Render(strings.Repeat("━", n)))
		case cellActual:
			b.WriteString(style.Render(strings.Repeat("█", n)))
		case cellToday:
			b.WriteString(StyleHeader.Render(strings.Repeat("┊", n)))
		default:
			b.WriteString(strings.Repeat(" ", n))
		}
		i = j
	}
	return strings.TrimRight(b.String(), " ")
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if width <= 1 {
		return string(r[:width])
	}
	for len(r) > 0 && lipgloss.Width(string(r)) > width-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func padRight(s string, width int) string {
	return s + strings.Repeat(" ", max(width-lipgloss.Width(s), 0))
}
