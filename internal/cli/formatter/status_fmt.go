package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sitetrack/internal/contract"
	"github.com/alexanderramin/sitetrack/internal/domain"
)

const statusProgressBarWidth = 10

// FormatStatus renders the per-status tally and the tasks ordered by how
// urgently they need attention.
func FormatStatus(resp *contract.TimelineResponse) string {
	var b strings.Builder

	b.WriteString(Header(resp.Site.Name) + "\n\n")

	countRows := make([][]string, 0, len(resp.Summary.Counts))
	for _, c := range resp.Summary.Counts {
		countRows = append(countRows, []string{StatusPill(c.Status), fmt.Sprintf("%d", c.Count)})
	}
	b.WriteString(RenderTable([]string{"STATUS", "TASKS"}, countRows))
	b.WriteString(Dim(fmt.Sprintf("%d tasks as of %s", resp.Summary.TotalTasks,
		resp.Summary.GeneratedAt.Format(DateLayout))) + "\n")

	if len(resp.Attention) == 0 {
		return b.String()
	}

	b.WriteString("\n")
	rows := make([][]string, 0, len(resp.Attention))
	for _, v := range resp.Attention {
		due := FormatDate(v.DueDate)
		if v.Status == domain.StatusNotStartedPastDue {
			due = StyleRed.Render(due) + " " + Dim(RelativeDateFrom(v.DueDate, resp.Summary.GeneratedAt))
		}
		rows = append(rows, []string{
			TruncID(v.TaskID),
			Bold(v.Name),
			StatusPill(v.Status),
			RenderProgress(v.Progress, statusProgressBarWidth),
			due,
			FormatDate(v.EndDate),
		})
	}
	b.WriteString(RenderTable([]string{"ID", "TASK", "STATUS", "PROGRESS", "DUE", "END"}, rows))
	return b.String()
}
