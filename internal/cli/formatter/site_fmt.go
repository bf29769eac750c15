package formatter

import (
	"github.com/alexanderramin/sitetrack/internal/domain"
)

// FormatSiteList renders the site table, marking the selected site.
func FormatSiteList(sites []*domain.Site, selectedID string) string {
	rows := make([][]string, 0, len(sites))
	for _, s := range sites {
		marker := " "
		name := s.Name
		if s.ID == selectedID {
			marker = StyleGreen.Render("●")
			name = Bold(name)
		}
		rows = append(rows, []string{marker, TruncID(s.ID), name, FormatDate(s.CreatedAt)})
	}
	return RenderTable([]string{"", "ID", "NAME", "CREATED"}, rows)
}

// FormatTaskList renders a site's tasks with their planned and actual dates.
func FormatTaskList(tasks []*domain.Task) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			TruncID(t.ID),
			t.Name,
			FormatDate(t.DueDate),
			FormatDate(t.EndDate),
			FormatOptionalDate(t.ActualStartDate),
			FormatOptionalDate(t.ActualEndDate),
			RenderProgress(t.Progress, statusProgressBarWidth),
		})
	}
	return RenderTable([]string{"ID", "TASK", "DUE", "END", "STARTED", "FINISHED", "PROGRESS"}, rows)
}
