package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/alexanderramin/sitetrack/internal/cli/formatter"
	"github.com/alexanderramin/sitetrack/internal/contract"
	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/charmbracelet/huh"
)

// runTaskForm collects a new task interactively. Values already given as
// flags prefill the form.
func runTaskForm(ctx context.Context, app *App, siteID string, f taskAddFlags) (contract.CreateTaskRequest, error) {
	snap, err := app.Tracker.Snapshot(ctx)
	if err != nil {
		return contract.CreateTaskRequest{}, err
	}

	name := f.name
	due, end := "", ""
	if !f.due.IsZero() {
		due = formatter.FormatDate(f.due)
	}
	if !f.end.IsZero() {
		end = formatter.FormatDate(f.end)
	}
	progress := ""
	if f.progress > 0 {
		progress = strconv.Itoa(f.progress)
	}
	var phaseID, sectionID, subsectionID, dependsOn string

	placement := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Phase").
			Options(nodeOptions(snap, domain.LevelPhase, siteID, "")...).
			Value(&phaseID),
		huh.NewSelect[string]().
			Title("Section").
			OptionsFunc(func() []huh.Option[string] {
				return nodeOptions(snap, domain.LevelSection, siteID, phaseID)
			}, &phaseID).
			Value(&sectionID),
		huh.NewSelect[string]().
			Title("Subsection").
			OptionsFunc(func() []huh.Option[string] {
				return nodeOptions(snap, domain.LevelSubsection, siteID, sectionID)
			}, &sectionID).
			Value(&subsectionID),
	)

	details := huh.NewGroup(
		huh.NewInput().
			Title("Task name").
			Value(&name).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errTaskNameRequired
				}
				return nil
			}),
		huh.NewSelect[string]().
			Title("Depends on").
			Description("The due date becomes the day after this task ends.").
			Options(taskOptions(snap, siteID)...).
			Value(&dependsOn),
		huh.NewInput().
			Title("Due date").
			Placeholder("YYYY-MM-DD").
			Value(&due).
			Validate(validateOptionalDate),
		huh.NewInput().
			Title("End date").
			Placeholder("YYYY-MM-DD").
			Value(&end).
			Validate(validateDate),
		huh.NewInput().
			Title("Progress (%)").
			Placeholder("0").
			Value(&progress).
			Validate(validatePercent),
	)

	form := huh.NewForm(details, placement).WithTheme(sitetrackHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return contract.CreateTaskRequest{}, err
	}

	req := contract.CreateTaskRequest{
		SiteID:            siteID,
		Name:              strings.TrimSpace(name),
		PhaseID:           phaseID,
		SectionID:         sectionID,
		SubsectionID:      subsectionID,
		Progress:          parsePercent(progress),
		DependentOnTaskID: dependsOn,
	}
	if strings.TrimSpace(due) != "" {
		req.DueDate, _ = parseDate(strings.TrimSpace(due))
	}
	req.EndDate, _ = parseDate(strings.TrimSpace(end))
	if dependsOn == "" && req.DueDate.IsZero() {
		return req, errDueDateRequired
	}
	return req, nil
}
