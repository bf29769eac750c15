package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/sitetrack/internal/cli/formatter"
	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// sitetrackHuhTheme returns a huh theme using the formatter palette.
func sitetrackHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// nodeOptions lists the site's nodes at level, optionally restricted to one
// parent. A leading "(none)" option maps to "".
func nodeOptions(snap *domain.Snapshot, level domain.NodeLevel, siteID, parentID string) []huh.Option[string] {
	options := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, n := range snap.Nodes(level) {
		if n.SiteID != siteID {
			continue
		}
		if parentID != "" && n.ParentID != parentID {
			continue
		}
		options = append(options, huh.NewOption(n.Name, n.ID))
	}
	return options
}

// taskOptions lists the site's tasks as dependency candidates.
func taskOptions(snap *domain.Snapshot, siteID string) []huh.Option[string] {
	options := []huh.Option[string]{huh.NewOption("(none)", "")}
	for _, t := range snap.Tasks {
		if t.SiteID != siteID {
			continue
		}
		label := fmt.Sprintf("%s (ends %s)", t.Name, formatter.FormatDate(t.EndDate))
		options = append(options, huh.NewOption(label, t.ID))
	}
	return options
}

// wizardSelectSite creates a huh form to pick one of the given sites.
func wizardSelectSite(sites []*domain.Site, result *string) *huh.Form {
	if len(sites) == 0 {
		return nil
	}
	options := make([]huh.Option[string], 0, len(sites))
	for _, s := range sites {
		options = append(options, huh.NewOption(s.Name, s.ID))
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which site?").
				Options(options...).
				Value(result),
		),
	).WithTheme(sitetrackHuhTheme()).WithShowHelp(false)
}

// wizardInputText creates a huh form for a single text input.
func wizardInputText(title, placeholder string, required bool, result *string) *huh.Form {
	input := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(result)

	if required {
		input = input.Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", strings.ToLower(title))
			}
			return nil
		})
	}

	return huh.NewForm(
		huh.NewGroup(input),
	).WithTheme(sitetrackHuhTheme()).WithShowHelp(false)
}

// wizardConfirm creates a huh form for a yes/no confirmation.
func wizardConfirm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(sitetrackHuhTheme()).WithShowHelp(false)
}

// validateDate accepts a YYYY-MM-DD date string.
func validateDate(s string) error {
	if _, err := parseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// validateOptionalDate accepts empty or a YYYY-MM-DD date string.
func validateOptionalDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validateDate(s)
}

// validatePercent accepts empty or an integer between 0 and 100.
func validatePercent(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 || v > 100 {
		return fmt.Errorf("enter a number from 0 to 100")
	}
	return nil
}

// parsePercent converts a validated percentage, treating empty as 0.
func parsePercent(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}
