package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusStyle returns the color used for a schedule status in bars and pills.
func StatusStyle(status domain.ScheduleStatus) lipgloss.Style {
	switch status {
	case domain.StatusFinished:
		return StyleDim
	case domain.StatusStartedAhead:
		return StyleBlue
	case domain.StatusStartedOnProgram:
		return StyleGreen
	case domain.StatusStartedBehind, domain.StatusNotStartedPastDue:
		return StyleRed
	case domain.StatusNotStartedNotDue:
		return StyleYellow
	default:
		return StyleFg
	}
}

// StatusLabel is the human wording of a status.
func StatusLabel(status domain.ScheduleStatus) string {
	switch status {
	case domain.StatusFinished:
		return "Finished"
	case domain.StatusStartedAhead:
		return "Ahead"
	case domain.StatusStartedOnProgram:
		return "On program"
	case domain.StatusStartedBehind:
		return "Behind"
	case domain.StatusNotStartedPastDue:
		return "Past due"
	case domain.StatusNotStartedNotDue:
		return "Not due"
	default:
		return string(status)
	}
}

// StatusPill returns a colored indicator such as "▶ Behind".
func StatusPill(status domain.ScheduleStatus) string {
	icon := "●"
	switch status {
	case domain.StatusFinished:
		icon = "✔"
	case domain.StatusNotStartedNotDue, domain.StatusNotStartedPastDue:
		icon = "○"
	}
	return StatusStyle(status).Render(icon + " " + StatusLabel(status))
}

// Header renders an upper-cased section title with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
