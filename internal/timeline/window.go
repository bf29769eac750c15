// Package timeline derives the visible date window for a set of tasks and
// maps calendar dates onto Gantt columns within that window.
package timeline

import (
	"time"

	"github.com/alexanderramin/sitetrack/internal/domain"
)

// PadDays is the number of days added on both sides of the planned range.
const PadDays = 7

// Window is the padded date range a timeline is drawn over. Both ends fall
// on midnight.
type Window struct {
	Start time.Time
	End   time.Time
}

// ResolveWindow computes the padded window covering every planned date in
// tasks. Actual dates do not widen the window. ok is false when there are no
// tasks, in which case no timeline should be drawn.
func ResolveWindow(tasks []*domain.Task) (Window, bool) {
	var minDate, maxDate time.Time
	found := false
	for _, t := range tasks {
		for _, d := range [2]time.Time{t.DueDate, t.EndDate} {
			if d.IsZero() {
				continue
			}
			if !found || d.Before(minDate) {
				minDate = d
			}
			if !found || d.After(maxDate) {
				maxDate = d
			}
			found = true
		}
	}
	if !found {
		return Window{}, false
	}
	return Window{
		Start: Midnight(minDate).AddDate(0, 0, -PadDays),
		End:   Midnight(maxDate).AddDate(0, 0, PadDays),
	}, true
}

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Days returns the number of whole calendar days the window spans.
func (w Window) Days() int {
	return daysBetween(w.Start, w.End)
}

// Contains reports whether d falls on a day within the window.
func (w Window) Contains(d time.Time) bool {
	day := Midnight(d)
	return !day.Before(w.Start) && !day.After(w.End)
}

// daysBetween counts calendar days from a to b using each date's own
// year/month/day, so DST shifts and sub-day noise cannot skew the result.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
