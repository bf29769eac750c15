package scheduler

import (
	"time"

	"github.com/alexanderramin/sitetrack/internal/domain"
)

// ProgressPolicy turns a declared progress percentage into the amount of
// elapsed time that progress should have taken. The classifier compares the
// result with the time actually elapsed since the task started.
type ProgressPolicy interface {
	ExpectedElapsed(planned time.Duration, progressPct int) time.Duration
}

// LinearProgress assumes progress tracks time linearly across the planned
// span: 50% done should take 50% of the planned duration. It is a
// simplifying policy, not a measurement.
type LinearProgress struct{}

func (LinearProgress) ExpectedElapsed(planned time.Duration, progressPct int) time.Duration {
	pct := clampPct(progressPct)
	return time.Duration(float64(planned) * float64(pct) / 100)
}

// MilestoneProgress credits progress only in whole milestone steps. With
// Steps=4, a declared 60% counts as 50%.
type MilestoneProgress struct {
	Steps int
}

func (p MilestoneProgress) ExpectedElapsed(planned time.Duration, progressPct int) time.Duration {
	if p.Steps <= 0 {
		return LinearProgress{}.ExpectedElapsed(planned, progressPct)
	}
	pct := clampPct(progressPct)
	reached := pct * p.Steps / 100
	return time.Duration(float64(planned) * float64(reached) / float64(p.Steps))
}

func clampPct(pct int) int {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

type StatusInput struct {
	Task *domain.Task
	Now  time.Time
	// Policy defaults to LinearProgress when nil.
	Policy ProgressPolicy
}

// ClassifyStatus returns the schedule status of a task at Now. Rules apply
// top to bottom and the first match wins. The task's planned dates must
// already be validated.
func ClassifyStatus(input StatusInput) domain.ScheduleStatus {
	t := input.Task

	if t.Finished() {
		return domain.StatusFinished
	}

	if t.Started() {
		planned := t.PlannedDuration()
		if planned <= 0 {
			return domain.StatusStartedOnProgram
		}
		policy := input.Policy
		if policy == nil {
			policy = LinearProgress{}
		}
		elapsed := input.Now.Sub(*t.ActualStartDate)
		expected := policy.ExpectedElapsed(planned, t.Progress)
		switch {
		case elapsed < expected:
			return domain.StatusStartedAhead
		case elapsed > expected:
			return domain.StatusStartedBehind
		default:
			return domain.StatusStartedOnProgram
		}
	}

	if input.Now.After(t.DueDate) {
		return domain.StatusNotStartedPastDue
	}
	return domain.StatusNotStartedNotDue
}

// Classifier binds a policy so callers can classify many tasks at one Now.
type Classifier struct {
	Now    time.Time
	Policy ProgressPolicy
}

func (c Classifier) Classify(t *domain.Task) domain.ScheduleStatus {
	return ClassifyStatus(StatusInput{Task: t, Now: c.Now, Policy: c.Policy})
}
