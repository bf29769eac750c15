package scheduler

import (
	"sort"

	"github.com/alexanderramin/sitetrack/internal/domain"
)

// StatusPriority returns a sort priority (lower = needs attention sooner).
func StatusPriority(s domain.ScheduleStatus) int {
	switch s {
	case domain.StatusStartedBehind:
		return 0
	case domain.StatusNotStartedPastDue:
		return 1
	case domain.StatusStartedOnProgram:
		return 2
	case domain.StatusStartedAhead:
		return 3
	case domain.StatusNotStartedNotDue:
		return 4
	default:
		return 5
	}
}

// ClassifiedTask pairs a task with the status computed for it.
type ClassifiedTask struct {
	Task   *domain.Task
	Status domain.ScheduleStatus
}

// SortByAttention orders classified tasks by the canonical attention rules:
// 1. Status priority: behind > past due > on program > ahead > not due > finished
// 2. Planned end date: earliest first
// 3. Task name: lexical ascending
// 4. Task ID: lexical ascending
func SortByAttention(items []ClassifiedTask) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]

		pa, pb := StatusPriority(a.Status), StatusPriority(b.Status)
		if pa != pb {
			return pa < pb
		}

		if !a.Task.EndDate.Equal(b.Task.EndDate) {
			return a.Task.EndDate.Before(b.Task.EndDate)
		}

		if a.Task.Name != b.Task.Name {
			return a.Task.Name < b.Task.Name
		}

		return a.Task.ID < b.Task.ID
	})
}
