package scheduler

import (
	"testing"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSortByAttention_StatusThenEndDate(t *testing.T) {
	mk := func(id, name string, endDay int) *domain.Task {
		return &domain.Task{ID: id, Name: name, DueDate: jan(1), EndDate: jan(endDay)}
	}

	items := []ClassifiedTask{
		{Task: mk("a", "Roofing", 20), Status: domain.StatusFinished},
		{Task: mk("b", "Drainage", 25), Status: domain.StatusNotStartedPastDue},
		{Task: mk("c", "Scaffold", 15), Status: domain.StatusStartedBehind},
		{Task: mk("d", "Brickwork", 12), Status: domain.StatusNotStartedPastDue},
		{Task: mk("e", "Alarm", 12), Status: domain.StatusNotStartedPastDue},
	}
	SortByAttention(items)

	var got []string
	for _, it := range items {
		got = append(got, it.Task.ID)
	}
	assert.Equal(t, []string{"c", "e", "d", "b", "a"}, got)
}

func TestStatusPriority_BehindFirstFinishedLast(t *testing.T) {
	assert.Less(t, StatusPriority(domain.StatusStartedBehind), StatusPriority(domain.StatusNotStartedPastDue))
	assert.Less(t, StatusPriority(domain.StatusNotStartedNotDue), StatusPriority(domain.StatusFinished))
}
