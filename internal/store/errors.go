package store

import "errors"

var (
	ErrSiteNotFound = errors.New("site not found")
	ErrNodeNotFound = errors.New("hierarchy node not found")
	ErrTaskNotFound = errors.New("task not found")

	// ErrAlreadySet is returned when an actual date that was already recorded
	// is set again.
	ErrAlreadySet = errors.New("date already recorded")
	// ErrNotStarted is returned when finishing a task that never started.
	ErrNotStarted = errors.New("task has not started")
	// ErrEndBeforeStart is returned when an actual end precedes the actual start.
	ErrEndBeforeStart = errors.New("actual end is before actual start")
)
