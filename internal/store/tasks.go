package store

import (
	"fmt"
	"time"

	"github.com/alexanderramin/sitetrack/internal/domain"
)

// NewTask carries the user-supplied fields of a task being created. Dates
// are stored in UTC.
type NewTask struct {
	SiteID            string
	Name              string
	PhaseID           string
	SectionID         string
	SubsectionID      string
	DueDate           time.Time
	EndDate           time.Time
	Progress          int
	DependentOnTaskID string
}

// AddTask creates a task. Parent references that do not exist, or that
// belong to a different site, are dropped so the task falls back to the
// nearest valid level. When DependentOnTaskID names an existing task, the
// due date becomes the day after that task's end date; this happens once,
// here, and is never re-derived. A dependency that does not exist, or that
// lives on another site, is ignored.
func (s *Store) AddTask(in NewTask) (*domain.Task, error) {
	subsection := s.findNode(domain.LevelSubsection, in.SubsectionID)
	section := s.findNode(domain.LevelSection, in.SectionID)
	phase := s.findNode(domain.LevelPhase, in.PhaseID)

	// Fill upward from the lowest given level so the chain is consistent.
	if subsection != nil && section == nil {
		section = s.findNode(domain.LevelSection, subsection.ParentID)
	}
	if section != nil && phase == nil {
		phase = s.findNode(domain.LevelPhase, section.ParentID)
	}

	siteID := domain.CoalesceStr(in.SiteID, siteOf(subsection), siteOf(section), siteOf(phase))
	if s.findSite(siteID) == nil {
		return nil, fmt.Errorf("adding task: site %q: %w", siteID, ErrSiteNotFound)
	}

	task := &domain.Task{
		ID:        s.newID(),
		SiteID:    siteID,
		Name:      in.Name,
		DueDate:   in.DueDate.UTC(),
		EndDate:   in.EndDate.UTC(),
		Progress:  in.Progress,
		CreatedAt: s.now(),
	}
	task.PhaseID = nodeIDIn(phase, siteID)
	task.SectionID = nodeIDIn(section, siteID)
	task.SubsectionID = nodeIDIn(subsection, siteID)

	if dep := s.findTask(in.DependentOnTaskID); dep != nil && dep.SiteID == siteID {
		task.DependentOnTaskID = dep.ID
		task.DueDate = dep.EndDate.AddDate(0, 0, 1)
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}
	s.state.Tasks = append(s.state.Tasks, task)
	return task.Clone(), nil
}

func siteOf(n *domain.HierarchyNode) string {
	if n == nil {
		return ""
	}
	return n.SiteID
}

func nodeIDIn(n *domain.HierarchyNode, siteID string) string {
	if n == nil || n.SiteID != siteID {
		return ""
	}
	return n.ID
}

func (s *Store) Task(id string) (*domain.Task, error) {
	t := s.findTask(id)
	if t == nil {
		return nil, fmt.Errorf("task %q: %w", id, ErrTaskNotFound)
	}
	return t.Clone(), nil
}

// TasksForSite lists a site's tasks in insertion order.
func (s *Store) TasksForSite(siteID string) []*domain.Task {
	var out []*domain.Task
	for _, t := range s.state.Tasks {
		if t.SiteID == siteID {
			out = append(out, t.Clone())
		}
	}
	return out
}

// SetActualStart records when work on a task began. It can be set once.
func (s *Store) SetActualStart(taskID string, at time.Time) (*domain.Task, error) {
	t := s.findTask(taskID)
	if t == nil {
		return nil, fmt.Errorf("starting task %q: %w", taskID, ErrTaskNotFound)
	}
	if t.Started() {
		return nil, fmt.Errorf("starting task %q: actual start: %w", t.Name, ErrAlreadySet)
	}
	updated := t.Clone()
	at = at.UTC()
	updated.ActualStartDate = &at
	s.replaceTask(updated)
	return updated.Clone(), nil
}

// SetActualEnd records when a started task finished. It can be set once and
// may not precede the actual start.
func (s *Store) SetActualEnd(taskID string, at time.Time) (*domain.Task, error) {
	t := s.findTask(taskID)
	if t == nil {
		return nil, fmt.Errorf("finishing task %q: %w", taskID, ErrTaskNotFound)
	}
	if !t.Started() {
		return nil, fmt.Errorf("finishing task %q: %w", t.Name, ErrNotStarted)
	}
	if t.Finished() {
		return nil, fmt.Errorf("finishing task %q: actual end: %w", t.Name, ErrAlreadySet)
	}
	at = at.UTC()
	if at.Before(*t.ActualStartDate) {
		return nil, fmt.Errorf("finishing task %q on %s: %w", t.Name, at.Format("2006-01-02"), ErrEndBeforeStart)
	}
	updated := t.Clone()
	updated.ActualEndDate = &at
	s.replaceTask(updated)
	return updated.Clone(), nil
}

// SetProgress updates the declared completion percentage.
func (s *Store) SetProgress(taskID string, pct int) (*domain.Task, error) {
	t := s.findTask(taskID)
	if t == nil {
		return nil, fmt.Errorf("updating progress of %q: %w", taskID, ErrTaskNotFound)
	}
	if pct < 0 || pct > 100 {
		return nil, fmt.Errorf("task progress %d must be between 0 and 100", pct)
	}
	updated := t.Clone()
	updated.Progress = pct
	s.replaceTask(updated)
	return updated.Clone(), nil
}

// replaceTask swaps the stored record with the same ID for t.
func (s *Store) replaceTask(t *domain.Task) {
	for i, existing := range s.state.Tasks {
		if existing.ID == t.ID {
			s.state.Tasks[i] = t
			return
		}
	}
}

func (s *Store) findTask(id string) *domain.Task {
	if id == "" {
		return nil
	}
	for _, t := range s.state.Tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}
