package domain

import (
	"fmt"
	"strings"
	"time"
)

type Task struct {
	ID           string `json:"id" yaml:"id"`
	SiteID       string `json:"siteId" yaml:"siteId"`
	Name         string `json:"taskName" yaml:"taskName"`
	PhaseID      string `json:"phaseId,omitempty" yaml:"phaseId,omitempty"`
	SectionID    string `json:"sectionId,omitempty" yaml:"sectionId,omitempty"`
	SubsectionID string `json:"subsectionId,omitempty" yaml:"subsectionId,omitempty"`

	// Planned window.
	DueDate time.Time `json:"dueDate" yaml:"dueDate"`
	EndDate time.Time `json:"endDate" yaml:"endDate"`

	ActualStartDate *time.Time `json:"actualStartDate,omitempty" yaml:"actualStartDate,omitempty"`
	ActualEndDate   *time.Time `json:"actualEndDate,omitempty" yaml:"actualEndDate,omitempty"`

	// Progress is the declared completion percentage, 0-100.
	Progress int `json:"progress" yaml:"progress"`

	DependentOnTaskID string    `json:"dependentOnTaskId,omitempty" yaml:"dependentOnTaskId,omitempty"`
	CreatedAt         time.Time `json:"createdAt" yaml:"createdAt"`
}

// Placement identifies the hierarchy level a task attaches to.
type Placement struct {
	Level  NodeLevel // "" means site level
	NodeID string
}

// Placement returns the lowest level set on the task: subsection, then
// section, then phase. A task with none of them sits at site level.
func (t *Task) Placement() Placement {
	switch {
	case t.SubsectionID != "":
		return Placement{Level: LevelSubsection, NodeID: t.SubsectionID}
	case t.SectionID != "":
		return Placement{Level: LevelSection, NodeID: t.SectionID}
	case t.PhaseID != "":
		return Placement{Level: LevelPhase, NodeID: t.PhaseID}
	default:
		return Placement{}
	}
}

// PlannedDuration is EndDate - DueDate. It may be zero or negative.
func (t *Task) PlannedDuration() time.Duration {
	return t.EndDate.Sub(t.DueDate)
}

// Started reports whether an actual start was recorded.
func (t *Task) Started() bool { return t.ActualStartDate != nil }

// Finished reports whether an actual end was recorded.
func (t *Task) Finished() bool { return t.ActualEndDate != nil }

// Validate performs presence checks on a task record.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("task name is required")
	}
	if t.SiteID == "" {
		return fmt.Errorf("task must belong to a site")
	}
	if t.DueDate.IsZero() {
		return fmt.Errorf("task due date is required")
	}
	if t.EndDate.IsZero() {
		return fmt.Errorf("task end date is required")
	}
	if t.Progress < 0 || t.Progress > 100 {
		return fmt.Errorf("task progress %d must be between 0 and 100", t.Progress)
	}
	if t.Finished() && !t.Started() {
		return fmt.Errorf("task %q has an actual end date but was never started", t.Name)
	}
	return nil
}

func (t *Task) DisplayID() string {
	return shortID(t.ID)
}
