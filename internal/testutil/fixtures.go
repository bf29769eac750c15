package testutil

import (
	"time"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/google/uuid"
)

// Date returns midnight UTC on the given day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func NewTestSite(name string) *domain.Site {
	return &domain.Site{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: Date(2024, 1, 1),
	}
}

func NewTestNode(site *domain.Site, level domain.NodeLevel, parentID, name string) *domain.HierarchyNode {
	if parentID == "" {
		parentID = site.ID
	}
	return &domain.HierarchyNode{
		ID:        uuid.New().String(),
		SiteID:    site.ID,
		Level:     level,
		ParentID:  parentID,
		Name:      name,
		CreatedAt: Date(2024, 1, 1),
	}
}

// Task options
type TaskOption func(*domain.Task)

func WithPlanned(due, end time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = due
		t.EndDate = end
	}
}

func WithStarted(at time.Time) TaskOption {
	return func(t *domain.Task) {
		t.ActualStartDate = &at
	}
}

func WithFinished(at time.Time) TaskOption {
	return func(t *domain.Task) {
		t.ActualEndDate = &at
	}
}

func WithProgress(pct int) TaskOption {
	return func(t *domain.Task) {
		t.Progress = pct
	}
}

func WithPhase(id string) TaskOption {
	return func(t *domain.Task) { t.PhaseID = id }
}

func WithSection(id string) TaskOption {
	return func(t *domain.Task) { t.SectionID = id }
}

func WithSubsection(id string) TaskOption {
	return func(t *domain.Task) { t.SubsectionID = id }
}

func WithDependency(id string) TaskOption {
	return func(t *domain.Task) { t.DependentOnTaskID = id }
}

// NewTestTask builds a task planned for 2024-01-10..2024-01-20 unless
// overridden.
func NewTestTask(siteID, name string, opts ...TaskOption) *domain.Task {
	t := &domain.Task{
		ID:        uuid.New().String(),
		SiteID:    siteID,
		Name:      name,
		DueDate:   Date(2024, 1, 10),
		EndDate:   Date(2024, 1, 20),
		CreatedAt: Date(2024, 1, 1),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewTestSnapshot builds a small populated hierarchy: one site with a phase,
// section and subsection, and one task at each level plus a site-level task.
// One task is in progress and one is finished.
func NewTestSnapshot() *domain.Snapshot {
	site := NewTestSite("North Yard")
	phase := NewTestNode(site, domain.LevelPhase, "", "Groundworks")
	section := NewTestNode(site, domain.LevelSection, phase.ID, "Excavation")
	sub := NewTestNode(site, domain.LevelSubsection, section.ID, "Trenches")

	snap := domain.NewSnapshot()
	snap.Sites = append(snap.Sites, site)
	snap.Phases = append(snap.Phases, phase)
	snap.Sections = append(snap.Sections, section)
	snap.Subsections = append(snap.Subsections, sub)
	snap.Tasks = append(snap.Tasks,
		NewTestTask(site.ID, "Site setup"),
		NewTestTask(site.ID, "Clear ground", WithPhase(phase.ID), WithStarted(Date(2024, 1, 10)), WithProgress(40)),
		NewTestTask(site.ID, "Bulk dig", WithPhase(phase.ID), WithSection(section.ID),
			WithStarted(Date(2024, 1, 10)), WithFinished(Date(2024, 1, 18)), WithProgress(100)),
		NewTestTask(site.ID, "Trench A", WithPhase(phase.ID), WithSection(section.ID), WithSubsection(sub.ID)),
	)
	snap.SelectedSiteID = site.ID
	return snap
}
