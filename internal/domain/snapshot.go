package domain

import "time"

// Snapshot is the full serialised state of the tracker. Field names are part
// of the persisted format and must stay stable.
type Snapshot struct {
	Sites          []*Site          `json:"sites" yaml:"sites"`
	Phases         []*HierarchyNode `json:"phases" yaml:"phases"`
	Sections       []*HierarchyNode `json:"sections" yaml:"sections"`
	Subsections    []*HierarchyNode `json:"subsections" yaml:"subsections"`
	Tasks          []*Task          `json:"tasks" yaml:"tasks"`
	SelectedSiteID string           `json:"selectedSiteId" yaml:"selectedSiteId"`
}

// NewSnapshot returns an empty snapshot with non-nil collections.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Sites:       []*Site{},
		Phases:      []*HierarchyNode{},
		Sections:    []*HierarchyNode{},
		Subsections: []*HierarchyNode{},
		Tasks:       []*Task{},
	}
}

// IsEmpty reports whether the snapshot holds no entities at all.
func (s *Snapshot) IsEmpty() bool {
	return len(s.Sites) == 0 && len(s.Phases) == 0 && len(s.Sections) == 0 &&
		len(s.Subsections) == 0 && len(s.Tasks) == 0
}

// Nodes returns the collection holding nodes of the given level.
func (s *Snapshot) Nodes(level NodeLevel) []*HierarchyNode {
	switch level {
	case LevelPhase:
		return s.Phases
	case LevelSection:
		return s.Sections
	case LevelSubsection:
		return s.Subsections
	}
	return nil
}

// Clone returns a deep copy. A nil snapshot clones to an empty one.
func (s *Snapshot) Clone() *Snapshot {
	out := NewSnapshot()
	if s == nil {
		return out
	}
	out.SelectedSiteID = s.SelectedSiteID
	for _, site := range s.Sites {
		c := *site
		out.Sites = append(out.Sites, &c)
	}
	out.Phases = cloneNodes(s.Phases)
	out.Sections = cloneNodes(s.Sections)
	out.Subsections = cloneNodes(s.Subsections)
	for _, t := range s.Tasks {
		out.Tasks = append(out.Tasks, t.Clone())
	}
	return out
}

func cloneNodes(in []*HierarchyNode) []*HierarchyNode {
	out := make([]*HierarchyNode, 0, len(in))
	for _, n := range in {
		c := *n
		out = append(out, &c)
	}
	return out
}

// Clone returns a copy of the task that shares no pointers with t.
func (t *Task) Clone() *Task {
	c := *t
	c.ActualStartDate = cloneTime(t.ActualStartDate)
	c.ActualEndDate = cloneTime(t.ActualEndDate)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
