// Package outline arranges a site's flat task list into the
// Phase -> Section -> Subsection tree shown by the outline and timeline.
package outline

import "github.com/alexanderramin/sitetrack/internal/domain"

type GroupInput struct {
	Site        *domain.Site
	Phases      []*domain.HierarchyNode
	Sections    []*domain.HierarchyNode
	Subsections []*domain.HierarchyNode
	Tasks       []*domain.Task
}

type Tree struct {
	Site      *domain.Site
	SiteTasks []*domain.Task
	Phases    []*PhaseBranch
}

type PhaseBranch struct {
	Node     *domain.HierarchyNode
	Tasks    []*domain.Task
	Sections []*SectionBranch
}

type SectionBranch struct {
	Node        *domain.HierarchyNode
	Tasks       []*domain.Task
	Subsections []*SubsectionBranch
}

type SubsectionBranch struct {
	Node  *domain.HierarchyNode
	Tasks []*domain.Task
}

// Group builds the display tree for one site. Branches exist exactly for the
// nodes present in the input, including ones without tasks. A task attaches
// at its lowest referenced level; a reference to a node that is not in the
// tree falls back to the next level up, and finally to the site.
// Input order is preserved at every level.
func Group(in GroupInput) *Tree {
	tree := &Tree{Site: in.Site}

	phases := make(map[string]*PhaseBranch, len(in.Phases))
	for _, n := range in.Phases {
		if !belongs(in.Site, n.SiteID) {
			continue
		}
		b := &PhaseBranch{Node: n}
		phases[n.ID] = b
		tree.Phases = append(tree.Phases, b)
	}

	sections := make(map[string]*SectionBranch, len(in.Sections))
	for _, n := range in.Sections {
		parent, ok := phases[n.ParentID]
		if !ok {
			continue
		}
		b := &SectionBranch{Node: n}
		sections[n.ID] = b
		parent.Sections = append(parent.Sections, b)
	}

	subsections := make(map[string]*SubsectionBranch, len(in.Subsections))
	for _, n := range in.Subsections {
		parent, ok := sections[n.ParentID]
		if !ok {
			continue
		}
		b := &SubsectionBranch{Node: n}
		subsections[n.ID] = b
		parent.Subsections = append(parent.Subsections, b)
	}

	for _, t := range in.Tasks {
		if !belongs(in.Site, t.SiteID) {
			continue
		}
		if b, ok := subsections[t.SubsectionID]; ok && t.SubsectionID != "" {
			b.Tasks = append(b.Tasks, t)
			continue
		}
		if b, ok := sections[t.SectionID]; ok && t.SectionID != "" {
			b.Tasks = append(b.Tasks, t)
			continue
		}
		if b, ok := phases[t.PhaseID]; ok && t.PhaseID != "" {
			b.Tasks = append(b.Tasks, t)
			continue
		}
		tree.SiteTasks = append(tree.SiteTasks, t)
	}

	return tree
}

func belongs(site *domain.Site, siteID string) bool {
	return site == nil || site.ID == siteID
}

// IsEmpty reports whether the tree has neither phases nor tasks.
func (t *Tree) IsEmpty() bool {
	return len(t.Phases) == 0 && len(t.SiteTasks) == 0
}

// Tasks returns every task in display order.
func (t *Tree) Tasks() []*domain.Task {
	var out []*domain.Task
	t.Walk(func(r Row) {
		if r.Task != nil {
			out = append(out, r.Task)
		}
	})
	return out
}
