package store

import (
	"fmt"

	"github.com/alexanderramin/sitetrack/internal/domain"
)

func (s *Store) AddPhase(siteID, name string) (*domain.HierarchyNode, error) {
	if s.findSite(siteID) == nil {
		return nil, fmt.Errorf("adding phase: site %q: %w", siteID, ErrSiteNotFound)
	}
	return s.addNode(domain.LevelPhase, siteID, siteID, name)
}

func (s *Store) AddSection(phaseID, name string) (*domain.HierarchyNode, error) {
	phase := s.findNode(domain.LevelPhase, phaseID)
	if phase == nil {
		return nil, fmt.Errorf("adding section: phase %q: %w", phaseID, ErrNodeNotFound)
	}
	return s.addNode(domain.LevelSection, phase.SiteID, phase.ID, name)
}

func (s *Store) AddSubsection(sectionID, name string) (*domain.HierarchyNode, error) {
	section := s.findNode(domain.LevelSection, sectionID)
	if section == nil {
		return nil, fmt.Errorf("adding subsection: section %q: %w", sectionID, ErrNodeNotFound)
	}
	return s.addNode(domain.LevelSubsection, section.SiteID, section.ID, name)
}

func (s *Store) addNode(level domain.NodeLevel, siteID, parentID, name string) (*domain.HierarchyNode, error) {
	n := &domain.HierarchyNode{
		ID:        s.newID(),
		SiteID:    siteID,
		Level:     level,
		ParentID:  parentID,
		Name:      name,
		CreatedAt: s.now(),
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	switch level {
	case domain.LevelPhase:
		s.state.Phases = append(s.state.Phases, n)
	case domain.LevelSection:
		s.state.Sections = append(s.state.Sections, n)
	case domain.LevelSubsection:
		s.state.Subsections = append(s.state.Subsections, n)
	}
	c := *n
	return &c, nil
}

// Node looks up a phase, section or subsection by ID.
func (s *Store) Node(level domain.NodeLevel, id string) (*domain.HierarchyNode, error) {
	n := s.findNode(level, id)
	if n == nil {
		return nil, fmt.Errorf("%s %q: %w", level, id, ErrNodeNotFound)
	}
	c := *n
	return &c, nil
}

// NodesForSite lists the nodes of one level belonging to a site, in
// insertion order.
func (s *Store) NodesForSite(level domain.NodeLevel, siteID string) []*domain.HierarchyNode {
	var out []*domain.HierarchyNode
	for _, n := range s.state.Nodes(level) {
		if n.SiteID == siteID {
			c := *n
			out = append(out, &c)
		}
	}
	return out
}

func (s *Store) findNode(level domain.NodeLevel, id string) *domain.HierarchyNode {
	if id == "" {
		return nil
	}
	for _, n := range s.state.Nodes(level) {
		if n.ID == id {
			return n
		}
	}
	return nil
}
