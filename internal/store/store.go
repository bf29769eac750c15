// Package store holds the tracker hierarchy in memory and exposes the named
// operations that are the only way to change it.
package store

import (
	"fmt"
	"time"

	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/google/uuid"
)

// Store is the in-memory hierarchy. It is not safe for concurrent use; the
// tracker runs a single session.
type Store struct {
	state *domain.Snapshot
	newID func() string
	now   func() time.Time
}

type Option func(*Store)

// WithIDFunc overrides ID generation.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithClock overrides the clock used for CreatedAt stamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.now = fn }
}

// New returns a store seeded with a copy of snap. A nil snapshot starts empty.
func New(snap *domain.Snapshot, opts ...Option) *Store {
	s := &Store{
		state: snap.Clone(),
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *domain.Snapshot {
	return s.state.Clone()
}

// Replace swaps the whole state for a copy of snap.
func (s *Store) Replace(snap *domain.Snapshot) {
	s.state = snap.Clone()
}

// --- Sites ---

func (s *Store) AddSite(name string) (*domain.Site, error) {
	site := &domain.Site{ID: s.newID(), Name: name, CreatedAt: s.now()}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	s.state.Sites = append(s.state.Sites, site)
	return cloneSite(site), nil
}

func (s *Store) Site(id string) (*domain.Site, error) {
	site := s.findSite(id)
	if site == nil {
		return nil, fmt.Errorf("site %q: %w", id, ErrSiteNotFound)
	}
	return cloneSite(site), nil
}

func (s *Store) Sites() []*domain.Site {
	out := make([]*domain.Site, 0, len(s.state.Sites))
	for _, site := range s.state.Sites {
		out = append(out, cloneSite(site))
	}
	return out
}

func (s *Store) SelectedSiteID() string {
	return s.state.SelectedSiteID
}

// SelectSite marks the site whose timeline is shown by default.
func (s *Store) SelectSite(id string) error {
	if s.findSite(id) == nil {
		return fmt.Errorf("selecting site %q: %w", id, ErrSiteNotFound)
	}
	s.state.SelectedSiteID = id
	return nil
}

// EnsureSelection selects the first site when the current selection is empty
// or points at a site that no longer exists. It reports whether the
// selection changed.
func (s *Store) EnsureSelection() bool {
	if s.state.SelectedSiteID != "" && s.findSite(s.state.SelectedSiteID) != nil {
		return false
	}
	next := ""
	if len(s.state.Sites) > 0 {
		next = s.state.Sites[0].ID
	}
	changed := next != s.state.SelectedSiteID
	s.state.SelectedSiteID = next
	return changed
}

// DeleteSite removes the site and everything that hangs off it, directly by
// site ID or indirectly through a parent chain rooted at the site.
func (s *Store) DeleteSite(id string) error {
	if s.findSite(id) == nil {
		return fmt.Errorf("deleting site %q: %w", id, ErrSiteNotFound)
	}

	gone := map[string]bool{id: true}
	s.state.Sites = filter(s.state.Sites, func(x *domain.Site) bool { return x.ID != id })

	keepNode := func(n *domain.HierarchyNode) bool {
		if n.SiteID == id || gone[n.ParentID] {
			gone[n.ID] = true
			return false
		}
		return true
	}
	s.state.Phases = filter(s.state.Phases, keepNode)
	s.state.Sections = filter(s.state.Sections, keepNode)
	s.state.Subsections = filter(s.state.Subsections, keepNode)

	s.state.Tasks = filter(s.state.Tasks, func(t *domain.Task) bool {
		return t.SiteID != id && !gone[t.PhaseID] && !gone[t.SectionID] && !gone[t.SubsectionID]
	})

	if s.state.SelectedSiteID == id {
		s.state.SelectedSiteID = ""
	}
	return nil
}

func (s *Store) findSite(id string) *domain.Site {
	for _, site := range s.state.Sites {
		if site.ID == id {
			return site
		}
	}
	return nil
}

func cloneSite(site *domain.Site) *domain.Site {
	c := *site
	return &c
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
