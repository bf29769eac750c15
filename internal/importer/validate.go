package importer

import (
	"fmt"

	"github.com/alexanderramin/sitetrack/internal/domain"
)

// Warning describes a reference that does not resolve. Dangling references
// are tolerated at render time, so they never block an import.
type Warning struct {
	Path    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Path, w.Message)
}

// ValidateDocument checks a document for structural problems. Errors block
// the import; warnings are reported alongside it.
func ValidateDocument(doc *Document) ([]error, []Warning) {
	var errs []error
	var warns []Warning

	if doc == nil || doc.State == nil {
		return []error{fmt.Errorf("document has no state")}, nil
	}
	if doc.Version < 0 || doc.Version > DocumentVersion {
		errs = append(errs, fmt.Errorf("unsupported version %d", doc.Version))
	}
	st := doc.State

	siteIDs := make(map[string]bool, len(st.Sites))
	for i, s := range st.Sites {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("sites[%d].id is required", i))
			continue
		}
		if siteIDs[s.ID] {
			errs = append(errs, fmt.Errorf("sites[%d].id %q is duplicated", i, s.ID))
		}
		siteIDs[s.ID] = true
		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("sites[%d]: %w", i, err))
		}
	}

	nodeIDs := map[domain.NodeLevel]map[string]bool{}
	for _, lvl := range []struct {
		level domain.NodeLevel
		key   string
	}{
		{domain.LevelPhase, "phases"},
		{domain.LevelSection, "sections"},
		{domain.LevelSubsection, "subsections"},
	} {
		seen := map[string]bool{}
		nodeIDs[lvl.level] = seen
		for i, n := range st.Nodes(lvl.level) {
			path := fmt.Sprintf("%s[%d]", lvl.key, i)
			if n.ID == "" {
				errs = append(errs, fmt.Errorf("%s.id is required", path))
				continue
			}
			if seen[n.ID] {
				errs = append(errs, fmt.Errorf("%s.id %q is duplicated", path, n.ID))
			}
			seen[n.ID] = true
			if n.Level == "" {
				n.Level = lvl.level
			} else if n.Level != lvl.level {
				errs = append(errs, fmt.Errorf("%s.level %q does not match collection %s", path, n.Level, lvl.key))
			}
			if err := n.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
				continue
			}
			if !siteIDs[n.SiteID] {
				warns = append(warns, Warning{Path: path + ".siteId", Message: fmt.Sprintf("site %q not found", n.SiteID)})
			}
			if lvl.level == domain.LevelPhase {
				continue
			}
			if !nodeIDs[lvl.level.ParentLevel()][n.ParentID] {
				warns = append(warns, Warning{Path: path + ".parentId", Message: fmt.Sprintf("%s %q not found", lvl.level.ParentLevel(), n.ParentID)})
			}
		}
	}

	taskIDs := make(map[string]bool, len(st.Tasks))
	for i, t := range st.Tasks {
		if t.ID == "" {
			errs = append(errs, fmt.Errorf("tasks[%d].id is required", i))
			continue
		}
		if taskIDs[t.ID] {
			errs = append(errs, fmt.Errorf("tasks[%d].id %q is duplicated", i, t.ID))
		}
		taskIDs[t.ID] = true
	}
	for i, t := range st.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if err := t.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		if !siteIDs[t.SiteID] {
			warns = append(warns, Warning{Path: path + ".siteId", Message: fmt.Sprintf("site %q not found", t.SiteID)})
		}
		for _, ref := range []struct {
			level domain.NodeLevel
			id    string
			key   string
		}{
			{domain.LevelPhase, t.PhaseID, "phaseId"},
			{domain.LevelSection, t.SectionID, "sectionId"},
			{domain.LevelSubsection, t.SubsectionID, "subsectionId"},
		} {
			if ref.id != "" && !nodeIDs[ref.level][ref.id] {
				warns = append(warns, Warning{Path: path + "." + ref.key, Message: fmt.Sprintf("%s %q not found", ref.level, ref.id)})
			}
		}
		if t.DependentOnTaskID != "" {
			switch {
			case t.DependentOnTaskID == t.ID:
				errs = append(errs, fmt.Errorf("%s.dependentOnTaskId references itself", path))
			case !taskIDs[t.DependentOnTaskID]:
				warns = append(warns, Warning{Path: path + ".dependentOnTaskId", Message: fmt.Sprintf("task %q not found", t.DependentOnTaskID)})
			}
		}
	}

	if st.SelectedSiteID != "" && !siteIDs[st.SelectedSiteID] {
		warns = append(warns, Warning{Path: "selectedSiteId", Message: fmt.Sprintf("site %q not found", st.SelectedSiteID)})
	}
	return errs, warns
}
