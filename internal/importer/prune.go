package importer

import (
	"fmt"

	"github.com/alexanderramin/sitetrack/internal/domain"
)

// PruneOrphans removes records from doc.State that can never be shown and
// reports each removal as a warning:
//
//   - tasks with neither a due date nor an end date (hierarchy placeholders
//     saved by the browser app)
//   - nodes and tasks whose site cannot be resolved, directly or through
//     their parents
//   - nodes and tasks hanging under a node removed here
//
// A node or task without a site inherits it from the nearest surviving
// parent. Warning paths use the indexes of the document as given.
func PruneOrphans(doc *Document) []Warning {
	if doc == nil || doc.State == nil {
		return nil
	}
	st := doc.State
	var warns []Warning

	sites := make(map[string]bool, len(st.Sites))
	for _, s := range st.Sites {
		if s.ID != "" {
			sites[s.ID] = true
		}
	}

	kept := map[domain.NodeLevel]map[string]*domain.HierarchyNode{}
	dropped := map[domain.NodeLevel]map[string]bool{}
	pruneLevel := func(level domain.NodeLevel, key string, nodes []*domain.HierarchyNode) []*domain.HierarchyNode {
		kept[level] = map[string]*domain.HierarchyNode{}
		dropped[level] = map[string]bool{}
		out := nodes[:0]
		for i, n := range nodes {
			path := fmt.Sprintf("%s[%d]", key, i)
			if parent := level.ParentLevel(); parent != "" && dropped[parent][n.ParentID] {
				markDropped(dropped[level], n.ID)
				warns = append(warns, Warning{Path: path, Message: fmt.Sprintf("%s %q dropped with its %s", level, n.Name, parent)})
				continue
			}
			if n.SiteID == "" && level != domain.LevelPhase {
				if parent := kept[level.ParentLevel()][n.ParentID]; parent != nil {
					n.SiteID = parent.SiteID
				}
			}
			if level == domain.LevelPhase && n.ParentID == "" {
				n.ParentID = n.SiteID
			}
			if !sites[n.SiteID] {
				markDropped(dropped[level], n.ID)
				warns = append(warns, Warning{Path: path, Message: fmt.Sprintf("%s %q dropped: %s", level, n.Name, siteProblem(n.SiteID))})
				continue
			}
			if n.ID != "" {
				kept[level][n.ID] = n
			}
			out = append(out, n)
		}
		return out
	}
	st.Phases = pruneLevel(domain.LevelPhase, "phases", st.Phases)
	st.Sections = pruneLevel(domain.LevelSection, "sections", st.Sections)
	st.Subsections = pruneLevel(domain.LevelSubsection, "subsections", st.Subsections)

	tasks := st.Tasks[:0]
	for i, t := range st.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if t.DueDate.IsZero() && t.EndDate.IsZero() {
			warns = append(warns, Warning{Path: path, Message: fmt.Sprintf("placeholder %q without dates dropped", t.Name)})
			continue
		}
		if dropped[domain.LevelPhase][t.PhaseID] || dropped[domain.LevelSection][t.SectionID] || dropped[domain.LevelSubsection][t.SubsectionID] {
			warns = append(warns, Warning{Path: path, Message: fmt.Sprintf("task %q dropped with its parent", t.Name)})
			continue
		}
		if t.SiteID == "" {
			t.SiteID = inheritedSite(kept, t)
		}
		if !sites[t.SiteID] {
			warns = append(warns, Warning{Path: path, Message: fmt.Sprintf("task %q dropped: %s", t.Name, siteProblem(t.SiteID))})
			continue
		}
		tasks = append(tasks, t)
	}
	st.Tasks = tasks
	return warns
}

func markDropped(set map[string]bool, id string) {
	if id != "" {
		set[id] = true
	}
}

func inheritedSite(kept map[domain.NodeLevel]map[string]*domain.HierarchyNode, t *domain.Task) string {
	for _, ref := range []struct {
		level domain.NodeLevel
		id    string
	}{
		{domain.LevelSubsection, t.SubsectionID},
		{domain.LevelSection, t.SectionID},
		{domain.LevelPhase, t.PhaseID},
	} {
		if n := kept[ref.level][ref.id]; n != nil {
			return n.SiteID
		}
	}
	return ""
}

func siteProblem(siteID string) string {
	if siteID == "" {
		return "no site"
	}
	return fmt.Sprintf("site %q not found", siteID)
}
