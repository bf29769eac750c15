package importer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/sitetrack/internal/domain"
)

// legacyState mirrors the browser app's storage blob. Dates are strings as
// typed into date inputs, nodes link to their parent through a
// level-specific key, and progress may be a number or a numeric string.
type legacyState struct {
	Sites []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"sites"`
	Phases []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		SiteID string `json:"siteId"`
	} `json:"phases"`
	Sections []struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		PhaseID string `json:"phaseId"`
		SiteID  string `json:"siteId"`
	} `json:"sections"`
	Subsections []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		SectionID string `json:"sectionId"`
		SiteID    string `json:"siteId"`
	} `json:"subsections"`
	Tasks          []legacyTask `json:"tasks"`
	SelectedSiteID *string      `json:"selectedSiteId"`
}

type legacyTask struct {
	ID                string  `json:"id"`
	SiteID            string  `json:"siteId"`
	TaskName          string  `json:"taskName"`
	PhaseID           *string `json:"phaseId"`
	SectionID         *string `json:"sectionId"`
	SubsectionID      *string `json:"subsectionId"`
	DueDate           *string `json:"dueDate"`
	EndDate           *string `json:"endDate"`
	ActualStartDate   *string `json:"actualStartDate"`
	ActualEndDate     *string `json:"actualEndDate"`
	Progress          flexInt `json:"progress"`
	DependentOnTaskID *string `json:"dependentOnTaskId"`
}

type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("progress %s is not a number", string(b))
	}
	*f = flexInt(v)
	return nil
}

var legacyDateLayouts = []string{"2006-01-02", time.RFC3339Nano, "2006-01-02T15:04"}

func parseLegacyDate(s string) (time.Time, error) {
	for _, layout := range legacyDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ConvertLegacy turns a browser-storage blob into a snapshot. Site IDs for
// sections and subsections are inherited from their parents when absent.
func ConvertLegacy(data []byte) (*domain.Snapshot, error) {
	var in legacyState
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parsing legacy state: %w", err)
	}

	snap := domain.NewSnapshot()
	for _, s := range in.Sites {
		snap.Sites = append(snap.Sites, &domain.Site{ID: s.ID, Name: s.Name})
	}

	phaseSite := map[string]string{}
	for _, p := range in.Phases {
		phaseSite[p.ID] = p.SiteID
		snap.Phases = append(snap.Phases, &domain.HierarchyNode{
			ID: p.ID, SiteID: p.SiteID, ParentID: p.SiteID, Level: domain.LevelPhase, Name: p.Name,
		})
	}
	sectionSite := map[string]string{}
	for _, s := range in.Sections {
		site := domain.CoalesceStr(s.SiteID, phaseSite[s.PhaseID])
		sectionSite[s.ID] = site
		snap.Sections = append(snap.Sections, &domain.HierarchyNode{
			ID: s.ID, SiteID: site, ParentID: s.PhaseID, Level: domain.LevelSection, Name: s.Name,
		})
	}
	for _, s := range in.Subsections {
		snap.Subsections = append(snap.Subsections, &domain.HierarchyNode{
			ID: s.ID, SiteID: domain.CoalesceStr(s.SiteID, sectionSite[s.SectionID]), ParentID: s.SectionID,
			Level: domain.LevelSubsection, Name: s.Name,
		})
	}

	for i, lt := range in.Tasks {
		t := &domain.Task{
			ID:                lt.ID,
			SiteID:            lt.SiteID,
			Name:              lt.TaskName,
			PhaseID:           deref(lt.PhaseID),
			SectionID:         deref(lt.SectionID),
			SubsectionID:      deref(lt.SubsectionID),
			Progress:          int(lt.Progress),
			DependentOnTaskID: deref(lt.DependentOnTaskID),
		}
		var err error
		if d := deref(lt.DueDate); d != "" {
			if t.DueDate, err = parseLegacyDate(d); err != nil {
				return nil, fmt.Errorf("tasks[%d].dueDate: %w", i, err)
			}
		}
		if d := deref(lt.EndDate); d != "" {
			if t.EndDate, err = parseLegacyDate(d); err != nil {
				return nil, fmt.Errorf("tasks[%d].endDate: %w", i, err)
			}
		}
		for _, f := range []struct {
			src *string
			dst **time.Time
			key string
		}{
			{lt.ActualStartDate, &t.ActualStartDate, "actualStartDate"},
			{lt.ActualEndDate, &t.ActualEndDate, "actualEndDate"},
		} {
			if d := deref(f.src); d != "" {
				parsed, err := parseLegacyDate(d)
				if err != nil {
					return nil, fmt.Errorf("tasks[%d].%s: %w", i, f.key, err)
				}
				*f.dst = &parsed
			}
		}
		snap.Tasks = append(snap.Tasks, t)
	}

	snap.SelectedSiteID = deref(in.SelectedSiteID)
	return snap, nil
}
