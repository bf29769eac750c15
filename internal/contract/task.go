package contract

import "time"

type CreateTaskRequest struct {
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

// ImportResult summarises a snapshot import.
type ImportResult struct {
	Sites       int
	Phases      int
	Sections    int
	Subsections int
	Tasks       int
	Warnings    []string
}
