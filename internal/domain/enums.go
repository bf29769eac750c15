package domain

type NodeLevel string

const (
	LevelPhase      NodeLevel = "phase"
	LevelSection    NodeLevel = "section"
	LevelSubsection NodeLevel = "subsection"
)

// ValidNodeLevels is the canonical set of accepted hierarchy level strings.
var ValidNodeLevels = map[string]bool{
	"phase": true, "section": true, "subsection": true,
}

// ParentLevel returns the level a node of this level hangs under.
// Phases hang directly under a site, reported as "".
func (l NodeLevel) ParentLevel() NodeLevel {
	switch l {
	case LevelSection:
		return LevelPhase
	case LevelSubsection:
		return LevelSection
	default:
		return ""
	}
}

type ScheduleStatus string

const (
	StatusFinished          ScheduleStatus = "finished"
	StatusStartedAhead      ScheduleStatus = "started-ahead"
	StatusStartedBehind     ScheduleStatus = "started-behind"
	StatusStartedOnProgram  ScheduleStatus = "started-on-program"
	StatusNotStartedPastDue ScheduleStatus = "not-started-past-due"
	StatusNotStartedNotDue  ScheduleStatus = "not-started-not-due"
)

// AllScheduleStatuses lists every status in display order.
var AllScheduleStatuses = []ScheduleStatus{
	StatusFinished,
	StatusStartedAhead,
	StatusStartedOnProgram,
	StatusStartedBehind,
	StatusNotStartedPastDue,
	StatusNotStartedNotDue,
}

// Started reports whether the status belongs to an in-flight task.
func (s ScheduleStatus) Started() bool {
	switch s {
	case StatusStartedAhead, StatusStartedBehind, StatusStartedOnProgram:
		return true
	}
	return false
}
