package outline

import "github.com/alexanderramin/sitetrack/internal/domain"

type RowKind string

const (
	RowPhase      RowKind = "phase"
	RowSection    RowKind = "section"
	RowSubsection RowKind = "subsection"
	RowTask       RowKind = "task"
)

// Row is one line of a flattened tree.
type Row struct {
	Kind   RowKind
	Depth  int
	Node   *domain.HierarchyNode // nil for task rows
	Task   *domain.Task          // nil for node rows
	IsLast bool                  // last child of its parent
}

// ID returns the node or task ID carried by the row.
func (r Row) ID() string {
	if r.Task != nil {
		return r.Task.ID
	}
	if r.Node != nil {
		return r.Node.ID
	}
	return ""
}

// Walk visits the tree depth first. Site-level tasks come first, then each
// phase with its direct tasks ahead of its sections.
func (t *Tree) Walk(fn func(Row)) {
	siteChildren := len(t.SiteTasks) + len(t.Phases)
	i := 0
	for _, task := range t.SiteTasks {
		i++
		fn(Row{Kind: RowTask, Depth: 1, Task: task, IsLast: i == siteChildren})
	}
	for _, p := range t.Phases {
		i++
		fn(Row{Kind: RowPhase, Depth: 1, Node: p.Node, IsLast: i == siteChildren})
		walkPhase(p, fn)
	}
}

func walkPhase(p *PhaseBranch, fn func(Row)) {
	total := len(p.Tasks) + len(p.Sections)
	i := 0
	for _, task := range p.Tasks {
		i++
		fn(Row{Kind: RowTask, Depth: 2, Task: task, IsLast: i == total})
	}
	for _, s := range p.Sections {
		i++
		fn(Row{Kind: RowSection, Depth: 2, Node: s.Node, IsLast: i == total})
		walkSection(s, fn)
	}
}

func walkSection(s *SectionBranch, fn func(Row)) {
	total := len(s.Tasks) + len(s.Subsections)
	i := 0
	for _, task := range s.Tasks {
		i++
		fn(Row{Kind: RowTask, Depth: 3, Task: task, IsLast: i == total})
	}
	for _, sub := range s.Subsections {
		i++
		fn(Row{Kind: RowSubsection, Depth: 3, Node: sub.Node, IsLast: i == total})
		for j, task := range sub.Tasks {
			fn(Row{Kind: RowTask, Depth: 4, Task: task, IsLast: j == len(sub.Tasks)-1})
		}
	}
}

// Rows returns the flattened tree.
func (t *Tree) Rows() []Row {
	var rows []Row
	t.Walk(func(r Row) { rows = append(rows, r) })
	return rows
}

// Counts tallies the statuses of every task in the tree.
func (t *Tree) Counts(classify func(*domain.Task) domain.ScheduleStatus) map[domain.ScheduleStatus]int {
	counts := make(map[domain.ScheduleStatus]int)
	t.Walk(func(r Row) {
		if r.Task != nil {
			counts[classify(r.Task)]++
		}
	})
	return counts
}
