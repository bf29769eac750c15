package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of a tree display. Items must arrive in depth-first
// order; Level 0 is the root.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	// Marker is an optional styled prefix placed before the title.
	Marker string
	// Detail is shown as a right-aligned badge.
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeSpace  = "   "
)

// RenderTree draws items with box-drawing connectors. A finished ancestor
// branch stops drawing its vertical pipe.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	badges := make([]string, len(items))
	widest := 0
	// closed[i] is true once the ancestor at level i+1 was the last child.
	var closed []bool

	for idx, item := range items {
		var prefix strings.Builder
		if item.Level > 0 {
			for len(closed) < item.Level {
				closed = append(closed, false)
			}
			closed = closed[:item.Level]
			for i := 0; i < item.Level-1; i++ {
				if closed[i] {
					prefix.WriteString(treeSpace)
				} else {
					prefix.WriteString(treePipe)
				}
			}
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
			closed[item.Level-1] = item.IsLast
		}

		content := StyleDim.Render(prefix.String()) + item.Marker + item.Title
		contents[idx] = content
		if item.Detail != "" {
			badges[idx] = StyleBlue.Render("[ " + item.Detail + " ]")
		}
		widest = max(widest, lipgloss.Width(content))
	}

	var b strings.Builder
	for i, content := range contents {
		b.WriteString(content)
		if badges[i] != "" {
			b.WriteString(strings.Repeat(" ", widest-lipgloss.Width(content)+2))
			b.WriteString(badges[i])
		}
		b.WriteString("\n")
	}
	return b.String()
}
