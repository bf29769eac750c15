package domain

import (
	"fmt"
	"strings"
	"time"
)

// HierarchyNode is a purely organisational level beneath a site. It never
// carries dates; only tasks are scheduled.
type HierarchyNode struct {
	ID     string    `json:"id" yaml:"id"`
	SiteID string    `json:"siteId" yaml:"siteId"`
	Level  NodeLevel `json:"level" yaml:"level"`
	// ParentID is the phase for a section and the section for a subsection.
	// Phases point at their site.
	ParentID  string    `json:"parentId" yaml:"parentId"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

func (n *HierarchyNode) Validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return fmt.Errorf("%s name is required", n.levelLabel())
	}
	if !ValidNodeLevels[string(n.Level)] {
		return fmt.Errorf("invalid hierarchy level %q", n.Level)
	}
	if n.SiteID == "" {
		return fmt.Errorf("%s must belong to a site", n.levelLabel())
	}
	if n.ParentID == "" {
		return fmt.Errorf("%s parent is required", n.levelLabel())
	}
	return nil
}

func (n *HierarchyNode) DisplayID() string {
	return shortID(n.ID)
}

func (n *HierarchyNode) levelLabel() string {
	if n.Level == "" {
		return "node"
	}
	return string(n.Level)
}
