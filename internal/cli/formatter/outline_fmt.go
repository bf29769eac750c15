package formatter

import (
	"fmt"

	"github.com/alexanderramin/sitetrack/internal/contract"
	"github.com/alexanderramin/sitetrack/internal/outline"
)

// FormatOutline renders the site hierarchy with a status pill per task.
func FormatOutline(resp *contract.TimelineResponse) string {
	items := []TreeItem{{Title: StyleHeader.Render(resp.Site.Name), Detail: resp.Site.DisplayID()}}
	for _, row := range resp.Rows {
		items = append(items, OutlineItem(row))
	}
	return RenderTree(items)
}

// OutlineItem converts one timeline row to a tree line.
func OutlineItem(row contract.TimelineRow) TreeItem {
	item := TreeItem{Level: row.Depth, IsLast: row.IsLast}
	if !row.IsTask() {
		item.Title = StyleBold.Render(row.Name)
		item.Detail = string(row.Kind)
		return item
	}
	item.Title = row.Name + " " + StatusPill(row.Status)
	t := row.Task
	if t != nil {
		item.Detail = fmt.Sprintf("%s → %s  %d%%", FormatDate(t.DueDate), FormatDate(t.EndDate), t.Progress)
	}
	return item
}

// BranchIcon marks collapsed and expanded branches in the interactive outline.
func BranchIcon(kind outline.RowKind, expanded bool) string {
	if kind == outline.RowTask {
		return ""
	}
	if expanded {
		return StyleDim.Render("▾ ")
	}
	return StyleDim.Render("▸ ")
}
