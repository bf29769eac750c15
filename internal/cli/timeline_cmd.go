package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/sitetrack/internal/cli/formatter"
	"github.com/alexanderramin/sitetrack/internal/contract"
	"github.com/alexanderramin/sitetrack/internal/service"
	"github.com/spf13/cobra"
)

const (
	msgNoSite    = "Please select or create a site to view its timeline."
	msgEmptySite = "This site has no phases or tasks. Add a phase to get started."
)

// timelineFlags are shared by the commands that read a site's timeline.
type timelineFlags struct {
	site string
	now  time.Time
}

func (f *timelineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.site, "site", "", "Site (default: selected site)")
	dateVar(cmd.Flags(), &f.now, "now", "Evaluate statuses as of this date (default: today)")
}

// loadTimeline fetches the timeline for the flagged site. It returns nil
// without error after printing an empty-state message.
func loadTimeline(cmd *cobra.Command, app *App, f timelineFlags) (*contract.TimelineResponse, error) {
	ctx := cmd.Context()
	req := contract.NewTimelineRequest()
	if app.Config != nil && app.Config.Timeline.ColumnWidth > 0 {
		req.ColumnWidth = app.Config.Timeline.ColumnWidth
	}
	if f.site != "" {
		id, err := resolveSiteID(ctx, app, f.site)
		if err != nil {
			return nil, err
		}
		req.SiteID = id
	}
	if !f.now.IsZero() {
		now := f.now
		req.Now = &now
	}

	resp, err := app.Tracker.Timeline(ctx, req)
	if errors.Is(err, service.ErrNoSiteSelected) {
		fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim(msgNoSite))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !resp.HasContent() {
		fmt.Fprintln(cmd.OutOrStdout(), formatter.Header(resp.Site.Name))
		fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim(msgEmptySite))
		return nil, nil
	}
	return resp, nil
}

// chartWidth picks the rendered width: the flag, else the terminal capped by
// the configured maximum.
func (a *App) chartWidth(flag int) int {
	if flag > 0 {
		return flag
	}
	width := 0
	if a.TerminalWidth != nil {
		width = a.TerminalWidth()
	}
	if a.Config != nil && a.Config.Timeline.MaxWidth > 0 {
		if width == 0 || width > a.Config.Timeline.MaxWidth {
			width = a.Config.Timeline.MaxWidth
		}
	}
	if width == 0 {
		width = formatter.DefaultChartWidth
	}
	return width
}

func newTimelineCmd(app *App) *cobra.Command {
	var f timelineFlags
	var width int
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "timeline",
		Aliases: []string{"gantt"},
		Short:   "Show planned and actual progress for a site as a Gantt chart",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := loadTimeline(cmd, app, f)
			if err != nil || resp == nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(newTimelineJSON(resp))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Header(resp.Site.Name))
			if !resp.HasWindow {
				fmt.Fprint(out, formatter.FormatOutline(resp))
				fmt.Fprintln(out, formatter.Dim("No tasks scheduled yet."))
				return nil
			}
			fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("%s → %s",
				formatter.FormatDate(resp.Window.Start), formatter.FormatDate(resp.Window.End))))
			fmt.Fprint(out, formatter.FormatTimeline(resp, formatter.GanttOptions{
				Width: app.chartWidth(width),
				Now:   resp.Summary.GeneratedAt,
			}))
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().IntVar(&width, "width", 0, "Chart width in cells (default: terminal width)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the computed layout as JSON")

	return cmd
}

type timelineJSON struct {
	SiteID      string            `json:"siteId"`
	SiteName    string            `json:"siteName"`
	Start       *time.Time        `json:"start,omitempty"`
	End         *time.Time        `json:"end,omitempty"`
	ColumnWidth int               `json:"columnWidth"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Counts      map[string]int    `json:"counts"`
	Rows        []timelineRowJSON `json:"rows"`
}

type timelineRowJSON struct {
	Kind     string `json:"kind"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Depth    int    `json:"depth"`
	Offset   int    `json:"offset,omitempty"`
	Width    int    `json:"width,omitempty"`
	Status   string `json:"status,omitempty"`
	Progress *int   `json:"progress,omitempty"`

	ActualOffset *int `json:"actualOffset,omitempty"`
	ActualWidth  *int `json:"actualWidth,omitempty"`
}

func newTimelineJSON(resp *contract.TimelineResponse) timelineJSON {
	out := timelineJSON{
		SiteID:      resp.Site.ID,
		SiteName:    resp.Site.Name,
		ColumnWidth: resp.ColumnWidth,
		GeneratedAt: resp.Summary.GeneratedAt,
		Counts:      make(map[string]int, len(resp.Summary.Counts)),
		Rows:        make([]timelineRowJSON, 0, len(resp.Rows)),
	}
	if resp.HasWindow {
		start, end := resp.Window.Start, resp.Window.End
		out.Start, out.End = &start, &end
	}
	for _, c := range resp.Summary.Counts {
		out.Counts[string(c.Status)] = c.Count
	}
	for _, row := range resp.Rows {
		r := timelineRowJSON{
			Kind:  string(row.Kind),
			ID:    row.ID,
			Name:  row.Name,
			Depth: row.Depth,
		}
		if row.IsTask() {
			progress := row.Progress
			r.Offset, r.Width = row.Offset, row.Width
			r.Status = string(row.Status)
			r.Progress = &progress
			if row.HasActual {
				offset, width := row.Actual.Offset, row.Actual.Width
				r.ActualOffset, r.ActualWidth = &offset, &width
			}
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

func newOutlineCmd(app *App) *cobra.Command {
	var f timelineFlags

	cmd := &cobra.Command{
		Use:   "outline",
		Short: "Show the site hierarchy with task statuses",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := loadTimeline(cmd, app, f)
			if err != nil || resp == nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOutline(resp))
			return nil
		},
	}

	f.register(cmd)

	return cmd
}

func newStatusCmd(app *App) *cobra.Command {
	var f timelineFlags

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Summarise task statuses and list tasks needing attention",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := loadTimeline(cmd, app, f)
			if err != nil || resp == nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatStatus(resp))
			return nil
		},
	}

	f.register(cmd)

	return cmd
}
