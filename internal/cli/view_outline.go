package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sitetrack/internal/cli/formatter"
	"github.com/alexanderramin/sitetrack/internal/contract"
	"github.com/alexanderramin/sitetrack/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// progressStep is how far +/- move a task's declared progress.
const progressStep = 10

// outlineLoadedMsg carries a freshly built timeline.
type outlineLoadedMsg struct {
	resp *contract.TimelineResponse
	// notice is shown in the footer, e.g. an unsaved change warning.
	notice string
	err    error
}

type outlineKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Start    key.Binding
	Finish   key.Binding
	More     key.Binding
	Less     key.Binding
	Refresh  key.Binding
	Quit     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

func newOutlineKeyMap() outlineKeyMap {
	return outlineKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:   key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter", "expand/collapse")),
		Start:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Finish:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish")),
		More:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "progress")),
		Less:     key.NewBinding(key.WithKeys("-")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
	}
}

func (k outlineKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Start, k.Finish, k.More, k.Refresh, k.Quit}
}

func (k outlineKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// outlineView is an interactive, collapsible site outline.
type outlineView struct {
	ctx     context.Context
	tracker service.TrackerService
	req     contract.TimelineRequest

	keys     outlineKeyMap
	help     help.Model
	viewport viewport.Model
	ready    bool

	resp      *contract.TimelineResponse
	collapsed map[string]bool
	cursor    int
	loading   bool
	notice    string
	err       error
	quitting  bool
}

func newOutlineView(ctx context.Context, tracker service.TrackerService, req contract.TimelineRequest) *outlineView {
	return &outlineView{
		ctx:       ctx,
		tracker:   tracker,
		req:       req,
		keys:      newOutlineKeyMap(),
		help:      help.New(),
		collapsed: make(map[string]bool),
		loading:   true,
	}
}

func (v *outlineView) Init() tea.Cmd {
	return v.load("")
}

func (v *outlineView) load(notice string) tea.Cmd {
	ctx, tracker, req := v.ctx, v.tracker, v.req
	return func() tea.Msg {
		resp, err := tracker.Timeline(ctx, req)
		return outlineLoadedMsg{resp: resp, notice: notice, err: err}
	}
}

// mutate runs a task change and reloads. An unsaved change is kept and
// reported in the footer.
func (v *outlineView) mutate(fn func(ctx context.Context) error) tea.Cmd {
	ctx, tracker, req := v.ctx, v.tracker, v.req
	return func() tea.Msg {
		err := fn(ctx)
		notice := ""
		if err != nil {
			if !service.IsUnpersisted(err) {
				return outlineLoadedMsg{notice: "Error: " + err.Error()}
			}
			notice = "Warning: " + err.Error()
		}
		resp, err := tracker.Timeline(ctx, req)
		return outlineLoadedMsg{resp: resp, notice: notice, err: err}
	}
}

const outlineFooterHeight = 4

func (v *outlineView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		height := max(msg.Height-outlineFooterHeight, 1)
		if !v.ready {
			v.viewport = viewport.New(msg.Width, height)
			v.ready = true
		} else {
			v.viewport.Width, v.viewport.Height = msg.Width, height
		}
		v.help.Width = msg.Width
		v.refreshContent()
		return v, nil

	case outlineLoadedMsg:
		v.loading = false
		v.notice = msg.notice
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		if msg.resp != nil {
			v.err = nil
			v.resp = msg.resp
			v.cursor = min(v.cursor, max(len(v.visibleRows())-1, 0))
		}
		v.refreshContent()
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *outlineView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, v.keys.Quit) {
		v.quitting = true
		return v, tea.Quit
	}
	if v.resp == nil {
		return v, nil
	}

	visible := v.visibleRows()
	var current *contract.TimelineRow
	if v.cursor < len(visible) {
		current = &visible[v.cursor]
	}

	switch {
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(visible)-1 {
			v.cursor++
		}
	case key.Matches(msg, v.keys.PageUp):
		v.viewport.SetYOffset(v.viewport.YOffset - v.viewport.Height)
		return v, nil
	case key.Matches(msg, v.keys.PageDown):
		v.viewport.SetYOffset(v.viewport.YOffset + v.viewport.Height)
		return v, nil
	case key.Matches(msg, v.keys.Toggle):
		if current != nil && !current.IsTask() {
			v.collapsed[current.ID] = !v.collapsed[current.ID]
		}
	case key.Matches(msg, v.keys.Refresh):
		v.loading = true
		return v, v.load("")
	case key.Matches(msg, v.keys.Start):
		if current != nil && current.IsTask() {
			id := current.ID
			return v, v.mutate(func(ctx context.Context) error {
				_, err := v.tracker.StartTask(ctx, id, v.now())
				return err
			})
		}
	case key.Matches(msg, v.keys.Finish):
		if current != nil && current.IsTask() {
			id := current.ID
			return v, v.mutate(func(ctx context.Context) error {
				_, err := v.tracker.FinishTask(ctx, id, v.now())
				return err
			})
		}
	case key.Matches(msg, v.keys.More), key.Matches(msg, v.keys.Less):
		if current != nil && current.IsTask() {
			id := current.ID
			pct := current.Progress + progressStep
			if key.Matches(msg, v.keys.Less) {
				pct = current.Progress - progressStep
			}
			pct = min(max(pct, 0), 100)
			return v, v.mutate(func(ctx context.Context) error {
				_, err := v.tracker.UpdateProgress(ctx, id, pct)
				return err
			})
		}
	}
	v.refreshContent()
	return v, nil
}

// now is the evaluation date of the loaded timeline. Actions recorded from
// the outline use it so that --now browsing stays consistent.
func (v *outlineView) now() time.Time {
	if v.req.Now != nil {
		return *v.req.Now
	}
	return time.Time{}
}

// visibleRows drops every row beneath a collapsed node.
func (v *outlineView) visibleRows() []contract.TimelineRow {
	if v.resp == nil {
		return nil
	}
	var visible []contract.TimelineRow
	hiddenBelow := -1
	for _, r := range v.resp.Rows {
		if hiddenBelow >= 0 {
			if r.Depth > hiddenBelow {
				continue
			}
			hiddenBelow = -1
		}
		if !r.IsTask() && v.collapsed[r.ID] {
			hiddenBelow = r.Depth
		}
		visible = append(visible, r)
	}
	return visible
}

func (v *outlineView) refreshContent() {
	if !v.ready {
		return
	}
	v.viewport.SetContent(v.renderRows())
	// Keep the cursor line on screen below the two-line site header.
	line := v.cursor + 2
	if line < v.viewport.YOffset {
		v.viewport.SetYOffset(line)
	} else if line >= v.viewport.YOffset+v.viewport.Height {
		v.viewport.SetYOffset(line - v.viewport.Height + 1)
	}
}

func (v *outlineView) renderRows() string {
	if v.resp == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(formatter.Header(v.resp.Site.Name) + "\n")
	visible := v.visibleRows()
	if len(visible) == 0 {
		b.WriteString(formatter.Dim(msgEmptySite) + "\n")
		return b.String()
	}
	for i, row := range visible {
		cursor := "  "
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
		}
		indent := strings.Repeat("  ", max(row.Depth-1, 0))
		var line string
		if row.IsTask() {
			line = fmt.Sprintf("%s%s%s %s %s", cursor, indent, row.Name,
				formatter.RenderProgress(row.Progress, 8), formatter.StatusPill(row.Status))
		} else {
			line = cursor + indent + formatter.BranchIcon(row.Kind, !v.collapsed[row.ID]) +
				formatter.StyleBold.Render(row.Name) + " " + formatter.Dim(string(row.Kind))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// selectedDetail describes the task under the cursor.
func (v *outlineView) selectedDetail() string {
	visible := v.visibleRows()
	if v.cursor >= len(visible) || !visible[v.cursor].IsTask() || visible[v.cursor].Task == nil {
		return ""
	}
	t := visible[v.cursor].Task
	detail := fmt.Sprintf("planned %s → %s", formatter.FormatDate(t.DueDate), formatter.FormatDate(t.EndDate))
	if t.ActualStartDate != nil {
		detail += "  started " + formatter.FormatOptionalDate(t.ActualStartDate)
	}
	if t.ActualEndDate != nil {
		detail += "  finished " + formatter.FormatOptionalDate(t.ActualEndDate)
	}
	return formatter.Dim(detail)
}

func (v *outlineView) View() string {
	if v.quitting {
		return ""
	}
	if v.loading {
		return "\n  " + formatter.Dim("Loading outline...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error())
	}

	body := v.renderRows()
	if v.ready {
		body = v.viewport.View()
	}

	var b strings.Builder
	b.WriteString(body + "\n")
	b.WriteString(v.selectedDetail() + "\n")
	if v.notice != "" {
		b.WriteString(formatter.StyleYellow.Render(v.notice))
	}
	b.WriteString("\n" + v.help.View(v.keys))
	return b.String()
}

func newBrowseCmd(app *App) *cobra.Command {
	var f timelineFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse a site's outline interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("browse needs an interactive terminal; use 'sitetrack outline' instead")
			}
			resp, err := loadTimeline(cmd, app, f)
			if err != nil || resp == nil {
				return err
			}

			req := contract.NewTimelineRequest()
			req.SiteID = resp.Site.ID
			req.ColumnWidth = resp.ColumnWidth
			if !f.now.IsZero() {
				now := f.now
				req.Now = &now
			}

			view := newOutlineView(cmd.Context(), app.Tracker, req)
			_, err = tea.NewProgram(view, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	f.register(cmd)

	return cmd
}
