package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/sitetrack/internal/contract"
	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/outline"
	"github.com/alexanderramin/sitetrack/internal/scheduler"
	"github.com/alexanderramin/sitetrack/internal/timeline"
)

// Timeline builds the render payload for one site: the padded window, one
// row per node and task in outline order, and the status tally.
func (s *trackerService) Timeline(ctx context.Context, req contract.TimelineRequest) (resp *contract.TimelineResponse, err error) {
	fields := map[string]any{}
	defer s.observe(ctx, "timeline", time.Now(), fields, &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	siteID := domain.CoalesceStr(req.SiteID, s.store.SelectedSiteID())
	if siteID == "" {
		return nil, ErrNoSiteSelected
	}
	site, err := s.store.Site(siteID)
	if err != nil {
		return nil, fmt.Errorf("building timeline: %w", err)
	}
	fields["site_id"] = site.ID

	now := s.clock()
	if req.Now != nil {
		now = *req.Now
	}

	tasks := s.store.TasksForSite(siteID)
	tree := outline.Group(outline.GroupInput{
		Site:        site,
		Phases:      s.store.NodesForSite(domain.LevelPhase, siteID),
		Sections:    s.store.NodesForSite(domain.LevelSection, siteID),
		Subsections: s.store.NodesForSite(domain.LevelSubsection, siteID),
		Tasks:       tasks,
	})

	window, hasWindow := timeline.ResolveWindow(tasks)
	mapper := timeline.NewMapper(window, req.ColumnWidth)
	classifier := scheduler.Classifier{Now: now, Policy: s.policy}

	resp = &contract.TimelineResponse{
		Site:        site,
		Window:      window,
		HasWindow:   hasWindow,
		ColumnWidth: mapper.ColumnWidth,
		Tree:        tree,
	}

	statuses := make(map[string]domain.ScheduleStatus, len(tasks))
	for _, row := range tree.Rows() {
		tr := contract.TimelineRow{
			Kind:   row.Kind,
			ID:     row.ID(),
			Depth:  row.Depth,
			IsLast: row.IsLast,
		}
		if row.Node != nil {
			tr.Name = row.Node.Name
		}
		if t := row.Task; t != nil {
			status := classifier.Classify(t)
			statuses[t.ID] = status
			bar := mapper.Bar(t)
			tr.Name = t.Name
			tr.Task = t
			tr.Status = status
			tr.Progress = t.Progress
			tr.StartCol, tr.Columns = bar.StartCol, bar.Columns
			tr.Offset, tr.Width = bar.Offset, bar.Width
			tr.Actual, tr.HasActual = mapper.ActualBar(t, now)
		}
		resp.Rows = append(resp.Rows, tr)
	}

	resp.Summary = summarize(statuses, now)
	resp.Attention = attentionList(tree.Tasks(), statuses)
	fields["tasks"] = resp.Summary.TotalTasks
	return resp, nil
}

func summarize(statuses map[string]domain.ScheduleStatus, now time.Time) contract.TimelineSummary {
	tally := make(map[domain.ScheduleStatus]int, len(domain.AllScheduleStatuses))
	for _, st := range statuses {
		tally[st]++
	}
	summary := contract.TimelineSummary{GeneratedAt: now, TotalTasks: len(statuses)}
	for _, st := range domain.AllScheduleStatuses {
		summary.Counts = append(summary.Counts, contract.StatusCount{Status: st, Count: tally[st]})
	}
	return summary
}

func attentionList(tasks []*domain.Task, statuses map[string]domain.ScheduleStatus) []contract.TaskStatusView {
	items := make([]scheduler.ClassifiedTask, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, scheduler.ClassifiedTask{Task: t, Status: statuses[t.ID]})
	}
	scheduler.SortByAttention(items)

	views := make([]contract.TaskStatusView, 0, len(items))
	for _, it := range items {
		views = append(views, contract.TaskStatusView{
			TaskID:   it.Task.ID,
			Name:     it.Task.Name,
			Status:   it.Status,
			DueDate:  it.Task.DueDate,
			EndDate:  it.Task.EndDate,
			Progress: it.Task.Progress,
		})
	}
	return views
}
