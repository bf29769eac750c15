package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/sitetrack/internal/contract"
	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/importer"
	"github.com/alexanderramin/sitetrack/internal/repository"
	"github.com/alexanderramin/sitetrack/internal/scheduler"
	"github.com/alexanderramin/sitetrack/internal/store"
)

type trackerService struct {
	mu        sync.Mutex
	repo      repository.SnapshotRepo
	store     *store.Store
	storeOpts []store.Option
	clock     func() time.Time
	policy    scheduler.ProgressPolicy
	observers []UseCaseObserver
	observer  UseCaseObserver
}

type TrackerOption func(*trackerService)

// WithClock replaces time.Now as the source of "now" for classification and
// for actual dates recorded without an explicit time.
func WithClock(fn func() time.Time) TrackerOption {
	return func(s *trackerService) { s.clock = fn }
}

// WithProgressPolicy sets how declared progress maps to expected elapsed
// time when classifying started tasks.
func WithProgressPolicy(p scheduler.ProgressPolicy) TrackerOption {
	return func(s *trackerService) { s.policy = p }
}

func WithObserver(obs UseCaseObserver) TrackerOption {
	return func(s *trackerService) { s.observers = append(s.observers, obs) }
}

func WithStoreOptions(opts ...store.Option) TrackerOption {
	return func(s *trackerService) { s.storeOpts = append(s.storeOpts, opts...) }
}

func NewTrackerService(repo repository.SnapshotRepo, opts ...TrackerOption) TrackerService {
	s := &trackerService{
		repo:   repo,
		clock:  time.Now,
		policy: scheduler.LinearProgress{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.observer = useCaseObserverOrNoop(s.observers)
	s.store = store.New(nil, s.storeOpts...)
	return s
}

// observe reports a finished use case. Call it deferred with a pointer to the
// named error result.
func (s *trackerService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err *error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   *err == nil,
		Err:       *err,
		Fields:    fields,
	})
}

// persist saves the current state. The caller must hold s.mu.
func (s *trackerService) persist(ctx context.Context, op string) error {
	if err := s.repo.Save(ctx, s.store.Snapshot()); err != nil {
		return &PersistError{Op: op, Err: err}
	}
	return nil
}

func (s *trackerService) Open(ctx context.Context) (err error) {
	fields := map[string]any{}
	defer s.observe(ctx, "open", time.Now(), fields, &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	s.store.Replace(snap)
	fields["sites"] = len(s.store.Sites())

	if s.store.EnsureSelection() {
		fields["auto_selected"] = s.store.SelectedSiteID()
		return s.persist(ctx, "selecting first site")
	}
	return nil
}

func (s *trackerService) ListSites(ctx context.Context) ([]*domain.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Sites(), nil
}

func (s *trackerService) SelectedSiteID(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.SelectedSiteID()
}

func (s *trackerService) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Snapshot(), nil
}

func (s *trackerService) ListTasks(ctx context.Context, siteID string) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.store.Site(siteID); err != nil {
		return nil, err
	}
	return s.store.TasksForSite(siteID), nil
}

func (s *trackerService) CreateSite(ctx context.Context, name string) (site *domain.Site, err error) {
	fields := map[string]any{"name": name}
	defer s.observe(ctx, "create-site", time.Now(), fields, &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	site, err = s.store.AddSite(name)
	if err != nil {
		return nil, err
	}
	fields["site_id"] = site.ID
	if s.store.EnsureSelection() {
		fields["auto_selected"] = true
	}
	return site, s.persist(ctx, "creating site")
}

func (s *trackerService) SelectSite(ctx context.Context, id string) (err error) {
	defer s.observe(ctx, "select-site", time.Now(), map[string]any{"site_id": id}, &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.store.SelectSite(id); err != nil {
		return err
	}
	return s.persist(ctx, "selecting site")
}

func (s *trackerService) DeleteSite(ctx context.Context, id string) (err error) {
	defer s.observe(ctx, "delete-site", time.Now(), map[string]any{"site_id": id}, &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = s.store.DeleteSite(id); err != nil {
		return err
	}
	s.store.EnsureSelection()
	return s.persist(ctx, "deleting site")
}

func (s *trackerService) CreatePhase(ctx context.Context, siteID, name string) (*domain.HierarchyNode, error) {
	return s.createNode(ctx, domain.LevelPhase, siteID, name, s.store.AddPhase)
}

func (s *trackerService) CreateSection(ctx context.Context, phaseID, name string) (*domain.HierarchyNode, error) {
	return s.createNode(ctx, domain.LevelSection, phaseID, name, s.store.AddSection)
}

func (s *trackerService) CreateSubsection(ctx context.Context, sectionID, name string) (*domain.HierarchyNode, error) {
	return s.createNode(ctx, domain.LevelSubsection, sectionID, name, s.store.AddSubsection)
}

func (s *trackerService) createNode(
	ctx context.Context,
	level domain.NodeLevel,
	parentID, name string,
	add func(parentID, name string) (*domain.HierarchyNode, error),
) (node *domain.HierarchyNode, err error) {
	fields := map[string]any{"parent_id": parentID, "name": name}
	defer s.observe(ctx, "create-"+string(level), time.Now(), fields, &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	node, err = add(parentID, name)
	if err != nil {
		return nil, err
	}
	fields["node_id"] = node.ID
	return node, s.persist(ctx, "creating "+string(level))
}

func (s *trackerService) CreateTask(ctx context.Context, req contract.CreateTaskRequest) (task *domain.Task, err error) {
	fields := map[string]any{"site_id": req.SiteID, "name": req.Name}
	defer s.observe(ctx, "create-task", time.Now(), fields, &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	task, err = s.store.AddTask(store.NewTask{
		SiteID:            req.SiteID,
		Name:              req.Name,
		PhaseID:           req.PhaseID,
		SectionID:         req.SectionID,
		SubsectionID:      req.SubsectionID,
		DueDate:           req.DueDate,
		EndDate:           req.EndDate,
		Progress:          req.Progress,
		DependentOnTaskID: req.DependentOnTaskID,
	})
	if err != nil {
		return nil, err
	}
	fields["task_id"] = task.ID
	if placement := task.Placement(); placement.Level != "" {
		fields["level"] = string(placement.Level)
	}
	return task, s.persist(ctx, "creating task")
}

func (s *trackerService) StartTask(ctx context.Context, taskID string, at time.Time) (task *domain.Task, err error) {
	defer s.observe(ctx, "start-task", time.Now(), map[string]any{"task_id": taskID}, &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if at.IsZero() {
		at = s.clock()
	}
	task, err = s.store.SetActualStart(taskID, at)
	if err != nil {
		return nil, err
	}
	return task, s.persist(ctx, "starting task")
}

func (s *trackerService) FinishTask(ctx context.Context, taskID string, at time.Time) (task *domain.Task, err error) {
	defer s.observe(ctx, "finish-task", time.Now(), map[string]any{"task_id": taskID}, &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if at.IsZero() {
		at = s.clock()
	}
	task, err = s.store.SetActualEnd(taskID, at)
	if err != nil {
		return nil, err
	}
	return task, s.persist(ctx, "finishing task")
}

func (s *trackerService) UpdateProgress(ctx context.Context, taskID string, pct int) (task *domain.Task, err error) {
	defer s.observe(ctx, "update-progress", time.Now(), map[string]any{"task_id": taskID, "progress": pct}, &err)

	s.mu.Lock()
	defer s.mu.Unlock()

	task, err = s.store.SetProgress(taskID, pct)
	if err != nil {
		return nil, err
	}
	return task, s.persist(ctx, "updating progress")
}

func (s *trackerService) ExportDocument(ctx context.Context) (*importer.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return importer.NewDocument(s.store.Snapshot(), s.clock()), nil
}

func (s *trackerService) ImportDocument(ctx context.Context, doc *importer.Document) (result *contract.ImportResult, err error) {
	fields := map[string]any{}
	defer s.observe(ctx, "import-snapshot", time.Now(), fields, &err)

	pruned := importer.PruneOrphans(doc)
	errs, warns := importer.ValidateDocument(doc)
	warns = append(pruned, warns...)
	if len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Replace(doc.State)
	s.store.EnsureSelection()

	result = &contract.ImportResult{
		Sites:       len(doc.State.Sites),
		Phases:      len(doc.State.Phases),
		Sections:    len(doc.State.Sections),
		Subsections: len(doc.State.Subsections),
		Tasks:       len(doc.State.Tasks),
	}
	for _, w := range warns {
		result.Warnings = append(result.Warnings, w.String())
	}
	fields["tasks"] = result.Tasks
	fields["warnings"] = len(result.Warnings)
	return result, s.persist(ctx, "importing snapshot")
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
