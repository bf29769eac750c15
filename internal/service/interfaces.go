package service

import (
	"context"
	"time"

	"github.com/alexanderramin/sitetrack/internal/contract"
	"github.com/alexanderramin/sitetrack/internal/domain"
	"github.com/alexanderramin/sitetrack/internal/importer"
)

// TrackerService is the command and query surface of the tracker.
//
// Mutating methods apply the change in memory first and then save the whole
// snapshot. When the save fails the change stays applied, the updated value
// is still returned, and the error is a *PersistError.
type TrackerService interface {
	Open(ctx context.Context) error

	ListSites(ctx context.Context) ([]*domain.Site, error)
	SelectedSiteID(ctx context.Context) string
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
	ListTasks(ctx context.Context, siteID string) ([]*domain.Task, error)

	CreateSite(ctx context.Context, name string) (*domain.Site, error)
	SelectSite(ctx context.Context, id string) error
	DeleteSite(ctx context.Context, id string) error

	CreatePhase(ctx context.Context, siteID, name string) (*domain.HierarchyNode, error)
	CreateSection(ctx context.Context, phaseID, name string) (*domain.HierarchyNode, error)
	CreateSubsection(ctx context.Context, sectionID, name string) (*domain.HierarchyNode, error)

	CreateTask(ctx context.Context, req contract.CreateTaskRequest) (*domain.Task, error)
	// StartTask and FinishTask use the service clock when at is zero.
	StartTask(ctx context.Context, taskID string, at time.Time) (*domain.Task, error)
	FinishTask(ctx context.Context, taskID string, at time.Time) (*domain.Task, error)
	UpdateProgress(ctx context.Context, taskID string, pct int) (*domain.Task, error)

	ExportDocument(ctx context.Context) (*importer.Document, error)
	// ImportDocument replaces the whole state with the document's snapshot.
	// Dateless placeholders and records without a resolvable site are
	// dropped and reported as warnings.
	ImportDocument(ctx context.Context, doc *importer.Document) (*contract.ImportResult, error)

	Timeline(ctx context.Context, req contract.TimelineRequest) (*contract.TimelineResponse, error)
}
