package repository

import (
	"context"

	"github.com/alexanderramin/sitetrack/internal/domain"
)

// SnapshotRepo persists the whole tracker state as one unit.
//
// Load returns (nil, nil) when nothing has been saved yet. Save replaces the
// stored state completely; a failed Save leaves the previous state intact.
// Writers are not coordinated: when two sessions share a backend the last
// Save wins.
type SnapshotRepo interface {
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snap *domain.Snapshot) error
}
