package repository

import (
	"context"

	"github.com/alexanderramin/sitetrack/internal/domain"
)

// MemorySnapshotRepo keeps the snapshot in process memory. SaveErr, when set,
// is returned by every Save and the stored state is left untouched.
type MemorySnapshotRepo struct {
	snap    *domain.Snapshot
	SaveErr error
	Saves   int
}

func NewMemorySnapshotRepo(initial *domain.Snapshot) *MemorySnapshotRepo {
	r := &MemorySnapshotRepo{}
	if initial != nil {
		r.snap = initial.Clone()
	}
	return r
}

func (r *MemorySnapshotRepo) Load(ctx context.Context) (*domain.Snapshot, error) {
	if r.snap == nil {
		return nil, nil
	}
	return r.snap.Clone(), nil
}

func (r *MemorySnapshotRepo) Save(ctx context.Context, snap *domain.Snapshot) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.snap = snap.Clone()
	r.Saves++
	return nil
}
