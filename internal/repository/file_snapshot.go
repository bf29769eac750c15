package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alexanderramin/sitetrack/internal/domain"
)

// StateKey names the stored blob. The file backend wraps the snapshot in an
// object under this key.
const StateKey = "constructionTrackerState"

// FileSnapshotRepo implements SnapshotRepo as a single JSON document.
type FileSnapshotRepo struct {
	path string
}

func NewFileSnapshotRepo(path string) *FileSnapshotRepo {
	return &FileSnapshotRepo{path: path}
}

func (r *FileSnapshotRepo) Load(ctx context.Context) (*domain.Snapshot, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var doc map[string]*domain.Snapshot
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing snapshot file %s: %w", r.path, err)
	}
	snap, ok := doc[StateKey]
	if !ok || snap == nil {
		return nil, nil
	}
	return snap.Clone(), nil
}

// Save writes to a temporary file in the same directory and renames it over
// the target, so readers never observe a partial document.
func (r *FileSnapshotRepo) Save(ctx context.Context, snap *domain.Snapshot) error {
	data, err := json.MarshalIndent(map[string]*domain.Snapshot{StateKey: snap}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".sitetrack-*.json")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replacing snapshot file: %w", err)
	}
	return nil
}
