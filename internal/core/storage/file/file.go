// Package file persists the record cache as a single JSON document on local disk.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"
	"github.com/aevon-lab/nrega-dashboard/internal/core/storage"
)

// SnapshotStore implements storage.SnapshotStore on a JSON file shaped
// {"records": [...], "lastSync": "..."|null}. The file is rewritten wholesale on every
// save through a temp file and rename, so readers never observe a torn document.
type SnapshotStore struct {
	path string
}

// NewSnapshotStore creates a file backend at path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

// Load reads the snapshot, creating the file with empty defaults when it does not exist.
func (s *SnapshotStore) Load(ctx context.Context) (*storage.Snapshot, error) {
	content, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Info("[FileStore] No snapshot found, creating empty store", "path", s.path)
		empty := &storage.Snapshot{Records: []v1.Record{}}
		if err := s.Save(ctx, empty); err != nil {
			return nil, err
		}
		return empty, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snap storage.Snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file %s: %w", s.path, err)
	}
	if snap.Records == nil {
		snap.Records = []v1.Record{}
	}
	return &snap, nil
}

// Save rewrites the snapshot file.
func (s *SnapshotStore) Save(ctx context.Context, snap *storage.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out := *snap
	if out.Records == nil {
		out.Records = []v1.Record{}
	}
	content, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot file: %w", err)
	}
	return nil
}

// Ping checks that the snapshot directory is still accessible.
func (s *SnapshotStore) Ping(ctx context.Context) error {
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("snapshot directory unavailable: %w", err)
	}
	return nil
}
