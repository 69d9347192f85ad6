package storage

import (
	"context"
	"errors"
	"time"

	v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"
)

// ErrInvalidRecord is returned when a record lacks its identity fields.
var ErrInvalidRecord = errors.New("invalid record")

// Snapshot is the whole persisted state of the dashboard cache.
// It is read once at startup and rewritten wholesale after every merge.
type Snapshot struct {
	Records  []v1.Record `json:"records"`
	LastSync *time.Time  `json:"lastSync"`
}

// SnapshotStore persists the record cache.
// Implementations create empty defaults when nothing has been persisted yet.
type SnapshotStore interface {
	// Load returns the persisted snapshot, or an empty one if none exists.
	Load(ctx context.Context) (*Snapshot, error)

	// Save replaces the persisted snapshot with s.
	Save(ctx context.Context, s *Snapshot) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
