package storage

import (
	"context"
	"sync"

	v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"
)

// MemorySnapshotStore is an in-memory implementation of SnapshotStore.
// Useful for testing and development; nothing survives a restart.
type MemorySnapshotStore struct {
	mu    sync.RWMutex
	snap  Snapshot
	saves int
}

// NewMemorySnapshotStore creates an empty in-memory backend.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

func (m *MemorySnapshotStore) Load(ctx context.Context) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent external modification
	return copySnapshot(&m.snap), nil
}

func (m *MemorySnapshotStore) Save(ctx context.Context, s *Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.snap = *copySnapshot(s)
	m.saves++
	return nil
}

func (m *MemorySnapshotStore) Ping(ctx context.Context) error {
	return nil
}

// Saves reports how many times Save was called.
func (m *MemorySnapshotStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func copySnapshot(s *Snapshot) *Snapshot {
	out := &Snapshot{
		Records:  make([]v1.Record, len(s.Records)),
		LastSync: copyTime(s.LastSync),
	}
	for i, r := range s.Records {
		out.Records[i] = r.Clone()
	}
	return out
}
