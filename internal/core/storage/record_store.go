package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"
)

var (
	// ErrEmptyScope is returned when a merge names no region.
	ErrEmptyScope = errors.New("merge scope requires a region")

	// ErrEmptyBatch is returned when a merge carries no valid records.
	// Merging nothing would clear the scope, so it is refused.
	ErrEmptyBatch = errors.New("merge batch has no valid records")
)

// RecordStore is the in-memory record cache backed by a SnapshotStore.
//
// Writers are serialized for the whole read-modify-persist sequence. Readers only
// take the read lock long enough to copy the slice header, so a slow backend write
// never blocks queries. Returned records share their Attributes maps with the
// store and must be treated as read-only.
type RecordStore struct {
	backend SnapshotStore
	policy  MergePolicy
	nowFn   func() time.Time

	writeMu sync.Mutex

	mu       sync.RWMutex
	records  []v1.Record
	lastSync *time.Time
}

// Option configures a RecordStore.
type Option func(*RecordStore)

// WithMergePolicy sets the key-collision precedence used by Merge.
func WithMergePolicy(p MergePolicy) Option {
	return func(s *RecordStore) {
		s.policy = p
	}
}

// WithClock overrides the clock used to stamp lastSync.
func WithClock(now func() time.Time) Option {
	return func(s *RecordStore) {
		s.nowFn = now
	}
}

// MergeResult summarizes one Merge call.
type MergeResult struct {
	Fetched int // valid records in the batch
	Invalid int // records dropped for missing identity fields
	Total   int // store size after the merge
}

// Summary is a point-in-time description of the store used by health reporting.
type Summary struct {
	TotalRecords    int        `json:"totalRecords"`
	LastSync        *time.Time `json:"lastSync"`
	UniqueDistricts int        `json:"uniqueDistricts"`
	Years           []string   `json:"years"`
}

// NewRecordStore creates an empty store. Call Open to load persisted state.
func NewRecordStore(backend SnapshotStore, opts ...Option) *RecordStore {
	if backend == nil {
		panic("storage: snapshot backend must not be nil")
	}
	s := &RecordStore{
		backend: backend,
		policy:  PreferFetched,
		nowFn:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Open loads the persisted snapshot into memory, dropping duplicate keys if any slipped in.
func (s *RecordStore) Open(ctx context.Context) error {
	snap, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	records, dropped := dedupe(snap.Records)
	if dropped > 0 {
		slog.Warn("[RecordStore] Dropped duplicate keys from persisted snapshot", "dropped", dropped)
	}

	s.mu.Lock()
	s.records = records
	s.lastSync = snap.LastSync
	s.mu.Unlock()

	slog.Info("[RecordStore] Snapshot loaded",
		"records", len(records),
		"last_sync", formatLastSync(snap.LastSync))
	return nil
}

// Merge folds a freshly fetched batch into the store under scope and persists the result.
// The in-memory state only changes once the backend write succeeded.
func (s *RecordStore) Merge(ctx context.Context, scope Scope, fresh []v1.Record) (MergeResult, error) {
	if scope.Region == "" {
		return MergeResult{}, ErrEmptyScope
	}

	valid := make([]v1.Record, 0, len(fresh))
	for _, r := range fresh {
		if err := r.Validate(); err != nil {
			slog.Warn("[RecordStore] Skipping invalid record", "region", scope.Region, "error", err)
			continue
		}
		valid = append(valid, r)
	}
	result := MergeResult{Fetched: len(valid), Invalid: len(fresh) - len(valid)}
	if len(valid) == 0 {
		return result, ErrEmptyBatch
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	current := s.records
	s.mu.RUnlock()

	merged := MergeRecords(current, scope, valid, s.policy)
	now := s.nowFn().UTC()

	if err := s.backend.Save(ctx, &Snapshot{Records: merged, LastSync: &now}); err != nil {
		return result, fmt.Errorf("persist snapshot: %w", err)
	}

	s.mu.Lock()
	s.records = merged
	s.lastSync = &now
	s.mu.Unlock()

	result.Total = len(merged)
	return result, nil
}

// ByRegion returns every record of region, narrowed to finYear when it is non-empty.
func (s *RecordStore) ByRegion(region, finYear string) []v1.Record {
	scope := Scope{Region: region, FinYear: finYear}
	return s.filter(scope.Contains)
}

// ByDistrict returns a district's history in region, oldest fiscal year first.
func (s *RecordStore) ByDistrict(region, districtCode string) []v1.Record {
	out := s.filter(func(r v1.Record) bool {
		return r.StateName == region && r.DistrictCode == districtCode
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinYear < out[j].FinYear
	})
	return out
}

// DistinctYears lists the fiscal years cached for region in ascending order.
func (s *RecordStore) DistinctYears(region string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{})
	for _, r := range s.records {
		if r.StateName == region {
			set[r.FinYear] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// Summary describes the whole store.
func (s *RecordStore) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	districts := make(map[string]struct{})
	years := make(map[string]struct{})
	for _, r := range s.records {
		districts[r.DistrictCode] = struct{}{}
		years[r.FinYear] = struct{}{}
	}
	return Summary{
		TotalRecords:    len(s.records),
		LastSync:        copyTime(s.lastSync),
		UniqueDistricts: len(districts),
		Years:           sortedKeys(years),
	}
}

// Len returns the number of cached records.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// LastSync returns the time of the last successful merge, nil if there was none.
func (s *RecordStore) LastSync() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyTime(s.lastSync)
}

// Ping checks the persistence backend.
func (s *RecordStore) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

func (s *RecordStore) filter(keep func(v1.Record) bool) []v1.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]v1.Record, 0)
	for _, r := range s.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func formatLastSync(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format(time.RFC3339)
}
