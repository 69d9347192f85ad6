// Package syncer drives fetch-then-merge cycles against the record store.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"
	"github.com/aevon-lab/nrega-dashboard/internal/core/storage"
	"github.com/aevon-lab/nrega-dashboard/internal/upstream"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	defaultMaxAttempts      = 3
	defaultFallbackAttempts = 2
)

// Fetcher pulls records from the upstream source.
type Fetcher interface {
	Fetch(ctx context.Context, q upstream.Query, maxAttempts int) upstream.FetchResult
}

// Store is the subset of storage.RecordStore the syncer writes through.
type Store interface {
	Merge(ctx context.Context, scope storage.Scope, fresh []v1.Record) (storage.MergeResult, error)
	ByRegion(region, finYear string) []v1.Record
	Len() int
}

// Options tunes retry budgets. Zero values use the defaults.
type Options struct {
	MaxAttempts      int
	FallbackAttempts int
}

// Service runs syncs. Its methods never return errors; outcomes are reported in Result.
type Service struct {
	fetcher Fetcher
	store   Store
	opts    Options

	// fallback collapses concurrent cache-miss fetches for the same scope.
	fallback singleflight.Group
}

// NewService wires a fetcher to a store.
func NewService(fetcher Fetcher, store Store, opts Options) *Service {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.FallbackAttempts <= 0 {
		opts.FallbackAttempts = defaultFallbackAttempts
	}
	return &Service{fetcher: fetcher, store: store, opts: opts}
}

// Sync fetches region (optionally one fiscal year) and merges the result.
// Empty or failed fetches leave the store untouched.
func (s *Service) Sync(ctx context.Context, region, finYear string) (res Result) {
	start := time.Now()
	res = Result{
		SyncID:  uuid.NewString(),
		State:   region,
		FinYear: finYear,
	}

	log := slog.With("sync_id", res.SyncID, "region", region, "fin_year", finYear)
	log.Info("[Syncer] Starting sync")

	defer func() {
		if r := recover(); r != nil {
			log.Error("[Syncer] Sync panicked", "panic", r)
			res.Success = false
			res.Status = StatusError
			res.Error = "internal error during sync"
			res.Cached = s.store.Len()
		}
		syncTotal.WithLabelValues(string(res.Status)).Inc()
		syncDuration.Observe(time.Since(start).Seconds())
		storeRecords.Set(float64(s.store.Len()))
	}()

	fetched := s.fetcher.Fetch(ctx, upstream.Query{Region: region, FinYear: finYear}, s.opts.MaxAttempts)

	switch fetched.Status {
	case upstream.StatusEmpty:
		log.Warn("[Syncer] Upstream returned no records, keeping cache")
		return res.fail(StatusEmpty, "no records returned by upstream", s.store.Len())
	case upstream.StatusFailed:
		log.Error("[Syncer] Fetch failed, keeping cache", "attempts", fetched.Attempts, "error", fetched.Err)
		return res.fail(StatusFailed, errorMessage(fetched.Err), s.store.Len())
	}

	merged, err := s.store.Merge(ctx, storage.Scope{Region: region, FinYear: finYear}, fetched.Records)
	res.Invalid = merged.Invalid
	if err != nil {
		if errors.Is(err, storage.ErrEmptyBatch) {
			log.Warn("[Syncer] Fetched batch had no valid records", "invalid", merged.Invalid)
			return res.fail(StatusEmpty, "no valid records returned by upstream", s.store.Len())
		}
		log.Error("[Syncer] Merge failed", "error", err)
		return res.fail(StatusError, err.Error(), s.store.Len())
	}

	res.Success = true
	res.Status = StatusFetched
	res.Count = merged.Fetched
	res.Total = merged.Total
	log.Info("[Syncer] Sync completed", "count", res.Count, "total", res.Total, "duration", time.Since(start))
	return res
}

// FetchMissing fills a cache miss for one region query and returns the query
// result after the merge. Concurrent calls for the same scope share one fetch.
func (s *Service) FetchMissing(ctx context.Context, region, finYear string) []v1.Record {
	key := region + "|" + finYear

	// The shared fetch must not die with whichever request happened to start it.
	fetchCtx := context.WithoutCancel(ctx)

	_, _, shared := s.fallback.Do(key, func() (interface{}, error) {
		log := slog.With("region", region, "fin_year", finYear)
		log.Info("[Syncer] Cache miss, fetching from upstream")

		fetched := s.fetcher.Fetch(fetchCtx, upstream.Query{Region: region, FinYear: finYear}, s.opts.FallbackAttempts)
		if fetched.Status != upstream.StatusFetched {
			log.Warn("[Syncer] Fallback fetch returned nothing", "status", fetched.Status, "error", fetched.Err)
			return nil, nil
		}

		merged, err := s.store.Merge(fetchCtx, storage.Scope{Region: region, FinYear: finYear}, fetched.Records)
		if err != nil {
			log.Error("[Syncer] Fallback merge failed", "error", err)
			return nil, err
		}
		storeRecords.Set(float64(merged.Total))
		log.Info("[Syncer] Fallback merged", "count", merged.Fetched, "total", merged.Total)
		return nil, nil
	})
	if shared {
		slog.Debug("[Syncer] Joined in-flight fallback fetch", "key", key)
	}

	return s.store.ByRegion(region, finYear)
}

func errorMessage(err error) string {
	if err == nil {
		return "upstream fetch failed"
	}
	return fmt.Sprintf("upstream fetch failed: %v", err)
}
