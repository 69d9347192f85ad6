package projection

import (
	"context"
	"runtime"
	"time"

	v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"
	"github.com/aevon-lab/nrega-dashboard/internal/core/aggregation"
	"github.com/aevon-lab/nrega-dashboard/internal/core/storage"
)

// Store is the read side of storage.RecordStore.
type Store interface {
	ByRegion(region, finYear string) []v1.Record
	ByDistrict(region, districtCode string) []v1.Record
	DistinctYears(region string) []string
	Summary() storage.Summary
	LastSync() *time.Time
	Len() int
}

// Backfiller fetches a region on a cache miss and returns the query result after merging.
type Backfiller interface {
	FetchMissing(ctx context.Context, region, finYear string) []v1.Record
}

// Service implements the dashboard read API.
type Service struct {
	store      Store
	backfiller Backfiller
	startedAt  time.Time
	nowFn      func() time.Time
}

// NewService creates the read service. backfiller may be nil to disable cache-miss fetches.
func NewService(store Store, backfiller Backfiller) *Service {
	now := time.Now().UTC()
	return &Service{
		store:      store,
		backfiller: backfiller,
		startedAt:  now,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Districts returns the region's records, fetching from upstream once when nothing is cached.
func (s *Service) Districts(ctx context.Context, region, finYear string) []v1.Record {
	records := s.store.ByRegion(region, finYear)
	if len(records) > 0 || s.backfiller == nil {
		return records
	}
	return s.backfiller.FetchMissing(ctx, region, finYear)
}

// District returns one district's history and how its latest year compares to the region.
func (s *Service) District(region, districtCode string) DistrictResponse {
	history := s.store.ByDistrict(region, districtCode)
	resp := DistrictResponse{Success: true, Count: len(history), Data: history}
	if len(history) == 0 {
		return resp
	}

	latest := history[len(history)-1]
	regionStats := aggregation.ComputeStats(s.store.ByRegion(region, latest.FinYear))
	cmp := aggregation.CompareToAverage(latest, regionStats)
	resp.Comparison = &cmp
	return resp
}

// Stats computes aggregate statistics for region.
func (s *Service) Stats(region, finYear string) StatsResponse {
	label := finYear
	if label == "" {
		label = "all"
	}
	return StatsResponse{
		Success:  true,
		State:    region,
		FinYear:  label,
		Stats:    aggregation.ComputeStats(s.store.ByRegion(region, finYear)),
		LastSync: s.store.LastSync(),
	}
}

// Health reports store and process state.
func (s *Service) Health() HealthResponse {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	now := s.nowFn()
	return HealthResponse{
		Success:   true,
		Status:    "ok",
		Timestamp: now,
		Database:  s.store.Summary(),
		Server: ServerInfo{
			Uptime:     now.Sub(s.startedAt).Seconds(),
			GoVersion:  runtime.Version(),
			Goroutines: runtime.NumGoroutine(),
			Memory: MemoryInfo{
				Alloc:      mem.Alloc,
				TotalAlloc: mem.TotalAlloc,
				Sys:        mem.Sys,
				HeapInuse:  mem.HeapInuse,
				NumGC:      mem.NumGC,
			},
		},
	}
}
