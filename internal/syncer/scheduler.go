package syncer

import (
	"context"
	"log/slog"
	"time"

	"github.com/aevon-lab/nrega-dashboard/internal/core/targets"
)

// DefaultInterval is the periodic sync cadence.
const DefaultInterval = 6 * time.Hour

// Syncer is the part of Service the scheduler drives.
type Syncer interface {
	Sync(ctx context.Context, region, finYear string) Result
}

// Sizer reports how many records are cached.
type Sizer interface {
	Len() int
}

// Scheduler performs the cold-start sync and then re-syncs every target on an interval.
// Targets run one after another; the store serializes writers anyway.
type Scheduler struct {
	interval  time.Duration
	syncer    Syncer
	store     Sizer
	targets   []targets.Target
	coldStart bool
}

// NewScheduler builds a scheduler. targets[0] is treated as the default region
// for the cold-start sync; see targets.WithDefault.
func NewScheduler(interval time.Duration, syncer Syncer, store Sizer, schedule []targets.Target, coldStart bool) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		interval:  interval,
		syncer:    syncer,
		store:     store,
		targets:   schedule,
		coldStart: coldStart,
	}
}

// Start blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	slog.Info("[Scheduler] Starting sync scheduler",
		"interval", s.interval,
		"targets", len(s.targets))

	if s.coldStart && len(s.targets) > 0 && s.store.Len() == 0 {
		def := s.targets[0]
		slog.Info("[Scheduler] Store is empty, running cold-start sync", "region", def.Region)
		s.syncer.Sync(ctx, def.Region, def.FinYear)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runAll(ctx)
		case <-ctx.Done():
			slog.Info("[Scheduler] Stopping (context cancelled)")
			return nil
		}
	}
}

func (s *Scheduler) runAll(ctx context.Context) {
	ok := 0
	for _, t := range s.targets {
		if ctx.Err() != nil {
			slog.Info("[Scheduler] Run interrupted by context cancellation", "completed", ok)
			return
		}
		if res := s.syncer.Sync(ctx, t.Region, t.FinYear); res.Success {
			ok++
		}
	}
	slog.Info("[Scheduler] Scheduled run finished", "targets", len(s.targets), "succeeded", ok)
}
