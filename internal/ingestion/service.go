package ingestion

import (
	"context"

	"github.com/aevon-lab/nrega-dashboard/internal/syncer"
	"github.com/gin-gonic/gin"
)

// Syncer runs one on-demand sync.
type Syncer interface {
	Sync(ctx context.Context, region, finYear string) syncer.Result
}

type Service struct {
	syncer           Syncer
	maxBodySizeBytes int
}

func NewService(s Syncer, maxBodySizeKB int) *Service {
	if s == nil {
		panic("ingestion: syncer must not be nil")
	}
	if maxBodySizeKB <= 0 {
		maxBodySizeKB = 16
	}
	return &Service{
		syncer:           s,
		maxBodySizeBytes: maxBodySizeKB * 1024,
	}
}

// RegisterRoutes registers the on-demand sync route.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/sync", s.SyncHandler)
}
