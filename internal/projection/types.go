package projection

import (
	"time"

	v1 "github.com/aevon-lab/nrega-dashboard/internal/api/v1"
	"github.com/aevon-lab/nrega-dashboard/internal/core/aggregation"
	"github.com/aevon-lab/nrega-dashboard/internal/core/storage"
)

// DistrictsResponse is the body of GET /api/districts/:state.
type DistrictsResponse struct {
	Success  bool        `json:"success"`
	Count    int         `json:"count"`
	Data     []v1.Record `json:"data"`
	LastSync *time.Time  `json:"lastSync"`
}

// DistrictResponse is the body of GET /api/district/:state/:districtCode.
type DistrictResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Data    []v1.Record `json:"data"`
	// Comparison relates the latest year to the region's averages for that year.
	Comparison *aggregation.Comparison `json:"comparison,omitempty"`
}

// StatsResponse is the body of GET /api/stats/:state.
type StatsResponse struct {
	Success  bool              `json:"success"`
	State    string            `json:"state"`
	FinYear  string            `json:"finYear"`
	Stats    aggregation.Stats `json:"stats"`
	LastSync *time.Time        `json:"lastSync"`
}

// YearsResponse is the body of GET /api/years/:state.
type YearsResponse struct {
	Success bool     `json:"success"`
	State   string   `json:"state"`
	Years   []string `json:"years"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Success   bool            `json:"success"`
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Database  storage.Summary `json:"database"`
	Server    ServerInfo      `json:"server"`
}

type ServerInfo struct {
	Uptime     float64    `json:"uptime"` // seconds
	Memory     MemoryInfo `json:"memory"`
	GoVersion  string     `json:"goVersion"`
	Goroutines int        `json:"goroutines"`
}

type MemoryInfo struct {
	Alloc      uint64 `json:"alloc"`
	TotalAlloc uint64 `json:"totalAlloc"`
	Sys        uint64 `json:"sys"`
	HeapInuse  uint64 `json:"heapInuse"`
	NumGC      uint32 `json:"numGC"`
}
