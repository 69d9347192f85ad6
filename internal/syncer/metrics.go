package syncer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nrega_sync_total",
		Help: "Sync runs by outcome status",
	}, []string{"status"})

	syncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nrega_sync_duration_seconds",
		Help:    "Wall time of a sync run including upstream retries",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 90},
	})

	storeRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nrega_store_records",
		Help: "Records currently held in the store",
	})
)
