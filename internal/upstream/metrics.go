package upstream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK    = "ok"
	outcomeError = "error"
)

var attemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "nrega_upstream_attempts_total",
	Help: "Upstream fetch attempts by outcome",
}, []string{"outcome"})
