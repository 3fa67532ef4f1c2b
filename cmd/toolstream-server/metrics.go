package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// serverMetrics groups the Prometheus metrics this service exposes:
// counters of blocks emitted by kind and errors emitted by error code,
// and a gauge of active sessions.
type serverMetrics struct {
	blocksEmitted  *prometheus.CounterVec
	errorsEmitted  *prometheus.CounterVec
	sessionsActive prometheus.Gauge
}

func newServerMetrics(reg prometheus.Registerer) *serverMetrics {
	factory := promauto.With(reg)
	return &serverMetrics{
		blocksEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "toolstream_blocks_emitted_total",
			Help: "Total blocks emitted, by kind.",
		}, []string{"kind"}),
		errorsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "toolstream_errors_emitted_total",
			Help: "Total advisory diagnostics emitted, by error code.",
		}, []string{"code"}),
		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "toolstream_sessions_active",
			Help: "Number of sessions currently held by the session manager.",
		}),
	}
}
