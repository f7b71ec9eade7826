package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pollRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "buildhub",
		Subsystem: "store",
		Name:      "poll_runs_total",
		Help:      "Background refresh runs by store and outcome.",
	}, []string{"store", "outcome"})

	pollDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "buildhub",
		Subsystem: "store",
		Name:      "poll_duration_seconds",
		Help:      "Duration of background refresh runs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"store"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "buildhub",
		Subsystem: "store",
		Name:      "active_sessions",
		Help:      "Homeowner sessions with live pollers.",
	})
)
