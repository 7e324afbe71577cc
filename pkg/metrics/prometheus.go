package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EstimatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "costline_estimates_total",
			Help: "Total number of estimates created by source",
		},
		[]string{"source"}, // blank, template, clone
	)

	SnapshotsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "costline_snapshots_total",
			Help: "Total number of version snapshots by outcome",
		},
		[]string{"outcome"},
	)

	RollupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "costline_rollup_duration_seconds",
			Help:    "Time spent computing estimate rollups",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15),
		},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "costline_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
