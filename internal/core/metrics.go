package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sourceFetchCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "teamroster",
		Subsystem: "aggregator",
		Name:      "source_fetch_total",
		Help:      "The total number of per-source fetches by outcome",
	}, []string{"source", "outcome"})

	passCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "teamroster",
		Subsystem: "aggregator",
		Name:      "passes_total",
		Help:      "The total number of aggregation passes by mode",
	}, []string{"mode"})

	passDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "teamroster",
		Subsystem: "aggregator",
		Name:      "pass_duration_seconds",
		Help:      "Duration of aggregation passes",
		Buckets:   prometheus.DefBuckets,
	})

	rosterSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "teamroster",
		Subsystem: "store",
		Name:      "members",
		Help:      "Number of members in the current roster",
	})
)
