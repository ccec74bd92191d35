package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Classification Metrics
var (
	// ClassificationsTotal counts classify calls by resulting label and by
	// which step of the pipeline produced it (empty, filtered, scored)
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mood_classifications_total",
			Help: "Total mood classifications by label and outcome",
		},
		[]string{"label", "outcome"},
	)
)

// Oracle Metrics
var (
	// OracleDuration tracks polarity lookups in seconds, cache hits included
	OracleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mood_oracle_duration_seconds",
			Help:    "Sentiment oracle call duration in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"oracle"},
	)

	OracleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mood_oracle_errors_total",
			Help: "Total failed sentiment oracle calls",
		},
		[]string{"oracle"},
	)

	// OracleCache counts polarity cache lookups by result (hit/miss)
	OracleCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mood_oracle_cache_total",
			Help: "Polarity cache lookups by result",
		},
		[]string{"result"},
	)

	// OracleCacheSize tracks entries held by the in-memory cache
	OracleCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mood_oracle_cache_entries",
			Help: "Current number of entries in the in-memory polarity cache",
		},
	)
)
