// Package metrics provides Prometheus metrics for the news reader.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ModeInitial    = "initial"
	ModeRefresh    = "refresh"
	ModePagination = "pagination"

	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeCancelled = "cancelled"
)

var (
	// FetchTotal counts page fetch attempts by mode and outcome.
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "news_reader",
			Name:      "fetch_total",
			Help:      "Total number of page fetch attempts",
		},
		[]string{"mode", "outcome"},
	)

	// FetchDuration measures the remote call of a page fetch. Cache writes and
	// the minimum loading wait are not included.
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "news_reader",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of remote page fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"mode"},
	)

	CachedRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "news_reader",
			Name:      "cached_rows",
			Help:      "Rows currently shown from the local cache",
		},
	)

	PublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "news_reader",
			Name:      "publish_errors_total",
			Help:      "Events that could not be published",
		},
	)
)

// RecordFetch records a page fetch attempt.
func RecordFetch(mode, outcome string, seconds float64) {
	FetchTotal.WithLabelValues(mode, outcome).Inc()
	FetchDuration.WithLabelValues(mode).Observe(seconds)
}
