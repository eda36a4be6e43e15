package provider

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// call outcomes
const (
	statusOK    = "ok"
	statusEmpty = "empty"
	statusError = "error"
)

var (
	fetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cryptonews",
			Name:      "provider_fetch_total",
			Help:      "Total number of provider fetches by outcome",
		},
		[]string{"provider", "status"},
	)

	fetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cryptonews",
			Name:      "provider_fetch_duration_seconds",
			Help:      "Duration of provider fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
)

func recordFetch(provider, status string, seconds float64) {
	fetchTotal.WithLabelValues(provider, status).Inc()
	fetchDuration.WithLabelValues(provider).Observe(seconds)
}
