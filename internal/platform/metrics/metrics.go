// Package metrics exposes Prometheus counters for outbound provider calls.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Provider names used as the "provider" label.
const (
	ProviderCompletion = "completion"
	ProviderPlaces     = "places"
	ProviderSpeech     = "speech"
)

var (
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "health_equalizer",
			Name:      "provider_requests_total",
			Help:      "Outbound provider calls by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "health_equalizer",
			Name:      "provider_request_duration_seconds",
			Help:      "Latency of outbound provider calls.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider"},
	)
)

// ObserveProviderCall records one provider call that started at start.
func ObserveProviderCall(provider string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	ProviderRequests.WithLabelValues(provider, outcome).Inc()
	ProviderDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
