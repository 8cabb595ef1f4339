// Package metrics holds the Prometheus collectors of the compute job and
// the API. Collectors live on a private registry so tests can read them
// without touching the global default registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hffactors"

// Day outcomes recorded by DaysProcessed.
const (
	DayComputed = "computed"
	DaySkipped  = "skipped"
	DayFailed   = "failed"
)

var (
	// Registry is the registry every collector of this package is bound to.
	Registry = prometheus.NewRegistry()

	FactorDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "factor_compute_seconds",
		Help:      "Time spent evaluating one factor over one day.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	}, []string{"factor"})

	FactorErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "factor_errors_total",
		Help:      "Factor evaluations that returned an error.",
	}, []string{"factor"})

	DaysProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "days_processed_total",
		Help:      "Trading days handled by the pipeline, by outcome.",
	}, []string{"status"})

	RowsWritten = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rows_written_total",
		Help:      "Factor rows written, by sink.",
	}, []string{"sink"})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served.",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		FactorDuration,
		FactorErrors,
		DaysProcessed,
		RowsWritten,
		HTTPRequests,
		HTTPDuration,
	)
}

// ObserveFactor records one factor evaluation. Its signature matches
// factor.Observer.
func ObserveFactor(id string, elapsed time.Duration, err error) {
	FactorDuration.WithLabelValues(id).Observe(elapsed.Seconds())
	if err != nil {
		FactorErrors.WithLabelValues(id).Inc()
	}
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
