package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the harvest pipeline.
type Metrics struct {
	SourcesTotal  *prometheus.CounterVec
	ErrorsTotal   *prometheus.CounterVec
	FetchDuration prometheus.Histogram

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers the pipeline metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SourcesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kgharvest_sources_total",
			Help: "Directory sources by ingestion outcome",
		}, []string{"outcome"}), // ingested, failed, skipped
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kgharvest_errors_total",
			Help: "The total number of per-source errors encountered",
		}, []string{"type"}), // fetch, normalize, submit
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "kgharvest_fetch_duration_seconds",
			Help:    "Duration of page fetch and normalization",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "kgharvest_http_requests_total",
			Help: "Admin API requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kgharvest_http_request_duration_seconds",
			Help:    "Admin API request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) IncOutcome(outcome string) {
	m.SourcesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncErrorsTotal(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

func (m *Metrics) ObserveFetch(d time.Duration) {
	m.FetchDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, route, code).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route, code).Observe(d.Seconds())
}
