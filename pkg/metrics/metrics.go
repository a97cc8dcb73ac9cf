// Package metrics defines the Prometheus metric collectors used across the
// frequent-words service and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	ListLoadsTotal       *prometheus.CounterVec
	ListLoadDuration     *prometheus.HistogramVec
	ListRowsReturned     *prometheus.HistogramVec
	ToggleOpsTotal       *prometheus.CounterVec
	CacheHitsTotal       prometheus.Counter
	CacheMissesTotal     prometheus.Counter
	ChartRendersTotal    *prometheus.CounterVec
	RefreshRunsTotal     *prometheus.CounterVec
	RefreshDuration      prometheus.Histogram
	SnapshotRows         *prometheus.GaugeVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		ListLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "word_list_loads_total",
				Help: "Total word-list loads by category and status (ok, error).",
			},
			[]string{"category", "status"},
		),
		ListLoadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "word_list_load_duration_seconds",
				Help:    "Word-list load latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"category", "cache_status"},
		),
		ListRowsReturned: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "word_list_rows_returned",
				Help:    "Number of rows returned per word-list load.",
				Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
			},
			[]string{"category"},
		),
		ToggleOpsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "view_toggle_operations_total",
				Help: "Total view toggle operations by kind (stem, order) and new state.",
			},
			[]string{"kind", "state"},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses.",
			},
		),
		ChartRendersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lollipop_renders_total",
				Help: "Total lollipop chart render passes by outcome (ok, empty).",
			},
			[]string{"outcome"},
		),
		RefreshRunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snapshot_refresh_runs_total",
				Help: "Total snapshot refresh runs by status (ok, error).",
			},
			[]string{"status"},
		),
		RefreshDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "snapshot_refresh_duration_seconds",
				Help:    "Snapshot refresh run duration in seconds.",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
			},
		),
		SnapshotRows: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "snapshot_rows",
				Help: "Number of snapshot rows written per project and category.",
			},
			[]string{"project", "category"},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.ListLoadsTotal,
		m.ListLoadDuration,
		m.ListRowsReturned,
		m.ToggleOpsTotal,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.ChartRendersTotal,
		m.RefreshRunsTotal,
		m.RefreshDuration,
		m.SnapshotRows,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
