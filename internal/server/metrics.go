package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var histogramBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// serverMetrics owns a private registry so several servers (tests) can
// coexist in one process.
type serverMetrics struct {
	registry *prometheus.Registry

	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	records        *prometheus.CounterVec
	semaphoreFull  *prometheus.CounterVec
}

func newServerMetrics() *serverMetrics {
	m := &serverMetrics{
		registry: prometheus.NewRegistry(),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lumo",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lumo",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lumo",
			Subsystem: "ingest",
			Name:      "records_total",
			Help:      "Normalized records by signal and outcome",
		}, []string{"signal", "outcome"}),
		semaphoreFull: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lumo",
			Subsystem: "http",
			Name:      "rejected_busy_total",
			Help:      "Requests refused because the concurrency limit was reached",
		}, []string{"pool"}),
	}

	m.registry.MustRegister(
		m.requestTotal,
		m.requestLatency,
		m.records,
		m.semaphoreFull,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *serverMetrics) observeRequest(method, route string, status int, duration time.Duration) {
	m.requestTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *serverMetrics) recordIngest(signal string, accepted, rejected int) {
	m.records.WithLabelValues(signal, "accepted").Add(float64(accepted))
	m.records.WithLabelValues(signal, "rejected").Add(float64(rejected))
}

func (m *serverMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
