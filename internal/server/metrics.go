package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of one server. Each instance owns
// its registry, so servers and tests never collide on registration.
type Metrics struct {
	registry       *prometheus.Registry
	activeRequests prometheus.Gauge
	requestsTotal  *prometheus.CounterVec
	evalsTotal     *prometheus.CounterVec
	evalDuration   *prometheus.HistogramVec
	handler        http.Handler
}

// NewMetrics creates the collectors and the exposition handler.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wideint_active_requests",
			Help: "Number of HTTP requests being served.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wideint_requests_total",
			Help: "HTTP requests by path and status code.",
		}, []string{"path", "code"}),
		evalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wideint_evaluations_total",
			Help: "Evaluations by operation, type and outcome.",
		}, []string{"op", "type", "outcome"}),
		evalDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wideint_eval_duration_seconds",
			Help:    "Engine time per evaluation.",
			Buckets: prometheus.ExponentialBuckets(50e-9, 4, 10), // 50ns .. ~13ms
		}, []string{"op"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.activeRequests,
		m.requestsTotal,
		m.evalsTotal,
		m.evalDuration,
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return m
}

// IncrementActiveRequests marks the start of a request.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks the end of a request.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// ObserveRequest counts a served request.
func (m *Metrics) ObserveRequest(path string, code int) {
	m.requestsTotal.WithLabelValues(path, strconv.Itoa(code)).Inc()
}

// ObserveEval records one evaluation. outcome is "ok" or an error kind;
// only successful evaluations feed the duration histogram.
func (m *Metrics) ObserveEval(op, kind, outcome string, d time.Duration) {
	m.evalsTotal.WithLabelValues(op, kind, outcome).Inc()
	if outcome == "ok" {
		m.evalDuration.WithLabelValues(op).Observe(d.Seconds())
	}
}

// WritePrometheus serves the metrics in the Prometheus text format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
