package app

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the HTTP server instrumentation. It owns its registry so
// tests can run multiple instances without collector name collisions.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
}

// NewMetrics builds and registers the HTTP server collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "playtube",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests processed, labeled by method, path, and status class.",
		}, []string{"method", "path", "class"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "playtube",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path"}),
		requestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "playtube",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "HTTP requests currently being served.",
		}),
	}

	reg.MustRegister(m.requestsTotal, m.requestDuration, m.requestsInFlight)
	return m
}

// Handler serves the scrape endpoint for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// WithMetrics instruments a handler. Paths are recorded as registered route
// patterns, not raw URLs, to keep label cardinality bounded.
func (m *Metrics) WithMetrics(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		lrw := &loggingResponseWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
		}
		next.ServeHTTP(lrw, r)

		path := routeLabel(r)
		m.requestsTotal.WithLabelValues(r.Method, path, statusClass(lrw.status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func routeLabel(r *http.Request) string {
	if p := r.Pattern; p != "" {
		return p
	}
	return "unmatched"
}
