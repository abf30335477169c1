package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the application collectors and their registry.
// All recording methods are safe on a nil receiver so handlers can be
// constructed without metrics in tests.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authEvents      *prometheus.CounterVec
	websiteOps      *prometheus.CounterVec
	renderDuration  *prometheus.HistogramVec
}

// New creates the collectors and registers them on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		authEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_events_total",
				Help: "Authentication events by type and outcome",
			},
			[]string{"event", "outcome"},
		),
		websiteOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "website_operations_total",
				Help: "Website profile operations by type and outcome",
			},
			[]string{"operation", "outcome"},
		),
		renderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_render_duration_seconds",
				Help:    "Time spent rendering storefront HTML",
				Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
			},
			[]string{"source"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.authEvents,
		m.websiteOps,
		m.renderDuration,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request count and latency labelled by the matched
// ServeMux pattern. It must wrap the mux directly so the pattern set by the
// mux is visible after the call returns.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snoop := httpsnoop.CaptureMetrics(next, w, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(snoop.Code)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(snoop.Duration.Seconds())
	})
}

// AuthEvent counts an authentication event such as "login" or "register"
func (m *Metrics) AuthEvent(event string, err error) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(event, outcome(err)).Inc()
}

// WebsiteOp counts a website profile operation
func (m *Metrics) WebsiteOp(op string, err error) {
	if m == nil {
		return
	}
	m.websiteOps.WithLabelValues(op, outcome(err)).Inc()
}

// ObserveRender records how long a storefront render took
func (m *Metrics) ObserveRender(source string, start time.Time) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
