package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	AuthSignup          = "signup"
	AuthLogin           = "login"
	AuthLoginFailed     = "login_failed"
	AuthRefresh         = "refresh"
	AuthRefreshMismatch = "refresh_mismatch"
	AuthLogout          = "logout"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	authEvents   *prometheus.CounterVec
	mediaDeletes prometheus.Counter
	wsClients    prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profilehub_http_requests_total",
				Help: "HTTP requests by route, method and status.",
			},
			[]string{"route", "method", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "profilehub_http_request_duration_seconds",
				Help:    "HTTP request latency by route and method.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		authEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profilehub_auth_events_total",
				Help: "Session lifecycle events by type.",
			},
			[]string{"event"},
		),
		mediaDeletes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "profilehub_media_delete_failures_total",
			Help: "Remote media deletions that failed and were skipped.",
		}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "profilehub_ws_clients",
			Help: "Connected session event subscribers.",
		}),
	}

	reg.MustRegister(
		m.httpRequests,
		m.httpLatency,
		m.authEvents,
		m.mediaDeletes,
		m.wsClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Nil receivers are allowed everywhere so callers can run without metrics.

func (m *Metrics) AuthEvent(event string) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(event).Inc()
}

func (m *Metrics) MediaDeleteFailed() {
	if m == nil {
		return
	}
	m.mediaDeletes.Inc()
}

func (m *Metrics) WSClientConnected() {
	if m == nil {
		return
	}
	m.wsClients.Inc()
}

func (m *Metrics) WSClientDisconnected() {
	if m == nil {
		return
	}
	m.wsClients.Dec()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records one sample per request, labelled by the matched route pattern.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		if m == nil {
			return c.Next()
		}
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		m.httpRequests.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		m.httpLatency.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}
