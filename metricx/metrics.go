package metricx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imattdu/assistdash/errorx"
	"github.com/imattdu/assistdash/httpclient"
)

// Metrics groups the Prometheus instruments for backend calls and dashboard traffic.
type Metrics struct {
	registry *prometheus.Registry

	BackendCalls    *prometheus.CounterVec
	BackendRetries  *prometheus.CounterVec
	BackendErrors   *prometheus.CounterVec
	BackendDuration *prometheus.HistogramVec
	BackendAttempts prometheus.Histogram
	HTTPRequests    *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		BackendCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_calls_total",
			Help:      "Backend calls by method, route template and outcome.",
		}, []string{"method", "route", "outcome"}),
		BackendRetries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_retries_total",
			Help:      "Retries scheduled after a failed attempt, by route template.",
		}, []string{"route"}),
		BackendErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_errors_total",
			Help:      "Terminal backend failures by classified kind.",
		}, []string{"kind", "retryable"}),
		BackendDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_call_duration_seconds",
			Help:      "Wall time of a backend call including retries.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15, 30, 60},
		}, []string{"method", "route"}),
		BackendAttempts: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_call_attempts",
			Help:      "Attempts used per backend call.",
			Buckets:   []float64{1, 2, 3, 4, 5, 6},
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Dashboard HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}
}

// ObserveCall 是 httpclient.StatsHook
func (m *Metrics) ObserveCall(_ context.Context, s *httpclient.CallStats) {
	if m == nil || s == nil {
		return
	}
	outcome := "success"
	if s.Err != nil {
		outcome = "failure"
	}
	route := s.Route
	if route == "" {
		route = "unknown"
	}
	m.BackendCalls.WithLabelValues(s.Method, route, outcome).Inc()
	m.BackendDuration.WithLabelValues(s.Method, route).Observe(s.Cost.Seconds())
	m.BackendAttempts.Observe(float64(s.Attempts))

	for _, a := range s.AttemptsLog {
		if a.WillRetry {
			m.BackendRetries.WithLabelValues(route).Inc()
		}
	}
	if e, ok := errorx.From(s.Err); ok {
		retryable := "false"
		if e.Retryable {
			retryable = "true"
		}
		m.BackendErrors.WithLabelValues(string(e.Kind), retryable).Inc()
	}
}

// Registry 暴露给测试
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveHTTP(route string, code int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
