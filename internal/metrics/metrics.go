// Package metrics exposes prometheus collectors for the HTTP surface and
// the identity and challenge flows.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	resolutions *prometheus.CounterVec
	completions *prometheus.CounterVec
	enrollments *prometheus.CounterVec
	generations *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zenmindful",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "zenmindful",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zenmindful",
			Name:      "identity_resolutions_total",
			Help:      "Identity resolutions by outcome.",
		}, []string{"outcome"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zenmindful",
			Name:      "challenge_completions_total",
			Help:      "Recorded challenge days.",
		}, []string{"challenge"}),
		enrollments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zenmindful",
			Name:      "challenge_enrollments_total",
			Help:      "Join requests by challenge and whether a new enrollment was created.",
		}, []string{"challenge", "created"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "zenmindful",
			Name:      "content_generations_total",
			Help:      "Generated content requests by kind and result.",
		}, []string{"kind", "result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.latency, m.resolutions, m.completions, m.enrollments, m.generations,
	)
	return m
}

func (m *Metrics) Resolution(outcome string) {
	m.resolutions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Completion(challengeID string) {
	m.completions.WithLabelValues(challengeID).Inc()
}

func (m *Metrics) Enrollment(challengeID string, created bool) {
	m.enrollments.WithLabelValues(challengeID, strconv.FormatBool(created)).Inc()
}

func (m *Metrics) Generation(kind string, ok bool) {
	result := "ok"
	if !ok {
		result = "fallback"
	}
	m.generations.WithLabelValues(kind, result).Inc()
}

// Middleware records every request under its route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
