package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/citywatch/sentinel/internal/analyzer"
)

var (
	sentinelAnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_analyses_total",
		Help: "Total text analyses by resulting threat level.",
	}, []string{"level"})

	sentinelThreatsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sentinel_threats_recorded_total",
		Help: "Total elevated threats appended to the log.",
	})

	sentinelAlertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_alerts_total",
		Help: "Total alert deliveries by outcome.",
	}, []string{"status"})

	sentinelRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sentinel_requests_total",
		Help: "Total HTTP requests by method, path, and response status.",
	}, []string{"method", "path", "status"})

	sentinelRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sentinel_request_duration_seconds",
		Help:    "Request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)

// PrometheusMiddleware returns a Gin middleware that records per-request metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		sentinelRequestsTotal.WithLabelValues(method, path, status).Inc()
		sentinelRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// MetricsHandler returns a Gin handler that serves Prometheus metrics.
func MetricsHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordAnalysis records one analysis outcome.
func RecordAnalysis(level analyzer.Level, recorded bool) {
	sentinelAnalysesTotal.WithLabelValues(string(level)).Inc()
	if recorded {
		sentinelThreatsRecordedTotal.Inc()
	}
}

// RecordAlert records an alert delivery attempt.
func RecordAlert(success bool) {
	if success {
		sentinelAlertsTotal.WithLabelValues("success").Inc()
	} else {
		sentinelAlertsTotal.WithLabelValues("failure").Inc()
	}
}
