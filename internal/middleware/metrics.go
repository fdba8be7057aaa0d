package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"auto-thumbnail/internal/metrics"
)

const thumbnailPrefix = "/api/thumbnail/"

// MetricsConfig holds configuration for the metrics middleware
type MetricsConfig struct {
	// SkipPaths are paths that should not be recorded
	SkipPaths []string
}

// DefaultMetricsConfig returns the default metrics configuration
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		SkipPaths: []string{"/metrics", "/health", "/healthz", "/livez", "/readyz"},
	}
}

// Metrics returns a middleware that records Prometheus metrics
func Metrics(config MetricsConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip metrics for certain paths
			for _, path := range config.SkipPaths {
				if strings.HasPrefix(r.URL.Path, path) {
					next.ServeHTTP(w, r)
					return
				}
			}

			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			rec := newRecorder(w)
			start := time.Now()
			next.ServeHTTP(rec, r)

			duration := time.Since(start).Seconds()
			path := normalizePath(r.URL.Path)
			status := strconv.Itoa(rec.status)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
		})
	}
}

// normalizePath collapses the media path of thumbnail requests so the path
// label stays bounded.
func normalizePath(path string) string {
	if strings.HasPrefix(path, thumbnailPrefix) {
		return thumbnailPrefix + "{path}"
	}
	switch path {
	case "/", "/version", "/healthz", "/livez", "/readyz", "/metrics":
		return path
	}
	return "other"
}
