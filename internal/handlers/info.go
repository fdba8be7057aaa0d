package handlers

import (
	"net/http"

	"auto-thumbnail/internal/startup"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// VersionResponse is the body of GET /version: build information plus the
// defaults applied when a thumbnail request has no query parameters.
type VersionResponse struct {
	startup.BuildInfo
	DefaultSize   string `json:"defaultSize"`
	DefaultFormat string `json:"defaultFormat"`
	Quality       int    `json:"quality"`
}

// GetVersion reports build information and the thumbnail defaults.
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, http.StatusOK, VersionResponse{
		BuildInfo:     startup.GetBuildInfo(),
		DefaultSize:   h.size.String(),
		DefaultFormat: h.format.String(),
		Quality:       h.quality,
	})
}

// MetricsHandler serves the default registry, OpenMetrics when the scraper
// asks for it.
func (h *Handlers) MetricsHandler() http.Handler {
	return promhttp.InstrumentMetricHandler(prometheus.DefaultRegisterer,
		promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{EnableOpenMetrics: true}))
}
