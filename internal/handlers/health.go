package handlers

import (
	"net/http"
	"runtime"
	"time"

	"auto-thumbnail/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	// Native tool availability
	PDF       bool   `json:"pdf"`
	PDFEngine string `json:"pdfEngine,omitempty"`
	Video     bool   `json:"video"`
	Oxipng    bool   `json:"oxipng"`

	CacheEnabled bool    `json:"cacheEnabled"`
	MemoryPaused bool    `json:"memoryPaused"`
	MemoryUsage  float64 `json:"memoryUsage"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service. Missing native tools
// or paused work report "degraded" with a 200, since images still render.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:       statusHealthy,
		Ready:        true,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		PDF:          h.deps.PDF,
		PDFEngine:    h.deps.PDFEngine,
		Video:        h.deps.FFmpeg && h.deps.FFprobe,
		Oxipng:       h.deps.Oxipng,
		CacheEnabled: h.cache.Enabled(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if h.memory != nil {
		response.MemoryPaused = h.memory.Paused()
		response.MemoryUsage = h.memory.Usage()
	}

	if !response.PDF || !response.Video || response.MemoryPaused {
		response.Status = statusDegraded
	}
	if response.MemoryPaused {
		response.Ready = false
	}

	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	writeStatus(w, http.StatusOK, "alive")
}

// ReadinessCheck returns 503 while work is paused for memory pressure.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	if h.memory != nil && h.memory.Paused() {
		writeStatus(w, http.StatusServiceUnavailable, "not_ready")
		return
	}
	writeStatus(w, http.StatusOK, "ready")
}
