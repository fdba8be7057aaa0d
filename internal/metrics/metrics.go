package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auto_thumbnail_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auto_thumbnail_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "auto_thumbnail_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Thumbnail creation metrics
var (
	CreationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auto_thumbnail_creations_total",
			Help: "Total number of thumbnail creations by source category, output encoding and status",
		},
		[]string{"category", "encoding", "status"},
	)

	CreationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auto_thumbnail_creation_duration_seconds",
			Help:    "End-to-end thumbnail creation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"category"},
	)

	PhaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auto_thumbnail_phase_duration_seconds",
			Help:    "Duration of a single thumbnail pipeline phase in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"category", "phase"}, // phase: sniff, decode, encode
	)

	OutputBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auto_thumbnail_output_bytes",
			Help:    "Size of written thumbnails in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 2, 12),
		},
		[]string{"encoding"},
	)

	PNGOptimizeSavedBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auto_thumbnail_png_optimize_saved_bytes_total",
			Help: "Total bytes removed by the lossless PNG optimization pass",
		},
	)

	PDFEngineAvailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "auto_thumbnail_pdf_engine_available",
			Help: "Whether PDF rendering is available (1 = available, 0 = unavailable)",
		},
	)
)

// Thumbnail cache metrics
var (
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auto_thumbnail_cache_hits_total",
			Help: "Total number of thumbnail cache hits",
		},
	)

	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auto_thumbnail_cache_misses_total",
			Help: "Total number of thumbnail cache misses",
		},
	)

	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "auto_thumbnail_cache_size_bytes",
			Help: "Total size of the thumbnail cache in bytes",
		},
	)

	CacheCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "auto_thumbnail_cache_count",
			Help: "Number of thumbnails in the cache",
		},
	)
)

// Batch metrics
var (
	BatchFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auto_thumbnail_batch_files_total",
			Help: "Files handled by batch runs by outcome",
		},
		[]string{"status"}, // "created", "skipped", "failed"
	)
)

// Filesystem metrics
var (
	FilesystemRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auto_thumbnail_filesystem_retries_total",
			Help: "Stale NFS file handle retries by operation and outcome",
		},
		[]string{"operation", "outcome"}, // outcome: "stale", "recovered", "failed"
	)
)

// Memory metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "auto_thumbnail_memory_usage_ratio",
			Help: "Heap allocation as a ratio of the configured memory limit (0.0-1.0)",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "auto_thumbnail_memory_paused",
			Help: "Whether thumbnail work is paused for memory pressure (1 = paused, 0 = running)",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auto_thumbnail_memory_gc_pauses_total",
			Help: "Total number of times work was paused for memory pressure",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "auto_thumbnail_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
