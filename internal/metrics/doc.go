// Package metrics provides Prometheus instrumentation for auto-thumbnail.
//
// All metrics are registered with the default registry through promauto and
// are prefixed with "auto_thumbnail_".
//
// # Metric Categories
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal: Counter of requests by method, path and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of requests being served
//
// ## Thumbnail Metrics
//
//   - CreationsTotal: Counter by source category, output encoding and status
//     (success or the failure kind: io, decode, encode, optimize,
//     unsupported, init)
//   - CreationDuration: Histogram of end-to-end creation time by category
//   - PhaseDuration: Histogram of sniff, decode and encode time by category
//   - OutputBytes: Histogram of written thumbnail size by encoding
//   - PNGOptimizeSavedBytes: Counter of bytes removed by PNG optimization
//   - PDFEngineAvailable: Gauge, 1 when libvips can render PDFs
//
// ## Cache Metrics
//
//   - CacheHits, CacheMisses: Counters of service cache lookups
//   - CacheSize, CacheCount: Gauges refreshed by the [Collector]
//
// ## Batch and Memory Metrics
//
//   - BatchFilesTotal: Counter of batch outcomes (created, skipped, failed)
//   - MemoryUsageRatio, MemoryPaused, MemoryGCPauses: memory backpressure
//
// ## Application Info
//
//   - AppInfo: Gauge with version, commit and Go version labels
//
// # Recording Thumbnail Metrics
//
// The thumbnailer package does not import this package. Wire the observer
// when constructing a Thumbnailer:
//
//	t, err := thumbnailer.New(size, quality,
//	    thumbnailer.WithObserver(metrics.NewThumbnailObserver()))
//
// # Collector
//
// [Collector] periodically reads [Stats] from a [StatsProvider] (the service's
// thumbnail cache) and updates the cache gauges:
//
//	collector := metrics.NewCollector(cache, 1*time.Minute)
//	collector.Start()
//	defer collector.Stop()
//
// # Prometheus Queries
//
// Failure ratio by category:
//
//	sum(rate(auto_thumbnail_creations_total{status!="success"}[5m])) by (category) /
//	sum(rate(auto_thumbnail_creations_total[5m])) by (category)
//
// P95 decode time for videos:
//
//	histogram_quantile(0.95, sum(rate(auto_thumbnail_phase_duration_seconds_bucket{category="video",phase="decode"}[5m])) by (le))
//
// Cache hit rate:
//
//	rate(auto_thumbnail_cache_hits_total[5m]) /
//	(rate(auto_thumbnail_cache_hits_total[5m]) + rate(auto_thumbnail_cache_misses_total[5m]))
package metrics
