// Package main provides the entry point for the auto-thumbnail HTTP service.
//
// The service renders thumbnails on demand for files under a media
// directory. Each request sniffs the file's content, decodes it with the
// image, PDF or video decoder, fits it into the requested box and returns a
// JPEG, PNG or WEBP. Results are kept in a content-addressed cache under
// CACHE_DIR, so a source file that changes gets a new thumbnail.
//
// # Application Lifecycle
//
//  1. Memory Configuration: applies GOMEMLIMIT or MEMORY_LIMIT/MEMORY_RATIO
//  2. Configuration Loading: environment variables over an optional YAML file
//  3. Native Dependencies: starts libvips and probes for ffmpeg, ffprobe and oxipng
//  4. Component Initialization:
//     - Memory Monitor: pauses new decodes while heap usage is critical
//     - Metrics Collector: reports cache size every minute
//  5. HTTP Server Setup: routes, logging and metrics middleware
//  6. Graceful Shutdown: handles SIGINT/SIGTERM and stops components cleanly
//
// # Endpoints
//
//	GET /api/thumbnail/{path}?size=small&format=webp
//	GET /healthz, /livez, /readyz
//	GET /version
//	GET /metrics
//
// size accepts a preset name (icon, small, medium, large, larger) or WxH.
// format accepts JPEG, PNG or WEBP in any case. Both default to the
// configured THUMBNAIL_SIZE and THUMBNAIL_FORMAT.
//
// # Status Codes
//
//   - 400: bad path, size or format
//   - 404: source file not found
//   - 415: the file's content is not an image, PDF or video
//   - 422: the file could not be decoded
//   - 503: a native tool is missing, or the request was cancelled under memory pressure
//
// # Configuration
//
//	MEDIA_DIR           media root (default /media)
//	CACHE_DIR           cache root (default /cache)
//	PORT                listen port (default 8080)
//	THUMBNAIL_SIZE      default box (default medium)
//	THUMBNAIL_QUALITY   lossy quality 1-100 (default 90)
//	THUMBNAIL_FORMAT    default encoding (default JPEG)
//	METRICS_ENABLED     expose /metrics (default true)
//	LOG_HEALTH_CHECKS   log probe requests (default false)
//	LOG_LEVEL           debug, info, warn or error
//	CONFIG_FILE         optional YAML file with the same settings
package main
