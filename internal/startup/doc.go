// Package startup handles service initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// [LoadConfig] reads environment variables, optionally layered over a YAML
// file named by CONFIG_FILE. Environment variables always win over the file.
//
//   - MEDIA_DIR: directory thumbnails are served from (default: /media)
//   - CACHE_DIR: directory generated thumbnails are cached in (default: /cache)
//   - PORT: HTTP server port (default: 8080)
//   - THUMBNAIL_SIZE: preset name or WxH (default: medium)
//   - THUMBNAIL_QUALITY: 1-100 (default: 90)
//   - THUMBNAIL_FORMAT: JPEG, PNG or WEBP (default: JPEG)
//   - METRICS_ENABLED: serve /metrics (default: true)
//   - LOG_HEALTH_CHECKS: log /healthz requests (default: false)
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - MEMORY_LIMIT, MEMORY_RATIO, GOMEMLIMIT: see package memory
//
// A config file uses the same settings in snake case:
//
//	media_dir: /srv/photos
//	cache_dir: /var/cache/auto-thumbnail
//	port: "8080"
//	thumbnail:
//	  size: large
//	  quality: 85
//	  format: webp
//	metrics_enabled: true
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//
//	go build -ldflags "-X auto-thumbnail/internal/startup.Version=1.4.0" .
//
// # Lifecycle Logging
//
//   - [LogNativeDependencies]: libvips PDF support, ffmpeg/ffprobe, oxipng
//   - [LogHTTPRoutes]: registered routes (debug level)
//   - [LogServerStarted]: endpoints and startup duration
//   - [LogShutdownInitiated], [LogShutdownStep], [LogShutdownComplete]
package startup
