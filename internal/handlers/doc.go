// Package handlers provides the HTTP request handlers for the thumbnail
// service.
//
// It includes handlers for:
//   - On-demand thumbnails backed by a content-addressed disk cache
//   - Health, liveness and readiness probes
//   - Version information and Prometheus metrics
package handlers
