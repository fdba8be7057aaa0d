/*
Package workers sizes and runs the bounded worker pools used for batch
thumbnailing.

# Sizing

Go sets GOMAXPROCS from the container's CPU quota, while runtime.NumCPU
still reports the host. Worker counts are therefore derived from
GOMAXPROCS:

	n := workers.ForCPU(8)   // raster decode and resize, 1 per CPU, at most 8
	n := workers.ForMixed(0) // video and PDF sources spend time in ffmpeg/libvips

THUMBNAIL_WORKERS overrides the computed count (still capped by the limit):

	THUMBNAIL_WORKERS=2 thumbnail batch ./photos ./thumbs

# Running

[Process] fans items from a channel out to n goroutines and returns once the
channel is drained or the context ends:

	err := workers.Process(ctx, n, paths, func(ctx context.Context, p string) {
	    _ = t.CreateThumbnail(p, target(p))
	})

Each item is handed to exactly one goroutine. Results are reported by the
callback; Process itself only reports cancellation.
*/
package workers
