// Package memory keeps thumbnail work inside the process's memory budget.
//
// Decoding a large source is the expensive part of a thumbnail: a 60
// megapixel TIFF or a 4K video frame is held in memory in full before it is
// resized. Running many of those at once is what gets a container
// OOM-killed, so the batch runner and the HTTP service both ask a [Monitor]
// for permission before each decode.
//
// # Limits
//
// [ApplyFromEnv] sets the Go soft memory limit early in main:
//
//   - GOMEMLIMIT: standard Go variable; takes precedence when set.
//   - MEMORY_LIMIT: container limit in bytes, usually passed in through the
//     Kubernetes Downward API.
//   - MEMORY_RATIO: share of MEMORY_LIMIT given to the Go heap, default 0.85.
//     ffmpeg and libvips allocate outside the Go heap, so lower this when
//     most sources are videos or PDFs.
//
// # Backpressure
//
// A started Monitor samples the heap every CheckInterval. Above the critical
// water mark it pauses: [Monitor.Wait] blocks until usage falls back under
// the high water mark or the context ends.
//
//	mon := memory.NewMonitor(memory.DefaultConfig())
//	mon.Start()
//	defer mon.Stop()
//
//	if err := mon.Wait(ctx); err != nil {
//	    return err
//	}
//	err := t.CreateThumbnail(src, dst)
//
// Without a limit the monitor never pauses.
package memory
