package workers

import (
	"context"
	"os"
	"runtime"
	"strconv"
	"sync"
)

// EnvOverride names the environment variable that overrides Count.
const EnvOverride = "THUMBNAIL_WORKERS"

// Count returns the worker count for a task: GOMAXPROCS scaled by
// multiplier, at least 1, capped by limit when limit > 0. A positive
// THUMBNAIL_WORKERS replaces the computed value.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(EnvOverride); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	n := int(float64(runtime.GOMAXPROCS(0)) * multiplier)
	if n < 1 {
		n = 1
	}
	if limit > 0 && n > limit {
		n = limit
	}
	return n
}

// ForCPU returns worker count for CPU-bound tasks (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns worker count for I/O-bound tasks (2 per CPU).
func ForIO(limit int) int {
	return Count(2.0, limit)
}

// ForMixed returns worker count for mixed tasks (1.5 per CPU).
func ForMixed(limit int) int {
	return Count(1.5, limit)
}

// Process runs fn for each item received from items on n goroutines. It
// returns nil once items is closed and every call has finished, or ctx's
// error if ctx ends first; calls already running are waited for.
func Process[T any](ctx context.Context, n int, items <-chan T, fn func(context.Context, T)) error {
	if n < 1 {
		n = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case item, ok := <-items:
					if !ok {
						return
					}
					if ctx.Err() != nil {
						return
					}
					fn(ctx, item)
				}
			}
		}()
	}
	wg.Wait()

	return ctx.Err()
}
