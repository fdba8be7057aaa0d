package memory

import (
	"fmt"
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"auto-thumbnail/internal/logging"
)

// DefaultMemoryRatio is the share of the container limit given to the Go heap.
const DefaultMemoryRatio = 0.85

// Limit describes the soft memory limit in effect.
type Limit struct {
	// Bytes is the Go soft memory limit, 0 when none is configured.
	Bytes int64

	// Source is "GOMEMLIMIT", "MEMORY_LIMIT" or "none".
	Source string

	// ContainerBytes is MEMORY_LIMIT when that was the source.
	ContainerBytes int64

	// Ratio is the MEMORY_RATIO applied to ContainerBytes.
	Ratio float64
}

// ResolveLimit computes the limit from the environment without applying it.
func ResolveLimit(getenv func(string) string) (Limit, error) {
	if getenv("GOMEMLIMIT") != "" {
		current := debug.SetMemoryLimit(-1)
		if current <= 0 || current == math.MaxInt64 {
			return Limit{Source: "none"}, nil
		}
		return Limit{Bytes: current, Source: "GOMEMLIMIT"}, nil
	}

	raw := getenv("MEMORY_LIMIT")
	if raw == "" {
		return Limit{Source: "none"}, nil
	}

	container, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || container <= 0 {
		return Limit{Source: "none"}, fmt.Errorf("invalid MEMORY_LIMIT %q", raw)
	}

	ratio := DefaultMemoryRatio
	if rawRatio := getenv("MEMORY_RATIO"); rawRatio != "" {
		parsed, err := strconv.ParseFloat(rawRatio, 64)
		if err != nil || parsed <= 0 || parsed > 1 {
			return Limit{Source: "none"}, fmt.Errorf("invalid MEMORY_RATIO %q (want 0.0-1.0)", rawRatio)
		}
		ratio = parsed
	}

	return Limit{
		Bytes:          int64(float64(container) * ratio),
		Source:         "MEMORY_LIMIT",
		ContainerBytes: container,
		Ratio:          ratio,
	}, nil
}

// ApplyFromEnv resolves the limit from the process environment and applies
// it with debug.SetMemoryLimit. Call it before significant allocations.
func ApplyFromEnv() Limit {
	limit, err := ResolveLimit(os.Getenv)
	if err != nil {
		logging.Warn("Memory limit not applied: %v", err)
		return limit
	}

	switch limit.Source {
	case "GOMEMLIMIT":
		logging.Info("GOMEMLIMIT set via environment: %s", FormatBytes(limit.Bytes))
	case "MEMORY_LIMIT":
		debug.SetMemoryLimit(limit.Bytes)
		logging.Info("Configured GOMEMLIMIT: %s (%.1f%% of %s container limit)",
			FormatBytes(limit.Bytes), limit.Ratio*100, FormatBytes(limit.ContainerBytes))
	default:
		logging.Debug("No memory limit configured")
	}
	return limit
}

// FormatBytes renders b with binary units.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
