package metrics

import (
	"auto-thumbnail/internal/mediatypes"
	"auto-thumbnail/thumbnailer"
)

// statuses lists every status a creation can end with.
var statuses = []string{
	thumbnailer.StatusSuccess,
	thumbnailer.KindIO.String(),
	thumbnailer.KindDecode.String(),
	thumbnailer.KindEncode.String(),
	thumbnailer.KindOptimize.String(),
	thumbnailer.KindUnsupported.String(),
	thumbnailer.KindInit.String(),
}

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	categories := append([]mediatypes.Category{}, mediatypes.Categories...)
	categories = append(categories, mediatypes.CategoryUnsupported)

	for _, cat := range categories {
		CreationDuration.WithLabelValues(string(cat))
		for _, phase := range []string{thumbnailer.PhaseSniff, thumbnailer.PhaseDecode, thumbnailer.PhaseEncode} {
			PhaseDuration.WithLabelValues(string(cat), phase)
		}
		for _, enc := range mediatypes.Encodings {
			for _, status := range statuses {
				CreationsTotal.WithLabelValues(string(cat), enc.String(), status)
			}
		}
	}

	for _, enc := range mediatypes.Encodings {
		OutputBytes.WithLabelValues(enc.String())
	}

	for _, status := range []string{"created", "skipped", "failed"} {
		BatchFilesTotal.WithLabelValues(status)
	}

	for _, op := range []string{"stat", "open"} {
		for _, outcome := range []string{"stale", "recovered", "failed"} {
			FilesystemRetries.WithLabelValues(op, outcome)
		}
	}
}
