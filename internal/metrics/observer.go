package metrics

import "auto-thumbnail/thumbnailer"

// thumbnailObserver implements thumbnailer.Observer using the Prometheus
// metrics declared in this package.
type thumbnailObserver struct{}

// NewThumbnailObserver creates an observer that records thumbnail creations
// into the Prometheus counters and histograms declared in metrics.go.
func NewThumbnailObserver() thumbnailer.Observer {
	return &thumbnailObserver{}
}

func (o *thumbnailObserver) ObservePhase(category thumbnailer.Category, phase string, seconds float64) {
	PhaseDuration.WithLabelValues(string(category), phase).Observe(seconds)
}

func (o *thumbnailObserver) ObserveResult(category thumbnailer.Category, enc thumbnailer.Encoding, status string, seconds float64) {
	CreationsTotal.WithLabelValues(string(category), enc.String(), status).Inc()
	CreationDuration.WithLabelValues(string(category)).Observe(seconds)
}

func (o *thumbnailObserver) ObserveOutput(enc thumbnailer.Encoding, res thumbnailer.EncodeResult) {
	OutputBytes.WithLabelValues(enc.String()).Observe(float64(res.Bytes))
	if res.SavedBytes > 0 {
		PNGOptimizeSavedBytes.Add(float64(res.SavedBytes))
	}
}
