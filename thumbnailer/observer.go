package thumbnailer

// Pipeline phases reported to an Observer.
const (
	PhaseSniff  = "sniff"
	PhaseDecode = "decode"
	PhaseEncode = "encode"
)

// StatusSuccess is the status reported for a thumbnail that was written.
// Failures report their Kind's string.
const StatusSuccess = "success"

// Observer receives timing and outcome data from CreateThumbnail. Calls
// arrive from whatever goroutine ran CreateThumbnail.
type Observer interface {
	ObservePhase(category Category, phase string, seconds float64)
	ObserveResult(category Category, enc Encoding, status string, seconds float64)
	ObserveOutput(enc Encoding, res EncodeResult)
}

type nopObserver struct{}

func (nopObserver) ObservePhase(Category, string, float64)            {}
func (nopObserver) ObserveResult(Category, Encoding, string, float64) {}
func (nopObserver) ObserveOutput(Encoding, EncodeResult)              {}
