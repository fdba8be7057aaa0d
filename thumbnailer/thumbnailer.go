package thumbnailer

import (
	"errors"
	"fmt"
	"time"

	"auto-thumbnail/internal/encode"
	"auto-thumbnail/internal/logging"
	"auto-thumbnail/internal/mediatypes"
)

// ErrInvalidQuality is returned by New for a quality outside 1..100.
var ErrInvalidQuality = errors.New("quality must be between 1 and 100")

// DefaultQuality is the quality used by Default.
const DefaultQuality = 90

// Thumbnailer creates thumbnails with a fixed bounding box and quality.
type Thumbnailer struct {
	size     Size
	quality  int
	decoders map[Category]Decoder
	encoder  Encoder
	sniff    Sniffer
	observer Observer
}

// New returns a Thumbnailer fitting frames into size and encoding lossy
// formats at quality (1..100).
func New(size Size, quality int, opts ...Option) (*Thumbnailer, error) {
	if !size.Valid() {
		return nil, &Error{Kind: KindInit, Op: "new", Err: fmt.Errorf("%w: %dx%d", ErrInvalidSize, size.Width, size.Height)}
	}
	if quality < 1 || quality > 100 {
		return nil, &Error{Kind: KindInit, Op: "new", Err: fmt.Errorf("%w: got %d", ErrInvalidQuality, quality)}
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.encoder == nil {
		cfg.encoder = encode.New(encode.DefaultOptimizer())
	}
	if cfg.sniff == nil {
		return nil, &Error{Kind: KindInit, Op: "new", Err: errors.New("nil sniffer")}
	}

	decoders := make(map[Category]Decoder, len(cfg.decoders))
	for cat, d := range cfg.decoders {
		if d != nil {
			decoders[cat] = d
		}
	}

	return &Thumbnailer{
		size:     size,
		quality:  quality,
		decoders: decoders,
		encoder:  cfg.encoder,
		sniff:    cfg.sniff,
		observer: cfg.observer,
	}, nil
}

// Default returns a Thumbnailer for SizeMedium at DefaultQuality with the
// built-in decoders.
func Default() *Thumbnailer {
	t, err := New(SizeMedium, DefaultQuality)
	if err != nil {
		panic(err)
	}
	return t
}

// Size returns the bounding box.
func (t *Thumbnailer) Size() Size { return t.size }

// Quality returns the lossy encoding quality.
func (t *Thumbnailer) Quality() int { return t.quality }

// Supports reports whether a decoder is registered for category.
func (t *Thumbnailer) Supports(category Category) bool {
	_, ok := t.decoders[category]
	return ok
}

// CreateThumbnail writes a thumbnail of source to output. The encoding comes
// from output's extension, JPEG when it has none or an unknown one.
//
// On an unsupported or undecodable source nothing is written. A failed PNG
// optimization (ErrOptimize) leaves the valid unoptimized PNG at output.
func (t *Thumbnailer) CreateThumbnail(source, output string) error {
	c := &creation{
		t:        t,
		source:   source,
		output:   output,
		category: CategoryUnsupported,
		encoding: JPEG,
	}

	start := time.Now()
	err := c.run()

	status := StatusSuccess
	var te *Error
	if errors.As(err, &te) {
		status = te.Kind.String()
	}
	t.observer.ObserveResult(c.category, c.encoding, status, time.Since(start).Seconds())

	if err != nil {
		logging.Debug("Thumbnail %s -> %s failed (%s): %v", source, output, status, err)
	}
	return err
}

// creation carries the state of one CreateThumbnail call.
type creation struct {
	t        *Thumbnailer
	source   string
	output   string
	mime     string
	category Category
	encoding Encoding
}

func (c *creation) run() error {
	t := c.t

	phaseStart := time.Now()
	mime, err := t.sniff(c.source)
	sniffDuration := time.Since(phaseStart).Seconds()
	if err != nil {
		return classify(KindIO, "sniff", c.source, "", err)
	}
	c.mime = mime
	c.category = mediatypes.Classify(mime)
	t.observer.ObservePhase(c.category, PhaseSniff, sniffDuration)

	if enc, ok := mediatypes.EncodingFromPath(c.output); ok {
		c.encoding = enc
	} else {
		logging.Debug("No encoding inferred from %q, defaulting to %s", c.output, JPEG)
	}

	dec, ok := t.decoders[c.category]
	if c.category == CategoryUnsupported || !ok {
		return &Error{Kind: KindUnsupported, Op: "dispatch", Path: c.source, MIME: mime}
	}

	logging.Debug("Thumbnailing %s (%s, %s) into %s as %s at %s",
		c.source, mime, c.category, c.output, c.encoding, t.size)

	phaseStart = time.Now()
	frame, err := dec.Decode(c.source, t.size.Width, t.size.Height)
	t.observer.ObservePhase(c.category, PhaseDecode, time.Since(phaseStart).Seconds())
	if err != nil {
		return classify(KindDecode, "decode", c.source, mime, err)
	}
	if frame == nil {
		return &Error{Kind: KindDecode, Op: "decode", Path: c.source, MIME: mime, Err: errors.New("decoder returned no frame")}
	}

	phaseStart = time.Now()
	res, err := t.encoder.EncodeFile(frame, c.encoding, t.quality, c.output)
	t.observer.ObservePhase(c.category, PhaseEncode, time.Since(phaseStart).Seconds())
	if err != nil {
		return classify(KindEncode, "encode", c.output, mime, err)
	}

	t.observer.ObserveOutput(c.encoding, res)
	return nil
}
