package thumbnailer

import (
	"image"

	"auto-thumbnail/internal/encode"
	"auto-thumbnail/internal/media"
	"auto-thumbnail/internal/mediatypes"
)

// Category is the media family of a source file.
type Category = mediatypes.Category

// Media categories.
const (
	CategoryImage       = mediatypes.CategoryImage
	CategoryVideo       = mediatypes.CategoryVideo
	CategoryPDF         = mediatypes.CategoryPDF
	CategoryUnsupported = mediatypes.CategoryUnsupported
)

// Encoding is an output image format.
type Encoding = mediatypes.Encoding

// Output encodings.
const (
	JPEG = mediatypes.JPEG
	PNG  = mediatypes.PNG
	WEBP = mediatypes.WEBP
)

// EncodeResult describes a written thumbnail.
type EncodeResult = encode.Result

// Optimizer losslessly shrinks a PNG file in place.
type Optimizer = encode.Optimizer

// Decoder produces a frame no larger than maxWidth x maxHeight from the file
// at path, preserving aspect ratio.
type Decoder interface {
	Decode(path string, maxWidth, maxHeight int) (image.Image, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(path string, maxWidth, maxHeight int) (image.Image, error)

func (f DecoderFunc) Decode(path string, maxWidth, maxHeight int) (image.Image, error) {
	return f(path, maxWidth, maxHeight)
}

// Encoder writes a frame to path.
type Encoder interface {
	EncodeFile(img image.Image, enc Encoding, quality int, path string) (EncodeResult, error)
}

// Sniffer returns the MIME type of the file at path, judged from content.
type Sniffer func(path string) (string, error)

type config struct {
	decoders map[Category]Decoder
	encoder  Encoder
	sniff    Sniffer
	observer Observer
}

func defaultConfig() *config {
	return &config{
		decoders: map[Category]Decoder{
			CategoryImage: media.ImageDecoder{},
			CategoryPDF:   media.PDFDecoder{},
			CategoryVideo: media.VideoDecoder{},
		},
		sniff:    media.Sniff,
		observer: nopObserver{},
	}
}

// Option configures a Thumbnailer.
type Option func(*config)

// WithDecoder registers d for category, replacing the default.
func WithDecoder(category Category, d Decoder) Option {
	return func(c *config) {
		c.decoders[category] = d
	}
}

// WithoutDecoder removes the decoder for category. Sources of that category
// then fail with ErrUnsupported.
func WithoutDecoder(category Category) Option {
	return func(c *config) {
		delete(c.decoders, category)
	}
}

// WithEncoder replaces the output encoder.
func WithEncoder(e Encoder) Option {
	return func(c *config) {
		c.encoder = e
	}
}

// WithOptimizer sets the PNG optimizer of the default encoder. A nil
// optimizer disables the optimization pass.
func WithOptimizer(opt Optimizer) Option {
	return func(c *config) {
		c.encoder = encode.New(opt)
	}
}

// WithSniffer replaces content-based MIME detection.
func WithSniffer(s Sniffer) Option {
	return func(c *config) {
		c.sniff = s
	}
}

// WithObserver receives the outcome of every CreateThumbnail call.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o == nil {
			o = nopObserver{}
		}
		c.observer = o
	}
}
