package encode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"

	"auto-thumbnail/internal/logging"
	"auto-thumbnail/internal/mediatypes"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

var (
	// ErrUnsupportedFrame is returned when a frame's pixel layout cannot be
	// handed to the WEBP encoder.
	ErrUnsupportedFrame = errors.New("unsupported frame layout")

	// ErrOptimize wraps failures of the lossless PNG pass. The first-pass PNG
	// is still on disk when it is returned.
	ErrOptimize = errors.New("png optimization failed")

	// ErrQuality is returned for a quality outside 1..100.
	ErrQuality = errors.New("quality must be between 1 and 100")
)

// Result describes a written thumbnail.
type Result struct {
	Bytes      int64
	SavedBytes int64
}

// Encoder writes thumbnails. The zero value skips PNG optimization.
type Encoder struct {
	Optimizer Optimizer
}

// New returns an Encoder that runs opt after every PNG write.
func New(opt Optimizer) *Encoder {
	return &Encoder{Optimizer: opt}
}

// Encode writes img to path in the given encoding. quality applies to JPEG
// and WEBP and is ignored for PNG.
func (e *Encoder) Encode(img image.Image, enc mediatypes.Encoding, quality int, path string) error {
	_, err := e.EncodeFile(img, enc, quality, path)
	return err
}

// EncodeFile is Encode that also reports the final file size and the bytes
// saved by PNG optimization.
func (e *Encoder) EncodeFile(img image.Image, enc mediatypes.Encoding, quality int, path string) (Result, error) {
	if quality < 1 || quality > 100 {
		return Result{}, fmt.Errorf("%w: got %d", ErrQuality, quality)
	}

	var data []byte
	var err error

	switch enc {
	case mediatypes.JPEG:
		data, err = encodeJPEG(img, quality)
	case mediatypes.PNG:
		data, err = encodePNG(img)
	case mediatypes.WEBP:
		data, err = encodeWEBP(img, quality)
	default:
		return Result{}, fmt.Errorf("unknown encoding %s", enc)
	}
	if err != nil {
		return Result{}, err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Result{}, err
	}
	res := Result{Bytes: int64(len(data))}

	logging.Debug("Wrote %s thumbnail %s (%d bytes)", enc, path, len(data))

	if enc != mediatypes.PNG || e.Optimizer == nil {
		return res, nil
	}

	saved, err := e.Optimizer.Optimize(path)
	if err != nil {
		return res, fmt.Errorf("%w: %s: %w", ErrOptimize, e.Optimizer.Name(), err)
	}
	res.SavedBytes = saved
	res.Bytes -= saved

	if saved > 0 {
		logging.Debug("Optimized %s with %s: saved %d bytes", path, e.Optimizer.Name(), saved)
	}
	return res, nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	return buf.Bytes(), nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// encodeWEBP accepts the layouts the fitted frames actually come in: NRGBA
// from the resampler, RGBA and Gray from callers that skip resizing.
func encodeWEBP(img image.Image, quality int) ([]byte, error) {
	var frame image.Image
	switch m := img.(type) {
	case *image.NRGBA:
		frame = straightAlpha(m)
	case *image.RGBA:
		frame = straightAlpha(imaging.Clone(m))
	case *image.Gray:
		frame = m
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedFrame, img)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, frame, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, fmt.Errorf("webp encode: %w", err)
	}
	return buf.Bytes(), nil
}

// straightAlpha relabels NRGBA pixels as RGBA. libwebp takes straight alpha,
// and the webp package premultiplies anything it does not receive as RGBA.
func straightAlpha(n *image.NRGBA) *image.RGBA {
	if n.Rect.Min != (image.Point{}) {
		n = imaging.Clone(n)
	}
	return &image.RGBA{Pix: n.Pix, Stride: n.Stride, Rect: n.Rect}
}
