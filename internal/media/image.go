package media

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"auto-thumbnail/internal/logging"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// ErrUnknownImageFormat is returned when the content matches none of the
// supported raster formats.
var ErrUnknownImageFormat = errors.New("unknown image format")

// rasterDecoders maps a sniffed MIME type to its codec. Decoding goes through
// this table rather than image.Decode so that format selection depends only
// on the sniffed content.
var rasterDecoders = map[string]func(io.Reader) (image.Image, error){
	"image/jpeg": jpeg.Decode,
	"image/png":  png.Decode,
	"image/gif":  gif.Decode,
	"image/bmp":  bmp.Decode,
	"image/tiff": tiff.Decode,
	"image/webp": webp.Decode,
	mimeTGA:      tga.Decode,
}

// ImageDecoder decodes raster image files.
type ImageDecoder struct{}

// Decode opens path, detects its raster format from content, decodes it and
// fits the result into the box.
func (ImageDecoder) Decode(path string, maxWidth, maxHeight int) (image.Image, error) {
	img, format, err := decodeRaster(path)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	logging.Debug("Decoded %s image %s: %dx%d, fitting to %dx%d",
		format, path, b.Dx(), b.Dy(), maxWidth, maxHeight)

	return Fit(img, maxWidth, maxHeight), nil
}

func decodeRaster(path string) (image.Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	format, err := sniffReader(file)
	if err != nil {
		return nil, "", err
	}

	decode, ok := rasterDecoder(format)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnknownImageFormat, format)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, "", err
	}

	img, err := decode(file)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", format, err)
	}
	return img, format, nil
}

func rasterDecoder(format string) (func(io.Reader) (image.Image, error), bool) {
	if decode, ok := rasterDecoders[format]; ok {
		return decode, true
	}
	// aliases such as image/x-ms-bmp
	switch format {
	case "image/x-bmp", "image/x-ms-bmp":
		return bmp.Decode, true
	case "image/vnd.mozilla.apng":
		// default image only
		return png.Decode, true
	}
	return nil, false
}
