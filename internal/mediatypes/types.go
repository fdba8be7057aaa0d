package mediatypes

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Category is the media family a MIME type belongs to.
type Category string

const (
	// CategoryImage is a raster image.
	CategoryImage Category = "image"
	// CategoryVideo is a video container.
	CategoryVideo Category = "video"
	// CategoryPDF is a PDF document.
	CategoryPDF Category = "pdf"
	// CategoryUnsupported is anything that cannot be thumbnailed.
	CategoryUnsupported Category = "unsupported"
)

// Categories lists the categories a decoder can be registered for.
var Categories = []Category{CategoryImage, CategoryVideo, CategoryPDF}

// ImageMIMETypes lists the raster formats the image decoder understands.
var ImageMIMETypes = []string{
	"image/jpeg",
	"image/png",
	"image/vnd.mozilla.apng",
	"image/gif",
	"image/bmp",
	"image/tiff",
	"image/webp",
	"image/x-tga",
}

// VideoMIMETypes lists the container formats handed to the video decoder.
var VideoMIMETypes = []string{
	"video/mp4",
	"video/webm",
	"video/mpeg",
	"video/quicktime",
	"video/theora",
	"video/x-flv",
	"video/x-ms-asf",
	"video/x-msvideo",
	"application/x-matroska",
	"application/x-shockwave-flash",
	"video/3gpp",
	"video/3gpp2",
}

// PDFMIMETypes lists the document types handed to the PDF decoder.
var PDFMIMETypes = []string{
	"application/pdf",
}

var categoryByMIME = func() map[string]Category {
	m := make(map[string]Category, len(ImageMIMETypes)+len(VideoMIMETypes)+len(PDFMIMETypes))
	for _, t := range ImageMIMETypes {
		m[t] = CategoryImage
	}
	for _, t := range VideoMIMETypes {
		m[t] = CategoryVideo
	}
	for _, t := range PDFMIMETypes {
		m[t] = CategoryPDF
	}
	return m
}()

// BaseMIME strips parameters and normalizes case, so that
// "Text/Plain; charset=utf-8" becomes "text/plain".
func BaseMIME(mime string) string {
	base, _, _ := strings.Cut(mime, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

// Classify returns the category for a MIME type.
func Classify(mime string) Category {
	base := BaseMIME(mime)
	if c, ok := categoryByMIME[base]; ok {
		return c
	}

	switch {
	case strings.HasPrefix(base, "image/"):
		return CategoryImage
	case strings.HasPrefix(base, "video/"):
		return CategoryVideo
	}
	return CategoryUnsupported
}

// Encoding is an output image format.
type Encoding int

const (
	// JPEG output.
	JPEG Encoding = iota
	// PNG output, followed by a lossless optimization pass.
	PNG
	// WEBP output (lossy).
	WEBP
)

// Encodings lists every output format in declaration order.
var Encodings = []Encoding{JPEG, PNG, WEBP}

// String returns the canonical token.
func (e Encoding) String() string {
	switch e {
	case JPEG:
		return "JPEG"
	case PNG:
		return "PNG"
	case WEBP:
		return "WEBP"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// Extension returns the conventional file extension, including the dot.
func (e Encoding) Extension() string {
	switch e {
	case PNG:
		return ".png"
	case WEBP:
		return ".webp"
	default:
		return ".jpg"
	}
}

// ContentType returns the MIME type of files written with this encoding.
func (e Encoding) ContentType() string {
	switch e {
	case PNG:
		return "image/png"
	case WEBP:
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// ParseEncoding parses a token case-insensitively. Only JPEG, PNG and WEBP
// are accepted.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToUpper(s) {
	case "JPEG":
		return JPEG, nil
	case "PNG":
		return PNG, nil
	case "WEBP":
		return WEBP, nil
	}
	return 0, fmt.Errorf("unknown encoding %q", s)
}

// EncodingFromPath infers the output encoding from a path's extension.
// The second result is false when the extension is missing or unrecognized.
func EncodingFromPath(path string) (Encoding, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return 0, false
	}
	enc, err := ParseEncoding(strings.ToUpper(ext))
	if err != nil {
		return 0, false
	}
	return enc, true
}
