// Package media turns source files into resized frames.
//
// Every decoder has the same shape:
//
//	Decode(path string, maxWidth, maxHeight int) (image.Image, error)
//
// and returns a frame scaled down to fit the box with its aspect ratio
// preserved. Frames that already fit are returned at their original size.
//
//   - ImageDecoder: raster files, format detected from content
//   - PDFDecoder: first page rendered by libvips
//   - VideoDecoder: first frame extracted by FFmpeg as raw RGB24
//
// Sniff reports the MIME type of a file from its leading bytes.
package media
