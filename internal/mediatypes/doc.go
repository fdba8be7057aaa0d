// Package mediatypes is the format registry shared by the thumbnailer and its
// tools.
//
// It has no dependencies beyond the standard library and contains only static
// tables and pure functions, so every other package can import it without
// creating cycles.
//
// # Categories
//
// A sniffed MIME type is classified into one of four categories:
//
//	mediatypes.Classify("image/png")       // CategoryImage
//	mediatypes.Classify("application/pdf") // CategoryPDF
//	mediatypes.Classify("video/mp4")       // CategoryVideo
//	mediatypes.Classify("text/plain")      // CategoryUnsupported
//
// The explicit tables (ImageMIMETypes, VideoMIMETypes, PDFMIMETypes) are
// checked first; any other "image/" or "video/" type is accepted by prefix.
//
// # Encodings
//
// Encoding is the closed set of output formats. The output format of a
// thumbnail is inferred from the output path's extension:
//
//	enc, ok := mediatypes.EncodingFromPath("out/thumb.webp") // WEBP, true
//	enc, ok = mediatypes.EncodingFromPath("out/thumb.jpg")   // _, false
//
// Inference reports "no match" rather than picking a default; the caller owns
// the fallback policy.
package mediatypes
