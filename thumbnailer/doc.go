// Package thumbnailer turns a media file into a small preview image.
//
// A Thumbnailer sniffs the source's media type from its content, picks a
// decoder for the category (raster image, PDF document, video), resizes the
// decoded frame to fit a bounding box without upscaling, and writes it in the
// encoding implied by the output path's extension:
//
//	t, err := thumbnailer.New(thumbnailer.SizeMedium, 90)
//	if err != nil {
//	    return err
//	}
//	if err := t.CreateThumbnail("holiday.mov", "holiday.webp"); err != nil {
//	    if errors.Is(err, thumbnailer.ErrUnsupported) {
//	        // not a media type we know how to render
//	    }
//	    return err
//	}
//
// Output paths whose extension is not .jpeg, .png or .webp (in any case) get
// JPEG. PNG output is losslessly optimized after the first write.
//
// # Errors
//
// Every failure from CreateThumbnail is an *Error. Its Kind says which stage
// failed; the package sentinels ErrIO, ErrDecode, ErrEncode, ErrOptimize,
// ErrUnsupported and ErrInit match by kind with errors.Is. An unsupported
// type is reported before anything is written to the output path.
//
// # Native dependencies
//
// PDF rendering needs libvips built with a PDF loader (pdfium or poppler).
// Video needs ffmpeg and ffprobe on PATH. PNG optimization uses oxipng when
// it is installed and an in-process recompressor otherwise. When a native
// dependency is missing the affected call fails with ErrInit; the other
// categories keep working.
//
// A Thumbnailer is immutable after New and safe for concurrent use.
package thumbnailer
