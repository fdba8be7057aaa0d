package thumbnailer

import (
	"errors"
	"fmt"
	"io/fs"

	"auto-thumbnail/internal/encode"
	"auto-thumbnail/internal/media"
)

// Kind identifies the stage a thumbnail failed in.
type Kind int

const (
	// KindIO covers reading the source and writing the output.
	KindIO Kind = iota + 1
	// KindDecode means the source could not be turned into a frame.
	KindDecode
	// KindEncode means the frame could not be written in the target encoding.
	KindEncode
	// KindOptimize means the lossless PNG pass failed. The unoptimized PNG
	// remains at the output path.
	KindOptimize
	// KindUnsupported means the sniffed MIME type has no decoder.
	KindUnsupported
	// KindInit means a native dependency (libvips, ffmpeg) is unavailable or
	// the Thumbnailer was configured with invalid values.
	KindInit
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindDecode:
		return "decode"
	case KindEncode:
		return "encode"
	case KindOptimize:
		return "optimize"
	case KindUnsupported:
		return "unsupported"
	case KindInit:
		return "init"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// kindSentinel matches any *Error of the same kind.
type kindSentinel Kind

func (s kindSentinel) Error() string { return Kind(s).String() + " error" }

// Sentinels for errors.Is.
var (
	ErrIO          error = kindSentinel(KindIO)
	ErrDecode      error = kindSentinel(KindDecode)
	ErrEncode      error = kindSentinel(KindEncode)
	ErrOptimize    error = kindSentinel(KindOptimize)
	ErrUnsupported error = kindSentinel(KindUnsupported)
	ErrInit        error = kindSentinel(KindInit)
)

// Error is the error type returned by CreateThumbnail.
type Error struct {
	Kind Kind
	Op   string // sniff, dispatch, decode, encode, new
	Path string
	MIME string
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == KindUnsupported {
		return fmt.Sprintf("unsupported MIME type: `%s`", e.MIME)
	}

	msg := e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	} else {
		msg += ": " + e.Kind.String() + " error"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the kind sentinels.
func (e *Error) Is(target error) bool {
	s, ok := target.(kindSentinel)
	return ok && Kind(s) == e.Kind
}

// classify wraps err from the given stage. fallback is the kind used when
// nothing more specific applies.
func classify(fallback Kind, op, path, mime string, err error) *Error {
	var te *Error
	if errors.As(err, &te) {
		return te
	}

	kind := fallback
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, media.ErrRenderEngineUnavailable), errors.Is(err, media.ErrToolUnavailable):
		kind = KindInit
	case errors.Is(err, encode.ErrOptimize):
		kind = KindOptimize
	case errors.Is(err, encode.ErrUnsupportedFrame):
		kind = KindEncode
	case errors.As(err, &pathErr):
		kind = KindIO
	}

	return &Error{Kind: kind, Op: op, Path: path, MIME: mime, Err: err}
}
