package thumbnailer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"testing"

	"auto-thumbnail/internal/encode"
	"auto-thumbnail/internal/media"
)

func TestErrorIsMatchesKind(t *testing.T) {
	sentinels := map[Kind]error{
		KindIO:          ErrIO,
		KindDecode:      ErrDecode,
		KindEncode:      ErrEncode,
		KindOptimize:    ErrOptimize,
		KindUnsupported: ErrUnsupported,
		KindInit:        ErrInit,
	}

	for kind, sentinel := range sentinels {
		err := fmt.Errorf("wrapped: %w", &Error{Kind: kind, Op: "test", Err: errors.New("boom")})
		for other, otherSentinel := range sentinels {
			if got := errors.Is(err, otherSentinel); got != (kind == other) {
				t.Errorf("errors.Is(%s error, %s sentinel) = %v", kind, other, got)
			}
		}
		if !errors.Is(err, sentinel) {
			t.Errorf("%s error does not match its sentinel", kind)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	unsupported := &Error{Kind: KindUnsupported, Op: "dispatch", Path: "/a.txt", MIME: "text/plain"}
	if got := unsupported.Error(); got != "unsupported MIME type: `text/plain`" {
		t.Errorf("unsupported message = %q", got)
	}

	decode := &Error{Kind: KindDecode, Op: "decode", Path: "/a.png", Err: errors.New("bad huffman")}
	if got := decode.Error(); got != "decode /a.png: bad huffman" {
		t.Errorf("decode message = %q", got)
	}

	bare := &Error{Kind: KindInit, Op: "new"}
	if got := bare.Error(); !strings.Contains(got, "init") {
		t.Errorf("bare message = %q, want kind in text", got)
	}
}

func TestErrorUnwrap(t *testing.T) {
	_, statErr := os.Stat("/definitely/not/here")
	err := &Error{Kind: KindIO, Op: "sniff", Err: statErr}

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("expected the underlying not-exist error to be reachable")
	}
}

func TestClassify(t *testing.T) {
	_, pathErr := os.Open("/definitely/not/here")

	tests := []struct {
		name     string
		fallback Kind
		err      error
		want     Kind
	}{
		{"plain decode error", KindDecode, errors.New("corrupt"), KindDecode},
		{"plain encode error", KindEncode, errors.New("disk full"), KindEncode},
		{"path error while decoding", KindDecode, pathErr, KindIO},
		{"path error while encoding", KindEncode, fmt.Errorf("write: %w", pathErr), KindIO},
		{"render engine missing", KindDecode, fmt.Errorf("x: %w", media.ErrRenderEngineUnavailable), KindInit},
		{"ffmpeg missing", KindDecode, fmt.Errorf("%w: ffmpeg", media.ErrToolUnavailable), KindInit},
		{"optimizer failed", KindEncode, fmt.Errorf("%w: oxipng: exit 1", encode.ErrOptimize), KindOptimize},
		{"unsupported frame", KindEncode, fmt.Errorf("%w: *image.Paletted", encode.ErrUnsupportedFrame), KindEncode},
		{"corrupt video", KindDecode, media.ErrFrameSizeMismatch, KindDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.fallback, "op", "/p", "image/png", tt.err)
			if got.Kind != tt.want {
				t.Errorf("kind = %s, want %s", got.Kind, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error lost its cause")
			}
		})
	}
}

func TestClassifyKeepsExistingError(t *testing.T) {
	inner := &Error{Kind: KindUnsupported, MIME: "text/plain"}
	got := classify(KindDecode, "decode", "/p", "", fmt.Errorf("nested: %w", inner))
	if got != inner {
		t.Errorf("expected the existing *Error to be returned, got %v", got)
	}
}

func TestKindString(t *testing.T) {
	if got := Kind(99).String(); got != "Kind(99)" {
		t.Errorf("Kind(99).String() = %q", got)
	}
	seen := map[string]bool{}
	for _, k := range []Kind{KindIO, KindDecode, KindEncode, KindOptimize, KindUnsupported, KindInit} {
		s := k.String()
		if seen[s] {
			t.Errorf("duplicate kind string %q", s)
		}
		seen[s] = true
	}
}
