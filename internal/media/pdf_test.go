package media

import (
	"errors"
	"path/filepath"
	"testing"

	"auto-thumbnail/internal/mediatest"
)

// requireEngine skips when libvips lacks a PDF loader.
func requireEngine(t *testing.T) *RenderEngine {
	t.Helper()
	eng, err := AcquireRenderEngine()
	if err != nil {
		if !errors.Is(err, ErrRenderEngineUnavailable) {
			t.Fatalf("AcquireRenderEngine returned an unclassified error: %v", err)
		}
		t.Skipf("PDF rendering unavailable: %v", err)
	}
	return eng
}

func TestAcquireRenderEngineIsCached(t *testing.T) {
	first, firstErr := AcquireRenderEngine()
	second, secondErr := AcquireRenderEngine()

	if first != second {
		t.Error("expected the same engine handle on repeated acquisition")
	}
	if (firstErr == nil) != (secondErr == nil) {
		t.Errorf("acquisition outcome changed: %v then %v", firstErr, secondErr)
	}
}

func TestPDFDecoderFirstPageOnly(t *testing.T) {
	eng := requireEngine(t)
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "doc.pdf")
	mediatest.WritePDF(t, path, 3, 400, 200)

	img, err := PDFDecoder{Engine: eng}.Decode(path, 100, 100)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	b := img.Bounds()
	if b.Dx() > 100 || b.Dy() > 100 {
		t.Errorf("size %dx%d exceeds 100x100", b.Dx(), b.Dy())
	}
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("size = %dx%d, want 100x50", b.Dx(), b.Dy())
	}

	// page one is red, page two blue
	r, _, bl, _ := img.At(b.Dx()/2, b.Dy()/2).RGBA()
	if r>>8 < 200 || bl>>8 > 60 {
		t.Errorf("center pixel is not page one's red: r=%d b=%d", r>>8, bl>>8)
	}
}

func TestPDFDecoderLazyEngine(t *testing.T) {
	requireEngine(t)
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "doc.pdf")
	mediatest.WritePDF(t, path, 1, 50, 50)

	img, err := PDFDecoder{}.Decode(path, 256, 256)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 50 {
		t.Errorf("size = %dx%d, want 50x50 (no upscaling)", b.Dx(), b.Dy())
	}
}

func TestPDFDecoderErrors(t *testing.T) {
	eng := requireEngine(t)
	tmpDir := t.TempDir()

	t.Run("zero pages", func(t *testing.T) {
		path := filepath.Join(tmpDir, "empty.pdf")
		mediatest.WritePDF(t, path, 0, 100, 100)
		if _, err := (PDFDecoder{Engine: eng}).Decode(path, 64, 64); err == nil {
			t.Error("expected error for a PDF with no pages")
		}
	})

	t.Run("not a pdf", func(t *testing.T) {
		path := filepath.Join(tmpDir, "image.pdf")
		mediatest.WriteImage(t, path, 20, 20, "png")
		_, err := PDFDecoder{Engine: eng}.Decode(path, 64, 64)
		if !errors.Is(err, ErrNotPDF) {
			t.Fatalf("expected ErrNotPDF, got %v", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := (PDFDecoder{Engine: eng}).Decode(filepath.Join(tmpDir, "missing.pdf"), 64, 64); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
