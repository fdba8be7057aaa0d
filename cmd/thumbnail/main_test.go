package main

import (
	"bytes"
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"auto-thumbnail/internal/mediatest"
	"auto-thumbnail/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func imageSize(t *testing.T, path string) (int, int, string) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return cfg.Width, cfg.Height, format
}

func TestRunUsage(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"no command", nil, exitUsage, "Usage: thumbnail"},
		{"unknown command", []string{"resize"}, exitUsage, "Unknown command: resize"},
		{"sanitized command", []string{"rm -rf\n/"}, exitUsage, "Unknown command: rm_-rf__"},
		{"create without args", []string{"create"}, exitUsage, "Usage: thumbnail create"},
		{"create bad flag", []string{"create", "-bogus", "a", "b"}, exitUsage, "bogus"},
		{"batch without args", []string{"batch"}, exitUsage, "Usage: thumbnail batch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, tt.args...)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr %q should contain %q", stderr, tt.wantErr)
			}
		})
	}
}

func TestSanitizeCommand(t *testing.T) {
	tests := map[string]string{
		"create":      "create",
		"batch-2":     "batch-2",
		"a b":         "a_b",
		"\x1b[31mred": "_[31mred",
	}
	for in, want := range tests {
		if got := sanitizeCommand(in); got != want {
			t.Errorf("sanitizeCommand(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatsAndVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "formats")
	if code != exitOK {
		t.Fatalf("formats exit code = %d", code)
	}
	for _, want := range []string{"image/x-tga", "application/pdf", "video/mp4", "WEBP  .webp", "medium  256x256"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("formats output missing %q:\n%s", want, stdout)
		}
	}

	code, stdout, _ = runCLI(t, "version")
	if code != exitOK || !strings.HasPrefix(stdout, "thumbnail ") {
		t.Errorf("version = %d %q", code, stdout)
	}
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wide.png")
	mediatest.WriteImage(t, src, 600, 300, "png")

	tests := []struct {
		name       string
		args       []string
		output     string
		wantWidth  int
		wantHeight int
		wantFormat string
	}{
		{"default size jpeg", nil, "out.jpeg", 256, 128, "jpeg"},
		{"unknown extension falls back to jpeg", nil, "out.thumb", 256, 128, "jpeg"},
		{"preset png", []string{"-size", "small"}, "out.png", 128, 64, "png"},
		{"custom box without optimizer", []string{"-size", "100x100", "-no-optimize"}, "small.png", 100, 50, "png"},
		{"lower quality", []string{"-quality", "40"}, "q40.jpeg", 256, 128, "jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(dir, tt.output)
			args := append([]string{"create"}, tt.args...)
			args = append(args, src, out)

			code, stdout, stderr := runCLI(t, args...)
			if code != exitOK {
				t.Fatalf("exit code = %d, stderr %q", code, stderr)
			}
			if strings.TrimSpace(stdout) != out {
				t.Errorf("stdout = %q, want the output path", stdout)
			}

			w, h, format := imageSize(t, out)
			if w != tt.wantWidth || h != tt.wantHeight || format != tt.wantFormat {
				t.Errorf("thumbnail = %s %dx%d, want %s %dx%d", format, w, h, tt.wantFormat, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestCreateWebP(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.bmp")
	mediatest.WriteImage(t, src, 320, 240, "bmp")
	out := filepath.Join(dir, "a.webp")

	if code, _, stderr := runCLI(t, "create", "-size", "icon", src, out); code != exitOK {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) || !bytes.Contains(data[:16], []byte("WEBP")) {
		t.Error("output is not a WebP file")
	}
}

func TestCreateErrors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.png")
	mediatest.WriteImage(t, src, 50, 50, "png")
	text := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(text, []byte("just words\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"bad size", []string{"-size", "enormous", src, filepath.Join(dir, "o.jpg")}, exitUsage, "invalid thumbnail size"},
		{"bad quality", []string{"-quality", "0", src, filepath.Join(dir, "o.jpg")}, exitUsage, "quality"},
		{"missing source", []string{filepath.Join(dir, "none.png"), filepath.Join(dir, "o.jpg")}, exitFailure, "no such file"},
		{"unsupported", []string{text, filepath.Join(dir, "o.jpg")}, exitFailure, "unsupported MIME type: `text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runCLI(t, append([]string{"create"}, tt.args...)...)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr %q should contain %q", stderr, tt.wantErr)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "o.jpg")); !os.IsNotExist(err) {
		t.Error("failed creations should not write an output file")
	}
}

func writeTree(t *testing.T, root string) {
	t.Helper()
	for _, d := range []string{"sub/deeper", ".hidden"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	mediatest.WriteImage(t, filepath.Join(root, "a.png"), 400, 200, "png")
	mediatest.WriteImage(t, filepath.Join(root, "sub", "b.jpg"), 200, 400, "jpeg")
	mediatest.WriteImage(t, filepath.Join(root, "sub", "deeper", "c.gif"), 64, 64, "gif")
	mediatest.WriteImage(t, filepath.Join(root, ".hidden", "d.png"), 100, 100, "png")
	if err := os.WriteFile(filepath.Join(root, "sub", "readme.txt"), []byte("not media\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBatch(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "thumbs")
	writeTree(t, src)

	created := metrics.BatchFilesTotal.WithLabelValues(statusCreated)
	before := testutil.ToFloat64(created)

	code, stdout, stderr := runCLI(t, "batch", "-size", "small", "-workers", "2", src, dst)
	if code != exitOK {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}
	if !strings.HasPrefix(stdout, "created 3, skipped 0, unsupported 1, failed 0") {
		t.Errorf("summary = %q", stdout)
	}
	if delta := testutil.ToFloat64(created) - before; delta != 3 {
		t.Errorf("created counter delta = %v, want 3", delta)
	}

	checks := []struct {
		rel  string
		w, h int
	}{
		{"a.png.jpg", 128, 64},
		{"sub/b.jpg.jpg", 64, 128},
		{"sub/deeper/c.gif.jpg", 64, 64},
	}
	for _, c := range checks {
		w, h, format := imageSize(t, filepath.Join(dst, filepath.FromSlash(c.rel)))
		if w != c.w || h != c.h || format != "jpeg" {
			t.Errorf("%s = %s %dx%d, want jpeg %dx%d", c.rel, format, w, h, c.w, c.h)
		}
	}

	for _, rel := range []string{".hidden/d.png.jpg", "sub/readme.txt.jpg"} {
		if _, err := os.Stat(filepath.Join(dst, filepath.FromSlash(rel))); !os.IsNotExist(err) {
			t.Errorf("%s should not exist", rel)
		}
	}
}

func TestBatchSkipsUpToDate(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "thumbs")
	writeTree(t, src)

	if code, _, stderr := runCLI(t, "batch", src, dst); code != exitOK {
		t.Fatalf("first run exit code = %d, stderr %q", code, stderr)
	}

	_, stdout, _ := runCLI(t, "batch", src, dst)
	if !strings.HasPrefix(stdout, "created 0, skipped 3, unsupported 1, failed 0") {
		t.Errorf("second run summary = %q", stdout)
	}

	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(filepath.Join(src, "a.png"), later, later); err != nil {
		t.Fatal(err)
	}
	_, stdout, _ = runCLI(t, "batch", src, dst)
	if !strings.HasPrefix(stdout, "created 1, skipped 2,") {
		t.Errorf("run after touching a source = %q", stdout)
	}

	_, stdout, _ = runCLI(t, "batch", "-force", src, dst)
	if !strings.HasPrefix(stdout, "created 3, skipped 0,") {
		t.Errorf("forced run summary = %q", stdout)
	}
}

func TestBatchFormatAndFailures(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "thumbs")
	mediatest.WriteImage(t, filepath.Join(src, "ok.tiff"), 300, 100, "tiff")
	if err := os.WriteFile(filepath.Join(src, "broken.png"), []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDRcut"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, stdout, _ := runCLI(t, "batch", "-format", "png", "-size", "150x150", src, dst)
	if code != exitFailure {
		t.Errorf("exit code = %d, want %d when a file fails", code, exitFailure)
	}
	if !strings.HasPrefix(stdout, "created 1, skipped 0, unsupported 0, failed 1") {
		t.Errorf("summary = %q", stdout)
	}

	w, h, format := imageSize(t, filepath.Join(dst, "ok.tiff.png"))
	if w != 150 || h != 50 || format != "png" {
		t.Errorf("ok.tiff.png = %s %dx%d, want png 150x50", format, w, h)
	}
}

func TestBatchBadArguments(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.png")
	mediatest.WriteImage(t, file, 10, 10, "png")

	tests := []struct {
		name string
		args []string
	}{
		{"source is a file", []string{file, filepath.Join(dir, "out")}},
		{"missing source", []string{filepath.Join(dir, "none"), filepath.Join(dir, "out")}},
		{"bad format", []string{"-format", "gif", dir, filepath.Join(dir, "out")}},
		{"bad size", []string{"-size", "0x0", dir, filepath.Join(dir, "out")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, append([]string{"batch"}, tt.args...)...)
			if code != exitUsage {
				t.Errorf("exit code = %d, want %d", code, exitUsage)
			}
		})
	}
}

func TestBatchCancelled(t *testing.T) {
	src := t.TempDir()
	writeTree(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"batch", src, filepath.Join(t.TempDir(), "out")}, &stdout, &stderr)
	if code != exitFailure {
		t.Errorf("exit code = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(stderr.String(), "context canceled") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestOutputPath(t *testing.T) {
	b := &batch{srcDir: "/src", dstDir: "/dst"}
	if got := b.outputPath("/src/a/b.png"); got != filepath.Join("/dst", "a", "b.png.jpg") {
		t.Errorf("outputPath() = %q", got)
	}
}
