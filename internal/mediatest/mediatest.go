// Package mediatest generates media fixtures for tests: gradient images in
// every supported raster format, small PDFs and, when ffmpeg is installed,
// short test videos.
package mediatest

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/chai2010/webp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Gradient returns an opaque RGBA gradient so resizing is observable.
func Gradient(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

// Solid returns a single-colour RGBA image.
func Solid(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// EncodeImage encodes img in the named format: jpeg, png, apng, gif, bmp,
// tiff, webp or tga.
func EncodeImage(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case "jpeg", "jpg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	case "png":
		err = png.Encode(&buf, img)
	case "apng":
		if err = png.Encode(&buf, img); err == nil {
			return withAnimationControl(buf.Bytes()), nil
		}
	case "gif":
		err = gif.Encode(&buf, img, nil)
	case "bmp":
		err = bmp.Encode(&buf, img)
	case "tiff":
		err = tiff.Encode(&buf, img, nil)
	case "webp":
		err = webp.Encode(&buf, img, &webp.Options{Quality: 90})
	case "tga":
		return encodeTGA(img), nil
	default:
		return nil, fmt.Errorf("unsupported fixture format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteImage writes a width x height gradient in the given format to path.
func WriteImage(t testing.TB, path string, width, height int, format string) {
	t.Helper()

	data, err := EncodeImage(Gradient(width, height), format)
	if err != nil {
		t.Fatalf("Failed to encode %s fixture: %v", format, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", path, err)
	}
}

// withAnimationControl inserts a single-frame acTL chunk after IHDR, which is
// enough for content sniffing to report an animated PNG. Decoders that ignore
// the animation chunks still see the default image.
func withAnimationControl(data []byte) []byte {
	const ihdrEnd = 8 + 4 + 4 + 13 + 4

	chunk := make([]byte, 4+4+8+4)
	binary.BigEndian.PutUint32(chunk[0:], 8)
	copy(chunk[4:], "acTL")
	binary.BigEndian.PutUint32(chunk[8:], 1)  // num_frames
	binary.BigEndian.PutUint32(chunk[12:], 0) // num_plays
	binary.BigEndian.PutUint32(chunk[16:], crc32.ChecksumIEEE(chunk[4:16]))

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, data[:ihdrEnd]...)
	out = append(out, chunk...)
	return append(out, data[ihdrEnd:]...)
}

// encodeTGA writes an uncompressed 24-bit truecolor TGA with a top-left
// origin.
func encodeTGA(img image.Image) []byte {
	b := img.Bounds()
	header := make([]byte, 18)
	header[2] = 2 // uncompressed truecolor
	binary.LittleEndian.PutUint16(header[12:], uint16(b.Dx()))
	binary.LittleEndian.PutUint16(header[14:], uint16(b.Dy()))
	header[16] = 24
	header[17] = 0x20

	out := bytes.NewBuffer(header)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			out.Write([]byte{byte(bl >> 8), byte(g >> 8), byte(r >> 8)})
		}
	}
	return out.Bytes()
}

// PageColors are the fill colours used for successive PDF pages.
var PageColors = []color.RGBA{
	{R: 255, A: 255},
	{B: 255, A: 255},
	{G: 255, A: 255},
}

// PDF builds a PDF with the given number of pages. Each page is width x height
// points and filled with the matching entry of PageColors. A page count of
// zero produces a document with an empty page tree.
func PDF(pages, width, height int) []byte {
	var buf bytes.Buffer
	var offsets []int

	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	writeObj("<< /Type /Catalog /Pages 2 0 R >>")

	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", 3+2*i)
	}
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))

	for i := 0; i < pages; i++ {
		c := PageColors[i%len(PageColors)]
		writeObj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Contents %d 0 R >>",
			width, height, 4+2*i))
		content := fmt.Sprintf("%.1f %.1f %.1f rg 0 0 %d %d re f",
			float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, width, height)
		writeObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

// WritePDF writes a PDF fixture to path.
func WritePDF(t testing.TB, path string, pages, width, height int) {
	t.Helper()
	if err := os.WriteFile(path, PDF(pages, width, height), 0o644); err != nil {
		t.Fatalf("Failed to write PDF fixture %s: %v", path, err)
	}
}

// RequireFFmpeg skips the test unless ffmpeg and ffprobe are on PATH.
func RequireFFmpeg(t testing.TB) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available, skipping video test")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not available, skipping video test")
	}
}

// WriteVideo renders a short solid-colour clip with ffmpeg's lavfi source.
func WriteVideo(t testing.TB, path, colorName string, width, height int) {
	t.Helper()
	RequireFFmpeg(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-f", "lavfi",
		"-i", fmt.Sprintf("color=c=%s:s=%dx%d:d=1", colorName, width, height),
		"-pix_fmt", "yuv420p",
		"-t", "1",
		"-y",
		path,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("Could not create test video: %v: %s", err, out)
	}
}
