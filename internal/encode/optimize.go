package encode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"auto-thumbnail/internal/logging"
)

// Optimizer losslessly shrinks a PNG file in place. Optimize reports the
// number of bytes removed; it never leaves a larger file behind and running
// it twice is harmless.
type Optimizer interface {
	Name() string
	Optimize(path string) (saved int64, err error)
}

// DefaultOptimizer uses oxipng when it is on PATH and falls back to the
// in-process Recompressor otherwise.
func DefaultOptimizer() Optimizer {
	if bin, err := exec.LookPath("oxipng"); err == nil {
		logging.Debug("PNG optimizer: oxipng (%s)", bin)
		return Oxipng{Binary: bin}
	}
	logging.Debug("PNG optimizer: oxipng not found, using built-in recompressor")
	return Recompressor{}
}

// Oxipng shells out to the oxipng binary at its maximum preset.
type Oxipng struct {
	Binary string
}

func (o Oxipng) Name() string { return "oxipng" }

func (o Oxipng) Optimize(path string) (int64, error) {
	before, err := fileSize(path)
	if err != nil {
		return 0, err
	}

	bin := o.Binary
	if bin == "" {
		bin = "oxipng"
	}

	cmd := exec.Command(bin, "-o", "max", "--strip", "safe", "--quiet", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return 0, fmt.Errorf("oxipng: %w: %s", err, strings.TrimSpace(string(out)))
	}

	after, err := fileSize(path)
	if err != nil {
		return 0, err
	}
	return before - after, nil
}

// Recompressor re-encodes a PNG at maximum deflate effort after reducing its
// color type where that loses nothing: opaque grayscale content becomes
// Gray, and content with at most 256 distinct colors becomes paletted.
// 16-bit images are only recompressed.
type Recompressor struct{}

func (Recompressor) Name() string { return "recompress" }

func (Recompressor) Optimize(path string) (int64, error) {
	original, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	img, err := png.Decode(bytes.NewReader(original))
	if err != nil {
		return 0, fmt.Errorf("decode %s: %w", path, err)
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, reduce(img)); err != nil {
		return 0, fmt.Errorf("re-encode %s: %w", path, err)
	}

	if buf.Len() >= len(original) {
		return 0, nil
	}

	if err := replaceFile(path, buf.Bytes()); err != nil {
		return 0, err
	}
	return int64(len(original) - buf.Len()), nil
}

// reduce returns the smallest lossless color model for img.
func reduce(img image.Image) image.Image {
	switch img.(type) {
	case *image.Gray, *image.Paletted, *image.Gray16, *image.RGBA64, *image.NRGBA64:
		return img
	}

	b := img.Bounds()
	gray := true
	palette := make(map[color.NRGBA]uint8, 256)
	overflow := false

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if gray && (c.A != 0xFF || c.R != c.G || c.G != c.B) {
				gray = false
			}
			if !overflow {
				if _, ok := palette[c]; !ok {
					if len(palette) == 256 {
						overflow = true
					} else {
						palette[c] = uint8(len(palette))
					}
				}
			}
			if !gray && overflow {
				return img
			}
		}
	}

	if gray {
		out := image.NewGray(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				out.SetGray(x, y, color.Gray{Y: c.R})
			}
		}
		return out
	}

	pal := make(color.Palette, len(palette))
	for c, i := range palette {
		pal[i] = c
	}
	out := image.NewPaletted(b, pal)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			out.SetColorIndex(x, y, palette[c])
		}
	}
	return out
}

// replaceFile swaps data into path through a sibling temp file so a crash
// never leaves a truncated PNG.
func replaceFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".optimize-*.png")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	info, err := os.Stat(path)
	if err == nil {
		_ = os.Chmod(tmpName, info.Mode().Perm())
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
