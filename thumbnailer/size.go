package thumbnailer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSize is returned for a size with a non-positive dimension or a
// name ParseSize does not recognize.
var ErrInvalidSize = errors.New("invalid thumbnail size")

// Size is the bounding box a thumbnail is fitted into.
type Size struct {
	Width  int
	Height int
	name   string
}

// Preset sizes.
var (
	SizeIcon   = Size{Width: 64, Height: 64, name: "icon"}
	SizeSmall  = Size{Width: 128, Height: 128, name: "small"}
	SizeMedium = Size{Width: 256, Height: 256, name: "medium"}
	SizeLarge  = Size{Width: 512, Height: 512, name: "large"}
	SizeLarger = Size{Width: 1024, Height: 1024, name: "larger"}
)

// Presets lists the preset sizes from smallest to largest.
var Presets = []Size{SizeIcon, SizeSmall, SizeMedium, SizeLarge, SizeLarger}

var sizeAliases = map[string]Size{
	"icon":    SizeIcon,
	"tiny":    SizeIcon,
	"small":   SizeSmall,
	"medium":  SizeMedium,
	"large":   SizeLarge,
	"larger":  SizeLarger,
	"x-large": SizeLarger,
}

// CustomSize returns a bounding box of width x height.
func CustomSize(width, height int) Size {
	return Size{Width: width, Height: height}
}

// String returns the preset name, or WxH for custom sizes.
func (s Size) String() string {
	if s.name != "" {
		return s.name
	}
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// ParseSize accepts a preset name (case-insensitive; "tiny" and "x-large"
// are aliases for icon and larger) or WxH.
func ParseSize(s string) (Size, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if size, ok := sizeAliases[key]; ok {
		return size, nil
	}

	w, h, ok := strings.Cut(key, "x")
	if !ok {
		return Size{}, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	width, errW := strconv.Atoi(w)
	height, errH := strconv.Atoi(h)
	if errW != nil || errH != nil {
		return Size{}, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	size := CustomSize(width, height)
	if !size.Valid() {
		return Size{}, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return size, nil
}
