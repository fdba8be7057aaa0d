package media

import (
	"image"

	"github.com/disintegration/imaging"
)

// Fit scales img down to fit inside maxWidth x maxHeight, preserving its
// aspect ratio. Images that already fit are copied at their original size.
func Fit(img image.Image, maxWidth, maxHeight int) *image.NRGBA {
	return imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)
}
