package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/adjust"
)

// Posterization levels. Every channel value maps onto one of these.
const (
	LevelDark  uint8 = 0
	LevelMid   uint8 = 64
	LevelLight uint8 = 255
)

// QuantizeChannel maps an 8-bit channel value onto three levels:
//
//	v < 64        -> 0
//	64 <= v < 128 -> 64
//	v >= 128      -> 255
//
// The mapping is idempotent: each level maps onto itself.
func QuantizeChannel(v uint8) uint8 {
	switch {
	case v < 64:
		return LevelDark
	case v < 128:
		return LevelMid
	default:
		return LevelLight
	}
}

// Posterize returns a copy of img with every color channel quantized by
// QuantizeChannel. Alpha is preserved. The input is never modified.
func Posterize(img image.Image) *image.RGBA {
	return adjust.Apply(img, func(c color.RGBA) color.RGBA {
		return color.RGBA{
			R: QuantizeChannel(c.R),
			G: QuantizeChannel(c.G),
			B: QuantizeChannel(c.B),
			A: c.A,
		}
	})
}

// PosterizeWithMean posterizes img and measures the mean channel intensity of the
// result in a single call.
func PosterizeWithMean(img image.Image) (*image.RGBA, float64) {
	out := Posterize(img)
	return out, MeanIntensity(out)
}
