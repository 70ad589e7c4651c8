package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSV8 is a color on OpenCV's 8-bit HSV scale.
//
//   - H: 0-179 (degrees halved)
//   - S: 0-255, computed as 255*(max-min)/max
//   - V: 0-255, the largest of R, G and B
type HSV8 struct {
	H uint8
	S uint8
	V uint8
}

// ToHSV8 converts a color to the 8-bit HSV scale used by the segmentation
// thresholds. Alpha is ignored.
func ToHSV8(c color.Color) HSV8 {
	r, g, b, _ := c.RGBA()
	cf := colorful.Color{
		R: float64(r>>8) / 255.0,
		G: float64(g>>8) / 255.0,
		B: float64(b>>8) / 255.0,
	}
	h, s, v := cf.Hsv()

	return HSV8{
		H: uint8(math.Round(h/2)) % 180,
		S: uint8(math.Round(s * 255)),
		V: uint8(math.Round(v * 255)),
	}
}

// LightThreshold selects light, weakly saturated pixels such as the white face
// of a tile under room lighting. Hue is unconstrained.
type LightThreshold struct {
	MinValue      uint8 // pixel is on only if V >= MinValue
	MaxSaturation uint8 // pixel is on only if S <= MaxSaturation
}

// Contains reports whether c falls inside the threshold.
func (t LightThreshold) Contains(c color.Color) bool {
	hsv := ToHSV8(c)
	return hsv.V >= t.MinValue && hsv.S <= t.MaxSaturation
}

// LightMask produces a binary mask of the pixels selected by t.
//
// The mask has the same dimensions as img with its origin at (0,0). Selected
// pixels are 255, all others 0.
func LightMask(img image.Image, t LightThreshold) *image.Gray {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	mask := image.NewGray(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if t.Contains(img.At(x+bounds.Min.X, y+bounds.Min.Y)) {
				mask.Pix[y*mask.Stride+x] = 255
			}
		}
	}

	return mask
}
