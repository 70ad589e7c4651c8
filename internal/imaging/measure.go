package imaging

import (
	"image"
)

// MeanIntensity returns the average of the R, G and B samples of every pixel.
//
// For a 200x200 patch the divisor is 200*200*3 = 120000. Alpha is not counted.
// An empty image has mean 0.
func MeanIntensity(img *image.RGBA) float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return 0
	}

	var total uint64
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for i := 0; i < len(row); i += 4 {
			total += uint64(row[i]) + uint64(row[i+1]) + uint64(row[i+2])
		}
	}

	return float64(total) / float64(width*height*3)
}

// BrightEnough is the brightness gate: patches whose mean intensity falls below
// minMean are mostly background or shadow and are discarded.
func BrightEnough(mean, minMean float64) bool {
	return mean >= minMean
}
