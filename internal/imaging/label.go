package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/disintegration/imaging"
)

// Label is a short caption anchored at its top-left pixel.
type Label struct {
	At   image.Point
	Text string
}

// glyphs is a 3x5 pixel font covering what patch captions need.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	'#': {"101", "111", "101", "111", "101"},
}

var (
	labelForeground = color.NRGBA{255, 255, 255, 255}
	labelBackground = color.NRGBA{0, 0, 0, 255}
)

// DrawLabels returns a copy of img with each label drawn in white on a black box.
//
// Parameters:
//   - img: Image to caption. Not modified.
//   - labels: Captions in img coordinates. Parts falling outside img are clipped.
//   - scale: Size of one font pixel in image pixels. Values below 1 are treated as 1.
//
// Returns:
//   - *image.NRGBA: The captioned copy, with its origin at (0,0).
//
// Runes without a glyph leave a blank cell.
func DrawLabels(img image.Image, labels []Label, scale int) *image.NRGBA {
	out := imaging.Clone(img)
	if scale < 1 {
		scale = 1
	}
	for _, l := range labels {
		drawLabel(out, l.At.Sub(img.Bounds().Min), l.Text, scale)
	}
	return out
}

func drawLabel(img *image.NRGBA, at image.Point, text string, scale int) {
	cell := 4 * scale
	box := image.Rect(at.X-scale, at.Y-scale, at.X+len(text)*cell, at.Y+6*scale)
	fillRect(img, box, labelBackground)

	cx := at.X
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += cell
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				px := image.Rect(0, 0, scale, scale).Add(image.Pt(cx+col*scale, at.Y+row*scale))
				fillRect(img, px, labelForeground)
			}
		}
		cx += cell
	}
}

// fillRect paints r clipped to the bounds of img.
func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA"; the leading '#' is optional.
func ParseHexColor(hex string) (color.RGBA, error) {
	if len(hex) == 0 {
		return color.RGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", hex)
	}

	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	if len(hex) == 6 {
		val = val<<8 | 0xFF
	}

	return color.RGBA{
		R: uint8(val >> 24),
		G: uint8(val >> 16),
		B: uint8(val >> 8),
		A: uint8(val),
	}, nil
}
