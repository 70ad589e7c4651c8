package imaging

import (
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
)

// PatchName builds the file name of a written patch: PXL_<counter><HHMMSS>.png.
//
// The counter is not zero-padded and the time has no date component, so a
// lexical sort of names does not equal numeric order.
func PatchName(counter int, at time.Time) string {
	return fmt.Sprintf("PXL_%d%s.png", counter, at.Format("150405"))
}

// SavePNG encodes img as PNG into dir/name and returns the full path.
//
// The directory must already exist.
func SavePNG(img image.Image, dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	return path, nil
}

// Preview scales img to exactly width x height using cubic (Catmull-Rom)
// interpolation. The aspect ratio is not preserved.
func Preview(img image.Image, width, height int) *image.NRGBA {
	return imaging.Resize(img, width, height, imaging.CatmullRom)
}
