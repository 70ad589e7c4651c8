package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ListImages returns the paths of the regular files in dir whose names end with
// ext, in lexical order.
//
// Parameters:
//   - dir: Directory to scan. Subdirectories are not descended into.
//   - ext: File suffix including the dot (e.g. ".jpg"). The match is
//     case-sensitive, so ".JPG" files are not selected by ".jpg".
//
// Returns:
//   - []string: Paths joined with dir. Empty (not nil) when nothing matches.
//   - error: Non-nil if the directory cannot be read.
func ListImages(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	return paths, nil
}

// Load decodes an image file into an 8-bit non-premultiplied RGBA buffer.
//
// EXIF orientation is applied, so photographs taken in portrait mode come back
// upright. The returned image always has its origin at (0,0).
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a decodable image
func Load(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load image %s: %w", path, err)
	}

	return imaging.Clone(img), nil
}

// EnsureDir reports an error unless path exists and is a directory.
//
// Output directories are never created implicitly; a typo in a path should fail
// the run before any work is done.
func EnsureDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("directory %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
