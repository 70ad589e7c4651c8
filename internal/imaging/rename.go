package imaging

import (
	"fmt"
	"os"
	"path/filepath"
)

// RenameSequential renames every file in dir ending with ext to
// <prefix><n><ext>, numbering from 0 in lexical order of the original names.
//
// Files that already carry their target name are left alone. The rename stops
// with an error, without touching the file, if a target name is taken by a
// different file.
//
// Returns the number of files that were renamed.
func RenameSequential(dir, ext, prefix string) (int, error) {
	paths, err := ListImages(dir, ext)
	if err != nil {
		return 0, err
	}

	renamed := 0
	for n, src := range paths {
		dst := filepath.Join(dir, fmt.Sprintf("%s%d%s", prefix, n, ext))
		if src == dst {
			continue
		}
		if _, err := os.Stat(dst); err == nil {
			return renamed, fmt.Errorf("cannot rename %s: %s already exists", filepath.Base(src), filepath.Base(dst))
		} else if !os.IsNotExist(err) {
			return renamed, fmt.Errorf("failed to stat %s: %w", dst, err)
		}
		if err := os.Rename(src, dst); err != nil {
			return renamed, fmt.Errorf("failed to rename %s: %w", src, err)
		}
		renamed++
	}

	return renamed, nil
}

