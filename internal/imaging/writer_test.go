package imaging

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPatchName(t *testing.T) {
	at := time.Date(2024, 3, 9, 7, 5, 3, 0, time.Local)

	tests := []struct {
		counter int
		want    string
	}{
		{0, "PXL_0070503.png"},
		{7, "PXL_7070503.png"},
		{12, "PXL_12070503.png"},
	}

	for _, tt := range tests {
		if got := PatchName(tt.counter, at); got != tt.want {
			t.Errorf("PatchName(%d) = %s, want %s", tt.counter, got, tt.want)
		}
	}
}

func TestSavePNG(t *testing.T) {
	dir := t.TempDir()
	img := createInMemoryImage(20, 20, color.RGBA{255, 64, 0, 255})

	path, err := SavePNG(img, dir, "PXL_1.png")
	if err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}
	if path != filepath.Join(dir, "PXL_1.png") {
		t.Errorf("path: got %s", path)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if got := loaded.NRGBAAt(10, 10); got != (color.NRGBA{255, 64, 0, 255}) {
		t.Errorf("pixel: got %v, want {255 64 0 255}", got)
	}
}

func TestSavePNG_MissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	img := createInMemoryImage(4, 4, color.White)

	if _, err := SavePNG(img, dir, "PXL_1.png"); err == nil {
		t.Error("expected error when directory is missing")
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("SavePNG must not create the directory")
	}
}

func TestPreview(t *testing.T) {
	img := createInMemoryImage(1600, 900, color.RGBA{0, 0, 255, 255})

	out := Preview(img, 800, 600)
	if out.Bounds().Dx() != 800 || out.Bounds().Dy() != 600 {
		t.Errorf("size: got %dx%d, want 800x600", out.Bounds().Dx(), out.Bounds().Dy())
	}
	if got := out.NRGBAAt(400, 300); got.B < 250 || got.R > 5 {
		t.Errorf("center pixel: got %v, want blue", got)
	}
}
