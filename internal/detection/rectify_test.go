package detection

import (
	"image"
	"image/color"
	"testing"
)

// createRectImage creates a black image with a filled rectangle [x1,x2) x [y1,y2)
func createRectImage(width, height, x1, y1, x2, y2 int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x >= x1 && x < x2 && y >= y1 && y < y2 {
				img.Set(x, y, c)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	return img
}

func TestOrderCorners(t *testing.T) {
	want := Quad{{10, 10}, {10, 90}, {90, 90}, {90, 10}}

	orders := [][4]int{
		{0, 1, 2, 3},
		{1, 2, 3, 0},
		{3, 2, 1, 0},
		{2, 0, 3, 1},
	}

	for _, o := range orders {
		in := Quad{want[o[0]], want[o[1]], want[o[2]], want[o[3]]}
		if got := OrderCorners(in); got != want {
			t.Errorf("OrderCorners(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestOrderCorners_Perspective(t *testing.T) {
	// Tile photographed at an angle: top edge shorter than bottom edge.
	in := Quad{{420, 310}, {120, 320}, {180, 110}, {380, 100}}
	want := Quad{{180, 110}, {120, 320}, {420, 310}, {380, 100}}

	if got := OrderCorners(in); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRectify_SolidRectangle(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	img := createRectImage(400, 400, 100, 50, 300, 350, red)

	src, err := MatFromImage(img)
	if err != nil {
		t.Fatalf("MatFromImage failed: %v", err)
	}
	defer src.Close()

	q := Quad{{100, 50}, {100, 350}, {300, 350}, {300, 50}}
	patch, err := Rectify(src, q, 200)
	if err != nil {
		t.Fatalf("Rectify failed: %v", err)
	}

	if patch.Bounds() != image.Rect(0, 0, 200, 200) {
		t.Fatalf("bounds: got %v, want (0,0)-(200,200)", patch.Bounds())
	}

	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			r, g, b, _ := patch.At(x, y).RGBA()
			if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
				t.Fatalf("pixel (%d,%d): got (%d,%d,%d), want uniform red", x, y, r>>8, g>>8, b>>8)
			}
		}
	}
}

func TestRectify_UnorderedCornersAfterOrdering(t *testing.T) {
	img := createRectImage(400, 400, 100, 100, 300, 300, color.White)
	// Mark the top-left quadrant of the rectangle so orientation is visible.
	for y := 100; y < 200; y++ {
		for x := 100; x < 200; x++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}

	src, err := MatFromImage(img)
	if err != nil {
		t.Fatalf("MatFromImage failed: %v", err)
	}
	defer src.Close()

	shuffled := Quad{{300, 300}, {300, 100}, {100, 300}, {100, 100}}
	patch, err := Rectify(src, OrderCorners(shuffled), 200)
	if err != nil {
		t.Fatalf("Rectify failed: %v", err)
	}

	r, g, b, _ := patch.At(50, 50).RGBA()
	if r>>8 != 0 || g>>8 != 0 || b>>8 != 255 {
		t.Errorf("top-left of patch: got (%d,%d,%d), want blue", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = patch.At(150, 150).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("bottom-right of patch: got (%d,%d,%d), want white", r>>8, g>>8, b>>8)
	}
}

func TestRectify_InvalidInput(t *testing.T) {
	img := createRectImage(50, 50, 0, 0, 50, 50, color.White)
	src, err := MatFromImage(img)
	if err != nil {
		t.Fatalf("MatFromImage failed: %v", err)
	}
	defer src.Close()

	q := Quad{{0, 0}, {0, 49}, {49, 49}, {49, 0}}
	if _, err := Rectify(src, q, 0); err == nil {
		t.Error("expected error for zero size")
	}
}

func TestAnnotate(t *testing.T) {
	img := createRectImage(100, 100, 0, 0, 0, 0, color.Black)
	src, err := MatFromImage(img)
	if err != nil {
		t.Fatalf("MatFromImage failed: %v", err)
	}
	defer src.Close()

	green := color.RGBA{0, 255, 0, 255}
	out, err := Annotate(src, []Quad{{{10, 10}, {10, 90}, {90, 90}, {90, 10}}}, green, 3)
	if err != nil {
		t.Fatalf("Annotate failed: %v", err)
	}

	r, g, b, _ := out.At(10, 50).RGBA()
	if r>>8 != 0 || g>>8 != 255 || b>>8 != 0 {
		t.Errorf("outline pixel: got (%d,%d,%d), want green", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = out.At(50, 50).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("interior pixel should stay black")
	}

	// Source must be untouched
	if v := src.GetUCharAt(50, 10*3+1); v != 0 {
		t.Errorf("source modified: green channel at (10,50) = %d", v)
	}
}
