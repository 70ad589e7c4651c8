package detection

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/spatial/r2"
)

// OrderCorners returns q reordered as top-left, bottom-left, bottom-right,
// top-right: the order Rectify maps onto (0,0), (0,size), (size,size), (size,0).
//
// Corners are sorted by angle around their centroid, which walks the outline
// clockwise on screen, and the walk starts at the corner with the smallest x+y.
// The result does not depend on the order of the input.
func OrderCorners(q Quad) Quad {
	center := Centroid(q, false)
	v := vecs(q)

	idx := []int{0, 1, 2, 3}
	angle := func(i int) float64 {
		d := r2.Sub(v[i], center)
		return math.Atan2(d.Y, d.X)
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return angle(idx[a]) < angle(idx[b])
	})

	start := 0
	for i := 1; i < 4; i++ {
		p, s := q[idx[i]], q[idx[start]]
		if p.X+p.Y < s.X+s.Y {
			start = i
		}
	}

	// Clockwise walk is TL, TR, BR, BL; emit it counter-clockwise.
	at := func(k int) image.Point { return q[idx[(start+k)%4]] }
	return Quad{at(0), at(3), at(2), at(1)}
}

// Rectify warps the region bounded by q in src onto a size x size square.
//
// The corners are used in the given order and mapped to (0,0), (0,size),
// (size,size) and (size,0), so q is expected to run top-left, bottom-left,
// bottom-right, top-right; see OrderCorners. Resampling uses bilinear
// interpolation with a black constant border.
//
// src must be an 8-bit 3-channel BGR Mat. The returned image has its origin at
// (0,0).
func Rectify(src gocv.Mat, q Quad, size int) (image.Image, error) {
	if src.Empty() {
		return nil, fmt.Errorf("cannot rectify empty image")
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid patch size %d", size)
	}

	srcPts := gocv.NewPointVectorFromPoints(q.Points())
	defer srcPts.Close()
	dstPts := gocv.NewPointVectorFromPoints([]image.Point{
		{X: 0, Y: 0},
		{X: 0, Y: size},
		{X: size, Y: size},
		{X: size, Y: 0},
	})
	defer dstPts.Close()

	m := gocv.GetPerspectiveTransform(srcPts, dstPts)
	defer m.Close()

	warped := gocv.NewMat()
	defer warped.Close()
	gocv.WarpPerspective(src, &warped, m, image.Pt(size, size))

	img, err := warped.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert rectified patch: %w", err)
	}
	return img, nil
}

// Annotate returns a copy of src with each quad outlined in c.
//
// src must be an 8-bit 3-channel BGR Mat and is not modified.
func Annotate(src gocv.Mat, quads []Quad, c color.RGBA, thickness int) (image.Image, error) {
	canvas := src.Clone()
	defer canvas.Close()

	if len(quads) > 0 {
		outlines := make([][]image.Point, 0, len(quads))
		for _, q := range quads {
			outlines = append(outlines, q.Points())
		}
		pv := gocv.NewPointsVectorFromPoints(outlines)
		defer pv.Close()
		gocv.Polylines(&canvas, pv, true, c, thickness)
	}

	img, err := canvas.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert annotated image: %w", err)
	}
	return img, nil
}

// MatFromImage copies img into a new 8-bit BGR Mat. The caller must close it.
func MatFromImage(img image.Image) (gocv.Mat, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to convert image: %w", err)
	}
	return mat, nil
}
