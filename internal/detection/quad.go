package detection

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/spatial/r2"
)

// Quad is a quadrilateral in image pixel coordinates.
type Quad [4]image.Point

// Points returns the corners as a slice.
func (q Quad) Points() []image.Point {
	return []image.Point{q[0], q[1], q[2], q[3]}
}

// QuadParams tunes contour filtering and quadrilateral validation.
type QuadParams struct {
	// MinContourArea drops contours enclosing fewer square pixels. It is a
	// calibration constant tied to the marker size at the source resolution.
	MinContourArea float64

	// ApproxEpsilon is the polygon approximation tolerance as a fraction of the
	// hull perimeter.
	ApproxEpsilon float64

	// AreaTolerance bounds |approxArea/contourArea - 1|, inclusive.
	AreaTolerance float64

	// MaxDistanceRatio bounds max/min of the corner-to-center distances,
	// inclusive.
	MaxDistanceRatio float64

	// LegacyCentroid measures corner distances from p0+p1+p2+p3/4 instead of the
	// true centroid. It reproduces the reference point of the first generation of
	// training data.
	LegacyCentroid bool
}

// DefaultQuadParams returns the calibration for tile photographs.
func DefaultQuadParams() QuadParams {
	return QuadParams{
		MinContourArea:   12000,
		ApproxEpsilon:    0.1,
		AreaTolerance:    0.15,
		MaxDistanceRatio: 1.3,
	}
}

// RejectReason names the validation step a contour failed.
type RejectReason string

const (
	RejectVertexCount RejectReason = "vertex-count"
	RejectAreaRatio   RejectReason = "area-ratio"
	RejectNotSquare   RejectReason = "not-square"
)

// Rejection describes a contour that was large enough to be considered but did
// not validate as a quadrilateral.
type Rejection struct {
	Reason      RejectReason
	Vertices    int     // vertex count of the approximated polygon
	ContourArea float64 // area enclosed by the original contour
	ApproxArea  float64 // area of the approximated polygon (zero for vertex-count)
	MinDistance float64 // smallest corner-to-center distance (not-square only)
	MaxDistance float64 // largest corner-to-center distance (not-square only)
}

// String formats the rejection as a single diagnostic line.
func (r Rejection) String() string {
	switch r.Reason {
	case RejectVertexCount:
		return fmt.Sprintf("approximation has %d vertices, want 4", r.Vertices)
	case RejectAreaRatio:
		return fmt.Sprintf("approximation area %.0f outside tolerance of contour area %.0f", r.ApproxArea, r.ContourArea)
	case RejectNotSquare:
		return fmt.Sprintf("not square: max distance %.2f, min distance %.2f", r.MaxDistance, r.MinDistance)
	}
	return string(r.Reason)
}

// Candidate is a validated quadrilateral with the measurements that accepted it.
type Candidate struct {
	Corners     Quad
	ContourArea float64
	ApproxArea  float64
	MinDistance float64
	MaxDistance float64
}

// QuadResult contains the outcome of scanning one mask.
type QuadResult struct {
	// Candidates are the accepted quadrilaterals in contour detection order.
	Candidates []Candidate

	// Rejected lists contours above the area threshold that failed validation.
	Rejected []Rejection

	// Contours is the total number of contours found, before area filtering.
	Contours int
}

// FindQuads extracts quadrilateral candidates from a binary mask.
//
// # Algorithm
//
//  1. Contour Finding: all outer and nested boundaries (RETR_TREE) with
//     straight-run compression (CHAIN_APPROX_SIMPLE)
//  2. Area Filter: contours enclosing less than MinContourArea are dropped
//     silently
//  3. Convex Hull of each remaining contour
//  4. Polygon Approximation (Douglas-Peucker) with tolerance
//     ApproxEpsilon * hull perimeter; exactly 4 vertices required
//  5. Area Check: the polygon area must lie within AreaTolerance of the contour
//     area
//  6. Squareness Check: corner-to-center distances must satisfy
//     max <= min * MaxDistanceRatio
//
// Returns an error only if the mask cannot be converted for OpenCV.
func FindQuads(mask *image.Gray, p QuadParams) (*QuadResult, error) {
	mat, err := gocv.ImageGrayToMatGray(mask)
	if err != nil {
		return nil, fmt.Errorf("failed to convert mask: %w", err)
	}
	defer mat.Close()

	contours := gocv.FindContours(mat, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer contours.Close()

	result := &QuadResult{
		Candidates: make([]Candidate, 0),
		Rejected:   make([]Rejection, 0),
		Contours:   contours.Size(),
	}

	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area < p.MinContourArea {
			continue
		}

		candidate, rejection := validateContour(contour, area, p)
		if rejection != nil {
			result.Rejected = append(result.Rejected, *rejection)
			continue
		}
		result.Candidates = append(result.Candidates, candidate)
	}

	return result, nil
}

// validateContour runs hull, approximation and geometric checks on one contour.
func validateContour(contour gocv.PointVector, contourArea float64, p QuadParams) (Candidate, *Rejection) {
	hull := convexHull(contour)
	defer hull.Close()

	epsilon := p.ApproxEpsilon * gocv.ArcLength(hull, true)
	approx := gocv.ApproxPolyDP(hull, epsilon, true)
	defer approx.Close()

	if approx.Size() != 4 {
		return Candidate{}, &Rejection{
			Reason:      RejectVertexCount,
			Vertices:    approx.Size(),
			ContourArea: contourArea,
		}
	}

	return checkQuad(approx.ToPoints(), contourArea, gocv.ContourArea(approx), p)
}

// convexHull returns the hull of contour as a point vector in hull order.
// The caller must close the result.
func convexHull(contour gocv.PointVector) gocv.PointVector {
	indices := gocv.NewMat()
	defer indices.Close()
	gocv.ConvexHull(contour, &indices, false, false)

	pts := contour.ToPoints()
	hull := make([]image.Point, 0, indices.Rows())
	for i := 0; i < indices.Rows(); i++ {
		hull = append(hull, pts[indices.GetIntAt(i, 0)])
	}
	return gocv.NewPointVectorFromPoints(hull)
}

// checkQuad applies the area and squareness checks to a 4-vertex polygon.
func checkQuad(pts []image.Point, contourArea, approxArea float64, p QuadParams) (Candidate, *Rejection) {
	if !AreaWithinTolerance(approxArea, contourArea, p.AreaTolerance) {
		return Candidate{}, &Rejection{
			Reason:      RejectAreaRatio,
			Vertices:    len(pts),
			ContourArea: contourArea,
			ApproxArea:  approxArea,
		}
	}

	q := Quad{pts[0], pts[1], pts[2], pts[3]}
	minDist, maxDist := CornerSpread(q, p.LegacyCentroid)
	if !IsSquarish(minDist, maxDist, p.MaxDistanceRatio) {
		return Candidate{}, &Rejection{
			Reason:      RejectNotSquare,
			Vertices:    len(pts),
			ContourArea: contourArea,
			ApproxArea:  approxArea,
			MinDistance: minDist,
			MaxDistance: maxDist,
		}
	}

	return Candidate{
		Corners:     q,
		ContourArea: contourArea,
		ApproxArea:  approxArea,
		MinDistance: minDist,
		MaxDistance: maxDist,
	}, nil
}

// AreaWithinTolerance reports whether approxArea lies within ±tolerance of
// contourArea. Both bounds are inclusive: with tolerance 0.15 a ratio of exactly
// 0.85 or 1.15 is accepted.
func AreaWithinTolerance(approxArea, contourArea, tolerance float64) bool {
	return approxArea >= contourArea*(1-tolerance) && approxArea <= contourArea*(1+tolerance)
}

// Centroid returns the reference point used by the squareness check.
//
// With legacy set it returns p0+p1+p2+p3/4, which only approximates a shared
// reference point when the quad lies far from the image origin.
func Centroid(q Quad, legacy bool) r2.Vec {
	v := vecs(q)
	if legacy {
		return r2.Add(r2.Add(r2.Add(v[0], v[1]), v[2]), r2.Scale(0.25, v[3]))
	}
	return r2.Scale(0.25, r2.Add(r2.Add(v[0], v[1]), r2.Add(v[2], v[3])))
}

// CornerSpread returns the smallest and largest Euclidean distance from a corner
// of q to its reference point.
func CornerSpread(q Quad, legacy bool) (minDist, maxDist float64) {
	center := Centroid(q, legacy)
	for i, v := range vecs(q) {
		d := r2.Norm(r2.Sub(v, center))
		if i == 0 || d < minDist {
			minDist = d
		}
		if i == 0 || d > maxDist {
			maxDist = d
		}
	}
	return minDist, maxDist
}

// IsSquarish reports whether the corner distance spread is tight enough for a
// square seen under moderate perspective: max <= min * ratio.
func IsSquarish(minDist, maxDist, ratio float64) bool {
	return maxDist <= minDist*ratio
}

func vecs(q Quad) [4]r2.Vec {
	var v [4]r2.Vec
	for i, p := range q {
		v[i] = r2.Vec{X: float64(p.X), Y: float64(p.Y)}
	}
	return v
}
