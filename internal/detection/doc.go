// Package detection finds and rectifies square markers in segmented photographs.
//
// The package wraps OpenCV (via gocv) for the contour and warp primitives and
// keeps the acceptance heuristics as plain Go functions so they can be reasoned
// about and tested without image data.
//
// # Pipeline
//
//  1. FindQuads: contours of a binary mask are filtered by area, reduced to
//     their convex hull, approximated as polygons and validated as squares
//  2. OrderCorners: the accepted corners are put in canonical order
//  3. Rectify: a perspective transform maps the quad onto a fixed-size square
//
// # Acceptance Heuristics
//
// A contour becomes a Candidate only if:
//   - its area is at least MinContourArea
//   - the Douglas-Peucker approximation of its hull has exactly 4 vertices
//   - the approximation area is within AreaTolerance of the contour area
//   - max/min of the corner-to-centroid distances is at most MaxDistanceRatio
//
// All comparisons are inclusive at their bounds. Note that any rectangle passes
// the distance check, since its corners are equidistant from its center; the
// check rejects kites, trapezoids and quads with a stray vertex.
//
// # Corner Order
//
// The polygon approximation returns corners in whatever order the contour was
// traced. Rectify maps corners positionally, so callers that need an upright
// patch must pass the quad through OrderCorners first.
//
// # Resource Management
//
// Every gocv.Mat and vector allocated here is closed before returning. Mats
// passed in by callers are never closed or modified.
package detection
