// Package imaging provides the pixel-level stages of the tile extraction pipeline.
//
// It covers everything that works on standard Go image.Image values:
// listing and decoding source photographs, HSV segmentation of light regions,
// posterization and brightness measurement of rectified patches, PNG output,
// preview scaling with numeric captions, and the sequential renamer for source
// folders.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with (0,0) at the top-left
// corner, X increasing rightward and Y increasing downward. Images produced by
// this package (masks, loaded photographs, patches) always have their origin at
// (0,0).
//
// # Color Representation
//
// Segmentation thresholds use OpenCV's 8-bit HSV scale so that calibration values
// carry over unchanged from OpenCV-based tooling:
//   - H: 0-179 (degrees halved)
//   - S: 0-255
//   - V: 0-255
//
// # Posterization
//
// Each channel is reduced to three levels {0, 64, 255}. Posterization never
// modifies its input; it returns a new image together with its mean intensity so
// that the analyzed buffer and the written file cannot diverge.
//
// # Error Handling
//
// Functions return wrapped errors for file I/O and decoding failures. Pure pixel
// operations have no error conditions.
package imaging
