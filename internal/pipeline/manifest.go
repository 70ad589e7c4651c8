package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/ironsheep/tilecrop/internal/detection"
	"gopkg.in/yaml.v3"
)

// Manifest records every patch written by a run.
type Manifest struct {
	Generated time.Time `yaml:"generated"`
	PatchSize int       `yaml:"patch_size"`
	Patches   []Patch   `yaml:"patches"`
}

// Point is a pixel position in the source photograph.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Patch describes one written patch and where it came from.
//
// Center and Extent are percentages of the source image width and height, so
// entries from photographs of different resolutions are comparable.
type Patch struct {
	File        string     `yaml:"file"`
	Source      string     `yaml:"source"`
	Counter     int        `yaml:"counter"`
	Corners     []Point    `yaml:"corners"`
	Center      [2]float64 `yaml:"center_pct,flow"`
	Extent      [2]float64 `yaml:"extent_pct,flow"`
	Mean        float64    `yaml:"mean"`
	ContourArea float64    `yaml:"contour_area"`
	ApproxArea  float64    `yaml:"approx_area"`
	MinDistance float64    `yaml:"min_distance"`
	MaxDistance float64    `yaml:"max_distance"`
}

func newPatch(file, source string, counter int, q detection.Quad, c detection.Candidate, mean float64, width, height int) Patch {
	p := Patch{
		File:        file,
		Source:      source,
		Counter:     counter,
		Corners:     make([]Point, 0, len(q)),
		Mean:        mean,
		ContourArea: c.ContourArea,
		ApproxArea:  c.ApproxArea,
		MinDistance: c.MinDistance,
		MaxDistance: c.MaxDistance,
	}

	minX, minY := q[0].X, q[0].Y
	maxX, maxY := minX, minY
	for _, pt := range q {
		p.Corners = append(p.Corners, Point{X: pt.X, Y: pt.Y})
		minX, maxX = min(minX, pt.X), max(maxX, pt.X)
		minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
	}

	if width > 0 && height > 0 {
		center := detection.Centroid(q, false)
		p.Center = [2]float64{
			center.X / float64(width) * 100,
			center.Y / float64(height) * 100,
		}
		p.Extent = [2]float64{
			float64(maxX-minX) / float64(width) * 100,
			float64(maxY-minY) / float64(height) * 100,
		}
	}
	return p
}

// WriteManifest encodes m as YAML to path, replacing any existing file.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest decodes a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}
