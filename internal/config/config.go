// Package config holds the tunable settings of a tilecrop run.
//
// Defaults reproduce the calibration the tile photographs were shot for. A YAML
// file may override any subset of them; command-line flags are applied on top by
// the caller.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ironsheep/tilecrop/internal/imaging"
	"gopkg.in/yaml.v3"
)

// Config describes one batch run.
type Config struct {
	// SourceDir is scanned (non-recursively) for input photographs.
	SourceDir string `yaml:"source_dir"`

	// OutputDir receives the PNG patches. It must already exist.
	OutputDir string `yaml:"output_dir"`

	// Extension is the case-sensitive file suffix selecting inputs.
	Extension string `yaml:"extension"`

	// ManifestPath, if set, receives a YAML description of every written patch.
	ManifestPath string `yaml:"manifest"`

	// PreviewDir, if set, receives an annotated downscaled copy of each source
	// image that produced at least one patch.
	PreviewDir string `yaml:"preview_dir"`

	// Segmentation thresholds on OpenCV's 8-bit HSV scale.
	MinValue      uint8 `yaml:"min_value"`
	MaxSaturation uint8 `yaml:"max_saturation"`

	// Contour and quadrilateral validation.
	MinContourArea   float64 `yaml:"min_contour_area"`
	ApproxEpsilon    float64 `yaml:"approx_epsilon"`
	AreaTolerance    float64 `yaml:"area_tolerance"`
	MaxDistanceRatio float64 `yaml:"max_distance_ratio"`
	LegacyCentroid   bool    `yaml:"legacy_centroid"`
	OrderCorners     bool    `yaml:"order_corners"`

	// PatchSize is the edge length of the rectified square in pixels.
	PatchSize int `yaml:"patch_size"`

	// MinMean is the brightness gate applied to the posterized patch.
	MinMean float64 `yaml:"min_mean"`

	// PreviewWidth and PreviewHeight size the annotated preview images.
	PreviewWidth  int `yaml:"preview_width"`
	PreviewHeight int `yaml:"preview_height"`

	// PreviewColor outlines accepted quads in previews, as "#RRGGBB".
	PreviewColor string `yaml:"preview_color"`

	// Verbose enables debug diagnostics.
	Verbose bool `yaml:"verbose"`
}

// Default returns the calibration used for the first tile training set.
func Default() Config {
	return Config{
		SourceDir:        "./andriods/",
		OutputDir:        "./training/",
		Extension:        ".jpg",
		MinValue:         180,
		MaxSaturation:    90,
		MinContourArea:   12000,
		ApproxEpsilon:    0.1,
		AreaTolerance:    0.15,
		MaxDistanceRatio: 1.3,
		OrderCorners:     true,
		PatchSize:        200,
		MinMean:          64,
		PreviewWidth:     800,
		PreviewHeight:    600,
		PreviewColor:     "#00FF00",
	}
}

// Load reads a YAML file and overlays it on Default. Keys absent from the file
// keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports the first setting that cannot produce a meaningful run.
func (c Config) Validate() error {
	switch {
	case c.SourceDir == "":
		return errors.New("source directory is empty")
	case c.OutputDir == "":
		return errors.New("output directory is empty")
	case c.Extension == "":
		return errors.New("extension is empty")
	case c.MinContourArea < 0:
		return fmt.Errorf("min_contour_area must be >= 0, got %g", c.MinContourArea)
	case c.ApproxEpsilon <= 0 || c.ApproxEpsilon >= 1:
		return fmt.Errorf("approx_epsilon must be in (0,1), got %g", c.ApproxEpsilon)
	case c.AreaTolerance < 0 || c.AreaTolerance >= 1:
		return fmt.Errorf("area_tolerance must be in [0,1), got %g", c.AreaTolerance)
	case c.MaxDistanceRatio < 1:
		return fmt.Errorf("max_distance_ratio must be >= 1, got %g", c.MaxDistanceRatio)
	case c.PatchSize <= 0:
		return fmt.Errorf("patch_size must be positive, got %d", c.PatchSize)
	case c.MinMean < 0 || c.MinMean > 255:
		return fmt.Errorf("min_mean must be in [0,255], got %g", c.MinMean)
	case c.PreviewDir != "" && (c.PreviewWidth <= 0 || c.PreviewHeight <= 0):
		return fmt.Errorf("preview size must be positive, got %dx%d", c.PreviewWidth, c.PreviewHeight)
	}
	if c.PreviewDir != "" {
		if _, err := imaging.ParseHexColor(c.PreviewColor); err != nil {
			return fmt.Errorf("preview_color: %w", err)
		}
	}
	return nil
}
