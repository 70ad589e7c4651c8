package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.MinValue != 180 || cfg.MaxSaturation != 90 {
		t.Errorf("thresholds: got V>=%d S<=%d, want V>=180 S<=90", cfg.MinValue, cfg.MaxSaturation)
	}
	if cfg.MinContourArea != 12000 {
		t.Errorf("MinContourArea: got %g, want 12000", cfg.MinContourArea)
	}
	if cfg.PatchSize != 200 {
		t.Errorf("PatchSize: got %d, want 200", cfg.PatchSize)
	}
	if !cfg.OrderCorners || cfg.LegacyCentroid {
		t.Errorf("corner handling: OrderCorners=%v LegacyCentroid=%v", cfg.OrderCorners, cfg.LegacyCentroid)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default should validate: %v", err)
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tilecrop.yaml")
	data := []byte("source_dir: photos\nmin_mean: 80\nlegacy_centroid: true\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.SourceDir != "photos" {
		t.Errorf("SourceDir: got %q, want photos", cfg.SourceDir)
	}
	if cfg.MinMean != 80 {
		t.Errorf("MinMean: got %g, want 80", cfg.MinMean)
	}
	if !cfg.LegacyCentroid {
		t.Error("LegacyCentroid should be true")
	}
	// Untouched keys keep defaults
	if cfg.OutputDir != "./training/" {
		t.Errorf("OutputDir: got %q, want default", cfg.OutputDir)
	}
	if cfg.MaxDistanceRatio != 1.3 {
		t.Errorf("MaxDistanceRatio: got %g, want 1.3", cfg.MaxDistanceRatio)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("patch_size: [1, 2"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty source", func(c *Config) { c.SourceDir = "" }},
		{"empty output", func(c *Config) { c.OutputDir = "" }},
		{"empty extension", func(c *Config) { c.Extension = "" }},
		{"negative area", func(c *Config) { c.MinContourArea = -1 }},
		{"zero epsilon", func(c *Config) { c.ApproxEpsilon = 0 }},
		{"tolerance too large", func(c *Config) { c.AreaTolerance = 1 }},
		{"ratio below one", func(c *Config) { c.MaxDistanceRatio = 0.9 }},
		{"zero patch", func(c *Config) { c.PatchSize = 0 }},
		{"mean above range", func(c *Config) { c.MinMean = 300 }},
		{"preview without size", func(c *Config) { c.PreviewDir = "p"; c.PreviewWidth = 0 }},
		{"bad preview color", func(c *Config) { c.PreviewDir = "p"; c.PreviewColor = "green" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
