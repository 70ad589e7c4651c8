// Package pipeline runs the tile extraction over a folder of photographs.
//
// Each file is processed start to finish before the next one is opened:
// segmentation, quadrilateral detection, rectification, posterization, the
// brightness gate and PNG output. The only state carried between files is the
// output counter, which ProcessFile takes and returns explicitly.
package pipeline

import (
	"fmt"
	"image"
	"log"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ironsheep/tilecrop/internal/config"
	"github.com/ironsheep/tilecrop/internal/detection"
	"github.com/ironsheep/tilecrop/internal/imaging"
	"gocv.io/x/gocv"
)

const (
	previewThickness  = 10
	previewLabelScale = 4
)

// Runner processes source photographs according to a Config.
type Runner struct {
	cfg    config.Config
	logger *log.Logger
	now    func() time.Time
}

// Option customizes a Runner.
type Option func(*Runner)

// WithLogger sends diagnostics to l instead of the standard logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithClock replaces the wall clock used for output file names.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New creates a Runner for cfg.
func New(cfg config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		logger: log.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FileResult is the outcome of processing one photograph.
type FileResult struct {
	Source   string  // base name of the photograph
	Patches  []Patch // patches written, in output order
	Rejected int     // candidates and contours rejected by any check
	Next     int     // counter value for the next file
}

// Summary is the outcome of a whole run.
type Summary struct {
	Files   int      // photographs processed
	Patches []Patch  // every patch written
	Empty   []string // photographs that produced no patch
	Counter int      // final counter value
}

// Run processes every matching file in the source directory in name order.
//
// Directories and configuration are checked before any file is opened. A file
// that cannot be loaded stops the run; patches already written stay on disk and
// are reported in the returned Summary alongside the error.
func (r *Runner) Run() (*Summary, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := imaging.EnsureDir(r.cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("output %w", err)
	}
	if r.cfg.PreviewDir != "" {
		if err := imaging.EnsureDir(r.cfg.PreviewDir); err != nil {
			return nil, fmt.Errorf("preview %w", err)
		}
	}

	files, err := imaging.ListImages(r.cfg.SourceDir, r.cfg.Extension)
	if err != nil {
		return nil, err
	}
	r.debugf("found %d %s files in %s", len(files), r.cfg.Extension, r.cfg.SourceDir)

	summary := &Summary{
		Patches: make([]Patch, 0),
		Empty:   make([]string, 0),
	}

	counter := 0
	for _, path := range files {
		start := time.Now()
		res, err := r.ProcessFile(path, counter)
		if err != nil {
			summary.Counter = counter
			return summary, err
		}
		counter = res.Next

		summary.Files++
		summary.Patches = append(summary.Patches, res.Patches...)
		if len(res.Patches) == 0 {
			summary.Empty = append(summary.Empty, res.Source)
		}
		r.debugf("%s: %d patches, %d rejected in %s", res.Source, len(res.Patches), res.Rejected, time.Since(start).Round(time.Millisecond))
	}
	summary.Counter = counter

	if r.cfg.ManifestPath != "" {
		m := &Manifest{
			Generated: r.now(),
			PatchSize: r.cfg.PatchSize,
			Patches:   summary.Patches,
		}
		if err := WriteManifest(r.cfg.ManifestPath, m); err != nil {
			return summary, err
		}
	}

	r.logger.Printf("processed %d files: %d patches written, %d files without patches",
		summary.Files, len(summary.Patches), len(summary.Empty))

	return summary, nil
}

// ProcessFile extracts patches from one photograph.
//
// counter numbers the first patch written; it increases by one per written patch
// and by one more when the file is done, whether or not anything was written.
// The value for the next file is returned in FileResult.Next.
func (r *Runner) ProcessFile(path string, counter int) (*FileResult, error) {
	base := filepath.Base(path)
	res := &FileResult{
		Source:  base,
		Patches: make([]Patch, 0),
	}

	img, err := imaging.Load(path)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()

	mask := imaging.LightMask(img, imaging.LightThreshold{
		MinValue:      r.cfg.MinValue,
		MaxSaturation: r.cfg.MaxSaturation,
	})

	quads, err := detection.FindQuads(mask, r.quadParams())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", base, err)
	}
	for _, rej := range quads.Rejected {
		r.logger.Printf("%s: %s", base, rej)
	}
	res.Rejected = len(quads.Rejected)

	src, err := detection.MatFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", base, err)
	}
	defer src.Close()

	for _, c := range quads.Candidates {
		corners := c.Corners
		if r.cfg.OrderCorners {
			corners = detection.OrderCorners(corners)
		}

		warped, err := detection.Rectify(src, corners, r.cfg.PatchSize)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", base, err)
		}

		patch, mean := imaging.PosterizeWithMean(warped)
		if !imaging.BrightEnough(mean, r.cfg.MinMean) {
			r.logger.Printf("%s: brightness too low: mean %.2f", base, mean)
			res.Rejected++
			continue
		}

		name := imaging.PatchName(counter, r.now())
		if _, err := imaging.SavePNG(patch, r.cfg.OutputDir, name); err != nil {
			return nil, err
		}
		r.debugf("%s: wrote %s | mean %.2f | approx area %.0f | contour area %.0f | min dist %.2f | max dist %.2f",
			base, name, mean, c.ApproxArea, c.ContourArea, c.MinDistance, c.MaxDistance)

		res.Patches = append(res.Patches, newPatch(name, base, counter, corners, c, mean, bounds.Dx(), bounds.Dy()))
		counter++
	}

	if len(res.Patches) == 0 {
		r.logger.Printf("nope: %s", base)
	} else if r.cfg.PreviewDir != "" {
		if err := r.writePreview(src, res.Patches, base); err != nil {
			return nil, err
		}
	}

	res.Next = counter + 1
	return res, nil
}

// writePreview saves a downscaled copy of the source with each written patch
// outlined and captioned with its counter.
func (r *Runner) writePreview(src gocv.Mat, patches []Patch, base string) error {
	outline, err := imaging.ParseHexColor(r.cfg.PreviewColor)
	if err != nil {
		return fmt.Errorf("preview color: %w", err)
	}

	quads := make([]detection.Quad, 0, len(patches))
	for _, p := range patches {
		var q detection.Quad
		for i, c := range p.Corners {
			q[i] = image.Pt(c.X, c.Y)
		}
		quads = append(quads, q)
	}

	annotated, err := detection.Annotate(src, quads, outline, previewThickness)
	if err != nil {
		return fmt.Errorf("%s: %w", base, err)
	}
	small := imaging.Preview(annotated, r.cfg.PreviewWidth, r.cfg.PreviewHeight)

	// Captions go on after scaling so they stay legible.
	sx := float64(r.cfg.PreviewWidth) / float64(src.Cols())
	sy := float64(r.cfg.PreviewHeight) / float64(src.Rows())
	labels := make([]imaging.Label, 0, len(patches))
	for i, p := range patches {
		tl := topLeft(quads[i])
		labels = append(labels, imaging.Label{
			At:   image.Pt(int(float64(tl.X)*sx), int(float64(tl.Y)*sy)),
			Text: strconv.Itoa(p.Counter),
		})
	}
	captioned := imaging.DrawLabels(small, labels, previewLabelScale)

	path, err := imaging.SavePNG(captioned, r.cfg.PreviewDir, previewName(base))
	if err != nil {
		return err
	}
	r.debugf("%s: preview %s", base, path)
	return nil
}

// topLeft returns the corner with the smallest x+y.
func topLeft(q detection.Quad) image.Point {
	best := q[0]
	for _, p := range q[1:] {
		if p.X+p.Y < best.X+best.Y {
			best = p
		}
	}
	return best
}

func (r *Runner) quadParams() detection.QuadParams {
	return detection.QuadParams{
		MinContourArea:   r.cfg.MinContourArea,
		ApproxEpsilon:    r.cfg.ApproxEpsilon,
		AreaTolerance:    r.cfg.AreaTolerance,
		MaxDistanceRatio: r.cfg.MaxDistanceRatio,
		LegacyCentroid:   r.cfg.LegacyCentroid,
	}
}

func (r *Runner) debugf(format string, args ...interface{}) {
	if r.cfg.Verbose {
		r.logger.Printf("debug: "+format, args...)
	}
}

// previewName derives the preview file name from a source file name.
func previewName(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + "_preview.png"
}
