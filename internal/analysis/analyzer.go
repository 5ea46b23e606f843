// Package analysis runs the complete card reading pipeline on one photo.
//
// The stages run strictly in order: binarize, find markers, arrange,
// calibrate, sample swatches, sample spots, classify. Each failure maps to a
// result code, so Analyze always returns exactly one code and never an error.
package analysis

import (
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/lateral-flow-mcp/internal/calibrate"
	"github.com/ironsheep/lateral-flow-mcp/internal/classify"
	"github.com/ironsheep/lateral-flow-mcp/internal/config"
	"github.com/ironsheep/lateral-flow-mcp/internal/detection"
	"github.com/ironsheep/lateral-flow-mcp/internal/imaging"
	"github.com/ironsheep/lateral-flow-mcp/internal/logging"
)

// Report is the outcome of one analysis. Fields after Code are filled in as
// far as the pipeline got.
type Report struct {
	Code classify.Code `json:"code"`

	// Patterns are all finder patterns accepted by the scanner.
	Patterns []detection.FinderPattern `json:"patterns"`

	// Markers is set once exactly three patterns were found.
	Markers *detection.Arrangement `json:"markers,omitempty"`

	SwatchCenters []imaging.Point `json:"swatch_centers,omitempty"`
	SwatchRadius  int             `json:"swatch_radius,omitempty"`
	SpotCenters   []imaging.Point `json:"spot_centers,omitempty"`
	SpotRadius    int             `json:"spot_radius,omitempty"`

	Swatches []imaging.ColorSample `json:"swatches,omitempty"`
	Spots    []imaging.ColorSample `json:"spots,omitempty"`

	// Err describes why the analysis stopped early.
	Err string `json:"error,omitempty"`
}

// Analyzer runs analyses with a fixed configuration. It holds no per-photo
// state and is safe for concurrent use.
type Analyzer struct {
	cfg     config.Config
	scanner *detection.Scanner
	sampler imaging.Sampler
	log     *logging.Logger
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithSampler replaces the default disc sampler.
func WithSampler(s imaging.Sampler) Option {
	return func(a *Analyzer) { a.sampler = s }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *logging.Logger) Option {
	return func(a *Analyzer) { a.log = l }
}

// New creates an Analyzer. The configuration is validated on every Analyze
// call so that an invalid one yields an ERROR report instead of a failure here.
func New(cfg config.Config, opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg:     cfg,
		scanner: detection.NewScanner(cfg.Scan),
		sampler: imaging.DiscSampler{},
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config returns the analyzer's configuration.
func (a *Analyzer) Config() config.Config {
	return a.cfg
}

// Locate binarizes the photo and returns every accepted finder pattern.
func (a *Analyzer) Locate(buf imaging.PixelBuffer) []detection.FinderPattern {
	grid := detection.Binarize(buf, a.cfg.BlackThreshold)
	a.log.Debug("binarized", "width", grid.Width(), "height", grid.Height(), "threshold", a.cfg.BlackThreshold)

	found := a.scanner.Scan(grid)
	a.log.Debug("scanned", "patterns", len(found), "row_stride", a.scanner.Options().RowStride)
	return found
}

// AnalyzeImage downscales img to the configured maximum and analyzes it.
func (a *Analyzer) AnalyzeImage(img image.Image) *Report {
	return a.Analyze(imaging.FromImage(imaging.Downscale(img, a.cfg.MaxDimension)))
}

// Analyze reads one photo and returns its report.
func (a *Analyzer) Analyze(buf imaging.PixelBuffer) (rep *Report) {
	rep = &Report{}
	defer func() {
		if r := recover(); r != nil {
			rep.fail(classify.Error, fmt.Errorf("analysis panicked: %v", r))
		}
		a.log.Info("analysis complete", "code", rep.Code, "patterns", len(rep.Patterns))
	}()

	if err := a.cfg.Validate(); err != nil {
		return rep.fail(classify.Error, fmt.Errorf("invalid configuration: %w", err))
	}

	rep.Patterns = a.Locate(buf)
	three, err := detection.Three(rep.Patterns)
	if err != nil {
		return rep.fail(classify.BadMarkers, err)
	}

	arr := detection.ArrangePatterns(three)
	rep.Markers = &arr
	a.log.Debug("arranged", "top_left", arr.TopLeft, "top_right", arr.TopRight, "bottom_left", arr.BottomLeft)

	t, err := calibrate.New(arr)
	if err != nil {
		return rep.fail(classify.BadMarkers, err)
	}

	if a.cfg.Swatches.Count != classify.SwatchCount || a.cfg.Spots.Count != classify.SpotCount {
		return rep.fail(classify.Error, fmt.Errorf("card layout has %d swatches and %d spots, want %d and %d",
			a.cfg.Swatches.Count, a.cfg.Spots.Count, classify.SwatchCount, classify.SpotCount))
	}

	rep.SwatchCenters = a.cfg.Swatches.Positions(t)
	rep.SwatchRadius = a.cfg.Swatches.RadiusPixels(t)
	rep.SpotCenters = a.cfg.Spots.Positions(t)
	rep.SpotRadius = a.cfg.Spots.RadiusPixels(t)
	a.log.Debug("calibrated", "width", t.Width(), "swatch_radius", rep.SwatchRadius, "spot_radius", rep.SpotRadius)

	rep.Swatches, err = imaging.SampleAll(a.sampler, buf, rep.SwatchCenters, rep.SwatchRadius)
	if err != nil {
		return rep.fail(sampleFailure(err, classify.BadSwatches), fmt.Errorf("swatches: %w", err))
	}

	rep.Spots, err = imaging.SampleAll(a.sampler, buf, rep.SpotCenters, rep.SpotRadius)
	if err != nil {
		return rep.fail(sampleFailure(err, classify.BadSamples), fmt.Errorf("spots: %w", err))
	}
	a.log.Debug("sampled", "swatch_steps", classify.GreenSteps(rep.Swatches))

	rep.Code = classify.Classify(rep.Swatches, rep.Spots, a.cfg.Thresholds)
	return rep
}

// sampleFailure maps a sampler error to a code: an empty disc is a problem
// with the photographed region, anything else is an internal error.
func sampleFailure(err error, region classify.Code) classify.Code {
	if errors.Is(err, imaging.ErrEmptyRegion) {
		return region
	}
	return classify.Error
}

func (r *Report) fail(code classify.Code, err error) *Report {
	r.Code = code
	r.Err = err.Error()
	return r
}
