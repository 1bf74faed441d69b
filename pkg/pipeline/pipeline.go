// Package pipeline provides the core chart pipeline for popcon.
//
// This package implements the complete load → analyze → render pipeline used
// by the CLI commands and the HTTP server. By centralizing this logic, every
// entry point produces byte-identical charts for the same snapshot directory
// and options.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read the dated snapshot files into a normalized dataset
//  2. Analyze: Compute bounds and the ranked package order
//  3. Render: Draw the chart with a raster, remote-URL or JSON sink
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    DataDir: "/var/lib/popcon",
//	    Format:  pipeline.FormatPNG,
//	    Percent: true,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifact
//
// Run individual stages:
//
//	// Load only
//	ds, err := runner.LoadDataset(ctx, opts)
//
//	// Load and analyze
//	model, err := runner.Model(ctx, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/popcon/pkg/cache"
	"github.com/matzehuels/popcon/pkg/chart"
	"github.com/matzehuels/popcon/pkg/encode"
	"github.com/matzehuels/popcon/pkg/errors"
	"github.com/matzehuels/popcon/pkg/fonts"
	"github.com/matzehuels/popcon/pkg/series"
	"github.com/matzehuels/popcon/pkg/snapshot"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultFormat is the default output format.
	DefaultFormat = FormatPNG

	// DefaultRasterGranularity is the number of pixels per snapshot for the
	// raster and JSON outputs.
	DefaultRasterGranularity = 1

	// DefaultRemoteGranularity is the number of pixels per snapshot for the
	// remote chart URL, whose length grows with every point.
	DefaultRemoteGranularity = 20

	// DefaultSupersample is the default raster supersampling factor.
	DefaultSupersample = 1

	// MaxSupersample bounds the supersampling factor.
	MaxSupersample = 4
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatURL  = "url"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatURL:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the chart pipeline.
// This struct supports JSON serialization for the server's chart model.
type Options struct {
	// Load options
	DataDir  string                `json:"data_dir"`
	Percent  bool                  `json:"percent,omitempty"`
	Families []snapshot.FamilyRule `json:"families,omitempty"` // nil applies snapshot.DefaultFamilies
	Refresh  bool                  `json:"refresh,omitempty"`

	// Analyze options
	NoiseFloor float64 `json:"noise_floor,omitempty"` // log10 of the smallest plotted value

	// Render options
	Format      string  `json:"format,omitempty"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	Granularity int     `json:"granularity,omitempty"` // pixels per snapshot
	Precision   int     `json:"precision,omitempty"`   // remote encoding, 1 or 2
	Font        string  `json:"font,omitempty"`
	FontSize    float64 `json:"font_size,omitempty"`
	Supersample int     `json:"supersample,omitempty"`
	RemoteURL   string  `json:"remote_url,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Fingerprint identifies the snapshot listing the chart was drawn from.
	Fingerprint string

	// Artifact is the rendered chart: PNG bytes, the remote URL or JSON.
	Artifact []byte

	// ContentType is the MIME type of Artifact.
	ContentType string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Snapshots  int
	Packages   int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DatasetHit bool // Whether the dataset came from cache
	ChartHit   bool // Whether the artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, url, json)", format)
	}
	return nil
}

// ValidateSize checks that a canvas size is within bounds.
func ValidateSize(width, height int) error {
	if width <= 0 || height <= 0 || width > errors.MaxDimension || height > errors.MaxDimension {
		return errors.New(errors.ErrCodeInvalidSize, "size %dx%d out of range (1..%d per side)", width, height, errors.MaxDimension)
	}
	return nil
}

// ValidatePrecision checks that a remote encoding precision is supported.
func ValidatePrecision(p int) error {
	if p != encode.Simple && p != encode.Extended {
		return errors.New(errors.ErrCodeInvalidPrecision, "invalid precision: %d (must be 1 or 2)", p)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if err := errors.ValidatePath(o.DataDir); err != nil {
		return err
	}
	if o.Families == nil {
		o.Families = snapshot.DefaultFamilies
	}
	for _, f := range o.Families {
		if f.Prefix == "" || f.Canonical == "" {
			return errors.New(errors.ErrCodeInvalidInput, "family rule needs prefix and canonical: %+v", f)
		}
	}
	if o.NoiseFloor == 0 {
		o.NoiseFloor = series.DefaultNoiseFloor
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering. The canvas size and
// granularity defaults depend on the format.
func (o *Options) SetRenderDefaults() {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	width, height := chart.DefaultWidth, chart.DefaultHeight
	if o.Format == FormatURL {
		width, height = chart.DefaultRemoteWidth, chart.DefaultRemoteHeight
	}
	if o.Width == 0 {
		o.Width = width
	}
	if o.Height == 0 {
		o.Height = height
	}
	if o.Granularity == 0 {
		if o.Format == FormatURL {
			o.Granularity = DefaultRemoteGranularity
		} else {
			o.Granularity = DefaultRasterGranularity
		}
	}
	if o.Precision == 0 {
		o.Precision = chart.DefaultRemotePrecision
	}
	if o.FontSize == 0 {
		o.FontSize = fonts.DefaultSize
	}
	if o.Supersample == 0 {
		o.Supersample = DefaultSupersample
	}
	if o.RemoteURL == "" {
		o.RemoteURL = chart.DefaultRemoteURL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if err := ValidateSize(o.Width, o.Height); err != nil {
		return err
	}
	if err := ValidatePrecision(o.Precision); err != nil {
		return err
	}
	if o.Granularity < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "granularity must be positive, got %d", o.Granularity)
	}
	if o.Supersample < 1 || o.Supersample > MaxSupersample {
		return errors.New(errors.ErrCodeInvalidInput, "supersample must be between 1 and %d, got %d", MaxSupersample, o.Supersample)
	}
	if o.FontSize < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "font size must be positive, got %g", o.FontSize)
	}
	return errors.ValidateURL(o.RemoteURL)
}

// Target returns the number of snapshots to load: one per Granularity
// pixels of canvas width.
func (o *Options) Target() int {
	if o.Granularity <= 0 {
		return o.Width
	}
	return max(1, o.Width/o.Granularity)
}

// Loader returns the snapshot loader described by the options.
func (o *Options) Loader() *snapshot.Loader {
	return &snapshot.Loader{
		Families: o.Families,
		Percent:  o.Percent,
		Target:   o.Target(),
		Warnf:    o.Logger.Warnf,
	}
}

// Sink returns the chart sink for the output format.
func (o *Options) Sink() (chart.Sink, error) {
	switch o.Format {
	case FormatPNG:
		return chart.NewRasterSink(
			chart.WithSize(o.Width, o.Height),
			chart.WithFont(o.Font, o.FontSize),
			chart.WithSupersample(o.Supersample),
		), nil
	case FormatURL:
		return chart.NewRemoteSink(
			chart.WithRemoteURL(o.RemoteURL),
			chart.WithRemoteSize(o.Width, o.Height),
			chart.WithPrecision(o.Precision),
		), nil
	case FormatJSON:
		return chart.NewJSONSink(
			chart.WithJSONSize(o.Width, o.Height),
			chart.WithJSONFont(o.Font, o.FontSize),
		), nil
	default:
		return nil, ValidateFormat(o.Format)
	}
}

// familyKeys flattens family rules for cache keys.
func (o *Options) familyKeys() []string {
	keys := make([]string, len(o.Families))
	for i, f := range o.Families {
		keys[i] = f.Prefix + "=" + f.Canonical
	}
	return keys
}

// DatasetKeyOpts returns cache key options for the loaded dataset.
func (o *Options) DatasetKeyOpts() cache.DatasetKeyOpts {
	return cache.DatasetKeyOpts{
		Percent:  o.Percent,
		Target:   o.Target(),
		Families: o.familyKeys(),
	}
}

// ChartKeyOpts returns cache key options for the rendered chart.
func (o *Options) ChartKeyOpts() cache.ChartKeyOpts {
	return cache.ChartKeyOpts{
		Format:      o.Format,
		Width:       o.Width,
		Height:      o.Height,
		Percent:     o.Percent,
		Precision:   o.Precision,
		NoiseFloor:  o.NoiseFloor,
		Target:      o.Target(),
		Font:        o.Font,
		FontSize:    o.FontSize,
		Supersample: o.Supersample,
		Families:    o.familyKeys(),
		RemoteURL:   o.RemoteURL,
	}
}
