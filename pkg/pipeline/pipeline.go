// Package pipeline provides the scene → layout → render pipeline.
//
// This package is the one place that wires a scene, the engine, the
// scheduler and the sinks together, so the CLI and the HTTP server behave
// identically.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: build the document, run the engine through the scheduler and
//     export a [scene.Layout]
//  2. Render: turn the layout (and the document tree) into output formats
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.OptionsFromConfig(cfg)
//	opts.Formats = []string{"svg", "json"}
//	result, err := runner.Execute(ctx, sc, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/linkdrift/pkg/config"
	"github.com/matzehuels/linkdrift/pkg/engine"
	"github.com/matzehuels/linkdrift/pkg/errors"
	"github.com/matzehuels/linkdrift/pkg/geometry"
	"github.com/matzehuels/linkdrift/pkg/mode"
	"github.com/matzehuels/linkdrift/pkg/page"
	"github.com/matzehuels/linkdrift/pkg/placement"
	"github.com/matzehuels/linkdrift/pkg/scene"
	"github.com/matzehuels/linkdrift/pkg/seed"
	"github.com/matzehuels/linkdrift/pkg/session"
)

// Default values shared by the CLI and the server.
const (
	DefaultTextCols = 120
	DefaultTextRows = 36
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatTree = "tree"
	FormatText = "text"
)

// ValidFormats is the set of supported output formats, in display order.
var ValidFormats = []string{FormatSVG, FormatJSON, FormatDOT, FormatTree, FormatText}

// Extension returns the file extension used when writing format to disk.
func Extension(format string) string {
	switch format {
	case FormatTree:
		return ".tree.svg"
	case FormatJSON:
		return ".layout.json"
	case FormatText:
		return ".txt"
	default:
		return "." + format
	}
}

// ContentType returns the HTTP content type of format.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatTree:
		return "image/svg+xml"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Options contains all configuration for one pipeline run.
// The exported JSON fields are the ones HTTP clients may set.
type Options struct {
	// Seed options
	Policy    string `json:"policy,omitempty"`
	Salt      uint64 `json:"salt,omitempty"`
	RailSeed  uint64 `json:"rail_seed,omitempty"`
	SessionID string `json:"session_id,omitempty"`

	// Layout options
	Resizes       []geometry.Size   `json:"resizes,omitempty"`
	FallbackWidth float64           `json:"-"`
	Thresholds    mode.Thresholds   `json:"-"`
	Placement     placement.Options `json:"-"`
	SeedTTL       time.Duration     `json:"-"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	TextCols int      `json:"text_cols,omitempty"`
	TextRows int      `json:"text_rows,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger   `json:"-"`
	Measurer page.Measurer `json:"-"`

	// OnPass, if set, sees the report of every layout pass. It runs on the
	// scheduler goroutine.
	OnPass func(engine.Report) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// OptionsFromConfig derives pipeline options from a loaded config.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Policy:        cfg.Seed.Policy,
		Salt:          cfg.Seed.Salt,
		RailSeed:      cfg.Seed.RailSeed,
		FallbackWidth: cfg.Geometry.FallbackWidth,
		Thresholds:    cfg.Mode,
		Placement:     cfg.Placement,
		SeedTTL:       cfg.Store.TTL,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the exported state after the final pass.
	Layout *scene.Layout

	// Document is the element tree after the final pass.
	Document *page.Document

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LayoutTime time.Duration
	RenderTime time.Duration
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks options and applies defaults for the full
// pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.FallbackWidth == 0 {
		o.FallbackWidth = geometry.DefaultFallbackWidth
	}
	if o.Thresholds == (mode.Thresholds{}) {
		o.Thresholds = mode.DefaultThresholds()
	}
	if o.Placement == (placement.Options{}) {
		o.Placement = placement.DefaultOptions()
	}
	if o.SeedTTL == 0 {
		o.SeedTTL = session.DefaultTTL
	}
	if o.Measurer == nil {
		o.Measurer = page.DefaultMeasurer
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout sets layout defaults and validates the seed options.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if _, err := o.SeedPolicy(); err != nil {
		return err
	}
	if o.SessionID != "" {
		id, err := session.ParseID(o.SessionID)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "session %q", o.SessionID)
		}
		o.SessionID = id
	}
	for _, vp := range o.Resizes {
		if err := errors.ValidateViewport(vp.Width, vp.Height); err != nil {
			return err
		}
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.TextCols <= 0 {
		o.TextCols = DefaultTextCols
	}
	if o.TextRows <= 0 {
		o.TextRows = DefaultTextRows
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender sets render defaults and validates formats.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// SeedPolicy builds the configured seed policy.
func (o *Options) SeedPolicy() (seed.Policy, error) {
	p, err := seed.ParsePolicy(o.Policy, o.Salt)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPolicy, err, "invalid seed policy")
	}
	return p, nil
}
