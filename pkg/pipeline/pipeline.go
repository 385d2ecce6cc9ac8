// Package pipeline provides the complete layout resolution pipeline for
// keygrid.
//
// This package implements the load → resolve → render pipeline used by the
// CLI. By centralizing this logic, every command resolves a layout the same
// way and shares one cache.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read and decode the layout file (YAML, JSON or TOML)
//  2. Resolve: Build the units table, resolve points in file order, add
//     mirrored copies and resolve placements, recording every anchor
//     reference in a [dag.DAG]
//  3. Render: Draw the reference graph (DOT, SVG, PNG, PDF, JSON)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "split.yaml",
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Points["mirror_home"])
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	layout, data, err := pipeline.Load(opts)
//	res, err := pipeline.Resolve(ctx, layout, opts)
//	artifacts, err := pipeline.Render(ctx, res.Graph, opts)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/keygrid/pkg/cache"
	"github.com/matzehuels/keygrid/pkg/config"
	"github.com/matzehuels/keygrid/pkg/dag"
	kgio "github.com/matzehuels/keygrid/pkg/io"
	"github.com/matzehuels/keygrid/pkg/point"
	"github.com/matzehuels/keygrid/pkg/units"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMaxDepth bounds anchor nesting. Layout files are written by
	// people, so real anchors stay far below it.
	DefaultMaxDepth = 64

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for rendered reference graphs.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Encoding constants for result documents.
const (
	EncodingJSON = "json"
	EncodingYAML = "yaml"
)

// ValidFormats is the set of supported graph formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidEncodings is the set of supported result encodings.
var ValidEncodings = map[string]bool{
	EncodingJSON: true,
	EncodingYAML: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Load options
	Path   string        `json:"path,omitempty"`   // Layout file
	Source []byte        `json:"-"`                // Layout contents; read from Path when nil
	Format config.Format `json:"format,omitempty"` // Inferred from Path when empty

	// Resolve options
	Variables *units.Raw     `json:"-"` // Appended after the file's variables
	Seed      *kgio.Document `json:"-"` // Points known before resolution starts
	NoMirror  bool           `json:"no_mirror,omitempty"`
	MaxDepth  int            `json:"max_depth,omitempty"`
	Refresh   bool           `json:"refresh,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Scale    float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies this run in logs.
	RunID string

	// LayoutHash is the content hash of the layout file.
	LayoutHash string

	// Document holds the resolved units and points in resolution order.
	Document kgio.Document

	// Points is Document's points keyed by name; Order lists their names.
	Points map[string]point.Point
	Order  []string

	// MirrorAxis is the x coordinate of the mirror axis, or nil when the
	// layout was not mirrored.
	MirrorAxis *float64

	// Graph records which point was derived from which.
	Graph *dag.DAG

	// Ignored lists unknown top-level sections of the layout file.
	Ignored []string

	// Artifacts contains rendered reference graphs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	UnitCount      int
	PointCount     int
	MirrorCount    int
	PlacementCount int
	LoadTime       time.Duration
	ResolveTime    time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ResolveHit bool // Whether the resolved layout came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a graph format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: dot, svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all graph formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEncoding checks that a result encoding is valid.
func ValidateEncoding(encoding string) error {
	if !ValidEncodings[encoding] {
		return fmt.Errorf("invalid encoding: %q (must be one of: json, yaml)", encoding)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetResolveDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that a layout source is given and its format is
// known.
func (o *Options) ValidateForLoad() error {
	if o.Path == "" && o.Source == nil {
		return fmt.Errorf("path or source is required")
	}
	if o.Format == "" {
		if o.Path == "" {
			return fmt.Errorf("format is required when reading from source")
		}
		f, err := config.FormatFromPath(o.Path)
		if err != nil {
			return err
		}
		o.Format = f
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetResolveDefaults sets default values for resolution.
func (o *Options) SetResolveDefaults() {
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Scale < 0 {
		return fmt.Errorf("invalid scale: %g", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// ResultKeyOpts returns cache key options for a resolved layout.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	opts := cache.ResultKeyOpts{
		Format:   string(o.Format),
		NoMirror: o.NoMirror,
		MaxDepth: o.MaxDepth,
	}
	if o.Variables != nil && o.Variables.Len() > 0 {
		pairs := make([]string, 0, o.Variables.Len())
		for _, k := range o.Variables.Keys() {
			v, _ := o.Variables.Get(k)
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, v))
		}
		opts.Variables = strings.Join(pairs, ";")
	}
	if o.Seed != nil {
		var b strings.Builder
		_ = kgio.WriteJSON(*o.Seed, &b)
		opts.SeedPoints = cache.Digest([]byte(b.String()))
	}
	return opts
}

// GraphKeyOpts returns cache key options for a rendered reference graph.
func (o *Options) GraphKeyOpts(format string) cache.GraphKeyOpts {
	opts := cache.GraphKeyOpts{
		Resolve:  o.ResultKeyOpts(),
		Format:   format,
		Detailed: o.Detailed,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}

// HasFormat reports whether format was requested.
func (o *Options) HasFormat(format string) bool {
	return slices.Contains(o.Formats, format)
}
