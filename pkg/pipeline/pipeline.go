// Package pipeline provides the render pipeline shared by the CLI and the
// HTTP server.
//
// This package implements the complete flatten → layout → scene → render
// pipeline. Keeping it in one place gives every entry point the same
// defaults, the same validation and the same cache keys.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Flatten: Walk the input tree into an indexed node/link graph
//  2. Layout: Size the canvas, position nodes and clamp thin nodes
//  3. Scene: Fit labels and build paint commands with hover bindings
//  4. Render: Write the scene as SVG, JSON, PNG or PDF
//
// A render pass either completes every stage or fails with one error; no
// partial output is returned.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Formats: []string{"svg"},
//	    Policy:  "wrap",
//	}
//	result, err := runner.Execute(ctx, root, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	g, err := pipeline.Flatten(ctx, root)
//	pos, height, err := pipeline.ComputeLayout(ctx, g, opts)
//	sc, err := pipeline.BuildScene(ctx, pos, height, opts)
//	artifacts, err := pipeline.RenderScene(ctx, sc, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/labelfit"
	"github.com/matzehuels/sankey/pkg/render/scene"
	"github.com/matzehuels/sankey/pkg/render/style"
	"github.com/matzehuels/sankey/pkg/sankey"
	"github.com/matzehuels/sankey/pkg/sankey/layout"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API and Config
// =============================================================================

const (
	// DefaultNodeWidth is the width of every node rectangle in pixels.
	DefaultNodeWidth = 32.0

	// DefaultNodePadding is the vertical gap between nodes of one column.
	DefaultNodePadding = 42.0

	// DefaultScale is the PNG rasterization scale.
	DefaultScale = 2.0

	// DefaultAlign is the default column alignment.
	DefaultAlign = AlignJustify
)

// Visualization types.
const (
	VizTypeSankey   = "sankey"
	VizTypeNodelink = "nodelink"
)

// DefaultVizType is the default visualization type.
const DefaultVizType = VizTypeSankey

// Column alignments.
const (
	AlignJustify = "justify"
	AlignLeft    = "left"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	VizTypeSankey:   true,
	VizTypeNodelink: true,
}

// ValidAligns is the set of supported column alignments.
var ValidAligns = map[string]bool{
	AlignJustify: true,
	AlignLeft:    true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the render pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	VizType            string   `json:"viz_type,omitempty"`
	Width              float64  `json:"width,omitempty"`
	HeightMultiplier   float64  `json:"height_multiplier,omitempty"`
	HeightOffset       *int     `json:"height_offset,omitempty"` // nil selects the default; 0 is kept
	MinHeight          *float64 `json:"min_height,omitempty"`    // nil selects the default; 0 is kept
	NodeWidth          float64  `json:"node_width,omitempty"`
	NodePadding        float64  `json:"node_padding,omitempty"`
	MinThickness       float64  `json:"min_thickness,omitempty"`
	ThicknessThreshold float64  `json:"thickness_threshold,omitempty"`
	Align              string   `json:"align,omitempty"`
	Iterations         int      `json:"iterations,omitempty"` // 0 selects the default, negative disables relaxation

	// Label and style options
	Policy string       `json:"policy,omitempty"`
	Style  *style.Style `json:"style,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // nodelink only: value, depth and delta in labels
	Scale    float64  `json:"scale,omitempty"`
	NoFont   bool     `json:"no_font,omitempty"` // skip the embedded @font-face
	Refresh  bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger       `json:"-"`
	Measurer labelfit.Measurer `json:"-"`
	Layouter sankey.Layouter   `json:"-"`
	Surface  *scene.Surface    `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the flattened tree.
	Graph sankey.Graph

	// TreeHash is the content hash of the input tree.
	TreeHash string

	// Height is the canvas height chosen by the size policy.
	Height float64

	// Positioned is the clamped layout. Empty when every artifact came
	// from the cache or the viz type is nodelink.
	Positioned sankey.Positioned

	// Scene holds the paint commands. Nil when Positioned is empty.
	Scene *scene.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount      int
	LinkCount      int
	LabelCount     int
	TruncatedCount int
	FlattenTime    time.Duration
	LayoutTime     time.Duration
	SceneTime      time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
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

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: sankey, nodelink)", vizType)
	}
	return nil
}

// ValidateAlign checks that a column alignment is valid.
func ValidateAlign(align string) error {
	if !ValidAligns[align] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid align: %q (must be one of: justify, left)", align)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Width == 0 {
		o.Width = sankey.DefaultWidth
	}
	if o.HeightMultiplier == 0 {
		o.HeightMultiplier = sankey.DefaultHeightMultiplier
	}
	if o.HeightOffset == nil {
		o.HeightOffset = ptr(sankey.DefaultHeightOffset)
	}
	if o.MinHeight == nil {
		o.MinHeight = ptr(sankey.DefaultMinHeight)
	}
	if o.NodeWidth == 0 {
		o.NodeWidth = DefaultNodeWidth
	}
	if o.NodePadding == 0 {
		o.NodePadding = DefaultNodePadding
	}
	if o.MinThickness == 0 {
		o.MinThickness = sankey.DefaultMinThickness
	}
	if o.ThicknessThreshold == 0 {
		o.ThicknessThreshold = sankey.DefaultThicknessThreshold
	}
	if o.Align == "" {
		o.Align = DefaultAlign
	}
	if o.Iterations == 0 {
		o.Iterations = layout.DefaultIterations
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateAlign(o.Align); err != nil {
		return err
	}
	if o.Width < 0 || o.HeightMultiplier < 0 || *o.MinHeight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas dimensions must not be negative")
	}
	if o.NodeWidth < 0 || o.NodePadding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "node width and padding must not be negative")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Policy == "" {
		o.Policy = string(labelfit.PolicyWrap)
	}
	if o.Style == nil {
		st := style.Default()
		o.Style = &st
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if _, err := labelfit.ParsePolicy(o.Policy); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be positive, got %g", o.Scale)
	}
	return o.Style.Validate()
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == VizTypeNodelink
}

// SizePolicy returns the canvas sizing and clamp settings.
func (o *Options) SizePolicy() sankey.SizePolicy {
	return sankey.SizePolicy{
		HeightMultiplier:   o.HeightMultiplier,
		HeightOffset:       deref(o.HeightOffset, sankey.DefaultHeightOffset),
		MinHeight:          deref(o.MinHeight, sankey.DefaultMinHeight),
		MinThickness:       o.MinThickness,
		ThicknessThreshold: o.ThicknessThreshold,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	styleHash := ""
	if o.Style != nil {
		styleHash, _ = cache.HashJSON(o.Style)
	}
	return cache.ArtifactKeyOpts{
		Format:             format,
		VizType:            o.VizType,
		Width:              o.Width,
		HeightMultiplier:   o.HeightMultiplier,
		HeightOffset:       deref(o.HeightOffset, sankey.DefaultHeightOffset),
		MinHeight:          deref(o.MinHeight, sankey.DefaultMinHeight),
		NodeWidth:          o.NodeWidth,
		NodePadding:        o.NodePadding,
		MinThickness:       o.MinThickness,
		ThicknessThreshold: o.ThicknessThreshold,
		Align:              o.Align,
		Iterations:         o.Iterations,
		Policy:             o.Policy,
		StyleHash:          styleHash,
		Detailed:           o.Detailed,
		Scale:              o.Scale,
		EmbedFont:          !o.NoFont,
	}
}

func ptr[T any](v T) *T { return &v }

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
