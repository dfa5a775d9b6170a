// Package style enumerates every visual constant the sankey renderer uses.
//
// Nothing is resolved through cascading lookup: the scene builder reads a
// [Style] value and emits paint commands with concrete colors, opacities,
// radii and offsets. [Default] reproduces the reference look; callers
// override individual fields, usually from the [style] table of a config
// file.
package style

import (
	"bytes"
	"encoding/xml"
	"regexp"

	"github.com/matzehuels/sankey/pkg/errors"
)

// Style holds the visual constants for one render.
type Style struct {
	// Links.
	LinkColor    string  `toml:"link_color" json:"link_color"`
	LinkOpacity  float64 `toml:"link_opacity" json:"link_opacity"`
	LinkMinWidth float64 `toml:"link_min_width" json:"link_min_width"`
	// LinkInset pulls link endpoints inside the node rectangles.
	LinkInset float64 `toml:"link_inset" json:"link_inset"`

	// Nodes.
	NodeColor         string  `toml:"node_color" json:"node_color"`
	CornerRadius      float64 `toml:"corner_radius" json:"corner_radius"`
	SmallCornerRadius float64 `toml:"small_corner_radius" json:"small_corner_radius"`
	SmallNodeHeight   float64 `toml:"small_node_height" json:"small_node_height"`

	// Labels.
	TextColor      string  `toml:"text_color" json:"text_color"`
	FontSize       float64 `toml:"font_size" json:"font_size"`
	LineHeight     float64 `toml:"line_height" json:"line_height"`
	LabelWidth     float64 `toml:"label_width" json:"label_width"`
	LabelOffset    float64 `toml:"label_offset" json:"label_offset"`
	LabelTopMargin float64 `toml:"label_top_margin" json:"label_top_margin"`
	// Labels on nodes shorter than LabelTallNode drop by LabelDropRatio of
	// the node height, taller nodes by LabelDropMax.
	LabelTallNode  float64 `toml:"label_tall_node" json:"label_tall_node"`
	LabelDropRatio float64 `toml:"label_drop_ratio" json:"label_drop_ratio"`
	LabelDropMax   float64 `toml:"label_drop_max" json:"label_drop_max"`
	LabelDY        float64 `toml:"label_dy" json:"label_dy"`

	// Value tooltip overlay, anchored above each node.
	TooltipWidth   float64 `toml:"tooltip_width" json:"tooltip_width"`
	TooltipHeight  float64 `toml:"tooltip_height" json:"tooltip_height"`
	TooltipOffsetX float64 `toml:"tooltip_offset_x" json:"tooltip_offset_x"`
	TooltipOffsetY float64 `toml:"tooltip_offset_y" json:"tooltip_offset_y"`
	// DeltaShift moves overlays of nodes that carry a delta to the left.
	DeltaShift float64 `toml:"delta_shift" json:"delta_shift"`

	// Full-label overlay shown on hover over a truncated label.
	LabelTooltipHeight float64 `toml:"label_tooltip_height" json:"label_tooltip_height"`
	LabelTooltipGap    float64 `toml:"label_tooltip_gap" json:"label_tooltip_gap"`
	LabelTooltipFill   string  `toml:"label_tooltip_fill" json:"label_tooltip_fill"`
}

// Default returns the reference style.
func Default() Style {
	return Style{
		LinkColor:    "#2763EC",
		LinkOpacity:  0.08,
		LinkMinWidth: 1,
		LinkInset:    10,

		NodeColor:         "#2763EC",
		CornerRadius:      8,
		SmallCornerRadius: 2,
		SmallNodeHeight:   16,

		TextColor:      "#2A2D3C",
		FontSize:       14,
		LineHeight:     1.1,
		LabelWidth:     120,
		LabelOffset:    14,
		LabelTopMargin: 6,
		LabelTallNode:  100,
		LabelDropRatio: 0.11,
		LabelDropMax:   11,
		LabelDY:        0.35,

		TooltipWidth:   200,
		TooltipHeight:  50,
		TooltipOffsetX: 15,
		TooltipOffsetY: 26,
		DeltaShift:     40,

		LabelTooltipHeight: 24,
		LabelTooltipGap:    4,
		LabelTooltipFill:   "#FFFFFF",
	}
}

// NodeRadius returns the rectangle corner radius for a node of height h.
func (s Style) NodeRadius(h float64) float64 {
	if h < s.SmallNodeHeight {
		return s.SmallCornerRadius
	}
	return s.CornerRadius
}

// LabelDrop returns how far below the node top the first label baseline sits.
func (s Style) LabelDrop(h float64) float64 {
	drop := s.LabelDropMax
	if h < s.LabelTallNode {
		drop = s.LabelDropRatio * h
	}
	return s.LabelTopMargin + drop
}

// LinkWidth returns the stroke width for a link of breadth w.
func (s Style) LinkWidth(w float64) float64 {
	return max(s.LinkMinWidth, w)
}

// LineHeightPx returns the line height in pixels.
func (s Style) LineHeightPx() float64 {
	return s.LineHeight * s.FontSize
}

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Validate rejects values that cannot produce a sensible drawing.
func (s Style) Validate() error {
	for name, c := range map[string]string{
		"link_color":         s.LinkColor,
		"node_color":         s.NodeColor,
		"text_color":         s.TextColor,
		"label_tooltip_fill": s.LabelTooltipFill,
	} {
		if !hexColor.MatchString(c) {
			return errors.New(errors.ErrCodeInvalidStyle, "%s: %q is not a hex color", name, c)
		}
	}
	if s.LinkOpacity < 0 || s.LinkOpacity > 1 {
		return errors.New(errors.ErrCodeInvalidStyle, "link_opacity must be within [0, 1], got %v", s.LinkOpacity)
	}
	if s.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "font_size must be positive, got %v", s.FontSize)
	}
	if s.LineHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "line_height must be positive, got %v", s.LineHeight)
	}
	if s.LabelWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "label_width must be positive, got %v", s.LabelWidth)
	}
	if s.TooltipWidth <= 0 || s.TooltipHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidStyle, "tooltip box must be positive, got %vx%v", s.TooltipWidth, s.TooltipHeight)
	}
	return nil
}

// EscapeXML escapes s for use as XML character data or attribute value.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
