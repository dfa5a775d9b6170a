package sankey

import "math"

// Sizing defaults. The height offset and floor compensate for fixed page
// margins; they are empirical and kept as-is for visual compatibility.
const (
	DefaultWidth              = 800.0
	DefaultHeightMultiplier   = 100.0
	DefaultHeightOffset       = 4
	DefaultMinHeight          = 800.0
	DefaultMinThickness       = 5.0
	DefaultThicknessThreshold = 5.0
)

// SizePolicy sizes the canvas and post-processes layout output.
type SizePolicy struct {
	HeightMultiplier   float64 `toml:"height_multiplier" json:"height_multiplier"`
	HeightOffset       int     `toml:"height_offset" json:"height_offset"`
	MinHeight          float64 `toml:"min_height" json:"min_height"`
	MinThickness       float64 `toml:"min_thickness" json:"min_thickness"`
	ThicknessThreshold float64 `toml:"thickness_threshold" json:"thickness_threshold"`
}

// DefaultSizePolicy returns the policy used when nothing is configured.
func DefaultSizePolicy() SizePolicy {
	return SizePolicy{
		HeightMultiplier:   DefaultHeightMultiplier,
		HeightOffset:       DefaultHeightOffset,
		MinHeight:          DefaultMinHeight,
		MinThickness:       DefaultMinThickness,
		ThicknessThreshold: DefaultThicknessThreshold,
	}
}

// CanvasHeight returns max((nodeCount - 4) * heightMultiplier, 800).
func CanvasHeight(nodeCount int, heightMultiplier float64) float64 {
	p := DefaultSizePolicy()
	p.HeightMultiplier = heightMultiplier
	return p.CanvasHeight(nodeCount)
}

// CanvasHeight returns max((nodeCount - HeightOffset) * HeightMultiplier, MinHeight).
func (p SizePolicy) CanvasHeight(nodeCount int) float64 {
	return math.Max(float64(nodeCount-p.HeightOffset)*p.HeightMultiplier, p.MinHeight)
}

// Clamp applies [ClampMinimumThickness] with the policy's settings.
func (p SizePolicy) Clamp(nodes []PositionedNode) []PositionedNode {
	return ClampMinimumThickness(nodes, p.MinThickness, p.ThicknessThreshold)
}

// ClampMinimumThickness returns a copy of nodes in which every node whose
// value is below valueThreshold, or whose height is below minThickness, is
// exactly minThickness tall. Only Y1 moves; Y0 and every other node are
// left alone, so a clamped node may overlap its next sibling slightly.
func ClampMinimumThickness(nodes []PositionedNode, minThickness, valueThreshold float64) []PositionedNode {
	out := make([]PositionedNode, len(nodes))
	copy(out, nodes)
	for i := range out {
		n := &out[i]
		if n.Value < valueThreshold || n.Height() < minThickness {
			n.Y1 = n.Y0 + minThickness
		}
	}
	return out
}
