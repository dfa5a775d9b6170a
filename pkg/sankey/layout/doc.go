// Package layout assigns coordinates to a flattened Sankey graph.
//
// [Sankey] follows the d3-sankey model: nodes are placed in columns by
// depth, a single vertical scale maps values to pixels so that the most
// crowded column fills the extent, and a few relaxation passes pull nodes
// toward the nodes they connect to. Nodes in a column keep their input
// order; relaxation only slides them, so pre-order indices from
// [sankey.Flatten] decide top-to-bottom order.
//
// Basic usage:
//
//	pos, err := layout.New().Layout(g, sankey.Extent{X1: 800, Y1: 1200}, 32, 42)
//
// [sankey.Flatten]: github.com/matzehuels/sankey/pkg/sankey.Flatten
package layout
