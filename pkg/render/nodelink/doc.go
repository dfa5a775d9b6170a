// Package nodelink renders a flattened sankey graph as a node-link diagram.
//
// # Overview
//
// The sankey view hides tree shape behind band widths. This package draws
// the same [sankey.Graph] with Graphviz instead: one box per node, one
// arrow per parent-child link, arrow thickness scaled to the link weight.
// It is the "nodelink" viz type of the CLI and server.
//
// # Usage
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: node labels add the value, depth and tooltip text
//
// Node names in DOT are derived from flattened indices ("n0", "n1", ...),
// since input IDs may repeat.
//
// [sankey.Graph]: github.com/matzehuels/sankey/pkg/sankey
package nodelink
