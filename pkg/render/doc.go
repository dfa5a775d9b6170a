// Package render turns a laid-out sankey into pictures.
//
// # Overview
//
// Rendering is split in three layers:
//
//   - [style]: every visual constant (colors, opacities, radii, offsets)
//   - [scene]: paint commands computed from positioned nodes and fitted labels
//   - [sink]: output formats (SVG, JSON) that serialize a scene
//
// The [nodelink] subpackage draws the flattened graph as a plain
// node-link diagram with Graphviz, which helps when checking tree shape.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). Both the sankey sink and
// the node-link renderer use them.
//
//	svg := sink.RenderSVG(sc)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [style]: github.com/matzehuels/sankey/pkg/render/style
// [scene]: github.com/matzehuels/sankey/pkg/render/scene
// [sink]: github.com/matzehuels/sankey/pkg/render/sink
// [nodelink]: github.com/matzehuels/sankey/pkg/render/nodelink
package render
