// Package sink serializes a [scene.Scene] into output formats.
//
// # SVG
//
// [RenderSVG] paints links, node rectangles, labels and overlays with
// github.com/ajstarks/svgo. Label overlays start hidden; a small script
// shows them on mouseenter of the label and hides them on mouseleave.
// The Go Regular font is embedded through @font-face so viewers draw
// labels with the face they were measured with.
//
//	svg := sink.RenderSVG(sc, sink.WithMargin(sink.DefaultMargin()))
//
// # JSON
//
// [RenderJSON] writes the scene itself: every paint command with its
// coordinates, plus the hover bindings as node/overlay pairs. Other tools
// can redraw the diagram from it without redoing layout or label fitting.
//
// # PDF and PNG
//
// [RenderPDF] and [RenderPNG] render SVG first and convert it with
// rsvg-convert. librsvg does not draw foreignObject, so value tooltips
// are absent from those formats.
//
// [scene.Scene]: github.com/matzehuels/sankey/pkg/render/scene
package sink
