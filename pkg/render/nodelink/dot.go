package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/render"
	"github.com/matzehuels/sankey/pkg/sankey"
)

const (
	minPenWidth = 1.0
	maxPenWidth = 8.0
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes value, depth and tooltip in node labels.
	// When false, only the node label is shown.
	Detailed bool
}

// ToDOT converts a flattened graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(g sankey.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#2763EC\"];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %s [%s];\n", dotName(n.Index), strings.Join(fmtAttrs(n, fmtLabel(n, opts.Detailed)), ", "))
	}

	buf.WriteString("\n")
	peak := maxLinkValue(g.Links)
	for _, l := range g.Links {
		fmt.Fprintf(&buf, "  %s -> %s [penwidth=%s];\n", dotName(l.Source), dotName(l.Target), penWidth(l.Value, peak))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotName(index int) string {
	return "n" + strconv.Itoa(index)
}

func fmtLabel(n sankey.Node, detailed bool) string {
	label := n.Label
	if label == "" {
		label = n.ID.String()
	}
	if !detailed {
		return label
	}

	parts := []string{
		fmt.Sprintf("value: %s", strconv.FormatFloat(n.Value, 'f', -1, 64)),
		fmt.Sprintf("depth: %d", n.Depth),
	}
	if n.HasDelta {
		parts = append(parts, "delta: yes")
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n sankey.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.Color != "" {
		attrs = append(attrs, fmt.Sprintf("color=%q", n.Color), "penwidth=2")
	}
	if n.IsRoot() {
		attrs = append(attrs, "fontname=\"bold\"")
	}
	return attrs
}

func maxLinkValue(links []sankey.Link) float64 {
	var peak float64
	for _, l := range links {
		peak = max(peak, l.Value)
	}
	return peak
}

func penWidth(v, peak float64) string {
	w := minPenWidth
	if peak > 0 {
		w += (maxPenWidth - minPenWidth) * v / peak
	}
	return strconv.FormatFloat(w, 'f', 2, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render DOT")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
