package sink

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/sankey/pkg/fonts"
	"github.com/matzehuels/sankey/pkg/render/scene"
	"github.com/matzehuels/sankey/pkg/render/style"
)

const tooltipCSS = `
    .sankey-tooltip-arrow { padding: 0 4px; }
    .sankey-tooltip-delta { font-weight: bold; }`

// hoverCSS is only emitted alongside hoverJS, when some label is truncated.
const hoverCSS = `
    .sankey-label-tooltip { pointer-events: none; transition: opacity 0.15s ease; }
    .sankey-label-tooltip[visibility="hidden"] { opacity: 0; }
    .sankey-label-tooltip[visibility="visible"] { opacity: 1; }
    .sankey-node-title[data-overlay] { cursor: default; }`

const hoverJS = `
    document.querySelectorAll('.sankey-node-title[data-overlay]').forEach(el => {
      const overlay = document.getElementById(el.dataset.overlay);
      if (!overlay) return;
      el.addEventListener('mouseenter', () => overlay.setAttribute('visibility', 'visible'));
      el.addEventListener('mouseleave', () => overlay.setAttribute('visibility', 'hidden'));
    });`

// Margin is the space kept around the canvas so labels left of the first
// column and tooltips above the top row stay inside the image.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// DefaultMargin leaves room for the label column left of the root.
func DefaultMargin() Margin {
	return Margin{Top: 50, Right: 50, Bottom: 50, Left: 150}
}

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	margin      Margin
	embedFont   bool
	interactive bool
}

// WithMargin sets the margin around the canvas.
func WithMargin(m Margin) SVGOption { return func(r *svgRenderer) { r.margin = m } }

// WithoutFont skips the embedded @font-face, shrinking output by ~100KB.
func WithoutFont() SVGOption { return func(r *svgRenderer) { r.embedFont = false } }

// WithoutInteraction drops the hover script. Label overlays stay hidden.
func WithoutInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = false } }

// RenderSVG paints the scene.
func RenderSVG(sc *scene.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{margin: DefaultMargin(), embedFont: true, interactive: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)

	m := r.margin
	w, h := sc.Width+m.Left+m.Right, sc.Height+m.Top+m.Bottom
	canvas.Start(px(w), px(h),
		fmt.Sprintf(`viewBox="%s %s %s %s"`, num(-m.Left), num(-m.Top), num(w), num(h)),
		`style="overflow: visible"`,
		fmt.Sprintf(`data-scene="%s"`, sc.ID),
	)

	hover := r.interactive && len(sc.Bindings()) > 0
	r.renderStyle(canvas, sc.Style, hover)
	renderPaths(canvas, sc.Paths)
	renderRects(canvas, sc.Rects)
	renderTexts(canvas, sc)
	renderOverlays(canvas, sc)
	if hover {
		canvas.Script("text/javascript", hoverJS)
	}

	canvas.End()
	return buf.Bytes()
}

func (r svgRenderer) renderStyle(canvas *svg.SVG, st style.Style, hover bool) {
	var css strings.Builder
	if r.embedFont {
		fmt.Fprintf(&css, "\n    @font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }",
			fonts.FontFamily, fonts.GoRegularBase64())
	}
	fmt.Fprintf(&css, "\n    .%s { font-family: %s; font-size: %spx; }",
		scene.ClassTitle, fonts.FallbackFontFamily, num(st.FontSize))
	fmt.Fprintf(&css, "\n    .%s, .%s { font-family: %s; font-size: %spx; }",
		scene.ClassValueTooltip, scene.ClassLabelTooltip, fonts.FallbackFontFamily, num(st.FontSize))
	css.WriteString(tooltipCSS)
	if hover {
		css.WriteString(hoverCSS)
	}
	canvas.Style("text/css", css.String())
}

func renderPaths(canvas *svg.SVG, paths []scene.Path) {
	canvas.Group(`class="sankey-links"`, `fill="none"`)
	for _, p := range paths {
		canvas.Path(p.D(),
			attr("class", scene.ClassLink),
			attr("stroke", p.Stroke),
			attr("stroke-width", num(p.Width)),
			attr("stroke-opacity", num(p.Opacity)),
			attr("data-source", strconv.Itoa(p.Source)),
			attr("data-target", strconv.Itoa(p.Target)),
		)
	}
	canvas.Gend()
}

func renderRects(canvas *svg.SVG, rects []scene.Rect) {
	canvas.Group(`class="sankey-nodes"`)
	for _, rc := range rects {
		rad := px(rc.Radius)
		canvas.Roundrect(px(rc.X), px(rc.Y), px(rc.Width), px(rc.Height), rad, rad,
			attr("class", scene.ClassNode),
			attr("fill", rc.Fill),
			attr("data-node", strconv.Itoa(rc.Node)),
		)
	}
	canvas.Gend()
}

func renderTexts(canvas *svg.SVG, sc *scene.Scene) {
	canvas.Group(`class="sankey-labels"`)
	for _, t := range sc.Texts {
		overlay := ""
		if b, ok := sc.Binding(t.Node); ok {
			overlay = " " + attr("data-overlay", b.OverlayID())
		}
		x := num(t.X)
		fmt.Fprintf(canvas.Writer, `<text x="%s" y="%s" text-anchor="%s" fill="%s" class="%s" data-node="%d"%s>`,
			x, num(t.Y), esc(t.Anchor), esc(t.Fill), esc(t.Class), t.Node, overlay)
		for i, line := range t.Lines {
			fmt.Fprintf(canvas.Writer, `<tspan x="%s" y="%s" dy="%sem">%s</tspan>`,
				x, num(t.Y), num(t.LineDY(i)), esc(line))
		}
		if t.Truncated {
			fmt.Fprintf(canvas.Writer, `<title>%s</title>`, esc(t.Full))
		}
		canvas.Writer.Write([]byte("</text>\n"))
	}
	canvas.Gend()
}

func renderOverlays(canvas *svg.SVG, sc *scene.Scene) {
	canvas.Group(`class="sankey-overlays"`)
	for _, o := range sc.Overlays {
		switch o.Kind {
		case scene.OverlayValue:
			fmt.Fprintf(canvas.Writer,
				`<foreignObject x="%s" y="%s" width="%s" height="%s" data-node="%d">`+
					`<div xmlns="http://www.w3.org/1999/xhtml" class="%s" style="color:%s;text-align:center">%s</div>`+
					"</foreignObject>\n",
				num(o.X), num(o.Y), num(o.Width), num(o.Height), o.Node, esc(o.Class), esc(o.Color), o.Markup)
		case scene.OverlayLabel:
			canvas.Group(attr("id", o.ID), attr("class", o.Class), `visibility="hidden"`, attr("data-node", strconv.Itoa(o.Node)))
			canvas.Roundrect(px(o.X), px(o.Y), px(o.Width), px(o.Height), 4, 4,
				attr("fill", o.Fill), attr("stroke", o.Color), `stroke-opacity="0.2"`)
			canvas.Text(px(o.X+o.Width-sc.Style.LabelTooltipGap), px(o.Y+o.Height/2), o.Text,
				`text-anchor="end"`, `dominant-baseline="middle"`, attr("fill", o.Color))
			canvas.Gend()
		}
	}
	canvas.Gend()
}

// attr formats a raw attribute for svgo, which passes "k=v" strings through.
func attr(k, v string) string {
	return k + `="` + esc(v) + `"`
}

func esc(s string) string {
	return style.EscapeXML(s)
}

func px(v float64) int {
	return int(math.Round(v))
}

func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
