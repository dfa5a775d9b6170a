package sink

import (
	"encoding/json"

	"github.com/matzehuels/sankey/pkg/render/scene"
)

type jsonOutput struct {
	ID       string          `json:"id"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Margin   Margin          `json:"margin"`
	Rects    []scene.Rect    `json:"rects"`
	Paths    []jsonPath      `json:"paths"`
	Texts    []scene.Text    `json:"texts"`
	Overlays []scene.Overlay `json:"overlays"`
	Hover    []jsonHover     `json:"hover,omitempty"`
}

type jsonPath struct {
	scene.Path
	Data string `json:"d"`
}

type jsonHover struct {
	Node    int    `json:"node"`
	Overlay string `json:"overlay"`
}

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	margin Margin
	indent bool
}

// WithJSONMargin records the margin an SVG of this scene would use.
func WithJSONMargin(m Margin) JSONOption { return func(r *jsonRenderer) { r.margin = m } }

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.indent = false } }

// RenderJSON serializes the scene's paint commands.
func RenderJSON(sc *scene.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{margin: DefaultMargin(), indent: true}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		ID:       sc.ID.String(),
		Width:    sc.Width,
		Height:   sc.Height,
		Margin:   r.margin,
		Rects:    nonNil(sc.Rects),
		Texts:    nonNil(sc.Texts),
		Overlays: nonNil(sc.Overlays),
		Paths:    make([]jsonPath, 0, len(sc.Paths)),
	}
	for _, p := range sc.Paths {
		out.Paths = append(out.Paths, jsonPath{Path: p, Data: p.D()})
	}
	for _, b := range sc.Bindings() {
		out.Hover = append(out.Hover, jsonHover{Node: b.Node(), Overlay: b.OverlayID()})
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
