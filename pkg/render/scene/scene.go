package scene

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/sankey/pkg/render/style"
)

// CSS classes carried by paint commands.
const (
	ClassNode         = "sankey-node"
	ClassLink         = "sankey-link"
	ClassTitle        = "sankey-node-title"
	ClassValueTooltip = "sankey-node-tooltip"
	ClassLabelTooltip = "sankey-label-tooltip"
)

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect paints one node.
type Rect struct {
	Node   int     `json:"node"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Radius float64 `json:"radius"`
	Fill   string  `json:"fill"`
}

// Path paints one link as a cubic bezier band.
type Path struct {
	Source  int     `json:"source"`
	Target  int     `json:"target"`
	Start   Point   `json:"start"`
	C1      Point   `json:"c1"`
	C2      Point   `json:"c2"`
	End     Point   `json:"end"`
	Stroke  string  `json:"stroke"`
	Width   float64 `json:"width"`
	Opacity float64 `json:"opacity"`
}

// D returns the SVG path data.
func (p Path) D() string {
	return fmt.Sprintf("M%s,%sC%s,%s %s,%s %s,%s",
		num(p.Start.X), num(p.Start.Y),
		num(p.C1.X), num(p.C1.Y),
		num(p.C2.X), num(p.C2.Y),
		num(p.End.X), num(p.End.Y))
}

// Text paints a node label. Line i sits at DY + i*LineHeight em below Y.
type Text struct {
	Node       int      `json:"node"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	DY         float64  `json:"dy"`
	LineHeight float64  `json:"line_height"`
	Lines      []string `json:"lines"`
	Anchor     string   `json:"anchor"`
	Fill       string   `json:"fill"`
	FontSize   float64  `json:"font_size"`
	Class      string   `json:"class"`
	Truncated  bool     `json:"truncated,omitempty"`
	Full       string   `json:"full,omitempty"`
}

// LineDY returns the em offset of line i.
func (t Text) LineDY(i int) float64 {
	return t.DY + float64(i)*t.LineHeight
}

// OverlayKind tells overlays apart.
type OverlayKind string

const (
	// OverlayValue shows the node's tooltip markup. Always visible.
	OverlayValue OverlayKind = "value"
	// OverlayLabel shows the full text of a truncated label on hover.
	OverlayLabel OverlayKind = "label"
)

// Overlay is a box drawn above the diagram. Markup is escaped XHTML for
// value overlays; label overlays carry plain Text.
type Overlay struct {
	ID              string      `json:"id"`
	Node            int         `json:"node"`
	Kind            OverlayKind `json:"kind"`
	X               float64     `json:"x"`
	Y               float64     `json:"y"`
	Width           float64     `json:"width"`
	Height          float64     `json:"height"`
	Markup          string      `json:"markup,omitempty"`
	Text            string      `json:"text,omitempty"`
	Color           string      `json:"color"`
	Fill            string      `json:"fill,omitempty"`
	Class           string      `json:"class"`
	Hidden          bool        `json:"hidden"`
	ShiftedForDelta bool        `json:"shifted_for_delta,omitempty"`
}

// Scene is the full set of paint commands for one render pass.
type Scene struct {
	ID       uuid.UUID   `json:"id"`
	Width    float64     `json:"width"`
	Height   float64     `json:"height"`
	Style    style.Style `json:"style"`
	Rects    []Rect      `json:"rects"`
	Paths    []Path      `json:"paths"`
	Texts    []Text      `json:"texts"`
	Overlays []Overlay   `json:"overlays"`

	bindings []*HoverBinding
	byNode   map[int]*HoverBinding
}

// Bindings returns the hover bindings in node order.
func (s *Scene) Bindings() []*HoverBinding {
	return s.bindings
}

// Binding returns the hover binding of a node's label, if any.
func (s *Scene) Binding(node int) (*HoverBinding, bool) {
	b, ok := s.byNode[node]
	return b, ok
}

// Overlay looks up an overlay by ID.
func (s *Scene) Overlay(id string) (Overlay, bool) {
	for _, o := range s.Overlays {
		if o.ID == id {
			return o, true
		}
	}
	return Overlay{}, false
}

// Visible reports whether an overlay is currently shown. Value overlays are
// always shown; label overlays follow their binding.
func (s *Scene) Visible(id string) bool {
	o, ok := s.Overlay(id)
	if !ok {
		return false
	}
	if !o.Hidden {
		return true
	}
	if b, ok := s.byNode[o.Node]; ok && b.OverlayID() == id {
		return b.Visible()
	}
	return false
}

// Release detaches every hover binding. A released scene keeps its paint
// commands but no longer reacts to hover.
func (s *Scene) Release() {
	for _, b := range s.bindings {
		b.Release()
	}
}

// Released reports whether every binding has been released.
func (s *Scene) Released() bool {
	for _, b := range s.bindings {
		if !b.Released() {
			return false
		}
	}
	return true
}

func (s *Scene) overlayID(kind OverlayKind, node int) string {
	return "sankey-" + strings.SplitN(s.ID.String(), "-", 2)[0] + "-" + string(kind) + "-" + strconv.Itoa(node)
}

// num formats a coordinate to two decimals without trailing zeros.
func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
