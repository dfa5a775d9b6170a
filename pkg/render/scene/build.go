package scene

import (
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/labelfit"
	"github.com/matzehuels/sankey/pkg/render/style"
	"github.com/matzehuels/sankey/pkg/sankey"
)

// Config controls scene construction.
type Config struct {
	Width    float64
	Height   float64
	Style    style.Style       // zero value selects style.Default()
	Measurer labelfit.Measurer // required; must match the font the sink draws with
	Policy   labelfit.Policy   // empty selects wrap
	NewID    func() uuid.UUID  // nil selects uuid.New
}

// Build creates the paint commands for a positioned graph. It fails as a
// whole: on error no partial scene is returned.
func Build(p sankey.Positioned, cfg Config) (*Scene, error) {
	if cfg.Measurer == nil {
		return nil, errors.New(errors.ErrCodeMeasure, "scene: no text measurer")
	}
	st := cfg.Style
	if st == (style.Style{}) {
		st = style.Default()
	}
	policy, err := labelfit.ParsePolicy(string(cfg.Policy))
	if err != nil {
		return nil, err
	}
	newID := cfg.NewID
	if newID == nil {
		newID = uuid.New
	}

	fitter := labelfit.New(cfg.Measurer,
		labelfit.WithPolicy(policy),
		labelfit.WithFontSize(st.FontSize),
		labelfit.WithLineHeight(st.LineHeight),
	)

	sc := &Scene{
		ID:     newID(),
		Width:  cfg.Width,
		Height: cfg.Height,
		Style:  st,
		byNode: make(map[int]*HoverBinding),
	}

	byIndex := make(map[int]sankey.PositionedNode, len(p.Nodes))
	for _, n := range p.Nodes {
		byIndex[n.Index] = n
	}

	sc.Paths = make([]Path, 0, len(p.Links))
	for _, l := range p.Links {
		src, ok := byIndex[l.Source]
		if !ok {
			return nil, errors.New(errors.ErrCodeRender, "link %d->%d: unknown source", l.Source, l.Target)
		}
		tgt, ok := byIndex[l.Target]
		if !ok {
			return nil, errors.New(errors.ErrCodeRender, "link %d->%d: unknown target", l.Source, l.Target)
		}
		sc.Paths = append(sc.Paths, linkPath(st, src, tgt, l))
	}

	sc.Rects = make([]Rect, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		sc.Rects = append(sc.Rects, nodeRect(st, n))
	}

	for _, n := range p.Nodes {
		if err := sc.addLabel(st, fitter, cfg.Measurer, n); err != nil {
			return nil, err
		}
	}

	for _, n := range p.Nodes {
		sc.Overlays = append(sc.Overlays, sc.valueOverlay(st, n))
	}
	return sc, nil
}

func linkPath(st style.Style, src, tgt sankey.PositionedNode, l sankey.PositionedLink) Path {
	start := Point{X: src.X1 - st.LinkInset, Y: l.Y0}
	end := Point{X: tgt.X0 + st.LinkInset, Y: l.Y1}
	mx := (start.X + end.X) / 2
	return Path{
		Source:  l.Source,
		Target:  l.Target,
		Start:   start,
		C1:      Point{X: mx, Y: start.Y},
		C2:      Point{X: mx, Y: end.Y},
		End:     end,
		Stroke:  st.LinkColor,
		Width:   st.LinkWidth(l.Width),
		Opacity: st.LinkOpacity,
	}
}

func nodeRect(st style.Style, n sankey.PositionedNode) Rect {
	fill := n.Color
	if fill == "" {
		fill = st.NodeColor
	}
	return Rect{
		Node:   n.Index,
		X:      n.X0,
		Y:      n.Y0,
		Width:  n.Width(),
		Height: n.Height(),
		Radius: st.NodeRadius(n.Height()),
		Fill:   fill,
	}
}

func (sc *Scene) addLabel(st style.Style, f *labelfit.Fitter, m labelfit.Measurer, n sankey.PositionedNode) error {
	if strings.TrimSpace(n.Label) == "" {
		return nil
	}
	res, err := f.Fit(n.Label, st.LabelWidth, n.Height())
	if err != nil {
		return err
	}
	if res.Empty() {
		return nil
	}

	t := Text{
		Node:       n.Index,
		X:          n.X0 - st.LabelOffset,
		Y:          n.Y0 + st.LabelDrop(n.Height()),
		DY:         st.LabelDY,
		LineHeight: st.LineHeight,
		Lines:      res.Lines,
		Anchor:     "end",
		Fill:       st.TextColor,
		FontSize:   st.FontSize,
		Class:      ClassTitle,
		Truncated:  res.Truncated,
	}
	if !res.Truncated {
		sc.Texts = append(sc.Texts, t)
		return nil
	}

	full := strings.Join(strings.Fields(n.Label), " ")
	t.Full = full
	sc.Texts = append(sc.Texts, t)

	w, err := m.Measure(full)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMeasure, err, "measure label %q", full)
	}
	width := max(st.LabelWidth, w+2*st.LabelTooltipGap)
	o := Overlay{
		ID:     sc.overlayID(OverlayLabel, n.Index),
		Node:   n.Index,
		Kind:   OverlayLabel,
		X:      t.X - width,
		Y:      n.Y0 - st.LabelTooltipHeight - st.LabelTooltipGap,
		Width:  width,
		Height: st.LabelTooltipHeight,
		Text:   full,
		Color:  st.TextColor,
		Fill:   st.LabelTooltipFill,
		Class:  ClassLabelTooltip,
		Hidden: true,
	}
	if n.HasDelta {
		o.X -= st.DeltaShift
		o.ShiftedForDelta = true
	}
	sc.Overlays = append(sc.Overlays, o)

	b := newHoverBinding(n.Index, o.ID)
	sc.bindings = append(sc.bindings, b)
	sc.byNode[n.Index] = b
	return nil
}

func (sc *Scene) valueOverlay(st style.Style, n sankey.PositionedNode) Overlay {
	o := Overlay{
		ID:     sc.overlayID(OverlayValue, n.Index),
		Node:   n.Index,
		Kind:   OverlayValue,
		X:      n.X0 + st.TooltipOffsetX - st.TooltipWidth/2,
		Y:      n.Y0 - st.TooltipOffsetY,
		Width:  st.TooltipWidth,
		Height: st.TooltipHeight,
		Markup: n.TooltipMarkup,
		Color:  st.TextColor,
		Class:  ClassValueTooltip,
	}
	if n.HasDelta {
		o.X -= st.DeltaShift
		o.ShiftedForDelta = true
	}
	return o
}
