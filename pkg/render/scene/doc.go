// Package scene turns a positioned sankey into an ordered set of paint
// commands.
//
// A [Scene] holds one rectangle per node, one bezier band per link, one
// text block per labelled node and the overlays drawn above nodes. Sinks
// (SVG, JSON, the terminal browser) only read a Scene; every coordinate,
// color and radius is decided here from a [style.Style].
//
// # Labels and hover
//
// Each label is fitted into the label column with a [labelfit.Fitter].
// When the fit cut anything, the scene gets a hidden overlay with the full
// label and a [HoverBinding] that shows it on pointer-enter and hides it on
// pointer-exit. Bindings are independent: each owns its own visibility and
// nothing else.
//
// # Render passes
//
// A [Surface] owns the scene currently on display. [Surface.Render] builds
// the next scene first. If building fails, the previous scene stays in
// place untouched. If it succeeds, every binding of the previous scene is
// released before the new scene is installed, so overlays never accumulate
// across passes.
//
//	var surf scene.Surface
//	sc, err := surf.Render(func() (*scene.Scene, error) {
//	    return scene.Build(positioned, scene.Config{Width: 800, Height: 1400, Measurer: m})
//	})
//
// [style.Style]: github.com/matzehuels/sankey/pkg/render/style
// [labelfit.Fitter]: github.com/matzehuels/sankey/pkg/labelfit
package scene
