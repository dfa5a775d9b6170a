package sink

import (
	"context"

	"github.com/matzehuels/sankey/pkg/render"
	"github.com/matzehuels/sankey/pkg/render/scene"
)

// RasterOption configures PDF and PNG output. Both are produced by painting
// SVG and handing it to rsvg-convert.
type RasterOption func(*raster)

type raster struct {
	svg   []SVGOption
	scale float64
}

// WithSVGOptions forwards options to the intermediate SVG pass.
func WithSVGOptions(opts ...SVGOption) RasterOption {
	return func(r *raster) { r.svg = append(r.svg, opts...) }
}

// WithScale sets the PNG pixel ratio. PDF output ignores it.
func WithScale(s float64) RasterOption {
	return func(r *raster) { r.scale = s }
}

func newRaster(opts []RasterOption) raster {
	r := raster{scale: 2}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderPDF paints sc as a vector PDF. Value tooltips drawn as
// foreignObject do not survive the conversion.
func RenderPDF(ctx context.Context, sc *scene.Scene, opts ...RasterOption) ([]byte, error) {
	r := newRaster(opts)
	return render.ToPDF(ctx, RenderSVG(sc, r.svg...))
}

// RenderPNG paints sc as a PNG at the configured scale (2x by default).
func RenderPNG(ctx context.Context, sc *scene.Scene, opts ...RasterOption) ([]byte, error) {
	r := newRaster(opts)
	return render.ToPNG(ctx, RenderSVG(sc, r.svg...), r.scale)
}
