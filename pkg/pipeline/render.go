package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/labelfit"
	"github.com/matzehuels/sankey/pkg/observability"
	"github.com/matzehuels/sankey/pkg/render/nodelink"
	"github.com/matzehuels/sankey/pkg/render/scene"
	"github.com/matzehuels/sankey/pkg/render/sink"
	"github.com/matzehuels/sankey/pkg/sankey"
)

// BuildScene fits labels and builds the paint commands for a clamped
// layout. When opts.Surface is set the scene is installed on it, which
// releases the hover bindings of the previous pass; on failure the previous
// scene stays installed.
func BuildScene(ctx context.Context, pos sankey.Positioned, height float64, opts Options) (*scene.Scene, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	build := func() (*scene.Scene, error) {
		m := opts.Measurer
		if m == nil {
			fm, err := labelfit.NewFontMeasurer(opts.Style.FontSize)
			if err != nil {
				return nil, err
			}
			defer fm.Close()
			m = labelfit.NewCached(fm)
		}
		return scene.Build(pos, scene.Config{
			Width:    opts.Width,
			Height:   height,
			Style:    *opts.Style,
			Measurer: m,
			Policy:   labelfit.Policy(opts.Policy),
		})
	}

	var sc *scene.Scene
	var err error
	if opts.Surface != nil {
		sc, err = opts.Surface.Render(build)
	} else {
		sc, err = build()
	}
	if err != nil {
		return nil, err
	}

	labels, truncated := labelCounts(sc)
	observability.Pipeline().OnLabelsFitted(ctx, labels, truncated)
	opts.Logger.Debug("scene built",
		"scene", sc.ID,
		"labels", labels,
		"truncated", truncated,
		"bindings", len(sc.Bindings()))
	return sc, nil
}

func labelCounts(sc *scene.Scene) (labels, truncated int) {
	for _, t := range sc.Texts {
		labels++
		if t.Truncated {
			truncated++
		}
	}
	return labels, truncated
}

// RenderScene generates output artifacts for a scene in the requested formats.
func RenderScene(ctx context.Context, sc *scene.Scene, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	return timedRender(ctx, opts, func(format string) ([]byte, error) {
		svgOpts := svgOptions(opts)
		switch format {
		case FormatSVG:
			return sink.RenderSVG(sc, svgOpts...), nil
		case FormatJSON:
			return sink.RenderJSON(sc)
		case FormatPNG:
			return sink.RenderPNG(ctx, sc, sink.WithSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			return sink.RenderPDF(ctx, sc, sink.WithSVGOptions(svgOpts...))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported sankey format: %s", format)
		}
	})
}

// nodelinkExport is the JSON artifact of a nodelink render.
type nodelinkExport struct {
	DOT   string        `json:"dot"`
	Nodes []sankey.Node `json:"nodes"`
	Links []sankey.Link `json:"links"`
}

// RenderNodelink renders the flattened graph as a Graphviz node-link
// diagram. No layout or scene is needed.
func RenderNodelink(ctx context.Context, g sankey.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed})

	return timedRender(ctx, opts, func(format string) ([]byte, error) {
		switch format {
		case FormatSVG:
			return nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			return nodelink.RenderPNG(ctx, dot, opts.Scale)
		case FormatPDF:
			return nodelink.RenderPDF(ctx, dot)
		case FormatJSON:
			return json.MarshalIndent(nodelinkExport{DOT: dot, Nodes: g.Nodes, Links: g.Links}, "", "  ")
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported nodelink format: %s", format)
		}
	})
}

// timedRender runs one render function per requested format and reports the
// pass to the pipeline hooks. It fails on the first format that fails.
func timedRender(ctx context.Context, opts Options, render func(format string) ([]byte, error)) (map[string][]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := render(format)
		if err != nil {
			err = fmt.Errorf("render %s: %w", format, err)
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, err
		}
		artifacts[format] = data
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, nil
}

func svgOptions(opts Options) []sink.SVGOption {
	var out []sink.SVGOption
	if opts.NoFont {
		out = append(out, sink.WithoutFont())
	}
	return out
}
