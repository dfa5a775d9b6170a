package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/observability"
	"github.com/matzehuels/sankey/pkg/sankey"
	"github.com/matzehuels/sankey/pkg/sankey/layout"
)

// ComputeLayout sizes the canvas for g, positions its nodes and applies the
// minimum-thickness clamp. It returns the clamped layout and the canvas
// height. The input graph is not modified.
func ComputeLayout(ctx context.Context, g sankey.Graph, opts Options) (sankey.Positioned, float64, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return sankey.Positioned{}, 0, err
	}

	policy := opts.SizePolicy()
	height := policy.CanvasHeight(len(g.Nodes))
	extent := sankey.Extent{X1: opts.Width, Y1: height}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.VizType, len(g.Nodes))
	start := time.Now()

	pos, err := layouter(opts).Layout(g, extent, opts.NodeWidth, opts.NodePadding)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeLayout, err, "layout %d nodes", len(g.Nodes))
		}
		hooks.OnLayoutComplete(ctx, opts.VizType, time.Since(start), err)
		return sankey.Positioned{}, 0, err
	}
	pos.Nodes = policy.Clamp(pos.Nodes)

	hooks.OnLayoutComplete(ctx, opts.VizType, time.Since(start), nil)
	opts.Logger.Debug("layout computed",
		"nodes", len(pos.Nodes),
		"links", len(pos.Links),
		"width", opts.Width,
		"height", height)
	return pos, height, nil
}

// layouter returns the configured layout, or the default Sankey layout
// built from the alignment and iteration options.
func layouter(opts Options) sankey.Layouter {
	if opts.Layouter != nil {
		return opts.Layouter
	}
	align := layout.AlignJustify
	if opts.Align == AlignLeft {
		align = layout.AlignLeft
	}
	return layout.New(layout.WithAlign(align), layout.WithIterations(opts.Iterations))
}
