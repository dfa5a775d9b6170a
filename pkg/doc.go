// Package pkg provides the core libraries for Sankey category-tree diagrams.
//
// # Overview
//
// Sankey turns a weighted category tree (a root total split into
// sub-categories, recursively) into a flow diagram: one rectangle per
// category, one band per parent-child edge, a fitted label next to every
// rectangle and a value tooltip above it. The pkg directory is organized
// into these areas:
//
//  1. [tree] - Input model and JSON/YAML decoding
//  2. [sankey] - Flattening, size policy and the layout contract
//  3. [labelfit] - Text measurement and label fitting
//  4. [render] - Scenes, hover bindings and output sinks
//  5. [pipeline] - Orchestration (flatten → layout → scene → render)
//
// # Architecture
//
// The data flow for one render pass:
//
//	tree.Node (JSON/YAML)
//	         ↓
//	    [sankey] Flatten (pre-order nodes + links)
//	         ↓
//	    [sankey/layout] (columns, heights, relaxation)
//	         ↓
//	    [render/scene] (rects, bands, fitted labels, overlays)
//	         ↓
//	    SVG/PDF/PNG/JSON output
//
// # Quick Start
//
//	root, _ := pipeline.Load("events.json")
//	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, nil)
//	defer runner.Close()
//
//	result, _ := runner.Execute(ctx, root, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	os.WriteFile("events.svg", result.Artifacts[pipeline.FormatSVG], 0o644)
//
// # Main Packages
//
// [sankey] - Graph types, [sankey.Flatten] and the size policy that derives
// the canvas height from the node count and clamps thin nodes.
//
// [sankey/layout] - The column layout with justify and left alignment and a
// fixed number of relaxation passes.
//
// [labelfit] - Measurers (embedded font, monospace, terminal cells) and the
// wrap and ellipsis fitting policies.
//
// [render/scene] - Paint commands and the [scene.Surface] that tears down
// every hover binding of the previous pass before installing the next.
//
// [render/sink] - SVG, JSON, PNG and PDF output for scenes.
//
// [render/nodelink] - Graphviz node-link diagrams of the same tree.
//
// [cache] - Artifact caches (memory, file, Redis, MongoDB) and cache keys.
//
// [config] - The TOML configuration file.
//
// [observability] - Hook interfaces for metrics, with a Prometheus
// implementation in [observability/prom].
//
// [errors] - Coded errors shared by every package.
//
// [tree]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/tree
// [sankey]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/sankey
// [sankey.Flatten]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/sankey#Flatten
// [sankey/layout]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/sankey/layout
// [labelfit]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/labelfit
// [render]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/render
// [render/scene]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/render/scene
// [scene.Surface]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/render/scene#Surface
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/render/sink
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/observability/prom
// [errors]: https://pkg.go.dev/github.com/matzehuels/sankey/pkg/errors
package pkg
