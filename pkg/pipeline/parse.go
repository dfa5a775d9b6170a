package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/sankey/pkg/observability"
	"github.com/matzehuels/sankey/pkg/sankey"
	"github.com/matzehuels/sankey/pkg/tree"
)

// Load reads a tree from a JSON or YAML file.
func Load(path string) (*tree.Node, error) {
	return tree.Import(path)
}

// Decode reads a tree from raw bytes in the given format ("json" or "yaml").
func Decode(data []byte, format string) (*tree.Node, error) {
	if format == "" {
		format = tree.FormatJSON
	}
	return tree.Parse(data, format)
}

// Flatten walks the input tree into an indexed graph and reports the
// outcome to the pipeline hooks.
func Flatten(ctx context.Context, root *tree.Node) (sankey.Graph, error) {
	start := time.Now()
	g, err := sankey.Flatten(root)
	observability.Pipeline().OnFlattenComplete(ctx, len(g.Nodes), len(g.Links), time.Since(start), err)
	return g, err
}
