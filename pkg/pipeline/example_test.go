package pipeline_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/labelfit"
	"github.com/matzehuels/sankey/pkg/pipeline"
	"github.com/matzehuels/sankey/pkg/tree"
)

func ExampleRunner_Execute() {
	root := &tree.Node{
		Name:  "Budget",
		Count: 100,
		Distribution: []*tree.Node{
			{Name: "Rent", Count: 60},
			{Name: "Food", Count: 40},
		},
	}

	runner := pipeline.NewRunner(cache.NewMemoryCache(), nil, nil)
	defer runner.Close()

	opts := pipeline.Options{
		Formats:  []string{pipeline.FormatSVG},
		Measurer: labelfit.Monospace{Advance: 7},
	}
	for range 2 {
		result, err := runner.Execute(context.Background(), root, opts)
		if err != nil {
			panic(err)
		}
		fmt.Printf("nodes=%d links=%d height=%g cached=%v\n",
			result.Stats.NodeCount, result.Stats.LinkCount, result.Height, result.CacheInfo.RenderHit)
	}
	// Output:
	// nodes=3 links=2 height=800 cached=false
	// nodes=3 links=2 height=800 cached=true
}
