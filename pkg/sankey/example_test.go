package sankey_test

import (
	"fmt"

	"github.com/matzehuels/sankey/pkg/sankey"
	"github.com/matzehuels/sankey/pkg/tree"
)

func ExampleFlatten() {
	root := &tree.Node{
		Name:  "All Events",
		Count: 100,
		Distribution: []*tree.Node{
			{Name: "Allow", Count: 70},
			nil,
			{Name: "Deny", Count: 30, Distribution: []*tree.Node{
				{Name: "Fraud", Count: 30},
			}},
		},
	}

	g, err := sankey.Flatten(root)
	if err != nil {
		panic(err)
	}
	for _, n := range g.Nodes {
		fmt.Printf("%d %s depth=%d\n", n.Index, n.Label, n.Depth)
	}
	for _, l := range g.Links {
		fmt.Printf("%d -> %d (%g)\n", l.Source, l.Target, l.Value)
	}
	// Output:
	// 0 All Events depth=0
	// 1 Allow depth=1
	// 2 Deny depth=1
	// 3 Fraud depth=2
	// 0 -> 1 (70)
	// 0 -> 2 (30)
	// 2 -> 3 (30)
}

func ExampleSizePolicy_CanvasHeight() {
	p := sankey.DefaultSizePolicy()
	fmt.Println(p.CanvasHeight(10))
	fmt.Println(p.CanvasHeight(50))
	// Output:
	// 800
	// 4600
}

func ExampleClampMinimumThickness() {
	nodes := []sankey.PositionedNode{
		{Node: sankey.Node{Label: "big", Value: 900}, Y0: 0, Y1: 300},
		{Node: sankey.Node{Label: "tiny", Value: 2}, Y0: 310, Y1: 310.5},
	}
	for _, n := range sankey.ClampMinimumThickness(nodes, 5, 5) {
		fmt.Printf("%s %.1f\n", n.Label, n.Height())
	}
	// Output:
	// big 300.0
	// tiny 5.0
}
