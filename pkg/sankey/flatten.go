package sankey

import (
	"math"
	"strconv"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/tree"
)

type frame struct {
	node   *tree.Node
	parent int
	depth  int
	path   string
}

// Flatten converts a tree into its flat node and link lists.
//
// Nodes are emitted in depth-first pre-order with children taken in input
// order. Every non-root node gets exactly one link from its parent carrying
// the child's count. Nil nodes, including a nil root, are skipped.
//
// Flatten fails with an INVALID_WEIGHT error (wrapping a
// [errors.WeightError]) on the first negative, NaN or infinite count.
func Flatten(root *tree.Node) (Graph, error) {
	var g Graph
	stack := []frame{{node: root, parent: -1, path: "root"}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.node == nil {
			continue
		}
		if err := checkWeight(f.node.Count, f.path); err != nil {
			return Graph{}, err
		}

		index := len(g.Nodes)
		g.Nodes = append(g.Nodes, Node{
			Index:         index,
			ID:            f.node.ID,
			Value:         f.node.Count,
			Label:         f.node.Name,
			TooltipMarkup: TooltipMarkup(f.node.Tooltip, f.node.Delta),
			Color:         f.node.Color,
			HasDelta:      f.node.Delta.Present(),
			Depth:         f.depth,
			Parent:        f.parent,
		})
		if f.parent >= 0 {
			g.Links = append(g.Links, Link{Source: f.parent, Target: index, Value: f.node.Count})
		}

		// Push in reverse so the first child is popped first.
		for i := len(f.node.Distribution) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				node:   f.node.Distribution[i],
				parent: index,
				depth:  f.depth + 1,
				path:   f.path + "/" + strconv.Itoa(i),
			})
		}
	}
	return g, nil
}

func checkWeight(count float64, path string) error {
	if count < 0 || math.IsNaN(count) || math.IsInf(count, 0) {
		return errors.Wrap(errors.ErrCodeInvalidWeight, &errors.WeightError{Path: path, Count: count}, "flatten")
	}
	return nil
}
