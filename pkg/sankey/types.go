package sankey

import "github.com/matzehuels/sankey/pkg/tree"

// Node is one flattened tree node.
type Node struct {
	Index         int         // Pre-order position; the identity used by links
	ID            tree.Scalar // Opaque input identifier (may repeat)
	Value         float64     // Copied from the input count
	Label         string      // Copied from the input name
	TooltipMarkup string      // Escaped markup built by [TooltipMarkup]
	Color         string      // Rectangle fill
	HasDelta      bool        // Whether the input carried a delta
	Depth         int         // Distance from the root
	Parent        int         // Index of the parent node, -1 for the root
}

// IsRoot reports whether n is the tree root.
func (n Node) IsRoot() bool { return n.Parent < 0 }

// Link connects a parent node to one of its children.
type Link struct {
	Source int     // Parent index
	Target int     // Child index
	Value  float64 // Child count
}

// Graph is the flattened form of a tree.
type Graph struct {
	Nodes []Node
	Links []Link
}

// Extent is the canvas bounding box handed to a layout.
type Extent struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the horizontal span of the extent.
func (e Extent) Width() float64 { return e.X1 - e.X0 }

// Height returns the vertical span of the extent.
func (e Extent) Height() float64 { return e.Y1 - e.Y0 }

// PositionedNode is a node with layout coordinates.
type PositionedNode struct {
	Node
	X0, Y0, X1, Y1 float64
	Column         int
}

// Width returns the horizontal span of the node rectangle.
func (n PositionedNode) Width() float64 { return n.X1 - n.X0 }

// Height returns the vertical span of the node rectangle.
func (n PositionedNode) Height() float64 { return n.Y1 - n.Y0 }

// PositionedLink is a link with its band geometry. Y0 is the band centre at
// the source node, Y1 the band centre at the target node.
type PositionedLink struct {
	Link
	Y0, Y1 float64
	Width  float64
}

// Positioned is the output of a [Layouter].
type Positioned struct {
	Nodes []PositionedNode
	Links []PositionedLink
}

// Layouter assigns coordinates to a flattened graph.
type Layouter interface {
	Layout(g Graph, extent Extent, nodeWidth, nodePadding float64) (Positioned, error)
}

// LayouterFunc adapts a function to the [Layouter] interface.
type LayouterFunc func(g Graph, extent Extent, nodeWidth, nodePadding float64) (Positioned, error)

// Layout calls f.
func (f LayouterFunc) Layout(g Graph, extent Extent, nodeWidth, nodePadding float64) (Positioned, error) {
	return f(g, extent, nodeWidth, nodePadding)
}
