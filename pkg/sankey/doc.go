// Package sankey turns a weighted category tree into the flat node and link
// lists a Sankey layout consumes, and applies the sizing policy around that
// layout.
//
// # Pipeline
//
// The package covers the domain half of a render pass:
//
//  1. [Flatten] walks the [tree.Node] hierarchy depth-first in pre-order and
//     emits one [Node] per tree node plus one parent→child [Link] per
//     non-root node.
//  2. [SizePolicy.CanvasHeight] sizes the canvas from the node count.
//  3. A [Layouter] (see the layout subpackage) assigns coordinates.
//  4. [SizePolicy.Clamp] gives near-zero nodes a minimum visible thickness.
//
// Label fitting and painting live in the labelfit and render packages.
//
// # Ordering
//
// Node indices are pre-order positions. Children are visited in the order
// they appear in the input distribution, so flattening the same tree twice
// produces identical indices; layouts rely on that for vertical ordering.
//
// # Tolerance and validation
//
// Nil children are skipped without emitting a node or link. Counts that are
// negative, NaN or infinite are rejected with an INVALID_WEIGHT error rather
// than passed on to a layout that would misbehave silently.
//
// [tree.Node]: github.com/matzehuels/sankey/pkg/tree.Node
package sankey
