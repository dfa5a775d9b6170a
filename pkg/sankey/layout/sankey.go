package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/sankey"
)

// Align selects the column a node is placed in.
type Align int

const (
	// AlignJustify puts nodes at their depth, except nodes without outgoing
	// links, which move to the last column.
	AlignJustify Align = iota
	// AlignLeft puts every node at its depth.
	AlignLeft
)

// DefaultIterations is the number of relaxation passes.
const DefaultIterations = 6

// Sankey is the default [sankey.Layouter].
type Sankey struct {
	Align      Align
	Iterations int
}

// Option configures a [Sankey].
type Option func(*Sankey)

// WithAlign sets the column alignment.
func WithAlign(a Align) Option { return func(s *Sankey) { s.Align = a } }

// WithIterations sets the number of relaxation passes. Zero disables
// relaxation and leaves nodes stacked from the top.
func WithIterations(n int) Option { return func(s *Sankey) { s.Iterations = max(0, n) } }

// New returns a layout with justify alignment and [DefaultIterations] passes.
func New(opts ...Option) *Sankey {
	s := &Sankey{Align: AlignJustify, Iterations: DefaultIterations}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ sankey.Layouter = (*Sankey)(nil)

type node struct {
	x0, y0, x1, y1 float64
	value          float64
	depth, height  int
	column         int
	out, in        []int // link indices
}

type link struct {
	source, target int
	value          float64
	width          float64
	y0, y1         float64
}

type state struct {
	nodes   []node
	links   []link
	columns [][]int
	extent  sankey.Extent
	padding float64
}

// Layout positions g inside extent.
func (s *Sankey) Layout(g sankey.Graph, extent sankey.Extent, nodeWidth, nodePadding float64) (sankey.Positioned, error) {
	if len(g.Nodes) == 0 {
		return sankey.Positioned{}, nil
	}
	if nodeWidth <= 0 || extent.Width() < nodeWidth || extent.Height() <= 0 {
		return sankey.Positioned{}, errors.New(errors.ErrCodeLayout,
			"extent %.0fx%.0f cannot hold nodes of width %.0f", extent.Width(), extent.Height(), nodeWidth)
	}

	st, err := newState(g, extent)
	if err != nil {
		return sankey.Positioned{}, err
	}
	if err := st.computeDepths(); err != nil {
		return sankey.Positioned{}, err
	}
	st.computeHeights()
	st.computeColumns(s.Align, nodeWidth)
	st.initBreadths(nodePadding)

	for i := range s.Iterations {
		alpha := math.Pow(0.99, float64(i))
		st.relaxRightToLeft(alpha)
		st.resolveCollisions()
		st.relaxLeftToRight(alpha)
		st.resolveCollisions()
	}
	st.computeLinkBreadths()

	return st.result(g), nil
}

func newState(g sankey.Graph, extent sankey.Extent) (*state, error) {
	st := &state{
		nodes:  make([]node, len(g.Nodes)),
		links:  make([]link, len(g.Links)),
		extent: extent,
	}
	for i, l := range g.Links {
		if l.Source < 0 || l.Source >= len(g.Nodes) || l.Target < 0 || l.Target >= len(g.Nodes) {
			return nil, errors.New(errors.ErrCodeLayout, "link %d references missing node (%d->%d)", i, l.Source, l.Target)
		}
		st.links[i] = link{source: l.Source, target: l.Target, value: l.Value}
		st.nodes[l.Source].out = append(st.nodes[l.Source].out, i)
		st.nodes[l.Target].in = append(st.nodes[l.Target].in, i)
	}
	for i, n := range g.Nodes {
		nd := &st.nodes[i]
		var sumOut, sumIn float64
		for _, li := range nd.out {
			sumOut += st.links[li].value
		}
		for _, li := range nd.in {
			sumIn += st.links[li].value
		}
		nd.value = max(n.Value, sumOut, sumIn)
	}
	return st, nil
}

// computeDepths assigns each node its longest distance from a source.
func (st *state) computeDepths() error {
	current := make([]int, len(st.nodes))
	for i := range current {
		current[i] = i
	}
	for depth := 0; len(current) > 0; depth++ {
		if depth > len(st.nodes) {
			return errors.New(errors.ErrCodeLayout, "circular link")
		}
		next := make(map[int]struct{})
		for _, i := range current {
			st.nodes[i].depth = depth
			for _, li := range st.nodes[i].out {
				next[st.links[li].target] = struct{}{}
			}
		}
		current = sortedKeys(next)
	}
	return nil
}

// computeHeights assigns each node its longest distance to a sink.
func (st *state) computeHeights() {
	current := make([]int, len(st.nodes))
	for i := range current {
		current[i] = i
	}
	for height := 0; len(current) > 0 && height <= len(st.nodes); height++ {
		next := make(map[int]struct{})
		for _, i := range current {
			st.nodes[i].height = height
			for _, li := range st.nodes[i].in {
				next[st.links[li].source] = struct{}{}
			}
		}
		current = sortedKeys(next)
	}
}

func (st *state) computeColumns(align Align, nodeWidth float64) {
	maxDepth := 0
	for _, n := range st.nodes {
		maxDepth = max(maxDepth, n.depth+n.height)
	}
	count := maxDepth + 1
	st.columns = make([][]int, count)

	kx := 0.0
	if count > 1 {
		kx = (st.extent.Width() - nodeWidth) / float64(count-1)
	}
	for i := range st.nodes {
		n := &st.nodes[i]
		n.column = n.depth
		if align == AlignJustify && len(n.out) == 0 {
			n.column = count - 1
		}
		n.x0 = st.extent.X0 + float64(n.column)*kx
		n.x1 = n.x0 + nodeWidth
		st.columns[n.column] = append(st.columns[n.column], i)
	}
}

// initBreadths stacks each column from the top using the tightest vertical
// scale any column allows.
func (st *state) initBreadths(nodePadding float64) {
	crowded := 0
	for _, col := range st.columns {
		crowded = max(crowded, len(col))
	}
	st.padding = nodePadding
	if crowded > 1 {
		st.padding = min(nodePadding, st.extent.Height()/float64(crowded-1))
	}

	ky := math.Inf(1)
	for _, col := range st.columns {
		var sum float64
		for _, i := range col {
			sum += st.nodes[i].value
		}
		if sum > 0 {
			ky = min(ky, (st.extent.Height()-float64(len(col)-1)*st.padding)/sum)
		}
	}
	if math.IsInf(ky, 1) || ky < 0 {
		ky = 0
	}

	for _, col := range st.columns {
		y := st.extent.Y0
		for _, i := range col {
			n := &st.nodes[i]
			n.y0 = y
			n.y1 = y + n.value*ky
			y = n.y1 + st.padding
		}
	}
	for i := range st.links {
		st.links[i].width = st.links[i].value * ky
	}
}

func center(n *node) float64 { return (n.y0 + n.y1) / 2 }

// relaxLeftToRight moves nodes toward the weighted centre of their sources.
func (st *state) relaxLeftToRight(alpha float64) {
	for c := 1; c < len(st.columns); c++ {
		for _, i := range st.columns[c] {
			n := &st.nodes[i]
			var y, w float64
			for _, li := range n.in {
				l := st.links[li]
				y += center(&st.nodes[l.source]) * l.value
				w += l.value
			}
			if w > 0 {
				st.shift(n, (y/w-center(n))*alpha)
			}
		}
	}
}

// relaxRightToLeft moves nodes toward the weighted centre of their targets.
func (st *state) relaxRightToLeft(alpha float64) {
	for c := len(st.columns) - 2; c >= 0; c-- {
		for _, i := range st.columns[c] {
			n := &st.nodes[i]
			var y, w float64
			for _, li := range n.out {
				l := st.links[li]
				y += center(&st.nodes[l.target]) * l.value
				w += l.value
			}
			if w > 0 {
				st.shift(n, (y/w-center(n))*alpha)
			}
		}
	}
}

func (st *state) shift(n *node, dy float64) {
	n.y0 += dy
	n.y1 += dy
}

// resolveCollisions pushes overlapping nodes apart without reordering them,
// then pulls the column back up if it runs past the bottom edge.
func (st *state) resolveCollisions() {
	for _, col := range st.columns {
		y := st.extent.Y0
		for _, i := range col {
			n := &st.nodes[i]
			if dy := y - n.y0; dy > 0 {
				st.shift(n, dy)
			}
			y = n.y1 + st.padding
		}

		if dy := y - st.padding - st.extent.Y1; dy > 0 {
			y = st.extent.Y1
			for k := len(col) - 1; k >= 0; k-- {
				n := &st.nodes[col[k]]
				if over := n.y1 - y; over > 0 {
					st.shift(n, -over)
				}
				y = n.y0 - st.padding
			}
		}
	}
}

// computeLinkBreadths stacks link bands on both ends in the vertical order
// of the nodes at the other end.
func (st *state) computeLinkBreadths() {
	for i := range st.nodes {
		n := &st.nodes[i]

		out := slices.Clone(n.out)
		slices.SortStableFunc(out, func(a, b int) int {
			return cmp.Compare(st.nodes[st.links[a].target].y0, st.nodes[st.links[b].target].y0)
		})
		y := n.y0
		for _, li := range out {
			l := &st.links[li]
			l.y0 = y + l.width/2
			y += l.width
		}

		in := slices.Clone(n.in)
		slices.SortStableFunc(in, func(a, b int) int {
			return cmp.Compare(st.nodes[st.links[a].source].y0, st.nodes[st.links[b].source].y0)
		})
		y = n.y0
		for _, li := range in {
			l := &st.links[li]
			l.y1 = y + l.width/2
			y += l.width
		}
	}
}

func (st *state) result(g sankey.Graph) sankey.Positioned {
	out := sankey.Positioned{
		Nodes: make([]sankey.PositionedNode, len(g.Nodes)),
		Links: make([]sankey.PositionedLink, len(g.Links)),
	}
	for i, n := range g.Nodes {
		nd := st.nodes[i]
		out.Nodes[i] = sankey.PositionedNode{
			Node: n,
			X0:   nd.x0, Y0: nd.y0,
			X1: nd.x1, Y1: nd.y1,
			Column: nd.column,
		}
	}
	for i, l := range g.Links {
		ld := st.links[i]
		out.Links[i] = sankey.PositionedLink{Link: l, Y0: ld.y0, Y1: ld.y1, Width: ld.width}
	}
	return out
}

func sortedKeys(m map[int]struct{}) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
