package sankey

import (
	stderrors "errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/tree"
)

func leaves(n int, count float64, color string) []*tree.Node {
	out := make([]*tree.Node, n)
	for i := range out {
		out[i] = &tree.Node{ID: tree.Number(5), Name: "3508-Action", Count: count, Tooltip: "2500 | 100%", Color: color}
	}
	return out
}

// eventsTree mirrors the allow/review/deny breakdown used throughout the tests.
func eventsTree() *tree.Node {
	allow := leaves(8, 0, "#258b3e")
	for i, c := range []float64{1000, 1500, 1500, 500, 500, 1500, 1000, 1000} {
		allow[i].Count = c
	}
	return &tree.Node{
		ID: tree.Number(1), Name: "All Events", Count: 10000, Tooltip: "10K | 100%", Color: "#2763EC",
		Distribution: []*tree.Node{
			{ID: tree.Number(1), Name: "Allow", Count: 8500, Tooltip: "5k | 50%", Color: "#34C759", Distribution: allow},
			{ID: tree.Number(3), Name: "Review", Count: 1000, Tooltip: "2.5k | 25%", Color: "#FF9500", Distribution: leaves(4, 250, "#b26800")},
			{ID: tree.Number(4), Name: "Deny", Count: 500, Tooltip: "2.5k | 25%", Color: "#FF3B30", Distribution: leaves(2, 250, "#b22922")},
		},
	}
}

func TestFlattenEventsTree(t *testing.T) {
	g, err := Flatten(eventsTree())
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if len(g.Nodes) != 18 {
		t.Errorf("len(Nodes) = %d, want 18", len(g.Nodes))
	}
	if len(g.Links) != len(g.Nodes)-1 {
		t.Errorf("len(Links) = %d, want %d", len(g.Links), len(g.Nodes)-1)
	}

	// Pre-order: root, Allow, its 8 leaves, Review, its 4 leaves, Deny, its 2 leaves.
	wantLabels := map[int]string{0: "All Events", 1: "Allow", 10: "Review", 15: "Deny"}
	for i, want := range wantLabels {
		if g.Nodes[i].Label != want {
			t.Errorf("Nodes[%d].Label = %q, want %q", i, g.Nodes[i].Label, want)
		}
	}
	for i, n := range g.Nodes {
		if n.Index != i {
			t.Errorf("Nodes[%d].Index = %d", i, n.Index)
		}
	}
	if !g.Nodes[0].IsRoot() {
		t.Error("first node should be the root")
	}
	if g.Nodes[11].Parent != 10 || g.Nodes[11].Depth != 2 {
		t.Errorf("Nodes[11] parent=%d depth=%d, want 10 and 2", g.Nodes[11].Parent, g.Nodes[11].Depth)
	}
}

func TestFlattenLinks(t *testing.T) {
	g, err := Flatten(eventsTree())
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	for _, l := range g.Links {
		if l.Target == 0 {
			t.Fatal("root must never be a link target")
		}
		child := g.Nodes[l.Target]
		if child.Parent != l.Source {
			t.Errorf("link %d->%d does not match parent %d", l.Source, l.Target, child.Parent)
		}
		if l.Value != child.Value {
			t.Errorf("link %d->%d value = %v, want child count %v", l.Source, l.Target, l.Value, child.Value)
		}
	}
	if g.Links[0] != (Link{Source: 0, Target: 1, Value: 8500}) {
		t.Errorf("Links[0] = %+v", g.Links[0])
	}
}

func TestFlattenStableOrder(t *testing.T) {
	root := eventsTree()
	a, err := Flatten(root)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Flatten(root)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("flattening the same tree twice should be identical")
	}
}

func TestFlattenSkipsNil(t *testing.T) {
	withNil := eventsTree()
	withNil.Distribution = append([]*tree.Node{nil}, withNil.Distribution...)
	withNil.Distribution[2].Distribution = append(withNil.Distribution[2].Distribution, nil)

	a, err := Flatten(withNil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Flatten(eventsTree())
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Nodes) != len(b.Nodes) || len(a.Links) != len(b.Links) {
		t.Errorf("nil entries changed counts: nodes %d/%d links %d/%d",
			len(a.Nodes), len(b.Nodes), len(a.Links), len(b.Links))
	}
}

func TestFlattenNilRoot(t *testing.T) {
	g, err := Flatten(nil)
	if err != nil {
		t.Fatalf("Flatten(nil): %v", err)
	}
	if len(g.Nodes) != 0 || len(g.Links) != 0 {
		t.Errorf("Flatten(nil) = %d nodes, %d links, want empty", len(g.Nodes), len(g.Links))
	}
}

func TestFlattenLeafRoot(t *testing.T) {
	g, err := Flatten(&tree.Node{Name: "only", Count: 3, Distribution: []*tree.Node{}})
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Nodes) != 1 || len(g.Links) != 0 {
		t.Errorf("got %d nodes, %d links, want 1 and 0", len(g.Nodes), len(g.Links))
	}
}

func TestFlattenRejectsInvalidWeight(t *testing.T) {
	tests := []struct {
		name  string
		count float64
	}{
		{"negative", -1},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := eventsTree()
			root.Distribution[1].Distribution[2].Count = tt.count

			_, err := Flatten(root)
			if !errors.Is(err, errors.ErrCodeInvalidWeight) {
				t.Fatalf("Flatten() error = %v, want INVALID_WEIGHT", err)
			}
			var we *errors.WeightError
			if !stderrors.As(err, &we) {
				t.Fatal("error should wrap *errors.WeightError")
			}
			if we.Path != "root/1/2" {
				t.Errorf("Path = %q, want root/1/2", we.Path)
			}
		})
	}
}

func TestFlattenTooltipMetadata(t *testing.T) {
	root := &tree.Node{
		Name: "root", Count: 10, Tooltip: "10 | 100%",
		Distribution: []*tree.Node{
			{Name: "a", Count: 4, Tooltip: "4", Delta: tree.Text("+2")},
			{Name: "b", Count: 6, Tooltip: "6", Delta: tree.Number(0)},
			{Name: "c", Count: 0, Tooltip: "0", Delta: tree.Text("0")},
		},
	}
	g, err := Flatten(root)
	if err != nil {
		t.Fatal(err)
	}
	if g.Nodes[0].HasDelta || g.Nodes[2].HasDelta {
		t.Error("root and zero-delta nodes should not carry a delta")
	}
	if !g.Nodes[1].HasDelta {
		t.Error("node a should carry a delta")
	}
	if !g.Nodes[3].HasDelta {
		t.Error(`the string "0" is a delta`)
	}
	if !strings.Contains(g.Nodes[1].TooltipMarkup, ClassTooltipDelta) {
		t.Errorf("markup %q should tag the delta", g.Nodes[1].TooltipMarkup)
	}
}
