package sankey

import (
	"testing"

	"github.com/matzehuels/sankey/pkg/tree"
)

func scalar(s string) tree.Scalar { return tree.Text(s) }

func TestCanvasHeight(t *testing.T) {
	tests := []struct {
		nodes      int
		multiplier float64
		want       float64
	}{
		{10, 100, 800},
		{50, 100, 4600},
		{18, 100, 1400},
		{0, 100, 800},
		{12, 120, 960},
	}
	for _, tt := range tests {
		if got := CanvasHeight(tt.nodes, tt.multiplier); got != tt.want {
			t.Errorf("CanvasHeight(%d, %v) = %v, want %v", tt.nodes, tt.multiplier, got, tt.want)
		}
	}
}

func TestSizePolicyCustomConstants(t *testing.T) {
	p := SizePolicy{HeightMultiplier: 50, HeightOffset: 0, MinHeight: 100}
	if got := p.CanvasHeight(10); got != 500 {
		t.Errorf("CanvasHeight = %v, want 500", got)
	}
	if got := p.CanvasHeight(1); got != 100 {
		t.Errorf("CanvasHeight = %v, want floor 100", got)
	}
}

func TestClampMinimumThickness(t *testing.T) {
	nodes := []PositionedNode{
		{Node: Node{Index: 0, Value: 100}, Y0: 0, Y1: 80},
		{Node: Node{Index: 1, Value: 1}, Y0: 90, Y1: 90.4},
		{Node: Node{Index: 2, Value: 0}, Y0: 100, Y1: 100},
		{Node: Node{Index: 3, Value: 50}, Y0: 110, Y1: 112},
		{Node: Node{Index: 4, Value: 4}, Y0: 200, Y1: 260},
	}
	out := ClampMinimumThickness(nodes, 5, 5)

	if out[0].Y0 != 0 || out[0].Y1 != 80 {
		t.Errorf("large node changed: %+v", out[0])
	}
	for _, i := range []int{1, 2, 3, 4} {
		if h := out[i].Height(); h != 5 {
			t.Errorf("node %d height = %v, want 5", i, h)
		}
		if out[i].Y0 != nodes[i].Y0 {
			t.Errorf("node %d Y0 moved from %v to %v", i, nodes[i].Y0, out[i].Y0)
		}
	}

	// Input is untouched.
	if nodes[1].Y1 != 90.4 || nodes[2].Y1 != 100 {
		t.Error("ClampMinimumThickness mutated its input")
	}
}

func TestSizePolicyClampUsesThreshold(t *testing.T) {
	p := DefaultSizePolicy()
	p.MinThickness = 8
	p.ThicknessThreshold = 2

	out := p.Clamp([]PositionedNode{
		{Node: Node{Value: 3}, Y0: 0, Y1: 20},
		{Node: Node{Value: 1}, Y0: 30, Y1: 40},
	})
	if out[0].Height() != 20 {
		t.Errorf("value above threshold and tall enough should keep height, got %v", out[0].Height())
	}
	if out[1].Height() != 8 {
		t.Errorf("value below threshold should clamp to 8, got %v", out[1].Height())
	}
}
