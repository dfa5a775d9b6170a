package style

import (
	"math"
	"testing"

	"github.com/matzehuels/sankey/pkg/errors"
)

func TestNodeRadius(t *testing.T) {
	s := Default()
	tests := []struct {
		h    float64
		want float64
	}{
		{0, 2},
		{5, 2},
		{15.9, 2},
		{16, 8},
		{400, 8},
	}
	for _, tt := range tests {
		if got := s.NodeRadius(tt.h); got != tt.want {
			t.Errorf("NodeRadius(%v) = %v, want %v", tt.h, got, tt.want)
		}
	}
}

func TestLabelDrop(t *testing.T) {
	s := Default()
	tests := []struct {
		h    float64
		want float64
	}{
		{0, 6},
		{50, 11.5},
		{99, 16.89},
		{100, 17},
		{1000, 17},
	}
	for _, tt := range tests {
		if got := s.LabelDrop(tt.h); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("LabelDrop(%v) = %v, want %v", tt.h, got, tt.want)
		}
	}
}

func TestLinkWidth(t *testing.T) {
	s := Default()
	if got := s.LinkWidth(0.2); got != 1 {
		t.Errorf("LinkWidth(0.2) = %v, want 1", got)
	}
	if got := s.LinkWidth(12); got != 12 {
		t.Errorf("LinkWidth(12) = %v, want 12", got)
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}

	tests := []struct {
		name string
		mod  func(*Style)
	}{
		{"bad color", func(s *Style) { s.LinkColor = "blue" }},
		{"short hex", func(s *Style) { s.TextColor = "#12" }},
		{"opacity", func(s *Style) { s.LinkOpacity = 1.5 }},
		{"font size", func(s *Style) { s.FontSize = 0 }},
		{"line height", func(s *Style) { s.LineHeight = -1 }},
		{"label width", func(s *Style) { s.LabelWidth = 0 }},
		{"tooltip", func(s *Style) { s.TooltipHeight = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mod(&s)
			if err := s.Validate(); !errors.Is(err, errors.ErrCodeInvalidStyle) {
				t.Errorf("Validate() = %v, want INVALID_STYLE", err)
			}
		})
	}
}

func TestEscapeXML(t *testing.T) {
	if got, want := EscapeXML(`<b>"R&D"</b>`), "&lt;b&gt;&#34;R&amp;D&#34;&lt;/b&gt;"; got != want {
		t.Errorf("EscapeXML = %q, want %q", got, want)
	}
}
