package labelfit

import (
	"sync"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font"

	"github.com/matzehuels/sankey/pkg/fonts"
)

// Measurer reports the rendered width of text in pixels.
type Measurer interface {
	Measure(text string) (float64, error)
}

// MeasureFunc adapts a function to the [Measurer] interface.
type MeasureFunc func(text string) (float64, error)

// Measure calls f.
func (f MeasureFunc) Measure(text string) (float64, error) { return f(text) }

// FontMeasurer measures text with an OpenType face. It is safe for
// concurrent use.
type FontMeasurer struct {
	mu   sync.Mutex
	face font.Face
}

// NewFontMeasurer measures with the embedded Go Regular face at sizePx.
func NewFontMeasurer(sizePx float64) (*FontMeasurer, error) {
	face, err := fonts.NewFace(sizePx)
	if err != nil {
		return nil, err
	}
	return &FontMeasurer{face: face}, nil
}

// NewFaceMeasurer measures with an arbitrary face.
func NewFaceMeasurer(face font.Face) *FontMeasurer {
	return &FontMeasurer{face: face}
}

// Measure returns the advance width of text, kerning included.
func (m *FontMeasurer) Measure(text string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	adv := font.MeasureString(m.face, text)
	return float64(adv) / 64, nil
}

// Close releases the face.
func (m *FontMeasurer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.face.Close()
}

// CellMeasurer measures text in terminal cells, so East Asian wide runes
// count twice. CellWidth scales cells to the caller's unit.
type CellMeasurer struct {
	CellWidth float64
}

// Measure returns the cell width of text times CellWidth.
func (m CellMeasurer) Measure(text string) (float64, error) {
	w := m.CellWidth
	if w == 0 {
		w = 1
	}
	return float64(runewidth.StringWidth(text)) * w, nil
}

// Monospace measures every rune with the same advance. It is exact for
// monospaced fonts.
type Monospace struct {
	Advance float64
}

// Measure returns the rune count times the advance.
func (m Monospace) Measure(text string) (float64, error) {
	return float64(utf8.RuneCountInString(text)) * m.Advance, nil
}

// Cached memoizes another measurer. Fitting re-measures growing prefixes of
// the same words, so a render pass sees many repeats.
type Cached struct {
	inner Measurer
	mu    sync.Mutex
	seen  map[string]float64
}

// NewCached wraps m with a memo table.
func NewCached(m Measurer) *Cached {
	return &Cached{inner: m, seen: make(map[string]float64)}
}

// Measure returns the memoized width, measuring on first use. Errors are
// not cached.
func (c *Cached) Measure(text string) (float64, error) {
	c.mu.Lock()
	if w, ok := c.seen[text]; ok {
		c.mu.Unlock()
		return w, nil
	}
	c.mu.Unlock()

	w, err := c.inner.Measure(text)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	c.seen[text] = w
	c.mu.Unlock()
	return w, nil
}
