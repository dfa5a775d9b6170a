// Package fonts provides the embedded font used for label measurement and
// SVG output.
//
// Labels are measured with the same face the SVG embeds through
// @font-face, so packing decisions made at render time hold in the viewer.
// The font is Go Regular from golang.org/x/image, compiled into the binary.
package fonts

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontFamily is the CSS font-family name the SVG declares for the embedded font.
const FontFamily = "Go Regular"

// FallbackFontFamily provides fallback fonts for viewers that ignore the embedded font.
const FallbackFontFamily = `'Go Regular', 'Helvetica Neue', Arial, sans-serif`

// GoRegularTTF returns the TTF font data.
func GoRegularTTF() []byte {
	return goregular.TTF
}

// Cache for the base64-encoded font (computed once on first access).
var (
	ttfBase64     string
	ttfBase64Once sync.Once
)

// GoRegularBase64 returns the TTF font data as a base64 string.
// The result is cached after first computation.
func GoRegularBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

var (
	parsed     *opentype.Font
	parsedErr  error
	parsedOnce sync.Once
)

// GoRegular returns the parsed font. Parsing happens once.
func GoRegular() (*opentype.Font, error) {
	parsedOnce.Do(func() {
		parsed, parsedErr = opentype.Parse(goregular.TTF)
	})
	return parsed, parsedErr
}

// NewFace returns a Go Regular face at sizePx CSS pixels. The face is not
// safe for concurrent use; callers that share it must serialize access.
func NewFace(sizePx float64) (font.Face, error) {
	f, err := GoRegular()
	if err != nil {
		return nil, err
	}
	// At 72 DPI one point is one pixel, matching SVG user units.
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}
