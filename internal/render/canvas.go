// Package render paints rain effects onto a Canvas.
package render

import (
	"image/color"

	"matrix-portrait/internal/core"
)

// Canvas is a surface glyphs can be painted on. Coordinates are in the
// canvas's own units; y is the glyph baseline.
type Canvas interface {
	Size() core.Size
	// Fade darkens the whole surface by painting black with the given alpha.
	Fade(alpha float64)
	// DrawGlyph paints r at (x, y) in c, optionally with an outer glow.
	DrawGlyph(r rune, x, y float64, c color.NRGBA, glow bool)
}

// DefaultAccent is the classic rain green.
var DefaultAccent = color.NRGBA{R: 0x00, G: 0xFF, B: 0x41, A: 0xFF}

// withAlpha returns c with its alpha replaced by a in [0,1]; larger values
// are clamped.
func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	c.A = uint8(a*255 + 0.5)
	return c
}
