package render

import (
	"image/color"

	"matrix-portrait/internal/core"
	"matrix-portrait/internal/glyph"
)

// Background is the ambient rain: one head row per column, advancing one
// glyph per tick.
type Background struct {
	Accent      color.NRGBA
	FadeAlpha   float64
	ResetChance float64

	pitch int
	size  core.Size
	heads []int
}

// NewBackground returns a background renderer with the given glyph pitch
// (16 px on a raster, 1 cell on a terminal).
func NewBackground(pitch int, accent color.NRGBA) *Background {
	if pitch <= 0 {
		pitch = BackgroundGlyphSize
	}
	return &Background{
		Accent:      accent,
		FadeAlpha:   0.05,
		ResetChance: 0.025,
		pitch:       pitch,
	}
}

// Resize re-initializes the column heads for a surface of the given size.
func (b *Background) Resize(size core.Size) {
	b.size = size
	cols := 0
	if size.W > 0 {
		cols = (size.W + b.pitch - 1) / b.pitch
	}
	b.heads = make([]int, cols)
}

// Size returns the size passed to the last Resize.
func (b *Background) Size() core.Size { return b.size }

// Columns returns the number of rain columns.
func (b *Background) Columns() int { return len(b.heads) }

// Head returns the head row of column i.
func (b *Background) Head(i int) int { return b.heads[i] }

// Pitch returns the glyph pitch.
func (b *Background) Pitch() int { return b.pitch }

// Tick fades c, draws one glyph per column at its head and advances every
// head. Heads past the bottom edge return to the top with ResetChance.
func (b *Background) Tick(c Canvas, rng *core.RNG) {
	c.Fade(b.FadeAlpha)
	for i := range b.heads {
		y := b.heads[i] * b.pitch
		c.DrawGlyph(glyph.Random(rng), float64(i*b.pitch), float64(y), b.Accent, false)
		if y > b.size.H && rng.Chance(b.ResetChance) {
			b.heads[i] = 0
		}
		b.heads[i]++
	}
}
