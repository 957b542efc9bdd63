package render

import (
	"image/color"

	"matrix-portrait/internal/core"
	"matrix-portrait/internal/portrait"
)

// Portrait paints a particle field frame by frame.
type Portrait struct {
	Accent     color.NRGBA
	FadeAlpha  float64
	GlowChance float64
}

// NewPortrait returns a renderer with the classic look.
func NewPortrait(accent color.NRGBA) *Portrait {
	return &Portrait{Accent: accent, FadeAlpha: 0.7, GlowChance: 0.05}
}

// Draw fades the canvas and paints every particle with alpha
// brightness*brightnessMultiplier. Only arrived particles may glow. It
// returns the number of glowing glyphs.
func (p *Portrait) Draw(c Canvas, field *portrait.Field, brightnessMultiplier float64, rng *core.RNG) int {
	c.Fade(p.FadeAlpha)

	glowing := 0
	particles := field.Particles()
	for i := range particles {
		pt := &particles[i]
		glow := pt.Arrived && rng.Chance(p.GlowChance)
		if glow {
			glowing++
		}
		col := withAlpha(p.Accent, pt.Brightness*brightnessMultiplier)
		c.DrawGlyph(pt.Glyph, float64(pt.Column), pt.CurrentY, col, glow)
	}
	return glowing
}
