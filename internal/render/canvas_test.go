package render

import (
	"image/color"

	"matrix-portrait/internal/core"
)

type drawCall struct {
	r     rune
	x, y  float64
	color color.NRGBA
	glow  bool
}

// recorder is a Canvas that records calls instead of painting.
type recorder struct {
	size  core.Size
	fades []float64
	draws []drawCall
}

func (r *recorder) Size() core.Size    { return r.size }
func (r *recorder) Fade(alpha float64) { r.fades = append(r.fades, alpha) }
func (r *recorder) DrawGlyph(g rune, x, y float64, c color.NRGBA, glow bool) {
	r.draws = append(r.draws, drawCall{r: g, x: x, y: y, color: c, glow: glow})
}

func (r *recorder) reset() {
	r.fades = nil
	r.draws = nil
}
