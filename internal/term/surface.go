// Package term runs the ambient rain in a terminal.
package term

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"matrix-portrait/internal/core"
)

// minLevel is the intensity below which a cell is blanked.
const minLevel = 0.02

type cell struct {
	r     rune
	level float64
	color color.NRGBA
}

// Surface is a character-cell canvas. Each cell keeps an intensity that Fade
// decays, standing in for the alpha compositing of a pixel surface.
type Surface struct {
	cells *core.Grid[cell]
}

// NewSurface returns a blank surface of w columns by h rows.
func NewSurface(w, h int) *Surface {
	return &Surface{cells: core.NewGrid[cell](w, h)}
}

// Resize discards the content and reallocates the surface.
func (s *Surface) Resize(w, h int) {
	s.cells = core.NewGrid[cell](w, h)
}

// Size implements render.Canvas.
func (s *Surface) Size() core.Size { return s.cells.Size() }

// Fade implements render.Canvas.
func (s *Surface) Fade(alpha float64) {
	if alpha <= 0 {
		return
	}
	keep := 1 - alpha
	if keep < 0 {
		keep = 0
	}
	cells := s.cells.Cells()
	for i := range cells {
		cells[i].level *= keep
		if cells[i].level < minLevel {
			cells[i] = cell{}
		}
	}
}

// DrawGlyph implements render.Canvas. y is the baseline, so the glyph
// occupies row y-1.
func (s *Surface) DrawGlyph(r rune, x, y float64, c color.NRGBA, glow bool) {
	col, row := int(x), int(y)-1
	if !s.cells.InBounds(col, row) || c.A == 0 {
		return
	}
	level := float64(c.A) / 255
	if glow {
		level = 1
	}
	c.A = 0xFF
	s.cells.Set(col, row, cell{r: r, level: level, color: c})
}

// At returns the rune and intensity of a cell.
func (s *Surface) At(x, y int) (rune, float64) {
	if !s.cells.InBounds(x, y) {
		return 0, 0
	}
	c := s.cells.At(x, y)
	return c.r, c.level
}

// Style returns the style of a cell, blending its color from black by its
// intensity.
func (s *Surface) Style(x, y int) tcell.Style {
	base := tcell.StyleDefault.Background(tcell.ColorBlack)
	if !s.cells.InBounds(x, y) {
		return base
	}
	c := s.cells.At(x, y)
	if c.r == 0 {
		return base
	}
	return base.Foreground(dim(c.color, c.level))
}

func dim(c color.NRGBA, level float64) tcell.Color {
	accent, ok := colorful.MakeColor(c)
	if !ok {
		return tcell.ColorBlack
	}
	black := colorful.Color{}
	r, g, b := black.BlendRgb(accent, level).Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Flush copies the surface to screen and shows it.
func (s *Surface) Flush(screen tcell.Screen) {
	size := s.cells.Size()
	for y := 0; y < size.H; y++ {
		for x := 0; x < size.W; x++ {
			r, _ := s.At(x, y)
			if r == 0 {
				r = ' '
			}
			screen.SetContent(x, y, r, nil, s.Style(x, y))
		}
	}
	screen.Show()
}
