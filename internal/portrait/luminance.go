// Package portrait turns an image into a field of falling glyphs and advances
// that field one tick at a time.
package portrait

import (
	"image"

	"golang.org/x/image/draw"

	"matrix-portrait/internal/core"
)

// Broadcast luma weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// BrightnessGrid holds normalized luminance in [0,1] for every source pixel,
// addressed by (column, row).
type BrightnessGrid struct {
	grid *core.Grid[float64]
}

// NewBrightnessGrid wraps pre-computed luminance values given row by row.
// Ragged rows are truncated to the shortest row.
func NewBrightnessGrid(rows [][]float64) *BrightnessGrid {
	h := len(rows)
	if h == 0 {
		return &BrightnessGrid{grid: core.NewGrid[float64](0, 0)}
	}
	w := len(rows[0])
	for _, row := range rows {
		w = min(w, len(row))
	}
	g := core.NewGrid[float64](w, h)
	if g.Empty() {
		return &BrightnessGrid{grid: g}
	}
	for y, row := range rows {
		copy(g.Cells()[g.Index(0, y):g.Index(0, y)+w], row[:w])
	}
	return &BrightnessGrid{grid: g}
}

// Size returns the grid dimensions (width = columns, height = rows).
func (b *BrightnessGrid) Size() core.Size {
	if b == nil {
		return core.Size{}
	}
	return b.grid.Size()
}

// Empty reports whether the grid has no cells.
func (b *BrightnessGrid) Empty() bool { return b == nil || b.grid.Empty() }

// At returns the brightness at column x, row y.
func (b *BrightnessGrid) At(x, y int) float64 { return b.grid.At(x, y) }

// Row returns the brightness values of row y.
func (b *BrightnessGrid) Row(y int) []float64 {
	start := b.grid.Index(0, y)
	return b.grid.Cells()[start : start+b.grid.W]
}

// Luma converts an sRGB triple to normalized perceived brightness.
func Luma(r, g, b uint8) float64 {
	return (lumaR*float64(r) + lumaG*float64(g) + lumaB*float64(b)) / 255
}

// FromPixels builds a grid from a non-premultiplied RGBA buffer of w*h pixels.
// A buffer that is too short yields an empty grid.
func FromPixels(w, h int, pix []uint8) *BrightnessGrid {
	g := core.NewGrid[float64](w, h)
	if g.Empty() || len(pix) < 4*w*h {
		return &BrightnessGrid{grid: core.NewGrid[float64](0, 0)}
	}
	cells := g.Cells()
	for i := range cells {
		base := i * 4
		cells[i] = Luma(pix[base], pix[base+1], pix[base+2])
	}
	return &BrightnessGrid{grid: g}
}

// Extract computes the brightness grid of img. A nil or zero-sized image
// yields an empty grid.
func Extract(img image.Image) *BrightnessGrid {
	if img == nil {
		return FromPixels(0, 0, nil)
	}
	b := img.Bounds()
	if b.Empty() {
		return FromPixels(0, 0, nil)
	}
	nrgba, ok := img.(*image.NRGBA)
	if !ok || b.Min != (image.Point{}) || nrgba.Stride != 4*b.Dx() {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}
	return FromPixels(b.Dx(), b.Dy(), nrgba.Pix)
}
