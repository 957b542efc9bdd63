//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Painter uploads a Raster into an ebiten image and draws it.
type Painter struct {
	w, h int
	img  *ebiten.Image
}

// NewPainter allocates a painter for rasters of size w*h.
func NewPainter(w, h int) *Painter {
	p := &Painter{}
	p.ensure(w, h)
	return p
}

func (p *Painter) ensure(w, h int) {
	if p.img != nil && p.w == w && p.h == h {
		return
	}
	if p.img != nil {
		p.img.Dispose()
		p.img = nil
	}
	p.w, p.h = w, h
	if w > 0 && h > 0 {
		p.img = ebiten.NewImage(w, h)
	}
}

// Blit uploads r and draws it onto dst at (x, y) scaled by scale.
func (p *Painter) Blit(dst *ebiten.Image, r *Raster, x, y, scale float64) {
	size := r.Size()
	p.ensure(size.W, size.H)
	if p.img == nil {
		return
	}
	p.img.WritePixels(r.Pix())

	op := &ebiten.DrawImageOptions{}
	if scale > 0 {
		op.GeoM.Scale(scale, scale)
	}
	op.GeoM.Translate(x, y)
	dst.DrawImage(p.img, op)
}

// Size returns the dimensions of the underlying image.
func (p *Painter) Size() (int, int) { return p.w, p.h }
