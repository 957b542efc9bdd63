package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"matrix-portrait/internal/core"
)

// glowOffsets approximate an outer blur around a glyph.
var glowOffsets = []image.Point{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
	{-2, 0}, {2, 0}, {0, -2}, {0, 2},
}

const glowAlpha = 0.3

// Raster is a software Canvas backed by an opaque RGBA image.
type Raster struct {
	img  *image.RGBA
	face font.Face
	src  *image.Uniform
}

// NewRaster allocates a black w*h raster drawing glyphs with face. A nil
// face selects the built-in 7x13 face.
func NewRaster(w, h int, face font.Face) *Raster {
	if face == nil {
		face = basicfont.Face7x13
	}
	r := &Raster{face: face, src: image.NewUniform(color.NRGBA{})}
	r.Resize(w, h)
	return r
}

// Resize reallocates the raster and clears it to black.
func (r *Raster) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	r.img = image.NewRGBA(image.Rect(0, 0, w, h))
	fillRGBA(r.img.Pix, color.Black)
}

// Size returns the raster dimensions in pixels.
func (r *Raster) Size() core.Size {
	b := r.img.Bounds()
	return core.Size{W: b.Dx(), H: b.Dy()}
}

// Image exposes the backing image.
func (r *Raster) Image() *image.RGBA { return r.img }

// Pix exposes the RGBA bytes in row-major order.
func (r *Raster) Pix() []byte { return r.img.Pix }

// Clear paints the raster black.
func (r *Raster) Clear() { fillRGBA(r.img.Pix, color.Black) }

// Fade darkens every pixel by painting black with the given alpha.
func (r *Raster) Fade(alpha float64) { fadeRGBA(r.img.Pix, alpha) }

// DrawGlyph paints g with its baseline at (x, y). Runes the face cannot draw
// are replaced by an ASCII glyph.
func (r *Raster) DrawGlyph(g rune, x, y float64, c color.NRGBA, glow bool) {
	if c.A == 0 {
		return
	}
	if _, ok := r.face.GlyphAdvance(g); !ok {
		g = substitute(g)
	}
	if glow {
		halo := c
		halo.A = uint8(float64(c.A) * glowAlpha)
		for _, off := range glowOffsets {
			r.drawRune(g, x+float64(off.X), y+float64(off.Y), halo)
		}
	}
	r.drawRune(g, x, y, c)
}

func (r *Raster) drawRune(g rune, x, y float64, c color.NRGBA) {
	r.src.C = c
	d := font.Drawer{
		Dst:  r.img,
		Src:  r.src,
		Face: r.face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(string(g))
}

// EncodePNG writes the raster as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.img)
}

// SavePNG writes the raster to path.
func (r *Raster) SavePNG(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	if err := r.EncodePNG(f); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
