package render

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"
)

func TestFadeRGBA(t *testing.T) {
	buf := []byte{200, 100, 50, 255}
	fadeRGBA(buf, 0.7)
	// keep = round(0.3*256) = 77
	if buf[0] != 60 || buf[1] != 30 || buf[2] != 15 || buf[3] != 255 {
		t.Fatalf("faded pixel = %v", buf)
	}
	fadeRGBA(buf, 1)
	if buf[0] != 0 || buf[1] != 0 || buf[2] != 0 {
		t.Fatalf("full fade left %v", buf)
	}
	buf = []byte{9, 9, 9, 255}
	fadeRGBA(buf, 0)
	if buf[0] != 9 {
		t.Fatal("zero alpha must not change the pixel")
	}
}

func TestRasterStartsBlackAndOpaque(t *testing.T) {
	r := NewRaster(4, 3, nil)
	if s := r.Size(); s.W != 4 || s.H != 3 {
		t.Fatalf("size = %+v", s)
	}
	for i := 0; i < len(r.Pix()); i += 4 {
		if r.Pix()[i] != 0 || r.Pix()[i+3] != 255 {
			t.Fatalf("pixel %d = %v, want opaque black", i/4, r.Pix()[i:i+4])
		}
	}
}

func TestRasterDrawGlyphPaintsAccent(t *testing.T) {
	r := NewRaster(32, 32, nil)
	r.DrawGlyph('A', 4, 20, DefaultAccent, false)
	if lit := greenPixels(r); lit == 0 {
		t.Fatal("drawing a glyph must light some pixels")
	}

	dim := NewRaster(32, 32, nil)
	dim.DrawGlyph('A', 4, 20, withAlpha(DefaultAccent, 0.2), false)
	if maxGreen(dim) >= maxGreen(r) {
		t.Fatal("lower alpha must paint dimmer pixels")
	}
}

func TestRasterGlowWidensGlyph(t *testing.T) {
	plain := NewRaster(32, 32, nil)
	plain.DrawGlyph('I', 12, 20, DefaultAccent, false)
	glowing := NewRaster(32, 32, nil)
	glowing.DrawGlyph('I', 12, 20, DefaultAccent, true)
	if greenPixels(glowing) <= greenPixels(plain) {
		t.Fatal("glow must cover more pixels than the plain glyph")
	}
}

func TestRasterSubstitutesMissingGlyphs(t *testing.T) {
	r := NewRaster(32, 32, nil)
	r.DrawGlyph('ｱ', 4, 20, DefaultAccent, false)
	if greenPixels(r) == 0 {
		t.Fatal("katakana must fall back to a drawable glyph on the built-in face")
	}
}

func TestRasterTransparentDrawIsNoop(t *testing.T) {
	r := NewRaster(16, 16, nil)
	r.DrawGlyph('A', 2, 12, withAlpha(DefaultAccent, 0), true)
	if greenPixels(r) != 0 {
		t.Fatal("alpha 0 must not paint")
	}
}

func TestRasterSavePNG(t *testing.T) {
	r := NewRaster(20, 10, nil)
	r.DrawGlyph('7', 2, 9, DefaultAccent, false)
	path := filepath.Join(t.TempDir(), "out.png")
	if err := r.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Fatalf("decoded bounds = %v", b)
	}
}

func TestSubstituteIsStable(t *testing.T) {
	if substitute('ｱ') != substitute('ｱ') {
		t.Fatal("substitute must be deterministic")
	}
	for _, r := range "ｱｲｳﾝ" {
		s := substitute(r)
		if s > 0x7f {
			t.Fatalf("substitute(%q) = %q is not ASCII", r, s)
		}
	}
}

func greenPixels(r *Raster) int {
	n := 0
	pix := r.Pix()
	for i := 0; i < len(pix); i += 4 {
		if pix[i+1] > 0 {
			n++
		}
	}
	return n
}

func maxGreen(r *Raster) uint8 {
	var m uint8
	pix := r.Pix()
	for i := 0; i < len(pix); i += 4 {
		m = max(m, pix[i+1])
	}
	return m
}
