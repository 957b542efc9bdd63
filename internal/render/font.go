package render

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"matrix-portrait/internal/glyph"
)

// Glyph sizes in pixels.
const (
	PortraitGlyphSize   = 12
	BackgroundGlyphSize = 16
)

// systemFontPaths lists fonts that usually carry half-width katakana.
var systemFontPaths = []string{
	// macOS
	"/System/Library/Fonts/Hiragino Sans GB.ttc",
	"/System/Library/Fonts/ヒラギノ角ゴシック W3.ttc",
	"/Library/Fonts/Arial Unicode.ttf",
	// Linux
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/noto/NotoSansMono-Regular.ttf",
	"/usr/share/fonts/truetype/droid/DroidSansFallbackFull.ttf",
	"/usr/share/fonts/truetype/takao-gothic/TakaoGothic.ttf",
	// Windows
	"C:\\Windows\\Fonts\\msgothic.ttc",
	"C:\\Windows\\Fonts\\meiryo.ttc",
}

// LoadFace parses the font file at path (single font or collection) at the
// given pixel size.
func LoadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	opts := &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull}
	if coll, err := opentype.ParseCollection(data); err == nil && coll.NumFonts() > 0 {
		fnt, err := coll.Font(0)
		if err != nil {
			return nil, fmt.Errorf("font collection %s: %w", path, err)
		}
		return opentype.NewFace(fnt, opts)
	}
	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return opentype.NewFace(fnt, opts)
}

// ResolveFace loads path when set, otherwise the first system font that can
// draw katakana, falling back to the built-in 7x13 face.
func ResolveFace(path string, size float64) (font.Face, error) {
	if path != "" {
		return LoadFace(path, size)
	}
	for _, p := range systemFontPaths {
		face, err := LoadFace(p, size)
		if err != nil {
			continue
		}
		if _, ok := face.GlyphAdvance('ｱ'); ok {
			return face, nil
		}
		face.Close()
	}
	return basicfont.Face7x13, nil
}

// substitute maps a rune the face cannot draw to an ASCII glyph of the
// alphabet, keeping the choice stable for the same input.
func substitute(r rune) rune {
	return asciiGlyphs[int(r)%len(asciiGlyphs)]
}

var asciiGlyphs = glyph.Runes()[:36]
