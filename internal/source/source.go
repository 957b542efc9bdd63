// Package source acquires still images for the portrait: it filters non-image
// files, decodes supported formats and pre-scales the result.
package source

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxWidth is the widest image handed to the luminance extractor.
const MaxWidth = 400

// sniffLen is the number of bytes inspected to detect the MIME type.
const sniffLen = 512

// ErrNotImage reports a file whose content is not an image. Callers ignore it
// silently.
var ErrNotImage = errors.New("source: not an image")

// Sniff detects the MIME type of the file at path and returns ErrNotImage
// unless it is image/*.
func Sniff(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return SniffReader(f)
}

// SniffReader is Sniff for an arbitrary reader.
func SniffReader(r io.Reader) (string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read header: %w", err)
	}
	mime := http.DetectContentType(head[:n])
	if !strings.HasPrefix(mime, "image/") {
		return mime, ErrNotImage
	}
	return mime, nil
}

// Decode reads a PNG, JPEG, GIF, BMP or WebP image.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// FitWidth returns img as NRGBA, downscaled to at most maxWidth pixels wide
// while preserving the aspect ratio. Narrower images keep their size.
func FitWidth(img image.Image, maxWidth int) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxWidth > 0 && w > maxWidth {
		h = int(float64(maxWidth) / float64(w) * float64(h))
		w = maxWidth
	}
	if w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Load sniffs, decodes and scales the image file at path.
func Load(path string, maxWidth int) (*image.NRGBA, error) {
	if _, err := Sniff(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	img, err := Decode(f)
	if err != nil {
		return nil, err
	}
	return FitWidth(img, maxWidth), nil
}
