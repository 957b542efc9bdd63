package source

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	path := filepath.Join(dir, "in.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSniffRejectsNonImages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("there is no spoon\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mime, err := Sniff(path)
	if !errors.Is(err, ErrNotImage) {
		t.Fatalf("Sniff err = %v, want ErrNotImage", err)
	}
	if !strings.HasPrefix(mime, "text/plain") {
		t.Fatalf("mime = %q", mime)
	}
	if _, err := Load(path, MaxWidth); !errors.Is(err, ErrNotImage) {
		t.Fatalf("Load err = %v, want ErrNotImage", err)
	}
}

func TestSniffEmptyFileIsNotImage(t *testing.T) {
	if _, err := SniffReader(strings.NewReader("")); !errors.Is(err, ErrNotImage) {
		t.Fatalf("err = %v, want ErrNotImage", err)
	}
}

func TestLoadKeepsSmallImages(t *testing.T) {
	path := writePNG(t, t.TempDir(), 40, 30)
	if mime, err := Sniff(path); err != nil || mime != "image/png" {
		t.Fatalf("Sniff = %q, %v", mime, err)
	}
	img, err := Load(path, MaxWidth)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Fatalf("bounds = %v, want 40x30", b)
	}
	if c := img.NRGBAAt(5, 7); c.R != 5 || c.G != 7 || c.B != 128 {
		t.Fatalf("pixel (5,7) = %v", c)
	}
}

func TestFitWidthPreservesAspect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1000, 500))
	out := FitWidth(img, MaxWidth)
	if b := out.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Fatalf("bounds = %v, want 400x200", b)
	}
}

func TestFitWidthEmpty(t *testing.T) {
	out := FitWidth(image.NewRGBA(image.Rect(0, 0, 0, 0)), MaxWidth)
	if !out.Bounds().Empty() {
		t.Fatalf("bounds = %v, want empty", out.Bounds())
	}
}

func TestLoadCorruptImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	// Valid PNG signature, truncated body.
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n\x00\x00"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path, MaxWidth)
	if err == nil || errors.Is(err, ErrNotImage) {
		t.Fatalf("err = %v, want a decode error", err)
	}
}
