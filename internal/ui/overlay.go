//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"
)

// Status is the studio state shown by the overlay.
type Status interface {
	Preview() *image.NRGBA
	CameraFrame() image.Image
	FeedVisible() bool
	CaptureVisible() bool
	Loading() bool
	Quote() string
}

// Overlay draws the camera feed, the source preview and status text on top
// of the rain.
type Overlay struct {
	status      Status
	showPreview bool
	showHelp    bool

	previewSrc *image.NRGBA
	previewImg *ebiten.Image

	feedBuf *image.RGBA
	feedImg *ebiten.Image
}

const thumbSize = 160

// NewOverlay constructs an overlay for status.
func NewOverlay(status Status) *Overlay {
	return &Overlay{status: status, showPreview: true, showHelp: true}
}

// Update toggles the preview and help panels.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showPreview = !o.showPreview
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showHelp = !o.showHelp
	}
}

// Draw paints the overlay into a w by h screen.
func (o *Overlay) Draw(screen *ebiten.Image, w, h int) {
	face := basicfont.Face7x13
	green := color.RGBA{R: 0, G: 255, B: 65, A: 255}

	switch {
	case o.status.FeedVisible():
		o.drawFeed(screen, w, h)
	case o.showPreview:
		o.drawPreview(screen)
	}

	if o.status.Loading() {
		text.Draw(screen, "Processing image...", face, w/2-66, h/2, green)
	}
	if o.status.CaptureVisible() {
		text.Draw(screen, "Press Space to capture", face, w/2-77, h-40, green)
	}
	if q := o.status.Quote(); q != "" {
		text.Draw(screen, q, face, panelPadding, h-panelPadding, color.RGBA{R: 0, G: 180, B: 50, A: 255})
	}
	if o.showHelp {
		for i, line := range HelpLines {
			text.Draw(screen, line, face, panelPadding, panelPadding+headerBaseline+i*16, color.RGBA{R: 150, G: 220, B: 160, A: 255})
		}
	}
}

func (o *Overlay) drawPreview(screen *ebiten.Image) {
	src := o.status.Preview()
	if src == nil {
		return
	}
	if src != o.previewSrc {
		o.previewSrc = src
		if o.previewImg != nil {
			o.previewImg.Dispose()
		}
		o.previewImg = ebiten.NewImageFromImage(src)
	}
	b := src.Bounds()
	s := fitScale(b.Dx(), b.Dy(), thumbSize, thumbSize)
	sw := screen.Bounds().Dx()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(float64(sw)-float64(b.Dx())*s-panelPadding, panelPadding)
	op.ColorScale.ScaleAlpha(0.6)
	screen.DrawImage(o.previewImg, op)
}

func (o *Overlay) drawFeed(screen *ebiten.Image, w, h int) {
	frame := o.status.CameraFrame()
	if frame == nil {
		return
	}
	b := frame.Bounds()
	if o.feedBuf == nil || o.feedBuf.Bounds().Size() != b.Size() {
		o.feedBuf = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		if o.feedImg != nil {
			o.feedImg.Dispose()
		}
		o.feedImg = ebiten.NewImage(b.Dx(), b.Dy())
	}
	draw.Draw(o.feedBuf, o.feedBuf.Bounds(), frame, b.Min, draw.Src)
	o.feedImg.WritePixels(o.feedBuf.Pix)

	s := fitScale(b.Dx(), b.Dy(), w*2/3, h*2/3)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(s, s)
	op.GeoM.Translate((float64(w)-float64(b.Dx())*s)/2, (float64(h)-float64(b.Dy())*s)/2)
	screen.DrawImage(o.feedImg, op)
}
