//go:build ebiten

package app

import (
	"context"
	"errors"
	"image/color"
	"log"
	"math"

	"golang.org/x/image/font"

	"matrix-portrait/internal/core"
	"matrix-portrait/internal/portrait"
	"matrix-portrait/internal/render"
	"matrix-portrait/internal/studio"
	"matrix-portrait/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PickFunc asks the user for an image path. An empty path means cancel.
type PickFunc func() (string, error)

const hudWidth = 220

// Game adapts the background rain and the portrait studio to the
// ebiten.Game interface.
type Game struct {
	studio *studio.Studio
	pick   PickFunc
	log    *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	bg       *render.Background
	bgRaster *render.Raster
	bgRNG    *core.RNG
	pacer    *core.Pacer

	bgPainter       *render.Painter
	portraitPainter *render.Painter
	hud             *ui.HUD
	overlay         *ui.Overlay

	w, h int
}

// New constructs a Game around st. bgFace draws the background rain.
func New(st *studio.Studio, accent color.NRGBA, bgFace font.Face, pick PickFunc, seed int64, logger *log.Logger) *Game {
	if logger == nil {
		logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Game{
		studio:          st,
		pick:            pick,
		log:             logger,
		ctx:             ctx,
		cancel:          cancel,
		bg:              render.NewBackground(render.BackgroundGlyphSize, accent),
		bgRaster:        render.NewRaster(0, 0, bgFace),
		bgRNG:           core.NewRNG(seed),
		pacer:           core.NewPacer(0),
		bgPainter:       render.NewPainter(0, 0),
		portraitPainter: render.NewPainter(0, 0),
		hud:             ui.NewHUD(st.Session(), hudWidth),
		overlay:         ui.NewOverlay(st),
	}
}

// Close stops the animation, the pacer and the camera.
func (g *Game) Close() {
	g.studio.Close()
	g.pacer.Stop()
	g.cancel()
}

// Update handles per-frame logic: input, finished background work and both
// rain layers.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.Close()
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.upload()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.studio.ToggleCamera(g.ctx)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if err := g.studio.Capture(); err != nil {
			g.log.Printf("capture: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if _, err := g.studio.Download(); err != nil {
			g.log.Printf("download: %v", err)
		}
	}
	g.controlKeys()

	g.studio.Poll()
	g.overlay.Update()
	if g.studio.ControlsVisible() {
		g.hud.Update(g.w - g.hud.Width())
	}

	if g.pacer.Ready() {
		g.bg.Tick(g.bgRaster, g.bgRNG)
	}
	g.studio.Tick()
	return nil
}

func (g *Game) upload() {
	if g.pick == nil {
		return
	}
	path, err := g.pick()
	if err != nil {
		g.log.Printf("file picker: %v", err)
		return
	}
	if path == "" {
		return
	}
	if err := g.studio.Upload(path); err != nil && !errors.Is(err, studio.ErrBusy) {
		g.log.Printf("upload: %v", err)
	}
}

var controlBindings = []struct {
	key      string
	down, up ebiten.Key
}{
	{portrait.KeyDensity, ebiten.KeyBracketLeft, ebiten.KeyBracketRight},
	{portrait.KeySpeed, ebiten.KeySemicolon, ebiten.KeyQuote},
	{portrait.KeyBrightness, ebiten.KeyComma, ebiten.KeyPeriod},
}

func (g *Game) controlKeys() {
	if !g.studio.ControlsVisible() {
		return
	}
	s := g.studio.Session()
	for _, ck := range controlBindings {
		current, _ := s.Parameters().Lookup(ck.key)
		v, ok := current.IntValue()
		if !ok {
			continue
		}
		switch {
		case inpututil.IsKeyJustPressed(ck.down):
			g.studio.SetControl(ck.key, v-1)
		case inpututil.IsKeyJustPressed(ck.up):
			g.studio.SetControl(ck.key, v+1)
		}
	}
}

// Draw renders the background, the portrait and the overlays.
func (g *Game) Draw(screen *ebiten.Image) {
	g.bgPainter.Blit(screen, g.bgRaster, 0, 0, 1)

	if g.studio.Session().HasImage() && !g.studio.FeedVisible() {
		area := g.w
		if g.studio.ControlsVisible() {
			area -= g.hud.Width()
		}
		size := g.studio.Raster().Size()
		if size.W > 0 && size.H > 0 && area > 0 {
			scale := math.Min(float64(area)/float64(size.W), float64(g.h)/float64(size.H))
			x := (float64(area) - float64(size.W)*scale) / 2
			y := (float64(g.h) - float64(size.H)*scale) / 2
			g.portraitPainter.Blit(screen, g.studio.Raster(), x, y, scale)
		}
	}

	g.overlay.Draw(screen, g.w, g.h)
	if g.studio.ControlsVisible() {
		g.hud.Draw(screen, g.w-g.hud.Width(), g.h)
	}
}

// Layout follows the window size and re-initializes the background rain
// when it changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.w || outsideHeight != g.h {
		g.w, g.h = outsideWidth, outsideHeight
		g.bgRaster.Resize(g.w, g.h)
		g.bg.Resize(core.Size{W: g.w, H: g.h})
	}
	return g.w, g.h
}
