//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"matrix-portrait/internal/app"
	"matrix-portrait/internal/camera"
	"matrix-portrait/internal/dialog"
	"matrix-portrait/internal/portrait"
	"matrix-portrait/internal/render"
	"matrix-portrait/internal/studio"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	accent, _ := cfg.AccentColor()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := log.New(os.Stderr, "portrait: ", log.LstdFlags)

	portraitFace, err := render.ResolveFace(cfg.Font, render.PortraitGlyphSize)
	if err != nil {
		log.Fatalf("font: %v", err)
	}
	bgFace, err := render.ResolveFace(cfg.Font, render.BackgroundGlyphSize)
	if err != nil {
		log.Fatalf("font: %v", err)
	}

	st := studio.New(studio.Options{
		Seed:     seed,
		MaxWidth: cfg.MaxWidth,
		Accent:   accent,
		Face:     portraitFace,
		Camera:   camera.NewFFmpeg(cfg.FFmpeg, cfg.CameraDevice),
		Alerter:  dialog.Alerter{},
		Logger:   logger,
		OutDir:   cfg.Out,
	})
	st.SetControl(portrait.KeyDensity, cfg.Density)
	st.SetControl(portrait.KeySpeed, cfg.Speed)
	st.SetControl(portrait.KeyBrightness, cfg.Brightness)
	if cfg.Image != "" {
		if err := st.Upload(cfg.Image); err != nil {
			logger.Printf("start-up image: %v", err)
		}
	}

	game := app.New(st, accent, bgFace, dialog.SelectImage, seed+1, logger)
	defer game.Close()

	ebiten.SetWindowTitle("Matrix Portrait")
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(1024, 768)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
