//go:build !ebiten

package app

import (
	"fmt"
	"image/color"
	"log"

	"golang.org/x/image/font"

	"matrix-portrait/internal/studio"
)

// PickFunc asks the user for an image path. An empty path means cancel.
type PickFunc func() (string, error)

// Game is a placeholder that satisfies the API expected by the GUI build.
type Game struct{}

// New panics to indicate that the ebiten build tag is required for GUI support.
func New(*studio.Studio, color.NRGBA, font.Face, PickFunc, int64, *log.Logger) *Game {
	panic("app.New requires building with the 'ebiten' tag")
}

// Close is a no-op placeholder.
func (g *Game) Close() {}

// Update always reports that the GUI build tag is missing.
func (g *Game) Update() error {
	return fmt.Errorf("app.Game.Update requires building with the 'ebiten' tag")
}

// Draw is a no-op placeholder to satisfy the interface shape.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }
