package app

import (
	"errors"
	"flag"
	"fmt"
	"image/color"

	"matrix-portrait/internal/render"
	"matrix-portrait/internal/source"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Density    int
	Speed      int
	Brightness int
	MaxWidth   int

	Accent string
	Font   string
	Out    string
	Image  string

	CameraDevice string
	FFmpeg       string

	TPS  int
	Seed int64
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Density:    5,
		Speed:      5,
		Brightness: 5,
		MaxWidth:   source.MaxWidth,
		Accent:     "#00ff41",
		Out:        ".",
		FFmpeg:     "ffmpeg",
		TPS:        60,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.IntVar(&c.Density, "density", c.Density, "portrait density (1-10)")
	fs.IntVar(&c.Speed, "speed", c.Speed, "portrait rain speed (1-10)")
	fs.IntVar(&c.Brightness, "brightness", c.Brightness, "portrait brightness (1-10)")
	fs.IntVar(&c.MaxWidth, "max-width", c.MaxWidth, "maximum width of the processed image in pixels")
	fs.StringVar(&c.Accent, "accent", c.Accent, "rain color as hex")
	fs.StringVar(&c.Font, "font", c.Font, "font file with katakana glyphs (default: search system fonts)")
	fs.StringVar(&c.Out, "out", c.Out, "directory for downloaded portraits")
	fs.StringVar(&c.Image, "image", c.Image, "image to load at start-up")
	fs.StringVar(&c.CameraDevice, "camera-device", c.CameraDevice, "camera device passed to ffmpeg (default per OS)")
	fs.StringVar(&c.FFmpeg, "ffmpeg", c.FFmpeg, "ffmpeg binary used for camera capture")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed (0 picks one from the clock)")
}

// Validate checks the configuration for validity.
func (c *Config) Validate() error {
	for _, ctrl := range []struct {
		name string
		v    int
	}{{"density", c.Density}, {"speed", c.Speed}, {"brightness", c.Brightness}} {
		if ctrl.v < 1 || ctrl.v > 10 {
			return fmt.Errorf("%s out of range (1-10): got %d", ctrl.name, ctrl.v)
		}
	}
	if c.MaxWidth <= 0 {
		return fmt.Errorf("max-width must be positive: got %d", c.MaxWidth)
	}
	if c.TPS < 1 || c.TPS > 240 {
		return fmt.Errorf("tps out of range (1-240): got %d", c.TPS)
	}
	if c.Out == "" {
		return errors.New("output directory cannot be empty")
	}
	if _, err := c.AccentColor(); err != nil {
		return err
	}
	return nil
}

// AccentColor parses the accent flag.
func (c *Config) AccentColor() (color.NRGBA, error) {
	return render.ParseAccent(c.Accent)
}
