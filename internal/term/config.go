package term

import (
	"flag"
	"fmt"
	"time"

	"matrix-portrait/internal/render"
)

// Config represents the command-line parameters of the terminal rain.
type Config struct {
	Accent   string
	Interval time.Duration
	Fade     float64
	Seed     int64
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Accent: "#00ff41", Interval: 50 * time.Millisecond, Fade: 0.05}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Accent, "accent", c.Accent, "rain color as hex")
	fs.DurationVar(&c.Interval, "interval", c.Interval, "time between frames")
	fs.Float64Var(&c.Fade, "fade", c.Fade, "fade applied per frame (0-1]")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed (0 picks one from the clock)")
}

// Validate checks the configuration and converts it to Options.
func (c *Config) Validate() (Options, error) {
	if c.Interval < time.Millisecond {
		return Options{}, fmt.Errorf("interval too short (min 1ms): got %s", c.Interval)
	}
	if c.Fade <= 0 || c.Fade > 1 {
		return Options{}, fmt.Errorf("fade out of range (0-1]: got %g", c.Fade)
	}
	accent, err := render.ParseAccent(c.Accent)
	if err != nil {
		return Options{}, err
	}
	return Options{Accent: accent, Interval: c.Interval, Fade: c.Fade, Seed: c.Seed}, nil
}
