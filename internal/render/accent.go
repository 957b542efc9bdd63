package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseAccent parses a hex color such as "#00ff41". An empty string yields
// DefaultAccent.
func ParseAccent(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultAccent, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("accent %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xFF}, nil
}
