package portrait

import (
	"matrix-portrait/internal/core"
	"matrix-portrait/internal/glyph"
)

const (
	// VisibilityThreshold is the brightness a cell must exceed to get a particle.
	VisibilityThreshold = 0.1

	// MinDensity and MaxDensity bound the density control.
	MinDensity = 1
	MaxDensity = 10

	// GlyphTimerSpan bounds glyph timer resets to [0, GlyphTimerSpan).
	GlyphTimerSpan = 30

	maxStartOffset = 100
	minFallSpeed   = 1
	maxFallSpeed   = 3
)

// Particle is a single falling glyph. Column and Row are the sampled cell's
// pixel coordinates and never change.
type Particle struct {
	Column, Row int

	CurrentY   float64
	TargetY    float64
	Brightness float64
	FallSpeed  float64

	Glyph      rune
	GlyphTimer int
	Arrived    bool
}

// Cell returns the particle's sampling coordinate.
func (p *Particle) Cell() core.Cell { return core.Cell{X: p.Column, Y: p.Row} }

// Advance moves the particle one tick. multiplier scales the fall speed.
func (p *Particle) Advance(multiplier float64, rng *core.RNG) {
	if !p.Arrived {
		p.CurrentY += p.FallSpeed * multiplier
		if p.CurrentY >= p.TargetY {
			p.CurrentY = p.TargetY
			p.Arrived = true
		}
	}

	p.GlyphTimer--
	if p.GlyphTimer <= 0 {
		p.Glyph = glyph.Random(rng)
		p.GlyphTimer = rng.IntN(GlyphTimerSpan)
	}
}

// Field is the set of particles for one image, keyed by sampling coordinate.
type Field struct {
	particles []Particle
	index     map[core.Cell]int
	step      int
}

// StepSize maps a density control value to the sampling pitch. Higher density
// samples more cells.
func StepSize(density int) int {
	if density < MinDensity {
		density = MinDensity
	}
	if density > MaxDensity {
		density = MaxDensity
	}
	return MaxDensity + 1 - density
}

// Build samples grid every StepSize(density) pixels and creates a particle for
// each cell brighter than VisibilityThreshold. The result shares no state with
// any previous field.
func Build(grid *BrightnessGrid, density int, rng *core.RNG) *Field {
	step := StepSize(density)
	f := &Field{index: map[core.Cell]int{}, step: step}
	if grid.Empty() {
		return f
	}
	size := grid.Size()
	for x := 0; x < size.W; x += step {
		for y := 0; y < size.H; y += step {
			brightness := grid.At(x, y)
			if brightness <= VisibilityThreshold {
				continue
			}
			f.index[core.Cell{X: x, Y: y}] = len(f.particles)
			f.particles = append(f.particles, Particle{
				Column:     x,
				Row:        y,
				CurrentY:   -rng.Range(0, maxStartOffset),
				TargetY:    float64(y),
				Brightness: brightness,
				FallSpeed:  rng.Range(minFallSpeed, maxFallSpeed),
				Glyph:      glyph.Random(rng),
				GlyphTimer: rng.IntN(GlyphTimerSpan),
			})
		}
	}
	return f
}

// Len returns the number of particles.
func (f *Field) Len() int {
	if f == nil {
		return 0
	}
	return len(f.particles)
}

// StepSize returns the pitch the field was sampled with.
func (f *Field) StepSize() int { return f.step }

// Particles exposes the particle slice for rendering. Callers must not
// append to it.
func (f *Field) Particles() []Particle {
	if f == nil {
		return nil
	}
	return f.particles
}

// Lookup returns the particle at the given sampling coordinate.
func (f *Field) Lookup(c core.Cell) (*Particle, bool) {
	if f == nil {
		return nil, false
	}
	i, ok := f.index[c]
	if !ok {
		return nil, false
	}
	return &f.particles[i], true
}

// Cells returns the sampling coordinates occupied by particles.
func (f *Field) Cells() []core.Cell {
	if f == nil {
		return nil
	}
	out := make([]core.Cell, 0, len(f.particles))
	for i := range f.particles {
		out = append(out, f.particles[i].Cell())
	}
	return out
}

// Arrived counts particles that reached their target row.
func (f *Field) Arrived() int {
	n := 0
	for i := range f.Particles() {
		if f.particles[i].Arrived {
			n++
		}
	}
	return n
}

// Step advances every particle one tick.
func (f *Field) Step(multiplier float64, rng *core.RNG) {
	if f == nil {
		return
	}
	for i := range f.particles {
		f.particles[i].Advance(multiplier, rng)
	}
}
