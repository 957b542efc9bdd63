package portrait

import (
	"strconv"

	"matrix-portrait/internal/core"
)

// Control keys understood by SetIntParameter.
const (
	KeyDensity    = "density"
	KeySpeed      = "speed"
	KeyBrightness = "brightness"
)

const (
	// DefaultControl is the initial value of every control.
	DefaultControl = 5

	minControl     = 1
	maxControl     = 10
	controlDivisor = 5.0
)

// Ticket identifies one image-processing request.
type Ticket uint64

// Session owns the state of one portrait: the current brightness grid, the
// particle field built from it, the three controls and the processing guard.
// It is not safe for concurrent use; callers drive it from a single loop.
type Session struct {
	rng *core.RNG

	grid  *BrightnessGrid
	field *Field

	density    int
	speed      int
	brightness int

	processing bool
	latest     Ticket
	running    bool
}

// NewSession constructs a session with default controls.
func NewSession(seed int64) *Session {
	return &Session{
		rng:        core.NewRNG(seed),
		density:    DefaultControl,
		speed:      DefaultControl,
		brightness: DefaultControl,
	}
}

// RNG exposes the session's random source so the renderer shares one stream.
func (s *Session) RNG() *core.RNG { return s.rng }

// Begin claims the processing guard. It reports false while a previous
// request is still in flight.
func (s *Session) Begin() (Ticket, bool) {
	if s.processing {
		return 0, false
	}
	s.processing = true
	s.latest++
	return s.latest, true
}

// Processing reports whether a request holds the guard.
func (s *Session) Processing() bool { return s.processing }

// Cancel abandons the in-flight request; its completion will be discarded.
func (s *Session) Cancel() {
	if !s.processing {
		return
	}
	s.latest++
	s.processing = false
}

// Complete installs grid for ticket t and rebuilds the field. Stale tickets
// are discarded and reported as false.
func (s *Session) Complete(t Ticket, grid *BrightnessGrid) bool {
	if t != s.latest {
		return false
	}
	s.processing = false
	s.grid = grid
	s.Rebuild()
	return true
}

// Current reports whether t is the most recent request.
func (s *Session) Current(t Ticket) bool { return t == s.latest }

// Fail releases the guard held by ticket t.
func (s *Session) Fail(t Ticket) {
	if t != s.latest {
		return
	}
	s.processing = false
}

// HasImage reports whether a grid has been installed.
func (s *Session) HasImage() bool { return s.grid != nil }

// Grid returns the current brightness grid, or nil.
func (s *Session) Grid() *BrightnessGrid { return s.grid }

// Field returns the current particle field, or nil.
func (s *Session) Field() *Field { return s.field }

// Rebuild replaces the field with a freshly sampled one.
func (s *Session) Rebuild() {
	if s.grid == nil {
		s.field = nil
		return
	}
	s.field = Build(s.grid, s.density, s.rng)
}

// Density returns the density control value.
func (s *Session) Density() int { return s.density }

// Speed returns the speed control value.
func (s *Session) Speed() int { return s.speed }

// Brightness returns the brightness control value.
func (s *Session) Brightness() int { return s.brightness }

// SpeedMultiplier converts the speed control to a fall speed factor in (0,2].
func (s *Session) SpeedMultiplier() float64 { return float64(s.speed) / controlDivisor }

// BrightnessMultiplier converts the brightness control to an alpha factor in (0,2].
func (s *Session) BrightnessMultiplier() float64 {
	return float64(s.brightness) / controlDivisor
}

// Start marks the animation as running.
func (s *Session) Start() { s.running = true }

// Stop halts the animation; Step becomes a no-op.
func (s *Session) Stop() { s.running = false }

// Running reports whether ticks are processed.
func (s *Session) Running() bool { return s.running }

// Step advances the field one tick. It reports whether any work was done.
func (s *Session) Step() bool {
	if !s.running || s.field == nil {
		return false
	}
	s.field.Step(s.SpeedMultiplier(), s.rng)
	return true
}

// ParameterControls lists the HUD-adjustable controls.
func (s *Session) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: KeyDensity, Label: "Density", Type: core.ParamTypeInt, Step: 1, Min: minControl, Max: maxControl},
		{Key: KeySpeed, Label: "Rain speed", Type: core.ParamTypeInt, Step: 1, Min: minControl, Max: maxControl},
		{Key: KeyBrightness, Label: "Brightness", Type: core.ParamTypeInt, Step: 1, Min: minControl, Max: maxControl},
	}
}

// Parameters reports the current control values.
func (s *Session) Parameters() core.ParameterSnapshot {
	param := func(key, label string, v int) core.Parameter {
		return core.Parameter{Key: key, Label: label, Type: core.ParamTypeInt, Value: strconv.Itoa(v)}
	}
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Portrait",
		Params: []core.Parameter{
			param(KeyDensity, "Density", s.density),
			param(KeySpeed, "Rain speed", s.speed),
			param(KeyBrightness, "Brightness", s.brightness),
		},
	}}}
}

// SetIntParameter updates a control, clamped to [1,10], and rebuilds the
// field. Any control change rebuilds, not only density.
func (s *Session) SetIntParameter(key string, value int) bool {
	if value < minControl {
		value = minControl
	}
	if value > maxControl {
		value = maxControl
	}
	switch key {
	case KeyDensity:
		s.density = value
	case KeySpeed:
		s.speed = value
	case KeyBrightness:
		s.brightness = value
	default:
		return false
	}
	s.Rebuild()
	return true
}
