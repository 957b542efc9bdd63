package ui

import (
	"image"
	"strconv"

	"matrix-portrait/internal/core"
)

// Controls is the parameter surface the HUD edits.
type Controls interface {
	core.ParameterControlsProvider
	core.ParameterProvider
	core.IntParameterSetter
}

type controlState struct {
	control  core.ParameterControl
	value    string
	intValue int
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

// controlSet tracks the HUD rows for a Controls target.
type controlSet struct {
	target Controls
	states []controlState
}

func newControlSet(target Controls) *controlSet {
	c := &controlSet{target: target}
	if target == nil {
		return c
	}
	controls := target.ParameterControls()
	c.states = make([]controlState, len(controls))
	for i, ctrl := range controls {
		c.states[i] = controlState{control: ctrl, value: "--"}
	}
	return c
}

func (c *controlSet) refresh() {
	if c.target == nil {
		return
	}
	snapshot := c.target.Parameters()
	for i := range c.states {
		state := &c.states[i]
		param, ok := snapshot.Lookup(state.control.Key)
		if !ok {
			state.hasValue = false
			state.value = "--"
			continue
		}
		v, ok := param.IntValue()
		if !ok {
			state.hasValue = false
			state.value = "--"
			continue
		}
		state.intValue = v
		state.value = strconv.Itoa(v)
		state.hasValue = true
	}
}

func step(ctrl core.ParameterControl) int {
	if ctrl.Step <= 0 {
		return 1
	}
	return ctrl.Step
}

func (c *controlSet) canAdjust(i, direction int) bool {
	if i < 0 || i >= len(c.states) || direction == 0 || c.target == nil {
		return false
	}
	state := &c.states[i]
	if !state.hasValue {
		return false
	}
	target := state.intValue + direction*step(state.control)
	return state.control.Clamp(target) == target
}

func (c *controlSet) adjust(i, direction int) bool {
	if !c.canAdjust(i, direction) {
		return false
	}
	state := &c.states[i]
	target := state.intValue + direction*step(state.control)
	if !c.target.SetIntParameter(state.control.Key, target) {
		return false
	}
	state.intValue = target
	state.value = strconv.Itoa(target)
	return true
}

func (c *controlSet) layout(width int) {
	if width <= 0 {
		return
	}
	for i := range c.states {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(width-panelPadding-buttonSize, buttonY, width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		c.states[i].top = top
		c.states[i].minusRect = minusRect
		c.states[i].plusRect = plusRect
	}
}

// hit returns the row and direction of the button under (x, y).
func (c *controlSet) hit(x, y int) (int, int, bool) {
	for i := range c.states {
		if pointInRect(x, y, c.states[i].minusRect) {
			return i, -1, true
		}
		if pointInRect(x, y, c.states[i].plusRect) {
			return i, 1, true
		}
	}
	return 0, 0, false
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

// fitScale returns the factor that fits a w by h image into maxW by maxH
// without enlarging it.
func fitScale(w, h, maxW, maxH int) float64 {
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return 0
	}
	s := 1.0
	if sx := float64(maxW) / float64(w); sx < s {
		s = sx
	}
	if sy := float64(maxH) / float64(h); sy < s {
		s = sy
	}
	return s
}

// HelpLines lists the keyboard shortcuts.
var HelpLines = []string{
	"O  upload image",
	"C  camera on/off",
	"Space  capture",
	"S  download PNG",
	"1  preview  2  help",
	"Esc  quit",
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	controlsTop    = panelPadding + headerBaseline + 14
)
