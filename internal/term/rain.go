package term

import (
	"context"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"

	"matrix-portrait/internal/core"
	"matrix-portrait/internal/render"
)

// Options configures a Rain.
type Options struct {
	Accent   color.NRGBA
	Interval time.Duration
	Fade     float64
	Seed     int64
}

// Rain drives the background rain on a tcell screen.
type Rain struct {
	screen  tcell.Screen
	surface *Surface
	bg      *render.Background
	rng     *core.RNG
	pacer   *core.Pacer
	ticks   int
}

// New binds a rain to an initialized screen and starts its pacer.
func New(screen tcell.Screen, opts Options) *Rain {
	accent := opts.Accent
	if accent == (color.NRGBA{}) {
		accent = render.DefaultAccent
	}
	bg := render.NewBackground(1, accent)
	if opts.Fade > 0 {
		bg.FadeAlpha = opts.Fade
	}
	r := &Rain{
		screen:  screen,
		surface: NewSurface(0, 0),
		bg:      bg,
		rng:     core.NewRNG(opts.Seed),
		pacer:   core.NewPacer(opts.Interval),
	}
	r.resize()
	return r
}

// Surface exposes the cell canvas.
func (r *Rain) Surface() *Surface { return r.surface }

// Background exposes the column state.
func (r *Rain) Background() *render.Background { return r.bg }

// Ticks returns the number of frames drawn.
func (r *Rain) Ticks() int { return r.ticks }

func (r *Rain) resize() {
	w, h := r.screen.Size()
	r.surface.Resize(w, h)
	r.bg.Resize(core.Size{W: w, H: h})
	r.screen.Clear()
}

// Tick advances and shows one frame.
func (r *Rain) Tick() {
	r.bg.Tick(r.surface, r.rng)
	r.surface.Flush(r.screen)
	r.ticks++
}

// HandleEvent reacts to one screen event. It reports false when the rain
// should stop.
func (r *Rain) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q')) {
			return false
		}
	case *tcell.EventResize:
		r.resize()
		r.screen.Sync()
	}
	return true
}

// Run draws until ctx is done, the user quits or the screen stops
// delivering events.
func (r *Rain) Run(ctx context.Context) error {
	defer r.pacer.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		defer close(events)
		for {
			ev := r.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok || !r.HandleEvent(ev) {
				return nil
			}
		case <-r.pacer.C():
			r.Tick()
		}
	}
}

// Stop releases the pacer. Run calls it on return.
func (r *Rain) Stop() { r.pacer.Stop() }
