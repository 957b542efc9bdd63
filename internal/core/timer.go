package core

import (
	"sync"
	"time"
)

// Pacer arms at most one pending tick per interval. The host frame loop
// consumes ticks with Ready, so drawing stays on the frame callback while the
// rate is set by the timer.
type Pacer struct {
	interval time.Duration
	ticks    chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewPacer starts a pacer firing every interval. Non-positive intervals
// default to 50ms.
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	p := &Pacer{
		interval: interval,
		ticks:    make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Pacer) run() {
	t := time.NewTicker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-p.done:
			return
		case <-t.C:
			select {
			case <-p.done:
				return
			case p.ticks <- struct{}{}:
			default:
			}
		}
	}
}

// Interval returns the configured period.
func (p *Pacer) Interval() time.Duration { return p.interval }

// Ready consumes a pending tick without blocking.
func (p *Pacer) Ready() bool {
	select {
	case <-p.ticks:
		return true
	default:
		return false
	}
}

// C exposes the tick channel for select-driven loops.
func (p *Pacer) C() <-chan struct{} { return p.ticks }

// Stop halts the timer. It is safe to call more than once.
func (p *Pacer) Stop() {
	p.once.Do(func() { close(p.done) })
}
