package tween

import "time"

// Timeline is a frame-stepped Scheduler.
//
// Tweens advance in registration order. A tween started while a step is in
// progress (from an OnTick or OnComplete callback) first advances on the
// following step.
type Timeline struct {
	active   []*Tween
	pending  []*Tween
	stepping bool
	now      time.Duration
}

// NewTimeline creates an empty timeline.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Start registers a tween. It never blocks.
func (t *Timeline) Start(spec Spec) *Tween {
	tw := newTween(spec)
	if t.stepping {
		t.pending = append(t.pending, tw)
	} else {
		t.active = append(t.active, tw)
	}
	return tw
}

// Step advances every active tween by dt and drops the finished ones.
func (t *Timeline) Step(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	t.now += dt

	t.stepping = true
	for _, tw := range t.active {
		tw.advance(dt)
	}
	t.stepping = false

	kept := t.active[:0]
	for _, tw := range t.active {
		if !tw.finished {
			kept = append(kept, tw)
		}
	}
	for i := len(kept); i < len(t.active); i++ {
		t.active[i] = nil
	}
	t.active = append(kept, t.pending...)
	t.pending = t.pending[:0]
}

// Active returns the number of running tweens.
func (t *Timeline) Active() int {
	return len(t.active) + len(t.pending)
}

// Elapsed returns the total time stepped so far.
func (t *Timeline) Elapsed() time.Duration {
	return t.now
}
