// Package tween drives scalar interpolations from the render loop.
//
// Curves and clamping come from gween; this package adds named specs,
// per-step callbacks and a Timeline that the owner steps once per frame:
//
//	tl := tween.NewTimeline()
//	tl.Start(tween.Spec{
//	    Name:     "metalness",
//	    From:     0,
//	    To:       1,
//	    Duration: time.Second,
//	    Easing:   ease.InOutQuad,
//	    OnTick:   func(v float64) { m.Metalness = v },
//	})
//	for running {
//	    tl.Step(dt)
//	}
package tween

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Spec describes a single scalar interpolation.
type Spec struct {
	// Name identifies the tween in logs and tests.
	Name string

	From     float64
	To       float64
	Duration time.Duration

	// Easing defaults to ease.InOutQuad.
	Easing ease.TweenFunc

	// OnTick receives the interpolated value on every step, including the last.
	OnTick func(v float64)

	// OnComplete runs once, in the same step as the final OnTick.
	OnComplete func()
}

// Tween is a running interpolation.
type Tween struct {
	spec     Spec
	motion   *gween.Tween
	elapsed  time.Duration
	value    float64
	finished bool
}

func newTween(spec Spec) *Tween {
	fn := spec.Easing
	if fn == nil {
		fn = ease.InOutQuad
	}
	// gween eases the unit interval; values stay float64 on this side.
	return &Tween{
		spec:   spec,
		motion: gween.New(0, 1, float32(spec.Duration.Seconds()), fn),
		value:  spec.From,
	}
}

// Name returns the spec name.
func (tw *Tween) Name() string {
	return tw.spec.Name
}

// Value returns the most recent interpolated value.
func (tw *Tween) Value() float64 {
	return tw.value
}

// Done reports whether the tween has reached its target.
func (tw *Tween) Done() bool {
	return tw.finished
}

// Progress returns linear progress in [0, 1].
func (tw *Tween) Progress() float64 {
	if tw.spec.Duration <= 0 {
		if tw.finished {
			return 1
		}
		return 0
	}
	p := float64(tw.elapsed) / float64(tw.spec.Duration)
	if p > 1 {
		p = 1
	}
	return p
}

func (tw *Tween) advance(dt time.Duration) {
	if tw.finished {
		return
	}
	tw.elapsed += dt

	// Completion is decided on the integer clock so that frame deltas
	// summing to the duration always land on the target.
	if tw.elapsed >= tw.spec.Duration {
		tw.value = tw.spec.To
		tw.finished = true
	} else {
		eased, _ := tw.motion.Set(float32(tw.elapsed.Seconds()))
		tw.value = tw.spec.From + (tw.spec.To-tw.spec.From)*float64(eased)
	}

	if tw.spec.OnTick != nil {
		tw.spec.OnTick(tw.value)
	}
	if tw.finished && tw.spec.OnComplete != nil {
		tw.spec.OnComplete()
	}
}

// Scheduler starts tweens. Implementations decide how and when they advance.
type Scheduler interface {
	Start(spec Spec) *Tween
}
