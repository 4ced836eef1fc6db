package transition

import (
	"time"

	"github.com/tanema/gween/ease"

	"github.com/Faultbox/blobscene/internal/blob"
	"github.com/Faultbox/blobscene/internal/tween"
)

// Crossfade defaults. The progress and slide durations differ on purpose:
// the commit fires before the labels finish sliding.
const (
	FarOffset        = 6.5
	NearOffset       = 6.2
	ProgressTarget   = 0.5
	ProgressDuration = time.Second
	SlideDuration    = 1300 * time.Millisecond
)

// Crossfade animates the outgoing and incoming labels of a transition.
type Crossfade struct {
	sched tween.Scheduler
	text  *blob.TextUniforms

	FarOffset        float64
	NearOffset       float64
	ProgressDuration time.Duration
	SlideDuration    time.Duration
	Easing           ease.TweenFunc
}

// NewCrossfade creates a crossfade writing the shared progress uniform to text.
func NewCrossfade(sched tween.Scheduler, text *blob.TextUniforms) *Crossfade {
	return &Crossfade{
		sched:            sched,
		text:             text,
		FarOffset:        FarOffset,
		NearOffset:       NearOffset,
		ProgressDuration: ProgressDuration,
		SlideDuration:    SlideDuration,
		Easing:           ease.InOutQuad,
	}
}

// Start reveals in off to one side, slides both labels and calls onSettled
// when the progress uniform completes. out and in may be the same label.
func (cf *Crossfade) Start(out, in *blob.Label, dir Direction, onSettled func()) {
	// Instant reveal: the incoming label is fully visible but off-screen.
	in.Scale = 1
	in.X = float64(dir) * cf.FarOffset
	cf.text.Direction = float64(dir)

	cf.sched.Start(tween.Spec{
		Name:     "label.progress",
		From:     cf.text.Progress,
		To:       ProgressTarget,
		Duration: cf.ProgressDuration,
		Easing:   cf.Easing,
		OnTick: func(v float64) {
			cf.text.Progress = v
		},
		OnComplete: func() {
			cf.text.Progress = 0
			if onSettled != nil {
				onSettled()
			}
		},
	})

	cf.slide("label.out", out, -float64(dir)*cf.NearOffset)
	cf.slide("label.in", in, 0)
}

func (cf *Crossfade) slide(name string, l *blob.Label, to float64) {
	cf.sched.Start(tween.Spec{
		Name:     name,
		From:     l.X,
		To:       to,
		Duration: cf.SlideDuration,
		Easing:   cf.Easing,
		OnTick: func(v float64) {
			l.X = v
		},
	})
}
