package tween

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/gween/ease"
)

func TestEasingEndpoints(t *testing.T) {
	curves := map[string]ease.TweenFunc{
		"linear":     ease.Linear,
		"inOutQuad":  ease.InOutQuad,
		"outQuad":    ease.OutQuad,
		"inOutCubic": ease.InOutCubic,
	}
	for name, fn := range curves {
		tl := NewTimeline()
		var ticks []float64
		tl.Start(Spec{From: 3, To: 7, Duration: time.Second, Easing: fn, OnTick: func(v float64) {
			ticks = append(ticks, v)
		}})
		tl.Step(0)
		tl.Step(time.Second)
		require.Len(t, ticks, 2, name)
		assert.InDelta(t, 3.0, ticks[0], 1e-6, name)
		assert.Equal(t, 7.0, ticks[1], name)
	}
}

func TestInOutQuadMidpoints(t *testing.T) {
	tl := NewTimeline()
	tw := tl.Start(Spec{From: 0, To: 1, Duration: time.Second, Easing: ease.InOutQuad})
	for _, want := range []float64{0.125, 0.5, 0.875} {
		tl.Step(250 * time.Millisecond)
		assert.InDelta(t, want, tw.Value(), 1e-6)
	}
}

func TestHundredMillisecondFramesFinishOnTime(t *testing.T) {
	tl := NewTimeline()
	done := 0
	tl.Start(Spec{To: 1, Duration: time.Second, OnComplete: func() { done++ }})
	for i := 0; i < 9; i++ {
		tl.Step(100 * time.Millisecond)
	}
	assert.Zero(t, done)
	tl.Step(100 * time.Millisecond)
	assert.Equal(t, 1, done)
	assert.Equal(t, 0, tl.Active())
}

func TestTweenReachesTarget(t *testing.T) {
	tl := NewTimeline()
	var got []float64
	completed := 0
	tl.Start(Spec{
		From:       2,
		To:         4,
		Duration:   time.Second,
		Easing:     ease.Linear,
		OnTick:     func(v float64) { got = append(got, v) },
		OnComplete: func() { completed++ },
	})

	tl.Step(250 * time.Millisecond)
	tl.Step(250 * time.Millisecond)
	assert.Equal(t, 1, tl.Active())
	tl.Step(500 * time.Millisecond)
	assert.Equal(t, 0, tl.Active())

	require.Len(t, got, 3)
	assert.InDelta(t, 2.5, got[0], 1e-9)
	assert.InDelta(t, 3.0, got[1], 1e-9)
	assert.Equal(t, 4.0, got[2])
	assert.Equal(t, 1, completed)

	tl.Step(time.Second)
	assert.Equal(t, 1, completed)
}

func TestOvershootClampsToTarget(t *testing.T) {
	tl := NewTimeline()
	tw := tl.Start(Spec{From: 0, To: 10, Duration: 100 * time.Millisecond})
	tl.Step(time.Second)
	assert.True(t, tw.Done())
	assert.Equal(t, 10.0, tw.Value())
	assert.Equal(t, 1.0, tw.Progress())
}

func TestZeroDurationCompletesOnNextStep(t *testing.T) {
	tl := NewTimeline()
	done := false
	tw := tl.Start(Spec{To: 1, OnComplete: func() { done = true }})
	assert.False(t, done)
	assert.Equal(t, 0.0, tw.Progress())
	tl.Step(0)
	assert.True(t, done)
	assert.Equal(t, 1.0, tw.Value())
}

func TestRegistrationOrderWithinStep(t *testing.T) {
	tl := NewTimeline()
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		tl.Start(Spec{Name: name, To: 1, Duration: time.Second, OnTick: func(float64) {
			order = append(order, name)
		}})
	}
	tl.Step(10 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestStartFromCallbackBeginsNextStep(t *testing.T) {
	tl := NewTimeline()
	var second *Tween
	tl.Start(Spec{Name: "first", To: 1, Duration: 100 * time.Millisecond, OnComplete: func() {
		second = tl.Start(Spec{Name: "second", To: 1, Duration: 100 * time.Millisecond})
	}})

	tl.Step(100 * time.Millisecond)
	require.NotNil(t, second)
	assert.Equal(t, 0.0, second.Progress())
	assert.Equal(t, 1, tl.Active())

	tl.Step(50 * time.Millisecond)
	assert.InDelta(t, 0.5, second.Progress(), 1e-9)
	tl.Step(50 * time.Millisecond)
	assert.Equal(t, 0, tl.Active())
}

func TestDefaultEasingIsInOutQuad(t *testing.T) {
	tl := NewTimeline()
	tw := tl.Start(Spec{From: 0, To: 1, Duration: time.Second})
	tl.Step(250 * time.Millisecond)
	assert.InDelta(t, 0.125, tw.Value(), 1e-9)
}

func TestNegativeDeltaIsIgnored(t *testing.T) {
	tl := NewTimeline()
	tw := tl.Start(Spec{From: 0, To: 1, Duration: time.Second, Easing: ease.Linear})
	tl.Step(-time.Second)
	assert.Equal(t, 0.0, tw.Value())
	assert.Equal(t, time.Duration(0), tl.Elapsed())
}
