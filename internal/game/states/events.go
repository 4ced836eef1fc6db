package states

import "github.com/Faultbox/blobscene/internal/transition"

// Wheel is a scroll input. Positive DeltaY scrolls down.
type Wheel struct {
	DeltaY float64
}

func (Wheel) input() {}

// Step is a discrete navigation input from the keyboard or a remote client.
type Step struct {
	Direction transition.Direction
}

func (Step) input() {}

// View draws the scene. Implementations own the GPU resources.
type View interface {
	DrawScene()
	// DrawOverlay covers the scene with the loading screen. alpha is in [0, 1].
	DrawOverlay(percent int, alpha float32)
}
