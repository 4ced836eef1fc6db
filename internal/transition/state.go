// Package transition moves the scene from one preset to the next in
// response to directional input.
//
// A transition is single-flight. The Controller state machine has two
// phases:
//
//	            Input(dir)
//	Idle ─────────────────────► InFlight
//	  ▲                            │
//	  │  label progress completes  │
//	  └────────────────────────────┘
//
// Input received while InFlight is dropped, not queued. The commit back to
// Idle is triggered by one specific animation, the label crossfade's
// progress tween, and by nothing else.
package transition

import "fmt"

// Direction is the sign of a directional input.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// DirectionFromDelta maps a scroll delta to a direction. Positive deltas
// (scrolling down) move forward. A zero delta is not an input.
func DirectionFromDelta(delta float64) (Direction, bool) {
	switch {
	case delta > 0:
		return Forward, true
	case delta < 0:
		return Backward, true
	default:
		return 0, false
	}
}

// Valid reports whether d is Forward or Backward.
func (d Direction) Valid() bool {
	return d == Forward || d == Backward
}

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Phase is the controller's admission state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInFlight
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInFlight:
		return "in-flight"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// NoPending is the Pending value while Idle.
const NoPending = -1

// State is a snapshot of the controller.
type State struct {
	Current   int
	Pending   int
	Phase     Phase
	Direction Direction
}

// HasPending reports whether a target preset is set.
func (s State) HasPending() bool {
	return s.Pending != NoPending
}

// Consistent reports whether Phase and Pending agree.
func (s State) Consistent() bool {
	return (s.Phase == PhaseInFlight) == s.HasPending()
}
