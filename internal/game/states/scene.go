package states

import (
	"go.uber.org/zap"

	"github.com/Faultbox/blobscene/internal/game/world"
	"github.com/Faultbox/blobscene/internal/transition"
)

// SceneState renders the blob and turns input into transitions.
type SceneState struct {
	world *world.World
	view  View
	log   *zap.Logger

	// Accepted and Dropped count directional inputs.
	Accepted int
	Dropped  int
}

// NewSceneState creates the interactive scene state.
func NewSceneState(w *world.World, view View, log *zap.Logger) *SceneState {
	if log == nil {
		log = zap.NewNop()
	}
	return &SceneState{world: w, view: view, log: log}
}

func (s *SceneState) Enter() error {
	s.log.Info("entering SceneState",
		zap.String("preset", s.world.Catalog.At(s.world.Controller.State().Current).Name))
	return nil
}

func (s *SceneState) Exit() error {
	return nil
}

// Update is called every frame. Tweens are stepped by the loop.
func (s *SceneState) Update(dt float64) error {
	return nil
}

// Render draws the scene.
func (s *SceneState) Render() error {
	s.view.DrawScene()
	return nil
}

// HandleInput accepts Wheel and Step events.
func (s *SceneState) HandleInput(ev Event) error {
	switch e := ev.(type) {
	case Wheel:
		if dir, ok := transition.DirectionFromDelta(e.DeltaY); ok {
			s.navigate(dir)
		}
	case Step:
		s.navigate(e.Direction)
	}
	return nil
}

func (s *SceneState) navigate(dir transition.Direction) {
	if s.world.Controller.Input(dir) {
		s.Accepted++
		return
	}
	s.Dropped++
}
