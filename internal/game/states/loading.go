package states

import (
	"time"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/Faultbox/blobscene/internal/assets"
	"github.com/Faultbox/blobscene/internal/game/world"
	"github.com/Faultbox/blobscene/internal/tween"
)

// OverlayFadeDuration is how long the loading screen takes to disappear.
const OverlayFadeDuration = time.Second

// LoadingState shows asset progress until every registered item has
// finished, then fades into the scene.
type LoadingState struct {
	world   *world.World
	assets  *assets.Manager
	view    View
	manager *Manager
	log     *zap.Logger

	// Loading progress
	StatusMsg  string
	Progress   float64 // 0.0 to 1.0
	IsComplete bool

	OverlayAlpha float64
	FadeDuration time.Duration

	startTime time.Time
}

// NewLoadingState creates a loading state. On completion it changes manager
// to a SceneState over the same world and view.
func NewLoadingState(w *world.World, am *assets.Manager, view View, manager *Manager, log *zap.Logger) *LoadingState {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoadingState{
		world:        w,
		assets:       am,
		view:         view,
		manager:      manager,
		log:          log,
		StatusMsg:    "Loading...",
		OverlayAlpha: 1,
		FadeDuration: OverlayFadeDuration,
	}
}

func (s *LoadingState) Enter() error {
	s.startTime = time.Now()
	s.Progress = 0
	s.IsComplete = false
	s.OverlayAlpha = 1

	s.log.Info("entering LoadingState")
	return nil
}

func (s *LoadingState) Exit() error {
	return nil
}

func (s *LoadingState) Update(dt float64) error {
	if s.IsComplete {
		return nil
	}
	s.Progress = s.assets.Progress()
	if s.assets.Done() {
		s.complete()
	}
	return nil
}

// complete starts the intro: the clock, the first background fade and the
// overlay fade-out. The scene takes over once the overlay is gone.
func (s *LoadingState) complete() {
	s.IsComplete = true
	s.Progress = 1
	s.StatusMsg = "Loaded"

	loaded, total := s.assets.Counts()
	s.log.Info("assets loaded",
		zap.Int("loaded", loaded),
		zap.Int("total", total),
		zap.Strings("failed", s.assets.Failed()),
		zap.Duration("elapsed", time.Since(s.startTime)))

	s.world.StartClock()
	s.world.Controller.FadeBackground(s.world.Catalog.At(0).Background)

	s.world.Timeline.Start(tween.Spec{
		Name:     "overlay.fade",
		From:     1,
		To:       0,
		Duration: s.FadeDuration,
		Easing:   ease.InOutQuad,
		OnTick:   func(v float64) { s.OverlayAlpha = v },
		OnComplete: func() {
			s.manager.Change(NewSceneState(s.world, s.view, s.log))
		},
	})
}

// Render draws the overlay, and the scene beneath it once loading is done.
func (s *LoadingState) Render() error {
	if s.IsComplete {
		s.view.DrawScene()
	}
	s.view.DrawOverlay(int(s.Progress*100), float32(s.OverlayAlpha))
	return nil
}

// HandleInput drops everything until the scene is shown.
func (s *LoadingState) HandleInput(ev Event) error {
	return nil
}
