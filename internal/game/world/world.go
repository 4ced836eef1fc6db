// Package world holds the scene model: everything the render loop mutates
// and the renderer reads, wired to the transition controller.
package world

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/blobscene/internal/blob"
	"github.com/Faultbox/blobscene/internal/preset"
	"github.com/Faultbox/blobscene/internal/transition"
	"github.com/Faultbox/blobscene/internal/tween"
)

// World is the scene owned by the render loop.
type World struct {
	Catalog    *preset.Catalog
	Material   *blob.Material
	Stage      *blob.Stage
	Labels     *blob.Labels
	Text       *blob.TextUniforms
	Timeline   *tween.Timeline
	Controller *transition.Controller

	log *zap.Logger

	clockRunning bool
	clock        time.Duration
}

// New builds the scene at preset 0. textures may be nil, in which case
// gradient maps are never resolved.
func New(catalog *preset.Catalog, textures transition.TextureSource, log *zap.Logger) (*World, error) {
	if catalog == nil {
		return nil, preset.ErrEmptyCatalog
	}
	if log == nil {
		log = zap.NewNop()
	}

	first := catalog.At(0)
	w := &World{
		Catalog:  catalog,
		Material: blob.NewMaterial(first),
		Stage:    blob.NewStage(),
		Labels:   blob.NewLabels(catalog.Names()),
		Text:     &blob.TextUniforms{Direction: float64(transition.Forward)},
		Timeline: tween.NewTimeline(),
		log:      log,
	}

	ctrl, err := transition.NewController(transition.Options{
		Catalog:   catalog,
		Material:  w.Material,
		Stage:     w.Stage,
		Labels:    w.Labels,
		Text:      w.Text,
		Scheduler: w.Timeline,
		Textures:  textures,
		Logger:    log.Named("transition"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating controller: %w", err)
	}
	w.Controller = ctrl

	if first.Params.Map != nil && textures != nil {
		id := *first.Params.Map
		textures.LoadTexture(id, func(tex *blob.Texture, err error) {
			if err != nil {
				log.Warn("initial gradient map unavailable", zap.String("texture", id), zap.Error(err))
				return
			}
			// A transition may have requested another map in the meantime.
			if w.Material.Texture == nil {
				w.Material.SetTexture(tex)
			}
		})
	}

	return w, nil
}

// StartClock makes Step advance the shader time uniform.
func (w *World) StartClock() {
	if w.clockRunning {
		return
	}
	w.clockRunning = true
	w.log.Debug("scene clock started")
}

// ClockRunning reports whether StartClock has been called.
func (w *World) ClockRunning() bool {
	return w.clockRunning
}

// Clock returns the time elapsed since StartClock.
func (w *World) Clock() time.Duration {
	return w.clock
}

// Step advances all tweens by dt and, once the clock runs, the time uniform.
func (w *World) Step(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	w.Timeline.Step(dt)

	if !w.clockRunning {
		return
	}
	w.clock += dt
	if u, ok := w.Material.Uniforms[blob.UniformTime]; ok {
		u.Value = w.clock.Seconds()
		u.NeedsUpdate = true
	}
}

// Snapshot is a read-only view of the scene for observers off the loop.
type Snapshot struct {
	Current    int      `json:"current"`
	Pending    int      `json:"pending"`
	Phase      string   `json:"phase"`
	Direction  int      `json:"direction"`
	Preset     string   `json:"preset"`
	Background string   `json:"background"`
	Presets    []string `json:"presets"`
	Clock      float64  `json:"clock"`
}

// Snapshot captures the transition state. Call it on the loop.
func (w *World) Snapshot() Snapshot {
	st := w.Controller.State()
	return Snapshot{
		Current:    st.Current,
		Pending:    st.Pending,
		Phase:      st.Phase.String(),
		Direction:  int(st.Direction),
		Preset:     w.Catalog.At(st.Current).Name,
		Background: w.Stage.Background.Hex(),
		Presets:    w.Catalog.Names(),
		Clock:      w.clock.Seconds(),
	}
}
