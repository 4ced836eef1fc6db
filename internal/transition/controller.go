package transition

import (
	"errors"
	"math"
	"time"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/Faultbox/blobscene/internal/blob"
	"github.com/Faultbox/blobscene/internal/preset"
	"github.com/Faultbox/blobscene/internal/tween"
)

// SpinTurns is the sphere rotation per transition, in half turns.
const SpinTurns = 4

// Options wires a Controller to the scene state it owns.
type Options struct {
	Catalog   *preset.Catalog
	Material  *blob.Material
	Stage     *blob.Stage
	Labels    *blob.Labels
	Text      *blob.TextUniforms
	Scheduler tween.Scheduler
	// Textures is optional; without it texture identifiers are ignored.
	Textures TextureSource
	Logger   *zap.Logger
}

// Controller is the single writer of the transition State.
type Controller struct {
	catalog  *preset.Catalog
	material *blob.Material
	stage    *blob.Stage
	labels   *blob.Labels
	sched    tween.Scheduler
	interp   *Interpolator
	fade     *Crossfade
	log      *zap.Logger

	state     State
	started   []func(State)
	observers []func(State)

	BackgroundDuration time.Duration
	SpinDuration       time.Duration
}

// NewController validates opts and returns an Idle controller at preset 0.
func NewController(opts Options) (*Controller, error) {
	switch {
	case opts.Catalog == nil:
		return nil, errors.New("transition: catalog is required")
	case opts.Material == nil || opts.Stage == nil || opts.Text == nil:
		return nil, errors.New("transition: scene state is required")
	case opts.Labels == nil || opts.Labels.Len() != opts.Catalog.Len():
		return nil, errors.New("transition: need one label per preset")
	case opts.Scheduler == nil:
		return nil, errors.New("transition: scheduler is required")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Controller{
		catalog:            opts.Catalog,
		material:           opts.Material,
		stage:              opts.Stage,
		labels:             opts.Labels,
		sched:              opts.Scheduler,
		interp:             NewInterpolator(opts.Scheduler, opts.Textures, log),
		fade:               NewCrossfade(opts.Scheduler, opts.Text),
		log:                log,
		state:              State{Current: 0, Pending: NoPending, Phase: PhaseIdle, Direction: Forward},
		BackgroundDuration: DefaultDuration,
		SpinDuration:       SlideDuration,
	}, nil
}

// State returns a snapshot of the transition state.
func (c *Controller) State() State {
	return c.state
}

// Catalog returns the presets the controller cycles through.
func (c *Controller) Catalog() *preset.Catalog {
	return c.catalog
}

// Interpolator returns the parameter interpolator used for transitions.
func (c *Controller) Interpolator() *Interpolator {
	return c.interp
}

// OnStart registers fn to run after every accepted Input, on the loop.
func (c *Controller) OnStart(fn func(State)) {
	c.started = append(c.started, fn)
}

// OnCommit registers fn to run after every commit, on the loop.
func (c *Controller) OnCommit(fn func(State)) {
	c.observers = append(c.observers, fn)
}

// Input starts a transition one preset in dir. It returns false, changing
// nothing, when a transition is already in flight or dir is not a direction.
func (c *Controller) Input(dir Direction) bool {
	if !dir.Valid() {
		return false
	}
	if c.state.Phase == PhaseInFlight {
		c.log.Debug("input dropped, transition in flight",
			zap.Stringer("direction", dir),
			zap.Int("pending", c.state.Pending))
		return false
	}

	current := c.state.Current
	next := c.catalog.Next(current, int(dir))
	c.state = State{Current: current, Pending: next, Phase: PhaseInFlight, Direction: dir}

	target := c.catalog.At(next)
	c.log.Debug("transition started",
		zap.Stringer("direction", dir),
		zap.Int("from", current),
		zap.Int("to", next),
		zap.String("preset", target.Name))

	if err := c.interp.Transition(c.material, target.Params); err != nil {
		c.log.Error("parameter transition aborted", zap.Error(err))
	}
	c.fade.Start(c.labels.At(current), c.labels.At(next), dir, c.commit)
	c.FadeBackground(target.Background)
	c.spin(dir)

	for _, fn := range c.started {
		fn(c.state)
	}
	return true
}

// FadeBackground tweens the stage background toward color.
func (c *Controller) FadeBackground(color preset.Color) {
	bg := &c.stage.Background
	c.channel("background.r", &bg.R, color.R)
	c.channel("background.g", &bg.G, color.G)
	c.channel("background.b", &bg.B, color.B)
}

func (c *Controller) channel(name string, dst *float64, to float64) {
	c.sched.Start(tween.Spec{
		Name:     name,
		From:     *dst,
		To:       to,
		Duration: c.BackgroundDuration,
		Easing:   ease.InOutQuad,
		OnTick:   func(v float64) { *dst = v },
	})
}

func (c *Controller) spin(dir Direction) {
	from := c.stage.RotationY
	c.sched.Start(tween.Spec{
		Name:     "spin",
		From:     from,
		To:       from + math.Pi*SpinTurns*-float64(dir),
		Duration: c.SpinDuration,
		Easing:   ease.InOutQuad,
		OnTick:   func(v float64) { c.stage.RotationY = v },
	})
}

func (c *Controller) commit() {
	prev := c.state.Current
	c.state.Current = c.state.Pending
	c.state.Pending = NoPending
	c.state.Phase = PhaseIdle

	// The outgoing label is past the screen edge by now.
	if prev != c.state.Current {
		c.labels.At(prev).Scale = 0
	}

	c.log.Debug("transition committed",
		zap.Int("current", c.state.Current),
		zap.String("preset", c.catalog.At(c.state.Current).Name))

	for _, fn := range c.observers {
		fn(c.state)
	}
}
