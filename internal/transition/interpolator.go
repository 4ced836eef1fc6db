package transition

import (
	"errors"
	"time"

	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/Faultbox/blobscene/internal/blob"
	"github.com/Faultbox/blobscene/internal/preset"
	"github.com/Faultbox/blobscene/internal/tween"
)

// ErrUniformsMissing aborts a parameter transition on a material without uniforms.
var ErrUniformsMissing = errors.New("material uniforms are not defined")

// DefaultDuration is the length of parameter and background transitions.
const DefaultDuration = time.Second

// TextureSource resolves texture identifiers asynchronously. done must be
// invoked on the render loop, never from a loader goroutine.
type TextureSource interface {
	LoadTexture(id string, done func(*blob.Texture, error))
}

// Interpolator tweens a material toward a preset's parameters.
type Interpolator struct {
	sched    tween.Scheduler
	textures TextureSource
	log      *zap.Logger

	Duration time.Duration
	Easing   ease.TweenFunc

	// textureGen discards texture loads superseded by a later request.
	textureGen uint64
}

// NewInterpolator creates an interpolator. textures may be nil.
func NewInterpolator(sched tween.Scheduler, textures TextureSource, log *zap.Logger) *Interpolator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Interpolator{
		sched:    sched,
		textures: textures,
		log:      log,
		Duration: DefaultDuration,
		Easing:   ease.InOutQuad,
	}
}

// Transition starts one independent tween per numeric field params sets.
// Boolean fields are applied immediately. Fields params leaves nil are skipped.
func (ip *Interpolator) Transition(m *blob.Material, params preset.Params) error {
	if m == nil || m.Uniforms == nil {
		return ErrUniformsMissing
	}

	shape := blob.ShapeValues(params)
	for _, name := range blob.ShapeUniforms {
		target, ok := shape[name]
		if !ok {
			continue
		}
		u, ok := m.Uniforms[name]
		if !ok {
			ip.log.Warn("skipping unknown shape uniform", zap.String("uniform", name))
			continue
		}
		ip.start(name, u.Value, target, func(v float64) {
			u.Value = v
			u.NeedsUpdate = true
			m.NeedsUpdate = true
		})
	}

	if params.Map != nil {
		ip.loadTexture(m, *params.Map)
	}

	ip.scalar(m, "metalness", &m.Metalness, params.Metalness)
	ip.scalar(m, "roughness", &m.Roughness, params.Roughness)
	if params.Color != nil {
		ip.scalar(m, "color.r", &m.Color.R, &params.Color.R)
		ip.scalar(m, "color.g", &m.Color.G, &params.Color.G)
		ip.scalar(m, "color.b", &m.Color.B, &params.Color.B)
	}
	ip.scalar(m, "envMapIntensity", &m.EnvMapIntensity, params.EnvMapIntensity)
	ip.scalar(m, "clearcoat", &m.Clearcoat, params.Clearcoat)
	ip.scalar(m, "clearcoatRoughness", &m.ClearcoatRoughness, params.ClearcoatRoughness)
	ip.scalar(m, "transmission", &m.Transmission, params.Transmission)

	// Booleans cannot be interpolated; a tween on them is an instant set.
	if params.FlatShading != nil {
		m.FlatShading = *params.FlatShading
	}
	if params.Wireframe != nil {
		m.Wireframe = *params.Wireframe
	}

	m.MarkDirty()
	return nil
}

func (ip *Interpolator) scalar(m *blob.Material, name string, dst *float64, target *float64) {
	if target == nil {
		return
	}
	ip.start(name, *dst, *target, func(v float64) {
		*dst = v
		m.NeedsUpdate = true
	})
}

func (ip *Interpolator) start(name string, from, to float64, onTick func(float64)) {
	ip.sched.Start(tween.Spec{
		Name:     name,
		From:     from,
		To:       to,
		Duration: ip.Duration,
		Easing:   ip.Easing,
		OnTick:   onTick,
	})
}

func (ip *Interpolator) loadTexture(m *blob.Material, id string) {
	if ip.textures == nil {
		return
	}
	ip.textureGen++
	gen := ip.textureGen
	ip.textures.LoadTexture(id, func(tex *blob.Texture, err error) {
		if err != nil {
			ip.log.Warn("texture load failed, keeping previous texture",
				zap.String("texture", id), zap.Error(err))
			return
		}
		if gen != ip.textureGen {
			ip.log.Debug("discarding superseded texture", zap.String("texture", id))
			return
		}
		m.SetTexture(tex)
	})
}
