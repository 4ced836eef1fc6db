// Package blob holds the live state the renderer reads every frame: the
// deformed sphere's material, the stage background and the preset labels.
//
// All of it is owned by the render loop. Writers outside the loop must post
// their changes through the loop's dispatch queue.
package blob

import (
	"image"

	"github.com/Faultbox/blobscene/internal/preset"
)

// Shape uniform names shared with the vertex shader.
const (
	UniformTime                       = "uTime"
	UniformPositionFrequency          = "uPositionFrequency"
	UniformPositionStrength           = "uPositionStrength"
	UniformTimeFrequency              = "uTimeFrequency"
	UniformSmallWavePositionFrequency = "uSmallWavePositionFrequency"
	UniformSmallWavePositionStrength  = "uSmallWavePositionStrength"
	UniformSmallWaveTimeFrequency     = "uSmallWaveTimeFrequency"
)

// ShapeUniforms lists the interpolated shape uniforms in update order.
var ShapeUniforms = []string{
	UniformPositionFrequency,
	UniformPositionStrength,
	UniformTimeFrequency,
	UniformSmallWavePositionFrequency,
	UniformSmallWavePositionStrength,
	UniformSmallWaveTimeFrequency,
}

// Uniform is a single float shader input.
type Uniform struct {
	Value       float64
	NeedsUpdate bool
}

// Texture is a decoded gradient map on the CPU side.
type Texture struct {
	ID    string
	Image *image.RGBA
}

// Material is the physical material plus shape uniforms of the blob.
type Material struct {
	Uniforms map[string]*Uniform

	Metalness          float64
	Roughness          float64
	Color              preset.Color
	EnvMapIntensity    float64
	Clearcoat          float64
	ClearcoatRoughness float64
	Transmission       float64
	FlatShading        bool
	Wireframe          bool
	Texture            *Texture

	// NeedsUpdate marks material state the renderer has not consumed yet.
	NeedsUpdate bool
	// PositionsDirty asks the renderer to re-upload vertex positions.
	PositionsDirty bool
}

// NewMaterial seeds a material from p. Fields p leaves unset get the scene defaults.
func NewMaterial(p preset.Preset) *Material {
	m := &Material{
		Uniforms: map[string]*Uniform{
			UniformTime:                       {},
			UniformPositionFrequency:          {Value: 0.5},
			UniformPositionStrength:           {Value: 0.3},
			UniformTimeFrequency:              {Value: 0.2},
			UniformSmallWavePositionFrequency: {Value: 2},
			UniformSmallWavePositionStrength:  {Value: 0.15},
			UniformSmallWaveTimeFrequency:     {Value: 0.3},
		},
		Roughness:       1,
		Color:           preset.Color{R: 1, G: 1, B: 1},
		EnvMapIntensity: 1,
		NeedsUpdate:     true,
		PositionsDirty:  true,
	}
	m.Apply(p.Params)
	return m
}

// Apply sets every field params specifies, without interpolation.
// The texture identifier is not resolved here.
func (m *Material) Apply(params preset.Params) {
	for name, v := range ShapeValues(params) {
		if u, ok := m.Uniforms[name]; ok {
			u.Value = v
			u.NeedsUpdate = true
		}
	}
	setIf(&m.Metalness, params.Metalness)
	setIf(&m.Roughness, params.Roughness)
	setIf(&m.EnvMapIntensity, params.EnvMapIntensity)
	setIf(&m.Clearcoat, params.Clearcoat)
	setIf(&m.ClearcoatRoughness, params.ClearcoatRoughness)
	setIf(&m.Transmission, params.Transmission)
	if params.Color != nil {
		m.Color = *params.Color
	}
	if params.FlatShading != nil {
		m.FlatShading = *params.FlatShading
	}
	if params.Wireframe != nil {
		m.Wireframe = *params.Wireframe
	}
	m.NeedsUpdate = true
}

// Uniform returns the named uniform value, or 0 if absent.
func (m *Material) Uniform(name string) float64 {
	if u, ok := m.Uniforms[name]; ok {
		return u.Value
	}
	return 0
}

// SetTexture replaces the gradient map.
func (m *Material) SetTexture(tex *Texture) {
	m.Texture = tex
	m.NeedsUpdate = true
}

// MarkDirty flags the material and the geometry positions for the renderer.
func (m *Material) MarkDirty() {
	m.NeedsUpdate = true
	m.PositionsDirty = true
}

// ConsumeDirty returns and clears the dirty flags.
func (m *Material) ConsumeDirty() (material, positions bool) {
	material, positions = m.NeedsUpdate, m.PositionsDirty
	m.NeedsUpdate = false
	m.PositionsDirty = false
	for _, u := range m.Uniforms {
		u.NeedsUpdate = false
	}
	return material, positions
}

// ShapeValues returns the shape uniforms params sets, keyed by uniform name.
func ShapeValues(params preset.Params) map[string]float64 {
	out := make(map[string]float64, 6)
	put := func(name string, v *float64) {
		if v != nil {
			out[name] = *v
		}
	}
	put(UniformPositionFrequency, params.PositionFrequency)
	put(UniformPositionStrength, params.PositionStrength)
	put(UniformTimeFrequency, params.TimeFrequency)
	put(UniformSmallWavePositionFrequency, params.SmallWavePositionFrequency)
	put(UniformSmallWavePositionStrength, params.SmallWavePositionStrength)
	put(UniformSmallWaveTimeFrequency, params.SmallWaveTimeFrequency)
	return out
}

func setIf(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
