// Package preset holds the fixed, ordered list of blob looks the scene cycles through.
package preset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyCatalog is returned when a catalog would contain no presets.
var ErrEmptyCatalog = errors.New("preset catalog is empty")

// Color is a linear RGB triple with components in [0, 1].
type Color struct {
	R, G, B float64
}

// ParseHex parses "#RRGGBB" or the short "#RGB" form.
func ParseHex(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{
		R: float64((v>>16)&0xFF) / 255.0,
		G: float64((v>>8)&0xFF) / 255.0,
		B: float64(v&0xFF) / 255.0,
	}, nil
}

// MustHex is ParseHex for compile-time constants.
func MustHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// MarshalYAML writes the color as a hex string.
func (c Color) MarshalYAML() (interface{}, error) {
	return c.Hex(), nil
}

// UnmarshalYAML reads a hex string.
func (c *Color) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseHex(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Params is the parameter bag of a preset. Nil fields mean "leave as is".
type Params struct {
	// Shape uniforms
	PositionFrequency          *float64 `yaml:"uPositionFrequency,omitempty"`
	PositionStrength           *float64 `yaml:"uPositionStrength,omitempty"`
	SmallWavePositionFrequency *float64 `yaml:"uSmallWavePositionFrequency,omitempty"`
	SmallWavePositionStrength  *float64 `yaml:"uSmallWavePositionStrength,omitempty"`
	TimeFrequency              *float64 `yaml:"uTimeFrequency,omitempty"`
	SmallWaveTimeFrequency     *float64 `yaml:"uSmallWaveTimeFrequency,omitempty"`

	// Material
	Metalness          *float64 `yaml:"metalness,omitempty"`
	Roughness          *float64 `yaml:"roughness,omitempty"`
	Color              *Color   `yaml:"color,omitempty"`
	EnvMapIntensity    *float64 `yaml:"envMapIntensity,omitempty"`
	Clearcoat          *float64 `yaml:"clearcoat,omitempty"`
	ClearcoatRoughness *float64 `yaml:"clearcoatRoughness,omitempty"`
	Transmission       *float64 `yaml:"transmission,omitempty"`
	FlatShading        *bool    `yaml:"flatShading,omitempty"`
	Wireframe          *bool    `yaml:"wireframe,omitempty"`
	Map                *string  `yaml:"map,omitempty"`
}

// Clone returns a copy of p that shares no pointers with it.
func (p Params) Clone() Params {
	out := p
	for _, f := range []**float64{
		&out.PositionFrequency, &out.PositionStrength,
		&out.SmallWavePositionFrequency, &out.SmallWavePositionStrength,
		&out.TimeFrequency, &out.SmallWaveTimeFrequency,
		&out.Metalness, &out.Roughness, &out.EnvMapIntensity,
		&out.Clearcoat, &out.ClearcoatRoughness, &out.Transmission,
	} {
		*f = clonePtr(*f)
	}
	out.Color = clonePtr(p.Color)
	out.FlatShading = clonePtr(p.FlatShading)
	out.Wireframe = clonePtr(p.Wireframe)
	out.Map = clonePtr(p.Map)
	return out
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Preset is a named bundle of shape/material parameters and a background color.
type Preset struct {
	Name       string `yaml:"name"`
	Background Color  `yaml:"background"`
	Params     Params `yaml:"config"`
}

// Catalog is an immutable, cyclic list of presets.
type Catalog struct {
	presets []Preset
}

// New validates and copies presets into a catalog.
func New(presets []Preset) (*Catalog, error) {
	if len(presets) == 0 {
		return nil, ErrEmptyCatalog
	}
	for i, p := range presets {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("preset %d: name is required", i)
		}
	}
	out := make([]Preset, len(presets))
	for i, p := range presets {
		p.Params = p.Params.Clone()
		out[i] = p
	}
	return &Catalog{presets: out}, nil
}

// Len returns the number of presets.
func (c *Catalog) Len() int {
	return len(c.presets)
}

// At returns a copy of the preset at index i. i is taken modulo Len.
func (c *Catalog) At(i int) Preset {
	p := c.presets[c.wrap(i)]
	p.Params = p.Params.Clone()
	return p
}

// Next returns the index reached from i by stepping dir (+1 or -1).
func (c *Catalog) Next(i, dir int) int {
	return c.wrap(i + dir)
}

// Names returns the preset names in order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.presets))
	for i, p := range c.presets {
		names[i] = p.Name
	}
	return names
}

func (c *Catalog) wrap(i int) int {
	n := len(c.presets)
	return ((i % n) + n) % n
}
