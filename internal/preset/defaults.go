package preset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func f(v float64) *float64 { return &v }
func b(v bool) *bool       { return &v }
func s(v string) *string   { return &v }

// Default returns the built-in catalog.
func Default() *Catalog {
	c, _ := New([]Preset{
		{
			Name:       "Color Fusion",
			Background: MustHex("#9D73F7"),
			Params: Params{
				PositionFrequency:          f(1.05),
				PositionStrength:           f(1.2),
				SmallWavePositionFrequency: f(0.7),
				SmallWavePositionStrength:  f(0.2),
				Roughness:                  f(1),
				Metalness:                  f(0),
				EnvMapIntensity:            f(0.5),
				Clearcoat:                  f(0),
				ClearcoatRoughness:         f(0),
				Transmission:               f(0),
				FlatShading:                b(false),
				Wireframe:                  b(false),
				Map:                        s("hologram"),
			},
		},
		{
			Name:       "Purple Mirror",
			Background: MustHex("#5300B1"),
			Params: Params{
				PositionFrequency:          f(0.584),
				PositionStrength:           f(0.276),
				SmallWavePositionFrequency: f(0.899),
				SmallWavePositionStrength:  f(1.266),
				Roughness:                  f(0),
				Metalness:                  f(1),
				EnvMapIntensity:            f(2),
				Clearcoat:                  f(0),
				ClearcoatRoughness:         f(0),
				Transmission:               f(0),
				FlatShading:                b(false),
				Wireframe:                  b(false),
				Map:                        s("purple-rain"),
			},
		},
		{
			Name:       "Alien Goo",
			Background: MustHex("#45ACD8"),
			Params: Params{
				PositionFrequency:          f(1.022),
				PositionStrength:           f(0.99),
				SmallWavePositionFrequency: f(0.378),
				SmallWavePositionStrength:  f(0.341),
				Roughness:                  f(0.292),
				Metalness:                  f(0.73),
				EnvMapIntensity:            f(0.86),
				Clearcoat:                  f(1),
				ClearcoatRoughness:         f(0),
				Transmission:               f(0),
				FlatShading:                b(false),
				Wireframe:                  b(false),
				Map:                        s("lucky-day"),
			},
		},
	})
	return c
}

type file struct {
	Presets []Preset `yaml:"presets"`
}

// Load reads a catalog from a YAML file with a top-level "presets" list.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc file
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding presets: %w", err)
	}
	return New(doc.Presets)
}
