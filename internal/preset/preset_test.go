package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#FFFFFF", Color{1, 1, 1}},
		{"#000000", Color{0, 0, 0}},
		{"#333", Color{0x33 / 255.0, 0x33 / 255.0, 0x33 / 255.0}},
		{"ff0000", Color{1, 0, 0}},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want.R, got.R, 1e-9, tt.in)
		assert.InDelta(t, tt.want.G, got.G, 1e-9, tt.in)
		assert.InDelta(t, tt.want.B, got.B, 1e-9, tt.in)
	}

	_, err := ParseHex("#12345")
	assert.Error(t, err)
	_, err = ParseHex("#GGGGGG")
	assert.Error(t, err)
}

func TestHexRoundTrip(t *testing.T) {
	assert.Equal(t, "#9D73F7", MustHex("#9d73f7").Hex())
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"Color Fusion", "Purple Mirror", "Alien Goo"}, c.Names())

	p := c.At(1)
	require.NotNil(t, p.Params.Metalness)
	assert.Equal(t, 1.0, *p.Params.Metalness)
	require.NotNil(t, p.Params.Map)
	assert.Equal(t, "purple-rain", *p.Params.Map)
	assert.Nil(t, p.Params.TimeFrequency)
	assert.Nil(t, p.Params.Color)
}

func TestNextIsCyclic(t *testing.T) {
	c := Default()
	assert.Equal(t, 1, c.Next(0, 1))
	assert.Equal(t, 0, c.Next(2, 1))
	assert.Equal(t, 2, c.Next(0, -1))
	assert.Equal(t, 1, c.Next(2, -1))

	single, err := New([]Preset{{Name: "only"}})
	require.NoError(t, err)
	assert.Equal(t, 0, single.Next(0, 1))
	assert.Equal(t, 0, single.Next(0, -1))
}

func TestNewRejectsInvalid(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = New([]Preset{{Name: " "}})
	assert.Error(t, err)
}

func TestCatalogIsCopied(t *testing.T) {
	src := []Preset{{Name: "a"}, {Name: "b"}}
	c, err := New(src)
	require.NoError(t, err)
	src[0].Name = "changed"
	assert.Equal(t, "a", c.At(0).Name)
}

func TestCatalogParamsAreCopied(t *testing.T) {
	metal, tint, flat, m := 0.5, Color{R: 1}, true, "ember"
	src := []Preset{{Name: "a", Params: Params{Metalness: &metal, Color: &tint, FlatShading: &flat, Map: &m}}}
	c, err := New(src)
	require.NoError(t, err)

	metal, tint, flat, m = 0.9, Color{G: 1}, false, "frost"
	got := c.At(0).Params
	assert.Equal(t, 0.5, *got.Metalness)
	assert.Equal(t, Color{R: 1}, *got.Color)
	assert.True(t, *got.FlatShading)
	assert.Equal(t, "ember", *got.Map)

	*got.Metalness = 42
	*got.Color = Color{B: 1}
	assert.Equal(t, 0.5, *c.At(0).Params.Metalness)
	assert.Equal(t, Color{R: 1}, *c.At(0).Params.Color)

	d := Default()
	*d.At(0).Params.Roughness = 42
	assert.NotEqual(t, 42.0, *d.At(0).Params.Roughness)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	doc := `
presets:
  - name: Ember
    background: "#FF4400"
    config:
      uPositionStrength: 0.5
      wireframe: true
      map: ember
  - name: Frost
    background: "#88CCFF"
    config:
      roughness: 0.1
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	ember := c.At(0)
	assert.Equal(t, "Ember", ember.Name)
	assert.Equal(t, "#FF4400", ember.Background.Hex())
	require.NotNil(t, ember.Params.PositionStrength)
	assert.Equal(t, 0.5, *ember.Params.PositionStrength)
	require.NotNil(t, ember.Params.Wireframe)
	assert.True(t, *ember.Params.Wireframe)
	assert.Nil(t, ember.Params.Roughness)

	assert.Equal(t, 0.1, *c.At(1).Params.Roughness)
}

func TestParseRejectsBadColor(t *testing.T) {
	_, err := Parse([]byte("presets:\n  - name: x\n    background: \"#nothex\"\n"))
	assert.Error(t, err)
}
