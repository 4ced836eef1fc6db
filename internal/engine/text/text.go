// Package text rasterizes preset labels into alpha masks for the label quads.
package text

import (
	"fmt"
	"image"
	"math"
	"os"

	"go.uber.org/zap"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Defaults for label rendering.
const (
	DefaultPixelsPerEm   = 128
	DefaultLetterSpacing = -0.08 // em
)

// Label is a rasterized string. Width and Height are in ems so the quad can
// be sized from the world font size.
type Label struct {
	Text   string
	Mask   *image.Alpha
	Width  float64
	Height float64
}

// Rasterizer draws strings with one font face.
type Rasterizer struct {
	face font.Face
	ppem float64

	// LetterSpacing is added after every glyph, in ems.
	LetterSpacing float64
}

// NewRasterizer parses an OpenType or TrueType font. nil data selects the
// built-in Go Bold face.
func NewRasterizer(data []byte, ppem float64) (*Rasterizer, error) {
	if data == nil {
		data = gobold.TTF
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    ppem,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("creating face: %w", err)
	}
	return &Rasterizer{face: face, ppem: ppem, LetterSpacing: DefaultLetterSpacing}, nil
}

// Load reads the font at path, falling back to Go Bold when path is empty
// or unusable.
func Load(path string, ppem float64, log *zap.Logger) *Rasterizer {
	if log == nil {
		log = zap.NewNop()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			r, perr := NewRasterizer(data, ppem)
			if perr == nil {
				log.Info("label font loaded", zap.String("path", path))
				return r
			}
			err = perr
		}
		log.Warn("label font unavailable, using Go Bold", zap.String("path", path), zap.Error(err))
	}

	r, err := NewRasterizer(nil, ppem)
	if err != nil {
		// gobold is compiled in; it always parses.
		panic(err)
	}
	return r
}

// Close releases the face.
func (r *Rasterizer) Close() error {
	return r.face.Close()
}

func (r *Rasterizer) spacing() fixed.Int26_6 {
	return fixed.Int26_6(math.Round(r.LetterSpacing * r.ppem * 64))
}

// Measure returns the advance width of s including letter spacing.
func (r *Rasterizer) Measure(s string) fixed.Int26_6 {
	var width fixed.Int26_6
	prev := rune(-1)
	n := 0
	for _, c := range s {
		if prev >= 0 {
			width += r.face.Kern(prev, c)
		}
		adv, ok := r.face.GlyphAdvance(c)
		if !ok {
			adv, _ = r.face.GlyphAdvance('?')
		}
		width += adv
		prev = c
		n++
	}
	if n > 1 {
		width += r.spacing() * fixed.Int26_6(n-1)
	}
	return width
}

// Rasterize draws s centered in a tight alpha mask.
func (r *Rasterizer) Rasterize(s string) *Label {
	m := r.face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	pad := int(math.Ceil(r.ppem / 16))

	w := max(1, r.Measure(s).Ceil()) + 2*pad
	h := ascent + descent + 2*pad
	mask := image.NewAlpha(image.Rect(0, 0, w, h))

	dot := fixed.P(pad, pad+ascent)
	prev := rune(-1)
	for _, c := range s {
		if prev >= 0 {
			dot.X += r.face.Kern(prev, c)
		}
		dr, glyph, gp, adv, ok := r.face.Glyph(dot, c)
		if !ok {
			dr, glyph, gp, adv, _ = r.face.Glyph(dot, '?')
		}
		if glyph != nil {
			draw.DrawMask(mask, dr, image.Opaque, image.Point{}, glyph, gp, draw.Over)
		}
		dot.X += adv + r.spacing()
		prev = c
	}

	return &Label{
		Text:   s,
		Mask:   mask,
		Width:  float64(w) / r.ppem,
		Height: float64(h) / r.ppem,
	}
}
