package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/blobscene/internal/engine/renderer/shaders"
	"github.com/Faultbox/blobscene/internal/engine/shader"
	"github.com/Faultbox/blobscene/internal/engine/text"
)

// Overlay layout in pixels.
const (
	overlayBarWidth  = 300
	overlayBarHeight = 4
	overlayTextGap   = 20
	overlayTextSize  = 24
)

// Overlay draws the loading screen: a black cover, a progress bar and a
// "Loading: N%" caption.
type Overlay struct {
	prog *shader.Program
	vao  uint32
	vbo  uint32

	raster      *text.Rasterizer
	captionTex  uint32
	captionW    int
	captionH    int
	captionPerc int
}

// NewOverlay creates the overlay. The caption is rasterized with raster and
// drawn overlayTextSize pixels tall.
func NewOverlay(raster *text.Rasterizer) (*Overlay, error) {
	prog, err := shader.NewProgram(shaders.OverlayVertexShader, shaders.OverlayFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("overlay shader: %w", err)
	}
	o := &Overlay{prog: prog, raster: raster, captionPerc: -1}

	quad := []float32{0, 0, 1, 0, 1, 1, 0, 0, 1, 1, 0, 1}
	gl.GenVertexArrays(1, &o.vao)
	gl.BindVertexArray(o.vao)
	gl.GenBuffers(1, &o.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, unsafe.Pointer(&quad[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 2*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	return o, nil
}

func (o *Overlay) caption(percent int) {
	if percent == o.captionPerc {
		return
	}
	if o.captionTex != 0 {
		gl.DeleteTextures(1, &o.captionTex)
	}
	l := o.raster.Rasterize(fmt.Sprintf("Loading: %d%%", percent))
	o.captionTex = uploadAlpha(l.Mask)
	b := l.Mask.Bounds()
	o.captionH = overlayTextSize
	o.captionW = b.Dx() * overlayTextSize / max(b.Dy(), 1)
	o.captionPerc = percent
}

// Draw renders the overlay at opacity alpha over a width x height viewport.
func (o *Overlay) Draw(percent int, alpha float32, width, height int) {
	if alpha <= 0 || width <= 0 || height <= 0 {
		return
	}
	percent = min(max(percent, 0), 100)
	o.caption(percent)

	// px converts a pixel rectangle centred on the screen to NDC.
	px := func(cx, cy, w, h float32) (float32, float32, float32, float32) {
		sx, sy := 2/float32(width), 2/float32(height)
		return (cx - w/2) * sx, (cy - h/2) * sy, (cx + w/2) * sx, (cy + h/2) * sy
	}

	p := o.prog
	p.Use()
	p.SetInt("uMask", 0)

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BindVertexArray(o.vao)

	rect := func(x0, y0, x1, y1 float32, r, g, b, a float32, mask bool) {
		p.SetVec4("uRect", x0, y0, x1, y1)
		p.SetVec4("uColor", r, g, b, a*alpha)
		p.SetBool("uUseMask", mask)
		gl.DrawArrays(gl.TRIANGLES, 0, 6)
	}

	rect(-1, -1, 1, 1, 0, 0, 0, 1, false)

	x0, y0, x1, y1 := px(0, 0, overlayBarWidth, overlayBarHeight)
	rect(x0, y0, x1, y1, 0.2, 0.2, 0.2, 1, false)
	x1 = x0 + (x1-x0)*float32(percent)/100
	rect(x0, y0, x1, y1, 1, 1, 1, 1, false)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, o.captionTex)
	cy := float32(overlayBarHeight/2+overlayTextGap) + float32(o.captionH)/2
	x0, y0, x1, y1 = px(0, cy, float32(o.captionW), float32(o.captionH))
	rect(x0, y0, x1, y1, 1, 1, 1, 1, true)

	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

// Close releases GL resources.
func (o *Overlay) Close() {
	if o.captionTex != 0 {
		gl.DeleteTextures(1, &o.captionTex)
	}
	if o.vao != 0 {
		gl.DeleteVertexArrays(1, &o.vao)
	}
	if o.vbo != 0 {
		gl.DeleteBuffers(1, &o.vbo)
	}
	o.prog.Delete()
}
