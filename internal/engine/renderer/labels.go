package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/blobscene/internal/blob"
	"github.com/Faultbox/blobscene/internal/engine/camera"
	"github.com/Faultbox/blobscene/internal/engine/renderer/shaders"
	"github.com/Faultbox/blobscene/internal/engine/shader"
	"github.com/Faultbox/blobscene/internal/engine/text"
	"github.com/Faultbox/blobscene/pkg/math"
)

// Label quads are subdivided so the bend in the vertex shader stays smooth.
const (
	labelSegmentsX = 20
	labelSegmentsY = 4
)

type labelTexture struct {
	id     uint32
	width  float32 // ems
	height float32 // ems
}

// LabelRenderer draws the preset names as bending text quads.
type LabelRenderer struct {
	prog *shader.Program

	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	textures map[string]labelTexture
	log      *zap.Logger
}

// NewLabelRenderer rasterizes every name once and uploads the masks.
func NewLabelRenderer(raster *text.Rasterizer, names []string, log *zap.Logger) (*LabelRenderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	prog, err := shader.NewProgram(shaders.LabelVertexShader, shaders.LabelFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("label shader: %w", err)
	}

	lr := &LabelRenderer{
		prog:     prog,
		textures: make(map[string]labelTexture, len(names)),
		log:      log,
	}
	lr.createGrid()

	for _, name := range names {
		if _, ok := lr.textures[name]; ok {
			continue
		}
		l := raster.Rasterize(name)
		lr.textures[name] = labelTexture{
			id:     uploadAlpha(l.Mask),
			width:  float32(l.Width),
			height: float32(l.Height),
		}
	}
	log.Debug("labels rasterized", zap.Int("count", len(lr.textures)))
	return lr, nil
}

// createGrid builds a unit quad centred on the origin, uv v=0 at the top
// row to match the mask's row order.
func (lr *LabelRenderer) createGrid() {
	var vertices []float32
	for y := 0; y <= labelSegmentsY; y++ {
		fy := float32(y) / labelSegmentsY
		for x := 0; x <= labelSegmentsX; x++ {
			fx := float32(x) / labelSegmentsX
			vertices = append(vertices, fx-0.5, fy-0.5, fx, 1-fy)
		}
	}

	var indices []uint32
	row := uint32(labelSegmentsX + 1)
	for y := uint32(0); y < labelSegmentsY; y++ {
		for x := uint32(0); x < labelSegmentsX; x++ {
			i := y*row + x
			indices = append(indices, i, i+1, i+row, i+1, i+row+1, i+row)
		}
	}
	lr.indexCount = int32(len(indices))

	gl.GenVertexArrays(1, &lr.vao)
	gl.BindVertexArray(lr.vao)

	gl.GenBuffers(1, &lr.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, lr.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &lr.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, lr.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 4*4, 0)
	gl.EnableVertexAttribArray(0)
	// UV
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 4*4, 2*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
}

// Draw renders every visible label. fontSize is the em size in world units.
func (lr *LabelRenderer) Draw(labels *blob.Labels, u *blob.TextUniforms, cam *camera.Perspective, fontSize float32) {
	p := lr.prog
	p.Use()

	viewProj := cam.ViewProjection()
	p.SetMat4("uViewProj", (*[16]float32)(&viewProj))
	p.SetFloat("uProgress", float32(u.Progress))
	p.SetFloat("uDirection", float32(u.Direction))
	p.SetInt("uMask", 0)

	gl.Enable(gl.BLEND)
	gl.Disable(gl.CULL_FACE)
	gl.DepthMask(false)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindVertexArray(lr.vao)

	for _, l := range labels.Items() {
		if !l.Visible() {
			continue
		}
		tex, ok := lr.textures[l.Text]
		if !ok {
			continue
		}
		s := float32(l.Scale) * fontSize
		model := math.Translate(float32(l.X), float32(l.Y), float32(l.Z)).
			Mul(math.Scale(tex.width*s, tex.height*s, s))
		p.SetMat4("uModel", (*[16]float32)(&model))

		gl.BindTexture(gl.TEXTURE_2D, tex.id)
		gl.DrawElements(gl.TRIANGLES, lr.indexCount, gl.UNSIGNED_INT, nil)
	}

	gl.BindVertexArray(0)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

// Close releases GL resources.
func (lr *LabelRenderer) Close() {
	for _, tex := range lr.textures {
		gl.DeleteTextures(1, &tex.id)
	}
	if lr.vao != 0 {
		gl.DeleteVertexArrays(1, &lr.vao)
	}
	if lr.vbo != 0 {
		gl.DeleteBuffers(1, &lr.vbo)
	}
	if lr.ebo != 0 {
		gl.DeleteBuffers(1, &lr.ebo)
	}
	lr.prog.Delete()
}
