package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/blobscene/internal/assets"
	"github.com/Faultbox/blobscene/internal/blob"
	"github.com/Faultbox/blobscene/internal/engine/camera"
	"github.com/Faultbox/blobscene/internal/engine/geometry"
	"github.com/Faultbox/blobscene/internal/engine/renderer/shaders"
	"github.com/Faultbox/blobscene/internal/engine/shader"
	"github.com/Faultbox/blobscene/pkg/math"
)

// BlobRenderer draws the deformed sphere.
type BlobRenderer struct {
	prog *shader.Program

	// Mesh
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32

	// Textures
	mapTex    uint32
	mapID     string
	envTex    uint32
	envLevels float32
	ambient   [3]float32

	log *zap.Logger
}

// NewBlobRenderer compiles the blob program and uploads mesh.
func NewBlobRenderer(mesh *geometry.Mesh, log *zap.Logger) (*BlobRenderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	prog, err := shader.NewProgram(shaders.BlobVertexShader, shaders.BlobFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("blob shader: %w", err)
	}

	br := &BlobRenderer{
		prog:       prog,
		indexCount: int32(len(mesh.Indices)),
		ambient:    [3]float32{0.6, 0.6, 0.6},
		log:        log,
	}
	br.upload(mesh)

	log.Debug("blob mesh uploaded",
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()))
	return br, nil
}

func (br *BlobRenderer) upload(mesh *geometry.Mesh) {
	vertices := mesh.Interleaved()

	gl.GenVertexArrays(1, &br.vao)
	gl.BindVertexArray(br.vao)

	gl.GenBuffers(1, &br.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, br.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &br.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, br.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	stride := int32(geometry.Stride * 4)
	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)
	// UV
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.EnableVertexAttribArray(2)
	// Tangent
	gl.VertexAttribPointerWithOffset(3, 4, gl.FLOAT, false, stride, 8*4)
	gl.EnableVertexAttribArray(3)

	gl.BindVertexArray(0)
}

// SetEnvironment uploads the reflection map. Without one the blob is lit
// by a flat ambient term.
func (br *BlobRenderer) SetEnvironment(hdr *assets.HDR) {
	if br.envTex != 0 {
		gl.DeleteTextures(1, &br.envTex)
	}
	br.envTex, br.envLevels = uploadHDR(hdr)
	r, g, b := hdr.Average()
	br.ambient = [3]float32{r, g, b}
}

// Sync consumes the material's dirty flags and uploads a replaced texture.
func (br *BlobRenderer) Sync(m *blob.Material) {
	dirty, _ := m.ConsumeDirty()
	if !dirty || m.Texture == nil || m.Texture.ID == br.mapID {
		return
	}
	if br.mapTex != 0 {
		gl.DeleteTextures(1, &br.mapTex)
	}
	br.mapTex = uploadRGBA(m.Texture.Image)
	br.mapID = m.Texture.ID
	br.log.Debug("gradient map uploaded", zap.String("texture", m.Texture.ID))
}

// Draw renders the blob rotated by the stage yaw.
func (br *BlobRenderer) Draw(m *blob.Material, stage *blob.Stage, cam *camera.Perspective) {
	br.Sync(m)

	p := br.prog
	p.Use()

	model := math.RotateY(float32(stage.RotationY))
	viewProj := cam.ViewProjection()
	normal := model.NormalMatrix()
	p.SetMat4("uModel", (*[16]float32)(&model))
	p.SetMat4("uViewProj", (*[16]float32)(&viewProj))
	p.SetMat3("uNormalMatrix", &normal)

	p.SetFloat(blob.UniformTime, float32(m.Uniform(blob.UniformTime)))
	for _, name := range blob.ShapeUniforms {
		p.SetFloat(name, float32(m.Uniform(name)))
	}

	p.SetVec3("uCameraPos", cam.Position.X, cam.Position.Y, cam.Position.Z)
	p.SetVec3("uColor", float32(m.Color.R), float32(m.Color.G), float32(m.Color.B))
	p.SetFloat("uMetalness", float32(m.Metalness))
	p.SetFloat("uRoughness", float32(m.Roughness))
	p.SetFloat("uEnvMapIntensity", float32(m.EnvMapIntensity))
	p.SetFloat("uClearcoat", float32(m.Clearcoat))
	p.SetFloat("uClearcoatRoughness", float32(m.ClearcoatRoughness))
	p.SetFloat("uTransmission", float32(m.Transmission))
	p.SetBool("uFlatShading", m.FlatShading)
	p.SetVec3("uAmbient", br.ambient[0], br.ambient[1], br.ambient[2])

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, br.mapTex)
	p.SetInt("uMap", 0)
	p.SetBool("uHasMap", br.mapTex != 0)

	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, br.envTex)
	p.SetInt("uEnvMap", 1)
	p.SetBool("uHasEnvMap", br.envTex != 0)
	p.SetFloat("uEnvMaxLod", br.envLevels)

	if m.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	gl.BindVertexArray(br.vao)
	gl.DrawElements(gl.TRIANGLES, br.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
	if m.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	gl.ActiveTexture(gl.TEXTURE0)
}

// Close releases GL resources.
func (br *BlobRenderer) Close() {
	if br.vao != 0 {
		gl.DeleteVertexArrays(1, &br.vao)
	}
	if br.vbo != 0 {
		gl.DeleteBuffers(1, &br.vbo)
	}
	if br.ebo != 0 {
		gl.DeleteBuffers(1, &br.ebo)
	}
	if br.mapTex != 0 {
		gl.DeleteTextures(1, &br.mapTex)
	}
	if br.envTex != 0 {
		gl.DeleteTextures(1, &br.envTex)
	}
	br.prog.Delete()
}
