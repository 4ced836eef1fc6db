// Package renderer provides OpenGL rendering functionality.
package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/blobscene/internal/engine/camera"
	"github.com/Faultbox/blobscene/internal/preset"
)

// Config holds renderer configuration.
type Config struct {
	// Width and Height are the drawable size in pixels.
	Width  int
	Height int
}

// Renderer owns the GL state shared by the scene passes.
type Renderer struct {
	config Config
	camera *camera.Perspective
	log    *zap.Logger
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{
		config: cfg,
		camera: camera.New(cfg.Width, cfg.Height),
		log:    log,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Viewport(0, 0, int32(cfg.Width), int32(cfg.Height))

	return r, nil
}

// Camera returns the scene camera.
func (r *Renderer) Camera() *camera.Perspective {
	return r.camera
}

// Size returns the drawable size.
func (r *Renderer) Size() (int, int) {
	return r.config.Width, r.config.Height
}

// Resize handles drawable size changes.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	r.camera.Resize(width, height)
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame cleared to the scene background.
func (r *Renderer) Begin(bg preset.Color) {
	gl.ClearColor(float32(bg.R), float32(bg.G), float32(bg.B), 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ReadPixels reads the back buffer as bottom-up RGBA rows. Call it after
// drawing and before swapping.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

// Close releases shared state.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
}
