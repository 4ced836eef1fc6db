// Package camera provides the fixed perspective camera the scene is viewed through.
package camera

import (
	gomath "math"

	"github.com/Faultbox/blobscene/pkg/math"
)

// Defaults match the scene layout: the blob at the origin, labels at z=3.
const (
	DefaultFovY     = 75.0 // degrees
	DefaultNear     = 0.1
	DefaultFar      = 1000.0
	DefaultDistance = 5.0
)

// Perspective is a camera on the +Z axis looking at the origin.
type Perspective struct {
	FovY     float32 // vertical field of view, degrees
	Near     float32
	Far      float32
	Position math.Vec3

	aspect float32
}

// New creates the scene camera for a viewport.
func New(width, height int) *Perspective {
	c := &Perspective{
		FovY:     DefaultFovY,
		Near:     DefaultNear,
		Far:      DefaultFar,
		Position: math.Vec3{Z: DefaultDistance},
	}
	c.Resize(width, height)
	return c
}

// Resize updates the aspect ratio. A degenerate viewport keeps the last one.
func (c *Perspective) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		if c.aspect == 0 {
			c.aspect = 1
		}
		return
	}
	c.aspect = float32(width) / float32(height)
}

// Aspect returns width/height.
func (c *Perspective) Aspect() float32 {
	return c.aspect
}

// ProjectionMatrix returns the perspective projection.
func (c *Perspective) ProjectionMatrix() math.Mat4 {
	fov := float32(float64(c.FovY) * gomath.Pi / 180)
	return math.Perspective(fov, c.aspect, c.Near, c.Far)
}

// ViewMatrix returns the view matrix for this camera.
func (c *Perspective) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, math.Vec3{}, math.Vec3{Y: 1})
}

// ViewProjection returns projection * view.
func (c *Perspective) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}
