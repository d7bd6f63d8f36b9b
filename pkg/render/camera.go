package render

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a fixed perspective camera looking at a target point.
// Only the field of view (scroll zoom) and the aspect ratio change.
type Camera struct {
	position mgl32.Vec3
	target   mgl32.Vec3
	worldUp  mgl32.Vec3

	fov  float32
	near float32
	far  float32

	projection mgl32.Mat4
	width      int
	height     int
}

// NewCamera creates a camera at position looking at target
func NewCamera(position, target mgl32.Vec3, fov, near, far float32) *Camera {
	if fov <= 0 {
		fov = DefaultFOV
	}
	if near <= 0 {
		near = DefaultNear
	}
	if far <= near {
		far = DefaultFar
	}
	c := &Camera{
		position: position,
		target:   target,
		worldUp:  mgl32.Vec3{0, 1, 0},
		fov:      clampFOV(fov),
		near:     near,
		far:      far,
		width:    800,
		height:   600,
	}
	c.updateProjectionMatrix()
	return c
}

func clampFOV(fov float32) float32 {
	return math32.Max(MinFOV, math32.Min(MaxFOV, fov))
}

func (c *Camera) updateProjectionMatrix() {
	aspect := float32(c.width) / float32(c.height)
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.fov), aspect, c.near, c.far)
}

// UpdateProjectionMatrix updates the projection for a new framebuffer size.
// A minimised window reports 0×0 and keeps the previous aspect ratio.
func (c *Camera) UpdateProjectionMatrix(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width = width
	c.height = height
	c.updateProjectionMatrix()
}

// ViewMatrix returns the current view matrix
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.target, c.worldUp)
}

// ProjectionMatrix returns the current projection matrix
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// Position returns the camera position
func (c *Camera) Position() mgl32.Vec3 {
	return c.position
}

// FOV returns the vertical field of view in degrees
func (c *Camera) FOV() float32 {
	return c.fov
}

// Orientation returns yaw and pitch in degrees of the viewing direction
func (c *Camera) Orientation() (yaw, pitch float32) {
	d := c.target.Sub(c.position).Normalize()
	yaw = mgl32.RadToDeg(math32.Atan2(d.Z(), d.X()))
	pitch = mgl32.RadToDeg(math32.Asin(d.Y()))
	return yaw, pitch
}

// HandleMouseScroll zooms by narrowing or widening the field of view
func (c *Camera) HandleMouseScroll(yoffset float64) {
	c.fov = clampFOV(c.fov - float32(yoffset))
	c.updateProjectionMatrix()
}
