package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func newTestCamera() *Camera {
	return NewCamera(mgl32.Vec3{0, 1.2, 2}, mgl32.Vec3{}, DefaultFOV, DefaultNear, DefaultFar)
}

func TestCamera_TargetOnViewAxis(t *testing.T) {
	c := newTestCamera()
	p := c.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})

	if !mgl32.FloatEqualThreshold(p.X(), 0, 1e-5) || !mgl32.FloatEqualThreshold(p.Y(), 0, 1e-5) {
		t.Errorf("target should sit on the view axis, got %v", p)
	}
	want := -mgl32.Vec3{0, 1.2, 2}.Len()
	if !mgl32.FloatEqualThreshold(p.Z(), want, 1e-5) {
		t.Errorf("target depth: want %v, got %v", want, p.Z())
	}
}

func TestCamera_Orientation(t *testing.T) {
	yaw, pitch := newTestCamera().Orientation()
	if !mgl32.FloatEqualThreshold(yaw, -90, 1e-3) {
		t.Errorf("expected to look down -Z (yaw -90), got %v", yaw)
	}
	if pitch >= 0 {
		t.Errorf("expected to look down, got pitch %v", pitch)
	}
}

func TestCamera_ScrollZoomClamps(t *testing.T) {
	tests := []struct {
		name   string
		scroll float64
		want   float32
	}{
		{"zoom in", 5, DefaultFOV - 5},
		{"zoom out", -5, DefaultFOV + 5},
		{"max zoom in", 500, MinFOV},
		{"max zoom out", -500, MaxFOV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCamera()
			c.HandleMouseScroll(tt.scroll)
			if c.FOV() != tt.want {
				t.Errorf("want fov %v, got %v", tt.want, c.FOV())
			}
		})
	}
}

func TestCamera_ResizeIgnoresZero(t *testing.T) {
	c := newTestCamera()
	c.UpdateProjectionMatrix(1600, 900)
	before := c.ProjectionMatrix()

	c.UpdateProjectionMatrix(0, 0)
	if c.ProjectionMatrix() != before {
		t.Error("a minimised window must keep the projection")
	}
	if before == NewCamera(mgl32.Vec3{0, 1.2, 2}, mgl32.Vec3{}, DefaultFOV, DefaultNear, DefaultFar).ProjectionMatrix() {
		t.Error("resize should change the aspect ratio")
	}
}
