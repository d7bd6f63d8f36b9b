package control

import "github.com/go-gl/mathgl/mgl64"

// Default damping profile
var (
	DefaultDeceleration = mgl64.Vec3{-0.0005, -0.0001, -5.0}
	DefaultAcceleration = mgl64.Vec3{1, 0.25, 50.0}
)

// Reference axes. Y is up and the body faces +Z at identity orientation.
var (
	WorldUp      = mgl64.Vec3{0, 1, 0}
	LocalForward = mgl64.Vec3{0, 0, 1}
	LocalRight   = mgl64.Vec3{1, 0, 0}
)
