package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/leterax/go-stroll/pkg/control"
)

// Object is a placed scene object: the character rig the controller drives
type Object struct {
	Name  string
	Scale float64

	pose control.Pose
}

// NewObject creates an object at the origin facing +Z
func NewObject(name string, scale float64) *Object {
	return &Object{
		Name:  name,
		Scale: scale,
		pose:  control.IdentityPose(),
	}
}

// Pose returns the current pose
func (o *Object) Pose() control.Pose {
	return o.pose
}

// SetPose replaces orientation and position together
func (o *Object) SetPose(p control.Pose) {
	o.pose = p
}

// Model returns the object's model matrix (translate * rotate * scale)
func (o *Object) Model() mgl64.Mat4 {
	s := o.Scale
	if s == 0 {
		s = 1
	}
	p := o.pose.Position
	return mgl64.Translate3D(p.X(), p.Y(), p.Z()).
		Mul4(o.pose.Orientation.Mat4()).
		Mul4(mgl64.Scale3D(s, s, s))
}
