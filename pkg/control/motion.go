package control

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is the orientation and position of a controlled body
type Pose struct {
	Orientation mgl64.Quat
	Position    mgl64.Vec3
}

// IdentityPose returns a pose at the origin facing +Z
func IdentityPose() Pose {
	return Pose{Orientation: mgl64.QuatIdent()}
}

// Heading returns the yaw of the pose in radians, measured from +Z towards +X
func (p Pose) Heading() float64 {
	f := p.Orientation.Rotate(LocalForward)
	return math.Atan2(f.X(), f.Z())
}

// Body is an object whose pose the motion controller drives
type Body interface {
	Pose() Pose
	SetPose(Pose)
}

// DampingProfile holds the per-axis deceleration and acceleration of a
// controller. Deceleration components are negative.
type DampingProfile struct {
	Deceleration mgl64.Vec3
	Acceleration mgl64.Vec3
}

// DefaultProfile returns the stock walking profile
func DefaultProfile() DampingProfile {
	return DampingProfile{
		Deceleration: DefaultDeceleration,
		Acceleration: DefaultAcceleration,
	}
}

// MotionController integrates directional intents into a damped velocity and
// applies it to a body each tick.
//
// Velocity is expressed in the body's local frame: X lateral, Y vertical and
// Z longitudinal. No intent drives X or Y; they only decay.
type MotionController struct {
	input   IntentSource
	body    Body
	profile DampingProfile

	velocity mgl64.Vec3
}

// NewMotionController creates a controller at rest
func NewMotionController(input IntentSource, body Body, profile DampingProfile) (*MotionController, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: nil input source", ErrPreconditionViolated)
	}
	if body == nil {
		return nil, fmt.Errorf("%w: nil body", ErrPreconditionViolated)
	}
	return &MotionController{
		input:   input,
		body:    body,
		profile: profile,
	}, nil
}

// Velocity returns the current local-frame velocity
func (c *MotionController) Velocity() mgl64.Vec3 {
	return c.velocity
}

// Profile returns the damping profile
func (c *MotionController) Profile() DampingProfile {
	return c.profile
}

// Reset brings the controller to rest without touching the body
func (c *MotionController) Reset() {
	c.velocity = mgl64.Vec3{}
}

// Update advances the controller by dt seconds. dt must be finite and
// non-negative; otherwise ErrInvalidArgument is returned and nothing changes.
func (c *MotionController) Update(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return fmt.Errorf("%w: dt=%v", ErrInvalidArgument, dt)
	}

	intent := c.input.Read()
	velocity := c.velocity
	decel := c.profile.Deceleration
	accel := c.profile.Acceleration

	frameDecel := mgl64.Vec3{
		velocity.X() * decel.X() * dt,
		velocity.Y() * decel.Y() * dt,
		velocity.Z() * decel.Z() * dt,
	}
	// Never decelerate past zero
	frameDecel[2] = math.Copysign(math.Min(math.Abs(frameDecel.Z()), math.Abs(velocity.Z())), frameDecel.Z())
	velocity = velocity.Add(frameDecel)

	if intent.Forward {
		velocity[2] += accel.Z() * dt
	}
	if intent.Backward {
		velocity[2] -= accel.Z() * dt
	}

	pose := c.body.Pose()
	orientation := pose.Orientation
	if intent.Left {
		orientation = orientation.Mul(mgl64.QuatRotate(math.Pi*dt*accel.Y(), WorldUp))
	}
	if intent.Right {
		orientation = orientation.Mul(mgl64.QuatRotate(-math.Pi*dt*accel.Y(), WorldUp))
	}
	orientation = orientation.Normalize()

	forward := orientation.Rotate(LocalForward).Normalize()
	sideways := orientation.Rotate(LocalRight).Normalize()

	step := sideways.Mul(velocity.X() * dt).Add(forward.Mul(velocity.Z() * dt))

	c.velocity = velocity
	c.body.SetPose(Pose{
		Orientation: orientation,
		Position:    pose.Position.Add(step),
	})
	return nil
}
