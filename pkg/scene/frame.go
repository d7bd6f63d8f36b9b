package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/leterax/go-stroll/pkg/anim"
	"github.com/leterax/go-stroll/pkg/control"
)

// Frame is the state of the scene after one tick
type Frame struct {
	Tick     int
	Time     float64
	Dt       float64
	Pose     control.Pose
	Velocity mgl64.Vec3
	Intent   control.Intent
	State    anim.State
	Moved    bool // whether the motion controller ran this tick
}

// Observer receives a Frame after every tick
type Observer interface {
	OnFrame(f Frame)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }
