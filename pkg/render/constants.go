package render

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/leterax/go-stroll/pkg/control"
)

// glfw keys with a fixed name in the control key space
var keyNames = map[glfw.Key]control.Key{
	glfw.KeyW:     control.KeyW,
	glfw.KeyA:     control.KeyA,
	glfw.KeyS:     control.KeyS,
	glfw.KeyD:     control.KeyD,
	glfw.KeyUp:    control.KeyUp,
	glfw.KeyDown:  control.KeyDown,
	glfw.KeyLeft:  control.KeyLeft,
	glfw.KeyRight: control.KeyRight,
	glfw.KeySpace: "space",
	glfw.KeyEnter: "enter",
	glfw.KeyTab:   "tab",

	glfw.KeyLeftShift:    "shift",
	glfw.KeyRightShift:   "shift",
	glfw.KeyLeftControl:  "ctrl",
	glfw.KeyRightControl: "ctrl",
}

// translateKey names a glfw key the way the terminal front-end would.
// Every key gets a name so unmapped keys still count as held.
func translateKey(key glfw.Key, scancode int) control.Key {
	if k, ok := keyNames[key]; ok {
		return k
	}
	if name := glfw.GetKeyName(key, scancode); name != "" {
		return control.Key(name)
	}
	if key == glfw.KeyUnknown {
		return control.Key(fmt.Sprintf("scancode%d", scancode))
	}
	return control.Key(fmt.Sprintf("key%d", int(key)))
}

// Camera constants
const (
	DefaultFOV = 75.0
	MinFOV     = 20.0
	MaxFOV     = 90.0

	DefaultNear = 0.1
	DefaultFar  = 100.0
)

// Scene constants
const (
	GroundSize = 3.0

	// frames longer than this (window drags, breakpoints) are clamped
	maxFrameDt = 0.25

	breathAmplitude = 0.04
	bobAmplitude    = 0.06
)
