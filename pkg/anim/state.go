// Package anim selects and blends the character's idle and locomotion clips.
package anim

import (
	"errors"
	"fmt"
)

// ErrPreconditionViolated is returned when a required collaborator is missing
var ErrPreconditionViolated = errors.New("anim: precondition violated")

// BlendDuration is the fade-in window used on every state transition, in seconds
const BlendDuration = 0.2

// State is a locomotion animation state
type State int

const (
	Idle State = iota
	Moving
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Moving:
		return "moving"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}
