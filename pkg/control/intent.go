package control

import "strings"

// Direction identifies one of the four directional intents
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
)

// String returns the lower-case name of the direction
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection converts a direction name back into a Direction
func ParseDirection(name string) (Direction, bool) {
	switch strings.ToLower(name) {
	case "forward":
		return Forward, true
	case "backward":
		return Backward, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return 0, false
}

// Intent is the set of directional intents currently held. The flags are
// independent: Forward and Backward may both be held and cancel out through
// their signed accelerations.
type Intent struct {
	Forward  bool
	Backward bool
	Left     bool
	Right    bool
}

// Any reports whether at least one intent is held
func (i Intent) Any() bool {
	return i.Forward || i.Backward || i.Left || i.Right
}

// Held reports whether the given direction is held
func (i Intent) Held(d Direction) bool {
	switch d {
	case Forward:
		return i.Forward
	case Backward:
		return i.Backward
	case Left:
		return i.Left
	case Right:
		return i.Right
	}
	return false
}

// Set returns a copy of the intent with the direction set to held
func (i Intent) Set(d Direction, held bool) Intent {
	switch d {
	case Forward:
		i.Forward = held
	case Backward:
		i.Backward = held
	case Left:
		i.Left = held
	case Right:
		i.Right = held
	}
	return i
}

// String renders held intents as a compact "F.L." style mask
func (i Intent) String() string {
	var b strings.Builder
	for _, f := range []struct {
		held bool
		c    byte
	}{{i.Forward, 'F'}, {i.Backward, 'B'}, {i.Left, 'L'}, {i.Right, 'R'}} {
		if f.held {
			b.WriteByte(f.c)
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}
