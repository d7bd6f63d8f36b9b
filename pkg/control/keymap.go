package control

import (
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

// Key is a physical key name as reported by a front-end ("w", "up", "space").
// Names follow the terminal key names so the TUI can pass them through unchanged.
type Key string

// Keys bound by DefaultKeyMap
const (
	KeyW     Key = "w"
	KeyA     Key = "a"
	KeyS     Key = "s"
	KeyD     Key = "d"
	KeyUp    Key = "up"
	KeyDown  Key = "down"
	KeyLeft  Key = "left"
	KeyRight Key = "right"
)

// Binding pairs a key with the direction it drives
type Binding struct {
	Key       Key
	Direction Direction
}

// KeyMap maps keys to directions and remembers the order bindings were declared in
type KeyMap struct {
	bindings *orderedmap.OrderedMap[Key, Direction]
}

// NewKeyMap builds a key map from bindings. Later bindings for the same key win.
func NewKeyMap(bindings ...Binding) *KeyMap {
	km := &KeyMap{bindings: orderedmap.NewOrderedMap[Key, Direction]()}
	for _, b := range bindings {
		km.Bind(b.Key, b.Direction)
	}
	return km
}

// DefaultKeyMap binds WASD and the arrow keys
func DefaultKeyMap() *KeyMap {
	return NewKeyMap(
		Binding{KeyW, Forward},
		Binding{KeyS, Backward},
		Binding{KeyA, Left},
		Binding{KeyD, Right},
		Binding{KeyUp, Forward},
		Binding{KeyDown, Backward},
		Binding{KeyLeft, Left},
		Binding{KeyRight, Right},
	)
}

// ParseBinding parses a "key=direction" pair, e.g. "w=forward"
func ParseBinding(s string) (Binding, error) {
	key, dir, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return Binding{}, fmt.Errorf("binding %q: expected key=direction", s)
	}
	d, ok := ParseDirection(strings.TrimSpace(dir))
	if !ok {
		return Binding{}, fmt.Errorf("binding %q: unknown direction %q", s, dir)
	}
	return Binding{Key: Key(strings.ToLower(strings.TrimSpace(key))), Direction: d}, nil
}

// Bind maps key to direction
func (km *KeyMap) Bind(key Key, d Direction) {
	km.bindings.Set(key, d)
}

// Lookup returns the direction bound to key
func (km *KeyMap) Lookup(key Key) (Direction, bool) {
	return km.bindings.Get(key)
}

// Bindings returns all bindings in declaration order
func (km *KeyMap) Bindings() []Binding {
	out := make([]Binding, 0, km.bindings.Len())
	for el := km.bindings.Front(); el != nil; el = el.Next() {
		out = append(out, Binding{Key: el.Key, Direction: el.Value})
	}
	return out
}

// KeysFor returns the keys bound to d in declaration order
func (km *KeyMap) KeysFor(d Direction) []Key {
	var keys []Key
	for el := km.bindings.Front(); el != nil; el = el.Next() {
		if el.Value == d {
			keys = append(keys, el.Key)
		}
	}
	return keys
}
