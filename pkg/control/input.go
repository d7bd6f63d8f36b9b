package control

import "sync"

// KeyEvent is a single key transition waiting to be applied
type KeyEvent struct {
	Key  Key
	Down bool
}

// IntentSource supplies the intent snapshot read by the motion controller
type IntentSource interface {
	Read() Intent
}

// InputState records which directional intents are held.
//
// Key callbacks only enqueue events; the tick driver applies them with Drain
// at the top of a tick, so an update never sees intents change under it.
// OnKeyDown and OnKeyUp may be called from any goroutine.
type InputState struct {
	keys *KeyMap

	mu      sync.Mutex
	pending []KeyEvent

	intent Intent
	held   map[Key]struct{}
}

// NewInputState creates an input state with every intent released.
// A nil key map falls back to DefaultKeyMap.
func NewInputState(keys *KeyMap) *InputState {
	if keys == nil {
		keys = DefaultKeyMap()
	}
	return &InputState{
		keys: keys,
		held: make(map[Key]struct{}),
	}
}

// KeyMap returns the active key map
func (s *InputState) KeyMap() *KeyMap {
	return s.keys
}

// OnKeyDown queues a key press
func (s *InputState) OnKeyDown(key Key) {
	s.enqueue(KeyEvent{Key: key, Down: true})
}

// OnKeyUp queues a key release
func (s *InputState) OnKeyUp(key Key) {
	s.enqueue(KeyEvent{Key: key, Down: false})
}

func (s *InputState) enqueue(ev KeyEvent) {
	s.mu.Lock()
	s.pending = append(s.pending, ev)
	s.mu.Unlock()
}

// Pending returns the number of queued events
func (s *InputState) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Drain applies every queued event in arrival order. After each event the
// optional callback observes the updated state; it returns the number applied.
func (s *InputState) Drain(after func(KeyEvent)) int {
	s.mu.Lock()
	events := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, ev := range events {
		s.Apply(ev)
		if after != nil {
			after(ev)
		}
	}
	return len(events)
}

// Apply applies a key transition immediately. Unmapped keys only affect the
// coarse any-key signal.
func (s *InputState) Apply(ev KeyEvent) {
	if ev.Down {
		s.held[ev.Key] = struct{}{}
	} else {
		delete(s.held, ev.Key)
	}

	d, ok := s.keys.Lookup(ev.Key)
	if !ok {
		return
	}
	s.intent = s.intent.Set(d, ev.Down)
}

// Read returns a snapshot of the directional intents
func (s *InputState) Read() Intent {
	return s.intent
}

// AnyKeyHeld reports whether any key at all is held, mapped or not
func (s *InputState) AnyKeyHeld() bool {
	return len(s.held) > 0
}

// Reset releases every intent and drops queued events
func (s *InputState) Reset() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()

	s.intent = Intent{}
	s.held = make(map[Key]struct{})
}
