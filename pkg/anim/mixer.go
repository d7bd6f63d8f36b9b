package anim

import (
	"math"
	"sort"
)

// Action is a looping clip tracked by an AnimationMixer
type Action struct {
	name     string
	duration float64

	time    float64
	weight  float64
	playing bool

	fadeDuration float64
	fadeElapsed  float64
}

// Name returns the clip name
func (a *Action) Name() string { return a.name }

// Duration returns the loop length in seconds
func (a *Action) Duration() float64 { return a.duration }

// Time returns the playback position within the loop
func (a *Action) Time() float64 { return a.time }

// Weight returns the current blend weight in [0, 1]
func (a *Action) Weight() float64 { return a.weight }

// Playing reports whether the action is running
func (a *Action) Playing() bool { return a.playing }

// Phase returns the playback position as a fraction of the loop
func (a *Action) Phase() float64 {
	if a.duration <= 0 {
		return 0
	}
	return a.time / a.duration
}

// FadeIn ramps the weight from zero to one over the given number of seconds
func (a *Action) FadeIn(seconds float64) {
	a.fadeElapsed = 0
	if seconds <= 0 {
		a.fadeDuration = 0
		a.weight = 1
		return
	}
	a.fadeDuration = seconds
	a.weight = 0
}

// Play starts the action. Playing an action that is already running keeps its time.
func (a *Action) Play() {
	if a.playing {
		return
	}
	a.playing = true
	if a.fadeDuration == 0 && a.weight == 0 {
		a.weight = 1
	}
}

// Stop halts the action and rewinds it
func (a *Action) Stop() {
	a.playing = false
	a.time = 0
	a.weight = 0
	a.fadeDuration = 0
	a.fadeElapsed = 0
}

func (a *Action) advance(dt float64) {
	if !a.playing {
		return
	}
	if a.duration > 0 {
		a.time = math.Mod(a.time+dt, a.duration)
	}
	if a.fadeDuration > 0 {
		a.fadeElapsed += dt
		a.weight = math.Min(1, a.fadeElapsed/a.fadeDuration)
		if a.weight >= 1 {
			a.fadeDuration = 0
		}
	}
}

// AnimationMixer advances a set of named actions
type AnimationMixer struct {
	actions map[string]*Action
	time    float64
}

// NewMixer creates an empty mixer
func NewMixer() *AnimationMixer {
	return &AnimationMixer{actions: make(map[string]*Action)}
}

// Clip returns the action for name, creating it with the given loop length
// on first use.
func (m *AnimationMixer) Clip(name string, duration float64) *Action {
	if a, ok := m.actions[name]; ok {
		return a
	}
	a := &Action{name: name, duration: duration}
	m.actions[name] = a
	return a
}

// Action looks up an existing action
func (m *AnimationMixer) Action(name string) (*Action, bool) {
	a, ok := m.actions[name]
	return a, ok
}

// Weight returns the blend weight of the named action, zero if unknown
func (m *AnimationMixer) Weight(name string) float64 {
	if a, ok := m.actions[name]; ok {
		return a.weight
	}
	return 0
}

// StopAll stops every action
func (m *AnimationMixer) StopAll() {
	for _, a := range m.actions {
		a.Stop()
	}
}

// Playing returns the running actions sorted by name
func (m *AnimationMixer) Playing() []*Action {
	var out []*Action
	for _, a := range m.actions {
		if a.playing {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Time returns the total time the mixer has been advanced
func (m *AnimationMixer) Time() float64 {
	return m.time
}

// Update advances every running action by dt seconds. Negative dt is ignored.
func (m *AnimationMixer) Update(dt float64) {
	if dt <= 0 || math.IsNaN(dt) {
		return
	}
	m.time += dt
	for _, a := range m.actions {
		a.advance(dt)
	}
}
