package anim

import "fmt"

// Clip is a playable animation handle
type Clip interface {
	FadeIn(seconds float64)
	Play()
}

// Mixer owns clip playback
type Mixer interface {
	StopAll()
}

// LocomotionStateMachine switches between the idle and moving clips.
// It has no blend state of its own: a transition completes immediately and
// the mixer carries the visual fade.
type LocomotionStateMachine struct {
	mixer Mixer
	clips [2]Clip
	state State

	transitions  int
	onTransition func(from, to State)
}

// NewLocomotionStateMachine creates a state machine in Idle and starts the
// idle clip.
func NewLocomotionStateMachine(mixer Mixer, idle, moving Clip) (*LocomotionStateMachine, error) {
	if mixer == nil {
		return nil, fmt.Errorf("%w: nil mixer", ErrPreconditionViolated)
	}
	if idle == nil || moving == nil {
		return nil, fmt.Errorf("%w: missing clip", ErrPreconditionViolated)
	}

	m := &LocomotionStateMachine{
		mixer: mixer,
		clips: [2]Clip{Idle: idle, Moving: moving},
		state: Idle,
	}
	m.enter(Idle)
	return m, nil
}

// State returns the current state
func (m *LocomotionStateMachine) State() State {
	return m.state
}

// Transitions returns how many transitions have fired since construction
func (m *LocomotionStateMachine) Transitions() int {
	return m.transitions
}

// OnTransition registers a callback invoked after each transition
func (m *LocomotionStateMachine) OnTransition(fn func(from, to State)) {
	m.onTransition = fn
}

// SetMoving feeds the input-liveness signal. It reports whether a transition
// fired; repeating the current signal is a no-op.
func (m *LocomotionStateMachine) SetMoving(moving bool) bool {
	target := Idle
	if moving {
		target = Moving
	}
	if target == m.state {
		return false
	}

	from := m.state
	m.state = target
	m.transitions++
	m.enter(target)

	if m.onTransition != nil {
		m.onTransition(from, target)
	}
	return true
}

func (m *LocomotionStateMachine) enter(s State) {
	m.mixer.StopAll()
	clip := m.clips[s]
	clip.FadeIn(BlendDuration)
	clip.Play()
}
