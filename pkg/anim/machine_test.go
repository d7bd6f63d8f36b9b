package anim

import (
	"errors"
	"reflect"
	"testing"
)

type recorder struct {
	calls []string
}

type recordingMixer struct{ rec *recorder }

func (m recordingMixer) StopAll() { m.rec.calls = append(m.rec.calls, "stopAll") }

type recordingClip struct {
	name string
	rec  *recorder
}

func (c recordingClip) FadeIn(seconds float64) {
	if seconds != BlendDuration {
		c.rec.calls = append(c.rec.calls, "badFade:"+c.name)
		return
	}
	c.rec.calls = append(c.rec.calls, "fadeIn:"+c.name)
}

func (c recordingClip) Play() { c.rec.calls = append(c.rec.calls, "play:"+c.name) }

func newRecordingMachine(t *testing.T) (*LocomotionStateMachine, *recorder) {
	t.Helper()
	rec := &recorder{}
	m, err := NewLocomotionStateMachine(recordingMixer{rec},
		recordingClip{"idle", rec}, recordingClip{"walk", rec})
	if err != nil {
		t.Fatal(err)
	}
	return m, rec
}

func TestNewLocomotionStateMachine_StartsIdle(t *testing.T) {
	m, rec := newRecordingMachine(t)

	if m.State() != Idle {
		t.Errorf("expected Idle, got %v", m.State())
	}
	want := []string{"stopAll", "fadeIn:idle", "play:idle"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
	if m.Transitions() != 0 {
		t.Errorf("entering the initial state counted as a transition")
	}
}

func TestNewLocomotionStateMachine_MissingCollaborators(t *testing.T) {
	rec := &recorder{}
	clip := recordingClip{"x", rec}

	tests := []struct {
		name  string
		mixer Mixer
		idle  Clip
		walk  Clip
	}{
		{"nil mixer", nil, clip, clip},
		{"nil idle", recordingMixer{rec}, nil, clip},
		{"nil moving", recordingMixer{rec}, clip, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLocomotionStateMachine(tt.mixer, tt.idle, tt.walk)
			if !errors.Is(err, ErrPreconditionViolated) {
				t.Errorf("expected ErrPreconditionViolated, got %v", err)
			}
		})
	}
}

func TestSetMoving_Transitions(t *testing.T) {
	m, rec := newRecordingMachine(t)
	rec.calls = nil

	if !m.SetMoving(true) {
		t.Fatal("expected Idle->Moving to fire")
	}
	want := []string{"stopAll", "fadeIn:walk", "play:walk"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}

	rec.calls = nil
	if !m.SetMoving(false) {
		t.Fatal("expected Moving->Idle to fire")
	}
	want = []string{"stopAll", "fadeIn:idle", "play:idle"}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("calls = %v, want %v", rec.calls, want)
	}
	if m.Transitions() != 2 {
		t.Errorf("expected 2 transitions, got %d", m.Transitions())
	}
}

func TestSetMoving_Idempotent(t *testing.T) {
	m, rec := newRecordingMachine(t)
	rec.calls = nil

	m.SetMoving(true)
	if m.SetMoving(true) {
		t.Error("second key-down fired a transition")
	}

	fades := 0
	for _, c := range rec.calls {
		if c == "fadeIn:walk" {
			fades++
		}
	}
	if fades != 1 {
		t.Errorf("walk faded in %d times, want 1", fades)
	}

	rec.calls = nil
	if m.SetMoving(true) || len(rec.calls) != 0 {
		t.Errorf("re-entrant transition touched the mixer: %v", rec.calls)
	}
}

func TestOnTransition(t *testing.T) {
	m, _ := newRecordingMachine(t)

	var got [][2]State
	m.OnTransition(func(from, to State) {
		got = append(got, [2]State{from, to})
	})
	m.SetMoving(true)
	m.SetMoving(true)
	m.SetMoving(false)

	want := [][2]State{{Idle, Moving}, {Moving, Idle}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("transitions = %v, want %v", got, want)
	}
}

func TestMachineWithMixer_SingleClipAtSteadyState(t *testing.T) {
	mixer := NewMixer()
	idle := mixer.Clip("idle", 2)
	walk := mixer.Clip("walk", 1)

	m, err := NewLocomotionStateMachine(mixer, idle, walk)
	if err != nil {
		t.Fatal(err)
	}

	for _, moving := range []bool{true, true, false, true, false, false} {
		m.SetMoving(moving)
		mixer.Update(0.5)

		playing := mixer.Playing()
		if len(playing) != 1 {
			t.Fatalf("expected one playing clip, got %d", len(playing))
		}
		wantName := "idle"
		if moving {
			wantName = "walk"
		}
		if playing[0].Name() != wantName {
			t.Errorf("playing %q, want %q", playing[0].Name(), wantName)
		}
	}
}

func TestState_String(t *testing.T) {
	if Idle.String() != "idle" || Moving.String() != "moving" || State(7).String() != "state(7)" {
		t.Error("unexpected state names")
	}
}
