package replay

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/leterax/go-stroll/internal/logger"
	"github.com/leterax/go-stroll/pkg/anim"
	"github.com/leterax/go-stroll/pkg/scene"
)

const walkScript = `
name: walk
tick_rate: 60
duration: 1
events:
  - {at: 0, key: w, down: true}
`

func newScene(t *testing.T) *scene.Context {
	t.Helper()
	opts := scene.DefaultOptions()
	opts.Logger = logger.New(logger.Config{Output: io.Discard})
	sc, err := scene.New(opts)
	if err != nil {
		t.Fatalf("scene.New: %v", err)
	}
	return sc
}

func mustParse(t *testing.T, src string) *Script {
	t.Helper()
	s, err := ParseScript([]byte(src))
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	return s
}

func TestRun_GoldenForward(t *testing.T) {
	traj, err := Run(context.Background(), newScene(t), mustParse(t, walkScript))
	if err != nil {
		t.Fatal(err)
	}
	if len(traj.Frames) != 60 {
		t.Fatalf("expected 60 frames, got %d", len(traj.Frames))
	}

	decay := math.Pow(11.0/12.0, 60)
	f := traj.Final()
	if want := 10 * (1 - decay); math.Abs(f.Velocity.Z()-want) > 1e-9 {
		t.Errorf("velocity: want %v, got %v", want, f.Velocity.Z())
	}
	if want := 10 - (11.0/6.0)*(1-decay); math.Abs(f.Pose.Position.Z()-want) > 1e-9 {
		t.Errorf("position: want %v, got %v", want, f.Pose.Position.Z())
	}
}

func TestRun_DigestDeterministic(t *testing.T) {
	script := mustParse(t, `
tick_rate: 50
duration: 2
events:
  - {at: 0, key: w, hold: 1.2}
  - {at: 0.5, key: a, hold: 0.4}
  - {at: 1.5, key: d, hold: 0.3}
`)

	a, err := Run(context.Background(), newScene(t), script)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(context.Background(), newScene(t), script)
	if err != nil {
		t.Fatal(err)
	}
	if a.Digest() != b.Digest() {
		t.Errorf("digests differ: %x vs %x", a.Digest(), b.Digest())
	}

	other, _ := Run(context.Background(), newScene(t), mustParse(t, walkScript))
	if other.Digest() == a.Digest() {
		t.Error("different scripts should not share a digest")
	}
}

func TestRun_HoldReleases(t *testing.T) {
	script := mustParse(t, `
tick_rate: 10
duration: 1
events:
  - {at: 0, key: w, hold: 0.5}
`)
	traj, err := Run(context.Background(), newScene(t), script)
	if err != nil {
		t.Fatal(err)
	}

	for i, f := range traj.Frames {
		want := anim.Idle
		if i < 5 {
			want = anim.Moving
		}
		if f.State != want {
			t.Errorf("frame %d: want %v, got %v", i, want, f.State)
		}
	}
	if got := traj.Transitions(); got != 1 {
		t.Errorf("expected 1 recorded transition, got %d", got)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	traj, err := Run(ctx, newScene(t), mustParse(t, walkScript))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(traj.Frames) != 0 {
		t.Errorf("expected no frames, got %d", len(traj.Frames))
	}
}

func TestRun_ClosedScene(t *testing.T) {
	sc := newScene(t)
	sc.Close()
	if _, err := Run(context.Background(), sc, mustParse(t, walkScript)); !errors.Is(err, scene.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestParseScript_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad yaml", "tick_rate: [1"},
		{"no tick rate", "duration: 1"},
		{"no duration", "tick_rate: 60"},
		{"missing key", "tick_rate: 60\nduration: 1\nevents: [{at: 0}]"},
		{"negative time", "tick_rate: 60\nduration: 1\nevents: [{at: -1, key: w}]"},
		{"negative hold", "tick_rate: 60\nduration: 1\nevents: [{at: 0, key: w, hold: -1}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScript([]byte(tt.src)); !errors.Is(err, ErrInvalidScript) {
				t.Errorf("expected ErrInvalidScript, got %v", err)
			}
		})
	}
}

func TestScript_Timeline(t *testing.T) {
	s := &Script{TickRate: 10, Duration: 1, Events: []Event{
		{At: 0.5, Key: "a", Down: true},
		{At: 0, Key: "w", Hold: 0.3},
		{At: 0.5, Key: "d", Down: true},
	}}

	got := s.Timeline()
	want := []Event{
		{At: 0, Key: "w", Down: true},
		{At: 0.3, Key: "w", Down: false},
		{At: 0.5, Key: "a", Down: true},
		{At: 0.5, Key: "d", Down: true},
	}
	if len(got) != len(want) {
		t.Fatalf("want %d events, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: want %+v, got %+v", i, want[i], got[i])
		}
	}
	if s.Steps() != 10 {
		t.Errorf("expected 10 steps, got %d", s.Steps())
	}
}
