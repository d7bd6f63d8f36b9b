package scene

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/leterax/go-stroll/internal/config"
	"github.com/leterax/go-stroll/internal/logger"
	"github.com/leterax/go-stroll/pkg/anim"
	"github.com/leterax/go-stroll/pkg/control"
)

func newTestContext(t *testing.T, mutate func(*Options)) *Context {
	t.Helper()
	opts := DefaultOptions()
	opts.Logger = logger.New(logger.Config{Level: "debug", Output: io.Discard})
	if mutate != nil {
		mutate(&opts)
	}
	c, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_StartsIdleAtOrigin(t *testing.T) {
	c := newTestContext(t, nil)

	if c.Locomotion().State() != anim.Idle {
		t.Errorf("expected Idle, got %v", c.Locomotion().State())
	}
	if c.Character().Pose() != control.IdentityPose() {
		t.Errorf("expected identity pose, got %+v", c.Character().Pose())
	}
	if c.Character().Scale != config.DefaultScale {
		t.Errorf("expected scale %v, got %v", config.DefaultScale, c.Character().Scale)
	}
	if w := c.Mixer().Weight("idle"); w != 0 {
		t.Errorf("idle clip should start its fade at weight 0, got %v", w)
	}
}

func TestNew_UnknownSignal(t *testing.T) {
	opts := DefaultOptions()
	opts.Signal = "telepathy"
	if _, err := New(opts); err == nil {
		t.Fatal("expected error for unknown signal")
	}
}

func TestTick_GoldenForward(t *testing.T) {
	c := newTestContext(t, nil)
	c.KeyDown(control.KeyW)

	var f Frame
	var err error
	for i := 0; i < 60; i++ {
		if f, err = c.Tick(1.0 / 60); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}

	decay := math.Pow(11.0/12.0, 60)
	wantV := 10 * (1 - decay)
	wantZ := 10 - (11.0/6.0)*(1-decay)
	if math.Abs(f.Velocity.Z()-wantV) > 1e-9 {
		t.Errorf("velocity: want %v, got %v", wantV, f.Velocity.Z())
	}
	if math.Abs(f.Pose.Position.Z()-wantZ) > 1e-9 {
		t.Errorf("position: want %v, got %v", wantZ, f.Pose.Position.Z())
	}
	if f.Tick != 60 || math.Abs(f.Time-1) > 1e-12 {
		t.Errorf("unexpected tick/time %d/%v", f.Tick, f.Time)
	}
	if f.State != anim.Moving || !f.Moved {
		t.Errorf("expected a moving frame, got %+v", f)
	}
}

func TestTick_EventsApplyOnNextTick(t *testing.T) {
	c := newTestContext(t, nil)
	c.KeyDown(control.KeyW)

	if c.Locomotion().State() != anim.Idle {
		t.Fatal("key event must not apply before the tick")
	}
	if _, err := c.Tick(0.01); err != nil {
		t.Fatal(err)
	}
	if c.Locomotion().State() != anim.Moving {
		t.Errorf("expected Moving after tick, got %v", c.Locomotion().State())
	}
}

func TestTick_NoMotionWhileIdle(t *testing.T) {
	c := newTestContext(t, nil)
	c.KeyDown(control.KeyW)
	for i := 0; i < 10; i++ {
		c.Tick(0.01)
	}
	c.KeyUp(control.KeyW)
	f, err := c.Tick(0.01)
	if err != nil {
		t.Fatal(err)
	}
	if f.State != anim.Idle {
		t.Fatalf("expected Idle after release, got %v", f.State)
	}
	if f.Moved {
		t.Error("motion must not update while idle")
	}

	before := f.Pose.Position
	f, _ = c.Tick(0.01)
	if f.Pose.Position != before {
		t.Errorf("position drifted while idle: %v -> %v", before, f.Pose.Position)
	}
	if f.Velocity.Z() <= 0 {
		t.Errorf("residual velocity should be kept, got %v", f.Velocity.Z())
	}
}

func TestTick_UpdateWhileIdleCoasts(t *testing.T) {
	c := newTestContext(t, func(o *Options) { o.UpdateWhileIdle = true })
	c.KeyDown(control.KeyW)
	for i := 0; i < 10; i++ {
		c.Tick(0.01)
	}
	c.KeyUp(control.KeyW)
	f1, _ := c.Tick(0.01)
	f2, _ := c.Tick(0.01)

	if f2.State != anim.Idle || !f2.Moved {
		t.Fatalf("expected idle coasting frame, got %+v", f2)
	}
	if f2.Pose.Position.Z() <= f1.Pose.Position.Z() {
		t.Error("character should coast forward while idle")
	}
	if f2.Velocity.Z() >= f1.Velocity.Z() {
		t.Error("coasting velocity should decay")
	}
}

func TestTick_AnimationSignal(t *testing.T) {
	tests := []struct {
		name   string
		signal string
		want   anim.State
	}{
		{"any key counts unmapped keys", config.SignalAnyKey, anim.Moving},
		{"intent ignores unmapped keys", config.SignalIntent, anim.Idle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContext(t, func(o *Options) { o.Signal = tt.signal })
			c.KeyDown("x")
			f, err := c.Tick(0.01)
			if err != nil {
				t.Fatal(err)
			}
			if f.State != tt.want {
				t.Errorf("want %v, got %v", tt.want, f.State)
			}
			if f.Pose.Position.Len() != 0 {
				t.Errorf("unmapped key moved the character to %v", f.Pose.Position)
			}
		})
	}
}

func TestTick_TransitionsFireOnEdges(t *testing.T) {
	c := newTestContext(t, nil)

	// down/up/down within one tick: each event feeds the state machine
	c.KeyDown(control.KeyW)
	c.KeyUp(control.KeyW)
	c.KeyDown(control.KeyW)
	c.KeyDown(control.KeyW)
	c.Tick(0.01)

	if got := c.Locomotion().Transitions(); got != 3 {
		t.Errorf("expected 3 transitions, got %d", got)
	}
	if c.Locomotion().State() != anim.Moving {
		t.Errorf("expected Moving, got %v", c.Locomotion().State())
	}
}

func TestTick_InvalidDt(t *testing.T) {
	c := newTestContext(t, nil)
	c.KeyDown(control.KeyW)

	for _, dt := range []float64{-0.1, math.NaN(), math.Inf(1)} {
		if _, err := c.Tick(dt); !errors.Is(err, control.ErrInvalidArgument) {
			t.Errorf("dt=%v: expected ErrInvalidArgument, got %v", dt, err)
		}
	}
	if c.Frame().Tick != 0 {
		t.Error("rejected ticks must not advance the scene")
	}
	if c.Input().Pending() != 1 {
		t.Error("rejected ticks must not drain input")
	}
}

func TestTick_Observers(t *testing.T) {
	c := newTestContext(t, nil)
	var frames []Frame
	c.AddObserver(ObserverFunc(func(f Frame) { frames = append(frames, f) }))

	c.KeyDown(control.KeyD)
	for i := 0; i < 3; i++ {
		c.Tick(0.5)
	}

	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	for i, f := range frames {
		if f.Tick != i+1 {
			t.Errorf("frame %d: tick %d", i, f.Tick)
		}
		if !f.Intent.Right {
			t.Errorf("frame %d: right intent missing", i)
		}
	}
	if frames[2].Pose.Heading() >= 0 {
		t.Errorf("turning right should give a negative heading, got %v", frames[2].Pose.Heading())
	}
}

func TestClose(t *testing.T) {
	c := newTestContext(t, nil)
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Tick(0.01); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}

func TestReset(t *testing.T) {
	c := newTestContext(t, nil)
	c.KeyDown(control.KeyW)
	for i := 0; i < 5; i++ {
		c.Tick(0.1)
	}
	c.Reset()

	f := c.Frame()
	if f.Tick != 0 || f.State != anim.Idle || f.Velocity.Len() != 0 || f.Pose != control.IdentityPose() {
		t.Errorf("reset left state behind: %+v", f)
	}
}
