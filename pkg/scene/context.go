// Package scene owns the character, its controllers and the per-frame tick.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/leterax/go-stroll/internal/config"
	"github.com/leterax/go-stroll/internal/logger"
	"github.com/leterax/go-stroll/pkg/anim"
	"github.com/leterax/go-stroll/pkg/control"
)

// ErrClosed is returned by Tick after Close
var ErrClosed = errors.New("scene: context closed")

// Options configures a Context
type Options struct {
	Profile         control.DampingProfile
	KeyMap          *control.KeyMap
	Signal          string // config.SignalAnyKey or config.SignalIntent
	UpdateWhileIdle bool

	IdleClip       string
	IdleDuration   float64
	MovingClip     string
	MovingDuration float64
	Scale          float64

	Logger *slog.Logger
}

// DefaultOptions mirrors config.DefaultConfig
func DefaultOptions() Options {
	opts, _ := OptionsFromConfig(config.DefaultConfig())
	return opts
}

// OptionsFromConfig extracts scene options from a loaded configuration
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	km, err := cfg.KeyMap()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Profile:         cfg.Profile(),
		KeyMap:          km,
		Signal:          cfg.Input.AnimationSignal,
		UpdateWhileIdle: cfg.Motion.UpdateWhileIdle,
		IdleClip:        cfg.Animation.IdleClip,
		IdleDuration:    cfg.Animation.IdleDuration,
		MovingClip:      cfg.Animation.MovingClip,
		MovingDuration:  cfg.Animation.MovingDuration,
		Scale:           cfg.Animation.Scale,
	}, nil
}

// Context is the explicit owner of everything the frame loop touches.
// It is constructed once, ticked every frame and closed on scene exit.
// Tick must be called from a single goroutine; KeyDown and KeyUp may be
// called from anywhere.
type Context struct {
	opts Options
	log  *slog.Logger

	input      *control.InputState
	motion     *control.MotionController
	locomotion *anim.LocomotionStateMachine
	mixer      *anim.AnimationMixer
	character  *Object

	observers []Observer
	last      Frame
	tick      int
	time      float64
	closed    bool
}

// New assembles a scene context with the character at rest in Idle
func New(opts Options) (*Context, error) {
	switch opts.Signal {
	case "":
		opts.Signal = config.SignalAnyKey
	case config.SignalAnyKey, config.SignalIntent:
	default:
		return nil, fmt.Errorf("scene: unknown animation signal %q", opts.Signal)
	}
	log := opts.Logger
	if log == nil {
		log = logger.L()
	}

	c := &Context{
		opts:      opts,
		log:       log.With("component", "scene"),
		input:     control.NewInputState(opts.KeyMap),
		mixer:     anim.NewMixer(),
		character: NewObject("character", opts.Scale),
	}

	var err error
	c.motion, err = control.NewMotionController(c.input, c.character, opts.Profile)
	if err != nil {
		return nil, err
	}
	c.locomotion, err = anim.NewLocomotionStateMachine(c.mixer,
		c.mixer.Clip(opts.IdleClip, opts.IdleDuration),
		c.mixer.Clip(opts.MovingClip, opts.MovingDuration))
	if err != nil {
		return nil, err
	}
	c.locomotion.OnTransition(func(from, to anim.State) {
		c.log.Debug("locomotion transition", "from", from, "to", to, "tick", c.tick)
	})

	c.last = c.snapshot(0, false)
	return c, nil
}

func (c *Context) Input() *control.InputState               { return c.input }
func (c *Context) Motion() *control.MotionController        { return c.motion }
func (c *Context) Locomotion() *anim.LocomotionStateMachine { return c.locomotion }
func (c *Context) Mixer() *anim.AnimationMixer              { return c.mixer }
func (c *Context) Character() *Object                       { return c.character }
func (c *Context) Options() Options                         { return c.opts }
func (c *Context) AddObserver(o Observer)                   { c.observers = append(c.observers, o) }

// KeyDown queues a key press for the next tick
func (c *Context) KeyDown(k control.Key) {
	c.input.OnKeyDown(k)
}

// KeyUp queues a key release for the next tick
func (c *Context) KeyUp(k control.Key) {
	c.input.OnKeyUp(k)
}

// Frame returns the frame produced by the latest tick
func (c *Context) Frame() Frame {
	return c.last
}

// Tick advances the scene by dt seconds.
//
// Queued key events are applied first, one at a time, feeding the animation
// signal after each so transitions fire on key edges. The motion controller
// runs only while the character is Moving unless UpdateWhileIdle is set; the
// mixer always advances.
func (c *Context) Tick(dt float64) (Frame, error) {
	if c.closed {
		return Frame{}, ErrClosed
	}
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return Frame{}, fmt.Errorf("%w: dt=%v", control.ErrInvalidArgument, dt)
	}

	c.input.Drain(func(control.KeyEvent) {
		c.locomotion.SetMoving(c.movingSignal())
	})

	moved := false
	if c.locomotion.State() == anim.Moving || c.opts.UpdateWhileIdle {
		if err := c.motion.Update(dt); err != nil {
			return Frame{}, err
		}
		moved = true
	}
	c.mixer.Update(dt)

	c.tick++
	c.time += dt
	c.last = c.snapshot(dt, moved)
	for _, o := range c.observers {
		o.OnFrame(c.last)
	}
	return c.last, nil
}

// Reset returns the character to the origin at rest and the animation to Idle
func (c *Context) Reset() {
	c.input.Reset()
	c.motion.Reset()
	c.character.SetPose(control.IdentityPose())
	c.locomotion.SetMoving(false)
	c.tick = 0
	c.time = 0
	c.last = c.snapshot(0, false)
}

// Close tears the scene down; later ticks fail with ErrClosed
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.mixer.StopAll()
	c.log.Info("scene closed", "ticks", c.tick, "elapsed", c.time)
	return nil
}

// movingSignal is the liveness input of the state machine. With any_key
// every held key counts, even one that maps to no direction.
func (c *Context) movingSignal() bool {
	if c.opts.Signal == config.SignalIntent {
		return c.input.Read().Any()
	}
	return c.input.AnyKeyHeld()
}

func (c *Context) snapshot(dt float64, moved bool) Frame {
	return Frame{
		Tick:     c.tick,
		Time:     c.time,
		Dt:       dt,
		Pose:     c.character.Pose(),
		Velocity: c.motion.Velocity(),
		Intent:   c.input.Read(),
		State:    c.locomotion.State(),
		Moved:    moved,
	}
}
