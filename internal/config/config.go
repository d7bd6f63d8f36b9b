package config

import (
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/leterax/go-stroll/pkg/control"
	"gopkg.in/yaml.v3"
)

// Animation signal sources
const (
	SignalAnyKey = "any_key"
	SignalIntent = "intent"
)

const (
	DefaultWidth    = 800
	DefaultHeight   = 600
	DefaultTitle    = "stroll"
	DefaultTickRate = 60
	DefaultFOV      = 75.0
	DefaultScale    = 0.4
)

type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Camera    CameraConfig    `yaml:"camera"`
	Motion    MotionConfig    `yaml:"motion"`
	Input     InputConfig     `yaml:"input"`
	Animation AnimationConfig `yaml:"animation"`
	Sim       SimConfig       `yaml:"sim"`
	Logging   LoggingConfig   `yaml:"logging"`
	Debug     DebugConfig     `yaml:"debug"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

type CameraConfig struct {
	Position [3]float64 `yaml:"position"`
	Target   [3]float64 `yaml:"target"`
	FOV      float64    `yaml:"fov"`
	Near     float64    `yaml:"near"`
	Far      float64    `yaml:"far"`
}

type MotionConfig struct {
	Deceleration    [3]float64 `yaml:"deceleration"`
	Acceleration    [3]float64 `yaml:"acceleration"`
	UpdateWhileIdle bool       `yaml:"update_while_idle"`
}

type InputConfig struct {
	// Bindings are "key=direction" pairs; empty means the default WASD/arrow map
	Bindings        []string `yaml:"bindings"`
	AnimationSignal string   `yaml:"animation_signal"`
}

type AnimationConfig struct {
	IdleClip       string  `yaml:"idle_clip"`
	IdleDuration   float64 `yaml:"idle_duration"`
	MovingClip     string  `yaml:"moving_clip"`
	MovingDuration float64 `yaml:"moving_duration"`
	Scale          float64 `yaml:"scale"`
}

type SimConfig struct {
	TickRate int `yaml:"tick_rate"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DebugConfig struct {
	StatsviewAddr string `yaml:"statsview_addr"`
	SentryDSN     string `yaml:"sentry_dsn"`
}

func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  DefaultTitle,
			VSync:  true,
		},
		Camera: CameraConfig{
			Position: [3]float64{0, 1.2, 2},
			FOV:      DefaultFOV,
			Near:     0.1,
			Far:      100,
		},
		Motion: MotionConfig{
			Deceleration: [3]float64(control.DefaultDeceleration),
			Acceleration: [3]float64(control.DefaultAcceleration),
		},
		Input: InputConfig{
			AnimationSignal: SignalAnyKey,
		},
		Animation: AnimationConfig{
			IdleClip:       "idle",
			IdleDuration:   2.0,
			MovingClip:     "walk",
			MovingDuration: 0.8,
			Scale:          DefaultScale,
		},
		Sim: SimConfig{TickRate: DefaultTickRate},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML file on top of the defaults and validates the result
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the settings the controller and window depend on
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", c.Sim.TickRate)
	}
	for i := 0; i < 3; i++ {
		if !finite(c.Motion.Deceleration[i]) || !finite(c.Motion.Acceleration[i]) {
			return fmt.Errorf("motion profile must be finite")
		}
		if c.Motion.Deceleration[i] > 0 {
			return fmt.Errorf("deceleration[%d] must not be positive, got %v", i, c.Motion.Deceleration[i])
		}
	}
	switch c.Input.AnimationSignal {
	case SignalAnyKey, SignalIntent:
	default:
		return fmt.Errorf("unknown animation signal %q", c.Input.AnimationSignal)
	}
	if c.Animation.IdleClip == "" || c.Animation.MovingClip == "" {
		return fmt.Errorf("animation clips must be named")
	}
	if c.Animation.IdleClip == c.Animation.MovingClip {
		return fmt.Errorf("idle and moving clips must differ, both are %q", c.Animation.IdleClip)
	}
	if _, err := c.KeyMap(); err != nil {
		return err
	}
	return nil
}

// Profile returns the damping profile for the motion controller
func (c *Config) Profile() control.DampingProfile {
	return control.DampingProfile{
		Deceleration: mgl64.Vec3(c.Motion.Deceleration),
		Acceleration: mgl64.Vec3(c.Motion.Acceleration),
	}
}

// KeyMap builds the key map from the configured bindings
func (c *Config) KeyMap() (*control.KeyMap, error) {
	if len(c.Input.Bindings) == 0 {
		return control.DefaultKeyMap(), nil
	}
	km := control.NewKeyMap()
	for _, s := range c.Input.Bindings {
		b, err := control.ParseBinding(s)
		if err != nil {
			return nil, err
		}
		km.Bind(b.Key, b.Direction)
	}
	return km, nil
}

// TickInterval returns the fixed tick length in seconds
func (c *Config) TickInterval() float64 {
	return 1.0 / float64(c.Sim.TickRate)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
