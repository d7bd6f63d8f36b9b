package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leterax/go-stroll/pkg/control"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Input.AnimationSignal != SignalAnyKey {
		t.Errorf("expected any_key signal, got %s", cfg.Input.AnimationSignal)
	}
	if cfg.Profile() != control.DefaultProfile() {
		t.Errorf("default profile mismatch: %+v", cfg.Profile())
	}
	if got := cfg.TickInterval(); got != 1.0/60 {
		t.Errorf("tick interval = %v", got)
	}
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stroll.yaml")
	data := []byte(`
window:
  width: 1024
motion:
  acceleration: [1, 0.5, 80]
input:
  animation_signal: intent
  bindings: ["i=forward", "k=backward"]
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Window.Width != 1024 || cfg.Window.Height != DefaultHeight {
		t.Errorf("window = %+v", cfg.Window)
	}
	if cfg.Motion.Acceleration != [3]float64{1, 0.5, 80} {
		t.Errorf("acceleration = %v", cfg.Motion.Acceleration)
	}
	if cfg.Motion.Deceleration != [3]float64(control.DefaultDeceleration) {
		t.Errorf("deceleration lost its default: %v", cfg.Motion.Deceleration)
	}

	km, err := cfg.KeyMap()
	if err != nil {
		t.Fatal(err)
	}
	if d, ok := km.Lookup("i"); !ok || d != control.Forward {
		t.Errorf("binding i = %v, %v", d, ok)
	}
	if _, ok := km.Lookup(control.KeyW); ok {
		t.Error("custom bindings should replace the defaults")
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	_ = os.WriteFile(bad, []byte("window: [oops"), 0644)
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	_ = os.WriteFile(invalid, []byte("sim:\n  tick_rate: 0\n"), 0644)
	if _, err := Load(invalid); err == nil {
		t.Error("expected validation error")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Debug.StatsviewAddr = "localhost:18066"
	if err := cfg.ApplyPreset("tank"); err != nil {
		t.Fatal(err)
	}

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Motion != cfg.Motion || got.Debug != cfg.Debug {
		t.Errorf("round trip mismatch: %+v vs %+v", got.Motion, cfg.Motion)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative tick rate", func(c *Config) { c.Sim.TickRate = -1 }},
		{"positive deceleration", func(c *Config) { c.Motion.Deceleration[2] = 5 }},
		{"unknown signal", func(c *Config) { c.Input.AnimationSignal = "always" }},
		{"same clips", func(c *Config) { c.Animation.MovingClip = c.Animation.IdleClip }},
		{"empty clip", func(c *Config) { c.Animation.IdleClip = "" }},
		{"bad binding", func(c *Config) { c.Input.Bindings = []string{"w=up"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) || names[0] != "default" {
		t.Errorf("ListPresets() = %v", names)
	}

	p, ok := GetPreset("default")
	if !ok || p.Acceleration != [3]float64(control.DefaultAcceleration) {
		t.Errorf("default preset = %+v", p)
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyPreset("nonexistent"); err == nil {
		t.Error("expected error for unknown preset")
	}
	for _, name := range names {
		cfg := DefaultConfig()
		if err := cfg.ApplyPreset(name); err != nil {
			t.Fatal(err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
