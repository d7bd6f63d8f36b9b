package config

import (
	"fmt"
	"sort"
)

// Presets are named motion profiles
var Presets = map[string]MotionConfig{
	"default": {
		Deceleration: [3]float64{-0.0005, -0.0001, -5.0},
		Acceleration: [3]float64{1, 0.25, 50.0},
	},
	"sprinter": {
		Deceleration: [3]float64{-0.0005, -0.0001, -3.0},
		Acceleration: [3]float64{1, 0.35, 120.0},
	},
	"tank": {
		Deceleration: [3]float64{-0.0005, -0.0001, -8.0},
		Acceleration: [3]float64{1, 0.1, 25.0},
	},
	"glider": {
		Deceleration:    [3]float64{-0.0005, -0.0001, -0.5},
		Acceleration:    [3]float64{1, 0.25, 20.0},
		UpdateWhileIdle: true,
	},
}

func GetPreset(name string) (MotionConfig, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset replaces the motion section of cfg with the named preset
func (c *Config) ApplyPreset(name string) error {
	p, ok := GetPreset(name)
	if !ok {
		return fmt.Errorf("unknown preset %q", name)
	}
	c.Motion = p
	return nil
}
