// Package replay drives a scene headless from a script of timed key events.
package replay

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/leterax/go-stroll/pkg/control"
)

var ErrInvalidScript = errors.New("replay: invalid script")

// Event is a key transition at a point in scene time. A positive Hold
// expands into a press at At and a release Hold seconds later.
type Event struct {
	At   float64 `yaml:"at"`
	Key  string  `yaml:"key"`
	Down bool    `yaml:"down"`
	Hold float64 `yaml:"hold,omitempty"`
}

// Script is a timed sequence of key events played at a fixed tick rate
type Script struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description,omitempty"`
	TickRate    int     `yaml:"tick_rate"`
	Duration    float64 `yaml:"duration"`
	Preset      string  `yaml:"preset,omitempty"`
	Events      []Event `yaml:"events"`
}

// LoadScript reads and validates a YAML script
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

// ParseScript decodes and validates a YAML script
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) Validate() error {
	if s.TickRate <= 0 {
		return fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalidScript, s.TickRate)
	}
	if !(s.Duration > 0) || math.IsInf(s.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidScript, s.Duration)
	}
	for i, ev := range s.Events {
		if ev.Key == "" {
			return fmt.Errorf("%w: event %d has no key", ErrInvalidScript, i)
		}
		if ev.At < 0 || math.IsNaN(ev.At) || math.IsInf(ev.At, 0) {
			return fmt.Errorf("%w: event %d at %v", ErrInvalidScript, i, ev.At)
		}
		if ev.Hold < 0 || math.IsNaN(ev.Hold) || math.IsInf(ev.Hold, 0) {
			return fmt.Errorf("%w: event %d hold %v", ErrInvalidScript, i, ev.Hold)
		}
	}
	return nil
}

// Dt is the fixed tick interval
func (s *Script) Dt() float64 {
	return 1 / float64(s.TickRate)
}

// Steps is the number of ticks the script runs for
func (s *Script) Steps() int {
	return int(math.Round(s.Duration * float64(s.TickRate)))
}

// Timeline expands holds and orders events by time. Events at the same
// instant keep their script order.
func (s *Script) Timeline() []Event {
	out := make([]Event, 0, len(s.Events))
	for _, ev := range s.Events {
		if ev.Hold > 0 {
			out = append(out,
				Event{At: ev.At, Key: ev.Key, Down: true},
				Event{At: ev.At + ev.Hold, Key: ev.Key, Down: false})
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out
}

func (e Event) keyEvent() control.KeyEvent {
	return control.KeyEvent{Key: control.Key(e.Key), Down: e.Down}
}
