// Package tui is the terminal front-end: a top-down view of the character
// driven by the same scene context as the window.
package tui

import (
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leterax/go-stroll/pkg/control"
	"github.com/leterax/go-stroll/pkg/scene"
)

const (
	DefaultFrameInterval = time.Second / 30
	// terminals report presses only; a key counts as released once it
	// stops repeating for this long
	DefaultHoldTimeout = 550 * time.Millisecond

	maxDt       = 0.25
	trailLength = 120
)

type tickMsg time.Time

type Option func(*Model)

func WithFrameInterval(d time.Duration) Option { return func(m *Model) { m.interval = d } }
func WithHoldTimeout(d time.Duration) Option   { return func(m *Model) { m.holdTimeout = d } }

// WithClock replaces time.Now for key timestamps
func WithClock(now func() time.Time) Option { return func(m *Model) { m.now = now } }

type point struct{ x, z float64 }

// Model is the bubbletea model of the terminal front-end
type Model struct {
	sc          *scene.Context
	interval    time.Duration
	holdTimeout time.Duration
	now         func() time.Time

	held     map[control.Key]time.Time
	last     time.Time
	trail    []point
	err      error
	quitting bool

	width, height int
}

func New(sc *scene.Context, opts ...Option) Model {
	m := Model{
		sc:          sc,
		interval:    DefaultFrameInterval,
		holdTimeout: DefaultHoldTimeout,
		now:         time.Now,
		held:        make(map[control.Key]time.Time),
		trail:       make([]point, 0, trailLength),
		width:       80,
		height:      24,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Run starts the program on the alternate screen and blocks until it quits
func Run(sc *scene.Context, opts ...Option) error {
	p := tea.NewProgram(New(sc, opts...), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

// Err is the error that stopped the program, if any
func (m Model) Err() error { return m.err }

// Held lists the keys currently treated as held, sorted
func (m Model) Held() []control.Key {
	keys := make([]control.Key, 0, len(m.held))
	for k := range m.held {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tickMsg:
		return m.step(time.Time(msg))
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc", "q":
		m.quitting = true
		return m, tea.Quit
	case "backspace":
		m.sc.Reset()
		m.held = make(map[control.Key]time.Time)
		m.trail = m.trail[:0]
		return m, nil
	}

	k := control.Key(msg.String())
	if _, ok := m.held[k]; !ok {
		m.sc.KeyDown(k)
	}
	m.held[k] = m.now()
	return m, nil
}

func (m Model) step(now time.Time) (Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}
	for k, seen := range m.held {
		if now.Sub(seen) >= m.holdTimeout {
			m.sc.KeyUp(k)
			delete(m.held, k)
		}
	}

	dt := m.interval.Seconds()
	if !m.last.IsZero() {
		dt = min(now.Sub(m.last).Seconds(), maxDt)
	}
	if dt < 0 {
		dt = 0
	}
	m.last = now

	f, err := m.sc.Tick(dt)
	if err != nil {
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}

	p := point{f.Pose.Position.X(), f.Pose.Position.Z()}
	if len(m.trail) == 0 || m.trail[len(m.trail)-1] != p {
		if len(m.trail) == trailLength {
			m.trail = append(m.trail[:0], m.trail[1:]...)
		}
		m.trail = append(m.trail, p)
	}
	return m, m.tick()
}
