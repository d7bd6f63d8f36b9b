package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leterax/go-stroll/pkg/anim"
	"github.com/leterax/go-stroll/pkg/scene"
)

const (
	gridCols = 41
	gridRows = 21
	// cells per world unit; terminal cells are about twice as tall as wide
	colsPerUnit = 4.0
	rowsPerUnit = 2.0
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	gridStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	groundStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	trailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	charStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	panelStyle  = lipgloss.NewStyle().Padding(0, 2).Width(34)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	movingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// arrows indexed by heading in eighths of a turn; +Z points down the grid
var arrows = [8]string{"↓", "↘", "→", "↗", "↑", "↖", "←", "↙"}

func headingArrow(h float64) string {
	i := int(math.Round(h/(math.Pi/4))) % 8
	if i < 0 {
		i += 8
	}
	return arrows[i]
}

// cell maps ground coordinates to a grid cell; ok is false off the grid
func cell(x, z float64) (col, row int, ok bool) {
	col = gridCols/2 + int(math.Round(x*colsPerUnit))
	row = gridRows/2 + int(math.Round(z*rowsPerUnit))
	ok = col >= 0 && col < gridCols && row >= 0 && row < gridRows
	return col, row, ok
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	f := m.sc.Frame()

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		gridStyle.Render(m.renderGrid(f)),
		panelStyle.Render(m.renderStats(f)),
	)
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("stroll"),
		body,
		helpStyle.Render("wasd/arrows move · backspace reset · q quit"),
	)
}

func (m Model) renderGrid(f scene.Frame) string {
	cells := make([][]string, gridRows)
	for r := range cells {
		cells[r] = make([]string, gridCols)
		for c := range cells[r] {
			cells[r][c] = " "
		}
	}

	// the 3x3 ground plane
	for r := range cells {
		for c := range cells[r] {
			x := float64(c-gridCols/2) / colsPerUnit
			z := float64(r-gridRows/2) / rowsPerUnit
			if math.Abs(x) <= 1.5 && math.Abs(z) <= 1.5 {
				cells[r][c] = groundStyle.Render("·")
			}
		}
	}
	for _, p := range m.trail {
		if c, r, ok := cell(p.x, p.z); ok {
			cells[r][c] = trailStyle.Render("•")
		}
	}
	if c, r, ok := cell(f.Pose.Position.X(), f.Pose.Position.Z()); ok {
		cells[r][c] = charStyle.Render(headingArrow(f.Pose.Heading()))
	}

	var b strings.Builder
	for r, row := range cells {
		b.WriteString(strings.Join(row, ""))
		if r < len(cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) renderStats(f scene.Frame) string {
	state := idleStyle.Render(f.State.String())
	if f.State == anim.Moving {
		state = movingStyle.Render(f.State.String())
	}

	held := make([]string, 0, len(m.held))
	for _, k := range m.Held() {
		held = append(held, string(k))
	}

	opts := m.sc.Options()
	rows := [][2]string{
		{"tick", fmt.Sprintf("%d", f.Tick)},
		{"time", fmt.Sprintf("%.2fs", f.Time)},
		{"state", state},
		{"intent", f.Intent.String()},
		{"held", strings.Join(held, " ")},
		{"position", fmt.Sprintf("%+.2f, %+.2f", f.Pose.Position.X(), f.Pose.Position.Z())},
		{"heading", fmt.Sprintf("%+.1f°", f.Pose.Heading()*180/math.Pi)},
		{"speed", fmt.Sprintf("%+.3f", f.Velocity.Z())},
		{opts.IdleClip, fmt.Sprintf("%.2f", m.sc.Mixer().Weight(opts.IdleClip))},
		{opts.MovingClip, fmt.Sprintf("%.2f", m.sc.Mixer().Weight(opts.MovingClip))},
	}

	if _, _, ok := cell(f.Pose.Position.X(), f.Pose.Position.Z()); !ok {
		rows = append(rows, [2]string{"", idleStyle.Render("out of view")})
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(labelStyle.Render(r[0]))
		b.WriteString(valueStyle.Render(r[1]))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
