package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-jiazi/internal/camera"
	"github.com/litescript/ls-jiazi/internal/orbit"
	"github.com/litescript/ls-jiazi/internal/scene"
	"github.com/litescript/ls-jiazi/internal/state"
)

// LabelMode controls how body labels are displayed.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only the focused body
	LabelAll                      // All bodies
)

// String returns the label mode name.
func (l LabelMode) String() string {
	switch l {
	case LabelNone:
		return "off"
	case LabelFocused:
		return "focus"
	default:
		return "all"
	}
}

// OrreryModel renders a top-down view of the scene centred on the camera
// target. The camera's distance from its target sets the zoom.
type OrreryModel struct {
	width   int
	height  int
	frame   scene.Frame
	pose    camera.Pose
	focused orbit.BodyID
	events  []state.Event

	labelMode  LabelMode
	showOrbits bool
}

// NewOrreryModel creates a new orrery view model.
func NewOrreryModel() OrreryModel {
	return OrreryModel{
		labelMode:  LabelFocused,
		showOrbits: true,
	}
}

// SetSize updates the viewport size.
func (m OrreryModel) SetSize(width, height int) OrreryModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with a new frame and camera pose.
func (m OrreryModel) UpdateData(frame scene.Frame, pose camera.Pose, focused orbit.BodyID) OrreryModel {
	m.frame = frame
	m.pose = pose
	m.focused = focused
	return m
}

// WithEvents sets the recent activity shown under the HUD, oldest first.
func (m OrreryModel) WithEvents(events []state.Event) OrreryModel {
	m.events = events
	return m
}

// Update handles view-local keys.
func (m OrreryModel) Update(msg tea.Msg) (OrreryModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "l":
			m.labelMode = (m.labelMode + 1) % 3
		case "r":
			m.showOrbits = !m.showOrbits
		}
	}
	return m, nil
}

// View renders the orrery view.
func (m OrreryModel) View() string {
	if m.width < 40 || m.height < 10 {
		return "Terminal too small for orrery view"
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.buildCanvas(), m.renderHUD())
}

// screenMapping converts scene X/Z to canvas cells.
type screenMapping struct {
	cx, cy  int
	tx, tz  float64
	cellsPU float64 // cells per scene unit, horizontally
}

func (s screenMapping) project(x, z float64) (int, int) {
	sx := s.cx + int(math.Round((x-s.tx)*s.cellsPU))
	// Terminal cells are about twice as tall as wide.
	sy := s.cy - int(math.Round((z-s.tz)*s.cellsPU*0.5))
	return sx, sy
}

func (m OrreryModel) mapping(canvasW, canvasH int) screenMapping {
	return screenMapping{
		cx:      canvasW / 2,
		cy:      canvasH / 2,
		tx:      m.pose.Target.X,
		tz:      m.pose.Target.Z,
		cellsPU: float64(canvasW/2) / viewHalfWidth(m.pose),
	}
}

// bodyPos tracks a body's screen position for label rendering.
type bodyPos struct {
	x, y      int
	name      string
	isFocused bool
}

func (m OrreryModel) canvasSize() (int, int) {
	h := m.height - 5
	if h < 5 {
		h = 5
	}
	return m.width, h
}

// buildCanvas renders the bodies to a string canvas.
func (m OrreryModel) buildCanvas() string {
	canvasW, canvasH := m.canvasSize()

	grid := make([][]rune, canvasH)
	for y := range grid {
		grid[y] = make([]rune, canvasW)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	sm := m.mapping(canvasW, canvasH)

	if m.showOrbits {
		m.drawOrbitRings(grid, sm)
	}

	var positions []bodyPos
	// Sun last so it stays visible over rings and labels.
	for _, b := range m.frame.Bodies {
		if b.Kind == scene.KindSun {
			continue
		}
		sx, sy := sm.project(b.Pos.X, b.Pos.Z)
		if sx < 0 || sx >= canvasW || sy < 0 || sy >= canvasH {
			continue
		}
		focused := b.ID == m.focused
		grid[sy][sx] = bodyGlyph(b, focused)
		positions = append(positions, bodyPos{x: sx, y: sy, name: b.ID.DisplayName(), isFocused: focused})
	}
	if sun := m.frame.GetBody(orbit.Sun); sun != nil {
		sx, sy := sm.project(sun.Pos.X, sun.Pos.Z)
		if sx >= 0 && sx < canvasW && sy >= 0 && sy < canvasH {
			grid[sy][sx] = '☉'
			positions = append(positions, bodyPos{x: sx, y: sy, name: sun.ID.DisplayName(), isFocused: m.focused == orbit.Sun})
		}
	}

	m.renderLabels(grid, canvasW, canvasH, positions)

	return renderGrid(grid)
}

func (m OrreryModel) drawOrbitRings(grid [][]rune, sm screenMapping) {
	var earth, sun *scene.Body
	earth = m.frame.GetBody(orbit.Earth)
	sun = m.frame.GetBody(orbit.Sun)

	for _, b := range m.frame.Bodies {
		switch b.Kind {
		case scene.KindPlanet:
			if sun != nil {
				drawCircle(grid, sm, sun.Pos.X, sun.Pos.Z, b.Pos.Sub(sun.Pos).Norm())
			}
		case scene.KindMoon:
			if earth != nil {
				drawCircle(grid, sm, earth.Pos.X, earth.Pos.Z, b.Pos.Sub(earth.Pos).Norm())
			}
		}
	}
}

func drawCircle(grid [][]rune, sm screenMapping, x0, z0, r float64) {
	cellR := r * sm.cellsPU
	if cellR < 1 {
		return
	}

	h := len(grid)
	w := len(grid[0])

	steps := int(2 * math.Pi * cellR)
	if steps < 8 {
		steps = 8
	}
	if steps > 720 {
		steps = 720
	}

	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		x, y := sm.project(x0+r*math.Cos(theta), z0+r*math.Sin(theta))
		if x >= 0 && x < w && y >= 0 && y < h && grid[y][x] == ' ' {
			grid[y][x] = '·'
		}
	}
}

// renderLabels draws body labels on the canvas based on label mode.
func (m OrreryModel) renderLabels(grid [][]rune, width, height int, positions []bodyPos) {
	if m.labelMode == LabelNone {
		return
	}

	for _, pos := range positions {
		if m.labelMode == LabelFocused && !pos.isFocused {
			continue
		}

		labelX := pos.x + 2
		labelY := pos.y
		if labelY < 0 || labelY >= height || labelX >= width {
			continue
		}

		labelText := pos.name
		if pos.isFocused {
			labelText = "◄ " + pos.name
		}

		x := labelX
		for _, r := range labelText {
			if x >= width {
				break
			}
			if grid[labelY][x] == ' ' || grid[labelY][x] == '·' {
				grid[labelY][x] = r
			}
			x++
		}
	}
}

func bodyGlyph(b scene.Body, focused bool) rune {
	switch b.Kind {
	case scene.KindMoon:
		if focused {
			return '◐'
		}
		return '∘'
	case scene.KindPlanet:
		if b.ID == orbit.Jupiter || b.ID == orbit.Saturn {
			if focused {
				return '◉'
			}
			return '○'
		}
		if focused {
			return '●'
		}
		return '•'
	default:
		return '?'
	}
}

func renderGrid(grid [][]rune) string {
	var b strings.Builder

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	sunStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	planetStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	giantStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	moonStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("249"))

	for _, row := range grid {
		for _, ch := range row {
			var style lipgloss.Style
			switch ch {
			case ' ':
				b.WriteRune(ch)
				continue
			case '·':
				style = dimStyle
			case '☉':
				style = sunStyle
			case '•':
				style = planetStyle
			case '○':
				style = giantStyle
			case '∘':
				style = moonStyle
			case '●', '◉', '◐', '◄':
				style = focusStyle
			default:
				style = labelStyle
			}
			b.WriteString(style.Render(string(ch)))
		}
		b.WriteRune('\n')
	}

	return b.String()
}

func (m OrreryModel) renderHUD() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	if body := m.frame.GetBody(m.focused); body != nil {
		b.WriteString(headerStyle.Render("◆ " + body.Name()))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Dist: "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.2f", body.Distance())))
		b.WriteString("  ")
		b.WriteString(labelStyle.Render("Pos: "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("(%.1f, %.1f)", body.Pos.X, body.Pos.Z)))
	} else {
		b.WriteString(headerStyle.Render("◆ " + m.focused.DisplayName()))
		b.WriteString("  ")
		b.WriteString(dimStyle.Render("(not in frame)"))
	}
	b.WriteString("\n")

	b.WriteString(valueStyle.Render(m.frame.Labels.String()))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render("节气 "))
	b.WriteString(valueStyle.Render(m.frame.SolarTermName()))
	b.WriteString(dimStyle.Render(" (" + m.frame.TrueSolarTermName() + ")"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(m.frame.At.UTC().Format("2006-01-02 15:04 UTC")))
	b.WriteString("\n")

	b.WriteString(dimStyle.Render("View:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("±%.1f", viewHalfWidth(m.pose))))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Labels:"))
	b.WriteString(valueStyle.Render(m.labelMode.String()))
	if len(m.frame.Dropped) > 0 {
		b.WriteString("  ")
		b.WriteString(dimStyle.Render(fmt.Sprintf("(%d hidden)", len(m.frame.Dropped))))
	}

	if len(m.events) > 0 {
		recent := make([]string, len(m.events))
		for i, e := range m.events {
			recent[i] = e.String()
		}
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("Recent: "))
		b.WriteString(labelStyle.Render(strings.Join(recent, " · ")))
	}

	return b.String()
}

// LabelMode returns the current label mode.
func (m OrreryModel) LabelMode() LabelMode {
	return m.labelMode
}
