package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-jiazi/internal/orbit"
	"github.com/litescript/ls-jiazi/internal/scene"
)

const (
	// Field of view in degrees
	horizonFovAz = 180.0
	horizonFovEl = 90.0

	colorBody        = "#d0c8ff"
	colorBodyFocused = "229"
	colorSun         = "220"
)

// HorizonModel renders the observer's sky, looking toward the focused
// body's azimuth.
type HorizonModel struct {
	width   int
	height  int
	frame   scene.Frame
	focused orbit.BodyID

	camAz     float64
	labelMode LabelMode
}

// NewHorizonModel creates a new horizon view model.
func NewHorizonModel() HorizonModel {
	return HorizonModel{
		camAz:     180,
		labelMode: LabelAll,
	}
}

// SetSize updates the viewport size.
func (m HorizonModel) SetSize(width, height int) HorizonModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates with a new frame. The view turns toward the focused
// body when it has horizon coordinates.
func (m HorizonModel) UpdateData(frame scene.Frame, focused orbit.BodyID) HorizonModel {
	m.frame = frame
	m.focused = focused
	if b := frame.GetBody(focused); b != nil && b.Sky != nil {
		m.camAz = b.Sky.AzDeg
	}
	return m
}

// Update handles messages.
func (m HorizonModel) Update(msg tea.Msg) (HorizonModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "l" {
		m.labelMode = (m.labelMode + 1) % 3
	}
	return m, nil
}

// View renders the horizon view.
func (m HorizonModel) View() string {
	if m.frame.Observer == nil {
		dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
		return dimStyle.Render("  No observer configured. Set -lat/-lon or the observer section of the config file.")
	}
	if m.width < 20 || m.height < 10 {
		return "Horizon view requires larger terminal"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCanvas(m.width, m.height-4))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m HorizonModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorBody))

	obs := m.frame.Observer
	where := obs.Name
	if where == "" {
		where = fmt.Sprintf("%.2f°, %.2f°", obs.LatDeg, obs.LonDeg)
	}

	return fmt.Sprintf("%s | %s | %s | %s",
		titleStyle.Render("Horizon"),
		accentStyle.Render(where),
		dimStyle.Render("Labels: "+m.labelMode.String()),
		dimStyle.Render(fmt.Sprintf("Az:%.0f°", m.camAz)))
}

// renderStatus lists the focused body's coordinates and what is below the
// horizon.
func (m HorizonModel) renderStatus() string {
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorBodyFocused))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var line string
	if b := m.frame.GetBody(m.focused); b != nil && b.Sky != nil {
		line = accentStyle.Render(fmt.Sprintf(">>> %s | Az:%.1f° El:%.1f° | RA:%.1f° Dec:%.1f°",
			b.Name(), b.Sky.AzDeg, b.Sky.ElDeg, b.Sky.RAdeg, b.Sky.DecDeg))
	} else {
		line = dimStyle.Render(">>> " + m.focused.DisplayName() + " has no horizon position")
	}

	var below []string
	for _, b := range m.frame.Bodies {
		if b.Sky != nil && !b.AboveHorizon() {
			below = append(below, b.ID.String())
		}
	}
	sort.Strings(below)
	if len(below) > 0 {
		line += "\n" + dimStyle.Render("    below horizon: "+strings.Join(below, ", "))
	}
	return line
}

// horizonPos tracks a body's screen position for label rendering.
type horizonPos struct {
	x, y      int
	name      string
	isFocused bool
}

func (m HorizonModel) renderCanvas(width, height int) string {
	if height < 3 {
		height = 3
	}
	canvas := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	for y := 0; y < height; y++ {
		canvas[y] = make([]rune, width)
		colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			canvas[y][x] = ' '
			colors[y][x] = "236"
		}
	}

	horizonY := height - 2
	for x := 0; x < width; x++ {
		canvas[horizonY][x] = '─'
		colors[horizonY][x] = "60"
	}
	for _, c := range []struct {
		label string
		az    float64
	}{{"N", 0}, {"E", 90}, {"S", 180}, {"W", 270}} {
		if x, _, ok := m.projectToScreen(c.az, 0, width, height); ok && x >= 0 && x < width {
			canvas[horizonY][x] = rune(c.label[0])
			colors[horizonY][x] = "252"
		}
	}

	var positions []horizonPos
	for _, b := range m.frame.Bodies {
		if b.Sky == nil || !b.AboveHorizon() {
			continue
		}
		x, y, ok := m.projectToScreen(b.Sky.AzDeg, b.Sky.ElDeg, width, height)
		if !ok || x < 0 || x >= width || y < 0 || y >= horizonY {
			continue
		}
		focused := b.ID == m.focused
		glyph, color := '✦', lipgloss.Color(colorBody)
		switch {
		case b.Kind == scene.KindSun:
			glyph, color = '☉', colorSun
		case focused:
			glyph, color = '◆', colorBodyFocused
		}
		canvas[y][x] = glyph
		colors[y][x] = color
		positions = append(positions, horizonPos{x: x, y: y, name: b.ID.DisplayName(), isFocused: focused})
	}

	m.renderLabels(canvas, colors, width, horizonY, positions)

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			style := lipgloss.NewStyle().Foreground(colors[y][x])
			b.WriteString(style.Render(string(canvas[y][x])))
		}
		if y < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderLabels draws labels to the right of each glyph. Focused labels are
// drawn last so they win overlaps.
func (m HorizonModel) renderLabels(canvas [][]rune, colors [][]lipgloss.Color, width, horizonY int, positions []horizonPos) {
	if m.labelMode == LabelNone {
		return
	}
	sort.SliceStable(positions, func(i, j int) bool {
		return !positions[i].isFocused && positions[j].isFocused
	})
	for _, pos := range positions {
		if m.labelMode == LabelFocused && !pos.isFocused {
			continue
		}
		text := pos.name
		color := lipgloss.Color(colorBody)
		if pos.isFocused {
			text = "◄ " + pos.name
			color = colorBodyFocused
		}
		x := pos.x + 2
		for _, r := range text {
			if x >= width || pos.y >= horizonY {
				break
			}
			canvas[pos.y][x] = r
			colors[pos.y][x] = color
			x++
		}
	}
}

// projectToScreen converts az/el to screen coordinates relative to the
// view's centre azimuth. Elevation 0 sits on the horizon line.
func (m HorizonModel) projectToScreen(az, el float64, width, height int) (int, int, bool) {
	dAz := normalizeAngle(az - m.camAz)
	if dAz < -horizonFovAz/2 || dAz > horizonFovAz/2 {
		return 0, 0, false
	}
	if el < 0 || el > horizonFovEl {
		return 0, 0, false
	}

	horizonY := height - 2
	x := int((dAz + horizonFovAz/2) / horizonFovAz * float64(width-1))
	y := horizonY - int(el/horizonFovEl*float64(horizonY))
	if y >= horizonY && el > 0 {
		y = horizonY - 1
	}
	return x, y, true
}

// normalizeAngle wraps angle to -180..+180 range
func normalizeAngle(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a < -180 {
		a += 360
	}
	return a
}
