// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-jiazi/internal/astro"
	"github.com/litescript/ls-jiazi/internal/calendar"
	"github.com/litescript/ls-jiazi/internal/camera"
	"github.com/litescript/ls-jiazi/internal/cycle"
	"github.com/litescript/ls-jiazi/internal/logging"
	"github.com/litescript/ls-jiazi/internal/orbit"
	"github.com/litescript/ls-jiazi/internal/scene"
	"github.com/litescript/ls-jiazi/internal/state"
	"github.com/litescript/ls-jiazi/internal/timeutil"
	"github.com/litescript/ls-jiazi/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewOrrery ViewMode = iota
	ViewHorizon
	ViewCycle
)

const (
	animTickInterval  = 80 * time.Millisecond
	cameraFrameRate   = 30 * time.Millisecond
	overviewDistance  = 60.0
	minCameraDistance = 2.0
	maxCameraDistance = 400.0
	recentEvents      = 3
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic HUD updates.
	TickMsg time.Time

	// AnimTickMsg advances simulated time.
	AnimTickMsg time.Time

	// CameraFrameMsg is one scheduled camera frame. Frames carrying an old
	// generation belong to a superseded or cancelled transition.
	CameraFrameMsg struct {
		Generation uint64
	}
)

// manualInput is the pan/zoom input path. The camera controller suspends
// it for the duration of a transition.
type manualInput struct {
	suspended bool
}

func (in *manualInput) Suspend() { in.suspended = true }
func (in *manualInput) Resume()  { in.suspended = false }

// Options wires the model's collaborators.
type Options struct {
	State    *state.Manager
	Composer *scene.Composer
	Camera   camera.Config
	Clock    timeutil.Clock
	Log      *logging.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state    *state.Manager
	composer *scene.Composer
	camera   *camera.Controller
	input    *manualInput
	cycles   *cycle.Index
	clock    timeutil.Clock
	log      *logging.Logger

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int
	lastAnim  time.Time
	focusIdx  int  // index into orbit.Bodies
	follow    bool // keep the camera on the selected body while time runs

	// Sub-models
	orrery    OrreryModel
	horizon   HorizonModel
	cycleView CycleModel

	frame    scene.Frame
	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(opts Options) Model {
	clock := opts.Clock
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	log := opts.Log
	if log == nil {
		log = logging.Discard()
	}
	log = log.With("ui")

	input := &manualInput{}
	initial := camera.Pose{Position: camera.FramingDirection.Scale(overviewDistance)}
	ctrl := camera.New(clock, input, initial, opts.Camera, log.With("camera"))

	now := clock.Now()
	m := Model{
		state:     opts.State,
		composer:  opts.Composer,
		camera:    ctrl,
		input:     input,
		cycles:    cycle.NewIndex(now.Year()),
		clock:     clock,
		log:       log,
		viewMode:  ViewOrrery,
		lastAnim:  now,
		orrery:    NewOrreryModel(),
		horizon:   NewHorizonModel(),
		cycleView: NewCycleModel(),
	}

	m.snapshot = m.state.Snapshot()
	m.focusIdx = bodyIndex(m.snapshot.Selected)
	m.state.SetCycleCursor(calendar.YearLabel(m.snapshot.SimTime.Year()).Index())
	m.refresh()
	return m
}

func bodyIndex(id orbit.BodyID) int {
	for i, b := range orbit.Bodies {
		if b == id {
			return i
		}
	}
	return 0
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.state.TickInterval()),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.camera.Cancel()
			return m, tea.Quit

		case "1", "o":
			m.viewMode = ViewOrrery
		case "2", "h":
			m.viewMode = ViewHorizon
		case "3", "c":
			m.viewMode = ViewCycle
		case "tab":
			m.viewMode = (m.viewMode + 1) % 3

		case "j":
			cmds = append(cmds, m.focusBody(m.focusIdx-1))
		case "k":
			cmds = append(cmds, m.focusBody(m.focusIdx+1))

		case "[":
			cmds = append(cmds, m.stepCycle(-1))
		case "]":
			cmds = append(cmds, m.stepCycle(1))

		case " ", "space":
			if m.state.TogglePlaying() {
				m.statusMsg = "playing"
			} else {
				m.statusMsg = "paused"
			}
		case ">", ".":
			m.statusMsg = "speed " + state.SpeedLabel(m.state.Faster())
		case "<", ",":
			m.statusMsg = "speed " + state.SpeedLabel(m.state.Slower())

		case "t":
			m.state.JumpTo(m.clock.Now(), state.EventJumpNow, "")
			cmds = append(cmds, m.focusBody(m.focusIdx))

		case "up", "down", "left", "right":
			m.pan(msg.String())
		case "+", "=":
			m.zoom(0.8)
		case "-":
			m.zoom(1.25)

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}
		m.refresh()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo ~10 lines, footer ~2 lines
		contentHeight := msg.Height - 12
		m.orrery = m.orrery.SetSize(msg.Width, contentHeight)
		m.horizon = m.horizon.SetSize(msg.Width, contentHeight)
		m.cycleView = m.cycleView.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd(m.state.TickInterval()))
		m.refresh()

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++
		now := time.Time(msg)
		m.state.Advance(now.Sub(m.lastAnim))
		m.lastAnim = now
		m.followSelected()
		m.refresh()

	case CameraFrameMsg:
		if _, again := m.camera.Frame(msg.Generation); again {
			cmds = append(cmds, cameraFrameCmd(msg.Generation))
		}
		m.refresh()

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

// focusBody selects orbit.Bodies[idx] (wrapping) and starts a camera
// transition toward it. The returned command drives the frames.
func (m *Model) focusBody(idx int) tea.Cmd {
	n := len(orbit.Bodies)
	m.focusIdx = ((idx % n) + n) % n
	return m.focusOn(orbit.Bodies[m.focusIdx])
}

func (m *Model) focusOn(body orbit.BodyID) tea.Cmd {
	m.focusIdx = bodyIndex(body)
	target := m.composer.WorldPosition(body, m.state.SimTime())
	if !target.IsFinite() {
		m.log.Warn("focus %s: non-finite target", body)
		return nil
	}
	gen, ok := m.camera.Focus(target)
	if !ok {
		return nil
	}
	m.follow = true
	m.state.Select(body, target)
	return cameraFrameCmd(gen)
}

// stepCycle moves the cycle cursor, jumps simulated time to that entry's
// anchor year and focuses the body its element resolves to.
func (m *Model) stepCycle(delta int) tea.Cmd {
	cursor := m.state.StepCycle(delta)
	entry, body, ok := m.cycles.Lookup(calendar.LabelAt(cursor), m.clock.Now().Year())
	if !ok {
		return nil
	}

	sim := m.state.SimTime()
	at := time.Date(entry.AnchorYear, sim.Month(), sim.Day(), sim.Hour(), sim.Minute(), sim.Second(), 0, sim.Location())
	m.state.JumpTo(at, state.EventCycleJump, entry.String())
	m.statusMsg = fmt.Sprintf("%s → %s", entry, body.DisplayName())
	return m.focusOn(body)
}

// pan moves the camera sideways. Manual input is dropped while a
// transition owns the camera.
func (m *Model) pan(dir string) {
	if m.input.suspended || m.viewMode != ViewOrrery {
		return
	}
	pose := m.camera.Pose()
	step := viewHalfWidth(pose) * 0.1
	var d astro.Vec3
	switch dir {
	case "up":
		d.Z = step
	case "down":
		d.Z = -step
	case "left":
		d.X = -step
	case "right":
		d.X = step
	}
	if m.camera.SetPose(camera.Pose{Position: pose.Position.Add(d), Target: pose.Target.Add(d)}) {
		m.follow = false
	}
}

// zoom scales the camera's distance from its target by factor.
func (m *Model) zoom(factor float64) {
	if m.input.suspended || m.viewMode != ViewOrrery {
		return
	}
	pose := m.camera.Pose()
	offset := pose.Position.Sub(pose.Target)
	dist := offset.Norm() * factor
	if dist < minCameraDistance || dist > maxCameraDistance || offset.Norm() == 0 {
		return
	}
	m.camera.SetPose(camera.Pose{Position: pose.Target.Add(offset.Scale(factor)), Target: pose.Target})
}

// followSelected keeps an idle camera centred on the selected body.
func (m *Model) followSelected() {
	if !m.follow || m.camera.State() != camera.StateIdle {
		return
	}
	target := m.composer.WorldPosition(orbit.Bodies[m.focusIdx], m.state.SimTime())
	if !target.IsFinite() {
		return
	}
	pose := m.camera.Pose()
	d := target.Sub(pose.Target)
	m.camera.SetPose(camera.Pose{Position: pose.Position.Add(d), Target: target})
}

// refresh recomposes the frame and pushes it to the sub-models.
func (m *Model) refresh() {
	m.snapshot = m.state.Snapshot()
	m.frame = m.composer.Compose(m.snapshot.SimTime)
	focused := orbit.Bodies[m.focusIdx]
	m.orrery = m.orrery.UpdateData(m.frame, m.camera.Pose(), focused).WithEvents(m.state.RecentEvents(recentEvents))
	m.horizon = m.horizon.UpdateData(m.frame, focused)
	m.cycleView = m.cycleView.UpdateData(m.cycles.Entries(m.clock.Now().Year()), m.snapshot.CycleCursor, m.frame.Labels.Year).
		WithReferenceYear(m.cycles.ReferenceYear())
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewOrrery:
		m.orrery, cmd = m.orrery.Update(msg)
	case ViewHorizon:
		m.horizon, cmd = m.horizon.Update(msg)
	case ViewCycle:
		m.cycleView, cmd = m.cycleView.Update(msg)
	}
	return cmd
}

// Camera returns the focus controller.
func (m Model) Camera() *camera.Controller {
	return m.camera
}

// Frame returns the most recently composed frame.
func (m Model) Frame() scene.Frame {
	return m.frame
}

// ViewMode returns the active view.
func (m Model) ViewMode() ViewMode {
	return m.viewMode
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewOrrery:
		content = m.orrery.View()
	case ViewHorizon:
		content = m.horizon.View()
	case ViewCycle:
		content = m.cycleView.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ██╗     ███████╗       ██╗██╗ █████╗ ███████╗██╗`,
		`  ██║     ██╔════╝       ██║██║██╔══██╗╚══███╔╝██║`,
		`  ██║     ███████╗█████╗ ██║██║███████║  ███╔╝ ██║`,
		`  ██║     ╚════██║╚════╝ ██║██║██╔══██║ ███╔╝  ██║`,
		`  ███████╗███████║  ╚█████╔╝██║██║  ██║███████╗██║`,
		`  ╚══════╝╚══════╝   ╚════╝ ╚═╝╚═╝  ╚═╝╚══════╝╚═╝`,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			color := gradientColor(col, row, len(runes), len(logo))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  天干地支 · 二十四节气 · Orrery | v%s", version.Version)))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient:
// jade to gold to vermilion, darker toward the bottom.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64
	if xRatio < 0.5 {
		t := xRatio / 0.5
		r = 0 + t*(230-0)
		g = 168 + t*(180-168)
		b = 107 + t*(40-107)
	} else {
		t := (xRatio - 0.5) / 0.5
		r = 230 + t*(227-230)
		g = 180 + t*(66-180)
		b = 40 + t*(52-40)
	}

	brightness := 1.0 - (yRatio * 0.5)
	return fmt.Sprintf("#%02X%02X%02X", clampByte(r*brightness), clampByte(g*brightness), clampByte(b*brightness))
}

func clampByte(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int(v)
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Orrery", "[2] Horizon", "[3] Cycle"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E6B428")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E6B428"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

	var status string
	if m.snapshot.Playing {
		spinner := spinnerFrames[m.animTick%len(spinnerFrames)]
		status = accentStyle.Render(spinner) + dimStyle.Render(" "+state.SpeedLabel(m.snapshot.Speed))
	} else {
		status = dimStyle.Render("⏸ paused")
	}
	if m.camera.State() == camera.StateTransitioning {
		p := m.camera.Transition().Progress(m.clock.Now())
		status += dimStyle.Render(fmt.Sprintf(" | camera %3.0f%%", p*100))
	}

	help := dimStyle.Render("j/k: body | [/]: cycle | space: play | </>: speed | t: now | arrows: pan | +/-: zoom | q: quit")

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help
	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(animTickInterval, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

func cameraFrameCmd(generation uint64) tea.Cmd {
	return tea.Tick(cameraFrameRate, func(time.Time) tea.Msg {
		return CameraFrameMsg{Generation: generation}
	})
}

// viewHalfWidth is the half-width of the orrery view in scene units for a
// camera pose.
func viewHalfWidth(p camera.Pose) float64 {
	d := p.Position.Sub(p.Target).Norm()
	if d < minCameraDistance {
		d = minCameraDistance
	}
	return d * 0.75
}
