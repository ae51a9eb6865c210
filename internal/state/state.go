// Package state provides thread-safe state management for the application.
package state

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/litescript/ls-jiazi/internal/astro"
	"github.com/litescript/ls-jiazi/internal/orbit"
)

// EventType represents the type of user-visible state change.
type EventType string

const (
	EventFocus     EventType = "FOCUS"
	EventCycleJump EventType = "CYCLE_JUMP"
	EventJumpNow   EventType = "JUMP_NOW"
	EventPlay      EventType = "PLAY"
	EventPause     EventType = "PAUSE"
)

// Event records a state change for the HUD's recent-activity line.
type Event struct {
	Type      EventType    `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	SimTime   time.Time    `json:"sim_time"`
	Body      orbit.BodyID `json:"body"`
	Detail    string       `json:"detail,omitempty"`
}

// String returns the short form shown in the HUD.
func (e Event) String() string {
	switch e.Type {
	case EventFocus:
		return "focus " + e.Body.DisplayName()
	case EventCycleJump:
		return "cycle " + e.Detail
	case EventJumpNow:
		return "now " + e.SimTime.UTC().Format("2006-01-02")
	case EventPlay:
		return "play"
	case EventPause:
		return "pause"
	default:
		return string(e.Type)
	}
}

// SpeedSteps are the playback speeds, in simulated days per real second,
// that Faster and Slower move between.
var SpeedSteps = []float64{1.0 / 86400, 1.0 / 24, 1, 7, 30, 365}

// maxStepSeconds caps one Advance so a stalled frame cannot leap centuries.
const maxStepSeconds = 10.0

// Manager holds the explicit application state shared by the UI and the
// headless loop.
type Manager struct {
	mu sync.RWMutex

	simTime  time.Time
	playing  bool
	speed    float64
	selected orbit.BodyID
	target   astro.Vec3
	cycle    int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	tickInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	SpeedDaysPerSecond float64
	Playing            bool
	Selected           orbit.BodyID
	MaxEvents          int
	TickInterval       time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		SpeedDaysPerSecond: 1,
		Selected:           orbit.Earth,
		MaxEvents:          20,
		TickInterval:       500 * time.Millisecond,
	}
}

// NewManager creates a state manager starting at simulated instant start.
func NewManager(cfg Config, start time.Time) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 20
	}
	speed := cfg.SpeedDaysPerSecond
	if !(speed > 0) || math.IsInf(speed, 0) {
		speed = 1
	}
	tick := cfg.TickInterval
	if tick <= 0 {
		tick = DefaultConfig().TickInterval
	}
	selected := cfg.Selected
	if !selected.Known() {
		selected = orbit.Earth
	}
	return &Manager{
		simTime:      start,
		playing:      cfg.Playing,
		speed:        speed,
		selected:     selected,
		maxEvents:    maxEvents,
		events:       make([]Event, 0, maxEvents),
		tickInterval: tick,
	}
}

// Advance moves simulated time forward by realDelta at the current speed
// while playing and returns the new simulated instant.
func (m *Manager) Advance(realDelta time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.playing || realDelta <= 0 {
		return m.simTime
	}
	secs := math.Min(realDelta.Seconds(), maxStepSeconds)
	m.simTime = m.simTime.Add(time.Duration(secs * m.speed * 86400 * float64(time.Second)))
	return m.simTime
}

// SimTime returns the simulated instant.
func (m *Manager) SimTime() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.simTime
}

// SetSimTime jumps the simulation to t.
func (m *Manager) SetSimTime(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.simTime = t
}

// JumpTo sets the simulated instant and records why.
func (m *Manager) JumpTo(t time.Time, typ EventType, detail string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.simTime = t
	m.addEvent(Event{Type: typ, SimTime: t, Body: m.selected, Detail: detail})
}

// TogglePlaying flips play/pause and returns the new value.
func (m *Manager) TogglePlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = !m.playing
	typ := EventPause
	if m.playing {
		typ = EventPlay
	}
	m.addEvent(Event{Type: typ, SimTime: m.simTime, Body: m.selected})
	return m.playing
}

// Playing reports whether simulated time is advancing.
func (m *Manager) Playing() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.playing
}

// Speed returns the playback speed in simulated days per real second.
func (m *Manager) Speed() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.speed
}

// Faster moves to the next faster speed step. It returns the new speed.
func (m *Manager) Faster() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range SpeedSteps {
		if s > m.speed*(1+1e-9) {
			m.speed = s
			break
		}
	}
	return m.speed
}

// Slower moves to the next slower speed step. It returns the new speed.
func (m *Manager) Slower() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(SpeedSteps) - 1; i >= 0; i-- {
		if SpeedSteps[i] < m.speed*(1-1e-9) {
			m.speed = SpeedSteps[i]
			break
		}
	}
	return m.speed
}

// Select records the focused body and the camera target computed for it.
func (m *Manager) Select(body orbit.BodyID, target astro.Vec3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = body
	m.target = target
	m.addEvent(Event{Type: EventFocus, SimTime: m.simTime, Body: body})
}

// Selected returns the focused body.
func (m *Manager) Selected() orbit.BodyID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selected
}

// CycleCursor returns the position in the 60-entry cycle table.
func (m *Manager) CycleCursor() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cycle
}

// SetCycleCursor sets the cycle cursor, wrapping into 0..59.
func (m *Manager) SetCycleCursor(i int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cycle = wrap60(i)
}

// StepCycle moves the cycle cursor by delta with wraparound and returns it.
func (m *Manager) StepCycle(delta int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cycle = wrap60(m.cycle + delta)
	return m.cycle
}

func wrap60(i int) int {
	i %= 60
	if i < 0 {
		i += 60
	}
	return i
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	SimTime      time.Time
	Playing      bool
	Speed        float64
	Selected     orbit.BodyID
	CameraTarget astro.Vec3
	CycleCursor  int
	Events       []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		SimTime:      m.simTime,
		Playing:      m.playing,
		Speed:        m.speed,
		Selected:     m.selected,
		CameraTarget: m.target,
		CycleCursor:  m.cycle,
		Events:       m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events, oldest first.
func (m *Manager) RecentEvents(n int) []Event {
	if n <= 0 {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// TickInterval returns how often the headless loop and HUD refresh.
func (m *Manager) TickInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tickInterval
}

// SetTickInterval updates the refresh interval. Non-positive values are
// ignored.
func (m *Manager) SetTickInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tickInterval = d
}

// SpeedLabel formats a speed in days per second for the HUD.
func SpeedLabel(daysPerSecond float64) string {
	switch {
	case daysPerSecond >= 365*(1-1e-9):
		return formatRate(daysPerSecond/365, "yr")
	case daysPerSecond >= 1*(1-1e-9):
		return formatRate(daysPerSecond, "d")
	case daysPerSecond*24 >= 1*(1-1e-9):
		return formatRate(daysPerSecond*24, "h")
	default:
		return formatRate(daysPerSecond*86400, "s")
	}
}

func formatRate(v float64, unit string) string {
	return strconv.FormatFloat(v, 'g', 3, 64) + unit + "/s"
}
