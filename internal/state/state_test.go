package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-jiazi/internal/astro"
	"github.com/litescript/ls-jiazi/internal/orbit"
)

var start = time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

func TestNewManager(t *testing.T) {
	cfg := DefaultConfig()
	m := NewManager(cfg, start)
	require.NotNil(t, m)

	assert.Equal(t, cfg.TickInterval, m.TickInterval())
	assert.Equal(t, start, m.SimTime())
	assert.False(t, m.Playing())
	assert.Equal(t, 1.0, m.Speed())
	assert.Equal(t, orbit.Earth, m.Selected())
}

func TestNewManager_SanitisesConfig(t *testing.T) {
	m := NewManager(Config{SpeedDaysPerSecond: -3, Selected: orbit.BodyID(42)}, start)
	assert.Equal(t, 1.0, m.Speed())
	assert.Equal(t, orbit.Earth, m.Selected())
	assert.Equal(t, 500*time.Millisecond, m.TickInterval())
}

func TestManager_AdvanceOnlyWhilePlaying(t *testing.T) {
	m := NewManager(Config{SpeedDaysPerSecond: 1}, start)

	assert.Equal(t, start, m.Advance(time.Second), "paused")

	require.True(t, m.TogglePlaying())
	got := m.Advance(500 * time.Millisecond)
	assert.Equal(t, start.Add(12*time.Hour), got)

	require.False(t, m.TogglePlaying())
	assert.Equal(t, got, m.Advance(time.Hour))
}

func TestManager_AdvanceCapsLongFrames(t *testing.T) {
	m := NewManager(Config{SpeedDaysPerSecond: 1, Playing: true}, start)
	got := m.Advance(time.Hour)
	assert.Equal(t, start.Add(10*24*time.Hour), got)
}

func TestManager_SpeedSteps(t *testing.T) {
	m := NewManager(Config{SpeedDaysPerSecond: 1}, start)

	assert.Equal(t, 7.0, m.Faster())
	assert.Equal(t, 30.0, m.Faster())
	assert.Equal(t, 365.0, m.Faster())
	assert.Equal(t, 365.0, m.Faster(), "top step holds")

	for i := 0; i < 10; i++ {
		m.Slower()
	}
	assert.Equal(t, SpeedSteps[0], m.Speed(), "bottom step holds")
}

func TestManager_SpeedBetweenSteps(t *testing.T) {
	m := NewManager(Config{SpeedDaysPerSecond: 3}, start)
	assert.Equal(t, 1.0, m.Slower())

	m = NewManager(Config{SpeedDaysPerSecond: 3}, start)
	assert.Equal(t, 7.0, m.Faster())
}

func TestSpeedLabel(t *testing.T) {
	tests := []struct {
		speed float64
		want  string
	}{
		{1.0 / 86400, "1s/s"},
		{1.0 / 24, "1h/s"},
		{1, "1d/s"},
		{7, "7d/s"},
		{365, "1yr/s"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, SpeedLabel(tt.speed))
		})
	}
}

func TestManager_SelectAndCycle(t *testing.T) {
	m := NewManager(DefaultConfig(), start)

	m.Select(orbit.Jupiter, astro.Vec3{X: 46})
	snap := m.Snapshot()
	assert.Equal(t, orbit.Jupiter, snap.Selected)
	assert.Equal(t, astro.Vec3{X: 46}, snap.CameraTarget)

	assert.Equal(t, 59, m.StepCycle(-1))
	assert.Equal(t, 0, m.StepCycle(1))
	m.SetCycleCursor(125)
	assert.Equal(t, 5, m.CycleCursor())
}

func TestManager_JumpToRecordsEvent(t *testing.T) {
	m := NewManager(DefaultConfig(), start)
	target := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	m.JumpTo(target, EventCycleJump, "壬寅 2022")

	assert.Equal(t, target, m.SimTime())
	events := m.RecentEvents(5)
	require.Len(t, events, 1)
	assert.Equal(t, EventCycleJump, events[0].Type)
	assert.Equal(t, "壬寅 2022", events[0].Detail)
	assert.Equal(t, target, events[0].SimTime)
}

func TestManager_EventRingBuffer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxEvents = 3
	m := NewManager(cfg, start)

	bodies := []orbit.BodyID{orbit.Mercury, orbit.Venus, orbit.Earth, orbit.Mars, orbit.Jupiter}
	for _, b := range bodies {
		m.Select(b, astro.Vec3{})
	}

	events := m.Snapshot().Events
	require.Len(t, events, 3)
	assert.Equal(t, orbit.Earth, events[0].Body)
	assert.Equal(t, orbit.Jupiter, events[2].Body)

	recent := m.RecentEvents(2)
	require.Len(t, recent, 2)
	assert.Equal(t, orbit.Mars, recent[0].Body)
}

func TestManager_Snapshot_IsCopy(t *testing.T) {
	m := NewManager(DefaultConfig(), start)
	m.Select(orbit.Mars, astro.Vec3{})

	snap := m.Snapshot()
	snap.Events[0].Body = orbit.Saturn

	assert.Equal(t, orbit.Mars, m.Snapshot().Events[0].Body)
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager(Config{SpeedDaysPerSecond: 1, Playing: true}, start)

	var wg sync.WaitGroup
	iterations := 100

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			m.Advance(10 * time.Millisecond)
			m.Select(orbit.Bodies[i%len(orbit.Bodies)], astro.Vec3{X: float64(i)})
			m.StepCycle(1)
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < iterations; i++ {
				_ = m.Snapshot()
				_ = m.SimTime()
				_ = m.RecentEvents(3)
			}
		}()
	}

	wg.Wait()
}

func TestManager_SetTickInterval(t *testing.T) {
	m := NewManager(DefaultConfig(), start)
	m.SetTickInterval(time.Second)
	assert.Equal(t, time.Second, m.TickInterval())
}

func TestManager_SetTickIntervalIgnoresNonPositive(t *testing.T) {
	m := NewManager(DefaultConfig(), start)
	m.SetTickInterval(0)
	m.SetTickInterval(-time.Second)
	assert.Equal(t, 500*time.Millisecond, m.TickInterval())
}

func TestManager_RecentEventsNonPositive(t *testing.T) {
	m := NewManager(DefaultConfig(), start)
	m.Select(orbit.Mars, astro.Vec3{})

	assert.NotPanics(t, func() {
		assert.Nil(t, m.RecentEvents(0))
		assert.Nil(t, m.RecentEvents(-1))
	})
	assert.Len(t, m.RecentEvents(3), 1)
}

func TestEvent_String(t *testing.T) {
	tests := []struct {
		event Event
		want  string
	}{
		{Event{Type: EventFocus, Body: orbit.Moon}, "focus Moon 月球"},
		{Event{Type: EventCycleJump, Detail: "乙巳 1965"}, "cycle 乙巳 1965"},
		{Event{Type: EventJumpNow, SimTime: start}, "now 2024-02-10"},
		{Event{Type: EventPlay}, "play"},
		{Event{Type: EventPause}, "pause"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.event.String())
		})
	}
}
