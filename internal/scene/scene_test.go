package scene

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-jiazi/internal/astro"
	"github.com/litescript/ls-jiazi/internal/cycle"
	"github.com/litescript/ls-jiazi/internal/logging"
	"github.com/litescript/ls-jiazi/internal/orbit"
)

const eps = 1e-9

// brokenEphemeris wraps a model and returns NaN for one body.
type brokenEphemeris struct {
	*orbit.Model
	broken orbit.BodyID
}

func (b brokenEphemeris) Position(body orbit.BodyID, t time.Time) astro.Vec3 {
	if body == b.broken {
		return astro.Vec3{X: math.NaN()}
	}
	return b.Model.Position(body, t)
}

func TestCompose_AtEpoch(t *testing.T) {
	c := NewComposer(orbit.Default(), nil, nil)
	f := c.Compose(orbit.DefaultEpoch)

	require.Len(t, f.Bodies, len(orbit.Bodies))
	assert.Empty(t, f.Dropped)

	sun := f.GetBody(orbit.Sun)
	require.NotNil(t, sun)
	assert.Equal(t, astro.Vec3{}, sun.Pos)
	assert.Equal(t, KindSun, sun.Kind)

	earth := f.GetBody(orbit.Earth)
	require.NotNil(t, earth)
	assert.InDelta(t, 24, earth.Pos.X, eps)
	assert.InDelta(t, 0, earth.Pos.Z, eps)
	assert.Nil(t, earth.Sky, "no observer, no horizon coordinates")

	moon := f.GetBody(orbit.Moon)
	require.NotNil(t, moon)
	assert.Equal(t, KindMoon, moon.Kind)
	assert.InDelta(t, 27, moon.Pos.X, eps, "moon composited onto earth")
}

func TestCompose_MoonFollowsEarth(t *testing.T) {
	c := NewComposer(orbit.Default(), nil, nil)
	for _, days := range []int{0, 10, 100, 1000} {
		at := orbit.DefaultEpoch.AddDate(0, 0, days)
		f := c.Compose(at)
		earth := f.GetBody(orbit.Earth).Pos
		moon := f.GetBody(orbit.Moon).Pos
		assert.InDelta(t, 3, moon.Sub(earth).Norm(), 1e-9, "day %d", days)
	}
}

func TestCompose_Labels(t *testing.T) {
	c := NewComposer(orbit.Default(), nil, nil)
	f := c.Compose(time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, "甲辰", f.Labels.Year.String())
	assert.Equal(t, 2, f.SolarTerm)
	assert.Equal(t, "立春", f.SolarTermName())
	assert.Equal(t, "立春", f.TrueSolarTermName())
}

func TestCompose_DropsNonFiniteBodies(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithOutput(logging.LevelWarn, &buf)

	eph := brokenEphemeris{Model: orbit.Default(), broken: orbit.Earth}
	c := NewComposer(eph, nil, log)
	f := c.Compose(orbit.DefaultEpoch)

	assert.Nil(t, f.GetBody(orbit.Earth))
	assert.Nil(t, f.GetBody(orbit.Moon), "moon inherits earth's position")
	assert.NotNil(t, f.GetBody(orbit.Mars))
	assert.Equal(t, []orbit.BodyID{orbit.Earth, orbit.Moon}, f.Dropped)
	assert.Contains(t, buf.String(), "dropping earth")
}

func TestCompose_WithObserver(t *testing.T) {
	obs := &astro.Observer{LatDeg: 39.9, LonDeg: 116.4, Name: "Beijing"}
	c := NewComposer(orbit.Default(), obs, nil)
	f := c.Compose(time.Date(2024, 6, 21, 4, 0, 0, 0, time.UTC))

	assert.Equal(t, obs, f.Observer)
	assert.Nil(t, f.GetBody(orbit.Earth).Sky)

	sun := f.GetBody(orbit.Sun)
	require.NotNil(t, sun.Sky)
	require.NotNil(t, sun.Dome)
	assert.InDelta(t, orbit.DomeRadius, sun.Dome.Norm(), 1e-9)
	assert.Equal(t, sun.Sky.ElDeg > 0, sun.AboveHorizon())
}

func TestExport_WriteJSON(t *testing.T) {
	obs := &astro.Observer{LatDeg: 39.9, LonDeg: 116.4, Name: "Beijing"}
	c := NewComposer(orbit.Default(), obs, nil)
	f := c.Compose(orbit.DefaultEpoch)

	var buf bytes.Buffer
	require.NoError(t, Export(f).WriteJSON(&buf))

	var decoded struct {
		Year      string `json:"year"`
		SolarTerm struct {
			Index int    `json:"index"`
			Name  string `json:"name"`
		} `json:"solar_term"`
		Observer *struct {
			Name string `json:"name"`
		} `json:"observer"`
		Bodies []struct {
			ID      string    `json:"id"`
			X       float64   `json:"x"`
			Horizon *struct{} `json:"horizon"`
		} `json:"bodies"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "庚辰", decoded.Year)
	assert.Equal(t, 0, decoded.SolarTerm.Index)
	assert.Equal(t, "小寒", decoded.SolarTerm.Name)
	require.NotNil(t, decoded.Observer)
	assert.Equal(t, "Beijing", decoded.Observer.Name)
	require.Len(t, decoded.Bodies, len(orbit.Bodies))
	assert.Equal(t, "earth", decoded.Bodies[3].ID)
	assert.InDelta(t, 24, decoded.Bodies[3].X, eps)
	assert.Nil(t, decoded.Bodies[3].Horizon)
	assert.NotNil(t, decoded.Bodies[0].Horizon)
}

func TestExport_Dropped(t *testing.T) {
	c := NewComposer(brokenEphemeris{Model: orbit.Default(), broken: orbit.Saturn}, nil, nil)
	out := Export(c.Compose(orbit.DefaultEpoch))
	assert.Equal(t, []string{"saturn"}, out.Dropped)
	assert.Nil(t, out.Observer)
}

func TestWriteSummaryTable(t *testing.T) {
	c := NewComposer(orbit.Default(), nil, nil)
	var buf bytes.Buffer
	WriteSummaryTable(&buf, c.Compose(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)))

	out := buf.String()
	assert.Contains(t, out, "Orrery @ 2024-02-10T00:00:00Z")
	assert.Contains(t, out, "甲辰年")
	assert.Contains(t, out, "节气 立春")
	assert.Contains(t, out, "Earth 地球")
	assert.NotContains(t, out, "Observer:")
}

func TestWriteSummaryTable_WithObserver(t *testing.T) {
	obs := &astro.Observer{LatDeg: 39.9, LonDeg: 116.4}
	c := NewComposer(orbit.Default(), obs, nil)
	var buf bytes.Buffer
	WriteSummaryTable(&buf, c.Compose(orbit.DefaultEpoch))

	out := buf.String()
	assert.Contains(t, out, "Az")
	assert.Contains(t, out, "Observer: 39.90, 116.40")
}

func TestWriteCycleTable(t *testing.T) {
	var buf bytes.Buffer
	WriteCycleTable(&buf, cycle.Generate(2024))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 62)
	assert.Contains(t, lines[2], "甲子")
	assert.Contains(t, lines[2], "1984")

	var found bool
	for _, l := range lines {
		if strings.Contains(l, "壬寅") {
			found = true
			assert.Contains(t, l, "2022")
			assert.Contains(t, l, "Jupiter 木星")
		}
	}
	assert.True(t, found)
}

func TestPad(t *testing.T) {
	assert.Equal(t, "甲子 ", pad("甲子", 5))
	assert.Equal(t, "  ab", padLeft("ab", 4))
	assert.Equal(t, "toolong", pad("toolong", 3))
}
