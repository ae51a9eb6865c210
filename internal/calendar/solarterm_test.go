package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSolarTermIndex_Bounds(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{"jan 1", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 0},
		{"jan 16", time.Date(2023, 1, 16, 0, 0, 0, 0, time.UTC), 1},
		{"jul 1", time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), 11},
		{"dec 30", time.Date(2023, 12, 30, 0, 0, 0, 0, time.UTC), 23},
		{"dec 31 wraps", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), 0},
		{"leap dec 30 wraps", time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SolarTermIndex(tt.t))
		})
	}
}

func TestSolarTermIndex_MonotoneWithOneWrap(t *testing.T) {
	for _, year := range []int{2023, 2024} {
		day := time.Date(year, 1, 1, 12, 0, 0, 0, time.UTC)
		prev := SolarTermIndex(day)
		wraps := 0
		for day.Year() == year {
			idx := SolarTermIndex(day)
			assert.True(t, idx >= 0 && idx < 24)
			if idx < prev {
				wraps++
			}
			prev = idx
			day = day.AddDate(0, 0, 1)
		}
		assert.Equal(t, 1, wraps, "year %d", year)
	}
}

func TestSolarTermName(t *testing.T) {
	assert.Equal(t, "小寒", SolarTermName(0))
	assert.Equal(t, "冬至", SolarTermName(23))
	assert.Equal(t, "小寒", SolarTermName(24))
	assert.Equal(t, "冬至", SolarTermName(-1))
}

func TestTrueSolarTermIndex(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"early january", time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), "小寒"},
		{"spring equinox", time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), "春分"},
		{"summer solstice", time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), "夏至"},
		{"winter solstice", time.Date(2024, 12, 22, 12, 0, 0, 0, time.UTC), "冬至"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SolarTermName(TrueSolarTermIndex(tt.t)))
		})
	}
}

func TestSunApparentLongitude_Range(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 366; i += 5 {
		lon := SunApparentLongitude(day.AddDate(0, 0, i))
		assert.True(t, lon >= 0 && lon < 360, "longitude %v", lon)
	}
}
