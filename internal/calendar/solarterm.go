package calendar

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/base"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/solar"
)

// SolarTerms lists the 24 terms in calendar-year order.
// Index 0 is 小寒, the first term to begin in January.
var SolarTerms = [24]string{
	"小寒", "大寒", "立春", "雨水", "惊蛰", "春分",
	"清明", "谷雨", "立夏", "小满", "芒种", "夏至",
	"小暑", "大暑", "立秋", "处暑", "白露", "秋分",
	"寒露", "霜降", "立冬", "小雪", "大雪", "冬至",
}

// SolarTermIndex returns a term index 0..23 from the day of the year.
//
// It divides a 365-day year linearly into 24 parts; it is not derived from
// the Sun's ecliptic longitude. Dec 31 (and Dec 30 in leap years) rolls
// over to 0.
func SolarTermIndex(t time.Time) int {
	return (t.YearDay() * 24 / 365) % 24
}

// SolarTermName returns the name for an index, wrapping out-of-range values.
func SolarTermName(idx int) string {
	return SolarTerms[FloorMod(idx, 24)]
}

// xiaohanLongitude is the solar longitude at which 小寒 begins.
const xiaohanLongitude = 285.0

// TrueSolarTermIndex returns the term index from the Sun's apparent
// ecliptic longitude. Each term spans 15° starting at 小寒 (285°).
func TrueSolarTermIndex(t time.Time) int {
	lon := SunApparentLongitude(t)
	return int(math.Floor(normalize360(lon-xiaohanLongitude)/15)) % 24
}

// SunApparentLongitude returns the Sun's apparent ecliptic longitude in
// degrees [0, 360).
func SunApparentLongitude(t time.Time) float64 {
	jd := julian.TimeToJD(t.UTC())
	return normalize360(solar.ApparentLongitude(base.J2000Century(jd)).Deg())
}

func normalize360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
