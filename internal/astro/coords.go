package astro

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
)

// SkyCoord holds equatorial (RA/Dec) and, once projected for an observer,
// horizontal (Az/El) coordinates. All angles are in degrees.
type SkyCoord struct {
	RAdeg  float64 // 0-360
	DecDeg float64 // -90 to +90

	AzDeg float64 // 0=N, 90=E, 180=S, 270=W
	ElDeg float64 // 0=horizon, 90=zenith
}

// Observer is a ground location. The circular orbit model ignores it;
// it is threaded through for the horizon view only.
type Observer struct {
	LatDeg float64 // north positive
	LonDeg float64 // east positive
	Name   string
}

// EquatorialToHorizontal fills in Az/El for eq as seen by obs at t.
// RA/Dec are preserved.
func EquatorialToHorizontal(eq SkyCoord, obs Observer, t time.Time) SkyCoord {
	lat := degToRad(obs.LatDeg)
	dec := degToRad(eq.DecDeg)
	ha := degToRad(localSiderealTime(t, obs.LonDeg) - eq.RAdeg)

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(clampUnit(sinAlt))

	denom := math.Cos(alt) * math.Cos(lat)
	az := 0.0
	if denom != 0 {
		az = math.Acos(clampUnit((math.Sin(dec) - math.Sin(alt)*math.Sin(lat)) / denom))
	}
	// Positive hour angle means the object is west of the meridian.
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}

	eq.AzDeg = radToDeg(az)
	eq.ElDeg = radToDeg(alt)
	return eq
}

// localSiderealTime returns LST in degrees [0, 360).
func localSiderealTime(t time.Time, lonDeg float64) float64 {
	return normalizeAngle360(greenwichMeanSiderealTime(t) + lonDeg)
}

// greenwichMeanSiderealTime returns GMST in degrees [0, 360) (IAU 1982).
func greenwichMeanSiderealTime(t time.Time) float64 {
	return normalizeAngle360(sidereal.Mean(JulianDate(t)).Angle().Deg())
}

// JulianDate returns the Julian Date for t.
func JulianDate(t time.Time) float64 {
	return julian.TimeToJD(t)
}

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// normalizeAngle360 normalizes an angle to [0, 360).
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
