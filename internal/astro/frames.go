// Package astro provides vector math and sky-frame conversions for the orrery.
package astro

import (
	"math"
)

// Vec3 represents a 3D vector in any reference frame.
// Scene coordinates put the orbital plane in X/Z with Y as its normal.
type Vec3 struct {
	X, Y, Z float64
}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns a unit vector in the same direction.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return v.Scale(1 / n)
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Lerp interpolates linearly from v toward u. t=0 yields v, t=1 yields u.
func (v Vec3) Lerp(u Vec3, t float64) Vec3 {
	return Vec3{
		X: v.X + (u.X-v.X)*t,
		Y: v.Y + (u.Y-v.Y)*t,
		Z: v.Z + (u.Z-v.Z)*t,
	}
}

// IsFinite reports whether every component is a finite number.
func (v Vec3) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// obliquityRad is the Earth's axial tilt (J2000 epoch) in radians.
const obliquityRad = 23.439291 * math.Pi / 180

// SceneToEcliptic maps scene coordinates (orbital plane X/Z, normal Y)
// onto a right-handed ecliptic frame (plane X/Y, normal Z).
func SceneToEcliptic(v Vec3) Vec3 {
	return Vec3{X: v.X, Y: v.Z, Z: v.Y}
}

// EclipticToEquatorial rotates an ecliptic vector about X by the obliquity.
func EclipticToEquatorial(ecl Vec3) Vec3 {
	cosE := math.Cos(obliquityRad)
	sinE := math.Sin(obliquityRad)

	return Vec3{
		X: ecl.X,
		Y: ecl.Y*cosE - ecl.Z*sinE,
		Z: ecl.Y*sinE + ecl.Z*cosE,
	}
}

// EquatorialToSky converts an equatorial vector to RA/Dec.
// A zero vector yields RA 0, Dec 0.
func EquatorialToSky(eq Vec3) SkyCoord {
	r := eq.Norm()
	if r == 0 {
		return SkyCoord{}
	}
	ra := radToDeg(math.Atan2(eq.Y, eq.X))
	if ra < 0 {
		ra += 360
	}
	return SkyCoord{
		RAdeg:  ra,
		DecDeg: radToDeg(math.Asin(eq.Z / r)),
	}
}

// DomeVector places a horizontal coordinate on a dome of the given radius
// in scene space: Y points to the zenith, Z to the north, X to the east.
func DomeVector(c SkyCoord, radius float64) Vec3 {
	az := degToRad(c.AzDeg)
	el := degToRad(c.ElDeg)
	return Vec3{
		X: radius * math.Cos(el) * math.Sin(az),
		Y: radius * math.Sin(el),
		Z: radius * math.Cos(el) * math.Cos(az),
	}
}
