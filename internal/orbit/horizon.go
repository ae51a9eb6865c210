package orbit

import (
	"time"

	"github.com/litescript/ls-jiazi/internal/astro"
)

// DomeRadius is the radius of the horizon view in scene units.
const DomeRadius = 20.0

// Geocentric returns body's position relative to Earth on the circular model.
// The Moon's model position is already Earth-relative.
func (m *Model) Geocentric(body BodyID, t time.Time) astro.Vec3 {
	if body == Moon {
		return m.Position(Moon, t)
	}
	return m.Position(body, t).Sub(m.Position(Earth, t))
}

// Horizon projects body onto an observer's sky.
//
// The geocentric direction from the circular model is treated as ecliptic,
// rotated to equatorial RA/Dec and then to Az/El for obs at t. The returned
// vector sits on a dome of DomeRadius with Y toward the zenith, so Y is
// nonzero here unlike Position. ok is false for Earth itself.
func (m *Model) Horizon(body BodyID, t time.Time, obs astro.Observer) (astro.SkyCoord, astro.Vec3, bool) {
	if body == Earth {
		return astro.SkyCoord{}, astro.Vec3{}, false
	}
	geo := m.Geocentric(body, t)
	if geo.Norm() == 0 {
		return astro.SkyCoord{}, astro.Vec3{}, false
	}
	eq := astro.EclipticToEquatorial(astro.SceneToEcliptic(geo))
	sky := astro.EquatorialToHorizontal(astro.EquatorialToSky(eq), obs, t)
	return sky, astro.DomeVector(sky, DomeRadius), true
}
