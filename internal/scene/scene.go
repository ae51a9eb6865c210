// Package scene composes one renderable frame per instant: world positions
// for every body, the sexagenary labels and the solar term.
package scene

import (
	"time"

	"github.com/litescript/ls-jiazi/internal/astro"
	"github.com/litescript/ls-jiazi/internal/calendar"
	"github.com/litescript/ls-jiazi/internal/logging"
	"github.com/litescript/ls-jiazi/internal/orbit"
)

// Ephemeris is the position source. *orbit.Model satisfies it.
type Ephemeris interface {
	Position(body orbit.BodyID, t time.Time) astro.Vec3
	Horizon(body orbit.BodyID, t time.Time, obs astro.Observer) (astro.SkyCoord, astro.Vec3, bool)
}

// BodyKind categorizes bodies for rendering.
type BodyKind int

const (
	KindSun BodyKind = iota
	KindPlanet
	KindMoon
)

// String returns the kind name.
func (k BodyKind) String() string {
	switch k {
	case KindSun:
		return "sun"
	case KindPlanet:
		return "planet"
	case KindMoon:
		return "moon"
	default:
		return "unknown"
	}
}

// KindOf returns the rendering kind of a body.
func KindOf(id orbit.BodyID) BodyKind {
	switch id {
	case orbit.Sun:
		return KindSun
	case orbit.Moon:
		return KindMoon
	default:
		return KindPlanet
	}
}

// Body is one body placed in the world.
type Body struct {
	ID   orbit.BodyID
	Kind BodyKind
	Pos  astro.Vec3 // world position; the Moon is already composited onto Earth

	// Set only when the frame has an observer.
	Sky  *astro.SkyCoord
	Dome *astro.Vec3
}

// Name returns the bilingual display name.
func (b Body) Name() string {
	return b.ID.DisplayName()
}

// Distance returns the distance from the Sun in scene units.
func (b Body) Distance() float64 {
	return b.Pos.Norm()
}

// AboveHorizon reports whether the body is visible from the observer.
func (b Body) AboveHorizon() bool {
	return b.Sky != nil && b.Sky.ElDeg > 0
}

// Frame is everything the renderer needs for one instant.
type Frame struct {
	At            time.Time
	Bodies        []Body
	Labels        calendar.Triple
	SolarTerm     int
	TrueSolarTerm int
	Observer      *astro.Observer
	Dropped       []orbit.BodyID
}

// SolarTermName returns the name of the linear solar term.
func (f Frame) SolarTermName() string {
	return calendar.SolarTermName(f.SolarTerm)
}

// TrueSolarTermName returns the name of the longitude-based solar term.
func (f Frame) TrueSolarTermName() string {
	return calendar.SolarTermName(f.TrueSolarTerm)
}

// GetBody returns a body by id, or nil if it is not in the frame.
func (f Frame) GetBody(id orbit.BodyID) *Body {
	for i := range f.Bodies {
		if f.Bodies[i].ID == id {
			return &f.Bodies[i]
		}
	}
	return nil
}

// Composer builds frames from an ephemeris.
type Composer struct {
	eph      Ephemeris
	observer *astro.Observer
	log      *logging.Logger
}

// NewComposer creates a composer. observer may be nil to skip horizon
// coordinates.
func NewComposer(eph Ephemeris, observer *astro.Observer, log *logging.Logger) *Composer {
	if log == nil {
		log = logging.Discard()
	}
	return &Composer{eph: eph, observer: observer, log: log}
}

// Observer returns the configured observer, or nil.
func (c *Composer) Observer() *astro.Observer {
	return c.observer
}

// WorldPosition returns body's position in the scene with the Moon
// composited onto Earth.
func (c *Composer) WorldPosition(body orbit.BodyID, t time.Time) astro.Vec3 {
	pos := c.eph.Position(body, t)
	if body == orbit.Moon {
		pos = pos.Add(c.eph.Position(orbit.Earth, t))
	}
	return pos
}

// Compose builds the frame at t. Bodies whose position is not finite are
// left out and listed in Dropped.
func (c *Composer) Compose(t time.Time) Frame {
	f := Frame{
		At:            t,
		Bodies:        make([]Body, 0, len(orbit.Bodies)),
		Labels:        calendar.Labels(t),
		SolarTerm:     calendar.SolarTermIndex(t),
		TrueSolarTerm: calendar.TrueSolarTermIndex(t),
		Observer:      c.observer,
	}

	for _, id := range orbit.Bodies {
		pos := c.WorldPosition(id, t)
		if !pos.IsFinite() {
			c.log.Warn("scene: dropping %s at %s: non-finite position", id, t.Format(time.RFC3339))
			f.Dropped = append(f.Dropped, id)
			continue
		}
		b := Body{ID: id, Kind: KindOf(id), Pos: pos}
		if c.observer != nil {
			if sky, dome, ok := c.eph.Horizon(id, t, *c.observer); ok && dome.IsFinite() {
				b.Sky = &sky
				b.Dome = &dome
			}
		}
		f.Bodies = append(f.Bodies, b)
	}
	return f
}
