package orbit

import (
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-jiazi/internal/astro"
	"github.com/litescript/ls-jiazi/internal/logging"
)

// Params is the circular orbit of one body: period and radius in scene units.
type Params struct {
	PeriodDays  float64
	RadiusUnits float64
}

// DefaultEpoch is the instant at which every body sits on the +X axis.
var DefaultEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// DefaultParams returns the built-in orbit table. The Sun is not included;
// the Moon's radius is relative to Earth.
func DefaultParams() map[BodyID]Params {
	return map[BodyID]Params{
		Mercury: {PeriodDays: 87.969, RadiusUnits: 10},
		Venus:   {PeriodDays: 224.701, RadiusUnits: 16},
		Earth:   {PeriodDays: 365.256, RadiusUnits: 24},
		Moon:    {PeriodDays: 27.3217, RadiusUnits: 3},
		Mars:    {PeriodDays: 686.98, RadiusUnits: 32},
		Jupiter: {PeriodDays: 4332.59, RadiusUnits: 46},
		Saturn:  {PeriodDays: 10759.22, RadiusUnits: 60},
	}
}

// Model evaluates positions against a fixed orbit table. It holds no
// mutable state after construction and is safe for concurrent use.
type Model struct {
	epoch  time.Time
	params map[BodyID]Params
	log    *logging.Logger
}

// NewModel builds a model. Every non-Sun body must have an entry with a
// positive, finite period and radius.
func NewModel(epoch time.Time, params map[BodyID]Params, log *logging.Logger) (*Model, error) {
	if log == nil {
		log = logging.Discard()
	}
	table := make(map[BodyID]Params, len(params))
	for _, b := range Bodies {
		if b == Sun {
			continue
		}
		p, ok := params[b]
		if !ok {
			return nil, fmt.Errorf("missing orbit parameters for %s", b)
		}
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", b, err)
		}
		table[b] = p
	}
	return &Model{epoch: epoch, params: table, log: log}, nil
}

func (p Params) validate() error {
	if !(p.PeriodDays > 0) || math.IsInf(p.PeriodDays, 0) {
		return fmt.Errorf("period must be positive, got %v", p.PeriodDays)
	}
	if !(p.RadiusUnits > 0) || math.IsInf(p.RadiusUnits, 0) {
		return fmt.Errorf("radius must be positive, got %v", p.RadiusUnits)
	}
	return nil
}

var defaultModel = func() *Model {
	m, err := NewModel(DefaultEpoch, DefaultParams(), nil)
	if err != nil {
		panic(err)
	}
	return m
}()

// Default returns the model built from DefaultEpoch and DefaultParams.
func Default() *Model {
	return defaultModel
}

// Position evaluates the default model.
func Position(body BodyID, t time.Time) astro.Vec3 {
	return defaultModel.Position(body, t)
}

// Epoch returns the model's reference instant.
func (m *Model) Epoch() time.Time {
	return m.epoch
}

// Params returns the orbit of body, substituting Earth's for unknown bodies.
func (m *Model) Params(body BodyID) Params {
	if p, ok := m.params[body]; ok {
		return p
	}
	m.log.Debug("orbit: no parameters for body %d, using earth", int(body))
	return m.params[Earth]
}

// Position returns body's position at t.
//
// The Sun is fixed at the origin. Planets lie on a circle in the X/Z plane
// with Y = 0. The Moon is returned relative to Earth; callers composite it.
// Unknown bodies use Earth's orbit rather than failing.
func (m *Model) Position(body BodyID, t time.Time) astro.Vec3 {
	if body == Sun {
		return astro.Vec3{}
	}
	p := m.Params(body)
	angle := m.Phase(body, t)
	return astro.Vec3{
		X: p.RadiusUnits * math.Cos(angle),
		Y: 0,
		Z: p.RadiusUnits * math.Sin(angle),
	}
}

// Phase returns the unwrapped orbital angle in radians at t.
func (m *Model) Phase(body BodyID, t time.Time) float64 {
	if body == Sun {
		return 0
	}
	return DaysSince(m.epoch, t) / m.Params(body).PeriodDays * 2 * math.Pi
}

// DaysSince returns the signed fractional days from epoch to t.
// Computed from Unix seconds so spans beyond ±292 years are not clamped.
func DaysSince(epoch, t time.Time) float64 {
	secs := float64(t.Unix() - epoch.Unix())
	nanos := float64(t.Nanosecond() - epoch.Nanosecond())
	return (secs + nanos/1e9) / 86400
}
