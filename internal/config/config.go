// Package config loads the YAML configuration file.
//
// Every section is optional. Missing values keep the defaults from
// DefaultConfig, so an empty file is a valid configuration.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/litescript/ls-jiazi/internal/astro"
	"github.com/litescript/ls-jiazi/internal/camera"
	"github.com/litescript/ls-jiazi/internal/orbit"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the top-level configuration file.
type Config struct {
	Epoch    string                `yaml:"epoch"`
	Bodies   map[string]BodyConfig `yaml:"bodies"`
	Camera   CameraConfig          `yaml:"camera"`
	Observer *ObserverConfig       `yaml:"observer"`
	Playback PlaybackConfig        `yaml:"playback"`
	Log      LogConfig             `yaml:"log"`
}

// BodyConfig overrides one body's circular orbit. Zero fields keep the
// built-in value.
type BodyConfig struct {
	PeriodDays float64 `yaml:"period_days"`
	Radius     float64 `yaml:"radius"`
}

// CameraConfig tunes focus transitions.
type CameraConfig struct {
	Duration string  `yaml:"duration"` // Go duration, e.g. "1200ms"
	Distance float64 `yaml:"distance"`
	Policy   string  `yaml:"policy"` // "preempt" or "ignore"
}

// ObserverConfig enables the horizon view.
type ObserverConfig struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

// PlaybackConfig sets the initial simulation speed.
type PlaybackConfig struct {
	SpeedDaysPerSecond float64 `yaml:"speed_days_per_second"`
	Playing            bool    `yaml:"playing"`
}

// LogConfig sets logging defaults. Command-line flags win.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Epoch:  orbit.DefaultEpoch.Format(time.RFC3339),
		Bodies: map[string]BodyConfig{},
		Camera: CameraConfig{
			Duration: "1200ms",
			Distance: 12,
			Policy:   "preempt",
		},
		Playback: PlaybackConfig{
			SpeedDaysPerSecond: 1,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads the file at path on top of DefaultConfig and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of DefaultConfig and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if cfg.Bodies == nil {
		cfg.Bodies = map[string]BodyConfig{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if _, err := c.EpochTime(); err != nil {
		return err
	}
	if _, err := c.OrbitParams(); err != nil {
		return err
	}
	if _, err := c.CameraConfig(); err != nil {
		return err
	}
	if o := c.Observer; o != nil {
		if !finite(o.Lat) || o.Lat < -90 || o.Lat > 90 {
			return fmt.Errorf("%w: observer lat %v out of range", ErrInvalid, o.Lat)
		}
		if !finite(o.Lon) || o.Lon < -180 || o.Lon > 180 {
			return fmt.Errorf("%w: observer lon %v out of range", ErrInvalid, o.Lon)
		}
	}
	if s := c.Playback.SpeedDaysPerSecond; !finite(s) || s <= 0 {
		return fmt.Errorf("%w: playback speed must be positive, got %v", ErrInvalid, s)
	}
	return nil
}

// EpochTime parses the orbit reference epoch.
func (c *Config) EpochTime() (time.Time, error) {
	if c.Epoch == "" {
		return orbit.DefaultEpoch, nil
	}
	t, err := time.Parse(time.RFC3339, c.Epoch)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: epoch: %w", ErrInvalid, err)
	}
	return t, nil
}

// OrbitParams merges body overrides into orbit.DefaultParams.
func (c *Config) OrbitParams() (map[orbit.BodyID]orbit.Params, error) {
	params := orbit.DefaultParams()
	for name, override := range c.Bodies {
		id, ok := orbit.ParseBody(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown body %q", ErrInvalid, name)
		}
		if id == orbit.Sun {
			return nil, fmt.Errorf("%w: the sun has no orbit", ErrInvalid)
		}
		p := params[id]
		if override.PeriodDays != 0 {
			p.PeriodDays = override.PeriodDays
		}
		if override.Radius != 0 {
			p.RadiusUnits = override.Radius
		}
		if !finite(p.PeriodDays) || p.PeriodDays <= 0 {
			return nil, fmt.Errorf("%w: %s period must be positive, got %v", ErrInvalid, id, p.PeriodDays)
		}
		if !finite(p.RadiusUnits) || p.RadiusUnits <= 0 {
			return nil, fmt.Errorf("%w: %s radius must be positive, got %v", ErrInvalid, id, p.RadiusUnits)
		}
		params[id] = p
	}
	return params, nil
}

// CameraConfig converts the camera section.
func (c *Config) CameraConfig() (camera.Config, error) {
	out := camera.DefaultConfig()
	if c.Camera.Duration != "" {
		d, err := time.ParseDuration(c.Camera.Duration)
		if err != nil {
			return out, fmt.Errorf("%w: camera duration: %w", ErrInvalid, err)
		}
		if d <= 0 {
			return out, fmt.Errorf("%w: camera duration must be positive, got %s", ErrInvalid, d)
		}
		out.Duration = d
	}
	if c.Camera.Distance != 0 {
		if !finite(c.Camera.Distance) || c.Camera.Distance < 0 {
			return out, fmt.Errorf("%w: camera distance must be positive, got %v", ErrInvalid, c.Camera.Distance)
		}
		out.Distance = c.Camera.Distance
	}
	switch p := strings.ToLower(c.Camera.Policy); p {
	case "", "preempt", "ignore":
		out.Policy = camera.ParsePolicy(p)
	default:
		return out, fmt.Errorf("%w: camera policy must be preempt or ignore, got %q", ErrInvalid, c.Camera.Policy)
	}
	return out, nil
}

// ObserverLocation returns the configured observer, or nil when the
// horizon view is disabled.
func (c *Config) ObserverLocation() *astro.Observer {
	if c.Observer == nil {
		return nil
	}
	return &astro.Observer{
		LatDeg: c.Observer.Lat,
		LonDeg: c.Observer.Lon,
		Name:   c.Observer.Name,
	}
}

// SetObserver replaces the observer section, as the -lat/-lon flags do.
func (c *Config) SetObserver(lat, lon float64, name string) {
	c.Observer = &ObserverConfig{Name: name, Lat: lat, Lon: lon}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
