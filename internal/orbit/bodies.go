// Package orbit maps a body and a civil instant to a position on a
// simplified circular orbit.
package orbit

import "strings"

// BodyID identifies a tracked celestial body.
type BodyID int

const (
	Sun BodyID = iota
	Mercury
	Venus
	Earth
	Moon
	Mars
	Jupiter
	Saturn
)

// Bodies lists every tracked body, Sun first.
var Bodies = []BodyID{Sun, Mercury, Venus, Earth, Moon, Mars, Jupiter, Saturn}

var bodyNames = map[BodyID]string{
	Sun:     "sun",
	Mercury: "mercury",
	Venus:   "venus",
	Earth:   "earth",
	Moon:    "moon",
	Mars:    "mars",
	Jupiter: "jupiter",
	Saturn:  "saturn",
}

var bodyDisplay = map[BodyID]string{
	Sun:     "Sun 太阳",
	Mercury: "Mercury 水星",
	Venus:   "Venus 金星",
	Earth:   "Earth 地球",
	Moon:    "Moon 月球",
	Mars:    "Mars 火星",
	Jupiter: "Jupiter 木星",
	Saturn:  "Saturn 土星",
}

// String returns the lower-case body key.
func (b BodyID) String() string {
	if name, ok := bodyNames[b]; ok {
		return name
	}
	return "unknown"
}

// DisplayName returns the bilingual name shown in the HUD.
func (b BodyID) DisplayName() string {
	if name, ok := bodyDisplay[b]; ok {
		return name
	}
	return "Unknown"
}

// Known reports whether b is one of the tracked bodies.
func (b BodyID) Known() bool {
	_, ok := bodyNames[b]
	return ok
}

// ParseBody parses a body key, case-insensitively.
func ParseBody(s string) (BodyID, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for id, name := range bodyNames {
		if name == s {
			return id, true
		}
	}
	return Sun, false
}
