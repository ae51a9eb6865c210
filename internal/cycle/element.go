package cycle

import (
	"github.com/litescript/ls-jiazi/internal/calendar"
	"github.com/litescript/ls-jiazi/internal/orbit"
)

// Element is one of the five phases (五行).
type Element int

const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

// String returns the element's character.
func (e Element) String() string {
	switch e {
	case Wood:
		return "木"
	case Fire:
		return "火"
	case Earth:
		return "土"
	case Metal:
		return "金"
	case Water:
		return "水"
	default:
		return "?"
	}
}

// branchElements maps each branch to its element:
// 寅卯 wood, 巳午 fire, 申酉 metal, 亥子 water, 辰戌丑未 earth.
var branchElements = [12]Element{
	Water, // 子
	Earth, // 丑
	Wood,  // 寅
	Wood,  // 卯
	Earth, // 辰
	Fire,  // 巳
	Fire,  // 午
	Earth, // 未
	Metal, // 申
	Metal, // 酉
	Earth, // 戌
	Water, // 亥
}

// elementBodies assigns the planet named after each element.
var elementBodies = map[Element]orbit.BodyID{
	Water: orbit.Mercury,
	Wood:  orbit.Jupiter,
	Fire:  orbit.Mars,
	Earth: orbit.Saturn,
	Metal: orbit.Venus,
}

// ElementOf returns the element of a label, derived from its branch so that
// all 60 names are covered. ok is false for an invalid label.
func ElementOf(l calendar.Label) (Element, bool) {
	if !l.Valid() {
		return 0, false
	}
	return branchElements[l.Branch], true
}

// ResolveBody returns the body associated with a cycle name.
// Invalid labels fall back to Earth.
func ResolveBody(l calendar.Label) orbit.BodyID {
	e, ok := ElementOf(l)
	if !ok {
		return orbit.Earth
	}
	if b, ok := elementBodies[e]; ok {
		return b
	}
	return orbit.Earth
}
