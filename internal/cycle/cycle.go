// Package cycle builds the 60-entry jiazi table and resolves cycle names
// to calendar years and bodies.
package cycle

import (
	"errors"
	"fmt"

	"github.com/litescript/ls-jiazi/internal/calendar"
	"github.com/litescript/ls-jiazi/internal/orbit"
)

// ErrUnknownName is returned when a string is not one of the 60 names.
var ErrUnknownName = errors.New("unknown cycle name")

// anchorBaseYear is the year labelled with cycle index 0 (甲子).
const anchorBaseYear = 4

// Entry is one of the 60 cycle names with its most recent real year.
type Entry struct {
	Name       calendar.Label
	CycleIndex int
	AnchorYear int
}

// String formats the entry as "甲子 1984".
func (e Entry) String() string {
	return fmt.Sprintf("%s %d", e.Name, e.AnchorYear)
}

// Generate returns the 60 entries in cycle order. Each AnchorYear is the
// largest year not after referenceYear whose year label is the entry name.
func Generate(referenceYear int) []Entry {
	cycles := calendar.FloorDiv(referenceYear-anchorBaseYear, calendar.CycleLength)
	base := anchorBaseYear + cycles*calendar.CycleLength

	entries := make([]Entry, calendar.CycleLength)
	for i := range entries {
		year := base + i
		if year > referenceYear {
			year -= calendar.CycleLength
		}
		entries[i] = Entry{
			Name:       calendar.LabelAt(i),
			CycleIndex: i,
			AnchorYear: year,
		}
	}
	return entries
}

// AnchorYear returns the most recent year not after referenceYear that
// carries name. ok is false for an invalid label.
func AnchorYear(name calendar.Label, referenceYear int) (int, bool) {
	i := name.Index()
	if i < 0 {
		return 0, false
	}
	return Generate(referenceYear)[i].AnchorYear, true
}

// Resolve parses a cycle name and returns its entry and associated body.
// Unknown names return ErrUnknownName together with the Earth fallback.
func Resolve(name string, referenceYear int) (Entry, orbit.BodyID, error) {
	label, ok := calendar.ParseLabel(name)
	if !ok {
		return Entry{}, orbit.Earth, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	i := label.Index()
	return Generate(referenceYear)[i], ResolveBody(label), nil
}
