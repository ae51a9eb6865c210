package cycle

import (
	"sync"

	"github.com/litescript/ls-jiazi/internal/calendar"
	"github.com/litescript/ls-jiazi/internal/orbit"
)

// Index caches the generated table for one reference year and rebuilds it
// whenever a different reference year is requested.
type Index struct {
	mu      sync.Mutex
	refYear int
	entries []Entry
}

// NewIndex creates an index primed for referenceYear.
func NewIndex(referenceYear int) *Index {
	return &Index{refYear: referenceYear, entries: Generate(referenceYear)}
}

// Entries returns a copy of the table for referenceYear.
func (x *Index) Entries(referenceYear int) []Entry {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.rebase(referenceYear)

	out := make([]Entry, len(x.entries))
	copy(out, x.entries)
	return out
}

// Lookup returns the entry and body for a label relative to referenceYear.
// Invalid labels return ok=false and the Earth fallback.
func (x *Index) Lookup(name calendar.Label, referenceYear int) (Entry, orbit.BodyID, bool) {
	i := name.Index()
	if i < 0 {
		return Entry{}, orbit.Earth, false
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.rebase(referenceYear)
	return x.entries[i], ResolveBody(name), true
}

// ReferenceYear returns the year the cached table was built for.
func (x *Index) ReferenceYear() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.refYear
}

func (x *Index) rebase(referenceYear int) {
	if x.entries != nil && referenceYear == x.refYear {
		return
	}
	x.refYear = referenceYear
	x.entries = Generate(referenceYear)
}
