package cycle

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litescript/ls-jiazi/internal/calendar"
	"github.com/litescript/ls-jiazi/internal/orbit"
)

func TestGenerate_Invariants(t *testing.T) {
	for _, ref := range []int{2024, 1984, 1983, 4, 3, 0, -500, 3001} {
		entries := Generate(ref)
		require.Len(t, entries, 60)

		names := make(map[string]bool)
		for i, e := range entries {
			assert.Equal(t, i, e.CycleIndex)
			assert.Equal(t, e.Name, calendar.YearLabel(e.AnchorYear), "ref %d entry %d", ref, i)
			assert.LessOrEqual(t, e.AnchorYear, ref)
			assert.Greater(t, e.AnchorYear, ref-60, "anchor should be the most recent match")
			names[e.Name.String()] = true
		}
		assert.Len(t, names, 60, "names must be pairwise distinct")
	}
}

func TestGenerate_Golden2024(t *testing.T) {
	got := Generate(2024)

	want := []Entry{
		{Name: calendar.LabelAt(0), CycleIndex: 0, AnchorYear: 1984},
		{Name: calendar.LabelAt(1), CycleIndex: 1, AnchorYear: 1985},
		{Name: calendar.LabelAt(2), CycleIndex: 2, AnchorYear: 1986},
	}
	if diff := cmp.Diff(want, got[:3]); diff != "" {
		t.Errorf("Generate(2024)[:3] mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "甲辰 2024", got[40].String())
	assert.Equal(t, "乙巳 1965", got[41].String())
	assert.Equal(t, "癸亥 1983", got[59].String())
}

func TestGenerate_RebasesWithReference(t *testing.T) {
	a := Generate(2024)
	b := Generate(2084)
	for i := range a {
		assert.Equal(t, a[i].AnchorYear+60, b[i].AnchorYear)
	}
}

func TestResolveBody(t *testing.T) {
	tests := []struct {
		name string
		want orbit.BodyID
	}{
		{"壬寅", orbit.Jupiter},
		{"甲子", orbit.Mercury},
		{"丙午", orbit.Mars},
		{"庚申", orbit.Venus},
		{"戊辰", orbit.Saturn},
		{"己未", orbit.Saturn},
		{"癸亥", orbit.Mercury},
		{"辛酉", orbit.Venus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, ok := calendar.ParseLabel(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, ResolveBody(l))
		})
	}
}

func TestResolveBody_FullCoverage(t *testing.T) {
	counts := make(map[orbit.BodyID]int)
	for i := 0; i < 60; i++ {
		b := ResolveBody(calendar.LabelAt(i))
		assert.NotEqual(t, orbit.Earth, b, "%s fell through to the default", calendar.LabelAt(i))
		counts[b]++
	}
	// 12 positions per element, with earth holding 4 of 12 branches.
	assert.Equal(t, 10, counts[orbit.Jupiter])
	assert.Equal(t, 10, counts[orbit.Mars])
	assert.Equal(t, 10, counts[orbit.Venus])
	assert.Equal(t, 10, counts[orbit.Mercury])
	assert.Equal(t, 20, counts[orbit.Saturn])
}

func TestResolveBody_InvalidFallsBackToEarth(t *testing.T) {
	assert.Equal(t, orbit.Earth, ResolveBody(calendar.Label{Stem: 0, Branch: 1}))
	assert.Equal(t, orbit.Earth, ResolveBody(calendar.Label{Stem: -1, Branch: 40}))
}

func TestResolve(t *testing.T) {
	e, body, err := Resolve("壬寅", 2024)
	require.NoError(t, err)
	assert.Equal(t, 2022, e.AnchorYear)
	assert.Equal(t, orbit.Jupiter, body)

	_, body, err = Resolve("火星", 2024)
	assert.True(t, errors.Is(err, ErrUnknownName))
	assert.Equal(t, orbit.Earth, body)
}

func TestAnchorYear(t *testing.T) {
	l, _ := calendar.ParseLabel("甲子")
	y, ok := AnchorYear(l, 2043)
	assert.True(t, ok)
	assert.Equal(t, 1984, y)

	y, ok = AnchorYear(l, 2044)
	assert.True(t, ok)
	assert.Equal(t, 2044, y)

	_, ok = AnchorYear(calendar.Label{Stem: 1, Branch: 0}, 2024)
	assert.False(t, ok)
}

func TestElementOf(t *testing.T) {
	l, _ := calendar.ParseLabel("壬寅")
	e, ok := ElementOf(l)
	require.True(t, ok)
	assert.Equal(t, Wood, e)
	assert.Equal(t, "木", e.String())

	_, ok = ElementOf(calendar.Label{Stem: 0, Branch: 1})
	assert.False(t, ok)
}

func TestIndex_Rebase(t *testing.T) {
	x := NewIndex(2024)
	assert.Equal(t, 2024, x.ReferenceYear())

	l, _ := calendar.ParseLabel("甲辰")
	e, body, ok := x.Lookup(l, 2024)
	require.True(t, ok)
	assert.Equal(t, 2024, e.AnchorYear)
	assert.Equal(t, orbit.Saturn, body)

	e, _, ok = x.Lookup(l, 2030)
	require.True(t, ok)
	assert.Equal(t, 2024, e.AnchorYear)
	assert.Equal(t, 2030, x.ReferenceYear())

	e, _, _ = x.Lookup(l, 2100)
	assert.Equal(t, 2084, e.AnchorYear)

	entries := x.Entries(2100)
	entries[0].AnchorYear = 0
	assert.NotEqual(t, 0, x.Entries(2100)[0].AnchorYear, "Entries must return a copy")

	_, body, ok = x.Lookup(calendar.Label{Stem: 0, Branch: 1}, 2100)
	assert.False(t, ok)
	assert.Equal(t, orbit.Earth, body)
}
