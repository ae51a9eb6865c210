// Package calendar maps civil time onto the sexagenary (stem-branch)
// calendar and the 24 solar terms.
//
// Every function here is pure and total: any time.Time or int yields a
// label, including years before the common era.
package calendar

import (
	"time"
)

// CycleLength is the length of the sexagenary cycle.
const CycleLength = 60

// Stems are the ten heavenly stems.
var Stems = [10]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

// Branches are the twelve earthly branches.
var Branches = [12]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

// Label is a stem-branch pair such as 甲子.
// Only pairs with matching parity are valid; LabelAt always returns one.
type Label struct {
	Stem   int // index into Stems
	Branch int // index into Branches
}

// LabelAt returns the label at position offset of the 60-name cycle.
func LabelAt(offset int) Label {
	offset = FloorMod(offset, CycleLength)
	return Label{Stem: offset % 10, Branch: offset % 12}
}

// Index returns the label's position 0..59 in the cycle, or -1 if the
// stem and branch cannot co-occur.
func (l Label) Index() int {
	if !l.Valid() {
		return -1
	}
	// Smallest i with i%10 == Stem and i%12 == Branch.
	for i := l.Stem; i < CycleLength; i += 10 {
		if i%12 == l.Branch {
			return i
		}
	}
	return -1
}

// Valid reports whether the pair is one of the 60 names.
func (l Label) Valid() bool {
	return l.Stem >= 0 && l.Stem < 10 &&
		l.Branch >= 0 && l.Branch < 12 &&
		l.Stem%2 == l.Branch%2
}

// String returns the two-character name.
func (l Label) String() string {
	if l.Stem < 0 || l.Stem >= 10 || l.Branch < 0 || l.Branch >= 12 {
		return "??"
	}
	return Stems[l.Stem] + Branches[l.Branch]
}

// ParseLabel parses a two-character name like "壬寅".
func ParseLabel(s string) (Label, bool) {
	runes := []rune(s)
	if len(runes) != 2 {
		return Label{}, false
	}
	l := Label{Stem: indexOf(Stems[:], string(runes[0])), Branch: indexOf(Branches[:], string(runes[1]))}
	if !l.Valid() {
		return Label{}, false
	}
	return l, true
}

func indexOf(set []string, s string) int {
	for i, v := range set {
		if v == s {
			return i
		}
	}
	return -1
}

// epochYear is year 4 CE, cycle index 0 (甲子).
const epochYear = 4

// YearLabel returns the sexagenary name of a (proleptic) calendar year.
func YearLabel(year int) Label {
	return LabelAt(year - epochYear)
}

// MonthLabel returns a simplified month pillar: the stem follows the year
// stem, the branch follows the civil month. month is normalised into 1..12.
//
// This does not apply the traditional solar-term month boundaries.
func MonthLabel(year, month int) Label {
	m := FloorMod(month-1, 12)
	yearStem := YearLabel(year).Stem
	return Label{
		Stem:   FloorMod((yearStem%5)*2+m, 10),
		Branch: m,
	}
}

// dayAnchor is 1949-10-01 00:00 expressed in civil seconds.
var dayAnchor = time.Date(1949, 10, 1, 0, 0, 0, 0, time.UTC).Unix()

// dayAnchorOffset is the cycle offset of the anchor day.
const dayAnchorOffset = 10

const secondsPerDay = 86400

// DayLabel returns the sexagenary name of t's civil day in t's location.
func DayLabel(t time.Time) Label {
	return LabelAt(int(daysSinceAnchor(t)) + dayAnchorOffset)
}

// daysSinceAnchor counts whole civil days from the anchor to t's wall clock.
// Works on Unix seconds so that spans beyond time.Duration's range stay exact.
func daysSinceAnchor(t time.Time) int64 {
	_, offset := t.Zone()
	civil := t.Unix() + int64(offset)
	return floorDiv64(civil-dayAnchor, secondsPerDay)
}

// Triple is the year/month/day label set for one instant.
type Triple struct {
	Year  Label
	Month Label
	Day   Label
}

// String formats the triple as "甲辰年 丙子月 甲戌日".
func (tr Triple) String() string {
	return tr.Year.String() + "年 " + tr.Month.String() + "月 " + tr.Day.String() + "日"
}

// Labels computes all three labels for t using t's civil date.
func Labels(t time.Time) Triple {
	return Triple{
		Year:  YearLabel(t.Year()),
		Month: MonthLabel(t.Year(), int(t.Month())),
		Day:   DayLabel(t),
	}
}

// FloorMod returns a mod m with the sign of m.
func FloorMod(a, m int) int {
	r := a % m
	if r != 0 && (r < 0) != (m < 0) {
		r += m
	}
	return r
}

// FloorDiv returns floor(a / m).
func FloorDiv(a, m int) int {
	return int(floorDiv64(int64(a), int64(m)))
}

func floorDiv64(a, m int64) int64 {
	q := a / m
	if (a%m != 0) && ((a < 0) != (m < 0)) {
		q--
	}
	return q
}
