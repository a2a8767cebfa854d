package table

import (
	"math"
	"time"
)

// UnitKind is the closed set of internal representations a column can have.
// It is derived from the column's unit indicator string and fixed for the
// lifetime of the column; changing representation requires re-typing the
// whole column.
type UnitKind int

const (
	// KindNumeric is the default representation: nullable floating point,
	// with NaN as the missing-value sentinel. All unit indicators other than
	// the reserved ones below map here, including "-".
	KindNumeric UnitKind = iota
	// KindText maps the "text" unit indicator to strings.
	KindText
	// KindOnOff maps the "onoff" unit indicator to booleans.
	KindOnOff
	// KindDateTime maps the "datetime" unit indicator to nullable date-times.
	KindDateTime
)

// KindOf resolves a unit indicator string to its representation. Dispatch is
// purely on the indicator; cell values are never inspected to guess a type.
func KindOf(unit string) UnitKind {
	switch unit {
	case "text":
		return KindText
	case "onoff":
		return KindOnOff
	case "datetime":
		return KindDateTime
	}
	return KindNumeric
}

func (k UnitKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindOnOff:
		return "onoff"
	case KindDateTime:
		return "datetime"
	}
	return "numeric"
}

// NaT is the null date-time sentinel: the zero time.Time.
var NaT = time.Time{}

// IsNaT reports whether t is the null date-time sentinel.
func IsNaT(t time.Time) bool {
	return t.IsZero()
}

// FormatDateTime renders t in its canonical StarTable string form, or the
// "-" missing-value marker for the null sentinel.
func FormatDateTime(t time.Time) string {
	if IsNaT(t) {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

// Values is a uniformly typed column value array. It is a closed union over
// the four column representations; no other implementations exist.
type Values interface {
	// Len returns the number of values in the column.
	Len() int
	// Cell returns the i'th value as its native Go type (string, bool,
	// float64 or time.Time).
	Cell(i int) any
	// Kind returns the representation of the array.
	Kind() UnitKind

	sealed()
}

// TextValues holds a "text" column.
type TextValues []string

func (v TextValues) Len() int       { return len(v) }
func (v TextValues) Cell(i int) any { return v[i] }
func (v TextValues) Kind() UnitKind { return KindText }
func (TextValues) sealed()          {}

// OnOffValues holds an "onoff" column.
type OnOffValues []bool

func (v OnOffValues) Len() int       { return len(v) }
func (v OnOffValues) Cell(i int) any { return v[i] }
func (v OnOffValues) Kind() UnitKind { return KindOnOff }
func (OnOffValues) sealed()          {}

// NumericValues holds a numeric column. Missing values are NaN.
type NumericValues []float64

func (v NumericValues) Len() int       { return len(v) }
func (v NumericValues) Cell(i int) any { return v[i] }
func (v NumericValues) Kind() UnitKind { return KindNumeric }
func (NumericValues) sealed()          {}

// DateTimeValues holds a "datetime" column. Missing values are NaT.
type DateTimeValues []time.Time

func (v DateTimeValues) Len() int       { return len(v) }
func (v DateTimeValues) Cell(i int) any { return v[i] }
func (v DateTimeValues) Kind() UnitKind { return KindDateTime }
func (DateTimeValues) sealed()          {}

// valuesEqual compares two value arrays for equality. NaN compares equal to
// NaN and NaT to NaT, so that a parsed column always equals its round-tripped
// self.
func valuesEqual(a, b Values) bool {
	if a.Kind() != b.Kind() || a.Len() != b.Len() {
		return false
	}
	switch av := a.(type) {
	case TextValues:
		bv := b.(TextValues)
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
	case OnOffValues:
		bv := b.(OnOffValues)
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
	case NumericValues:
		bv := b.(NumericValues)
		for i := range av {
			if av[i] != bv[i] && !(math.IsNaN(av[i]) && math.IsNaN(bv[i])) {
				return false
			}
		}
	case DateTimeValues:
		bv := b.(DateTimeValues)
		for i := range av {
			if !av[i].Equal(bv[i]) {
				return false
			}
		}
	}
	return true
}
