// Package table holds the in-memory representation of a parsed StarTable
// table block: a named, ordered collection of uniformly typed, unit-annotated
// columns together with its destination tags and origin.
package table

import (
	"fmt"

	"github.com/startable/startable-go/block"
)

// Column is a single table column: its name, the unit indicator string it was
// declared with, and the typed value array. The unit indicator is kept
// verbatim for wire compatibility; the representation is derived from it via
// KindOf.
type Column struct {
	Name   string
	Unit   string
	Values Values
}

// Table is a parsed StarTable table block. Invariants: every column has the
// same length, and column names are unique within the table (duplicates are
// resolved at parse time, never silently dropped).
type Table struct {
	Name string
	// Destinations is the table's set of destination tags, in declaration
	// order. Tags are opaque to this module.
	Destinations []string
	// Columns are the table's columns in declaration order.
	Columns []Column
	// Origin records where the table was read from.
	Origin block.Origin
	// Transposed is set when the table was laid out with one row per column
	// in the raw grid. It affects writing only; the in-memory representation
	// is identical either way.
	Transposed bool
}

// RowCount returns the common length of the table's columns.
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Values.Len()
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or nil if the table has no such column.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// HasDestination reports whether the table is tagged with the given
// destination.
func (t *Table) HasDestination(dest string) bool {
	for _, d := range t.Destinations {
		if d == dest {
			return true
		}
	}
	return false
}

// Equal compares two tables by name, destinations, column names, units and
// values, with NaN equal to NaN and NaT equal to NaT. Origin and the
// transposed flag are layout/traceability details and do not participate.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Name != other.Name || len(t.Destinations) != len(other.Destinations) ||
		len(t.Columns) != len(other.Columns) {
		return false
	}
	for i, d := range t.Destinations {
		if other.Destinations[i] != d {
			return false
		}
	}
	for i, c := range t.Columns {
		oc := other.Columns[i]
		if c.Name != oc.Name || c.Unit != oc.Unit || !valuesEqual(c.Values, oc.Values) {
			return false
		}
	}
	return true
}

// Validate checks the table's invariants: unique non-blank column names and
// uniform column length.
func (t *Table) Validate() error {
	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return fmt.Errorf("table %q: blank column name", t.Name)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("table %q: duplicate column name %q", t.Name, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	for _, c := range t.Columns {
		if c.Values.Len() != t.RowCount() {
			return fmt.Errorf("table %q: column %q has %d rows, expected %d",
				t.Name, c.Name, c.Values.Len(), t.RowCount())
		}
	}
	return nil
}

func (t *Table) String() string {
	return fmt.Sprintf("Table(%q, %d columns, %d rows)", t.Name, len(t.Columns), t.RowCount())
}
