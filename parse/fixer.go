package parse

import (
	"fmt"
	"math"
	"strings"

	"github.com/startable/startable-go/table"
)

// FixContext identifies the cell being fixed. It is built fresh for every fix
// call rather than read off shared mutable state, so a Fixer holds no ambient
// parse position and a single policy value is safe to hand to several
// sequential parses.
type FixContext struct {
	Table  string
	Column string
	// Row is the 0-based data row index, or -1 when the fix does not concern
	// a particular row.
	Row int
}

// Fixer is the policy consulted whenever malformed input is detected:
// duplicate or missing column names, short data rows, and cell values illegal
// under the column's unit. The typer and materializer only detect; the policy
// decides the remedy. A nil Fixer means no tolerance: any such condition
// fails with a descriptive error.
//
// A Fixer carries per-parse counters and is not safe for concurrent use
// across simultaneous parses; give each parse its own instance.
type Fixer interface {
	// FixDuplicateColumnName returns a replacement for name that does not
	// occur in existing.
	FixDuplicateColumnName(ctx FixContext, name string, existing []string) string
	// FixMissingColumnName returns a name for a blank column header that does
	// not occur in existing.
	FixMissingColumnName(ctx FixContext, existing []string) string
	// FixMissingRow pads a short data row out to width cells.
	FixMissingRow(ctx FixContext, row []any, width int) []any
	// FixIllegalCellValue returns a substitute for a value that could not be
	// converted to the representation of kind.
	FixIllegalCellValue(ctx FixContext, kind table.UnitKind, value any) any
	// Report finalizes a table parse. A policy configured to stop on errors
	// returns a single error enumerating every recorded message if any fix
	// occurred; otherwise it returns nil and the caller decides what to do
	// with the accumulated counts.
	Report(tableName string) error
	// Reset zeroes the fix counters and messages at the start of a top-level
	// parse, so counts do not leak between unrelated parses sharing one
	// instance.
	Reset()
}

// DefaultFixer is the standard Fixer. With StopOnErrors set (the default via
// NewDefaultFixer) it substitutes while parsing and then fails the table with
// a consolidated report, preferring complete diagnostics over stopping at the
// first fault. With StopOnErrors unset it repairs silently and only counts.
type DefaultFixer struct {
	StopOnErrors bool

	errors   int
	warnings int
	messages []string
}

// NewDefaultFixer returns a DefaultFixer in its strict configuration.
func NewDefaultFixer() *DefaultFixer {
	return &DefaultFixer{StopOnErrors: true}
}

// Fixes returns the total number of fixes applied since the last Reset.
func (f *DefaultFixer) Fixes() int { return f.errors + f.warnings }

// Warnings returns the number of illegal-cell-value substitutions.
func (f *DefaultFixer) Warnings() int { return f.warnings }

// Errors returns the number of structural fixes (column names, short rows).
func (f *DefaultFixer) Errors() int { return f.errors }

// Messages returns the accumulated human-readable fix messages.
func (f *DefaultFixer) Messages() []string { return f.messages }

func (f *DefaultFixer) Reset() {
	f.errors = 0
	f.warnings = 0
	f.messages = nil
}

func (f *DefaultFixer) record(hard bool, msg string) {
	if hard {
		f.errors++
	} else {
		f.warnings++
	}
	f.messages = append(f.messages, msg)
}

func (f *DefaultFixer) FixDuplicateColumnName(ctx FixContext, name string, existing []string) string {
	f.record(true, fmt.Sprintf("Duplicate column %q in table %q.", name, ctx.Table))
	for i := 0; i < 1000; i++ {
		candidate := fmt.Sprintf("%s_fixed_%03d", name, i)
		if !containsName(existing, candidate) {
			return candidate
		}
	}
	// 1000 collisions on the same base name; give up on numbering.
	return name + "-fixed"
}

func (f *DefaultFixer) FixMissingColumnName(ctx FixContext, existing []string) string {
	return f.FixDuplicateColumnName(ctx, "missing", existing)
}

func (f *DefaultFixer) FixMissingRow(ctx FixContext, row []any, width int) []any {
	f.record(true, fmt.Sprintf("Missing data in row %d of table %q.", ctx.Row, ctx.Table))
	padded := make([]any, 0, width)
	padded = append(padded, row...)
	for len(padded) < width {
		// "NaN" reads back as the missing-value sentinel under every unit
		// kind that has one.
		padded = append(padded, "NaN")
	}
	return padded
}

func (f *DefaultFixer) FixIllegalCellValue(ctx FixContext, kind table.UnitKind, value any) any {
	f.record(false, fmt.Sprintf("Illegal value '%v' for unit kind %q in column %q of table %q.",
		value, kind, ctx.Column, ctx.Table))
	switch kind {
	case table.KindOnOff:
		return false
	case table.KindDateTime:
		return table.NaT
	case table.KindText:
		return ""
	}
	return math.NaN()
}

func (f *DefaultFixer) Report(tableName string) error {
	if f.StopOnErrors && f.Fixes() > 0 {
		return fmt.Errorf("stopped parsing after %d errors in table %q with messages:\n%s",
			f.Fixes(), tableName, strings.Join(f.messages, "\n"))
	}
	return nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
