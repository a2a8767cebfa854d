// Column typing: conversion of a column's raw cell values into the uniform
// representation dictated by its unit indicator. A type-specific parser
// exists for each of the reserved unit indicators ("text", "onoff",
// "datetime") and a numeric default covers everything else. The switch is on
// the indicator alone; values are never inspected to guess a type, and every
// input value produces exactly one output value.
package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/startable/startable-go/table"
)

// Typer converts raw column values according to their unit indicator.
type Typer struct {
	// Fixer, when non-nil, is consulted for values that cannot be converted.
	// When nil, the first illegal value fails the column.
	Fixer Fixer
	// NullableDateTime makes a nil cell in a datetime column a legal null
	// rather than an illegal cell. Sources that distinguish "absent" from
	// "null" (JSON, chiefly) set this; cell-grid sources leave it unset.
	NullableDateTime bool
}

// TypeColumn converts values to the representation selected by unit. The
// result has exactly one entry per input value, order preserved; values that
// cannot be converted are either substituted by the fixer or fail the whole
// column.
func (ty Typer) TypeColumn(unit string, values []any, ctx FixContext) (table.Values, error) {
	switch table.KindOf(unit) {
	case table.KindText:
		return typeTextColumn(values), nil
	case table.KindOnOff:
		return ty.typeOnOffColumn(values, ctx)
	case table.KindDateTime:
		return ty.typeDateTimeColumn(values, ctx)
	}
	return ty.typeNumericColumn(values, ctx)
}

// typeTextColumn stringifies every value. This representation cannot fail,
// so the fixer is never involved.
func typeTextColumn(values []any) table.TextValues {
	out := make(table.TextValues, len(values))
	for i, v := range values {
		out[i] = stringifyCell(v)
	}
	return out
}

func (ty Typer) typeOnOffColumn(values []any, ctx FixContext) (table.OnOffValues, error) {
	out := make(table.OnOffValues, len(values))
	for i, v := range values {
		b, ok := onOffToBool(v)
		if !ok {
			fixed, err := ty.illegal(ctx, i, table.KindOnOff, v)
			if err != nil {
				return nil, err
			}
			b, _ = fixed.(bool)
		}
		out[i] = b
	}
	return out, nil
}

func (ty Typer) typeNumericColumn(values []any, ctx FixContext) (table.NumericValues, error) {
	out := make(table.NumericValues, len(values))
	for i, v := range values {
		f, ok := cellToFloat(v)
		if !ok {
			fixed, err := ty.illegal(ctx, i, table.KindNumeric, v)
			if err != nil {
				return nil, err
			}
			f, ok = fixed.(float64)
			if !ok {
				f = math.NaN()
			}
		}
		out[i] = f
	}
	return out, nil
}

func (ty Typer) typeDateTimeColumn(values []any, ctx FixContext) (table.DateTimeValues, error) {
	out := make(table.DateTimeValues, len(values))
	for i, v := range values {
		t, ok := ty.cellToDateTime(v)
		if !ok {
			fixed, err := ty.illegal(ctx, i, table.KindDateTime, v)
			if err != nil {
				return nil, err
			}
			t, _ = fixed.(time.Time)
		}
		out[i] = t
	}
	return out, nil
}

// illegal routes an unconvertible value to the fixer, or fails immediately
// when no fixer is configured.
func (ty Typer) illegal(ctx FixContext, row int, kind table.UnitKind, value any) (any, error) {
	if ty.Fixer == nil {
		return nil, fmt.Errorf("illegal value '%v' in %s column", value, kind)
	}
	ctx.Row = row
	return ty.Fixer.FixIllegalCellValue(ctx, kind, value), nil
}

// normalizeCell trims and lower-cases string cells; everything else passes
// through untouched.
func normalizeCell(v any) any {
	if s, ok := v.(string); ok {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return v
}

// isMissingMarker reports whether v is a valid StarTable missing-data marker
// after normalization.
func isMissingMarker(v any) bool {
	n, ok := normalizeCell(v).(string)
	return ok && (n == "-" || n == "nan")
}

func onOffToBool(v any) (bool, bool) {
	switch val := normalizeCell(v).(type) {
	case bool:
		return val, true
	case int:
		if val == 0 || val == 1 {
			return val == 1, true
		}
	case int64:
		if val == 0 || val == 1 {
			return val == 1, true
		}
	case float64:
		if val == 0 || val == 1 {
			return val == 1, true
		}
	case string:
		switch val {
		case "0", "false":
			return false, true
		case "1", "true":
			return true, true
		}
	}
	return false, false
}

func cellToFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		if s == "-" || s == "nan" {
			return math.NaN(), true
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

// dateTimeLayouts are tried in order. ISO forms come first since they are
// unambiguous; the remaining forms are day-first, so "08-07-2020" is day 8 of
// month 7.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02-01-2006",
	"2-1-2006",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"2/1/2006",
	"02.01.2006",
	"2.1.2006",
}

func parseDateTime(s string) (time.Time, bool) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return table.NaT, false
}

func (ty Typer) cellToDateTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case nil:
		if ty.NullableDateTime {
			return table.NaT, true
		}
		return table.NaT, false
	case string:
		s := strings.TrimSpace(val)
		if isMissingMarker(s) {
			return table.NaT, true
		}
		// Only strings that look like they start a date are attempted;
		// anything else is illegal outright.
		if len(s) == 0 || !isDigit(s[0]) {
			return table.NaT, false
		}
		return parseDateTime(s)
	}
	return table.NaT, false
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// stringifyCell renders a cell as text. Nil renders as the empty string; the
// rest use their natural Go representation.
func stringifyCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case time.Time:
		return table.FormatDateTime(val)
	}
	return fmt.Sprintf("%v", v)
}
