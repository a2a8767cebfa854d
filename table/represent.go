package table

import "strconv"

// RenderCell returns the standard written representation of the column's
// i'th value: "-" for the missing-value sentinels, "1"/"0" for onoff
// booleans, the canonical string form for date-times, and the shortest
// round-trippable decimal form for numerics.
func (c Column) RenderCell(i int) string {
	switch v := c.Values.(type) {
	case TextValues:
		return v[i]
	case OnOffValues:
		if v[i] {
			return "1"
		}
		return "0"
	case DateTimeValues:
		return FormatDateTime(v[i])
	case NumericValues:
		f := v[i]
		if f != f { // NaN
			return "-"
		}
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return ""
}
