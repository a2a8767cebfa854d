package parse

import (
	"strings"

	"github.com/startable/startable-go/block"
	"github.com/startable/startable-go/jsondata"
	"github.com/startable/startable-go/table"
)

// TableToJSONData converts a typed table to its JSON-flavored
// representation. It is also the "jsondata" output flavor of the block
// iterator.
func TableToJSONData(t *table.Table) (*jsondata.Table, error) {
	return jsondata.FromTable(t)
}

// TableFromJSONData reconstructs a cell grid from the JSON-flavored table
// and re-enters the table materializer, so JSON import goes through exactly
// the same typing and fixing logic as cell-grid import. Both paths therefore
// produce identical tables for identical logical content.
func TableFromJSONData(jt *jsondata.Table, fixer Fixer) (*table.Table, error) {
	grid := block.CellGrid{
		{"**" + jt.Name},
		{strings.Join(jt.Destinations, " ")},
	}

	names := make([]any, len(jt.Columns))
	units := make([]any, len(jt.Columns))
	nRow := 0
	for i, c := range jt.Columns {
		names[i] = c.Name
		units[i] = c.Unit
		if len(c.Values) > nRow {
			nRow = len(c.Values)
		}
	}
	grid = append(grid, names, units)

	for r := 0; r < nRow; r++ {
		row := make([]any, len(jt.Columns))
		for c, col := range jt.Columns {
			var v any
			if r < len(col.Values) {
				v = col.Values[r]
			}
			if v == nil {
				// JSON null is the legal missing value for the nullable
				// representations; hand the materializer the equivalent
				// missing-data marker.
				switch table.KindOf(col.Unit) {
				case table.KindNumeric, table.KindDateTime:
					v = "-"
				}
			}
			row[c] = v
		}
		grid = append(grid, row)
	}

	if fixer == nil {
		fixer = NewDefaultFixer()
	}
	fixer.Reset()
	return MakeTable(grid, block.Origin{Input: "jsondata"}, fixer, true)
}
