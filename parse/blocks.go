// Block materialization: turning a block's raw cell grid into its in-memory
// representation. Metadata and directive blocks are cheap; table blocks go
// through column-name fixing, unit resolution and column typing.
package parse

import (
	"fmt"
	"strings"

	"github.com/startable/startable-go/block"
	"github.com/startable/startable-go/table"
)

// MakeMetadataBlock builds the key/value mapping from rows whose first cell
// ends with ":" after trimming. Rows without a second cell are ignored.
func MakeMetadataBlock(cells block.CellGrid, origin block.Origin) *block.MetadataBlock {
	mb := block.NewMetadataBlock(origin)
	for _, row := range cells {
		if len(row) < 2 || row[0] == nil {
			continue
		}
		key, ok := row[0].(string)
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if len(key) > 1 && strings.HasSuffix(key, ":") {
			mb.Set(strings.TrimSuffix(key, ":"), strings.TrimSpace(stringifyCell(row[1])))
		}
	}
	return mb
}

// MakeDirective strips the leading "***" marker from the block's first cell
// to get the directive name; the remaining rows' first cells become the
// directive's lines verbatim.
func MakeDirective(cells block.CellGrid, origin block.Origin) *block.Directive {
	d := &block.Directive{
		Name:   strings.TrimPrefix(cellString(cells[0][0]), "***"),
		Origin: origin,
	}
	for _, row := range cells[1:] {
		if len(row) == 0 {
			d.Lines = append(d.Lines, "")
			continue
		}
		d.Lines = append(d.Lines, stringifyCell(row[0]))
	}
	return d
}

// MakeTable parses a table block's cell grid into a typed Table. A nil fixer
// means strict parsing: the first malformed name, short row or illegal cell
// fails with an error naming the table, column and unit.
func MakeTable(cells block.CellGrid, origin block.Origin, fixer Fixer, nullableDateTime bool) (*table.Table, error) {
	name, transposed := tableName(cells)
	ctx := FixContext{Table: name, Row: -1}

	if len(cells) < 2 {
		return nil, fmt.Errorf("invalid table %q: no destinations row", name)
	}
	destinations := strings.Fields(cellString(cells[1][0]))

	empty := len(cells) < 3
	var rawNames []string
	switch {
	case empty:
	case transposed:
		firsts := make([]any, len(cells)-2)
		for i, row := range cells[2:] {
			if len(row) > 0 {
				firsts[i] = row[0]
			}
		}
		rawNames = parseColumnNames(firsts)
	case len(cells) == 3:
		return nil, fmt.Errorf("invalid table %q: no unit specification found", name)
	default:
		rawNames = parseColumnNames(cells[2])
	}

	columnNames, err := resolveColumnNames(rawNames, fixer, ctx)
	if err != nil {
		return nil, fmt.Errorf("invalid table %q: %w", name, err)
	}
	nCol := len(columnNames)

	units := make([]string, 0, nCol)
	if !empty {
		if transposed {
			for _, row := range cells[2 : 2+nCol] {
				if len(row) < 2 {
					return nil, fmt.Errorf("invalid table %q: no unit specification found", name)
				}
				units = append(units, strings.TrimSpace(cellString(row[1])))
			}
		} else {
			if len(cells[3]) < nCol {
				return nil, fmt.Errorf("invalid table %q: %d units for %d columns",
					name, len(cells[3]), nCol)
			}
			for _, u := range cells[3][:nCol] {
				units = append(units, strings.TrimSpace(cellString(u)))
			}
		}
	}

	var dataRows [][]any
	if transposed && !empty {
		dataRows = transposeDataLines(cells[2:2+nCol], nCol)
	} else if !empty {
		dataRows = make([][]any, 0, len(cells)-4)
		for _, row := range cells[4:] {
			if len(row) > nCol {
				// Trailing delimiters and comments beyond the declared
				// column count are ignored.
				row = row[:nCol]
			}
			dataRows = append(dataRows, row)
		}
	}

	// Every data row must be fully populated before column extraction.
	for i, row := range dataRows {
		if len(row) < nCol {
			if fixer == nil {
				return nil, fmt.Errorf("invalid table %q: row %d has %d cells, expected %d",
					name, i, len(row), nCol)
			}
			rowCtx := ctx
			rowCtx.Row = i
			dataRows[i] = fixer.FixMissingRow(rowCtx, row, nCol)
		}
	}

	typer := Typer{Fixer: fixer, NullableDateTime: nullableDateTime}
	columns := make([]table.Column, nCol)
	for c := 0; c < nCol; c++ {
		colValues := make([]any, len(dataRows))
		for r, row := range dataRows {
			colValues[r] = row[c]
		}
		colCtx := ctx
		colCtx.Column = columnNames[c]
		typed, err := typer.TypeColumn(units[c], colValues, colCtx)
		if err != nil {
			return nil, fmt.Errorf("unable to parse value in column %q of table %q as %q: %w",
				columnNames[c], name, units[c], err)
		}
		columns[c] = table.Column{Name: columnNames[c], Unit: units[c], Values: typed}
	}

	if fixer != nil {
		if err := fixer.Report(name); err != nil {
			return nil, err
		}
	}

	return &table.Table{
		Name:         name,
		Destinations: destinations,
		Columns:      columns,
		Origin:       origin,
		Transposed:   transposed,
	}, nil
}

// tableName extracts the table name from the block's marker cell, reporting
// and stripping the trailing "*" transposition decorator.
func tableName(cells block.CellGrid) (string, bool) {
	name := strings.TrimPrefix(cellString(cells[0][0]), "**")
	if strings.HasSuffix(name, "*") {
		return strings.TrimSuffix(name, "*"), true
	}
	return name, false
}

// parseColumnNames reads column names from the header sequence. Everything
// from the first blank cell on is rejected, since comments conventionally
// live there. Names are trimmed.
func parseColumnNames(raw []any) []string {
	var names []string
	for _, c := range raw {
		if isCellBlank(c) {
			break
		}
		names = append(names, strings.TrimSpace(cellString(c)))
	}
	return names
}

// resolveColumnNames ensures the final column names are unique and
// non-blank, routing duplicates and blanks through the fixer while
// preserving column order.
func resolveColumnNames(raw []string, fixer Fixer, ctx FixContext) ([]string, error) {
	names := make([]string, 0, len(raw))
	for i, name := range raw {
		nameCtx := ctx
		nameCtx.Column = name
		switch {
		case name == "":
			if fixer == nil {
				return nil, fmt.Errorf("blank column name at position %d", i)
			}
			name = fixer.FixMissingColumnName(nameCtx, names)
		case containsName(names, name):
			if fixer == nil {
				return nil, fmt.Errorf("duplicate column name %q at position %d", name, i)
			}
			name = fixer.FixDuplicateColumnName(nameCtx, name, names)
		}
		names = append(names, name)
	}
	return names, nil
}

// transposeDataLines collates the value cells of a transposed table's column
// lines into data rows. Trailing all-blank rows are trimmed; short lines are
// padded with nil so every column keeps one value per row.
func transposeDataLines(lines block.CellGrid, nCol int) [][]any {
	data := make([][]any, nCol)
	longest := 0
	for i, line := range lines {
		if len(line) > 2 {
			data[i] = line[2:]
		}
		if len(data[i]) > longest {
			longest = len(data[i])
		}
	}

	// Find the last row index with at least one non-blank cell.
	nRow := 0
	for r := 0; r < longest; r++ {
		blankRow := true
		for _, line := range data {
			if r < len(line) && !isCellBlank(line[r]) {
				blankRow = false
				break
			}
		}
		if blankRow {
			break
		}
		nRow = r + 1
	}

	rows := make([][]any, nRow)
	for r := 0; r < nRow; r++ {
		row := make([]any, nCol)
		for c, line := range data {
			if r < len(line) {
				row[c] = line[r]
			}
		}
		rows[r] = row
	}
	return rows
}

// isCellBlank reports whether a cell is nil or a string that is empty after
// trimming.
func isCellBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// cellString returns the cell as a string, or "" for non-string cells. Used
// where the format requires a string (markers, names, units).
func cellString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return stringifyCell(v)
}
