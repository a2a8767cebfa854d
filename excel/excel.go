// Package excel reads and writes StarTable data in xlsx workbooks, backed by
// excelize. Like the csv package it is a thin transport: sheet rows are fed
// to the block parser as cell rows, and tables are written with the standard
// StarTable value representation.
package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/startable/startable-go/parse"
	"github.com/startable/startable-go/table"
)

// Workbook is an open xlsx workbook whose sheets can be parsed into blocks.
type Workbook struct {
	f *excelize.File
}

// Open reads a workbook from r.
func Open(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("excel: %w", err)
	}
	return &Workbook{f: f}, nil
}

// OpenFile reads a workbook from a file path.
func OpenFile(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("excel: %w", err)
	}
	return &Workbook{f: f}, nil
}

// Close releases the workbook.
func (wb *Workbook) Close() error {
	return wb.f.Close()
}

// SheetNames lists the workbook's sheets in workbook order.
func (wb *Workbook) SheetNames() []string {
	return wb.f.GetSheetList()
}

// Parse returns a lazy block iterator over one sheet. Rows are streamed from
// the workbook on demand, so a filter that rejects a table keeps its cells
// from ever being fully parsed.
func (wb *Workbook) Parse(sheet string, opts parse.Options) (*parse.Iterator, error) {
	rows, err := wb.f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("excel: sheet %q: %w", sheet, err)
	}
	if opts.Origin == "" {
		opts.Origin = sheet
	}
	return parse.NewIterator(&sheetRows{rows: rows}, opts)
}

type sheetRows struct {
	rows *excelize.Rows
}

func (sr *sheetRows) ReadRow() ([]any, error) {
	if !sr.rows.Next() {
		if err := sr.rows.Error(); err != nil {
			return nil, err
		}
		if err := sr.rows.Close(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	cols, err := sr.rows.Columns()
	if err != nil {
		return nil, err
	}
	row := make([]any, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	return row, nil
}

// WriteTables writes tables one below the other on a single sheet, separated
// by blank rows, and emits the workbook to w.
func WriteTables(w io.Writer, sheet string, tables []*table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("excel: sheet %q: %w", sheet, err)
		}
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("excel: %w", err)
		}
	}

	rowIdx := 1
	writeRow := func(cells []any) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
		rowIdx++
		return nil
	}

	for _, t := range tables {
		for _, row := range tableRows(t) {
			if err := writeRow(row); err != nil {
				return fmt.Errorf("excel: writing table %q: %w", t.Name, err)
			}
		}
		rowIdx++ // blank separator row
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("excel: %w", err)
	}
	return nil
}

// tableRows renders a table into its StarTable row layout, transposed or
// not.
func tableRows(t *table.Table) [][]any {
	var rows [][]any
	destinations := strings.Join(t.Destinations, " ")
	if t.Transposed {
		rows = append(rows, []any{"**" + t.Name + "*"})
		rows = append(rows, []any{destinations})
		for _, c := range t.Columns {
			row := make([]any, 0, c.Values.Len()+2)
			row = append(row, c.Name, c.Unit)
			for i := 0; i < c.Values.Len(); i++ {
				row = append(row, c.RenderCell(i))
			}
			rows = append(rows, row)
		}
		return rows
	}

	rows = append(rows, []any{"**" + t.Name})
	rows = append(rows, []any{destinations})
	names := make([]any, len(t.Columns))
	units := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
		units[i] = c.Unit
	}
	rows = append(rows, names, units)
	for r := 0; r < t.RowCount(); r++ {
		row := make([]any, len(t.Columns))
		for c := range t.Columns {
			row[c] = t.Columns[c].RenderCell(r)
		}
		rows = append(rows, row)
	}
	return rows
}
