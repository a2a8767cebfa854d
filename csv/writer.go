package csv

import (
	"fmt"
	"io"
	"strings"

	"github.com/startable/startable-go/block"
	"github.com/startable/startable-go/table"
)

// Writer emits StarTable blocks as delimited text, one blank line between
// blocks.
type Writer struct {
	w   io.Writer
	sep string
	err error
}

// NewWriter returns a Writer using the given separator, or DefaultSep when
// zero.
func NewWriter(w io.Writer, sep rune) *Writer {
	if sep == 0 {
		sep = DefaultSep
	}
	return &Writer{w: w, sep: string(sep)}
}

// Write emits a block. Supported block kinds are *table.Table,
// *block.MetadataBlock, *block.Directive and raw block.CellGrid.
func (cw *Writer) Write(blk any) error {
	if cw.err != nil {
		return cw.err
	}
	switch b := blk.(type) {
	case *table.Table:
		cw.writeTable(b)
	case *block.MetadataBlock:
		cw.writeMetadata(b)
	case *block.Directive:
		cw.writeDirective(b)
	case block.CellGrid:
		cw.writeCellGrid(b)
	default:
		return fmt.Errorf("csv: cannot write block of type %T", blk)
	}
	return cw.err
}

func (cw *Writer) line(cells ...string) {
	if cw.err != nil {
		return
	}
	_, cw.err = fmt.Fprintln(cw.w, strings.Join(cells, cw.sep))
}

func (cw *Writer) writeTable(t *table.Table) {
	if t.Transposed {
		cw.line("**" + t.Name + "*")
		cw.line(strings.Join(t.Destinations, " "))
		for _, c := range t.Columns {
			cells := make([]string, 0, c.Values.Len()+2)
			cells = append(cells, c.Name, c.Unit)
			for i := 0; i < c.Values.Len(); i++ {
				cells = append(cells, cw.renderCell(c, i, false))
			}
			cw.line(cells...)
		}
		cw.line()
		return
	}

	cw.line("**" + t.Name)
	cw.line(strings.Join(t.Destinations, " "))
	cw.line(t.ColumnNames()...)
	units := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		units[i] = c.Unit
	}
	cw.line(units...)
	for r := 0; r < t.RowCount(); r++ {
		cells := make([]string, len(t.Columns))
		for c := range t.Columns {
			cells[c] = cw.renderCell(t.Columns[c], r, c == 0)
		}
		cw.line(cells...)
	}
	cw.line()
}

// renderCell adds the writer-side sealing rule to the standard
// representation: an empty text value in the leading column would read back
// as a block boundary, so it is replaced with "-".
func (cw *Writer) renderCell(c table.Column, i int, leading bool) string {
	s := c.RenderCell(i)
	if leading && s == "" {
		return "-"
	}
	return s
}

func (cw *Writer) writeMetadata(mb *block.MetadataBlock) {
	for _, key := range mb.Keys() {
		value, _ := mb.Get(key)
		cw.line(key+":", value)
	}
	cw.line()
}

func (cw *Writer) writeDirective(d *block.Directive) {
	cw.line("***" + d.Name)
	for _, l := range d.Lines {
		cw.line(l)
	}
	cw.line()
}

func (cw *Writer) writeCellGrid(grid block.CellGrid) {
	for _, row := range grid {
		cells := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				continue
			}
			cells[i] = fmt.Sprintf("%v", v)
		}
		cw.line(cells...)
	}
	cw.line()
}
