// Package parse is the core of the StarTable reader: it segments a stream of
// cell rows into blocks, types table columns according to their unit
// indicators, and consults an injectable fixer policy for malformed input.
//
// Parsing is lazy, one-pass and pull-based: the consumer drives an Iterator,
// and each advanced step reads exactly the rows needed to produce one block.
// Abandoning the iterator stops all reading, and a filter can skip the
// expensive materialization of undesired table blocks entirely.
package parse

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/startable/startable-go/block"
)

// To selects the output flavor of materialized table blocks.
type To string

const (
	// ToTable materializes table blocks as typed *table.Table values.
	ToTable To = "table"
	// ToJSONData materializes table blocks as *jsondata.Table values with
	// JSON-native cell values.
	ToJSONData To = "jsondata"
	// ToCellGrid passes table blocks through as their untouched raw
	// block.CellGrid.
	ToCellGrid To = "cellgrid"
)

// Filter decides whether a block is worth materializing. It is called with
// the block's type and, for table blocks only, the table name peeked cheaply
// from the marker cell ("" for every other type). A block rejected by the
// filter is never fully parsed.
type Filter func(t block.Type, name string) bool

// Options configures a parse.
type Options struct {
	// To is the table output flavor; default ToTable.
	To To
	// Filter, when non-nil, drops blocks before materialization.
	Filter Filter
	// Fixer handles malformed input. When nil a fresh DefaultFixer in its
	// strict configuration is used, so the default behavior is to refuse
	// malformed tables with a consolidated report.
	Fixer Fixer
	// Origin is a free-form label attached to produced blocks.
	Origin string
	// NullableDateTime makes nil cells legal nulls in datetime columns.
	NullableDateTime bool
}

// RowReader supplies cell rows one at a time. ReadRow returns io.EOF when
// the input is exhausted.
type RowReader interface {
	ReadRow() ([]any, error)
}

type gridRows struct {
	grid block.CellGrid
	next int
}

func (g *gridRows) ReadRow() ([]any, error) {
	if g.next >= len(g.grid) {
		return nil, io.EOF
	}
	row := g.grid[g.next]
	g.next++
	return row, nil
}

// GridRows adapts an in-memory cell grid to a RowReader.
func GridRows(grid block.CellGrid) RowReader {
	return &gridRows{grid: grid}
}

// Iterator is a lazy, finite, one-pass, non-restartable sequence of
// (block type, block) pairs. Usage follows the bufio.Scanner idiom:
//
//	it, err := parse.NewIterator(rows, parse.Options{})
//	for it.Next() {
//		blockType, blk := it.Block()
//		...
//	}
//	if err := it.Err(); err != nil { ... }
type Iterator struct {
	src  RowReader
	opts Options

	state      block.Type
	grid       block.CellGrid
	blockStart int
	rowIdx     int
	exhausted  bool

	curType block.Type
	cur     any
	err     error
}

// NewIterator prepares a parse over the given row source. An unsupported
// output flavor fails here, before any row is consumed.
func NewIterator(src RowReader, opts Options) (*Iterator, error) {
	if opts.To == "" {
		opts.To = ToTable
	}
	switch opts.To {
	case ToTable, ToJSONData, ToCellGrid:
	default:
		return nil, fmt.Errorf("unknown parsing output flavor %q; expected one of %q, %q, %q",
			opts.To, ToTable, ToJSONData, ToCellGrid)
	}
	if opts.Fixer == nil {
		opts.Fixer = NewDefaultFixer()
	}
	opts.Fixer.Reset()
	return &Iterator{src: src, opts: opts, state: block.TypeMetadata}, nil
}

// Next advances to the next emitted block. It returns false at end of input
// or on error; consult Err afterwards.
func (it *Iterator) Next() bool {
	if it.err != nil {
		return false
	}
	for {
		if it.exhausted {
			return it.emitRemainder()
		}

		row, err := it.src.ReadRow()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				it.err = err
				return false
			}
			it.exhausted = true
			continue
		}
		rowIdx := it.rowIdx
		it.rowIdx++

		next, boundary := it.classify(row)
		if !boundary {
			it.grid = append(it.grid, row)
			continue
		}

		emitted, ok := it.emit(it.state, it.grid, it.blockStart)
		it.grid = nil
		it.state = next
		it.blockStart = rowIdx
		// The boundary row itself starts the new accumulation, so every
		// input row belongs to exactly one block and re-concatenating the
		// blocks' grids reconstructs the input.
		it.grid = append(it.grid, row)
		if it.err != nil {
			return false
		}
		if ok {
			it.curType, it.cur = emitted.blockType, emitted.value
			return true
		}
	}
}

// emitRemainder flushes the grid accumulated when input ran out.
func (it *Iterator) emitRemainder() bool {
	if it.grid == nil {
		return false
	}
	emitted, ok := it.emit(it.state, it.grid, it.blockStart)
	it.grid = nil
	if it.err != nil {
		return false
	}
	if ok {
		it.curType, it.cur = emitted.blockType, emitted.value
		return true
	}
	return false
}

// Block returns the current (block type, block) pair. The block's concrete
// type depends on the block type and the configured output flavor.
func (it *Iterator) Block() (block.Type, any) {
	return it.curType, it.cur
}

// Err returns the first error encountered, if any.
func (it *Iterator) Err() error {
	return it.err
}

// ReadAll drains the iterator, returning every emitted pair.
func (it *Iterator) ReadAll() ([]Parsed, error) {
	var out []Parsed
	for it.Next() {
		t, b := it.Block()
		out = append(out, Parsed{Type: t, Value: b})
	}
	return out, it.Err()
}

// Parsed is one emitted (block type, block) pair.
type Parsed struct {
	Type  block.Type
	Value any
}

// classify inspects a row's first cell and decides whether it starts a new
// block; it returns the type of that new block. A row that merely continues
// the current block reports no boundary.
func (it *Iterator) classify(row []any) (block.Type, bool) {
	if len(row) == 0 || isCellBlank(row[0]) {
		// Blank rows extend a separator run, and the leading metadata block
		// may contain blank-looking rows without forcing a separator.
		if it.state == block.TypeBlank || it.state == block.TypeMetadata {
			return 0, false
		}
		return block.TypeBlank, true
	}

	s, isString := row[0].(string)
	if !isString {
		// Binary cell (spreadsheet numerics &c.): continues the block.
		return 0, false
	}

	marker, kind := classifyMarker(s)
	if !marker {
		return 0, false
	}
	switch kind {
	case markerTable:
		return block.TypeTable, true
	case markerDirective:
		return block.TypeDirective, true
	case markerTemplate:
		return block.TypeTemplateRow, true
	}
	// Metadata marker: legal inside the leading metadata block, a stray
	// comment inside a separator run, a separator anywhere else.
	if it.state == block.TypeMetadata || it.state == block.TypeBlank {
		return 0, false
	}
	return block.TypeBlank, true
}

type markerKind int

const (
	markerTable markerKind = iota
	markerDirective
	markerTemplate
	markerMetadata
)

// classifyMarker recognizes the block-start markers, bit-exact with the
// format:
//
//	**name   table       (but not ****name)
//	***name  directive
//	:x, ::x, :::x  template row  (but not ::::x or :ambiguous:)
//	key:     metadata line       (but not :ambiguous:)
func classifyMarker(s string) (bool, markerKind) {
	if strings.HasPrefix(s, "*") {
		stars := 0
		for stars < len(s) && s[stars] == '*' {
			stars++
		}
		switch stars {
		case 2:
			return true, markerTable
		case 3:
			return true, markerDirective
		}
		return false, 0
	}

	if strings.HasPrefix(s, ":") {
		colons := 0
		for colons < len(s) && s[colons] == ':' {
			colons++
		}
		if colons <= 3 && !strings.Contains(s[colons:], ":") {
			return true, markerTemplate
		}
		return false, 0
	}

	trimmed := strings.TrimRight(s, " \t")
	if strings.HasSuffix(trimmed, ":") && !strings.Contains(trimmed[:len(trimmed)-1], ":") {
		return true, markerMetadata
	}
	return false, 0
}

type emittedBlock struct {
	blockType block.Type
	value     any
}

// emit finalizes an accumulated grid as a block of the given type, honoring
// the filter and output flavor. A false result means nothing is to be
// yielded for this grid (empty, filtered out, or dropped); materialization
// failures land in it.err.
func (it *Iterator) emit(t block.Type, grid block.CellGrid, startRow int) (emittedBlock, bool) {
	if len(grid) == 0 {
		return emittedBlock{}, false
	}

	if it.opts.Filter != nil {
		name := ""
		if t == block.TypeTable {
			// Only the cheaply available name is peeked; the grid is not
			// parsed further for filtering purposes.
			name, _ = tableName(grid)
		}
		if !it.opts.Filter(t, name) {
			return emittedBlock{}, false
		}
	}

	origin := block.Origin{Input: it.opts.Origin, Row: startRow}

	switch t {
	case block.TypeMetadata:
		return emittedBlock{t, MakeMetadataBlock(grid, origin)}, true
	case block.TypeDirective:
		return emittedBlock{t, MakeDirective(grid, origin)}, true
	case block.TypeTable:
		value, err := it.materializeTable(grid, origin)
		if err != nil {
			it.err = err
			return emittedBlock{}, false
		}
		return emittedBlock{t, value}, true
	}
	// Template rows and separators pass through as raw cells.
	return emittedBlock{t, grid}, true
}

func (it *Iterator) materializeTable(grid block.CellGrid, origin block.Origin) (any, error) {
	if it.opts.To == ToCellGrid {
		return grid, nil
	}
	it.opts.Fixer.Reset()
	tbl, err := MakeTable(grid, origin, it.opts.Fixer, it.opts.NullableDateTime)
	if err != nil {
		return nil, err
	}
	if it.opts.To == ToJSONData {
		return TableToJSONData(tbl)
	}
	return tbl, nil
}
