// Package block defines the building blocks of the StarTable interchange
// format: the closed set of block types, the raw cell grid they are parsed
// from, and the simple block kinds (metadata and directives) that carry no
// typed columns.
//
// A block is a maximal contiguous run of input rows sharing one type. The
// first cell of a block's first row determines both where the block starts
// and, via its prefix, what type it is: `**name` starts a table, `***name` a
// directive, a leading `:` a template row, and a `key:` line outside any
// other block a metadata line. Blank first cells separate blocks.
package block

import "fmt"

// Type enumerates the StarTable block types. A block's type is assigned once
// during segmentation and is immutable thereafter.
type Type int

const (
	// TypeMetadata tags the leading lines of an input, before any block
	// marker, holding free-text key/value pairs.
	TypeMetadata Type = iota
	// TypeDirective tags a `***name` block whose lines are interpreted by
	// downstream consumers, never by this module.
	TypeDirective
	// TypeTable tags a `**name` block of typed, unit-annotated columns.
	TypeTable
	// TypeTemplateRow tags a `:`-prefixed row. Template rows are preserved
	// verbatim; interpreting them is unimplemented format functionality.
	TypeTemplateRow
	// TypeBlank tags separator runs. Non-empty rows inside a separator run
	// (stray comments and the like) are carried along as raw cells.
	TypeBlank
)

func (t Type) String() string {
	switch t {
	case TypeMetadata:
		return "metadata"
	case TypeDirective:
		return "directive"
	case TypeTable:
		return "table"
	case TypeTemplateRow:
		return "template_row"
	case TypeBlank:
		return "blank"
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// CellGrid is an ordered sequence of rows, each an ordered sequence of cells.
// Cells are of unconstrained type: string, float64, int, bool, time.Time or
// nil, depending on the transport that produced them. Rows need not have
// equal length; only the portion relevant to a block type is consulted.
type CellGrid [][]any

// Origin records where a block was read from, for diagnostics and
// traceability. Input is a free-form label (typically a file name or stream
// description); Row is the 0-based index of the block's first row within
// that input.
type Origin struct {
	Input string
	Row   int
}

func (o Origin) String() string {
	if o.Input == "" {
		return fmt.Sprintf("row %d", o.Row)
	}
	return fmt.Sprintf("%s, row %d", o.Input, o.Row)
}

// Directive is a named block of raw text lines addressed to downstream
// consumers, e.g. include or template directives. The lines are preserved
// verbatim.
type Directive struct {
	Name   string
	Lines  []string
	Origin Origin
}

// MetadataBlock is an insertion-ordered mapping of free-text keys to
// free-text values, built from the `key:` prefixed lines at the top of an
// input.
type MetadataBlock struct {
	keys   []string
	values map[string]string

	Origin Origin
}

// NewMetadataBlock returns an empty metadata block with the given origin.
func NewMetadataBlock(origin Origin) *MetadataBlock {
	return &MetadataBlock{values: make(map[string]string), Origin: origin}
}

// Set stores a key/value pair, preserving first-insertion order of keys.
func (m *MetadataBlock) Set(key, value string) {
	if _, seen := m.values[key]; !seen {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it is present.
func (m *MetadataBlock) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not modify it.
func (m *MetadataBlock) Keys() []string {
	return m.keys
}

// Len returns the number of stored keys.
func (m *MetadataBlock) Len() int {
	return len(m.keys)
}
