// Package csv reads and writes StarTable data as delimited text. It is a
// thin transport: reading presents the text as a stream of cell rows for the
// parser, and writing renders blocks with the standard StarTable value
// representation. The default field separator is ";".
package csv

import (
	"bufio"
	"io"
	"strings"

	"github.com/startable/startable-go/parse"
)

// DefaultSep is the default CSV field separator.
const DefaultSep = ';'

// ReadOptions configures a CSV read.
type ReadOptions struct {
	// Sep is the field separator; DefaultSep when zero.
	Sep rune
	// Parse configures the block parser.
	Parse parse.Options
}

// Read parses StarTable blocks from delimited text, yielding one block at a
// time. The stream is consumed lazily: abandoning the returned iterator
// stops all reading, and a parse filter skips full parsing of undesired
// table blocks.
func Read(r io.Reader, opts ReadOptions) (*parse.Iterator, error) {
	sep := opts.Sep
	if sep == 0 {
		sep = DefaultSep
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	return parse.NewIterator(&lineRows{sc: sc, sep: string(sep)}, opts.Parse)
}

// lineRows adapts a line scanner to the parser's row source: each line is
// split on the separator into string cells.
type lineRows struct {
	sc  *bufio.Scanner
	sep string
}

func (lr *lineRows) ReadRow() ([]any, error) {
	if !lr.sc.Scan() {
		if err := lr.sc.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	fields := strings.Split(strings.TrimSuffix(lr.sc.Text(), "\r"), lr.sep)
	row := make([]any, len(fields))
	for i, f := range fields {
		row[i] = f
	}
	return row, nil
}
