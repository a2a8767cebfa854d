package excel

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startable/startable-go/block"
	"github.com/startable/startable-go/parse"
	"github.com/startable/startable-go/table"
)

func testTables() []*table.Table {
	return []*table.Table{
		{
			Name:         "farm_animals",
			Destinations: []string{"your_farm", "my_farm"},
			Columns: []table.Column{
				{Name: "species", Unit: "text", Values: table.TextValues{"chicken", "pig"}},
				{Name: "n_legs", Unit: "-", Values: table.NumericValues{2, 4}},
				{Name: "avg_weight", Unit: "kg", Values: table.NumericValues{2, math.NaN()}},
			},
		},
		{
			Name:         "transport",
			Destinations: []string{"all"},
			Transposed:   true,
			Columns: []table.Column{
				{Name: "vehicle", Unit: "text", Values: table.TextValues{"bike", "train"}},
				{Name: "wheels", Unit: "-", Values: table.NumericValues{2, math.NaN()}},
			},
		},
	}
}

func TestWriteThenParseRoundTrip(t *testing.T) {
	t.Parallel()

	tables := testTables()

	var buf bytes.Buffer
	require.NoError(t, WriteTables(&buf, "data", tables))

	wb, err := Open(&buf)
	require.NoError(t, err)
	defer wb.Close()

	require.Equal(t, []string{"data"}, wb.SheetNames())

	it, err := wb.Parse("data", parse.Options{})
	require.NoError(t, err)
	blocks, err := it.ReadAll()
	require.NoError(t, err)

	var got []*table.Table
	for _, b := range blocks {
		if tbl, ok := b.Value.(*table.Table); ok {
			got = append(got, tbl)
		}
	}
	require.Len(t, got, len(tables))
	for i := range tables {
		assert.True(t, tables[i].Equal(got[i]),
			"table %q must survive the workbook round trip", tables[i].Name)
	}
	assert.True(t, got[1].Transposed)
	assert.Equal(t, "data", got[0].Origin.Input, "origin defaults to the sheet name")
}

func TestParse_FilterByName(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteTables(&buf, "", testTables()))

	wb, err := Open(&buf)
	require.NoError(t, err)
	defer wb.Close()

	it, err := wb.Parse("Sheet1", parse.Options{
		Filter: func(bt block.Type, name string) bool {
			return bt == block.TypeTable && name == "transport"
		},
	})
	require.NoError(t, err)
	blocks, err := it.ReadAll()
	require.NoError(t, err)

	require.Len(t, blocks, 1)
	assert.Equal(t, "transport", blocks[0].Value.(*table.Table).Name)
}

func TestParse_UnknownSheet(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteTables(&buf, "", nil))

	wb, err := Open(&buf)
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.Parse("no_such_sheet", parse.Options{})
	require.Error(t, err)
}
