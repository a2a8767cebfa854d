package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startable/startable-go/block"
	"github.com/startable/startable-go/table"
)

func TestTableJSONDataRoundTrip(t *testing.T) {
	t.Parallel()

	cells := grid(
		"**mixed;;;;",
		"all here;;;;",
		"place;distance;flag;when;",
		"text;km;onoff;datetime;",
		"home;0.0;1;2020-08-04 08:00:00;",
		"work;1.2;0;2020-08-04 09:00:00;",
		"-; -;0;-;",
	)

	original, err := MakeTable(cells, block.Origin{}, nil, false)
	require.NoError(t, err)

	jt, err := TableToJSONData(original)
	require.NoError(t, err)
	back, err := TableFromJSONData(jt, nil)
	require.NoError(t, err)

	assert.True(t, original.Equal(back),
		"a table must survive the JSON representation unchanged")
}

func TestTableToJSONData_MissingValuesBecomeNull(t *testing.T) {
	t.Parallel()

	cells := grid(
		"**obs;;",
		"all;;",
		"distance;when;",
		"km;datetime;",
		"1.5;2020-08-04;",
		"-;nan;",
	)

	tbl, err := MakeTable(cells, block.Origin{}, nil, false)
	require.NoError(t, err)
	jt, err := TableToJSONData(tbl)
	require.NoError(t, err)

	assert.Equal(t, []any{1.5, nil}, jt.Column("distance").Values)
	assert.Equal(t, []any{"2020-08-04 00:00:00", nil}, jt.Column("when").Values)
}

func TestTableFromJSONData_RaggedColumnsPadded(t *testing.T) {
	t.Parallel()

	cells := grid(
		"**t;;",
		"all;;",
		"a;b;",
		"text;-;",
		"x;1;",
	)

	tbl, err := MakeTable(cells, block.Origin{}, nil, false)
	require.NoError(t, err)
	jt, err := TableToJSONData(tbl)
	require.NoError(t, err)

	// Drop one column's values entirely; the rebuilt grid is padded to the
	// longest column so the table invariants still hold.
	jt.Columns[0].Values = nil
	rebuilt, err := TableFromJSONData(jt, &DefaultFixer{StopOnErrors: false})
	require.NoError(t, err)
	assert.Equal(t, 1, rebuilt.RowCount())
	require.NoError(t, rebuilt.Validate())
	assert.Equal(t, table.TextValues{""}, rebuilt.Column("a").Values)
}
