package table

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/startable/startable-go/block"
)

func sample() *Table {
	return &Table{
		Name:         "obs",
		Destinations: []string{"all"},
		Columns: []Column{
			{Name: "place", Unit: "text", Values: TextValues{"home", "work"}},
			{Name: "distance", Unit: "km", Values: NumericValues{0, math.NaN()}},
		},
		Origin: block.Origin{Input: "test", Row: 0},
	}
}

func TestTable_Accessors(t *testing.T) {
	t.Parallel()

	tbl := sample()
	assert.Equal(t, 2, tbl.RowCount())
	assert.Equal(t, []string{"place", "distance"}, tbl.ColumnNames())
	assert.NotNil(t, tbl.Column("place"))
	assert.Nil(t, tbl.Column("nope"))
	assert.True(t, tbl.HasDestination("all"))
	assert.False(t, tbl.HasDestination("none"))
}

func TestTable_EqualTreatsNaNAsEqual(t *testing.T) {
	t.Parallel()

	a, b := sample(), sample()
	assert.True(t, a.Equal(b))

	b.Columns[1].Values = NumericValues{0, 1}
	assert.False(t, a.Equal(b))
}

func TestTable_EqualIgnoresOriginAndLayout(t *testing.T) {
	t.Parallel()

	a, b := sample(), sample()
	b.Origin = block.Origin{Input: "elsewhere", Row: 99}
	b.Transposed = true
	assert.True(t, a.Equal(b))
}

func TestTable_Validate(t *testing.T) {
	t.Parallel()

	tbl := sample()
	assert.NoError(t, tbl.Validate())

	tbl.Columns[1].Name = "place"
	assert.ErrorContains(t, tbl.Validate(), "duplicate")

	tbl = sample()
	tbl.Columns[1].Values = NumericValues{1}
	assert.ErrorContains(t, tbl.Validate(), "rows")

	tbl = sample()
	tbl.Columns[0].Name = ""
	assert.ErrorContains(t, tbl.Validate(), "blank")
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, KindText, KindOf("text"))
	assert.Equal(t, KindOnOff, KindOf("onoff"))
	assert.Equal(t, KindDateTime, KindOf("datetime"))
	assert.Equal(t, KindNumeric, KindOf("kg"))
	assert.Equal(t, KindNumeric, KindOf("-"))
	assert.Equal(t, KindNumeric, KindOf(""))
}

func TestFormatDateTime(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "-", FormatDateTime(NaT))
	assert.Equal(t, "2020-08-11 11:40:00",
		FormatDateTime(time.Date(2020, 8, 11, 11, 40, 0, 0, time.UTC)))
}

func TestRenderCell(t *testing.T) {
	t.Parallel()

	cases := []struct {
		col  Column
		want []string
	}{
		{Column{Values: TextValues{"x", ""}}, []string{"x", ""}},
		{Column{Values: OnOffValues{true, false}}, []string{"1", "0"}},
		{Column{Values: NumericValues{1.5, math.NaN()}}, []string{"1.5", "-"}},
		{Column{Values: DateTimeValues{NaT}}, []string{"-"}},
	}
	for _, tc := range cases {
		for i, want := range tc.want {
			assert.Equal(t, want, tc.col.RenderCell(i))
		}
	}
}
