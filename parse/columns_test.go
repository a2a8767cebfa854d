package parse

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startable/startable-go/table"
)

func TestTypeColumn_Text(t *testing.T) {
	t.Parallel()

	values, err := Typer{}.TypeColumn("text", []any{"abc", "", nil, 2.0, true}, FixContext{})
	require.NoError(t, err)
	assert.Equal(t, table.TextValues{"abc", "", "", "2", "true"}, values)
}

func TestTypeColumn_OnOff(t *testing.T) {
	t.Parallel()

	values, err := Typer{}.TypeColumn("onoff",
		[]any{"0", "1", "FALSE", "true ", 0, 1.0, true}, FixContext{})
	require.NoError(t, err)
	assert.Equal(t, table.OnOffValues{false, true, false, true, false, true, true}, values)
}

func TestTypeColumn_OnOffIllegalStrict(t *testing.T) {
	t.Parallel()

	_, err := Typer{}.TypeColumn("onoff", []any{"z"}, FixContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal value 'z' in onoff column")
}

func TestTypeColumn_OnOffIllegalFixed(t *testing.T) {
	t.Parallel()

	fixer := &DefaultFixer{StopOnErrors: false}
	values, err := Typer{Fixer: fixer}.TypeColumn("onoff", []any{"1", "z"},
		FixContext{Table: "switches", Column: "power"})
	require.NoError(t, err)
	assert.Equal(t, table.OnOffValues{true, false}, values)
	assert.Equal(t, 1, fixer.Warnings())
	require.Len(t, fixer.Messages(), 1)
	assert.Contains(t, fixer.Messages()[0], `column "power"`)
}

func TestTypeColumn_Numeric(t *testing.T) {
	t.Parallel()

	values, err := Typer{}.TypeColumn("kg",
		[]any{"10", " 2.5 ", "1e3", "-", "nan", "NaN", 7, 1.5}, FixContext{})
	require.NoError(t, err)

	nums := values.(table.NumericValues)
	assert.Equal(t, []float64{10, 2.5, 1000}, []float64(nums[:3]))
	for _, f := range nums[3:6] {
		assert.True(t, math.IsNaN(f))
	}
	assert.Equal(t, table.NumericValues{7, 1.5}, nums[6:])
}

func TestTypeColumn_NumericIllegal(t *testing.T) {
	t.Parallel()

	_, err := Typer{}.TypeColumn("kg", []any{"banana"}, FixContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "banana")

	fixer := &DefaultFixer{StopOnErrors: false}
	values, err := Typer{Fixer: fixer}.TypeColumn("kg", []any{"banana"}, FixContext{})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(float64(values.(table.NumericValues)[0])))
	assert.Equal(t, 1, fixer.Warnings())
}

func TestTypeColumn_DateTime(t *testing.T) {
	t.Parallel()

	values, err := Typer{}.TypeColumn("datetime", []any{
		"2020-08-11",
		"2020-08-11 11:40:00",
		"2020-08-11T11:40:00",
		"11-08-2020",
		"11/08/2020",
		"-",
		"nan",
		time.Date(2020, 8, 11, 0, 0, 0, 0, time.UTC),
	}, FixContext{})
	require.NoError(t, err)

	dates := values.(table.DateTimeValues)
	day := time.Date(2020, 8, 11, 0, 0, 0, 0, time.UTC)
	noon := time.Date(2020, 8, 11, 11, 40, 0, 0, time.UTC)
	assert.True(t, dates[0].Equal(day))
	assert.True(t, dates[1].Equal(noon))
	assert.True(t, dates[2].Equal(noon))
	assert.True(t, dates[3].Equal(day), "day-first order for ambiguous forms")
	assert.True(t, dates[4].Equal(day))
	assert.True(t, table.IsNaT(dates[5]))
	assert.True(t, table.IsNaT(dates[6]))
	assert.True(t, dates[7].Equal(day))
}

func TestTypeColumn_DateTimeIllegal(t *testing.T) {
	t.Parallel()

	// Strings not starting with a digit are illegal outright; no parse is
	// attempted.
	_, err := Typer{}.TypeColumn("datetime", []any{"yesterday"}, FixContext{})
	require.Error(t, err)

	fixer := &DefaultFixer{StopOnErrors: false}
	values, err := Typer{Fixer: fixer}.TypeColumn("datetime", []any{"yesterday"}, FixContext{})
	require.NoError(t, err)
	assert.True(t, table.IsNaT(values.(table.DateTimeValues)[0]))
	assert.Equal(t, 1, fixer.Warnings())
}

func TestTypeColumn_DateTimeNil(t *testing.T) {
	t.Parallel()

	// A nil cell is only a legal null when the source distinguishes nulls.
	_, err := Typer{}.TypeColumn("datetime", []any{nil}, FixContext{})
	require.Error(t, err)

	values, err := Typer{NullableDateTime: true}.TypeColumn("datetime", []any{nil}, FixContext{})
	require.NoError(t, err)
	assert.True(t, table.IsNaT(values.(table.DateTimeValues)[0]))
}

func TestTypeColumn_DispatchIsOnUnitOnly(t *testing.T) {
	t.Parallel()

	// A unit of "-" is numeric like any other non-reserved indicator, even
	// when every value would pass as text.
	values, err := Typer{}.TypeColumn("-", []any{"1", "2"}, FixContext{})
	require.NoError(t, err)
	assert.Equal(t, table.KindNumeric, values.Kind())
}
