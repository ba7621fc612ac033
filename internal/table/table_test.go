package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericColumn_Coercion(t *testing.T) {
	tbl := New([]string{"OM"}, [][]string{
		{"25.5"}, {""}, {"abc"}, {"1,234.5"}, {" 40 "},
	})

	vals := tbl.NumericColumn("OM")
	require.Len(t, vals, 5)
	assert.Equal(t, 25.5, vals[0])
	assert.True(t, math.IsNaN(vals[1]))
	assert.True(t, math.IsNaN(vals[2]))
	assert.Equal(t, 1234.5, vals[3])
	assert.Equal(t, 40.0, vals[4])

	assert.Nil(t, tbl.NumericColumn("missing"))
}

func TestFindColumn_CaseInsensitive(t *testing.T) {
	tbl := New([]string{"行政区名称", " PH ", "面积"}, nil)

	assert.Equal(t, " PH ", tbl.FindColumn("ph"))
	assert.Equal(t, "行政区名称", tbl.FindColumn("乡镇", "行政区名称"))
	assert.Equal(t, "", tbl.FindColumn("土类"))
}

func TestRename(t *testing.T) {
	tbl := New([]string{"有机质含量", "面积"}, [][]string{{"12", "3.5"}})

	renamed, err := tbl.Rename("有机质含量", "OM")
	require.NoError(t, err)
	assert.Equal(t, []string{"OM", "面积"}, renamed.Columns)
	assert.Equal(t, 12.0, renamed.NumericColumn("OM")[0])

	_, err = tbl.Rename("nope", "x")
	require.Error(t, err)
}

func TestConcat_UnionOfColumns(t *testing.T) {
	a := New([]string{"OM", "面积"}, [][]string{{"10", "1"}})
	b := New([]string{"ph", "OM"}, [][]string{{"6.5", "20"}})

	merged := Concat(a, b)
	assert.Equal(t, []string{"OM", "面积", "ph"}, merged.Columns)
	require.Equal(t, 2, merged.Len())

	om := merged.NumericColumn("OM")
	assert.Equal(t, 10.0, om[0])
	assert.Equal(t, 20.0, om[1])

	area := merged.NumericColumn("面积")
	assert.Equal(t, 1.0, area[0])
	assert.True(t, math.IsNaN(area[1]))
}

func TestShortRowsPadded(t *testing.T) {
	tbl := New([]string{"a", "b", "c"}, [][]string{{"1"}})
	assert.Equal(t, []string{"1", "", ""}, tbl.Rows[0])
}

func TestNilTableAccessors(t *testing.T) {
	var tbl *Table
	assert.Equal(t, 0, tbl.Len())
	assert.Equal(t, -1, tbl.ColumnIndex("x"))
	assert.Equal(t, "", tbl.FindColumn("x"))
}
