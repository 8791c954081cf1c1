package table

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TABLE TESTS
// ============================================================================

// --- Test Fixtures ---

func heatingSample(t *testing.T) *Table {
	t.Helper()
	tbl, err := New([]string{"Tdbr", "Tdbo"}, []string{"capacity", "power"})
	require.NoError(t, err)
	rows := [][4]float64{
		{23.9, 5, 4.1, 1.2},
		{20, -10, 3.0, 1.1},
		{20, 5, 4.0, 1.0},
		{23.9, -10, 3.1, 1.3},
	}
	for _, r := range rows {
		require.NoError(t, tbl.Append(r[:2], r[2:]))
	}
	return tbl
}

func TestNewRejectsDuplicateNames(t *testing.T) {
	_, err := New([]string{"Tdbr", "Tdbr"}, []string{"power"})
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = New([]string{"power"}, []string{"power"})
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestAppendShape(t *testing.T) {
	tbl := heatingSample(t)
	err := tbl.Append([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrShape)
	assert.Equal(t, 4, tbl.Len())
}

func TestAccessors(t *testing.T) {
	tbl := heatingSample(t)

	assert.Equal(t, []string{"Tdbr", "Tdbo"}, tbl.Levels())
	assert.Equal(t, []string{"capacity", "power"}, tbl.Columns())
	assert.Equal(t, 20.0, tbl.Index(1, "Tdbr"))
	assert.Equal(t, 1.1, tbl.Value(1, "power"))
	assert.Zero(t, tbl.Value(1, "COP"), "unknown column reads as 0")
	assert.Zero(t, tbl.Index(99, "Tdbr"), "out-of-range row reads as 0")

	idx, vals := tbl.Row(2)
	assert.Equal(t, []float64{20, 5}, idx)
	assert.Equal(t, []float64{4.0, 1.0}, vals)

	uniq, err := tbl.Unique("Tdbo")
	require.NoError(t, err)
	assert.Equal(t, []float64{-10, 5}, uniq)

	lo, hi, err := tbl.Bounds("Tdbr")
	require.NoError(t, err)
	assert.Equal(t, 20.0, lo)
	assert.Equal(t, 23.9, hi)

	_, _, err = tbl.Bounds("freq")
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestCloneIsDeep(t *testing.T) {
	tbl := heatingSample(t)
	c := tbl.Clone()
	require.NoError(t, c.ScaleColumn("power", 2))
	require.NoError(t, c.SetLevel("Tdbo", 0))

	assert.Equal(t, 1.2, tbl.Value(0, "power"))
	assert.Equal(t, 5.0, tbl.Index(0, "Tdbo"))
	assert.Equal(t, 2.4, c.Value(0, "power"))
}

func TestSetColumn(t *testing.T) {
	tbl := heatingSample(t)
	require.NoError(t, tbl.SetColumn("COP", []float64{1, 2, 3, 4}))
	assert.Equal(t, []string{"capacity", "power", "COP"}, tbl.Columns())

	assert.ErrorIs(t, tbl.SetColumn("COP", []float64{1}), ErrShape)
	assert.ErrorIs(t, tbl.SetColumn("Tdbr", []float64{1, 2, 3, 4}), ErrDuplicateName)
}

func TestSortIndex(t *testing.T) {
	sorted := heatingSample(t).SortIndex()

	tdbr, _ := sorted.LevelValues("Tdbr")
	tdbo, _ := sorted.LevelValues("Tdbo")
	power, _ := sorted.Column("power")

	if diff := cmp.Diff([]float64{20, 20, 23.9, 23.9}, tdbr); diff != "" {
		t.Errorf("Tdbr mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{-10, 5, -10, 5}, tdbo); diff != "" {
		t.Errorf("Tdbo mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1.1, 1.0, 1.3, 1.2}, power); diff != "" {
		t.Errorf("power mismatch (-want +got):\n%s", diff)
	}
}

func TestStack(t *testing.T) {
	a := heatingSample(t)
	b := a.Clone()
	require.NoError(t, b.ScaleColumn("power", 0.5))

	stacked, err := Stack("freq", []float64{0.5, 1}, []*Table{b, a})
	require.NoError(t, err)

	assert.Equal(t, []string{"freq", "Tdbr", "Tdbo"}, stacked.Levels())
	assert.Equal(t, 8, stacked.Len())
	assert.Equal(t, 0.5, stacked.Index(0, "freq"))
	assert.Equal(t, 1.0, stacked.Index(4, "freq"))
	assert.Equal(t, 0.6, stacked.Value(0, "power"))
	assert.Equal(t, 1.2, stacked.Value(4, "power"))

	_, err = Stack("Tdbr", []float64{1}, []*Table{a})
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = Stack("freq", []float64{1, 2}, []*Table{a})
	assert.ErrorIs(t, err, ErrShape)
}

func TestConcatSchemaMismatch(t *testing.T) {
	a := heatingSample(t)
	b, err := a.SelectColumns([]string{"power"})
	require.NoError(t, err)

	_, err = Concat(a, b)
	assert.ErrorIs(t, err, ErrSchema)

	both, err := Concat(a, nil, a)
	require.NoError(t, err)
	assert.Equal(t, 8, both.Len())
}

func TestReorderAndDropLevels(t *testing.T) {
	tbl := heatingSample(t)

	re, err := tbl.ReorderLevels([]string{"Tdbo", "Tdbr"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Tdbo", "Tdbr"}, re.Levels())
	assert.Equal(t, 5.0, re.Index(0, "Tdbo"))
	assert.Equal(t, 23.9, re.Index(0, "Tdbr"))

	_, err = tbl.ReorderLevels([]string{"Tdbo"})
	assert.ErrorIs(t, err, ErrSchema)
	_, err = tbl.ReorderLevels([]string{"Tdbo", "Tdbo"})
	assert.ErrorIs(t, err, ErrDuplicateName)

	dropped, err := tbl.DropLevel("Tdbr")
	require.NoError(t, err)
	assert.Equal(t, []string{"Tdbo"}, dropped.Levels())
	assert.Equal(t, 4, dropped.Len())
}

func TestWhereAndFill(t *testing.T) {
	tbl := heatingSample(t)

	cold, err := tbl.Where("Tdbo", -10)
	require.NoError(t, err)
	assert.Equal(t, 2, cold.Len())

	cold.FillValues(0)
	power, _ := cold.Column("power")
	assert.Equal(t, []float64{0, 0}, power)

	tbl.FillRows([]int{1}, -999)
	assert.Equal(t, -999.0, tbl.Value(1, "capacity"))
	assert.Equal(t, -999.0, tbl.Value(1, "power"))
	assert.Equal(t, 4.1, tbl.Value(0, "capacity"))
}
