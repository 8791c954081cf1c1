package engine

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spektr-org/permap/ranges"
	"github.com/spektr-org/permap/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TYPE 3254 WRITER TESTS
// ============================================================================

func twoLevelMap(t *testing.T) *Map {
	t.Helper()
	tbl, err := table.New([]string{LevelTdbo, LevelFreq}, []string{ColPower})
	require.NoError(t, err)
	for _, r := range [][3]float64{
		{35, 1, 1},
		{7, 0.5, 0.1 + 0.2},
		{7, 1, 0.4},
		{35, 0.5, 1.0 / 3},
	} {
		require.NoError(t, tbl.Append(r[:2], r[2:]))
	}
	return newMap(t, tbl, "")
}

func TestWriteType3254(t *testing.T) {
	m := twoLevelMap(t)
	m, err := m.SetRange(LevelTdbo, ranges.Interval{Left: -10, Right: 46})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteType3254(&buf, m, RowMajor))

	want := type3254Warning +
		"!# Number of Tdbo data points, lower bound, upper bound\n" +
		"   2\t-10.0\t46.0\n" +
		"!# Number of freq data points, lower bound, upper bound\n" +
		"   2\t0.5\t1.0\n" +
		"!# Tdbo values\n" +
		"   7.0\t35.0\n" +
		"!# freq values\n" +
		"   0.5\t1.0\n" +
		"!#\n" +
		"!# Performance map\n" +
		"!#\n" +
		"!#\tTdbo\tfreq\tpower\n" +
		"\t7.0\t0.5\t0.3\n" +
		"\t7.0\t1.0\t0.4\n" +
		"\t35.0\t0.5\t0.3333333333\n" +
		"\t35.0\t1.0\t1.0\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteType3254ColMajor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteType3254(&buf, twoLevelMap(t), ColMajor))

	_, body, ok := strings.Cut(buf.String(), "!# Performance map\n!#\n")
	require.True(t, ok)
	assert.Equal(t,
		"!#\tfreq\tTdbo\tpower\n"+
			"\t0.5\t7.0\t0.3\n"+
			"\t0.5\t35.0\t0.3333333333\n"+
			"\t1.0\t7.0\t0.4\n"+
			"\t1.0\t35.0\t1.0\n",
		body)
	assert.True(t, strings.HasPrefix(buf.String(), type3254Warning+"!# Number of Tdbo"),
		"header sections keep the table's level order")
}

func TestWriteType3254File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heating.dat")
	m, err := newMap(t, heatingTable(t), "heating").Fill()
	require.NoError(t, err)

	require.NoError(t, WriteType3254File(path, m, RowMajor))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "!# Number of AFR data points, lower bound, upper bound\n   2\t1e-05\t1.0\n")
	assert.Contains(t, text, "!# freq values\n   0.2\t0.5\t1.0\n")
	assert.Contains(t, text, "!#\tTdbr\tTdbo\tAFR\tfreq\tpower\tcapacity\n")
	assert.Contains(t, text, "\t20.0\t7.0\t1.0\t1.0\t2.0\t7.0\n")
	assert.Equal(t, 12, strings.Count(text, "\n\t20.0\t"))

	err = WriteType3254File(filepath.Join(t.TempDir(), "missing", "x.dat"), m, RowMajor)
	assert.Error(t, err)
}

func TestParseMajorOrder(t *testing.T) {
	for in, want := range map[string]MajorOrder{"row": RowMajor, "COL": ColMajor, "": RowMajor} {
		got, err := ParseMajorOrder(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMajorOrder("diagonal")
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1, "1.0"},
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{-999, "-999.0"},
		{0.35, "0.35"},
		{0.30000000000000004, "0.30000000000000004"},
		{0.0001, "0.0001"},
		{1e-5, "1e-05"},
		{1.5e-5, "1.5e-05"},
		{2.5e-10, "2.5e-10"},
		{-15 - 1e-5*22, "-15.00022"},
		{123456789012345, "123456789012345.0"},
		{1e16, "1e+16"},
		{1.7976931348623157e308, "1.7976931348623157e+308"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "nan"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, formatFloat(c.in), "%v", c.in)
	}
}

func TestRound10(t *testing.T) {
	a, b := 0.1, 0.2
	assert.Equal(t, 0.3, round10(a+b))
	assert.Equal(t, 0.3333333333, round10(1.0/3))
	assert.Equal(t, 0.0, round10(2.5e-11))
	assert.Equal(t, -999.0, round10(-999))
}
