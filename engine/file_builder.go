package engine

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
)

// ============================================================================
// FILE BUILDER — Type 3254 data file
// ============================================================================
// Layout:
//   - a fixed warning block
//   - per level, outermost first: number of entries and operating range
//   - per level: the distinct entries, ascending
//   - the performance map, one row per index tuple, tab separated
//
// Lines starting with "!#" are structural and read by the simulation
// component; numbers use the shortest round-trip representation with a
// decimal point (1.0, 0.35, 1e-05).
// ============================================================================

const type3254Warning = `!# This is a data file for Type 3254. Do not change the format.
!# In PARTICULAR, LINES STARTING WITH !# MUST BE LEFT IN THE FILE AT THEIR LOCATION.
!# Comments within "normal lines" (not starting with !#) are optional but the data must be there.
!#
!# Independent variables
!#
`

// WriteType3254 writes m as a Type 3254 data file. With ColMajor the body
// is ordered with the innermost level varying slowest.
func WriteType3254(w io.Writer, m *Map, order MajorOrder) error {
	t := m.table
	levels := t.Levels()
	bw := bufio.NewWriter(w)

	bw.WriteString(type3254Warning)
	for _, level := range levels {
		iv, ok := m.ranges[level]
		if !ok {
			lo, hi, err := t.Bounds(level)
			if err != nil {
				return err
			}
			iv.Left, iv.Right = lo, hi
		}
		n, err := t.Unique(level)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "!# Number of %s data points, lower bound, upper bound\n", level)
		fmt.Fprintf(bw, "   %d\t%s\t%s\n", len(n), formatFloat(iv.Left), formatFloat(iv.Right))
	}
	for _, level := range levels {
		vals, err := t.Unique(level)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, "!# %s values\n", level)
		bw.WriteString("   " + joinFloats(vals, "\t") + "\n")
	}
	bw.WriteString("!#\n!# Performance map\n!#\n")

	body := levels
	if order == ColMajor {
		body = slices.Clone(levels)
		slices.Reverse(body)
	}
	bt, err := t.ReorderLevels(body)
	if err != nil {
		return err
	}
	bt = bt.SortIndex()
	columns := bt.Columns()
	fmt.Fprintf(bw, "!#\t%s\t%s\n", strings.Join(body, "\t"), strings.Join(columns, "\t"))
	for i := 0; i < bt.Len(); i++ {
		index, values := bt.Row(i)
		for k := range values {
			values[k] = round10(values[k])
		}
		fmt.Fprintf(bw, "\t%s\t%s\n", joinFloats(index, "\t"), joinFloats(values, "\t"))
	}
	return bw.Flush()
}

// WriteType3254File writes m to path, creating or truncating it.
func WriteType3254File(path string, m *Map, order MajorOrder) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteType3254(f, m, order)
}

// round10 rounds half to even at ten decimals.
func round10(v float64) float64 {
	return math.RoundToEven(v*1e10) / 1e10
}

// formatFloat renders v as the shortest string that parses back to v, with
// a decimal point for integral values and exponent notation below 1e-4 or
// from 1e16 up.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case v == 0:
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	e, _ := strconv.Atoi(exp)
	if e < -4 || e >= 16 {
		sign := "+"
		if e < 0 {
			sign, e = "-", -e
		}
		return fmt.Sprintf("%se%s%02d", mant, sign, e)
	}
	s = strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func joinFloats(vals []float64, sep string) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, sep)
}
