package table

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// ============================================================================
// PERFORMANCE TABLE — Multi-indexed, column-major numeric table
// ============================================================================
// A Table has a row index made of named levels (outermost first) and named
// output columns. Every row holds one float64 entry per level and one value
// per column. Storage is column-major so numeric kernels (scale, mul, div)
// run over contiguous slices.
//
// Tables are values by convention: every shaping operation (Stack, Concat,
// ReorderLevels, SortIndex, ...) returns a new Table. The few mutating
// methods (Append, ScaleColumn, SetColumn, FillRows, SetLevel) are meant for
// tables the caller just built or cloned.
// ============================================================================

var (
	ErrDuplicateName = errors.New("table: duplicate level or column name")
	ErrUnknownLevel  = errors.New("table: unknown level")
	ErrUnknownColumn = errors.New("table: unknown column")
	ErrShape         = errors.New("table: row shape mismatch")
	ErrSchema        = errors.New("table: schema mismatch")
	ErrEmpty         = errors.New("table: no rows")
)

// Table is a multi-indexed performance table.
type Table struct {
	levels  []string
	columns []string
	index   [][]float64 // index[level][row]
	values  [][]float64 // values[column][row]
	n       int
}

// New creates an empty table with the given index levels and columns.
// Level and column names must be unique across both lists.
func New(levels, columns []string) (*Table, error) {
	seen := make(map[string]bool, len(levels)+len(columns))
	for _, name := range append(slices.Clone(levels), columns...) {
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[name] = true
	}
	t := &Table{
		levels:  slices.Clone(levels),
		columns: slices.Clone(columns),
		index:   make([][]float64, len(levels)),
		values:  make([][]float64, len(columns)),
	}
	return t, nil
}

// Append adds one row. index and values follow Levels() and Columns() order.
func (t *Table) Append(index, values []float64) error {
	if len(index) != len(t.levels) || len(values) != len(t.columns) {
		return fmt.Errorf("%w: got %d index entries and %d values, want %d and %d",
			ErrShape, len(index), len(values), len(t.levels), len(t.columns))
	}
	for l, v := range index {
		t.index[l] = append(t.index[l], v)
	}
	for c, v := range values {
		t.values[c] = append(t.values[c], v)
	}
	t.n++
	return nil
}

// ============================================================================
// ACCESSORS
// ============================================================================

func (t *Table) Len() int                   { return t.n }
func (t *Table) NumLevels() int             { return len(t.levels) }
func (t *Table) Levels() []string           { return slices.Clone(t.levels) }
func (t *Table) Columns() []string          { return slices.Clone(t.columns) }
func (t *Table) HasLevel(name string) bool  { return t.LevelPos(name) >= 0 }
func (t *Table) HasColumn(name string) bool { return t.ColumnPos(name) >= 0 }

// LevelPos returns the position of a level, or -1.
func (t *Table) LevelPos(name string) int { return slices.Index(t.levels, name) }

// ColumnPos returns the position of a column, or -1.
func (t *Table) ColumnPos(name string) int { return slices.Index(t.columns, name) }

// Index returns the entry of row i along level. Unknown levels and
// out-of-range rows read as 0.
func (t *Table) Index(i int, level string) float64 {
	l := t.LevelPos(level)
	if l < 0 || i < 0 || i >= t.n {
		return 0
	}
	return t.index[l][i]
}

// Value returns the value of row i in column. Unknown columns and
// out-of-range rows read as 0.
func (t *Table) Value(i int, column string) float64 {
	c := t.ColumnPos(column)
	if c < 0 || i < 0 || i >= t.n {
		return 0
	}
	return t.values[c][i]
}

// Row returns copies of the index entries and values of row i.
func (t *Table) Row(i int) (index, values []float64) {
	index = make([]float64, len(t.levels))
	values = make([]float64, len(t.columns))
	for l := range t.levels {
		index[l] = t.index[l][i]
	}
	for c := range t.columns {
		values[c] = t.values[c][i]
	}
	return index, values
}

// LevelValues returns a copy of the per-row entries along level.
func (t *Table) LevelValues(level string) ([]float64, error) {
	l := t.LevelPos(level)
	if l < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	return slices.Clone(t.index[l]), nil
}

// Column returns a copy of a column.
func (t *Table) Column(name string) ([]float64, error) {
	c := t.ColumnPos(name)
	if c < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return slices.Clone(t.values[c]), nil
}

// Unique returns the distinct entries along level, ascending.
func (t *Table) Unique(level string) ([]float64, error) {
	vals, err := t.LevelValues(level)
	if err != nil {
		return nil, err
	}
	slices.Sort(vals)
	return slices.Compact(vals), nil
}

// Bounds returns the lowest and highest entry along level.
func (t *Table) Bounds(level string) (lo, hi float64, err error) {
	l := t.LevelPos(level)
	if l < 0 {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	if t.n == 0 {
		return 0, 0, fmt.Errorf("%w: bounds of %q", ErrEmpty, level)
	}
	return floats.Min(t.index[l]), floats.Max(t.index[l]), nil
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	c := &Table{
		levels:  slices.Clone(t.levels),
		columns: slices.Clone(t.columns),
		index:   make([][]float64, len(t.index)),
		values:  make([][]float64, len(t.values)),
		n:       t.n,
	}
	for l := range t.index {
		c.index[l] = slices.Clone(t.index[l])
	}
	for k := range t.values {
		c.values[k] = slices.Clone(t.values[k])
	}
	return c
}

// ============================================================================
// IN-PLACE MUTATORS — for freshly built or cloned tables only
// ============================================================================

// ScaleColumn multiplies every value of a column by f.
func (t *Table) ScaleColumn(name string, f float64) error {
	c := t.ColumnPos(name)
	if c < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	floats.Scale(f, t.values[c])
	return nil
}

// SetColumn replaces a column, or appends it when absent.
func (t *Table) SetColumn(name string, vals []float64) error {
	if len(vals) != t.n {
		return fmt.Errorf("%w: column %q has %d values for %d rows", ErrShape, name, len(vals), t.n)
	}
	if t.HasLevel(name) {
		return fmt.Errorf("%w: %q is a level", ErrDuplicateName, name)
	}
	if c := t.ColumnPos(name); c >= 0 {
		t.values[c] = slices.Clone(vals)
		return nil
	}
	t.columns = append(t.columns, name)
	t.values = append(t.values, slices.Clone(vals))
	return nil
}

// SetLevel overwrites the entry of every row along level with v.
func (t *Table) SetLevel(level string, v float64) error {
	l := t.LevelPos(level)
	if l < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	for i := range t.index[l] {
		t.index[l][i] = v
	}
	return nil
}

// FillRows sets every column of the given rows to v.
func (t *Table) FillRows(rows []int, v float64) {
	for _, col := range t.values {
		for _, i := range rows {
			col[i] = v
		}
	}
}

// FillValues sets every value of every row to v, keeping the index.
func (t *Table) FillValues(v float64) {
	for _, col := range t.values {
		for i := range col {
			col[i] = v
		}
	}
}
