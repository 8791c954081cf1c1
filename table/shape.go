package table

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// ============================================================================
// SHAPING — operations returning new tables
// ============================================================================

// Stack concatenates parts under a new outermost level. parts[k] rows are
// labelled keys[k]. All parts must share levels and columns.
func Stack(name string, keys []float64, parts []*Table) (*Table, error) {
	if len(keys) != len(parts) {
		return nil, fmt.Errorf("%w: %d keys for %d parts", ErrShape, len(keys), len(parts))
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: nothing to stack", ErrEmpty)
	}
	first := parts[0]
	if first.HasLevel(name) || first.HasColumn(name) {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	out, err := New(append([]string{name}, first.levels...), first.columns)
	if err != nil {
		return nil, err
	}
	for k, p := range parts {
		if err := sameSchema(first, p); err != nil {
			return nil, err
		}
		for i := 0; i < p.n; i++ {
			out.index[0] = append(out.index[0], keys[k])
		}
		for l := range p.index {
			out.index[l+1] = append(out.index[l+1], p.index[l]...)
		}
		for c := range p.values {
			out.values[c] = append(out.values[c], p.values[c]...)
		}
		out.n += p.n
	}
	return out, nil
}

// Concat appends the rows of parts, in order. Empty parts are ignored; all
// other parts must share levels and columns.
func Concat(parts ...*Table) (*Table, error) {
	var first *Table
	for _, p := range parts {
		if p != nil {
			first = p
			break
		}
	}
	if first == nil {
		return nil, fmt.Errorf("%w: nothing to concatenate", ErrEmpty)
	}
	out := &Table{
		levels:  slices.Clone(first.levels),
		columns: slices.Clone(first.columns),
		index:   make([][]float64, len(first.levels)),
		values:  make([][]float64, len(first.columns)),
	}
	for _, p := range parts {
		if p == nil || p.n == 0 {
			continue
		}
		if err := sameSchema(first, p); err != nil {
			return nil, err
		}
		for l := range p.index {
			out.index[l] = append(out.index[l], p.index[l]...)
		}
		for c := range p.values {
			out.values[c] = append(out.values[c], p.values[c]...)
		}
		out.n += p.n
	}
	return out, nil
}

// ReorderLevels returns a copy with levels in the given order, which must be
// a permutation of the current levels.
func (t *Table) ReorderLevels(order []string) (*Table, error) {
	if len(order) != len(t.levels) {
		return nil, fmt.Errorf("%w: reorder %v does not match levels %v", ErrSchema, order, t.levels)
	}
	out := t.Clone()
	seen := make(map[string]bool, len(order))
	for k, name := range order {
		l := t.LevelPos(name)
		if l < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[name] = true
		out.levels[k] = name
		out.index[k] = slices.Clone(t.index[l])
	}
	return out, nil
}

// SortIndex returns a copy with rows sorted lexicographically by the index,
// outermost level first. The sort is stable.
func (t *Table) SortIndex() *Table {
	perm := make([]int, t.n)
	for i := range perm {
		perm[i] = i
	}
	slices.SortStableFunc(perm, func(a, b int) int {
		for l := range t.index {
			if c := cmp.Compare(t.index[l][a], t.index[l][b]); c != 0 {
				return c
			}
		}
		return 0
	})
	return t.take(perm)
}

// DropLevel returns a copy without the given level.
func (t *Table) DropLevel(name string) (*Table, error) {
	l := t.LevelPos(name)
	if l < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
	}
	out := t.Clone()
	out.levels = slices.Delete(out.levels, l, l+1)
	out.index = slices.Delete(out.index, l, l+1)
	return out, nil
}

// SelectColumns returns a copy holding only cols, in that order.
func (t *Table) SelectColumns(cols []string) (*Table, error) {
	out := &Table{
		levels:  slices.Clone(t.levels),
		columns: slices.Clone(cols),
		index:   make([][]float64, len(t.levels)),
		values:  make([][]float64, len(cols)),
		n:       t.n,
	}
	for l := range t.index {
		out.index[l] = slices.Clone(t.index[l])
	}
	for k, name := range cols {
		c := t.ColumnPos(name)
		if c < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		out.values[k] = slices.Clone(t.values[c])
	}
	return out, nil
}

// Where returns the rows whose entry along level equals v.
func (t *Table) Where(level string, v float64) (*Table, error) {
	l := t.LevelPos(level)
	if l < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	var rows []int
	for i, x := range t.index[l] {
		if x == v {
			rows = append(rows, i)
		}
	}
	return t.take(rows), nil
}

// take builds a table from the given rows, in order.
func (t *Table) take(rows []int) *Table {
	out := &Table{
		levels:  slices.Clone(t.levels),
		columns: slices.Clone(t.columns),
		index:   make([][]float64, len(t.levels)),
		values:  make([][]float64, len(t.columns)),
		n:       len(rows),
	}
	for l, src := range t.index {
		dst := make([]float64, len(rows))
		for k, i := range rows {
			dst[k] = src[i]
		}
		out.index[l] = dst
	}
	for c, src := range t.values {
		dst := make([]float64, len(rows))
		for k, i := range rows {
			dst[k] = src[i]
		}
		out.values[c] = dst
	}
	return out
}

func sameSchema(a, b *Table) error {
	if !slices.Equal(a.levels, b.levels) || !slices.Equal(a.columns, b.columns) {
		return fmt.Errorf("%w: [%s | %s] vs [%s | %s]", ErrSchema,
			strings.Join(a.levels, ", "), strings.Join(a.columns, ", "),
			strings.Join(b.levels, ", "), strings.Join(b.columns, ", "))
	}
	return nil
}
