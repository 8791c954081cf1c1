package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spektr-org/permap/correction"
	"github.com/spektr-org/permap/table"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// ============================================================================
// CORRECT / EXTEND — Applying correction curves
// ============================================================================
// A correction of quantity q along dimension d gives, for an entry x of d,
// the factor f(x) / f(x0) to apply to column q of a table measured at the
// reference entry x0. Extending stacks one corrected copy of the table per
// entry under a new outermost level named d.
// ============================================================================

// Correct returns a copy of t with every column scaled by the ratio of its
// correction at entry over its correction at reference. The columns of t
// must be exactly the quantities of g.
func Correct(t *table.Table, g correction.Group, entry, reference float64) (*table.Table, error) {
	if err := matchColumns(t.Columns(), g.Names()); err != nil {
		return nil, err
	}
	out := t.Clone()
	for _, q := range g.Quantities() {
		f, _ := g.Get(q)
		if err := out.ScaleColumn(q.String(), f(entry)/f(reference)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Correct applies g to the map as if its table, measured at the initial
// entry of g's dimension, were moved to entry.
func (m *Map) Correct(g correction.Group, entry, reference float64) (*Map, error) {
	t, err := Correct(m.table, g, entry, reference)
	if err != nil {
		return nil, err
	}
	return m.derive(t, false)
}

// Extend adds level name as the new outermost level, with one block of rows
// per entry. Each block is the current table corrected by g from the initial
// entry of name (1 when not registered) to the block's entry.
func (m *Map) Extend(g correction.Group, entries []float64, name string, opts ...ExtendOption) (*Map, error) {
	if m.mode == ModeUnset {
		return nil, ErrModeNotSet
	}
	var ec extendConfig
	for _, opt := range opts {
		opt(&ec)
	}
	if m.table.HasLevel(name) {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateLevel, name)
	}
	if err := checkEntries(name, entries); err != nil {
		return nil, err
	}
	if err := matchColumns(m.table.Columns(), g.Names()); err != nil {
		return nil, fmt.Errorf("extend along %s: %w", name, err)
	}

	reference := m.initialValue(name)
	parts := make([]*table.Table, len(entries))
	for k, x := range entries {
		part, err := Correct(m.table, g, x, reference)
		if err != nil {
			return nil, err
		}
		parts[k] = part
	}
	stacked, err := table.Stack(name, entries, parts)
	if err != nil {
		return nil, err
	}
	out, err := m.derive(stacked, !ec.keepRanges)
	if err != nil {
		return nil, err
	}
	out.stage = max(out.stage, StageExtended)
	m.cfg.logger.Debug("map extended",
		zap.String("level", name),
		zap.Float64s("entries", entries),
		zap.Float64("reference", reference),
		zap.Int("rows", stacked.Len()))
	return out, nil
}

// ============================================================================
// MISSING COLUMN — capacity = power × COP
// ============================================================================

// withMissingColumn returns a copy of t holding all of capacity, power and
// COP, the missing one computed from the other two.
func withMissingColumn(t *table.Table) (*table.Table, error) {
	var have []string
	for _, q := range correction.Quantities {
		if t.HasColumn(q.String()) {
			have = append(have, q.String())
		}
	}
	out := t.Clone()
	switch len(have) {
	case 3:
		return out, nil
	case 2:
	default:
		return nil, fmt.Errorf("%w: need two of capacity, power and COP, have %v",
			ErrColumnMismatch, t.Columns())
	}

	col := func(name string) []float64 {
		v, _ := t.Column(name)
		return v
	}
	dst := make([]float64, t.Len())
	var missing string
	switch {
	case !t.HasColumn(ColCapacity):
		missing = ColCapacity
		floats.MulTo(dst, col(ColPower), col(ColCOP))
	case !t.HasColumn(ColPower):
		missing = ColPower
		floats.DivTo(dst, col(ColCapacity), col(ColCOP))
	default:
		missing = ColCOP
		floats.DivTo(dst, col(ColCapacity), col(ColPower))
	}
	if err := out.SetColumn(missing, dst); err != nil {
		return nil, err
	}
	return out, nil
}

// AddMissingColumn returns a map whose table holds all of capacity, power
// and COP.
func (m *Map) AddMissingColumn() (*Map, error) {
	t, err := withMissingColumn(m.table)
	if err != nil {
		return nil, err
	}
	return m.derive(t, true)
}

// matchColumns fails unless columns and keys hold the same names.
func matchColumns(columns, keys []string) error {
	extraCols := difference(columns, keys)
	extraKeys := difference(keys, columns)
	if len(extraCols) == 0 && len(extraKeys) == 0 {
		return nil
	}
	return fmt.Errorf("%w: columns not in corrections [%s], corrections not in columns [%s]",
		ErrColumnMismatch, strings.Join(extraCols, ", "), strings.Join(extraKeys, ", "))
}

// difference returns the elements of a missing from b, in a's order.
func difference(a, b []string) []string {
	var out []string
	for _, x := range a {
		if !slices.Contains(b, x) {
			out = append(out, x)
		}
	}
	return out
}
