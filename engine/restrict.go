package engine

import (
	"fmt"
	"math"
	"slices"

	"github.com/spektr-org/permap/ranges"
	"github.com/spektr-org/permap/table"
	"go.uber.org/zap"
)

// ============================================================================
// OPERATING RANGE RESTRICTION — zero padding outside the ranges
// ============================================================================
// Interpolating simulation components read a map between its grid points.
// Restricting a level inserts rows of zeros just outside its registered
// range, so that the map falls to zero beyond the operating limits. Before
// padding, the rows at the table's edge entry are duplicated at the range
// bound when the range reaches beyond the table.
// ============================================================================

// ExtendToRange duplicates the rows at the lowest (highest) entry of level
// at the left (right) bound of its range, on the requested sides, when the
// range extends beyond the table. Level order is kept and rows are sorted.
func (m *Map) ExtendToRange(level string, side ranges.Side) (*Map, error) {
	if side != ranges.SideLeft && side != ranges.SideRight && side != ranges.SideBoth {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSide, side)
	}
	rng, ok := m.ranges[level]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ranges.ErrUnknownLevel, level)
	}
	lo, hi, err := m.table.Bounds(level)
	if err != nil {
		return nil, err
	}

	var left, right *table.Table
	if side.HasLeft() && rng.Left < lo {
		if left, err = relabel(m.table, level, lo, rng.Left); err != nil {
			return nil, err
		}
	}
	if side.HasRight() && rng.Right > hi {
		if right, err = relabel(m.table, level, hi, rng.Right); err != nil {
			return nil, err
		}
	}
	if left == nil && right == nil {
		return m.derive(m.table.Clone(), false)
	}
	t, err := table.Concat(left, m.table, right)
	if err != nil {
		return nil, err
	}
	return m.derive(t.SortIndex(), false)
}

// LimitOperatingRange pads level with rows of zeros just outside its range,
// on the requested sides. The default distance to the range bound is 1e-5
// times the range length. A side can only be padded once.
func (m *Map) LimitOperatingRange(level string, side ranges.Side, opts ...RestrictOption) (*Map, error) {
	var rc restrictConfig
	for _, opt := range opts {
		opt(&rc)
	}
	if err := m.restrictions.Check(level, side); err != nil {
		return nil, err
	}
	rng, ok := m.ranges[level]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ranges.ErrUnknownLevel, level)
	}
	leftShift, err := shift(rc.left, rc.hasLeft, rng, level)
	if err != nil && side.HasLeft() {
		return nil, err
	}
	rightShift, err := shift(rc.right, rc.hasRight, rng, level)
	if err != nil && side.HasRight() {
		return nil, err
	}

	ext, err := m.ExtendToRange(level, side)
	if err != nil {
		return nil, err
	}
	lo, hi, err := ext.table.Bounds(level)
	if err != nil {
		return nil, err
	}
	var zl, zr *table.Table
	if side.HasLeft() {
		if zl, err = relabel(ext.table, level, lo, rng.Left-leftShift); err != nil {
			return nil, err
		}
		zl.FillValues(0)
	}
	if side.HasRight() {
		if zr, err = relabel(ext.table, level, hi, rng.Right+rightShift); err != nil {
			return nil, err
		}
		zr.FillValues(0)
	}
	t, err := table.Concat(zl, ext.table, zr)
	if err != nil {
		return nil, err
	}
	restrictions, err := ext.restrictions.Restrict(level, side)
	if err != nil {
		return nil, err
	}
	out, err := ext.derive(t.SortIndex(), false)
	if err != nil {
		return nil, err
	}
	out.restrictions = restrictions
	m.cfg.logger.Debug("operating range limited",
		zap.String("level", level),
		zap.Stringer("side", side),
		zap.Float64("left", rng.Left),
		zap.Float64("right", rng.Right))
	return out, nil
}

// LimitOperatingRanges restricts every listed level (all registered levels
// when levels is empty) except those in omit, in sorted order.
func (m *Map) LimitOperatingRanges(side ranges.Side, levels, omit []string, opts ...RestrictOption) (*Map, error) {
	if len(levels) == 0 {
		levels = m.ranges.Keys()
	} else {
		levels = slices.Sorted(slices.Values(levels))
	}
	out := m
	for _, level := range levels {
		if slices.Contains(omit, level) {
			continue
		}
		var err error
		if out, err = out.LimitOperatingRange(level, side, opts...); err != nil {
			return nil, fmt.Errorf("limit %s: %w", level, err)
		}
	}
	if out == m {
		return m.Clone(), nil
	}
	return out, nil
}

// relabel copies the rows of t whose entry along level is from, moved to to.
func relabel(t *table.Table, level string, from, to float64) (*table.Table, error) {
	rows, err := t.Where(level, from)
	if err != nil {
		return nil, err
	}
	if err := rows.SetLevel(level, to); err != nil {
		return nil, err
	}
	return rows, nil
}

// shift resolves the padding distance on one side.
func shift(d float64, explicit bool, rng ranges.Interval, level string) (float64, error) {
	if !explicit {
		d = 1e-5 * rng.Length()
		if d <= 0 {
			return 0, fmt.Errorf("%w: range of %s has zero length, pass an explicit shift", ErrInvalidShift, level)
		}
		return d, nil
	}
	if !(d > 0) || math.IsInf(d, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidShift, d)
	}
	return d, nil
}
