package engine

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/spektr-org/permap/correction"
	"go.uber.org/zap"
)

// ============================================================================
// NORMALIZATION — dividing each column by its rated value
// ============================================================================
// Table columns and rated keys may differ only within capacity/power/COP:
// when one side holds the three quantities and the other two of them, the
// missing one is derived on the short side.
// ============================================================================

// Normalize divides each column by its rated value. A nil or empty rated
// leaves the map as is.
func (m *Map) Normalize(rated Rated) (*Map, error) {
	if m.normalized {
		return nil, ErrAlreadyNormalized
	}
	if m.mode == ModeUnset {
		return nil, ErrModeNotSet
	}
	if len(rated) == 0 {
		return m.derive(m.table.Clone(), false)
	}
	for k, v := range rated {
		if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s = %v", ErrInvalidRated, k, v)
		}
	}

	cols := m.table.Columns()
	keys := slices.Sorted(maps.Keys(rated))
	mismatch := append(difference(cols, keys), difference(keys, cols)...)
	for _, name := range mismatch {
		if !correction.IsQuantity(name) {
			return nil, ratedMismatch(cols, keys)
		}
	}
	if len(mismatch) >= len(correction.Quantities) {
		return nil, ratedMismatch(cols, keys)
	}

	t := m.table
	switch {
	case len(cols) > len(keys):
		var err error
		if rated, err = completeRated(rated); err != nil {
			return nil, err
		}
	case len(cols) < len(keys):
		var err error
		if t, err = withMissingColumn(t); err != nil {
			return nil, err
		}
	}
	t = t.Clone()
	for _, col := range t.Columns() {
		v, ok := rated[col]
		if !ok {
			return nil, ratedMismatch(t.Columns(), slices.Sorted(maps.Keys(rated)))
		}
		if err := t.ScaleColumn(col, 1/v); err != nil {
			return nil, err
		}
	}

	out, err := m.derive(t, false)
	if err != nil {
		return nil, err
	}
	out.normalized = true
	out.stage = max(out.stage, StageNormalized)
	m.cfg.logger.Debug("map normalized", zap.Any("rated", rated))
	return out, nil
}

// completeRated derives the missing rated quantity from the other two.
func completeRated(r Rated) (Rated, error) {
	out := maps.Clone(r)
	capacity, hasCap := r[ColCapacity]
	power, hasPow := r[ColPower]
	cop, hasCOP := r[ColCOP]
	switch {
	case hasCap && hasPow && hasCOP:
	case hasPow && hasCOP:
		out[ColCapacity] = power * cop
	case hasCap && hasCOP:
		out[ColPower] = capacity / cop
	case hasCap && hasPow:
		out[ColCOP] = capacity / power
	default:
		return nil, fmt.Errorf("%w: need two of capacity, power and COP, have %v",
			ErrRatedMismatch, slices.Sorted(maps.Keys(r)))
	}
	return out, nil
}

func ratedMismatch(cols, keys []string) error {
	return fmt.Errorf("%w: columns [%s], rated [%s]",
		ErrRatedMismatch, strings.Join(cols, ", "), strings.Join(keys, ", "))
}
