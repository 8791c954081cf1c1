package ranges

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
)

// ============================================================================
// RANGE REGISTRY — operating range per index level
// ============================================================================
// A registered range must cover the table: assigning an interval narrower
// than the current entries of its level fails instead of clamping.
// ============================================================================

var (
	ErrInvalidInterval = errors.New("ranges: malformed interval")
	ErrNarrowRange     = errors.New("ranges: interval must be larger than or equal to table limits")
	ErrUnknownLevel    = errors.New("ranges: range keys must be table level names")
)

// Interval is a closed interval [Left, Right].
type Interval struct {
	Left  float64 `json:"left" yaml:"left"`
	Right float64 `json:"right" yaml:"right"`
}

// Length returns Right - Left.
func (iv Interval) Length() float64 { return iv.Right - iv.Left }

// Contains reports whether x lies in the closed interval.
func (iv Interval) Contains(x float64) bool { return iv.Left <= x && x <= iv.Right }

func (iv Interval) validate() error {
	if math.IsNaN(iv.Left) || math.IsNaN(iv.Right) || iv.Left > iv.Right {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidInterval, iv.Left, iv.Right)
	}
	return nil
}

// Bounds reports the lowest and highest entry of a level. *table.Table
// satisfies it.
type Bounds interface {
	Levels() []string
	Bounds(level string) (lo, hi float64, err error)
}

// Registry maps level names to operating ranges.
type Registry map[string]Interval

// FromTable registers, for each level, the interval spanned by its entries.
func FromTable(t Bounds) (Registry, error) {
	levels := t.Levels()
	r := make(Registry, len(levels))
	for _, level := range levels {
		lo, hi, err := t.Bounds(level)
		if err != nil {
			return nil, err
		}
		r[level] = Interval{Left: lo, Right: hi}
	}
	return r, nil
}

// Set returns a copy of r with level assigned iv, after checking that iv is
// well formed and covers the table's entries along level. r is unchanged on
// error.
func (r Registry) Set(t Bounds, level string, iv Interval) (Registry, error) {
	if err := iv.validate(); err != nil {
		return nil, err
	}
	if !slices.Contains(t.Levels(), level) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	lo, hi, err := t.Bounds(level)
	if err != nil {
		return nil, err
	}
	if lo < iv.Left || hi > iv.Right {
		return nil, fmt.Errorf("%w: %s [%v, %v] does not cover [%v, %v]",
			ErrNarrowRange, level, iv.Left, iv.Right, lo, hi)
	}
	out := r.Clone()
	if out == nil {
		out = make(Registry)
	}
	out[level] = iv
	return out, nil
}

// Clone returns a copy of r.
func (r Registry) Clone() Registry { return maps.Clone(r) }

// Keys returns the registered levels, sorted.
func (r Registry) Keys() []string {
	return slices.Sorted(maps.Keys(r))
}
