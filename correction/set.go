package correction

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
)

// ============================================================================
// CORRECTION SET — {input dimension: {output quantity: correction}}
// ============================================================================
// A correction maps the value of one input dimension (frequency, air flow
// rate, ...) to a multiplicative factor on one output quantity, ≈1 at the
// reference condition. For a given input, two of capacity/power/COP fully
// determine the third, so a Group holds two or three corrections and
// Complete derives the missing one.
// ============================================================================

var (
	ErrCorrectionCount = errors.New("correction: a dimension needs two or three corrections")
	ErrUnknownQuantity = errors.New("correction: unknown output quantity")
	ErrUnknownInput    = errors.New("correction: no corrections for input")
)

// Func is a single-variable correction curve.
type Func func(x float64) float64

// Group holds the corrections of one input dimension.
type Group struct {
	funcs   map[Quantity]Func
	derived Quantity
	hasDer  bool
}

// NewGroup builds a Group from explicit corrections.
func NewGroup(funcs map[Quantity]Func) Group {
	return Group{funcs: maps.Clone(funcs)}
}

func (g Group) Len() int { return len(g.funcs) }

// Get returns the correction for q.
func (g Group) Get(q Quantity) (Func, bool) {
	f, ok := g.funcs[q]
	return f, ok
}

// Quantities returns the registered quantities in column order.
func (g Group) Quantities() []Quantity {
	qs := slices.Collect(maps.Keys(g.funcs))
	slices.Sort(qs)
	return qs
}

// Names returns the registered quantity names in column order.
func (g Group) Names() []string {
	qs := g.Quantities()
	names := make([]string, len(qs))
	for i, q := range qs {
		names[i] = q.String()
	}
	return names
}

// Derived reports which quantity Complete derived, if any.
func (g Group) Derived() (Quantity, bool) { return g.derived, g.hasDer }

// With returns a copy of g with q set to f. Setting the derived quantity
// makes it explicit; setting one of its sources re-derives it.
func (g Group) With(q Quantity, f Func) Group {
	out := Group{funcs: maps.Clone(g.funcs), derived: g.derived, hasDer: g.hasDer}
	if out.funcs == nil {
		out.funcs = make(map[Quantity]Func)
	}
	out.funcs[q] = f
	if !out.hasDer {
		return out
	}
	if q == out.derived {
		out.hasDer = false
		return out
	}
	delete(out.funcs, out.derived)
	if completed, err := Complete(out); err == nil {
		return completed
	}
	return out
}

// Complete returns g with the missing third correction derived from the
// other two:
//
//	power    = capacity / COP
//	capacity = power × COP
//	COP      = capacity / power
//
// A full group is returned unchanged.
func Complete(g Group) (Group, error) {
	n := len(g.funcs)
	if n < 2 || n > 3 {
		return Group{}, fmt.Errorf("%w: got %d (%v)", ErrCorrectionCount, n, g.Names())
	}
	if n == 3 {
		return Group{funcs: maps.Clone(g.funcs), derived: g.derived, hasDer: g.hasDer}, nil
	}
	var missing Quantity
	for _, q := range Quantities {
		if _, ok := g.funcs[q]; !ok {
			missing = q
		}
	}
	var derived Func
	switch missing {
	case Power:
		capacity, cop := g.funcs[Capacity], g.funcs[COP]
		derived = func(x float64) float64 { return capacity(x) / cop(x) }
	case Capacity:
		power, cop := g.funcs[Power], g.funcs[COP]
		derived = func(x float64) float64 { return power(x) * cop(x) }
	case COP:
		capacity, power := g.funcs[Capacity], g.funcs[Power]
		derived = func(x float64) float64 { return capacity(x) / power(x) }
	}
	out := Group{funcs: maps.Clone(g.funcs), derived: missing, hasDer: true}
	out.funcs[missing] = derived
	return out, nil
}

// ============================================================================
// SET
// ============================================================================

// Set maps input dimensions to their correction groups, plus the sensible
// heat ratio curve used to split cooling capacity.
type Set struct {
	groups map[string]Group
	shr    Func
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{groups: make(map[string]Group)}
}

// Clone returns a copy that can be modified independently. Correction
// functions are shared; they are pure.
func (s *Set) Clone() *Set {
	if s == nil {
		return nil
	}
	return &Set{groups: maps.Clone(s.groups), shr: s.shr}
}

// Group returns the corrections of an input dimension.
func (s *Set) Group(input string) (Group, bool) {
	g, ok := s.groups[input]
	return g, ok
}

// Has reports whether input has corrections.
func (s *Set) Has(input string) bool {
	_, ok := s.groups[input]
	return ok
}

// Inputs returns the input dimensions, sorted.
func (s *Set) Inputs() []string {
	inputs := make([]string, 0, len(s.groups))
	for k := range s.groups {
		inputs = append(inputs, k)
	}
	sort.Strings(inputs)
	return inputs
}

// SetGroup registers g for input, replacing any previous group.
func (s *Set) SetGroup(input string, g Group) {
	s.groups[input] = g
}

// Delete removes the corrections of input.
func (s *Set) Delete(input string) {
	delete(s.groups, input)
}

// SetSHR registers the sensible heat ratio curve.
func (s *Set) SetSHR(f Func) { s.shr = f }

// SHR returns the sensible heat ratio curve, nil when unset.
func (s *Set) SHR() Func { return s.shr }

// Complete returns a copy with every group completed.
func (s *Set) Complete() (*Set, error) {
	out := s.Clone()
	for _, input := range s.Inputs() {
		g, err := Complete(s.groups[input])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", input, err)
		}
		out.groups[input] = g
	}
	return out, nil
}
