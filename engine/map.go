package engine

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/spektr-org/permap/correction"
	"github.com/spektr-org/permap/ranges"
	"github.com/spektr-org/permap/table"
	"go.uber.org/zap"
)

// ============================================================================
// MAP — Performance table plus the metadata driving its transformations
// ============================================================================
// Every operation returns a new *Map and leaves its receiver untouched, so a
// Map can be shared between goroutines once built.
// ============================================================================

// Map is a performance map.
type Map struct {
	table        *table.Table
	mode         Mode
	stage        Stage
	normalized   bool
	entries      map[string][]float64
	corrections  *correction.Set
	initialNorm  map[string]float64
	ranges       ranges.Registry
	restrictions ranges.Restrictions
	warnings     []Warning
	cfg          *config
}

// defaultEntries returns the entries used to extend along the normalized
// dimensions.
func defaultEntries() map[string][]float64 {
	return map[string][]float64{
		LevelFreq: {0.2, 0.5, 1},
		LevelAFR:  {1e-5, 1},
	}
}

// defaultInitialNorm returns the reference entries of the input table along
// the dimensions it lacks.
func defaultInitialNorm(m Mode) map[string]float64 {
	norm := map[string]float64{LevelFreq: 1, LevelAFR: 1}
	if m == Cooling {
		norm[LevelTwbr] = 1
	}
	return norm
}

// New wraps a performance table. Ranges are taken from the table entries
// and no level is restricted.
func New(t *table.Table, opts ...Option) (*Map, error) {
	if t == nil {
		return nil, ErrNilTable
	}
	if t.Len() == 0 {
		return nil, fmt.Errorf("new map: %w", table.ErrEmpty)
	}
	r, err := ranges.FromTable(t)
	if err != nil {
		return nil, fmt.Errorf("new map: %w", err)
	}
	cfg := applyOptions(opts)
	m := &Map{
		table:        t.Clone(),
		entries:      defaultEntries(),
		ranges:       r,
		restrictions: ranges.NewRestrictions(t.Levels()),
		cfg:          cfg,
	}
	cfg.logger.Debug("performance map created",
		zap.Strings("levels", t.Levels()),
		zap.Strings("columns", t.Columns()),
		zap.Int("rows", t.Len()))
	return m, nil
}

// ============================================================================
// ACCESSORS
// ============================================================================

// Table returns a copy of the performance table.
func (m *Map) Table() *table.Table { return m.table.Clone() }

func (m *Map) Mode() Mode       { return m.mode }
func (m *Map) Stage() Stage     { return m.stage }
func (m *Map) Normalized() bool { return m.normalized }

// Warnings returns the warnings raised by the operation that produced m.
func (m *Map) Warnings() []Warning { return slices.Clone(m.warnings) }

// Entries returns the extension entries per level.
func (m *Map) Entries() map[string][]float64 { return cloneEntries(m.entries) }

// InitialNormValues returns the reference entries per level, nil before the
// mode is set unless assigned explicitly.
func (m *Map) InitialNormValues() map[string]float64 { return maps.Clone(m.initialNorm) }

// Corrections returns a copy of the correction set, nil when none is set.
func (m *Map) Corrections() *correction.Set { return m.corrections.Clone() }

// Ranges returns a copy of the range registry.
func (m *Map) Ranges() ranges.Registry { return m.ranges.Clone() }

// Restrictions returns a copy of the restriction state.
func (m *Map) Restrictions() ranges.Restrictions { return m.restrictions.Clone() }

// Correction returns the corrections of one input dimension.
func (m *Map) Correction(input string) (correction.Group, error) {
	if m.mode == ModeUnset {
		return correction.Group{}, ErrModeNotSet
	}
	if m.corrections == nil {
		return correction.Group{}, fmt.Errorf("%w: %q", ErrUnknownInput, input)
	}
	g, ok := m.corrections.Group(input)
	if !ok {
		return correction.Group{}, fmt.Errorf("%w: %q", ErrUnknownInput, input)
	}
	return g, nil
}

// CorrectionFor returns a single correction curve.
func (m *Map) CorrectionFor(input string, q correction.Quantity) (correction.Func, error) {
	g, err := m.Correction(input)
	if err != nil {
		return nil, err
	}
	f, ok := g.Get(q)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", correction.ErrUnknownQuantity, input, q)
	}
	return f, nil
}

// ============================================================================
// SETTERS — each returns a new Map
// ============================================================================

// Clone returns an independent copy of m without its warnings.
func (m *Map) Clone() *Map {
	return m.withTable(m.table.Clone())
}

// SetMode assigns the operating mode. A map without corrections receives the
// default library for that mode; existing corrections are kept, with a
// warning. Every correction group is completed.
func (m *Map) SetMode(s string) (*Map, error) {
	mode, err := ParseMode(s)
	if err != nil {
		return nil, err
	}
	out := m.Clone()
	out.mode = mode
	if out.corrections == nil {
		set, err := out.cfg.defaults(mode)
		if err != nil {
			return nil, fmt.Errorf("default corrections for %s: %w", mode, err)
		}
		if set == nil {
			set = correction.NewSet()
		}
		out.corrections = set
	} else {
		out.warn(Warning{
			Code: WarnCorrectionsKept,
			Message: "corrections are already set and were not overwritten; " +
				"they may need to be changed for the new mode",
		})
	}
	if out.corrections, err = out.corrections.Complete(); err != nil {
		return nil, err
	}
	if out.initialNorm == nil {
		out.initialNorm = defaultInitialNorm(mode)
	}
	if out.stage == StageUninitialized {
		out.stage = StageModeSet
	}
	out.cfg.logger.Info("mode set",
		zap.Stringer("mode", mode),
		zap.Strings("corrections", out.corrections.Inputs()))
	return out, nil
}

// SetCorrectionSet replaces the whole correction set. Groups are completed
// once the mode is known. A nil set clears the corrections, so that the next
// SetMode attaches the defaults again.
func (m *Map) SetCorrectionSet(set *correction.Set) (*Map, error) {
	out := m.Clone()
	out.corrections = set.Clone()
	if out.mode != ModeUnset && out.corrections != nil {
		var err error
		if out.corrections, err = out.corrections.Complete(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SetCorrections replaces the corrections of one input dimension with two
// or three curves; a missing third one is derived.
func (m *Map) SetCorrections(input string, funcs map[correction.Quantity]correction.Func) (*Map, error) {
	if m.mode == ModeUnset {
		return nil, ErrModeNotSet
	}
	g, err := correction.Complete(correction.NewGroup(funcs))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	out := m.Clone()
	if out.corrections == nil {
		out.corrections = correction.NewSet()
	}
	out.corrections.SetGroup(input, g)
	return out, nil
}

// SetCorrection replaces one curve of an existing input dimension. The
// derived curve of the group follows.
func (m *Map) SetCorrection(input string, q correction.Quantity, f correction.Func) (*Map, error) {
	g, err := m.Correction(input)
	if err != nil {
		return nil, err
	}
	g, err = correction.Complete(g.With(q, f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	out := m.Clone()
	out.corrections.SetGroup(input, g)
	return out, nil
}

// SetSHR replaces the sensible heat ratio curve.
func (m *Map) SetSHR(f correction.Func) (*Map, error) {
	if m.mode == ModeUnset {
		return nil, ErrModeNotSet
	}
	out := m.Clone()
	if out.corrections == nil {
		out.corrections = correction.NewSet()
	}
	out.corrections.SetSHR(f)
	return out, nil
}

// SetEntries assigns the values a level takes when the map is extended
// along it.
func (m *Map) SetEntries(level string, entries []float64) (*Map, error) {
	if err := checkEntries(level, entries); err != nil {
		return nil, err
	}
	out := m.Clone()
	out.entries[level] = slices.Clone(entries)
	return out, nil
}

// SetInitialNormValue assigns the entry the input table implicitly has
// along a level it lacks.
func (m *Map) SetInitialNormValue(level string, v float64) (*Map, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: initial value of %s is %v", ErrInvalidEntries, level, v)
	}
	out := m.Clone()
	if out.initialNorm == nil {
		out.initialNorm = make(map[string]float64)
	}
	out.initialNorm[level] = v
	return out, nil
}

// SetRange assigns the operating range of a level. The range must cover the
// level's entries.
func (m *Map) SetRange(level string, iv ranges.Interval) (*Map, error) {
	r, err := m.ranges.Set(m.table, level, iv)
	if err != nil {
		return nil, err
	}
	out := m.Clone()
	out.ranges = r
	return out, nil
}

// SetRanges assigns several operating ranges at once. Nothing is assigned
// if any of them is rejected.
func (m *Map) SetRanges(rs ranges.Registry) (*Map, error) {
	r := m.ranges
	for _, level := range rs.Keys() {
		var err error
		if r, err = r.Set(m.table, level, rs[level]); err != nil {
			return nil, err
		}
	}
	out := m.Clone()
	out.ranges = r.Clone()
	return out, nil
}

// ============================================================================
// INTERNALS
// ============================================================================

// withTable copies the metadata of m around t. t is not copied.
func (m *Map) withTable(t *table.Table) *Map {
	return &Map{
		table:        t,
		mode:         m.mode,
		stage:        m.stage,
		normalized:   m.normalized,
		entries:      cloneEntries(m.entries),
		corrections:  m.corrections.Clone(),
		initialNorm:  maps.Clone(m.initialNorm),
		ranges:       m.ranges.Clone(),
		restrictions: m.restrictions.Clone(),
		cfg:          m.cfg,
	}
}

// derive returns a map holding t with the metadata of m. Ranges are
// recomputed from t when recompute is set; otherwise registered ranges are
// kept and only new levels get the bounds of their entries. Restrictions
// follow the levels still present.
func (m *Map) derive(t *table.Table, recompute bool) (*Map, error) {
	out := m.withTable(t)
	levels := t.Levels()
	if recompute {
		r, err := ranges.FromTable(t)
		if err != nil {
			return nil, err
		}
		out.ranges = r
	} else {
		r := make(ranges.Registry, len(levels))
		for _, level := range levels {
			if iv, ok := m.ranges[level]; ok {
				r[level] = iv
				continue
			}
			lo, hi, err := t.Bounds(level)
			if err != nil {
				return nil, err
			}
			r[level] = ranges.Interval{Left: lo, Right: hi}
		}
		out.ranges = r
	}
	out.restrictions = m.restrictions.Carry(levels)
	return out, nil
}

func (m *Map) warn(w Warning) {
	m.warnings = append(m.warnings, w)
	m.cfg.logger.Warn(w.Message, zap.String("code", w.Code), zap.Strings("levels", w.Levels))
}

// initialValue is the reference entry of level, 1 when unregistered.
func (m *Map) initialValue(level string) float64 {
	if v, ok := m.initialNorm[level]; ok {
		return v
	}
	return 1
}

func checkEntries(level string, entries []float64) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: %s", ErrNoEntries, level)
	}
	seen := make(map[float64]bool, len(entries))
	for _, v := range entries {
		if math.IsNaN(v) || math.IsInf(v, 0) || seen[v] {
			return fmt.Errorf("%w: %s %v", ErrInvalidEntries, level, entries)
		}
		seen[v] = true
	}
	return nil
}

func cloneEntries(e map[string][]float64) map[string][]float64 {
	out := make(map[string][]float64, len(e))
	for k, v := range e {
		out[k] = slices.Clone(v)
	}
	return out
}
