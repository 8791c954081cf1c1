package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spektr-org/permap/table"
	"go.uber.org/zap"
)

// ============================================================================
// FILL — Completing a partial map
// ============================================================================
// Pipeline:
//   1. Derive the missing one of capacity/power/COP
//   2. Extend along every required level the table lacks, when a correction
//      exists for it (levels without one are reported in a single warning)
//   3. Cooling: expand wet-bulb entries paired with dry-bulb ones
//   4. Normalize by the rated values, if any
//   5. Cooling: split capacity into sensible and latent parts
//   6. Reorder levels canonically, sort rows, keep the output columns
// ============================================================================

// Fill completes the map for its mode. The receiver is unchanged.
func (m *Map) Fill(opts ...FillOption) (*Map, error) {
	var fc fillConfig
	for _, opt := range opts {
		opt(&fc)
	}
	if m.mode == ModeUnset {
		return nil, ErrModeNotSet
	}
	if len(fc.rated) > 0 && m.normalized {
		return nil, ErrAlreadyNormalized
	}
	log := m.cfg.logger.With(zap.Stringer("mode", m.mode))

	cur, err := m.AddMissingColumn()
	if err != nil {
		return nil, fmt.Errorf("fill: %w", err)
	}

	var warnings []Warning
	var skipped []string
	for _, level := range m.mode.requiredLevels() {
		if cur.table.HasLevel(level) {
			continue
		}
		g, err := cur.Correction(level)
		if err != nil {
			skipped = append(skipped, level)
			continue
		}
		entries, ok := cur.entries[level]
		if !ok || len(entries) == 0 {
			return nil, fmt.Errorf("fill: %w: %s", ErrNoEntries, level)
		}
		if cur, err = cur.Extend(g, entries, level); err != nil {
			return nil, fmt.Errorf("fill: %w", err)
		}
	}
	if len(skipped) > 0 {
		warnings = append(warnings, Warning{
			Code: WarnLevelsNotExtended,
			Message: fmt.Sprintf("no correction for %s; the map was not extended along %s",
				strings.Join(skipped, ", "), pluralize(len(skipped), "this level", "these levels")),
			Levels: skipped,
		})
	}

	if m.mode == Cooling {
		var w *Warning
		if cur, w, err = cur.expandHumidity(); err != nil {
			return nil, fmt.Errorf("fill: %w", err)
		}
		if w != nil {
			warnings = append(warnings, *w)
		}
	}

	if len(fc.rated) > 0 {
		if cur, err = cur.Normalize(fc.rated); err != nil {
			return nil, fmt.Errorf("fill: %w", err)
		}
	}

	if m.mode == Cooling {
		var invalid int
		if cur, invalid, err = cur.splitCapacity(); err != nil {
			return nil, fmt.Errorf("fill: %w", err)
		}
		if invalid > 0 {
			warnings = append(warnings, Warning{
				Code:    WarnInvalidRows,
				Message: fmt.Sprintf("%d rows have a dry-bulb below the wet-bulb temperature and were set to %v", invalid, Sentinel),
				Levels:  []string{LevelTdbr, LevelTwbr},
			})
		}
	}

	t, err := canonicalize(cur.table, m.mode.requiredLevels())
	if err != nil {
		return nil, fmt.Errorf("fill: %w", err)
	}
	if t, err = t.SelectColumns(m.mode.outputColumns()); err != nil {
		return nil, fmt.Errorf("fill: %w", err)
	}
	out, err := cur.derive(t, false)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		out.warn(w)
	}
	log.Info("map filled",
		zap.Stringer("stage", out.stage),
		zap.Bool("normalized", out.normalized),
		zap.Strings("levels", t.Levels()),
		zap.Int("rows", t.Len()))
	return out, nil
}

// canonicalize moves the levels named in order to the front, in that order,
// keeps the other levels after them, and sorts the rows.
func canonicalize(t *table.Table, order []string) (*table.Table, error) {
	levels := make([]string, 0, t.NumLevels())
	for _, l := range order {
		if t.HasLevel(l) {
			levels = append(levels, l)
		}
	}
	for _, l := range t.Levels() {
		if !slices.Contains(levels, l) {
			levels = append(levels, l)
		}
	}
	r, err := t.ReorderLevels(levels)
	if err != nil {
		return nil, err
	}
	return r.SortIndex(), nil
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
