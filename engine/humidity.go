package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// ============================================================================
// HUMIDITY — wet-bulb expansion and sensible/latent split (cooling)
// ============================================================================

// pairedWetBulb reports whether every dry-bulb entry of the table carries a
// single wet-bulb entry, as in a rating table giving Twbr alongside Tdbr.
func (m *Map) pairedWetBulb() bool {
	t := m.table
	if !t.HasLevel(LevelTdbr) || !t.HasLevel(LevelTwbr) {
		return false
	}
	paired := make(map[float64]float64)
	for i := 0; i < t.Len(); i++ {
		db, wb := t.Index(i, LevelTdbr), t.Index(i, LevelTwbr)
		if prev, ok := paired[db]; ok && prev != wb {
			return false
		}
		paired[db] = wb
	}
	return true
}

// expandHumidity crosses paired wet-bulb entries with every dry-bulb entry:
// the Twbr level is dropped and the map re-extended over its distinct
// values with the Twbr correction. Other tables are returned unchanged.
func (m *Map) expandHumidity() (*Map, *Warning, error) {
	if !m.pairedWetBulb() {
		return m, nil, nil
	}
	g, err := m.Correction(LevelTwbr)
	if err != nil {
		return m, &Warning{
			Code:    WarnHumidityNotExpanded,
			Message: "no Twbr correction; wet-bulb entries were left paired with dry-bulb ones",
			Levels:  []string{LevelTwbr},
		}, nil
	}
	wb, err := m.table.Unique(LevelTwbr)
	if err != nil {
		return nil, nil, err
	}
	dropped, err := m.table.DropLevel(LevelTwbr)
	if err != nil {
		return nil, nil, err
	}
	base, err := m.derive(dropped, false)
	if err != nil {
		return nil, nil, err
	}
	out, err := base.Extend(g, wb, LevelTwbr, KeepRanges())
	if err != nil {
		return nil, nil, err
	}
	if iv, ok := m.ranges[LevelTwbr]; ok {
		out.ranges[LevelTwbr] = iv
	}
	out.restrictions[LevelTwbr] = m.restrictions[LevelTwbr]
	m.cfg.logger.Debug("wet-bulb entries expanded", zap.Float64s("Twbr", wb))
	return out, nil, nil
}

// splitCapacity adds sensible and latent capacity columns:
//
//	sensible = capacity × SHR(Tdbr − Twbr)
//	latent   = capacity − sensible
//
// Rows with Tdbr < Twbr are physically impossible; all their values are set
// to Sentinel. The number of such rows is returned.
func (m *Map) splitCapacity() (*Map, int, error) {
	if m.corrections == nil || m.corrections.SHR() == nil {
		return nil, 0, ErrMissingSHR
	}
	shr := m.corrections.SHR()
	t := m.table.Clone()
	for _, level := range []string{LevelTdbr, LevelTwbr} {
		if !t.HasLevel(level) {
			return nil, 0, fmt.Errorf("%w: capacity split needs %s", ErrMissingLevel, level)
		}
	}
	capacity, err := t.Column(ColCapacity)
	if err != nil {
		return nil, 0, err
	}

	sensible := make([]float64, t.Len())
	latent := make([]float64, t.Len())
	var invalid []int
	for i := range capacity {
		db, wb := t.Index(i, LevelTdbr), t.Index(i, LevelTwbr)
		if db < wb {
			invalid = append(invalid, i)
			continue
		}
		sensible[i] = capacity[i] * shr(db-wb)
		latent[i] = capacity[i] - sensible[i]
	}
	if err := t.SetColumn(ColSensibleCapacity, sensible); err != nil {
		return nil, 0, err
	}
	if err := t.SetColumn(ColLatentCapacity, latent); err != nil {
		return nil, 0, err
	}
	t.FillRows(invalid, Sentinel)

	out, err := m.derive(t, false)
	if err != nil {
		return nil, 0, err
	}
	out.stage = StageSplit
	return out, len(invalid), nil
}
