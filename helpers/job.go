package helpers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spektr-org/permap/config"
	"github.com/spektr-org/permap/correction"
	"github.com/spektr-org/permap/engine"
	"github.com/spektr-org/permap/ranges"
	"go.uber.org/zap"
)

// ============================================================================
// JOB HELPER — Runs one configured job end to end
// ============================================================================
// CSV → table → Map → overrides → mode → fill → ranges → restrictions →
// Type 3254 file. BuildMap stops before writing so callers can inspect the
// result.
// ============================================================================

// Result summarizes a finished job.
type Result struct {
	Job      string           `json:"job"`
	Output   string           `json:"output"`
	Rows     int              `json:"rows"`
	Levels   []string         `json:"levels"`
	Columns  []string         `json:"columns"`
	Warnings []engine.Warning `json:"warnings,omitempty"`
}

// RunJob reads the job's CSV file, builds the map and writes it.
func RunJob(ctx context.Context, job config.Job, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(job.Data)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", job.Data, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, warnings, err := BuildMap(data, job, engine.WithLogger(logger.With(zap.String("job", job.Name))))
	if err != nil {
		return nil, err
	}
	order, err := engine.ParseMajorOrder(job.MajorOrder)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(job.Output), 0755); err != nil {
		return nil, err
	}
	if err := engine.WriteType3254File(job.Output, m, order); err != nil {
		return nil, fmt.Errorf("write %s: %w", job.Output, err)
	}
	t := m.Table()
	return &Result{
		Job:      job.Name,
		Output:   job.Output,
		Rows:     t.Len(),
		Levels:   t.Levels(),
		Columns:  t.Columns(),
		Warnings: warnings,
	}, nil
}

// BuildMap turns CSV bytes into a filled and restricted map. The warnings
// of every step are collected in order.
func BuildMap(data []byte, job config.Job, opts ...engine.Option) (*engine.Map, []engine.Warning, error) {
	tbl, _, err := ParseCSVAuto(data, job.Levels...)
	if err != nil {
		return nil, nil, err
	}
	m, err := engine.New(tbl, opts...)
	if err != nil {
		return nil, nil, err
	}
	var warnings []engine.Warning
	step := func(next *engine.Map, err error) error {
		if err != nil {
			return err
		}
		m = next
		warnings = append(warnings, next.Warnings()...)
		return nil
	}

	if err := step(m.SetMode(job.Mode)); err != nil {
		return nil, nil, err
	}
	for level, entries := range job.Entries {
		if err := step(m.SetEntries(level, entries)); err != nil {
			return nil, nil, err
		}
	}
	for level, v := range job.InitialNormValues {
		if err := step(m.SetInitialNormValue(level, v)); err != nil {
			return nil, nil, err
		}
	}
	if m, err = applyCorrections(m, job.Corrections); err != nil {
		return nil, nil, err
	}

	var fillOpts []engine.FillOption
	if len(job.Rated) > 0 {
		fillOpts = append(fillOpts, engine.WithRated(engine.Rated(job.Rated)))
	}
	if err := step(m.Fill(fillOpts...)); err != nil {
		return nil, nil, err
	}

	if len(job.Ranges) > 0 {
		rs := make(ranges.Registry, len(job.Ranges))
		for level, r := range job.Ranges {
			rs[level] = ranges.Interval{Left: r.Left, Right: r.Right}
		}
		if err := step(m.SetRanges(rs)); err != nil {
			return nil, nil, err
		}
	}
	for _, r := range job.Restrict {
		side, err := ranges.ParseSide(r.Side)
		if err != nil {
			return nil, nil, err
		}
		var ro []engine.RestrictOption
		if r.LeftShift != nil {
			ro = append(ro, engine.LeftShift(*r.LeftShift))
		}
		if r.RightShift != nil {
			ro = append(ro, engine.RightShift(*r.RightShift))
		}
		if err := step(m.LimitOperatingRanges(side, r.Levels, r.Omit, ro...)); err != nil {
			return nil, nil, err
		}
	}
	return m, warnings, nil
}

// applyCorrections installs the overridden curves. Curves of an input the map
// already corrects replace one quantity at a time; a new input needs at least
// two curves.
func applyCorrections(m *engine.Map, overrides []config.CorrectionOverride) (*engine.Map, error) {
	var inputs []string
	fresh := make(map[string]map[correction.Quantity]correction.Func)
	for _, o := range overrides {
		f, err := o.Func()
		if err != nil {
			return nil, err
		}
		if o.Input == "SHR" {
			if m, err = m.SetSHR(f); err != nil {
				return nil, err
			}
			continue
		}
		q, err := o.Quantity()
		if err != nil {
			return nil, err
		}
		if _, err := m.Correction(o.Input); err == nil {
			if m, err = m.SetCorrection(o.Input, q, f); err != nil {
				return nil, err
			}
			continue
		}
		if fresh[o.Input] == nil {
			fresh[o.Input] = make(map[correction.Quantity]correction.Func)
			inputs = append(inputs, o.Input)
		}
		fresh[o.Input][q] = f
	}
	for _, input := range inputs {
		var err error
		if m, err = m.SetCorrections(input, fresh[input]); err != nil {
			return nil, err
		}
	}
	return m, nil
}
