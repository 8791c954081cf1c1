package helpers

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spektr-org/permap/config"
	"github.com/spektr-org/permap/correction"
	"github.com/spektr-org/permap/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func heatingJob(dir string) config.Job {
	return config.Job{
		Name:   "hp",
		Data:   filepath.Join(dir, "hp.csv"),
		Mode:   "heating",
		Output: filepath.Join(dir, "out", "hp.dat"),
		Ranges: map[string]config.Range{"Tdbo": {Left: -15, Right: 15}},
		Restrict: []config.Restriction{
			{Side: "both", Levels: []string{"Tdbo"}},
		},
	}
}

func TestBuildMap(t *testing.T) {
	m, warnings, err := BuildMap(heatingCSV, heatingJob(t.TempDir()))
	require.NoError(t, err)

	tbl := m.Table()
	assert.Equal(t, []string{"Tdbr", "Tdbo", "AFR", "freq"}, tbl.Levels())
	assert.Equal(t, []string{"power", "capacity"}, tbl.Columns())

	// Tdbo: two padding rows, two range bounds, two measured entries.
	tdbo, err := tbl.Unique("Tdbo")
	require.NoError(t, err)
	assert.Len(t, tdbo, 6)
	assert.Equal(t, 6*2*3, tbl.Len())
	assert.Equal(t, engine.StageExtended, m.Stage())
	assert.Empty(t, warnings)
}

func TestBuildMapOverrides(t *testing.T) {
	job := heatingJob(t.TempDir())
	job.Restrict = nil
	job.Entries = map[string][]float64{"freq": {0.4, 1}}
	job.Corrections = []config.CorrectionOverride{
		{Input: "freq", Output: "power", Curve: "polynomial", Params: []float64{0, 1}},
		{Input: "fan", Output: "capacity", Curve: "constant", Params: []float64{1}},
		{Input: "fan", Output: "power", Curve: "constant", Params: []float64{1}},
	}

	m, _, err := BuildMap(heatingCSV, job)
	require.NoError(t, err)

	freq, err := m.Table().Unique("freq")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.4, 1}, freq)

	f, err := m.CorrectionFor("freq", correction.Power)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, f(0.4), 1e-12)

	g, err := m.Correction("fan")
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
}

func TestBuildMapErrors(t *testing.T) {
	job := heatingJob(t.TempDir())
	job.Mode = "drying"
	_, _, err := BuildMap(heatingCSV, job)
	assert.ErrorIs(t, err, engine.ErrInvalidMode)

	job = heatingJob(t.TempDir())
	job.Corrections = []config.CorrectionOverride{
		{Input: "fan", Output: "power", Curve: "constant", Params: []float64{1}},
	}
	_, _, err = BuildMap(heatingCSV, job)
	assert.Error(t, err, "a new input needs two curves")

	job = heatingJob(t.TempDir())
	job.Ranges = map[string]config.Range{"Tdbo": {Left: 0, Right: 15}}
	_, _, err = BuildMap(heatingCSV, job)
	assert.Error(t, err, "range must cover the entries")
}

func TestRunJob(t *testing.T) {
	dir := t.TempDir()
	job := heatingJob(dir)
	require.NoError(t, os.WriteFile(job.Data, heatingCSV, 0644))

	res, err := RunJob(context.Background(), job, nil)
	require.NoError(t, err)
	assert.Equal(t, "hp", res.Job)
	assert.Equal(t, 36, res.Rows)

	out, err := os.ReadFile(job.Output)
	require.NoError(t, err)
	assert.Contains(t, string(out), "   1\t20.0\t20.0\n", "one Tdbr entry, range from the table")
	assert.True(t, strings.HasSuffix(string(out), "\n"))
	assert.Contains(t, string(out), "!# Performance map")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = RunJob(ctx, job, nil)
	assert.ErrorIs(t, err, context.Canceled)

	job.Data = filepath.Join(dir, "absent.csv")
	_, err = RunJob(context.Background(), job, nil)
	assert.Error(t, err)
}
