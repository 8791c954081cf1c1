package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
logging:
  level: debug
jobs:
  - name: split-unit
    data: split.csv
    mode: Cooling
    output: split.dat
    major_order: col
    entries:
      freq: [0.3, 1]
    rated:
      capacity: 3.5
      power: 1.1
    ranges:
      Tdbo:
        left: -10
        right: 46
    restrict:
      - side: both
        omit: [freq]
    corrections:
      - input: AFR
        output: power
        curve: polynomial
        params: [0.5, 0.5]
      - input: SHR
        curve: constant
        params: [0.75]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "permap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	require.Len(t, cfg.Jobs, 1)
	j := cfg.Jobs[0]
	assert.Equal(t, "split-unit", j.Name)
	assert.Equal(t, "col", j.MajorOrder)
	assert.Equal(t, []float64{0.3, 1}, j.Entries["freq"])
	assert.Equal(t, Range{Left: -10, Right: 46}, j.Ranges["Tdbo"])
	assert.Equal(t, []string{"freq"}, j.Restrict[0].Omit)
	require.Len(t, j.Corrections, 2)

	f, err := j.Corrections[0].Func()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, f(1), 1e-12)

	got, ok := cfg.Job("split-unit")
	assert.True(t, ok)
	assert.Equal(t, j.Name, got.Name)
	_, ok = cfg.Job("missing")
	assert.False(t, ok)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv(EnvLogLevel, "WARN")
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "jobs: [oops"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing name", func(c *Config) { c.Jobs[0].Name = "" }},
		{"bad mode", func(c *Config) { c.Jobs[0].Mode = "ventilation" }},
		{"bad order", func(c *Config) { c.Jobs[0].MajorOrder = "diagonal" }},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }},
		{"duplicate job", func(c *Config) { c.Jobs = append(c.Jobs, c.Jobs[0]) }},
		{"empty range", func(c *Config) { c.Jobs[0].Ranges = map[string]Range{"Tdbo": {Left: 5, Right: 5}} }},
		{"zero rated", func(c *Config) { c.Jobs[0].Rated = map[string]float64{"power": 0} }},
		{"bad side", func(c *Config) { c.Jobs[0].Restrict = []Restriction{{Side: "up"}} }},
		{"negative shift", func(c *Config) {
			d := -1.0
			c.Jobs[0].Restrict = []Restriction{{LeftShift: &d}}
		}},
		{"missing output", func(c *Config) {
			c.Jobs[0].Corrections = []CorrectionOverride{{Input: "freq", Curve: "constant", Params: []float64{1}}}
		}},
		{"wrong arity", func(c *Config) {
			c.Jobs[0].Corrections = []CorrectionOverride{{Input: "freq", Output: "COP", Curve: "rational", Params: []float64{1}}}
		}},
		{"empty entries", func(c *Config) { c.Jobs[0].Entries = map[string][]float64{"freq": {}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "permap.yaml")
	cfg := DefaultConfig()
	require.NoError(t, cfg.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Jobs[0].Name, back.Jobs[0].Name)
	assert.Equal(t, cfg.Jobs[0].Output, back.Jobs[0].Output)
}

func TestCorrectionOverrideCurves(t *testing.T) {
	tests := []struct {
		curve  string
		params []float64
		at     float64
		want   float64
	}{
		{"constant", []float64{0.8}, 3, 0.8},
		{"polynomial", []float64{1, 2}, 2, 5},
		{"rational", []float64{1, 1}, 1, 1},
		{"logistic", []float64{0, 1}, 0, 0.5},
		{"saturating", []float64{3}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.curve, func(t *testing.T) {
			o := CorrectionOverride{Input: "freq", Output: "power", Curve: tt.curve, Params: tt.params}
			f, err := o.Func()
			require.NoError(t, err)
			assert.InDelta(t, tt.want, f(tt.at), 1e-12)
		})
	}

	_, err := CorrectionOverride{Input: "freq", Curve: "spline", Params: []float64{1}}.Func()
	assert.Error(t, err)
}
