// Package config loads the YAML job file driving the permap CLI.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/permap/correction"
	"github.com/spektr-org/permap/engine"
)

// ============================================================================
// CONFIG — Jobs turning manufacturer data into Type 3254 maps
// ============================================================================
// One file lists any number of jobs. Each job names a CSV export, the
// operating mode and the output path, plus optional overrides applied to
// the map before it is filled.
// ============================================================================

// EnvLogLevel overrides logging.level when set.
const EnvLogLevel = "PERMAP_LOG_LEVEL"

var ErrInvalidConfig = errors.New("config: invalid configuration")

var validate = validator.New()

// Config is the root of a permap YAML file.
type Config struct {
	Logging Logging `yaml:"logging"`
	Jobs    []Job   `yaml:"jobs" validate:"dive"`
}

// Logging configures the zap logger of the CLI.
type Logging struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Job describes one performance map to build.
type Job struct {
	Name       string   `yaml:"name" validate:"required"`
	Data       string   `yaml:"data" validate:"required"`
	Levels     []string `yaml:"levels,omitempty"` // forced index columns of the CSV
	Mode       string   `yaml:"mode" validate:"required"`
	Output     string   `yaml:"output" validate:"required"`
	MajorOrder string   `yaml:"major_order,omitempty" validate:"omitempty,oneof=row col"`

	Entries           map[string][]float64 `yaml:"entries,omitempty" validate:"dive,min=1"`
	InitialNormValues map[string]float64   `yaml:"initial_norm_values,omitempty"`
	Rated             map[string]float64   `yaml:"rated,omitempty"`
	Ranges            map[string]Range     `yaml:"ranges,omitempty"`

	Restrict    []Restriction        `yaml:"restrict,omitempty" validate:"dive"`
	Corrections []CorrectionOverride `yaml:"corrections,omitempty" validate:"dive"`
}

// Range is an operating range.
type Range struct {
	Left  float64 `yaml:"left"`
	Right float64 `yaml:"right"`
}

// Restriction pads the map with zero rows outside the operating ranges of
// the listed levels (all levels when empty).
type Restriction struct {
	Side       string   `yaml:"side,omitempty" validate:"omitempty,oneof=left right both"`
	Levels     []string `yaml:"levels,omitempty"`
	Omit       []string `yaml:"omit,omitempty"`
	LeftShift  *float64 `yaml:"left_shift,omitempty" validate:"omitempty,gt=0"`
	RightShift *float64 `yaml:"right_shift,omitempty" validate:"omitempty,gt=0"`
}

// CorrectionOverride replaces one correction curve. Output is ignored when
// Input is "SHR".
type CorrectionOverride struct {
	Input  string    `yaml:"input" validate:"required"`
	Output string    `yaml:"output,omitempty" validate:"omitempty,oneof=capacity power COP"`
	Curve  string    `yaml:"curve" validate:"required,oneof=constant polynomial rational logistic saturating"`
	Params []float64 `yaml:"params" validate:"required,min=1"`
}

// DefaultConfig returns a config with one example heating job.
func DefaultConfig() Config {
	return Config{
		Logging: Logging{Level: "info"},
		Jobs: []Job{{
			Name:       "heat-pump",
			Data:       "data/heat_pump.csv",
			Mode:       "heating",
			Output:     "out/heat_pump.dat",
			MajorOrder: "row",
		}},
	}
}

// Load reads and validates a config file. PERMAP_LOG_LEVEL overrides the
// configured log level.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read the config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.Logging.Level = strings.ToLower(lvl)
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the struct tags, then the rules spanning fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	seen := make(map[string]bool, len(c.Jobs))
	for i, j := range c.Jobs {
		if seen[j.Name] {
			return fmt.Errorf("%w: duplicate job name %q", ErrInvalidConfig, j.Name)
		}
		seen[j.Name] = true
		if err := j.check(); err != nil {
			return fmt.Errorf("%w: job %d (%s): %v", ErrInvalidConfig, i, j.Name, err)
		}
	}
	return nil
}

// Job returns the named job.
func (c *Config) Job(name string) (Job, bool) {
	for _, j := range c.Jobs {
		if j.Name == name {
			return j, true
		}
	}
	return Job{}, false
}

func (j Job) check() error {
	if _, err := engine.ParseMode(j.Mode); err != nil {
		return err
	}
	for level, r := range j.Ranges {
		if !(r.Left < r.Right) {
			return fmt.Errorf("range of %s: left %v is not below right %v", level, r.Left, r.Right)
		}
	}
	for level, v := range j.Rated {
		if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("rated %s must be a non-zero number, got %v", level, v)
		}
	}
	for _, o := range j.Corrections {
		if o.Input != "SHR" && o.Output == "" {
			return fmt.Errorf("correction of %s: output is required", o.Input)
		}
		if _, err := o.Func(); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
// CORRECTION CURVES
// ============================================================================

// Func builds the curve named by the override.
func (o CorrectionOverride) Func() (correction.Func, error) {
	p := o.Params
	want := map[string]int{"constant": 1, "rational": 2, "logistic": 2, "saturating": 1}
	if n, ok := want[o.Curve]; ok && len(p) != n {
		return nil, fmt.Errorf("curve %s of %s takes %d parameters, got %d", o.Curve, o.Input, n, len(p))
	}
	switch o.Curve {
	case "constant":
		return correction.Constant(p[0]), nil
	case "polynomial":
		if len(p) == 0 {
			return nil, fmt.Errorf("curve polynomial of %s needs coefficients", o.Input)
		}
		return correction.Polynomial(p...), nil
	case "rational":
		return correction.Rational(p[0], p[1]), nil
	case "logistic":
		return correction.Logistic(p[0], p[1]), nil
	case "saturating":
		return correction.Saturating(p[0]), nil
	}
	return nil, fmt.Errorf("unknown curve %q", o.Curve)
}

// Quantity returns the output quantity of the override.
func (o CorrectionOverride) Quantity() (correction.Quantity, error) {
	return correction.ParseQuantity(o.Output)
}
