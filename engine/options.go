package engine

import (
	"github.com/spektr-org/permap/correction"
	"github.com/spektr-org/permap/defaults"
	"go.uber.org/zap"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for New() and the pipeline steps
// ============================================================================

// DefaultsFunc supplies the corrections attached when a map gets its mode
// and has none yet.
type DefaultsFunc func(Mode) (*correction.Set, error)

// Option configures a Map via functional options pattern.
type Option func(*config)

type config struct {
	logger   *zap.Logger
	defaults DefaultsFunc
}

// WithLogger routes engine logs to l. Maps log nothing by default.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDefaults replaces the built-in correction library.
func WithDefaults(fn DefaultsFunc) Option {
	return func(c *config) {
		if fn != nil {
			c.defaults = fn
		}
	}
}

func builtinDefaults(m Mode) (*correction.Set, error) {
	return defaults.Build(m.String())
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		logger:   zap.NewNop(),
		defaults: builtinDefaults,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ============================================================================
// STEP OPTIONS
// ============================================================================

// ExtendOption configures Extend.
type ExtendOption func(*extendConfig)

type extendConfig struct {
	keepRanges bool
}

// KeepRanges keeps the registered ranges of existing levels instead of
// recomputing them from the extended table.
func KeepRanges() ExtendOption {
	return func(c *extendConfig) { c.keepRanges = true }
}

// FillOption configures Fill.
type FillOption func(*fillConfig)

type fillConfig struct {
	rated Rated
}

// WithRated normalizes the filled map by the given rated values.
func WithRated(r Rated) FillOption {
	return func(c *fillConfig) { c.rated = r }
}

// RestrictOption configures LimitOperatingRange.
type RestrictOption func(*restrictConfig)

type restrictConfig struct {
	left, right       float64
	hasLeft, hasRight bool
}

// LeftShift sets the distance between the lower range bound and the zero
// rows inserted below it.
func LeftShift(d float64) RestrictOption {
	return func(c *restrictConfig) { c.left, c.hasLeft = d, true }
}

// RightShift sets the distance between the upper range bound and the zero
// rows inserted above it.
func RightShift(d float64) RestrictOption {
	return func(c *restrictConfig) { c.right, c.hasRight = d, true }
}
