package engine

import (
	"errors"

	"github.com/spektr-org/permap/correction"
	"github.com/spektr-org/permap/ranges"
)

var (
	ErrInvalidMode       = errors.New("engine: mode must contain 'heat' or 'cool'")
	ErrModeNotSet        = errors.New("engine: attribute 'mode' must be set")
	ErrAlreadyNormalized = errors.New("engine: performance map is already normalized")
	ErrColumnMismatch    = errors.New("engine: table columns must match correction keys")
	ErrRatedMismatch     = errors.New("engine: rated values must match table columns")
	ErrInvalidRated      = errors.New("engine: rated values must be finite and non-zero")
	ErrDuplicateLevel    = errors.New("engine: level already in table")
	ErrNoEntries         = errors.New("engine: no entries for level")
	ErrInvalidEntries    = errors.New("engine: entries must be finite and unique")
	ErrMissingSHR        = errors.New("engine: no sensible heat ratio correction")
	ErrMissingLevel      = errors.New("engine: required level missing")
	ErrInvalidShift      = errors.New("engine: shift must be finite and positive")
	ErrInvalidOrder      = errors.New("engine: major order must be 'row' or 'col'")
	ErrNilTable          = errors.New("engine: table is nil")

	ErrInvalidSide       = ranges.ErrInvalidSide
	ErrAlreadyRestricted = ranges.ErrAlreadyRestricted
	ErrNarrowRange       = ranges.ErrNarrowRange
	ErrUnknownInput      = correction.ErrUnknownInput
)
