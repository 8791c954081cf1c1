package engine

import (
	"fmt"
	"strings"
)

// ============================================================================
// PERMAP ENGINE TYPES — Heat pump performance maps
// ============================================================================
// A performance map is a table of capacity/power/COP values indexed by the
// operating conditions of a heat pump. The engine extends a partial map
// (typically measured at a few conditions) along the missing dimensions
// using correction curves, normalizes it by rated values, and, in cooling,
// splits capacity into sensible and latent parts.
// ============================================================================

// ============================================================================
// NAMES — index levels and output columns
// ============================================================================

// Index levels known to the engine.
const (
	LevelTdbr = "Tdbr" // indoor dry-bulb temperature
	LevelTwbr = "Twbr" // indoor wet-bulb temperature
	LevelTdbo = "Tdbo" // outdoor dry-bulb temperature
	LevelAFR  = "AFR"  // normalized air flow rate
	LevelFreq = "freq" // normalized compressor frequency
)

// Output columns.
const (
	ColCapacity         = "capacity"
	ColPower            = "power"
	ColCOP              = "COP"
	ColSensibleCapacity = "sensible_capacity"
	ColLatentCapacity   = "latent_capacity"
)

// Sentinel marks physically invalid rows (dry-bulb below wet-bulb).
const Sentinel = -999.0

// ============================================================================
// MODE
// ============================================================================

// Mode is the operating mode of the heat pump.
type Mode int

const (
	ModeUnset Mode = iota
	Heating
	Cooling
)

func (m Mode) String() string {
	switch m {
	case Heating:
		return "heating"
	case Cooling:
		return "cooling"
	}
	return ""
}

// ParseMode recognises the mode from free text. The match is a
// case-insensitive substring test and "cool" wins over "heat".
func ParseMode(s string) (Mode, error) {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "cool"):
		return Cooling, nil
	case strings.Contains(lower, "heat"):
		return Heating, nil
	}
	return ModeUnset, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// requiredLevels lists, in canonical order, the levels a complete map has.
func (m Mode) requiredLevels() []string {
	if m == Cooling {
		return []string{LevelTdbr, LevelTwbr, LevelTdbo, LevelAFR, LevelFreq}
	}
	return []string{LevelTdbr, LevelTdbo, LevelAFR, LevelFreq}
}

// outputColumns lists the columns of a filled map.
func (m Mode) outputColumns() []string {
	if m == Cooling {
		return []string{ColPower, ColSensibleCapacity, ColLatentCapacity}
	}
	return []string{ColPower, ColCapacity}
}

// ============================================================================
// STAGE — how far along the pipeline a map is
// ============================================================================

// Stage records the last pipeline step applied to a map.
type Stage int

const (
	StageUninitialized Stage = iota
	StageModeSet
	StageExtended
	StageNormalized
	StageSplit
)

func (s Stage) String() string {
	switch s {
	case StageModeSet:
		return "mode-set"
	case StageExtended:
		return "extended"
	case StageNormalized:
		return "normalized"
	case StageSplit:
		return "split"
	}
	return "uninitialized"
}

// ============================================================================
// WARNINGS — non-fatal conditions reported by an operation
// ============================================================================

// Warning codes.
const (
	WarnCorrectionsKept     = "corrections-kept"
	WarnLevelsNotExtended   = "levels-not-extended"
	WarnHumidityNotExpanded = "humidity-not-expanded"
	WarnInvalidRows         = "invalid-rows"
)

// Warning is a non-fatal condition met while producing a map.
type Warning struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Levels  []string `json:"levels,omitempty"`
}

func (w Warning) String() string { return w.Code + ": " + w.Message }

// Rated holds the rated values used for normalization, keyed by column.
type Rated map[string]float64

// MajorOrder selects the index ordering of the Type 3254 body.
type MajorOrder int

const (
	RowMajor MajorOrder = iota // outermost level varies slowest
	ColMajor                   // innermost level varies slowest
)

func (o MajorOrder) String() string {
	if o == ColMajor {
		return "col"
	}
	return "row"
}

// ParseMajorOrder parses "row" or "col".
func ParseMajorOrder(s string) (MajorOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "row", "":
		return RowMajor, nil
	case "col":
		return ColMajor, nil
	}
	return RowMajor, fmt.Errorf("%w: %q", ErrInvalidOrder, s)
}
