package ranges

import (
	"errors"
	"fmt"
	"maps"
	"strings"
)

// ============================================================================
// RESTRICTIONS — which sides of which levels carry zero padding
// ============================================================================
// The state of a level only ratchets forward:
//
//	none → left | right → both
//
// Asking to pad a side that is already padded is an error.
// ============================================================================

var (
	ErrInvalidSide       = errors.New("ranges: side must be 'left', 'right' or 'both'")
	ErrAlreadyRestricted = errors.New("ranges: level already restricted")
)

// Side selects the boundary of a range.
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
	SideBoth
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	case SideBoth:
		return "both"
	}
	return "none"
}

// HasLeft reports whether s includes the left side.
func (s Side) HasLeft() bool { return s == SideLeft || s == SideBoth }

// HasRight reports whether s includes the right side.
func (s Side) HasRight() bool { return s == SideRight || s == SideBoth }

// ParseSide parses "left", "right" or "both", case-insensitively.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return SideLeft, nil
	case "right":
		return SideRight, nil
	case "both", "":
		return SideBoth, nil
	}
	return SideNone, fmt.Errorf("%w: %q", ErrInvalidSide, s)
}

// Restrictions records the padded sides of each level.
type Restrictions map[string]Side

// NewRestrictions returns an unrestricted state for the given levels.
func NewRestrictions(levels []string) Restrictions {
	r := make(Restrictions, len(levels))
	for _, l := range levels {
		r[l] = SideNone
	}
	return r
}

// Clone returns a copy of r.
func (r Restrictions) Clone() Restrictions { return maps.Clone(r) }

// Check fails when side overlaps a side of level that is already padded.
func (r Restrictions) Check(level string, side Side) error {
	if side != SideLeft && side != SideRight && side != SideBoth {
		return fmt.Errorf("%w: %v", ErrInvalidSide, side)
	}
	prev := r[level]
	if (prev.HasLeft() && side.HasLeft()) || (prev.HasRight() && side.HasRight()) {
		plural := ""
		if prev == SideBoth {
			plural = "s"
		}
		return fmt.Errorf("%w: the level %s was already restricted on %s side%s",
			ErrAlreadyRestricted, level, prev, plural)
	}
	return nil
}

// Restrict returns a copy of r with side added to level.
func (r Restrictions) Restrict(level string, side Side) (Restrictions, error) {
	if err := r.Check(level, side); err != nil {
		return nil, err
	}
	out := r.Clone()
	if out == nil {
		out = make(Restrictions)
	}
	if out[level] == SideNone {
		out[level] = side
	} else {
		out[level] = SideBoth
	}
	return out, nil
}

// Carry returns the restrictions of r for the levels still present.
func (r Restrictions) Carry(levels []string) Restrictions {
	out := NewRestrictions(levels)
	for _, l := range levels {
		if s, ok := r[l]; ok {
			out[l] = s
		}
	}
	return out
}
