// Package defaults provides the default correction library used when a
// performance map gets its operating mode and has no corrections yet.
//
// Curves are expressed on normalized inputs (frequency and air flow rate
// divided by their rated values) and equal 1 at the rated condition. Wet-bulb
// corrections are flat: humidity only moves capacity between its sensible
// and latent parts, through the sensible heat ratio curve.
package defaults

import (
	"errors"
	"fmt"

	"github.com/spektr-org/permap/correction"
)

var ErrUnknownMode = errors.New("defaults: mode must be 'heating' or 'cooling'")

// Build returns a fresh correction set for "heating" or "cooling". Groups
// hold two corrections each; the third is derived when the set is attached.
func Build(mode string) (*correction.Set, error) {
	switch mode {
	case "heating":
		return heating(), nil
	case "cooling":
		return cooling(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// Correction returns a single default correction. output is ignored for the
// "SHR" input.
func Correction(mode, input, output string) (correction.Func, error) {
	set, err := Build(mode)
	if err != nil {
		return nil, err
	}
	if input == "SHR" {
		return set.SHR(), nil
	}
	g, ok := set.Group(input)
	if !ok {
		return nil, fmt.Errorf("%w: %q", correction.ErrUnknownInput, input)
	}
	q, err := correction.ParseQuantity(output)
	if err != nil {
		return nil, err
	}
	if g, err = correction.Complete(g); err != nil {
		return nil, err
	}
	f, _ := g.Get(q)
	return f, nil
}

func heating() *correction.Set {
	s := correction.NewSet()
	s.SetGroup("freq", correction.NewGroup(map[correction.Quantity]correction.Func{
		correction.Power: correction.Polynomial(0, 0.12, 0.43, 0.45),
		correction.COP:   correction.Rational(1.2, 0.6),
	}))
	s.SetGroup("AFR", airFlow())
	return s
}

func cooling() *correction.Set {
	s := correction.NewSet()
	s.SetGroup("freq", correction.NewGroup(map[correction.Quantity]correction.Func{
		correction.Power: correction.Polynomial(0, 0.1, 0.35, 0.55),
		correction.COP:   correction.Rational(1.8, 0.5),
	}))
	s.SetGroup("AFR", airFlow())
	s.SetGroup("Twbr", correction.NewGroup(map[correction.Quantity]correction.Func{
		correction.Capacity: correction.Constant(1),
		correction.Power:    correction.Constant(1),
	}))
	// sensible heat ratio against wet-bulb depression Tdbr - Twbr
	s.SetSHR(correction.Logistic(6, 0.45))
	return s
}

// airFlow: fan power is neglected, capacity saturates with air flow.
func airFlow() correction.Group {
	return correction.NewGroup(map[correction.Quantity]correction.Func{
		correction.Capacity: correction.Saturating(4),
		correction.Power:    correction.Constant(1),
	})
}
