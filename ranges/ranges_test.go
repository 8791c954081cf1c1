package ranges

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBounds is a two-level table stand-in.
type fakeBounds map[string][2]float64

func (f fakeBounds) Levels() []string {
	return []string{"temperature", "flowrate"}
}

func (f fakeBounds) Bounds(level string) (float64, float64, error) {
	b, ok := f[level]
	if !ok {
		return 0, 0, fmt.Errorf("no level %q", level)
	}
	return b[0], b[1], nil
}

func sample() fakeBounds {
	return fakeBounds{"temperature": {22, 45}, "flowrate": {342, 927}}
}

func TestFromTable(t *testing.T) {
	r, err := FromTable(sample())
	require.NoError(t, err)
	assert.Equal(t, Registry{
		"temperature": {Left: 22, Right: 45},
		"flowrate":    {Left: 342, Right: 927},
	}, r)
	assert.Equal(t, []string{"flowrate", "temperature"}, r.Keys())
}

func TestRegistrySet(t *testing.T) {
	r, err := FromTable(sample())
	require.NoError(t, err)
	rng := r["temperature"]

	wider, err := r.Set(sample(), "temperature", Interval{Left: rng.Left - rng.Length()/2, Right: rng.Right})
	require.NoError(t, err)
	assert.Equal(t, Interval{Left: 10.5, Right: 45}, wider["temperature"])
	assert.Equal(t, rng, r["temperature"], "Set returns a copy")

	_, err = r.Set(sample(), "temperature", Interval{Left: rng.Left + rng.Length()/2, Right: rng.Right})
	assert.ErrorIs(t, err, ErrNarrowRange)

	_, err = r.Set(sample(), "temperature", Interval{Left: 50, Right: 10})
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = r.Set(sample(), "temperature", Interval{Left: math.NaN(), Right: 50})
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = r.Set(sample(), "pressure", Interval{Left: 0, Right: 1})
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestIntervalHelpers(t *testing.T) {
	iv := Interval{Left: 1e-5, Right: 1}
	assert.InDelta(t, 1-1e-5, iv.Length(), 1e-15)
	assert.True(t, iv.Contains(1))
	assert.False(t, iv.Contains(0))
}

func TestParseSide(t *testing.T) {
	for in, want := range map[string]Side{"left": SideLeft, "RIGHT": SideRight, "both": SideBoth, "": SideBoth} {
		got, err := ParseSide(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSide("top")
	assert.ErrorIs(t, err, ErrInvalidSide)
}

func TestRestrictionsRatchet(t *testing.T) {
	r := NewRestrictions([]string{"AFR", "freq"})

	left, err := r.Restrict("AFR", SideLeft)
	require.NoError(t, err)
	assert.Equal(t, SideLeft, left["AFR"])
	assert.Equal(t, SideNone, r["AFR"], "Restrict returns a copy")

	_, err = left.Restrict("AFR", SideLeft)
	assert.ErrorIs(t, err, ErrAlreadyRestricted)
	_, err = left.Restrict("AFR", SideBoth)
	assert.ErrorIs(t, err, ErrAlreadyRestricted)

	both, err := left.Restrict("AFR", SideRight)
	require.NoError(t, err)
	assert.Equal(t, SideBoth, both["AFR"])

	_, err = both.Restrict("AFR", SideRight)
	assert.ErrorIs(t, err, ErrAlreadyRestricted)
	assert.Contains(t, err.Error(), "both sides")

	_, err = r.Restrict("freq", SideNone)
	assert.ErrorIs(t, err, ErrInvalidSide)
}

func TestRestrictionsCarry(t *testing.T) {
	r := Restrictions{"AFR": SideLeft, "Tdbo": SideBoth}
	carried := r.Carry([]string{"AFR", "freq"})
	assert.Equal(t, Restrictions{"AFR": SideLeft, "freq": SideNone}, carried)
}
