package defaults

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectionsAtRatedCondition(t *testing.T) {
	cases := []struct {
		mode, input, output string
		x, want             float64
	}{
		{"cooling", "freq", "power", 0, 0},
		{"cooling", "freq", "power", 1, 1},
		{"cooling", "freq", "COP", 1, 1},
		{"cooling", "freq", "capacity", 1, 1},
		{"cooling", "AFR", "power", 0.5, 1},
		{"cooling", "AFR", "capacity", 1, 1},
		{"cooling", "Twbr", "power", 18, 1},
		{"heating", "freq", "power", 0, 0},
		{"heating", "freq", "power", 1, 1},
		{"heating", "freq", "COP", 1, 1},
		{"heating", "AFR", "power", 0.5, 1},
	}
	for _, tc := range cases {
		f, err := Correction(tc.mode, tc.input, tc.output)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, f(tc.x), 1e-12, "%s %s/%s at %v", tc.mode, tc.input, tc.output, tc.x)
	}
}

func TestSensibleHeatRatioShape(t *testing.T) {
	shr, err := Correction("cooling", "SHR", "")
	require.NoError(t, err)

	assert.Less(t, shr(0), shr(1))
	assert.Less(t, shr(1), shr(10))
	assert.Greater(t, shr(0), 0.0)
	assert.LessOrEqual(t, shr(math.Inf(1)), 1.0)
}

func TestAsymptoticBehavior(t *testing.T) {
	for _, c := range []struct{ mode, input, output string }{
		{"cooling", "freq", "COP"},
		{"cooling", "SHR", ""},
		{"heating", "freq", "COP"},
	} {
		f, err := Correction(c.mode, c.input, c.output)
		require.NoError(t, err)
		assert.False(t, math.IsInf(f(math.Inf(1)), 0), "%v", c)
		assert.False(t, math.IsNaN(f(math.Inf(1))), "%v", c)
	}
}

func TestBuildErrors(t *testing.T) {
	_, err := Build("drying")
	assert.ErrorIs(t, err, ErrUnknownMode)

	set, err := Build("heating")
	require.NoError(t, err)
	assert.False(t, set.Has("Twbr"))
	assert.Nil(t, set.SHR())
}
