package correction

import "math"

// ============================================================================
// CURVES — building blocks for correction functions
// ============================================================================
// Used by the default library and by config overrides. Normalized curves
// return exactly 1 at x = 1, the rated condition of normalized inputs.
// ============================================================================

// Constant returns f(x) = v.
func Constant(v float64) Func {
	return func(float64) float64 { return v }
}

// Polynomial returns f(x) = c0 + c1·x + c2·x² + …, evaluated with Horner's
// scheme.
func Polynomial(coeffs ...float64) Func {
	c := append([]float64(nil), coeffs...)
	return func(x float64) float64 {
		y := 0.0
		for i := len(c) - 1; i >= 0; i-- {
			y = y*x + c[i]
		}
		return y
	}
}

// Rational returns f(x) = (p + x) / (q + x), scaled so that f(1) = 1.
// f(0) = p(1+q) / (q(1+p)) and f(∞) = (1+q) / (1+p).
func Rational(p, q float64) Func {
	scale := (1 + q) / (1 + p)
	return func(x float64) float64 {
		if math.IsInf(x, 1) {
			return scale
		}
		return scale * (p + x) / (q + x)
	}
}

// Logistic returns f(x) = 1 / (1 + exp(-steepness·(x - midpoint))).
func Logistic(midpoint, steepness float64) Func {
	return func(x float64) float64 {
		return 1 / (1 + math.Exp(-steepness*(x-midpoint)))
	}
}

// Saturating returns f(x) = (1 - exp(-rate·x)) / (1 - exp(-rate)), which is
// 0 at x = 0, 1 at x = 1 and levels off above.
func Saturating(rate float64) Func {
	norm := -math.Expm1(-rate)
	return func(x float64) float64 {
		return -math.Expm1(-rate*x) / norm
	}
}

// Product returns f(x)·g(x).
func Product(f, g Func) Func {
	return func(x float64) float64 { return f(x) * g(x) }
}

// Quotient returns f(x)/g(x).
func Quotient(f, g Func) Func {
	return func(x float64) float64 { return f(x) / g(x) }
}
