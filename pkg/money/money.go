// Package money holds the rounding and clamping helpers shared by the
// commission, points and settlement engines. All amounts are EGP.
package money

import "math"

// Round2 rounds to two decimal places, half away from zero. Applied at the
// point of storage only; intermediate computation stays unrounded.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// NonNegative floors a monetary amount at zero.
func NonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// ClampInt bounds v into [min, max].
func ClampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// MinInt returns the smaller of a and b.
func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
