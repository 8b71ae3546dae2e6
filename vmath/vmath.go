// Package vmath provides the float64 plane geometry used by the ray caster.
//
// Angles are radians. Yaw 0 faces north (-Y in world space, up on screen)
// and grows clockwise, so yaw π/2 faces east (+X).
package vmath

import "math"

const (
	TwoPi  = 2 * math.Pi
	HalfPi = math.Pi / 2

	// Epsilon is the tolerance for boundary comparisons in world units
	Epsilon = 1e-9
)

// Radians converts degrees to radians
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }

// NormalizeAngle maps any angle into [0, 2π)
func NormalizeAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// Mod of a tiny negative value can round up to exactly 2π
	if a >= TwoPi {
		a = 0
	}
	return a
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt limits v to [lo, hi]
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates between a and b by t
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
