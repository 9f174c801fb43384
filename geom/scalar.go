package geom

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Lerp interpolates between a (t=0) and b (t=1). It does not clamp t.
func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// Clamp limits v to the closed range [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1]. NaN maps to 0.
func Clamp01[T constraints.Float](v T) T {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Abs returns the absolute value of v.
func Abs[T constraints.Float | constraints.Signed](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// LerpAngle interpolates between two angles in radians along the shortest arc.
func LerpAngle(a, b, t float32) float32 {
	diff := math.Remainder(float64(b-a), 2*math.Pi)
	return a + float32(diff)*t
}
