package util

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Coerce returns a value that is at least min and at most max
func Coerce[T constraints.Integer | constraints.Float](value, min, max T) T {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}

// NormalizeAngle maps the given angle (in degrees) to the range [-180, 180)
func NormalizeAngle(degrees float64) float64 {
	result := math.Mod(degrees+180, 360)
	if result < 0 {
		result += 360
	}
	return result - 180
}
