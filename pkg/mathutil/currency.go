// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/rakhadi/utangku/pkg/constants"
)

// RoundCurrency rounds a value to the nearest whole currency unit. Schedules
// and projections are denominated in rupiah, which has no fractional unit.
func RoundCurrency(val float64) float64 {
	return math.Round(val)
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.BalanceTolerance
}

// IsPositive checks if a value is positive (greater than tolerance)
func IsPositive(val float64) bool {
	return val > constants.BalanceTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Min returns the minimum of two float64 values
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the maximum of two float64 values
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// Finite reports whether a value is neither NaN nor infinite.
func Finite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}
