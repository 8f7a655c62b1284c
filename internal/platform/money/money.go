// Package money is the single conversion point between decimal major-unit
// prices (books, order totals) and integer minor units (cart amounts).
package money

import "math"

// MinorPerMajor is the number of minor units in one major unit.
const MinorPerMajor = 100

// ToMinor converts a major-unit amount to minor units, rounding half away
// from zero.
func ToMinor(major float64) int64 {
	return int64(math.Round(major * MinorPerMajor))
}

// ToMajor converts minor units to a major-unit amount.
func ToMajor(minor int64) float64 {
	return float64(minor) / MinorPerMajor
}

// Round2 rounds a major-unit amount to whole minor units.
func Round2(v float64) float64 {
	return ToMajor(ToMinor(v))
}
