package core

import "math"

// Interval is a scalar range used to bound ray parameters and clamp values
type Interval struct {
	Min, Max float64
}

var (
	// EmptyInterval contains no values
	EmptyInterval = Interval{Min: math.Inf(1), Max: math.Inf(-1)}
	// UniverseInterval contains every value
	UniverseInterval = Interval{Min: math.Inf(-1), Max: math.Inf(1)}
)

// NewInterval creates a new interval
func NewInterval(min, max float64) Interval {
	return Interval{Min: min, Max: max}
}

// Size returns the length of the interval
func (i Interval) Size() float64 {
	return i.Max - i.Min
}

// IsEmpty reports whether the interval contains no values
func (i Interval) IsEmpty() bool {
	return !(i.Min <= i.Max)
}

// Contains tests min <= x <= max
func (i Interval) Contains(x float64) bool {
	return i.Min <= x && x <= i.Max
}

// Surrounds tests min < x <= max. This is the acceptance test for
// intersection roots: the lower bound is open so a ray never reports
// its own origin.
func (i Interval) Surrounds(x float64) bool {
	return i.Min < x && x <= i.Max
}

// Clamp limits x to [min, max]
func (i Interval) Clamp(x float64) float64 {
	return max(i.Min, min(i.Max, x))
}
