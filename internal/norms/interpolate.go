package norms

import "math"

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ValueAt returns the expected reference value at the given age via
// piecewise linear interpolation. Ages outside the tabulated range
// clamp to the nearest edge value; the curve is never extended.
func (c Curve) ValueAt(age float64) float64 {
	if age <= c[0].Age {
		return c[0].Value
	}
	last := c[len(c)-1]
	if age >= last.Age {
		return last.Value
	}
	for i := 1; i < len(c); i++ {
		if age <= c[i].Age {
			a, b := c[i-1], c[i]
			if b.Age == a.Age {
				return a.Value
			}
			t := (age - a.Age) / (b.Age - a.Age)
			return a.Value + t*(b.Value-a.Value)
		}
	}
	return last.Value
}

// AgeFor inverts the curve: it returns the age at which the given raw
// value would be the expected reference value. When more than one
// curve segment brackets the value (duplicate reference values at
// different ages), the segment whose midpoint age is nearest nearAge
// wins; this keeps the lookup deterministic on non-monotone curves.
// Values beyond the tabulated extremes clamp to the age of the nearest
// tabulated value.
func (c Curve) AgeFor(value, nearAge float64) float64 {
	bestAge := math.NaN()
	bestDist := math.Inf(1)

	for i := 1; i < len(c); i++ {
		a, b := c[i-1], c[i]
		lo, hi := math.Min(a.Value, b.Value), math.Max(a.Value, b.Value)
		if value < lo || value > hi {
			continue
		}
		var candidate float64
		if a.Value == b.Value {
			// Flat segment: the whole span matches; take the endpoint
			// nearest the client's chronological age.
			candidate = a.Age
			if math.Abs(b.Age-nearAge) < math.Abs(a.Age-nearAge) {
				candidate = b.Age
			}
		} else {
			t := (value - a.Value) / (b.Value - a.Value)
			candidate = a.Age + t*(b.Age-a.Age)
		}
		mid := (a.Age + b.Age) / 2
		if dist := math.Abs(mid - nearAge); dist < bestDist {
			bestDist = dist
			bestAge = candidate
		}
	}

	if !math.IsNaN(bestAge) {
		return bestAge
	}

	// No bracketing segment: the value is off the tabulated curve.
	// Clamp to the endpoint whose value is nearest.
	first, last := c[0], c[len(c)-1]
	if math.Abs(value-first.Value) <= math.Abs(value-last.Value) {
		return first.Age
	}
	return last.Age
}
