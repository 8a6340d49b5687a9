// Package scoring is the computational core: it maps raw test values
// into functional ages, folds them through the pillar hierarchy, and
// derives the Biological Functional Age and Healthspan Index.
package scoring

// Measure is an optional numeric result. The zero value is invalid,
// which is how missing raw values propagate: never as NaN or zero.
type Measure struct {
	Value float64
	Valid bool
}

// NewMeasure wraps a computed value.
func NewMeasure(v float64) Measure {
	return Measure{Value: v, Valid: true}
}

// Incomplete is the missing-value sentinel.
var Incomplete = Measure{}
