// Package client models per-client raw test records and reads them
// from assessment workbooks (one sheet per client).
package client

import (
	"errors"
	"fmt"

	"github.com/BenWilson850/00-850-Code-Rev1/internal/norms"
)

// ErrInvalidRecord wraps malformed client records. The affected sheet
// is skipped with a warning; the batch continues.
var ErrInvalidRecord = errors.New("invalid client record")

// Record is one client's raw test values. Missing tests are simply
// absent from Raw; zero is a legitimate measurement, not a sentinel.
type Record struct {
	Name   string
	Age    float64
	Gender norms.Gender
	Sheet  string
	Raw    map[string]float64
}

// NewRecord creates a record with no raw values.
func NewRecord(name string, age float64, gender norms.Gender) *Record {
	return &Record{
		Name:   name,
		Age:    age,
		Gender: gender,
		Raw:    make(map[string]float64),
	}
}

// Value returns a raw test value and whether it is present.
func (r *Record) Value(test string) (float64, bool) {
	v, ok := r.Raw[test]
	return v, ok
}

// SetValue records a raw test value.
func (r *Record) SetValue(test string, v float64) {
	if r.Raw == nil {
		r.Raw = make(map[string]float64)
	}
	r.Raw[test] = v
}

// Validate checks the fields the scoring core depends on.
func (r *Record) Validate() error {
	if r.Age <= 0 {
		return fmt.Errorf("%w: age must be positive, got %g", ErrInvalidRecord, r.Age)
	}
	if r.Gender != norms.GenderMale && r.Gender != norms.GenderFemale {
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidRecord, r.Gender)
	}
	return nil
}
