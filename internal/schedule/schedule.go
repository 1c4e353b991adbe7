// Package schedule generates inclusive arithmetic temperature sequences for
// parameter sweeps.
package schedule

import (
	"errors"
	"math"
)

var (
	// ErrStep indicates a non-positive step.
	ErrStep = errors.New("schedule: step must be positive")

	// ErrRange indicates max below min.
	ErrRange = errors.New("schedule: max must not be below min")
)

// Schedule is the arithmetic sequence min, min+step, min+2*step, ... up to
// and including max. An endpoint that the step reaches only up to floating
// point rounding still counts as included.
type Schedule struct {
	Min  float64
	Max  float64
	Step float64
}

// New validates the endpoints and step and returns the schedule.
func New(min, max, step float64) (Schedule, error) {
	if step <= 0 {
		return Schedule{}, ErrStep
	}
	if max < min {
		return Schedule{}, ErrRange
	}
	return Schedule{Min: min, Max: max, Step: step}, nil
}

// Len returns the number of temperatures in the sequence. The count is
// computed in closed form so long sweeps do not drift, with a small
// tolerance so that e.g. min=9, max=10, step=0.1 yields 11 points despite
// 0.1 being inexact in binary.
func (s Schedule) Len() int {
	return int(math.Floor((s.Max-s.Min)/s.Step+1e-9)) + 1
}

// At returns the i-th temperature as min + i*step. Indices outside
// [0, Len()) are the caller's error.
func (s Schedule) At(i int) float64 {
	return s.Min + s.Step*float64(i)
}

// Values materializes the whole sequence in ascending order.
func (s Schedule) Values() []float64 {
	out := make([]float64, s.Len())
	for i := range out {
		out[i] = s.At(i)
	}
	return out
}
