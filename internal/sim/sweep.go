// Package sim runs Metropolis temperature sweeps over an Ising lattice and
// collects one statistics record per temperature.
package sim

import (
	"context"
	"time"

	"github.com/san-kum/isinglab/internal/metrics"
)

// Result is the outcome of a sweep.
type Result struct {
	// Records holds one entry per temperature in ascending order,
	// anomalous ones included.
	Records []metrics.Record

	// Anomalies lists the records whose fluctuation value came out
	// negative, reduced to the raw sums that produced them.
	Anomalies []metrics.Anomaly

	// FinalSpins is the lattice configuration when the sweep ended.
	FinalSpins []int8

	// Steps counts the update steps executed, Flips the accepted spin
	// flips and Exhausted the attempts that gave up without flipping.
	Steps     int64
	Flips     int64
	Exhausted int64

	Elapsed time.Duration
}

// Sweep is a configured simulation run.
type Sweep struct {
	cfg Config
}

// New validates cfg and returns a runnable sweep.
func New(cfg Config) (*Sweep, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Sweep{cfg: cfg}, nil
}

// Config returns the sweep parameters.
func (s *Sweep) Config() Config { return s.cfg }

// Run executes the full sweep. Cancellation is checked between steps; on
// cancellation the partial result gathered so far is returned together
// with the context error.
func (s *Sweep) Run(ctx context.Context) (*Result, error) {
	st, err := NewStepper(s.cfg)
	if err != nil {
		return nil, err
	}
	for {
		select {
		case <-ctx.Done():
			return st.Result(), ctx.Err()
		default:
		}
		if !st.Step() {
			break
		}
	}
	return st.Result(), nil
}
