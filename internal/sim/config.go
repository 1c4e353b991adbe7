package sim

import "fmt"

// Config holds every parameter of a temperature sweep. The zero value is
// not runnable; construct one from the config package defaults or fill all
// fields and call Validate.
type Config struct {
	// Size is the lattice side length.
	Size int

	// Coupling is the interaction constant J. Negative values give the
	// antiferromagnetic model.
	Coupling float64

	// Boltzmann is the constant k in the acceptance exponent and the
	// fluctuation denominators.
	Boltzmann float64

	// Field is an optional external field h. Zero keeps the pure model.
	Field float64

	// TMin, TMax and TStep define the inclusive temperature sequence
	// TMin, TMin+TStep, ... up to TMax.
	TMin  float64
	TMax  float64
	TStep float64

	// EquilibrationSteps is the number of update steps discarded at each
	// temperature before sampling begins.
	EquilibrationSteps int

	// MeasurementSteps is the number of update steps sampled at each
	// temperature, one observation after each.
	MeasurementSteps int

	// FlipsPerStep is the number of flip attempts making up one update
	// step. Zero is allowed and samples a static lattice.
	FlipsPerStep int

	// MaxFlipAttempts bounds the trials inside a single flip attempt
	// before it gives up without flipping.
	MaxFlipAttempts int

	// PreRunDiscardFlips is a number of flip attempts executed once at
	// the first temperature before the sweep, on top of the
	// per-temperature equilibration.
	PreRunDiscardFlips int

	// Seed initializes the random source. Equal configs with equal seeds
	// reproduce runs exactly.
	Seed int64

	// ResetPerTemperature rebuilds a fresh random lattice at each
	// temperature instead of carrying the configuration through the
	// sweep.
	ResetPerTemperature bool

	// AbsMagnetization records |M| instead of the signed value, which
	// keeps the two ordered phases from canceling in long averages.
	AbsMagnetization bool
}

// Validate checks every parameter and reports the first violation. A sweep
// must not start from an invalid config.
func (c Config) Validate() error {
	if c.Size < 2 {
		return fmt.Errorf("%w: got %d, need at least 2", ErrLatticeSize, c.Size)
	}
	if c.Boltzmann <= 0 {
		return fmt.Errorf("%w: boltzmann constant %v must be positive", ErrConstant, c.Boltzmann)
	}
	if c.TMin <= 0 {
		return fmt.Errorf("%w: minimum temperature %v must be positive", ErrTemperature, c.TMin)
	}
	if c.TMax < c.TMin {
		return fmt.Errorf("%w: maximum %v below minimum %v", ErrTemperature, c.TMax, c.TMin)
	}
	if c.TStep <= 0 {
		return fmt.Errorf("%w: step %v must be positive", ErrTemperature, c.TStep)
	}
	if c.EquilibrationSteps < 1 {
		return fmt.Errorf("%w: equilibration steps %d must be at least 1", ErrStepCount, c.EquilibrationSteps)
	}
	if c.MeasurementSteps < 1 {
		return fmt.Errorf("%w: measurement steps %d must be at least 1", ErrStepCount, c.MeasurementSteps)
	}
	if c.FlipsPerStep < 0 {
		return fmt.Errorf("%w: flips per step %d must not be negative", ErrStepCount, c.FlipsPerStep)
	}
	if c.MaxFlipAttempts < 1 {
		return fmt.Errorf("%w: max flip attempts %d must be at least 1", ErrStepCount, c.MaxFlipAttempts)
	}
	if c.PreRunDiscardFlips < 0 {
		return fmt.Errorf("%w: pre-run discard flips %d must not be negative", ErrStepCount, c.PreRunDiscardFlips)
	}
	return nil
}
