package sim

import "errors"

// Domain errors for sweep configuration. Validate wraps these with the
// offending value, so callers can match the category with errors.Is.
var (
	// ErrLatticeSize indicates a side length too small for a torus.
	ErrLatticeSize = errors.New("sim: lattice size below minimum")

	// ErrConstant indicates a non-positive model constant.
	ErrConstant = errors.New("sim: model constant out of range")

	// ErrTemperature indicates an unusable temperature range.
	ErrTemperature = errors.New("sim: temperature range invalid")

	// ErrStepCount indicates an update or attempt budget out of range.
	ErrStepCount = errors.New("sim: step count out of range")
)
