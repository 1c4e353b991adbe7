// Package metrics accumulates per-temperature observables of an Ising run
// and derives the reported statistics from them.
package metrics

// Accumulator keeps the running sums of energy, magnetization and their
// squares over the measurement samples at one temperature. The derived
// quantities are computed only at Finalize, so sampling stays a handful of
// additions per step.
type Accumulator struct {
	samples     int
	sumEnergy   float64
	sumEnergySq float64
	sumMag      float64
	sumMagSq    float64
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// RecordSample adds one (energy, magnetization) observation.
func (a *Accumulator) RecordSample(energy, magnetization float64) {
	a.sumEnergy += energy
	a.sumEnergySq += energy * energy
	a.sumMag += magnetization
	a.sumMagSq += magnetization * magnetization
	a.samples++
}

// Count returns the number of recorded samples.
func (a *Accumulator) Count() int { return a.samples }

// MeanEnergy returns the running average energy, or 0 before any sample.
func (a *Accumulator) MeanEnergy() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sumEnergy / float64(a.samples)
}

// MeanMagnetization returns the running average magnetization, or 0 before
// any sample.
func (a *Accumulator) MeanMagnetization() float64 {
	if a.samples == 0 {
		return 0
	}
	return a.sumMag / float64(a.samples)
}

// Reset clears all sums so the accumulator can serve the next temperature.
func (a *Accumulator) Reset() {
	a.samples = 0
	a.sumEnergy = 0
	a.sumEnergySq = 0
	a.sumMag = 0
	a.sumMagSq = 0
}

// Finalize derives the statistics record for temperature t with Boltzmann
// constant k:
//
//	fluctuations   = (<E^2> - <E>^2) / (k*t)
//	susceptibility = (<M^2> - <M>^2) / (k*t)
//
// The raw energy sums are carried into the record for reporting and anomaly
// analysis. Finalize consumes the sums: the accumulator resets itself so it
// is ready for the next temperature, and a second call without new samples
// yields a record holding only the temperature, not a repeat of the last one.
func (a *Accumulator) Finalize(t, k float64) Record {
	r := Record{Temperature: t, Samples: a.samples}
	if a.samples == 0 {
		return r
	}
	n := float64(a.samples)
	avgE := a.sumEnergy / n
	avgESq := a.sumEnergySq / n
	avgM := a.sumMag / n
	avgMSq := a.sumMagSq / n

	r.Fluctuations = (avgESq - avgE*avgE) / (k * t)
	r.Magnetization = avgM
	r.Susceptibility = (avgMSq - avgM*avgM) / (k * t)
	r.SumEnergy = a.sumEnergy
	r.SumEnergySq = a.sumEnergySq
	a.Reset()
	return r
}
