// Package metropolis implements single-spin-flip Metropolis dynamics on an
// Ising lattice.
package metropolis

import (
	"math"
	"math/rand/v2"

	"github.com/san-kum/isinglab/internal/lattice"
)

// Source supplies the randomness a flip attempt consumes: uniform cell
// coordinates via IntN and uniform [0,1) acceptance draws via Float64.
// *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// NewSource returns a PCG-backed source seeded for reproducible runs.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// FlipProbability returns the Metropolis acceptance probability for an
// energy change dE at temperature t: 1 for dE < 0, exp(-dE/(k*t)) otherwise.
func FlipProbability(dE, t, k float64) float64 {
	if dE < 0 {
		return 1
	}
	return math.Exp(-dE / (k * t))
}

// Attempter performs Metropolis flip attempts with fixed model constants.
type Attempter struct {
	// Coupling is the interaction constant J.
	Coupling float64
	// Boltzmann is the constant k in the acceptance exponent.
	Boltzmann float64
	// Field is an external field h adding -h*s per spin to the energy.
	// Zero leaves the pure Ising model.
	Field float64
	// MaxAttempts bounds the trials per AttemptFlip call.
	MaxAttempts int
}

// NewAttempter returns an attempter for the zero-field model.
func NewAttempter(coupling, boltzmann float64, maxAttempts int) *Attempter {
	return &Attempter{Coupling: coupling, Boltzmann: boltzmann, MaxAttempts: maxAttempts}
}

// AttemptFlip tries up to MaxAttempts times to flip one spin of lat at
// temperature t. Each trial picks a uniform random cell, computes the energy
// change a flip would cause, and accepts it with the Metropolis probability.
// An energy-lowering flip is accepted outright and consumes no acceptance
// draw. The first accepted flip is applied and ends the call; at most one
// spin changes. Reports whether a flip happened.
func (a *Attempter) AttemptFlip(lat *lattice.Lattice, t float64, src Source) bool {
	n := lat.Size()
	for attempt := 0; attempt < a.MaxAttempts; attempt++ {
		i, j := src.IntN(n), src.IntN(n)
		dE := lat.DeltaEnergy(i, j, a.Coupling)
		if a.Field != 0 {
			dE += 2 * a.Field * float64(lat.Spin(i, j))
		}
		if dE < 0 || src.Float64() < FlipProbability(dE, t, a.Boltzmann) {
			lat.Flip(i, j)
			return true
		}
	}
	return false
}
