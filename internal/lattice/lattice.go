// Package lattice implements the square spin grid for the 2-D Ising model.
//
// Spins take only the values +1 and -1 and live on a torus: indices wrap
// modulo the side length in both directions, so every cell has exactly four
// nearest neighbors.
package lattice

import (
	"errors"
	"math/rand/v2"
)

var (
	// ErrBadSize indicates a side length below the 2x2 minimum.
	ErrBadSize = errors.New("lattice: size must be at least 2")

	// ErrNotSquare indicates a spin slice whose length is not size*size.
	ErrNotSquare = errors.New("lattice: spin data does not form a square grid")

	// ErrSpinValue indicates a spin outside {+1, -1}.
	ErrSpinValue = errors.New("lattice: spin values must be +1 or -1")
)

// Lattice is a size x size grid of +-1 spins with periodic boundaries,
// stored row-major.
type Lattice struct {
	size  int
	spins []int8
}

// New generates a lattice with every spin independently +1 or -1 with equal
// probability, drawn from rng.
func New(size int, rng *rand.Rand) (*Lattice, error) {
	if size < 2 {
		return nil, ErrBadSize
	}
	l := &Lattice{size: size, spins: make([]int8, size*size)}
	l.Randomize(rng)
	return l, nil
}

// Randomize redraws every spin independently as +1 or -1 with equal
// probability.
func (l *Lattice) Randomize(rng *rand.Rand) {
	for i := range l.spins {
		l.spins[i] = int8(2*rng.IntN(2) - 1)
	}
}

// FromSpins builds a lattice from explicit spin values, validating that the
// data is square and that every value is +1 or -1.
func FromSpins(size int, spins []int8) (*Lattice, error) {
	if size < 2 {
		return nil, ErrBadSize
	}
	if len(spins) != size*size {
		return nil, ErrNotSquare
	}
	for _, s := range spins {
		if s != 1 && s != -1 {
			return nil, ErrSpinValue
		}
	}
	grid := make([]int8, len(spins))
	copy(grid, spins)
	return &Lattice{size: size, spins: grid}, nil
}

// Size returns the side length.
func (l *Lattice) Size() int { return l.size }

// Spin returns the value at row i, column j. Indices must be in range.
func (l *Lattice) Spin(i, j int) int8 {
	return l.spins[i*l.size+j]
}

// Flip negates the spin at row i, column j.
func (l *Lattice) Flip(i, j int) {
	l.spins[i*l.size+j] = -l.spins[i*l.size+j]
}

// wrap maps an index onto the torus.
func (l *Lattice) wrap(x int) int {
	return ((x % l.size) + l.size) % l.size
}

// NeighborSum returns the sum of the four toroidal nearest neighbors of
// (i, j): up, down, left, right.
func (l *Lattice) NeighborSum(i, j int) int {
	n := l.size
	sum := int(l.spins[l.wrap(i-1)*n+j]) +
		int(l.spins[l.wrap(i+1)*n+j]) +
		int(l.spins[i*n+l.wrap(j-1)]) +
		int(l.spins[i*n+l.wrap(j+1)])
	return sum
}

// DeltaEnergy returns the total-energy change that flipping the spin at
// (i, j) would cause:
//
//	dE = E_after - E_before
//	   = (-J * (-s) * sum(neighbors)) - (-J * s * sum(neighbors))
//	   = 2 * J * s * sum(neighbors)
func (l *Lattice) DeltaEnergy(i, j int, jConst float64) float64 {
	return 2 * jConst * float64(l.Spin(i, j)) * float64(l.NeighborSum(i, j))
}

// Energy computes the Ising Hamiltonian E = -J * sum over unique neighbor
// pairs of s_i*s_k. Each adjacent pair is counted exactly once by pairing
// every cell with its right and down neighbor only.
func (l *Lattice) Energy(jConst float64) float64 {
	n := l.size
	pairs := 0
	for i := 0; i < n; i++ {
		down := l.wrap(i + 1)
		for j := 0; j < n; j++ {
			s := int(l.spins[i*n+j])
			pairs += s * int(l.spins[down*n+j])
			pairs += s * int(l.spins[i*n+l.wrap(j+1)])
		}
	}
	return -jConst * float64(pairs)
}

// Magnetization returns the mean spin value, signed. Callers wanting the
// non-negative order parameter take the absolute value themselves.
func (l *Lattice) Magnetization() float64 {
	sum := 0
	for _, s := range l.spins {
		sum += int(s)
	}
	return float64(sum) / float64(len(l.spins))
}

// Spins returns a copy of the grid in row-major order, for rendering and
// export. Mutating the copy does not affect the lattice.
func (l *Lattice) Spins() []int8 {
	out := make([]int8, len(l.spins))
	copy(out, l.spins)
	return out
}
