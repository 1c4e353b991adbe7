package metrics

import (
	"math"
	"testing"

	"github.com/montanaflynn/stats"
)

const tol = 1e-12

func TestFinalizeWorkedExample(t *testing.T) {
	// Samples 4 and -2 give <E>=1 and <E^2>=10, so at k=1, T=2 the
	// fluctuation value is (10-1)/2 = 4.5.
	a := NewAccumulator()
	a.RecordSample(4, 0.5)
	a.RecordSample(-2, -0.5)

	r := a.Finalize(2, 1)
	if math.Abs(r.Fluctuations-4.5) > tol {
		t.Errorf("fluctuations: got %v, want 4.5", r.Fluctuations)
	}
	if math.Abs(r.Magnetization-0) > tol {
		t.Errorf("magnetization: got %v, want 0", r.Magnetization)
	}
	// <M^2>=0.25, <M>=0: susceptibility = 0.25/2 = 0.125.
	if math.Abs(r.Susceptibility-0.125) > tol {
		t.Errorf("susceptibility: got %v, want 0.125", r.Susceptibility)
	}
	if math.Abs(r.SumEnergy-2) > tol || math.Abs(r.SumEnergySq-20) > tol {
		t.Errorf("raw sums: got (%v, %v), want (2, 20)", r.SumEnergy, r.SumEnergySq)
	}
	if r.Samples != 2 {
		t.Errorf("samples: got %d, want 2", r.Samples)
	}
	if r.Temperature != 2 {
		t.Errorf("temperature: got %v, want 2", r.Temperature)
	}
}

func TestFinalizeMatchesPopulationVariance(t *testing.T) {
	energies := []float64{-8, -4, -4, 0, 2, -6, -8, -2}
	mags := []float64{1, 0.75, 0.5, 0.25, 0, -0.25, 0.5, 1}

	a := NewAccumulator()
	for i := range energies {
		a.RecordSample(energies[i], mags[i])
	}
	const temp, k = 2.5, 1.0
	r := a.Finalize(temp, k)

	varE, err := stats.PopulationVariance(energies)
	if err != nil {
		t.Fatalf("PopulationVariance failed: %v", err)
	}
	varM, err := stats.PopulationVariance(mags)
	if err != nil {
		t.Fatalf("PopulationVariance failed: %v", err)
	}
	if math.Abs(r.Fluctuations-varE/(k*temp)) > 1e-9 {
		t.Errorf("fluctuations: got %v, want %v", r.Fluctuations, varE/(k*temp))
	}
	if math.Abs(r.Susceptibility-varM/(k*temp)) > 1e-9 {
		t.Errorf("susceptibility: got %v, want %v", r.Susceptibility, varM/(k*temp))
	}
}

func TestSingleSampleHasZeroVariance(t *testing.T) {
	a := NewAccumulator()
	a.RecordSample(-8, 1)
	r := a.Finalize(1, 1)
	if math.Abs(r.Fluctuations) > tol {
		t.Errorf("fluctuations: got %v, want 0", r.Fluctuations)
	}
	if math.Abs(r.Susceptibility) > tol {
		t.Errorf("susceptibility: got %v, want 0", r.Susceptibility)
	}
	if math.Abs(r.Magnetization-1) > tol {
		t.Errorf("magnetization: got %v, want 1", r.Magnetization)
	}
}

func TestBoltzmannConstantScalesDenominator(t *testing.T) {
	feed := func() *Accumulator {
		a := NewAccumulator()
		a.RecordSample(4, 0)
		a.RecordSample(-2, 0)
		return a
	}
	base := feed().Finalize(2, 1)
	scaled := feed().Finalize(2, 2)
	if math.Abs(scaled.Fluctuations-base.Fluctuations/2) > tol {
		t.Errorf("doubling k: got %v, want %v", scaled.Fluctuations, base.Fluctuations/2)
	}
}

func TestFinalizeConsumesSums(t *testing.T) {
	a := NewAccumulator()
	a.RecordSample(4, 0.5)
	a.RecordSample(-2, -0.5)

	first := a.Finalize(2, 1)
	if a.Count() != 0 {
		t.Errorf("count after finalize: got %d, want 0", a.Count())
	}
	second := a.Finalize(2, 1)
	if second == first {
		t.Error("second finalize repeated the consumed record")
	}
	if second.Samples != 0 || second.SumEnergy != 0 || second.Fluctuations != 0 {
		t.Errorf("second finalize not empty: %+v", second)
	}
	if second.Temperature != 2 {
		t.Errorf("temperature: got %v, want 2", second.Temperature)
	}
}

func TestRunningMeans(t *testing.T) {
	a := NewAccumulator()
	if a.MeanEnergy() != 0 || a.MeanMagnetization() != 0 {
		t.Error("expected zero means before any sample")
	}
	a.RecordSample(-8, 1)
	a.RecordSample(-4, 0.5)
	if got := a.MeanEnergy(); math.Abs(got-(-6)) > tol {
		t.Errorf("mean energy: got %v, want -6", got)
	}
	if got := a.MeanMagnetization(); math.Abs(got-0.75) > tol {
		t.Errorf("mean magnetization: got %v, want 0.75", got)
	}
}

func TestReset(t *testing.T) {
	a := NewAccumulator()
	a.RecordSample(4, 1)
	a.RecordSample(2, -1)
	if a.Count() != 2 {
		t.Fatalf("count before reset: got %d, want 2", a.Count())
	}
	a.Reset()
	if a.Count() != 0 {
		t.Errorf("count after reset: got %d, want 0", a.Count())
	}
	r := a.Finalize(2, 1)
	if r.Samples != 0 || r.SumEnergy != 0 || r.Fluctuations != 0 {
		t.Errorf("finalize after reset not empty: %+v", r)
	}
	if r.Temperature != 2 {
		t.Errorf("temperature after reset: got %v, want 2", r.Temperature)
	}
}

func TestAnomalyDetection(t *testing.T) {
	ok := Record{Temperature: 9.1, Fluctuations: 0.25}
	if ok.Anomalous() {
		t.Error("positive fluctuations flagged as anomalous")
	}
	zero := Record{Temperature: 9.1}
	if zero.Anomalous() {
		t.Error("zero fluctuations flagged as anomalous")
	}
	bad := Record{
		Temperature:  9.3,
		Fluctuations: -0.0001,
		SumEnergy:    -123456,
		SumEnergySq:  15241370000,
	}
	if !bad.Anomalous() {
		t.Error("negative fluctuations not flagged")
	}
	an := AnomalyFor(bad)
	if an.Temperature != 9.3 || an.SumEnergy != -123456 || an.SumEnergySq != 15241370000 {
		t.Errorf("anomaly fields: got %+v", an)
	}
}
