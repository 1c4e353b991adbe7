package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/isinglab/internal/metrics"
)

func TestCriticalTemperature(t *testing.T) {
	if math.Abs(CriticalTemperature-2.2691853) > 1e-6 {
		t.Errorf("expected Onsager value 2.2691853, got %v", CriticalTemperature)
	}
}

func TestPeakTemperatureEmpty(t *testing.T) {
	if _, err := PeakTemperature(nil, Susceptibility); !errors.Is(err, ErrNoRecords) {
		t.Errorf("expected ErrNoRecords, got %v", err)
	}
}

func TestPeakTemperatureCoarse(t *testing.T) {
	records := []metrics.Record{
		{Temperature: 1.0, Susceptibility: 0.2},
		{Temperature: 2.0, Susceptibility: 0.8},
		{Temperature: 3.0, Susceptibility: 0.3},
	}
	got, err := PeakTemperature(records, Susceptibility)
	if err != nil {
		t.Fatalf("PeakTemperature failed: %v", err)
	}
	if got != 2.0 {
		t.Errorf("expected peak at 2.0, got %v", got)
	}
}

func TestPeakTemperatureRefinesBetweenSamples(t *testing.T) {
	// Gaussian observable peaked at the critical point, sampled on a
	// grid that straddles it.
	tc := CriticalTemperature
	var records []metrics.Record
	for temp := 2.0; temp < 2.65; temp += 0.1 {
		v := math.Exp(-(temp - tc) * (temp - tc) / (2 * 0.04))
		records = append(records, metrics.Record{Temperature: temp, Susceptibility: v})
	}

	got, err := PeakTemperature(records, Susceptibility)
	if err != nil {
		t.Fatalf("PeakTemperature failed: %v", err)
	}
	if math.Abs(got-tc) > 0.05 {
		t.Errorf("expected refined peak near %v, got %v", tc, got)
	}
}

func TestSummarize(t *testing.T) {
	records := []metrics.Record{
		{Temperature: 1.0, Magnetization: 1, Fluctuations: 5, Susceptibility: 0.1},
		{Temperature: 2.0, Magnetization: 0, Fluctuations: 9, Susceptibility: 0.4},
		{Temperature: 3.0, Magnetization: -1, Fluctuations: -3, Susceptibility: 0.9},
	}

	s, err := Summarize(records)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if s.Temperatures != 3 {
		t.Errorf("expected 3 temperatures, got %d", s.Temperatures)
	}
	if math.Abs(s.MeanMagnetization) > 1e-12 {
		t.Errorf("expected zero mean magnetization, got %v", s.MeanMagnetization)
	}
	if want := math.Sqrt(2.0 / 3.0); math.Abs(s.StdDevMagnetization-want) > 1e-9 {
		t.Errorf("expected magnetization stddev %v, got %v", want, s.StdDevMagnetization)
	}
	if s.PeakFluctuationsT != 2.0 {
		t.Errorf("expected fluctuations peak at 2.0, got %v", s.PeakFluctuationsT)
	}
	if s.PeakSusceptibilityT != 3.0 {
		t.Errorf("expected susceptibility peak at 3.0, got %v", s.PeakSusceptibilityT)
	}
	if s.Anomalies != 1 {
		t.Errorf("expected 1 anomaly, got %d", s.Anomalies)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if _, err := Summarize(nil); !errors.Is(err, ErrNoRecords) {
		t.Errorf("expected ErrNoRecords, got %v", err)
	}
}
