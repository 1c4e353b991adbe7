package analysis

import (
	"github.com/montanaflynn/stats"

	"github.com/san-kum/isinglab/internal/metrics"
)

// Summary aggregates a finished sweep's records.
type Summary struct {
	Temperatures        int
	MeanMagnetization   float64
	StdDevMagnetization float64
	PeakFluctuationsT   float64
	PeakSusceptibilityT float64
	Anomalies           int
}

// Summarize computes magnetization statistics and the peak locations of
// the two variance observables over the whole sweep.
func Summarize(records []metrics.Record) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, ErrNoRecords
	}

	mags := make([]float64, len(records))
	anomalies := 0
	for i, r := range records {
		mags[i] = r.Magnetization
		if r.Anomalous() {
			anomalies++
		}
	}
	meanMag, _ := stats.Mean(mags)
	stdMag, _ := stats.StandardDeviation(mags)
	peakF, _ := PeakTemperature(records, Fluctuations)
	peakS, _ := PeakTemperature(records, Susceptibility)

	return Summary{
		Temperatures:        len(records),
		MeanMagnetization:   meanMag,
		StdDevMagnetization: stdMag,
		PeakFluctuationsT:   peakF,
		PeakSusceptibilityT: peakS,
		Anomalies:           anomalies,
	}, nil
}
