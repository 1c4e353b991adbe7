package metrics

// Record holds the finalized observables for one temperature.
type Record struct {
	Temperature    float64 `json:"temperature"`
	Fluctuations   float64 `json:"fluctuations"`
	Magnetization  float64 `json:"magnetization"`
	Susceptibility float64 `json:"susceptibility"`
	SumEnergy      float64 `json:"sum_energy"`
	SumEnergySq    float64 `json:"sum_energy_sq"`
	Samples        int     `json:"samples"`
}

// Anomalous reports whether the record carries a negative fluctuation
// value. The variance identity makes that impossible analytically, so a
// negative value flags floating point cancellation in the sums and the
// record deserves scrutiny rather than silent use.
func (r Record) Anomalous() bool {
	return r.Fluctuations < 0
}

// Anomaly captures the raw sums behind an anomalous record so the
// cancellation can be inspected later.
type Anomaly struct {
	Temperature float64 `json:"temperature"`
	SumEnergySq float64 `json:"sum_energy_sq"`
	SumEnergy   float64 `json:"sum_energy"`
}

// AnomalyFor extracts the anomaly view of a record.
func AnomalyFor(r Record) Anomaly {
	return Anomaly{
		Temperature: r.Temperature,
		SumEnergySq: r.SumEnergySq,
		SumEnergy:   r.SumEnergy,
	}
}
