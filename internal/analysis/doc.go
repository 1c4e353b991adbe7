// Package analysis extracts summary quantities from sweep records.
//
// The package includes tools for locating phase-transition signatures:
//
//   - [PeakTemperature]: temperature of an observable's maximum, spline-refined
//   - [Summarize]: aggregate statistics over a finished sweep
//   - [CriticalTemperature]: Onsager's exact critical point for reference
//
// # Locating the Transition
//
// The susceptibility peak marks the transition temperature:
//
//	tc, err := analysis.PeakTemperature(records, analysis.Susceptibility)
//	if err == nil && math.Abs(tc-analysis.CriticalTemperature) < 0.1 {
//	    // Sweep resolved the critical region
//	}
package analysis
