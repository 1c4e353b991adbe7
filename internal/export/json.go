// Package export renders sweep results into interchange formats.
package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/isinglab/internal/metrics"
	"github.com/san-kum/isinglab/internal/sim"
)

// Data is the self-contained view of a sweep: the full parameter set that
// produced it plus every record, so a result file can be interpreted
// without its config.
type Data struct {
	Size                int     `json:"size"`
	Coupling            float64 `json:"coupling"`
	Boltzmann           float64 `json:"boltzmann"`
	Field               float64 `json:"field"`
	Seed                int64   `json:"seed"`
	TMin                float64 `json:"t_min"`
	TMax                float64 `json:"t_max"`
	TStep               float64 `json:"t_step"`
	EquilibrationSteps  int     `json:"equilibration_steps"`
	MeasurementSteps    int     `json:"measurement_steps"`
	FlipsPerStep        int     `json:"flips_per_step"`
	MaxFlipAttempts     int     `json:"max_flip_attempts"`
	PreRunDiscardFlips  int     `json:"pre_run_discard_flips"`
	AbsMagnetization    bool    `json:"abs_magnetization"`
	ResetPerTemperature bool    `json:"reset_per_temperature"`

	UpdateSteps    int64   `json:"update_steps"`
	AcceptedFlips  int64   `json:"accepted_flips"`
	ExhaustedSteps int64   `json:"exhausted_attempts"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`

	Records   []metrics.Record  `json:"records"`
	Anomalies []metrics.Anomaly `json:"anomalies"`
}

func newData(cfg sim.Config, result *sim.Result) Data {
	return Data{
		Size:                cfg.Size,
		Coupling:            cfg.Coupling,
		Boltzmann:           cfg.Boltzmann,
		Field:               cfg.Field,
		Seed:                cfg.Seed,
		TMin:                cfg.TMin,
		TMax:                cfg.TMax,
		TStep:               cfg.TStep,
		EquilibrationSteps:  cfg.EquilibrationSteps,
		MeasurementSteps:    cfg.MeasurementSteps,
		FlipsPerStep:        cfg.FlipsPerStep,
		MaxFlipAttempts:     cfg.MaxFlipAttempts,
		PreRunDiscardFlips:  cfg.PreRunDiscardFlips,
		AbsMagnetization:    cfg.AbsMagnetization,
		ResetPerTemperature: cfg.ResetPerTemperature,
		UpdateSteps:         result.Steps,
		AcceptedFlips:       result.Flips,
		ExhaustedSteps:      result.Exhausted,
		ElapsedSeconds:      result.Elapsed.Seconds(),
		Records:             result.Records,
		Anomalies:           result.Anomalies,
	}
}

// JSON writes the sweep as indented JSON to path.
func JSON(path string, cfg sim.Config, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, cfg, result)
}

// JSONTo writes the sweep as indented JSON to w.
func JSONTo(w io.Writer, cfg sim.Config, result *sim.Result) error {
	return writeJSON(w, cfg, result)
}

func writeJSON(w io.Writer, cfg sim.Config, result *sim.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newData(cfg, result))
}
