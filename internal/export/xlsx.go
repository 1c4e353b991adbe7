package export

import (
	"github.com/xuri/excelize/v2"

	"github.com/san-kum/isinglab/internal/sim"
)

// XLSX writes the sweep as a workbook with a Records sheet, a Parameters
// sheet and, when present, an Anomalies sheet.
func XLSX(path string, cfg sim.Config, result *sim.Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const records = "Records"
	f.SetSheetName("Sheet1", records)

	headers := []string{
		"Temperature", "Fluctuations", "Magnetization",
		"Susceptibility", "Sum Energy", "Sum Energy Sq", "Samples",
	}
	for i, h := range headers {
		if err := setCell(f, records, i+1, 1, h); err != nil {
			return err
		}
	}
	for ri, r := range result.Records {
		row := []interface{}{
			r.Temperature, r.Fluctuations, r.Magnetization,
			r.Susceptibility, r.SumEnergy, r.SumEnergySq, r.Samples,
		}
		for ci, v := range row {
			if err := setCell(f, records, ci+1, ri+2, v); err != nil {
				return err
			}
		}
	}

	const params = "Parameters"
	if _, err := f.NewSheet(params); err != nil {
		return err
	}
	entries := []struct {
		name  string
		value interface{}
	}{
		{"size", cfg.Size},
		{"coupling", cfg.Coupling},
		{"boltzmann", cfg.Boltzmann},
		{"field", cfg.Field},
		{"seed", cfg.Seed},
		{"t_min", cfg.TMin},
		{"t_max", cfg.TMax},
		{"t_step", cfg.TStep},
		{"equilibration_steps", cfg.EquilibrationSteps},
		{"measurement_steps", cfg.MeasurementSteps},
		{"flips_per_step", cfg.FlipsPerStep},
		{"max_flip_attempts", cfg.MaxFlipAttempts},
		{"pre_run_discard_flips", cfg.PreRunDiscardFlips},
		{"abs_magnetization", cfg.AbsMagnetization},
		{"reset_per_temperature", cfg.ResetPerTemperature},
		{"elapsed_seconds", result.Elapsed.Seconds()},
		{"accepted_flips", result.Flips},
		{"exhausted_attempts", result.Exhausted},
	}
	for i, e := range entries {
		if err := setCell(f, params, 1, i+1, e.name); err != nil {
			return err
		}
		if err := setCell(f, params, 2, i+1, e.value); err != nil {
			return err
		}
	}

	if len(result.Anomalies) > 0 {
		const anomalies = "Anomalies"
		if _, err := f.NewSheet(anomalies); err != nil {
			return err
		}
		for i, h := range []string{"Temperature", "Sum Energy Sq", "Sum Energy"} {
			if err := setCell(f, anomalies, i+1, 1, h); err != nil {
				return err
			}
		}
		for ri, a := range result.Anomalies {
			row := []interface{}{a.Temperature, a.SumEnergySq, a.SumEnergy}
			for ci, v := range row {
				if err := setCell(f, anomalies, ci+1, ri+2, v); err != nil {
					return err
				}
			}
		}
	}

	return f.SaveAs(path)
}

func setCell(f *excelize.File, sheet string, col, row int, v interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, v)
}
