// Package report composes the fixed-width text reports written next to a
// sweep's data files, and the timestamped file names they are saved under.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/isinglab/internal/metrics"
	"github.com/san-kum/isinglab/internal/sim"
)

// Overridable clock and id source, so tests can pin file names.
var (
	now   = time.Now
	newID = func() string { return uuid.NewString()[:8] }
)

// Header returns the column header of the records table.
func Header() string {
	return fmt.Sprintf("%5s%15s%15s%20s%15s%15s",
		"T", "fluctuations", "magnetization", "mag. susceptibility",
		"sum energy sq", "sum energy")
}

// FormatRecord renders one record as a fixed-width table row. Column
// widths match the header.
func FormatRecord(r metrics.Record) string {
	return fmt.Sprintf("%5.2f%15.0f%15.2f%20.2f%15.0f%15.0f",
		r.Temperature, r.Fluctuations, r.Magnetization, r.Susceptibility,
		r.SumEnergySq, r.SumEnergy)
}

// RecordsTable renders header plus one row per record.
func RecordsTable(records []metrics.Record) string {
	var b strings.Builder
	b.WriteString(Header())
	b.WriteByte('\n')
	for _, r := range records {
		b.WriteString(FormatRecord(r))
		b.WriteByte('\n')
	}
	return b.String()
}

// AnomaliesTable renders the anomaly rows with their raw sums.
func AnomaliesTable(anomalies []metrics.Anomaly) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%15s%20s%15s\n", "temperature", "sum_energy_sq", "sum_energy")
	for _, a := range anomalies {
		fmt.Fprintf(&b, "%15.2f%20.0f%15.2f\n", a.Temperature, a.SumEnergySq, a.SumEnergy)
	}
	return b.String()
}

// FormatElapsed renders a duration as 02h 02m 02s.
func FormatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02dh %02dm %02ds", h, m, s)
}

// ParamsBlock renders the sweep parameters as one "name: value" line each,
// in a stable order.
func ParamsBlock(cfg sim.Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "size: %d\n", cfg.Size)
	fmt.Fprintf(&b, "coupling: %v\n", cfg.Coupling)
	fmt.Fprintf(&b, "boltzmann: %v\n", cfg.Boltzmann)
	fmt.Fprintf(&b, "field: %v\n", cfg.Field)
	fmt.Fprintf(&b, "seed: %d\n", cfg.Seed)
	fmt.Fprintf(&b, "t_min: %v\n", cfg.TMin)
	fmt.Fprintf(&b, "t_max: %v\n", cfg.TMax)
	fmt.Fprintf(&b, "t_step: %v\n", cfg.TStep)
	fmt.Fprintf(&b, "equilibration_steps: %d\n", cfg.EquilibrationSteps)
	fmt.Fprintf(&b, "measurement_steps: %d\n", cfg.MeasurementSteps)
	fmt.Fprintf(&b, "flips_per_step: %d\n", cfg.FlipsPerStep)
	fmt.Fprintf(&b, "max_flip_attempts: %d\n", cfg.MaxFlipAttempts)
	fmt.Fprintf(&b, "pre_run_discard_flips: %d\n", cfg.PreRunDiscardFlips)
	fmt.Fprintf(&b, "abs_magnetization: %v\n", cfg.AbsMagnetization)
	fmt.Fprintf(&b, "reset_per_temperature: %v\n", cfg.ResetPerTemperature)
	return b.String()
}

// Render composes the full results report: the records table, the elapsed
// time and flip counters, then the parameter echo.
func Render(cfg sim.Config, result *sim.Result) string {
	var b strings.Builder
	b.WriteString(RecordsTable(result.Records))
	b.WriteByte('\n')
	fmt.Fprintf(&b, "time: %s\n", FormatElapsed(result.Elapsed))
	fmt.Fprintf(&b, "accepted flips: %d\n", result.Flips)
	fmt.Fprintf(&b, "exhausted attempts: %d\n", result.Exhausted)
	b.WriteString(ParamsBlock(cfg))
	return b.String()
}

// RenderAnomalies composes the errors report for the anomalous records.
func RenderAnomalies(result *sim.Result) string {
	return AnomaliesTable(result.Anomalies)
}

// FileName builds "<prefix>-<dd.mm.yyyy-hh.mm>-<id>.<ext>" with a random
// id so reports generated in the same minute do not collide.
func FileName(prefix, ext string) string {
	return fmt.Sprintf("%s-%s-%s.%s", prefix, now().Format("02.01.2006-15.04"), newID(), ext)
}
