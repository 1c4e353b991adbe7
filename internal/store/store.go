// Package store persists sweep results as one directory per run, holding
// machine-readable metadata and records plus the formatted report files.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/isinglab/internal/metrics"
	"github.com/san-kum/isinglab/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Dir returns the directory of a stored run.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// RunMetadata describes one stored sweep.
type RunMetadata struct {
	ID                 string    `json:"id"`
	Timestamp          time.Time `json:"timestamp"`
	Size               int       `json:"size"`
	Coupling           float64   `json:"coupling"`
	Boltzmann          float64   `json:"boltzmann"`
	Field              float64   `json:"field,omitempty"`
	Seed               int64     `json:"seed"`
	TMin               float64   `json:"t_min"`
	TMax               float64   `json:"t_max"`
	TStep              float64   `json:"t_step"`
	EquilibrationSteps int       `json:"equilibration_steps"`
	MeasurementSteps   int       `json:"measurement_steps"`
	FlipsPerStep       int       `json:"flips_per_step"`
	MaxFlipAttempts    int       `json:"max_flip_attempts"`
	PreRunDiscardFlips int       `json:"pre_run_discard_flips,omitempty"`
	AbsMagnetization   bool      `json:"abs_magnetization,omitempty"`
	ResetPerTemp       bool      `json:"reset_per_temperature,omitempty"`
	Records            int       `json:"records"`
	Anomalies          int       `json:"anomalies"`
	Flips              int64     `json:"flips"`
	Exhausted          int64     `json:"exhausted"`
	ElapsedSeconds     float64   `json:"elapsed_seconds"`
}

// Save writes metadata.json and records.csv (plus anomalies.csv when the
// sweep produced anomalies) into a fresh run directory and returns the run
// id. The id combines a timestamp with a random suffix so runs started in
// the same second cannot collide.
func (s *Store) Save(cfg sim.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("sweep_%d_%s", time.Now().Unix(), uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:                 runID,
		Timestamp:          time.Now(),
		Size:               cfg.Size,
		Coupling:           cfg.Coupling,
		Boltzmann:          cfg.Boltzmann,
		Field:              cfg.Field,
		Seed:               cfg.Seed,
		TMin:               cfg.TMin,
		TMax:               cfg.TMax,
		TStep:              cfg.TStep,
		EquilibrationSteps: cfg.EquilibrationSteps,
		MeasurementSteps:   cfg.MeasurementSteps,
		FlipsPerStep:       cfg.FlipsPerStep,
		MaxFlipAttempts:    cfg.MaxFlipAttempts,
		PreRunDiscardFlips: cfg.PreRunDiscardFlips,
		AbsMagnetization:   cfg.AbsMagnetization,
		ResetPerTemp:       cfg.ResetPerTemperature,
		Records:            len(result.Records),
		Anomalies:          len(result.Anomalies),
		Flips:              result.Flips,
		Exhausted:          result.Exhausted,
		ElapsedSeconds:     result.Elapsed.Seconds(),
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeRecordsCSV(filepath.Join(runDir, "records.csv"), result.Records); err != nil {
		return "", err
	}
	if len(result.Anomalies) > 0 {
		if err := writeAnomaliesCSV(filepath.Join(runDir, "anomalies.csv"), result.Anomalies); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// WriteText places a formatted report file into an existing run directory.
func (s *Store) WriteText(runID, name, content string) error {
	return os.WriteFile(filepath.Join(s.baseDir, runID, name), []byte(content), 0644)
}

func writeRecordsCSV(path string, records []metrics.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{
		"temperature", "fluctuations", "magnetization",
		"susceptibility", "sum_energy", "sum_energy_sq", "samples",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			strconv.FormatFloat(r.Temperature, 'f', 6, 64),
			strconv.FormatFloat(r.Fluctuations, 'f', 6, 64),
			strconv.FormatFloat(r.Magnetization, 'f', 6, 64),
			strconv.FormatFloat(r.Susceptibility, 'f', 6, 64),
			strconv.FormatFloat(r.SumEnergy, 'f', 6, 64),
			strconv.FormatFloat(r.SumEnergySq, 'f', 6, 64),
			strconv.Itoa(r.Samples),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func writeAnomaliesCSV(path string, anomalies []metrics.Anomaly) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"temperature", "sum_energy_sq", "sum_energy"}); err != nil {
		return err
	}
	for _, a := range anomalies {
		row := []string{
			strconv.FormatFloat(a.Temperature, 'f', 6, 64),
			strconv.FormatFloat(a.SumEnergySq, 'f', 6, 64),
			strconv.FormatFloat(a.SumEnergy, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// List returns the metadata of all stored runs, oldest first. Directories
// without readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

// Load reads the metadata of one run.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRecords reads the per-temperature records of one run. Malformed rows
// are skipped rather than failing the whole file.
func (s *Store) LoadRecords(runID string) ([]metrics.Record, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "records.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return []metrics.Record{}, nil
	}

	records := make([]metrics.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 7 {
			continue
		}
		vals := make([]float64, 6)
		ok := true
		for i := 0; i < 6; i++ {
			v, err := strconv.ParseFloat(row[i], 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		samples, err := strconv.Atoi(row[6])
		if err != nil {
			continue
		}
		records = append(records, metrics.Record{
			Temperature:    vals[0],
			Fluctuations:   vals[1],
			Magnetization:  vals[2],
			Susceptibility: vals[3],
			SumEnergy:      vals[4],
			SumEnergySq:    vals[5],
			Samples:        samples,
		})
	}
	return records, nil
}
