// Package config defines the YAML configuration surface of isinglab and the
// named parameter presets.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/isinglab/internal/sim"
)

// Reference parameters of the original study: a 50x50 lattice swept from
// T=9 to T=10 in steps of 0.1, with 250 flip attempts per update, 300
// discarded updates and 1000 measured updates per temperature.
const (
	DefaultSize               = 50
	DefaultCoupling           = 1.0
	DefaultBoltzmann          = 1.0
	DefaultTMin               = 9.0
	DefaultTMax               = 10.0
	DefaultTStep              = 0.1
	DefaultEquilibrationSteps = 300
	DefaultMeasurementSteps   = 1000
	DefaultFlipsPerStep       = 250
	DefaultMaxFlipAttempts    = 30
	DefaultOutputDir          = "results"
)

type Config struct {
	Size                int     `yaml:"size"`
	Coupling            float64 `yaml:"coupling"`
	Boltzmann           float64 `yaml:"boltzmann"`
	Field               float64 `yaml:"field"`
	Seed                int64   `yaml:"seed"`
	AbsMagnetization    bool    `yaml:"abs_magnetization"`
	ResetPerTemperature bool    `yaml:"reset_per_temperature"`

	Temperature TemperatureConfig `yaml:"temperature"`
	Steps       StepsConfig       `yaml:"steps"`
	Output      OutputConfig      `yaml:"output"`
	Notify      NotifyConfig      `yaml:"notify"`
}

type TemperatureConfig struct {
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
	Step float64 `yaml:"step"`
}

type StepsConfig struct {
	Equilibration   int `yaml:"equilibration"`
	Measurement     int `yaml:"measurement"`
	FlipsPerStep    int `yaml:"flips_per_step"`
	MaxFlipAttempts int `yaml:"max_flip_attempts"`
	PreRunDiscard   int `yaml:"pre_run_discard"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// NotifyConfig selects completion email. Credentials come from the
// environment, not the config file.
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled"`
	To      string `yaml:"to"`
}

func DefaultConfig() *Config {
	return &Config{
		Size:      DefaultSize,
		Coupling:  DefaultCoupling,
		Boltzmann: DefaultBoltzmann,
		Temperature: TemperatureConfig{
			Min:  DefaultTMin,
			Max:  DefaultTMax,
			Step: DefaultTStep,
		},
		Steps: StepsConfig{
			Equilibration:   DefaultEquilibrationSteps,
			Measurement:     DefaultMeasurementSteps,
			FlipsPerStep:    DefaultFlipsPerStep,
			MaxFlipAttempts: DefaultMaxFlipAttempts,
		},
		Output: OutputConfig{Dir: DefaultOutputDir},
	}
}

// Load reads path and unmarshals it over the defaults, so partial files
// only override what they mention.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ToSim maps the file layout onto the engine parameter set.
func (c *Config) ToSim() sim.Config {
	return sim.Config{
		Size:                c.Size,
		Coupling:            c.Coupling,
		Boltzmann:           c.Boltzmann,
		Field:               c.Field,
		TMin:                c.Temperature.Min,
		TMax:                c.Temperature.Max,
		TStep:               c.Temperature.Step,
		EquilibrationSteps:  c.Steps.Equilibration,
		MeasurementSteps:    c.Steps.Measurement,
		FlipsPerStep:        c.Steps.FlipsPerStep,
		MaxFlipAttempts:     c.Steps.MaxFlipAttempts,
		PreRunDiscardFlips:  c.Steps.PreRunDiscard,
		Seed:                c.Seed,
		ResetPerTemperature: c.ResetPerTemperature,
		AbsMagnetization:    c.AbsMagnetization,
	}
}

// Validate applies the engine's parameter checks to the loaded file.
func (c *Config) Validate() error {
	return c.ToSim().Validate()
}
