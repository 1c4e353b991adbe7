package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Size != 50 {
		t.Errorf("expected size 50, got %d", cfg.Size)
	}
	if cfg.Temperature.Min != 9.0 || cfg.Temperature.Max != 10.0 {
		t.Errorf("expected temperature range 9..10, got %v..%v",
			cfg.Temperature.Min, cfg.Temperature.Max)
	}
	if cfg.Steps.Equilibration != 300 || cfg.Steps.Measurement != 1000 {
		t.Errorf("expected 300 discarded and 1000 measured updates, got %d/%d",
			cfg.Steps.Equilibration, cfg.Steps.Measurement)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestAllPresetsValid(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("listed preset %q not found", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("quick")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Size != 16 {
		t.Errorf("expected size 16, got %d", cfg.Size)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	a := GetPreset("quick")
	a.Size = 99
	b := GetPreset("quick")
	if b.Size == 99 {
		t.Error("preset override leaked into the shared table")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) < 3 {
		t.Fatalf("expected at least 3 presets, got %d", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("preset names not sorted: %q before %q", names[i-1], names[i])
		}
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	body := []byte("size: 24\ntemperature:\n  min: 2.0\n  max: 3.0\n  step: 0.5\n")
	if err := os.WriteFile(path, body, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Size != 24 {
		t.Errorf("expected size 24, got %d", cfg.Size)
	}
	if cfg.Temperature.Step != 0.5 {
		t.Errorf("expected step 0.5, got %v", cfg.Temperature.Step)
	}
	// Fields absent from the file keep their defaults.
	if cfg.Steps.FlipsPerStep != DefaultFlipsPerStep {
		t.Errorf("expected default flips per step, got %d", cfg.Steps.FlipsPerStep)
	}
	if cfg.Boltzmann != DefaultBoltzmann {
		t.Errorf("expected default boltzmann, got %v", cfg.Boltzmann)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	orig := GetPreset("critical")
	orig.Seed = 1234
	orig.Notify.Enabled = true
	orig.Notify.To = "lab@example.org"
	if err := Save(path, orig); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *orig {
		t.Errorf("round trip changed config:\nsaved  %+v\nloaded %+v", orig, loaded)
	}
}

func TestToSimMapping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 7
	cfg.Field = 0.25
	cfg.Steps.PreRunDiscard = 500
	sc := cfg.ToSim()

	if sc.Size != cfg.Size || sc.Coupling != cfg.Coupling || sc.Boltzmann != cfg.Boltzmann {
		t.Error("model constants not mapped")
	}
	if sc.TMin != 9.0 || sc.TMax != 10.0 || sc.TStep != 0.1 {
		t.Errorf("temperature range not mapped: %v..%v step %v", sc.TMin, sc.TMax, sc.TStep)
	}
	if sc.EquilibrationSteps != 300 || sc.MeasurementSteps != 1000 {
		t.Errorf("step counts not mapped: %d/%d", sc.EquilibrationSteps, sc.MeasurementSteps)
	}
	if sc.PreRunDiscardFlips != 500 || sc.Seed != 7 || sc.Field != 0.25 {
		t.Error("optional parameters not mapped")
	}
}
