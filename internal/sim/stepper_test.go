package sim

import (
	"math"
	"testing"
)

func TestStepperPhaseSequence(t *testing.T) {
	cfg := baseConfig()
	cfg.TMin, cfg.TMax, cfg.TStep = 1, 1, 0.1
	cfg.EquilibrationSteps = 1
	cfg.MeasurementSteps = 1
	cfg.FlipsPerStep = 1

	st, err := NewStepper(cfg)
	if err != nil {
		t.Fatalf("NewStepper failed: %v", err)
	}
	if st.Phase() != PhaseInitializing {
		t.Fatalf("initial phase: got %v, want initializing", st.Phase())
	}

	want := []struct {
		more  bool
		phase Phase
	}{
		{true, PhaseEquilibrating},
		{true, PhaseMeasuring},
		{true, PhaseFinalizing},
		{false, PhaseDone},
	}
	for i, w := range want {
		more := st.Step()
		if more != w.more {
			t.Errorf("step %d: more=%v, want %v", i, more, w.more)
		}
		if st.Phase() != w.phase {
			t.Errorf("step %d: phase=%v, want %v", i, st.Phase(), w.phase)
		}
	}

	if len(st.Records()) != 1 {
		t.Fatalf("expected 1 record, got %d", len(st.Records()))
	}
	if st.Records()[0].Samples != 1 {
		t.Errorf("expected 1 sample, got %d", st.Records()[0].Samples)
	}
}

func TestStepperDoneIsTerminal(t *testing.T) {
	st, err := NewStepper(baseConfig())
	if err != nil {
		t.Fatalf("NewStepper failed: %v", err)
	}
	for st.Step() {
	}
	records := len(st.Records())
	flips := st.Flips()
	for i := 0; i < 5; i++ {
		if st.Step() {
			t.Fatal("Step reported work after done")
		}
	}
	if len(st.Records()) != records || st.Flips() != flips {
		t.Error("stepping after done changed state")
	}
}

func TestStepperProgressMonotonic(t *testing.T) {
	st, err := NewStepper(baseConfig())
	if err != nil {
		t.Fatalf("NewStepper failed: %v", err)
	}
	if st.Progress() != 0 {
		t.Errorf("initial progress: got %v, want 0", st.Progress())
	}
	prev := 0.0
	for st.Step() {
		p := st.Progress()
		if p < prev {
			t.Fatalf("progress went backwards: %v after %v", p, prev)
		}
		if p < 0 || p > 1 {
			t.Fatalf("progress %v outside [0,1]", p)
		}
		prev = p
	}
	if st.Progress() != 1 {
		t.Errorf("final progress: got %v, want 1", st.Progress())
	}
}

func TestStepperPreRunDiscard(t *testing.T) {
	cfg := baseConfig()
	cfg.PreRunDiscardFlips = 50
	cfg.FlipsPerStep = 0
	st, err := NewStepper(cfg)
	if err != nil {
		t.Fatalf("NewStepper failed: %v", err)
	}
	st.Step()
	if got := st.Flips() + st.Exhausted(); got != 50 {
		t.Errorf("attempts after initializing step: got %d, want 50", got)
	}
	for st.Step() {
	}
	if got := st.Flips() + st.Exhausted(); got != 50 {
		t.Errorf("total attempts: got %d, want 50", got)
	}
	for _, r := range st.Records() {
		if r.Samples != cfg.MeasurementSteps {
			t.Errorf("T=%.2f: samples %d, want %d", r.Temperature, r.Samples, cfg.MeasurementSteps)
		}
	}
}

func TestStepperResetPerTemperature(t *testing.T) {
	run := func(reset bool) []float64 {
		cfg := baseConfig()
		cfg.ResetPerTemperature = reset
		st, err := NewStepper(cfg)
		if err != nil {
			t.Fatalf("NewStepper failed: %v", err)
		}
		for st.Step() {
		}
		sums := make([]float64, 0, len(st.Records()))
		for _, r := range st.Records() {
			sums = append(sums, r.SumEnergy)
		}
		return sums
	}
	cont, reset := run(false), run(true)
	if len(cont) != len(reset) {
		t.Fatalf("record counts differ: %d vs %d", len(cont), len(reset))
	}
	same := true
	for i := range cont {
		if cont[i] != reset[i] {
			same = false
		}
	}
	if same {
		t.Error("resetting the lattice per temperature left the trajectory unchanged")
	}
}

func TestStepperAbsMagnetization(t *testing.T) {
	cfg := baseConfig()
	cfg.AbsMagnetization = true
	st, err := NewStepper(cfg)
	if err != nil {
		t.Fatalf("NewStepper failed: %v", err)
	}
	for st.Step() {
	}
	for _, r := range st.Records() {
		if r.Magnetization < 0 {
			t.Errorf("T=%.2f: absolute magnetization %v below zero", r.Temperature, r.Magnetization)
		}
		if r.Magnetization > 1 {
			t.Errorf("T=%.2f: magnetization %v above 1", r.Temperature, r.Magnetization)
		}
	}
}

func TestStepperExternalFieldPolarizes(t *testing.T) {
	cfg := Config{
		Size:               6,
		Coupling:           1,
		Boltzmann:          1,
		Field:              5,
		TMin:               0.5,
		TMax:               0.5,
		TStep:              0.1,
		EquilibrationSteps: 50,
		MeasurementSteps:   50,
		FlipsPerStep:       36,
		MaxFlipAttempts:    30,
		Seed:               7,
	}
	st, err := NewStepper(cfg)
	if err != nil {
		t.Fatalf("NewStepper failed: %v", err)
	}
	for st.Step() {
	}
	recs := st.Records()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	// A field of h=5 at T=0.5 makes every spin-raising flip downhill, so
	// the lattice saturates toward +1 well within equilibration.
	if recs[0].Magnetization < 0.9 {
		t.Errorf("magnetization under strong field: got %v, want > 0.9", recs[0].Magnetization)
	}
}

func TestStepperTemperatureAccessor(t *testing.T) {
	st, err := NewStepper(baseConfig())
	if err != nil {
		t.Fatalf("NewStepper failed: %v", err)
	}
	if got := st.Temperature(); math.Abs(got-1) > 1e-9 {
		t.Errorf("initial temperature: got %v, want 1", got)
	}
	for st.Step() {
	}
	if got := st.Temperature(); math.Abs(got-2) > 1e-9 {
		t.Errorf("final temperature: got %v, want 2", got)
	}
	if st.Schedule().Len() != 3 {
		t.Errorf("schedule length: got %d, want 3", st.Schedule().Len())
	}
}

func TestStepperSpinsSnapshot(t *testing.T) {
	st, err := NewStepper(baseConfig())
	if err != nil {
		t.Fatalf("NewStepper failed: %v", err)
	}
	st.Step()
	spins := st.Spins()
	if len(spins) != 16 {
		t.Fatalf("expected 16 spins, got %d", len(spins))
	}
	for i, s := range spins {
		if s != 1 && s != -1 {
			t.Fatalf("spin %d is %d, want +1 or -1", i, s)
		}
	}
	orig := spins[0]
	spins[0] = -orig
	if got := st.Spins()[0]; got != orig {
		t.Error("Spins returned internal storage")
	}
}

func TestStepperResultSnapshot(t *testing.T) {
	st, err := NewStepper(baseConfig())
	if err != nil {
		t.Fatalf("NewStepper failed: %v", err)
	}
	mid := st.Result()
	if len(mid.Records) != 0 {
		t.Errorf("records before any step: got %d, want 0", len(mid.Records))
	}
	for st.Step() {
	}
	final := st.Result()
	if len(final.Records) != 3 {
		t.Fatalf("final records: got %d, want 3", len(final.Records))
	}
	if final.Elapsed <= 0 {
		t.Error("expected positive elapsed time")
	}
	// Snapshots are copies.
	final.Records[0].Temperature = -1
	if st.Records()[0].Temperature == -1 {
		t.Error("result shares record storage with stepper")
	}
}
