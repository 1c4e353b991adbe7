package sim

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/san-kum/isinglab/internal/lattice"
	"github.com/san-kum/isinglab/internal/metrics"
	"github.com/san-kum/isinglab/internal/metropolis"
	"github.com/san-kum/isinglab/internal/schedule"
)

// Phase names the stage a sweep is in.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseEquilibrating
	PhaseMeasuring
	PhaseFinalizing
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhaseEquilibrating:
		return "equilibrating"
	case PhaseMeasuring:
		return "measuring"
	case PhaseFinalizing:
		return "finalizing"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// Stepper runs a sweep one unit of work at a time, so callers that want to
// observe the lattice mid-run (the live view, tests) can interleave their
// own work between steps. Sweep.Run drives it to completion in a loop.
//
// Each temperature passes through equilibration, measurement and a
// finalization that turns the accumulated sums into one record. Records
// whose fluctuation value comes out negative are additionally reported as
// anomalies, but stay in the record list.
type Stepper struct {
	cfg   Config
	sched schedule.Schedule
	src   *rand.Rand
	att   *metropolis.Attempter
	lat   *lattice.Lattice
	acc   *metrics.Accumulator

	phase     Phase
	ti        int
	step      int
	records   []metrics.Record
	anomalies []metrics.Anomaly

	steps     int64
	flips     int64
	exhausted int64

	started  time.Time
	finished time.Time
}

// NewStepper validates cfg and prepares the initial lattice. The stepper
// starts in the initializing phase; no flip attempt has run yet.
func NewStepper(cfg Config) (*Stepper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sched, err := schedule.New(cfg.TMin, cfg.TMax, cfg.TStep)
	if err != nil {
		return nil, err
	}
	src := metropolis.NewSource(cfg.Seed)
	lat, err := lattice.New(cfg.Size, src)
	if err != nil {
		return nil, err
	}
	return &Stepper{
		cfg:   cfg,
		sched: sched,
		src:   src,
		att: &metropolis.Attempter{
			Coupling:    cfg.Coupling,
			Boltzmann:   cfg.Boltzmann,
			Field:       cfg.Field,
			MaxAttempts: cfg.MaxFlipAttempts,
		},
		lat:     lat,
		acc:     metrics.NewAccumulator(),
		phase:   PhaseInitializing,
		records: make([]metrics.Record, 0, sched.Len()),
		started: time.Now(),
	}, nil
}

// Step advances the sweep by one unit of work: the pre-run discard pass,
// one equilibration or measurement update, or one temperature
// finalization. It reports whether work remains.
func (st *Stepper) Step() bool {
	switch st.phase {
	case PhaseInitializing:
		t := st.sched.At(0)
		for i := 0; i < st.cfg.PreRunDiscardFlips; i++ {
			st.attempt(t)
		}
		st.phase = PhaseEquilibrating

	case PhaseEquilibrating:
		st.update(st.sched.At(st.ti))
		st.step++
		if st.step >= st.cfg.EquilibrationSteps {
			st.step = 0
			st.acc.Reset()
			st.phase = PhaseMeasuring
		}

	case PhaseMeasuring:
		t := st.sched.At(st.ti)
		st.update(t)
		st.sample()
		st.step++
		if st.step >= st.cfg.MeasurementSteps {
			st.step = 0
			st.phase = PhaseFinalizing
		}

	case PhaseFinalizing:
		rec := st.acc.Finalize(st.sched.At(st.ti), st.cfg.Boltzmann)
		st.records = append(st.records, rec)
		if rec.Anomalous() {
			st.anomalies = append(st.anomalies, metrics.AnomalyFor(rec))
		}
		st.ti++
		if st.ti >= st.sched.Len() {
			st.finished = time.Now()
			st.phase = PhaseDone
		} else {
			if st.cfg.ResetPerTemperature {
				st.lat.Randomize(st.src)
			}
			st.phase = PhaseEquilibrating
		}

	case PhaseDone:
		return false
	}
	return st.phase != PhaseDone
}

// update runs the flip attempts making up one step.
func (st *Stepper) update(t float64) {
	for i := 0; i < st.cfg.FlipsPerStep; i++ {
		st.attempt(t)
	}
	st.steps++
}

func (st *Stepper) attempt(t float64) {
	if st.att.AttemptFlip(st.lat, t, st.src) {
		st.flips++
	} else {
		st.exhausted++
	}
}

// sample observes the current lattice once.
func (st *Stepper) sample() {
	m := st.lat.Magnetization()
	e := st.lat.Energy(st.cfg.Coupling)
	if st.cfg.Field != 0 {
		e -= st.cfg.Field * m * float64(st.cfg.Size*st.cfg.Size)
	}
	if st.cfg.AbsMagnetization {
		m = math.Abs(m)
	}
	st.acc.RecordSample(e, m)
}

// Phase returns the current stage.
func (st *Stepper) Phase() Phase { return st.phase }

// Temperature returns the temperature being worked on, or the last one
// once the sweep is done.
func (st *Stepper) Temperature() float64 {
	i := st.ti
	if i >= st.sched.Len() {
		i = st.sched.Len() - 1
	}
	return st.sched.At(i)
}

// Schedule returns the temperature sequence of the sweep.
func (st *Stepper) Schedule() schedule.Schedule { return st.sched }

// Config returns the sweep parameters.
func (st *Stepper) Config() Config { return st.cfg }

// Spins returns a copy of the current lattice configuration.
func (st *Stepper) Spins() []int8 { return st.lat.Spins() }

// Records returns the records finalized so far. The slice is owned by the
// stepper; callers must not modify it.
func (st *Stepper) Records() []metrics.Record { return st.records }

// MeanEnergy returns the running average energy of the current
// measurement phase.
func (st *Stepper) MeanEnergy() float64 { return st.acc.MeanEnergy() }

// MeanMagnetization returns the running average magnetization of the
// current measurement phase.
func (st *Stepper) MeanMagnetization() float64 { return st.acc.MeanMagnetization() }

// Flips returns the number of accepted spin flips so far.
func (st *Stepper) Flips() int64 { return st.flips }

// Exhausted returns the number of flip attempts that ran out of trials
// without flipping.
func (st *Stepper) Exhausted() int64 { return st.exhausted }

// Progress returns the completed fraction of the sweep in [0, 1].
func (st *Stepper) Progress() float64 {
	perT := float64(st.cfg.EquilibrationSteps + st.cfg.MeasurementSteps + 1)
	total := 1 + float64(st.sched.Len())*perT
	var done float64
	switch st.phase {
	case PhaseInitializing:
		return 0
	case PhaseDone:
		return 1
	case PhaseEquilibrating:
		done = 1 + float64(st.ti)*perT + float64(st.step)
	case PhaseMeasuring:
		done = 1 + float64(st.ti)*perT + float64(st.cfg.EquilibrationSteps+st.step)
	case PhaseFinalizing:
		done = 1 + float64(st.ti)*perT + float64(st.cfg.EquilibrationSteps+st.cfg.MeasurementSteps)
	}
	return done / total
}

// Result snapshots the sweep outcome so far. After the done phase it is
// the complete result.
func (st *Stepper) Result() *Result {
	elapsed := time.Since(st.started)
	if st.phase == PhaseDone {
		elapsed = st.finished.Sub(st.started)
	}
	recs := make([]metrics.Record, len(st.records))
	copy(recs, st.records)
	anoms := make([]metrics.Anomaly, len(st.anomalies))
	copy(anoms, st.anomalies)
	return &Result{
		Records:    recs,
		Anomalies:  anoms,
		FinalSpins: st.lat.Spins(),
		Steps:      st.steps,
		Flips:      st.flips,
		Exhausted:  st.exhausted,
		Elapsed:    elapsed,
	}
}
