package schedule

import (
	"errors"
	"math"
	"testing"
)

const tol = 1e-9

func TestNewValidation(t *testing.T) {
	if _, err := New(1, 2, 0); !errors.Is(err, ErrStep) {
		t.Errorf("zero step: got %v, want ErrStep", err)
	}
	if _, err := New(1, 2, -0.1); !errors.Is(err, ErrStep) {
		t.Errorf("negative step: got %v, want ErrStep", err)
	}
	if _, err := New(2, 1, 0.1); !errors.Is(err, ErrRange) {
		t.Errorf("max below min: got %v, want ErrRange", err)
	}
	if _, err := New(1, 2, 0.1); err != nil {
		t.Errorf("valid schedule rejected: %v", err)
	}
}

func TestReferenceSweep(t *testing.T) {
	// The 9.0..10.0 range at step 0.1 must include both endpoints even
	// though 0.1 is not exactly representable.
	s, err := New(9.0, 10.0, 0.1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := s.Len(); got != 11 {
		t.Fatalf("Len: got %d, want 11", got)
	}
	vals := s.Values()
	if math.Abs(vals[0]-9.0) > tol {
		t.Errorf("first value: got %v, want 9.0", vals[0])
	}
	if math.Abs(vals[10]-10.0) > tol {
		t.Errorf("last value: got %v, want 10.0", vals[10])
	}
	for i, v := range vals {
		if want := 9.0 + 0.1*float64(i); math.Abs(v-want) > tol {
			t.Errorf("value %d: got %v, want %v", i, v, want)
		}
	}
}

func TestExactEndpoint(t *testing.T) {
	s, err := New(1, 2, 0.5)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	want := []float64{1, 1.5, 2}
	vals := s.Values()
	if len(vals) != len(want) {
		t.Fatalf("Len: got %d, want %d", len(vals), len(want))
	}
	for i := range want {
		if math.Abs(vals[i]-want[i]) > tol {
			t.Errorf("value %d: got %v, want %v", i, vals[i], want[i])
		}
	}
}

func TestStepOvershootStopsBeforeMax(t *testing.T) {
	s, err := New(1, 1.2, 0.5)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := s.Len(); got != 1 {
		t.Fatalf("Len: got %d, want 1", got)
	}
	if math.Abs(s.At(0)-1) > tol {
		t.Errorf("At(0): got %v, want 1", s.At(0))
	}
}

func TestDegenerateSinglePoint(t *testing.T) {
	s, err := New(2.5, 2.5, 0.1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := s.Len(); got != 1 {
		t.Fatalf("Len: got %d, want 1", got)
	}
	if math.Abs(s.At(0)-2.5) > tol {
		t.Errorf("At(0): got %v, want 2.5", s.At(0))
	}
}

func TestNoDriftOnLongSweep(t *testing.T) {
	s, err := New(0.5, 100.5, 0.1)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if got := s.Len(); got != 1001 {
		t.Fatalf("Len: got %d, want 1001", got)
	}
	// Closed-form indexing keeps even the thousandth point exact to
	// rounding, where repeated addition would have accumulated error.
	if got := s.At(1000); math.Abs(got-100.5) > tol {
		t.Errorf("At(1000): got %v, want 100.5", got)
	}
	prev := math.Inf(-1)
	for _, v := range s.Values() {
		if v <= prev {
			t.Fatalf("sequence not strictly ascending at %v after %v", v, prev)
		}
		prev = v
	}
}
