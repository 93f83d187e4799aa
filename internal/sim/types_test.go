package sim

import (
	"math"
	"testing"
)

func TestStateClone(t *testing.T) {
	s := State{1, 2, 3}
	c := s.Clone()

	c[0] = 99
	if s[0] != 1 {
		t.Error("clone should not share backing array")
	}
}

func TestStateIsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"normal", State{1, 2, 3}, true},
		{"empty", State{}, true},
		{"nan", State{1, math.NaN(), 3}, false},
		{"positive inf", State{math.Inf(1)}, false},
		{"negative inf", State{math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		if got := tt.state.IsValid(); got != tt.valid {
			t.Errorf("%s: IsValid() = %v, want %v", tt.name, got, tt.valid)
		}
	}
}

func TestStateNorm(t *testing.T) {
	s := State{3, 4}
	if got := s.Norm(); math.Abs(got-5) > 1e-12 {
		t.Errorf("expected 5, got %f", got)
	}

	if got := (State{}).Norm(); got != 0 {
		t.Errorf("empty norm should be 0, got %f", got)
	}
}

func TestStateArithmetic(t *testing.T) {
	a := State{1, 2, 3}
	b := State{10, 20, 30}

	sum := a.Add(b)
	if sum[0] != 11 || sum[1] != 22 || sum[2] != 33 {
		t.Errorf("unexpected sum %v", sum)
	}

	diff := b.Sub(a)
	if diff[0] != 9 || diff[1] != 18 || diff[2] != 27 {
		t.Errorf("unexpected diff %v", diff)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2 || scaled[1] != 4 || scaled[2] != 6 {
		t.Errorf("unexpected scaled %v", scaled)
	}

	// Operands stay untouched.
	if a[0] != 1 || b[0] != 10 {
		t.Error("arithmetic should not mutate operands")
	}
}

func TestControlIsValid(t *testing.T) {
	if !(Control{0.1}).IsValid() {
		t.Error("finite control should be valid")
	}
	if (Control{math.NaN()}).IsValid() {
		t.Error("NaN control should be invalid")
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{Idle, "idle"},
		{Running, "running"},
		{Completed, "completed"},
		{Phase(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestConfigDuration(t *testing.T) {
	cfg := Config{N: 18000, Dt: 0.1}
	if got := cfg.Duration(); math.Abs(got-1800) > 1e-9 {
		t.Errorf("expected 1800, got %f", got)
	}
}

func TestResultFinalEmpty(t *testing.T) {
	r := &Result{}
	eta, nu := r.Final()
	if eta != nil || nu != nil {
		t.Error("expected nil final state for empty result")
	}
}
