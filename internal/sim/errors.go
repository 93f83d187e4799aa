package sim

import "fmt"

// ConfigError reports an invalid or degenerate vehicle/run parameter detected
// at construction. Always fatal; the core never repairs configuration.
type ConfigError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s = %g: %s", e.Param, e.Value, e.Reason)
}

// DomainError reports an invalid runtime argument (non-positive time step,
// NaN/Inf state). It carries the step index and offending value so the caller
// can reproduce the failure without added instrumentation.
type DomainError struct {
	Step   int
	Time   float64
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s (value %g)", e.Step, e.Time, e.Reason, e.Value)
}

// DivergenceError signals a numerical blow-up. The partial history collected
// up to Step is returned alongside it, never discarded.
type DivergenceError struct {
	Step  int
	Time  float64
	Norm  float64
	Limit float64
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): state diverged, |nu| = %g exceeds %g", e.Step, e.Time, e.Norm, e.Limit)
}
