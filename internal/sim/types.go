package sim

import "math"

// DOF is the number of rigid-body degrees of freedom carried in eta and nu.
const DOF = 6

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Add(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] + other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

type Control []float64

func (c Control) Clone() Control {
	d := make(Control, len(c))
	copy(d, c)
	return d
}

func (c Control) IsValid() bool {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Vehicle is one craft: its maneuvering dynamics, its actuator realization
// and the control law selected by its configuration. The driver depends only
// on this interface, never on a concrete hull type.
type Vehicle interface {
	Name() string
	DOF() int
	ControlDim() int

	// InitialVelocity and InitialActuators give the starting nu and u_actual
	// for a fresh run.
	InitialVelocity() State
	InitialActuators() Control

	// Dynamics advances body velocity and the realized actuator state one
	// sample interval. Pure function of its inputs.
	Dynamics(eta, nu State, uActual, uControl Control, dt float64) (State, Control, error)

	// ControlLaw produces the commanded actuator input from the current
	// pre-update state. Controller memory (integral terms) persists across
	// calls; ResetControl clears it for a new run.
	ControlLaw(eta, nu State, t, dt float64) (Control, error)
	ResetControl()
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Metric interface {
	Name() string
	Observe(eta, nu State, u Control, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(eta, nu State, uControl, uActual Control, t float64)
}

// Phase of a simulation driver.
type Phase int

const (
	Idle Phase = iota
	Running
	Completed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	}
	return "unknown"
}

type Config struct {
	// N is the number of integration steps; N+1 rows are recorded.
	N int
	// Dt is the sample interval in seconds.
	Dt float64
	// ValidateState enables the NaN/Inf guard inside the loop.
	ValidateState bool
	// NormLimit aborts the run with a DivergenceError when the velocity
	// norm exceeds it. Zero disables the check.
	NormLimit float64
}

func DefaultConfig() Config {
	return Config{
		N:             1000,
		Dt:            0.1,
		ValidateState: true,
		NormLimit:     1e4,
	}
}

// Duration is the simulated time span N*Dt.
func (c Config) Duration() float64 {
	return float64(c.N) * c.Dt
}

type Result struct {
	// Times[i] and Data row i describe the system at simulated time i*Dt.
	Times []float64
	Data  *Recorder

	Metrics    map[string]float64
	StepsTaken int
}

// Final returns the last recorded eta and nu.
func (r *Result) Final() (State, State) {
	if r.Data == nil || r.Data.Len() == 0 {
		return nil, nil
	}
	return r.Data.Eta(r.Data.Len() - 1), r.Data.Nu(r.Data.Len() - 1)
}
