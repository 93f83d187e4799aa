package sim

import (
	"context"

	"marinesim/internal/gnc"
)

// Simulator drives one vehicle through a fixed-step closed-loop run and
// records the state history. It is single-threaded and deterministic given
// (etaInit, vehicle configuration, N, dt); two concurrent runs need two
// independent Simulator and Vehicle instances.
type Simulator struct {
	vehicle   Vehicle
	metrics   []Metric
	observers []Observer
	phase     Phase
}

func New(vehicle Vehicle) *Simulator {
	return &Simulator{
		vehicle: vehicle,
		phase:   Idle,
	}
}

func (s *Simulator) Phase() Phase           { return s.phase }
func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run executes the loop: per sample, the control law reads the pre-update
// state, the row [eta, nu, u_control, u_actual] is recorded with that same
// state, then the dynamics advance (nu, u_actual) and the attitude update
// advances eta. Exactly cfg.N+1 rows come back, with Times[i] = i*Dt.
//
// Component failures are fatal and propagated; a divergence or cancellation
// returns the rows recorded so far together with the error.
func (s *Simulator) Run(ctx context.Context, etaInit State, cfg Config) (*Result, error) {
	if err := s.validate(etaInit, cfg); err != nil {
		return nil, err
	}

	s.phase = Running
	s.vehicle.ResetControl()
	for _, m := range s.metrics {
		m.Reset()
	}

	dof := s.vehicle.DOF()
	dimU := s.vehicle.ControlDim()
	result := &Result{
		Times:   make([]float64, 0, cfg.N+1),
		Data:    NewRecorder(cfg.N+1, dof, dimU),
		Metrics: make(map[string]float64),
	}

	eta := etaInit.Clone()
	nu := s.vehicle.InitialVelocity().Clone()
	uActual := s.vehicle.InitialActuators().Clone()
	dt := cfg.Dt

	for i := 0; i <= cfg.N; i++ {
		t := float64(i) * dt

		select {
		case <-ctx.Done():
			s.phase = Completed
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		if cfg.ValidateState && (!eta.IsValid() || !nu.IsValid()) {
			s.phase = Completed
			s.finish(result)
			return result, &DomainError{Step: i, Time: t, Value: nu.Norm(), Reason: "NaN/Inf in state"}
		}
		if cfg.NormLimit > 0 && nu.Norm() > cfg.NormLimit {
			s.phase = Completed
			s.finish(result)
			return result, &DivergenceError{Step: i, Time: t, Norm: nu.Norm(), Limit: cfg.NormLimit}
		}

		uControl, err := s.vehicle.ControlLaw(eta, nu, t, dt)
		if err != nil {
			s.phase = Completed
			s.finish(result)
			return result, err
		}

		for _, m := range s.metrics {
			m.Observe(eta, nu, uControl, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(eta, nu, uControl, uActual, t)
		}

		if err := result.Data.Append(eta, nu, uControl, uActual); err != nil {
			s.phase = Completed
			return result, err
		}
		result.Times = append(result.Times, t)

		if i == cfg.N {
			break
		}

		nu, uActual, err = s.vehicle.Dynamics(eta, nu, uActual, uControl, dt)
		if err != nil {
			s.phase = Completed
			s.finish(result)
			return result, err
		}

		etaNext, err := gnc.AttitudeEuler(eta, nu, dt)
		if err != nil {
			s.phase = Completed
			s.finish(result)
			return result, &DomainError{Step: i, Time: t, Value: dt, Reason: err.Error()}
		}
		eta = State(etaNext)

		result.StepsTaken++
	}

	s.phase = Completed
	s.finish(result)
	return result, nil
}

func (s *Simulator) finish(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validate(etaInit State, cfg Config) error {
	if cfg.Dt <= 0 {
		return &DomainError{Step: 0, Time: 0, Value: cfg.Dt, Reason: "sample time must be positive"}
	}
	if cfg.N <= 0 {
		return &DomainError{Step: 0, Time: 0, Value: float64(cfg.N), Reason: "step count must be positive"}
	}
	if len(etaInit) != s.vehicle.DOF() {
		return &DomainError{Step: 0, Time: 0, Value: float64(len(etaInit)), Reason: "eta dimension mismatch"}
	}
	if !etaInit.IsValid() {
		return &DomainError{Step: 0, Time: 0, Value: 0, Reason: "NaN/Inf in initial state"}
	}
	return nil
}

// Simulate is the one-call form: build a driver, run it, return the
// (time vector, history table) pair.
func Simulate(ctx context.Context, vehicle Vehicle, etaInit State, cfg Config) (*Result, error) {
	return New(vehicle).Run(ctx, etaInit, cfg)
}
