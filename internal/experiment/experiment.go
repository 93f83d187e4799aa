package experiment

import (
	"context"
	"fmt"

	"marinesim/internal/sim"
)

// Experiment binds one vehicle, its metrics and a driver configuration into
// a repeatable run.
type Experiment struct {
	vehicle   sim.Vehicle
	simCfg    sim.Config
	etaInit   sim.State
	simulator *sim.Simulator
}

func New(vehicle sim.Vehicle, simCfg sim.Config, etaInit sim.State) *Experiment {
	return &Experiment{
		vehicle: vehicle,
		simCfg:  simCfg,
		etaInit: etaInit,
	}
}

func (e *Experiment) Setup(metrics []sim.Metric) error {
	if e.vehicle == nil {
		return fmt.Errorf("experiment: no vehicle")
	}
	e.simulator = sim.New(e.vehicle)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.etaInit.Clone(), e.simCfg)
}

// Simulator returns the underlying driver for adding observers
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}
