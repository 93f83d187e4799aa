package experiment

import (
	"fmt"

	"marinesim/internal/config"
	"marinesim/internal/gnc"
	"marinesim/internal/metrics"
	"marinesim/internal/sim"
	"marinesim/internal/vehicle"
)

// Registry maps hull names to constructors so the CLI and tuning code stay
// decoupled from concrete craft types.
type Registry struct {
	vehicles map[string]func(*config.Scenario) (sim.Vehicle, error)
}

func NewRegistry() *Registry {
	r := &Registry{
		vehicles: make(map[string]func(*config.Scenario) (sim.Vehicle, error)),
	}

	r.vehicles["clarke83"] = func(sc *config.Scenario) (sim.Vehicle, error) {
		return vehicle.New(sc.VehicleSpec())
	}

	return r
}

func (r *Registry) GetVehicle(name string, sc *config.Scenario) (sim.Vehicle, error) {
	fn, ok := r.vehicles[name]
	if !ok {
		return nil, fmt.Errorf("unknown vehicle: %s", name)
	}
	return fn(sc)
}

func (r *Registry) ListVehicles() []string {
	names := make([]string, 0, len(r.vehicles))
	for name := range r.vehicles {
		names = append(names, name)
	}
	return names
}

// DefaultMetrics for a heading-control run: wrapped heading error, rudder
// usage and a speed sanity check.
func (r *Registry) DefaultMetrics(sc *config.Scenario) []sim.Metric {
	return []sim.Metric{
		metrics.NewHeadingRMS(sc.Vehicle.HeadingDeg * gnc.D2R),
		metrics.NewRudderEffort(),
		metrics.NewStability(10 * sc.Vehicle.DesiredSpeed),
	}
}
