package experiment

import (
	"context"
	"testing"

	"marinesim/internal/config"
	"marinesim/internal/sim"
)

func shortScenario() *config.Scenario {
	sc := config.GetPreset("calm")
	sc.Duration = 60
	return sc
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	names := r.ListVehicles()
	if len(names) == 0 {
		t.Fatal("expected registered vehicles")
	}

	veh, err := r.GetVehicle("clarke83", shortScenario())
	if err != nil {
		t.Fatal(err)
	}
	if veh.Name() != "clarke83" {
		t.Errorf("unexpected vehicle %s", veh.Name())
	}

	if _, err := r.GetVehicle("nonexistent", shortScenario()); err == nil {
		t.Error("expected error for unknown vehicle")
	}
}

func TestExperimentLifecycle(t *testing.T) {
	sc := shortScenario()
	r := NewRegistry()

	veh, err := r.GetVehicle("clarke83", sc)
	if err != nil {
		t.Fatal(err)
	}

	exp := New(veh, sc.SimSpec(), sc.EtaInit())

	// Run before Setup fails.
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}

	if err := exp.Setup(r.DefaultMetrics(sc)); err != nil {
		t.Fatal(err)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if result.Data.Len() != sc.SimSpec().N+1 {
		t.Errorf("expected %d rows, got %d", sc.SimSpec().N+1, result.Data.Len())
	}
	if _, ok := result.Metrics["heading_rms"]; !ok {
		t.Error("expected heading_rms metric")
	}
	if exp.Simulator() == nil {
		t.Error("expected access to the underlying driver")
	}
}

func TestExperimentNoVehicle(t *testing.T) {
	exp := New(nil, sim.DefaultConfig(), make(sim.State, sim.DOF))
	if err := exp.Setup(nil); err == nil {
		t.Error("expected error for missing vehicle")
	}
}
