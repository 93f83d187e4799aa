package config

import (
	"math"
	"path/filepath"
	"testing"
)

func TestDefaultScenario(t *testing.T) {
	sc := DefaultScenario()

	if sc.Dt != 0.1 {
		t.Errorf("expected dt 0.1, got %f", sc.Dt)
	}
	if sc.Duration != 1800 {
		t.Errorf("expected duration 1800, got %f", sc.Duration)
	}
	if sc.Vehicle.Mode != "headingAutopilot" {
		t.Errorf("expected headingAutopilot, got %s", sc.Vehicle.Mode)
	}
	if sc.Vehicle.HeadingDeg != -80 {
		t.Errorf("expected heading -80, got %f", sc.Vehicle.HeadingDeg)
	}
	if sc.Vehicle.Length != 70 {
		t.Errorf("expected length 70, got %f", sc.Vehicle.Length)
	}
}

func TestGetPreset(t *testing.T) {
	sc := GetPreset("calm")
	if sc == nil {
		t.Fatal("expected preset, got nil")
	}
	if sc.Vehicle.CurrentEnabled {
		t.Error("calm preset should disable the current")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected presets")
	}

	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	for _, want := range []string{"transit", "calm", "harbor", "step"} {
		if !found[want] {
			t.Errorf("missing preset %s", want)
		}
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")

	sc := DefaultScenario()
	sc.Duration = 600
	sc.Vehicle.HeadingDeg = 45
	sc.InitState.YawDeg = 10

	if err := Save(path, sc); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Duration != 600 {
		t.Errorf("expected duration 600, got %f", loaded.Duration)
	}
	if loaded.Vehicle.HeadingDeg != 45 {
		t.Errorf("expected heading 45, got %f", loaded.Vehicle.HeadingDeg)
	}
	if loaded.InitState.YawDeg != 10 {
		t.Errorf("expected yaw 10, got %f", loaded.InitState.YawDeg)
	}
	// Fields absent from the file keep their defaults.
	if loaded.Vehicle.Length != 70 {
		t.Errorf("expected length 70, got %f", loaded.Vehicle.Length)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSimSpec(t *testing.T) {
	sc := DefaultScenario()
	cfg := sc.SimSpec()

	if cfg.N != 18000 {
		t.Errorf("expected 18000 steps for 1800 s at 0.1 s, got %d", cfg.N)
	}
	if cfg.Dt != 0.1 {
		t.Errorf("expected dt 0.1, got %f", cfg.Dt)
	}
}

func TestVehicleSpec(t *testing.T) {
	sc := DefaultScenario()
	sc.Autopilot.Bandwidth = 0.15

	spec := sc.VehicleSpec()
	if spec.Bandwidth != 0.15 {
		t.Errorf("autopilot bandwidth not forwarded, got %f", spec.Bandwidth)
	}
	if spec.Length != 70 {
		t.Errorf("hull length not forwarded, got %f", spec.Length)
	}
}

func TestEtaInit(t *testing.T) {
	sc := DefaultScenario()
	sc.InitState.North = 100
	sc.InitState.YawDeg = 90

	eta := sc.EtaInit()
	if len(eta) != 6 {
		t.Fatalf("expected 6 components, got %d", len(eta))
	}
	if eta[0] != 100 {
		t.Errorf("expected north 100, got %f", eta[0])
	}
	if math.Abs(eta[5]-math.Pi/2) > 1e-12 {
		t.Errorf("expected yaw pi/2, got %f", eta[5])
	}
}
