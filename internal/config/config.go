package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"marinesim/internal/gnc"
	"marinesim/internal/sim"
	"marinesim/internal/vehicle"
)

const (
	DefaultDt       = 0.1
	DefaultDuration = 1800.0
)

// Scenario is one fully parameterized simulation run: sample timing, the
// craft and its autopilot, and the initial attitude. Every run is
// reproducible from its Scenario alone.
type Scenario struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`

	Vehicle   VehicleConfig   `yaml:"vehicle"`
	Autopilot AutopilotConfig `yaml:"autopilot"`
	InitState InitStateConfig `yaml:"init_state"`
}

type VehicleConfig struct {
	Mode             string  `yaml:"mode"`
	HeadingDeg       float64 `yaml:"heading_deg"`
	Length           float64 `yaml:"length"`
	Beam             float64 `yaml:"beam"`
	Draft            float64 `yaml:"draft"`
	Cb               float64 `yaml:"cb"`
	RudderMaxDeg     float64 `yaml:"rudder_max_deg"`
	RudderRateMaxDeg float64 `yaml:"rudder_rate_max_deg"`
	CurrentSpeed     float64 `yaml:"current_speed"`
	CurrentDirDeg    float64 `yaml:"current_dir_deg"`
	CurrentEnabled   bool    `yaml:"current_enabled"`
	DesiredSpeed     float64 `yaml:"desired_speed"`
}

type AutopilotConfig struct {
	Bandwidth float64 `yaml:"bandwidth"`
	Damping   float64 `yaml:"damping"`
}

type InitStateConfig struct {
	North    float64 `yaml:"north"`
	East     float64 `yaml:"east"`
	Down     float64 `yaml:"down"`
	RollDeg  float64 `yaml:"roll_deg"`
	PitchDeg float64 `yaml:"pitch_deg"`
	YawDeg   float64 `yaml:"yaw_deg"`
}

// DefaultScenario mirrors the transit scenario: heading autopilot holding a
// -80 deg offset at 28 m/s in a 10 m/s current, 0.1 s sampling over 1800 s.
func DefaultScenario() *Scenario {
	vc := vehicle.DefaultConfig()
	return &Scenario{
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Vehicle: VehicleConfig{
			Mode:             string(vc.Mode),
			HeadingDeg:       vc.HeadingDeg,
			Length:           vc.Length,
			Beam:             vc.Beam,
			Draft:            vc.Draft,
			Cb:               vc.Cb,
			RudderMaxDeg:     vc.RudderMaxDeg,
			RudderRateMaxDeg: vc.RudderRateMaxDeg,
			CurrentSpeed:     vc.CurrentSpeed,
			CurrentDirDeg:    vc.CurrentDirDeg,
			CurrentEnabled:   vc.CurrentEnabled,
			DesiredSpeed:     vc.DesiredSpeed,
		},
		Autopilot: AutopilotConfig{
			Bandwidth: vc.Bandwidth,
			Damping:   vc.Damping,
		},
	}
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc := DefaultScenario()
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func Save(path string, sc *Scenario) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// VehicleSpec assembles the craft configuration from the scenario.
func (s *Scenario) VehicleSpec() vehicle.Config {
	return vehicle.Config{
		Mode:             vehicle.Mode(s.Vehicle.Mode),
		HeadingDeg:       s.Vehicle.HeadingDeg,
		Length:           s.Vehicle.Length,
		Beam:             s.Vehicle.Beam,
		Draft:            s.Vehicle.Draft,
		Cb:               s.Vehicle.Cb,
		RudderMaxDeg:     s.Vehicle.RudderMaxDeg,
		RudderRateMaxDeg: s.Vehicle.RudderRateMaxDeg,
		CurrentSpeed:     s.Vehicle.CurrentSpeed,
		CurrentDirDeg:    s.Vehicle.CurrentDirDeg,
		CurrentEnabled:   s.Vehicle.CurrentEnabled,
		DesiredSpeed:     s.Vehicle.DesiredSpeed,
		Bandwidth:        s.Autopilot.Bandwidth,
		Damping:          s.Autopilot.Damping,
	}
}

// SimSpec derives the driver configuration: N steps at Dt covering Duration.
func (s *Scenario) SimSpec() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Dt = s.Dt
	if s.Dt > 0 {
		cfg.N = int(s.Duration / s.Dt)
	}
	return cfg
}

// EtaInit builds the initial position/attitude vector (angles in radians).
func (s *Scenario) EtaInit() sim.State {
	return sim.State{
		s.InitState.North,
		s.InitState.East,
		s.InitState.Down,
		s.InitState.RollDeg * gnc.D2R,
		s.InitState.PitchDeg * gnc.D2R,
		s.InitState.YawDeg * gnc.D2R,
	}
}
