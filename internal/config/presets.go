package config

func preset(mutate func(*Scenario)) *Scenario {
	sc := DefaultScenario()
	mutate(sc)
	return sc
}

var Presets = map[string]func() *Scenario{
	// The transit scenario as distributed.
	"transit": func() *Scenario {
		return DefaultScenario()
	},
	// Calm water, no ambient current; useful as a controller baseline.
	"calm": func() *Scenario {
		return preset(func(sc *Scenario) {
			sc.Vehicle.CurrentSpeed = 0
			sc.Vehicle.CurrentEnabled = false
		})
	},
	// Slow harbor approach: 8 m/s, small heading change, tight rudder.
	"harbor": func() *Scenario {
		return preset(func(sc *Scenario) {
			sc.Vehicle.DesiredSpeed = 8
			sc.Vehicle.HeadingDeg = -20
			sc.Vehicle.CurrentSpeed = 0.5
			sc.Vehicle.CurrentDirDeg = 10
			sc.Vehicle.RudderMaxDeg = 20
			sc.Duration = 600
		})
	},
	// Open-loop 10 degree rudder step for maneuvering analysis.
	"step": func() *Scenario {
		return preset(func(sc *Scenario) {
			sc.Vehicle.Mode = "stepInput"
			sc.Vehicle.CurrentSpeed = 0
			sc.Vehicle.CurrentEnabled = false
			sc.Duration = 600
		})
	},
}

func GetPreset(name string) *Scenario {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
