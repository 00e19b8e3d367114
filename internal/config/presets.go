package config

import (
	"sort"

	"github.com/san-kum/physcore/internal/vecmath"
)

var Presets = map[string]*Config{
	"cruise": {
		Name: "cruise", Dt: 1.0, Duration: 1.0,
		Body:       BodyConfig{Velocity: [3]float64{1, 0, 0}, Mass: 10, Inertia: vecmath.Identity()},
		Force:      [3]float64{10, 0, 0},
		Kinematics: KinematicsConfig{X0: 0, V0: 10, A: -9.8, Duration: 2, Samples: 20},
	},
	"freefall": {
		Name: "freefall", Dt: 0.01, Duration: 3.0,
		Body:       BodyConfig{Position: [3]float64{0, 0, 50}, Mass: 2, Inertia: vecmath.Diagonal(0.4, 0.4, 0.4)},
		Gravity:    [3]float64{0, 0, -9.81},
		Kinematics: KinematicsConfig{X0: 50, V0: 0, A: -9.81, Duration: 3, Samples: 60},
	},
	"hover": {
		Name: "hover", Dt: 0.01, Duration: 20.0,
		Body:    BodyConfig{Mass: 1.5, Inertia: vecmath.Diagonal(0.02, 0.02, 0.04)},
		Gravity: [3]float64{0, 0, -9.81},
		Controller: ControllerConfig{
			Type: ControllerPID, Kp: 12, Ki: 2, Kd: 6,
			Target: [3]float64{0, 0, 10},
		},
		Kinematics: KinematicsConfig{Duration: 20, Samples: 20},
	},
	"projectile": {
		Name: "projectile", Dt: 0.005, Duration: 2.0,
		Body:       BodyConfig{Velocity: [3]float64{5, 0, 10}, Mass: 1, Inertia: vecmath.Diagonal(0.1, 0.1, 0.1)},
		Gravity:    [3]float64{0, 0, -9.8},
		Kinematics: KinematicsConfig{X0: 0, V0: 10, A: -9.8, Duration: 2, Samples: 40},
	},
	"spin": {
		Name: "spin", Dt: 0.01, Duration: 5.0,
		Body:       BodyConfig{Mass: 1, Inertia: vecmath.Diagonal(1, 1, 2)},
		Torque:     [3]float64{0, 0, 0.5},
		Kinematics: KinematicsConfig{Duration: 5, Samples: 10},
	},
	"thruster": {
		Name: "thruster", Dt: 0.02, Duration: 10.0,
		Body:       BodyConfig{Mass: 500, Inertia: vecmath.Diagonal(120, 80, 150)},
		Force:      [3]float64{1200, 0, 0},
		Torque:     [3]float64{0, 4, 0},
		Kinematics: KinematicsConfig{X0: 0, V0: 0, A: 2.4, Duration: 10, Samples: 50},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
