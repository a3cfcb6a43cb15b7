package config

import "pendlab/internal/models"

var Presets = map[string]map[string]*Config{
	"simple": {
		"small": {
			Model: "simple", Integrator: "rk4", Duration: 20.0,
			Models: models.ModelConfig{Simple: models.SimplePendulumConfig{InitialAngle: 0.2}},
		},
		"large": {
			Model: "simple", Integrator: "rk4", Duration: 20.0,
			Models: models.ModelConfig{Simple: models.SimplePendulumConfig{InitialAngle: 2.5}},
		},
		"spinning": {
			Model: "simple", Integrator: "rk4", Duration: 30.0,
			Models: models.ModelConfig{Simple: models.SimplePendulumConfig{InitialAngle: 0.1, InitialVelocity: 8.0}},
		},
		"damped": {
			Model: "simple", Integrator: "rk4", Duration: 30.0,
			Models: models.ModelConfig{Simple: models.SimplePendulumConfig{InitialAngle: 1.2, Damping: 0.3}},
		},
	},
	"double": {
		"symmetric": {
			Model: "double", Integrator: "rk4", Duration: 30.0,
			Models: models.ModelConfig{Double: models.DoublePendulumConfig{Theta1: 1.5, Theta2: 1.5}},
		},
		"chaos": {
			Model: "double", Integrator: "rk4", Duration: 60.0,
			Models: models.ModelConfig{Double: models.DoublePendulumConfig{Theta1: 3.0, Theta2: 3.0}},
		},
		"gentle": {
			Model: "double", Integrator: "rk4", Duration: 30.0,
			Models: models.ModelConfig{Double: models.DoublePendulumConfig{Theta1: 0.3, Theta2: 0.3}},
		},
	},
	"chain": {
		"wave": {
			Model: "chain", Integrator: "rk4", Duration: 30.0,
			Models: models.ModelConfig{Chain: models.ChainPendulumConfig{Segments: 6, InitialAngle: 0.8}},
		},
		"whip": {
			Model: "chain", Integrator: "rk4", Duration: 20.0,
			Models: models.ModelConfig{Chain: models.ChainPendulumConfig{Segments: 10, InitialAngle: 1.5}},
		},
		"stiff": {
			Model: "chain", Integrator: "rk4", Duration: 30.0,
			Models: models.ModelConfig{Chain: models.ChainPendulumConfig{Segments: 4, InitialAngle: 0.5, Stiffness: 120.0}},
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
