// Package config is the yaml-backed driver configuration: which model
// to run, which integrator, for how long, and the per-model physical
// parameters.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"pendlab/internal/dynamo"
	"pendlab/internal/models"
)

const (
	DefaultDuration = 10.0
	DefaultDataDir  = "runs"
)

type Config struct {
	Model      string             `yaml:"model"`
	Integrator string             `yaml:"integrator"`
	Duration   float64            `yaml:"duration"`
	DataDir    string             `yaml:"data_dir"`
	Record     bool               `yaml:"record"`
	Models     models.ModelConfig `yaml:"models"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "simple",
		Integrator: "rk4",
		Duration:   DefaultDuration,
		DataDir:    DefaultDataDir,
		Models: models.ModelConfig{
			Simple: models.SimplePendulumConfig{InitialAngle: 0.5},
			Double: models.DoublePendulumConfig{Theta1: 1.5, Theta2: 1.5},
			Chain:  models.ChainPendulumConfig{Segments: 4, InitialAngle: 0.5},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BuildModel constructs the configured model.
func (c *Config) BuildModel() (dynamo.Model, error) {
	return models.New(c.Model, c.Models)
}
