package models

import (
	"fmt"
	"sort"

	"pendlab/internal/dynamo"
)

// ModelConfig bundles the per-model configurations so a driver config
// file can carry all of them and select one by name.
type ModelConfig struct {
	Simple SimplePendulumConfig `yaml:"simple"`
	Double DoublePendulumConfig `yaml:"double"`
	Chain  ChainPendulumConfig  `yaml:"chain"`
}

// New constructs the named model from cfg. Known names: "simple",
// "double", "chain".
func New(name string, cfg ModelConfig) (dynamo.Model, error) {
	switch name {
	case "simple":
		return NewSimplePendulum(cfg.Simple)
	case "double":
		return NewDoublePendulum(cfg.Double)
	case "chain":
		return NewChainPendulum(cfg.Chain)
	default:
		return nil, fmt.Errorf("unknown model: %s (known: %v)", name, Names())
	}
}

func Names() []string {
	names := []string{"simple", "double", "chain"}
	sort.Strings(names)
	return names
}
