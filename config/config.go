// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation and experiment configuration parameters.
type Config struct {
	Simulation  SimulationConfig  `yaml:"simulation"`
	Agent       AgentConfig       `yaml:"agent"`
	Environment EnvironmentConfig `yaml:"environment"`
	Experiments ExperimentsConfig `yaml:"experiments"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`
}

// SimulationConfig holds the core simulation parameters.
type SimulationConfig struct {
	Agents     int   `yaml:"agents"`      // Population size (recommended 20-200)
	GridWidth  int   `yaml:"grid_width"`  // Toroidal grid width in world units
	GridHeight int   `yaml:"grid_height"` // Grid height; the grid is assumed square and wrap uses the width
	Seed       int64 `yaml:"seed"`        // Seed for the per-simulation random stream
}

// AgentConfig holds agent initialization and update parameters.
type AgentConfig struct {
	InitialEnergy float64 `yaml:"initial_energy"` // Starting energy per agent
	EnergyDecay   float64 `yaml:"energy_decay"`   // Energy lost per active tick; never re-added
	VelocitySigma float64 `yaml:"velocity_sigma"` // Scale of the zero-mean Gaussian initial velocity per axis
}

// EnvironmentConfig holds resource, obstacle, and threat parameters.
type EnvironmentConfig struct {
	ResourceRatio       float64 `yaml:"resource_ratio"`        // Resources per agent (count = max(round(agents*ratio), min_resources))
	MinResources        int     `yaml:"min_resources"`         // Lower bound on resource count
	ResourceValue       float64 `yaml:"resource_value"`        // Fixed value per resource; not consumed by current rules
	Obstacles           int     `yaml:"obstacles"`             // Obstacle count
	ObstacleRadius      float64 `yaml:"obstacle_radius"`       // Fixed obstacle radius; placeholder collision geometry
	Threats             int     `yaml:"threats"`               // Threat count
	ThreatVelocitySigma float64 `yaml:"threat_velocity_sigma"` // Scale of the zero-mean Gaussian threat velocity per axis
}

// ExperimentsConfig holds the experiment sweep definitions.
type ExperimentsConfig struct {
	Baseline BaselineConfig `yaml:"baseline"`
	Scaling  ScalingConfig  `yaml:"scaling"`
}

// BaselineConfig defines the baseline comparison conditions. All conditions
// currently run the same placeholder rule set; the names mark where the
// per-condition policies plug in.
type BaselineConfig struct {
	Conditions []string `yaml:"conditions"`
	Agents     int      `yaml:"agents"`
	Timesteps  int      `yaml:"timesteps"`
}

// ScalingConfig defines the swarm-size scaling sweep.
type ScalingConfig struct {
	Sizes     []int `yaml:"sizes"`
	Timesteps int   `yaml:"timesteps"`
}

// TelemetryConfig holds progress reporting parameters.
type TelemetryConfig struct {
	ProgressInterval int `yaml:"progress_interval"` // Ticks between progress log lines (0 = silent)
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return cfg, nil
}

// Default returns a fresh config built from the embedded defaults only,
// without touching the global. Useful for tests and one-off simulations.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
