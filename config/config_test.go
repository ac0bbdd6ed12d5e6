package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Simulation.Agents != 50 {
		t.Errorf("agents = %d, want 50", cfg.Simulation.Agents)
	}
	if cfg.Simulation.GridWidth != 50 || cfg.Simulation.GridHeight != 50 {
		t.Errorf("grid = %dx%d, want 50x50", cfg.Simulation.GridWidth, cfg.Simulation.GridHeight)
	}
	if cfg.Simulation.Seed != 42 {
		t.Errorf("seed = %d, want 42", cfg.Simulation.Seed)
	}
	if cfg.Agent.InitialEnergy != 100.0 {
		t.Errorf("initial_energy = %v, want 100.0", cfg.Agent.InitialEnergy)
	}
	if cfg.Agent.EnergyDecay != 0.25 {
		t.Errorf("energy_decay = %v, want 0.25", cfg.Agent.EnergyDecay)
	}
	if cfg.Agent.VelocitySigma != 0.5 {
		t.Errorf("velocity_sigma = %v, want 0.5", cfg.Agent.VelocitySigma)
	}
	if cfg.Environment.ResourceRatio != 0.8 {
		t.Errorf("resource_ratio = %v, want 0.8", cfg.Environment.ResourceRatio)
	}
	if cfg.Environment.ResourceValue != 35.0 {
		t.Errorf("resource_value = %v, want 35.0", cfg.Environment.ResourceValue)
	}
	if cfg.Environment.Obstacles != 25 {
		t.Errorf("obstacles = %d, want 25", cfg.Environment.Obstacles)
	}
	if cfg.Environment.ObstacleRadius != 2.0 {
		t.Errorf("obstacle_radius = %v, want 2.0", cfg.Environment.ObstacleRadius)
	}
	if cfg.Environment.Threats != 2 {
		t.Errorf("threats = %d, want 2", cfg.Environment.Threats)
	}
	if cfg.Environment.ThreatVelocitySigma != 0.8 {
		t.Errorf("threat_velocity_sigma = %v, want 0.8", cfg.Environment.ThreatVelocitySigma)
	}

	base := cfg.Experiments.Baseline
	if len(base.Conditions) != 4 || base.Agents != 50 || base.Timesteps != 2000 {
		t.Errorf("unexpected baseline config: %+v", base)
	}
	scaling := cfg.Experiments.Scaling
	if len(scaling.Sizes) != 4 || scaling.Timesteps != 1000 {
		t.Errorf("unexpected scaling config: %+v", scaling)
	}
}

func TestLoadOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	override := `
simulation:
  agents: 120
  seed: 7
`
	if err := os.WriteFile(path, []byte(override), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Simulation.Agents != 120 {
		t.Errorf("agents = %d, want overridden 120", cfg.Simulation.Agents)
	}
	if cfg.Simulation.Seed != 7 {
		t.Errorf("seed = %d, want overridden 7", cfg.Simulation.Seed)
	}
	// Fields absent from the override keep their defaults.
	if cfg.Agent.EnergyDecay != 0.25 {
		t.Errorf("energy_decay = %v, want default 0.25", cfg.Agent.EnergyDecay)
	}
	if cfg.Simulation.GridWidth != 50 {
		t.Errorf("grid_width = %d, want default 50", cfg.Simulation.GridWidth)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.Simulation.Agents = 75

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Simulation.Agents != 75 {
		t.Errorf("agents = %d, want 75", got.Simulation.Agents)
	}
	if got.Agent.EnergyDecay != cfg.Agent.EnergyDecay {
		t.Errorf("energy_decay = %v, want %v", got.Agent.EnergyDecay, cfg.Agent.EnergyDecay)
	}
}
