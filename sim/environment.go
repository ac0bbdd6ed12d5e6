package sim

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/swarm/components"
	"github.com/pthm-cable/swarm/config"
)

// Resource is a static energy source. Current rules never consume resources;
// the value is carried so the schema survives until a consumption rule is
// specified.
type Resource struct {
	Pos   components.Position
	Value float64
}

// Obstacle is static collision geometry. No update rule references obstacles
// yet; they are placed for future collision handling.
type Obstacle struct {
	Pos    components.Position
	Radius float64
}

// Threat moves in a straight line with constant velocity, wrapping
// toroidally, independent of agent state.
type Threat struct {
	Pos components.Position
	Vel components.Velocity
}

// Environment owns the static and dynamic world features on the toroidal
// grid. It is created by the simulation after the agent population so the
// shared random stream is consumed in a stable order.
type Environment struct {
	Resources []Resource
	Obstacles []Obstacle
	Threats   []Threat

	wrap float64
}

// newEnvironment places resources, obstacles, and threats uniformly at
// random. Resource count scales with the population:
// max(round(agents*ratio), min). Draw order per item: posX, posY, then for
// threats velX, velY.
func newEnvironment(rng *rand.Rand, nAgents int, wrap float64, cfg *config.EnvironmentConfig) *Environment {
	env := &Environment{wrap: wrap}

	nResources := int(math.Round(float64(nAgents) * cfg.ResourceRatio))
	if nResources < cfg.MinResources {
		nResources = cfg.MinResources
	}

	env.Resources = make([]Resource, 0, nResources)
	for i := 0; i < nResources; i++ {
		env.Resources = append(env.Resources, Resource{
			Pos: components.Position{
				X: rng.Float64() * wrap,
				Y: rng.Float64() * wrap,
			},
			Value: cfg.ResourceValue,
		})
	}

	env.Obstacles = make([]Obstacle, 0, cfg.Obstacles)
	for i := 0; i < cfg.Obstacles; i++ {
		env.Obstacles = append(env.Obstacles, Obstacle{
			Pos: components.Position{
				X: rng.Float64() * wrap,
				Y: rng.Float64() * wrap,
			},
			Radius: cfg.ObstacleRadius,
		})
	}

	env.Threats = make([]Threat, 0, cfg.Threats)
	for i := 0; i < cfg.Threats; i++ {
		env.Threats = append(env.Threats, Threat{
			Pos: components.Position{
				X: rng.Float64() * wrap,
				Y: rng.Float64() * wrap,
			},
			Vel: components.Velocity{
				X: rng.NormFloat64() * cfg.ThreatVelocitySigma,
				Y: rng.NormFloat64() * cfg.ThreatVelocitySigma,
			},
		})
	}

	return env
}

// advanceThreats moves each threat by its constant velocity with toroidal
// wrap, exactly like an agent position update.
func (e *Environment) advanceThreats() {
	for i := range e.Threats {
		t := &e.Threats[i]
		t.Pos.X = mod(t.Pos.X+t.Vel.X, e.wrap)
		t.Pos.Y = mod(t.Pos.Y+t.Vel.Y, e.wrap)
	}
}
