package sim

import (
	"math"

	"github.com/pthm-cable/swarm/components"
)

// spawnAgents creates the initial population. Per agent, the random stream is
// consumed in a fixed order: posX, posY, velX, velY. Agents live in a single
// archetype and are never removed, so query iteration follows creation order
// for the lifetime of the run.
func (s *Simulation) spawnAgents() {
	sigma := s.cfg.Agent.VelocitySigma
	initialEnergy := s.cfg.Agent.InitialEnergy

	for i := 0; i < s.nAgents; i++ {
		agent := components.Agent{ID: uint32(i)}
		pos := components.Position{
			X: s.rng.Float64() * s.wrap,
			Y: s.rng.Float64() * s.wrap,
		}
		vel := components.Velocity{
			X: s.rng.NormFloat64() * sigma,
			Y: s.rng.NormFloat64() * sigma,
		}
		energy := components.Energy{Value: initialEnergy}
		memory := components.Memory{}
		signals := components.Signals{}

		s.agentMapper.NewEntity(&agent, &pos, &vel, &energy, &memory, &signals)
	}
}

// updateAgents applies the per-tick update to every active agent, in
// population order. Each update touches only that agent's own components, so
// the pass has no cross-agent ordering dependency.
//
// The rule is the placeholder baseline: fixed energy decay, straight-line
// drift, toroidal wrap. Velocity is never steered and inactive agents stay
// frozen at their last-updated state. Energy has no floor check here; it can
// dip below zero by one decay step before the next tick's active check
// excludes the agent.
func (s *Simulation) updateAgents() {
	decay := s.cfg.Agent.EnergyDecay

	query := s.agentFilter.Query()
	for query.Next() {
		_, pos, vel, energy, _, _ := query.Get()

		if !energy.Active() {
			continue
		}

		energy.Value -= decay

		pos.X = mod(pos.X+vel.X, s.wrap)
		pos.Y = mod(pos.Y+vel.Y, s.wrap)
	}
}

// mod returns the positive modulo, mapping any real coordinate into [0, b).
// math.Mod keeps the dividend's sign, so negative results are shifted up.
func mod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m < 0 {
		m += b
	}
	return m
}
