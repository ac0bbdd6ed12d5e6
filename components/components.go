// Package components defines the ECS components that make up a swarm agent.
package components

// Agent carries the stable identity of a swarm member.
// IDs are assigned in creation order and never reused.
type Agent struct {
	ID uint32
}

// Position is an agent's location on the toroidal grid, in [0, grid) per axis.
type Position struct {
	X, Y float64
}

// Velocity is an agent's per-tick displacement. Not bounded; the baseline
// update rule never changes it after initialization.
type Velocity struct {
	X, Y float64
}

// Energy is an agent's remaining energy budget. It decays by a fixed amount
// per active tick and is never replenished. An agent with Value <= 0 is
// inactive: skipped by the update pass, excluded from metrics, and frozen at
// its last-updated state. The value may dip below zero by up to one decay
// step before the next tick's active check catches it.
type Energy struct {
	Value float64
}

// Active reports whether the agent still participates in updates and metrics.
func (e Energy) Active() bool {
	return e.Value > 0
}

// MemoryEvent is one opaque entry in an agent's memory trace.
// No current rule reads or writes memory; the component exists so the agent
// record schema stays stable once signaling rules land.
type MemoryEvent struct {
	Tick int32
	Kind uint8
}

// Memory is an agent's ordered memory trace.
type Memory struct {
	Events []MemoryEvent
}

// Signals counts inter-agent signals received. The baseline rules never
// increment it, so information flow reads 0 until a signaling rule exists.
type Signals struct {
	Received int
}
