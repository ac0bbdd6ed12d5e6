package sim

// AgentState holds one agent's externally visible state. Snapshots are
// read-only copies in population order; inactive agents appear with their
// frozen values.
type AgentState struct {
	ID              uint32  `json:"id"`
	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	VelX            float64 `json:"vel_x"`
	VelY            float64 `json:"vel_y"`
	Energy          float64 `json:"energy"`
	SignalsReceived int     `json:"signals_received"`
	MemoryEvents    int     `json:"memory_events"`
}

// AgentStates returns a snapshot of the full population, active and inactive.
func (s *Simulation) AgentStates() []AgentState {
	states := make([]AgentState, 0, s.nAgents)

	query := s.agentFilter.Query()
	for query.Next() {
		agent, pos, vel, energy, memory, sig := query.Get()
		states = append(states, AgentState{
			ID:              agent.ID,
			X:               pos.X,
			Y:               pos.Y,
			VelX:            vel.X,
			VelY:            vel.Y,
			Energy:          energy.Value,
			SignalsReceived: sig.Received,
			MemoryEvents:    len(memory.Events),
		})
	}

	return states
}

// ActiveCount returns the number of agents with positive energy.
func (s *Simulation) ActiveCount() int {
	n := 0
	query := s.agentFilter.Query()
	for query.Next() {
		_, _, _, energy, _, _ := query.Get()
		if energy.Active() {
			n++
		}
	}
	return n
}
