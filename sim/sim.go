// Package sim implements the core swarm simulation state machine: agent and
// environment initialization, the per-timestep update rule, and the metrics
// hookup. A Simulation is the unit of reproducibility: all randomness comes
// from a single seeded stream owned by the instance, so identical options
// produce bit-identical runs.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/swarm/components"
	"github.com/pthm-cable/swarm/config"
	"github.com/pthm-cable/swarm/metrics"
)

// Options selects per-run parameters. Zero values fall back to the
// corresponding config defaults, so the experiment driver only overrides
// what a condition actually varies.
type Options struct {
	Agents     int
	GridWidth  int
	GridHeight int
	Seed       int64
}

// Simulation owns the agent population, the environment, and the metrics
// history for one run. It is strictly single-threaded: Step and Run must not
// be called concurrently.
//
// The controller has no terminal state; Run may be called repeatedly and each
// call continues from the current tick, appending to the same history.
type Simulation struct {
	world *ecs.World
	rng   *rand.Rand
	cfg   *config.Config

	agentMapper *ecs.Map6[
		components.Agent,
		components.Position,
		components.Velocity,
		components.Energy,
		components.Memory,
		components.Signals,
	]
	agentFilter *ecs.Filter6[
		components.Agent,
		components.Position,
		components.Velocity,
		components.Energy,
		components.Memory,
		components.Signals,
	]

	env *Environment

	tick    int
	history []metrics.Record

	nAgents      int
	gridW, gridH int
	wrap         float64
	seed         int64
}

// New constructs a simulation from config plus per-run options.
// It fails fast on degenerate inputs instead of producing undefined metrics.
//
// Initialization consumes the random stream in a fixed order: agents first
// (in id order), then resources, obstacles, threats. That order is part of
// the reproducibility contract.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	nAgents := opts.Agents
	if nAgents == 0 {
		nAgents = cfg.Simulation.Agents
	}
	gridW := opts.GridWidth
	if gridW == 0 {
		gridW = cfg.Simulation.GridWidth
	}
	gridH := opts.GridHeight
	if gridH == 0 {
		gridH = cfg.Simulation.GridHeight
	}
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}

	if nAgents < 1 {
		return nil, fmt.Errorf("sim: agent count must be at least 1, got %d", nAgents)
	}
	if gridW <= 0 || gridH <= 0 {
		return nil, fmt.Errorf("sim: grid size must be positive, got %dx%d", gridW, gridH)
	}

	world := ecs.NewWorld()

	s := &Simulation{
		world: world,
		rng:   rand.New(rand.NewSource(seed)),
		cfg:   cfg,
		agentMapper: ecs.NewMap6[
			components.Agent,
			components.Position,
			components.Velocity,
			components.Energy,
			components.Memory,
			components.Signals,
		](world),
		agentFilter: ecs.NewFilter6[
			components.Agent,
			components.Position,
			components.Velocity,
			components.Energy,
			components.Memory,
			components.Signals,
		](world),
		nAgents: nAgents,
		gridW:   gridW,
		gridH:   gridH,
		// Toroidal wrap uses the first grid dimension on both axes; the grid
		// is assumed square.
		wrap: float64(gridW),
		seed: seed,
	}

	s.spawnAgents()
	s.env = newEnvironment(s.rng, nAgents, s.wrap, &cfg.Environment)

	return s, nil
}

// Step executes one simulation timestep: update every active agent, advance
// the environment, then compute the metrics record from the post-update
// state. The record is appended to the history and returned.
func (s *Simulation) Step() metrics.Record {
	s.tick++

	s.updateAgents()
	s.env.advanceThreats()

	rec := s.computeMetrics()
	s.history = append(s.history, rec)

	return rec
}

// Run executes n timesteps and returns the full accumulated history,
// including records from any prior Step or Run calls on this instance.
func (s *Simulation) Run(n int) []metrics.Record {
	for i := 0; i < n; i++ {
		s.Step()
	}
	return s.history
}

// computeMetrics gathers the active agents' samples in population order and
// hands them to the pure metrics engine. It must run strictly after the
// agent and environment updates for the tick.
func (s *Simulation) computeMetrics() metrics.Record {
	samples := make([]metrics.Sample, 0, s.nAgents)

	query := s.agentFilter.Query()
	for query.Next() {
		_, _, vel, energy, _, sig := query.Get()
		if !energy.Active() {
			continue
		}
		samples = append(samples, metrics.Sample{
			VelX:            vel.X,
			VelY:            vel.Y,
			SignalsReceived: sig.Received,
		})
	}

	return metrics.Compute(s.tick, samples)
}

// History returns the accumulated metrics records, one per executed tick.
// The returned slice is owned by the simulation; callers must not mutate it.
func (s *Simulation) History() []metrics.Record {
	return s.history
}

// Tick returns the current timestep counter.
func (s *Simulation) Tick() int {
	return s.tick
}

// Env returns the simulation's environment.
func (s *Simulation) Env() *Environment {
	return s.env
}

// Agents returns the population size, including inactive agents.
func (s *Simulation) Agents() int {
	return s.nAgents
}

// Seed returns the seed that initialized this simulation's random stream.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// GridSize returns the configured grid dimensions.
func (s *Simulation) GridSize() (w, h int) {
	return s.gridW, s.gridH
}
