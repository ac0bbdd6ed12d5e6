// Package experiment orchestrates simulation runs: the baseline comparison
// conditions and the swarm-size scaling sweep. It only drives the core's
// Step/Run operations and serializes the returned metric records; all
// simulation semantics live in the sim package.
package experiment

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/swarm/config"
	"github.com/pthm-cable/swarm/metrics"
	"github.com/pthm-cable/swarm/sim"
	"github.com/pthm-cable/swarm/store"
)

// Runner executes experiments and persists their results.
// The output manager and database are both optional; a nil store disables
// SQLite persistence and a nil output manager disables file output.
type Runner struct {
	cfg *config.Config
	out *metrics.OutputManager
	db  *store.DB
}

// NewRunner creates an experiment runner.
func NewRunner(cfg *config.Config, out *metrics.OutputManager, db *store.DB) *Runner {
	return &Runner{cfg: cfg, out: out, db: db}
}

// RunBaseline runs every baseline comparison condition. All conditions
// currently execute the same placeholder rule set; per-condition policies
// plug in here once agent behavior is specified.
func (r *Runner) RunBaseline() error {
	base := r.cfg.Experiments.Baseline
	for _, condition := range base.Conditions {
		name := "baseline_" + condition
		if err := r.runCondition("baseline", condition, name, base.Agents, base.Timesteps); err != nil {
			return fmt.Errorf("baseline %s: %w", condition, err)
		}
	}
	return nil
}

// RunScaling runs the swarm-size scaling sweep.
func (r *Runner) RunScaling() error {
	scaling := r.cfg.Experiments.Scaling
	for _, size := range scaling.Sizes {
		condition := fmt.Sprintf("size_%d", size)
		name := fmt.Sprintf("scaling_%d", size)
		if err := r.runCondition("scaling", condition, name, size, scaling.Timesteps); err != nil {
			return fmt.Errorf("scaling %s: %w", condition, err)
		}
	}
	return nil
}

// RunAll runs the baseline experiments followed by the scaling sweep.
func (r *Runner) RunAll() error {
	if err := r.RunBaseline(); err != nil {
		return err
	}
	return r.RunScaling()
}

// runCondition executes one simulation and persists its history under the
// given output name.
func (r *Runner) runCondition(experiment, condition, name string, agents, timesteps int) error {
	runID := uuid.NewString()

	s, err := sim.New(r.cfg, sim.Options{Agents: agents})
	if err != nil {
		return err
	}

	gridW, gridH := s.GridSize()
	slog.Info("running simulation",
		"run_id", runID,
		"experiment", experiment,
		"condition", condition,
		"agents", agents,
		"grid", fmt.Sprintf("%dx%d", gridW, gridH),
		"seed", s.Seed(),
		"timesteps", timesteps,
	)

	start := time.Now()
	interval := r.cfg.Telemetry.ProgressInterval

	var last metrics.Record
	for t := 0; t < timesteps; t++ {
		last = s.Step()
		if interval > 0 && (t+1)%interval == 0 {
			slog.Info("progress",
				"condition", condition,
				"timestep", t+1,
				"of", timesteps,
				"record", last,
			)
		}
	}

	history := s.History()
	slog.Info("simulation complete",
		"run_id", runID,
		"condition", condition,
		"elapsed", time.Since(start).Round(time.Millisecond),
		"final_score", last.ConsciousnessScore,
		"final_active", last.NActive,
	)

	if err := r.out.WriteRecords(name, history); err != nil {
		return err
	}

	meta := store.RunMeta{
		ID:         runID,
		Experiment: experiment,
		Condition:  condition,
		Agents:     agents,
		GridWidth:  gridW,
		GridHeight: gridH,
		Seed:       s.Seed(),
		Timesteps:  timesteps,
	}

	if r.out != nil {
		archive := Archive{
			RunID:      runID,
			Experiment: experiment,
			Condition:  condition,
			Agents:     agents,
			GridWidth:  gridW,
			GridHeight: gridH,
			Seed:       s.Seed(),
			Timesteps:  timesteps,
			CreatedAt:  time.Now().UTC().Format(time.RFC3339),
			Records:    history,
			FinalState: s.AgentStates(),
		}
		if _, err := WriteArchive(r.out.Dir(), name, archive); err != nil {
			return err
		}
	}

	if r.db != nil {
		if err := r.db.SaveRun(meta, history); err != nil {
			return err
		}
	}

	return nil
}
