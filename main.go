package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/swarm/config"
	"github.com/pthm-cable/swarm/experiment"
	"github.com/pthm-cable/swarm/metrics"
	"github.com/pthm-cable/swarm/sim"
	"github.com/pthm-cable/swarm/store"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	experimentName := flag.String("experiment", "all", "Which experiment to run: baseline, scaling, all, or single")
	outputDir := flag.String("output-dir", "data", "Output directory for CSV logs, archives, and config snapshot")
	dbPath := flag.String("db", "", "SQLite database path for run storage (empty = disabled)")
	seed := flag.Int64("seed", 0, "RNG seed override (0 = use config)")
	agents := flag.Int("agents", 0, "Agent count override for -experiment single (0 = use config)")
	timesteps := flag.Int("timesteps", 100, "Timesteps for -experiment single")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	out, err := metrics.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to snapshot config", "error", err)
		os.Exit(1)
	}

	var db *store.DB
	if *dbPath != "" {
		db, err = store.Open(*dbPath)
		if err != nil {
			slog.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	if *experimentName == "single" {
		runSingle(cfg, *agents, *timesteps)
		return
	}

	runner := experiment.NewRunner(cfg, out, db)

	var runErr error
	switch *experimentName {
	case "baseline":
		runErr = runner.RunBaseline()
	case "scaling":
		runErr = runner.RunScaling()
	case "all":
		runErr = runner.RunAll()
	default:
		slog.Error("unknown experiment", "experiment", *experimentName)
		os.Exit(1)
	}

	if runErr != nil {
		slog.Error("experiment failed", "error", runErr)
		os.Exit(1)
	}

	slog.Info("all experiments complete", "output_dir", out.Dir())
}

// runSingle executes one simulation with the configured parameters and logs
// the final record. Useful for a quick look at a configuration.
func runSingle(cfg *config.Config, agents, timesteps int) {
	s, err := sim.New(cfg, sim.Options{Agents: agents})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}

	history := s.Run(timesteps)
	final := history[len(history)-1]

	slog.Info("single run complete",
		"agents", s.Agents(),
		"seed", s.Seed(),
		"timesteps", timesteps,
		"final", final,
	)
}
