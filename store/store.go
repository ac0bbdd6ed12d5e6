// Package store provides SQLite-based persistence for experiment runs and
// their metric records.
package store

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/pthm-cable/swarm/metrics"
)

// DB wraps a SQLite connection for experiment result storage.
type DB struct {
	conn *sqlx.DB
}

// RunMeta describes one stored simulation run.
type RunMeta struct {
	ID         string `db:"id"`
	Experiment string `db:"experiment"`
	Condition  string `db:"condition"`
	Agents     int    `db:"agents"`
	GridWidth  int    `db:"grid_width"`
	GridHeight int    `db:"grid_height"`
	Seed       int64  `db:"seed"`
	Timesteps  int    `db:"timesteps"`
	CreatedAt  string `db:"created_at"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		experiment TEXT NOT NULL,
		condition TEXT NOT NULL,
		agents INTEGER NOT NULL,
		grid_width INTEGER NOT NULL,
		grid_height INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		timesteps INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS records (
		run_id TEXT NOT NULL REFERENCES runs(id),
		timestep INTEGER NOT NULL,
		information_flow REAL NOT NULL,
		group_coherence REAL NOT NULL,
		behavioral_diversity REAL NOT NULL,
		exploitation_efficiency REAL NOT NULL,
		consciousness_score REAL NOT NULL,
		n_active INTEGER NOT NULL,
		PRIMARY KEY (run_id, timestep)
	);

	CREATE INDEX IF NOT EXISTS idx_records_run ON records(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun stores a run's metadata and its full metrics history in one
// transaction. Records are keyed by (run_id, position in history); degenerate
// records carry a zero timestep, so the history index keeps them ordered.
func (db *DB) SaveRun(meta RunMeta, records []metrics.Record) error {
	if meta.CreatedAt == "" {
		meta.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NamedExec(`
		INSERT INTO runs (id, experiment, condition, agents, grid_width, grid_height, seed, timesteps, created_at)
		VALUES (:id, :experiment, :condition, :agents, :grid_width, :grid_height, :seed, :timesteps, :created_at)`,
		meta)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO records (run_id, timestep, information_flow, group_coherence,
			behavioral_diversity, exploitation_efficiency, consciousness_score, n_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare records: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		timestep := rec.Timestep
		if timestep == 0 {
			// Degenerate record: keep ordering by history position.
			timestep = i + 1
		}
		_, err := stmt.Exec(meta.ID, timestep,
			rec.InformationFlow, rec.GroupCoherence,
			rec.BehavioralDiversity, rec.ExploitationEfficiency,
			rec.ConsciousnessScore, rec.NActive)
		if err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// LoadRecords returns a run's metric records in timestep order.
func (db *DB) LoadRecords(runID string) ([]metrics.Record, error) {
	rows, err := db.conn.Queryx(`
		SELECT timestep, information_flow, group_coherence, behavioral_diversity,
			exploitation_efficiency, consciousness_score, n_active
		FROM records WHERE run_id = ? ORDER BY timestep`, runID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []metrics.Record
	for rows.Next() {
		var rec metrics.Record
		if err := rows.Scan(&rec.Timestep, &rec.InformationFlow, &rec.GroupCoherence,
			&rec.BehavioralDiversity, &rec.ExploitationEfficiency,
			&rec.ConsciousnessScore, &rec.NActive); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ListRuns returns metadata for all stored runs, newest first.
func (db *DB) ListRuns() ([]RunMeta, error) {
	var runs []RunMeta
	err := db.conn.Select(&runs, `
		SELECT id, experiment, condition, agents, grid_width, grid_height, seed, timesteps, created_at
		FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}
