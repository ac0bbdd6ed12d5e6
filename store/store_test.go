package store

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/pthm-cable/swarm/metrics"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveLoadRoundtrip(t *testing.T) {
	db := openTestDB(t)

	records := []metrics.Record{
		metrics.Compute(1, []metrics.Sample{{VelX: 0.3, VelY: -0.1}, {VelX: 0.2, VelY: 0.0}}),
		metrics.Compute(2, []metrics.Sample{{VelX: 0.3, VelY: -0.1}}),
	}
	meta := RunMeta{
		ID:         uuid.NewString(),
		Experiment: "baseline",
		Condition:  "standard",
		Agents:     2,
		GridWidth:  50,
		GridHeight: 50,
		Seed:       42,
		Timesteps:  2,
	}

	if err := db.SaveRun(meta, records); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := db.LoadRecords(meta.ID)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("loaded %d records, want %d", len(got), len(records))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Errorf("record %d: got %+v, want %+v", i, got[i], records[i])
		}
	}
}

func TestSaveDegenerateRecords(t *testing.T) {
	// Degenerate records carry a zero timestep; storage keys them by history
	// position so ordering survives.
	db := openTestDB(t)

	records := []metrics.Record{
		metrics.Compute(1, []metrics.Sample{{VelX: 0.1}}),
		{},
		{},
	}
	meta := RunMeta{ID: uuid.NewString(), Experiment: "baseline", Condition: "standard",
		Agents: 1, GridWidth: 50, GridHeight: 50, Seed: 1, Timesteps: 3}

	if err := db.SaveRun(meta, records); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := db.LoadRecords(meta.ID)
	if err != nil {
		t.Fatalf("LoadRecords: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("loaded %d records, want 3", len(got))
	}
	for i := 1; i < 3; i++ {
		if got[i].NActive != 0 || got[i].ConsciousnessScore != 0 {
			t.Errorf("record %d should be degenerate, got %+v", i, got[i])
		}
	}
}

func TestListRuns(t *testing.T) {
	db := openTestDB(t)

	for _, condition := range []string{"standard", "random"} {
		meta := RunMeta{
			ID: uuid.NewString(), Experiment: "baseline", Condition: condition,
			Agents: 5, GridWidth: 50, GridHeight: 50, Seed: 42, Timesteps: 1,
		}
		if err := db.SaveRun(meta, []metrics.Record{metrics.Compute(1, []metrics.Sample{{}})}); err != nil {
			t.Fatalf("SaveRun(%s): %v", condition, err)
		}
	}

	runs, err := db.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("listed %d runs, want 2", len(runs))
	}
	for _, run := range runs {
		if run.Experiment != "baseline" || run.CreatedAt == "" {
			t.Errorf("unexpected run meta: %+v", run)
		}
	}
}

func TestDuplicateRunID(t *testing.T) {
	db := openTestDB(t)

	meta := RunMeta{ID: "fixed", Experiment: "baseline", Condition: "standard",
		Agents: 1, GridWidth: 50, GridHeight: 50, Seed: 1, Timesteps: 0}

	if err := db.SaveRun(meta, nil); err != nil {
		t.Fatalf("first SaveRun: %v", err)
	}
	if err := db.SaveRun(meta, nil); err == nil {
		t.Error("expected primary key violation on duplicate run id")
	}
}
