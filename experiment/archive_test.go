package experiment

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pthm-cable/swarm/metrics"
	"github.com/pthm-cable/swarm/sim"
)

func TestArchiveRoundtrip(t *testing.T) {
	dir := t.TempDir()

	a := Archive{
		RunID:      "test-run",
		Experiment: "baseline",
		Condition:  "standard",
		Agents:     3,
		GridWidth:  50,
		GridHeight: 50,
		Seed:       42,
		Timesteps:  2,
		CreatedAt:  "2025-01-01T00:00:00Z",
		Records: []metrics.Record{
			metrics.Compute(1, []metrics.Sample{{VelX: 0.5}, {VelX: -0.5}, {VelY: 0.1}}),
			metrics.Compute(2, []metrics.Sample{{VelX: 0.5}}),
		},
		FinalState: []sim.AgentState{
			{ID: 0, X: 1.5, Y: 2.5, VelX: 0.5, Energy: 99.5},
		},
	}

	path, err := WriteArchive(dir, "baseline_standard", a)
	if err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}
	if !strings.HasSuffix(path, "baseline_standard.json.zst") {
		t.Errorf("unexpected archive path %q", path)
	}

	got, err := ReadArchive(path)
	if err != nil {
		t.Fatalf("ReadArchive: %v", err)
	}

	if got.Version != ArchiveVersion {
		t.Errorf("version = %d, want %d", got.Version, ArchiveVersion)
	}
	if got.RunID != a.RunID || got.Condition != a.Condition || got.Seed != a.Seed {
		t.Errorf("metadata mismatch: %+v", got)
	}
	if !reflect.DeepEqual(got.Records, a.Records) {
		t.Errorf("records mismatch:\ngot  %+v\nwant %+v", got.Records, a.Records)
	}
	if !reflect.DeepEqual(got.FinalState, a.FinalState) {
		t.Errorf("final state mismatch:\ngot  %+v\nwant %+v", got.FinalState, a.FinalState)
	}
}

func TestReadArchiveMissing(t *testing.T) {
	if _, err := ReadArchive(filepath.Join(t.TempDir(), "nope.json.zst")); err == nil {
		t.Error("expected error for missing archive")
	}
}
