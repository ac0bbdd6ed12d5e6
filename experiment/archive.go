package experiment

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/pthm-cable/swarm/metrics"
	"github.com/pthm-cable/swarm/sim"
)

// ArchiveVersion is incremented when the archive format changes.
const ArchiveVersion = 1

// Archive is the full, replayable result of one run: metadata, the complete
// metrics history, and the final agent states. Written as zstd-compressed
// JSON next to the per-condition CSV.
type Archive struct {
	Version    int    `json:"version"`
	RunID      string `json:"run_id"`
	Experiment string `json:"experiment"`
	Condition  string `json:"condition"`
	Agents     int    `json:"agents"`
	GridWidth  int    `json:"grid_width"`
	GridHeight int    `json:"grid_height"`
	Seed       int64  `json:"seed"`
	Timesteps  int    `json:"timesteps"`
	CreatedAt  string `json:"created_at"`

	Records    []metrics.Record `json:"records"`
	FinalState []sim.AgentState `json:"final_state,omitempty"`
}

// WriteArchive writes the archive to <dir>/<name>.json.zst and returns the
// path. The write goes through a temp file and rename so a crash never
// leaves a truncated archive behind.
func WriteArchive(dir, name string, a Archive) (string, error) {
	a.Version = ArchiveVersion

	path := filepath.Join(dir, name+".json.zst")
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("creating archive: %w", err)
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("creating zstd writer: %w", err)
	}

	bw := bufio.NewWriterSize(enc, 256*1024)
	if err := json.NewEncoder(bw).Encode(&a); err != nil {
		enc.Close()
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("encoding archive: %w", err)
	}

	if err := bw.Flush(); err != nil {
		enc.Close()
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("flushing archive: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("closing zstd writer: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("closing archive: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("renaming archive: %w", err)
	}

	return path, nil
}

// ReadArchive loads an archive written by WriteArchive.
func ReadArchive(path string) (Archive, error) {
	var a Archive

	f, err := os.Open(path)
	if err != nil {
		return a, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return a, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)
	if err := json.NewDecoder(br).Decode(&a); err != nil {
		return a, fmt.Errorf("decoding archive: %w", err)
	}

	if a.Version != ArchiveVersion {
		return a, fmt.Errorf("unsupported archive version %d", a.Version)
	}

	return a, nil
}
