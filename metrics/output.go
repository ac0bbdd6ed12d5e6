package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/swarm/config"
)

// OutputManager handles structured experiment output with CSV logging.
// Each experimental condition gets its own records file in the output
// directory; the effective configuration is snapshotted alongside.
type OutputManager struct {
	dir string
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &OutputManager{dir: dir}, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	configPath := filepath.Join(om.dir, "config.yaml")
	return cfg.WriteYAML(configPath)
}

// WriteRecords writes the full metrics history for one condition to
// <name>.csv, header included.
func (om *OutputManager) WriteRecords(name string, records []Record) error {
	if om == nil {
		return nil
	}

	path := filepath.Join(om.dir, name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.Marshal(records, f); err != nil {
		return fmt.Errorf("writing records: %w", err)
	}

	return nil
}

// ReadRecords loads a records CSV written by WriteRecords.
func (om *OutputManager) ReadRecords(name string) ([]Record, error) {
	if om == nil {
		return nil, nil
	}

	path := filepath.Join(om.dir, name+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []Record
	if err := gocsv.Unmarshal(f, &records); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	return records, nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}
