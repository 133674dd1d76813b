package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/fogland/config"
)

// OutputManager owns a run's output directory: telemetry.csv, perf.csv,
// config.yaml and snapshots/. A nil manager discards everything.
type OutputManager struct {
	dir       string
	telemetry *CSVLog[WindowStats]
	perf      *CSVLog[PerfStatsCSV]
}

// NewOutputManager creates dir and opens the CSV logs. It returns a nil
// manager when dir is empty.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	tl, err := CreateCSVLog[WindowStats](filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		return nil, err
	}
	pl, err := CreateCSVLog[PerfStatsCSV](filepath.Join(dir, "perf.csv"))
	if err != nil {
		tl.Close()
		return nil, err
	}
	return &OutputManager{dir: dir, telemetry: tl, perf: pl}, nil
}

// WriteConfig saves the run configuration as config.yaml.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry appends a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.Append(stats); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf appends a perf record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := om.perf.Append(stats.ToCSV(windowEnd)); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteSnapshot saves an exploration snapshot under snapshots/.
func (om *OutputManager) WriteSnapshot(snap *Snapshot) (string, error) {
	if om == nil || snap == nil {
		return "", nil
	}
	return SaveSnapshot(snap, filepath.Join(om.dir, "snapshots"))
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes both CSV logs. Calling it twice is safe.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.telemetry.Close(), om.perf.Close())
}
