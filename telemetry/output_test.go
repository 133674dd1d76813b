package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager, got %v %v", om, err)
	}
	// Nil receivers are no-ops
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" {
		t.Error("expected empty dir")
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	for tick := int32(10); tick <= 30; tick += 10 {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: tick, Chunks: 9}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,chunks,") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], "30,") {
		t.Errorf("unexpected last row %q", lines[3])
	}
}

func TestOutputManagerSnapshot(t *testing.T) {
	om, err := NewOutputManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	path, err := om.WriteSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 7})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != filepath.Join(om.Dir(), "snapshots") {
		t.Errorf("snapshot written to %s", path)
	}
}

func TestOutputManagerCloseIdempotent(t *testing.T) {
	om, err := NewOutputManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
	if err := om.WriteTelemetry(WindowStats{}); !errors.Is(err, os.ErrClosed) {
		t.Errorf("write after close = %v, want os.ErrClosed", err)
	}
}
