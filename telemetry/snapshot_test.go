package telemetry

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version:      SnapshotVersion,
		Seed:         616,
		ChunkSize:    100,
		TilesPerSide: 4,
		Tick:         1000,
		CameraX:      -12.5,
		CameraY:      40,
		CameraZoom:   4,
		Chunks: []ChunkState{
			{X: 0, Y: 0, Visibility: []byte{0, 1, 1, 2, 0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 0, 2}},
			{X: -1, Y: 3, Visibility: make([]byte, 16)},
		},
		Units: []UnitState{
			{ID: 1, X: 10, Y: 20, Speed: 6, LOS: 14, TargetX: 30, TargetY: -5, Active: true},
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if filepath.Base(path) != "snapshot_1000.json" {
		t.Errorf("unexpected snapshot name %s", filepath.Base(path))
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Seed != 616 || loaded.TilesPerSide != 4 || loaded.Tick != 1000 {
		t.Errorf("header mismatch: %+v", loaded)
	}
	if loaded.CameraX != -12.5 || loaded.CameraZoom != 4 {
		t.Errorf("camera mismatch: %v %v", loaded.CameraX, loaded.CameraZoom)
	}
	if len(loaded.Chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(loaded.Chunks))
	}
	for i, c := range loaded.Chunks {
		want := snapshot.Chunks[i]
		if c.X != want.X || c.Y != want.Y || !bytes.Equal(c.Visibility, want.Visibility) {
			t.Errorf("chunk %d mismatch: %+v", i, c)
		}
	}
	if len(loaded.Units) != 1 || loaded.Units[0] != snapshot.Units[0] {
		t.Errorf("units mismatch: %+v", loaded.Units)
	}
}

func TestLoadSnapshotRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version": 99}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSnapshot(path); err == nil {
		t.Error("expected version error")
	}
}

func TestLoadSnapshotMissing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
