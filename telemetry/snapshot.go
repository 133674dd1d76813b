package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the explored state of a run. Terrain itself is not stored:
// chunks regenerate bit-identically from the seed and layout, so only
// visibility needs saving.
type Snapshot struct {
	Version int `json:"version"`

	Seed         uint32  `json:"seed"`
	ChunkSize    float64 `json:"chunk_size"`
	TilesPerSide int     `json:"tiles_per_side"`

	Tick int32 `json:"tick"`

	CameraX    float64 `json:"camera_x"`
	CameraY    float64 `json:"camera_y"`
	CameraZoom float64 `json:"camera_zoom"`

	Chunks []ChunkState `json:"chunks"`
	Units  []UnitState  `json:"units"`
}

// ChunkState holds one generated chunk's visibility bytes, row-major.
type ChunkState struct {
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Visibility []byte `json:"visibility"`
}

// UnitState holds one unit's position and goal.
type UnitState struct {
	ID      uint32  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Speed   float64 `json:"speed"`
	LOS     float64 `json:"los"`
	TargetX float64 `json:"target_x"`
	TargetY float64 `json:"target_y"`
	Active  bool    `json:"active"`
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Tick))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", snapshot.Version)
	}

	return &snapshot, nil
}
