// Package systems contains ECS systems for the simulation.
package systems

import "github.com/pthm-cable/fogland/telemetry"

// SystemInfo describes one tick phase for display.
type SystemInfo struct {
	ID          string // Phase name recorded by the perf collector
	Name        string
	Description string
	Category    string // "terrain", "units" or "io"
}

var phaseInfo = map[string]SystemInfo{
	telemetry.PhaseTerrainGen:  {Name: "Terrain", Description: "Generates chunks around the focus and units", Category: "terrain"},
	telemetry.PhaseWindow:      {Name: "Window", Description: "Snapshots the 3x3 chunk window", Category: "terrain"},
	telemetry.PhaseLOS:         {Name: "Line of Sight", Description: "Decays and repaints visibility", Category: "terrain"},
	telemetry.PhasePathfinding: {Name: "Pathfinding", Description: "Plans routes over navigable tiles", Category: "units"},
	telemetry.PhaseMovement:    {Name: "Movement", Description: "Moves units along their routes", Category: "units"},
	telemetry.PhaseTelemetry:   {Name: "Telemetry", Description: "Flushes window stats and perf records", Category: "io"},
}

// SystemRegistry lists the tick phases in execution order.
type SystemRegistry struct {
	systems []SystemInfo
}

// NewSystemRegistry builds the registry from telemetry.Phases.
func NewSystemRegistry() *SystemRegistry {
	r := &SystemRegistry{}
	for _, id := range telemetry.Phases {
		info, ok := phaseInfo[id]
		if !ok {
			info.Name = id
		}
		info.ID = id
		r.systems = append(r.systems, info)
	}
	return r
}

// All returns every phase in tick order.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// Name returns the display name for a phase, or id itself if unknown.
func (r *SystemRegistry) Name(id string) string {
	if info, ok := phaseInfo[id]; ok {
		return info.Name
	}
	return id
}

// IDs returns the phase names in tick order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
