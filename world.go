// Package voxelcore is the public facade over the engine: it assembles
// VoxelTypeTable, TerrainSource, the worker pool, occlusion culler,
// region batcher and chunk manager into one embeddable World, the way
// the reference project's cmd/mini-mc wires its internal/ packages
// together in main.go/setup.go — except here the wiring itself is a
// reusable package rather than a one-off main().
package voxelcore

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/manager"
	"voxelcore/internal/terrain"
	"voxelcore/internal/voxeltype"
)

// World is the engine's single embeddable handle: one observer, one
// streamed chunk grid, one worker pool. All of its methods are meant to
// be called from a single goroutine (the host application's render/
// simulation thread); the worker pool's own goroutines never call back
// into World.
type World struct {
	m *manager.Manager
}

// NewWorld builds a World around a voxel type table and terrain source.
// table describes every voxel id the embedding intends to use; src
// supplies chunk content (terrain.NewNoiseSource is a ready reference
// implementation). Passing a nil logger runs with slog's default
// logger.
func NewWorld(table *voxeltype.Table, src terrain.Source, cfg Config, log *slog.Logger) (*World, error) {
	m, err := manager.New(table, src, cfg, log)
	if err != nil {
		return nil, err
	}
	return &World{m: m}, nil
}

// Close shuts down the worker pool and, if a cache path was configured,
// closes the on-disk chunk cache. A World must not be used after Close.
func (w *World) Close() error {
	return w.m.Close()
}

// SetObserverPosition updates the point streaming, priority and
// occlusion are computed relative to. Call this once per frame before
// Tick.
func (w *World) SetObserverPosition(pos mgl32.Vec3) {
	w.m.SetObserverPosition(pos)
}

// Tick advances streaming, drains a bounded number of completed worker
// jobs, and refreshes occlusion. Call once per frame/simulation step.
func (w *World) Tick() {
	w.m.Tick()
}

// GetVoxel reads the cell type at an absolute world-space cell
// coordinate. Cells in unloaded chunks read as voxeltype.Air.
func (w *World) GetVoxel(worldX, worldY, worldZ int64) (voxeltype.ID, error) {
	return w.m.GetVoxel(worldX, worldY, worldZ)
}

// SetVoxel writes the cell type at an absolute world-space cell
// coordinate, triggering a re-mesh of the owning chunk and any affected
// neighbor. Returns voxelerrs.ErrUnloaded if the target chunk is not
// currently active.
func (w *World) SetVoxel(worldX, worldY, worldZ int64, id voxeltype.ID) error {
	return w.m.SetVoxel(worldX, worldY, worldZ, id)
}

// Regenerate discards every active chunk and, if a chunk cache is
// configured, its on-disk contents for the current seed, so the next
// Tick rebuilds the needed set entirely from TerrainSource.
func (w *World) Regenerate() error {
	return w.m.Regenerate()
}

// Clear discards every active chunk without touching the on-disk cache.
func (w *World) Clear() error {
	return w.m.Clear()
}

// Stats reports the embedding-facing counters of spec.md §6.
func (w *World) Stats() Stats {
	return w.m.Stats()
}

// VisibleRegionMeshes returns the combined mesh of every region the
// occlusion culler currently considers reachable from the observer. The
// renderer must not mutate the returned slices.
func (w *World) VisibleRegionMeshes() []RegionMesh {
	return w.m.VisibleRegionMeshes()
}
