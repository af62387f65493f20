package voxelcore

import (
	"voxelcore/internal/manager"
	"voxelcore/internal/occlusion"
)

// Config is VoxelWorld::new(config)'s field list from spec.md §6:
// streaming radii, worker count, per-frame budgets, and occlusion mode.
// Zone layout and region size are fixed architectural constants
// (internal/chunk and internal/region) rather than config fields in
// this implementation; see DESIGN.md.
type Config = manager.Config

// OcclusionMode selects how VisibleRegionMeshes filters regions.
type OcclusionMode = occlusion.Mode

const (
	OcclusionDisabled  = occlusion.Disabled
	OcclusionRaycast   = occlusion.Raycast
	OcclusionFloodFill = occlusion.FloodFill
)

// DefaultConfig returns the reference tuning: horizontal radius 8,
// vertical radius 4, 4 worker threads, budgets of 4 generations / 8 mesh
// completions / 2 region combines per frame, flood-fill occlusion.
func DefaultConfig(seed int64) Config {
	return manager.DefaultConfig(seed)
}

// Stats is world.stats() from spec.md §6.
type Stats = manager.Stats

// RegionMesh is one iter_visible_region_meshes() entry from spec.md §6.
type RegionMesh = manager.RegionMesh
