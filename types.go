package voxelcore

import (
	"voxelcore/internal/terrain"
	"voxelcore/internal/voxeltype"
)

// VoxelID is a voxel type id; 0 (Air) is always reserved.
type VoxelID = voxeltype.ID

// Air is the reserved empty voxel id.
const Air = voxeltype.Air

// VoxelProperties describes one voxel type's static rendering/physical
// attributes.
type VoxelProperties = voxeltype.Properties

// VoxelTypeTable is the frozen-after-init registry mapping voxel ids to
// VoxelProperties (spec.md §4.1).
type VoxelTypeTable = voxeltype.Table

// NewVoxelTypeTable builds a frozen table from the given entries. Entries
// need not include Air; it is always present as transparent, non-solid.
func NewVoxelTypeTable(entries map[VoxelID]VoxelProperties) *VoxelTypeTable {
	return voxeltype.NewTable(entries)
}

// TerrainSource is the core's inbound dependency (spec.md §6): a pure,
// thread-safe function from (chunk coordinate, world seed) to a filled
// VoxelStore. Embeddings may supply their own; NewNoiseTerrainSource is
// a ready reference implementation.
type TerrainSource = terrain.Source

// NewNoiseTerrainSource returns a reference TerrainSource driven by
// fractal value noise over X/Z, stratifying stone/dirt/grass beneath a
// generated height field.
func NewNoiseTerrainSource(stone, dirt, grass VoxelID) *terrain.NoiseSource {
	return terrain.NewNoiseSource(stone, dirt, grass)
}
