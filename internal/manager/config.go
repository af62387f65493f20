package manager

import "voxelcore/internal/occlusion"

// Config mirrors spec.md §6's VoxelWorld::new(config) field list. It is
// a plain struct passed at construction rather than a package-level
// global, unlike the reference project's internal/config (a
// process-wide *RenderSettings) -- the core must be embeddable, not a
// singleton (SPEC_FULL.md §4.9).
type Config struct {
	RenderDistanceHorizontal int32
	RenderDistanceVertical   int32
	WorkerThreadCount        int
	WorldSeed                int64
	MaxChunksPerFrame        int
	MaxChunkMeshPerFrame     int
	MaxRegionCombinePerFrame int
	UpdateThreshold          float32
	UseThreading             bool
	OcclusionMode            occlusion.Mode

	// CachePath, if non-empty, opens a LevelDB-backed ChunkCache there.
	// Leaving it empty runs with persistence disabled (every chunk is
	// always regenerated from TerrainSource).
	CachePath string
}

// DefaultConfig returns the reference values from spec.md §4.8/§5:
// horizontal radius 8, vertical radius 4, 4 worker threads, update
// threshold 8 world units, per-frame budgets of 4 generations / 8 mesh
// completions / 2 region-combine completions.
func DefaultConfig(seed int64) Config {
	return Config{
		RenderDistanceHorizontal: 8,
		RenderDistanceVertical:   4,
		WorkerThreadCount:        4,
		WorldSeed:                seed,
		MaxChunksPerFrame:        4,
		MaxChunkMeshPerFrame:     8,
		MaxRegionCombinePerFrame: 2,
		UpdateThreshold:          8,
		UseThreading:             true,
		OcclusionMode:            occlusion.FloodFill,
	}
}
