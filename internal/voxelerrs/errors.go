// Package voxelerrs defines the sentinel error kinds surfaced by the
// voxel engine core. Through the public World API, ErrUnloaded (from
// SetVoxel), ErrOutOfBounds (from GetVoxel/SetVoxel) and ErrCacheIO (from
// NewWorld and Regenerate) can reach the embedding application; the
// other kinds are handled inside the manager, which logs a job refused
// with ErrPoolShutdown rather than returning it.
package voxelerrs

import "errors"

var (
	// ErrOutOfBounds is returned by local indexing operations (VoxelStore,
	// Chunk) when a coordinate falls outside the store's bounds.
	ErrOutOfBounds = errors.New("voxelcore: out of bounds")

	// ErrUnloaded is returned when an operation targets a chunk that is
	// no longer in the active set.
	ErrUnloaded = errors.New("voxelcore: chunk unloaded")

	// ErrStaleNeighbor is returned by a mesh job whose neighbor snapshot
	// no longer matches live state; the manager re-enqueues on this error.
	ErrStaleNeighbor = errors.New("voxelcore: stale neighbor")

	// ErrMemberGone is returned by a region combine job when a member
	// chunk's weak reference was cleared mid-combine.
	ErrMemberGone = errors.New("voxelcore: region member gone")

	// ErrCacheIO is returned by ChunkCache operations on I/O failure.
	ErrCacheIO = errors.New("voxelcore: chunk cache I/O error")

	// ErrTerrainSource is returned when a TerrainSource implementation
	// fails to populate a chunk.
	ErrTerrainSource = errors.New("voxelcore: terrain source error")

	// ErrPoolShutdown is returned when a job is submitted to a worker
	// pool after Shutdown has been called.
	ErrPoolShutdown = errors.New("voxelcore: pool shutdown")

	// ErrNothingToBuild is returned by a region combine when every
	// member chunk is empty.
	ErrNothingToBuild = errors.New("voxelcore: nothing to build")
)
