package voxelcore

import "voxelcore/internal/voxelerrs"

// Error sentinels an embedding application can match against with
// errors.Is. Per spec.md §7, GetVoxel/SetVoxel are the only World
// methods that can surface ErrOutOfBounds (in practice unreachable
// through the world-space API, since coordinate resolution always
// produces in-bounds local indices; it remains reachable through direct
// internal/voxelstore or internal/chunk use), and SetVoxel is the only
// one that surfaces ErrUnloaded. NewWorld and Regenerate can also return
// a chunk cache I/O error when a cache path is configured. Every other
// failure kind is absorbed internally by ChunkManager's
// retry/drop/re-enqueue policy; no World method returns ErrPoolShutdown.
var (
	ErrOutOfBounds = voxelerrs.ErrOutOfBounds
	ErrUnloaded    = voxelerrs.ErrUnloaded
	ErrPoolShutdown = voxelerrs.ErrPoolShutdown
)
