// Package chunk implements the per-chunk record: coordinate, voxel
// storage, lifecycle state, neighbor links and cached mesh arrays. It
// generalizes the reference project's internal/world.Chunk (a fixed
// 16x256x16 block of lazily-allocated sections) into the adaptive,
// state-machine-driven record spec.md §3/§4.3 requires.
package chunk

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/voxelstore"
	"voxelcore/internal/voxeltype"
)

// Size is the fixed horizontal chunk side length, S in spec.md §3.
const Size = 16

// State is a chunk's lifecycle stage. Only ChunkManager may transition
// a chunk's state; workers return artifacts, never state changes
// (spec.md §4.3).
type State uint8

const (
	Unloaded State = iota
	Pending
	Generating
	Meshing
	Active
	Unloading
)

func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Pending:
		return "pending"
	case Generating:
		return "generating"
	case Meshing:
		return "meshing"
	case Active:
		return "active"
	case Unloading:
		return "unloading"
	default:
		return "unknown"
	}
}

// MeshArrays is the GPU-ready output of a mesh build: a triangle list in
// five parallel arrays plus indices, matching spec.md §4.4's output
// contract (the reference project instead packs two uint32s per vertex;
// this generalizes that packed format into the plain arrays the spec
// mandates).
type MeshArrays struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Colors    []float32
	Indices   []uint32
}

// VertexCount returns the number of vertices in the bundle.
func (m MeshArrays) VertexCount() int {
	return len(m.Positions) / 3
}

// Empty reports whether the bundle carries no geometry.
func (m MeshArrays) Empty() bool {
	return len(m.Indices) == 0
}

// Chunk is one S x H x S block of voxels plus its lifecycle and linkage
// state. Per spec.md §9's re-architecture guidance, neighbor links are
// stored as coordinates (resolved through the manager's active-chunk
// map), never as raw pointers into another Chunk.
type Chunk struct {
	Coord Coord
	Store *voxelstore.Store
	State State

	// Generation is bumped every time this Chunk struct is recycled
	// from the pool for a new coordinate. Jobs snapshot it at enqueue
	// time; the manager compares it on completion to detect that the
	// struct was recycled out from under a still-running job.
	Generation uint64

	neighbors [6]linkedCoord

	Mesh MeshArrays

	VoxelDirty bool
	MeshDirty  bool
}

type linkedCoord struct {
	coord Coord
	set   bool
}

// New creates an Unloaded chunk at coord with a uniform-AIR store sized
// for coord's zone.
func New(coord Coord) *Chunk {
	c := &Chunk{Coord: coord}
	c.reinit(coord)
	return c
}

func (c *Chunk) reinit(coord Coord) {
	h := HeightForChunkY(coord.Y)
	c.Coord = coord
	c.Store = voxelstore.New(Size, h, Size)
	c.State = Unloaded
	c.neighbors = [6]linkedCoord{}
	c.Mesh = MeshArrays{}
	c.VoxelDirty = false
	c.MeshDirty = false
}

// Reset reinitializes a pooled Chunk for reuse at a new coordinate and
// bumps its generation tag, invalidating any handle captured before the
// reset (spec.md §9: "Recycled chunks MUST have their state reset and a
// new generation tag to invalidate stale weak references").
func (c *Chunk) Reset(coord Coord) {
	c.Generation++
	c.reinit(coord)
}

// Get reads a cell at local coordinates.
func (c *Chunk) Get(x, y, z int) (voxeltype.ID, error) {
	return c.Store.Get(x, y, z)
}

// Set writes a cell at local coordinates and marks the chunk voxel- and
// mesh-dirty. It does not mark neighbors dirty; that cross-chunk
// propagation is the manager's responsibility (spec.md §4.8 edit
// protocol), since only the manager knows which neighbor is linked.
func (c *Chunk) Set(x, y, z int, id voxeltype.ID) error {
	if err := c.Store.Set(x, y, z, id); err != nil {
		return err
	}
	c.VoxelDirty = true
	c.MeshDirty = true
	return nil
}

func (c *Chunk) MarkMeshDirty()   { c.MeshDirty = true }
func (c *Chunk) ClearMeshDirty()  { c.MeshDirty = false }
func (c *Chunk) MarkVoxelDirty()  { c.VoxelDirty = true }
func (c *Chunk) ClearVoxelDirty() { c.VoxelDirty = false }

// SetNeighbor links (or unlinks, if ok is false) the neighbor in
// direction d. Only ChunkManager calls this, always on both sides of a
// pair to preserve the bidirectional invariant (spec.md §4.3).
func (c *Chunk) SetNeighbor(d Dir, coord Coord, ok bool) {
	c.neighbors[d] = linkedCoord{coord: coord, set: ok}
}

// GetNeighbor returns the coordinate linked in direction d, if any.
func (c *Chunk) GetNeighbor(d Dir) (Coord, bool) {
	n := c.neighbors[d]
	return n.coord, n.set
}

// WorldAABB returns the chunk's axis-aligned bounding box in world space.
func (c *Chunk) WorldAABB() (min, max mgl32.Vec3) {
	h := HeightForChunkY(c.Coord.Y)
	yOrigin := ChunkYWorldOrigin(c.Coord.Y)
	min = mgl32.Vec3{float32(c.Coord.X) * Size, float32(yOrigin), float32(c.Coord.Z) * Size}
	max = min.Add(mgl32.Vec3{Size, float32(h), Size})
	return min, max
}

// WorldOrigin returns the chunk's minimum corner in world space, used by
// region combining to offset child vertex positions.
func (c *Chunk) WorldOrigin() mgl32.Vec3 {
	min, _ := c.WorldAABB()
	return min
}

// IsEmpty reports whether the chunk's store is uniformly AIR.
func (c *Chunk) IsEmpty() bool {
	id, uniform := c.Store.IsUniform()
	return uniform && id == voxeltype.Air
}

// IsFullyOpaque reports whether every cell in the chunk is opaque: true
// for a uniform store holding an opaque id, or a dense store where every
// cell is opaque.
func (c *Chunk) IsFullyOpaque(table *voxeltype.Table) bool {
	if id, uniform := c.Store.IsUniform(); uniform {
		return table.IsOpaque(id)
	}
	raw, _ := c.Store.Raw()
	for _, id := range raw {
		if !table.IsOpaque(id) {
			return false
		}
	}
	return true
}

// Height returns the chunk's fixed vertical extent.
func (c *Chunk) Height() int {
	return HeightForChunkY(c.Coord.Y)
}
