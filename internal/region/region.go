// Package region implements RegionBatcher: grouping RX*RY*RZ chunks
// into one combined mesh per region, folding in each member's cached
// mesh arrays and tracking which members still need folding in. It
// generalizes the reference project's column-mesh combining
// (internal/graphics/renderables/blocks/meshing.go's columnMesh, which
// concatenates a column's chunk meshes into one draw-call unit) from a
// vertical column into a full 3D region, and from the reference's
// packed-uint32 buffers into the five-array MeshArrays contract.
package region

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/chunk"
	"voxelcore/internal/voxelerrs"
)

// Size is the reference region edge length in chunks (8x8x8, spec.md §3).
const Size = 8

// Coord identifies a region in region-space (chunk-space divided by Size).
type Coord struct {
	X, Y, Z int32
}

// CoordOf returns the region containing chunk coordinate c.
func CoordOf(c chunk.Coord) Coord {
	return Coord{floorDivI32(c.X, Size), floorDivI32(c.Y, Size), floorDivI32(c.Z, Size)}
}

func floorDivI32(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Member is the minimal read-only view RegionBatcher needs of a chunk;
// it is supplied by the manager so this package never imports the
// manager's live chunk map directly (spec.md §9's facade inversion).
type Member interface {
	Coord() chunk.Coord
	WorldOrigin() mgl32.Vec3
	CachedMesh() (chunk.MeshArrays, bool) // false if gone / not yet meshed
}

// Region owns at most one combined mesh for its member chunks.
type Region struct {
	Coord    Coord
	members  map[chunk.Coord]Member
	dirty    map[chunk.Coord]struct{}
	combined chunk.MeshArrays
}

// New creates an empty region at coord.
func New(coord Coord) *Region {
	return &Region{
		Coord:   coord,
		members: make(map[chunk.Coord]Member),
		dirty:   make(map[chunk.Coord]struct{}),
	}
}

// Attach adds a chunk as a member and marks it dirty.
func (r *Region) Attach(m Member) {
	r.members[m.Coord()] = m
	r.dirty[m.Coord()] = struct{}{}
}

// Detach removes a chunk from the region and marks the region dirty so
// the next rebuild drops its contribution.
func (r *Region) Detach(coord chunk.Coord) {
	delete(r.members, coord)
	delete(r.dirty, coord)
	r.dirty[coord] = struct{}{} // force a rebuild even though the member is now gone
}

// NotifyChunkMeshed marks coord dirty, scheduling it to be folded into
// the combined mesh on the next Rebuild.
func (r *Region) NotifyChunkMeshed(coord chunk.Coord) {
	if _, ok := r.members[coord]; ok {
		r.dirty[coord] = struct{}{}
	}
}

// IsDirty reports whether any member has unfolded changes.
func (r *Region) IsDirty() bool {
	return len(r.dirty) > 0
}

// DirtyCount reports how many members are pending a fold.
func (r *Region) DirtyCount() int {
	return len(r.dirty)
}

// Combined returns the last successfully built combined mesh.
func (r *Region) Combined() chunk.MeshArrays {
	return r.combined
}

// Empty reports whether the region currently has no members.
func (r *Region) Empty() bool {
	return len(r.members) == 0
}

// WorldOrigin returns the region's anchor point in world space, to be
// paired with Combined() when handed to the renderer.
func (r *Region) WorldOrigin() mgl32.Vec3 {
	return r.worldOrigin()
}

func (r *Region) worldOrigin() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(r.Coord.X) * Size * chunk.Size,
		0, // region Y origin is not a fixed multiple since zone heights vary; per-member offsets carry the real delta
		float32(r.Coord.Z) * Size * chunk.Size,
	}
}

// Rebuild folds every member's cached mesh arrays into one combined
// mesh, offsetting each child's vertex positions by
// (chunk.world_origin - region.world_origin) as spec.md §4.7 requires.
// It fails with ErrNothingToBuild if every member is empty, and with
// ErrMemberGone if a member disappeared mid-build (the manager retries
// next frame).
func (r *Region) Rebuild() error {
	origin := r.worldOrigin()
	var out chunk.MeshArrays
	anyGeometry := false

	for coord := range r.members {
		m, ok := r.members[coord]
		if !ok {
			return voxelerrs.ErrMemberGone
		}
		mesh, ok := m.CachedMesh()
		if !ok {
			return voxelerrs.ErrMemberGone
		}
		if mesh.Empty() {
			continue
		}
		anyGeometry = true
		offset := m.WorldOrigin().Sub(origin)
		appendOffset(&out, mesh, offset)
	}

	if !anyGeometry {
		return voxelerrs.ErrNothingToBuild
	}
	r.combined = out
	r.dirty = make(map[chunk.Coord]struct{})
	return nil
}

// MemberSnapshot is a self-contained copy of one member's contribution,
// safe to hand to a worker goroutine per the snapshot rule: it carries
// no reference back into the live Region or Chunk.
type MemberSnapshot struct {
	Coord  chunk.Coord
	Origin mgl32.Vec3
	Mesh   chunk.MeshArrays
}

// BuildSnapshotMesh is the worker-side half of a region combine: it is a
// pure function of its snapshot arguments, so it is safe to run on any
// worker thread concurrently with other jobs (spec.md §4.5's job
// contract). Snapshot/apply is split so the manager can build the
// snapshot on the render thread (where member identity is known to be
// live) and apply the result back atomically once the worker returns.
func BuildSnapshotMesh(origin mgl32.Vec3, members []MemberSnapshot) (chunk.MeshArrays, error) {
	var out chunk.MeshArrays
	anyGeometry := false
	for _, m := range members {
		if m.Mesh.Empty() {
			continue
		}
		anyGeometry = true
		appendOffset(&out, m.Mesh, m.Origin.Sub(origin))
	}
	if !anyGeometry {
		return chunk.MeshArrays{}, voxelerrs.ErrNothingToBuild
	}
	return out, nil
}

// Snapshot captures every current member's coordinate, origin and
// cached mesh for a BuildSnapshotMesh call, and the set of coordinates
// that were dirty at snapshot time (so ApplyCombined knows which dirty
// entries the result actually covers).
func (r *Region) Snapshot() (origin mgl32.Vec3, members []MemberSnapshot, coveredDirty []chunk.Coord) {
	origin = r.WorldOrigin()
	for coord, m := range r.members {
		mesh, ok := m.CachedMesh()
		if !ok {
			continue
		}
		members = append(members, MemberSnapshot{Coord: coord, Origin: m.WorldOrigin(), Mesh: mesh})
	}
	for coord := range r.dirty {
		coveredDirty = append(coveredDirty, coord)
	}
	return origin, members, coveredDirty
}

// ApplyCombined swaps in a worker-built combined mesh and clears the
// dirty entries it covered. Entries marked dirty again after the
// snapshot was taken (e.g. a fresh edit) are left dirty so the next
// combine picks them up.
func (r *Region) ApplyCombined(mesh chunk.MeshArrays, coveredDirty []chunk.Coord) {
	r.combined = mesh
	for _, c := range coveredDirty {
		delete(r.dirty, c)
	}
}

func appendOffset(dst *chunk.MeshArrays, src chunk.MeshArrays, offset mgl32.Vec3) {
	base := uint32(len(dst.Positions) / 3)
	for i := 0; i+2 < len(src.Positions); i += 3 {
		dst.Positions = append(dst.Positions,
			src.Positions[i]+offset.X(),
			src.Positions[i+1]+offset.Y(),
			src.Positions[i+2]+offset.Z(),
		)
	}
	dst.Normals = append(dst.Normals, src.Normals...)
	dst.UVs = append(dst.UVs, src.UVs...)
	dst.Colors = append(dst.Colors, src.Colors...)
	for _, idx := range src.Indices {
		dst.Indices = append(dst.Indices, idx+base)
	}
}
