// Package mesher implements greedy meshing: turning one chunk's voxel
// store, plus read-only snapshots of its six neighbors, into a triangle
// list. It is grounded on the reference project's
// internal/meshing/greedy.go (BuildGreedyMeshForChunk): the same
// per-direction 2D-mask sweep and greedy width/height expansion, but
// reshaped to emit the five parallel float32/uint32 arrays spec.md §4.4
// mandates instead of the reference's bit-packed uint32 vertex format,
// and to read neighbors from an explicit snapshot rather than a live
// *world.World back-reference (spec.md §9: "mesher receives a small
// read-only facade ... chunks do not hold manager references").
package mesher

import (
	"voxelcore/internal/chunk"
	"voxelcore/internal/voxelstore"
	"voxelcore/internal/voxeltype"
)

// Input is everything one mesh build needs, captured at enqueue time per
// the snapshot rule (spec.md §4.5): a worker never dereferences a live,
// mutable Chunk.
type Input struct {
	Coord     chunk.Coord
	Store     *voxelstore.Store
	Neighbors [6]*voxelstore.Store // nil entry = unlinked neighbor, treated as all-AIR
	Table     *voxeltype.Table
}

// faceShade mirrors the reference project's per-face brightness constants
// in BuildGreedyMeshForChunk (Top=255/255, Bottom=128/255, Sides=204/255
// out of a byte), generalized to spec.md §4.4's four named factors.
func faceShade(d chunk.Dir) float32 {
	switch d {
	case chunk.PosY:
		return 1.0
	case chunk.NegY:
		return 0.6
	case chunk.PosX, chunk.NegX:
		return 0.85
	default: // PosZ, NegZ
		return 0.75
	}
}

// axis indices into a (x,y,z) triple.
const (
	axisX = 0
	axisY = 1
	axisZ = 2
)

func normalOf(d chunk.Dir) [3]float32 {
	switch d {
	case chunk.PosX:
		return [3]float32{1, 0, 0}
	case chunk.NegX:
		return [3]float32{-1, 0, 0}
	case chunk.PosY:
		return [3]float32{0, 1, 0}
	case chunk.NegY:
		return [3]float32{0, -1, 0}
	case chunk.PosZ:
		return [3]float32{0, 0, 1}
	default:
		return [3]float32{0, 0, -1}
	}
}

// Build runs greedy meshing over all six face directions and returns the
// combined mesh. It never mutates its input and is safe to call
// concurrently for disjoint chunks (spec.md §4.4 "side effects: none").
func Build(in Input) chunk.MeshArrays {
	sizeX, height, sizeZ := in.Store.Shape()
	out := &chunk.MeshArrays{}
	buildAxisDirection(chunk.PosX, in, sizeX, height, sizeZ, out)
	buildAxisDirection(chunk.NegX, in, sizeX, height, sizeZ, out)
	buildAxisDirection(chunk.PosY, in, sizeX, height, sizeZ, out)
	buildAxisDirection(chunk.NegY, in, sizeX, height, sizeZ, out)
	buildAxisDirection(chunk.PosZ, in, sizeX, height, sizeZ, out)
	buildAxisDirection(chunk.NegZ, in, sizeX, height, sizeZ, out)
	return *out
}

// make2D allocates a uSize x vSize id mask, reused as scratch per slice.
func make2D(uSize, vSize int) [][]voxeltype.ID {
	mask := make([][]voxeltype.ID, uSize)
	backing := make([]voxeltype.ID, uSize*vSize)
	for u := range mask {
		mask[u] = backing[u*vSize : (u+1)*vSize]
	}
	return mask
}

// mergeMask walks a 2D mask in row-major (u then v, ascending) order,
// greedily expanding each populated run first along v (width) then along
// u (height), invoking emit once per maximal quad and clearing the
// covered region. voxeltype.Air (0) means "no face" since an opaque
// source cell — the only thing ever written into the mask — is never 0.
func mergeMask(mask [][]voxeltype.ID, uSize, vSize int, emit func(u0, v0, h, w int, id voxeltype.ID)) {
	for u0 := 0; u0 < uSize; u0++ {
		for v0 := 0; v0 < vSize; v0++ {
			id := mask[u0][v0]
			if id == voxeltype.Air {
				continue
			}
			w := 1
			for v0+w < vSize && mask[u0][v0+w] == id {
				w++
			}
			h := 1
		extend:
			for u0+h < uSize {
				for i := 0; i < w; i++ {
					if mask[u0+h][v0+i] != id {
						break extend
					}
				}
				h++
			}
			emit(u0, v0, h, w, id)
			for du := 0; du < h; du++ {
				row := mask[u0+du][v0 : v0+w]
				for i := range row {
					row[i] = voxeltype.Air
				}
			}
		}
	}
}

// buildAxisDirection sweeps every slice along d's axis, builds that
// slice's mask, merges it and appends the resulting quads to out.
func buildAxisDirection(d chunk.Dir, in Input, sizeX, height, sizeZ int, out *chunk.MeshArrays) {
	var axisLen, uSize, vSize int
	switch d {
	case chunk.PosX, chunk.NegX:
		axisLen, uSize, vSize = sizeX, height, sizeZ
	case chunk.PosY, chunk.NegY:
		axisLen, uSize, vSize = height, sizeX, sizeZ
	default:
		axisLen, uSize, vSize = sizeZ, sizeX, height
	}
	mask := make2D(uSize, vSize)
	neighbor := in.Neighbors[d]

	for k := 0; k < axisLen; k++ {
		fillMask(mask, d, k, axisLen, uSize, vSize, in, neighbor)
		mergeMask(mask, uSize, vSize, func(u0, v0, h, w int, id voxeltype.ID) {
			emitQuad(out, d, k, u0, v0, h, w, id, in.Table)
		})
	}
}

// localCoord maps (axis slice k, mask u, mask v) back to this chunk's
// (x,y,z) for the given direction's axis group.
func localCoord(d chunk.Dir, k, u, v int) (x, y, z int) {
	switch d {
	case chunk.PosX, chunk.NegX:
		return k, u, v
	case chunk.PosY, chunk.NegY:
		return u, k, v
	default:
		return u, v, k
	}
}

// fillMask populates mask[u][v] with the source cell id wherever that
// cell is opaque and its neighbor in direction d is non-opaque (air,
// transparent, or absent because there is no linked neighbor chunk).
func fillMask(mask [][]voxeltype.ID, d chunk.Dir, k, axisLen, uSize, vSize int, in Input, neighbor *voxelstore.Store) {
	for u := 0; u < uSize; u++ {
		for v := 0; v < vSize; v++ {
			x, y, z := localCoord(d, k, u, v)
			id := in.Store.MustGet(x, y, z)
			if !in.Table.IsOpaque(id) {
				mask[u][v] = voxeltype.Air
				continue
			}
			adj, ok := adjacentID(d, k, axisLen, x, y, z, in.Store, neighbor)
			if ok && in.Table.IsOpaque(adj) {
				mask[u][v] = voxeltype.Air
				continue
			}
			mask[u][v] = id
		}
	}
}

// adjacentID returns the cell adjacent to (x,y,z) in direction d, and
// whether that cell exists (false means "treat as AIR": there is no
// linked neighbor at a chunk boundary, which the spec requires to still
// emit the face).
func adjacentID(d chunk.Dir, k, axisLen, x, y, z int, src, neighbor *voxelstore.Store) (voxeltype.ID, bool) {
	switch d {
	case chunk.PosX:
		if k+1 < axisLen {
			return src.MustGet(x+1, y, z), true
		}
		if neighbor == nil {
			return voxeltype.Air, false
		}
		return neighbor.MustGet(0, y, z), true
	case chunk.NegX:
		if k-1 >= 0 {
			return src.MustGet(x-1, y, z), true
		}
		if neighbor == nil {
			return voxeltype.Air, false
		}
		nSizeX, _, _ := neighbor.Shape()
		return neighbor.MustGet(nSizeX-1, y, z), true
	case chunk.PosY:
		if k+1 < axisLen {
			return src.MustGet(x, y+1, z), true
		}
		if neighbor == nil {
			return voxeltype.Air, false
		}
		return neighbor.MustGet(x, 0, z), true
	case chunk.NegY:
		if k-1 >= 0 {
			return src.MustGet(x, y-1, z), true
		}
		if neighbor == nil {
			return voxeltype.Air, false
		}
		_, nHeight, _ := neighbor.Shape()
		return neighbor.MustGet(x, nHeight-1, z), true
	case chunk.PosZ:
		if k+1 < axisLen {
			return src.MustGet(x, y, z+1), true
		}
		if neighbor == nil {
			return voxeltype.Air, false
		}
		return neighbor.MustGet(x, y, 0), true
	default: // NegZ
		if k-1 >= 0 {
			return src.MustGet(x, y, z-1), true
		}
		if neighbor == nil {
			return voxeltype.Air, false
		}
		_, _, nSizeZ := neighbor.Shape()
		return neighbor.MustGet(x, y, nSizeZ-1), true
	}
}

// emitQuad appends one greedy quad's geometry to out. u0/v0/h/w are in
// mask space; k is the slice along d's axis. Positions are local to the
// chunk (0..Size, 0..height), not world space — RegionBatcher applies
// the chunk-to-region offset later (spec.md §4.7).
func emitQuad(out *chunk.MeshArrays, d chunk.Dir, k, u0, v0, h, w int, id voxeltype.ID, table *voxeltype.Table) {
	plane := float32(k)
	if d == chunk.PosX || d == chunk.PosY || d == chunk.PosZ {
		plane = float32(k + 1)
	}

	type vec = [3]float32
	origin := func(uu, vv int) vec {
		switch d {
		case chunk.PosX, chunk.NegX:
			return vec{plane, float32(uu), float32(vv)}
		case chunk.PosY, chunk.NegY:
			return vec{float32(uu), plane, float32(vv)}
		default:
			return vec{float32(uu), float32(vv), plane}
		}
	}

	var uAxis, vAxis vec
	switch d {
	case chunk.PosX, chunk.NegX:
		uAxis, vAxis = vec{0, 1, 0}, vec{0, 0, 1} // Y, Z
	case chunk.PosY, chunk.NegY:
		uAxis, vAxis = vec{1, 0, 0}, vec{0, 0, 1} // X, Z
	default:
		uAxis, vAxis = vec{1, 0, 0}, vec{0, 1, 0} // X, Y
	}
	flip := d == chunk.NegX || d == chunk.PosY || d == chunk.NegZ

	add := func(a, b vec, scale float32) vec {
		return vec{a[0] + b[0]*scale, a[1] + b[1]*scale, a[2] + b[2]*scale}
	}
	c0 := origin(u0, v0)
	c1 := add(c0, uAxis, float32(h))
	c2 := add(c1, vAxis, float32(w))
	c3 := add(c0, vAxis, float32(w))

	n := normalOf(d)
	col := table.ColorOf(id)
	shade := faceShade(d)
	r, g, b, a := col[0]*shade, col[1]*shade, col[2]*shade, col[3]

	base := uint32(len(out.Positions) / 3)
	corners := [4]vec{c0, c1, c2, c3}
	uvs := [4][2]float32{{0, 0}, {float32(h), 0}, {float32(h), float32(w)}, {0, float32(w)}}
	for i, c := range corners {
		out.Positions = append(out.Positions, c[0], c[1], c[2])
		out.Normals = append(out.Normals, n[0], n[1], n[2])
		out.UVs = append(out.UVs, uvs[i][0], uvs[i][1])
		out.Colors = append(out.Colors, r, g, b, a)
	}
	if !flip {
		out.Indices = append(out.Indices, base, base+1, base+2, base, base+2, base+3)
	} else {
		out.Indices = append(out.Indices, base, base+2, base+1, base, base+3, base+2)
	}
}
