package mesher

import (
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/chunk"
	"voxelcore/internal/voxelstore"
	"voxelcore/internal/voxeltype"
)

func testTable() *voxeltype.Table {
	return voxeltype.NewTable(map[voxeltype.ID]voxeltype.Properties{
		1: {Name: "stone", Color: mgl32.Vec4{0.5, 0.5, 0.5, 1}, Opaque: true},
	})
}

func quadCount(m chunk.MeshArrays) int {
	return len(m.Indices) / 6
}

// TestSingleBlockMesh mirrors spec scenario E1: one opaque cell in an
// otherwise empty chunk with no linked neighbors produces exactly 6
// outward-facing quads.
func TestSingleBlockMesh(t *testing.T) {
	store := voxelstore.New(chunk.Size, 16, chunk.Size)
	store.Set(5, 5, 5, 1)
	out := Build(Input{Store: store, Table: testTable()})

	if got := quadCount(out); got != 6 {
		t.Fatalf("quad count = %d, want 6", got)
	}
	if got := out.VertexCount(); got != 24 {
		t.Fatalf("vertex count = %d, want 24", got)
	}
	if len(out.Indices) != 36 {
		t.Fatalf("index count = %d, want 36", len(out.Indices))
	}
}

// TestGreedySlabMerge mirrors scenario E2: a 4x1x4 isolated slab merges
// into 6 quads total (one per face, not one per cell).
func TestGreedySlabMerge(t *testing.T) {
	store := voxelstore.New(chunk.Size, 16, chunk.Size)
	for x := 2; x < 6; x++ {
		for z := 2; z < 6; z++ {
			store.Set(x, 5, z, 1)
		}
	}
	out := Build(Input{Store: store, Table: testTable()})
	if got := quadCount(out); got != 6 {
		t.Fatalf("quad count = %d, want 6", got)
	}
}

// TestCrossChunkCulling mirrors scenario E3: a uniformly filled chunk
// linked to a uniformly filled +X neighbor contributes zero quads on
// the shared face, while the unlinked faces still emit.
func TestCrossChunkCulling(t *testing.T) {
	table := testTable()
	source := voxelstore.NewUniform(chunk.Size, 16, chunk.Size, 1)

	withoutNeighbor := Build(Input{Store: source, Table: table})
	if got := quadCount(withoutNeighbor); got != 6 {
		t.Fatalf("fully exposed uniform chunk: quad count = %d, want 6", got)
	}

	neighbor := voxelstore.NewUniform(chunk.Size, 16, chunk.Size, 1)
	var neighbors [6]*voxelstore.Store
	neighbors[chunk.PosX] = neighbor
	withNeighbor := Build(Input{Store: source, Neighbors: neighbors, Table: table})
	if got := quadCount(withNeighbor); got != 5 {
		t.Fatalf("chunk with opaque +X neighbor: quad count = %d, want 5", got)
	}

	// Top, bottom and Z faces legitimately reach x=Size at their edges;
	// only a +X-facing vertex on that plane would mean the face survived.
	for i := 0; i+2 < len(withNeighbor.Positions); i += 3 {
		if withNeighbor.Positions[i] == float32(chunk.Size) && withNeighbor.Normals[i] > 0 {
			t.Fatalf("found a +X-facing vertex on the culled +X boundary plane, face was not culled")
		}
	}
}

// TestMissingNeighborTreatedAsAir checks that an absent (nil) neighbor
// link still emits the boundary face, per spec.md §4.4.
func TestMissingNeighborTreatedAsAir(t *testing.T) {
	table := testTable()
	source := voxelstore.NewUniform(chunk.Size, 16, chunk.Size, 1)
	out := Build(Input{Store: source, Table: table})
	if got := quadCount(out); got != 6 {
		t.Fatalf("quad count = %d, want 6 (all faces exposed, no neighbors linked)", got)
	}
}

// TestMeshingIsDeterministic mirrors invariant 8: the same input
// produces byte-identical arrays across repeated builds.
func TestMeshingIsDeterministic(t *testing.T) {
	table := testTable()
	store := voxelstore.New(chunk.Size, 16, chunk.Size)
	store.Set(1, 1, 1, 1)
	store.Set(2, 1, 1, 1)
	store.Set(1, 2, 3, 1)

	a := Build(Input{Store: store, Table: table})
	b := Build(Input{Store: store, Table: table})

	if !reflect.DeepEqual(a, b) {
		t.Fatal("two builds over the same snapshot produced different mesh arrays")
	}
}

func TestEmptyChunkProducesEmptyMesh(t *testing.T) {
	store := voxelstore.New(chunk.Size, 16, chunk.Size)
	out := Build(Input{Store: store, Table: testTable()})
	if !out.Empty() {
		t.Fatalf("expected empty mesh for an all-air chunk, got %d indices", len(out.Indices))
	}
}

// TestTallChunkZFaceCoversFullHeight mirrors a deep-zone chunk
// (height=32, double chunk.Size): the front/back (+Z/-Z) faces must
// cover the whole height axis, not just the bottom chunk.Size rows. A
// regression here previously sized the Z-sweep mask's v-axis to sizeZ
// instead of height, silently truncating the +Z/-Z faces of every
// non-dense-zone chunk.
func TestTallChunkZFaceCoversFullHeight(t *testing.T) {
	const tallHeight = 32
	table := testTable()
	store := voxelstore.NewUniform(chunk.Size, tallHeight, chunk.Size, 1)
	out := Build(Input{Store: store, Table: table})

	if got := quadCount(out); got != 6 {
		t.Fatalf("quad count = %d, want 6", got)
	}

	var maxZFaceY float32
	for i := 0; i+2 < len(out.Positions); i += 3 {
		y, z := out.Positions[i+1], out.Positions[i+2]
		if out.Normals[i+2] != 0 && (z == 0 || z == float32(chunk.Size)) {
			if y > maxZFaceY {
				maxZFaceY = y
			}
		}
	}
	if maxZFaceY != float32(tallHeight) {
		t.Fatalf("front/back face max Y = %v, want %v (face truncated to chunk.Size)", maxZFaceY, tallHeight)
	}
}

func BenchmarkBuildFullSurface(b *testing.B) {
	table := testTable()
	store := voxelstore.New(chunk.Size, 16, chunk.Size)
	for x := 0; x < chunk.Size; x++ {
		for z := 0; z < chunk.Size; z++ {
			store.Set(x, 0, z, 1)
		}
	}
	in := Input{Store: store, Table: table}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Build(in)
	}
}
