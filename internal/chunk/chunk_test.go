package chunk

import (
	"testing"

	"voxelcore/internal/voxeltype"
)

func opaqueTable() *voxeltype.Table {
	return voxeltype.NewTable(map[voxeltype.ID]voxeltype.Properties{
		1: {Name: "stone", Opaque: true},
		2: {Name: "glass", Opaque: false},
	})
}

func TestNewChunkIsEmpty(t *testing.T) {
	c := New(Coord{0, 0, 0})
	if !c.IsEmpty() {
		t.Fatal("freshly created chunk should be empty")
	}
}

func TestSetMarksDirtyBits(t *testing.T) {
	c := New(Coord{0, 0, 0})
	if c.MeshDirty || c.VoxelDirty {
		t.Fatal("new chunk should not start dirty")
	}
	if err := c.Set(0, 0, 0, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.MeshDirty || !c.VoxelDirty {
		t.Fatal("Set should mark both dirty bits")
	}
	c.ClearMeshDirty()
	if c.MeshDirty {
		t.Fatal("ClearMeshDirty did not clear")
	}
}

func TestIsFullyOpaque(t *testing.T) {
	table := opaqueTable()

	air := New(Coord{0, 0, 0})
	if air.IsFullyOpaque(table) {
		t.Fatal("air chunk must not be fully opaque")
	}

	solid := New(Coord{0, 0, 0})
	solid.Store.Fill(1)
	if !solid.IsFullyOpaque(table) {
		t.Fatal("uniform opaque chunk should be fully opaque")
	}

	mixed := New(Coord{0, 0, 0})
	mixed.Store.Fill(1)
	mixed.Set(0, 0, 0, 2) // glass, transparent
	if mixed.IsFullyOpaque(table) {
		t.Fatal("chunk with one transparent cell must not be fully opaque")
	}
}

func TestNeighborLinkSetAndGet(t *testing.T) {
	a := New(Coord{0, 0, 0})
	b := New(Coord{1, 0, 0})
	a.SetNeighbor(PosX, b.Coord, true)
	b.SetNeighbor(NegX, a.Coord, true)

	got, ok := a.GetNeighbor(PosX)
	if !ok || got != b.Coord {
		t.Fatalf("a's +X neighbor = %v,%v want %v,true", got, ok, b.Coord)
	}
	got, ok = b.GetNeighbor(NegX)
	if !ok || got != a.Coord {
		t.Fatalf("b's -X neighbor = %v,%v want %v,true", got, ok, a.Coord)
	}

	a.SetNeighbor(PosX, Coord{}, false)
	if _, ok := a.GetNeighbor(PosX); ok {
		t.Fatal("expected neighbor link cleared")
	}
}

func TestResetBumpsGeneration(t *testing.T) {
	c := New(Coord{0, 0, 0})
	c.Set(0, 0, 0, 1)
	g0 := c.Generation
	c.Reset(Coord{5, 0, 5})
	if c.Generation != g0+1 {
		t.Fatalf("generation = %d, want %d", c.Generation, g0+1)
	}
	if !c.IsEmpty() {
		t.Fatal("reset chunk should be empty")
	}
	if c.Coord != (Coord{5, 0, 5}) {
		t.Fatalf("reset chunk coord = %v, want (5,0,5)", c.Coord)
	}
}

func TestWorldAABBMatchesZoneHeight(t *testing.T) {
	c := New(Coord{1, 0, -1}) // cy=0 is the first dense-zone band
	min, max := c.WorldAABB()
	if min.X() != Size || min.Z() != -Size {
		t.Fatalf("min = %v, want x=%d z=%d", min, Size, -Size)
	}
	height := max.Y() - min.Y()
	if height != denseHeight {
		t.Fatalf("chunk height = %v, want %d", height, denseHeight)
	}
}
