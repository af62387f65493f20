package chunk

import "testing"

func TestLocateVoxelRoundTrips(t *testing.T) {
	cases := []struct{ x, y, z int64 }{
		{0, 0, 0},
		{-1, -1, -1},
		{15, 63, 15},
		{16, 64, 16},
		{-17, -65, -17},
	}
	for _, c := range cases {
		coord, lx, ly, lz := LocateVoxel(c.x, c.y, c.z)
		if lx < 0 || lx >= Size || lz < 0 || lz >= Size {
			t.Fatalf("LocateVoxel(%d,%d,%d): local x/z out of range: %d,%d", c.x, c.y, c.z, lx, lz)
		}
		h := HeightForChunkY(coord.Y)
		if ly < 0 || ly >= h {
			t.Fatalf("LocateVoxel(%d,%d,%d): local y %d out of range [0,%d)", c.x, c.y, c.z, ly, h)
		}
		origin := ChunkYWorldOrigin(coord.Y)
		gotWorldX := int64(coord.X)*Size + int64(lx)
		gotWorldZ := int64(coord.Z)*Size + int64(lz)
		gotWorldY := origin + int64(ly)
		if gotWorldX != c.x || gotWorldY != c.y || gotWorldZ != c.z {
			t.Fatalf("LocateVoxel(%d,%d,%d) did not round-trip: got (%d,%d,%d)",
				c.x, c.y, c.z, gotWorldX, gotWorldY, gotWorldZ)
		}
	}
}
