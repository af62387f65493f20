package terrain

import (
	"testing"

	"voxelcore/internal/chunk"
)

func TestGenerateIsDeterministic(t *testing.T) {
	src := NewNoiseSource(1, 2, 3)
	coord := chunk.Coord{X: 2, Y: 0, Z: -3}
	a, err := src.Generate(coord, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := src.Generate(coord, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sizeX, height, sizeZ := a.Shape()
	for x := 0; x < sizeX; x++ {
		for y := 0; y < height; y++ {
			for z := 0; z < sizeZ; z++ {
				av, _ := a.Get(x, y, z)
				bv, _ := b.Get(x, y, z)
				if av != bv {
					t.Fatalf("non-deterministic output at (%d,%d,%d): %d vs %d", x, y, z, av, bv)
				}
			}
		}
	}
}

func TestGenerateStratifiesSurfaceWithGrass(t *testing.T) {
	src := NewNoiseSource(1, 2, 3)
	// Use the chunk-y band that holds the surface of column (0,0), since
	// chunk-y 0 (world-y [-64,-48)) lies entirely below the terrain.
	coord := chunk.Coord{X: 0, Y: chunk.WorldYToChunkY(src.HeightAt(0, 0, 7)), Z: 0}
	store, err := src.Generate(coord, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Somewhere in this chunk there should be at least one grass cell
	// with air directly above it (a true surface).
	sizeX, height, sizeZ := store.Shape()
	foundSurfaceGrass := false
	for x := 0; x < sizeX; x++ {
		for z := 0; z < sizeZ; z++ {
			for y := 0; y < height-1; y++ {
				id, _ := store.Get(x, y, z)
				above, _ := store.Get(x, y+1, z)
				if id == 3 && above == 0 {
					foundSurfaceGrass = true
				}
			}
		}
	}
	if !foundSurfaceGrass {
		t.Fatal("expected at least one grass cell directly under air")
	}
}

func TestHeightAtIsBoundedByAmplitude(t *testing.T) {
	src := NewNoiseSource(1, 2, 3)
	h := src.HeightAt(100, -50, 1)
	if float64(h) < src.BaseHeight-src.Amplitude-1 || float64(h) > src.BaseHeight+src.Amplitude+1 {
		t.Fatalf("HeightAt = %d, expected within [base-amp, base+amp]", h)
	}
}
