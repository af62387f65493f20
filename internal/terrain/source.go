// Package terrain defines the inbound TerrainSource contract and a
// reference implementation. Grounded on the reference project's
// internal/world.Generator (octave value-noise height field via
// octaveNoise2D, then bedrock/dirt/grass stratification in
// PopulateChunk), generalized to fill an arbitrary-height VoxelStore
// shape instead of a fixed 256-tall column.
package terrain

import (
	"math"

	"voxelcore/internal/chunk"
	"voxelcore/internal/voxelstore"
	"voxelcore/internal/voxeltype"
)

// Source is the core's inbound dependency: a pure, thread-safe function
// from (coord, seed) to a filled VoxelStore shaped for that coordinate's
// zone (spec.md §6).
type Source interface {
	Generate(coord chunk.Coord, seed int64) (*voxelstore.Store, error)
}

// NoiseSource is a reference TerrainSource: fractal value noise over X/Z
// determines a height field, then cells below the surface are
// stratified stone/dirt/grass the way the reference project's
// PopulateChunk does.
type NoiseSource struct {
	Scale       float64
	BaseHeight  float64
	Amplitude   float64
	Octaves     int
	Persistence float64
	Lacunarity  float64

	StoneID, DirtID, GrassID voxeltype.ID
}

// NewNoiseSource returns a NoiseSource with the reference project's
// default tuning (scale 0.01, base height 64, amplitude 32, 4 octaves,
// persistence 0.5, lacunarity 2.0).
func NewNoiseSource(stone, dirt, grass voxeltype.ID) *NoiseSource {
	return &NoiseSource{
		Scale:       0.01,
		BaseHeight:  64,
		Amplitude:   32,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2.0,
		StoneID:     stone,
		DirtID:      dirt,
		GrassID:     grass,
	}
}

// HeightAt returns the integer surface height at a world (x,z) column
// for the given seed.
func (n *NoiseSource) HeightAt(worldX, worldZ int32, seed int64) int64 {
	amp := 1.0
	freq := n.Scale
	sum := 0.0
	norm := 0.0
	for o := 0; o < n.Octaves; o++ {
		sum += amp * valueNoise2D(float64(worldX)*freq, float64(worldZ)*freq, seed+int64(o))
		norm += amp
		amp *= n.Persistence
		freq *= n.Lacunarity
	}
	if norm > 0 {
		sum /= norm
	}
	return int64(n.BaseHeight + sum*n.Amplitude)
}

// Generate fills a store sized for coord's zone with stratified terrain.
func (n *NoiseSource) Generate(coord chunk.Coord, seed int64) (*voxelstore.Store, error) {
	height := chunk.HeightForChunkY(coord.Y)
	yOrigin := chunk.ChunkYWorldOrigin(coord.Y)
	store := voxelstore.New(chunk.Size, height, chunk.Size)

	for x := 0; x < chunk.Size; x++ {
		worldX := coord.X*chunk.Size + int32(x)
		for z := 0; z < chunk.Size; z++ {
			worldZ := coord.Z*chunk.Size + int32(z)
			surface := n.HeightAt(worldX, worldZ, seed)
			for y := 0; y < height; y++ {
				worldY := yOrigin + int64(y)
				if worldY > surface {
					continue
				}
				var id voxeltype.ID
				switch {
				case worldY == surface:
					id = n.GrassID
				case worldY >= surface-4:
					id = n.DirtID
				default:
					id = n.StoneID
				}
				if err := store.Set(x, y, z, id); err != nil {
					return nil, err
				}
			}
		}
	}
	return store, nil
}

// valueNoise2D is a deterministic hash-based value noise, smoothed with
// bilinear interpolation -- a compact stand-in for the reference
// project's octaveNoise2D, with no external noise dependency (none
// appears anywhere in the retrieved pack).
func valueNoise2D(x, z float64, seed int64) float64 {
	x0, z0 := math.Floor(x), math.Floor(z)
	x1, z1 := x0+1, z0+1
	tx, tz := x-x0, z-z0
	sx := smoothstep(tx)
	sz := smoothstep(tz)

	v00 := hash2D(int64(x0), int64(z0), seed)
	v10 := hash2D(int64(x1), int64(z0), seed)
	v01 := hash2D(int64(x0), int64(z1), seed)
	v11 := hash2D(int64(x1), int64(z1), seed)

	a := lerp(v00, v10, sx)
	b := lerp(v01, v11, sx)
	return lerp(a, b, sz)
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// hash2D maps an integer lattice point to a pseudo-random value in
// [-1, 1], deterministically, with no global RNG state.
func hash2D(x, z, seed int64) float64 {
	h := x*374761393 + z*668265263 + seed*2246822519
	h = (h ^ (h >> 13)) * 1274126177
	h = h ^ (h >> 16)
	// mask to a positive 53-bit range before converting, avoiding
	// platform-dependent behavior of shifting/converting negative ints.
	u := uint64(h) & ((1 << 53) - 1)
	return float64(u)/float64(uint64(1)<<53)*2 - 1
}
