// Package voxelstore implements a single chunk's cell data: a store that
// starts out uniform (one id, O(1)) and promotes to a dense byte array
// on the first differing write. It generalizes the reference project's
// per-section block arrays (internal/world.Chunk, which lazily
// allocates a 16x16x16 []BlockType per section and frees it back to nil
// once empty) into a single two-state store with an explicit uniform
// fast path, as spec.md §3/§4.2 requires.
package voxelstore

import (
	"fmt"

	"voxelcore/internal/voxelerrs"
	"voxelcore/internal/voxeltype"
)

// Store holds one chunk's worth of voxel type ids, shaped S (horizontal
// side) by H (vertical height, which varies by zone per spec.md §3) by S.
type Store struct {
	sizeX, height, sizeZ int

	// uniform is valid only when dense == nil.
	uniform voxeltype.ID
	dense   []voxeltype.ID
}

// NewUniform creates a store of the given shape, entirely filled with id.
// Storage is O(1) until the first differing write.
func NewUniform(sizeX, height, sizeZ int, id voxeltype.ID) *Store {
	return &Store{sizeX: sizeX, height: height, sizeZ: sizeZ, uniform: id}
}

// New creates a store of the given shape, uniformly AIR.
func New(sizeX, height, sizeZ int) *Store {
	return NewUniform(sizeX, height, sizeZ, voxeltype.Air)
}

func (s *Store) inBounds(x, y, z int) bool {
	return x >= 0 && x < s.sizeX && y >= 0 && y < s.height && z >= 0 && z < s.sizeZ
}

func (s *Store) index(x, y, z int) int {
	return x + z*s.sizeX + y*s.sizeX*s.sizeZ
}

// Shape returns the store's (sizeX, height, sizeZ).
func (s *Store) Shape() (int, int, int) {
	return s.sizeX, s.height, s.sizeZ
}

// Get returns the cell type at local coordinates. Out-of-range
// coordinates return ErrOutOfBounds; this is the one programmer-bug
// error that is allowed to propagate (spec.md §7/§9).
func (s *Store) Get(x, y, z int) (voxeltype.ID, error) {
	if !s.inBounds(x, y, z) {
		return 0, fmt.Errorf("voxelstore.Get(%d,%d,%d): %w", x, y, z, voxelerrs.ErrOutOfBounds)
	}
	if s.dense == nil {
		return s.uniform, nil
	}
	return s.dense[s.index(x, y, z)], nil
}

// MustGet is Get without the bounds-check error, for hot paths (the
// mesher, which only ever visits in-range cells). It panics on
// out-of-range coordinates, matching spec.md §9's "only OutOfBounds may
// panic" rule.
func (s *Store) MustGet(x, y, z int) voxeltype.ID {
	id, err := s.Get(x, y, z)
	if err != nil {
		panic(err)
	}
	return id
}

// Set writes a cell type at local coordinates, promoting the store from
// uniform to dense on the first differing write. Setting the existing
// uniform value is a no-op and does not allocate.
func (s *Store) Set(x, y, z int, id voxeltype.ID) error {
	if !s.inBounds(x, y, z) {
		return fmt.Errorf("voxelstore.Set(%d,%d,%d): %w", x, y, z, voxelerrs.ErrOutOfBounds)
	}
	if s.dense == nil {
		if id == s.uniform {
			return nil
		}
		s.materialize()
	}
	s.dense[s.index(x, y, z)] = id
	return nil
}

// materialize expands a uniform store into a dense array, filling every
// cell with the former uniform value.
func (s *Store) materialize() {
	n := s.sizeX * s.height * s.sizeZ
	dense := make([]voxeltype.ID, n)
	if s.uniform != voxeltype.Air {
		for i := range dense {
			dense[i] = s.uniform
		}
	}
	s.dense = dense
}

// IsUniform reports whether the store is still in its uniform
// representation, returning the uniform id and true if so.
func (s *Store) IsUniform() (voxeltype.ID, bool) {
	if s.dense == nil {
		return s.uniform, true
	}
	return 0, false
}

// Fill sets every cell to id and collapses the store back to uniform.
func (s *Store) Fill(id voxeltype.ID) {
	s.dense = nil
	s.uniform = id
}

// CountSolid returns the number of non-air cells in the store.
func (s *Store) CountSolid() int {
	if s.dense == nil {
		if s.uniform == voxeltype.Air {
			return 0
		}
		return s.sizeX * s.height * s.sizeZ
	}
	n := 0
	for _, id := range s.dense {
		if id != voxeltype.Air {
			n++
		}
	}
	return n
}

// Demote collapses a dense store back to uniform if every cell holds the
// same value. This is an optimization, not a correctness requirement
// (spec.md §3), so callers may call it opportunistically (e.g. after a
// bulk edit) rather than on every Set.
func (s *Store) Demote() {
	if s.dense == nil || len(s.dense) == 0 {
		return
	}
	first := s.dense[0]
	for _, id := range s.dense[1:] {
		if id != first {
			return
		}
	}
	s.dense = nil
	s.uniform = first
}

// Snapshot returns an independent copy of the store, safe to hand to a
// worker thread per the snapshot rule (spec.md §4.5/§5): the worker
// never dereferences the live, mutable store.
func (s *Store) Snapshot() *Store {
	cp := &Store{sizeX: s.sizeX, height: s.height, sizeZ: s.sizeZ, uniform: s.uniform}
	if s.dense != nil {
		cp.dense = append([]voxeltype.ID(nil), s.dense...)
	}
	return cp
}

// Raw returns the dense backing array and whether the store is dense.
// Used by ChunkCache serialization; callers must not mutate the slice.
func (s *Store) Raw() ([]voxeltype.ID, bool) {
	return s.dense, s.dense != nil
}

// FromRaw rebuilds a dense store from a previously-serialized array.
func FromRaw(sizeX, height, sizeZ int, data []voxeltype.ID) *Store {
	return &Store{sizeX: sizeX, height: height, sizeZ: sizeZ, dense: data}
}
