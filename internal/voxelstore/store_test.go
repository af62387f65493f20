package voxelstore

import (
	"errors"
	"testing"

	"voxelcore/internal/voxelerrs"
	"voxelcore/internal/voxeltype"
)

func TestUniformGetReturnsFillValue(t *testing.T) {
	s := NewUniform(4, 4, 4, voxeltype.ID(3))
	id, err := s.Get(1, 2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 3 {
		t.Fatalf("got %d, want 3", id)
	}
	if u, ok := s.IsUniform(); !ok || u != 3 {
		t.Fatalf("expected still-uniform store holding 3, got %v %v", u, ok)
	}
}

func TestSetExistingUniformValueIsNoop(t *testing.T) {
	s := NewUniform(4, 4, 4, voxeltype.ID(5))
	if err := s.Set(0, 0, 0, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, dense := s.Raw(); dense {
		t.Fatal("setting the existing uniform value must not promote to dense")
	}
}

func TestSetDifferingValuePromotesToDense(t *testing.T) {
	s := NewUniform(2, 2, 2, voxeltype.ID(1))
	if err := s.Set(0, 0, 0, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw, dense := s.Raw()
	if !dense {
		t.Fatal("expected promotion to dense")
	}
	if len(raw) != 8 {
		t.Fatalf("expected 8 materialized cells, got %d", len(raw))
	}
	got, _ := s.Get(0, 0, 0)
	if got != 2 {
		t.Fatalf("got %d, want 2", got)
	}
	// every other cell should have materialized to the former uniform value
	got, _ = s.Get(1, 1, 1)
	if got != 1 {
		t.Fatalf("materialized cell = %d, want former uniform value 1", got)
	}
}

func TestGetSetRoundTrip(t *testing.T) {
	s := New(4, 8, 4)
	for x := 0; x < 4; x++ {
		for y := 0; y < 8; y++ {
			for z := 0; z < 4; z++ {
				id := voxeltype.ID((x + y + z) % 7)
				if err := s.Set(x, y, z, id); err != nil {
					t.Fatalf("set(%d,%d,%d): %v", x, y, z, err)
				}
			}
		}
	}
	for x := 0; x < 4; x++ {
		for y := 0; y < 8; y++ {
			for z := 0; z < 4; z++ {
				want := voxeltype.ID((x + y + z) % 7)
				got, err := s.Get(x, y, z)
				if err != nil {
					t.Fatalf("get(%d,%d,%d): %v", x, y, z, err)
				}
				if got != want {
					t.Fatalf("get(%d,%d,%d) = %d, want %d", x, y, z, got, want)
				}
			}
		}
	}
}

func TestOutOfBoundsReturnsErrOutOfBounds(t *testing.T) {
	s := New(4, 4, 4)
	if _, err := s.Get(4, 0, 0); !errors.Is(err, voxelerrs.ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if err := s.Set(-1, 0, 0, 1); !errors.Is(err, voxelerrs.ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestCountSolid(t *testing.T) {
	s := New(2, 2, 2)
	if s.CountSolid() != 0 {
		t.Fatalf("fresh air store should have 0 solid cells")
	}
	s.Set(0, 0, 0, 1)
	s.Set(1, 1, 1, 1)
	if got := s.CountSolid(); got != 2 {
		t.Fatalf("got %d solid cells, want 2", got)
	}

	filled := NewUniform(3, 3, 3, voxeltype.ID(9))
	if got := filled.CountSolid(); got != 27 {
		t.Fatalf("got %d, want 27", got)
	}
}

func TestFillCollapsesToUniform(t *testing.T) {
	s := New(2, 2, 2)
	s.Set(0, 0, 0, 1)
	s.Fill(7)
	if id, ok := s.IsUniform(); !ok || id != 7 {
		t.Fatalf("expected uniform(7) after Fill, got %v %v", id, ok)
	}
}

func TestDemoteCollapsesUniformDenseArray(t *testing.T) {
	s := New(2, 2, 2)
	s.Set(0, 0, 0, 4)
	s.Set(0, 0, 0, 0) // back to air, but dense stays dense until Demote
	if _, dense := s.Raw(); !dense {
		t.Fatal("expected store to still be dense before Demote")
	}
	s.Demote()
	if id, ok := s.IsUniform(); !ok || id != 0 {
		t.Fatalf("expected uniform(air) after Demote, got %v %v", id, ok)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := New(2, 2, 2)
	s.Set(0, 0, 0, 1)
	snap := s.Snapshot()
	s.Set(1, 1, 1, 2)
	got, _ := snap.Get(1, 1, 1)
	if got != 0 {
		t.Fatalf("snapshot observed a live mutation: got %d, want 0 (air)", got)
	}
}
