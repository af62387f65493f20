// Package voxeltype is the process-wide, frozen-after-init registry
// mapping voxel type ids to their rendering/physical properties. It
// generalizes the reference project's internal/registry block table
// (id -> BlockDefinition) from a fixed block set to an arbitrary,
// embedding-supplied table.
package voxeltype

import "github.com/go-gl/mathgl/mgl32"

// ID is an 8-bit voxel type id. 0 is reserved for air.
type ID uint8

// Air is the reserved empty voxel id.
const Air ID = 0

// Properties describes the static, data-only attributes of a voxel type.
// There is deliberately no per-voxel virtual dispatch (spec.md §9):
// behavior is always a table lookup against plain data.
type Properties struct {
	Name     string
	Color    mgl32.Vec4 // RGBA, 0..1
	Opaque   bool
	Emissive bool
	Hardness float32
}

var unknownOpaque = Properties{
	Name:   "unknown",
	Color:  mgl32.Vec4{1, 0, 1, 1},
	Opaque: true,
}

var airProps = Properties{
	Name:   "air",
	Color:  mgl32.Vec4{0, 0, 0, 0},
	Opaque: false,
}

// Table is a read-only registry of voxel type properties. It is built
// once at startup via NewTable and never mutated afterward; all of its
// methods are safe for concurrent use from any thread without further
// synchronization.
type Table struct {
	entries map[ID]Properties
}

// NewTable builds a frozen table from the given entries. Entries need
// not include Air; it is always present with is_solid=false,
// is_opaque=false. Callers typically build this once at startup and
// share it across every World.
func NewTable(entries map[ID]Properties) *Table {
	t := &Table{entries: make(map[ID]Properties, len(entries)+1)}
	for id, p := range entries {
		t.entries[id] = p
	}
	if _, ok := t.entries[Air]; !ok {
		t.entries[Air] = airProps
	}
	return t
}

// PropertiesOf is a total function: unknown ids yield a sentinel
// "opaque unknown" rather than failing.
func (t *Table) PropertiesOf(id ID) Properties {
	if p, ok := t.entries[id]; ok {
		return p
	}
	return unknownOpaque
}

// IsOpaque reports whether a voxel type fully occludes light/visibility
// through its faces.
func (t *Table) IsOpaque(id ID) bool {
	if id == Air {
		return false
	}
	return t.PropertiesOf(id).Opaque
}

// IsSolid reports whether a voxel type occupies physical space: every id
// other than Air is solid, regardless of its Opaque flag, so a
// transparent type such as glass (Opaque=false) is still solid.
func (t *Table) IsSolid(id ID) bool {
	return id != Air
}

// ColorOf returns the base vertex color for a voxel type.
func (t *Table) ColorOf(id ID) mgl32.Vec4 {
	return t.PropertiesOf(id).Color
}

// IsEmissive reports whether a voxel type emits light. The core does not
// propagate lighting (spec.md Non-goals) but retains the flag for
// embeddings that layer their own lighting on top.
func (t *Table) IsEmissive(id ID) bool {
	return t.PropertiesOf(id).Emissive
}
