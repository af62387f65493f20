package chunk

import "fmt"

// Coord identifies a chunk's slot in the world grid. X and Z are plain
// horizontal chunk indices (world-x / S, world-z / S); Y is not a
// horizontal-style division of world-y by a fixed height — it is the
// index returned by WorldYToChunkY, which folds the three vertical
// zones into one monotonic axis (see zone.go).
type Coord struct {
	X, Y, Z int32
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// Dir is one of the six axis-aligned face directions.
type Dir uint8

const (
	PosX Dir = iota
	NegX
	PosY
	NegY
	PosZ
	NegZ
)

// Dirs lists every direction in a fixed order, used anywhere iteration
// order must be deterministic (neighbor linking, mesher sweeps).
var Dirs = [6]Dir{PosX, NegX, PosY, NegY, PosZ, NegZ}

// Opposite returns the direction pointing back the way it came.
func (d Dir) Opposite() Dir {
	switch d {
	case PosX:
		return NegX
	case NegX:
		return PosX
	case PosY:
		return NegY
	case NegY:
		return PosY
	case PosZ:
		return NegZ
	default:
		return PosZ
	}
}

// Delta returns the unit Coord offset for this direction.
func (d Dir) Delta() Coord {
	switch d {
	case PosX:
		return Coord{1, 0, 0}
	case NegX:
		return Coord{-1, 0, 0}
	case PosY:
		return Coord{0, 1, 0}
	case NegY:
		return Coord{0, -1, 0}
	case PosZ:
		return Coord{0, 0, 1}
	default:
		return Coord{0, 0, -1}
	}
}

func (d Dir) String() string {
	switch d {
	case PosX:
		return "+X"
	case NegX:
		return "-X"
	case PosY:
		return "+Y"
	case NegY:
		return "-Y"
	case PosZ:
		return "+Z"
	default:
		return "-Z"
	}
}

// Neighbor returns the coordinate adjacent to c in direction d.
func (c Coord) Neighbor(d Dir) Coord {
	delta := d.Delta()
	return Coord{c.X + delta.X, c.Y + delta.Y, c.Z + delta.Z}
}
