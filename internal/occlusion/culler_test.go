package occlusion

import (
	"testing"

	"voxelcore/internal/chunk"
)

// TestFloodFillContainment mirrors scenario E6: a chunk that is itself
// fully opaque and whose only active neighbor is also fully opaque has no
// edge a BFS can cross into it, so it is excluded from the visible set,
// while chunks reachable through at least one non-opaque hop are
// included (the culler is conservative: it never excludes a chunk that
// has any non-opaque neighbor along the path).
func TestFloodFillContainment(t *testing.T) {
	// Layout along X: [-2]=opaque [-1]=opaque [0]=open(observer) [1]=opaque [2]=opaque; nothing beyond +-2 is active,
	// so [2] and [-2] can only be entered from an opaque chunk.
	opaque := map[chunk.Coord]bool{
		{X: -2}: true,
		{X: -1}: true,
		{X: 1}:  true,
		{X: 2}:  true,
	}
	active := func(c chunk.Coord) bool {
		return c.X >= -2 && c.X <= 2 && c.Y == 0 && c.Z == 0
	}
	query := func(c chunk.Coord) (bool, bool) {
		return active(c), opaque[c]
	}

	visible := floodFill(chunk.Coord{X: 0}, defaultManhattanCap, query)

	if _, ok := visible[chunk.Coord{X: 0}]; !ok {
		t.Fatal("observer's own chunk must be visible")
	}
	if _, ok := visible[chunk.Coord{X: 1}]; !ok {
		t.Fatal("chunk reachable through the observer's non-opaque chunk must be visible")
	}
	if _, ok := visible[chunk.Coord{X: 2}]; ok {
		t.Fatal("opaque chunk reachable only through an opaque neighbor must not be visible")
	}
	if _, ok := visible[chunk.Coord{X: -2}]; ok {
		t.Fatal("opaque chunk reachable only through an opaque neighbor must not be visible")
	}
}

func TestCullerDisabledIsAlwaysVisible(t *testing.T) {
	c := New(Disabled)
	if !c.IsVisible(chunk.Coord{X: 1000, Y: 1000, Z: 1000}) {
		t.Fatal("disabled culler must report everything visible")
	}
}

func TestCullerRebuildsOnObserverChunkChange(t *testing.T) {
	c := New(FloodFill)
	always := func(chunk.Coord) (bool, bool) { return true, false }

	if rebuilt := c.Tick(chunk.Coord{X: 0}, always); !rebuilt {
		t.Fatal("first tick must rebuild")
	}
	if rebuilt := c.Tick(chunk.Coord{X: 0}, always); rebuilt {
		t.Fatal("ticking with the same observer chunk and no dirty flag must not rebuild")
	}
	if rebuilt := c.Tick(chunk.Coord{X: 1}, always); !rebuilt {
		t.Fatal("moving to a new observer chunk must rebuild")
	}
}

func TestCullerRebuildsWhenDirtyAfterInterval(t *testing.T) {
	c := New(FloodFill)
	c.rebuildInterval = 2
	always := func(chunk.Coord) (bool, bool) { return true, false }

	c.Tick(chunk.Coord{}, always) // frame 0: initial rebuild, framesSinceBuild resets to 0
	c.MarkDirty()
	if rebuilt := c.Tick(chunk.Coord{}, always); rebuilt {
		t.Fatal("should not rebuild before the interval elapses even if dirty")
	}
	if rebuilt := c.Tick(chunk.Coord{}, always); !rebuilt {
		t.Fatal("should rebuild once dirty and the interval has elapsed")
	}
}

func TestManhattanCapBoundsReachability(t *testing.T) {
	always := func(chunk.Coord) (bool, bool) { return true, false }
	visible := floodFill(chunk.Coord{}, 1, always)
	if _, ok := visible[chunk.Coord{X: 2}]; ok {
		t.Fatal("chunk at Manhattan distance 2 must not be reachable with cap 1")
	}
	if _, ok := visible[chunk.Coord{X: 1}]; !ok {
		t.Fatal("chunk at Manhattan distance 1 must be reachable with cap 1")
	}
}
