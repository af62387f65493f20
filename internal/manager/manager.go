// Package manager implements ChunkManager: the render-thread orchestrator
// that owns the active chunk map, streams loads/unloads around an
// observer, and routes work to the worker pool. It is grounded on the
// reference project's internal/world.World (the facade wiring store +
// streamer + generator together) and internal/world.ChunkStreamer (the
// spiral, budget-capped load/evict loop) plus
// internal/graphics/renderables/blocks/meshing.go's non-blocking
// ProcessMeshResults drain, generalized into the full state-machine-
// driven protocol of spec.md §4.8.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"voxelcore/internal/chunk"
	"voxelcore/internal/chunkcache"
	"voxelcore/internal/mesher"
	"voxelcore/internal/occlusion"
	"voxelcore/internal/region"
	"voxelcore/internal/terrain"
	"voxelcore/internal/voxelerrs"
	"voxelcore/internal/voxelstore"
	"voxelcore/internal/voxeltype"
	"voxelcore/internal/worker"
)

// Stats mirrors spec.md §6's world.stats() record.
type Stats struct {
	ActiveChunks    int
	PooledChunks    int
	Regions         int
	PendingJobs     int
	CompletedJobs   int64
	OcclusionHidden int
	CacheHitRate    float64
}

// Manager is ChunkManager. Every exported method is meant to be called
// from a single goroutine, the "render thread" of spec.md §5; the
// worker pool's goroutines never touch Manager state directly.
type Manager struct {
	table      *voxeltype.Table
	terrainSrc terrain.Source
	cache      *chunkcache.Cache
	pool       *worker.Pool
	culler     *occlusion.Culler
	cfg        Config
	log        *slog.Logger

	active       map[chunk.Coord]*chunk.Chunk
	regions      map[region.Coord]*region.Region
	chunkPool    []*chunk.Chunk
	pendingLoad  []chunk.Coord
	genRetries   map[chunk.Coord]int
	pendingRegionCombine map[region.Coord]bool
	deferredMesh   []worker.Result
	deferredRegion []worker.Result

	observerPos     mgl32.Vec3
	haveTicked      bool
	lastTickObsPos  mgl32.Vec3

	cacheHits, cacheMisses int64
	completedJobs          int64
}

// New wires a Manager around a voxel type table and terrain source. If
// cfg.CachePath is non-empty a LevelDB-backed ChunkCache is opened there.
func New(table *voxeltype.Table, src terrain.Source, cfg Config, log *slog.Logger) (*Manager, error) {
	if log == nil {
		log = slog.Default()
	}
	var cache *chunkcache.Cache
	if cfg.CachePath != "" {
		c, err := chunkcache.Open(cfg.CachePath, log)
		if err != nil {
			return nil, fmt.Errorf("manager: opening chunk cache: %w", err)
		}
		cache = c
	}
	return &Manager{
		table:                table,
		terrainSrc:           src,
		cache:                cache,
		pool:                 worker.New(cfg.WorkerThreadCount, 512, log),
		culler:               occlusion.New(cfg.OcclusionMode),
		cfg:                  cfg,
		log:                  log,
		active:               make(map[chunk.Coord]*chunk.Chunk),
		regions:              make(map[region.Coord]*region.Region),
		genRetries:           make(map[chunk.Coord]int),
		pendingRegionCombine: make(map[region.Coord]bool),
	}, nil
}

// Close shuts down the worker pool and closes the chunk cache, if any.
func (m *Manager) Close() error {
	m.pool.Shutdown()
	if m.cache != nil {
		return m.cache.Close()
	}
	return nil
}

// SetObserverPosition records the camera/player position used to drive
// streaming, priority and occlusion.
func (m *Manager) SetObserverPosition(pos mgl32.Vec3) {
	m.observerPos = pos
}

func (m *Manager) observerChunkCoord() chunk.Coord {
	coord, _, _, _ := chunk.LocateVoxel(int64(m.observerPos.X()), int64(m.observerPos.Y()), int64(m.observerPos.Z()))
	return coord
}

// GetVoxel returns the cell type at an absolute world coordinate. An
// unloaded chunk reads as AIR; this is a deliberate simplification of
// spec.md §7's Unloaded error for the read path, since a query against
// space outside the active set has an obviously correct answer and
// forcing callers to handle an error there would add no information.
func (m *Manager) GetVoxel(worldX, worldY, worldZ int64) (voxeltype.ID, error) {
	coord, lx, ly, lz := chunk.LocateVoxel(worldX, worldY, worldZ)
	c, ok := m.active[coord]
	if !ok {
		return voxeltype.Air, nil
	}
	return c.Get(lx, ly, lz)
}

// SetVoxel is the edit protocol of spec.md §4.8: write through the
// owning chunk, mark it and any affected neighbor mesh-dirty, mark the
// occlusion graph dirty, and enqueue re-mesh jobs.
func (m *Manager) SetVoxel(worldX, worldY, worldZ int64, id voxeltype.ID) error {
	coord, lx, ly, lz := chunk.LocateVoxel(worldX, worldY, worldZ)
	c, ok := m.active[coord]
	if !ok {
		return voxelerrs.ErrUnloaded
	}
	if err := c.Set(lx, ly, lz, id); err != nil {
		return err
	}
	m.culler.MarkDirty()
	m.enqueueChunkMesh(c)

	sizeX, height, sizeZ := c.Store.Shape()
	for _, d := range chunk.Dirs {
		if !onBoundary(d, lx, ly, lz, sizeX, height, sizeZ) {
			continue
		}
		nc, ok := c.GetNeighbor(d)
		if !ok {
			continue
		}
		if n, ok := m.active[nc]; ok {
			n.MarkMeshDirty()
			m.enqueueChunkMesh(n)
		}
	}
	return nil
}

func onBoundary(d chunk.Dir, lx, ly, lz, sizeX, height, sizeZ int) bool {
	switch d {
	case chunk.PosX:
		return lx == sizeX-1
	case chunk.NegX:
		return lx == 0
	case chunk.PosY:
		return ly == height-1
	case chunk.NegY:
		return ly == 0
	case chunk.PosZ:
		return lz == sizeZ-1
	default:
		return lz == 0
	}
}

// Tick runs one pass of the per-tick protocol of spec.md §4.8: recompute
// the needed set on sufficient observer movement, drain a bounded number
// of completed jobs, refresh occlusion, and schedule region combines.
func (m *Manager) Tick() {
	moved := !m.haveTicked || m.observerPos.Sub(m.lastTickObsPos).Len() >= m.cfg.UpdateThreshold
	if moved {
		m.recomputeNeededSet()
		m.lastTickObsPos = m.observerPos
		m.haveTicked = true
	}
	m.drainPendingLoads()
	m.drainCompletions()

	oc := m.observerChunkCoord()
	m.culler.Tick(oc, m.queryOpaque)

	m.scheduleRegionCombines()
}

func (m *Manager) queryOpaque(c chunk.Coord) (active, opaque bool) {
	ch, ok := m.active[c]
	if !ok || ch.State != chunk.Active {
		return false, false
	}
	return true, ch.IsFullyOpaque(m.table)
}

func absI32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// recomputeNeededSet computes needed-active/active-needed and unloads
// immediately, queuing new loads for drainPendingLoads to apply at the
// per-frame generation budget (spec.md §4.8 step 1; see DESIGN.md for
// why new-chunk loads are drained every tick rather than only on the
// triggering tick).
func (m *Manager) recomputeNeededSet() {
	oc := m.observerChunkCoord()
	R := m.cfg.RenderDistanceHorizontal
	V := m.cfg.RenderDistanceVertical

	needed := make(map[chunk.Coord]struct{})
	for dy := -V; dy <= V; dy++ {
		for dx := -R; dx <= R; dx++ {
			for dz := -R; dz <= R; dz++ {
				if absI32(dx)+absI32(dy)+absI32(dz) > R {
					continue
				}
				needed[chunk.Coord{X: oc.X + dx, Y: oc.Y + dy, Z: oc.Z + dz}] = struct{}{}
			}
		}
	}

	var gone []chunk.Coord
	for coord := range m.active {
		if _, ok := needed[coord]; !ok {
			gone = append(gone, coord)
		}
	}
	for _, coord := range gone {
		m.unloadChunk(coord)
	}

	var fresh []chunk.Coord
	for coord := range needed {
		if _, ok := m.active[coord]; !ok {
			fresh = append(fresh, coord)
		}
	}
	sort.Slice(fresh, func(i, j int) bool {
		return m.priorityFor(fresh[i]) > m.priorityFor(fresh[j])
	})
	m.pendingLoad = fresh
}

func (m *Manager) drainPendingLoads() {
	n := m.cfg.MaxChunksPerFrame
	for n > 0 && len(m.pendingLoad) > 0 {
		coord := m.pendingLoad[0]
		m.pendingLoad = m.pendingLoad[1:]
		if _, ok := m.active[coord]; ok {
			continue
		}
		m.loadChunk(coord)
		n--
	}
}

func (m *Manager) acquireChunk(coord chunk.Coord) *chunk.Chunk {
	if len(m.chunkPool) > 0 {
		last := len(m.chunkPool) - 1
		c := m.chunkPool[last]
		m.chunkPool = m.chunkPool[:last]
		c.Reset(coord)
		return c
	}
	return chunk.New(coord)
}

func (m *Manager) releaseChunk(c *chunk.Chunk) {
	m.chunkPool = append(m.chunkPool, c)
}

func (m *Manager) loadChunk(coord chunk.Coord) {
	c := m.acquireChunk(coord)
	c.State = chunk.Pending
	m.active[coord] = c
	m.submitGenerate(coord, m.priorityFor(coord))
}

func (m *Manager) submitGenerate(coord chunk.Coord, priority float32) {
	c, ok := m.active[coord]
	if !ok {
		return
	}
	c.State = chunk.Generating
	seed := m.cfg.WorldSeed
	cache := m.cache
	src := m.terrainSrc
	job := &worker.Job{
		Kind:     worker.GenerateTerrain,
		Priority: priority,
		Key:      coord,
		Run: func(ctx context.Context) (any, error) {
			if cache != nil {
				if store, ok := cache.Get(seed, coord); ok {
					return generationOutcome{store: store, cacheHit: true}, nil
				}
			}
			store, err := src.Generate(coord, seed)
			if err != nil {
				return nil, fmt.Errorf("generating %v: %w", coord, voxelerrs.ErrTerrainSource)
			}
			if cache != nil {
				cache.Put(seed, coord, store)
			}
			return generationOutcome{store: store, cacheHit: false}, nil
		},
	}
	if err := m.pool.Submit(job); err != nil {
		m.log.Warn("failed to submit generation job", "coord", coord, "err", err)
	}
}

func (m *Manager) unloadChunk(coord chunk.Coord) {
	c, ok := m.active[coord]
	if !ok {
		return
	}
	c.State = chunk.Unloading
	if m.cache != nil && c.VoxelDirty {
		m.cache.Put(m.cfg.WorldSeed, coord, c.Store)
	}
	for _, d := range chunk.Dirs {
		if nc, ok := c.GetNeighbor(d); ok {
			if n, ok := m.active[nc]; ok {
				n.SetNeighbor(d.Opposite(), chunk.Coord{}, false)
			}
		}
		c.SetNeighbor(d, chunk.Coord{}, false)
	}
	if rc, ok := m.regions[region.CoordOf(coord)]; ok {
		rc.Detach(coord)
		if rc.Empty() {
			delete(m.regions, region.CoordOf(coord))
		}
	}
	delete(m.active, coord)
	delete(m.genRetries, coord)
	c.State = chunk.Unloaded
	m.releaseChunk(c)
}

func (m *Manager) linkNeighbors(c *chunk.Chunk) {
	for _, d := range chunk.Dirs {
		nc := c.Coord.Neighbor(d)
		n, ok := m.active[nc]
		if !ok {
			continue
		}
		c.SetNeighbor(d, nc, true)
		n.SetNeighbor(d.Opposite(), c.Coord, true)
	}
}

func (m *Manager) enqueueChunkMesh(c *chunk.Chunk) {
	var neighbors [6]*voxelstore.Store
	for _, d := range chunk.Dirs {
		if nc, ok := c.GetNeighbor(d); ok {
			if n, ok := m.active[nc]; ok {
				neighbors[d] = n.Store.Snapshot()
			}
		}
	}
	input := mesher.Input{Coord: c.Coord, Store: c.Store.Snapshot(), Neighbors: neighbors, Table: m.table}
	coord := c.Coord
	priority := m.priorityFor(coord)
	job := &worker.Job{
		Kind:     worker.BuildChunkMesh,
		Priority: priority,
		Key:      coord,
		Run: func(ctx context.Context) (any, error) {
			return mesher.Build(input), nil
		},
	}
	if err := m.pool.Coalesce(job); err != nil {
		m.log.Warn("failed to submit mesh job", "coord", coord, "err", err)
	}
}

func (m *Manager) drainCompletions() {
	meshBudget := m.cfg.MaxChunkMeshPerFrame
	regionBudget := m.cfg.MaxRegionCombinePerFrame

	for meshBudget > 0 && len(m.deferredMesh) > 0 {
		res := m.deferredMesh[0]
		m.deferredMesh = m.deferredMesh[1:]
		m.applyChunkMeshResult(res)
		meshBudget--
	}
	for regionBudget > 0 && len(m.deferredRegion) > 0 {
		res := m.deferredRegion[0]
		m.deferredRegion = m.deferredRegion[1:]
		m.applyRegionCombineResult(res)
		regionBudget--
	}

	for {
		select {
		case res, ok := <-m.pool.Completed():
			if !ok {
				return
			}
			m.completedJobs++
			switch res.Kind {
			case worker.GenerateTerrain:
				m.applyGenerationResult(res)
			case worker.BuildChunkMesh:
				if meshBudget > 0 {
					m.applyChunkMeshResult(res)
					meshBudget--
				} else {
					m.deferredMesh = append(m.deferredMesh, res)
				}
			case worker.BuildRegionMesh:
				if regionBudget > 0 {
					m.applyRegionCombineResult(res)
					regionBudget--
				} else {
					m.deferredRegion = append(m.deferredRegion, res)
				}
			}
		default:
			return
		}
	}
}

func (m *Manager) applyGenerationResult(res worker.Result) {
	coord := res.Key.(chunk.Coord)
	c, ok := m.active[coord]
	if !ok {
		return // chunk was unloaded while the job ran; discard per spec.md §5
	}
	if res.Err != nil {
		if m.genRetries[coord] < 1 {
			m.genRetries[coord]++
			m.submitGenerate(coord, m.priorityFor(coord)-1000)
			return
		}
		m.log.Warn("terrain generation failed twice, leaving chunk empty", "coord", coord, "err", res.Err)
		delete(m.genRetries, coord)
		c.State = chunk.Active
		return
	}
	delete(m.genRetries, coord)
	outcome := res.Value.(generationOutcome)
	if outcome.cacheHit {
		m.cacheHits++
	} else {
		m.cacheMisses++
	}
	c.Store = outcome.store
	c.State = chunk.Meshing
	m.linkNeighbors(c)
	m.enqueueChunkMesh(c)

	for _, d := range chunk.Dirs {
		nc, ok := c.GetNeighbor(d)
		if !ok {
			continue
		}
		if n, ok := m.active[nc]; ok && n.State == chunk.Active {
			n.State = chunk.Meshing
			n.MarkMeshDirty()
			m.enqueueChunkMesh(n)
		}
	}
}

func (m *Manager) applyChunkMeshResult(res worker.Result) {
	coord := res.Key.(chunk.Coord)
	c, ok := m.active[coord]
	if !ok {
		return
	}
	if res.Err != nil {
		if errors.Is(res.Err, voxelerrs.ErrStaleNeighbor) {
			m.enqueueChunkMesh(c)
			return
		}
		m.log.Warn("mesh job failed", "coord", coord, "err", res.Err)
		return
	}
	c.Mesh = res.Value.(chunk.MeshArrays)
	c.ClearMeshDirty()
	c.State = chunk.Active

	rc := region.CoordOf(coord)
	r, ok := m.regions[rc]
	if !ok {
		r = region.New(rc)
		m.regions[rc] = r
	}
	r.Attach(chunkMember{c})
	r.NotifyChunkMeshed(coord)
}

// generationOutcome carries the cache-hit/miss fact from the worker
// goroutine that ran the job back to applyGenerationResult, which
// updates m.cacheHits/m.cacheMisses on the render thread.
type generationOutcome struct {
	store    *voxelstore.Store
	cacheHit bool
}

type regionCombinePayload struct {
	Mesh    chunk.MeshArrays
	Covered []chunk.Coord
}

func (m *Manager) applyRegionCombineResult(res worker.Result) {
	rc := res.Key.(region.Coord)
	delete(m.pendingRegionCombine, rc)
	r, ok := m.regions[rc]
	if !ok {
		return
	}
	if res.Err != nil {
		// ErrMemberGone: leave dirty, retry next frame. ErrNothingToBuild:
		// nothing to do, the region legitimately has no geometry.
		return
	}
	payload := res.Value.(regionCombinePayload)
	r.ApplyCombined(payload.Mesh, payload.Covered)
}

func (m *Manager) scheduleRegionCombines() {
	type candidate struct {
		coord region.Coord
		dist  float32
	}
	var list []candidate
	for rc, r := range m.regions {
		if r.IsDirty() && !m.pendingRegionCombine[rc] {
			list = append(list, candidate{rc, m.regionDistance(rc)})
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].dist < list[j].dist })

	n := m.cfg.MaxRegionCombinePerFrame
	if n > len(list) {
		n = len(list)
	}
	for i := 0; i < n; i++ {
		m.submitRegionCombine(list[i].coord)
	}
}

func (m *Manager) submitRegionCombine(rc region.Coord) {
	r, ok := m.regions[rc]
	if !ok {
		return
	}
	origin, members, covered := r.Snapshot()
	if len(members) == 0 {
		return
	}
	m.pendingRegionCombine[rc] = true
	priority := -m.regionDistance(rc)
	job := &worker.Job{
		Kind:     worker.BuildRegionMesh,
		Priority: priority,
		Key:      rc,
		Run: func(ctx context.Context) (any, error) {
			mesh, err := region.BuildSnapshotMesh(origin, members)
			return regionCombinePayload{Mesh: mesh, Covered: covered}, err
		},
	}
	if err := m.pool.Submit(job); err != nil {
		delete(m.pendingRegionCombine, rc)
	}
}

func (m *Manager) priorityFor(coord chunk.Coord) float32 {
	oc := m.observerChunkCoord()
	dx := float64(coord.X - oc.X)
	dy := float64(coord.Y - oc.Y)
	dz := float64(coord.Z - oc.Z)
	return float32(-math.Sqrt(dx*dx + dy*dy + dz*dz))
}

func (m *Manager) regionDistance(rc region.Coord) float32 {
	oc := m.observerChunkCoord()
	cx := rc.X*region.Size + region.Size/2
	cy := rc.Y*region.Size + region.Size/2
	cz := rc.Z*region.Size + region.Size/2
	dx := float64(cx - oc.X)
	dy := float64(cy - oc.Y)
	dz := float64(cz - oc.Z)
	return float32(math.Sqrt(dx*dx + dy*dy + dz*dz))
}

// chunkMember adapts *chunk.Chunk to region.Member without handing the
// region package a live mutable Chunk reference beyond what the
// interface exposes.
type chunkMember struct{ c *chunk.Chunk }

func (m chunkMember) Coord() chunk.Coord      { return m.c.Coord }
func (m chunkMember) WorldOrigin() mgl32.Vec3 { return m.c.WorldOrigin() }
func (m chunkMember) CachedMesh() (chunk.MeshArrays, bool) {
	if m.c.State != chunk.Active {
		return chunk.MeshArrays{}, false
	}
	return m.c.Mesh, true
}

// RegionMesh is the per-region payload the renderer pulls, matching
// spec.md §6's iter_visible_region_meshes record.
type RegionMesh struct {
	Origin      mgl32.Vec3
	Mesh        chunk.MeshArrays
	MaterialKey string
}

// VisibleRegionMeshes returns every region the occlusion culler
// currently considers reachable, paired with its combined mesh. The
// returned slices must not be mutated by the caller (spec.md §6).
func (m *Manager) VisibleRegionMeshes() []RegionMesh {
	var out []RegionMesh
	for rc, r := range m.regions {
		if r.Combined().Empty() {
			continue
		}
		if !m.regionHasVisibleMember(rc, r) {
			continue
		}
		out = append(out, RegionMesh{Origin: r.WorldOrigin(), Mesh: r.Combined(), MaterialKey: "default"})
	}
	return out
}

func (m *Manager) regionHasVisibleMember(rc region.Coord, r *region.Region) bool {
	base := chunk.Coord{X: rc.X * region.Size, Y: rc.Y * region.Size, Z: rc.Z * region.Size}
	for dx := int32(0); dx < region.Size; dx++ {
		for dy := int32(0); dy < region.Size; dy++ {
			for dz := int32(0); dz < region.Size; dz++ {
				c := chunk.Coord{X: base.X + dx, Y: base.Y + dy, Z: base.Z + dz}
				if _, ok := m.active[c]; ok && m.culler.IsVisible(c) {
					return true
				}
			}
		}
	}
	return false
}

// Regenerate unloads every active chunk (returning it to the pool) and,
// if a cache is configured, wipes its on-disk contents for the current seed, then
// rebuilds the needed set from scratch on the next Tick.
func (m *Manager) Regenerate() error {
	if err := m.Clear(); err != nil {
		return err
	}
	if m.cache != nil {
		return m.cache.ClearSeed(m.cfg.WorldSeed)
	}
	return nil
}

// Clear unloads every active chunk and drops the region map, without
// touching the on-disk cache. Unloaded chunks are returned to the pool,
// which is kept for reuse.
func (m *Manager) Clear() error {
	var coords []chunk.Coord
	for c := range m.active {
		coords = append(coords, c)
	}
	for _, c := range coords {
		m.unloadChunk(c)
	}
	m.regions = make(map[region.Coord]*region.Region)
	m.haveTicked = false
	return nil
}

// Stats reports the embedding-facing snapshot of spec.md §6.
func (m *Manager) Stats() Stats {
	var rate float64
	if total := m.cacheHits + m.cacheMisses; total > 0 {
		rate = float64(m.cacheHits) / float64(total)
	}
	hidden := len(m.active) - m.culler.VisibleCount()
	if m.cfg.OcclusionMode == occlusion.Disabled {
		hidden = 0 // a disabled culler treats every chunk as visible
	}
	return Stats{
		ActiveChunks:    len(m.active),
		PooledChunks:    len(m.chunkPool),
		Regions:         len(m.regions),
		PendingJobs:     m.pool.Pending(),
		CompletedJobs:   m.completedJobs,
		OcclusionHidden: hidden,
		CacheHitRate:    rate,
	}
}
