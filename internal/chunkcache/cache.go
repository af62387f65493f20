// Package chunkcache implements the on-disk ChunkCache outbound
// interface (spec.md §6), persisting chunk voxel data keyed by
// (world seed, chunk coordinate). It is grounded on
// felipemarts-krakovia/pkg/node/node.go, which opens a
// github.com/syndtr/goleveldb/leveldb.DB with leveldb.OpenFile and does
// Get/Put/Close against it for persistent state; this package does the
// same, keyed by a binary-encoded (seed, coord) key. LevelDB's built-in
// Snappy block compression satisfies spec.md §6's "the cache MAY apply
// compression" without a second dependency.
package chunkcache

import (
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"

	"github.com/syndtr/goleveldb/leveldb"

	"voxelcore/internal/chunk"
	"voxelcore/internal/voxelerrs"
	"voxelcore/internal/voxelstore"
	"voxelcore/internal/voxeltype"
)

const formatVersion = 1

// Cache is a LevelDB-backed store of serialized chunk voxel data.
type Cache struct {
	db  *leveldb.DB
	log *slog.Logger
}

// Open opens (creating if absent) a LevelDB database at dir.
func Open(dir string, log *slog.Logger) (*Cache, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, wrapIO(err)
	}
	return &Cache{db: db, log: log}, nil
}

func wrapIO(err error) error {
	if err == nil {
		return nil
	}
	return &cacheIOError{cause: err}
}

type cacheIOError struct{ cause error }

func (e *cacheIOError) Error() string { return "voxelcore: chunk cache I/O error: " + e.cause.Error() }
func (e *cacheIOError) Unwrap() error { return voxelerrs.ErrCacheIO }

func key(seed int64, coord chunk.Coord) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, seed)
	binary.Write(&buf, binary.LittleEndian, coord.X)
	binary.Write(&buf, binary.LittleEndian, coord.Y)
	binary.Write(&buf, binary.LittleEndian, coord.Z)
	return buf.Bytes()
}

// Has reports whether a cached entry exists for (seed, coord). A read
// failure is treated as a miss (spec.md §7).
func (c *Cache) Has(seed int64, coord chunk.Coord) bool {
	ok, err := c.db.Has(key(seed, coord), nil)
	if err != nil {
		c.log.Warn("chunkcache: has() failed, treating as miss", "err", err)
		return false
	}
	return ok
}

// Get reads and deserializes a chunk's voxel store. A read or decode
// failure is treated as a miss, per spec.md §7's CacheIoError policy.
func (c *Cache) Get(seed int64, coord chunk.Coord) (*voxelstore.Store, bool) {
	raw, err := c.db.Get(key(seed, coord), nil)
	if err != nil {
		if err != leveldb.ErrNotFound {
			c.log.Warn("chunkcache: get() failed, treating as miss", "err", err, "coord", coord)
		}
		return nil, false
	}
	store, err := decode(raw)
	if err != nil {
		c.log.Warn("chunkcache: corrupt entry, treating as miss", "err", err, "coord", coord)
		return nil, false
	}
	return store, true
}

// Put serializes and writes a chunk's voxel store. On failure the error
// is logged and dropped, per spec.md §7.
func (c *Cache) Put(seed int64, coord chunk.Coord, store *voxelstore.Store) {
	raw := encode(store)
	if err := c.db.Put(key(seed, coord), raw, nil); err != nil {
		c.log.Warn("chunkcache: put() failed, dropping write", "err", err, "coord", coord)
	}
}

// ClearSeed removes every entry for world seed. It is O(n) over the
// whole database since LevelDB's iterator is the only enumeration
// primitive goleveldb exposes.
func (c *Cache) ClearSeed(seed int64) error {
	iter := c.db.NewIterator(nil, nil)
	defer iter.Release()
	var seedPrefix [8]byte
	binary.LittleEndian.PutUint64(seedPrefix[:], uint64(seed))

	batch := new(leveldb.Batch)
	for iter.Next() {
		k := iter.Key()
		if len(k) >= 8 && bytes.Equal(k[:8], seedPrefix[:]) {
			batch.Delete(append([]byte(nil), k...))
		}
	}
	if err := iter.Error(); err != nil {
		return wrapIO(err)
	}
	if err := c.db.Write(batch, nil); err != nil {
		return wrapIO(err)
	}
	return nil
}

// ClearAll wipes every entry in the cache.
func (c *Cache) ClearAll() error {
	iter := c.db.NewIterator(nil, nil)
	defer iter.Release()
	batch := new(leveldb.Batch)
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	if err := iter.Error(); err != nil {
		return wrapIO(err)
	}
	return wrapIO(c.db.Write(batch, nil))
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// header precedes the dense payload (if any) in every serialized entry,
// mirroring spec.md §6's { format_version, is_uniform, uniform_value?,
// chunk_height } record.
type header struct {
	FormatVersion uint8
	IsUniform     bool
	UniformValue  voxeltype.ID
	SizeX, Height, SizeZ int32
}

func encode(s *voxelstore.Store) []byte {
	sizeX, height, sizeZ := s.Shape()
	var buf bytes.Buffer
	h := header{FormatVersion: formatVersion, SizeX: int32(sizeX), Height: int32(height), SizeZ: int32(sizeZ)}
	if id, uniform := s.IsUniform(); uniform {
		h.IsUniform = true
		h.UniformValue = id
	}
	binary.Write(&buf, binary.LittleEndian, h)
	if !h.IsUniform {
		raw, _ := s.Raw()
		buf.Write(idsToBytes(raw))
	}
	return buf.Bytes()
}

func decode(raw []byte) (*voxelstore.Store, error) {
	r := bytes.NewReader(raw)
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	if h.IsUniform {
		return voxelstore.NewUniform(int(h.SizeX), int(h.Height), int(h.SizeZ), h.UniformValue), nil
	}
	n := int(h.SizeX) * int(h.Height) * int(h.SizeZ)
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return voxelstore.FromRaw(int(h.SizeX), int(h.Height), int(h.SizeZ), bytesToIDs(payload)), nil
}

func idsToBytes(ids []voxeltype.ID) []byte {
	out := make([]byte, len(ids))
	for i, id := range ids {
		out[i] = byte(id)
	}
	return out
}

func bytesToIDs(b []byte) []voxeltype.ID {
	out := make([]voxeltype.ID, len(b))
	for i, v := range b {
		out[i] = voxeltype.ID(v)
	}
	return out
}
