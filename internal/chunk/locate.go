package chunk

// LocateVoxel resolves an absolute world-space cell coordinate to the
// chunk that owns it and the cell's local coordinate within that chunk.
func LocateVoxel(worldX, worldY, worldZ int64) (coord Coord, localX, localY, localZ int) {
	cx := floorDiv(worldX, Size)
	cz := floorDiv(worldZ, Size)
	cy := WorldYToChunkY(worldY)
	yOrigin := ChunkYWorldOrigin(cy)

	coord = Coord{X: int32(cx), Y: cy, Z: int32(cz)}
	localX = int(worldX - cx*Size)
	localY = int(worldY - yOrigin)
	localZ = int(worldZ - cz*Size)
	return coord, localX, localY, localZ
}
