package world

// DestroyedFunc reports whether the voxel at a world coordinate has been
// destroyed by an edit. A nil func means no edits.
type DestroyedFunc func(x, y, z int) bool

// PaddedIndex flattens padded buffer coordinates, x-fastest, then z, then y.
func PaddedIndex(px, py, pz int) int {
	return (py*PaddedSize+pz)*PaddedSize + px
}

// BuildChunkVoxels materializes the padded voxel buffer for one chunk,
// dimensions PaddedSize x PaddedHeight x PaddedSize. Every padded cell,
// halo included, is computed from world coordinates, so the mesher sees true
// neighbor occupancy without neighboring chunks being resident. No caching
// happens here; repeated calls rely on terrain determinism.
func BuildChunkVoxels(tc *TerrainCache, cx, cz int, isDestroyed DestroyedFunc) []VoxelID {
	voxels := make([]VoxelID, PaddedSize*PaddedHeight*PaddedSize)
	baseX := cx * ChunkSize
	baseZ := cz * ChunkSize

	i := 0
	for py := 0; py < PaddedHeight; py++ {
		worldY := py - 1
		for pz := 0; pz < PaddedSize; pz++ {
			worldZ := baseZ + pz - 1
			for px := 0; px < PaddedSize; px++ {
				worldX := baseX + px - 1
				if isDestroyed != nil && isDestroyed(worldX, worldY, worldZ) {
					i++ // zero value is air
					continue
				}
				voxels[i] = tc.VoxelAt(worldX, worldY, worldZ)
				i++
			}
		}
	}
	return voxels
}
