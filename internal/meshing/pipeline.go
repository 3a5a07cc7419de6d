package meshing

import (
	"voxelstream/internal/profiling"
	"voxelstream/internal/world"
)

// ChunkMesh is the finished product of the pipeline for one chunk.
type ChunkMesh struct {
	Key     string
	CX, CZ  int
	Payload *MeshPayload
}

// PaddedDims are the fixed padded buffer dimensions handed to the mesher.
var PaddedDims = [3]int{world.PaddedSize, world.PaddedHeight, world.PaddedSize}

// MeshChunk builds a chunk's padded voxel buffer and greedy-meshes it. This
// is the unit of off-thread work: pure given its inputs and free of scheduler
// state, so it can run in any goroutine without synchronization.
func MeshChunk(tc *world.TerrainCache, cx, cz int, isDestroyed world.DestroyedFunc) (*ChunkMesh, error) {
	defer profiling.Track("meshing.MeshChunk")()

	voxels := world.BuildChunkVoxels(tc, cx, cz, isDestroyed)
	payload, err := GreedyMesh(voxels, PaddedDims)
	if err != nil {
		return nil, err
	}
	return &ChunkMesh{
		Key:     world.ChunkKey(cx, cz),
		CX:      cx,
		CZ:      cz,
		Payload: payload,
	}, nil
}
