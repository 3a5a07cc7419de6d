package world

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Chunk dimensions
	ChunkSize   = 16
	ChunkHeight = 64

	// Padded buffer dimensions include a 1-voxel halo on every face so the
	// mesher can see true neighbor occupancy without resident neighbor chunks.
	PaddedSize   = ChunkSize + 2
	PaddedHeight = ChunkHeight + 2
)

// FloorDiv divides with true mathematical floor semantics, so negative world
// coordinates map to chunk coordinates continuously (e.g. -1/16 => -1, not 0).
// The divisor must be positive.
func FloorDiv(a, b int) int {
	if b <= 0 {
		panic(fmt.Sprintf("world: FloorDiv divisor must be positive, got %d", b))
	}
	q := a / b
	if a%b != 0 && a < 0 {
		q--
	}
	return q
}

// FloorMod returns the mathematical modulo, always in [0, b). The divisor must
// be positive.
func FloorMod(a, b int) int {
	if b <= 0 {
		panic(fmt.Sprintf("world: FloorMod divisor must be positive, got %d", b))
	}
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

// WorldToChunk splits a world coordinate into a chunk coordinate and the local
// offset within that chunk.
func WorldToChunk(x, chunkSize int) (chunk, local int) {
	return FloorDiv(x, chunkSize), FloorMod(x, chunkSize)
}

// ChunkKey builds the canonical "cx,cz" key for a chunk coordinate.
func ChunkKey(cx, cz int) string {
	return strconv.Itoa(cx) + "," + strconv.Itoa(cz)
}

// ParseChunkKey parses a key produced by ChunkKey back into (cx, cz).
func ParseChunkKey(key string) (cx, cz int, err error) {
	i := strings.IndexByte(key, ',')
	if i < 0 {
		return 0, 0, fmt.Errorf("world: malformed chunk key %q", key)
	}
	cx, err = strconv.Atoi(key[:i])
	if err != nil {
		return 0, 0, fmt.Errorf("world: malformed chunk key %q: %w", key, err)
	}
	cz, err = strconv.Atoi(key[i+1:])
	if err != nil {
		return 0, 0, fmt.Errorf("world: malformed chunk key %q: %w", key, err)
	}
	return cx, cz, nil
}

// ChebyshevDist is max(|ax-bx|, |az-bz|), the square-radius metric used for
// chunk activation and eviction.
func ChebyshevDist(ax, az, bx, bz int) int {
	dx := ax - bx
	if dx < 0 {
		dx = -dx
	}
	dz := az - bz
	if dz < 0 {
		dz = -dz
	}
	if dx > dz {
		return dx
	}
	return dz
}
