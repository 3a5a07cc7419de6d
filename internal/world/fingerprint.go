package world

import (
	"fmt"
	"math/bits"
)

// ErrBadRadius is returned when a fingerprint radius is negative.
var ErrBadRadius = fmt.Errorf("world: fingerprint radius must be non-negative")

// WorldFingerprint computes a deterministic digest of generated terrain in
// the square of the given Chebyshev radius (in chunks) around the origin.
// Any change to generation output changes the fingerprint, which makes it a
// cheap regression check for the whole terrain pipeline.
//
// Per chunk, every non-halo row of raw voxel bytes feeds two running 32-bit
// accumulators: an FNV-style multiply-xor and a position-dependent
// rotate-xor. The result concatenates both as 8-hex-digit strings.
func WorldFingerprint(seed string, radius int) (string, error) {
	if radius < 0 {
		return "", ErrBadRadius
	}

	tc := NewTerrainCache(seed)
	h1 := fnvOffsetBasis
	h2 := uint32(0)
	pos := uint32(0)

	for cz := -radius; cz <= radius; cz++ {
		for cx := -radius; cx <= radius; cx++ {
			voxels := BuildChunkVoxels(tc, cx, cz, nil)
			for py := 1; py <= ChunkHeight; py++ {
				for pz := 1; pz <= ChunkSize; pz++ {
					row := PaddedIndex(1, py, pz)
					for px := 0; px < ChunkSize; px++ {
						b := uint32(voxels[row+px])
						h1 ^= b
						h1 *= fnvPrime
						h2 = bits.RotateLeft32(h2, 5) ^ (b + pos)
						pos++
					}
				}
			}
		}
	}
	return fmt.Sprintf("%08x%08x", h1, h2), nil
}
