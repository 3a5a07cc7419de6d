package world

import "testing"

func TestBuildChunkVoxelsDimensions(t *testing.T) {
	tc := NewTerrainCache("demo")
	voxels := BuildChunkVoxels(tc, 0, 0, nil)
	if len(voxels) != PaddedSize*PaddedHeight*PaddedSize {
		t.Fatalf("buffer length %d, want %d", len(voxels), PaddedSize*PaddedHeight*PaddedSize)
	}
}

// TestBuildChunkVoxelsMatchesWorld verifies every padded cell, halo included,
// equals a direct world query at the same coordinates.
func TestBuildChunkVoxelsMatchesWorld(t *testing.T) {
	tc := NewTerrainCache("demo")
	const cx, cz = -2, 3
	voxels := BuildChunkVoxels(tc, cx, cz, nil)

	for py := 0; py < PaddedHeight; py += 5 {
		for pz := 0; pz < PaddedSize; pz++ {
			for px := 0; px < PaddedSize; px++ {
				want := tc.VoxelAt(cx*ChunkSize+px-1, py-1, cz*ChunkSize+pz-1)
				got := voxels[PaddedIndex(px, py, pz)]
				if got != want {
					t.Fatalf("padded (%d,%d,%d): got %v, want %v", px, py, pz, got, want)
				}
			}
		}
	}
}

// TestBuildChunkVoxelsHaloConsistency verifies the shared border between two
// adjacent chunks: chunk A's +X halo equals chunk B's first interior column.
func TestBuildChunkVoxelsHaloConsistency(t *testing.T) {
	tc := NewTerrainCache("demo")
	a := BuildChunkVoxels(tc, 0, 0, nil)
	b := BuildChunkVoxels(tc, 1, 0, nil)

	for py := 0; py < PaddedHeight; py++ {
		for pz := 1; pz <= ChunkSize; pz++ {
			halo := a[PaddedIndex(PaddedSize-1, py, pz)]
			interior := b[PaddedIndex(1, py, pz)]
			if halo != interior {
				t.Fatalf("(py=%d,pz=%d): halo %v != neighbor interior %v", py, pz, halo, interior)
			}
		}
	}
}

func TestBuildChunkVoxelsDestroyed(t *testing.T) {
	tc := NewTerrainCache("demo")
	s := tc.SurfaceHeight(4, 4)

	idx := NewDestroyedVoxelIndex()
	idx.Mark(4, s, 4)

	voxels := BuildChunkVoxels(tc, 0, 0, idx.Contains)
	if v := voxels[PaddedIndex(4+1, s+1, 4+1)]; v != VoxelAir {
		t.Fatalf("destroyed voxel got %v, want air", v)
	}
	// The voxel below is untouched.
	if v := voxels[PaddedIndex(4+1, s, 4+1)]; v == VoxelAir {
		t.Fatal("voxel below the destroyed one should stay solid")
	}
}

func TestDestroyedVoxelIndex(t *testing.T) {
	idx := NewDestroyedVoxelIndex()
	if idx.Contains(1, 2, 3) {
		t.Fatal("empty index should contain nothing")
	}
	idx.Mark(1, 2, 3)
	idx.AddDelta([][3]int{{4, 5, 6}, {1, 2, 3}})
	if !idx.Contains(1, 2, 3) || !idx.Contains(4, 5, 6) {
		t.Fatal("marked voxels missing")
	}
	if idx.Len() != 2 {
		t.Fatalf("Len=%d, want 2", idx.Len())
	}
	idx.Clear()
	if idx.Len() != 0 || idx.Contains(1, 2, 3) {
		t.Fatal("Clear did not empty the index")
	}
}
