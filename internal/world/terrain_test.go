package world

import "testing"

// TestVoxelAtDeterministic verifies two independent caches agree regardless
// of query order.
func TestVoxelAtDeterministic(t *testing.T) {
	a := NewTerrainCache("demo")
	b := NewTerrainCache("demo")

	// Query b in reverse order to rule out order dependence.
	type q struct{ x, y, z int }
	var queries []q
	for x := -20; x <= 20; x += 4 {
		for z := -20; z <= 20; z += 4 {
			for y := 0; y < ChunkHeight; y += 7 {
				queries = append(queries, q{x, y, z})
			}
		}
	}
	got := make([]VoxelID, len(queries))
	for i, qq := range queries {
		got[i] = a.VoxelAt(qq.x, qq.y, qq.z)
	}
	for i := len(queries) - 1; i >= 0; i-- {
		qq := queries[i]
		if v := b.VoxelAt(qq.x, qq.y, qq.z); v != got[i] {
			t.Fatalf("VoxelAt(%d,%d,%d) order dependent: %v vs %v", qq.x, qq.y, qq.z, got[i], v)
		}
	}
}

func TestSeedsProduceDifferentTerrain(t *testing.T) {
	a := NewTerrainCache("alpha")
	b := NewTerrainCache("beta")
	same := 0
	const n = 200
	for i := 0; i < n; i++ {
		x := i*13 - 1000
		z := i*7 + 500
		if a.SurfaceHeight(x, z) == b.SurfaceHeight(x, z) {
			same++
		}
	}
	if same == n {
		t.Error("different seeds produced identical surface heights everywhere")
	}
}

// TestColumnLayering verifies the material stack of plain columns: air above
// the surface, grass at it, a dirt band below, stone underneath.
func TestColumnLayering(t *testing.T) {
	tc := NewTerrainCache("demo")
	checked := 0
	for x := -64; x <= 64; x += 8 {
		for z := -64; z <= 64; z += 8 {
			p := tc.Profile(x, z)
			if p.IsRiver || p.IsVillage {
				continue
			}
			s := p.SurfaceHeight
			if v := tc.VoxelAt(x, s+1, z); v != VoxelAir {
				t.Fatalf("(%d,%d): above surface got %v", x, z, v)
			}
			if v := tc.VoxelAt(x, s, z); v != VoxelGrass {
				t.Fatalf("(%d,%d): surface got %v, want grass", x, z, v)
			}
			if v := tc.VoxelAt(x, s-1, z); v != VoxelDirt {
				t.Fatalf("(%d,%d): below surface got %v, want dirt", x, z, v)
			}
			if v := tc.VoxelAt(x, s-3, z); v != VoxelDirt {
				t.Fatalf("(%d,%d): dirt band bottom got %v", x, z, v)
			}
			if v := tc.VoxelAt(x, s-4, z); v != VoxelStone {
				t.Fatalf("(%d,%d): below dirt band got %v, want stone", x, z, v)
			}
			checked++
		}
	}
	if checked == 0 {
		t.Fatal("no plain columns found in sample area")
	}
}

// TestSurfaceBounds verifies the ridge clamp keeps every surface inside the
// vertical chunk range.
func TestSurfaceBounds(t *testing.T) {
	tc := NewTerrainCache("demo")
	for x := -500; x <= 500; x += 17 {
		for z := -500; z <= 500; z += 17 {
			p := tc.Profile(x, z)
			if p.BaseHeight < 1 || p.BaseHeight >= ChunkHeight {
				t.Fatalf("(%d,%d): base height %d out of range", x, z, p.BaseHeight)
			}
			if p.SurfaceHeight < 1 || p.SurfaceHeight >= ChunkHeight {
				t.Fatalf("(%d,%d): surface height %d out of range", x, z, p.SurfaceHeight)
			}
		}
	}
}

// TestRiverCarving finds river columns and checks carving depth and surface
// material.
func TestRiverCarving(t *testing.T) {
	tc := NewTerrainCache("demo")
	found := 0
	for x := -400; x <= 400 && found < 20; x += 3 {
		for z := -400; z <= 400 && found < 20; z += 3 {
			p := tc.Profile(x, z)
			if !p.IsRiver {
				continue
			}
			found++
			depth := p.BaseHeight - p.SurfaceHeight
			if depth < 1 || depth > 6 {
				t.Fatalf("(%d,%d): river depth %d out of [1,6]", x, z, depth)
			}
			if p.IsVillage {
				t.Fatalf("(%d,%d): village formed on a river", x, z)
			}
			if v := tc.VoxelAt(x, p.SurfaceHeight, z); v != VoxelDirt {
				t.Fatalf("(%d,%d): river bed got %v, want dirt", x, z, v)
			}
		}
	}
	if found == 0 {
		t.Fatal("no river columns found in sample area")
	}
}

// TestProfileCacheTransparent verifies a cache hit returns the same profile
// as the first computation.
func TestProfileCacheTransparent(t *testing.T) {
	tc := NewTerrainCache("demo")
	for i := 0; i < 50; i++ {
		x, z := i*11-250, i*5-100
		first := tc.Profile(x, z)
		second := tc.Profile(x, z)
		if first != second {
			t.Fatalf("(%d,%d): cached profile differs", x, z)
		}
	}
}
