package world

import (
	"math"
	"sync"
)

// Terrain shape parameters. Heights are world Y units.
const (
	baseTerrainHeight = 20
	dirtDepth         = 3

	// Ridge clamp: the first ridgeStart units above base are kept, any excess
	// is damped so peaks stay bounded.
	ridgeStart = 6
	ridgeDamp  = 0.45

	riverThreshold    = 0.15
	riverMaxDepth     = 6
	riverWarpStrength = 18.0

	// Amplitude selected by the biome mask.
	plainsAmp   = 3.0
	hillsAmp    = 14.0
	mountainAmp = 34.0
)

// Spatial frequencies, one per noise stream.
const (
	primaryFreq     = 1.0 / 96
	detailFreq      = 1.0 / 28
	biomeFreq       = 1.0 / 260
	continentalFreq = 1.0 / 420
	riverFreq       = 1.0 / 150
	riverWarpFreq   = 1.0 / 90
)

// profileCacheCap bounds the per-seed surface profile cache. Eviction removes
// the oldest-inserted entry, not the least recently used one; hot columns can
// be evicted while cold ones survive, which is accepted as a cheap
// approximation of LRU.
const profileCacheCap = 60000

// SurfaceProfile is the cached per-column decision from which voxel materials
// are derived. It is a pure function of (seed, x, z).
type SurfaceProfile struct {
	SurfaceHeight int // post river/village adjustment
	BaseHeight    int // pre-adjustment
	IsRiver       bool
	IsVillage     bool
	IsVillageRoad bool

	// Offset of this column from the village cell's jittered center, and the
	// center itself in world coordinates. Only meaningful near a village cell.
	VillageLocalX  int
	VillageLocalZ  int
	VillageCenterX int
	VillageCenterZ int
}

// TerrainCache owns all derived per-seed state: the feature noise streams and
// the bounded surface profile cache. Callers create one per seed and tear it
// down when the seed is no longer needed; there is no process-global state.
// The cache is purely a performance optimization: a hit returns bit-identical
// results to an uncached recomputation.
type TerrainCache struct {
	seed    string
	seedInt uint32

	primary     *Noise2D
	detail      *Noise2D
	biome       *Noise2D
	continental *Noise2D
	river       *Noise2D
	riverWarp   *Noise2D
	jitterX     *Noise2D
	jitterZ     *Noise2D
	villageElev *Noise2D

	mu       sync.Mutex
	profiles map[[2]int]SurfaceProfile
	order    [][2]int // insertion order, oldest at head
	head     int
}

// NewTerrainCache derives the per-feature noise streams for a seed.
func NewTerrainCache(seed string) *TerrainCache {
	seedInt := SeedToInt(seed)
	return &TerrainCache{
		seed:        seed,
		seedInt:     seedInt,
		primary:     NoiseStream(seed, seedInt, FeatureTerrain),
		detail:      NoiseStream(seed, seedInt, FeatureDetail),
		biome:       NoiseStream(seed, seedInt, FeatureBiome),
		continental: NoiseStream(seed, seedInt, FeatureContinental),
		river:       NoiseStream(seed, seedInt, FeatureRiver),
		riverWarp:   NoiseStream(seed, seedInt, FeatureRiverWarp),
		jitterX:     NoiseStream(seed, seedInt, FeatureVillageJitterX),
		jitterZ:     NoiseStream(seed, seedInt, FeatureVillageJitterZ),
		villageElev: NoiseStream(seed, seedInt, FeatureVillageHeight),
		profiles:    make(map[[2]int]SurfaceProfile),
	}
}

func (tc *TerrainCache) Seed() string {
	return tc.seed
}

func (tc *TerrainCache) SeedInt() uint32 {
	return tc.seedInt
}

// Profile returns the surface profile for a world column, memoized per seed.
func (tc *TerrainCache) Profile(x, z int) SurfaceProfile {
	key := [2]int{x, z}

	tc.mu.Lock()
	if p, ok := tc.profiles[key]; ok {
		tc.mu.Unlock()
		return p
	}
	tc.mu.Unlock()

	p := tc.computeProfile(x, z)

	tc.mu.Lock()
	if _, ok := tc.profiles[key]; !ok {
		tc.profiles[key] = p
		tc.order = append(tc.order, key)
		if len(tc.profiles) > profileCacheCap {
			oldest := tc.order[tc.head]
			tc.head++
			delete(tc.profiles, oldest)
			if tc.head >= profileCacheCap {
				tc.order = append([][2]int(nil), tc.order[tc.head:]...)
				tc.head = 0
			}
		}
	}
	tc.mu.Unlock()
	return p
}

// smoothstep maps v through a smooth 0..1 threshold between lo and hi.
func smoothstep(lo, hi, v float64) float64 {
	if v <= lo {
		return 0
	}
	if v >= hi {
		return 1
	}
	t := (v - lo) / (hi - lo)
	return t * t * (3 - 2*t)
}

// computeProfile derives a column's profile from the noise streams alone.
func (tc *TerrainCache) computeProfile(x, z int) SurfaceProfile {
	fx := float64(x)
	fz := float64(z)

	// Base height: biome mask selects the amplitude band, three octave layers
	// shape the relief at their own frequencies.
	b := tc.biome.Octave(fx*biomeFreq, fz*biomeFreq, 2, 0.5, 2.0)
	hills := smoothstep(0.56, 0.80, b)
	mountains := smoothstep(0.84, 0.96, b)
	amp := plainsAmp + hills*(hillsAmp-plainsAmp) + mountains*(mountainAmp-hillsAmp)

	cont := tc.continental.OctaveSigned(fx*continentalFreq, fz*continentalFreq, 2, 0.5, 2.0)
	prim := tc.primary.OctaveSigned(fx*primaryFreq, fz*primaryFreq, 4, 0.5, 2.0)
	det := tc.detail.OctaveSigned(fx*detailFreq, fz*detailFreq, 2, 0.5, 2.0)

	h := float64(baseTerrainHeight) + cont*0.65*amp + prim*amp + det*0.25*amp

	limit := float64(baseTerrainHeight + ridgeStart)
	if h > limit {
		h = limit + (h-limit)*ridgeDamp
	}

	base := int(math.Floor(h))
	if base < 1 {
		base = 1
	}

	p := SurfaceProfile{
		BaseHeight:    base,
		SurfaceHeight: base,
	}

	// River carving: domain-warp the sample position so rivers meander, then
	// treat the absolute noise value as distance from the river centerline.
	warpX := tc.riverWarp.Signed(fx*riverWarpFreq, fz*riverWarpFreq)
	warpZ := tc.riverWarp.Signed(fz*riverWarpFreq, fx*riverWarpFreq)
	wx := fx + warpX*riverWarpStrength
	wz := fz + warpZ*riverWarpStrength
	sig := math.Abs(tc.river.Signed(wx*riverFreq, wz*riverFreq))
	if sig < riverThreshold {
		depth := int(math.Floor((1 - sig/riverThreshold) * riverMaxDepth))
		if depth < 1 {
			depth = 1
		}
		p.IsRiver = true
		p.SurfaceHeight = base - depth
	}

	tc.applyVillage(&p, x, z)
	return p
}

// VoxelAt maps a world coordinate to its voxel material. Pure given the seed;
// repeated calls are identical regardless of call order.
func (tc *TerrainCache) VoxelAt(x, y, z int) VoxelID {
	p := tc.Profile(x, z)
	if v, ok := hutVoxel(p, y); ok {
		return v
	}
	return columnVoxel(p, y)
}

// columnVoxel resolves the plain column material for a profile.
func columnVoxel(p SurfaceProfile, y int) VoxelID {
	switch {
	case y > p.SurfaceHeight:
		return VoxelAir
	case y == p.SurfaceHeight:
		if p.IsVillageRoad {
			return VoxelStone
		}
		if p.IsRiver || p.IsVillage {
			return VoxelDirt
		}
		return VoxelGrass
	case y >= p.SurfaceHeight-dirtDepth:
		return VoxelDirt
	default:
		return VoxelStone
	}
}

// SurfaceHeight returns the adjusted surface height of a column.
func (tc *TerrainCache) SurfaceHeight(x, z int) int {
	return tc.Profile(x, z).SurfaceHeight
}

// IsSolidTerrainVoxel reports terrain solidity, ignoring destruction and
// structures: solid iff y is at or below the column surface. Destruction is
// handled one layer up.
func (tc *TerrainCache) IsSolidTerrainVoxel(x, y, z int) bool {
	return y <= tc.Profile(x, z).SurfaceHeight
}
