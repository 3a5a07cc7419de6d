package world

import "strconv"

const (
	fnvOffsetBasis uint32 = 0x811c9dc5
	fnvPrime       uint32 = 0x01000193
)

// Feature names identify independent noise streams derived from one world
// seed. Adding a stream never perturbs the existing ones.
const (
	FeatureTerrain        = "terrain"
	FeatureDetail         = "detail"
	FeatureBiome          = "biome"
	FeatureContinental    = "continental"
	FeatureRiver          = "river"
	FeatureRiverWarp      = "river_warp"
	FeatureVillageJitterX = "village_jitter_x"
	FeatureVillageJitterZ = "village_jitter_z"
	FeatureVillageHeight  = "village_height"
)

// SeedToInt maps an arbitrary seed string to a stable 32-bit value with
// FNV-1a. The same string yields the same value on every platform and run.
func SeedToInt(seed string) uint32 {
	h := fnvOffsetBasis
	for i := 0; i < len(seed); i++ {
		h ^= uint32(seed[i])
		h *= fnvPrime
	}
	return h
}

// NoiseStream derives the noise source for one named feature. Streams for
// distinct feature names are independent: the lattice seed hashes the seed
// string, its integer form and the feature name together.
func NoiseStream(seed string, seedInt uint32, feature string) *Noise2D {
	composed := seed + ":" + strconv.FormatUint(uint64(seedInt), 10) + ":" + feature
	h := fnvOffsetBasis
	for i := 0; i < len(composed); i++ {
		h ^= uint32(composed[i])
		h *= fnvPrime
	}
	return NewNoise2D(int64(h))
}
