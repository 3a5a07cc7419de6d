package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

// VoxelID identifies the material of one voxel.
type VoxelID uint8

const (
	VoxelAir VoxelID = iota
	VoxelGrass
	VoxelDirt
	VoxelStone
)

// Solid reports whether the voxel occludes neighboring faces.
func (v VoxelID) Solid() bool {
	return v != VoxelAir
}

func (v VoxelID) String() string {
	switch v {
	case VoxelAir:
		return "air"
	case VoxelGrass:
		return "grass"
	case VoxelDirt:
		return "dirt"
	case VoxelStone:
		return "stone"
	default:
		return "unknown"
	}
}

// VoxelColor returns the vertex color for a material. Air never emits a quad,
// so its color is irrelevant but kept black for safety.
func VoxelColor(v VoxelID) mgl32.Vec3 {
	switch v {
	case VoxelGrass:
		return mgl32.Vec3{0.35, 0.62, 0.28}
	case VoxelDirt:
		return mgl32.Vec3{0.52, 0.38, 0.26}
	case VoxelStone:
		return mgl32.Vec3{0.55, 0.56, 0.58}
	default:
		return mgl32.Vec3{0, 0, 0}
	}
}
