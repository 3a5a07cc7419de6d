package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxelstream/internal/profiling"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 8.0
)

// SolidFunc reports whether the voxel at integer coordinates is solid.
// A voxel at (x, y, z) occupies the axis-aligned unit cell [x, x+1).
type SolidFunc func(x, y, z int) bool

// RaycastResult stores the result of a raycast operation.
type RaycastResult struct {
	HitPosition      [3]int
	AdjacentPosition [3]int
	Distance         float32
	Hit              bool
}

// Raycast marches from start along direction and returns the first solid
// voxel in (minDist, maxDist], together with the last empty voxel crossed
// before the hit. Used server-side to validate destroy requests.
func Raycast(start mgl32.Vec3, direction mgl32.Vec3, minDist, maxDist float32, isSolid SolidFunc) RaycastResult {
	defer profiling.Track("physics.Raycast")()
	stepSize := float32(0.02)
	steps := int(maxDist / stepSize)

	var lastEmptyPos [3]int
	result := RaycastResult{Hit: false}

	for i := 0; i <= steps; i++ {
		dist := float32(i) * stepSize
		if dist < minDist {
			continue
		}

		pos := start.Add(direction.Mul(dist))
		voxelPos := [3]int{
			int(math.Floor(float64(pos.X()))),
			int(math.Floor(float64(pos.Y()))),
			int(math.Floor(float64(pos.Z()))),
		}

		if isSolid(voxelPos[0], voxelPos[1], voxelPos[2]) {
			result.HitPosition = voxelPos
			result.AdjacentPosition = lastEmptyPos
			result.Distance = dist
			result.Hit = true
			return result
		}

		lastEmptyPos = voxelPos
	}

	return result
}
