package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const viewerHalfWidth = 0.3

// Collides reports whether a viewer capsule positioned with its feet at pos
// overlaps any solid voxel. Voxels occupy unit cells [x, x+1).
func Collides(pos mgl32.Vec3, viewerHeight float32, isSolid SolidFunc) bool {
	minX := int(math.Floor(float64(pos.X() - viewerHalfWidth)))
	maxX := int(math.Floor(float64(pos.X() + viewerHalfWidth)))
	minY := int(math.Floor(float64(pos.Y())))
	maxY := int(math.Floor(float64(pos.Y() + viewerHeight)))
	minZ := int(math.Floor(float64(pos.Z() - viewerHalfWidth)))
	maxZ := int(math.Floor(float64(pos.Z() + viewerHalfWidth)))

	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			for z := minZ; z <= maxZ; z++ {
				if !isSolid(x, y, z) {
					continue
				}
				if pos.X()-viewerHalfWidth < float32(x+1) && pos.X()+viewerHalfWidth > float32(x) &&
					pos.Y() < float32(y+1) && pos.Y()+viewerHeight > float32(y) &&
					pos.Z()-viewerHalfWidth < float32(z+1) && pos.Z()+viewerHalfWidth > float32(z) {
					return true
				}
			}
		}
	}
	return false
}

// FindGroundLevel returns the Y coordinate of the top face of the highest
// solid voxel at or below the viewer's feet within its footprint.
func FindGroundLevel(x, z float32, viewerPos mgl32.Vec3, isSolid SolidFunc) float32 {
	minX := int(math.Floor(float64(x - viewerHalfWidth)))
	maxX := int(math.Floor(float64(x + viewerHalfWidth)))
	minZ := int(math.Floor(float64(z - viewerHalfWidth)))
	maxZ := int(math.Floor(float64(z + viewerHalfWidth)))

	maxGroundY := float32(-1)
	for bx := minX; bx <= maxX; bx++ {
		for bz := minZ; bz <= maxZ; bz++ {
			for by := int(math.Floor(float64(viewerPos.Y()))); by >= 0; by-- {
				if isSolid(bx, by, bz) {
					groundY := float32(by + 1)
					if groundY > maxGroundY {
						maxGroundY = groundY
					}
					break
				}
			}
		}
	}
	if maxGroundY < 0 {
		return 1.0
	}
	return maxGroundY
}
