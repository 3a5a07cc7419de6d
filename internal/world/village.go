package world

import "math"

// Village placement parameters. The plane is partitioned into fixed square
// cells; each cell gets one jittered village center.
const (
	villageCellSize    = 72
	villageJitterFrac  = 0.23
	villageRadius      = 18
	villageFlattenBand = 10
	villageRoadHalf    = 2

	// Villages never form where the unflattened base height rises this far
	// above the baseline, which keeps them off mountains.
	villageMaxRelief = 8
)

// villageCell returns the jittered center and flattened elevation for a cell.
func (tc *TerrainCache) villageCell(cellX, cellZ int) (centerX, centerZ, flatElev int) {
	cx := float64(cellX)
	cz := float64(cellZ)
	jx := tc.jitterX.Signed(cx, cz) * villageJitterFrac * villageCellSize
	jz := tc.jitterZ.Signed(cx, cz) * villageJitterFrac * villageCellSize
	centerX = cellX*villageCellSize + villageCellSize/2 + int(math.Round(jx))
	centerZ = cellZ*villageCellSize + villageCellSize/2 + int(math.Round(jz))
	flatElev = baseTerrainHeight + int(math.Round(tc.villageElev.Signed(cx, cz)*4))
	return centerX, centerZ, flatElev
}

// applyVillage adjusts a column profile for village flattening and roads.
// A column belongs to the village of its own cell only; centers are jittered
// by at most 23% of the cell size so they cannot wander into neighbor cells.
func (tc *TerrainCache) applyVillage(p *SurfaceProfile, x, z int) {
	cellX := FloorDiv(x, villageCellSize)
	cellZ := FloorDiv(z, villageCellSize)
	centerX, centerZ, flatElev := tc.villageCell(cellX, cellZ)

	dx := x - centerX
	dz := z - centerZ
	p.VillageLocalX = dx
	p.VillageLocalZ = dz
	p.VillageCenterX = centerX
	p.VillageCenterZ = centerZ

	if p.IsRiver || p.BaseHeight > baseTerrainHeight+villageMaxRelief {
		return
	}

	dist := math.Sqrt(float64(dx*dx + dz*dz))
	switch {
	case dist <= villageRadius:
		p.IsVillage = true
		p.SurfaceHeight = flatElev
		if abs(dx) <= villageRoadHalf || abs(dz) <= villageRoadHalf {
			p.IsVillageRoad = true
		}
	case dist <= villageRadius+villageFlattenBand:
		// Blend linearly from the flattened elevation back to the terrain
		// surface over the flatten band.
		t := (dist - villageRadius) / villageFlattenBand
		p.SurfaceHeight = int(math.Round(lerp(float64(flatElev), float64(p.SurfaceHeight), t)))
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Hut structures are stamped at fixed offsets from each village's jittered
// center. Footprints are non-overlapping by construction; across overlapping
// villages the first matching template wins.

type doorSide int

const (
	doorNorth doorSide = iota // +Z wall
	doorSouth                 // -Z wall
	doorEast                  // +X wall
	doorWest                  // -X wall
)

type hutTemplate struct {
	offX, offZ   int // footprint min corner, relative to the village center
	sizeX, sizeZ int
	door         doorSide
}

var hutTemplates = []hutTemplate{
	{offX: -12, offZ: -10, sizeX: 6, sizeZ: 5, door: doorEast},
	{offX: 5, offZ: -11, sizeX: 5, sizeZ: 6, door: doorWest},
	{offX: 6, offZ: 7, sizeX: 7, sizeZ: 5, door: doorSouth},
}

// isDoorCell reports whether (lx, lz) within the footprint is the single
// door cell of the template (a width-1 opening on the named side).
func (t hutTemplate) isDoorCell(lx, lz int) bool {
	switch t.door {
	case doorNorth:
		return lz == t.sizeZ-1 && lx == t.sizeX/2
	case doorSouth:
		return lz == 0 && lx == t.sizeX/2
	case doorEast:
		return lx == t.sizeX-1 && lz == t.sizeZ/2
	case doorWest:
		return lx == 0 && lz == t.sizeZ/2
	default:
		return false
	}
}

// hutVoxel resolves structure voxels for village columns. The second return
// is false when no hut footprint covers the column, or the row is below the
// hut floor, and the plain column material applies.
func hutVoxel(p SurfaceProfile, y int) (VoxelID, bool) {
	if !p.IsVillage {
		return VoxelAir, false
	}
	for _, t := range hutTemplates {
		lx := p.VillageLocalX - t.offX
		lz := p.VillageLocalZ - t.offZ
		if lx < 0 || lx >= t.sizeX || lz < 0 || lz >= t.sizeZ {
			continue
		}
		s := p.SurfaceHeight
		switch {
		case y < s:
			return VoxelAir, false
		case y == s:
			// floor
			return VoxelStone, true
		case y <= s+3:
			// wall band; hollow interior, one door gap two rows tall
			boundary := lx == 0 || lx == t.sizeX-1 || lz == 0 || lz == t.sizeZ-1
			if !boundary {
				return VoxelAir, true
			}
			if t.isDoorCell(lx, lz) && y <= s+2 {
				return VoxelAir, true
			}
			return VoxelStone, true
		case y == s+4:
			// roof
			return VoxelDirt, true
		default:
			return VoxelAir, true
		}
	}
	return VoxelAir, false
}
