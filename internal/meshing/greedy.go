package meshing

import (
	"fmt"

	"voxelstream/internal/world"
)

// MeshPayload is an indexed triangle mesh: per-vertex positions, axis-aligned
// unit normals and material colors, plus two triangles per emitted quad.
type MeshPayload struct {
	Positions []float32
	Normals   []float32
	Colors    []float32
	Indices   []uint32
	QuadCount int
}

// IndexCount returns the number of triangle indices (QuadCount * 6).
func (m *MeshPayload) IndexCount() int {
	return len(m.Indices)
}

// VertexCount returns the number of vertices.
func (m *MeshPayload) VertexCount() int {
	return len(m.Positions) / 3
}

// ErrBufferTooSmall is returned when a padded dimension leaves no interior.
var ErrBufferTooSmall = fmt.Errorf("meshing: padded dimensions must be >= 3 on every axis")

// GreedyMesh converts a padded voxel buffer into a minimal-quad mesh.
// dims are the padded dimensions in (x, y, z) order; the buffer is indexed
// x-fastest, then z, then y, matching world.BuildChunkVoxels. Positions are
// in chunk-local space: inner voxel (0,0,0) spans the unit cube at the
// origin.
//
// The scan order is fixed (axis x, y, z; within a slice v-major, u-minor),
// so identical voxel input always yields an identical quad set.
func GreedyMesh(voxels []world.VoxelID, dims [3]int) (*MeshPayload, error) {
	for _, d := range dims {
		if d < 3 {
			return nil, ErrBufferTooSmall
		}
	}
	if len(voxels) != dims[0]*dims[1]*dims[2] {
		return nil, fmt.Errorf("meshing: buffer length %d does not match dims %v", len(voxels), dims)
	}

	inner := [3]int{dims[0] - 2, dims[1] - 2, dims[2] - 2}

	// sample reads a voxel at inner coordinates, returning air for anything
	// outside the padded buffer. Coordinates in [-1, inner] land in the halo.
	sample := func(ix, iy, iz int) world.VoxelID {
		px, py, pz := ix+1, iy+1, iz+1
		if px < 0 || px >= dims[0] || py < 0 || py >= dims[1] || pz < 0 || pz >= dims[2] {
			return world.VoxelAir
		}
		return voxels[(py*dims[2]+pz)*dims[0]+px]
	}

	mesh := &MeshPayload{
		Positions: make([]float32, 0, 4096),
		Normals:   make([]float32, 0, 4096),
		Colors:    make([]float32, 0, 4096),
		Indices:   make([]uint32, 0, 2048),
	}

	var cell [3]int
	for d := 0; d < 3; d++ {
		u := (d + 1) % 3
		v := (d + 2) % 3
		nu := inner[u]
		nv := inner[v]
		mask := make([]int, nu*nv)

		// One slice plane per gap between voxel layers, boundaries included.
		for w := 0; w <= inner[d]; w++ {
			// Build the signed material mask: positive faces point +d and
			// carry the lower voxel's material, negative faces point -d with
			// the upper voxel's material. Two solids or two airs emit nothing.
			n := 0
			for vi := 0; vi < nv; vi++ {
				for ui := 0; ui < nu; ui++ {
					cell[d] = w - 1
					cell[u] = ui
					cell[v] = vi
					below := sample(cell[0], cell[1], cell[2])
					cell[d] = w
					above := sample(cell[0], cell[1], cell[2])

					switch {
					case below.Solid() == above.Solid():
						mask[n] = 0
					case below.Solid():
						mask[n] = int(below)
					default:
						mask[n] = -int(above)
					}
					n++
				}
			}

			// Greedy rectangle merge: grow width along u, then height along
			// v, over cells sharing the same signed value.
			for vi := 0; vi < nv; vi++ {
				for ui := 0; ui < nu; {
					m := mask[vi*nu+ui]
					if m == 0 {
						ui++
						continue
					}

					width := 1
					for ui+width < nu && mask[vi*nu+ui+width] == m {
						width++
					}

					height := 1
				growV:
					for vi+height < nv {
						for k := 0; k < width; k++ {
							if mask[(vi+height)*nu+ui+k] != m {
								break growV
							}
						}
						height++
					}

					emitQuad(mesh, d, u, v, w, ui, vi, width, height, m)

					for dv := 0; dv < height; dv++ {
						for du := 0; du < width; du++ {
							mask[(vi+dv)*nu+ui+du] = 0
						}
					}
					ui += width
				}
			}
		}
	}
	return mesh, nil
}

// emitQuad appends one merged rectangle as four vertices and two triangles.
// The winding flips with the mask sign so triangles always face outward along
// the quad normal.
func emitQuad(mesh *MeshPayload, d, u, v, w, u0, v0, width, height, signedMat int) {
	mat := signedMat
	sign := float32(1)
	if mat < 0 {
		mat = -mat
		sign = -1
	}

	var origin, du, dv [3]float32
	origin[d] = float32(w)
	origin[u] = float32(u0)
	origin[v] = float32(v0)
	du[u] = float32(width)
	dv[v] = float32(height)

	var normal [3]float32
	normal[d] = sign

	color := world.VoxelColor(world.VoxelID(mat))
	base := uint32(len(mesh.Positions) / 3)

	corners := [4][3]float32{
		origin,
		{origin[0] + du[0], origin[1] + du[1], origin[2] + du[2]},
		{origin[0] + du[0] + dv[0], origin[1] + du[1] + dv[1], origin[2] + du[2] + dv[2]},
		{origin[0] + dv[0], origin[1] + dv[1], origin[2] + dv[2]},
	}
	for _, c := range corners {
		mesh.Positions = append(mesh.Positions, c[0], c[1], c[2])
		mesh.Normals = append(mesh.Normals, normal[0], normal[1], normal[2])
		mesh.Colors = append(mesh.Colors, color.X(), color.Y(), color.Z())
	}

	if sign > 0 {
		mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
	} else {
		mesh.Indices = append(mesh.Indices, base, base+2, base+1, base, base+3, base+2)
	}
	mesh.QuadCount++
}
