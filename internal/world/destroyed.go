package world

import "sync"

// DestroyedVoxelIndex is a sparse set of voxels forced to air regardless of
// terrain output. The mesh worker owns one long-lived instance accumulating
// every edit delta it has ever received; viewers keep a separate caller-side
// copy for local prediction. The two are only eventually consistent, via
// remesh requests carrying the accumulated delta.
type DestroyedVoxelIndex struct {
	mu  sync.RWMutex
	set map[[3]int]struct{}
}

func NewDestroyedVoxelIndex() *DestroyedVoxelIndex {
	return &DestroyedVoxelIndex{set: make(map[[3]int]struct{})}
}

// Mark records one destroyed voxel.
func (d *DestroyedVoxelIndex) Mark(x, y, z int) {
	d.mu.Lock()
	d.set[[3]int{x, y, z}] = struct{}{}
	d.mu.Unlock()
}

// AddDelta records a batch of destroyed voxels.
func (d *DestroyedVoxelIndex) AddDelta(delta [][3]int) {
	if len(delta) == 0 {
		return
	}
	d.mu.Lock()
	for _, v := range delta {
		d.set[v] = struct{}{}
	}
	d.mu.Unlock()
}

// Contains reports whether a voxel has been destroyed.
func (d *DestroyedVoxelIndex) Contains(x, y, z int) bool {
	d.mu.RLock()
	_, ok := d.set[[3]int{x, y, z}]
	d.mu.RUnlock()
	return ok
}

// Len returns the number of destroyed voxels.
func (d *DestroyedVoxelIndex) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.set)
}

// Clear resets the index.
func (d *DestroyedVoxelIndex) Clear() {
	d.mu.Lock()
	d.set = make(map[[3]int]struct{})
	d.mu.Unlock()
}
