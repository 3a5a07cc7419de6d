package meshing

import (
	"context"
	"sync"

	"voxelstream/internal/world"
)

// MeshRequest asks the worker pool to mesh one chunk. DestroyedDelta carries
// voxel edits made since the last request; the pool accumulates every delta
// it has ever received, so repeated remeshing reflects all edits so far.
type MeshRequest struct {
	Seed           string
	SeedInt        uint32
	CX, CZ         int
	DestroyedDelta [][3]int
	ForceApply     bool
}

// Key returns the canonical chunk key for the request.
func (r *MeshRequest) Key() string {
	return world.ChunkKey(r.CX, r.CZ)
}

// MeshResult is the worker's response: the pipeline output plus the echoed
// ForceApply flag.
type MeshResult struct {
	Key        string
	CX, CZ     int
	Payload    *MeshPayload
	ForceApply bool
	Err        error
}

// WorkerPool runs MeshChunk off the scheduler goroutine under bounded
// concurrency. It exclusively owns the accumulated destroyed-voxel index and
// the per-seed terrain cache; the only shared state with the caller is the
// request and result payloads.
type WorkerPool struct {
	jobs    chan MeshRequest
	results chan *MeshResult
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	destroyed *world.DestroyedVoxelIndex

	// Terrain cache for the current seed, replaced wholesale on seed change.
	cacheMu sync.Mutex
	cache   *world.TerrainCache
}

// NewWorkerPool starts the given number of mesh workers.
func NewWorkerPool(workers, queueSize int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &WorkerPool{
		jobs:      make(chan MeshRequest, queueSize),
		results:   make(chan *MeshResult, queueSize),
		ctx:       ctx,
		cancel:    cancel,
		destroyed: world.NewDestroyedVoxelIndex(),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Submit queues a request without blocking. Returns false when the queue is
// full; the caller is expected to retry on a later tick.
func (p *WorkerPool) Submit(req MeshRequest) bool {
	select {
	case p.jobs <- req:
		return true
	default:
		return false
	}
}

// Results exposes the response channel.
func (p *WorkerPool) Results() <-chan *MeshResult {
	return p.results
}

// Drain collects up to max finished results without blocking, so the caller
// can rate-limit per-tick application work.
func (p *WorkerPool) Drain(max int) []*MeshResult {
	var out []*MeshResult
	for len(out) < max {
		select {
		case res := <-p.results:
			out = append(out, res)
		default:
			return out
		}
	}
	return out
}

// ClearEdits resets the accumulated destroyed-voxel index.
func (p *WorkerPool) ClearEdits() {
	p.destroyed.Clear()
}

// QueueLen returns the number of queued, unstarted requests.
func (p *WorkerPool) QueueLen() int {
	return len(p.jobs)
}

// Shutdown stops the workers and waits for them to exit.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

// terrainCache returns the cache for a seed, tearing down the previous
// seed's cache when the seed changes.
func (p *WorkerPool) terrainCache(seed string) *world.TerrainCache {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	if p.cache == nil || p.cache.Seed() != seed {
		p.cache = world.NewTerrainCache(seed)
	}
	return p.cache
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case req := <-p.jobs:
			p.destroyed.AddDelta(req.DestroyedDelta)
			tc := p.terrainCache(req.Seed)

			mesh, err := MeshChunk(tc, req.CX, req.CZ, p.destroyed.Contains)
			res := &MeshResult{
				Key:        req.Key(),
				CX:         req.CX,
				CZ:         req.CZ,
				ForceApply: req.ForceApply,
				Err:        err,
			}
			if mesh != nil {
				res.Payload = mesh.Payload
			}

			select {
			case p.results <- res:
			case <-p.ctx.Done():
				return
			}
		}
	}
}
