package stream

import (
	"fmt"
	"math"
	"sort"

	"voxelstream/internal/meshing"
	"voxelstream/internal/profiling"
	"voxelstream/internal/world"
)

// Config holds the immutable scheduler parameters.
type Config struct {
	// ActiveRadius is the Chebyshev radius (in chunks) kept requested around
	// the player. RemoveRadius is the radius kept resident before eviction
	// and must be >= ActiveRadius. MaxInflight bounds concurrent outstanding
	// mesh requests.
	ActiveRadius int
	RemoveRadius int
	MaxInflight  int
}

func (c Config) validate() error {
	if c.ActiveRadius < 0 {
		return fmt.Errorf("stream: activeRadius must be non-negative, got %d", c.ActiveRadius)
	}
	if c.RemoveRadius < c.ActiveRadius {
		return fmt.Errorf("stream: removeRadius %d must be >= activeRadius %d", c.RemoveRadius, c.ActiveRadius)
	}
	if c.MaxInflight < 1 {
		return fmt.Errorf("stream: maxInflight must be positive, got %d", c.MaxInflight)
	}
	return nil
}

type coord struct {
	cx, cz int
}

// Manager tracks every chunk's lifecycle around a moving center:
//
//	unknown -> queued -> inflight -> readyToApply -> loaded -> unloaded
//
// A key lives in at most one of the four mappings at any instant. The
// manager is single-threaded: Tick never blocks, and all mesh computation
// happens in an external worker pool communicating purely via request and
// response payloads.
type Manager struct {
	cfg Config

	seed    string
	seedInt uint32

	queuedOrder []string
	queued      map[string]meshing.MeshRequest
	inflight    map[string]coord
	ready       map[string]*meshing.MeshResult
	loaded      map[string]coord
}

// TickResult carries at most one outgoing mesh request, at most one
// ready-to-apply mesh, and the keys evicted from the renderable set.
type TickResult struct {
	Request    *meshing.MeshRequest
	Apply      *meshing.MeshResult
	UnloadKeys []string
}

// Stats are mapping sizes, for observability only.
type Stats struct {
	Loaded   int
	Queued   int
	Inflight int
	Ready    int
}

// NewManager validates the configuration; a removeRadius below activeRadius
// is a fatal configuration error.
func NewManager(cfg Config) (*Manager, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Manager{
		cfg:      cfg,
		queued:   make(map[string]meshing.MeshRequest),
		inflight: make(map[string]coord),
		ready:    make(map[string]*meshing.MeshResult),
		loaded:   make(map[string]coord),
	}, nil
}

// NeededChunkKeys lists every chunk key within the Chebyshev radius of a
// center chunk (a full square, not a disc), ordered by ascending distance,
// tie-broken by ascending cz then cx.
func NeededChunkKeys(centerX, centerZ, radius int) []string {
	type entry struct {
		c    coord
		dist int
	}
	entries := make([]entry, 0, (2*radius+1)*(2*radius+1))
	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			c := coord{centerX + dx, centerZ + dz}
			entries = append(entries, entry{c: c, dist: world.ChebyshevDist(c.cx, c.cz, centerX, centerZ)})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		if a.c.cz != b.c.cz {
			return a.c.cz < b.c.cz
		}
		return a.c.cx < b.c.cx
	})
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = world.ChunkKey(e.c.cx, e.c.cz)
	}
	return keys
}

// Tick advances the scheduler one step. It ingests worker responses, prunes
// state around the new center, refreshes the needed set, and emits at most
// one request and one apply. Stale responses (keys not currently inflight)
// are silently discarded: they are the expected result of pruning-as-
// cancellation, not errors.
func (m *Manager) Tick(playerX, playerZ float64, seed string, responses []*meshing.MeshResult, allowRequest, allowApply bool) TickResult {
	defer profiling.Track("stream.Tick")()

	var result TickResult

	// Seed change invalidates everything derived from the old seed.
	if seed != m.seed {
		for key := range m.loaded {
			result.UnloadKeys = append(result.UnloadKeys, key)
		}
		sort.Strings(result.UnloadKeys)
		m.queuedOrder = m.queuedOrder[:0]
		m.queued = make(map[string]meshing.MeshRequest)
		m.inflight = make(map[string]coord)
		m.ready = make(map[string]*meshing.MeshResult)
		m.loaded = make(map[string]coord)
		m.seed = seed
		m.seedInt = world.SeedToInt(seed)
	}

	// Ingest worker responses. Errored results free their inflight slot so
	// the key can requeue naturally.
	for _, res := range responses {
		if res == nil {
			continue
		}
		if _, ok := m.inflight[res.Key]; !ok {
			continue
		}
		delete(m.inflight, res.Key)
		if res.Err != nil {
			continue
		}
		m.ready[res.Key] = res
	}

	centerX, _ := world.WorldToChunk(int(math.Floor(playerX)), world.ChunkSize)
	centerZ, _ := world.WorldToChunk(int(math.Floor(playerZ)), world.ChunkSize)

	// Radius pruning: abandon pending work and evict loaded chunks that
	// drifted out of the remove radius.
	outside := func(c coord) bool {
		return world.ChebyshevDist(c.cx, c.cz, centerX, centerZ) > m.cfg.RemoveRadius
	}
	for key, req := range m.queued {
		if outside(coord{req.CX, req.CZ}) {
			m.removeQueued(key)
		}
	}
	for key, c := range m.inflight {
		if outside(c) {
			delete(m.inflight, key)
		}
	}
	for key, res := range m.ready {
		if outside(coord{res.CX, res.CZ}) {
			delete(m.ready, key)
		}
	}
	var evicted []string
	for key, c := range m.loaded {
		if outside(c) {
			delete(m.loaded, key)
			evicted = append(evicted, key)
		}
	}
	sort.Strings(evicted)
	result.UnloadKeys = append(result.UnloadKeys, evicted...)

	// Refresh the needed set; queue anything new, drop queued entries that
	// are no longer needed.
	needed := make(map[string]coord)
	for dz := -m.cfg.ActiveRadius; dz <= m.cfg.ActiveRadius; dz++ {
		for dx := -m.cfg.ActiveRadius; dx <= m.cfg.ActiveRadius; dx++ {
			c := coord{centerX + dx, centerZ + dz}
			needed[world.ChunkKey(c.cx, c.cz)] = c
		}
	}
	for key := range m.queued {
		if _, ok := needed[key]; !ok {
			m.removeQueued(key)
		}
	}
	for _, key := range NeededChunkKeys(centerX, centerZ, m.cfg.ActiveRadius) {
		if m.tracked(key) {
			continue
		}
		c := needed[key]
		m.queued[key] = meshing.MeshRequest{
			Seed:    m.seed,
			SeedInt: m.seedInt,
			CX:      c.cx,
			CZ:      c.cz,
		}
		m.queuedOrder = append(m.queuedOrder, key)
	}

	// Dispatch at most one request per tick, bounded by maxInflight.
	if allowRequest && len(m.inflight) < m.cfg.MaxInflight {
		if key, ok := m.dequeue(); ok {
			req := m.queued[key]
			delete(m.queued, key)
			m.inflight[key] = coord{req.CX, req.CZ}
			result.Request = &req
		}
	}

	// Apply at most one ready mesh per tick, nearest first.
	if allowApply {
		if key, ok := m.pickApply(centerX, centerZ); ok {
			res := m.ready[key]
			delete(m.ready, key)
			m.loaded[key] = coord{res.CX, res.CZ}
			result.Apply = res
		}
	}

	return result
}

// Stats reports the current mapping sizes.
func (m *Manager) Stats() Stats {
	return Stats{
		Loaded:   len(m.loaded),
		Queued:   len(m.queued),
		Inflight: len(m.inflight),
		Ready:    len(m.ready),
	}
}

// Seed returns the currently tracked seed.
func (m *Manager) Seed() string {
	return m.seed
}

// IsLoaded reports whether the chunk under key is currently renderable.
func (m *Manager) IsLoaded(key string) bool {
	_, ok := m.loaded[key]
	return ok
}

// tracked reports whether a key is present in any of the four mappings.
func (m *Manager) tracked(key string) bool {
	if _, ok := m.queued[key]; ok {
		return true
	}
	if _, ok := m.inflight[key]; ok {
		return true
	}
	if _, ok := m.ready[key]; ok {
		return true
	}
	_, ok := m.loaded[key]
	return ok
}

func (m *Manager) removeQueued(key string) {
	delete(m.queued, key)
}

// dequeue returns the oldest queued key, skipping entries already removed
// from the queued mapping.
func (m *Manager) dequeue() (string, bool) {
	for len(m.queuedOrder) > 0 {
		key := m.queuedOrder[0]
		m.queuedOrder = m.queuedOrder[1:]
		if _, ok := m.queued[key]; ok {
			return key, true
		}
	}
	return "", false
}

// pickApply selects the ready entry nearest the center, tie-broken by
// smaller cz then cx.
func (m *Manager) pickApply(centerX, centerZ int) (string, bool) {
	bestKey := ""
	bestDist := 0
	var bestC coord
	found := false
	for key, res := range m.ready {
		c := coord{res.CX, res.CZ}
		d := world.ChebyshevDist(c.cx, c.cz, centerX, centerZ)
		if !found || d < bestDist ||
			(d == bestDist && (c.cz < bestC.cz || (c.cz == bestC.cz && c.cx < bestC.cx))) {
			bestKey = key
			bestDist = d
			bestC = c
			found = true
		}
	}
	return bestKey, found
}
