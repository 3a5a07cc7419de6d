package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"

	"voxelstream/internal/config"
	"voxelstream/internal/meshing"
	"voxelstream/internal/physics"
	"voxelstream/internal/protocol"
	"voxelstream/internal/stream"
	"voxelstream/internal/world"
)

const viewerEyeHeight = 1.6

var errQueueFull = errors.New("transport: mesh queue full")

// session owns all per-viewer state. The scheduler, terrain cache and edit
// set are touched only by the tick goroutine; the reader forwards inbound
// messages through the events channel.
type session struct {
	cfg config.Config
	log *log.Logger

	seed    string
	seedInt uint32

	codec   *protocol.PayloadCodec
	pool    *meshing.WorkerPool
	mgr     *stream.Manager
	terrain *world.TerrainCache

	// Session-side view of destroyed voxels, for validating destroy
	// requests. The pool keeps its own copy fed by request deltas.
	destroyed    *world.DestroyedVoxelIndex
	pendingDelta [][3]int

	// Locally synthesized error responses, fed into the next tick so a
	// failed submit frees its scheduler slot.
	localResults []*meshing.MeshResult

	posX, posZ float64

	events chan []byte
	out    chan []byte
}

func newSession(cfg config.Config, logger *log.Logger, seed string) (*session, error) {
	codec, err := protocol.NewPayloadCodec(cfg.Compress)
	if err != nil {
		return nil, err
	}
	mgr, err := stream.NewManager(stream.Config{
		ActiveRadius: cfg.ActiveRadius,
		RemoveRadius: cfg.RemoveRadius,
		MaxInflight:  cfg.MaxInflight,
	})
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:       cfg,
		log:       logger,
		seed:      seed,
		seedInt:   world.SeedToInt(seed),
		codec:     codec,
		pool:      meshing.NewWorkerPool(cfg.Workers, cfg.QueueSize),
		mgr:       mgr,
		terrain:   world.NewTerrainCache(seed),
		destroyed: world.NewDestroyedVoxelIndex(),
		events:    make(chan []byte, 64),
		out:       make(chan []byte, 256),
	}, nil
}

func (s *session) close() {
	s.pool.Shutdown()
}

// run drives the session until the connection drops. The writer and tick
// loops are goroutines; the reader runs inline so returning tears everything
// down.
func (s *session) run(conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case b := <-s.out:
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	go s.loop(ctx)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			cancel()
			return
		}
		select {
		case s.events <- msg:
		default:
			// Inbound backlog full; the message is dropped.
		}
	}
}

func (s *session) loop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.TickInterval.Duration())
	defer ticker.Stop()
	statsTicker := time.NewTicker(s.cfg.StatsInterval.Duration())
	defer statsTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.events:
			s.handleEvent(msg)
		case <-ticker.C:
			s.tick(ctx)
		case <-statsTicker.C:
			s.sendStats(ctx)
		}
	}
}

func (s *session) handleEvent(msg []byte) {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return
	}
	switch base.Type {
	case protocol.TypeMove:
		var m protocol.MoveMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return
		}
		s.posX, s.posZ = m.X, m.Z
	case protocol.TypeDestroy:
		var m protocol.DestroyMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return
		}
		s.handleDestroy(m)
	}
}

// handleDestroy validates one voxel edit: the target must be in vertical
// bounds, solid, within reach of the viewer's eye, and visible along a ray
// from the eye. Valid edits are recorded and the affected resident chunks
// are remeshed out of band.
func (s *session) handleDestroy(m protocol.DestroyMsg) {
	if m.Y < 0 || m.Y >= world.ChunkHeight {
		return
	}
	isSolid := func(x, y, z int) bool {
		if s.destroyed.Contains(x, y, z) {
			return false
		}
		return s.terrain.VoxelAt(x, y, z).Solid()
	}
	if !isSolid(m.X, m.Y, m.Z) {
		return
	}

	px, pz := float32(s.posX), float32(s.posZ)
	ground := physics.FindGroundLevel(px, pz, mgl32.Vec3{px, float32(world.ChunkHeight), pz}, isSolid)
	eye := mgl32.Vec3{px, ground + viewerEyeHeight, pz}

	center := mgl32.Vec3{float32(m.X) + 0.5, float32(m.Y) + 0.5, float32(m.Z) + 0.5}
	delta := center.Sub(eye)
	dist := delta.Len()
	if dist > physics.MaxReachDistance {
		return
	}
	rc := physics.Raycast(eye, delta.Normalize(), physics.MinReachDistance, dist+1.0, isSolid)
	if !rc.Hit || rc.HitPosition != [3]int{m.X, m.Y, m.Z} {
		return
	}

	s.destroyed.Mark(m.X, m.Y, m.Z)
	s.pendingDelta = append(s.pendingDelta, [3]int{m.X, m.Y, m.Z})

	for _, c := range affectedChunks(m.X, m.Z) {
		if !s.mgr.IsLoaded(world.ChunkKey(c[0], c[1])) {
			continue
		}
		s.submit(meshing.MeshRequest{
			Seed:       s.seed,
			SeedInt:    s.seedInt,
			CX:         c[0],
			CZ:         c[1],
			ForceApply: true,
		})
	}
}

// affectedChunks lists the chunk containing the voxel plus any neighbors
// whose padded halo covers it.
func affectedChunks(x, z int) [][2]int {
	cx, lx := world.WorldToChunk(x, world.ChunkSize)
	cz, lz := world.WorldToChunk(z, world.ChunkSize)

	xs := []int{cx}
	if lx == 0 {
		xs = append(xs, cx-1)
	} else if lx == world.ChunkSize-1 {
		xs = append(xs, cx+1)
	}
	zs := []int{cz}
	if lz == 0 {
		zs = append(zs, cz-1)
	} else if lz == world.ChunkSize-1 {
		zs = append(zs, cz+1)
	}

	var out [][2]int
	for _, ax := range xs {
		for _, az := range zs {
			out = append(out, [2]int{ax, az})
		}
	}
	return out
}

// submit hands a request to the pool, attaching any voxel edits made since
// the last successful submit. A full queue synthesizes an error response so
// the scheduler slot is freed on the next tick.
func (s *session) submit(req meshing.MeshRequest) {
	req.DestroyedDelta = s.pendingDelta
	if s.pool.Submit(req) {
		s.pendingDelta = nil
		return
	}
	s.localResults = append(s.localResults, &meshing.MeshResult{
		Key:        req.Key(),
		CX:         req.CX,
		CZ:         req.CZ,
		ForceApply: req.ForceApply,
		Err:        errQueueFull,
	})
}

func (s *session) tick(ctx context.Context) {
	responses := s.pool.Drain(s.cfg.ResponseBatch)
	responses = append(responses, s.localResults...)
	s.localResults = nil

	// Forced remeshes bypass the scheduler: they replace meshes the viewer
	// already holds, so they go straight out.
	scheduled := responses[:0]
	for _, res := range responses {
		if !res.ForceApply {
			scheduled = append(scheduled, res)
			continue
		}
		if res.Err != nil {
			s.log.Printf("remesh %s failed: %v", res.Key, res.Err)
			continue
		}
		if s.mgr.IsLoaded(res.Key) {
			s.sendMesh(ctx, res)
		}
	}

	tr := s.mgr.Tick(s.posX, s.posZ, s.seed, scheduled, true, true)

	if tr.Request != nil {
		s.submit(*tr.Request)
	}
	if tr.Apply != nil {
		s.sendMesh(ctx, tr.Apply)
	}
	if len(tr.UnloadKeys) > 0 {
		s.send(ctx, protocol.ChunkUnloadMsg{Type: protocol.TypeChunkUnload, Keys: tr.UnloadKeys})
	}
}

func (s *session) sendMesh(ctx context.Context, res *meshing.MeshResult) {
	p := res.Payload
	if p == nil {
		return
	}
	s.send(ctx, protocol.ChunkMeshMsg{
		Type:        protocol.TypeChunkMesh,
		Key:         res.Key,
		CX:          res.CX,
		CZ:          res.CZ,
		QuadCount:   p.QuadCount,
		IndexCount:  p.IndexCount(),
		VertexCount: p.VertexCount(),
		Positions:   s.codec.EncodeFloats(p.Positions),
		Normals:     s.codec.EncodeFloats(p.Normals),
		Colors:      s.codec.EncodeFloats(p.Colors),
		Indices:     s.codec.EncodeIndices(p.Indices),
	})
}

func (s *session) sendStats(ctx context.Context) {
	st := s.mgr.Stats()
	s.send(ctx, protocol.StatsMsg{
		Type:     protocol.TypeStats,
		Loaded:   st.Loaded,
		Queued:   st.Queued,
		Inflight: st.Inflight,
		Ready:    st.Ready,
	})
}

func (s *session) send(ctx context.Context, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Printf("encode %T: %v", v, err)
		return
	}
	select {
	case s.out <- b:
	case <-ctx.Done():
	}
}
