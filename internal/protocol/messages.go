package protocol

import (
	"encoding/json"
	"fmt"
)

// Version is the viewer protocol version. Mismatched clients are rejected at
// handshake.
const Version = "1"

// Message type tags.
const (
	TypeHello       = "hello"
	TypeWelcome     = "welcome"
	TypeMove        = "move"
	TypeDestroy     = "destroy"
	TypeChunkMesh   = "chunk_mesh"
	TypeChunkUnload = "chunk_unload"
	TypeStats       = "stats"
)

// BaseMsg is the envelope decoded first to dispatch on type.
type BaseMsg struct {
	Type string `json:"type"`
}

// DecodeBase peeks at a raw message's type tag.
func DecodeBase(b []byte) (BaseMsg, error) {
	var base BaseMsg
	if err := json.Unmarshal(b, &base); err != nil {
		return BaseMsg{}, fmt.Errorf("protocol: decode envelope: %w", err)
	}
	if base.Type == "" {
		return BaseMsg{}, fmt.Errorf("protocol: message missing type")
	}
	return base, nil
}

// HELLO (viewer -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ViewerName      string `json:"viewer_name,omitempty"`
	Seed            string `json:"seed,omitempty"`
}

// WELCOME (server -> viewer)
type WelcomeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Seed            string `json:"seed"`
	SeedInt         uint32 `json:"seed_int"`
	ChunkSize       int    `json:"chunk_size"`
	ChunkHeight     int    `json:"chunk_height"`
	ActiveRadius    int    `json:"active_radius"`
	RemoveRadius    int    `json:"remove_radius"`
	Encoding        string `json:"encoding"`
}

// MOVE (viewer -> server): world-space viewer position updates.
type MoveMsg struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Z    float64 `json:"z"`
}

// DESTROY (viewer -> server): one voxel edit.
type DestroyMsg struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Z    int    `json:"z"`
}

// CHUNK_MESH (server -> viewer). The four numeric buffers are little-endian
// byte streams, zstd-framed when the session encoding says so, then base64.
// The viewer must treat Key as authoritative replacement for any existing
// chunk under that key.
type ChunkMeshMsg struct {
	Type        string `json:"type"`
	Key         string `json:"key"`
	CX          int    `json:"cx"`
	CZ          int    `json:"cz"`
	QuadCount   int    `json:"quad_count"`
	IndexCount  int    `json:"index_count"`
	VertexCount int    `json:"vertex_count"`
	Positions   string `json:"positions"`
	Normals     string `json:"normals"`
	Colors      string `json:"colors"`
	Indices     string `json:"indices"`
}

// CHUNK_UNLOAD (server -> viewer).
type ChunkUnloadMsg struct {
	Type string   `json:"type"`
	Keys []string `json:"keys"`
}

// STATS (server -> viewer), observability only.
type StatsMsg struct {
	Type     string `json:"type"`
	Loaded   int    `json:"loaded"`
	Queued   int    `json:"queued"`
	Inflight int    `json:"inflight"`
	Ready    int    `json:"ready"`
}
