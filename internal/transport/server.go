package transport

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"voxelstream/internal/config"
	"voxelstream/internal/protocol"
	"voxelstream/internal/world"
)

// Server upgrades viewer connections and runs one streaming session per
// connection. Sessions are independent: each gets its own scheduler, worker
// pool and edit set.
type Server struct {
	cfg config.Config
	log *log.Logger

	upgrader websocket.Upgrader
}

func NewServer(cfg config.Config, logger *log.Logger) *Server {
	return &Server{
		cfg: cfg,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		seed, viewerName, ok := s.handshake(conn)
		if !ok {
			return
		}

		sess, err := newSession(s.cfg, s.log, seed)
		if err != nil {
			s.log.Printf("session init failed viewer=%s: %v", viewerName, err)
			return
		}
		defer sess.close()

		s.log.Printf("viewer %q joined seed=%q", viewerName, seed)
		sess.run(conn)
		s.log.Printf("viewer %q left", viewerName)
	}
}

// handshake expects HELLO as the first frame, answers with WELCOME and
// returns the session seed. The viewer may pin a seed in HELLO; otherwise
// the server's configured seed is used.
func (s *Server) handshake(conn *websocket.Conn) (seed, viewerName string, ok bool) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", "", false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", "", false
	}

	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", "", false
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "bad protocol_version"), time.Now().Add(time.Second))
		return "", "", false
	}
	if hello.ViewerName == "" {
		hello.ViewerName = "viewer"
	}

	seed = hello.Seed
	if seed == "" {
		seed = s.cfg.Seed
	}

	encoding := protocol.EncodingRaw
	if s.cfg.Compress {
		encoding = protocol.EncodingZstd
	}
	welcome := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		Seed:            seed,
		SeedInt:         world.SeedToInt(seed),
		ChunkSize:       world.ChunkSize,
		ChunkHeight:     world.ChunkHeight,
		ActiveRadius:    s.cfg.ActiveRadius,
		RemoveRadius:    s.cfg.RemoveRadius,
		Encoding:        encoding,
	}
	if err := writeJSON(conn, welcome); err != nil {
		return "", "", false
	}
	return seed, hello.ViewerName, true
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
