// Package observer streams arena snapshots to read-only WebSocket
// spectators on the local machine.
package observer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"cell-arena/internal/sim"
)

// Version is the observer protocol version sent with every frame.
const Version = "1"

// clientBuffer is how many frames may queue for one slow spectator before
// new frames are dropped for it.
const clientBuffer = 8

// Frame is one snapshot message on the wire.
type Frame struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	sim.Snapshot
}

// Bootstrap describes the arena to a spectator before it connects.
type Bootstrap struct {
	ProtocolVersion string  `json:"protocol_version"`
	Tick            uint64  `json:"tick"`
	WorldWidth      float64 `json:"world_width"`
	WorldHeight     float64 `json:"world_height"`
	Players         int     `json:"players"`
	Spectators      int     `json:"spectators"`
}

type Server struct {
	log      *log.Logger
	upgrader websocket.Upgrader
	nextID   atomic.Uint64

	mu      sync.Mutex
	clients map[uint64]chan []byte
	latest  *sim.Snapshot
}

func NewServer(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		log:     logger,
		clients: make(map[uint64]chan []byte),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // loopback only, see isLoopbackRemote
		},
	}
}

// Handler routes the bootstrap and stream endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/observer/bootstrap", s.BootstrapHandler())
	mux.HandleFunc("/observer/ws", s.WSHandler())
	return mux
}

// Publish records snap as the latest frame and fans it out to every
// spectator. It never blocks the caller: a spectator whose buffer is full
// misses the frame.
func (s *Server) Publish(snap sim.Snapshot) {
	s.mu.Lock()
	s.latest = &snap
	if len(s.clients) == 0 {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	b, err := encodeFrame(snap)
	if err != nil {
		s.log.Printf("observer: encode frame: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.clients {
		select {
		case ch <- b:
		default:
		}
	}
}

// Spectators returns how many spectators are connected.
func (s *Server) Spectators() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func encodeFrame(snap sim.Snapshot) ([]byte, error) {
	return json.Marshal(Frame{Type: "SNAPSHOT", ProtocolVersion: Version, Snapshot: snap})
}

// register adds a spectator and returns its id, its frame channel and the
// latest frame to send first (nil before the first Publish).
func (s *Server) register(buffer int) (uint64, chan []byte, *sim.Snapshot) {
	id := s.nextID.Add(1)
	ch := make(chan []byte, buffer)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[id] = ch
	return id, ch, s.latest
}

func (s *Server) unregister(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, id)
}

func (s *Server) BootstrapHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		s.mu.Lock()
		resp := Bootstrap{ProtocolVersion: Version, Spectators: len(s.clients)}
		if snap := s.latest; snap != nil {
			resp.Tick = snap.Tick
			resp.WorldWidth = snap.WorldWidth
			resp.WorldHeight = snap.WorldHeight
			resp.Players = len(snap.Owners)
		}
		s.mu.Unlock()

		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(resp)
	}
}

func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !isLoopbackRemote(r.RemoteAddr) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		id, out, latest := s.register(clientBuffer)
		defer s.unregister(id)
		sid := fmt.Sprintf("S%d", id)
		s.log.Printf("observer: %s connected from %s", sid, r.RemoteAddr)

		if latest != nil {
			if b, err := encodeFrame(*latest); err == nil {
				_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					return
				}
			}
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Writer goroutine.
		writeErr := make(chan error, 1)
		go func() {
			for {
				select {
				case <-ctx.Done():
					writeErr <- ctx.Err()
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						writeErr <- err
						return
					}
				}
			}
		}()

		// Spectators are read-only; reading only services control frames
		// and notices the close.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		cancel()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))

		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
		s.log.Printf("observer: %s disconnected", sid)
	}
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// ListenAndServe serves the observer on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	}
}
