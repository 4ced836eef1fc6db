// Package remote exposes the scene over HTTP and WebSocket: clients can read
// the transition state, follow commits live and request transitions.
//
// Nothing here touches scene state directly. Commands are posted to the
// render loop's dispatch queue and snapshots are published from the loop.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/blobscene/internal/engine/dispatch"
	"github.com/Faultbox/blobscene/internal/game/world"
	"github.com/Faultbox/blobscene/internal/transition"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8787"

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second

	shutdownTimeout = 2 * time.Second
)

// Message is sent to WebSocket clients.
type Message struct {
	Type  string          `json:"type"`
	State *world.Snapshot `json:"state,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Command is a transition request from a client.
type Command struct {
	Direction int `json:"direction"`
}

// Server serves the remote API.
type Server struct {
	mu        sync.RWMutex
	clients   map[*client]bool
	broadcast chan []byte
	upgrader  websocket.Upgrader
	last      *world.Snapshot

	queue    *dispatch.Queue
	navigate func(transition.Direction)
	log      *zap.Logger
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	server *Server
}

// NewServer creates a server. navigate runs on the loop, through queue.
func NewServer(queue *dispatch.Queue, navigate func(transition.Direction), log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		clients:   make(map[*client]bool),
		broadcast: make(chan []byte, 256),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		queue:    queue,
		navigate: navigate,
		log:      log,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/state", s.handleState)
	mux.HandleFunc("/api/step", s.handleStep)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Run listens on addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go s.broadcastLoop(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("remote server listening", zap.String("addr", ln.Addr().String()))
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Publish records snap as the current state and pushes it to every client.
// The loop calls it; it never blocks.
func (s *Server) Publish(snap world.Snapshot) {
	s.mu.Lock()
	s.last = &snap
	s.mu.Unlock()

	data, err := json.Marshal(Message{Type: "state", State: &snap})
	if err != nil {
		s.log.Error("encoding state", zap.Error(err))
		return
	}
	select {
	case s.broadcast <- data:
	default:
		s.log.Warn("broadcast queue full, dropping state", zap.Int("current", snap.Current))
	}
}

// Clients returns the number of connected WebSocket clients.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()
	if last == nil {
		http.Error(w, "scene not ready", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(last)
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var cmd Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.submit(cmd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "queued"})
}

// ErrBadDirection rejects commands whose direction is not 1 or -1.
var ErrBadDirection = errors.New("direction must be 1 or -1")

// submit hands cmd to the loop. Whether it starts a transition is decided
// there: input arriving mid-transition is dropped like any other.
func (s *Server) submit(cmd Command) error {
	dir := transition.Direction(cmd.Direction)
	if !dir.Valid() {
		return ErrBadDirection
	}
	s.queue.Post(func() { s.navigate(dir) })
	s.log.Debug("remote command queued", zap.Stringer("direction", dir))
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		conn:   conn,
		send:   make(chan []byte, 256),
		server: s,
	}

	s.mu.Lock()
	s.clients[c] = true
	if s.last != nil {
		if data, err := json.Marshal(Message{Type: "state", State: s.last}); err == nil {
			c.send <- data
		}
	}
	s.mu.Unlock()

	s.log.Debug("websocket client connected", zap.String("remote", r.RemoteAddr))

	go c.writePump()
	go c.readPump()
}

func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case message := <-s.broadcast:
			s.mu.Lock()
			for c := range s.clients {
				select {
				case c.send <- message:
				default:
					s.removeLocked(c)
				}
			}
			s.mu.Unlock()
		case <-ctx.Done():
			s.mu.Lock()
			for c := range s.clients {
				s.removeLocked(c)
			}
			s.mu.Unlock()
			return
		}
	}
}

// removeLocked drops c and closes its send channel exactly once.
func (s *Server) removeLocked(c *client) {
	if s.clients[c] {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) reply(c *client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.clients[c] {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *client) readPump() {
	defer func() {
		c.server.mu.Lock()
		c.server.removeLocked(c)
		c.server.mu.Unlock()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				c.server.reply(c, Message{Type: "error", Error: err.Error()})
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.log.Debug("websocket read failed", zap.Error(err))
			}
			return
		}
		if err := c.server.submit(cmd); err != nil {
			c.server.reply(c, Message{Type: "error", Error: err.Error()})
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
