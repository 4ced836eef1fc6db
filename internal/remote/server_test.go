package remote

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/blobscene/internal/engine/dispatch"
	"github.com/Faultbox/blobscene/internal/game/world"
	"github.com/Faultbox/blobscene/internal/transition"
)

type navigations struct {
	mu   sync.Mutex
	dirs []transition.Direction
}

func (n *navigations) record(d transition.Direction) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dirs = append(n.dirs, d)
}

func (n *navigations) all() []transition.Direction {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]transition.Direction(nil), n.dirs...)
}

func snapshot(current int) world.Snapshot {
	return world.Snapshot{
		Current:    current,
		Pending:    transition.NoPending,
		Phase:      "idle",
		Direction:  1,
		Preset:     []string{"Color Fusion", "Purple Mirror", "Alien Goo"}[current],
		Background: "#9D73F7",
		Presets:    []string{"Color Fusion", "Purple Mirror", "Alien Goo"},
	}
}

func newTestServer() (*Server, *dispatch.Queue, *navigations) {
	q := dispatch.NewQueue()
	nav := &navigations{}
	return NewServer(q, nav.record, nil), q, nav
}

// readUntil skips messages until match accepts one. The initial state may
// arrive twice when the client registers before the first broadcast drains.
func readUntil(t *testing.T, conn *websocket.Conn, match func(Message) bool) Message {
	t.Helper()
	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if match(msg) {
			return msg
		}
	}
}

func TestStateNotReady(t *testing.T) {
	s, _, _ := newTestServer()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStateReturnsLastPublished(t *testing.T) {
	s, _, _ := newTestServer()
	s.Publish(snapshot(0))
	s.Publish(snapshot(2))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got world.Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, snapshot(2), got)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/state", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStepQueuesOnLoop(t *testing.T) {
	s, q, nav := newTestServer()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/step", strings.NewReader(`{"direction":-1}`)))
	require.Equal(t, http.StatusAccepted, rec.Code)

	// Nothing runs until the loop drains.
	assert.Empty(t, nav.all())
	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, []transition.Direction{transition.Backward}, nav.all())
}

func TestStepRejectsBadInput(t *testing.T) {
	s, q, _ := newTestServer()

	tests := []struct {
		name   string
		method string
		body   string
		code   int
	}{
		{"zero direction", http.MethodPost, `{"direction":0}`, http.StatusBadRequest},
		{"too large", http.MethodPost, `{"direction":2}`, http.StatusBadRequest},
		{"malformed", http.MethodPost, `{"direction":`, http.StatusBadRequest},
		{"wrong method", http.MethodGet, ``, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(tt.method, "/api/step", strings.NewReader(tt.body)))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
	assert.Zero(t, q.Len())
}

func TestWebSocketSession(t *testing.T) {
	s, q, nav := newTestServer()
	s.Publish(snapshot(0))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "state", msg.Type)
	require.NotNil(t, msg.State)
	assert.Equal(t, 0, msg.State.Current)
	assert.Equal(t, 1, s.Clients())

	require.NoError(t, conn.WriteJSON(Command{Direction: 1}))
	require.Eventually(t, func() bool { return q.Len() == 1 }, 2*time.Second, 10*time.Millisecond)
	q.Drain()
	assert.Equal(t, []transition.Direction{transition.Forward}, nav.all())

	require.NoError(t, conn.WriteJSON(Command{Direction: 5}))
	msg = readUntil(t, conn, func(m Message) bool { return m.Type == "error" })
	assert.Equal(t, ErrBadDirection.Error(), msg.Error)

	s.Publish(snapshot(1))
	msg = readUntil(t, conn, func(m Message) bool { return m.State != nil && m.State.Current == 1 })
	assert.Equal(t, "Purple Mirror", msg.State.Preset)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
