// Package spectate streams camera snapshots to websocket viewers
package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lixenwraith/termcast/game"
)

const (
	writeTimeout    = 250 * time.Millisecond
	shutdownTimeout = 2 * time.Second
)

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans snapshots out to connected viewers
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	latest   []byte
	upgrader websocket.Upgrader
	logger   *log.Logger
	routes   map[string]http.Handler

	// pending holds at most one snapshot waiting for Run
	pending chan game.Snapshot
}

// NewHub creates an empty hub. A nil logger uses log.Default
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger:  logger,
		routes:  make(map[string]http.Handler),
		pending: make(chan game.Snapshot, 1),
	}
}

// Handle adds a route served next to /ws. Call before Serve
func (h *Hub) Handle(pattern string, handler http.Handler) {
	h.mu.Lock()
	h.routes[pattern] = handler
	h.mu.Unlock()
}

// Handler upgrades requests and keeps the viewer until it disconnects
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(h.handle)
}

func (h *Hub) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("spectate: upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	c := &client{conn: conn}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	latest := h.latest
	h.mu.Unlock()

	h.logger.Printf("spectate: viewer %s connected", r.RemoteAddr)

	if latest != nil {
		if err := c.write(latest); err != nil {
			h.drop(c)
			return
		}
	}

	// Viewers send nothing; reading detects the disconnect
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.drop(c)
			h.logger.Printf("spectate: viewer %s left", r.RemoteAddr)
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.conn.Close()
	}
}

// Broadcast sends a snapshot to every viewer, dropping those that fail
func (h *Hub) Broadcast(s game.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.latest = data
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		if err := c.write(data); err != nil {
			h.logger.Printf("spectate: dropping viewer: %v", err)
			h.drop(c)
		}
	}
	return nil
}

// Publish queues s for Run without blocking. An unsent older snapshot is
// replaced
func (h *Hub) Publish(s game.Snapshot) {
	for {
		select {
		case h.pending <- s:
			return
		default:
		}
		select {
		case <-h.pending:
		default:
		}
	}
}

// Run broadcasts published snapshots until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case s := <-h.pending:
			if err := h.Broadcast(s); err != nil {
				h.logger.Printf("spectate: %v", err)
			}
		}
	}
}

// Clients returns the number of connected viewers
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every viewer
func (h *Hub) Close() {
	h.mu.Lock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		c.mu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"),
			time.Now().Add(writeTimeout))
		c.mu.Unlock()
		h.drop(c)
	}
}

// Serve runs an HTTP server with the hub at /ws, and the broadcast loop,
// until ctx is cancelled
func (h *Hub) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h.Handler())
	h.mu.Lock()
	for pattern, handler := range h.routes {
		mux.Handle(pattern, handler)
	}
	h.mu.Unlock()

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go h.Run(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Shutdown(shutdownCtx)
		h.Close()
	}()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		<-done
		return nil
	}
	return err
}
