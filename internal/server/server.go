// Package server exposes a running simulation over websockets: a
// snapshot broadcast per tick plus a JSON command channel, with plain
// HTTP health and status endpoints beside it.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/elektrokombinacija/warehouse-sim/internal/core"
	"github.com/elektrokombinacija/warehouse-sim/internal/sim"
)

// Command is one JSON message from a client. Op selects the action;
// the remaining fields are read per op.
type Command struct {
	Op string `json:"op"`

	X        int    `json:"x,omitempty"`
	Y        int    `json:"y,omitempty"`
	Category string `json:"category,omitempty"` // "temporary" or "semi_permanent"

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	Robots  int     `json:"robots,omitempty"`
	Items   int     `json:"items,omitempty"`
	Density float64 `json:"density,omitempty"`
}

// Ack reports command outcome back to the issuing client.
type Ack struct {
	Op    string `json:"op"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// client is one connected peer. gorilla/websocket supports a single
// concurrent writer per connection, so every write goes through mu:
// tick broadcasts, command acks and pings all race otherwise.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

// Server drives a simulation on a wall-clock ticker and mirrors its
// snapshots to every connected websocket client. All simulation access
// goes through mu; the simulation itself is single-threaded.
type Server struct {
	sim      *sim.Simulation
	tracker  *sim.PerformanceTracker
	tickRate time.Duration
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]*client
	paused  bool
}

// New wraps a simulation for serving.
func New(s *sim.Simulation, tracker *sim.PerformanceTracker, tickRate time.Duration) *Server {
	return &Server{
		sim:      s,
		tracker:  tracker,
		tickRate: tickRate,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow connections from any origin
			},
		},
		clients: make(map[*websocket.Conn]*client),
	}
}

// Routes registers the server's endpoints on a mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/status", s.handleStatus)
}

// Run ticks the simulation until the context is canceled. A finished
// simulation keeps broadcasting its final snapshot so late clients see
// the end state.
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ticker.C:
			s.mu.Lock()
			if !s.paused && !s.sim.Done() {
				s.sim.Step()
			}
			snap := s.sim.Snapshot()
			s.broadcastLocked(snap)
			s.mu.Unlock()
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	cl := &client{conn: conn}
	s.mu.Lock()
	s.clients[conn] = cl
	snap := s.sim.Snapshot()
	s.mu.Unlock()

	// Immediate snapshot so the client renders without waiting a tick.
	if err := cl.writeJSON(snap); err != nil {
		s.dropClient(cl)
		return
	}

	log.Printf("client %s connected", conn.RemoteAddr())
	go s.readLoop(cl)
	go s.pingLoop(cl)
}

// readLoop consumes commands until the client disconnects.
func (s *Server) readLoop(cl *client) {
	defer s.dropClient(cl)
	for {
		var cmd Command
		if err := cl.conn.ReadJSON(&cmd); err != nil {
			return
		}
		ack := Ack{Op: cmd.Op, OK: true}
		if err := s.apply(cmd); err != nil {
			ack.OK = false
			ack.Error = err.Error()
		}
		if err := cl.writeJSON(ack); err != nil {
			return
		}
	}
}

// pingLoop keeps the connection alive and detects dead peers.
func (s *Server) pingLoop(cl *client) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		_, alive := s.clients[cl.conn]
		s.mu.Unlock()
		if !alive {
			return
		}
		if err := cl.ping(); err != nil {
			s.dropClient(cl)
			return
		}
	}
}

// apply executes one client command under the simulation lock.
func (s *Server) apply(cmd Command) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch cmd.Op {
	case "place_obstacle":
		cat, err := parseCategory(cmd.Category)
		if err != nil {
			return err
		}
		return s.sim.PlaceObstacle(cmd.X, cmd.Y, cat)
	case "remove_obstacle":
		return s.sim.RemoveObstacle(cmd.X, cmd.Y)
	case "toggle_permanent":
		return s.sim.TogglePermanent(cmd.X, cmd.Y)
	case "set_drop_point":
		return s.sim.SetDropPoint(cmd.X, cmd.Y)
	case "resize_grid":
		return s.sim.ResizeGrid(cmd.Width, cmd.Height)
	case "reset":
		p := s.sim.Params()
		robots, items, density := p.Robots, p.Items, p.ObstacleDensity
		if cmd.Robots > 0 {
			robots = cmd.Robots
		}
		if cmd.Items > 0 {
			items = cmd.Items
		}
		if cmd.Density > 0 {
			density = cmd.Density
		}
		s.tracker.Reset()
		return s.sim.Reset(robots, items, density)
	case "step":
		s.sim.Step()
		return nil
	case "pause":
		s.paused = true
		return nil
	case "resume":
		s.paused = false
		return nil
	default:
		return fmt.Errorf("unknown op %q", cmd.Op)
	}
}

func parseCategory(name string) (core.ObstacleCategory, error) {
	switch name {
	case "temporary", "":
		return core.Temporary, nil
	case "semi_permanent":
		return core.SemiPermanent, nil
	default:
		return 0, fmt.Errorf("unknown obstacle category %q", name)
	}
}

// broadcastLocked sends a snapshot to every client. Callers hold mu.
func (s *Server) broadcastLocked(snap core.Snapshot) {
	for conn, cl := range s.clients {
		if err := cl.writeJSON(snap); err != nil {
			delete(s.clients, conn)
			conn.Close()
		}
	}
}

func (s *Server) dropClient(cl *client) {
	s.mu.Lock()
	if _, ok := s.clients[cl.conn]; ok {
		delete(s.clients, cl.conn)
		log.Printf("client %s disconnected", cl.conn.RemoteAddr())
	}
	s.mu.Unlock()
	cl.conn.Close()
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		conn.Close()
		delete(s.clients, conn)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}

// handleStatus serves the current snapshot and run statistics.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.sim.Snapshot()
	stats := s.tracker.Stats()
	paused := s.paused
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Paused   bool          `json:"paused"`
		Stats    sim.Stats     `json:"stats"`
		Snapshot core.Snapshot `json:"snapshot"`
	}{paused, stats, snap})
}
