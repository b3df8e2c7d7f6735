package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektrokombinacija/warehouse-sim/internal/core"
	"github.com/elektrokombinacija/warehouse-sim/internal/sim"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	p := sim.DefaultParams()
	p.Width = 10
	p.Height = 8
	p.Robots = 2
	p.Items = 3
	p.ObstacleDensity = 0.05
	p.Seed = 7
	s, err := sim.New(p, nil)
	require.NoError(t, err)
	return New(s, sim.NewPerformanceTracker(), 10*time.Millisecond)
}

func TestApplyPlaceAndRemoveObstacle(t *testing.T) {
	srv := newTestServer(t)
	snap := srv.sim.Snapshot()

	// Find a free cell the trap check accepts.
	placed := core.Point{X: -1, Y: -1}
	for y := 0; y < snap.Height && placed.X < 0; y++ {
		for x := 0; x < snap.Width; x++ {
			if snap.Cells[y*snap.Width+x] != core.Empty {
				continue
			}
			if err := srv.apply(Command{Op: "place_obstacle", X: x, Y: y, Category: "temporary"}); err == nil {
				placed = core.Point{X: x, Y: y}
				break
			}
		}
	}
	require.NotEqual(t, -1, placed.X, "no cell accepted an obstacle")
	assert.Len(t, srv.sim.Snapshot().Obstacles, 1)

	require.NoError(t, srv.apply(Command{Op: "remove_obstacle", X: placed.X, Y: placed.Y}))
	assert.Empty(t, srv.sim.Snapshot().Obstacles)
}

func TestApplyRejectsBadCategory(t *testing.T) {
	srv := newTestServer(t)
	err := srv.apply(Command{Op: "place_obstacle", X: 1, Y: 1, Category: "granite"})
	assert.Error(t, err)
}

func TestApplyUnknownOp(t *testing.T) {
	srv := newTestServer(t)
	err := srv.apply(Command{Op: "warp_robot"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown op")
}

func TestApplyPauseResumeStep(t *testing.T) {
	srv := newTestServer(t)

	require.NoError(t, srv.apply(Command{Op: "pause"}))
	assert.True(t, srv.paused)

	before := srv.sim.Tick()
	require.NoError(t, srv.apply(Command{Op: "step"}))
	assert.Equal(t, before+1, srv.sim.Tick())

	require.NoError(t, srv.apply(Command{Op: "resume"}))
	assert.False(t, srv.paused)
}

func TestApplyResetWithOverrides(t *testing.T) {
	srv := newTestServer(t)
	for i := 0; i < 5; i++ {
		srv.apply(Command{Op: "step"})
	}

	require.NoError(t, srv.apply(Command{Op: "reset", Robots: 3, Items: 5}))
	snap := srv.sim.Snapshot()
	assert.Equal(t, 0, snap.Tick)
	assert.Len(t, snap.Robots, 3)
	assert.Len(t, snap.Items, 5)
}

func TestApplyResizeGrid(t *testing.T) {
	srv := newTestServer(t)
	require.NoError(t, srv.apply(Command{Op: "resize_grid", Width: 14, Height: 12}))
	snap := srv.sim.Snapshot()
	assert.Equal(t, 14, snap.Width)
	assert.Equal(t, 12, snap.Height)
}

func TestParseCategory(t *testing.T) {
	cat, err := parseCategory("")
	require.NoError(t, err)
	assert.Equal(t, core.Temporary, cat)

	cat, err = parseCategory("semi_permanent")
	require.NoError(t, err)
	assert.Equal(t, core.SemiPermanent, cat)

	_, err = parseCategory("forever")
	assert.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestStatusEndpoint(t *testing.T) {
	srv := newTestServer(t)
	srv.apply(Command{Op: "pause"})
	rec := httptest.NewRecorder()
	srv.handleStatus(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Paused   bool          `json:"paused"`
		Snapshot core.Snapshot `json:"snapshot"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.True(t, body.Paused)
	assert.Equal(t, srv.sim.Params().Width, body.Snapshot.Width)
}

func TestWebSocketCommandRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	mux := http.NewServeMux()
	srv.Routes(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// The server pushes a snapshot on connect.
	var snap core.Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.Equal(t, srv.sim.Params().Width, snap.Width)

	require.NoError(t, conn.WriteJSON(Command{Op: "pause"}))
	var ack Ack
	require.NoError(t, conn.ReadJSON(&ack))
	assert.Equal(t, "pause", ack.Op)
	assert.True(t, ack.OK)

	require.NoError(t, conn.WriteJSON(Command{Op: "warp_robot"}))
	require.NoError(t, conn.ReadJSON(&ack))
	assert.False(t, ack.OK)
}

// Tick broadcasts, command acks and pings share one connection; the
// per-client write lock must keep them from interleaving. Run under
// -race this fails without the lock.
func TestConcurrentBroadcastAndCommands(t *testing.T) {
	srv := newTestServer(t)
	srv.tickRate = time.Millisecond
	mux := http.NewServeMux()
	srv.Routes(mux)
	ts := httptest.NewServer(mux)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Run(ctx)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Drain snapshots and acks until the server closes the connection.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for i := 0; i < 200; i++ {
		op := "pause"
		if i%2 == 1 {
			op = "resume"
		}
		require.NoError(t, conn.WriteJSON(Command{Op: op}))
	}

	cancel()
	<-done
}
