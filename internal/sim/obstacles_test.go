package sim

import (
	"errors"
	"testing"

	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

func obstacleGrid(t *testing.T) *core.Grid {
	t.Helper()
	g, err := core.NewGrid(8, 8)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	return g
}

func TestObstacleLifetimes(t *testing.T) {
	tests := []struct {
		cat  core.ObstacleCategory
		want int
		cell core.CellType
	}{
		{core.Temporary, 10, core.TemporaryObstacle},
		{core.SemiPermanent, 30, core.SemiPermanentObstacle},
	}
	for _, tc := range tests {
		if got := tc.cat.Lifetime(); got != tc.want {
			t.Errorf("%v.Lifetime() = %d, want %d", tc.cat, got, tc.want)
		}
		if got := tc.cat.CellType(); got != tc.cell {
			t.Errorf("%v.CellType() = %v, want %v", tc.cat, got, tc.cell)
		}
	}
}

func TestObstacleExpiryTiming(t *testing.T) {
	g := obstacleGrid(t)
	m := NewObstacleManager(g)
	if err := m.Add(3, 3, core.Temporary); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// Blocked for exactly Lifetime ticks, traversable after.
	for tick := 0; tick < core.Temporary.Lifetime(); tick++ {
		if g.IsTraversable(3, 3) {
			t.Fatalf("tick %d: cell traversable while obstacle active", tick)
		}
		m.Tick()
	}
	if !g.IsTraversable(3, 3) {
		t.Error("cell still blocked after lifetime elapsed")
	}
	if _, ok := m.RemainingLifetime(3, 3); ok {
		t.Error("expired obstacle still tracked")
	}
}

func TestObstacleAddRejectsOccupied(t *testing.T) {
	g := obstacleGrid(t)
	m := NewObstacleManager(g)

	g.SetCell(2, 2, core.Pickup)
	if err := m.Add(2, 2, core.Temporary); !errors.Is(err, core.ErrCellOccupied) {
		t.Errorf("Add on pickup err = %v, want ErrCellOccupied", err)
	}

	m.Add(4, 4, core.Temporary)
	if err := m.Add(4, 4, core.SemiPermanent); !errors.Is(err, core.ErrCellOccupied) {
		t.Errorf("Add on obstacle err = %v, want ErrCellOccupied", err)
	}

	if err := m.Add(99, 0, core.Temporary); !errors.Is(err, core.ErrOutOfBounds) {
		t.Errorf("Add out of bounds err = %v, want ErrOutOfBounds", err)
	}
}

func TestObstacleRemove(t *testing.T) {
	g := obstacleGrid(t)
	m := NewObstacleManager(g)
	m.Add(1, 1, core.SemiPermanent)

	if err := m.Remove(1, 1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !g.IsTraversable(1, 1) {
		t.Error("cell still blocked after Remove")
	}
	// Removing an empty cell is a no-op.
	if err := m.Remove(1, 1); err != nil {
		t.Errorf("Remove empty cell: %v", err)
	}
}

func TestTogglePermanent(t *testing.T) {
	g := obstacleGrid(t)
	m := NewObstacleManager(g)

	if err := m.TogglePermanent(5, 5); err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if ct, _ := g.CellType(5, 5); ct != core.PermanentObstacle {
		t.Errorf("cell = %v, want PermanentObstacle", ct)
	}
	if err := m.TogglePermanent(5, 5); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if ct, _ := g.CellType(5, 5); ct != core.Empty {
		t.Errorf("cell = %v, want Empty", ct)
	}

	g.SetCell(6, 6, core.Dropoff)
	if err := m.TogglePermanent(6, 6); !errors.Is(err, core.ErrCellOccupied) {
		t.Errorf("toggle on dropoff err = %v, want ErrCellOccupied", err)
	}
}

func TestObstaclesSortedSnapshot(t *testing.T) {
	g := obstacleGrid(t)
	m := NewObstacleManager(g)
	m.Add(5, 2, core.Temporary)
	m.Add(1, 2, core.Temporary)
	m.Add(3, 1, core.SemiPermanent)

	got := m.Obstacles()
	want := []core.Point{{X: 3, Y: 1}, {X: 1, Y: 2}, {X: 5, Y: 2}}
	if len(got) != len(want) {
		t.Fatalf("Obstacles() returned %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Pos != want[i] {
			t.Errorf("Obstacles()[%d].Pos = %v, want %v", i, got[i].Pos, want[i])
		}
	}
}
