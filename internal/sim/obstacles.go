// Package sim contains the simulation engine: obstacle lifecycle, item
// assignment, collision resolution, robot movement, stall recovery and
// the single-threaded tick driver binding them together.
package sim

import (
	"fmt"
	"sort"

	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

// ObstacleManager owns dynamic obstacles and their lifetimes. Permanent
// obstacles live on the grid directly and are only toggled here.
type ObstacleManager struct {
	grid    *core.Grid
	dynamic map[core.Point]*core.Obstacle
}

// NewObstacleManager wraps a grid.
func NewObstacleManager(g *core.Grid) *ObstacleManager {
	return &ObstacleManager{grid: g, dynamic: make(map[core.Point]*core.Obstacle)}
}

// Add places a dynamic obstacle with its category's full lifetime. Only
// empty cells accept obstacles.
func (m *ObstacleManager) Add(x, y int, cat core.ObstacleCategory) error {
	t, err := m.grid.CellType(x, y)
	if err != nil {
		return err
	}
	if t != core.Empty {
		return fmt.Errorf("obstacle at (%d,%d) on %s: %w", x, y, t, core.ErrCellOccupied)
	}
	p := core.Point{X: x, Y: y}
	m.grid.SetCell(x, y, cat.CellType())
	m.dynamic[p] = &core.Obstacle{Pos: p, Category: cat, Remaining: cat.Lifetime()}
	return nil
}

// Remove clears a dynamic or permanent obstacle. Clearing a cell that
// holds no obstacle is a no-op.
func (m *ObstacleManager) Remove(x, y int) error {
	t, err := m.grid.CellType(x, y)
	if err != nil {
		return err
	}
	if !t.Blocking() {
		return nil
	}
	delete(m.dynamic, core.Point{X: x, Y: y})
	return m.grid.SetCell(x, y, core.Empty)
}

// TogglePermanent flips a cell between empty and permanent obstacle.
// Cells holding anything else reject the toggle.
func (m *ObstacleManager) TogglePermanent(x, y int) error {
	t, err := m.grid.CellType(x, y)
	if err != nil {
		return err
	}
	switch t {
	case core.Empty:
		return m.grid.SetCell(x, y, core.PermanentObstacle)
	case core.PermanentObstacle:
		return m.grid.SetCell(x, y, core.Empty)
	default:
		return fmt.Errorf("toggle at (%d,%d) on %s: %w", x, y, t, core.ErrCellOccupied)
	}
}

// Tick ages every dynamic obstacle by one tick and clears the expired
// ones. An obstacle placed with lifetime L blocks ticks 0..L-1 and its
// cell is traversable again on tick L. Returns the cleared cells.
func (m *ObstacleManager) Tick() []core.Point {
	var expired []core.Point
	for p, o := range m.dynamic {
		o.Remaining--
		if o.Remaining <= 0 {
			expired = append(expired, p)
		}
	}
	sort.Slice(expired, func(i, j int) bool {
		if expired[i].Y != expired[j].Y {
			return expired[i].Y < expired[j].Y
		}
		return expired[i].X < expired[j].X
	})
	for _, p := range expired {
		delete(m.dynamic, p)
		m.grid.SetCell(p.X, p.Y, core.Empty)
	}
	return expired
}

// RemainingLifetime reports the ticks left for the dynamic obstacle at
// (x,y), if one exists.
func (m *ObstacleManager) RemainingLifetime(x, y int) (int, bool) {
	o, ok := m.dynamic[core.Point{X: x, Y: y}]
	if !ok {
		return 0, false
	}
	return o.Remaining, true
}

// Obstacles returns the dynamic obstacles sorted by position.
func (m *ObstacleManager) Obstacles() []core.Obstacle {
	out := make([]core.Obstacle, 0, len(m.dynamic))
	for _, o := range m.dynamic {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos.Y != out[j].Pos.Y {
			return out[i].Pos.Y < out[j].Pos.Y
		}
		return out[i].Pos.X < out[j].Pos.X
	})
	return out
}
