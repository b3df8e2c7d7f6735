package core

import "sort"

// World bundles a grid with its robot fleet and outstanding items.
// Robots and items stay sorted by ID so that every iteration over the
// world is deterministic.
type World struct {
	Grid   *Grid
	Robots []*Robot
	Items  []*Item
}

// NewWorld wraps a grid with an empty fleet.
func NewWorld(g *Grid) *World {
	return &World{Grid: g}
}

// AddRobot inserts a robot keeping ID order.
func (w *World) AddRobot(r *Robot) {
	w.Robots = append(w.Robots, r)
	sort.Slice(w.Robots, func(i, j int) bool { return w.Robots[i].ID < w.Robots[j].ID })
}

// AddItem inserts an item keeping ID order and marks its cell.
func (w *World) AddItem(it *Item) {
	w.Items = append(w.Items, it)
	sort.Slice(w.Items, func(i, j int) bool { return w.Items[i].ID < w.Items[j].ID })
	w.Grid.SetCell(it.Pos.X, it.Pos.Y, Pickup)
}

// RobotByID returns the robot with the given ID, or nil.
func (w *World) RobotByID(id RobotID) *Robot {
	for _, r := range w.Robots {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// ItemByID returns the item with the given ID, or nil.
func (w *World) ItemByID(id ItemID) *Item {
	for _, it := range w.Items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// RobotAt returns the robot occupying p, or nil.
func (w *World) RobotAt(p Point) *Robot {
	for _, r := range w.Robots {
		if r.Pos == p {
			return r
		}
	}
	return nil
}

// AvailableItems returns items that are neither picked nor assigned,
// in ID order.
func (w *World) AvailableItems() []*Item {
	var out []*Item
	for _, it := range w.Items {
		if it.IsAvailable() {
			out = append(out, it)
		}
	}
	return out
}

// RemoveItem deletes a delivered item from the world.
func (w *World) RemoveItem(id ItemID) {
	for i, it := range w.Items {
		if it.ID == id {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			return
		}
	}
}

// Done reports whether every item has been delivered. Carried items
// still count as outstanding.
func (w *World) Done() bool {
	return len(w.Items) == 0
}
