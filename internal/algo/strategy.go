// Package algo implements pluggable pathfinding strategies over the
// warehouse grid.
package algo

import (
	"fmt"

	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

// Strategy computes a route between two grid cells. Implementations
// must be deterministic: identical inputs yield identical paths.
type Strategy interface {
	// FindPath returns the cells to traverse from start to goal,
	// excluding start and ending at goal. An empty path with a nil
	// error means start == goal. Unreachable goals return
	// core.ErrNoPathFound.
	FindPath(g *core.Grid, start, goal core.Point) (core.Path, error)
	Name() string
}

// ByName returns the strategy registered under name.
func ByName(name string) (Strategy, error) {
	switch name {
	case "astar", "a*", "":
		return NewAStar(), nil
	case "dijkstra":
		return NewDijkstra(), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}

// Names lists every registered strategy name.
func Names() []string {
	return []string{"astar", "dijkstra"}
}
