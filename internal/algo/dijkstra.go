package algo

import "github.com/elektrokombinacija/warehouse-sim/internal/core"

// Dijkstra is the uniform-cost alternate to A*. On a unit-cost grid it
// returns paths of the same length while expanding more cells, which
// makes it the benchmark baseline.
type Dijkstra struct{}

// NewDijkstra returns the uniform-cost strategy.
func NewDijkstra() *Dijkstra { return &Dijkstra{} }

func (d *Dijkstra) Name() string { return "dijkstra" }

// FindPath implements Strategy.
func (d *Dijkstra) FindPath(g *core.Grid, start, goal core.Point) (core.Path, error) {
	return gridSearch(g, start, goal, func(core.Point) int { return 0 })
}
