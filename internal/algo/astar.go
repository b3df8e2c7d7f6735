package algo

import (
	"container/heap"
	"fmt"

	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

// searchNode for priority queue.
type searchNode struct {
	pos    core.Point
	g      int // cost so far
	f      int // g + h
	seq    int // insertion order, breaks f-ties deterministically
	parent *searchNode
	index  int // heap index
}

// searchHeap implements heap.Interface.
type searchHeap []*searchNode

func (h searchHeap) Len() int { return len(h) }
func (h searchHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h searchHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *searchHeap) Push(x any) {
	n := x.(*searchNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *searchHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// AStar is the primary path strategy: 4-connected A* with a Manhattan
// heuristic. Unit step cost makes the heuristic admissible, so found
// paths are shortest.
type AStar struct{}

// NewAStar returns the A* strategy.
func NewAStar() *AStar { return &AStar{} }

func (a *AStar) Name() string { return "astar" }

// FindPath implements Strategy.
func (a *AStar) FindPath(g *core.Grid, start, goal core.Point) (core.Path, error) {
	return gridSearch(g, start, goal, func(p core.Point) int {
		return core.Manhattan(p, goal)
	})
}

// gridSearch runs best-first search with the given heuristic. A zero
// heuristic degrades it to uniform-cost search.
func gridSearch(g *core.Grid, start, goal core.Point, heuristic func(core.Point) int) (core.Path, error) {
	if !g.InBounds(start.X, start.Y) || !g.InBounds(goal.X, goal.Y) {
		return nil, fmt.Errorf("path %v -> %v: %w", start, goal, core.ErrOutOfBounds)
	}
	if start == goal {
		return core.Path{}, nil
	}
	if !g.IsTraversable(goal.X, goal.Y) {
		return nil, fmt.Errorf("path %v -> %v: %w", start, goal, core.ErrNoPathFound)
	}

	open := &searchHeap{}
	heap.Init(open)

	seq := 0
	heap.Push(open, &searchNode{pos: start, g: 0, f: heuristic(start), seq: seq})

	visited := make(map[core.Point]bool)

	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)

		if current.pos == goal {
			return reconstructPath(current), nil
		}
		if visited[current.pos] {
			continue
		}
		visited[current.pos] = true

		for _, nb := range g.Neighbors(current.pos.X, current.pos.Y) {
			if visited[nb] || !g.IsTraversable(nb.X, nb.Y) {
				continue
			}
			seq++
			heap.Push(open, &searchNode{
				pos:    nb,
				g:      current.g + 1,
				f:      current.g + 1 + heuristic(nb),
				seq:    seq,
				parent: current,
			})
		}
	}

	return nil, fmt.Errorf("path %v -> %v: %w", start, goal, core.ErrNoPathFound)
}

// reconstructPath walks parent links back to the start. The start cell
// itself is excluded from the result.
func reconstructPath(node *searchNode) core.Path {
	var rev core.Path
	for n := node; n.parent != nil; n = n.parent {
		rev = append(rev, n.pos)
	}
	path := make(core.Path, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path
}
