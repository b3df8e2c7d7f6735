package sim

import (
	"log"
	"sort"

	"github.com/elektrokombinacija/warehouse-sim/internal/algo"
	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

const (
	// maxAttempts is the pathfinding failure count after which a
	// (robot, item) pairing is abandoned.
	maxAttempts = 3
	// proximityRadius bounds the Manhattan distance between items
	// grouped into one pickup cluster.
	proximityRadius = 5
	// backoffResetEvery clears the failure history periodically so
	// abandoned pairings are retried once obstacles shift.
	backoffResetEvery = 20
)

type assignKey struct {
	robot core.RobotID
	item  core.ItemID
}

// ItemAssigner claims items for idle robots and keeps busy robots
// routed. With clustering enabled a robot claims a group of nearby
// items up to its capacity; otherwise it claims the single nearest
// reachable item.
type ItemAssigner struct {
	world      *core.World
	finder     algo.Strategy
	Clustering bool

	failed     map[assignKey]int
	dropFailed map[core.RobotID]int
	cycles     int
	verbose    bool
}

// NewItemAssigner builds an assigner over a world.
func NewItemAssigner(w *core.World, finder algo.Strategy, clustering, verbose bool) *ItemAssigner {
	return &ItemAssigner{
		world:      w,
		finder:     finder,
		Clustering: clustering,
		failed:     make(map[assignKey]int),
		dropFailed: make(map[core.RobotID]int),
		verbose:    verbose,
	}
}

// Assign runs one assignment cycle: re-route carrying robots to the
// drop point, re-route robots that lost their path to a target, then
// hand out available items to idle robots in ascending ID order.
func (a *ItemAssigner) Assign() {
	a.cycles++
	if a.cycles%backoffResetEvery == 0 {
		a.failed = make(map[assignKey]int)
		a.dropFailed = make(map[core.RobotID]int)
	}

	for _, r := range a.world.Robots {
		switch {
		case r.IsCarrying() && len(r.Path) == 0:
			a.routeToDrop(r)
		case !r.IsCarrying() && len(r.Targets) > 0 && len(r.Path) == 0:
			a.routeToTarget(r)
		}
	}

	for _, r := range a.world.Robots {
		if r.IsIdle() {
			a.assignIdle(r)
		}
	}
}

// routeToDrop paths a loaded robot to the drop point. After repeated
// failures the cargo is released back onto the grid so other robots
// can claim it.
func (a *ItemAssigner) routeToDrop(r *core.Robot) {
	drop, ok := a.world.Grid.DropPoint()
	if !ok {
		return
	}
	path, err := a.finder.FindPath(a.world.Grid, r.Pos, drop)
	if err == nil {
		r.Path = path
		return
	}
	a.dropFailed[r.ID]++
	if a.dropFailed[r.ID] < maxAttempts {
		return
	}
	if a.verbose {
		log.Printf("robot %d cannot reach drop point, releasing %d items", r.ID, len(r.Carrying))
	}
	for _, it := range r.DropAll() {
		it.Picked = false
		it.Assigned = false
		// The origin cell may have gained an obstacle since pickup;
		// release at the robot instead of clobbering it.
		if t, err := a.world.Grid.CellType(it.Pos.X, it.Pos.Y); err != nil || t != core.Empty {
			it.Pos = r.Pos
		}
		if t, _ := a.world.Grid.CellType(it.Pos.X, it.Pos.Y); t == core.Empty {
			a.world.Grid.SetCell(it.Pos.X, it.Pos.Y, core.Pickup)
		}
	}
	delete(a.dropFailed, r.ID)
}

// routeToTarget re-paths a robot to its first target item. After
// repeated failures all its targets are unassigned.
func (a *ItemAssigner) routeToTarget(r *core.Robot) {
	first := r.Targets[0]
	path, err := a.finder.FindPath(a.world.Grid, r.Pos, first.Pos)
	if err == nil {
		r.Path = path
		return
	}
	key := assignKey{robot: r.ID, item: first.ID}
	a.failed[key]++
	if a.failed[key] < maxAttempts {
		return
	}
	if a.verbose {
		log.Printf("robot %d abandoned item %d after %d attempts", r.ID, first.ID, maxAttempts)
	}
	for _, it := range r.Targets {
		it.Assigned = false
	}
	r.Targets = nil
}

// assignIdle claims items for one idle robot.
func (a *ItemAssigner) assignIdle(r *core.Robot) {
	candidates := a.validItems(r)
	if len(candidates) == 0 {
		return
	}

	if !a.Clustering {
		a.assignNearest(r, candidates)
		return
	}

	cluster := bestCluster(clusterItems(candidates), r)
	if len(cluster) == 0 {
		return
	}

	first := cluster[0]
	path, err := a.finder.FindPath(a.world.Grid, r.Pos, first.Pos)
	if err != nil {
		a.failed[assignKey{robot: r.ID, item: first.ID}]++
		return
	}

	var selected []*core.Item
	load := 0
	for _, it := range cluster {
		if load+it.Weight > r.Capacity {
			continue
		}
		selected = append(selected, it)
		load += it.Weight
		it.Assigned = true
	}
	r.Targets = selected
	r.Path = path
	if a.verbose {
		log.Printf("robot %d assigned %d items (%dkg), first item %d", r.ID, len(selected), load, first.ID)
	}
}

// assignNearest claims the single closest reachable item.
func (a *ItemAssigner) assignNearest(r *core.Robot, candidates []*core.Item) {
	it := candidates[0]
	path, err := a.finder.FindPath(a.world.Grid, r.Pos, it.Pos)
	if err != nil {
		a.failed[assignKey{robot: r.ID, item: it.ID}]++
		return
	}
	it.Assigned = true
	r.Targets = []*core.Item{it}
	r.Path = path
	if a.verbose {
		log.Printf("robot %d assigned item %d (%dkg)", r.ID, it.ID, it.Weight)
	}
}

// validItems returns available items the robot could carry, excluding
// backed-off pairings, nearest first. Distance ties break by item ID.
func (a *ItemAssigner) validItems(r *core.Robot) []*core.Item {
	var out []*core.Item
	for _, it := range a.world.AvailableItems() {
		if it.Weight > r.Capacity {
			continue
		}
		if a.failed[assignKey{robot: r.ID, item: it.ID}] >= maxAttempts {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		di := core.Manhattan(out[i].Pos, r.Pos)
		dj := core.Manhattan(out[j].Pos, r.Pos)
		if di != dj {
			return di < dj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// clusterItems greedily groups items within proximityRadius of a seed.
// Items arrive nearest-first, so each seed is the closest unclustered
// item to the robot.
func clusterItems(items []*core.Item) [][]*core.Item {
	var clusters [][]*core.Item
	remaining := append([]*core.Item(nil), items...)
	for len(remaining) > 0 {
		seed := remaining[0]
		cluster := []*core.Item{seed}
		rest := remaining[:0]
		for _, it := range remaining[1:] {
			if core.Manhattan(it.Pos, seed.Pos) <= proximityRadius {
				cluster = append(cluster, it)
			} else {
				rest = append(rest, it)
			}
		}
		remaining = rest
		clusters = append(clusters, cluster)
	}
	return clusters
}

// bestCluster scores clusters by capacity utilization minus a distance
// penalty and returns the winning cluster's items that fit.
func bestCluster(clusters [][]*core.Item, r *core.Robot) []*core.Item {
	bestScore := -1.0
	var best []*core.Item
	for _, cluster := range clusters {
		load := 0
		var fits []*core.Item
		for _, it := range cluster {
			if load+it.Weight <= r.Capacity {
				load += it.Weight
				fits = append(fits, it)
			}
		}
		if len(fits) == 0 {
			continue
		}
		utilization := float64(load) / float64(r.Capacity)
		distance := float64(core.Manhattan(cluster[0].Pos, r.Pos))
		score := utilization*100 - distance*0.5
		if score > bestScore {
			bestScore = score
			best = fits
		}
	}
	return best
}
