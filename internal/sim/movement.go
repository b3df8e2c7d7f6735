package sim

import (
	"log"
	"math/rand"

	"github.com/elektrokombinacija/warehouse-sim/internal/algo"
	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

// MovementController advances every robot one cell per tick. A tick is
// three phases: collect proposed moves, resolve collisions, commit the
// surviving moves along with pickups and deliveries.
type MovementController struct {
	world    *core.World
	finder   algo.Strategy
	resolver CollisionResolver
	stuck    map[core.RobotID]int
	verbose  bool
}

// NewMovementController builds a controller over a world.
func NewMovementController(w *core.World, finder algo.Strategy, verbose bool) *MovementController {
	return &MovementController{
		world:   w,
		finder:  finder,
		stuck:   make(map[core.RobotID]int),
		verbose: verbose,
	}
}

// StuckTime reports how many consecutive ticks a robot has failed to
// move.
func (c *MovementController) StuckTime(id core.RobotID) int {
	return c.stuck[id]
}

// Step moves the fleet one tick and reports steps taken and items
// delivered to the tracker.
func (c *MovementController) Step(tracker Tracker) (steps, delivered int) {
	proposed := make(map[core.RobotID]core.Point)
	for _, r := range c.world.Robots {
		if len(r.Path) == 0 {
			continue
		}
		next := r.Path[0]
		if !c.world.Grid.IsTraversable(next.X, next.Y) {
			// An obstacle appeared under a stale path. Drop the
			// path rather than walk into the obstacle; the
			// assigner re-routes next cycle.
			r.Path = nil
			continue
		}
		proposed[r.ID] = next
	}

	skip := c.resolver.Resolve(c.world, proposed, c.stuck)

	for _, r := range c.world.Robots {
		if len(r.Path) == 0 {
			// A robot can already stand on its target or the drop
			// point, e.g. right after assignment. Handle the
			// interaction even without a move.
			c.checkPickup(r)
			delivered += c.checkDelivery(r)
			if r.IsCarrying() && len(r.Path) == 0 {
				c.stuck[r.ID]++
			}
			continue
		}
		if _, ok := proposed[r.ID]; !ok {
			continue
		}
		if skip[r.ID] {
			c.stuck[r.ID]++
			r.Waiting = true
			continue
		}

		c.stuck[r.ID] = 0
		r.Waiting = false
		r.Pos = r.Path[0]
		r.Path = r.Path[1:]
		r.Steps++
		steps++

		c.checkPickup(r)
		delivered += c.checkDelivery(r)
	}

	tracker.OnSteps(steps)
	tracker.OnItemsDelivered(delivered)
	return steps, delivered
}

// checkPickup loads any of the robot's targets it stands on. Picking
// up the head target re-routes the robot; a later target crossed on
// the way is harvested without touching the current route.
func (c *MovementController) checkPickup(r *core.Robot) {
	for i, it := range r.Targets {
		if r.Pos != it.Pos {
			continue
		}
		if err := r.PickUp(it); err != nil {
			if i > 0 {
				// A later target underfoot that does not fit yet;
				// keep walking the planned route.
				return
			}
			// Next target no longer fits; head for the drop point and
			// keep the target for a later trip.
			if c.verbose {
				log.Printf("robot %d at item %d but over capacity", r.ID, it.ID)
			}
			c.routeToDrop(r)
			return
		}
		r.Targets = append(r.Targets[:i], r.Targets[i+1:]...)
		c.world.Grid.SetCell(it.Pos.X, it.Pos.Y, core.Empty)
		if c.verbose {
			log.Printf("robot %d picked up item %d (%dkg)", r.ID, it.ID, it.Weight)
		}
		if i == 0 {
			c.continueRoute(r)
		}
		return
	}
}

// continueRoute sends the robot to its next target if the item still
// fits, otherwise to the drop point.
func (c *MovementController) continueRoute(r *core.Robot) {
	if len(r.Targets) > 0 && r.Load+r.Targets[0].Weight <= r.Capacity {
		next := r.Targets[0]
		if path, err := c.finder.FindPath(c.world.Grid, r.Pos, next.Pos); err == nil {
			r.Path = path
			return
		}
	}
	c.routeToDrop(r)
}

func (c *MovementController) routeToDrop(r *core.Robot) {
	drop, ok := c.world.Grid.DropPoint()
	if !ok {
		r.Path = nil
		return
	}
	path, err := c.finder.FindPath(c.world.Grid, r.Pos, drop)
	if err != nil {
		// Left pathless; the assigner retries with backoff.
		r.Path = nil
		return
	}
	r.Path = path
}

// checkDelivery unloads the robot at the drop point and removes the
// delivered items from the world.
func (c *MovementController) checkDelivery(r *core.Robot) int {
	drop, ok := c.world.Grid.DropPoint()
	if !ok || !r.IsCarrying() || r.Pos != drop {
		return 0
	}
	dropped := r.DropAll()
	for _, it := range dropped {
		c.world.RemoveItem(it.ID)
	}
	r.Path = nil
	if c.verbose {
		log.Printf("robot %d delivered %d items", r.ID, len(dropped))
	}
	return len(dropped)
}

// Replan discards a stalled robot's path and, when possible, sidesteps
// it onto a random traversable neighbor so the next route starts from
// outside the local obstruction.
func (c *MovementController) Replan(r *core.Robot, rng *rand.Rand) {
	r.Path = nil
	c.stuck[r.ID] = 0
	var open []core.Point
	for _, nb := range c.world.Grid.Neighbors(r.Pos.X, r.Pos.Y) {
		if c.world.Grid.IsTraversable(nb.X, nb.Y) && c.world.RobotAt(nb) == nil {
			open = append(open, nb)
		}
	}
	if len(open) == 0 || rng == nil {
		return
	}
	r.Path = core.Path{open[rng.Intn(len(open))]}
}
