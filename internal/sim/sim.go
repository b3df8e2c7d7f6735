package sim

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/google/uuid"

	"github.com/elektrokombinacija/warehouse-sim/internal/algo"
	"github.com/elektrokombinacija/warehouse-sim/internal/core"
)

// Params configures a simulation run.
type Params struct {
	Width  int `json:"width"`
	Height int `json:"height"`

	Robots        int `json:"robots"`
	RobotCapacity int `json:"robot_capacity"`

	Items         int `json:"items"`
	MaxItemWeight int `json:"max_item_weight"`

	// ObstacleDensity is the fraction of cells seeded with permanent
	// obstacles on reset.
	ObstacleDensity float64 `json:"obstacle_density"`

	Clustering bool   `json:"clustering"`
	Strategy   string `json:"strategy"`

	// Seed makes resets reproducible.
	Seed int64 `json:"seed"`

	// MaxTicks bounds the run; 0 means no ceiling.
	MaxTicks int `json:"max_ticks"`

	Verbose bool        `json:"verbose"`
	Stall   StallPolicy `json:"stall"`
}

// DefaultParams returns a small runnable configuration.
func DefaultParams() Params {
	return Params{
		Width:           20,
		Height:          15,
		Robots:          4,
		RobotCapacity:   15,
		Items:           12,
		MaxItemWeight:   8,
		ObstacleDensity: 0.08,
		Clustering:      true,
		Strategy:        "astar",
		Seed:            42,
		MaxTicks:        2000,
		Stall:           DefaultStallPolicy(),
	}
}

// Simulation is the single-threaded tick driver. All mutation happens
// through Step and the command methods; concurrent callers must
// serialize access themselves.
type Simulation struct {
	params    Params
	world     *core.World
	obstacles *ObstacleManager
	finder    algo.Strategy
	assigner  *ItemAssigner
	movement  *MovementController
	stall     *StallDetector
	tracker   Tracker
	rng       *rand.Rand

	tick      int
	delivered int
	steps     int
}

// New builds a simulation and generates its initial layout. A
// non-positive grid size is the one fatal configuration error.
func New(p Params, tracker Tracker) (*Simulation, error) {
	grid, err := core.NewGrid(p.Width, p.Height)
	if err != nil {
		return nil, err
	}
	finder, err := algo.ByName(p.Strategy)
	if err != nil {
		return nil, err
	}
	if tracker == nil {
		tracker = NopTracker{}
	}

	world := core.NewWorld(grid)
	s := &Simulation{
		params:    p,
		world:     world,
		obstacles: NewObstacleManager(grid),
		finder:    finder,
		assigner:  NewItemAssigner(world, finder, p.Clustering, p.Verbose),
		movement:  NewMovementController(world, finder, p.Verbose),
		stall:     NewStallDetector(p.Stall),
		tracker:   tracker,
		rng:       rand.New(rand.NewSource(p.Seed)),
	}
	if err := s.Reset(p.Robots, p.Items, p.ObstacleDensity); err != nil {
		return nil, err
	}
	return s, nil
}

// World exposes the live world for in-process consumers. External
// surfaces use Snapshot instead.
func (s *Simulation) World() *core.World { return s.world }

// Params returns the configuration the simulation was built with.
func (s *Simulation) Params() Params { return s.params }

// Tick returns the current tick number.
func (s *Simulation) Tick() int { return s.tick }

// Reset regenerates the layout: permanent obstacles seeded by density,
// a centered drop point, randomly placed robots and items. Every robot
// and item is guaranteed a route to the drop point. The tick counter
// restarts at zero; the same seed regenerates the same layout only on
// a fresh simulation.
func (s *Simulation) Reset(robots, items int, density float64) error {
	grid := s.world.Grid
	if err := grid.Resize(grid.Width(), grid.Height()); err != nil {
		return err
	}
	s.world.Robots = nil
	s.world.Items = nil
	s.obstacles = NewObstacleManager(grid)
	s.assigner = NewItemAssigner(s.world, s.finder, s.params.Clustering, s.params.Verbose)
	s.movement = NewMovementController(s.world, s.finder, s.params.Verbose)
	s.stall.Reset()
	s.tick = 0
	s.delivered = 0
	s.steps = 0

	drop := core.Point{X: grid.Width() / 2, Y: grid.Height() / 2}
	if err := grid.SetDropPoint(drop.X, drop.Y); err != nil {
		return err
	}

	s.scatterObstacles(density, drop)

	for i := 0; i < robots; i++ {
		pos, ok := s.randomReachableCell(drop)
		if !ok {
			return fmt.Errorf("placing robot %d: %w", i, core.ErrCellOccupied)
		}
		s.world.AddRobot(&core.Robot{
			ID:       core.RobotID(i),
			Pos:      pos,
			Capacity: s.params.RobotCapacity,
		})
	}

	for i := 0; i < items; i++ {
		pos, ok := s.randomReachableCell(drop)
		if !ok {
			return fmt.Errorf("placing item %d: %w", i, core.ErrCellOccupied)
		}
		weight := 1
		if s.params.MaxItemWeight > 1 {
			weight += s.rng.Intn(s.params.MaxItemWeight)
		}
		s.world.AddItem(&core.Item{
			ID:     core.ItemID(i),
			Pos:    pos,
			Weight: weight,
		})
	}

	if s.params.Verbose {
		log.Printf("layout reset: %dx%d grid, %d robots, %d items, density %.2f",
			grid.Width(), grid.Height(), robots, items, density)
	}
	return nil
}

// scatterObstacles seeds permanent obstacles. Cells that would cut the
// grid off from the drop point are skipped.
func (s *Simulation) scatterObstacles(density float64, drop core.Point) {
	grid := s.world.Grid
	want := int(density * float64(grid.Width()*grid.Height()))
	for placed, attempts := 0, 0; placed < want && attempts < want*10; attempts++ {
		x, y := s.rng.Intn(grid.Width()), s.rng.Intn(grid.Height())
		if t, _ := grid.CellType(x, y); t != core.Empty {
			continue
		}
		grid.SetCell(x, y, core.PermanentObstacle)
		// Reject placements that strand any neighbor of the new
		// obstacle from the drop point.
		trapped := false
		for _, nb := range grid.Neighbors(x, y) {
			if !grid.IsTraversable(nb.X, nb.Y) {
				continue
			}
			if _, err := s.finder.FindPath(grid, nb, drop); err != nil {
				trapped = true
				break
			}
		}
		if trapped {
			grid.SetCell(x, y, core.Empty)
			continue
		}
		placed++
	}
}

// randomReachableCell picks a random empty, unoccupied cell with a
// route to the drop point.
func (s *Simulation) randomReachableCell(drop core.Point) (core.Point, bool) {
	grid := s.world.Grid
	for attempts := 0; attempts < grid.Width()*grid.Height()*4; attempts++ {
		p := core.Point{X: s.rng.Intn(grid.Width()), Y: s.rng.Intn(grid.Height())}
		if t, _ := grid.CellType(p.X, p.Y); t != core.Empty {
			continue
		}
		if s.world.RobotAt(p) != nil {
			continue
		}
		if _, err := s.finder.FindPath(grid, p, drop); err != nil {
			continue
		}
		return p, true
	}
	return core.Point{}, false
}

// Step advances the simulation one tick: assignment and routing first,
// then movement with collision resolution, then stall recovery, and
// obstacle aging last so expiries are visible to the next planning
// pass.
func (s *Simulation) Step() {
	if s.Done() {
		return
	}

	s.assigner.Assign()

	steps, delivered := s.movement.Step(s.tracker)
	s.steps += steps
	s.delivered += delivered

	for _, id := range s.stall.Check(s.world, s.tick) {
		if r := s.world.RobotByID(id); r != nil {
			if s.params.Verbose {
				log.Printf("robot %d stalled, replanning", id)
			}
			s.movement.Replan(r, s.rng)
		}
	}

	s.obstacles.Tick()
	s.tick++
}

// Done reports whether every item was delivered or the tick ceiling
// was reached.
func (s *Simulation) Done() bool {
	if s.world.Done() {
		return true
	}
	return s.params.MaxTicks > 0 && s.tick >= s.params.MaxTicks
}

// TimedOut reports whether the run ended at the tick ceiling with
// items outstanding.
func (s *Simulation) TimedOut() bool {
	return !s.world.Done() && s.params.MaxTicks > 0 && s.tick >= s.params.MaxTicks
}

// Run steps the simulation to completion or context cancellation.
func (s *Simulation) Run(ctx context.Context) error {
	for !s.Done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.Step()
	}
	if s.TimedOut() {
		return fmt.Errorf("simulation timed out after %d ticks with %d items outstanding",
			s.tick, len(s.world.Items))
	}
	return nil
}

// PlaceObstacle adds a dynamic obstacle. Placements that would strand
// a robot or an unpicked item from the drop point are rejected.
func (s *Simulation) PlaceObstacle(x, y int, cat core.ObstacleCategory) error {
	if err := s.obstacles.Add(x, y, cat); err != nil {
		return err
	}
	if err := s.checkNoTrap(); err != nil {
		s.obstacles.Remove(x, y)
		return fmt.Errorf("obstacle at (%d,%d) traps an entity: %w", x, y, core.ErrCellOccupied)
	}
	return nil
}

// RemoveObstacle clears any obstacle at (x,y).
func (s *Simulation) RemoveObstacle(x, y int) error {
	return s.obstacles.Remove(x, y)
}

// TogglePermanent flips a permanent obstacle, subject to the same trap
// check as PlaceObstacle.
func (s *Simulation) TogglePermanent(x, y int) error {
	if err := s.obstacles.TogglePermanent(x, y); err != nil {
		return err
	}
	if t, _ := s.world.Grid.CellType(x, y); t == core.PermanentObstacle {
		if err := s.checkNoTrap(); err != nil {
			s.obstacles.TogglePermanent(x, y)
			return fmt.Errorf("obstacle at (%d,%d) traps an entity: %w", x, y, core.ErrCellOccupied)
		}
	}
	return nil
}

// checkNoTrap verifies every robot and unpicked item can still reach
// the drop point.
func (s *Simulation) checkNoTrap() error {
	drop, ok := s.world.Grid.DropPoint()
	if !ok {
		return nil
	}
	for _, r := range s.world.Robots {
		if _, err := s.finder.FindPath(s.world.Grid, r.Pos, drop); err != nil {
			return err
		}
	}
	for _, it := range s.world.Items {
		if it.Picked {
			continue
		}
		if _, err := s.finder.FindPath(s.world.Grid, it.Pos, drop); err != nil {
			return err
		}
	}
	return nil
}

// SetDropPoint moves the shared drop point.
func (s *Simulation) SetDropPoint(x, y int) error {
	return s.world.Grid.SetDropPoint(x, y)
}

// ResizeGrid rebuilds the world at the new dimensions with the current
// entity counts.
func (s *Simulation) ResizeGrid(width, height int) error {
	if err := s.world.Grid.Resize(width, height); err != nil {
		return err
	}
	s.params.Width = width
	s.params.Height = height
	return s.Reset(s.params.Robots, s.params.Items, s.params.ObstacleDensity)
}

// Snapshot copies the full simulation state for external consumers.
func (s *Simulation) Snapshot() core.Snapshot {
	grid := s.world.Grid
	snap := core.Snapshot{
		Tick:      s.tick,
		Width:     grid.Width(),
		Height:    grid.Height(),
		Cells:     grid.Cells(),
		Delivered: s.delivered,
		Steps:     s.steps,
		Done:      s.Done(),
	}
	if drop, ok := grid.DropPoint(); ok {
		d := drop
		snap.DropPoint = &d
	}
	for _, r := range s.world.Robots {
		rs := core.RobotSnapshot{
			ID:       r.ID,
			Pos:      r.Pos,
			Capacity: r.Capacity,
			Load:     r.Load,
			Carrying: r.CarryingIDs(),
			Steps:    r.Steps,
			Waiting:  r.Waiting,
		}
		rs.Path = append(core.Path(nil), r.Path...)
		snap.Robots = append(snap.Robots, rs)
	}
	for _, it := range s.world.Items {
		snap.Items = append(snap.Items, core.ItemSnapshot{
			ID:       it.ID,
			Pos:      it.Pos,
			Weight:   it.Weight,
			Picked:   it.Picked,
			Assigned: it.Assigned,
		})
	}
	for _, o := range s.obstacles.Obstacles() {
		snap.Obstacles = append(snap.Obstacles, core.ObstacleSnapshot{
			Pos:       o.Pos,
			Category:  o.Category.String(),
			Remaining: o.Remaining,
		})
	}
	return snap
}

// Report is the final output of a headless run.
type Report struct {
	RunID    string `json:"run_id"`
	Params   Params `json:"params"`
	Ticks    int    `json:"ticks"`
	TimedOut bool   `json:"timed_out"`
	Stats    Stats  `json:"stats"`
}

// ReportFrom assembles a run report with a fresh run ID.
func (s *Simulation) ReportFrom(tracker *PerformanceTracker) Report {
	return Report{
		RunID:    uuid.NewString(),
		Params:   s.params,
		Ticks:    s.tick,
		TimedOut: s.TimedOut(),
		Stats:    tracker.Stats(),
	}
}

// ExportReport writes a report as indented JSON.
func ExportReport(path string, r Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
